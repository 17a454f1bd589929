package canvas

import (
	"sync"

	"go.uber.org/zap"

	"github.com/trishajanath/altx-canvas/api/schemas"
	"github.com/trishajanath/altx-canvas/internal/config"
)

// Editor owns the live pipeline graph, the node-type registry, and the
// viewport transform. All operations are synchronous and guarded no-ops on
// invalid IDs; none of them can fail at the data-structure level.
//
// Every structural mutation (inject, remove, config update) increments a
// monotonic version counter and pushes a fresh serialization to the
// registered pipeline-changed callback. That callback is the sole
// notification path to collaborators outside the editor; they only ever see
// immutable snapshots, never the live state.
type Editor struct {
	mu        sync.Mutex
	graph     *Graph
	registry  *Registry
	checklist schemas.SecurityChecklist
	viewport  schemas.Viewport
	version   uint64

	cfg config.EditorConfig
	log *zap.Logger

	onPipelineChanged schemas.PipelineChangedFunc
	onCodeInjected    schemas.CodeInjectedFunc
}

// NewEditor creates an editor with an empty graph and the built-in registry.
func NewEditor(cfg config.EditorConfig, logger *zap.Logger) *Editor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Editor{
		graph:    NewGraph(),
		registry: NewRegistry(),
		viewport: schemas.Viewport{Zoom: 1.0},
		cfg:      cfg,
		log:      logger.Named("editor"),
	}
}

// OnPipelineChanged registers the snapshot callback.
func (e *Editor) OnPipelineChanged(fn schemas.PipelineChangedFunc) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onPipelineChanged = fn
}

// OnCodeInjected registers the code-preview callback fired by InjectNode.
func (e *Editor) OnCodeInjected(fn schemas.CodeInjectedFunc) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onCodeInjected = fn
}

// Registry exposes the node-type registry.
func (e *Editor) Registry() *Registry { return e.registry }

// SetGraph replaces the live graph with a fresh analyzer result.
func (e *Editor) SetGraph(nodes []schemas.Node, edges []schemas.Edge, checklist schemas.SecurityChecklist) {
	e.mu.Lock()
	e.graph.Load(nodes, edges)
	e.checklist = checklist
	e.version++
	snap, notify := serialize(e.graph, e.registry, e.checklist, e.version), e.onPipelineChanged
	e.mu.Unlock()

	e.log.Info("Graph replaced", zap.Int("nodes", len(nodes)), zap.Int("edges", len(edges)))
	if notify != nil {
		notify(snap)
	}
}

// MoveNode relocates a node in graph space. Position is cosmetic, so moving
// does not bump the version counter or notify consumers.
func (e *Editor) MoveNode(id string, pos schemas.Position) {
	e.mu.Lock()
	ok := e.graph.MoveNode(id, pos)
	e.mu.Unlock()
	if !ok {
		e.log.Debug("MoveNode ignored: unknown node", zap.String("node_id", id))
	}
}

// DragNode relocates a node from a pointer position reported in screen
// space. The screen coordinate is mapped back to graph space by inverting
// the current viewport transform, then the recorded drag offset (pointer
// down minus node origin, already in graph space) is applied, so the node
// tracks the cursor exactly at any zoom level.
func (e *Editor) DragNode(id string, screen schemas.Position, grabOffset schemas.Position) {
	e.mu.Lock()
	graphPos := e.viewport.ToGraph(screen)
	ok := e.graph.MoveNode(id, schemas.Position{
		X: graphPos.X - grabOffset.X,
		Y: graphPos.Y - grabOffset.Y,
	})
	e.mu.Unlock()
	if !ok {
		e.log.Debug("DragNode ignored: unknown node", zap.String("node_id", id))
	}
}

// InjectNode splits the targeted edge with a new node of the given registry
// type. The drop position is where the user released the drag; the node is
// placed at the midpoint of the split edge regardless, keeping the chain
// layout readable. Unknown edge or type IDs are silent no-ops.
func (e *Editor) InjectNode(edgeID, typeID string, dropPos schemas.Position) {
	e.mu.Lock()
	def, ok := e.registry.Get(typeID)
	if !ok {
		e.mu.Unlock()
		e.log.Debug("InjectNode ignored: unknown type", zap.String("type_id", typeID))
		return
	}
	node, ok := e.graph.Inject(edgeID, def)
	if !ok {
		e.mu.Unlock()
		e.log.Debug("InjectNode ignored: unknown edge", zap.String("edge_id", edgeID))
		return
	}
	e.version++
	snap, notify := serialize(e.graph, e.registry, e.checklist, e.version), e.onPipelineChanged
	codeCb := e.onCodeInjected
	e.mu.Unlock()

	e.log.Info("Node injected",
		zap.String("node_id", node.ID),
		zap.String("type_id", typeID),
		zap.Float64("drop_x", dropPos.X),
		zap.Float64("drop_y", dropPos.Y))

	if codeCb != nil {
		codeCb(def.CodeTemplate, typeID)
	}
	if notify != nil {
		notify(snap)
	}
}

// RemoveNode deletes a node and splices its neighbors back together. Source
// and destination nodes are refused; unknown IDs are no-ops.
func (e *Editor) RemoveNode(id string) {
	e.mu.Lock()
	if !e.graph.Remove(id) {
		e.mu.Unlock()
		e.log.Debug("RemoveNode refused", zap.String("node_id", id))
		return
	}
	e.version++
	snap, notify := serialize(e.graph, e.registry, e.checklist, e.version), e.onPipelineChanged
	e.mu.Unlock()

	e.log.Info("Node removed", zap.String("node_id", id))
	if notify != nil {
		notify(snap)
	}
}

// UpdateNodeConfig merges one key into a node's config map. The contract is
// permissive about value types; the UI layer does its own coercion.
func (e *Editor) UpdateNodeConfig(id, key string, value any) {
	e.mu.Lock()
	if !e.graph.UpdateNodeConfig(id, key, value) {
		e.mu.Unlock()
		e.log.Debug("UpdateNodeConfig ignored: unknown node", zap.String("node_id", id))
		return
	}
	e.version++
	snap, notify := serialize(e.graph, e.registry, e.checklist, e.version), e.onPipelineChanged
	e.mu.Unlock()

	if notify != nil {
		notify(snap)
	}
}

// RegisterNodeType appends a custom or AI-generated definition to the
// registry. Definitions without a label are rejected.
func (e *Editor) RegisterNodeType(def schemas.NodeTypeDefinition) (schemas.NodeTypeDefinition, error) {
	registered, err := e.registry.Register(def)
	if err != nil {
		e.log.Debug("RegisterNodeType rejected", zap.Error(err))
		return schemas.NodeTypeDefinition{}, err
	}
	e.log.Info("Node type registered",
		zap.String("type_id", registered.ID),
		zap.String("origin", string(registered.Origin)))
	return registered, nil
}

// Serialize produces the ordered pipeline snapshot, or nil when the graph
// has no source node.
func (e *Editor) Serialize() *schemas.PipelineSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return serialize(e.graph, e.registry, e.checklist, e.version)
}

// SetViewport stores a new pan/zoom transform, clamping zoom to the
// configured range. The logical graph is unaffected.
func (e *Editor) SetViewport(pan schemas.Position, zoom float64) {
	if zoom < e.cfg.MinZoom {
		zoom = e.cfg.MinZoom
	} else if zoom > e.cfg.MaxZoom {
		zoom = e.cfg.MaxZoom
	}
	e.mu.Lock()
	e.viewport = schemas.Viewport{Pan: pan, Zoom: zoom}
	e.mu.Unlock()
}

// Viewport returns the current transform.
func (e *Editor) Viewport() schemas.Viewport {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.viewport
}

// Nodes returns copies of the live nodes in chain order.
func (e *Editor) Nodes() []schemas.Node {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.graph.Nodes()
}

// Edges returns copies of the live edges in chain order.
func (e *Editor) Edges() []schemas.Edge {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.graph.Edges()
}

// Node returns a copy of one node.
func (e *Editor) Node(id string) (schemas.Node, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.graph.Node(id)
}

// Checklist returns the security checklist from the last analysis pass.
func (e *Editor) Checklist() schemas.SecurityChecklist {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.checklist
}

// Version returns the current value of the mutation counter.
func (e *Editor) Version() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.version
}

// HasSecurityType reports whether any live node references the given type.
// The animator uses this to decide packet coloring during attack simulation.
func (e *Editor) HasSecurityType(typeID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.graph.HasSecurityType(typeID)
}
