package canvas

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/trishajanath/altx-canvas/api/schemas"
)

// Graph is the live pipeline graph. It is constrained to a single simple
// chain from the source node to the terminal node, and the constraint is
// enforced structurally: the graph can only be mutated through the
// operations below, each of which preserves chain connectivity.
//
// Graph is not safe for concurrent use; the Editor serializes access.
type Graph struct {
	nodes map[string]*schemas.Node
	edges map[string]*schemas.Edge
	// Chain indexes. At most one outgoing and one incoming edge per node.
	outgoing map[string]string // node ID -> edge ID
	incoming map[string]string // node ID -> edge ID
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{
		nodes:    make(map[string]*schemas.Node),
		edges:    make(map[string]*schemas.Edge),
		outgoing: make(map[string]string),
		incoming: make(map[string]string),
	}
}

// Load replaces the graph contents with an analyzer result. Input slices are
// copied; the caller keeps ownership of its values.
func (g *Graph) Load(nodes []schemas.Node, edges []schemas.Edge) {
	g.nodes = make(map[string]*schemas.Node, len(nodes))
	g.edges = make(map[string]*schemas.Edge, len(edges))
	g.outgoing = make(map[string]string, len(nodes))
	g.incoming = make(map[string]string, len(nodes))

	for _, n := range nodes {
		node := n
		g.nodes[node.ID] = &node
	}
	for _, e := range edges {
		edge := e
		if _, ok := g.nodes[edge.From]; !ok {
			continue
		}
		if _, ok := g.nodes[edge.To]; !ok {
			continue
		}
		g.edges[edge.ID] = &edge
		g.outgoing[edge.From] = edge.ID
		g.incoming[edge.To] = edge.ID
	}
}

// Node returns a copy of the node with the given ID.
func (g *Graph) Node(id string) (schemas.Node, bool) {
	n, ok := g.nodes[id]
	if !ok {
		return schemas.Node{}, false
	}
	return *n, true
}

// Edge returns a copy of the edge with the given ID.
func (g *Graph) Edge(id string) (schemas.Edge, bool) {
	e, ok := g.edges[id]
	if !ok {
		return schemas.Edge{}, false
	}
	return *e, true
}

// Nodes returns copies of all nodes in chain order, starting from the source
// node. Orphaned nodes (none should exist) are appended at the end.
func (g *Graph) Nodes() []schemas.Node {
	ordered := make([]schemas.Node, 0, len(g.nodes))
	seen := make(map[string]bool, len(g.nodes))
	for _, n := range g.walk() {
		ordered = append(ordered, *n)
		seen[n.ID] = true
	}
	for _, n := range g.nodes {
		if !seen[n.ID] {
			ordered = append(ordered, *n)
		}
	}
	return ordered
}

// Edges returns copies of all edges in chain order.
func (g *Graph) Edges() []schemas.Edge {
	chain := g.walk()
	edges := make([]schemas.Edge, 0, len(g.edges))
	for _, n := range chain {
		if edgeID, ok := g.outgoing[n.ID]; ok {
			if e, ok := g.edges[edgeID]; ok {
				edges = append(edges, *e)
			}
		}
	}
	return edges
}

// Source returns the unique source node, if present.
func (g *Graph) Source() (schemas.Node, bool) {
	for _, n := range g.nodes {
		if n.Kind == schemas.KindSource {
			return *n, true
		}
	}
	return schemas.Node{}, false
}

// walk returns the chain from the source node, following the single outgoing
// edge at each step. A visited set guards against cycles so a corrupted
// graph can never hang the caller.
func (g *Graph) walk() []*schemas.Node {
	var src *schemas.Node
	for _, n := range g.nodes {
		if n.Kind == schemas.KindSource {
			src = n
			break
		}
	}
	if src == nil {
		return nil
	}

	var chain []*schemas.Node
	visited := make(map[string]bool, len(g.nodes))
	for cur := src; cur != nil && !visited[cur.ID]; {
		visited[cur.ID] = true
		chain = append(chain, cur)

		edgeID, ok := g.outgoing[cur.ID]
		if !ok {
			break
		}
		edge, ok := g.edges[edgeID]
		if !ok {
			break
		}
		cur = g.nodes[edge.To]
	}
	return chain
}

// MoveNode relocates a node in graph space. Unknown IDs are a no-op.
func (g *Graph) MoveNode(id string, pos schemas.Position) bool {
	n, ok := g.nodes[id]
	if !ok {
		return false
	}
	n.Position = pos
	return true
}

// UpdateNodeConfig merges a key into the node's config map. Any value type
// is accepted. Unknown IDs are a no-op.
func (g *Graph) UpdateNodeConfig(id, key string, value any) bool {
	n, ok := g.nodes[id]
	if !ok {
		return false
	}
	if n.Config == nil {
		n.Config = make(map[string]any)
	}
	n.Config[key] = value
	return true
}

// Inject splits the targeted edge with a new security node built from the
// given registry definition: the old edge is removed and two replacement
// edges bracket the new node. The inbound edge inherits the old edge's
// encryption flag; the outbound edge is marked encrypted. The new node sits
// at the midpoint between the old edge's endpoints.
//
// Returns the created node, or ok=false when the edge does not exist.
func (g *Graph) Inject(edgeID string, def schemas.NodeTypeDefinition) (schemas.Node, bool) {
	edge, ok := g.edges[edgeID]
	if !ok {
		return schemas.Node{}, false
	}
	from := g.nodes[edge.From]
	to := g.nodes[edge.To]

	node := &schemas.Node{
		ID:             newNodeID(def.ID),
		Kind:           schemas.KindSecurity,
		Label:          def.Label,
		Description:    def.Description,
		DataFlow:       fmt.Sprintf("Traffic between %s and %s.", from.Label, to.Label),
		Position:       midpoint(from.Position, to.Position),
		Style:          def.Style,
		SecurityTypeID: def.ID,
		Config:         schemas.DefaultConfig(def.ID),
	}
	g.nodes[node.ID] = node

	delete(g.edges, edgeID)

	inbound := &schemas.Edge{
		ID:            fmt.Sprintf("edge-%s-%s", from.ID, node.ID),
		From:          from.ID,
		To:            node.ID,
		Encrypted:     edge.Encrypted,
		DataFlowLabel: fmt.Sprintf("Data flowing from %s to %s", from.Label, node.Label),
	}
	outbound := &schemas.Edge{
		ID:            fmt.Sprintf("edge-%s-%s", node.ID, to.ID),
		From:          node.ID,
		To:            to.ID,
		Encrypted:     true,
		DataFlowLabel: fmt.Sprintf("Data flowing from %s to %s (secured)", node.Label, to.Label),
	}
	g.edges[inbound.ID] = inbound
	g.edges[outbound.ID] = outbound
	g.outgoing[from.ID] = inbound.ID
	g.incoming[node.ID] = inbound.ID
	g.outgoing[node.ID] = outbound.ID
	g.incoming[to.ID] = outbound.ID

	return *node, true
}

// Remove deletes a node and reconnects its predecessor directly to its
// successor, preserving chain connectivity. Source and destination nodes are
// structural anchors and are refused. The replacement edge is encrypted only
// if both removed edges were.
func (g *Graph) Remove(id string) bool {
	node, ok := g.nodes[id]
	if !ok {
		return false
	}
	if node.Kind == schemas.KindSource || node.Kind == schemas.KindDestination {
		return false
	}

	inID, hasIn := g.incoming[id]
	outID, hasOut := g.outgoing[id]

	switch {
	case hasIn && hasOut:
		in := g.edges[inID]
		out := g.edges[outID]
		pred := g.nodes[in.From]
		succ := g.nodes[out.To]

		replacement := &schemas.Edge{
			ID:            fmt.Sprintf("edge-%s-%s", pred.ID, succ.ID),
			From:          pred.ID,
			To:            succ.ID,
			Encrypted:     in.Encrypted && out.Encrypted,
			DataFlowLabel: fmt.Sprintf("Data flowing from %s to %s", pred.Label, succ.Label),
		}
		delete(g.edges, inID)
		delete(g.edges, outID)
		g.edges[replacement.ID] = replacement
		g.outgoing[pred.ID] = replacement.ID
		g.incoming[succ.ID] = replacement.ID

	case hasIn:
		// Terminal node: drop it together with its inbound edge.
		in := g.edges[inID]
		delete(g.outgoing, in.From)
		delete(g.edges, inID)

	case hasOut:
		out := g.edges[outID]
		delete(g.incoming, out.To)
		delete(g.edges, outID)
	}

	delete(g.nodes, id)
	delete(g.incoming, id)
	delete(g.outgoing, id)
	return true
}

// HasSecurityType reports whether any node in the graph references the given
// registry type.
func (g *Graph) HasSecurityType(typeID string) bool {
	for _, n := range g.nodes {
		if n.SecurityTypeID == typeID {
			return true
		}
	}
	return false
}

// newNodeID builds a unique, stable node ID from the type, the creation
// timestamp, and a short random suffix.
func newNodeID(typeID string) string {
	return fmt.Sprintf("%s-%d-%s", typeID, time.Now().UnixMilli(), uuid.NewString()[:8])
}

func midpoint(a, b schemas.Position) schemas.Position {
	return schemas.Position{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}
