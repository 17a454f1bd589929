package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/trishajanath/altx-canvas/api/schemas"
	"github.com/trishajanath/altx-canvas/internal/analyzer"
)

type analyzeRequest struct {
	Files map[string]any `json:"files"`
}

// handleAnalyze runs the project analyzer over the posted file map and
// replaces the editor's graph with the result.
func (s *Server) handleAnalyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res := s.analyzer.Analyze(analyzer.NormalizeFiles(req.Files))
	s.editor.SetGraph(res.Nodes, res.Edges, res.Checklist)

	c.JSON(http.StatusOK, gin.H{
		"nodes":     res.Nodes,
		"edges":     res.Edges,
		"checklist": res.Checklist,
	})
}

// handlePipeline returns the current serialized snapshot.
func (s *Server) handlePipeline(c *gin.Context) {
	snap := s.editor.Serialize()
	if snap == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no source node in graph"})
		return
	}
	c.JSON(http.StatusOK, snap)
}

// handleGraph returns the live node/edge collections plus viewport.
func (s *Server) handleGraph(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"nodes":     s.editor.Nodes(),
		"edges":     s.editor.Edges(),
		"checklist": s.editor.Checklist(),
		"viewport":  s.editor.Viewport(),
	})
}

type moveRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (s *Server) handleMoveNode(c *gin.Context) {
	id := c.Param("id")
	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if _, ok := s.editor.Node(id); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown node"})
		return
	}
	s.editor.MoveNode(id, schemas.Position{X: req.X, Y: req.Y})
	c.Status(http.StatusNoContent)
}

type configRequest struct {
	Key   string `json:"key" binding:"required"`
	Value any    `json:"value"`
}

func (s *Server) handleNodeConfig(c *gin.Context) {
	id := c.Param("id")
	var req configRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if _, ok := s.editor.Node(id); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown node"})
		return
	}
	s.editor.UpdateNodeConfig(id, req.Key, req.Value)
	c.Status(http.StatusNoContent)
}

func (s *Server) handleRemoveNode(c *gin.Context) {
	id := c.Param("id")
	node, ok := s.editor.Node(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown node"})
		return
	}
	if node.Kind == schemas.KindSource || node.Kind == schemas.KindDestination {
		c.JSON(http.StatusBadRequest, gin.H{"error": "structural anchor nodes cannot be removed"})
		return
	}
	s.editor.RemoveNode(id)
	c.Status(http.StatusNoContent)
}

type injectRequest struct {
	TypeID string  `json:"type_id" binding:"required"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

func (s *Server) handleInject(c *gin.Context) {
	edgeID := c.Param("id")
	var req injectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	before := s.editor.Version()
	s.editor.InjectNode(edgeID, req.TypeID, schemas.Position{X: req.X, Y: req.Y})
	if s.editor.Version() == before {
		// The editor no-ops on unknown edge or type IDs.
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown edge or node type"})
		return
	}
	c.JSON(http.StatusOK, s.editor.Serialize())
}

func (s *Server) handleListTypes(c *gin.Context) {
	c.JSON(http.StatusOK, s.editor.Registry().List())
}

func (s *Server) handleRegisterType(c *gin.Context) {
	var def schemas.NodeTypeDefinition
	if err := c.ShouldBindJSON(&def); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	registered, err := s.editor.RegisterNodeType(def)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, registered)
}

type generateTypeRequest struct {
	Prompt string `json:"prompt" binding:"required"`
}

// handleGenerateType asks the AI generator for a node type and registers the
// result. The generator never fails: on endpoint trouble it hands back a
// locally synthesized definition.
func (s *Server) handleGenerateType(c *gin.Context) {
	var req generateTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var nodeLabels []string
	for _, n := range s.editor.Nodes() {
		nodeLabels = append(nodeLabels, n.Label)
	}

	def := s.generator.Generate(c.Request.Context(), schemas.GenerateRequest{
		Prompt:        req.Prompt,
		ExistingNodes: nodeLabels,
	})

	registered, err := s.editor.RegisterNodeType(def)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, registered)
}

type viewportRequest struct {
	Pan  schemas.Position `json:"pan"`
	Zoom float64          `json:"zoom" binding:"required"`
}

func (s *Server) handleViewport(c *gin.Context) {
	var req viewportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.editor.SetViewport(req.Pan, req.Zoom)
	c.JSON(http.StatusOK, s.editor.Viewport())
}

func (s *Server) handleSimulate(c *gin.Context) {
	s.animator.TriggerAttackSimulation()
	c.JSON(http.StatusOK, gin.H{"simulating": s.animator.Simulating()})
}

func (s *Server) handlePackets(c *gin.Context) {
	c.JSON(http.StatusOK, s.animator.Packets())
}

// handleWebsocket upgrades the connection and registers it for snapshot
// broadcasts. The current snapshot (if any) is sent immediately so a new
// client does not have to wait for the next mutation.
func (s *Server) handleWebsocket(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.Debug("Websocket upgrade failed", zap.Error(err))
		return
	}

	if snap := s.editor.Serialize(); snap != nil {
		if payload, err := json.Marshal(snap); err == nil {
			_ = conn.WriteMessage(websocket.TextMessage, payload)
		}
	}

	s.mu.Lock()
	s.clients[conn] = true
	s.mu.Unlock()

	// Drain (and discard) client frames so pings and closes are processed.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				s.mu.Lock()
				delete(s.clients, conn)
				s.mu.Unlock()
				_ = conn.Close()
				return
			}
		}
	}()
}
