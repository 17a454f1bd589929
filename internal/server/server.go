package server

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/trishajanath/altx-canvas/api/schemas"
	"github.com/trishajanath/altx-canvas/internal/analyzer"
	"github.com/trishajanath/altx-canvas/internal/canvas"
	"github.com/trishajanath/altx-canvas/internal/config"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Server exposes the pipeline editor over HTTP. REST endpoints drive the
// editor operations; a websocket stream pushes every new pipeline snapshot
// to connected clients, which is the network-visible form of the editor's
// pipeline-changed callback.
type Server struct {
	editor    *canvas.Editor
	animator  *canvas.Animator
	analyzer  *analyzer.Analyzer
	generator schemas.NodeTypeGenerator
	cfg       config.ServerConfig
	log       *zap.Logger

	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]bool
}

// New wires a server around an editor. The server registers itself as the
// editor's pipeline-changed consumer.
func New(
	editor *canvas.Editor,
	anim *canvas.Animator,
	an *analyzer.Analyzer,
	gen schemas.NodeTypeGenerator,
	cfg config.ServerConfig,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		editor:    editor,
		animator:  anim,
		analyzer:  an,
		generator: gen,
		cfg:       cfg,
		log:       logger.Named("server"),
		upgrader: websocket.Upgrader{
			// The canvas is an embedded same-session tool; cross-origin
			// embedding is the normal case during development.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		clients: make(map[*websocket.Conn]bool),
	}
	editor.OnPipelineChanged(s.broadcast)
	return s
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	api := r.Group("/api")
	{
		api.POST("/analyze", s.handleAnalyze)
		api.GET("/pipeline", s.handlePipeline)
		api.GET("/graph", s.handleGraph)

		api.POST("/nodes/:id/move", s.handleMoveNode)
		api.POST("/nodes/:id/config", s.handleNodeConfig)
		api.DELETE("/nodes/:id", s.handleRemoveNode)

		api.POST("/edges/:id/inject", s.handleInject)

		api.GET("/types", s.handleListTypes)
		api.POST("/types", s.handleRegisterType)
		api.POST("/types/generate", s.handleGenerateType)

		api.POST("/viewport", s.handleViewport)
		api.POST("/simulate", s.handleSimulate)
		api.GET("/packets", s.handlePackets)
	}
	r.GET("/ws", s.handleWebsocket)
	return r
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.cfg.Addr, Handler: s.Router()}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.Info("HTTP server listening", zap.String("addr", s.cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		s.closeClients()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// broadcast pushes a snapshot to every connected websocket client. Dead
// connections are dropped.
func (s *Server) broadcast(snapshot *schemas.PipelineSnapshot) {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		s.log.Warn("Failed to marshal snapshot for broadcast", zap.Error(err))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.clients {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			s.log.Debug("Dropping websocket client", zap.Error(err))
			_ = conn.Close()
			delete(s.clients, conn)
		}
	}
}

func (s *Server) closeClients() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.clients {
		_ = conn.Close()
		delete(s.clients, conn)
	}
}
