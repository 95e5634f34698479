// Package server exposes training over HTTP: a REST control surface plus
// SSE and WebSocket streams of per-epoch records.
//
// One training run is active at a time. Starting a second run while one
// is active returns 409; pause/resume/stop act on the active run and are
// idempotent, mirroring the session semantics.
package server

import (
	"log/slog"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/YuminosukeSato/gradgo/dataset"
	"github.com/YuminosukeSato/gradgo/internal/config"
	"github.com/YuminosukeSato/gradgo/linear"
)

// Server wires the HTTP routes to the model facade.
type Server struct {
	cfg    *config.Config
	engine *gin.Engine

	mu     sync.Mutex
	model  *linear.GDRegressor
	active bool

	// Uploaded dataset, shared by subsequent runs.
	x, y    []float64
	report  dataset.CleaningReport
	hasData bool
}

// New builds a server with all routes registered.
func New(cfg *config.Config) *Server {
	if cfg == nil {
		cfg = config.Default()
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		cfg:    cfg,
		engine: engine,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	api := s.engine.Group("/api")

	api.POST("/dataset", s.handleUploadDataset)
	api.GET("/dataset", s.handleDatasetInfo)

	api.POST("/train", s.handleTrain)
	api.GET("/train/ws", s.handleTrainWS)
	api.POST("/train/pause", s.handlePause)
	api.POST("/train/resume", s.handleResume)
	api.POST("/train/stop", s.handleStop)

	api.GET("/status", s.handleStatus)
	api.POST("/predict", s.handlePredict)
	api.GET("/summary", s.handleSummary)
}

// Router returns the underlying gin engine, mainly for tests.
func (s *Server) Router() *gin.Engine {
	return s.engine
}

// Run blocks serving HTTP on the configured address.
func (s *Server) Run() error {
	addr := s.cfg.Addr()
	slog.Info("http server listening", "addr", addr)
	return s.engine.Run(addr)
}

// beginRun installs a fresh model as the active run. It fails when a run
// is already active; the caller must invoke endRun once the stream ends.
func (s *Server) beginRun(model *linear.GDRegressor) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active {
		return false
	}
	s.active = true
	s.model = model
	return true
}

func (s *Server) endRun() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = false
}

// currentModel returns the facade of the active or most recent run.
func (s *Server) currentModel() *linear.GDRegressor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.model
}

func (s *Server) data() (x, y []float64, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.x, s.y, s.hasData
}

func (s *Server) setData(x, y []float64, report dataset.CleaningReport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.x, s.y = x, y
	s.report = report
	s.hasData = true
}
