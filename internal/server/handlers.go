package server

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/YuminosukeSato/gradgo/dataset"
	"github.com/YuminosukeSato/gradgo/linear"
	"github.com/YuminosukeSato/gradgo/training"
)

type uploadRequest struct {
	X []float64 `json:"x"`
	Y []float64 `json:"y"`
}

// handleUploadDataset accepts either a multipart CSV upload ("file") or a
// JSON body with parallel x/y arrays.
func (s *Server) handleUploadDataset(c *gin.Context) {
	if file, err := c.FormFile("file"); err == nil {
		f, err := file.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		defer func() { _ = f.Close() }()

		opts := dataset.Options{
			XColumn:        s.cfg.Dataset.XColumn,
			YColumn:        s.cfg.Dataset.YColumn,
			DropDuplicates: s.cfg.Dataset.DropDuplicates,
		}
		x, y, report, err := dataset.Load(f, opts)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		s.setData(x, y, report)
		c.JSON(http.StatusOK, gin.H{"samples": len(x), "cleaning": report})
		return
	}

	var req uploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.X) == 0 || len(req.X) != len(req.Y) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "x and y must be non-empty and the same length"})
		return
	}

	s.setData(req.X, req.Y, dataset.CleaningReport{
		TotalRows: len(req.X),
		Accepted:  len(req.X),
	})
	c.JSON(http.StatusOK, gin.H{"samples": len(req.X)})
}

func (s *Server) handleDatasetInfo(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasData {
		c.JSON(http.StatusNotFound, gin.H{"error": "no dataset uploaded"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"samples": len(s.x), "cleaning": s.report})
}

type trainRequest struct {
	// Inline data takes precedence over an uploaded dataset.
	X []float64 `json:"x"`
	Y []float64 `json:"y"`

	LearningRate  *float64 `json:"learning_rate"`
	MaxEpochs     *int     `json:"max_epochs"`
	Tolerance     *float64 `json:"tolerance"`
	EarlyStopping *bool    `json:"early_stopping"`
	TrainSplit    *float64 `json:"train_split"`
	Patience      *int     `json:"patience"`
}

// buildConfig overlays request overrides on the configured defaults.
func (s *Server) buildConfig(req trainRequest) training.Config {
	cfg := s.cfg.Training
	if req.LearningRate != nil {
		cfg.LearningRate = *req.LearningRate
	}
	if req.MaxEpochs != nil {
		cfg.MaxEpochs = *req.MaxEpochs
	}
	if req.Tolerance != nil {
		cfg.Tolerance = *req.Tolerance
	}
	if req.EarlyStopping != nil {
		cfg.EarlyStopping = *req.EarlyStopping
	}
	if req.TrainSplit != nil {
		cfg.TrainSplit = *req.TrainSplit
	}
	if req.Patience != nil {
		cfg.Patience = *req.Patience
	}
	return cfg
}

// resolveTrainingData picks inline data when present, falling back to the
// uploaded dataset.
func (s *Server) resolveTrainingData(req trainRequest) (x, y []float64, ok bool) {
	if len(req.X) > 0 {
		if len(req.X) != len(req.Y) {
			return nil, nil, false
		}
		return req.X, req.Y, true
	}
	return s.data()
}

// handleTrain starts a run and streams one SSE event per epoch, followed
// by a summary event once the run reaches a terminal state.
func (s *Server) handleTrain(c *gin.Context) {
	var req trainRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	x, y, ok := s.resolveTrainingData(req)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no training data: upload a dataset or include x/y"})
		return
	}

	model, err := linear.NewGDRegressor(s.buildConfig(req))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !s.beginRun(model) {
		c.JSON(http.StatusConflict, gin.H{"error": "a training run is already active"})
		return
	}
	defer s.endRun()

	ch, err := model.Fit(c.Request.Context(), x, y)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		rec, ok := <-ch
		if !ok {
			if summary, err := model.Summary(); err == nil {
				c.SSEvent("summary", summary)
			}
			return false
		}
		if rec.Failed {
			c.SSEvent("error", gin.H{"epoch": rec.Epoch, "error": rec.Err.Error()})
			return true
		}
		c.SSEvent("epoch", rec)
		return true
	})
}

// controlResponse reports whether a control signal changed anything,
// matching the idempotent session semantics.
func controlResponse(c *gin.Context, model interface{ Session() *training.Session }, changed bool) {
	c.JSON(http.StatusOK, gin.H{
		"changed": changed,
		"status":  model.Session().Status().String(),
	})
}

func (s *Server) handlePause(c *gin.Context) {
	model := s.currentModel()
	if model == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no training run"})
		return
	}
	controlResponse(c, model, model.Pause())
}

func (s *Server) handleResume(c *gin.Context) {
	model := s.currentModel()
	if model == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no training run"})
		return
	}
	controlResponse(c, model, model.Resume())
}

func (s *Server) handleStop(c *gin.Context) {
	model := s.currentModel()
	if model == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no training run"})
		return
	}
	controlResponse(c, model, model.Stop())
}

func (s *Server) handleStatus(c *gin.Context) {
	s.mu.Lock()
	model := s.model
	hasData := s.hasData
	samples := len(s.x)
	s.mu.Unlock()

	resp := gin.H{
		"has_dataset": hasData,
		"samples":     samples,
	}
	if model != nil {
		resp["session"] = model.Session().Snapshot()
	} else {
		resp["session"] = gin.H{"status": training.StatusIdle.String()}
	}
	c.JSON(http.StatusOK, resp)
}

type predictRequest struct {
	X *float64 `json:"x" binding:"required"`
}

func (s *Server) handlePredict(c *gin.Context) {
	var req predictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	model := s.currentModel()
	if model == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "model is not trained"})
		return
	}

	y, err := model.Predict(*req.X)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"x": *req.X, "y": y})
}

func (s *Server) handleSummary(c *gin.Context) {
	model := s.currentModel()
	if model == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no training run"})
		return
	}

	summary, err := model.Summary()
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	resp := gin.H{"summary": summary}
	if cmp := model.Compare(); cmp != nil {
		resp["comparison"] = cmp
	}
	c.JSON(http.StatusOK, resp)
}
