package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/YuminosukeSato/gradgo/linear"
	"github.com/YuminosukeSato/gradgo/pkg/log"
)

var wsUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// wsMessage is the envelope for every frame sent to the client.
type wsMessage struct {
	Type    string `json:"type"` // epoch | summary | error
	Payload any    `json:"payload"`
}

// wsCommand is a control frame sent by the client during a run.
type wsCommand struct {
	Action string `json:"action"` // pause | resume | stop
}

// handleTrainWS runs a training session over a WebSocket. The client
// sends one trainRequest frame to start, then may send control frames
// while epoch frames stream back.
func (s *Server) handleTrainWS(c *gin.Context) {
	conn, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	defer func() { _ = conn.Close() }()

	var req trainRequest
	if err := conn.ReadJSON(&req); err != nil {
		_ = conn.WriteJSON(wsMessage{Type: "error", Payload: "invalid train request"})
		return
	}

	x, y, ok := s.resolveTrainingData(req)
	if !ok {
		_ = conn.WriteJSON(wsMessage{Type: "error", Payload: "no training data: upload a dataset or include x/y"})
		return
	}

	model, err := linear.NewGDRegressor(s.buildConfig(req))
	if err != nil {
		_ = conn.WriteJSON(wsMessage{Type: "error", Payload: err.Error()})
		return
	}

	if !s.beginRun(model) {
		_ = conn.WriteJSON(wsMessage{Type: "error", Payload: "a training run is already active"})
		return
	}
	defer s.endRun()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	ch, err := model.Fit(ctx, x, y)
	if err != nil {
		_ = conn.WriteJSON(wsMessage{Type: "error", Payload: err.Error()})
		return
	}

	// Read pump: control frames until the client goes away.
	go func() {
		defer cancel()
		for {
			var cmd wsCommand
			if err := conn.ReadJSON(&cmd); err != nil {
				return
			}
			switch cmd.Action {
			case "pause":
				model.Pause()
			case "resume":
				model.Resume()
			case "stop":
				model.Stop()
			}
		}
	}()

	for rec := range ch {
		if rec.Failed {
			_ = conn.WriteJSON(wsMessage{Type: "error", Payload: gin.H{
				"epoch": rec.Epoch,
				"error": rec.Err.Error(),
			}})
			continue
		}
		if err := conn.WriteJSON(wsMessage{Type: "epoch", Payload: rec}); err != nil {
			slog.Debug("websocket client gone", log.ErrAttr(err))
			return
		}
	}

	if summary, err := model.Summary(); err == nil {
		_ = conn.WriteJSON(wsMessage{Type: "summary", Payload: summary})
	}
}
