package server

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func dialWS(t *testing.T, s *Server) (*websocket.Conn, func()) {
	t.Helper()

	ts := httptest.NewServer(s.Router())
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/train/ws"

	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		ts.Close()
		t.Fatalf("dial %s: %v", url, err)
	}
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	return conn, func() {
		_ = conn.Close()
		ts.Close()
	}
}

func TestTrainWebSocket(t *testing.T) {
	s := newTestServer()
	conn, cleanup := dialWS(t, s)
	defer cleanup()

	x, y := trainingData()
	req := map[string]any{
		"x":              x,
		"y":              y,
		"learning_rate":  0.1,
		"max_epochs":     5,
		"early_stopping": false,
	}
	if err := conn.WriteJSON(req); err != nil {
		t.Fatalf("write train request: %v", err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(10 * time.Second))

	epochs := 0
	sawSummary := false
	for !sawSummary {
		var msg wsMessage
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read frame after %d epochs: %v", epochs, err)
		}
		switch msg.Type {
		case "epoch":
			epochs++
		case "summary":
			sawSummary = true
		case "error":
			t.Fatalf("unexpected error frame: %v", msg.Payload)
		}
	}

	if epochs != 5 {
		t.Errorf("got %d epoch frames, want 5", epochs)
	}
}

func TestTrainWebSocketStopCommand(t *testing.T) {
	s := newTestServer()
	conn, cleanup := dialWS(t, s)
	defer cleanup()

	x, y := trainingData()
	req := map[string]any{
		"x":              x,
		"y":              y,
		"learning_rate":  1e-4,
		"max_epochs":     1_000_000,
		"early_stopping": false,
	}
	if err := conn.WriteJSON(req); err != nil {
		t.Fatal(err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(10 * time.Second))

	// Let a few epochs through, then stop the run from the client side.
	for i := 0; i < 3; i++ {
		var msg wsMessage
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read frame: %v", err)
		}
	}
	if err := conn.WriteJSON(wsCommand{Action: "stop"}); err != nil {
		t.Fatal(err)
	}

	// The stream must wind down promptly instead of running out the
	// million-epoch budget.
	frames := 0
	for {
		var msg wsMessage
		if err := conn.ReadJSON(&msg); err != nil {
			break
		}
		frames++
		if frames > 1000 {
			t.Fatal("run kept streaming long after stop")
		}
		if msg.Type == "summary" {
			var summary struct {
				Status string `json:"status"`
			}
			raw, _ := json.Marshal(msg.Payload)
			_ = json.Unmarshal(raw, &summary)
			if summary.Status != "stopped" {
				t.Errorf("summary status = %q, want %q", summary.Status, "stopped")
			}
			return
		}
	}
}

func TestTrainWebSocketInvalidRequest(t *testing.T) {
	s := newTestServer()
	conn, cleanup := dialWS(t, s)
	defer cleanup()

	if err := conn.WriteJSON(map[string]any{"max_epochs": 5}); err != nil {
		t.Fatal(err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var msg wsMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read frame: %v", err)
	}
	if msg.Type != "error" {
		t.Errorf("frame type = %q, want error", msg.Type)
	}
}
