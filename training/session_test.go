package training

import (
	"testing"

	"github.com/YuminosukeSato/gradgo/pkg/errors"
)

func TestStatusString(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{StatusIdle, "idle"},
		{StatusRunning, "running"},
		{StatusPaused, "paused"},
		{StatusStopped, "stopped"},
		{StatusCompleted, "completed"},
		{StatusFailed, "failed"},
		{Status(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.status.String(); got != tt.want {
			t.Errorf("Status(%d).String() = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestStatusTerminal(t *testing.T) {
	tests := []struct {
		status Status
		want   bool
	}{
		{StatusIdle, false},
		{StatusRunning, false},
		{StatusPaused, false},
		{StatusStopped, true},
		{StatusCompleted, true},
		{StatusFailed, true},
	}

	for _, tt := range tests {
		if got := tt.status.Terminal(); got != tt.want {
			t.Errorf("%v.Terminal() = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestSessionLifecycle(t *testing.T) {
	s := NewSession()

	if s.Status() != StatusIdle {
		t.Fatalf("new session status = %v, want idle", s.Status())
	}

	if err := s.Begin(); err != nil {
		t.Fatalf("Begin() on idle session: %v", err)
	}
	if s.Status() != StatusRunning {
		t.Errorf("status after Begin = %v, want running", s.Status())
	}

	// A second Begin while running must be rejected.
	if err := s.Begin(); !errors.Is(err, errors.ErrRunActive) {
		t.Errorf("Begin() on running session = %v, want ErrRunActive", err)
	}

	if !s.Pause() {
		t.Error("Pause() on running session = false, want true")
	}
	if s.Status() != StatusPaused {
		t.Errorf("status after Pause = %v, want paused", s.Status())
	}

	// Begin while paused is still an active run.
	if err := s.Begin(); !errors.Is(err, errors.ErrRunActive) {
		t.Errorf("Begin() on paused session = %v, want ErrRunActive", err)
	}

	if !s.Resume() {
		t.Error("Resume() on paused session = false, want true")
	}
	if s.Status() != StatusRunning {
		t.Errorf("status after Resume = %v, want running", s.Status())
	}

	if !s.Stop() {
		t.Error("Stop() on running session = false, want true")
	}
	if s.Status() != StatusStopped {
		t.Errorf("status after Stop = %v, want stopped", s.Status())
	}
}

func TestSessionControlIdempotence(t *testing.T) {
	s := NewSession()

	// Nothing is running yet: every control is a no-op.
	if s.Pause() {
		t.Error("Pause() on idle session = true, want false")
	}
	if s.Resume() {
		t.Error("Resume() on idle session = true, want false")
	}
	if s.Stop() {
		t.Error("Stop() on idle session = true, want false")
	}

	if err := s.Begin(); err != nil {
		t.Fatal(err)
	}
	if s.Resume() {
		t.Error("Resume() on running session = true, want false")
	}
	s.Pause()
	if s.Pause() {
		t.Error("Pause() on paused session = true, want false")
	}
	s.Stop()

	// Stopped is terminal: no control signal revives the run.
	if s.Pause() || s.Resume() || s.Stop() {
		t.Error("control signal on stopped session changed state")
	}
	if s.Status() != StatusStopped {
		t.Errorf("status = %v, want stopped", s.Status())
	}
}

func TestSessionBeginResetsTerminalState(t *testing.T) {
	s := NewSession()
	if err := s.Begin(); err != nil {
		t.Fatal(err)
	}
	s.recordEpoch(42, 1.5, 2.5)
	s.fail(errors.New("boom"))

	if s.Status() != StatusFailed {
		t.Fatalf("status = %v, want failed", s.Status())
	}
	if s.Err() == nil {
		t.Fatal("Err() = nil after fail")
	}

	// A fresh run clears the previous failure completely.
	if err := s.Begin(); err != nil {
		t.Fatalf("Begin() after failure: %v", err)
	}
	if s.Status() != StatusRunning {
		t.Errorf("status = %v, want running", s.Status())
	}
	if s.Epoch() != 0 {
		t.Errorf("Epoch() = %d, want 0", s.Epoch())
	}
	if s.Err() != nil {
		t.Errorf("Err() = %v, want nil", s.Err())
	}
	theta0, theta1 := s.Params()
	if theta0 != 0 || theta1 != 0 {
		t.Errorf("Params() = (%v, %v), want (0, 0)", theta0, theta1)
	}
}

func TestSessionCompleteLosesToStop(t *testing.T) {
	s := NewSession()
	if err := s.Begin(); err != nil {
		t.Fatal(err)
	}
	s.Stop()

	// complete after an external stop must not overwrite the outcome.
	s.complete()
	if s.Status() != StatusStopped {
		t.Errorf("status = %v, want stopped", s.Status())
	}

	s.fail(errors.New("late failure"))
	if s.Status() != StatusStopped {
		t.Errorf("status = %v, want stopped", s.Status())
	}
	if s.Err() != nil {
		t.Errorf("Err() = %v, want nil on stopped session", s.Err())
	}
}

func TestSessionSnapshot(t *testing.T) {
	s := NewSession()
	if err := s.Begin(); err != nil {
		t.Fatal(err)
	}
	s.recordEpoch(7, 1.0, 2.0)

	state := s.Snapshot()
	if state.Status != "running" {
		t.Errorf("Snapshot().Status = %q, want %q", state.Status, "running")
	}
	if state.Epoch != 7 {
		t.Errorf("Snapshot().Epoch = %d, want 7", state.Epoch)
	}
	if state.Theta0 != 1.0 || state.Theta1 != 2.0 {
		t.Errorf("Snapshot() params = (%v, %v), want (1, 2)", state.Theta0, state.Theta1)
	}
	if state.Error != "" {
		t.Errorf("Snapshot().Error = %q, want empty", state.Error)
	}

	s.fail(errors.New("overflow"))
	state = s.Snapshot()
	if state.Status != "failed" {
		t.Errorf("Snapshot().Status = %q, want %q", state.Status, "failed")
	}
	if state.Error == "" {
		t.Error("Snapshot().Error empty after failure")
	}
}
