package training

import (
	"sync"

	"github.com/YuminosukeSato/gradgo/pkg/errors"
)

// Status represents the lifecycle state of a training session.
type Status int

const (
	// StatusIdle means no run has started yet.
	StatusIdle Status = iota
	// StatusRunning means the epoch loop is advancing.
	StatusRunning
	// StatusPaused means the loop is suspended at an epoch boundary.
	StatusPaused
	// StatusStopped means the run was terminated by an external signal.
	StatusStopped
	// StatusCompleted means the run finished (max epochs or early stop).
	StatusCompleted
	// StatusFailed means the run hit a numerical failure.
	StatusFailed
)

// String returns the lowercase wire name of the status.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusRunning:
		return "running"
	case StatusPaused:
		return "paused"
	case StatusStopped:
		return "stopped"
	case StatusCompleted:
		return "completed"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether the status is an end state.
// Stopped, Completed and Failed are one-directional: once reached, only a
// fresh run (which resets the session) leaves them.
func (s Status) Terminal() bool {
	return s == StatusStopped || s == StatusCompleted || s == StatusFailed
}

// Session is the shared state machine between one training run and the
// external control surface. The controller polls it at epoch boundaries;
// pause/resume/stop handlers mutate it from other goroutines. All access
// goes through the mutex so readers never observe a torn state.
//
// A Session is an explicit injected object, never a package-level singleton.
type Session struct {
	mu     sync.RWMutex
	status Status

	// Last good state, kept for error context and summaries.
	epoch  int
	theta0 float64 // original scale
	theta1 float64 // original scale
	err    error
}

// NewSession creates a session in the Idle state.
func NewSession() *Session {
	return &Session{}
}

// Status returns the current lifecycle state.
func (s *Session) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Epoch returns the index of the last completed epoch.
func (s *Session) Epoch() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.epoch
}

// Params returns the last recorded parameters on the original data scale.
func (s *Session) Params() (theta0, theta1 float64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.theta0, s.theta1
}

// Err returns the failure error, if the session failed.
func (s *Session) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// Begin transitions the session into Running for a fresh run.
// It rejects the request when a run is already active; a session in a
// terminal state is reset rather than silently reused.
func (s *Session) Begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status == StatusRunning || s.status == StatusPaused {
		return errors.Wrap(errors.ErrRunActive, "Session.Begin")
	}

	s.status = StatusRunning
	s.epoch = 0
	s.theta0 = 0
	s.theta1 = 0
	s.err = nil
	return nil
}

// Pause suspends the run at the next epoch boundary. It is idempotent:
// pausing a session that is not running is a no-op. The return value
// reports whether the state actually changed.
func (s *Session) Pause() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusRunning {
		return false
	}
	s.status = StatusPaused
	return true
}

// Resume continues a paused run. No-op unless currently paused.
func (s *Session) Resume() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusPaused {
		return false
	}
	s.status = StatusRunning
	return true
}

// Stop terminates the run at the next epoch boundary. No-op if the
// session is already in a terminal state or never started.
func (s *Session) Stop() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusRunning && s.status != StatusPaused {
		return false
	}
	s.status = StatusStopped
	return true
}

// recordEpoch stores the last good epoch and original-scale parameters.
func (s *Session) recordEpoch(epoch int, theta0, theta1 float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epoch = epoch
	s.theta0 = theta0
	s.theta1 = theta1
}

// complete marks the run as finished, unless an external stop won the race.
func (s *Session) complete() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status.Terminal() {
		return
	}
	s.status = StatusCompleted
}

// fail marks the run as failed with the given error.
func (s *Session) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status.Terminal() {
		return
	}
	s.status = StatusFailed
	s.err = err
}

// State is a JSON-friendly snapshot of a session.
type State struct {
	Status string  `json:"status"`
	Epoch  int     `json:"epoch"`
	Theta0 float64 `json:"theta0"`
	Theta1 float64 `json:"theta1"`
	Error  string  `json:"error,omitempty"`
}

// Snapshot returns a consistent copy of the session state.
func (s *Session) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state := State{
		Status: s.status.String(),
		Epoch:  s.epoch,
		Theta0: s.theta0,
		Theta1: s.theta1,
	}
	if s.err != nil {
		state.Error = s.err.Error()
	}
	return state
}
