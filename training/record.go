package training

import (
	"github.com/YuminosukeSato/gradgo/metrics"
)

// EpochRecord is an immutable snapshot emitted once per epoch.
//
// Theta0/Theta1 are denormalized to the original data scale for display,
// even though optimization runs in normalized space. Metrics are computed
// on the test partition so callers see an out-of-sample signal every epoch.
type EpochRecord struct {
	// Epoch is the 1-based epoch index.
	Epoch int `json:"epoch"`

	// Cost is the training cost computed before this epoch's update.
	Cost float64 `json:"cost"`

	// CostDelta is |cost_t - cost_{t-1}|; zero on the first epoch where
	// no previous cost exists.
	CostDelta float64 `json:"cost_delta"`

	Theta0 float64 `json:"theta0"`
	Theta1 float64 `json:"theta1"`

	Metrics metrics.Report `json:"metrics"`

	// Converged is set when CostDelta dropped below the tolerance.
	Converged bool `json:"converged"`

	// Final marks the last record of a run, whether due to max epochs,
	// early stopping, an external stop, or a failure.
	Final bool `json:"is_final"`

	// Failed marks the terminal record of a numerically failed run.
	Failed bool `json:"failed,omitempty"`

	// Err carries the failure cause on a Failed record.
	Err error `json:"-"`
}
