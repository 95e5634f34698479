package training

import (
	"github.com/YuminosukeSato/gradgo/pkg/errors"
)

// DefaultPatience is the default number of epochs without cost improvement
// tolerated before early stopping ends a run.
const DefaultPatience = 15

// Config contains all hyperparameters for a training run.
type Config struct {
	// LearningRate is the gradient-descent step size. Must be positive.
	LearningRate float64 `json:"learning_rate" yaml:"learning_rate"`

	// MaxEpochs is the iteration budget. Must be at least 1.
	MaxEpochs int `json:"max_epochs" yaml:"max_epochs"`

	// Tolerance is the convergence threshold on |cost_t - cost_{t-1}|.
	Tolerance float64 `json:"tolerance" yaml:"tolerance"`

	// EarlyStopping ends the run once the cost delta stays below
	// Tolerance for Patience consecutive epochs.
	EarlyStopping bool `json:"early_stopping" yaml:"early_stopping"`

	// TrainSplit is the fraction of samples used for training,
	// strictly between 0 and 1.
	TrainSplit float64 `json:"train_split" yaml:"train_split"`

	// Patience is the number of consecutive converged epochs before an
	// early stop. Zero means DefaultPatience.
	Patience int `json:"patience" yaml:"patience"`
}

// DefaultConfig returns a Config with conventional defaults.
func DefaultConfig() Config {
	return Config{
		LearningRate:  0.01,
		MaxEpochs:     1000,
		Tolerance:     1e-6,
		EarlyStopping: true,
		TrainSplit:    0.8,
		Patience:      DefaultPatience,
	}
}

// Validate rejects out-of-range hyperparameters before any computation runs.
func (c Config) Validate() error {
	if c.LearningRate <= 0 {
		return errors.NewValidationError("learning_rate", "must be positive", c.LearningRate)
	}
	if c.MaxEpochs < 1 {
		return errors.NewValidationError("max_epochs", "must be at least 1", c.MaxEpochs)
	}
	if c.Tolerance < 0 {
		return errors.NewValidationError("tolerance", "must be non-negative", c.Tolerance)
	}
	if c.TrainSplit <= 0 || c.TrainSplit >= 1 {
		return errors.NewValidationError("train_split", "must be strictly between 0 and 1", c.TrainSplit)
	}
	if c.Patience < 0 {
		return errors.NewValidationError("patience", "must be non-negative", c.Patience)
	}
	return nil
}

// patience resolves the effective patience value.
func (c Config) patience() int {
	if c.Patience == 0 {
		return DefaultPatience
	}
	return c.Patience
}
