// Package training implements the batch gradient-descent epoch loop with
// interactive pause/resume/stop control.
//
// A Controller owns one run: it advances epochs over normalized training
// data, checks convergence and numerical failures, and emits one
// EpochRecord per epoch on a channel. The channel is the only suspension
// point; control signals injected through the shared Session take effect
// at epoch boundaries, never mid-epoch.
package training

import (
	"context"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/YuminosukeSato/gradgo/gradient"
	"github.com/YuminosukeSato/gradgo/metrics"
	"github.com/YuminosukeSato/gradgo/pkg/errors"
	"github.com/YuminosukeSato/gradgo/pkg/log"
	"github.com/YuminosukeSato/gradgo/preprocessing"
)

// defaultPollInterval is how often a paused controller re-checks the session.
const defaultPollInterval = 10 * time.Millisecond

// Controller drives one training run. It is not restartable: every call
// to Run requires a fresh Controller, which re-initializes parameters at
// (0, 0) in normalized space.
type Controller struct {
	cfg     Config
	session *Session
	eval    *gradient.Evaluator
	norm    *preprocessing.Normalizer
	history *metrics.History

	// Test partition on the original scale; metrics are honest
	// out-of-sample numbers, not training fit.
	xTest []float64
	yTest []float64

	pollInterval time.Duration

	mu      sync.Mutex
	started bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithPollInterval sets the pause polling interval.
func WithPollInterval(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.pollInterval = d
		}
	}
}

// NewController builds a controller for one run.
//
// xTrainNorm/yTrainNorm are the normalized training partition, xTest/yTest
// the untouched test partition on the original scale. norm must be fitted
// on the training partition only. All configuration errors are reported
// here, before any epoch runs.
func NewController(xTrainNorm, yTrainNorm, xTest, yTest []float64,
	norm *preprocessing.Normalizer, cfg Config, session *Session,
	history *metrics.History, opts ...Option) (*Controller, error) {

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if session == nil {
		return nil, errors.NewValueError("training.NewController", "session must not be nil")
	}
	if norm == nil || !norm.IsFitted() {
		return nil, errors.NewNotTrainedError("Normalizer", "NewController")
	}
	if len(xTest) == 0 {
		return nil, errors.NewModelError("training.NewController", "empty test partition", errors.ErrEmptyData)
	}
	if len(xTest) != len(yTest) {
		return nil, errors.NewDimensionError("training.NewController", len(xTest), len(yTest), 0)
	}

	eval, err := gradient.NewEvaluator(xTrainNorm, yTrainNorm)
	if err != nil {
		return nil, err
	}

	if history == nil {
		history = metrics.NewHistory()
	}

	c := &Controller{
		cfg:          cfg,
		session:      session,
		eval:         eval,
		norm:         norm,
		history:      history,
		xTest:        xTest,
		yTest:        yTest,
		pollInterval: defaultPollInterval,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// History returns the metric history shared with this run.
func (c *Controller) History() *metrics.History {
	return c.history
}

// Run starts the epoch loop and returns the record stream.
//
// Records arrive in strict epoch order, exactly once each, with Final set
// on the last one. The channel closes when the run reaches a terminal
// state. A caller that abandons the stream must cancel ctx; emission
// always selects on ctx.Done, so the loop goroutine never leaks.
func (c *Controller) Run(ctx context.Context) (<-chan EpochRecord, error) {
	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return nil, errors.NewValueError("Controller.Run", "controller already ran; build a new one for a fresh run")
	}
	c.started = true
	c.mu.Unlock()

	if err := c.session.Begin(); err != nil {
		return nil, err
	}

	ch := make(chan EpochRecord)
	go c.loop(ctx, ch)
	return ch, nil
}

func (c *Controller) loop(ctx context.Context, ch chan<- EpochRecord) {
	defer close(ch)
	defer func() {
		if r := recover(); r != nil {
			perr := errors.NewPanicError("training.loop", r)
			c.session.fail(perr)
			slog.Error("training loop panicked", log.ErrAttr(perr))
		}
	}()

	slog.Info("training started",
		"max_epochs", c.cfg.MaxEpochs,
		"learning_rate", c.cfg.LearningRate,
		"train_samples", c.eval.NumSamples(),
		"test_samples", len(c.xTest),
	)

	theta0, theta1 := 0.0, 0.0
	prevCost := math.Inf(1)
	noImprove := 0
	lastConverged := false

	for epoch := 1; epoch <= c.cfg.MaxEpochs; epoch++ {
		if !c.waitWhilePaused(ctx) {
			return
		}

		// Cost is evaluated at the parameters entering this epoch, then
		// both gradients from those same values (simultaneous update).
		cost := c.eval.Cost(theta0, theta1)
		grad0, grad1 := c.eval.Gradients(theta0, theta1)
		theta0 -= c.cfg.LearningRate * grad0
		theta1 -= c.cfg.LearningRate * grad1

		if err := errors.CheckNumericalStability("gradient_update", []float64{theta0, theta1, cost}, epoch); err != nil {
			c.failRun(ctx, ch, epoch, cost, err)
			return
		}

		costDelta := 0.0
		converged := false
		if epoch > 1 {
			costDelta = math.Abs(cost - prevCost)
			converged = costDelta < c.cfg.Tolerance
		}
		lastConverged = converged

		earlyStop := false
		if converged {
			if c.cfg.EarlyStopping {
				noImprove++
				if noImprove >= c.cfg.patience() {
					earlyStop = true
				}
			}
		} else {
			noImprove = 0
		}

		theta0Orig, theta1Orig, err := c.norm.DenormalizeParams(theta0, theta1)
		if err != nil {
			c.failRun(ctx, ch, epoch, cost, err)
			return
		}
		c.session.recordEpoch(epoch, theta0Orig, theta1Orig)

		report := c.testMetrics(theta0Orig, theta1Orig)
		c.history.Append(epoch, report)

		// An external stop during this epoch lands here, on the boundary.
		stopRequested := c.session.Status() == StatusStopped
		final := epoch == c.cfg.MaxEpochs || earlyStop || stopRequested

		if final && !stopRequested {
			c.session.complete()
		}

		rec := EpochRecord{
			Epoch:     epoch,
			Cost:      cost,
			CostDelta: costDelta,
			Theta0:    theta0Orig,
			Theta1:    theta1Orig,
			Metrics:   report,
			Converged: converged,
			Final:     final,
		}
		if !c.send(ctx, ch, rec) {
			c.session.Stop()
			return
		}

		if final {
			if epoch == c.cfg.MaxEpochs && !lastConverged {
				errors.Warn(errors.NewConvergenceWarning("gradient_descent", c.cfg.MaxEpochs,
					"maximum epochs reached without convergence; consider increasing max_epochs or the learning rate"))
			}
			slog.Info("training finished",
				"status", c.session.Status().String(),
				"epochs", epoch,
				"converged", lastConverged,
			)
			return
		}

		prevCost = cost
	}
}

// waitWhilePaused blocks at the epoch boundary until the session leaves
// Paused. It returns false when the run must terminate (stop signal or
// context cancellation). No iteration budget is consumed while paused.
func (c *Controller) waitWhilePaused(ctx context.Context) bool {
	for {
		switch c.session.Status() {
		case StatusStopped:
			return false
		case StatusPaused:
			select {
			case <-ctx.Done():
				c.session.Stop()
				return false
			case <-time.After(c.pollInterval):
			}
		default:
			return true
		}
	}
}

// testMetrics evaluates the test partition with original-scale parameters.
func (c *Controller) testMetrics(theta0, theta1 float64) metrics.Report {
	preds := make([]float64, len(c.xTest))
	for i, x := range c.xTest {
		preds[i] = theta0 + theta1*x
	}

	report, err := metrics.EvaluateSlices(c.yTest, preds)
	if err != nil {
		// Shapes were validated at construction; treat this as a
		// degraded epoch rather than killing the run.
		slog.Warn("test metrics unavailable for epoch", log.ErrAttr(err))
		return metrics.Report{}
	}
	return report
}

// failRun transitions to Failed and emits the terminal flagged record.
// The record carries the last good parameters so a caller can decide on a
// retry with different hyperparameters; it is never silently dropped from
// the stream unless the caller has gone away.
func (c *Controller) failRun(ctx context.Context, ch chan<- EpochRecord, epoch int, cost float64, err error) {
	lastTheta0, lastTheta1 := c.session.Params()

	var numErr *errors.NumericalInstabilityError
	if errors.As(err, &numErr) {
		numErr.LastGoodEpoch = epoch - 1
		numErr.LastGoodParams = [2]float64{lastTheta0, lastTheta1}
	}

	c.session.fail(err)
	slog.Error("training failed", log.ErrAttr(err), "epoch", epoch)

	rec := EpochRecord{
		Epoch:  epoch,
		Cost:   sanitize(cost),
		Theta0: lastTheta0,
		Theta1: lastTheta1,
		Failed: true,
		Final:  true,
		Err:    err,
	}
	c.send(ctx, ch, rec)
}

func (c *Controller) send(ctx context.Context, ch chan<- EpochRecord, rec EpochRecord) bool {
	select {
	case ch <- rec:
		return true
	case <-ctx.Done():
		return false
	}
}

// sanitize maps NaN/Inf to 0 so terminal records stay JSON-encodable.
func sanitize(v float64) float64 {
	if errors.IsUnstable(v) {
		return 0
	}
	return v
}
