// Package gradgo trains univariate linear regression models with batch
// gradient descent, streaming per-epoch progress and supporting
// interactive pause/resume/stop control.
//
// Training runs in z-score normalized space for numerical stability;
// parameters are converted back to the original data scale before they
// reach any consumer. Every epoch emits an immutable record carrying the
// training cost, display parameters and out-of-sample metrics computed
// on a held-out test partition.
//
// # Quick Start
//
// Train on two parallel slices and consume the record stream:
//
//	package main
//
//	import (
//	    "context"
//	    "fmt"
//	    "log"
//
//	    "github.com/YuminosukeSato/gradgo/linear"
//	    "github.com/YuminosukeSato/gradgo/training"
//	)
//
//	func main() {
//	    x := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
//	    y := []float64{3, 5, 7, 9, 11, 13, 15, 17, 19, 21}
//
//	    model, err := linear.NewGDRegressor(training.DefaultConfig())
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    ch, err := model.Fit(context.Background(), x, y)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    for rec := range ch {
//	        fmt.Printf("epoch %d cost %.6f\n", rec.Epoch, rec.Cost)
//	    }
//
//	    summary, _ := model.Summary()
//	    fmt.Println(summary.Equation)
//	}
//
// # Packages
//
//   - linear: the GDRegressor facade and the closed-form OLS oracle
//   - training: the epoch loop, session state machine and hyperparameters
//   - gradient: cost and gradient evaluation over fixed training vectors
//   - preprocessing: z-score normalization and parameter denormalization
//   - metrics: RMSE/MAE/R² with per-epoch history
//   - dataset: CSV loading with a cleaning report
//   - plotting: training-curve rendering
//
// The CLI and HTTP API live under cmd/gradgo and internal/.
package gradgo
