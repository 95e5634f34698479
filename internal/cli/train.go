package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/gradgo/dataset"
	"github.com/YuminosukeSato/gradgo/linear"
	"github.com/YuminosukeSato/gradgo/plotting"
	"github.com/YuminosukeSato/gradgo/training"
)

var (
	trainCSV     string
	trainXCol    string
	trainYCol    string
	trainPlot    string
	trainLR      float64
	trainEpochs  int
	trainTol     float64
	trainNoEarly bool
	trainSplit   float64
	trainEvery   int
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train a model from a CSV file",
	Long: `Train a univariate linear regression model on a CSV file, streaming
one progress line per epoch. Ctrl-C stops the run at the next epoch
boundary; completed progress is kept.`,
	Example: `  gradgo train --csv data.csv
  gradgo train --csv scores.csv --x hours --y score --plot cost.png
  gradgo train --csv data.csv --lr 0.05 --epochs 500 --every 10`,
	RunE: runTrain,
}

func init() {
	trainCmd.Flags().StringVar(&trainCSV, "csv", "", "input CSV file (required)")
	trainCmd.Flags().StringVar(&trainXCol, "x", "", "feature column name (default: first column)")
	trainCmd.Flags().StringVar(&trainYCol, "y", "", "target column name (default: second column)")
	trainCmd.Flags().StringVar(&trainPlot, "plot", "", "write a cost curve image to this path")
	trainCmd.Flags().Float64Var(&trainLR, "lr", 0, "learning rate (overrides config)")
	trainCmd.Flags().IntVar(&trainEpochs, "epochs", 0, "maximum epochs (overrides config)")
	trainCmd.Flags().Float64Var(&trainTol, "tol", 0, "convergence tolerance (overrides config)")
	trainCmd.Flags().BoolVar(&trainNoEarly, "no-early-stopping", false, "run the full epoch budget")
	trainCmd.Flags().Float64Var(&trainSplit, "split", 0, "train split fraction (overrides config)")
	trainCmd.Flags().IntVar(&trainEvery, "every", 1, "print every Nth epoch (final epoch always printed)")
	_ = trainCmd.MarkFlagRequired("csv")
	rootCmd.AddCommand(trainCmd)
}

func runTrain(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	tcfg := cfg.Training
	if trainLR > 0 {
		tcfg.LearningRate = trainLR
	}
	if trainEpochs > 0 {
		tcfg.MaxEpochs = trainEpochs
	}
	if trainTol > 0 {
		tcfg.Tolerance = trainTol
	}
	if trainNoEarly {
		tcfg.EarlyStopping = false
	}
	if trainSplit > 0 {
		tcfg.TrainSplit = trainSplit
	}

	x, y, report, err := dataset.LoadFile(trainCSV, dataset.Options{
		XColumn:        trainXCol,
		YColumn:        trainYCol,
		DropDuplicates: cfg.Dataset.DropDuplicates,
	})
	if err != nil {
		return err
	}
	if dropped := report.Dropped(); dropped > 0 {
		fmt.Fprintf(os.Stderr, "cleaned dataset: %d of %d rows dropped\n", dropped, report.TotalRows)
	}

	model, err := linear.NewGDRegressor(tcfg)
	if err != nil {
		return err
	}

	// Ctrl-C stops the run at an epoch boundary instead of killing the
	// stream, so the summary still reflects the completed epochs.
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	go func() {
		<-ctx.Done()
		model.Stop()
	}()

	ch, err := model.Fit(cmd.Context(), x, y)
	if err != nil {
		return err
	}

	every := trainEvery
	if every < 1 {
		every = 1
	}

	var records []training.EpochRecord
	for rec := range ch {
		records = append(records, rec)
		if rec.Failed {
			fmt.Fprintf(os.Stderr, "epoch %d: training failed: %v\n", rec.Epoch, rec.Err)
			return nil
		}
		if rec.Epoch%every != 0 && !rec.Final {
			continue
		}
		if jsonOut {
			line, err := json.Marshal(rec)
			if err != nil {
				return err
			}
			fmt.Println(string(line))
		} else {
			fmt.Printf("epoch %4d  cost=%.8f  theta0=%.6f  theta1=%.6f  rmse=%.4f  r2=%.4f\n",
				rec.Epoch, rec.Cost, rec.Theta0, rec.Theta1, rec.Metrics.RMSE, rec.Metrics.R2)
		}
	}

	summary, err := model.Summary()
	if err != nil {
		return err
	}

	if jsonOut {
		out := map[string]any{"summary": summary}
		if cmp := model.Compare(); cmp != nil {
			out["comparison"] = cmp
		}
		line, err := json.Marshal(out)
		if err != nil {
			return err
		}
		fmt.Println(string(line))
	} else {
		fmt.Printf("\n%s after %d epochs: %s\n", summary.Status, summary.Epochs, summary.Equation)
		fmt.Printf("test metrics: rmse=%.4f mae=%.4f r2=%.4f\n",
			summary.Metrics.RMSE, summary.Metrics.MAE, summary.Metrics.R2)
		if cmp := model.Compare(); cmp != nil {
			fmt.Printf("least squares: %s (rmse=%.4f)\n", cmp.Equation, cmp.Metrics.RMSE)
		}
	}

	if trainPlot != "" {
		if err := plotting.CostCurve(records, trainPlot); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "cost curve written to %s\n", trainPlot)
	}
	return nil
}
