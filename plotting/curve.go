// Package plotting renders training curves to image files.
//
// The HTTP API streams raw records and leaves visualization to the
// browser; this package covers the CLI path, where a PNG next to the
// input CSV is the most useful artifact.
package plotting

import (
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/YuminosukeSato/gradgo/metrics"
	"github.com/YuminosukeSato/gradgo/pkg/errors"
	"github.com/YuminosukeSato/gradgo/training"
)

const (
	plotWidth  = 6 * vg.Inch
	plotHeight = 4 * vg.Inch
)

// CostCurve renders the training cost over epochs.
// The output format is inferred from the path extension (.png, .svg, .pdf).
func CostCurve(records []training.EpochRecord, path string) error {
	if len(records) == 0 {
		return errors.NewModelError("plotting.CostCurve", "no records", errors.ErrEmptyData)
	}

	pts := make(plotter.XYs, 0, len(records))
	for _, rec := range records {
		if rec.Failed {
			continue
		}
		pts = append(pts, plotter.XY{X: float64(rec.Epoch), Y: rec.Cost})
	}
	if len(pts) == 0 {
		return errors.NewModelError("plotting.CostCurve", "no healthy epochs", errors.ErrEmptyData)
	}

	p := plot.New()
	p.Title.Text = "Training Cost"
	p.X.Label.Text = "epoch"
	p.Y.Label.Text = "cost"
	p.Add(plotter.NewGrid())

	line, err := plotter.NewLine(pts)
	if err != nil {
		return errors.Wrap(err, "plotting.CostCurve")
	}
	p.Add(line)

	if err := p.Save(plotWidth, plotHeight, path); err != nil {
		return errors.Wrapf(err, "plotting.CostCurve: save %s", path)
	}
	return nil
}

// metricSeries extracts one named metric from a history snapshot.
func metricSeries(epochs []int, reports []metrics.Report, metric string) (plotter.XYs, error) {
	pts := make(plotter.XYs, len(reports))
	for i, rep := range reports {
		var v float64
		switch metric {
		case "rmse":
			v = rep.RMSE
		case "mae":
			v = rep.MAE
		case "r2":
			v = rep.R2
		default:
			return nil, errors.NewValueError("plotting.MetricCurve", "unknown metric: "+metric)
		}
		pts[i] = plotter.XY{X: float64(epochs[i]), Y: v}
	}
	return pts, nil
}

// MetricCurve renders one test-set metric (rmse, mae or r2) over epochs.
func MetricCurve(history *metrics.History, metric, path string) error {
	if history == nil || history.Len() == 0 {
		return errors.NewModelError("plotting.MetricCurve", "empty history", errors.ErrEmptyData)
	}

	epochs, reports := history.Snapshot()
	pts, err := metricSeries(epochs, reports, metric)
	if err != nil {
		return err
	}

	p := plot.New()
	p.Title.Text = "Test " + metric
	p.X.Label.Text = "epoch"
	p.Y.Label.Text = metric
	p.Add(plotter.NewGrid())

	line, err := plotter.NewLine(pts)
	if err != nil {
		return errors.Wrap(err, "plotting.MetricCurve")
	}
	p.Add(line)

	if err := p.Save(plotWidth, plotHeight, path); err != nil {
		return errors.Wrapf(err, "plotting.MetricCurve: save %s", path)
	}
	return nil
}
