package plotting

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/YuminosukeSato/gradgo/metrics"
	"github.com/YuminosukeSato/gradgo/training"
)

func sampleRecords() []training.EpochRecord {
	return []training.EpochRecord{
		{Epoch: 1, Cost: 0.5},
		{Epoch: 2, Cost: 0.3},
		{Epoch: 3, Cost: 0.2, Final: true},
	}
}

func TestCostCurve(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cost.png")

	if err := CostCurve(sampleRecords(), path); err != nil {
		t.Fatalf("CostCurve: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("output file missing: %v", err)
	}
	if info.Size() == 0 {
		t.Error("output file is empty")
	}
}

func TestCostCurveEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cost.png")
	if err := CostCurve(nil, path); err == nil {
		t.Error("CostCurve with no records succeeded, want error")
	}

	// A run that failed on its first epoch has nothing to draw.
	failed := []training.EpochRecord{{Epoch: 1, Failed: true, Final: true}}
	if err := CostCurve(failed, path); err == nil {
		t.Error("CostCurve with only failed epochs succeeded, want error")
	}
}

func TestMetricCurve(t *testing.T) {
	hist := metrics.NewHistory()
	hist.Append(1, metrics.Report{RMSE: 2.0, MAE: 1.5, R2: 0.2})
	hist.Append(2, metrics.Report{RMSE: 1.0, MAE: 0.7, R2: 0.8})

	for _, metric := range []string{"rmse", "mae", "r2"} {
		path := filepath.Join(t.TempDir(), metric+".png")
		if err := MetricCurve(hist, metric, path); err != nil {
			t.Errorf("MetricCurve(%q): %v", metric, err)
			continue
		}
		if info, err := os.Stat(path); err != nil || info.Size() == 0 {
			t.Errorf("MetricCurve(%q) wrote no output", metric)
		}
	}
}

func TestMetricCurveErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.png")

	if err := MetricCurve(nil, "rmse", path); err == nil {
		t.Error("MetricCurve with nil history succeeded, want error")
	}
	if err := MetricCurve(metrics.NewHistory(), "rmse", path); err == nil {
		t.Error("MetricCurve with empty history succeeded, want error")
	}

	hist := metrics.NewHistory()
	hist.Append(1, metrics.Report{})
	if err := MetricCurve(hist, "loss", path); err == nil {
		t.Error("MetricCurve with unknown metric succeeded, want error")
	}
}
