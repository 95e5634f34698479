package dataset

import (
	"strings"
	"testing"

	"github.com/YuminosukeSato/gradgo/pkg/errors"
)

func TestLoad(t *testing.T) {
	csvData := `x,y
1,2
2,4
3,6
`
	x, y, report, err := Load(strings.NewReader(csvData), Options{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	wantX := []float64{1, 2, 3}
	wantY := []float64{2, 4, 6}
	if len(x) != 3 || len(y) != 3 {
		t.Fatalf("got %d/%d values, want 3/3", len(x), len(y))
	}
	for i := range wantX {
		if x[i] != wantX[i] || y[i] != wantY[i] {
			t.Errorf("row %d = (%v, %v), want (%v, %v)", i, x[i], y[i], wantX[i], wantY[i])
		}
	}
	if report.TotalRows != 3 || report.Accepted != 3 || report.Dropped() != 0 {
		t.Errorf("report = %+v, want 3 rows accepted with no drops", report)
	}
}

func TestLoadNamedColumns(t *testing.T) {
	csvData := `id,hours,score,notes
1,1.5,52,ok
2,3.0,71,ok
3,4.5,88,
`
	x, y, _, err := Load(strings.NewReader(csvData), Options{XColumn: "hours", YColumn: "score"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(x) != 3 {
		t.Fatalf("got %d rows, want 3", len(x))
	}
	if x[0] != 1.5 || y[0] != 52 {
		t.Errorf("first row = (%v, %v), want (1.5, 52)", x[0], y[0])
	}
}

func TestLoadCleaning(t *testing.T) {
	csvData := `x,y
1,2
abc,4
2,
3,NaN
4,8
4,8
,9
5,+Inf
`
	x, y, report, err := Load(strings.NewReader(csvData), Options{DropDuplicates: true})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(x) != 2 || len(y) != 2 {
		t.Fatalf("got %d rows after cleaning, want 2", len(x))
	}
	if report.TotalRows != 8 {
		t.Errorf("TotalRows = %d, want 8", report.TotalRows)
	}
	if report.Accepted != 2 {
		t.Errorf("Accepted = %d, want 2", report.Accepted)
	}
	if report.NonNumeric != 1 {
		t.Errorf("NonNumeric = %d, want 1", report.NonNumeric)
	}
	if report.Missing != 2 {
		t.Errorf("Missing = %d, want 2", report.Missing)
	}
	if report.NonFinite != 2 {
		t.Errorf("NonFinite = %d, want 2", report.NonFinite)
	}
	if report.Duplicates != 1 {
		t.Errorf("Duplicates = %d, want 1", report.Duplicates)
	}
	if report.Dropped() != 6 {
		t.Errorf("Dropped() = %d, want 6", report.Dropped())
	}
}

func TestLoadDuplicatesKeptByDefault(t *testing.T) {
	csvData := `x,y
1,2
1,2
`
	x, _, report, err := Load(strings.NewReader(csvData), Options{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(x) != 2 || report.Duplicates != 0 {
		t.Errorf("got %d rows, %d duplicates; duplicates must be kept unless requested", len(x), report.Duplicates)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name      string
		csvData   string
		opts      Options
		wantEmpty bool
	}{
		{
			name:      "empty file",
			csvData:   "",
			wantEmpty: true,
		},
		{
			name:      "header only",
			csvData:   "x,y\n",
			wantEmpty: true,
		},
		{
			name:      "all rows invalid",
			csvData:   "x,y\nfoo,bar\n,\n",
			wantEmpty: true,
		},
		{
			name:    "missing named column",
			csvData: "a,b\n1,2\n",
			opts:    Options{XColumn: "hours", YColumn: "b"},
		},
		{
			name:    "single column header",
			csvData: "x\n1\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, err := Load(strings.NewReader(tt.csvData), tt.opts)
			if err == nil {
				t.Fatal("Load succeeded, want error")
			}
			if tt.wantEmpty && !errors.Is(err, errors.ErrEmptyData) {
				t.Errorf("error = %v, want ErrEmptyData", err)
			}
		})
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, _, _, err := LoadFile("testdata/does-not-exist.csv", Options{}); err == nil {
		t.Error("LoadFile on a missing path succeeded, want error")
	}
}
