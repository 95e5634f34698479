package metrics

import (
	"sync"
)

// History はエポックごとの評価指標スナップショットを追記専用で保持する
// 学習ループが書き込み、外部の集計・描画コンシューマが読み出す
type History struct {
	mu      sync.RWMutex
	epochs  []int
	reports []Report
}

// NewHistory は新しいHistoryを作成する
func NewHistory() *History {
	return &History{}
}

// Append はエポックのスナップショットを履歴に追加する
func (h *History) Append(epoch int, report Report) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.epochs = append(h.epochs, epoch)
	h.reports = append(h.reports, report)
}

// Len は記録されたスナップショット数を返す
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.reports)
}

// Latest は最新のスナップショットを返す。履歴が空の場合はok=false
func (h *History) Latest() (epoch int, report Report, ok bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if len(h.reports) == 0 {
		return 0, Report{}, false
	}
	last := len(h.reports) - 1
	return h.epochs[last], h.reports[last], true
}

// Snapshot は全履歴のコピーを返す
func (h *History) Snapshot() (epochs []int, reports []Report) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	epochs = make([]int, len(h.epochs))
	reports = make([]Report, len(h.reports))
	copy(epochs, h.epochs)
	copy(reports, h.reports)
	return epochs, reports
}

// MetricSummary は単一指標の履歴集計
type MetricSummary struct {
	Min         float64 `json:"min"`
	Max         float64 `json:"max"`
	Current     float64 `json:"current"`
	Improvement float64 `json:"improvement"` // 最初の値から最新値への改善量
}

// Summary は各指標のmin/max/現在値/改善量を返す。履歴が空の場合はnil
func (h *History) Summary() map[string]MetricSummary {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if len(h.reports) == 0 {
		return nil
	}

	extract := map[string]func(Report) float64{
		"rmse": func(r Report) float64 { return r.RMSE },
		"mae":  func(r Report) float64 { return r.MAE },
		"r2":   func(r Report) float64 { return r.R2 },
	}

	summary := make(map[string]MetricSummary, len(extract))
	for name, get := range extract {
		first := get(h.reports[0])
		min, max := first, first
		for _, r := range h.reports[1:] {
			v := get(r)
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
		}
		current := get(h.reports[len(h.reports)-1])

		improvement := 0.0
		if len(h.reports) > 1 {
			improvement = first - current
		}

		summary[name] = MetricSummary{
			Min:         min,
			Max:         max,
			Current:     current,
			Improvement: improvement,
		}
	}
	return summary
}
