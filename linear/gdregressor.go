package linear

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"

	"github.com/YuminosukeSato/gradgo/metrics"
	"github.com/YuminosukeSato/gradgo/pkg/errors"
	"github.com/YuminosukeSato/gradgo/pkg/log"
	"github.com/YuminosukeSato/gradgo/preprocessing"
	"github.com/YuminosukeSato/gradgo/training"
)

// TrainTestSplit はデータを学習用とテスト用に分割する
//
// シャッフルは行わず、先頭から floor(n*fraction) 件を学習用とする
// 決定的な分割。同じ入力に対して常に同じ分割を返す。
func TrainTestSplit(x, y []float64, fraction float64) (xTrain, yTrain, xTest, yTest []float64, err error) {
	if len(x) != len(y) {
		return nil, nil, nil, nil, errors.NewDimensionError("linear.TrainTestSplit", len(x), len(y), 0)
	}
	if fraction <= 0 || fraction >= 1 {
		return nil, nil, nil, nil, errors.NewValidationError("train_split", "must be strictly between 0 and 1", fraction)
	}

	n := len(x)
	trainN := int(math.Floor(float64(n) * fraction))
	if trainN < 2 {
		return nil, nil, nil, nil, errors.NewValueError("linear.TrainTestSplit",
			fmt.Sprintf("training partition too small: %d samples (need at least 2)", trainN))
	}
	if trainN >= n {
		return nil, nil, nil, nil, errors.NewValueError("linear.TrainTestSplit", "test partition is empty")
	}

	return x[:trainN], y[:trainN], x[trainN:], y[trainN:], nil
}

// GDRegressor は勾配降下法で学習する単回帰モデルのファサード
//
// 学習は Fit が返すチャネルを通じてエポック単位でストリーミングされ、
// Pause/Resume/Stop で外部から制御できる。学習中の正規化や
// パラメータの逆変換はすべて内部で処理され、呼び出し側は常に
// 元のスケールの値だけを見る。
type GDRegressor struct {
	cfg     training.Config
	session *training.Session

	mu      sync.RWMutex
	norm    *preprocessing.Normalizer
	history *metrics.History
	last    *training.EpochRecord
	trained bool

	// 比較オラクル用に保持する分割済みデータ（元スケール）
	xTrain, yTrain []float64
	xTest, yTest   []float64
}

// NewGDRegressor は与えられたハイパーパラメータでファサードを作成する
func NewGDRegressor(cfg training.Config) (*GDRegressor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &GDRegressor{
		cfg:     cfg,
		session: training.NewSession(),
	}, nil
}

// Session は学習制御用のセッションを返す
func (g *GDRegressor) Session() *training.Session {
	return g.session
}

// Pause は次のエポック境界で学習を一時停止する
func (g *GDRegressor) Pause() bool { return g.session.Pause() }

// Resume は一時停止中の学習を再開する
func (g *GDRegressor) Resume() bool { return g.session.Resume() }

// Stop は次のエポック境界で学習を打ち切る
func (g *GDRegressor) Stop() bool { return g.session.Stop() }

// Fit は学習を開始し、エポックごとのレコードストリームを返す
//
// 実行中のランがある間は ErrRunActive で拒否する。チャネルは
// ランが終端状態に達した時点で閉じられる。呼び出し側がストリームを
// 放棄する場合はctxをキャンセルすること。
func (g *GDRegressor) Fit(ctx context.Context, x, y []float64) (<-chan training.EpochRecord, error) {
	xTrain, yTrain, xTest, yTest, err := TrainTestSplit(x, y, g.cfg.TrainSplit)
	if err != nil {
		return nil, err
	}

	// 統計量は学習パーティションのみから計算する
	norm := preprocessing.NewNormalizer()
	if err := norm.Fit(xTrain, yTrain); err != nil {
		return nil, err
	}
	xTrainNorm, err := norm.NormalizeX(xTrain)
	if err != nil {
		return nil, err
	}
	yTrainNorm, err := norm.NormalizeY(yTrain)
	if err != nil {
		return nil, err
	}

	history := metrics.NewHistory()
	ctrl, err := training.NewController(xTrainNorm, yTrainNorm, xTest, yTest,
		norm, g.cfg, g.session, history)
	if err != nil {
		return nil, err
	}

	inner, err := ctrl.Run(ctx)
	if err != nil {
		return nil, err
	}

	g.mu.Lock()
	g.norm = norm
	g.history = history
	g.last = nil
	g.trained = false
	g.xTrain, g.yTrain = xTrain, yTrain
	g.xTest, g.yTest = xTest, yTest
	g.mu.Unlock()

	// レコードを転送しつつ最終状態を観測する
	out := make(chan training.EpochRecord)
	go func() {
		defer close(out)
		for rec := range inner {
			g.observe(rec)
			select {
			case out <- rec:
			case <-ctx.Done():
				return
			}
		}
		g.finalize()
	}()
	return out, nil
}

// observe は各レコードを記録し、終端レコードで学習済み状態を確定する
func (g *GDRegressor) observe(rec training.EpochRecord) {
	g.mu.Lock()
	defer g.mu.Unlock()

	r := rec
	g.last = &r
	if rec.Final && !rec.Failed && rec.Epoch >= 1 {
		g.trained = true
	}
}

// finalize はストリーム終了時に学習済み状態を確定する
//
// 停止シグナルがエポック境界の静止中に届いた場合、最終フラグ付きの
// レコードは流れない。その場合でも完了済みエポックがあれば
// モデルは利用可能とみなす。
func (g *GDRegressor) finalize() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.trained {
		return
	}
	if g.session.Status() == training.StatusFailed {
		return
	}
	if g.session.Epoch() >= 1 && g.session.Status().Terminal() {
		g.trained = true
	}
}

// Predict は学習済みパラメータで予測を行う（元のスケール）
func (g *GDRegressor) Predict(x float64) (float64, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if !g.trained {
		return 0, errors.NewNotTrainedError("GDRegressor", "Predict")
	}
	return g.last.Theta0 + g.last.Theta1*x, nil
}

// Summary は終端状態に達したランの結果要約
type Summary struct {
	Status    string                           `json:"status"`
	Epochs    int                              `json:"epochs"`
	Theta0    float64                          `json:"theta0"`
	Theta1    float64                          `json:"theta1"`
	Equation  string                           `json:"equation"`
	FinalCost float64                          `json:"final_cost"`
	Converged bool                             `json:"converged"`
	Metrics   metrics.Report                   `json:"metrics"`
	Ranges    map[string]metrics.MetricSummary `json:"metric_ranges,omitempty"`
}

// Summary はランの結果要約を返す
//
// ランが終端状態に達する前に呼ぶとNotTrainedErrorを返す。
func (g *GDRegressor) Summary() (Summary, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if !g.trained {
		return Summary{}, errors.NewNotTrainedError("GDRegressor", "Summary")
	}

	last := g.last
	return Summary{
		Status:    g.session.Status().String(),
		Epochs:    last.Epoch,
		Theta0:    last.Theta0,
		Theta1:    last.Theta1,
		Equation:  fmt.Sprintf("y = %.6f + %.6f * x", last.Theta0, last.Theta1),
		FinalCost: last.Cost,
		Converged: last.Converged,
		Metrics:   last.Metrics,
		Ranges:    g.history.Summary(),
	}, nil
}

// History は現在のランのメトリクス履歴を返す（未学習ならnil）
func (g *GDRegressor) History() *metrics.History {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.history
}

// Compare は同じ分割で閉形式解を求め、勾配降下法の結果と比較する
//
// オラクルが利用できない場合（特異行列など）はnilを返す。
// 比較の失敗は学習結果そのものの失敗ではないため、エラーは
// 警告ログに落とすだけで呼び出し側には伝播しない。
func (g *GDRegressor) Compare() *Comparison {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if !g.trained {
		return nil
	}

	cmp, err := CompareOLS(g.xTrain, g.yTrain, g.xTest, g.yTest)
	if err != nil {
		slog.Warn("comparison oracle unavailable", log.ErrAttr(err))
		return nil
	}
	return cmp
}
