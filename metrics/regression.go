package metrics

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/gradgo/pkg/errors"
)

// MSE は平均二乗誤差（Mean Squared Error）を計算する
func MSE(yTrue, yPred *mat.VecDense) (float64, error) {
	// 入力検証
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("MSE", "empty vector")
	}

	if yPred.Len() != n {
		return 0, errors.NewDimensionError("MSE", n, yPred.Len(), 0)
	}

	// MSE = (1/n) * Σ(yTrue - yPred)²
	var sum float64
	for i := 0; i < n; i++ {
		diff := yTrue.AtVec(i) - yPred.AtVec(i)
		sum += diff * diff
	}

	return sum / float64(n), nil
}

// RMSE は平方根平均二乗誤差（Root Mean Squared Error）を計算する
func RMSE(yTrue, yPred *mat.VecDense) (float64, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// MAE は平均絶対誤差（Mean Absolute Error）を計算する
func MAE(yTrue, yPred *mat.VecDense) (float64, error) {
	// 入力検証
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("MAE", "empty vector")
	}

	if yPred.Len() != n {
		return 0, errors.NewDimensionError("MAE", n, yPred.Len(), 0)
	}

	// MAE = (1/n) * Σ|yTrue - yPred|
	var sum float64
	for i := 0; i < n; i++ {
		diff := yTrue.AtVec(i) - yPred.AtVec(i)
		sum += math.Abs(diff)
	}

	return sum / float64(n), nil
}

// R2Score は決定係数（R²）を計算する
//
// すべてのyTrueが同一（全変動が0）の場合、R²は統計的に未定義となる。
// これはデータ品質の問題であり計算エラーではないため、エラーの代わりに
// 0.0とdegenerate=trueを返し、UndefinedMetricWarningを発行する。
// 当てはまりが悪い場合の負のR²はそのまま返す（[0,1]へのクランプはしない）。
func R2Score(yTrue, yPred *mat.VecDense) (r2 float64, degenerate bool, err error) {
	// 入力検証
	n := yTrue.Len()
	if n == 0 {
		return 0, false, errors.NewValueError("R2Score", "empty vector")
	}

	if yPred.Len() != n {
		return 0, false, errors.NewDimensionError("R2Score", n, yPred.Len(), 0)
	}

	// yTrueの平均を計算
	var yMean float64
	for i := 0; i < n; i++ {
		yMean += yTrue.AtVec(i)
	}
	yMean /= float64(n)

	// 全変動（TSS）と残差変動（RSS）を計算
	var tss, rss float64
	for i := 0; i < n; i++ {
		yTrueVal := yTrue.AtVec(i)
		yPredVal := yPred.AtVec(i)

		tss += (yTrueVal - yMean) * (yTrueVal - yMean)
		rss += (yTrueVal - yPredVal) * (yTrueVal - yPredVal)
	}

	// 全変動が0の場合（すべてのyTrueが同じ値）
	if tss == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("r2_score", "zero variance in y_true", 0.0))
		return 0, true, nil
	}

	// R² = 1 - RSS/TSS
	return 1 - rss/tss, false, nil
}

// Report は1エポック分の評価指標のスナップショット
type Report struct {
	RMSE float64 `json:"rmse"`
	MAE  float64 `json:"mae"`
	R2   float64 `json:"r2"`

	// DegenerateR2 はR²の分母（全変動）が0で値が未定義だったことを示す
	DegenerateR2 bool `json:"degenerate_r2,omitempty"`
}

// Evaluate は予測値と実測値からRMSE・MAE・R²をまとめて計算する
func Evaluate(yTrue, yPred *mat.VecDense) (Report, error) {
	rmse, err := RMSE(yTrue, yPred)
	if err != nil {
		return Report{}, err
	}

	mae, err := MAE(yTrue, yPred)
	if err != nil {
		return Report{}, err
	}

	r2, degenerate, err := R2Score(yTrue, yPred)
	if err != nil {
		return Report{}, err
	}

	return Report{RMSE: rmse, MAE: mae, R2: r2, DegenerateR2: degenerate}, nil
}

// EvaluateSlices は[]float64のペアに対するEvaluateのショートカット
func EvaluateSlices(yTrue, yPred []float64) (Report, error) {
	if len(yTrue) != len(yPred) {
		return Report{}, errors.NewDimensionError("EvaluateSlices", len(yTrue), len(yPred), 0)
	}
	if len(yTrue) == 0 {
		return Report{}, errors.NewValueError("EvaluateSlices", "empty slice")
	}
	return Evaluate(mat.NewVecDense(len(yTrue), yTrue), mat.NewVecDense(len(yPred), yPred))
}
