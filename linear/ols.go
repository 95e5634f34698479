// Package linear は単回帰モデルの学習・予測の入口を提供する
//
// GDRegressorが勾配降下法による逐次学習を担い、OLSが正規方程式による
// 閉形式解を提供する。OLSは学習結果の妥当性確認のための比較オラクル
// としても使われる。
package linear

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/gradgo/core/model"
	"github.com/YuminosukeSato/gradgo/core/parallel"
	"github.com/YuminosukeSato/gradgo/metrics"
	"github.com/YuminosukeSato/gradgo/pkg/errors"
)

// OLS は正規方程式 w = (X^T X)^(-1) X^T y による単回帰モデル
//
// 反復計算を行わないため、勾配降下法の収束先の参照値として使える。
// 入力は元のスケールのまま扱い、正規化は行わない。
type OLS struct {
	model.BaseEstimator
	Theta0 float64 // 切片
	Theta1 float64 // 傾き
}

// NewOLS は新しいOLSモデルを作成する
func NewOLS() *OLS {
	return &OLS{}
}

// Fit は正規方程式を解いてパラメータを求める
func (o *OLS) Fit(x, y []float64) (err error) {
	// gonumの行列演算は次元不整合でパニックするため、エラーに変換する
	defer errors.Recover(&err, "OLS.Fit")

	m := len(x)
	if m == 0 {
		return errors.NewModelError("OLS.Fit", "empty data", errors.ErrEmptyData)
	}
	if len(y) != m {
		return errors.NewDimensionError("OLS.Fit", m, len(y), 0)
	}

	// 切片項のために X に 1 の列を追加: X_design = [1, x]
	design := mat.NewDense(m, 2, nil)

	const parallelThreshold = 1000
	parallel.ParallelizeWithThreshold(m, parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			design.Set(i, 0, 1.0)
			design.Set(i, 1, x[i])
		}
	})

	var xt mat.Dense
	xt.CloneFrom(design.T())

	var xtx mat.Dense
	xtx.Mul(&xt, design)

	var xtxInv mat.Dense
	if err := xtxInv.Inverse(&xtx); err != nil {
		return errors.NewModelError("OLS.Fit", "singular matrix", errors.ErrSingularMatrix)
	}

	yVec := mat.NewVecDense(m, nil)
	for i := 0; i < m; i++ {
		yVec.SetVec(i, y[i])
	}

	var xty mat.VecDense
	xty.MulVec(&xt, yVec)

	var w mat.VecDense
	w.MulVec(&xtxInv, &xty)

	o.Theta0 = w.AtVec(0)
	o.Theta1 = w.AtVec(1)
	o.SetFitted()
	return nil
}

// Predict は入力に対する予測値を返す
func (o *OLS) Predict(x float64) (float64, error) {
	if !o.IsFitted() {
		return 0, errors.NewNotTrainedError("OLS", "Predict")
	}
	return o.Theta0 + o.Theta1*x, nil
}

// Comparison は閉形式解とその評価指標のまとめ
type Comparison struct {
	Theta0   float64        `json:"theta0"`
	Theta1   float64        `json:"theta1"`
	Metrics  metrics.Report `json:"metrics"`
	Equation string         `json:"equation"`
}

// CompareOLS は同じ学習パーティションで閉形式解を求め、
// テストパーティションで評価した結果を返す
func CompareOLS(xTrain, yTrain, xTest, yTest []float64) (*Comparison, error) {
	ols := NewOLS()
	if err := ols.Fit(xTrain, yTrain); err != nil {
		return nil, err
	}

	preds := make([]float64, len(xTest))
	for i, v := range xTest {
		preds[i] = ols.Theta0 + ols.Theta1*v
	}

	report, err := metrics.EvaluateSlices(yTest, preds)
	if err != nil {
		return nil, err
	}

	return &Comparison{
		Theta0:   ols.Theta0,
		Theta1:   ols.Theta1,
		Metrics:  report,
		Equation: fmt.Sprintf("y = %.6f + %.6f * x", ols.Theta0, ols.Theta1),
	}, nil
}
