package preprocessing

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/gradgo/core/model"
	"github.com/YuminosukeSato/gradgo/pkg/errors"
)

// Params は1列分の正規化統計量（母平均と母標準偏差）
type Params struct {
	Mean float64
	Std  float64
}

// Fit は与えられた列から母平均と母標準偏差を計算する
//
// 標準偏差が0（定数列）の場合はDegenerateInputErrorを返す。
// 元のスケールに戻す際の除算が定義できないため、呼び出し側が
// 中断するか正規化をスキップするかを判断する。
func Fit(column string, values []float64) (Params, error) {
	if len(values) == 0 {
		return Params{}, errors.NewModelError("preprocessing.Fit", "empty data", errors.ErrEmptyData)
	}

	mean := stat.Mean(values, nil)
	std := stat.PopStdDev(values, nil)

	if std == 0 {
		return Params{}, errors.NewDegenerateInputError("preprocessing.Fit", column)
	}

	return Params{Mean: mean, Std: std}, nil
}

// Transform は列をz-score標準化する: (v - mean) / std
func Transform(values []float64, p Params) []float64 {
	result := make([]float64, len(values))
	for i, v := range values {
		result[i] = (v - p.Mean) / p.Std
	}
	return result
}

// InverseTransform は標準化された列を元のスケールに戻す: v*std + mean
func InverseTransform(values []float64, p Params) []float64 {
	result := make([]float64, len(values))
	for i, v := range values {
		result[i] = v*p.Std + p.Mean
	}
	return result
}

// InverseTransformParams は正規化空間で学習された回帰係数を元のスケールに変換する
//
// 閉形式の関係を使う:
//
//	theta1_orig = theta1_norm * std_y / std_x
//	theta0_orig = mean_y + std_y*theta0_norm - theta1_orig*mean_x
//
// この変換は厳密であり、再学習は不要。
func InverseTransformParams(theta0Norm, theta1Norm float64, x, y Params) (theta0, theta1 float64) {
	theta1 = theta1Norm * y.Std / x.Std
	theta0 = y.Mean + y.Std*theta0Norm - theta1*x.Mean
	return theta0, theta1
}

// Normalizer は単回帰の特徴量と目的変数のペアを標準化するスケーラー
// 統計量は学習パーティションのみから計算する（テストデータへのリーク防止）
type Normalizer struct {
	model.BaseEstimator

	// X は特徴量列の正規化統計量
	X Params

	// Y は目的変数列の正規化統計量
	Y Params
}

// NewNormalizer は新しいNormalizerを作成する
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Fit は学習データから両列の統計量を計算する
func (n *Normalizer) Fit(x, y []float64) error {
	if len(x) != len(y) {
		return errors.NewDimensionError("Normalizer.Fit", len(x), len(y), 0)
	}

	xParams, err := Fit("x", x)
	if err != nil {
		return err
	}
	yParams, err := Fit("y", y)
	if err != nil {
		return err
	}

	n.X = xParams
	n.Y = yParams
	n.SetFitted()
	return nil
}

// NormalizeX は特徴量列を標準化する
func (n *Normalizer) NormalizeX(values []float64) ([]float64, error) {
	if !n.IsFitted() {
		return nil, errors.NewNotTrainedError("Normalizer", "NormalizeX")
	}
	return Transform(values, n.X), nil
}

// NormalizeY は目的変数列を標準化する
func (n *Normalizer) NormalizeY(values []float64) ([]float64, error) {
	if !n.IsFitted() {
		return nil, errors.NewNotTrainedError("Normalizer", "NormalizeY")
	}
	return Transform(values, n.Y), nil
}

// NormalizeInput は単一の入力値を特徴量の統計量で標準化する
func (n *Normalizer) NormalizeInput(x float64) (float64, error) {
	if !n.IsFitted() {
		return 0, errors.NewNotTrainedError("Normalizer", "NormalizeInput")
	}
	return (x - n.X.Mean) / n.X.Std, nil
}

// DenormalizePredictions は正規化空間の予測値を元のyスケールに戻す
func (n *Normalizer) DenormalizePredictions(predsNorm []float64) ([]float64, error) {
	if !n.IsFitted() {
		return nil, errors.NewNotTrainedError("Normalizer", "DenormalizePredictions")
	}
	return InverseTransform(predsNorm, n.Y), nil
}

// DenormalizeParams は正規化空間の回帰係数を元のスケールに変換する
func (n *Normalizer) DenormalizeParams(theta0Norm, theta1Norm float64) (theta0, theta1 float64, err error) {
	if !n.IsFitted() {
		return 0, 0, errors.NewNotTrainedError("Normalizer", "DenormalizeParams")
	}
	theta0, theta1 = InverseTransformParams(theta0Norm, theta1Norm, n.X, n.Y)
	return theta0, theta1, nil
}

// String はスケーラーの文字列表現を返す
func (n *Normalizer) String() string {
	if !n.IsFitted() {
		return "Normalizer()"
	}
	return fmt.Sprintf("Normalizer(x_mean=%.4f, x_std=%.4f, y_mean=%.4f, y_std=%.4f)",
		n.X.Mean, n.X.Std, n.Y.Mean, n.Y.Std)
}
