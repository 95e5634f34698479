// Package gradient は単回帰 h(x) = θ₀ + θ₁·x のコストと勾配の計算を提供する
//
// 入力のxとyは準備済み（例えば正規化済み）の数値列を前提とする。
// コストは (1/2m)Σ(h-y)² の規約を採用しており、1/2の係数により勾配が
// (1/m)Σ(h-y) および (1/m)Σ(h-y)·x の単純な形になる。コストと勾配の
// 規約は必ず一致させること。
package gradient

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/gradgo/pkg/errors"
)

// Evaluator は固定されたデータ列に対するコスト・勾配の評価器
// データ点間に逐次依存はなく、全要素を配列単位で処理する
type Evaluator struct {
	x *mat.VecDense
	y *mat.VecDense
	m int
}

// NewEvaluator は新しいEvaluatorを作成する
func NewEvaluator(x, y []float64) (*Evaluator, error) {
	if len(x) == 0 {
		return nil, errors.NewModelError("gradient.NewEvaluator", "empty data", errors.ErrEmptyData)
	}
	if len(x) != len(y) {
		return nil, errors.NewDimensionError("gradient.NewEvaluator", len(x), len(y), 0)
	}

	return &Evaluator{
		x: mat.NewVecDense(len(x), x),
		y: mat.NewVecDense(len(y), y),
		m: len(x),
	}, nil
}

// NumSamples はデータ点数を返す
func (e *Evaluator) NumSamples() int {
	return e.m
}

// Cost はコスト J(θ) = (1/2m)Σ(h(x_i) - y_i)² を計算する
func (e *Evaluator) Cost(theta0, theta1 float64) float64 {
	var sum float64
	for i := 0; i < e.m; i++ {
		residual := theta0 + theta1*e.x.AtVec(i) - e.y.AtVec(i)
		sum += residual * residual
	}
	return sum / (2.0 * float64(e.m))
}

// Gradients はθ₀とθ₁に対する解析的勾配を計算する
//
//	grad0 = (1/m)Σ(h(x_i) - y_i)
//	grad1 = (1/m)Σ(h(x_i) - y_i)·x_i
//
// 両方の勾配は同一のパラメータ値から計算される（同時更新の前提）。
func (e *Evaluator) Gradients(theta0, theta1 float64) (grad0, grad1 float64) {
	var sum0, sum1 float64
	for i := 0; i < e.m; i++ {
		xi := e.x.AtVec(i)
		residual := theta0 + theta1*xi - e.y.AtVec(i)
		sum0 += residual
		sum1 += residual * xi
	}
	m := float64(e.m)
	return sum0 / m, sum1 / m
}

// Predict は与えられたパラメータでの予測値ベクトルを返す
func (e *Evaluator) Predict(theta0, theta1 float64) []float64 {
	preds := make([]float64, e.m)
	for i := 0; i < e.m; i++ {
		preds[i] = theta0 + theta1*e.x.AtVec(i)
	}
	return preds
}
