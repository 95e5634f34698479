// Package model は推定器の共通基盤を提供する
package model

// fitState は推定器の学習状態
type fitState uint8

const (
	notFitted fitState = iota
	fitted
)

// BaseEstimator は推定器に埋め込んで学習済み状態を管理する
//
// Fitの成功時にSetFittedを呼び、PredictやTransformの前に
// IsFittedで状態を確認する想定。
type BaseEstimator struct {
	state fitState
}

// IsFitted は学習済みならtrueを返す
func (e *BaseEstimator) IsFitted() bool {
	return e.state == fitted
}

// SetFitted は学習済み状態にする
func (e *BaseEstimator) SetFitted() {
	e.state = fitted
}

// Reset は未学習状態に戻す
func (e *BaseEstimator) Reset() {
	e.state = notFitted
}
