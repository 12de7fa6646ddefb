package model

import "gonum.org/v1/gonum/mat"

// Fitter は学習可能なモデルのインターフェース
type Fitter interface {
	// Fit はモデルを訓練データで学習させる
	Fit(X, y mat.Matrix) error
}

// Predictor は予測可能なモデルのインターフェース
type Predictor interface {
	// Predict は入力データに対する予測を行う
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// MixtureModel は混合モデルのインターフェース
type MixtureModel interface {
	// Weights は学習された混合比率を返す
	Weights() []float64
	// LogLikelihood は収束時点の対数尤度を返す
	LogLikelihood() float64
	// Converged は収束判定が満たされたかどうかを返す
	Converged() bool
}
