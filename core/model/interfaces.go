// Package model provides additional interfaces and types for statistical models.
// This file complements the core interfaces in estimator.go and transformer.go
package model

import (
	"gonum.org/v1/gonum/mat"
)

// Scorer is the interface for models that can compute a goodness-of-fit score.
type Scorer interface {
	// Score returns a scalar quality measure of the model on the given data.
	// For probabilistic models this is the mean per-sample log-likelihood.
	Score(X mat.Matrix, y mat.Matrix) (float64, error)
}

// ProbabilisticPredictor is the interface for models that can report
// per-class or per-component membership probabilities.
type ProbabilisticPredictor interface {
	// PredictProba returns probability estimates for each component.
	PredictProba(X mat.Matrix) (mat.Matrix, error)
}

// Clusterer combines the interfaces a clustering estimator satisfies.
type Clusterer interface {
	Fitter
	Predictor
	Scorer
}

// SoftClusterer is a clustering estimator that additionally exposes
// soft membership probabilities.
type SoftClusterer interface {
	Clusterer
	ProbabilisticPredictor
}

// ParameterGetter is the interface for models that expose their hyperparameters.
type ParameterGetter interface {
	// GetParams returns the model's hyperparameters.
	GetParams() map[string]interface{}
}

// Persistable is the interface for models that can be saved and loaded.
type Persistable interface {
	// Save saves the model to a file.
	Save(path string) error

	// Load loads the model from a file.
	Load(path string) error
}
