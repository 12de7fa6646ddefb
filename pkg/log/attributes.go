// Package log defines standard attribute keys for model-fitting operations.
//
// Using these keys consistently across packages enables structured log
// analysis and filtering, e.g. tracking the convergence of an iterative
// fit by the "training.iteration" and "metrics.log_likelihood" keys.

package log

// Model and Operation Context
const (
	// ModelNameKey identifies the type of statistical model.
	// Examples: "GaussianMixture", "StandardScaler"
	ModelNameKey = "model.name"

	// OperationKey specifies the operation being performed.
	// Standard values: "fit", "predict", "predict_proba", "transform", "score"
	OperationKey = "ml.operation"

	// ComponentKey identifies which package is performing the operation.
	// Examples: "mixture", "preprocessing", "metrics"
	ComponentKey = "ml.component"
)

// Data Shape
const (
	// SamplesKey indicates the number of samples (rows) in the dataset.
	SamplesKey = "data.samples"

	// FeaturesKey indicates the number of features (columns) in the dataset.
	FeaturesKey = "data.features"
)

// Iterative Fitting
const (
	// IterationKey records the current iteration number during iterative processes.
	IterationKey = "training.iteration"

	// MixtureComponentsKey records the number of mixture components being fitted.
	MixtureComponentsKey = "training.n_components"

	// LogLikelihoodKey records the log-likelihood tracked by the convergence test.
	LogLikelihoodKey = "metrics.log_likelihood"

	// MaxDeltaKey records the maximum absolute change of the tracked convergence
	// vector between two consecutive iterations.
	MaxDeltaKey = "training.max_delta"

	// ConvergedKey records whether the fit satisfied the tolerance.
	ConvergedKey = "training.converged"

	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"
)

// Error Context
const (
	// ErrorCodeKey provides a structured error code for programmatic handling.
	// Examples: "DIMENSION_MISMATCH", "NOT_FITTED", "DEGENERATE_COMPONENT"
	ErrorCodeKey = "error.code"

	// ErrorTypeKey categorizes the type of error encountered.
	// Examples: "ValidationError", "DegenerateComponentError"
	ErrorTypeKey = "error.type"
)
