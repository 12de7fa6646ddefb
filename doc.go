// Package mixgo provides finite mixture model estimation for Go,
// designed for backend services and batch statistical workloads.
//
// mixgo offers a scikit-learn-like API so that users familiar with
// sklearn.mixture can fit Gaussian mixture models in Go with the same
// vocabulary: Fit, Predict, PredictProba, Score.
//
// # Features
//
// - Expectation-Maximization with log-space responsibilities
// - Explicit, caller-owned initialization (random, spread, or hand-built)
// - Parallel multi-restart fitting selecting the best log-likelihood
// - Guarded numerics: degenerate components surface as structured errors
// - Robust error handling with stack traces and a warning system
//
// # Quick Start
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//	    "math/rand"
//
//	    "github.com/YuminosukeSato/mixgo/mixture"
//	    "gonum.org/v1/gonum/mat"
//	)
//
//	func main() {
//	    X := mat.NewDense(4, 2, []float64{
//	        0.1, 0.2,
//	        0.2, 0.1,
//	        5.0, 5.1,
//	        5.1, 4.9,
//	    })
//
//	    init, err := mixture.SpreadInit(X, 2, rand.New(rand.NewSource(1)))
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    gmm := mixture.NewGaussianMixture(
//	        mixture.WithNComponents(2),
//	        mixture.WithInitialParams(init),
//	    )
//	    if err := gmm.Fit(X, nil); err != nil {
//	        log.Fatal(err)
//	    }
//
//	    fmt.Println("labels:", gmm.Labels())
//	}
//
// # Packages
//
// The library is organized into several packages:
//
//   - mixture: Gaussian mixture estimation via EM
//   - preprocessing: Data standardization (StandardScaler)
//   - metrics: Partition-comparison metrics (Purity, AdjustedRandIndex)
//   - core/model: Estimator interfaces, state management and persistence
//   - core/parallel: CPU-parallel helpers
//   - pkg/errors: Structured errors and warnings
//   - pkg/log: Structured logging helpers
package mixgo
