// Package mixture provides finite mixture model estimation.
//
// The flagship estimator is GaussianMixture, which fits a K-component
// multivariate Gaussian mixture to data via Expectation-Maximization,
// with an API compatible with scikit-learn's sklearn.mixture.GaussianMixture.
//
// # Quick Start
//
//	X := mat.NewDense(200, 2, data)
//
//	init, err := mixture.RandomInit(X, 2, rand.New(rand.NewSource(42)))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	gmm := mixture.NewGaussianMixture(
//	    mixture.WithNComponents(2),
//	    mixture.WithInitialParams(init),
//	)
//	if err := gmm.Fit(X, nil); err != nil {
//	    log.Fatal(err)
//	}
//
//	labels, err := gmm.Predict(X)
//
// EM converges to a local maximum of the likelihood determined by the
// initial parameters; FitBest runs several initializations in parallel
// and keeps the one with the highest final log-likelihood.
package mixture
