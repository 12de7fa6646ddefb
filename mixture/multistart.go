package mixture

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/mixgo/core/parallel"
	"github.com/YuminosukeSato/mixgo/pkg/errors"
)

// FitResult is the outcome of one restart in a multi-start fit.
type FitResult struct {
	Model *GaussianMixture
	Err   error
}

// FitBest fits one GaussianMixture per initial parameter bundle and returns
// the fit with the highest final log-likelihood. The restarts run as
// independent parallel tasks; each fit owns its parameter and responsibility
// state exclusively, so no synchronization beyond joining is needed.
//
// Restarts that abort with a degenerate component are skipped, and a restart
// that panics is recovered into that restart's error. FitBest fails only when
// every restart fails, returning the first error observed.
func FitBest(X mat.Matrix, inits []*InitialParams, opts ...GaussianMixtureOption) (*GaussianMixture, error) {
	if len(inits) == 0 {
		return nil, errors.NewValidationError("inits", "at least one initial parameter bundle is required", 0)
	}

	results := make([]FitResult, len(inits))
	parallel.Tasks(len(inits), func(i int) {
		// Each task gets its own option slice; appending to the shared one
		// would race on the backing array.
		local := make([]GaussianMixtureOption, len(opts), len(opts)+1)
		copy(local, opts)
		local = append(local, WithInitialParams(inits[i]))

		gm := NewGaussianMixture(local...)
		err := errors.SafeExecute("FitBest restart", func() error {
			return gm.Fit(X, nil)
		})
		results[i] = FitResult{Model: gm, Err: err}
	})

	var best *GaussianMixture
	var firstErr error
	for _, res := range results {
		if res.Err != nil {
			if firstErr == nil {
				firstErr = res.Err
			}
			continue
		}
		if best == nil || res.Model.LogLikelihood() > best.LogLikelihood() {
			best = res.Model
		}
	}

	if best == nil {
		return nil, errors.Wrap(firstErr, "all restarts failed")
	}
	return best, nil
}
