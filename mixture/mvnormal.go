package mixture

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"

	"github.com/YuminosukeSato/mixgo/pkg/errors"
)

// mvNormal is a guarded multivariate normal density. All density evaluation
// in the EM loop goes through this type so that a covariance matrix that is
// not positive definite surfaces as a DegenerateComponentError instead of
// propagating NaN through the responsibilities.
type mvNormal struct {
	dist *distmv.Normal
}

// newMVNormal builds the density for one mixture component. If the covariance
// is not positive definite, one retry is made with regCovar added to the
// diagonal; a second failure is reported as a degenerate component.
// The component and iteration indices are carried only for error reporting.
func newMVNormal(mean []float64, cov *mat.SymDense, regCovar float64, component, iteration int) (*mvNormal, error) {
	if dist, ok := distmv.NewNormal(mean, cov, nil); ok {
		return &mvNormal{dist: dist}, nil
	}

	// Retry with a regularized covariance.
	d := cov.SymmetricDim()
	reg := mat.NewSymDense(d, nil)
	reg.CopySym(cov)
	for j := 0; j < d; j++ {
		reg.SetSym(j, j, reg.At(j, j)+regCovar)
	}

	if dist, ok := distmv.NewNormal(mean, reg, nil); ok {
		return &mvNormal{dist: dist}, nil
	}

	return nil, errors.NewDegenerateComponentError(component, 0, iteration,
		"covariance matrix is not positive definite")
}

// LogProb returns the log of the density evaluated at x.
func (m *mvNormal) LogProb(x []float64) float64 {
	return m.dist.LogProb(x)
}

// addDiagonal adds value to every diagonal element of cov in place.
// Applied after each M-step as a regularization floor, it keeps
// single-point components (effective count near one) positive definite.
func addDiagonal(cov *mat.SymDense, value float64) {
	d := cov.SymmetricDim()
	for j := 0; j < d; j++ {
		cov.SetSym(j, j, cov.At(j, j)+value)
	}
}
