package mixture

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/mixgo/pkg/errors"
)

// InitialParams is the initial parameter bundle for a GaussianMixture:
// one mean vector, one covariance matrix and one mixing proportion per
// component. EM is fully deterministic given this bundle; any randomness
// belongs to the caller's choice of initializer and seed.
type InitialParams struct {
	Means       [][]float64     // K vectors of length D
	Covariances []*mat.SymDense // K matrices, D x D
	Weights     []float64       // K non-negative values summing to 1
}

// NewInitialParams builds an explicit initial parameter bundle and validates
// its internal consistency. The weights are renormalized to sum exactly to 1.
func NewInitialParams(means [][]float64, covariances []*mat.SymDense, weights []float64) (*InitialParams, error) {
	k := len(means)
	if k == 0 {
		return nil, errors.NewValidationError("means", "at least one component is required", k)
	}
	if len(covariances) != k {
		return nil, errors.NewDimensionError("NewInitialParams", k, len(covariances), 0)
	}
	if len(weights) != k {
		return nil, errors.NewDimensionError("NewInitialParams", k, len(weights), 0)
	}

	d := len(means[0])
	if d == 0 {
		return nil, errors.NewValidationError("means", "mean vectors must have at least one dimension", d)
	}
	for c, mean := range means {
		if len(mean) != d {
			return nil, errors.NewDimensionError("NewInitialParams", d, len(mean), 1)
		}
		if covariances[c] == nil || covariances[c].SymmetricDim() != d {
			return nil, errors.NewValidationError("covariances",
				"each covariance matrix must be D x D and non-nil", c)
		}
	}

	sum := 0.0
	for c, w := range weights {
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return nil, errors.NewValidationError("weights", "mixing proportions must be non-negative and finite", c)
		}
		sum += w
	}
	if sum <= 0 {
		return nil, errors.NewValueError("NewInitialParams", "mixing proportions must not all be zero")
	}

	p := &InitialParams{
		Means:       make([][]float64, k),
		Covariances: make([]*mat.SymDense, k),
		Weights:     make([]float64, k),
	}
	for c := 0; c < k; c++ {
		p.Means[c] = append([]float64(nil), means[c]...)
		p.Covariances[c] = mat.NewSymDense(d, nil)
		p.Covariances[c].CopySym(covariances[c])
		p.Weights[c] = weights[c] / sum
	}
	return p, nil
}

// Permuted returns a copy of the bundle with the components reordered
// according to perm, where perm[i] is the source index of component i.
// Component indices are exchangeable, so a permuted start yields the same
// partition of the data up to a relabeling.
func (p *InitialParams) Permuted(perm []int) (*InitialParams, error) {
	k := len(p.Means)
	if len(perm) != k {
		return nil, errors.NewDimensionError("InitialParams.Permuted", k, len(perm), 0)
	}
	means := make([][]float64, k)
	covs := make([]*mat.SymDense, k)
	weights := make([]float64, k)
	for i, src := range perm {
		if src < 0 || src >= k {
			return nil, errors.NewValidationError("perm", "index out of range", src)
		}
		means[i] = p.Means[src]
		covs[i] = p.Covariances[src]
		weights[i] = p.Weights[src]
	}
	return NewInitialParams(means, covs, weights)
}

// RandomInit draws k distinct data rows as initial means, gives every
// component the pooled covariance of the full dataset, and uses uniform
// mixing proportions. The caller owns the rng and therefore the seed.
func RandomInit(X mat.Matrix, k int, rng *rand.Rand) (*InitialParams, error) {
	n, d := X.Dims()
	if err := validateInitInput(n, d, k); err != nil {
		return nil, err
	}

	perm := rng.Perm(n)
	means := make([][]float64, k)
	for c := 0; c < k; c++ {
		means[c] = mat.Row(nil, perm[c], X)
	}

	return poolCovarianceInit(X, means)
}

// SpreadInit seeds the initial means by farthest-point sampling in the style
// of k-means++: the first mean is a random row, each further mean is the row
// with the largest squared distance to its nearest already-chosen mean,
// weighted by the rng draw. Components share the pooled data covariance and
// uniform mixing proportions. Spread-out starting means avoid the degenerate
// fixed point reached when two components start identically.
func SpreadInit(X mat.Matrix, k int, rng *rand.Rand) (*InitialParams, error) {
	n, d := X.Dims()
	if err := validateInitInput(n, d, k); err != nil {
		return nil, err
	}

	means := make([][]float64, k)
	means[0] = mat.Row(nil, rng.Intn(n), X)

	dists := make([]float64, n)
	for c := 1; c < k; c++ {
		total := 0.0
		for i := 0; i < n; i++ {
			row := mat.Row(nil, i, X)
			min := math.Inf(1)
			for j := 0; j < c; j++ {
				if d2 := squaredDistance(row, means[j]); d2 < min {
					min = d2
				}
			}
			dists[i] = min
			total += min
		}

		// All remaining points coincide with chosen means; fall back to
		// a uniform draw so k distinct rows are not required.
		if total == 0 {
			means[c] = mat.Row(nil, rng.Intn(n), X)
			continue
		}

		target := rng.Float64() * total
		cum := 0.0
		selected := n - 1
		for i := 0; i < n; i++ {
			cum += dists[i]
			if cum >= target {
				selected = i
				break
			}
		}
		means[c] = mat.Row(nil, selected, X)
	}

	return poolCovarianceInit(X, means)
}

func validateInitInput(n, d, k int) error {
	if k < 1 {
		return errors.NewValidationError("n_components", "must be at least 1", k)
	}
	if n == 0 || d == 0 {
		return errors.NewModelError("mixture.init", "empty data", errors.ErrEmptyData)
	}
	if n < k {
		return errors.Newf("mixgo: mixture.init: need at least as many samples as components: %d < %d", n, k)
	}
	return nil
}

// poolCovarianceInit completes an initial bundle from chosen means: every
// component starts from the covariance of the whole dataset (floored on the
// diagonal so constant features stay positive definite) and uniform weights.
func poolCovarianceInit(X mat.Matrix, means [][]float64) (*InitialParams, error) {
	k := len(means)
	_, d := X.Dims()

	var pooled mat.SymDense
	stat.CovarianceMatrix(&pooled, X, nil)
	addDiagonal(&pooled, defaultRegCovar)

	covs := make([]*mat.SymDense, k)
	weights := make([]float64, k)
	for c := 0; c < k; c++ {
		covs[c] = mat.NewSymDense(d, nil)
		covs[c].CopySym(&pooled)
		weights[c] = 1.0 / float64(k)
	}
	return NewInitialParams(means, covs, weights)
}

func squaredDistance(a, b []float64) float64 {
	d := floats.Distance(a, b, 2)
	return d * d
}
