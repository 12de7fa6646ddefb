package mixture

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/mixgo/core/parallel"
	"github.com/YuminosukeSato/mixgo/pkg/errors"
)

const (
	// defaultRegCovar is the regularization floor added to every covariance
	// diagonal after the M-step. It keeps single-point components (effective
	// count near one) positive definite.
	defaultRegCovar = 1e-6

	// minEffectiveCount is the soft-count floor below which a component is
	// reported as degenerate rather than divided by.
	minEffectiveCount = 1e-10

	// underflowLogFloor clamps a sample's log-likelihood contribution when
	// its density underflows under every component. The corresponding
	// responsibility row is set uniform, so the row remains a valid
	// probability distribution instead of 0/0.
	underflowLogFloor = -745.0

	// eStepParallelThreshold is the row count above which the E-step
	// evaluates densities in parallel.
	eStepParallelThreshold = 512
)

// emState is one iteration's worth of EM state: the current parameter
// estimates, the responsibilities they imply, and the log-likelihood used by
// the convergence test. The state is threaded through a pure step function,
// so a single iteration can be tested in isolation.
type emState struct {
	weights          []float64
	means            [][]float64
	covariances      []*mat.SymDense
	responsibilities *mat.Dense
	logLikelihood    float64
	iteration        int
}

type emConfig struct {
	nComponents int
	nFeatures   int
	regCovar    float64
}

// newEMState deep-copies the initial parameter bundle into iteration zero.
// The responsibilities and log-likelihood are not defined until the first
// E-step has run.
func newEMState(init *InitialParams) *emState {
	k := len(init.Means)
	d := len(init.Means[0])

	s := &emState{
		weights:       make([]float64, k),
		means:         make([][]float64, k),
		covariances:   make([]*mat.SymDense, k),
		logLikelihood: math.Inf(-1),
	}
	copy(s.weights, init.Weights)
	for c := 0; c < k; c++ {
		s.means[c] = append([]float64(nil), init.Means[c]...)
		s.covariances[c] = mat.NewSymDense(d, nil)
		s.covariances[c].CopySym(init.Covariances[c])
	}
	return s
}

// emStep performs one full EM iteration: an E-step under the current
// parameters followed by an M-step under the fresh responsibilities.
// It returns a new state and leaves its input untouched.
func emStep(state *emState, X mat.Matrix, cfg emConfig) (*emState, error) {
	resp, logLikelihood, err := eStep(state, X, cfg)
	if err != nil {
		return nil, err
	}

	weights, means, covariances, err := mStep(resp, X, cfg, state.iteration+1)
	if err != nil {
		return nil, err
	}

	return &emState{
		weights:          weights,
		means:            means,
		covariances:      covariances,
		responsibilities: resp,
		logLikelihood:    logLikelihood,
		iteration:        state.iteration + 1,
	}, nil
}

// eStep computes the responsibility matrix and the total log-likelihood under
// the parameters held in state. Rows are normalized in log-space: the
// unnormalized log responsibilities are reduced with LogSumExp, so scaling
// never passes through a potentially underflowing linear-space sum.
func eStep(state *emState, X mat.Matrix, cfg emConfig) (*mat.Dense, float64, error) {
	n, _ := X.Dims()
	k := cfg.nComponents

	dists := make([]*mvNormal, k)
	logWeights := make([]float64, k)
	for c := 0; c < k; c++ {
		var err error
		dists[c], err = newMVNormal(state.means[c], state.covariances[c], cfg.regCovar, c, state.iteration)
		if err != nil {
			return nil, 0, err
		}
		// A zero mixing proportion maps to -Inf and drops out of LogSumExp.
		logWeights[c] = math.Log(state.weights[c])
	}

	resp := mat.NewDense(n, k, nil)
	rowLogLikelihood := make([]float64, n)

	parallel.ParallelizeWithThreshold(n, eStepParallelThreshold, func(start, end int) {
		buf := make([]float64, k)
		x := make([]float64, cfg.nFeatures)
		for i := start; i < end; i++ {
			mat.Row(x, i, X)
			for c := 0; c < k; c++ {
				buf[c] = logWeights[c] + dists[c].LogProb(x)
			}
			norm := floats.LogSumExp(buf)
			if math.IsInf(norm, -1) {
				// The density underflowed under every component. The
				// normalization would be 0/0; assign the row uniformly and
				// clamp its likelihood contribution.
				for c := 0; c < k; c++ {
					resp.Set(i, c, 1.0/float64(k))
				}
				rowLogLikelihood[i] = underflowLogFloor
				continue
			}
			for c := 0; c < k; c++ {
				resp.Set(i, c, math.Exp(buf[c]-norm))
			}
			rowLogLikelihood[i] = norm
		}
	})

	logLikelihood := floats.Sum(rowLogLikelihood)
	if err := errors.CheckScalar("log_likelihood", logLikelihood, state.iteration); err != nil {
		return nil, 0, err
	}
	return resp, logLikelihood, nil
}

// mStep re-estimates mixing proportions, means and covariances from the
// responsibility matrix. The covariance uses the raw-second-moment form
//
//	cov_c = (1/N_c) Σ_i r_ic x_i x_iᵀ − μ_c μ_cᵀ
//
// accumulated directly into a symmetric matrix, then floored on the diagonal
// with regCovar. Centering or scaling data beforehand improves the
// conditioning of this accumulation for data far from the origin.
func mStep(resp *mat.Dense, X mat.Matrix, cfg emConfig, iteration int) ([]float64, [][]float64, []*mat.SymDense, error) {
	n, d := X.Dims()
	k := cfg.nComponents

	weights := make([]float64, k)
	means := make([][]float64, k)
	covariances := make([]*mat.SymDense, k)

	x := make([]float64, d)
	for c := 0; c < k; c++ {
		effectiveCount := 0.0
		for i := 0; i < n; i++ {
			effectiveCount += resp.At(i, c)
		}
		if effectiveCount < minEffectiveCount {
			return nil, nil, nil, errors.NewDegenerateComponentError(c, effectiveCount, iteration,
				"effective count collapsed to zero")
		}

		weights[c] = effectiveCount / float64(n)

		mean := make([]float64, d)
		secondMoment := mat.NewSymDense(d, nil)
		for i := 0; i < n; i++ {
			r := resp.At(i, c)
			mat.Row(x, i, X)
			for j := 0; j < d; j++ {
				mean[j] += r * x[j]
				for l := j; l < d; l++ {
					secondMoment.SetSym(j, l, secondMoment.At(j, l)+r*x[j]*x[l])
				}
			}
		}
		for j := 0; j < d; j++ {
			mean[j] /= effectiveCount
		}

		cov := mat.NewSymDense(d, nil)
		for j := 0; j < d; j++ {
			for l := j; l < d; l++ {
				cov.SetSym(j, l, secondMoment.At(j, l)/effectiveCount-mean[j]*mean[l])
			}
		}
		addDiagonal(cov, cfg.regCovar)

		means[c] = mean
		covariances[c] = cov
	}

	// Guard against float drift so the proportions stay a distribution.
	total := floats.Sum(weights)
	for c := range weights {
		weights[c] /= total
	}

	return weights, means, covariances, nil
}

// trackedVector is the quantity compared between consecutive iterations by
// the convergence test: the log-likelihood followed by the mixing
// proportions.
func (s *emState) trackedVector() []float64 {
	v := make([]float64, 0, 1+len(s.weights))
	v = append(v, s.logLikelihood)
	return append(v, s.weights...)
}

// maxAbsDiff returns the maximum element-wise absolute difference between two
// equally sized vectors.
func maxAbsDiff(a, b []float64) float64 {
	max := 0.0
	for i := range a {
		if diff := math.Abs(a[i] - b[i]); diff > max {
			max = diff
		}
	}
	return max
}

// hardAssignment derives one cluster label per observation as the component
// with maximal responsibility. Ties resolve to the first maximal index.
func hardAssignment(resp *mat.Dense) []int {
	n, k := resp.Dims()
	labels := make([]int, n)
	for i := 0; i < n; i++ {
		best := 0
		bestVal := resp.At(i, 0)
		for c := 1; c < k; c++ {
			if v := resp.At(i, c); v > bestVal {
				best = c
				bestVal = v
			}
		}
		labels[i] = best
	}
	return labels
}
