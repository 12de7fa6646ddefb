package mixture

import (
	"log/slog"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/mixgo/core/model"
	"github.com/YuminosukeSato/mixgo/pkg/errors"
	mixlog "github.com/YuminosukeSato/mixgo/pkg/log"
)

// GaussianMixture fits a finite Gaussian mixture model by
// Expectation-Maximization. Compatible with scikit-learn's GaussianMixture.
//
// The estimator is deterministic given its initial parameter bundle: EM
// converges to a local maximum of the likelihood surface determined by the
// start. Two components starting from identical means are a degenerate fixed
// point the algorithm cannot escape; use SpreadInit or distinct means to
// break the symmetry.
type GaussianMixture struct {
	state *model.StateManager

	// Hyperparameters
	nComponents int     // Number of mixture components (K)
	tol         float64 // Convergence tolerance on [logL, weights...]
	maxIter     int     // Maximum EM iterations
	regCovar    float64 // Diagonal floor added to covariances each M-step
	verbose     int     // Verbosity level
	keepHistory bool    // Record one IterationLog per iteration
	initial     *InitialParams
	progress    func(iteration int, logLikelihood float64)

	// Model parameters
	weights_          []float64       // Mixing proportions (K)
	means_            [][]float64     // Component means (K x D)
	covariances_      []*mat.SymDense // Component covariances (K, D x D)
	responsibilities_ *mat.Dense      // Posterior membership (N x K), training data
	labels_           []int           // Hard assignment per training observation
	logLikelihood_    float64         // Total log-likelihood at termination
	nIter_            int             // Iterations actually run
	converged_        bool            // Whether the tolerance was met
	nFeatures_        int             // Feature count seen during fit
	history_          []IterationLog
}

// IterationLog records the convergence diagnostics of a single EM iteration.
type IterationLog struct {
	Iteration     int
	LogLikelihood float64
	MaxDelta      float64 // Max absolute change of [logL, weights...] vs. previous iteration
}

// GaussianMixtureOption is a functional option for GaussianMixture
type GaussianMixtureOption func(*GaussianMixture)

// NewGaussianMixture creates a new GaussianMixture estimator
func NewGaussianMixture(opts ...GaussianMixtureOption) *GaussianMixture {
	gm := &GaussianMixture{
		state:       model.NewStateManager(),
		nComponents: 1,
		tol:         1e-6,
		maxIter:     200,
		regCovar:    defaultRegCovar,
		verbose:     0,
	}

	for _, opt := range opts {
		opt(gm)
	}

	return gm
}

// WithNComponents sets the number of mixture components
func WithNComponents(k int) GaussianMixtureOption {
	return func(gm *GaussianMixture) {
		gm.nComponents = k
	}
}

// WithTol sets the convergence tolerance
func WithTol(tol float64) GaussianMixtureOption {
	return func(gm *GaussianMixture) {
		gm.tol = tol
	}
}

// WithMaxIter sets the maximum number of EM iterations
func WithMaxIter(maxIter int) GaussianMixtureOption {
	return func(gm *GaussianMixture) {
		gm.maxIter = maxIter
	}
}

// WithRegCovar sets the non-negative regularization added to the diagonal of
// each covariance matrix after every M-step
func WithRegCovar(regCovar float64) GaussianMixtureOption {
	return func(gm *GaussianMixture) {
		gm.regCovar = regCovar
	}
}

// WithVerbose sets the verbosity level
func WithVerbose(verbose int) GaussianMixtureOption {
	return func(gm *GaussianMixture) {
		gm.verbose = verbose
	}
}

// WithInitialParams sets the initial parameter bundle EM starts from
func WithInitialParams(initial *InitialParams) GaussianMixtureOption {
	return func(gm *GaussianMixture) {
		gm.initial = initial
	}
}

// WithHistory enables recording of per-iteration convergence diagnostics
func WithHistory() GaussianMixtureOption {
	return func(gm *GaussianMixture) {
		gm.keepHistory = true
	}
}

// WithProgressFunc installs a diagnostic hook invoked after each iteration.
// The hook observes progress only; it must not mutate the estimator.
func WithProgressFunc(fn func(iteration int, logLikelihood float64)) GaussianMixtureOption {
	return func(gm *GaussianMixture) {
		gm.progress = fn
	}
}

// Fit runs EM until the tracked quantity [logL, weights...] changes by at
// most tol between consecutive iterations, or the iteration budget is
// exhausted. Reaching the budget is not an error: the last estimates are
// kept, Converged reports false, and a ConvergenceWarning is emitted through
// the warning handler.
//
// y is ignored; it exists to satisfy the Fitter interface.
func (gm *GaussianMixture) Fit(X, y mat.Matrix) error {
	n, d := X.Dims()
	if err := gm.validateFitInput(n, d); err != nil {
		return err
	}
	// NaN or Inf in the data would surface deep in the E-step as an
	// unstable log-likelihood; reject it up front instead.
	if err := errors.CheckMatrix("input_data", X, n, d, 0); err != nil {
		return err
	}

	cfg := emConfig{
		nComponents: gm.nComponents,
		nFeatures:   d,
		regCovar:    gm.regCovar,
	}

	state := newEMState(gm.initial)
	prev := state.trackedVector()
	converged := false
	var history []IterationLog

	for iter := 1; iter <= gm.maxIter; iter++ {
		next, err := emStep(state, X, cfg)
		if err != nil {
			return err
		}
		state = next

		cur := state.trackedVector()
		delta := maxAbsDiff(cur, prev)
		prev = cur

		if gm.keepHistory {
			history = append(history, IterationLog{
				Iteration:     iter,
				LogLikelihood: state.logLikelihood,
				MaxDelta:      delta,
			})
		}
		if gm.progress != nil {
			gm.progress(iter, state.logLikelihood)
		}
		if gm.verbose > 0 {
			slog.Info("EM iteration",
				mixlog.ModelNameKey, "GaussianMixture",
				mixlog.IterationKey, iter,
				mixlog.LogLikelihoodKey, state.logLikelihood,
				mixlog.MaxDeltaKey, delta,
			)
		}

		if delta <= gm.tol {
			converged = true
			break
		}
	}

	// Refresh responsibilities and likelihood under the returned parameters,
	// so the reported posterior matches the reported estimates exactly.
	resp, logLikelihood, err := eStep(state, X, cfg)
	if err != nil {
		return err
	}

	gm.weights_ = state.weights
	gm.means_ = state.means
	gm.covariances_ = state.covariances
	gm.responsibilities_ = resp
	gm.labels_ = hardAssignment(resp)
	gm.logLikelihood_ = logLikelihood
	gm.nIter_ = state.iteration
	gm.converged_ = converged
	gm.nFeatures_ = d
	gm.history_ = history

	gm.state.SetDimensions(d, n)
	gm.state.SetFitted()

	if !converged {
		errors.Warn(errors.NewConvergenceWarning("GaussianMixture", gm.maxIter, ""))
	}
	return nil
}

func (gm *GaussianMixture) validateFitInput(n, d int) error {
	if n == 0 || d == 0 {
		return errors.NewModelError("GaussianMixture.Fit", "empty data", errors.ErrEmptyData)
	}
	if gm.nComponents < 1 {
		return errors.NewValidationError("n_components", "must be at least 1", gm.nComponents)
	}
	if n < gm.nComponents {
		return errors.Newf("mixgo: GaussianMixture.Fit: need at least as many samples as components: %d < %d", n, gm.nComponents)
	}
	if gm.tol <= 0 {
		return errors.NewValidationError("tol", "must be positive", gm.tol)
	}
	if gm.maxIter < 1 {
		return errors.NewValidationError("max_iter", "must be at least 1", gm.maxIter)
	}
	if gm.regCovar < 0 {
		return errors.NewValidationError("reg_covar", "must be non-negative", gm.regCovar)
	}
	if gm.initial == nil {
		return errors.NewValidationError("initial_params",
			"an initial parameter bundle is required; build one with NewInitialParams, RandomInit or SpreadInit", nil)
	}
	if len(gm.initial.Means) != gm.nComponents {
		return errors.NewDimensionError("GaussianMixture.Fit", gm.nComponents, len(gm.initial.Means), 0)
	}
	if len(gm.initial.Covariances) != gm.nComponents {
		return errors.NewDimensionError("GaussianMixture.Fit", gm.nComponents, len(gm.initial.Covariances), 0)
	}
	if len(gm.initial.Weights) != gm.nComponents {
		return errors.NewDimensionError("GaussianMixture.Fit", gm.nComponents, len(gm.initial.Weights), 0)
	}
	for c, mean := range gm.initial.Means {
		if len(mean) != d {
			return errors.NewDimensionError("GaussianMixture.Fit", d, len(mean), 1)
		}
		if gm.initial.Covariances[c] == nil {
			return errors.NewValidationError("initial_params", "covariance matrix must not be nil", c)
		}
		if dim := gm.initial.Covariances[c].SymmetricDim(); dim != d {
			return errors.NewDimensionError("GaussianMixture.Fit", d, dim, 1)
		}
	}
	return nil
}

// Predict returns the hard cluster label for each row of X as an n x 1
// matrix: the component with maximal responsibility, first index winning ties.
func (gm *GaussianMixture) Predict(X mat.Matrix) (mat.Matrix, error) {
	resp, err := gm.PredictProba(X)
	if err != nil {
		return nil, err
	}

	dense, ok := resp.(*mat.Dense)
	if !ok {
		return nil, errors.New("mixgo: GaussianMixture.Predict: unexpected responsibility matrix type")
	}
	labels := hardAssignment(dense)

	n := len(labels)
	predictions := mat.NewDense(n, 1, nil)
	for i, label := range labels {
		predictions.Set(i, 0, float64(label))
	}
	return predictions, nil
}

// PredictProba returns the n x K responsibility matrix of X under the fitted
// parameters. Every row is a probability distribution over the components.
func (gm *GaussianMixture) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	if !gm.state.IsFitted() {
		return nil, errors.NewNotFittedError("GaussianMixture", "PredictProba")
	}

	_, d := X.Dims()
	if d != gm.nFeatures_ {
		return nil, errors.NewDimensionError("GaussianMixture.PredictProba", gm.nFeatures_, d, 1)
	}

	resp, _, err := eStep(gm.fittedState(), X, gm.fittedConfig())
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// FitPredict fits the model and returns the hard labels of the training data.
func (gm *GaussianMixture) FitPredict(X, y mat.Matrix) (mat.Matrix, error) {
	if err := gm.Fit(X, y); err != nil {
		return nil, err
	}

	n := len(gm.labels_)
	predictions := mat.NewDense(n, 1, nil)
	for i, label := range gm.labels_ {
		predictions.Set(i, 0, float64(label))
	}
	return predictions, nil
}

// Score returns the mean per-sample log-likelihood of X under the fitted
// model. y is ignored.
func (gm *GaussianMixture) Score(X, y mat.Matrix) (float64, error) {
	if !gm.state.IsFitted() {
		return 0, errors.NewNotFittedError("GaussianMixture", "Score")
	}

	n, d := X.Dims()
	if d != gm.nFeatures_ {
		return 0, errors.NewDimensionError("GaussianMixture.Score", gm.nFeatures_, d, 1)
	}

	_, logLikelihood, err := eStep(gm.fittedState(), X, gm.fittedConfig())
	if err != nil {
		return 0, err
	}
	return logLikelihood / float64(n), nil
}

// ScoreSamples returns the per-sample log-likelihood of X as an n x 1 matrix.
func (gm *GaussianMixture) ScoreSamples(X mat.Matrix) (mat.Matrix, error) {
	if !gm.state.IsFitted() {
		return nil, errors.NewNotFittedError("GaussianMixture", "ScoreSamples")
	}

	n, d := X.Dims()
	if d != gm.nFeatures_ {
		return nil, errors.NewDimensionError("GaussianMixture.ScoreSamples", gm.nFeatures_, d, 1)
	}

	st := gm.fittedState()
	cfg := gm.fittedConfig()

	dists := make([]*mvNormal, gm.nComponents)
	logWeights := make([]float64, gm.nComponents)
	for c := 0; c < gm.nComponents; c++ {
		var err error
		dists[c], err = newMVNormal(st.means[c], st.covariances[c], cfg.regCovar, c, st.iteration)
		if err != nil {
			return nil, err
		}
		logWeights[c] = math.Log(st.weights[c])
	}

	scores := mat.NewDense(n, 1, nil)
	buf := make([]float64, gm.nComponents)
	x := make([]float64, d)
	for i := 0; i < n; i++ {
		mat.Row(x, i, X)
		for c := 0; c < gm.nComponents; c++ {
			buf[c] = logWeights[c] + dists[c].LogProb(x)
		}
		score := floats.LogSumExp(buf)
		if math.IsInf(score, -1) {
			score = underflowLogFloor
		}
		scores.Set(i, 0, score)
	}
	return scores, nil
}

// fittedState reconstructs an emState view over the fitted parameters so the
// E-step can be reused for inference on new data.
func (gm *GaussianMixture) fittedState() *emState {
	return &emState{
		weights:     gm.weights_,
		means:       gm.means_,
		covariances: gm.covariances_,
		iteration:   gm.nIter_,
	}
}

func (gm *GaussianMixture) fittedConfig() emConfig {
	return emConfig{
		nComponents: gm.nComponents,
		nFeatures:   gm.nFeatures_,
		regCovar:    gm.regCovar,
	}
}

// Accessors

// Weights returns the fitted mixing proportions.
func (gm *GaussianMixture) Weights() []float64 {
	if gm.weights_ == nil {
		return nil
	}
	return append([]float64(nil), gm.weights_...)
}

// Means returns the fitted component means.
func (gm *GaussianMixture) Means() [][]float64 {
	if gm.means_ == nil {
		return nil
	}
	means := make([][]float64, len(gm.means_))
	for c := range gm.means_ {
		means[c] = append([]float64(nil), gm.means_[c]...)
	}
	return means
}

// Covariances returns the fitted component covariance matrices.
func (gm *GaussianMixture) Covariances() []*mat.SymDense {
	if gm.covariances_ == nil {
		return nil
	}
	covs := make([]*mat.SymDense, len(gm.covariances_))
	for c, cov := range gm.covariances_ {
		covs[c] = mat.NewSymDense(cov.SymmetricDim(), nil)
		covs[c].CopySym(cov)
	}
	return covs
}

// Responsibilities returns the posterior membership matrix of the training
// data under the fitted parameters.
func (gm *GaussianMixture) Responsibilities() *mat.Dense {
	if gm.responsibilities_ == nil {
		return nil
	}
	var resp mat.Dense
	resp.CloneFrom(gm.responsibilities_)
	return &resp
}

// Labels returns the hard cluster assignment of the training data.
func (gm *GaussianMixture) Labels() []int {
	if gm.labels_ == nil {
		return nil
	}
	return append([]int(nil), gm.labels_...)
}

// LogLikelihood returns the total log-likelihood of the training data at
// termination.
func (gm *GaussianMixture) LogLikelihood() float64 {
	return gm.logLikelihood_
}

// NIterations returns the number of EM iterations actually run.
func (gm *GaussianMixture) NIterations() int {
	return gm.nIter_
}

// Converged reports whether the fit satisfied the tolerance within the
// iteration budget.
func (gm *GaussianMixture) Converged() bool {
	return gm.converged_
}

// History returns the per-iteration convergence diagnostics recorded when
// the WithHistory option is set.
func (gm *GaussianMixture) History() []IterationLog {
	if gm.history_ == nil {
		return nil
	}
	return append([]IterationLog(nil), gm.history_...)
}

// IsFitted returns whether the model has been fitted.
func (gm *GaussianMixture) IsFitted() bool {
	return gm.state.IsFitted()
}

// GetParams returns the model's hyperparameters.
func (gm *GaussianMixture) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"n_components": gm.nComponents,
		"tol":          gm.tol,
		"max_iter":     gm.maxIter,
		"reg_covar":    gm.regCovar,
		"verbose":      gm.verbose,
	}
}
