package mixture

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/mixgo/core/model"
	"github.com/YuminosukeSato/mixgo/pkg/errors"
)

// gmmSnapshot is the gob representation of a fitted GaussianMixture.
// Training artifacts (responsibilities, labels, history) are not persisted;
// they can be recomputed from the parameters with PredictProba/Predict.
type gmmSnapshot struct {
	NComponents   int
	Tol           float64
	MaxIter       int
	RegCovar      float64
	NFeatures     int
	Weights       []float64
	Means         [][]float64
	Covariances   [][]float64 // each D*D, row-major
	LogLikelihood float64
	NIter         int
	Converged     bool
}

// Save saves the fitted model to a file using gob encoding.
func (gm *GaussianMixture) Save(path string) error {
	if !gm.state.IsFitted() {
		return errors.NewNotFittedError("GaussianMixture", "Save")
	}

	snap := gmmSnapshot{
		NComponents:   gm.nComponents,
		Tol:           gm.tol,
		MaxIter:       gm.maxIter,
		RegCovar:      gm.regCovar,
		NFeatures:     gm.nFeatures_,
		Weights:       gm.Weights(),
		Means:         gm.Means(),
		LogLikelihood: gm.logLikelihood_,
		NIter:         gm.nIter_,
		Converged:     gm.converged_,
	}

	d := gm.nFeatures_
	snap.Covariances = make([][]float64, gm.nComponents)
	for c, cov := range gm.covariances_ {
		flat := make([]float64, d*d)
		for i := 0; i < d; i++ {
			for j := 0; j < d; j++ {
				flat[i*d+j] = cov.At(i, j)
			}
		}
		snap.Covariances[c] = flat
	}

	return model.SaveModel(&snap, path)
}

// Load restores a fitted model from a file written by Save.
func (gm *GaussianMixture) Load(path string) error {
	var snap gmmSnapshot
	if err := model.LoadModel(&snap, path); err != nil {
		return err
	}

	d := snap.NFeatures
	if snap.NComponents < 1 || d < 1 || len(snap.Weights) != snap.NComponents {
		return errors.NewValueError("GaussianMixture.Load", "corrupt model snapshot")
	}

	covs := make([]*mat.SymDense, snap.NComponents)
	for c, flat := range snap.Covariances {
		if len(flat) != d*d {
			return errors.NewDimensionError("GaussianMixture.Load", d*d, len(flat), 1)
		}
		covs[c] = mat.NewSymDense(d, flat)
	}

	gm.nComponents = snap.NComponents
	gm.tol = snap.Tol
	gm.maxIter = snap.MaxIter
	gm.regCovar = snap.RegCovar
	gm.nFeatures_ = d
	gm.weights_ = snap.Weights
	gm.means_ = snap.Means
	gm.covariances_ = covs
	gm.logLikelihood_ = snap.LogLikelihood
	gm.nIter_ = snap.NIter
	gm.converged_ = snap.Converged
	gm.responsibilities_ = nil
	gm.labels_ = nil
	gm.history_ = nil

	gm.state.SetDimensions(d, 0)
	gm.state.SetFitted()
	return nil
}
