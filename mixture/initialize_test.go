package mixture

import (
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestNewInitialParams_Validation(t *testing.T) {
	eye := mat.NewSymDense(2, []float64{1, 0, 0, 1})
	eye3 := mat.NewSymDense(3, nil)

	tests := []struct {
		name    string
		means   [][]float64
		covs    []*mat.SymDense
		weights []float64
		wantErr bool
	}{
		{
			name:    "valid two components",
			means:   [][]float64{{0, 0}, {1, 1}},
			covs:    []*mat.SymDense{eye, eye},
			weights: []float64{0.5, 0.5},
			wantErr: false,
		},
		{
			name:    "no components",
			means:   nil,
			covs:    nil,
			weights: nil,
			wantErr: true,
		},
		{
			name:    "covariance count mismatch",
			means:   [][]float64{{0, 0}, {1, 1}},
			covs:    []*mat.SymDense{eye},
			weights: []float64{0.5, 0.5},
			wantErr: true,
		},
		{
			name:    "mean dimension mismatch",
			means:   [][]float64{{0, 0}, {1}},
			covs:    []*mat.SymDense{eye, eye},
			weights: []float64{0.5, 0.5},
			wantErr: true,
		},
		{
			name:    "covariance dimension mismatch",
			means:   [][]float64{{0, 0}, {1, 1}},
			covs:    []*mat.SymDense{eye, eye3},
			weights: []float64{0.5, 0.5},
			wantErr: true,
		},
		{
			name:    "negative weight",
			means:   [][]float64{{0, 0}, {1, 1}},
			covs:    []*mat.SymDense{eye, eye},
			weights: []float64{1.5, -0.5},
			wantErr: true,
		},
		{
			name:    "all-zero weights",
			means:   [][]float64{{0, 0}, {1, 1}},
			covs:    []*mat.SymDense{eye, eye},
			weights: []float64{0, 0},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewInitialParams(tt.means, tt.covs, tt.weights)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewInitialParams() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewInitialParams_RenormalizesWeights(t *testing.T) {
	eye := mat.NewSymDense(2, []float64{1, 0, 0, 1})
	init, err := NewInitialParams(
		[][]float64{{0, 0}, {1, 1}},
		[]*mat.SymDense{eye, eye},
		[]float64{2, 6},
	)
	if err != nil {
		t.Fatalf("NewInitialParams failed: %v", err)
	}
	if math.Abs(init.Weights[0]-0.25) > 1e-15 || math.Abs(init.Weights[1]-0.75) > 1e-15 {
		t.Errorf("weights = %v, want [0.25 0.75]", init.Weights)
	}
}

func TestNewInitialParams_CopiesInputs(t *testing.T) {
	eye := mat.NewSymDense(2, []float64{1, 0, 0, 1})
	mean := []float64{0, 0}
	init, err := NewInitialParams(
		[][]float64{mean, {1, 1}},
		[]*mat.SymDense{eye, eye},
		[]float64{0.5, 0.5},
	)
	if err != nil {
		t.Fatalf("NewInitialParams failed: %v", err)
	}

	mean[0] = 99
	eye.SetSym(0, 0, 99)

	if init.Means[0][0] != 0 {
		t.Error("bundle shares the caller's mean slice")
	}
	if init.Covariances[0].At(0, 0) != 1 {
		t.Error("bundle shares the caller's covariance matrix")
	}
}

func TestRandomInit_ShapeAndDistinctMeans(t *testing.T) {
	X, _ := twoClusterData(13, 30)
	rng := rand.New(rand.NewSource(13))

	init, err := RandomInit(X, 3, rng)
	if err != nil {
		t.Fatalf("RandomInit failed: %v", err)
	}

	if len(init.Means) != 3 || len(init.Covariances) != 3 || len(init.Weights) != 3 {
		t.Fatalf("bundle has wrong component count: %d means", len(init.Means))
	}
	for c, w := range init.Weights {
		if math.Abs(w-1.0/3) > 1e-15 {
			t.Errorf("weight[%d] = %v, want 1/3", c, w)
		}
	}

	// Distinct rows were drawn, so no two means coincide.
	for a := 0; a < 3; a++ {
		for b := a + 1; b < 3; b++ {
			if squaredDistance(init.Means[a], init.Means[b]) == 0 {
				t.Errorf("means %d and %d coincide", a, b)
			}
		}
	}
}

func TestSpreadInit_SeparatesStartingMeans(t *testing.T) {
	X, _ := twoClusterData(21, 50)
	rng := rand.New(rand.NewSource(21))

	init, err := SpreadInit(X, 2, rng)
	if err != nil {
		t.Fatalf("SpreadInit failed: %v", err)
	}

	// Farthest-point seeding on two well-separated clusters must start the
	// two means in different clusters.
	if squaredDistance(init.Means[0], init.Means[1]) < 9 {
		t.Errorf("starting means too close: %v and %v", init.Means[0], init.Means[1])
	}
}

func TestInitializers_InputValidation(t *testing.T) {
	X := mat.NewDense(2, 2, []float64{0, 0, 1, 1})
	rng := rand.New(rand.NewSource(1))

	if _, err := RandomInit(X, 0, rng); err == nil {
		t.Error("RandomInit with k=0 must fail")
	}
	if _, err := RandomInit(X, 5, rng); err == nil {
		t.Error("RandomInit with k > n must fail")
	}
	if _, err := SpreadInit(X, 5, rng); err == nil {
		t.Error("SpreadInit with k > n must fail")
	}
}

func TestPermuted(t *testing.T) {
	a := mat.NewSymDense(1, []float64{1})
	b := mat.NewSymDense(1, []float64{2})
	init, err := NewInitialParams(
		[][]float64{{0}, {5}},
		[]*mat.SymDense{a, b},
		[]float64{0.25, 0.75},
	)
	if err != nil {
		t.Fatalf("NewInitialParams failed: %v", err)
	}

	swapped, err := init.Permuted([]int{1, 0})
	if err != nil {
		t.Fatalf("Permuted failed: %v", err)
	}

	if swapped.Means[0][0] != 5 || swapped.Means[1][0] != 0 {
		t.Errorf("means not swapped: %v", swapped.Means)
	}
	if swapped.Weights[0] != 0.75 || swapped.Weights[1] != 0.25 {
		t.Errorf("weights not swapped: %v", swapped.Weights)
	}
	if swapped.Covariances[0].At(0, 0) != 2 {
		t.Errorf("covariances not swapped")
	}

	if _, err := init.Permuted([]int{0}); err == nil {
		t.Error("wrong-length permutation must fail")
	}
	if _, err := init.Permuted([]int{0, 7}); err == nil {
		t.Error("out-of-range permutation must fail")
	}
}
