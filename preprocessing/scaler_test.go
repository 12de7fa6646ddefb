package preprocessing

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/mixgo/pkg/errors"
)

func TestStandardScaler_FitTransform(t *testing.T) {
	tests := []struct {
		name     string
		withMean bool
		withStd  bool
		data     []float64
		rows     int
		cols     int
		want     []float64
	}{
		{
			name:     "Mean and std",
			withMean: true,
			withStd:  true,
			data:     []float64{1, 10, 2, 20, 3, 30},
			rows:     3,
			cols:     2,
			want: []float64{
				-math.Sqrt(1.5), -math.Sqrt(1.5),
				0, 0,
				math.Sqrt(1.5), math.Sqrt(1.5),
			},
		},
		{
			name:     "Mean only",
			withMean: true,
			withStd:  false,
			data:     []float64{1, 2, 3},
			rows:     3,
			cols:     1,
			want:     []float64{-1, 0, 1},
		},
		{
			name:     "Std only",
			withMean: false,
			withStd:  true,
			data:     []float64{-2, 0, 2},
			rows:     3,
			cols:     1,
			// 平均を引かないので Scale は sqrt(E[(x-0)^2]) ではなく
			// Fit時のMeanが0のまま母標準偏差で割る
			want: []float64{-2 / math.Sqrt(8.0/3.0), 0, 2 / math.Sqrt(8.0/3.0)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			X := mat.NewDense(tt.rows, tt.cols, tt.data)
			scaler := NewStandardScaler(tt.withMean, tt.withStd)

			got, err := scaler.FitTransform(X)
			if err != nil {
				t.Fatalf("FitTransform failed: %v", err)
			}

			for i := 0; i < tt.rows; i++ {
				for j := 0; j < tt.cols; j++ {
					want := tt.want[i*tt.cols+j]
					if math.Abs(got.At(i, j)-want) > 1e-12 {
						t.Errorf("got[%d][%d] = %v, want %v", i, j, got.At(i, j), want)
					}
				}
			}
		})
	}
}

func TestStandardScaler_ConstantFeature(t *testing.T) {
	// 分散ゼロの特徴量はScale=1となり、ゼロ除算しない
	X := mat.NewDense(3, 1, []float64{5, 5, 5})
	scaler := NewStandardScalerDefault()

	got, err := scaler.FitTransform(X)
	if err != nil {
		t.Fatalf("FitTransform failed: %v", err)
	}
	if scaler.Scale[0] != 1.0 {
		t.Errorf("Scale[0] = %v, want 1.0 for a constant feature", scaler.Scale[0])
	}
	for i := 0; i < 3; i++ {
		if got.At(i, 0) != 0 {
			t.Errorf("got[%d][0] = %v, want 0", i, got.At(i, 0))
		}
	}
}

func TestStandardScaler_InverseTransformRoundTrip(t *testing.T) {
	X := mat.NewDense(4, 2, []float64{
		1.5, -3.0,
		2.5, 7.0,
		0.0, 1.0,
		-4.0, 2.5,
	})
	scaler := NewStandardScalerDefault()

	scaled, err := scaler.FitTransform(X)
	if err != nil {
		t.Fatalf("FitTransform failed: %v", err)
	}
	back, err := scaler.InverseTransform(scaled)
	if err != nil {
		t.Fatalf("InverseTransform failed: %v", err)
	}

	if !mat.EqualApprox(X, back, 1e-12) {
		t.Errorf("round trip changed the data:\ngot:\n%v\nwant:\n%v",
			mat.Formatted(back), mat.Formatted(X))
	}
}

func TestStandardScaler_Errors(t *testing.T) {
	X := mat.NewDense(2, 2, []float64{1, 2, 3, 4})

	t.Run("Transform before Fit", func(t *testing.T) {
		scaler := NewStandardScalerDefault()
		if _, err := scaler.Transform(X); err == nil {
			t.Error("expected NotFittedError")
		} else {
			var nfe *errors.NotFittedError
			if !errors.As(err, &nfe) {
				t.Errorf("expected NotFittedError, got %T", err)
			}
		}
	})

	t.Run("InverseTransform before Fit", func(t *testing.T) {
		scaler := NewStandardScalerDefault()
		if _, err := scaler.InverseTransform(X); err == nil {
			t.Error("expected NotFittedError")
		}
	})

	t.Run("Dimension mismatch", func(t *testing.T) {
		scaler := NewStandardScalerDefault()
		if err := scaler.Fit(X); err != nil {
			t.Fatalf("Fit failed: %v", err)
		}
		bad := mat.NewDense(2, 3, nil)
		if _, err := scaler.Transform(bad); err == nil {
			t.Error("expected DimensionError")
		} else {
			var de *errors.DimensionError
			if !errors.As(err, &de) {
				t.Errorf("expected DimensionError, got %T", err)
			}
		}
	})

	t.Run("Empty data", func(t *testing.T) {
		scaler := NewStandardScalerDefault()
		if err := scaler.Fit(emptyMatrix{}); err == nil {
			t.Error("expected error on empty data")
		}
	})
}

type emptyMatrix struct{}

func (emptyMatrix) Dims() (int, int)    { return 0, 0 }
func (emptyMatrix) At(i, j int) float64 { panic("empty matrix") }
func (emptyMatrix) T() mat.Matrix       { return emptyMatrix{} }
