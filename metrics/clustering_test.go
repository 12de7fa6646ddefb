package metrics

import (
	"math"
	"testing"
)

func TestPurity(t *testing.T) {
	tests := []struct {
		name    string
		yTrue   []int
		yPred   []int
		want    float64
		wantErr bool
	}{
		{
			name:  "Perfect clustering",
			yTrue: []int{0, 0, 1, 1},
			yPred: []int{0, 0, 1, 1},
			want:  1.0,
		},
		{
			name:  "Perfect up to relabeling",
			yTrue: []int{0, 0, 1, 1},
			yPred: []int{1, 1, 0, 0},
			want:  1.0,
		},
		{
			name:  "One point misassigned",
			yTrue: []int{0, 0, 0, 1, 1, 1},
			yPred: []int{0, 0, 1, 1, 1, 1},
			want:  5.0 / 6.0,
		},
		{
			name:  "Everything in one cluster",
			yTrue: []int{0, 0, 1, 1},
			yPred: []int{0, 0, 0, 0},
			want:  0.5,
		},
		{
			name:    "Empty labels",
			yTrue:   []int{},
			yPred:   []int{},
			wantErr: true,
		},
		{
			name:    "Length mismatch",
			yTrue:   []int{0, 1},
			yPred:   []int{0},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Purity(tt.yTrue, tt.yPred)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Purity() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Purity() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAdjustedRandIndex(t *testing.T) {
	tests := []struct {
		name    string
		yTrue   []int
		yPred   []int
		want    float64
		wantErr bool
	}{
		{
			name:  "Perfect clustering",
			yTrue: []int{0, 0, 1, 1},
			yPred: []int{0, 0, 1, 1},
			want:  1.0,
		},
		{
			name:  "Perfect up to relabeling",
			yTrue: []int{0, 0, 1, 1},
			yPred: []int{1, 1, 0, 0},
			want:  1.0,
		},
		{
			name:  "Both single cluster",
			yTrue: []int{0, 0, 0},
			yPred: []int{2, 2, 2},
			want:  1.0,
		},
		{
			name: "sklearn reference case",
			// sklearn.metrics.adjusted_rand_score([0,0,1,1],[0,0,1,2])
			yTrue: []int{0, 0, 1, 1},
			yPred: []int{0, 0, 1, 2},
			want:  0.5714285714285714,
		},
		{
			name:    "Empty labels",
			yTrue:   []int{},
			yPred:   []int{},
			wantErr: true,
		},
		{
			name:    "Length mismatch",
			yTrue:   []int{0, 1, 1},
			yPred:   []int{0, 1},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AdjustedRandIndex(tt.yTrue, tt.yPred)
			if (err != nil) != tt.wantErr {
				t.Fatalf("AdjustedRandIndex() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("AdjustedRandIndex() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAdjustedRandIndex_RelabelingInvariance(t *testing.T) {
	yTrue := []int{0, 0, 1, 1, 2, 2, 0, 1}
	yPred := []int{1, 1, 0, 0, 2, 2, 1, 2}

	base, err := AdjustedRandIndex(yTrue, yPred)
	if err != nil {
		t.Fatalf("AdjustedRandIndex failed: %v", err)
	}

	// 予測ラベルを付け替えてもARIは変わらない
	relabel := map[int]int{0: 2, 1: 0, 2: 1}
	swapped := make([]int, len(yPred))
	for i, p := range yPred {
		swapped[i] = relabel[p]
	}

	got, err := AdjustedRandIndex(yTrue, swapped)
	if err != nil {
		t.Fatalf("AdjustedRandIndex failed: %v", err)
	}
	if math.Abs(got-base) > 1e-12 {
		t.Errorf("ARI changed under relabeling: %v vs %v", got, base)
	}
}
