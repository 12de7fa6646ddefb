package metrics

import (
	"github.com/YuminosukeSato/mixgo/pkg/errors"
)

// Purity はクラスタリング結果の純度を計算する
// 各クラスタについて最頻出の真のラベルの数を数え、全サンプル数で割る。
// ラベルの付け替えに対して不変なので、成分の順序が交換可能な混合モデルの
// 評価に適している。値域は (0, 1] で、1 が完全一致。
func Purity(labelsTrue, labelsPred []int) (float64, error) {
	n := len(labelsTrue)
	if n == 0 {
		return 0, errors.NewValueError("Purity", "empty labels")
	}
	if len(labelsPred) != n {
		return 0, errors.NewDimensionError("Purity", n, len(labelsPred), 0)
	}

	// クラスタごとに真のラベルの出現数を数える
	counts := make(map[int]map[int]int)
	for i := 0; i < n; i++ {
		if counts[labelsPred[i]] == nil {
			counts[labelsPred[i]] = make(map[int]int)
		}
		counts[labelsPred[i]][labelsTrue[i]]++
	}

	correct := 0
	for _, trueCounts := range counts {
		max := 0
		for _, c := range trueCounts {
			if c > max {
				max = c
			}
		}
		correct += max
	}

	return float64(correct) / float64(n), nil
}

// AdjustedRandIndex は調整ランド指数（ARI）を計算する
// 2つの分割の一致度をチャンス補正したもの。ラベルの付け替えに対して
// 不変で、完全一致で1、ランダムな分割で0付近になる。
func AdjustedRandIndex(labelsTrue, labelsPred []int) (float64, error) {
	n := len(labelsTrue)
	if n == 0 {
		return 0, errors.NewValueError("AdjustedRandIndex", "empty labels")
	}
	if len(labelsPred) != n {
		return 0, errors.NewDimensionError("AdjustedRandIndex", n, len(labelsPred), 0)
	}

	// 分割表を構築
	contingency := make(map[int]map[int]int)
	rowSums := make(map[int]int)
	colSums := make(map[int]int)
	for i := 0; i < n; i++ {
		t, p := labelsTrue[i], labelsPred[i]
		if contingency[t] == nil {
			contingency[t] = make(map[int]int)
		}
		contingency[t][p]++
		rowSums[t]++
		colSums[p]++
	}

	// ペア数に基づくARIの標準形
	choose2 := func(m int) float64 {
		return float64(m) * float64(m-1) / 2
	}

	sumIndex := 0.0
	for _, row := range contingency {
		for _, v := range row {
			sumIndex += choose2(v)
		}
	}

	sumRows := 0.0
	for _, v := range rowSums {
		sumRows += choose2(v)
	}
	sumCols := 0.0
	for _, v := range colSums {
		sumCols += choose2(v)
	}

	expected := sumRows * sumCols / choose2(n)
	maxIndex := (sumRows + sumCols) / 2

	if maxIndex == expected {
		// 両方の分割が単一クラスタ（またはその対称ケース）の場合、
		// 補正後の分母が0になる。一致しているので1を返す。
		return 1.0, nil
	}

	return (sumIndex - expected) / (maxIndex - expected), nil
}
