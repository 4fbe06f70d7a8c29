package profiling

import (
	"math"

	"datadash/domain/core"
	"datadash/domain/dataset"

	"gonum.org/v1/gonum/stat"
)

// Correlate computes the pairwise Pearson correlation matrix of the given
// numeric columns. Each pair uses the rows where both values are present.
// Pairs with fewer than two such rows, a constant side or an infinite value
// are NaN; the diagonal is 1 for finite columns with nonzero variance. Only the upper triangle
// is computed, the lower one is mirrored.
func Correlate(t *dataset.Table, numeric []string) (*dataset.CorrelationMatrix, error) {
	if len(numeric) == 0 {
		return nil, core.NewInsufficientDataError("correlation requires at least one numeric column")
	}

	series := make([][]float64, len(numeric))
	for i, name := range numeric {
		col, ok := t.Column(name)
		if !ok {
			return nil, core.NewInvalidColumnError(name, "column does not exist")
		}
		if ClassifyValues(col.Cells) != dataset.KindNumeric {
			return nil, core.NewInvalidColumnError(name, "column is not numeric")
		}
		series[i] = col.Floats()
	}

	n := len(numeric)
	values := make([][]float64, n)
	for i := range values {
		values[i] = make([]float64, n)
	}

	for i := 0; i < n; i++ {
		values[i][i] = selfCorrelation(series[i])
		for j := i + 1; j < n; j++ {
			r := pearson(series[i], series[j])
			values[i][j] = r
			values[j][i] = r
		}
	}

	columns := make([]string, n)
	copy(columns, numeric)
	return &dataset.CorrelationMatrix{Columns: columns, Values: values}, nil
}

func selfCorrelation(x []float64) float64 {
	xs, _ := completePairs(x, x)
	if len(xs) < 2 || hasInf(xs) || isConstant(xs) {
		return math.NaN()
	}
	return 1
}

func pearson(x, y []float64) float64 {
	xs, ys := completePairs(x, y)
	if len(xs) < 2 || hasInf(xs) || hasInf(ys) || isConstant(xs) || isConstant(ys) {
		return math.NaN()
	}
	r := stat.Correlation(xs, ys, nil)
	if math.IsNaN(r) {
		return r
	}
	return math.Max(-1, math.Min(1, r))
}

// completePairs keeps the positions where both series have a value
func completePairs(x, y []float64) ([]float64, []float64) {
	xs := make([]float64, 0, len(x))
	ys := make([]float64, 0, len(y))
	for i := range x {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			continue
		}
		xs = append(xs, x[i])
		ys = append(ys, y[i])
	}
	return xs, ys
}

func hasInf(values []float64) bool {
	for _, v := range values {
		if math.IsInf(v, 0) {
			return true
		}
	}
	return false
}

func isConstant(values []float64) bool {
	for _, v := range values[1:] {
		if v != values[0] {
			return false
		}
	}
	return true
}
