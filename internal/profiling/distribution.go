package profiling

import (
	"fmt"
	"math"
	"sort"

	"datadash/domain/core"
	"datadash/domain/dataset"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

// Describe computes count, mean, sample standard deviation, min, quartiles
// and max of the given values. Missing values must already be removed.
// Std is NaN for fewer than two values.
func Describe(column string, values []float64) (dataset.ColumnStats, error) {
	out := dataset.ColumnStats{Column: column, Count: len(values)}
	if len(values) == 0 {
		return out, core.NewInsufficientDataError(fmt.Sprintf("column %q has no values", column))
	}

	var err error
	if out.Mean, err = stats.Mean(values); err != nil {
		return out, fmt.Errorf("mean of %q: %w", column, err)
	}
	if out.Min, err = stats.Min(values); err != nil {
		return out, fmt.Errorf("min of %q: %w", column, err)
	}
	if out.Max, err = stats.Max(values); err != nil {
		return out, fmt.Errorf("max of %q: %w", column, err)
	}

	out.Std = math.NaN()
	if len(values) >= 2 {
		out.Std = stat.StdDev(values, nil)
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	out.P25 = Quantile(sorted, 0.25)
	out.P50 = Quantile(sorted, 0.50)
	out.P75 = Quantile(sorted, 0.75)

	return out, nil
}

// Quantile interpolates linearly between the order statistics of an
// ascending slice at position (n-1)*p.
func Quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	pos := p * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// presentValues returns the numeric values of a column with missing cells dropped
func presentValues(col dataset.Column) []float64 {
	floats := col.Floats()
	out := floats[:0]
	for _, v := range floats {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}
