package profiling

import (
	"sort"

	"datadash/domain/dataset"
)

// CountValues groups the column's non-missing values and counts them,
// ordered by descending count. Equal counts keep first-encountered order.
func CountValues(col dataset.Column) *dataset.ValueCounts {
	index := make(map[string]int)
	counts := make([]dataset.ValueCount, 0)

	for _, v := range col.Present() {
		if i, ok := index[v]; ok {
			counts[i].Count++
			continue
		}
		index[v] = len(counts)
		counts = append(counts, dataset.ValueCount{Value: v, Count: 1})
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})

	return &dataset.ValueCounts{Column: col.Name, Counts: counts}
}
