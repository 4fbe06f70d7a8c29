// Package profiling derives column kinds, descriptive statistics, value
// frequencies and correlations from a loaded table. Every function here is a
// pure function of its inputs.
package profiling

import (
	"datadash/domain/dataset"
)

// ClassifyValues applies the column kind policy to a column's raw cells.
// A column is numeric when it has at least one value and every non-missing
// cell parses as a number. Mixed and entirely missing columns are
// categorical.
func ClassifyValues(cells []string) dataset.ColumnKind {
	seen := false
	for _, cell := range cells {
		if dataset.IsMissing(cell) {
			continue
		}
		if _, ok := dataset.ParseNumber(cell); !ok {
			return dataset.KindCategorical
		}
		seen = true
	}
	if !seen {
		return dataset.KindCategorical
	}
	return dataset.KindNumeric
}

// Classify partitions the table's columns into numeric and categorical sets,
// each in table order.
func Classify(t *dataset.Table) dataset.Classification {
	class := dataset.Classification{
		Numeric:     []string{},
		Categorical: []string{},
	}
	for _, col := range t.Columns() {
		if ClassifyValues(col.Cells) == dataset.KindNumeric {
			class.Numeric = append(class.Numeric, col.Name)
		} else {
			class.Categorical = append(class.Categorical, col.Name)
		}
	}
	return class
}
