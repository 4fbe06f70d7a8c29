package profiling

import (
	"fmt"

	"datadash/domain/dataset"
)

// Summarize builds the shape, column list, per-column missing counts and
// descriptive statistics of every numeric column. Categorical columns count
// towards ColumnCount only. The report is all-or-nothing.
func Summarize(t *dataset.Table) (*dataset.SummaryReport, error) {
	class := Classify(t)

	report := &dataset.SummaryReport{
		RowCount:    t.RowCount(),
		ColumnCount: t.ColumnCount(),
		Columns:     t.ColumnNames(),
		Stats:       make([]dataset.ColumnStats, 0, len(class.Numeric)),
		Missing:     make(map[string]int, t.ColumnCount()),
	}

	for _, col := range t.Columns() {
		report.Missing[col.Name] = col.MissingCount()
	}

	for _, name := range class.Numeric {
		col, _ := t.Column(name)
		colStats, err := Describe(name, presentValues(col))
		if err != nil {
			return nil, fmt.Errorf("summarize column %q: %w", name, err)
		}
		report.Stats = append(report.Stats, colStats)
	}

	return report, nil
}
