package main

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"datadash/domain/dataset"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	return t
}

func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'f', 6, 64)
}

func renderSummary(w io.Writer, report *dataset.SummaryReport) {
	rows, cols := report.Shape()
	_, _ = fmt.Fprintf(w, "Shape: (%d, %d)\n", rows, cols)
	_, _ = fmt.Fprintf(w, "Columns: %s\n", strings.Join(report.Columns, ", "))

	if len(report.Stats) == 0 {
		_, _ = fmt.Fprintln(w, "(no numeric columns)")
		return
	}

	t := newTable(w)
	header := table.Row{""}
	configs := []table.ColumnConfig{}
	for i, s := range report.Stats {
		header = append(header, s.Column)
		configs = append(configs, table.ColumnConfig{Number: i + 2, Align: text.AlignRight})
	}
	t.AppendHeader(header)
	t.SetColumnConfigs(configs)

	lines := []struct {
		label string
		value func(dataset.ColumnStats) string
	}{
		{"count", func(s dataset.ColumnStats) string { return strconv.Itoa(s.Count) }},
		{"mean", func(s dataset.ColumnStats) string { return formatFloat(s.Mean) }},
		{"std", func(s dataset.ColumnStats) string { return formatFloat(s.Std) }},
		{"min", func(s dataset.ColumnStats) string { return formatFloat(s.Min) }},
		{"25%", func(s dataset.ColumnStats) string { return formatFloat(s.P25) }},
		{"50%", func(s dataset.ColumnStats) string { return formatFloat(s.P50) }},
		{"75%", func(s dataset.ColumnStats) string { return formatFloat(s.P75) }},
		{"max", func(s dataset.ColumnStats) string { return formatFloat(s.Max) }},
	}
	for _, line := range lines {
		row := table.Row{line.label}
		for _, s := range report.Stats {
			row = append(row, line.value(s))
		}
		t.AppendRow(row)
	}
	t.Render()
}

func renderClassification(w io.Writer, class dataset.Classification) {
	t := newTable(w)
	t.AppendHeader(table.Row{"Column", "Kind"})
	for _, name := range class.Numeric {
		t.AppendRow(table.Row{name, dataset.KindNumeric})
	}
	for _, name := range class.Categorical {
		t.AppendRow(table.Row{name, dataset.KindCategorical})
	}
	t.Render()
}

func renderValueCounts(w io.Writer, counts *dataset.ValueCounts) {
	t := newTable(w)
	t.AppendHeader(table.Row{counts.Column, "count"})
	for _, c := range counts.Counts {
		t.AppendRow(table.Row{c.Value, c.Count})
	}
	t.AppendFooter(table.Row{"total", counts.Total()})
	t.Render()
}

func renderCorrelation(w io.Writer, m *dataset.CorrelationMatrix) {
	t := newTable(w)
	header := table.Row{""}
	for _, name := range m.Columns {
		header = append(header, name)
	}
	t.AppendHeader(header)

	for i, name := range m.Columns {
		row := table.Row{name}
		for _, v := range m.Values[i] {
			if math.IsNaN(v) {
				row = append(row, "NaN")
			} else {
				row = append(row, strconv.FormatFloat(v, 'f', 2, 64))
			}
		}
		t.AppendRow(row)
	}
	t.Render()
}
