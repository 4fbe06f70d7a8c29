package dataset

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"datadash/domain/core"
)

// ColumnKind is the inferred kind of a column
type ColumnKind string

const (
	KindNumeric     ColumnKind = "numeric"
	KindCategorical ColumnKind = "categorical"
)

// Classification partitions a table's column names by kind, each list in
// table order. Every column appears in exactly one list.
type Classification struct {
	Numeric     []string `json:"numeric"`
	Categorical []string `json:"categorical"`
}

// IsNumeric reports whether name is in the numeric set.
func (c Classification) IsNumeric(name string) bool {
	return contains(c.Numeric, name)
}

// IsCategorical reports whether name is in the categorical set.
func (c Classification) IsCategorical(name string) bool {
	return contains(c.Categorical, name)
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

// ColumnStats holds descriptive statistics of one numeric column
type ColumnStats struct {
	Column string
	Count  int
	Mean   float64
	Std    float64
	Min    float64
	P25    float64
	P50    float64
	P75    float64
	Max    float64
}

// MarshalJSON encodes NaN statistics as null.
func (s ColumnStats) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Column string   `json:"column"`
		Count  int      `json:"count"`
		Mean   *float64 `json:"mean"`
		Std    *float64 `json:"std"`
		Min    *float64 `json:"min"`
		P25    *float64 `json:"p25"`
		P50    *float64 `json:"p50"`
		P75    *float64 `json:"p75"`
		Max    *float64 `json:"max"`
	}{
		Column: s.Column,
		Count:  s.Count,
		Mean:   JSONFloat(s.Mean),
		Std:    JSONFloat(s.Std),
		Min:    JSONFloat(s.Min),
		P25:    JSONFloat(s.P25),
		P50:    JSONFloat(s.P50),
		P75:    JSONFloat(s.P75),
		Max:    JSONFloat(s.Max),
	})
}

// SummaryReport is the shape, column list and numeric statistics of a table
type SummaryReport struct {
	RowCount    int            `json:"row_count"`
	ColumnCount int            `json:"column_count"`
	Columns     []string       `json:"columns"`
	Stats       []ColumnStats  `json:"stats"`
	Missing     map[string]int `json:"missing"`
}

// Shape returns (rows, columns).
func (r *SummaryReport) Shape() (int, int) {
	return r.RowCount, r.ColumnCount
}

// StatsFor returns the statistics of a numeric column.
func (r *SummaryReport) StatsFor(column string) (ColumnStats, bool) {
	for _, s := range r.Stats {
		if s.Column == column {
			return s, true
		}
	}
	return ColumnStats{}, false
}

// CorrelationMatrix is a symmetric matrix of Pearson coefficients indexed by
// numeric column name. Undefined entries are NaN.
type CorrelationMatrix struct {
	Columns []string
	Values  [][]float64
}

// At returns the coefficient for a pair of columns.
func (m *CorrelationMatrix) At(a, b string) (float64, bool) {
	i, j := -1, -1
	for k, name := range m.Columns {
		if name == a {
			i = k
		}
		if name == b {
			j = k
		}
	}
	if i < 0 || j < 0 {
		return math.NaN(), false
	}
	return m.Values[i][j], true
}

// MarshalJSON encodes NaN coefficients as null.
func (m *CorrelationMatrix) MarshalJSON() ([]byte, error) {
	values := make([][]*float64, len(m.Values))
	for i, row := range m.Values {
		values[i] = make([]*float64, len(row))
		for j, v := range row {
			values[i][j] = JSONFloat(v)
		}
	}
	return json.Marshal(struct {
		Columns []string     `json:"columns"`
		Values  [][]*float64 `json:"values"`
	}{m.Columns, values})
}

// ValueCount is one distinct value and its frequency
type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// ValueCounts is the frequency table of a categorical column, ordered by
// descending count
type ValueCounts struct {
	Column string       `json:"column"`
	Counts []ValueCount `json:"counts"`
}

// Total returns the number of counted (non-missing) values.
func (v *ValueCounts) Total() int {
	total := 0
	for _, c := range v.Counts {
		total += c.Count
	}
	return total
}

// PlotKind selects a preset chart
type PlotKind string

const (
	PlotScatter PlotKind = "scatter"
	PlotLine    PlotKind = "line"
	PlotBar     PlotKind = "bar"
)

// PlotKinds lists the supported kinds in display order.
var PlotKinds = []PlotKind{PlotScatter, PlotLine, PlotBar}

// ParsePlotKind accepts canonical kind names in any case as well as the
// "Scatter Plot" / "Line Plot" / "Bar Plot" labels.
func ParsePlotKind(s string) (PlotKind, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.TrimSuffix(norm, " plot")
	for _, k := range PlotKinds {
		if norm == string(k) {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q (expected scatter, line or bar)", core.ErrInvalidPlotKind, s)
}

// Label returns the human-readable name, e.g. "Scatter Plot".
func (k PlotKind) Label() string {
	if k == "" {
		return ""
	}
	return strings.ToUpper(string(k[:1])) + string(k[1:]) + " Plot"
}

// DrawPrimitive is the renderer operation a chart maps to
type DrawPrimitive string

const (
	PrimitivePoint        DrawPrimitive = "point"
	PrimitiveOrderedLine  DrawPrimitive = "ordered-line"
	PrimitiveBarAggregate DrawPrimitive = "bar-aggregate"
	PrimitiveHeatmap      DrawPrimitive = "heatmap"
)

// Primitive maps a plot kind to its draw primitive.
func (k PlotKind) Primitive() (DrawPrimitive, error) {
	switch k {
	case PlotScatter:
		return PrimitivePoint, nil
	case PlotLine:
		return PrimitiveOrderedLine, nil
	case PlotBar:
		return PrimitiveBarAggregate, nil
	default:
		return "", fmt.Errorf("%w: %q", core.ErrInvalidPlotKind, string(k))
	}
}

// PlotRequest asks for a chart of two numeric columns
type PlotRequest struct {
	X    string   `json:"x"`
	Y    string   `json:"y"`
	Kind PlotKind `json:"kind"`
}

// Figure is an opaque renderable chart handed to the presentation layer
type Figure struct {
	Primitive DrawPrimitive          `json:"primitive"`
	Title     string                 `json:"title"`
	Option    map[string]interface{} `json:"option"`
}

// JSONFloat returns nil for values JSON cannot represent.
func JSONFloat(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
