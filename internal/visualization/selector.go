// Package visualization validates chart requests against a table's column
// kinds and hands them to a figure renderer.
package visualization

import (
	"fmt"

	"datadash/domain/core"
	"datadash/domain/dataset"
	"datadash/internal/profiling"
	"datadash/ports"
)

// Selector picks the drawing primitive for a chart request
type Selector struct {
	renderer ports.FigureRenderer
}

// NewSelector creates a selector drawing through renderer
func NewSelector(renderer ports.FigureRenderer) *Selector {
	return &Selector{renderer: renderer}
}

// Plot renders y against x. Both columns must be numeric; categorical
// columns are rejected rather than coerced.
func (s *Selector) Plot(t *dataset.Table, req dataset.PlotRequest) (*dataset.Figure, error) {
	kind, err := dataset.ParsePlotKind(string(req.Kind))
	if err != nil {
		return nil, err
	}
	primitive, err := kind.Primitive()
	if err != nil {
		return nil, err
	}

	class := profiling.Classify(t)
	for _, name := range []string{req.X, req.Y} {
		if err := requireKind(t, class, name, dataset.KindNumeric); err != nil {
			return nil, err
		}
	}

	fig, err := s.renderer.Render(t, req.X, req.Y, primitive)
	if err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", kind.Label(), err)
	}
	return fig, nil
}

// ValueCounts returns the frequency table of a categorical column
func (s *Selector) ValueCounts(t *dataset.Table, column string) (*dataset.ValueCounts, error) {
	if err := requireKind(t, profiling.Classify(t), column, dataset.KindCategorical); err != nil {
		return nil, err
	}
	col, _ := t.Column(column)
	return profiling.CountValues(col), nil
}

// Heatmap renders a correlation matrix
func (s *Selector) Heatmap(m *dataset.CorrelationMatrix) (*dataset.Figure, error) {
	return s.renderer.RenderHeatmap(m)
}

func requireKind(t *dataset.Table, class dataset.Classification, name string, kind dataset.ColumnKind) error {
	if _, ok := t.Column(name); !ok {
		return core.NewInvalidColumnError(name, "column does not exist")
	}
	switch kind {
	case dataset.KindNumeric:
		if !class.IsNumeric(name) {
			return core.NewInvalidColumnError(name, "column is not numeric")
		}
	case dataset.KindCategorical:
		if !class.IsCategorical(name) {
			return core.NewInvalidColumnError(name, "column is not categorical")
		}
	}
	return nil
}
