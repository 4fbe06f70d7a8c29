package ports

import "datadash/domain/dataset"

// FigureRenderer is the plotting backend. It turns validated requests into
// renderable figures and performs no validation of its own.
type FigureRenderer interface {
	Render(table *dataset.Table, x, y string, primitive dataset.DrawPrimitive) (*dataset.Figure, error)
	RenderHeatmap(matrix *dataset.CorrelationMatrix) (*dataset.Figure, error)
}
