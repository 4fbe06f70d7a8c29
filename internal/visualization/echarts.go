package visualization

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"datadash/domain/dataset"
)

// StyleConfig holds the palette shared by every generated chart
type StyleConfig struct {
	SeriesColor string
	TextColor   string
	GridColor   string
	// HeatmapColors runs from -1 to +1.
	HeatmapColors []string
}

// DefaultStyleConfig returns the dashboard palette
func DefaultStyleConfig() *StyleConfig {
	return &StyleConfig{
		SeriesColor:   "#4c72b0",
		TextColor:     "#333333",
		GridColor:     "#e5e5e5",
		HeatmapColors: []string{"#3b4cc0", "#dddddd", "#b40426"},
	}
}

// EChartsRenderer turns table columns into ECharts option documents. The
// browser does the drawing; this type only shapes the data.
type EChartsRenderer struct {
	style *StyleConfig
}

// NewEChartsRenderer creates a renderer, falling back to the default style
func NewEChartsRenderer(style *StyleConfig) *EChartsRenderer {
	if style == nil {
		style = DefaultStyleConfig()
	}
	return &EChartsRenderer{style: style}
}

// Render draws y against x with the given primitive. Rows missing either
// value are dropped.
func (er *EChartsRenderer) Render(table *dataset.Table, x, y string, primitive dataset.DrawPrimitive) (*dataset.Figure, error) {
	xs, ys, err := pairedValues(table, x, y)
	if err != nil {
		return nil, err
	}

	var kind dataset.PlotKind
	var option map[string]interface{}
	switch primitive {
	case dataset.PrimitivePoint:
		kind = dataset.PlotScatter
		option = er.pointOption(x, y, xs, ys)
	case dataset.PrimitiveOrderedLine:
		kind = dataset.PlotLine
		option = er.lineOption(x, y, xs, ys)
	case dataset.PrimitiveBarAggregate:
		kind = dataset.PlotBar
		option = er.barOption(x, y, xs, ys)
	default:
		return nil, fmt.Errorf("unsupported draw primitive %q", primitive)
	}

	title := fmt.Sprintf("%s of %s vs %s", kind.Label(), x, y)
	option["title"] = er.titleConfig(title)
	return &dataset.Figure{Primitive: primitive, Title: title, Option: option}, nil
}

// RenderHeatmap draws a correlation matrix with annotated cells
func (er *EChartsRenderer) RenderHeatmap(matrix *dataset.CorrelationMatrix) (*dataset.Figure, error) {
	if matrix == nil {
		return nil, fmt.Errorf("nil correlation matrix")
	}

	n := len(matrix.Columns)
	cells := make([]interface{}, 0, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			// ECharts puts y=0 at the bottom; flip so row 0 is on top.
			cells = append(cells, []interface{}{j, n - 1 - i, dataset.JSONFloat(round2(matrix.Values[i][j]))})
		}
	}

	yLabels := make([]string, n)
	for i, name := range matrix.Columns {
		yLabels[n-1-i] = name
	}

	title := "Correlation Heatmap"
	option := map[string]interface{}{
		"title":   er.titleConfig(title),
		"tooltip": map[string]interface{}{"position": "top"},
		"grid":    er.gridConfig(),
		"xAxis": map[string]interface{}{
			"type":      "category",
			"data":      matrix.Columns,
			"splitArea": map[string]interface{}{"show": true},
			"axisLabel": map[string]interface{}{"rotate": 45, "color": er.style.TextColor},
		},
		"yAxis": map[string]interface{}{
			"type":      "category",
			"data":      yLabels,
			"splitArea": map[string]interface{}{"show": true},
			"axisLabel": map[string]interface{}{"color": er.style.TextColor},
		},
		"visualMap": map[string]interface{}{
			"min":        -1,
			"max":        1,
			"calculable": true,
			"orient":     "vertical",
			"right":      0,
			"top":        "center",
			"inRange":    map[string]interface{}{"color": er.style.HeatmapColors},
		},
		"series": []interface{}{
			map[string]interface{}{
				"name":  "correlation",
				"type":  "heatmap",
				"data":  cells,
				"label": map[string]interface{}{"show": true, "formatter": "{@[2]}"},
			},
		},
	}

	return &dataset.Figure{Primitive: dataset.PrimitiveHeatmap, Title: title, Option: option}, nil
}

func (er *EChartsRenderer) pointOption(x, y string, xs, ys []float64) map[string]interface{} {
	points := make([]interface{}, len(xs))
	for i := range xs {
		points[i] = []float64{xs[i], ys[i]}
	}
	return map[string]interface{}{
		"grid":    er.gridConfig(),
		"tooltip": map[string]interface{}{"trigger": "item"},
		"xAxis":   er.valueAxis(x),
		"yAxis":   er.valueAxis(y),
		"series": []interface{}{
			map[string]interface{}{
				"type":       "scatter",
				"data":       points,
				"symbolSize": 8,
				"itemStyle":  map[string]interface{}{"color": er.style.SeriesColor},
			},
		},
	}
}

// lineOption orders points by x and averages y over repeated x values
func (er *EChartsRenderer) lineOption(x, y string, xs, ys []float64) map[string]interface{} {
	keys, means := groupMeans(xs, ys)
	points := make([]interface{}, len(keys))
	for i := range keys {
		points[i] = []float64{keys[i], means[i]}
	}
	return map[string]interface{}{
		"grid":    er.gridConfig(),
		"tooltip": map[string]interface{}{"trigger": "axis"},
		"xAxis":   er.valueAxis(x),
		"yAxis":   er.valueAxis(y),
		"series": []interface{}{
			map[string]interface{}{
				"type":       "line",
				"data":       points,
				"showSymbol": false,
				"lineStyle":  map[string]interface{}{"color": er.style.SeriesColor, "width": 2},
			},
		},
	}
}

// barOption treats distinct x values as categories and draws the mean of y
func (er *EChartsRenderer) barOption(x, y string, xs, ys []float64) map[string]interface{} {
	keys, means := groupMeans(xs, ys)
	labels := make([]string, len(keys))
	for i, k := range keys {
		labels[i] = formatLabel(k)
	}
	return map[string]interface{}{
		"grid":    er.gridConfig(),
		"tooltip": map[string]interface{}{"trigger": "axis"},
		"xAxis": map[string]interface{}{
			"type":      "category",
			"name":      x,
			"data":      labels,
			"axisLabel": map[string]interface{}{"color": er.style.TextColor},
		},
		"yAxis": er.valueAxis(y),
		"series": []interface{}{
			map[string]interface{}{
				"type":      "bar",
				"name":      "mean " + y,
				"data":      means,
				"itemStyle": map[string]interface{}{"color": er.style.SeriesColor},
			},
		},
	}
}

func (er *EChartsRenderer) titleConfig(text string) map[string]interface{} {
	return map[string]interface{}{
		"text":      text,
		"left":      "center",
		"textStyle": map[string]interface{}{"color": er.style.TextColor, "fontSize": 14},
	}
}

func (er *EChartsRenderer) gridConfig() map[string]interface{} {
	return map[string]interface{}{
		"left":         "10%",
		"right":        "10%",
		"bottom":       "15%",
		"containLabel": true,
	}
}

func (er *EChartsRenderer) valueAxis(name string) map[string]interface{} {
	return map[string]interface{}{
		"type":      "value",
		"name":      name,
		"scale":     true,
		"axisLabel": map[string]interface{}{"color": er.style.TextColor},
		"splitLine": map[string]interface{}{"lineStyle": map[string]interface{}{"color": er.style.GridColor}},
	}
}

// pairedValues returns the rows where both columns hold a number
func pairedValues(table *dataset.Table, x, y string) ([]float64, []float64, error) {
	xc, ok := table.Column(x)
	if !ok {
		return nil, nil, fmt.Errorf("column %q not found", x)
	}
	yc, ok := table.Column(y)
	if !ok {
		return nil, nil, fmt.Errorf("column %q not found", y)
	}

	xf, yf := xc.Floats(), yc.Floats()
	xs := make([]float64, 0, len(xf))
	ys := make([]float64, 0, len(yf))
	for i := range xf {
		if math.IsNaN(xf[i]) || math.IsNaN(yf[i]) {
			continue
		}
		xs = append(xs, xf[i])
		ys = append(ys, yf[i])
	}
	return xs, ys, nil
}

// groupMeans returns the distinct x values in ascending order and the mean
// of y for each
func groupMeans(xs, ys []float64) ([]float64, []float64) {
	sums := make(map[float64]float64)
	counts := make(map[float64]int)
	for i := range xs {
		sums[xs[i]] += ys[i]
		counts[xs[i]]++
	}

	keys := make([]float64, 0, len(sums))
	for k := range sums {
		keys = append(keys, k)
	}
	sort.Float64s(keys)

	means := make([]float64, len(keys))
	for i, k := range keys {
		means[i] = sums[k] / float64(counts[k])
	}
	return keys, means
}

func formatLabel(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func round2(v float64) float64 {
	if math.IsNaN(v) {
		return v
	}
	return math.Round(v*100) / 100
}
