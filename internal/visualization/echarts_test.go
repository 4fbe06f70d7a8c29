package visualization

import (
	"encoding/json"
	"math"
	"testing"

	"datadash/domain/dataset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seriesData(t *testing.T, fig *dataset.Figure) interface{} {
	t.Helper()
	series, ok := fig.Option["series"].([]interface{})
	require.True(t, ok)
	require.Len(t, series, 1)
	return series[0].(map[string]interface{})["data"]
}

func TestRenderScatterDropsIncompleteRows(t *testing.T) {
	fig, err := NewEChartsRenderer(nil).Render(peopleTable(t), "age", "income", dataset.PrimitivePoint)
	require.NoError(t, err)

	assert.Equal(t, "Scatter Plot of age vs income", fig.Title)
	assert.Equal(t, dataset.PrimitivePoint, fig.Primitive)
	assert.Equal(t, []interface{}{
		[]float64{25, 40000},
		[]float64{30, 52000},
	}, seriesData(t, fig))
}

func TestRenderLineOrdersAndAveragesByX(t *testing.T) {
	table, err := dataset.NewTable("t.csv", []dataset.Column{
		{Name: "x", Cells: []string{"3", "1", "2", "1"}},
		{Name: "y", Cells: []string{"30", "10", "20", "20"}},
	})
	require.NoError(t, err)

	fig, err := NewEChartsRenderer(nil).Render(table, "x", "y", dataset.PrimitiveOrderedLine)
	require.NoError(t, err)
	assert.Equal(t, "Line Plot of x vs y", fig.Title)
	assert.Equal(t, []interface{}{
		[]float64{1, 15},
		[]float64{2, 20},
		[]float64{3, 30},
	}, seriesData(t, fig))
}

func TestRenderBarAggregatesPerCategory(t *testing.T) {
	table, err := dataset.NewTable("t.csv", []dataset.Column{
		{Name: "grade", Cells: []string{"2", "1", "2", "1.5"}},
		{Name: "score", Cells: []string{"80", "60", "90", "70"}},
	})
	require.NoError(t, err)

	fig, err := NewEChartsRenderer(nil).Render(table, "grade", "score", dataset.PrimitiveBarAggregate)
	require.NoError(t, err)
	assert.Equal(t, "Bar Plot of grade vs score", fig.Title)

	xAxis := fig.Option["xAxis"].(map[string]interface{})
	assert.Equal(t, []string{"1", "1.5", "2"}, xAxis["data"])
	assert.Equal(t, []float64{60, 70, 85}, seriesData(t, fig))
}

func TestRenderRejectsUnknownPrimitive(t *testing.T) {
	_, err := NewEChartsRenderer(nil).Render(peopleTable(t), "age", "income", dataset.PrimitiveHeatmap)
	assert.Error(t, err)
}

func TestRenderHeatmapEncodesNaNAsNull(t *testing.T) {
	matrix := &dataset.CorrelationMatrix{
		Columns: []string{"a", "flat"},
		Values: [][]float64{
			{1, math.NaN()},
			{math.NaN(), math.NaN()},
		},
	}

	fig, err := NewEChartsRenderer(nil).RenderHeatmap(matrix)
	require.NoError(t, err)
	assert.Equal(t, "Correlation Heatmap", fig.Title)
	assert.Equal(t, dataset.PrimitiveHeatmap, fig.Primitive)

	encoded, err := json.Marshal(fig)
	require.NoError(t, err)

	var decoded struct {
		Option struct {
			VisualMap struct {
				Min float64 `json:"min"`
				Max float64 `json:"max"`
			} `json:"visualMap"`
			Series []struct {
				Data [][]interface{} `json:"data"`
			} `json:"series"`
		} `json:"option"`
	}
	require.NoError(t, json.Unmarshal(encoded, &decoded))
	assert.Equal(t, -1.0, decoded.Option.VisualMap.Min)
	assert.Equal(t, 1.0, decoded.Option.VisualMap.Max)

	cells := decoded.Option.Series[0].Data
	require.Len(t, cells, 4)
	// row "a" is drawn on top
	assert.Equal(t, []interface{}{0.0, 1.0, 1.0}, cells[0])
	assert.Nil(t, cells[1][2])
	assert.Nil(t, cells[3][2])
}
