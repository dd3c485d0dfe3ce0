package render

import (
	"context"
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/psidex/simgraph/internal/matrix"
)

// HTMLHeatMap defines a MatrixRenderer that renders a go-echarts HTML file.
type HTMLHeatMap struct {
	Title    string
	Palette  Palette
	CellSize int
}

var _ MatrixRenderer = HTMLHeatMap{}

// Size is the pixel size of the page drawn for t.
func (h HTMLHeatMap) Size(t matrix.Triple) (width, height int) {
	// Room for the axis labels, title and the visual map.
	width = max(900, len(t.Cols)*h.CellSize+400)
	height = max(500, len(t.Rows)*h.CellSize+300)
	return width, height
}

func (h HTMLHeatMap) RenderToFile(_ context.Context, t matrix.Triple, filename string) error {
	filename = filename + ".html"

	page := components.NewPage().SetPageTitle(h.Title)
	page.AddCharts(h.heatMap(t))

	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	return page.Render(f)
}

func (h HTMLHeatMap) heatMap(t matrix.Triple) *charts.HeatMap {
	// echarts addresses cells as [x, y, value] with y counted from the bottom, so rows
	// are reversed to keep the first row at the top like the PNG.
	rows := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		rows[len(t.Rows)-1-i] = row
	}

	data := make([]opts.HeatMapData, 0, len(t.Rows)*len(t.Cols))
	for i := range t.Rows {
		for j := range t.Cols {
			data = append(data, opts.HeatMapData{
				Name:  fmt.Sprintf("%s / %s", t.Rows[i], t.Cols[j]),
				Value: [3]interface{}{j, len(t.Rows) - 1 - i, round2(t.Values[i][j])},
			})
		}
	}

	width, height := h.Size(t)

	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: h.Title,
			Width:     fmt.Sprintf("%dpx", width),
			Height:    fmt.Sprintf("%dpx", height),
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    h.Title,
			Subtitle: fmt.Sprintf("%d x %d", len(t.Rows), len(t.Cols)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show: opts.Bool(true),
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Type:      "category",
			Data:      t.Cols,
			SplitArea: &opts.SplitArea{Show: opts.Bool(true)},
			AxisLabel: &opts.AxisLabel{Show: opts.Bool(true), Rotate: 45, Interval: "0"},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type:      "category",
			Data:      rows,
			SplitArea: &opts.SplitArea{Show: opts.Bool(true)},
			AxisLabel: &opts.AxisLabel{Show: opts.Bool(true), Interval: "0"},
		}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        1,
			InRange:    &opts.VisualMapInRange{Color: h.Palette.Hex()},
		}),
	)
	hm.SetXAxis(t.Cols).AddSeries(
		"similarity",
		data,
		charts.WithLabelOpts(opts.Label{
			Show:  opts.Bool(true),
			Color: "black",
		}),
	)
	return hm
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
