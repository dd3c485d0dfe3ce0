package render

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/psidex/simgraph/internal/graph"
	. "github.com/psidex/simgraph/internal/lib"
)

// ECharts defines a GraphRenderer that renders a go-echarts HTML file.
type ECharts struct {
	Title string
}

var _ GraphRenderer = ECharts{}

// nodesAndLinks names every node after its picture. echarts needs unique names, so a
// picture held by more than one node gets the node id appended.
func (e ECharts) nodesAndLinks(g *graph.Graph) ([]opts.GraphNode, []opts.GraphLink) {
	names := NewSet()
	nameOf := make(map[graph.NodeID]string, len(g.Nodes))
	linked := NewSet()

	for _, ed := range g.Edges {
		linked.Add(string(ed.From))
		linked.Add(string(ed.To))
	}

	nodes := []opts.GraphNode{}
	for _, n := range g.Nodes {
		name := n.Key()
		if !names.AddIfAbsent(name) {
			name = fmt.Sprintf("%s#%s", name, n.ID)
			names.Add(name)
		}
		nameOf[n.ID] = name

		// Category 1 holds pictures nothing was matched with.
		category := 0
		if !linked.Contains(string(n.ID)) {
			category = 1
		}
		nodes = append(nodes, opts.GraphNode{
			Name:       name,
			Symbol:     "circle",
			SymbolSize: 12,
			Category:   category,
		})
	}

	links := []opts.GraphLink{}
	for _, ed := range g.Edges {
		links = append(links, opts.GraphLink{
			Source: nameOf[ed.From],
			Target: nameOf[ed.To],
		})
	}

	return nodes, links
}

func (e ECharts) RenderGraphToFile(g *graph.Graph, filename string) error {
	filename = filename + ".html"

	nodes, links := e.nodesAndLinks(g)

	page := components.NewPage().SetPageTitle(e.Title)
	page.AddCharts(e.graphBase(nodes, links))

	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	return page.Render(f)
}

func (e ECharts) graphBase(nodes []opts.GraphNode, links []opts.GraphLink) *charts.Graph {
	chart := charts.NewGraph()
	chart.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: e.Title,
			Height:    "100vh",
			Width:     "100vw",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    e.Title,
			Subtitle: fmt.Sprintf("%d pictures, %d matches", len(nodes), len(links)),
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(true),
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show: opts.Bool(true),
		}),
	)
	chart.AddSeries(
		"graph",
		nodes,
		links,
		charts.WithGraphChartOpts(
			opts.GraphChart{
				Layout:     "force",
				Draggable:  opts.Bool(true),
				Roam:       opts.Bool(true),
				Force:      &opts.GraphForce{Repulsion: 400},
				EdgeSymbol: []string{"none", "arrow"},
				Categories: []*opts.GraphCategory{
					{Name: "matched"},
					{Name: "unmatched"},
				},
			},
		),
		charts.WithLabelOpts(opts.Label{
			Show:     opts.Bool(true),
			Color:    "black",
			Position: "top",
		}),
	)
	return chart
}
