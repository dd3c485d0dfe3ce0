package render

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/psidex/simgraph/internal/graph"
	. "github.com/psidex/simgraph/internal/lib"
)

// Vis defines a GraphRenderer that renders to a HTML file which draws the graph with
// vis.js, pictures first and then the matches between them.
type Vis struct {
	Title string
}

var _ GraphRenderer = Vis{}

type visNode struct {
	ID    graph.NodeID `json:"id"`
	Label string       `json:"label"`
	Image string       `json:"image,omitempty"`
	Shape string       `json:"shape,omitempty"`
}

type visEdge struct {
	From   graph.NodeID `json:"from"`
	To     graph.NodeID `json:"to"`
	Arrows string       `json:"arrows"`
}

type visItem struct {
	Type string      `json:"type"` // "node" or "edge"
	Data interface{} `json:"data"`
}

// items lists the nodes and then the edges of g, as the page adds them.
func (v Vis) items(g *graph.Graph) ([]string, error) {
	seen := NewSet()
	out := []string{}

	add := func(item visItem) error {
		itemJson, err := json.Marshal(item)
		if err != nil {
			return err
		}
		if seen.AddIfAbsent(string(itemJson)) {
			out = append(out, string(itemJson))
		}
		return nil
	}

	for _, n := range g.Nodes {
		shape := n.Shape
		if shape == "" && n.Image == "" {
			shape = "dot"
		}
		if err := add(visItem{Type: "node", Data: visNode{ID: n.ID, Label: n.Key(), Image: n.Image, Shape: shape}}); err != nil {
			return nil, err
		}
	}
	for _, e := range g.Edges {
		if err := add(visItem{Type: "edge", Data: visEdge{From: e.From, To: e.To, Arrows: "to"}}); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (v Vis) RenderGraphToFile(g *graph.Graph, filename string) error {
	filename = filename + ".html"

	items, err := v.items(g)
	if err != nil {
		return err
	}

	title, err := json.Marshal(v.Title)
	if err != nil {
		return err
	}

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	output := ""
	if len(items) > 0 {
		output = "\n" + strings.Join(items, ",\n") + ","
	}
	_, err = file.WriteString(fmt.Sprintf(visPage, title, output))
	return err
}
