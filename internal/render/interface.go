package render

import (
	"context"

	"github.com/psidex/simgraph/internal/graph"
	"github.com/psidex/simgraph/internal/matrix"
)

// MatrixRenderer draws a projected similarity matrix.
type MatrixRenderer interface {
	// RenderToFile is not assumed to be thread-safe.
	// filename should be the desired file name without an extension.
	RenderToFile(ctx context.Context, t matrix.Triple, filename string) error
}

// GraphRenderer draws a single result graph so it can be inspected by hand.
type GraphRenderer interface {
	// filename should be the desired file name without an extension.
	RenderGraphToFile(g *graph.Graph, filename string) error
}
