// Package score compares result graphs to a ground truth.
package score

import (
	"github.com/psidex/simgraph/internal/graph"
)

// TruePositiveRate is the fraction of ground-truth edges that candidate reproduces,
// matching pictures by name.
func TruePositiveRate(candidate, truth *graph.Graph) (float64, error) {
	in := graph.Include(truth, candidate)
	if in.Total == 0 {
		return 0, &graph.DegenerateGraphError{Role: "ground truth"}
	}
	return in.Score()
}

// MaxScore is the best rate any algorithm could reach on truth if it only ever links a
// picture to something: pictures with no edge at all can't be matched.
func MaxScore(truth *graph.Graph) (float64, error) {
	if len(truth.Nodes) == 0 {
		return 0, &graph.DegenerateGraphError{Role: "ground truth nodes"}
	}

	linked := make(map[graph.NodeID]struct{}, len(truth.Nodes))
	for _, e := range truth.Edges {
		linked[e.From] = struct{}{}
		linked[e.To] = struct{}{}
	}

	outliers := 0
	for _, n := range truth.Nodes {
		if _, ok := linked[n.ID]; !ok {
			outliers++
		}
	}
	return 1 - float64(outliers)/float64(len(truth.Nodes)), nil
}
