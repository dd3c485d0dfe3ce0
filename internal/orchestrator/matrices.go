package orchestrator

import (
	"context"
	"fmt"

	"github.com/psidex/simgraph/internal/graph"
	"github.com/psidex/simgraph/internal/matrix"
	"github.com/psidex/simgraph/internal/resultset"
	"github.com/psidex/simgraph/internal/score"
)

// InclusionMatrix scores how much of each result set's graph is found in every other
// one. Sets without edges have no row since their score is undefined, but they are
// still compared against as targets, where they score 0.
func (o *Orchestrator) InclusionMatrix(ctx context.Context, folder string) (matrix.Matrix, error) {
	logger := o.runLogger("inclusion")

	sets, err := o.discover(ctx, folder, logger)
	if err != nil {
		return nil, err
	}

	sources := make([]*resultset.ResultSet, 0, len(sets))
	for _, rs := range sets {
		if len(rs.Graph.Edges) == 0 {
			logger.Warn("Result set has no row in inclusion matrix", "set", rs.Name, "err", &graph.DegenerateGraphError{Role: "source"})
			continue
		}
		sources = append(sources, rs)
	}

	return o.buildMatrix(ctx, logger, sources, sets, func(a, b *resultset.ResultSet) (float64, error) {
		return graph.InclusionScore(a.Graph, b.Graph)
	})
}

// PairMatrix scores the merge of every ordered pair of result sets against truth.
func (o *Orchestrator) PairMatrix(ctx context.Context, folder, truthPath string) (matrix.Matrix, error) {
	logger := o.runLogger("pairs")

	truth, err := loadTruth(truthPath)
	if err != nil {
		return nil, err
	}

	sets, err := o.discover(ctx, folder, logger)
	if err != nil {
		return nil, err
	}

	return o.buildMatrix(ctx, logger, sets, sets, func(a, b *resultset.ResultSet) (float64, error) {
		return score.TruePositiveRate(graph.Merge(a.Graph, b.Graph), truth)
	})
}

// loadTruth reads a ground truth and rejects one nothing could be scored against.
func loadTruth(path string) (*graph.Graph, error) {
	truth, err := graph.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load ground truth: %w", err)
	}
	if len(truth.Edges) == 0 {
		return nil, fmt.Errorf("unusable ground truth '%s': %w", path, &graph.DegenerateGraphError{Role: "ground truth"})
	}
	return truth, nil
}
