package orchestrator

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/psidex/simgraph/internal/graph"
	"github.com/psidex/simgraph/internal/matrix"
	"github.com/psidex/simgraph/internal/resultset"
)

type recordingObserver struct {
	mu     sync.Mutex
	done   map[[2]string]float64
	failed map[[2]string]error
}

func newRecordingObserver() *recordingObserver {
	return &recordingObserver{done: map[[2]string]float64{}, failed: map[[2]string]error{}}
}

func (r *recordingObserver) CellDone(source, comparedTo string, similarity float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.done[[2]string{source, comparedTo}] = similarity
}

func (r *recordingObserver) CellFailed(source, comparedTo string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failed[[2]string{source, comparedTo}] = err
}

func lookup(t *testing.T, m matrix.Matrix, source, comparedTo string) float64 {
	t.Helper()
	v, err := m.Lookup(source, comparedTo)
	require.NoError(t, err)
	return v
}

func TestPairMatrix_Scenario(t *testing.T) {
	folder, truth := writeScenario(t)
	observer := newRecordingObserver()

	m, err := newTestOrchestrator(observer).PairMatrix(context.Background(), folder, truth)
	require.NoError(t, err)

	assert.Equal(t, 1.0, lookup(t, m, "hashA", "hashB"))
	assert.Equal(t, 0.5, lookup(t, m, "hashA", "hashC"))
	assert.Equal(t, 1.0, lookup(t, m, "hashB", "hashC"))
	assert.Equal(t, 1.0, lookup(t, m, "hashB", "hashA"))
	assert.Equal(t, 0.5, lookup(t, m, "hashA", "hashA"))
	assert.Equal(t, 0.0, lookup(t, m, "hashC", "hashC"))

	require.Len(t, m, 3)
	assert.Equal(t, "hashA", m[0].Source)
	assert.Equal(t, []matrix.Cell{
		{ComparedTo: "hashB", Similarity: 1},
		{ComparedTo: "hashA", Similarity: 0.5},
		{ComparedTo: "hashC", Similarity: 0.5},
	}, m[0].SimilarTo)

	assert.Len(t, observer.done, 9)
	assert.Empty(t, observer.failed)
	assert.Equal(t, 0.5, observer.done[[2]string{"hashC", "hashA"}])
}

func TestPairMatrix_DegenerateTruth(t *testing.T) {
	folder, _ := writeScenario(t)
	truth := filepath.Join(t.TempDir(), "truth.json")
	require.NoError(t, buildGraph(t, 0).Save(truth))

	_, err := newTestOrchestrator(nil).PairMatrix(context.Background(), folder, truth)

	var dErr *graph.DegenerateGraphError
	assert.True(t, errors.As(err, &dErr))
}

func TestPairMatrix_MissingTruth(t *testing.T) {
	folder, _ := writeScenario(t)

	_, err := newTestOrchestrator(nil).PairMatrix(context.Background(), folder, filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestInclusionMatrix(t *testing.T) {
	folder, _ := writeScenario(t)

	m, err := newTestOrchestrator(nil).InclusionMatrix(context.Background(), folder)
	require.NoError(t, err)

	// hashC has no edges so it has no row, but it is still a target.
	require.Len(t, m, 2)
	assert.Equal(t, 1.0, lookup(t, m, "hashA", "hashA"))
	assert.Equal(t, 1.0, lookup(t, m, "hashA", "hashB"))
	assert.Equal(t, 0.0, lookup(t, m, "hashA", "hashC"))
	assert.Equal(t, 0.5, lookup(t, m, "hashB", "hashA"))
	assert.Equal(t, 1.0, lookup(t, m, "hashB", "hashB"))
	assert.Equal(t, 0.0, lookup(t, m, "hashB", "hashC"))
	_, err = m.Lookup("hashC", "hashA")
	assert.Error(t, err)

	triple, err := matrix.Project(m)
	require.NoError(t, err)
	assert.Equal(t, []string{"hashA", "hashB"}, triple.Rows)
	assert.Equal(t, []string{"hashA", "hashB", "hashC"}, triple.Cols)
	v, err := triple.Lookup("hashB", "hashC")
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)
}

func TestInclusionMatrix_Cancelled(t *testing.T) {
	folder, _ := writeScenario(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestOrchestrator(nil).InclusionMatrix(ctx, folder)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBuildMatrix_FailingCellIsSkipped(t *testing.T) {
	folder, _ := writeScenario(t)
	o := newTestOrchestrator(newRecordingObserver())
	logger := o.runLogger("test")

	sets, err := o.discover(context.Background(), folder, logger)
	require.NoError(t, err)

	boom := errors.New("boom")
	m, err := o.buildMatrix(context.Background(), logger, sets, sets, func(a, b *resultset.ResultSet) (float64, error) {
		if a.Name == "hashB" && b.Name == "hashC" {
			return 0, boom
		}
		return 1, nil
	})
	require.NoError(t, err)

	_, err = m.Lookup("hashB", "hashC")
	var cErr *matrix.MissingCellError
	assert.True(t, errors.As(err, &cErr))
	assert.Equal(t, 1.0, lookup(t, m, "hashC", "hashB"))

	observer := o.observer.(*recordingObserver)
	assert.Len(t, observer.done, 8)
	assert.Equal(t, boom, observer.failed[[2]string{"hashB", "hashC"}])
}
