package orchestrator

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/psidex/simgraph/internal/graph"
	"github.com/psidex/simgraph/internal/lib"
	"github.com/psidex/simgraph/internal/resultset"
)

var testPictures = []string{"p1", "p2", "p3"}

// buildGraph lays the test pictures out with ids starting at offset, so that graphs
// written by different sets never agree on ids.
func buildGraph(t *testing.T, offset int, edges ...[2]string) *graph.Graph {
	t.Helper()
	g := graph.New()
	ids := map[string]graph.NodeID{}
	for i, p := range testPictures {
		id := graph.NodeID(strconv.Itoa(offset + i))
		ids[p] = id
		g.Nodes = append(g.Nodes, graph.Node{ID: id, Image: "../pictures/" + p + ".png", Label: p, Shape: "image"})
	}
	for _, e := range edges {
		g.Edges = append(g.Edges, graph.Edge{From: ids[e[0]], To: ids[e[1]]})
	}
	return g
}

type setFixture struct {
	name   string
	offset int
	edges  [][2]string
	stats  map[string]interface{}
	conf   string
}

func writeSet(t *testing.T, root string, f setFixture) string {
	t.Helper()
	layout := resultset.DefaultLayout()
	dir := filepath.Join(root, f.name)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, buildGraph(t, f.offset, f.edges...).Save(filepath.Join(dir, layout.GraphFile)))
	if f.stats != nil {
		data, err := json.Marshal(f.stats)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, layout.StatsFile), data, 0o644))
	}
	if f.conf != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, layout.ConfFile), []byte(f.conf), 0o644))
	}
	return dir
}

func timings(matching, preComputing, loading float64, pictures int) map[string]interface{} {
	return map[string]interface{}{
		"TIME_PER_PICTURE_MATCHING":      matching,
		"TIME_PER_PICTURE_PRE_COMPUTING": preComputing,
		"TIME_TO_LOAD_PICTURES":          loading,
		"NB_PICTURE":                     pictures,
	}
}

// writeScenario lays out three result sets and a ground truth:
// hashA finds p1->p2, hashB finds p1->p2 and p2->p3, hashC finds nothing.
func writeScenario(t *testing.T) (folder, truthPath string) {
	t.Helper()
	root := t.TempDir()
	folder = filepath.Join(root, "results")

	writeSet(t, folder, setFixture{
		name: "hashA", offset: 0, edges: [][2]string{{"p1", "p2"}},
		stats: timings(1, 2, 3, 3), conf: `{"ALGO": "A_HASH"}`,
	})
	writeSet(t, folder, setFixture{
		name: "hashB", offset: 10, edges: [][2]string{{"p1", "p2"}, {"p2", "p3"}},
		stats: timings(0.5, 0.25, 1, 3), conf: `{"ALGO": "B_HASH"}`,
	})
	writeSet(t, folder, setFixture{
		name: "hashC", offset: 20,
		stats: timings(0.25, 0.5, 2, 2), conf: `{"ALGO": "C_HASH"}`,
	})

	truthPath = filepath.Join(root, "truth.json")
	require.NoError(t, buildGraph(t, 100, [2]string{"p1", "p2"}, [2]string{"p2", "p3"}).Save(truthPath))
	return folder, truthPath
}

func newTestOrchestrator(observer Observer) *Orchestrator {
	return New(Config{Workers: 4, Layout: resultset.DefaultLayout()}, lib.DiscardLogger(), observer)
}
