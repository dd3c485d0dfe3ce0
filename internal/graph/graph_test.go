package graph

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `{
  "nodes": [
    {"id": 0, "image": "../datasets/raw/a.png", "label": "a.png", "shape": "image"},
    {"id": 1, "image": "../datasets/raw/b.png", "label": "b.png", "shape": "image"},
    {"id": "c", "image": "c.png"}
  ],
  "edges": [
    {"from": 0, "to": 1},
    {"from": 1, "to": "c"},
    {"from": 0, "to": 1}
  ]
}`

func TestParse(t *testing.T) {
	g, err := Parse([]byte(sample))
	require.NoError(t, err)

	assert.Len(t, g.Nodes, 3)
	// The duplicate edge is collapsed.
	assert.Equal(t, []Edge{{From: "0", To: "1"}, {From: "1", To: "c"}}, g.Edges)
	assert.Equal(t, "a.png", g.Nodes[0].Key())

	id, ok := g.NodeByKey("b.png")
	assert.True(t, ok)
	assert.Equal(t, NodeID("1"), id)
	assert.True(t, g.HasEdge(Edge{From: "1", To: "c"}))
	assert.False(t, g.HasEdge(Edge{From: "c", To: "1"}))
}

func TestParse_Malformed(t *testing.T) {
	cases := map[string]string{
		"not json":         `{"nodes": [`,
		"not an object":    `[1, 2]`,
		"missing nodes":    `{"edges": []}`,
		"missing edges":    `{"nodes": []}`,
		"nodes not a list": `{"nodes": {"id": 1}, "edges": []}`,
		"edges null":       `{"nodes": [], "edges": null}`,
		"bad node id":      `{"nodes": [{"id": true}], "edges": []}`,
		"duplicate node":   `{"nodes": [{"id": 1}, {"id": 1}], "edges": []}`,
		"dangling edge":    `{"nodes": [{"id": 1}], "edges": [{"from": 1, "to": 2}]}`,
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(input))
			var mErr *MalformedGraphError
			assert.True(t, errors.As(err, &mErr), "got %v", err)
		})
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	g, err := Parse([]byte(sample))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "graphe.py")
	require.NoError(t, g.Save(path))

	first, err := Load(path)
	require.NoError(t, err)
	second, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, g.Nodes, first.Nodes)
	assert.Equal(t, g.Edges, first.Edges)
	assert.Equal(t, first.Nodes, second.Nodes)
	assert.Equal(t, first.Edges, second.Edges)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "nope"))
	assert.ErrorIs(t, err, fs.ErrNotExist)

	path := filepath.Join(dir, "graphe.py")
	require.NoError(t, os.WriteFile(path, []byte(`{"nodes": []}`), 0o644))
	_, err = Load(path)
	var mErr *MalformedGraphError
	require.True(t, errors.As(err, &mErr))
	assert.Equal(t, path, mErr.Path)
	assert.Contains(t, err.Error(), `missing "edges"`)
}

func TestNodeID_JSON(t *testing.T) {
	var ids []NodeID
	require.NoError(t, json.Unmarshal([]byte(`[3, "x", "12", "007", "+5", "-4", "-0"]`), &ids))
	assert.Equal(t, []NodeID{"3", "x", "12", "007", "+5", "-4", "-0"}, ids)

	out, err := json.Marshal(ids)
	require.NoError(t, err)
	assert.JSONEq(t, `[3, "x", 12, "007", "+5", -4, "-0"]`, string(out))
}

func TestSave_ZeroPaddedIDs(t *testing.T) {
	g, err := Parse([]byte(`{"nodes": [{"id": "007"}, {"id": "008"}], "edges": [{"from": "007", "to": "008"}]}`))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "graph.json")
	require.NoError(t, g.Save(path))

	back, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, g.Nodes, back.Nodes)
	assert.True(t, back.HasEdge(Edge{From: "007", To: "008"}))
}

func TestNodeKey(t *testing.T) {
	assert.Equal(t, "a.png", Node{ID: "1", Image: "/x/y/a.png", Label: "other"}.Key())
	assert.Equal(t, "lbl", Node{ID: "1", Label: "lbl"}.Key())
	assert.Equal(t, "1", Node{ID: "1"}.Key())
}
