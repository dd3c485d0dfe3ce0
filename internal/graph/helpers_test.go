package graph

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

// build makes a graph over the given pictures; ids start at offset so that two graphs
// can be given unrelated id spaces. Edges are written with picture names.
func build(t *testing.T, offset int, pictures []string, edges [][2]string) *Graph {
	t.Helper()
	g := New()
	ids := map[string]NodeID{}
	for i, p := range pictures {
		id := NodeID(strconv.Itoa(offset + i))
		ids[p] = id
		g.Nodes = append(g.Nodes, Node{ID: id, Image: "pictures/" + p + ".png", Label: p, Shape: "image"})
	}
	for _, e := range edges {
		from, ok := ids[e[0]]
		require.True(t, ok, "unknown picture %s", e[0])
		to, ok := ids[e[1]]
		require.True(t, ok, "unknown picture %s", e[1])
		g.Edges = append(g.Edges, Edge{From: from, To: to})
	}
	require.NoError(t, g.validate())
	return g
}

func keyEdges(pairs ...[2]string) []KeyEdge {
	out := []KeyEdge{}
	for _, p := range pairs {
		out = append(out, KeyEdge{From: p[0] + ".png", To: p[1] + ".png"})
	}
	return out
}

var pictures = []string{"p1", "p2", "p3", "p4"}
