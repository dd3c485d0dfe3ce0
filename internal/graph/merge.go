package graph

import (
	"fmt"
	"sort"

	. "github.com/psidex/simgraph/internal/lib"
)

// Merge returns the union of a and b: nodes deduplicated by picture key, edges
// deduplicated by endpoint pair. The result lives in a's id space; nodes only b knows
// about keep their id unless a already uses it. Neither input is modified.
func Merge(a, b *Graph) *Graph {
	merged := New()
	usedIDs := NewSet()
	keyToID := make(map[string]NodeID, len(a.Nodes)+len(b.Nodes))

	for _, n := range a.Nodes {
		merged.Nodes = append(merged.Nodes, n)
		usedIDs.Add(string(n.ID))
		if _, ok := keyToID[n.Key()]; !ok {
			keyToID[n.Key()] = n.ID
		}
	}

	remap := make(Correspondence, len(b.Nodes))
	for _, n := range b.Nodes {
		if id, ok := keyToID[n.Key()]; ok {
			remap[n.ID] = id
			continue
		}
		id := freeID(usedIDs, n)
		usedIDs.Add(string(id))
		keyToID[n.Key()] = id
		remap[n.ID] = id

		n.ID = id
		merged.Nodes = append(merged.Nodes, n)
	}

	// Tab can't appear in ids written by the harnesses, so it's a safe separator.
	seenEdges := NewSet()
	addEdge := func(e Edge) {
		if seenEdges.AddIfAbsent(string(e.From) + "\t" + string(e.To)) {
			merged.Edges = append(merged.Edges, e)
		}
	}
	for _, e := range a.Edges {
		addEdge(e)
	}
	for _, e := range b.Edges {
		// Every b node was remapped above, so Translate can't fail here.
		translated, _ := remap.Translate(e)
		addEdge(translated)
	}

	return merged
}

func freeID(used Set, n Node) NodeID {
	if !used.Contains(string(n.ID)) {
		return n.ID
	}
	if !used.Contains(n.Key()) {
		return NodeID(n.Key())
	}
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s#%d", n.Key(), i)
		if !used.Contains(candidate) {
			return NodeID(candidate)
		}
	}
}

// KeyEdge is an edge expressed with picture keys instead of ids, which makes edges of
// graphs with unrelated id spaces comparable.
type KeyEdge struct {
	From string
	To   string
}

// KeyEdges returns the edge set of g in key space, sorted.
func (g *Graph) KeyEdges() []KeyEdge {
	out := make([]KeyEdge, 0, len(g.Edges))
	for _, e := range g.Edges {
		from, _ := g.Node(e.From)
		to, _ := g.Node(e.To)
		out = append(out, KeyEdge{From: from.Key(), To: to.Key()})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].From != out[j].From {
			return out[i].From < out[j].From
		}
		return out[i].To < out[j].To
	})
	return out
}

// NodeKeys returns the sorted picture keys of g.
func (g *Graph) NodeKeys() []string {
	out := make([]string, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		out = append(out, n.Key())
	}
	sort.Strings(out)
	return out
}
