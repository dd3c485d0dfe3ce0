package graph

// Correspondence maps node ids of one graph to the node ids of another. Nodes with no
// counterpart are absent from the map.
type Correspondence map[NodeID]NodeID

// Correspond joins the nodes of a and b on their picture key. Neither graph is
// modified; b's key index is built once and reused for every later call.
func Correspond(a, b *Graph) Correspondence {
	c := make(Correspondence, len(a.Nodes))
	for _, n := range a.Nodes {
		if id, ok := b.NodeByKey(n.Key()); ok {
			c[n.ID] = id
		}
	}
	return c
}

// Translate maps an edge of the source graph into the target id space. ok is false if
// either endpoint has no counterpart.
func (c Correspondence) Translate(e Edge) (Edge, bool) {
	from, ok := c[e.From]
	if !ok {
		return Edge{}, false
	}
	to, ok := c[e.To]
	if !ok {
		return Edge{}, false
	}
	return Edge{From: from, To: to}, true
}
