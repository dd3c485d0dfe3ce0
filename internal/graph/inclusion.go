package graph

// Inclusion is the outcome of checking the edges of one graph against another.
type Inclusion struct {
	// Missing holds the source edges that have no counterpart in the target, in source order.
	Missing []Edge
	// Total is the number of source edges.
	Total int
}

// Score is the fraction of source edges found in the target.
func (in Inclusion) Score() (float64, error) {
	if in.Total == 0 {
		return 0, &DegenerateGraphError{Role: "source"}
	}
	return 1 - float64(len(in.Missing))/float64(in.Total), nil
}

// MissingEdges returns the edges of a that are not in b once translated through c.
func MissingEdges(a *Graph, c Correspondence, b *Graph) []Edge {
	missing := []Edge{}
	for _, e := range a.Edges {
		translated, ok := c.Translate(e)
		if !ok || !b.HasEdge(translated) {
			missing = append(missing, e)
		}
	}
	return missing
}

// Include checks how many edges of a survive in b under the identity correspondence.
func Include(a, b *Graph) Inclusion {
	return Inclusion{
		Missing: MissingEdges(a, Correspond(a, b), b),
		Total:   len(a.Edges),
	}
}

// InclusionScore is Include(a, b).Score().
func InclusionScore(a, b *Graph) (float64, error) {
	return Include(a, b).Score()
}
