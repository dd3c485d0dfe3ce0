package matrix

import "sort"

// Triple is a matrix laid out for rendering: Values[i][j] is the similarity of Rows[i]
// to Cols[j].
type Triple struct {
	Rows   []string    `json:"rows"`
	Cols   []string    `json:"cols"`
	Values [][]float64 `json:"values"`
}

// Project lays m out as a grid. Rows are the row sources in matrix order. Columns are
// the same sources followed by any target that never appears as a source, so a matrix
// whose sources and targets coincide projects to a square. Every row must have a cell
// for every column.
func Project(m Matrix) (Triple, error) {
	rows := make([]string, 0, len(m))
	index := make(map[string]map[string]float64, len(m))
	for _, row := range m {
		rows = append(rows, row.Source)
		cells := make(map[string]float64, len(row.SimilarTo))
		for _, cell := range row.SimilarTo {
			cells[cell.ComparedTo] = cell.Similarity
		}
		index[row.Source] = cells
	}

	cols := append([]string(nil), rows...)
	var extra []string
	seen := make(map[string]struct{}, len(rows))
	for _, source := range rows {
		seen[source] = struct{}{}
	}
	for _, row := range m {
		for _, cell := range row.SimilarTo {
			if _, ok := seen[cell.ComparedTo]; ok {
				continue
			}
			seen[cell.ComparedTo] = struct{}{}
			extra = append(extra, cell.ComparedTo)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return nameLess(extra[i], extra[j]) })
	cols = append(cols, extra...)

	values := make([][]float64, len(rows))
	for i, source := range rows {
		values[i] = make([]float64, len(cols))
		for j, target := range cols {
			v, ok := index[source][target]
			if !ok {
				return Triple{}, &MissingCellError{Source: source, ComparedTo: target}
			}
			values[i][j] = v
		}
	}

	return Triple{
		Rows:   rows,
		Cols:   cols,
		Values: values,
	}, nil
}

// Lookup reads a value back by labels.
func (t Triple) Lookup(row, col string) (float64, error) {
	for i, r := range t.Rows {
		if r != row {
			continue
		}
		for j, c := range t.Cols {
			if c == col {
				return t.Values[i][j], nil
			}
		}
	}
	return 0, &MissingCellError{Source: row, ComparedTo: col}
}
