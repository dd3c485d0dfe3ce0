// Package matrix holds the all-pairs similarity results and their projection into a
// grid for rendering.
package matrix

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

type Cell struct {
	ComparedTo string  `json:"compared_to"`
	Similarity float64 `json:"similarity"`
}

type Row struct {
	Source    string `json:"source"`
	SimilarTo []Cell `json:"similar_to"`
}

// Matrix is a list of rows, one per source, each listing the similarity of that source
// to every compared target.
type Matrix []Row

// Sort orders the cells of every row by decreasing similarity, then the rows by name
// length and name. Ties between cells are broken by name so the output is stable.
func (m Matrix) Sort() {
	for _, row := range m {
		cells := row.SimilarTo
		sort.SliceStable(cells, func(i, j int) bool {
			if cells[i].Similarity != cells[j].Similarity {
				return cells[i].Similarity > cells[j].Similarity
			}
			return cells[i].ComparedTo < cells[j].ComparedTo
		})
	}
	sort.SliceStable(m, func(i, j int) bool {
		return nameLess(m[i].Source, m[j].Source)
	})
}

// nameLess orders set names shortest first, then alphabetically.
func nameLess(a, b string) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}

// MissingCellError is returned when a (source, compared_to) pair isn't in the matrix.
type MissingCellError struct {
	Source     string
	ComparedTo string
}

func (e *MissingCellError) Error() string {
	if e.ComparedTo == "" {
		return fmt.Sprintf("matrix has no row for %q", e.Source)
	}
	return fmt.Sprintf("matrix has no cell %q -> %q", e.Source, e.ComparedTo)
}

// Lookup returns the similarity of source to comparedTo.
func (m Matrix) Lookup(source, comparedTo string) (float64, error) {
	for _, row := range m {
		if row.Source != source {
			continue
		}
		for _, cell := range row.SimilarTo {
			if cell.ComparedTo == comparedTo {
				return cell.Similarity, nil
			}
		}
		return 0, &MissingCellError{Source: source, ComparedTo: comparedTo}
	}
	return 0, &MissingCellError{Source: source}
}

func Save(path string, m Matrix) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func Load(path string) (Matrix, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Matrix
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse matrix '%s': %w", path, err)
	}
	return m, nil
}
