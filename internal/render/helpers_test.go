package render

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/psidex/simgraph/internal/matrix"
)

func testTriple() matrix.Triple {
	return matrix.Triple{
		Rows: []string{"hashA", "hashB", "hashC"},
		Cols: []string{"hashA", "hashB", "hashC"},
		Values: [][]float64{
			{0.5, 1, 0.5},
			{1, 1, 1},
			{0.5, 1, 0},
		},
	}
}

// parsePage returns the document title and the concatenated text of every script.
func parsePage(t *testing.T, path string) (title, scripts string) {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	doc, err := html.Parse(f)
	require.NoError(t, err)

	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.FirstChild != nil {
			switch n.Data {
			case "title":
				title = n.FirstChild.Data
			case "script":
				sb.WriteString(n.FirstChild.Data)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return title, sb.String()
}
