package orchestrator

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/psidex/simgraph/internal/stats"
)

const (
	overviewNameWidth  = 95
	overviewFieldWidth = 34
)

// OverviewLine summarises one result set. Rank is its true-positive rate, or -1 when
// the set has no usable stats.
type OverviewLine struct {
	Name string
	Rank float64
	Text string
}

// Overview lists every directory in folder with its headline stats, best first.
func (o *Orchestrator) Overview(folder string) ([]OverviewLine, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, err
	}

	lines := []OverviewLine{}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		line := OverviewLine{Name: entry.Name(), Rank: -1}
		text := fmt.Sprintf("%-*s\t", overviewNameWidth, entry.Name())

		s, err := stats.Load(filepath.Join(folder, entry.Name(), o.cfg.Layout.StatsFile))
		if err == nil && s.TruePositiveRate != nil {
			line.Rank = *s.TruePositiveRate
			text += fmt.Sprintf("%-*s \t", overviewFieldWidth, "TRUE_POSITIVE = "+formatStat(s.TruePositiveRate))
			text += fmt.Sprintf("%-*s \t", overviewFieldWidth, "PRE_COMPUTING = "+formatStat(s.TimePerPicturePreComputing))
			text += fmt.Sprintf("%-*s", overviewFieldWidth, "MATCHING = "+formatStat(s.TimePerPictureMatching))
		} else {
			o.logger.Debug("No result for overview", "set", entry.Name(), "err", err)
			text += "NO RESULT / ERROR"
		}
		line.Text = text
		lines = append(lines, line)
	}

	sort.SliceStable(lines, func(i, j int) bool {
		if lines[i].Rank != lines[j].Rank {
			return lines[i].Rank > lines[j].Rank
		}
		return lines[i].Name < lines[j].Name
	})
	return lines, nil
}

// WriteOverview writes the overview of folder to w, one CRLF terminated line per set.
func (o *Orchestrator) WriteOverview(folder string, w io.Writer) error {
	lines, err := o.Overview(folder)
	if err != nil {
		return err
	}
	for _, line := range lines {
		if _, err := io.WriteString(w, line.Text+"\r\n"); err != nil {
			return err
		}
	}
	o.logger.Info("Overview written", "folder", folder, "sets", len(lines))
	return nil
}

func formatStat(v *float64) string {
	if v == nil {
		return "None"
	}
	s := strconv.FormatFloat(*v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
