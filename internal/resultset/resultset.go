// Package resultset discovers and loads the per-configuration result directories
// written by the hashing harnesses.
package resultset

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/psidex/simgraph/internal/graph"
	"github.com/psidex/simgraph/internal/stats"
)

// Layout names the files inside a result directory.
type Layout struct {
	GraphFile     string `toml:"graph_file"`
	ConfFile      string `toml:"conf_file"`
	StatsFile     string `toml:"stats_file"`
	PairSeparator string `toml:"pair_separator"`
	FirstConf     string `toml:"first_conf"`
	SecondConf    string `toml:"second_conf"`
}

// DefaultLayout matches what the harnesses write.
func DefaultLayout() Layout {
	return Layout{
		GraphFile:     "graphe.py",
		ConfFile:      "conf.txt",
		StatsFile:     "stats.txt",
		PairSeparator: "_AND_",
		FirstConf:     "conf_1.txt",
		SecondConf:    "conf_2.txt",
	}
}

// PairName is the directory name of the merge of a and b.
func (l Layout) PairName(a, b string) string {
	return a + l.PairSeparator + b
}

// ResultSet is one algorithm configuration's output. Conf and Stats are nil when the
// files are absent or unreadable.
type ResultSet struct {
	Name  string
	Dir   string
	Graph *graph.Graph
	Conf  json.RawMessage
	Stats *stats.Stats
}

// MissingGraphError means a result directory has no usable graph file.
type MissingGraphError struct {
	Dir string
	Err error
}

func (e *MissingGraphError) Error() string {
	return fmt.Sprintf("no graph in %s: %v", e.Dir, e.Err)
}

func (e *MissingGraphError) Unwrap() error {
	return e.Err
}

// Load reads one result directory.
func Load(dir string, layout Layout) (*ResultSet, error) {
	g, err := graph.Load(filepath.Join(dir, layout.GraphFile))
	if err != nil {
		return nil, &MissingGraphError{Dir: dir, Err: err}
	}

	rs := &ResultSet{
		Name:  filepath.Base(dir),
		Dir:   dir,
		Graph: g,
	}

	if conf, err := os.ReadFile(filepath.Join(dir, layout.ConfFile)); err == nil && json.Valid(conf) {
		rs.Conf = conf
	}
	if s, err := stats.Load(filepath.Join(dir, layout.StatsFile)); err == nil {
		rs.Stats = s
	}

	return rs, nil
}

// Discover loads every immediate subdirectory of folder in parallel. Directories
// without a graph are logged and left out. The result is sorted by name.
func Discover(ctx context.Context, folder string, layout Layout, workers int, logger *slog.Logger) ([]*ResultSet, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, err
	}

	var dirs []string
	for _, entry := range entries {
		if entry.IsDir() {
			dirs = append(dirs, filepath.Join(folder, entry.Name()))
		}
	}

	loaded := make([]*ResultSet, len(dirs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))
	for i, dir := range dirs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rs, err := Load(dir, layout)
			if err != nil {
				level := slog.LevelWarn
				if errors.Is(err, fs.ErrNotExist) {
					level = slog.LevelInfo
				}
				logger.Log(ctx, level, "Skipping result set", "dir", dir, "err", err)
				return nil
			}
			if rs.Stats == nil {
				logger.Debug("Result set has no stats", "set", rs.Name)
			}
			loaded[i] = rs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sets := make([]*ResultSet, 0, len(loaded))
	for _, rs := range loaded {
		if rs != nil {
			sets = append(sets, rs)
		}
	}
	sort.Slice(sets, func(i, j int) bool { return sets[i].Name < sets[j].Name })

	logger.Info("Discovered result sets", "folder", folder, "count", len(sets), "skipped", len(dirs)-len(sets))
	return sets, nil
}
