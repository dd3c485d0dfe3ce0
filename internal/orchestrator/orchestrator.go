// Package orchestrator runs the all-pairs computations over a folder of result sets:
// inclusion and pair matrices, merged pair generation and evaluation.
package orchestrator

import (
	"context"
	"log/slog"
	"runtime"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/psidex/simgraph/internal/matrix"
	"github.com/psidex/simgraph/internal/resultset"
)

type Config struct {
	// Workers bounds how many cells are computed at once. Zero means one per CPU.
	Workers int
	Layout  resultset.Layout
}

// Observer is told about every cell as it finishes. Calls come from the worker
// goroutines so implementations must be thread-safe.
type Observer interface {
	CellDone(source, comparedTo string, similarity float64)
	CellFailed(source, comparedTo string, err error)
}

type nopObserver struct{}

func (nopObserver) CellDone(string, string, float64) {}
func (nopObserver) CellFailed(string, string, error) {}

type Orchestrator struct {
	cfg      Config
	logger   *slog.Logger
	observer Observer
}

// New creates an Orchestrator. observer may be nil.
func New(cfg Config, logger *slog.Logger, observer Observer) *Orchestrator {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if observer == nil {
		observer = nopObserver{}
	}
	return &Orchestrator{
		cfg:      cfg,
		logger:   logger,
		observer: observer,
	}
}

func (o *Orchestrator) runLogger(op string) *slog.Logger {
	return o.logger.With("run", uuid.NewString(), "op", op)
}

func (o *Orchestrator) discover(ctx context.Context, folder string, logger *slog.Logger) ([]*resultset.ResultSet, error) {
	return resultset.Discover(ctx, folder, o.cfg.Layout, o.cfg.Workers, logger)
}

type cellFunc func(a, b *resultset.ResultSet) (float64, error)

type cellResult struct {
	similarity float64
	ok         bool
}

// buildMatrix evaluates cell for every source against every target. A failing cell is
// logged and left out of its row; only cancellation stops the whole matrix.
func (o *Orchestrator) buildMatrix(ctx context.Context, logger *slog.Logger, sources, targets []*resultset.ResultSet, cell cellFunc) (matrix.Matrix, error) {
	results := make([][]cellResult, len(sources))
	for i := range results {
		results[i] = make([]cellResult, len(targets))
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(o.cfg.Workers)
	for i, a := range sources {
		for j, b := range targets {
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				similarity, err := cell(a, b)
				if err != nil {
					logger.Warn("Cell failed", "source", a.Name, "compared_to", b.Name, "err", err)
					o.observer.CellFailed(a.Name, b.Name, err)
					return nil
				}
				results[i][j] = cellResult{similarity: similarity, ok: true}
				o.observer.CellDone(a.Name, b.Name, similarity)
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	m := make(matrix.Matrix, 0, len(sources))
	failed := 0
	for i, a := range sources {
		row := matrix.Row{Source: a.Name, SimilarTo: make([]matrix.Cell, 0, len(targets))}
		for j, b := range targets {
			if !results[i][j].ok {
				failed++
				continue
			}
			row.SimilarTo = append(row.SimilarTo, matrix.Cell{ComparedTo: b.Name, Similarity: results[i][j].similarity})
		}
		m = append(m, row)
	}
	m.Sort()

	total := len(sources) * len(targets)
	logger.Info("Matrix built", "sources", len(sources), "targets", len(targets), "cells", total-failed, "failed", failed)
	return m, nil
}
