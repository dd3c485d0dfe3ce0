package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/psidex/simgraph/internal/graph"
	"github.com/psidex/simgraph/internal/resultset"
	"github.com/psidex/simgraph/internal/score"
	"github.com/psidex/simgraph/internal/stats"
)

// PairFailure records an ordered pair that couldn't be processed.
type PairFailure struct {
	Source     string
	ComparedTo string
	Err        error
}

type GenerateReport struct {
	// Written holds the names of the pair directories, in source-major order.
	Written []string
	Failed  []PairFailure
}

type Evaluation struct {
	Name             string
	TruePositiveRate float64
}

type EvaluateReport struct {
	Evaluated []Evaluation
	Failed    []PairFailure
}

// GeneratePairs writes the merge of every ordered pair of result sets in input,
// including each set with itself, as a new result set under pairFolder.
func (o *Orchestrator) GeneratePairs(ctx context.Context, input, pairFolder string) (GenerateReport, error) {
	logger := o.runLogger("generate")
	return o.generatePairs(ctx, logger, input, pairFolder)
}

func (o *Orchestrator) generatePairs(ctx context.Context, logger *slog.Logger, input, pairFolder string) (GenerateReport, error) {
	sets, err := o.discover(ctx, input, logger)
	if err != nil {
		return GenerateReport{}, err
	}
	if err := os.MkdirAll(pairFolder, 0o755); err != nil {
		return GenerateReport{}, err
	}

	logger.Info("Creating merged pairs", "input", input, "output", pairFolder)

	errs := make([]error, len(sets)*len(sets))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(o.cfg.Workers)
	for i, a := range sets {
		for j, b := range sets {
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := o.writePair(logger, a, b, pairFolder); err != nil {
					logger.Warn("Skipping pair", "source", a.Name, "compared_to", b.Name, "err", err)
					errs[i*len(sets)+j] = err
				}
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return GenerateReport{}, err
	}

	report := GenerateReport{}
	for i, a := range sets {
		for j, b := range sets {
			if err := errs[i*len(sets)+j]; err != nil {
				report.Failed = append(report.Failed, PairFailure{Source: a.Name, ComparedTo: b.Name, Err: err})
				continue
			}
			report.Written = append(report.Written, o.cfg.Layout.PairName(a.Name, b.Name))
		}
	}

	logger.Info("Merged pairs written", "written", len(report.Written), "failed", len(report.Failed))
	return report, nil
}

// writePair merges a and b into their pair directory. Nothing is left behind if any
// part of the pair can't be written.
func (o *Orchestrator) writePair(logger *slog.Logger, a, b *resultset.ResultSet, pairFolder string) (err error) {
	layout := o.cfg.Layout

	mergedStats, err := stats.Merge(a.Stats, b.Stats)
	if err != nil {
		return err
	}
	merged := graph.Merge(a.Graph, b.Graph)

	dir := filepath.Join(pairFolder, layout.PairName(a.Name, b.Name))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rmErr := os.RemoveAll(dir); rmErr != nil {
				logger.Error("Failed to remove partial pair", "dir", dir, "err", rmErr)
			}
		}
	}()

	for _, conf := range []struct {
		from *resultset.ResultSet
		name string
	}{{a, layout.FirstConf}, {b, layout.SecondConf}} {
		err := copyFile(filepath.Join(conf.from.Dir, layout.ConfFile), filepath.Join(dir, conf.name))
		if errors.Is(err, fs.ErrNotExist) {
			logger.Warn("Result set has no conf to copy", "set", conf.from.Name, "pair", filepath.Base(dir))
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to copy conf of %s: %w", conf.from.Name, err)
		}
	}
	if err := merged.Save(filepath.Join(dir, layout.GraphFile)); err != nil {
		return fmt.Errorf("failed to write merged graph: %w", err)
	}
	if err := mergedStats.Save(filepath.Join(dir, layout.StatsFile)); err != nil {
		return fmt.Errorf("failed to write merged stats: %w", err)
	}

	logger.Debug("Wrote pair", "dir", dir, "nodes", len(merged.Nodes), "edges", len(merged.Edges))
	return nil
}

func copyFile(from, to string) error {
	data, err := os.ReadFile(from)
	if err != nil {
		return err
	}
	return os.WriteFile(to, data, 0o644)
}

// EvaluatePairs scores every result set in pairFolder against the ground truth and
// stores the rate in the set's stats file, keeping whatever else was in there.
func (o *Orchestrator) EvaluatePairs(ctx context.Context, pairFolder, truthPath string) (EvaluateReport, error) {
	logger := o.runLogger("evaluate")

	truth, err := loadTruth(truthPath)
	if err != nil {
		return EvaluateReport{}, err
	}
	return o.evaluatePairs(ctx, logger, pairFolder, truth)
}

func (o *Orchestrator) evaluatePairs(ctx context.Context, logger *slog.Logger, pairFolder string, truth *graph.Graph) (EvaluateReport, error) {
	sets, err := o.discover(ctx, pairFolder, logger)
	if err != nil {
		return EvaluateReport{}, err
	}

	rates := make([]float64, len(sets))
	errs := make([]error, len(sets))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(o.cfg.Workers)
	for i, rs := range sets {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rate, err := score.TruePositiveRate(rs.Graph, truth)
			if err == nil {
				err = rs.Stats.WithTruePositiveRate(rate).Save(filepath.Join(rs.Dir, o.cfg.Layout.StatsFile))
			}
			if err != nil {
				logger.Warn("Failed to evaluate result set", "set", rs.Name, "err", err)
				errs[i] = err
				return nil
			}
			rates[i] = rate
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return EvaluateReport{}, err
	}

	report := EvaluateReport{}
	for i, rs := range sets {
		if errs[i] != nil {
			report.Failed = append(report.Failed, PairFailure{Source: rs.Name, Err: errs[i]})
			continue
		}
		report.Evaluated = append(report.Evaluated, Evaluation{Name: rs.Name, TruePositiveRate: rates[i]})
	}

	logger.Info("Evaluated result sets", "folder", pairFolder, "evaluated", len(report.Evaluated), "failed", len(report.Failed))
	return report, nil
}

// PairedResults generates every merged pair and then evaluates them. Evaluation only
// starts once all pairs are on disk.
func (o *Orchestrator) PairedResults(ctx context.Context, input, pairFolder, truthPath string) (GenerateReport, EvaluateReport, error) {
	logger := o.runLogger("paired")

	truth, err := loadTruth(truthPath)
	if err != nil {
		return GenerateReport{}, EvaluateReport{}, err
	}

	generated, err := o.generatePairs(ctx, logger, input, pairFolder)
	if err != nil {
		return generated, EvaluateReport{}, err
	}
	if err := ctx.Err(); err != nil {
		return generated, EvaluateReport{}, err
	}

	evaluated, err := o.evaluatePairs(ctx, logger, pairFolder, truth)
	return generated, evaluated, err
}
