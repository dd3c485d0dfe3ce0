package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"

	"github.com/psidex/simgraph/internal/config"
	"github.com/psidex/simgraph/internal/graph"
	"github.com/psidex/simgraph/internal/lib"
	"github.com/psidex/simgraph/internal/matrix"
	"github.com/psidex/simgraph/internal/orchestrator"
	"github.com/psidex/simgraph/internal/render"
	"github.com/psidex/simgraph/internal/score"
)

// env is what every command gets to work with.
type env struct {
	cfg    config.Config
	logger *slog.Logger
	stdout io.Writer
}

type command struct {
	usage string
	run   func(ctx context.Context, e env, args []string) error
}

var commands = map[string]command{
	"inclusion": {"-results DIR -out BASE", inclusionCmd},
	"pairs":     {"-results DIR -truth FILE -out BASE", pairsCmd},
	"merge":     {"-results DIR -pairs DIR -truth FILE", mergeCmd},
	"evaluate":  {"-pairs DIR -truth FILE", evaluateCmd},
	"overview":  {"-results DIR -out FILE", overviewCmd},
	"maxscore":  {"-truth FILE", maxScoreCmd},
	"render":    {"-matrix FILE.json -out BASE", renderCmd},
	"view":      {"-graph FILE -out BASE [-format echarts|vis]", viewCmd},
}

var errUsage = errors.New("usage")

func main() {
	// A missing .env is fine.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	global := flag.NewFlagSet("simgraph", flag.ContinueOnError)
	global.SetOutput(stderr)
	configPath := global.String("config", "", "the TOML config file to use, defaults to $SIMGRAPH_CONFIG or ./simgraph.toml")
	logLevel := global.String("log-level", "", "overrides the configured log level")
	workers := global.Int("workers", -1, "overrides the configured worker count, 0 means one per CPU")
	global.Usage = func() { usage(global) }

	if err := global.Parse(args); err != nil {
		return errUsage
	}

	var cfg config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.Load(*configPath)
	} else {
		cfg, err = config.LoadDefault()
	}
	if err != nil {
		return err
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if *workers >= 0 {
		cfg.Workers = *workers
	}

	level, err := cfg.Level()
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	logger := lib.NiceLogger(stderr, level)

	rest := global.Args()
	if len(rest) == 0 {
		global.Usage()
		return errUsage
	}
	cmd, ok := commands[rest[0]]
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n", rest[0])
		global.Usage()
		return errUsage
	}

	return cmd.run(ctx, env{cfg: cfg, logger: logger.With("cmd", rest[0]), stdout: stdout}, rest[1:])
}

func usage(global *flag.FlagSet) {
	w := global.Output()
	fmt.Fprintln(w, "usage: simgraph [flags] <command> [command flags]")
	global.PrintDefaults()
	fmt.Fprintln(w, "commands:")
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %-10s %s\n", name, commands[name].usage)
	}
}

// parse parses a command's flags and checks the required ones were given.
func parse(e env, fs *flag.FlagSet, args []string, required ...string) error {
	fs.SetOutput(e.stdout)
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	missing := []string{}
	for _, name := range required {
		if fs.Lookup(name).Value.String() == "" {
			missing = append(missing, "-"+name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%s: missing %s", fs.Name(), strings.Join(missing, ", "))
	}
	return nil
}

func (e env) orchestrator() *orchestrator.Orchestrator {
	return orchestrator.New(e.cfg.Orchestrator(), e.logger, nil)
}

func (e env) export(ctx context.Context, m matrix.Matrix, base, title string) error {
	opts := e.cfg.Render
	if opts.Title == render.DefaultOptions().Title {
		opts.Title = title
	}
	renderers, err := opts.MatrixRenderers(e.logger)
	if err != nil {
		return err
	}
	if err := orchestrator.Export(ctx, m, base, renderers...); err != nil {
		return err
	}
	e.logger.Info("Matrix exported", "base", base, "rows", len(m))
	return nil
}

func inclusionCmd(ctx context.Context, e env, args []string) error {
	fs := flag.NewFlagSet("inclusion", flag.ContinueOnError)
	results := fs.String("results", "", "the folder holding one result set per subdirectory")
	out := fs.String("out", "", "the output file name without an extension")
	if err := parse(e, fs, args, "results", "out"); err != nil {
		return err
	}

	m, err := e.orchestrator().InclusionMatrix(ctx, *results)
	if err != nil {
		return err
	}
	return e.export(ctx, m, *out, "inclusion matrix")
}

func pairsCmd(ctx context.Context, e env, args []string) error {
	fs := flag.NewFlagSet("pairs", flag.ContinueOnError)
	results := fs.String("results", "", "the folder holding one result set per subdirectory")
	truth := fs.String("truth", "", "the ground truth graph")
	out := fs.String("out", "", "the output file name without an extension")
	if err := parse(e, fs, args, "results", "truth", "out"); err != nil {
		return err
	}

	m, err := e.orchestrator().PairMatrix(ctx, *results, *truth)
	if err != nil {
		return err
	}
	return e.export(ctx, m, *out, "pair matrix")
}

func mergeCmd(ctx context.Context, e env, args []string) error {
	fs := flag.NewFlagSet("merge", flag.ContinueOnError)
	results := fs.String("results", "", "the folder holding one result set per subdirectory")
	pairs := fs.String("pairs", "", "the folder to write the merged pairs to")
	truth := fs.String("truth", "", "the ground truth graph")
	if err := parse(e, fs, args, "results", "pairs", "truth"); err != nil {
		return err
	}

	generated, evaluated, err := e.orchestrator().PairedResults(ctx, *results, *pairs, *truth)
	if err != nil {
		return err
	}
	fmt.Fprintf(e.stdout, "%d pairs written, %d skipped, %d evaluated, %d failed\n",
		len(generated.Written), len(generated.Failed), len(evaluated.Evaluated), len(evaluated.Failed))
	return nil
}

func evaluateCmd(ctx context.Context, e env, args []string) error {
	fs := flag.NewFlagSet("evaluate", flag.ContinueOnError)
	pairs := fs.String("pairs", "", "the folder holding the result sets to evaluate")
	truth := fs.String("truth", "", "the ground truth graph")
	if err := parse(e, fs, args, "pairs", "truth"); err != nil {
		return err
	}

	report, err := e.orchestrator().EvaluatePairs(ctx, *pairs, *truth)
	if err != nil {
		return err
	}
	for _, ev := range report.Evaluated {
		fmt.Fprintf(e.stdout, "%s\t%g\n", ev.Name, ev.TruePositiveRate)
	}
	return nil
}

func overviewCmd(_ context.Context, e env, args []string) error {
	fs := flag.NewFlagSet("overview", flag.ContinueOnError)
	results := fs.String("results", "", "the folder holding one result set per subdirectory")
	out := fs.String("out", "", "the file to write the overview to")
	if err := parse(e, fs, args, "results", "out"); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
		return err
	}
	f, err := os.Create(*out)
	if err != nil {
		return err
	}
	defer f.Close()

	return e.orchestrator().WriteOverview(*results, f)
}

func maxScoreCmd(_ context.Context, e env, args []string) error {
	fs := flag.NewFlagSet("maxscore", flag.ContinueOnError)
	truth := fs.String("truth", "", "the ground truth graph")
	if err := parse(e, fs, args, "truth"); err != nil {
		return err
	}

	g, err := graph.Load(*truth)
	if err != nil {
		return err
	}
	best, err := score.MaxScore(g)
	if err != nil {
		return err
	}
	fmt.Fprintf(e.stdout, "%g\n", best)
	return nil
}

func renderCmd(ctx context.Context, e env, args []string) error {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	in := fs.String("matrix", "", "a matrix previously saved as JSON")
	out := fs.String("out", "", "the output file name without an extension")
	if err := parse(e, fs, args, "matrix", "out"); err != nil {
		return err
	}

	m, err := matrix.Load(*in)
	if err != nil {
		return err
	}
	renderers, err := e.cfg.Render.MatrixRenderers(e.logger)
	if err != nil {
		return err
	}
	return orchestrator.Render(ctx, m, *out, renderers...)
}

func viewCmd(_ context.Context, e env, args []string) error {
	fs := flag.NewFlagSet("view", flag.ContinueOnError)
	in := fs.String("graph", "", "the graph file to draw")
	out := fs.String("out", "", "the output file name without an extension")
	format := fs.String("format", "echarts", "echarts or vis")
	if err := parse(e, fs, args, "graph", "out"); err != nil {
		return err
	}

	g, err := graph.Load(*in)
	if err != nil {
		return err
	}
	r, err := render.GraphRendererFor(*format, filepath.Base(filepath.Dir(*in)))
	if err != nil {
		return err
	}
	return r.RenderGraphToFile(g, *out)
}
