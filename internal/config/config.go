package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"

	"github.com/pelletier/go-toml/v2"

	"github.com/psidex/simgraph/internal/lib"
	"github.com/psidex/simgraph/internal/orchestrator"
	"github.com/psidex/simgraph/internal/render"
	"github.com/psidex/simgraph/internal/resultset"
)

// Environment variables that take precedence over the config file.
const (
	EnvConfig   = "SIMGRAPH_CONFIG"
	EnvLogLevel = "SIMGRAPH_LOG_LEVEL"
	EnvWorkers  = "SIMGRAPH_WORKERS"
)

type Config struct {
	// Workers bounds the worker pool. Zero means one per CPU.
	Workers  int              `toml:"workers"`
	LogLevel string           `toml:"log_level"`
	Layout   resultset.Layout `toml:"layout"`
	Render   render.Options   `toml:"render"`
}

func Default() Config {
	return Config{
		Workers:  0,
		LogLevel: "INFO",
		Layout:   resultset.DefaultLayout(),
		Render:   render.DefaultOptions(),
	}
}

// Load reads the config file at path over the defaults, so a file only needs the
// fields it changes. An empty path uses the defaults alone. Environment overrides are
// applied last.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file '%s': %w", path, err)
		}
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse TOML: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadDefault loads the file named by SIMGRAPH_CONFIG, or simgraph.toml in the working
// directory when that exists.
func LoadDefault() (Config, error) {
	path := os.Getenv(EnvConfig)
	if path == "" {
		if _, err := os.Stat("simgraph.toml"); err == nil {
			path = "simgraph.toml"
		} else if !errors.Is(err, fs.ErrNotExist) {
			return Config{}, err
		}
	}
	return Load(path)
}

func (c *Config) applyEnv() error {
	if level := os.Getenv(EnvLogLevel); level != "" {
		c.LogLevel = level
	}
	if workers := os.Getenv(EnvWorkers); workers != "" {
		n, err := strconv.Atoi(workers)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvWorkers, err)
		}
		c.Workers = n
	}
	return nil
}

func (c Config) validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if _, err := c.Level(); err != nil {
		return fmt.Errorf("invalid log_level: %w", err)
	}
	if c.Layout.GraphFile == "" || c.Layout.StatsFile == "" || c.Layout.ConfFile == "" {
		return errors.New("layout file names must not be empty")
	}
	if c.Layout.PairSeparator == "" {
		return errors.New("layout pair_separator must not be empty")
	}
	if c.Layout.FirstConf == "" || c.Layout.SecondConf == "" {
		return errors.New("layout first_conf and second_conf must not be empty")
	}

	// Everything written into a pair directory needs its own name.
	pairFiles := map[string]string{}
	for _, f := range []struct{ key, name string }{
		{"graph_file", c.Layout.GraphFile},
		{"stats_file", c.Layout.StatsFile},
		{"first_conf", c.Layout.FirstConf},
		{"second_conf", c.Layout.SecondConf},
	} {
		if other, ok := pairFiles[f.name]; ok {
			return fmt.Errorf("layout %s and %s are both %q", other, f.key, f.name)
		}
		pairFiles[f.name] = f.key
	}
	return nil
}

func (c Config) Level() (slog.Level, error) {
	return lib.ParseSLogLevel(c.LogLevel)
}

// Orchestrator is the part of the config the orchestrator needs.
func (c Config) Orchestrator() orchestrator.Config {
	return orchestrator.Config{
		Workers: c.Workers,
		Layout:  c.Layout,
	}
}
