// Package render draws similarity matrices as heat-maps and result graphs as
// interactive pages.
package render

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/psidex/simgraph/internal/lib"
)

const (
	EngineNative = "native"
	EngineChrome = "chrome"
)

// Options selects and configures the matrix renderers.
type Options struct {
	HTML          bool         `toml:"html"`
	PNG           bool         `toml:"png"`
	PNGEngine     string       `toml:"png_engine"`
	CellSize      int          `toml:"cell_size"`
	Palette       string       `toml:"palette"`
	Title         string       `toml:"title"`
	ChromeTimeout lib.Duration `toml:"chrome_timeout"`
}

func DefaultOptions() Options {
	return Options{
		HTML:          true,
		PNG:           true,
		PNGEngine:     EngineNative,
		CellSize:      48,
		Palette:       "YlGn",
		Title:         "simgraph",
		ChromeTimeout: lib.DurationFrom(30 * time.Second),
	}
}

// MatrixRenderers builds the renderers o asks for.
func (o Options) MatrixRenderers(logger *slog.Logger) ([]MatrixRenderer, error) {
	palette, err := NewPalette(o.Palette)
	if err != nil {
		return nil, err
	}
	if o.CellSize <= 0 {
		return nil, fmt.Errorf("cell_size must be positive, got %d", o.CellSize)
	}

	html := HTMLHeatMap{Title: o.Title, Palette: palette, CellSize: o.CellSize}
	renderers := []MatrixRenderer{}

	if !o.PNG {
		if o.HTML {
			renderers = append(renderers, html)
		}
		return renderers, nil
	}

	switch o.PNGEngine {
	case EngineNative, "":
		if o.HTML {
			renderers = append(renderers, html)
		}
		renderers = append(renderers, PNGHeatMap{Title: o.Title, Palette: palette, CellSize: o.CellSize})
	case EngineChrome:
		// The chrome engine writes the HTML page itself.
		renderers = append(renderers, ChromeHeatMap{HTML: html, Timeout: o.ChromeTimeout.Duration, Logger: logger})
	default:
		return nil, fmt.Errorf("unknown png_engine %q", o.PNGEngine)
	}
	return renderers, nil
}

// GraphRendererFor returns the graph viewer with the given name.
func GraphRendererFor(format, title string) (GraphRenderer, error) {
	switch format {
	case "echarts":
		return ECharts{Title: title}, nil
	case "vis":
		return Vis{Title: title}, nil
	default:
		return nil, fmt.Errorf("unknown graph format: %s", format)
	}
}
