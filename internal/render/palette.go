package render

import (
	"fmt"
	"math"
	"sort"

	"github.com/lucasb-eyer/go-colorful"
)

// Colour stops of the sequential ColorBrewer schemes, lightest first.
var palettes = map[string][]string{
	"YlGn":   {"#ffffe5", "#f7fcb9", "#d9f0a3", "#addd8e", "#78c679", "#41ab5d", "#238443", "#006837", "#004529"},
	"Blues":  {"#f7fbff", "#deebf7", "#c6dbef", "#9ecae1", "#6baed6", "#4292c6", "#2171b5", "#08519c", "#08306b"},
	"Greys":  {"#ffffff", "#f0f0f0", "#d9d9d9", "#bdbdbd", "#969696", "#737373", "#525252", "#252525", "#000000"},
	"YlOrRd": {"#ffffcc", "#ffeda0", "#fed976", "#feb24c", "#fd8d3c", "#fc4e2a", "#e31a1c", "#bd0026", "#800026"},
}

// Palette maps a similarity in [0, 1] to a colour.
type Palette struct {
	Name  string
	hex   []string
	stops []colorful.Color
}

// Palettes lists the known palette names.
func Palettes() []string {
	names := make([]string, 0, len(palettes))
	for name := range palettes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func NewPalette(name string) (Palette, error) {
	hex, ok := palettes[name]
	if !ok {
		return Palette{}, fmt.Errorf("unknown palette %q, expected one of %v", name, Palettes())
	}
	p := Palette{Name: name, hex: hex}
	for _, h := range hex {
		c, err := colorful.Hex(h)
		if err != nil {
			return Palette{}, err
		}
		p.stops = append(p.stops, c)
	}
	return p, nil
}

// Hex returns the stops as CSS colours.
func (p Palette) Hex() []string {
	return append([]string(nil), p.hex...)
}

// At blends between the two stops surrounding v in Lab space. v is clamped to [0, 1].
func (p Palette) At(v float64) colorful.Color {
	if math.IsNaN(v) || v <= 0 {
		return p.stops[0]
	}
	if v >= 1 {
		return p.stops[len(p.stops)-1]
	}
	scaled := v * float64(len(p.stops)-1)
	i := int(scaled)
	return p.stops[i].BlendLab(p.stops[i+1], scaled-float64(i)).Clamped()
}

// Dark reports whether text drawn over c should be light.
func Dark(c colorful.Color) bool {
	l, _, _ := c.Lab()
	return l < 0.6
}
