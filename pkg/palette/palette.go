// Package palette provides the named color ramps pieces map intensities
// through.
package palette

import (
	"math"
	"slices"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/plotfield/plotfield/pkg/errors"
	"github.com/plotfield/plotfield/pkg/scene"
)

// Default is the ramp used when no palette is requested.
const Default = "gray"

// Palette maps an intensity in [0, 1] onto a color ramp. Blending happens in
// Lab space so perceived brightness tracks the input.
type Palette struct {
	Name  string
	stops []colorful.Color
}

var palettes = map[string]Palette{
	"gray":  build("gray", "#222222", "#e8e8e8"),
	"ink":   build("ink", "#0b0b0d", "#f5f4ef"),
	"ember": build("ember", "#1a0a02", "#d73502", "#fac000"),
	"ocean": build("ocean", "#03045e", "#0096c7", "#caf0f8"),
	"prism": build("prism", "#2d00f7", "#8900f2", "#f20089", "#ffbd00"),
}

func build(name string, hexes ...string) Palette {
	stops := make([]colorful.Color, len(hexes))
	for i, h := range hexes {
		c, err := colorful.Hex(h)
		if err != nil {
			panic(err)
		}
		stops[i] = c
	}
	return Palette{Name: name, stops: stops}
}

// Get returns the named palette.
func Get(name string) (Palette, error) {
	if name == "" {
		name = Default
	}
	p, ok := palettes[name]
	if !ok {
		return Palette{}, errors.New(errors.ErrCodeInvalidPalette,
			"unknown palette %q (valid: %s)", name, strings.Join(Names(), ", "))
	}
	return p, nil
}

// Names returns all palette names, sorted.
func Names() []string {
	names := make([]string, 0, len(palettes))
	for name := range palettes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Map returns the ramp color for t. Inputs outside [0, 1] clamp to the ramp
// ends.
func (p Palette) Map(t float64) scene.Color {
	if len(p.stops) == 0 {
		return scene.Black
	}
	if t <= 0 || math.IsNaN(t) {
		return toScene(p.stops[0])
	}
	if t >= 1 {
		return toScene(p.stops[len(p.stops)-1])
	}

	pos := t * float64(len(p.stops)-1)
	i := int(pos)
	frac := pos - float64(i)
	return toScene(p.stops[i].BlendLab(p.stops[i+1], frac).Clamped())
}

func toScene(c colorful.Color) scene.Color {
	return scene.Color{R: c.R, G: c.G, B: c.B, A: 1}.Clamp()
}
