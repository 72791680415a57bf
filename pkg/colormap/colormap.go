// Package colormap maps normalized abundance values to heatmap colors.
package colormap

import (
	"image/color"
	"sort"
)

// Colormap maps a normalized value in [0, 1] to a color.
type Colormap interface {
	At(t float64) color.RGBA
}

// Linear interpolates between evenly spaced color stops.
type Linear struct {
	stops []color.RGBA
}

// NewLinear builds a linear colormap from color stops.
func NewLinear(stops ...color.RGBA) Linear {
	return Linear{stops: stops}
}

// At returns the interpolated color at t, clamping t to [0, 1].
func (c Linear) At(t float64) color.RGBA {
	if len(c.stops) == 0 {
		return color.RGBA{A: 255}
	}
	if t <= 0 {
		return c.stops[0]
	}
	if t >= 1 {
		return c.stops[len(c.stops)-1]
	}
	idx := t * float64(len(c.stops)-1)
	lower := int(idx)
	upper := lower + 1
	if upper >= len(c.stops) {
		upper = len(c.stops) - 1
	}
	frac := idx - float64(lower)
	return lerp(c.stops[lower], c.stops[upper], frac)
}

// Reversed returns the colormap with its stop order flipped.
func (c Linear) Reversed() Linear {
	r := Linear{stops: make([]color.RGBA, len(c.stops))}
	for i, s := range c.stops {
		r.stops[len(c.stops)-1-i] = s
	}
	return r
}

func lerp(a, b color.RGBA, t float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(a.R) + t*(float64(b.R)-float64(a.R))),
		G: uint8(float64(a.G) + t*(float64(b.G)-float64(a.G))),
		B: uint8(float64(a.B) + t*(float64(b.B)-float64(a.B))),
		A: 255,
	}
}

// Viridis colormap (matplotlib viridis).
var Viridis = NewLinear(
	color.RGBA{68, 1, 84, 255},
	color.RGBA{72, 35, 116, 255},
	color.RGBA{64, 67, 135, 255},
	color.RGBA{52, 94, 141, 255},
	color.RGBA{41, 120, 142, 255},
	color.RGBA{32, 144, 140, 255},
	color.RGBA{34, 167, 132, 255},
	color.RGBA{68, 190, 112, 255},
	color.RGBA{121, 209, 81, 255},
	color.RGBA{189, 222, 38, 255},
	color.RGBA{253, 231, 37, 255},
)

// Plasma colormap.
var Plasma = NewLinear(
	color.RGBA{13, 8, 135, 255},
	color.RGBA{75, 3, 161, 255},
	color.RGBA{125, 3, 168, 255},
	color.RGBA{168, 34, 150, 255},
	color.RGBA{203, 70, 121, 255},
	color.RGBA{229, 107, 93, 255},
	color.RGBA{248, 148, 65, 255},
	color.RGBA{253, 195, 40, 255},
	color.RGBA{240, 249, 33, 255},
)

// Inferno colormap.
var Inferno = NewLinear(
	color.RGBA{0, 0, 4, 255},
	color.RGBA{40, 11, 84, 255},
	color.RGBA{101, 21, 110, 255},
	color.RGBA{159, 42, 99, 255},
	color.RGBA{212, 72, 66, 255},
	color.RGBA{245, 125, 21, 255},
	color.RGBA{250, 193, 39, 255},
	color.RGBA{252, 255, 164, 255},
)

// Magma colormap.
var Magma = NewLinear(
	color.RGBA{0, 0, 4, 255},
	color.RGBA{28, 16, 68, 255},
	color.RGBA{79, 18, 123, 255},
	color.RGBA{129, 37, 129, 255},
	color.RGBA{181, 54, 122, 255},
	color.RGBA{229, 80, 100, 255},
	color.RGBA{251, 135, 97, 255},
	color.RGBA{254, 194, 135, 255},
	color.RGBA{252, 253, 191, 255},
)

var registry = map[string]Colormap{
	"viridis":   Viridis,
	"plasma":    Plasma,
	"inferno":   Inferno,
	"magma":     Magma,
	"viridis_r": Viridis.Reversed(),
	"plasma_r":  Plasma.Reversed(),
	"inferno_r": Inferno.Reversed(),
	"magma_r":   Magma.Reversed(),
}

// ByName looks up a colormap by its registry name.
func ByName(name string) (Colormap, bool) {
	c, ok := registry[name]
	return c, ok
}

// Names lists the registered colormap names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
