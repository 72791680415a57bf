package view

// crosshairStroke is the target on-screen line width in pixels; the
// drawn width in domain-scaled space is divided by the current zoom so
// the line stays constant-width regardless of zoom.
const crosshairStroke = 2.0

// Selection is a resolved click: discrete indices plus the identity
// triple handed to the annotation collaborator.
type Selection struct {
	SampleIndex  int
	FeatureIndex int
	SampleID     string
	FeatureID    string
	Taxonomy     string
}

// Line is one crosshair line in domain coordinates, to be projected
// through the composite transform at draw time.
type Line struct {
	X1, Y1, X2, Y2 float64
	// Width is in domain units along the line's perpendicular axis;
	// after projection it comes out as crosshairStroke screen pixels.
	Width float64
}

// Crosshair tracks the last resolved pointer position and produces the
// two crosshair lines. Transient state, overwritten on each click.
type Crosshair struct {
	engine  *Engine
	samples *SampleDomain
	feature *FeatureDomain

	active   bool
	sampleIx int
	featIx   int
}

// NewCrosshair creates a controller bound to the engine and domains.
func NewCrosshair(engine *Engine, s *SampleDomain, f *FeatureDomain) *Crosshair {
	return &Crosshair{engine: engine, samples: s, feature: f}
}

// Resolve inverts the current composite transform at the given plot
// pixel, rounds to the nearest cell, and clamps to the domain. Returns
// false when no resolution is possible (empty axes, degenerate view).
func (c *Crosshair) Resolve(px, py float64) (Selection, bool) {
	ns, nf := c.samples.Len(), c.feature.Len()
	if ns == 0 || nf == 0 {
		return Selection{}, false
	}
	x, y, ok := c.engine.Snapshot().Invert(px, py)
	if !ok {
		return Selection{}, false
	}
	si := ClampIndex(x, ns)
	fi := ClampIndex(y, nf)
	c.active = true
	c.sampleIx = si
	c.featIx = fi
	return Selection{
		SampleIndex:  si,
		FeatureIndex: fi,
		SampleID:     c.samples.IDs[si],
		FeatureID:    c.feature.IDs[fi],
		Taxonomy:     c.feature.Taxonomy(fi),
	}, true
}

// Clear hides the crosshair.
func (c *Crosshair) Clear() {
	c.active = false
}

// Active reports whether a crosshair position is set.
func (c *Crosshair) Active() bool { return c.active }

// Position returns the last resolved indices.
func (c *Crosshair) Position() (sample, feature int) {
	return c.sampleIx, c.featIx
}

// Lines returns the vertical line at the resolved sample spanning the
// full feature range and the horizontal line at the resolved feature
// spanning the full sample range. Widths are pre-divided by the axis
// zoom so projection through the transform yields crosshairStroke
// screen pixels.
func (c *Crosshair) Lines() []Line {
	if !c.active {
		return nil
	}
	tr := c.engine.Snapshot()
	ns, nf := float64(c.samples.Len()), float64(c.feature.Len())
	sx, fy := float64(c.sampleIx), float64(c.featIx)
	lines := make([]Line, 0, 2)
	if tr.KX != 0 {
		lines = append(lines, Line{
			X1: sx, Y1: 0, X2: sx, Y2: nf,
			Width: crosshairStroke / tr.KX,
		})
	}
	if tr.KY != 0 {
		lines = append(lines, Line{
			X1: 0, Y1: fy, X2: ns, Y2: fy,
			Width: crosshairStroke / tr.KY,
		})
	}
	return lines
}
