package view

import "math"

// Axis selects one of the two zoom/pan slots.
type Axis int

const (
	AxisSample  Axis = iota // horizontal, one column per sample
	AxisFeature             // vertical, one row per feature
)

func (a Axis) String() string {
	if a == AxisFeature {
		return "feature"
	}
	return "sample"
}

// ZoomState is one axis's affine map from domain index space to plot
// pixels: pixel = K*index + T. The two instances (sample, feature) are
// mutated on disjoint gesture inputs and never share storage.
type ZoomState struct {
	K float64 // scale, pixels per domain unit (before aspect correction)
	T float64 // translate, pixels
}

// Affine is the composite render transform actually applied to the
// bitmap and overlay layers. It is a pure function of the two zoom
// states and the aspect ratio; renderers take one Affine snapshot per
// repaint so they never observe a half-applied update.
type Affine struct {
	KX, KY float64
	TX, TY float64
}

// Compose derives the composite transform from the two independent axis
// states. The xyratio multiplier expresses the feature zoom factor
// against an aspect-corrected feature pixel size.
func Compose(sample, feature ZoomState, xyratio float64) Affine {
	return Affine{
		KX: sample.K,
		KY: feature.K * xyratio,
		TX: sample.T,
		TY: feature.T,
	}
}

// Apply maps domain coordinates (sample index, feature index) to plot
// pixels.
func (a Affine) Apply(x, y float64) (px, py float64) {
	return a.KX*x + a.TX, a.KY*y + a.TY
}

// Invert maps plot pixels back to continuous domain coordinates.
// Returns false for a non-invertible (degenerate) transform.
func (a Affine) Invert(px, py float64) (x, y float64, ok bool) {
	if a.KX == 0 || a.KY == 0 {
		return 0, 0, false
	}
	return (px - a.TX) / a.KX, (py - a.TY) / a.KY, true
}

// Gesture is one continuous pointer input routed to the active axis.
// Factor is a multiplicative zoom step (0 or 1 means no zoom), Anchor
// the pixel position the zoom should keep fixed, Pan a pixel translate
// delta. The canvas passes the axis-appropriate component of the 2-D
// event; the engine never sees the other component.
type Gesture struct {
	Factor float64
	Anchor float64
	Pan    float64
}

const (
	// defaultMaxZoom bounds K at this multiple of the baseline scale.
	defaultMaxZoom = 40.0
	// translateMargin is how far (in domain units) the visible window
	// may overshoot the domain ends.
	translateMargin = 0.5
)

// Engine owns the two zoom/pan slots and the active-axis selector. All
// methods are called from the UI thread; the engine has no internal
// locking. Renderers obtain the composite transform via Snapshot.
type Engine struct {
	vp       Viewport
	samples  int
	features int

	sample  ZoomState
	feature ZoomState
	active  Axis

	baseline float64 // plotWidth/samples, the shared reset scale
	xyratio  float64
	maxZoom  float64
}

// NewEngine creates an engine for the given viewport and domain sizes
// and resets it to the baseline view.
func NewEngine(vp Viewport, samples, features int) *Engine {
	e := &Engine{maxZoom: defaultMaxZoom}
	e.Resize(vp, samples, features)
	return e
}

// SetMaxZoom overrides the upper zoom bound (multiple of baseline).
// Values <= 1 are ignored.
func (e *Engine) SetMaxZoom(m float64) {
	if m > 1 {
		e.maxZoom = m
	}
}

// Resize installs a new viewport (or domain size) and forces a Reset so
// stale bounds are never used by the next gesture.
func (e *Engine) Resize(vp Viewport, samples, features int) {
	e.vp = vp
	e.samples = samples
	e.features = features
	e.Reset()
}

// Reset returns both axes to the baseline view: every sample visible,
// one aspect-corrected pixel block per cell, no translation. Calling it
// twice in a row yields the same state as calling it once.
func (e *Engine) Reset() {
	e.xyratio = e.vp.XYRatio(e.samples, e.features)
	e.baseline = 1
	if e.samples > 0 && e.features > 0 && !e.vp.Degenerate() {
		e.baseline = e.vp.PlotWidth() / float64(e.samples)
	}
	e.sample = ZoomState{K: e.baseline}
	e.feature = ZoomState{K: e.baseline}
}

// Viewport returns the current viewport.
func (e *Engine) Viewport() Viewport { return e.vp }

// Domain returns the domain sizes the engine was configured with.
func (e *Engine) Domain() (samples, features int) { return e.samples, e.features }

// ActiveAxis returns the axis currently receiving gesture deltas.
func (e *Engine) ActiveAxis() Axis { return e.active }

// SetActiveAxis flips which slot receives gestures, typically on a
// modifier key transition. Both slots keep their values, so the
// composite transform (and therefore the apparent zoom of either axis)
// is unchanged by the switch.
func (e *Engine) SetActiveAxis(a Axis) {
	e.active = a
}

// Snapshot composes the current per-axis states into the transform
// renderers apply this repaint.
func (e *Engine) Snapshot() Affine {
	return Compose(e.sample, e.feature, e.xyratio)
}

// States returns copies of the two zoom states.
func (e *Engine) States() (sample, feature ZoomState) {
	return e.sample, e.feature
}

// noop reports whether the engine should ignore input entirely.
func (e *Engine) noop() bool {
	return e.samples <= 0 || e.features <= 0 || e.vp.Degenerate()
}

// slot returns the state, pixel extent of the plot along the axis, the
// domain extent, and the effective pixel scale multiplier for the axis.
func (e *Engine) slot(a Axis) (st *ZoomState, plotExtent float64, domainExtent float64, kmul float64) {
	if a == AxisFeature {
		return &e.feature, e.vp.PlotHeight(), float64(e.features), e.xyratio
	}
	return &e.sample, e.vp.PlotWidth(), float64(e.samples), 1
}

// clampK bounds a scale factor to [baseline, maxZoom*baseline].
func (e *Engine) clampK(k float64) float64 {
	lo, hi := e.baseline, e.baseline*e.maxZoom
	if k < lo {
		return lo
	}
	if k > hi {
		return hi
	}
	return k
}

// clampT bounds a translate so the visible window stays within the
// domain plus the configured margin.
func clampT(t, keff, plotExtent, domainExtent float64) float64 {
	lo := plotExtent - keff*(domainExtent+translateMargin)
	hi := keff * translateMargin
	if lo > hi {
		lo, hi = hi, lo
	}
	return math.Min(math.Max(t, lo), hi)
}

// ApplyGesture routes a pointer zoom/pan delta to the active axis. The
// inactive axis's state is held fixed and merely re-projected into the
// next composite transform.
func (e *Engine) ApplyGesture(g Gesture) Affine {
	if e.noop() {
		return e.Snapshot()
	}
	st, plot, dom, kmul := e.slot(e.active)
	if g.Factor > 0 && g.Factor != 1 {
		newK := e.clampK(st.K * g.Factor)
		// Keep the domain value under the anchor pixel fixed.
		ratio := newK / st.K
		st.T = g.Anchor - (g.Anchor-st.T)*ratio
		st.K = newK
	}
	st.T += g.Pan
	st.T = clampT(st.T, st.K*kmul, plot, dom)
	return e.Snapshot()
}

// ZoomAxis applies a discrete zoom step (toolbar +/-) to the given
// axis, anchored so the domain value at pixel offset 0 stays at pixel
// offset 0 across the step.
func (e *Engine) ZoomAxis(a Axis, factor float64) {
	if e.noop() || factor <= 0 {
		return
	}
	st, plot, dom, kmul := e.slot(a)
	newK := e.clampK(st.K * factor)
	// pixel 0 holds domain value -T/Keff; solve the translate that
	// puts it back at pixel 0 under the new scale.
	st.T = st.T * (newK / st.K)
	st.K = newK
	st.T = clampT(st.T, st.K*kmul, plot, dom)
}

// PanAxis translates the given axis by whole visible-window extents
// (positive pages toward higher indices). One screenful is exactly the
// plot extent in pixels regardless of the current zoom, so a pan and
// its inverse cancel exactly when no clamp is hit.
func (e *Engine) PanAxis(a Axis, screens float64) {
	if e.noop() {
		return
	}
	st, plot, dom, kmul := e.slot(a)
	st.T -= screens * plot
	st.T = clampT(st.T, st.K*kmul, plot, dom)
}

// VisibleRange returns the continuous domain interval currently mapped
// onto the plot along the given axis.
func (e *Engine) VisibleRange(a Axis) (lo, hi float64) {
	st, plot, _, kmul := e.slot(a)
	keff := st.K * kmul
	if keff == 0 {
		return 0, 0
	}
	return (0 - st.T) / keff, (plot - st.T) / keff
}
