package canvas

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"heatlens/internal/view"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
)

// zoomStep is the multiplicative step for one wheel notch or toolbar
// zoom click.
const zoomStep = 1.25

var (
	colorBackground = color.RGBA{R: 0x1E, G: 0x1E, B: 0x22, A: 0xFF}
	colorGutter     = color.RGBA{R: 0x2A, G: 0x2A, B: 0x30, A: 0xFF}
	colorSeparator  = color.RGBA{R: 0xE0, G: 0xE0, B: 0xE0, A: 0xFF}
	colorCrosshair  = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	colorLabel      = color.RGBA{R: 0xC8, G: 0xC8, B: 0xC8, A: 0xFF}
	colorAxisBadge  = color.RGBA{R: 0xFD, G: 0xE7, B: 0x25, A: 0xFF}
)

// HeatmapCanvas displays the abundance bitmap with independent per-axis
// zoom and pan, row/column tick labels in the gutters, group separators,
// and a crosshair on the selected cell. All mutation happens on the UI
// thread; the raster draw callback reads one transform snapshot.
type HeatmapCanvas struct {
	widget.BaseWidget

	engine   *view.Engine
	cross    *view.Crosshair
	dispatch *view.Dispatcher

	bitmap   *image.RGBA
	samples  *view.SampleDomain
	features *view.FeatureDomain

	raster *fynecanvas.Raster

	leftGutter   float64
	bottomGutter float64
	maxZoom      float64

	// Raster pixel size from the last draw, used to rescale event
	// positions (which arrive in widget points) and to detect resizes.
	lastW, lastH int
	scale        float32

	onSelect func(view.Selection)
	onStatus func(string)
}

// NewHeatmapCanvas creates an empty canvas with the given gutter sizes
// (pixels) and zoom bound (multiple of the baseline scale).
func NewHeatmapCanvas(leftGutter, bottomGutter, maxZoom float64) *HeatmapCanvas {
	c := &HeatmapCanvas{
		leftGutter:   leftGutter,
		bottomGutter: bottomGutter,
		maxZoom:      maxZoom,
		samples:      &view.SampleDomain{},
		features:     &view.FeatureDomain{},
		bitmap:       image.NewRGBA(image.Rect(0, 0, 0, 0)),
		scale:        1,
	}
	c.engine = view.NewEngine(view.Viewport{}, 0, 0)
	c.engine.SetMaxZoom(maxZoom)
	c.cross = view.NewCrosshair(c.engine, c.samples, c.features)
	c.dispatch = view.NewDispatcher(func(sel view.Selection) {
		if c.onSelect != nil {
			c.onSelect(sel)
		}
	})

	c.raster = fynecanvas.NewRaster(c.draw)
	c.raster.ScaleMode = fynecanvas.ImageScalePixels
	c.raster.SetMinSize(fyne.NewSize(400, 300))

	c.ExtendBaseWidget(c)
	return c
}

// OnSelect sets the callback invoked when a click resolves to a new
// cell. Repeated clicks on the same cell do not re-trigger it.
func (c *HeatmapCanvas) OnSelect(fn func(view.Selection)) {
	c.onSelect = fn
}

// OnStatus sets the callback for transient status text (zoom level,
// selected cell coordinates).
func (c *HeatmapCanvas) OnStatus(fn func(string)) {
	c.onStatus = fn
}

// SetData installs a new bitmap and axis domains, resetting the view
// and forgetting the previous selection.
func (c *HeatmapCanvas) SetData(bitmap *image.RGBA, s *view.SampleDomain, f *view.FeatureDomain) {
	if bitmap == nil {
		bitmap = image.NewRGBA(image.Rect(0, 0, 0, 0))
	}
	if s == nil {
		s = &view.SampleDomain{}
	}
	if f == nil {
		f = &view.FeatureDomain{}
	}
	c.bitmap = bitmap
	c.samples = s
	c.features = f
	c.engine.Resize(c.viewport(), s.Len(), f.Len())
	c.cross = view.NewCrosshair(c.engine, s, f)
	c.dispatch.Clear()
	c.Refresh()
}

// Engine exposes the transform engine for toolbar wiring.
func (c *HeatmapCanvas) Engine() *view.Engine { return c.engine }

// SetFeatureAxisActive routes subsequent gestures to the feature
// (vertical) axis when on, the sample axis when off. Switching does not
// change the current view.
func (c *HeatmapCanvas) SetFeatureAxisActive(on bool) {
	axis := view.AxisSample
	if on {
		axis = view.AxisFeature
	}
	if axis == c.engine.ActiveAxis() {
		return
	}
	c.engine.SetActiveAxis(axis)
	c.status("axis: %s", axis)
	c.Refresh()
}

// Reset returns both axes to the all-visible baseline view.
func (c *HeatmapCanvas) Reset() {
	c.engine.Reset()
	c.status("view reset")
	c.Refresh()
}

// ZoomIn applies one discrete zoom step to the active axis.
func (c *HeatmapCanvas) ZoomIn() { c.zoomDiscrete(zoomStep) }

// ZoomOut applies one discrete zoom step out on the active axis.
func (c *HeatmapCanvas) ZoomOut() { c.zoomDiscrete(1 / zoomStep) }

func (c *HeatmapCanvas) zoomDiscrete(factor float64) {
	axis := c.engine.ActiveAxis()
	c.engine.ZoomAxis(axis, factor)
	st, ft := c.engine.States()
	if axis == view.AxisFeature {
		st = ft
	}
	c.status("%s zoom %.1fx", axis, st.K)
	c.Refresh()
}

// PageUp pans the active axis one screenful toward lower indices.
func (c *HeatmapCanvas) PageUp() { c.pan(-1) }

// PageDown pans the active axis one screenful toward higher indices.
func (c *HeatmapCanvas) PageDown() { c.pan(1) }

func (c *HeatmapCanvas) pan(screens float64) {
	c.engine.PanAxis(c.engine.ActiveAxis(), screens)
	c.Refresh()
}

// Refresh repaints the raster.
func (c *HeatmapCanvas) Refresh() {
	c.raster.Refresh()
}

// CreateRenderer implements fyne.Widget.
func (c *HeatmapCanvas) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(c.raster)
}

// Dragged pans the active axis by the axis-appropriate component of the
// drag delta.
func (c *HeatmapCanvas) Dragged(ev *fyne.DragEvent) {
	var pan float64
	if c.engine.ActiveAxis() == view.AxisFeature {
		pan = float64(ev.Dragged.DY * c.scale)
	} else {
		pan = float64(ev.Dragged.DX * c.scale)
	}
	if pan == 0 {
		return
	}
	c.engine.ApplyGesture(view.Gesture{Pan: pan})
	c.Refresh()
}

// DragEnd implements fyne.Draggable.
func (c *HeatmapCanvas) DragEnd() {}

// Scrolled zooms the active axis, anchored at the cursor so the cell
// under the pointer stays put.
func (c *HeatmapCanvas) Scrolled(ev *fyne.ScrollEvent) {
	factor := zoomStep
	if ev.Scrolled.DY < 0 {
		factor = 1 / zoomStep
	} else if ev.Scrolled.DY == 0 {
		return
	}
	px, py := c.plotCoords(ev.Position)
	anchor := px
	if c.engine.ActiveAxis() == view.AxisFeature {
		anchor = py
	}
	c.engine.ApplyGesture(view.Gesture{Factor: factor, Anchor: anchor})
	c.Refresh()
}

// Tapped resolves the clicked cell, moves the crosshair there, and
// dispatches the selection.
func (c *HeatmapCanvas) Tapped(ev *fyne.PointEvent) {
	px, py := c.plotCoords(ev.Position)
	if px < 0 || py < 0 {
		return
	}
	sel, ok := c.cross.Resolve(px, py)
	if !ok {
		return
	}
	c.status("sample %s, feature %s", sel.SampleID, sel.FeatureID)
	c.dispatch.Dispatch(sel)
	c.Refresh()
}

// plotCoords converts a widget-point event position to plot pixels
// (origin at the plot's top-left, gutters excluded).
func (c *HeatmapCanvas) plotCoords(pos fyne.Position) (px, py float64) {
	x := float64(pos.X * c.scale)
	y := float64(pos.Y * c.scale)
	return x - c.leftGutter, y
}

func (c *HeatmapCanvas) viewport() view.Viewport {
	return view.Viewport{
		Width:        float64(c.lastW),
		Height:       float64(c.lastH),
		LeftGutter:   c.leftGutter,
		BottomGutter: c.bottomGutter,
	}
}

func (c *HeatmapCanvas) status(format string, args ...interface{}) {
	if c.onStatus != nil {
		c.onStatus(fmt.Sprintf(format, args...))
	}
}

// draw is the raster drawing function.
func (c *HeatmapCanvas) draw(w, h int) image.Image {
	if w != c.lastW || h != c.lastH {
		c.lastW, c.lastH = w, h
		c.engine.Resize(c.viewport(), c.samples.Len(), c.features.Len())
	}
	if size := c.Size(); size.Width > 0 {
		c.scale = float32(w) / size.Width
	}

	output := image.NewRGBA(image.Rect(0, 0, w, h))
	fillRect(output, 0, 0, w, h, colorBackground)

	vp := c.viewport()
	if vp.Degenerate() || c.samples.Len() == 0 || c.features.Len() == 0 {
		return output
	}

	left := int(vp.LeftGutter)
	plotW := int(vp.PlotWidth())
	plotH := int(vp.PlotHeight())
	tr := c.engine.Snapshot()

	c.drawBitmap(output, tr, left, plotW, plotH)
	c.drawSeparators(output, tr, left, plotH)
	c.drawCrosshair(output, tr, left, plotW, plotH)

	fillRect(output, 0, 0, left, h, colorGutter)
	fillRect(output, left, plotH, w, h, colorGutter)
	c.drawFeatureLabels(output, left, plotH)
	c.drawSampleLabels(output, tr, left, plotW, plotH)
	c.drawAxisBadge(output, h)

	return output
}

// drawBitmap samples the abundance bitmap through the inverse composite
// transform, nearest neighbor, one output pixel at a time.
func (c *HeatmapCanvas) drawBitmap(output *image.RGBA, tr view.Affine, left, plotW, plotH int) {
	src := c.bitmap
	sb := src.Bounds()
	ns, nf := sb.Dx(), sb.Dy()
	if ns == 0 || nf == 0 || tr.KX == 0 || tr.KY == 0 {
		return
	}
	// Cell centers sit on integer indices, so rounding here keeps the
	// drawn cell aligned with click resolution and the crosshair.
	for y := 0; y < plotH; y++ {
		// Row index is constant across the scanline.
		j := int(math.Round((float64(y) - tr.TY) / tr.KY))
		if j < 0 || j >= nf {
			continue
		}
		for x := 0; x < plotW; x++ {
			i := int(math.Round((float64(x) - tr.TX) / tr.KX))
			if i < 0 || i >= ns {
				continue
			}
			output.SetRGBA(left+x, y, src.RGBAAt(sb.Min.X+i, sb.Min.Y+j))
		}
	}
}

// drawSeparators draws the vertical group divider lines.
func (c *HeatmapCanvas) drawSeparators(output *image.RGBA, tr view.Affine, left, plotH int) {
	for _, pos := range c.samples.Separators {
		px, _ := tr.Apply(pos, 0)
		x := left + int(math.Round(px))
		drawLine(output, x, 0, x, plotH-1, colorSeparator, 1)
	}
}

// drawCrosshair projects the crosshair lines through the composite
// transform. Line widths were pre-divided by the axis zoom, so after
// projection both strokes come out at the same on-screen width.
func (c *HeatmapCanvas) drawCrosshair(output *image.RGBA, tr view.Affine, left, plotW, plotH int) {
	for _, ln := range c.cross.Lines() {
		x1, y1 := tr.Apply(ln.X1, ln.Y1)
		x2, y2 := tr.Apply(ln.X2, ln.Y2)
		var thickness int
		if ln.X1 == ln.X2 {
			thickness = int(math.Round(ln.Width * tr.KX))
			y1 = math.Max(y1, 0)
			y2 = math.Min(y2, float64(plotH-1))
		} else {
			thickness = int(math.Round(ln.Width * tr.KY))
			x1 = math.Max(x1, 0)
			x2 = math.Min(x2, float64(plotW-1))
		}
		if thickness < 1 {
			thickness = 1
		}
		drawLine(output,
			left+int(math.Round(x1)), int(math.Round(y1)),
			left+int(math.Round(x2)), int(math.Round(y2)),
			colorCrosshair, thickness)
	}
}

// drawFeatureLabels lays out the visible feature ticks in the left
// gutter, right-aligned, skipping labels that would overlap.
func (c *HeatmapCanvas) drawFeatureLabels(output *image.RGBA, left, plotH int) {
	lo, hi := c.engine.VisibleRange(view.AxisFeature)
	ticks := c.features.FeatureTicks(lo, hi)
	tr := c.engine.Snapshot()

	maxChars := (left - 8) / 4
	if maxChars < 1 {
		return
	}
	lastBottom := -10
	for _, t := range ticks {
		_, py := tr.Apply(0, t.Position)
		y := int(math.Round(py)) - 2
		if y < 0 || y+5 > plotH || y < lastBottom+2 {
			continue
		}
		label := t.Label
		if runes := []rune(label); len(runes) > maxChars {
			label = string(runes[:maxChars])
		}
		drawStringRight(output, label, left-4, y, 1, colorLabel)
		lastBottom = y + 5
	}
}

// drawSampleLabels draws the categorical group ticks in the bottom
// gutter, centered under their projected positions.
func (c *HeatmapCanvas) drawSampleLabels(output *image.RGBA, tr view.Affine, left, plotW, plotH int) {
	for _, t := range c.samples.SampleTickPositions(tr, float64(plotW)) {
		x := left + int(math.Round(t.Position))
		drawLine(output, x, plotH, x, plotH+3, colorLabel, 1)
		drawStringCentered(output, t.Label, x, plotH+6, 2, colorLabel)
	}
}

// drawAxisBadge shows which axis gestures currently drive, in the
// bottom-left corner.
func (c *HeatmapCanvas) drawAxisBadge(output *image.RGBA, h int) {
	drawString(output, c.engine.ActiveAxis().String(), 4, h-14, 2, colorAxisBadge)
}
