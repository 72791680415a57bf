// Package view implements the dual-axis zoom/pan model for the heatmap:
// independent per-axis zoom states, the composed render transform, axis
// tick layout, and crosshair index resolution.
package view

// Viewport describes the canvas geometry for one session. The label
// gutters are carved out of the canvas; the remainder is the plot area
// the bitmap is drawn into.
type Viewport struct {
	Width        float64 // total canvas width in pixels
	Height       float64 // total canvas height in pixels
	LeftGutter   float64 // feature-axis label gutter
	BottomGutter float64 // sample-axis label gutter
}

// PlotWidth returns the width of the plot area.
func (v Viewport) PlotWidth() float64 {
	w := v.Width - v.LeftGutter
	if w < 0 {
		return 0
	}
	return w
}

// PlotHeight returns the height of the plot area.
func (v Viewport) PlotHeight() float64 {
	h := v.Height - v.BottomGutter
	if h < 0 {
		return 0
	}
	return h
}

// Degenerate reports whether the plot area is unusable (hidden window,
// zero-size layout pass). Callers skip redraws while this holds.
func (v Viewport) Degenerate() bool {
	return v.PlotWidth() <= 0 || v.PlotHeight() <= 0
}

// XYRatio returns the aspect-correction factor that makes the feature
// axis zoom factor comparable to the sample axis one on a non-square
// plot area:
//
//	xyratio = (plotHeight / features) * (samples / plotWidth)
//
// With both axes at the shared baseline scale plotWidth/samples, the
// feature axis then fills plotHeight exactly. Empty domains or a
// degenerate viewport yield 1 so downstream math stays finite.
func (v Viewport) XYRatio(samples, features int) float64 {
	if samples <= 0 || features <= 0 || v.Degenerate() {
		return 1
	}
	return (v.PlotHeight() / float64(features)) * (float64(samples) / v.PlotWidth())
}
