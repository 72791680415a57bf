// Package render synthesizes the heatmap bitmap from the abundance
// matrix and produces annotated PNG exports.
package render

import (
	"image"
	"math"
	"sort"

	"heatlens/internal/dataset"
	"heatlens/pkg/colormap"
)

// Options control bitmap synthesis.
type Options struct {
	Colormap colormap.Colormap
	// RobustPercentile trims the value range to the [p, 100-p]
	// percentiles before normalizing, so a handful of extreme counts
	// does not flatten the rest of the map. 0 uses the full range.
	RobustPercentile float64
}

// Bitmap renders the matrix one pixel per cell: width = samples,
// height = features, row i at y=i and sample j at x=j. The bitmap is
// immutable after creation; all zooming happens in the render
// transform, never by resampling the source.
func Bitmap(t *dataset.Table, opts Options) *image.RGBA {
	rows, cols := t.NFeatures(), t.NSamples()
	img := image.NewRGBA(image.Rect(0, 0, cols, rows))
	if rows == 0 || cols == 0 {
		return img
	}
	cmap := opts.Colormap
	if cmap == nil {
		cmap = colormap.Viridis
	}

	lo, hi := valueRange(t, opts.RobustPercentile)
	span := hi - lo
	if span == 0 {
		span = 1
	}
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			v := (t.Data.At(i, j) - lo) / span
			img.SetRGBA(j, i, cmap.At(v))
		}
	}
	return img
}

// valueRange computes the normalization bounds, optionally trimmed to
// the robust percentiles.
func valueRange(t *dataset.Table, pct float64) (lo, hi float64) {
	rows, cols := t.NFeatures(), t.NSamples()
	if pct <= 0 {
		lo, hi = math.Inf(1), math.Inf(-1)
		for i := 0; i < rows; i++ {
			for j := 0; j < cols; j++ {
				v := t.Data.At(i, j)
				lo = math.Min(lo, v)
				hi = math.Max(hi, v)
			}
		}
		return lo, hi
	}
	all := make([]float64, 0, rows*cols)
	for i := 0; i < rows; i++ {
		all = append(all, t.FeatureRow(i)...)
	}
	sort.Float64s(all)
	loIx := int(float64(len(all)-1) * pct / 100)
	hiIx := int(float64(len(all)-1) * (100 - pct) / 100)
	if hiIx < loIx {
		loIx, hiIx = hiIx, loIx
	}
	return all[loIx], all[hiIx]
}
