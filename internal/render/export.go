package render

import (
	"fmt"
	"image"

	"github.com/fogleman/gg"
	xdraw "golang.org/x/image/draw"

	"heatlens/internal/dataset"
	"heatlens/internal/view"
)

// ExportOptions control the annotated PNG export.
type ExportOptions struct {
	Options
	Title string
	// CellSize is the exported pixel size per matrix cell; the bitmap
	// is upscaled nearest-neighbor so cells stay crisp.
	CellSize int
	// GroupField draws separators and group labels for this sample
	// metadata field when set.
	GroupField string
	// MaxRowLabels caps the number of taxonomy labels drawn down the
	// left gutter. 0 uses the viewer's tick cap.
	MaxRowLabels int
}

const (
	exportLeftGutter   = 180
	exportBottomGutter = 60
	exportTopGutter    = 30
)

// Export renders the table as an annotated PNG: the heatmap bitmap
// scaled nearest-neighbor, taxonomy labels down the left, group ticks
// and separators along the bottom.
func Export(t *dataset.Table, path string, opts ExportOptions) error {
	rows, cols := t.NFeatures(), t.NSamples()
	if rows == 0 || cols == 0 {
		return fmt.Errorf("render: nothing to export (%dx%d)", rows, cols)
	}
	cell := opts.CellSize
	if cell < 1 {
		cell = 1
	}

	src := Bitmap(t, opts.Options)
	plotW, plotH := cols*cell, rows*cell
	scaled := image.NewRGBA(image.Rect(0, 0, plotW, plotH))
	xdraw.NearestNeighbor.Scale(scaled, scaled.Bounds(), src, src.Bounds(), xdraw.Src, nil)

	dc := gg.NewContext(exportLeftGutter+plotW, exportTopGutter+plotH+exportBottomGutter)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.DrawImage(scaled, exportLeftGutter, exportTopGutter)

	dc.SetRGB(0, 0, 0)
	if opts.Title != "" {
		dc.DrawStringAnchored(opts.Title, float64(exportLeftGutter+plotW/2), float64(exportTopGutter)/2, 0.5, 0.5)
	}

	drawRowLabels(dc, t, cell, opts.MaxRowLabels)
	if opts.GroupField != "" {
		drawGroups(dc, t, cell, plotH, opts.GroupField)
	}

	return dc.SavePNG(path)
}

func drawRowLabels(dc *gg.Context, t *dataset.Table, cell, maxLabels int) {
	dom := &view.FeatureDomain{IDs: t.FeatureIDs, Taxonomies: t.Taxonomies}
	ticks := dom.FeatureTicks(0, float64(t.NFeatures()-1))
	if maxLabels > 0 && len(ticks) > maxLabels {
		step := float64(len(ticks)-1) / float64(maxLabels-1)
		trimmed := make([]view.Tick, 0, maxLabels)
		for k := 0; k < maxLabels; k++ {
			trimmed = append(trimmed, ticks[int(float64(k)*step+0.5)])
		}
		ticks = trimmed
	}
	for _, tk := range ticks {
		y := float64(exportTopGutter) + (tk.Position+0.5)*float64(cell)
		dc.DrawStringAnchored(tk.Label, exportLeftGutter-6, y, 1, 0.5)
	}
}

func drawGroups(dc *gg.Context, t *dataset.Table, cell, plotH int, field string) {
	groups := t.Groups(field)
	top := float64(exportTopGutter)
	bottom := top + float64(plotH)

	dc.SetLineWidth(1)
	for _, sep := range dataset.Separators(groups) {
		x := float64(exportLeftGutter) + sep*float64(cell)
		dc.DrawLine(x, top, x, bottom)
		dc.Stroke()
	}
	for _, g := range groups {
		x := float64(exportLeftGutter) + g.Center()*float64(cell)
		dc.DrawStringAnchored(g.Label, x, bottom+16, 0.5, 0.5)
	}
}
