package canvas

import (
	"image"
	"image/color"
	"testing"

	"heatlens/internal/view"

	"fyne.io/fyne/v2"
)

// testCanvas builds a canvas over a 4-sample x 2-feature bitmap with a
// distinct color per cell, sized so the baseline scale is 25 px/cell on
// both axes (plot 100x50, xyratio 1).
func testCanvas(t *testing.T) (*HeatmapCanvas, *image.RGBA) {
	t.Helper()
	bm := image.NewRGBA(image.Rect(0, 0, 4, 2))
	for j := 0; j < 2; j++ {
		for i := 0; i < 4; i++ {
			bm.SetRGBA(i, j, color.RGBA{R: uint8(10 + i), G: uint8(100 + j), A: 0xFF})
		}
	}
	c := NewHeatmapCanvas(20, 10, 40)
	c.SetData(bm,
		&view.SampleDomain{IDs: []string{"s0", "s1", "s2", "s3"}},
		&view.FeatureDomain{
			IDs:        []string{"f0", "f1"},
			Taxonomies: []string{"Bacteria;Prevotella", "Bacteria;Roseburia"},
		})
	c.draw(120, 60)
	return c, bm
}

func TestDrawMapsCellsThroughTransform(t *testing.T) {
	c, bm := testCanvas(t)
	img := c.draw(120, 60).(*image.RGBA)

	// Cell centers: cell (i,j) spans 25px, centered at plot (25i, 25j).
	cases := []struct{ i, j, px, py int }{
		{0, 0, 0, 0},
		{3, 0, 75, 0},
		{1, 1, 25, 25},
		{3, 1, 75, 49},
	}
	for _, tc := range cases {
		got := img.RGBAAt(20+tc.px, tc.py)
		want := bm.RGBAAt(tc.i, tc.j)
		if got != want {
			t.Errorf("plot (%d,%d): got %v, want cell (%d,%d) = %v",
				tc.px, tc.py, got, tc.i, tc.j, want)
		}
	}

	// Past the last cell center plus half a cell there is no data.
	if got := img.RGBAAt(20+99, 0); got == bm.RGBAAt(3, 0) {
		t.Errorf("pixel beyond domain shows cell data: %v", got)
	}
	// Left gutter stays chrome-colored.
	if got := img.RGBAAt(5, 5); got != colorGutter {
		t.Errorf("gutter pixel = %v, want %v", got, colorGutter)
	}
}

func TestTappedDispatchesSelection(t *testing.T) {
	c, _ := testCanvas(t)
	var got []view.Selection
	c.OnSelect(func(sel view.Selection) { got = append(got, sel) })

	ev := &fyne.PointEvent{Position: fyne.NewPos(20+76, 26)}
	c.Tapped(ev)
	c.Tapped(ev) // same cell, must not re-dispatch

	if len(got) != 1 {
		t.Fatalf("dispatched %d times, want 1", len(got))
	}
	sel := got[0]
	if sel.SampleIndex != 3 || sel.FeatureIndex != 1 {
		t.Fatalf("selection = (%d,%d), want (3,1)", sel.SampleIndex, sel.FeatureIndex)
	}
	if sel.SampleID != "s3" || sel.FeatureID != "f1" {
		t.Fatalf("ids = (%s,%s)", sel.SampleID, sel.FeatureID)
	}

	// A click in the gutter resolves nothing.
	c.Tapped(&fyne.PointEvent{Position: fyne.NewPos(5, 5)})
	if len(got) != 1 {
		t.Fatalf("gutter click dispatched a selection")
	}
}

func TestScrollZoomKeepsCursorCellFixed(t *testing.T) {
	c, _ := testCanvas(t)

	// Cursor over plot x=50, domain value 2 at baseline K=25.
	c.Scrolled(&fyne.ScrollEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(20+50, 10)},
		Scrolled:   fyne.Delta{DY: 1},
	})

	st, _ := c.engine.States()
	if st.K != 25*zoomStep {
		t.Fatalf("K = %v, want %v", st.K, 25*zoomStep)
	}
	if got := (50 - st.T) / st.K; got != 2 {
		t.Fatalf("domain value under cursor moved: %v, want 2", got)
	}
}

func TestDragPansActiveAxisOnly(t *testing.T) {
	c, _ := testCanvas(t)
	c.engine.ZoomAxis(view.AxisSample, 4)
	c.engine.ZoomAxis(view.AxisFeature, 4)

	sBefore, fBefore := c.engine.States()
	c.Dragged(&fyne.DragEvent{Dragged: fyne.Delta{DX: -30, DY: -30}})
	sAfter, fAfter := c.engine.States()

	if sAfter.T != sBefore.T-30 {
		t.Fatalf("sample T = %v, want %v", sAfter.T, sBefore.T-30)
	}
	if fAfter != fBefore {
		t.Fatalf("feature state changed on a sample-axis drag: %+v", fAfter)
	}

	c.SetFeatureAxisActive(true)
	c.Dragged(&fyne.DragEvent{Dragged: fyne.Delta{DX: -30, DY: -10}})
	_, fAfter2 := c.engine.States()
	if fAfter2.T != fAfter.T-10 {
		t.Fatalf("feature T = %v, want %v", fAfter2.T, fAfter.T-10)
	}
}
