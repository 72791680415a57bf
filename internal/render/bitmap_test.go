package render

import (
	"os"
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/mat"

	"heatlens/internal/dataset"
	"heatlens/pkg/colormap"
)

func testTable(t *testing.T, r, c int, values []float64) *dataset.Table {
	t.Helper()
	fids := make([]string, r)
	tax := make([]string, r)
	sids := make([]string, c)
	for i := range fids {
		fids[i] = "f"
		tax[i] = "Bacteria;Genus"
	}
	for j := range sids {
		sids[j] = "s"
	}
	var data *mat.Dense
	if r > 0 && c > 0 {
		data = mat.NewDense(r, c, values)
	}
	tbl, err := dataset.New(data, fids, tax, sids)
	if err != nil {
		t.Fatal(err)
	}
	return tbl
}

func TestBitmapShape(t *testing.T) {
	tbl := testTable(t, 3, 5, make([]float64, 15))
	img := Bitmap(tbl, Options{})

	b := img.Bounds()
	// one pixel per (sample, feature) cell
	if b.Dx() != 5 || b.Dy() != 3 {
		t.Fatalf("bitmap %dx%d, want 5x3", b.Dx(), b.Dy())
	}
}

func TestBitmapValueMapping(t *testing.T) {
	tbl := testTable(t, 1, 3, []float64{0, 5, 10})
	img := Bitmap(tbl, Options{Colormap: colormap.Viridis})

	if got := img.RGBAAt(0, 0); got != colormap.Viridis.At(0) {
		t.Fatalf("min cell = %v, want colormap start", got)
	}
	if got := img.RGBAAt(2, 0); got != colormap.Viridis.At(1) {
		t.Fatalf("max cell = %v, want colormap end", got)
	}
	if got := img.RGBAAt(1, 0); got != colormap.Viridis.At(0.5) {
		t.Fatalf("mid cell = %v, want colormap midpoint", got)
	}
}

func TestBitmapConstantMatrix(t *testing.T) {
	tbl := testTable(t, 2, 2, []float64{3, 3, 3, 3})
	img := Bitmap(tbl, Options{})
	// zero span must not divide by zero; all cells share one color
	if img.RGBAAt(0, 0) != img.RGBAAt(1, 1) {
		t.Fatal("constant matrix rendered unevenly")
	}
}

func TestBitmapEmpty(t *testing.T) {
	tbl := testTable(t, 0, 0, nil)
	img := Bitmap(tbl, Options{})
	if img.Bounds().Dx() != 0 || img.Bounds().Dy() != 0 {
		t.Fatal("empty table should render an empty bitmap")
	}
}

func TestRobustPercentileClampsOutliers(t *testing.T) {
	values := make([]float64, 100)
	for i := range values {
		if i < 50 {
			values[i] = 1
		} else {
			values[i] = 2
		}
	}
	values[99] = 1e6
	tbl := testTable(t, 10, 10, values)

	// Without trimming the outlier owns the range and the 2s sit near
	// the bottom of the map.
	plain := Bitmap(tbl, Options{Colormap: colormap.Viridis})
	if plain.RGBAAt(0, 5) == colormap.Viridis.At(1) {
		t.Fatal("outlier did not dominate the untrimmed range")
	}

	// With the 5th/95th percentile trim the range is [1, 2]: 1s at the
	// bottom of the map, 2s at the top, outlier clamped.
	robust := Bitmap(tbl, Options{Colormap: colormap.Viridis, RobustPercentile: 5})
	if got := robust.RGBAAt(0, 0); got != colormap.Viridis.At(0) {
		t.Fatalf("low cell = %v, want colormap start", got)
	}
	if got := robust.RGBAAt(0, 5); got != colormap.Viridis.At(1) {
		t.Fatalf("high cell = %v, want colormap end", got)
	}
	if got := robust.RGBAAt(9, 9); got != colormap.Viridis.At(1) {
		t.Fatalf("outlier cell = %v, want clamped to colormap end", got)
	}
}

func TestExport(t *testing.T) {
	tbl := testTable(t, 4, 6, []float64{
		0, 1, 2, 3, 4, 5,
		5, 4, 3, 2, 1, 0,
		0, 0, 0, 9, 9, 9,
		9, 9, 9, 0, 0, 0,
	})
	tbl.SampleMetadata = map[string]map[string]string{}

	out := filepath.Join(t.TempDir(), "heatmap.png")
	err := Export(tbl, out, ExportOptions{
		Title:    "test export",
		CellSize: 8,
	})
	if err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(out)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() == 0 {
		t.Fatal("empty export file")
	}
}

func TestExportEmpty(t *testing.T) {
	tbl := testTable(t, 0, 0, nil)
	if err := Export(tbl, filepath.Join(t.TempDir(), "x.png"), ExportOptions{}); err == nil {
		t.Fatal("empty export should fail")
	}
}
