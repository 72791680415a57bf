package app

import (
	"os"
	"path/filepath"
	"testing"
)

const tableTSV = "feature-id\ts1\ts2\ts3\ttaxonomy\n" +
	"seqA\t10\t0\t5\tBacteria;Firmicutes;Lactobacillus;lactobacillus\n" +
	"seqB\t2\t8\t0\tBacteria;Firmicutes;Clostridium;\n" +
	"seqC\t0\t1\t1\t\n"

const mappingTSV = "sample-id\tgroup\n" +
	"s1\tcontrol\n" +
	"s2\ttreated\n" +
	"s3\tcontrol\n"

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDatasetBuildsRenderInputs(t *testing.T) {
	s := NewState(nil)

	var loaded, rebuilt int
	s.On(EventDatasetLoaded, func(interface{}) { loaded++ })
	s.On(EventBitmapChanged, func(interface{}) { rebuilt++ })

	table := writeFile(t, "table.tsv", tableTSV)
	mapping := writeFile(t, "map.tsv", mappingTSV)
	if err := s.LoadDataset(table, mapping); err != nil {
		t.Fatal(err)
	}

	if loaded != 1 || rebuilt != 1 {
		t.Fatalf("events: loaded=%d rebuilt=%d, want 1/1", loaded, rebuilt)
	}

	bm, sd, fd := s.Snapshot()
	if sd.Len() != 3 || fd.Len() != 3 {
		t.Fatalf("domains %d/%d, want 3/3", sd.Len(), fd.Len())
	}
	if got := bm.Bounds(); got.Dx() != 3 || got.Dy() != 3 {
		t.Fatalf("bitmap %v, want 3x3", got)
	}
	// Load prepares the table: normalized then log2.
	if s.Table.NormalizedTo != s.Config.Dataset.NormalizeTotal {
		t.Fatalf("NormalizedTo = %v", s.Table.NormalizedTo)
	}
}

func TestSortSamplesBySetsGroupTicks(t *testing.T) {
	s := NewState(nil)
	table := writeFile(t, "table.tsv", tableTSV)
	mapping := writeFile(t, "map.tsv", mappingTSV)
	if err := s.LoadDataset(table, mapping); err != nil {
		t.Fatal(err)
	}

	if err := s.SortSamplesBy("group"); err != nil {
		t.Fatal(err)
	}
	_, sd, _ := s.Snapshot()
	if len(sd.Ticks) != 2 {
		t.Fatalf("group ticks = %d, want 2 (control, treated)", len(sd.Ticks))
	}
	if sd.Ticks[0].Label != "control" || sd.Ticks[1].Label != "treated" {
		t.Fatalf("tick labels %v", sd.Ticks)
	}
	if len(sd.Separators) != 1 {
		t.Fatalf("separators = %v, want one divider", sd.Separators)
	}

	if err := s.SortSamplesBy("no-such-field"); err == nil {
		t.Fatal("unknown field accepted")
	}
}

func TestSetColormap(t *testing.T) {
	s := NewState(nil)
	if err := s.SetColormap("magma"); err != nil {
		t.Fatal(err)
	}
	if s.ColormapName != "magma" {
		t.Fatalf("colormap = %q", s.ColormapName)
	}
	if err := s.SetColormap("sparkle"); err == nil {
		t.Fatal("unknown colormap accepted")
	}
}
