package view

import (
	"fmt"
	"testing"
)

func TestFormatTaxonomy(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{"speciesGetsGenus", "Bacteria;Firmicutes;Lactobacillus;lactobacillus", "Lactobacillus lactobacillus"},
		{"trailingSemicolon", "Bacteria;Firmicutes;Clostridium;", "Clostridium"},
		{"empty", "", ""},
		{"onlySemicolons", ";;;", ""},
		{"singleSegment", "Bacteria", "Bacteria"},
		{"singleLowercaseSegment", "bacteria", "bacteria"},
		{"uppercaseLeafKeepsAlone", "Bacteria;Proteobacteria;Escherichia", "Escherichia"},
		{"blankParentNotPrepended", "Bacteria;;;coli", "coli"},
		{"whitespacePadding", " Bacteria; Firmicutes ; Clostridium ;; ", "Clostridium"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := FormatTaxonomy(tc.raw); got != tc.want {
				t.Fatalf("FormatTaxonomy(%q) = %q, want %q", tc.raw, got, tc.want)
			}
		})
	}
}

func TestFeatureTickDensity(t *testing.T) {
	n := 1000
	dom := &FeatureDomain{
		IDs:        make([]string, n),
		Taxonomies: make([]string, n),
	}
	for i := range dom.IDs {
		dom.IDs[i] = fmt.Sprintf("seq%04d", i)
		dom.Taxonomies[i] = fmt.Sprintf("Bacteria;Genus%d", i)
	}

	t.Run("smallSpanOneTickPerRow", func(t *testing.T) {
		ticks := dom.FeatureTicks(100, 129)
		if len(ticks) != 30 {
			t.Fatalf("span 30 produced %d ticks, want 30", len(ticks))
		}
		for i, tk := range ticks {
			if tk.Position != float64(100+i) {
				t.Fatalf("tick %d at %v, want %v", i, tk.Position, 100+i)
			}
		}
	})

	t.Run("largeSpanCapped", func(t *testing.T) {
		ticks := dom.FeatureTicks(0, 499)
		if len(ticks) != maxFeatureTicks {
			t.Fatalf("span 500 produced %d ticks, want %d", len(ticks), maxFeatureTicks)
		}
		if ticks[0].Position != 0 || ticks[len(ticks)-1].Position != 499 {
			t.Fatalf("ticks not spanning range: first %v last %v",
				ticks[0].Position, ticks[len(ticks)-1].Position)
		}
	})

	t.Run("overshootClamped", func(t *testing.T) {
		ticks := dom.FeatureTicks(-3.4, 12.6)
		if len(ticks) == 0 {
			t.Fatal("no ticks for edge span")
		}
		if ticks[0].Position != 0 {
			t.Fatalf("first tick %v, want 0", ticks[0].Position)
		}
	})

	t.Run("emptyDomain", func(t *testing.T) {
		empty := &FeatureDomain{}
		if ticks := empty.FeatureTicks(0, 10); ticks != nil {
			t.Fatalf("expected nil ticks, got %d", len(ticks))
		}
	})
}

func TestDomainLookups(t *testing.T) {
	dom := &FeatureDomain{
		IDs:        []string{"a", "b", "c"},
		Taxonomies: []string{"Bacteria;X", "Bacteria;Y", ""},
	}

	if got := dom.Label(0.4); got != "X" {
		t.Fatalf("fractional lookup = %q, want X", got)
	}
	if got := dom.Label(7); got != "" {
		t.Fatalf("out-of-range label = %q, want empty", got)
	}
	if got := dom.Label(2); got != "" {
		t.Fatalf("missing taxonomy label = %q, want empty", got)
	}
	if got := dom.ID(-5); got != "" {
		t.Fatalf("out-of-range id = %q, want empty", got)
	}

	s := &SampleDomain{IDs: []string{"s1", "s2"}}
	if got := s.ID(1.2); got != "s2" {
		t.Fatalf("sample id = %q, want s2", got)
	}
}

func TestSampleTickProjection(t *testing.T) {
	s := &SampleDomain{
		IDs: make([]string, 100),
		Ticks: []Tick{
			{Position: 10, Label: "control"},
			{Position: 60, Label: "treated"},
		},
	}
	tr := Compose(ZoomState{K: 4, T: -20}, ZoomState{K: 4}, 1)

	ticks := s.SampleTickPositions(tr, 400)
	if len(ticks) != 2 {
		t.Fatalf("got %d ticks, want 2", len(ticks))
	}
	// label text never changes, only the screen position does
	if ticks[0].Label != "control" || ticks[0].Position != 4*10-20 {
		t.Fatalf("unexpected first tick %+v", ticks[0])
	}
	if ticks[1].Label != "treated" || ticks[1].Position != 4*60-20 {
		t.Fatalf("unexpected second tick %+v", ticks[1])
	}

	// Pan far enough that the second tick leaves the plot.
	tr.TX = -1000
	if got := s.SampleTickPositions(tr, 400); len(got) != 0 {
		t.Fatalf("off-plot ticks not dropped: %d", len(got))
	}
}
