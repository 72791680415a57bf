package dataset

import (
	"reflect"
	"testing"
)

func TestSortFeaturesByData(t *testing.T) {
	tbl := newTable(t, 3, 2, []float64{
		8, 8, // a: mean 8
		1, 1, // b: mean 1
		4, 4, // c: mean 4
	})

	if err := tbl.SortFeaturesByData(MeanKey, nil, false); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(tbl.FeatureIDs, []string{"b", "c", "a"}) {
		t.Fatalf("ascending order %v", tbl.FeatureIDs)
	}
	// rows moved with their ids
	if tbl.Data.At(0, 0) != 1 || tbl.Data.At(2, 0) != 8 {
		t.Fatal("matrix rows not permuted with ids")
	}

	if err := tbl.SortFeaturesByData(MeanKey, nil, true); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(tbl.FeatureIDs, []string{"a", "c", "b"}) {
		t.Fatalf("descending order %v", tbl.FeatureIDs)
	}
}

func TestSortFeaturesSubset(t *testing.T) {
	tbl := newTable(t, 2, 2, []float64{
		0, 9, // a: high only in sample B
		5, 0, // b: high only in sample A
	})
	// Restricting the key to sample 0 flips the order vs the full mean.
	if err := tbl.SortFeaturesByData(MeanKey, []int{0}, false); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(tbl.FeatureIDs, []string{"a", "b"}) {
		t.Fatalf("subset order %v", tbl.FeatureIDs)
	}
}

func TestSortKeys(t *testing.T) {
	vals := []float64{0, 0, 2, 4}

	if got := LogMeanKey(1)(vals); got != 0.75 {
		t.Fatalf("LogMeanKey(1) = %v, want 0.75", got)
	}
	if got := LogMeanKey(2)(vals); got != 1.25 {
		t.Fatalf("LogMeanKey(2) = %v, want 1.25", got)
	}
	if got := PrevalenceKey(1)(vals); got != 0.5 {
		t.Fatalf("PrevalenceKey(1) = %v, want 0.5", got)
	}
	if got := MeanKey(vals); got != 1.5 {
		t.Fatalf("MeanKey = %v, want 1.5", got)
	}
}

func TestSortSamplesByField(t *testing.T) {
	tbl := newTable(t, 1, 4, []float64{1, 2, 3, 4})
	tbl.MetadataFields = []string{"group", "depth"}
	tbl.SampleMetadata = map[string]map[string]string{
		"A": {"group": "treated", "depth": "2"},
		"B": {"group": "control", "depth": "10"},
		"C": {"group": "treated", "depth": "1"},
		"D": {"group": "control", "depth": "9"},
	}

	t.Run("lexical", func(t *testing.T) {
		tt := tbl.Clone()
		if err := tt.SortSamplesByField("group"); err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(tt.SampleIDs, []string{"B", "D", "A", "C"}) {
			t.Fatalf("order %v", tt.SampleIDs)
		}
		// columns follow their sample ids
		if tt.Data.At(0, 0) != 2 {
			t.Fatal("columns not permuted with ids")
		}
	})

	t.Run("numeric", func(t *testing.T) {
		tt := tbl.Clone()
		if err := tt.SortSamplesByField("depth"); err != nil {
			t.Fatal(err)
		}
		// 1, 2, 9, 10 — numeric, not lexical ("10" < "2" lexically)
		if !reflect.DeepEqual(tt.SampleIDs, []string{"C", "A", "D", "B"}) {
			t.Fatalf("order %v", tt.SampleIDs)
		}
	})
}

func TestGroupsAndSeparators(t *testing.T) {
	tbl := newTable(t, 1, 4, []float64{1, 2, 3, 4})
	tbl.SampleMetadata = map[string]map[string]string{
		"A": {"group": "x"},
		"B": {"group": "x"},
		"C": {"group": "y"},
		"D": {"group": "y"},
	}

	groups := tbl.Groups("group")
	if len(groups) != 2 {
		t.Fatalf("got %d groups", len(groups))
	}
	if groups[0].Label != "x" || groups[0].Start != 0 || groups[0].End != 1 {
		t.Fatalf("group 0 %+v", groups[0])
	}
	if groups[0].Center() != 1 || groups[1].Center() != 3 {
		t.Fatalf("centers %v, %v", groups[0].Center(), groups[1].Center())
	}

	seps := Separators(groups)
	if !reflect.DeepEqual(seps, []float64{2}) {
		t.Fatalf("separators %v", seps)
	}

	if got := Separators(groups[:1]); got != nil {
		t.Fatalf("single group separators %v", got)
	}
}

func TestClusterFeatures(t *testing.T) {
	// Two correlated pairs: (a, c) rise together, (b, d) fall together.
	tbl := newTable(t, 4, 4, []float64{
		1, 2, 4, 8,
		8, 4, 2, 1,
		2, 4, 8, 16,
		16, 8, 4, 2,
	})
	if err := tbl.ClusterFeatures(); err != nil {
		t.Fatal(err)
	}

	pos := map[string]int{}
	for i, id := range tbl.FeatureIDs {
		pos[id] = i
	}
	adjacent := func(x, y string) bool {
		d := pos[x] - pos[y]
		return d == 1 || d == -1
	}
	if !adjacent("a", "c") || !adjacent("b", "d") {
		t.Fatalf("correlated features not adjacent: %v", tbl.FeatureIDs)
	}
}
