// Package dataset holds the abundance table and the preparation steps
// (normalization, transforms, sorting) that produce the arrays the
// viewer consumes.
package dataset

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ErrShapeMismatch is returned when the index-aligned arrays disagree
// with the matrix dimensions.
var ErrShapeMismatch = errors.New("dataset: id arrays do not match matrix shape")

// Table is an abundance matrix with its index-aligned identities:
// rows = features, columns = samples. Taxonomies pair 1:1 with
// FeatureIDs; missing taxonomy is the empty string.
type Table struct {
	Data       *mat.Dense
	FeatureIDs []string
	Taxonomies []string
	SampleIDs  []string

	// Per-sample metadata, keyed by sample id then field name.
	SampleMetadata map[string]map[string]string
	MetadataFields []string

	// NormalizedTo records the per-sample total after Normalize, 0 if
	// the table holds raw counts.
	NormalizedTo float64
}

// New creates a table and validates the length contract:
// len(featureIDs) == len(taxonomies) == rows, len(sampleIDs) == cols.
// A nil matrix makes an empty table (gonum rejects zero-size Dense).
func New(data *mat.Dense, featureIDs, taxonomies, sampleIDs []string) (*Table, error) {
	var r, c int
	if data != nil {
		r, c = data.Dims()
	}
	if len(featureIDs) != r || len(taxonomies) != r || len(sampleIDs) != c {
		return nil, fmt.Errorf("%w: %d features/%d taxonomies/%d samples vs %dx%d matrix",
			ErrShapeMismatch, len(featureIDs), len(taxonomies), len(sampleIDs), r, c)
	}
	return &Table{
		Data:           data,
		FeatureIDs:     featureIDs,
		Taxonomies:     taxonomies,
		SampleIDs:      sampleIDs,
		SampleMetadata: make(map[string]map[string]string),
	}, nil
}

// NFeatures returns the number of features (rows).
func (t *Table) NFeatures() int {
	if t.Data == nil {
		return 0
	}
	r, _ := t.Data.Dims()
	return r
}

// NSamples returns the number of samples (columns).
func (t *Table) NSamples() int {
	if t.Data == nil {
		return 0
	}
	_, c := t.Data.Dims()
	return c
}

// FeatureRow returns a copy of one feature's values across samples.
func (t *Table) FeatureRow(i int) []float64 {
	return mat.Row(nil, i, t.Data)
}

// SampleColumn returns a copy of one sample's values across features.
func (t *Table) SampleColumn(j int) []float64 {
	return mat.Col(nil, j, t.Data)
}

// Metadata returns a sample's value for a metadata field, "" when the
// sample or field is unknown.
func (t *Table) Metadata(sampleID, field string) string {
	return t.SampleMetadata[sampleID][field]
}

// ReorderFeatures permutes rows (and feature ids/taxonomies) by perm,
// where perm[k] is the old index of the row to place at position k.
func (t *Table) ReorderFeatures(perm []int) error {
	r, c := t.Data.Dims()
	if len(perm) != r {
		return fmt.Errorf("dataset: permutation length %d for %d features", len(perm), r)
	}
	nd := mat.NewDense(r, c, nil)
	ids := make([]string, r)
	tax := make([]string, r)
	for k, old := range perm {
		nd.SetRow(k, mat.Row(nil, old, t.Data))
		ids[k] = t.FeatureIDs[old]
		tax[k] = t.Taxonomies[old]
	}
	t.Data = nd
	t.FeatureIDs = ids
	t.Taxonomies = tax
	return nil
}

// ReorderSamples permutes columns (and sample ids) by perm.
func (t *Table) ReorderSamples(perm []int) error {
	r, c := t.Data.Dims()
	if len(perm) != c {
		return fmt.Errorf("dataset: permutation length %d for %d samples", len(perm), c)
	}
	nd := mat.NewDense(r, c, nil)
	ids := make([]string, c)
	for k, old := range perm {
		nd.SetCol(k, mat.Col(nil, old, t.Data))
		ids[k] = t.SampleIDs[old]
	}
	t.Data = nd
	t.SampleIDs = ids
	return nil
}

// Clone deep-copies the table so transforms can run on a working copy.
func (t *Table) Clone() *Table {
	var nd *mat.Dense
	if t.Data != nil {
		nd = mat.DenseCopyOf(t.Data)
	}
	c := &Table{
		Data:           nd,
		FeatureIDs:     append([]string(nil), t.FeatureIDs...),
		Taxonomies:     append([]string(nil), t.Taxonomies...),
		SampleIDs:      append([]string(nil), t.SampleIDs...),
		MetadataFields: append([]string(nil), t.MetadataFields...),
		SampleMetadata: make(map[string]map[string]string, len(t.SampleMetadata)),
		NormalizedTo:   t.NormalizedTo,
	}
	for id, fields := range t.SampleMetadata {
		m := make(map[string]string, len(fields))
		for k, v := range fields {
			m[k] = v
		}
		c.SampleMetadata[id] = m
	}
	return c
}

// Group is a run of adjacent samples sharing a metadata value, used for
// separator positions and categorical axis ticks after a metadata sort.
type Group struct {
	Label string
	Start int // first sample index, inclusive
	End   int // last sample index, inclusive
}

// Center returns the group's center in domain units.
func (g Group) Center() float64 {
	return (float64(g.Start) + float64(g.End) + 1) / 2
}

// Groups scans the current sample order and returns the runs of equal
// values for the given metadata field. Call after SortSamplesByField so
// runs are maximal.
func (t *Table) Groups(field string) []Group {
	var groups []Group
	for j, id := range t.SampleIDs {
		v := t.Metadata(id, field)
		if len(groups) == 0 || groups[len(groups)-1].Label != v {
			groups = append(groups, Group{Label: v, Start: j, End: j})
			continue
		}
		groups[len(groups)-1].End = j
	}
	return groups
}

// Separators returns the domain positions of the dividers between
// adjacent groups (one fewer than the group count).
func Separators(groups []Group) []float64 {
	if len(groups) < 2 {
		return nil
	}
	seps := make([]float64, 0, len(groups)-1)
	for _, g := range groups[1:] {
		seps = append(seps, float64(g.Start))
	}
	return seps
}
