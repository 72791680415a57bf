package dataset

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// SortKey reduces one feature's values (across samples, or a subset of
// them) to a comparable scalar.
type SortKey func(values []float64) float64

// LogMeanKey caps values below floor, log2-transforms, and averages.
// The cap keeps zero-heavy count vectors comparable.
func LogMeanKey(floor float64) SortKey {
	return func(values []float64) float64 {
		if len(values) == 0 {
			return 0
		}
		sum := 0.0
		for _, v := range values {
			if v < floor {
				v = floor
			}
			sum += math.Log2(v)
		}
		return sum / float64(len(values))
	}
}

// PrevalenceKey returns the fraction of samples at or above cutoff.
func PrevalenceKey(cutoff float64) SortKey {
	return func(values []float64) float64 {
		if len(values) == 0 {
			return 0
		}
		n := 0
		for _, v := range values {
			if v >= cutoff {
				n++
			}
		}
		return float64(n) / float64(len(values))
	}
}

// MeanKey is the plain mean.
func MeanKey(values []float64) float64 {
	return stat.Mean(values, nil)
}

// SortFeaturesByData orders features ascending by key applied to each
// feature's values, restricted to the sample subset when given. The
// sort is stable so prior ordering breaks ties. reverse flips the
// result.
func (t *Table) SortFeaturesByData(key SortKey, subset []int, reverse bool) error {
	r, _ := t.Data.Dims()
	vals := make([]float64, r)
	buf := make([]float64, 0, t.NSamples())
	for i := 0; i < r; i++ {
		row := t.FeatureRow(i)
		if subset == nil {
			vals[i] = key(row)
			continue
		}
		buf = buf[:0]
		for _, j := range subset {
			if j >= 0 && j < len(row) {
				buf = append(buf, row[j])
			}
		}
		vals[i] = key(buf)
	}
	perm := argsort(vals)
	if reverse {
		reverseInts(perm)
	}
	return t.ReorderFeatures(perm)
}

// SortFeaturesByAbundance orders features by mean frequency, most
// abundant last (the conventional heatmap layout puts them at the
// bottom). reverse puts them first instead.
func (t *Table) SortFeaturesByAbundance(subset []int, reverse bool) error {
	return t.SortFeaturesByData(MeanKey, subset, reverse)
}

// SortSamplesByField stably orders samples by the value of a metadata
// field. Values that parse as numbers compare numerically, the rest
// lexically after all numbers.
func (t *Table) SortSamplesByField(field string) error {
	known := false
	for _, f := range t.MetadataFields {
		if f == field {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("dataset: unknown metadata field %q", field)
	}
	perm := make([]int, t.NSamples())
	for i := range perm {
		perm[i] = i
	}
	vals := make([]string, len(perm))
	for i, id := range t.SampleIDs {
		vals[i] = t.Metadata(id, field)
	}
	sort.SliceStable(perm, func(a, b int) bool {
		return lessValue(vals[perm[a]], vals[perm[b]])
	})
	return t.ReorderSamples(perm)
}

func parseNumber(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

func lessValue(a, b string) bool {
	fa, ea := parseNumber(a)
	fb, eb := parseNumber(b)
	switch {
	case ea == nil && eb == nil:
		return fa < fb
	case ea == nil:
		return true
	case eb == nil:
		return false
	default:
		return a < b
	}
}

// ClusterFeatures orders features by greedy correlation linkage: start
// from the most abundant feature, repeatedly append the unplaced
// feature whose log-profile correlates best with the last placed one.
// Gives the banded look of a clustered heatmap without a full
// dendrogram.
func (t *Table) ClusterFeatures() error {
	r, _ := t.Data.Dims()
	if r < 3 {
		return nil
	}

	// log profiles, standardized so correlation is a dot product
	profiles := make([][]float64, r)
	means := make([]float64, r)
	for i := 0; i < r; i++ {
		row := t.FeatureRow(i)
		means[i] = stat.Mean(row, nil)
		p := make([]float64, len(row))
		for k, v := range row {
			if v < 1 {
				v = 1
			}
			p[k] = math.Log2(v)
		}
		m, s := stat.MeanStdDev(p, nil)
		if s == 0 {
			s = 1
		}
		for k := range p {
			p[k] = (p[k] - m) / s
		}
		profiles[i] = p
	}

	start := floats.MaxIdx(means)
	placed := make([]bool, r)
	perm := make([]int, 0, r)
	perm = append(perm, start)
	placed[start] = true
	for len(perm) < r {
		last := profiles[perm[len(perm)-1]]
		best, bestCorr := -1, math.Inf(-1)
		for i := 0; i < r; i++ {
			if placed[i] {
				continue
			}
			corr := floats.Dot(last, profiles[i])
			if corr > bestCorr {
				bestCorr = corr
				best = i
			}
		}
		perm = append(perm, best)
		placed[best] = true
	}
	return t.ReorderFeatures(perm)
}

// argsort returns the permutation that sorts vals ascending, stable.
func argsort(vals []float64) []int {
	perm := make([]int, len(vals))
	for i := range perm {
		perm[i] = i
	}
	sort.SliceStable(perm, func(a, b int) bool {
		return vals[perm[a]] < vals[perm[b]]
	})
	return perm
}

func reverseInts(s []int) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
