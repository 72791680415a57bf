package dataset

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Normalize scales every sample (column) so its values sum to total.
// All-zero samples are left untouched. Records the depth in
// NormalizedTo.
func (t *Table) Normalize(total float64) error {
	if total <= 0 {
		return fmt.Errorf("dataset: normalization total %v must be positive", total)
	}
	r, c := t.Data.Dims()
	for j := 0; j < c; j++ {
		sum := floats.Sum(t.SampleColumn(j))
		if sum == 0 {
			continue
		}
		f := total / sum
		for i := 0; i < r; i++ {
			t.Data.Set(i, j, t.Data.At(i, j)*f)
		}
	}
	t.NormalizedTo = total
	return nil
}

// Rescale multiplies every entry by one global factor so the mean
// sample sum becomes total. Unlike Normalize it preserves relative
// sample depths.
func (t *Table) Rescale(total float64) error {
	if total <= 0 {
		return fmt.Errorf("dataset: rescale total %v must be positive", total)
	}
	_, c := t.Data.Dims()
	if c == 0 {
		return nil
	}
	meanSum := 0.0
	for j := 0; j < c; j++ {
		meanSum += floats.Sum(t.SampleColumn(j))
	}
	meanSum /= float64(c)
	if meanSum == 0 {
		return nil
	}
	t.Data.Scale(total/meanSum, t.Data)
	return nil
}

// Binarize replaces each value with 1 when >= threshold, else 0.
func (t *Table) Binarize(threshold float64) {
	t.Data.Apply(func(_, _ int, v float64) float64 {
		if v >= threshold {
			return 1
		}
		return 0
	}, t.Data)
}

// Log2 transforms each value to log2(max(v, floor)). The floor caps
// zeros and near-zeros so the transform stays finite; 1 is the
// conventional choice for count data.
func (t *Table) Log2(floor float64) error {
	if floor <= 0 {
		return fmt.Errorf("dataset: log floor %v must be positive", floor)
	}
	t.Data.Apply(func(_, _ int, v float64) float64 {
		if v < floor {
			v = floor
		}
		return math.Log2(v)
	}, t.Data)
	return nil
}

// ScaleFeatures standardizes each feature (row) to zero mean and unit
// variance. Constant rows become all zeros.
func (t *Table) ScaleFeatures() {
	r, _ := t.Data.Dims()
	for i := 0; i < r; i++ {
		row := t.FeatureRow(i)
		mean, std := stat.MeanStdDev(row, nil)
		if std == 0 {
			for k := range row {
				row[k] = 0
			}
		} else {
			for k, v := range row {
				row[k] = (v - mean) / std
			}
		}
		t.Data.SetRow(i, row)
	}
}
