package view

import (
	"math"
	"strings"
	"unicode"
)

// maxFeatureTicks caps the feature-axis tick count per redraw. Below
// the cap every visible row gets its own tick.
const maxFeatureTicks = 50

// Tick is one axis mark: a domain position and its label text.
type Tick struct {
	Position float64 // domain units (fractional for group centers)
	Label    string
}

// SampleDomain is the horizontal axis identity: ordered sample ids plus
// the externally templated categorical ticks and group separators.
type SampleDomain struct {
	IDs        []string
	Ticks      []Tick    // fixed label text; only screen position changes
	Separators []float64 // domain positions of group dividers
}

// Len returns the number of samples.
func (d *SampleDomain) Len() int { return len(d.IDs) }

// ID returns the sample id at a possibly fractional, possibly
// out-of-range position. Out of range yields "".
func (d *SampleDomain) ID(pos float64) string {
	i := clampIndex(pos, len(d.IDs))
	if i < 0 {
		return ""
	}
	return d.IDs[i]
}

// FeatureDomain is the vertical axis identity: ordered feature ids
// paired 1:1 with raw taxonomy label strings.
type FeatureDomain struct {
	IDs        []string
	Taxonomies []string
}

// Len returns the number of features.
func (d *FeatureDomain) Len() int { return len(d.IDs) }

// ID returns the feature id at a possibly fractional position, or "".
func (d *FeatureDomain) ID(pos float64) string {
	i := clampIndex(pos, len(d.IDs))
	if i < 0 {
		return ""
	}
	return d.IDs[i]
}

// Label returns the formatted taxonomy label for a possibly fractional
// position. Out-of-range or malformed labels render as "" rather than
// failing; both happen routinely near domain edges during zoom.
func (d *FeatureDomain) Label(pos float64) string {
	i := clampIndex(pos, len(d.Taxonomies))
	if i < 0 {
		return ""
	}
	return FormatTaxonomy(d.Taxonomies[i])
}

// Taxonomy returns the raw taxonomy string at an integer index, or "".
func (d *FeatureDomain) Taxonomy(i int) string {
	if i < 0 || i >= len(d.Taxonomies) {
		return ""
	}
	return d.Taxonomies[i]
}

// clampIndex rounds a fractional domain position to the nearest integer
// index and rejects positions outside [0, n). Returns -1 when out of
// range or the domain is empty.
func clampIndex(pos float64, n int) int {
	if n == 0 || math.IsNaN(pos) {
		return -1
	}
	i := int(math.Round(pos))
	if i < 0 || i >= n {
		return -1
	}
	return i
}

// ClampIndex rounds and clamps a fractional position into [0, n-1].
// Unlike clampIndex it saturates at the ends, for click resolution
// where an edge overshoot must still land on the last valid cell.
func ClampIndex(pos float64, n int) int {
	if n <= 0 {
		return -1
	}
	i := int(math.Round(pos))
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// FormatTaxonomy turns a semicolon-delimited taxonomy path into the
// tick label: the last non-empty segment, prefixed by its parent when
// the segment starts lowercase (species names by convention), e.g.
// "Bacteria;...;Lactobacillus;lactobacillus" -> "Lactobacillus lactobacillus".
func FormatTaxonomy(raw string) string {
	raw = strings.TrimRight(strings.TrimSpace(raw), ";")
	if raw == "" {
		return ""
	}
	parts := strings.Split(raw, ";")
	last := len(parts) - 1
	for last >= 0 && strings.TrimSpace(parts[last]) == "" {
		last--
	}
	if last < 0 {
		return ""
	}
	label := strings.TrimSpace(parts[last])
	r := []rune(label)
	if len(r) > 0 && !unicode.IsUpper(r[0]) && last > 0 {
		parent := strings.TrimSpace(parts[last-1])
		if parent != "" {
			label = parent + " " + label
		}
	}
	return label
}

// FeatureTicks lays out feature-axis ticks for the visible domain span
// [lo, hi] (continuous, clamped to the domain): one tick per row while
// fewer than maxFeatureTicks rows are visible, otherwise exactly
// maxFeatureTicks evenly spaced ticks.
func (d *FeatureDomain) FeatureTicks(lo, hi float64) []Tick {
	n := d.Len()
	if n == 0 || hi < lo {
		return nil
	}
	iLo := int(math.Round(lo))
	iHi := int(math.Round(hi))
	if iLo < 0 {
		iLo = 0
	}
	if iHi > n-1 {
		iHi = n - 1
	}
	if iHi < iLo {
		return nil
	}
	span := iHi - iLo + 1
	if span < maxFeatureTicks {
		ticks := make([]Tick, 0, span)
		for i := iLo; i <= iHi; i++ {
			ticks = append(ticks, Tick{Position: float64(i), Label: d.Label(float64(i))})
		}
		return ticks
	}
	ticks := make([]Tick, 0, maxFeatureTicks)
	for k := 0; k < maxFeatureTicks; k++ {
		// Interpolate so the last tick lands on iHi exactly instead of
		// accumulating float error past the domain end.
		pos := float64(iLo) + float64(span-1)*float64(k)/float64(maxFeatureTicks-1)
		ticks = append(ticks, Tick{Position: pos, Label: d.Label(pos)})
	}
	return ticks
}

// SampleTickPositions projects the fixed categorical ticks through the
// current transform, returning screen x positions paired with the
// static label text. Ticks outside the plot are dropped.
func (d *SampleDomain) SampleTickPositions(tr Affine, plotWidth float64) []Tick {
	out := make([]Tick, 0, len(d.Ticks))
	for _, t := range d.Ticks {
		px, _ := tr.Apply(t.Position, 0)
		if px < 0 || px > plotWidth {
			continue
		}
		out = append(out, Tick{Position: px, Label: t.Label})
	}
	return out
}
