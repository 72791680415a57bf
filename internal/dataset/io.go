package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
	"gonum.org/v1/gonum/mat"
)

// taxonomyColumn is the header name of the optional per-feature
// taxonomy column in an abundance TSV.
const taxonomyColumn = "taxonomy"

// ErrEmptyTable is returned for a table file with no data rows.
var ErrEmptyTable = errors.New("dataset: table has no data rows")

// openMaybeGzip opens a file, transparently decompressing ".gz".
func openMaybeGzip(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(path, ".gz") {
		return f, nil
	}
	zr, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("dataset: gzip %s: %w", path, err)
	}
	return &gzipFile{zr: zr, f: f}, nil
}

type gzipFile struct {
	zr *gzip.Reader
	f  *os.File
}

func (g *gzipFile) Read(p []byte) (int, error) { return g.zr.Read(p) }

func (g *gzipFile) Close() error {
	zerr := g.zr.Close()
	ferr := g.f.Close()
	if zerr != nil {
		return zerr
	}
	return ferr
}

func newTSVReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	return cr
}

// ReadTable reads a tab-delimited abundance table: header row is the
// feature-id column name followed by sample ids (optionally ending with
// a taxonomy column); each data row is a feature id, one value per
// sample, and the optional taxonomy string. A leading "#" comment line
// (QIIME convention) is skipped. ".gz" files are decompressed.
func ReadTable(path string) (*Table, error) {
	rc, err := openMaybeGzip(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	cr := newTSVReader(rc)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("dataset: read header of %s: %w", path, err)
	}
	// "# Constructed from biom file" style preamble
	if len(header) == 1 && strings.HasPrefix(header[0], "#") {
		header, err = cr.Read()
		if err != nil {
			return nil, fmt.Errorf("dataset: read header of %s: %w", path, err)
		}
	}
	if len(header) < 2 {
		return nil, fmt.Errorf("dataset: %s: header has no sample columns", path)
	}

	hasTax := strings.EqualFold(header[len(header)-1], taxonomyColumn)
	sampleEnd := len(header)
	if hasTax {
		sampleEnd--
	}
	sampleIDs := append([]string(nil), header[1:sampleEnd]...)
	nSamples := len(sampleIDs)
	if nSamples == 0 {
		return nil, fmt.Errorf("dataset: %s: header has no sample columns", path)
	}

	var (
		featureIDs []string
		taxonomies []string
		values     []float64
	)
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("dataset: %s line %d: %w", path, line, err)
		}
		if len(rec) == 0 || (len(rec) == 1 && strings.TrimSpace(rec[0]) == "") {
			continue
		}
		want := 1 + nSamples
		if hasTax {
			want++
		}
		// Tolerate a missing trailing taxonomy cell.
		if len(rec) != want && !(hasTax && len(rec) == want-1) {
			return nil, fmt.Errorf("dataset: %s line %d: %d fields, want %d", path, line, len(rec), want)
		}
		featureIDs = append(featureIDs, rec[0])
		for j := 0; j < nSamples; j++ {
			v, err := strconv.ParseFloat(strings.TrimSpace(rec[1+j]), 64)
			if err != nil {
				return nil, fmt.Errorf("dataset: %s line %d sample %q: %w", path, line, sampleIDs[j], err)
			}
			values = append(values, v)
		}
		if hasTax && len(rec) == want {
			taxonomies = append(taxonomies, rec[len(rec)-1])
		} else {
			taxonomies = append(taxonomies, "")
		}
	}
	if len(featureIDs) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyTable, path)
	}

	data := mat.NewDense(len(featureIDs), nSamples, values)
	return New(data, featureIDs, taxonomies, sampleIDs)
}

// ReadSampleMetadata reads a tab-delimited mapping file whose first
// column is the sample id. Returns the field names (header minus the id
// column) and per-sample field values.
func ReadSampleMetadata(path string) ([]string, map[string]map[string]string, error) {
	rc, err := openMaybeGzip(path)
	if err != nil {
		return nil, nil, err
	}
	defer rc.Close()

	cr := newTSVReader(rc)
	header, err := cr.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("dataset: read header of %s: %w", path, err)
	}
	fields := append([]string(nil), header[1:]...)

	rows := make(map[string]map[string]string)
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("dataset: %s line %d: %w", path, line, err)
		}
		if len(rec) == 0 || strings.TrimSpace(rec[0]) == "" {
			continue
		}
		m := make(map[string]string, len(fields))
		for i, f := range fields {
			if 1+i < len(rec) {
				m[f] = rec[1+i]
			}
		}
		rows[rec[0]] = m
	}
	return fields, rows, nil
}

// AttachMetadata loads a mapping file and attaches it to the table.
// Samples missing from the mapping keep empty metadata; mapping rows
// for unknown samples are ignored.
func (t *Table) AttachMetadata(path string) error {
	fields, rows, err := ReadSampleMetadata(path)
	if err != nil {
		return err
	}
	t.MetadataFields = fields
	t.SampleMetadata = make(map[string]map[string]string, len(t.SampleIDs))
	for _, id := range t.SampleIDs {
		if m, ok := rows[id]; ok {
			t.SampleMetadata[id] = m
		}
	}
	return nil
}

// Save writes the table back as a tab-delimited file, taxonomy column
// included when any feature carries one.
func (t *Table) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.Comma = '\t'

	hasTax := false
	for _, tax := range t.Taxonomies {
		if tax != "" {
			hasTax = true
			break
		}
	}

	header := append([]string{"feature-id"}, t.SampleIDs...)
	if hasTax {
		header = append(header, taxonomyColumn)
	}
	if err := w.Write(header); err != nil {
		return err
	}

	r, c := t.Data.Dims()
	rec := make([]string, 0, len(header))
	for i := 0; i < r; i++ {
		rec = rec[:0]
		rec = append(rec, t.FeatureIDs[i])
		for j := 0; j < c; j++ {
			rec = append(rec, strconv.FormatFloat(t.Data.At(i, j), 'g', -1, 64))
		}
		if hasTax {
			rec = append(rec, t.Taxonomies[i])
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
