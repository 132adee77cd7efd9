// Package tabular loads delimited datasets with normalized column headers so
// downstream code can address columns by a fixed name set regardless of how
// the source file formats them.
package tabular

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ErrMissingDataset marks a dataset file that does not exist. Callers skip
// the dependent feature with a notice rather than aborting the process.
var ErrMissingDataset = errors.New("dataset not found")

// MissingColumnError reports a required column absent after normalization.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("missing column %q", e.Column)
}

// NormalizeHeader canonicalizes a column header: surrounding whitespace is
// trimmed, spaces and hyphens become underscores. Total over all strings.
func NormalizeHeader(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	return s
}

// Frame is an in-memory table with normalized headers.
type Frame struct {
	columns []string
	index   map[string]int
	rows    [][]string
}

// ReadFrame parses CSV data. The first row is the header; every header is
// normalized before indexing. Duplicate headers keep the first occurrence.
func ReadFrame(r io.Reader) (*Frame, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.New("empty dataset: no header row")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	f := &Frame{index: make(map[string]int, len(header))}
	for i, col := range header {
		name := NormalizeHeader(col)
		f.columns = append(f.columns, name)
		if _, ok := f.index[name]; !ok {
			f.index[name] = i
		}
	}

	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(f.rows)+2, err)
		}
		f.rows = append(f.rows, row)
	}
	return f, nil
}

// LoadFrame reads a CSV file from disk. A nonexistent path is reported as
// ErrMissingDataset so callers can distinguish it from a malformed file.
func LoadFrame(path string) (*Frame, error) {
	fh, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrMissingDataset, path)
	}
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer fh.Close()
	return ReadFrame(fh)
}

// Columns returns the normalized header names in file order.
func (f *Frame) Columns() []string {
	return f.columns
}

// Len returns the number of data rows.
func (f *Frame) Len() int {
	return len(f.rows)
}

// HasColumn reports whether a normalized column name exists.
func (f *Frame) HasColumn(name string) bool {
	_, ok := f.index[name]
	return ok
}

// Value returns the raw cell at row i in the named column.
func (f *Frame) Value(i int, name string) (string, error) {
	col, ok := f.index[name]
	if !ok {
		return "", &MissingColumnError{Column: name}
	}
	if i < 0 || i >= len(f.rows) {
		return "", fmt.Errorf("row %d out of range (%d rows)", i, len(f.rows))
	}
	row := f.rows[i]
	if col >= len(row) {
		return "", nil
	}
	return row[col], nil
}

// Float parses the cell at row i in the named column as a float64.
func (f *Frame) Float(i int, name string) (float64, error) {
	raw, err := f.Value(i, name)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("column %s row %d: parse %q: %w", name, i+1, raw, err)
	}
	return v, nil
}
