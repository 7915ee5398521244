package data

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var (
	ErrNoHeader   = errors.New("CSV contains no header row")
	ErrNoDataRows = errors.New("CSV contains no data rows")
)

// Table is a delimited dataset where the first column is the
// independent variable and every other column is a series.
type Table struct {
	Columns []string
	Rows    [][]float64
}

// ReadTable reads a header row followed by numeric rows from r.
// Every row must have as many fields as the header.
func ReadTable(r io.Reader, delim rune) (*Table, error) {
	reader := csv.NewReader(r)
	reader.Comma = delim
	reader.LazyQuotes = true
	// FieldsPerRecord = 0 makes the header length binding for all rows
	reader.FieldsPerRecord = 0

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	t := &Table{Columns: header}
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}
		line, _ := reader.FieldPos(0)
		row := make([]float64, len(rec))
		for i, s := range rec {
			v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil {
				return nil, fmt.Errorf("line %d, column %q: %w", line, header[i], err)
			}
			row[i] = v
		}
		t.Rows = append(t.Rows, row)
	}
	if len(t.Rows) == 0 {
		return nil, ErrNoDataRows
	}
	return t, nil
}

// XLabel returns the name of the first column.
func (t *Table) XLabel() string {
	return t.Columns[0]
}

// SeriesNames returns the names of all dependent columns.
func (t *Table) SeriesNames() []string {
	return t.Columns[1:]
}

// X returns the values of the first column.
func (t *Table) X() []float64 {
	return t.column(0)
}

// Series returns the values of the i-th dependent column (0-based).
func (t *Table) Series(i int) []float64 {
	return t.column(i + 1)
}

func (t *Table) column(c int) []float64 {
	out := make([]float64, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row[c]
	}
	return out
}
