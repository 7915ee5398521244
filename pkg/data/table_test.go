package data

import (
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadTable(t *testing.T) {
	tbl, err := ReadTable(strings.NewReader("x;a;b\n0;0.1;0.2\n1; 0.5 ;0.6\n"), ';')
	require.NoError(t, err)
	assert.Equal(t, "x", tbl.XLabel())
	assert.Equal(t, []string{"a", "b"}, tbl.SeriesNames())
	assert.Equal(t, []float64{0, 1}, tbl.X())
	assert.Equal(t, []float64{0.1, 0.5}, tbl.Series(0))
	assert.Equal(t, []float64{0.2, 0.6}, tbl.Series(1))
}

func TestReadTableErrors(t *testing.T) {
	_, err := ReadTable(strings.NewReader(""), ';')
	assert.ErrorIs(t, err, ErrNoHeader)

	_, err = ReadTable(strings.NewReader("x;a;b\n"), ';')
	assert.ErrorIs(t, err, ErrNoDataRows)

	_, err = ReadTable(strings.NewReader("x;a;b\n0;0.1\n"), ';')
	assert.ErrorIs(t, err, csv.ErrFieldCount)

	_, err = ReadTable(strings.NewReader("x;a\n0;0.1\n1;abc\n"), ';')
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 3")
	assert.Contains(t, err.Error(), `"a"`)
}
