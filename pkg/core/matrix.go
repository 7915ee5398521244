package core

import (
	"errors"
	"fmt"
	"math"
)

var ErrRaggedRows = errors.New("inconsistent number of features in rows")

// Matrix is a dense row-major matrix of samples (rows) and features (columns).
type Matrix struct {
	R, C int
	Data []float64
}

// NewMatrix allocates a zero matrix
func NewMatrix(r, c int) *Matrix {
	return &Matrix{R: r, C: c, Data: make([]float64, r*c)}
}

// FromSlice creates a Matrix from a nested slice (copies data).
// All rows must have the same length.
func FromSlice(a [][]float64) (*Matrix, error) {
	r := len(a)
	if r == 0 {
		return &Matrix{}, nil
	}
	c := len(a[0])
	m := NewMatrix(r, c)
	k := 0
	for i := 0; i < r; i++ {
		if len(a[i]) != c {
			return nil, fmt.Errorf("row %d has %d values, expected %d: %w", i, len(a[i]), c, ErrRaggedRows)
		}
		for j := 0; j < c; j++ {
			m.Data[k] = a[i][j]
			k++
		}
	}
	return m, nil
}

// At returns element (i, j)
func (m *Matrix) At(i, j int) float64 { return m.Data[i*m.C+j] }

// Row returns a view (not a copy) of row i.
func (m *Matrix) Row(i int) []float64 { return m.Data[i*m.C : (i+1)*m.C] }

// Col returns a copy of column j.
func (m *Matrix) Col(j int) []float64 {
	v := make([]float64, m.R)
	for i := 0; i < m.R; i++ {
		v[i] = m.Data[i*m.C+j]
	}
	return v
}

// ZeroNaN replaces NaN values with zero (in-place).
func (m *Matrix) ZeroNaN() {
	m.Apply(func(v float64) float64 {
		if math.IsNaN(v) {
			return 0
		}
		return v
	})
}

// Apply applies f element-wise (in-place).
func (m *Matrix) Apply(f func(float64) float64) {
	for i := 0; i < len(m.Data); i++ {
		m.Data[i] = f(m.Data[i])
	}
}

// ColRange returns the minimum and maximum of column j, ignoring NaN.
// ok is false if the column holds no finite value.
func (m *Matrix) ColRange(j int) (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for i := 0; i < m.R; i++ {
		v := m.Data[i*m.C+j]
		if math.IsNaN(v) {
			continue
		}
		ok = true
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return
}
