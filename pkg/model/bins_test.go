package model

import (
	"math"
	"testing"

	"qperf/pkg/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func columnMapper(t *testing.T, values []float64, maxBin int) *binMapper {
	t.Helper()
	rows := make([][]float64, len(values))
	for i, v := range values {
		rows[i] = []float64{v}
	}
	m, err := core.FromSlice(rows)
	require.NoError(t, err)
	m.ZeroNaN()
	return newBinMapper(m, 0, maxBin)
}

func TestBinMapperDistinctValues(t *testing.T) {
	bm := columnMapper(t, []float64{3, 1, 2, 2}, 255)
	require.Equal(t, 3, bm.numBins())
	assert.Equal(t, []float64{1.5, 2.5, math.Inf(1)}, bm.upper)
	assert.False(t, bm.trivial())
	assert.Equal(t, "[1:3]", bm.info())

	for v, want := range map[float64]int{-5: 0, 1: 0, 1.5: 0, 2: 1, 2.5: 1, 3: 2, 100: 2} {
		assert.Equal(t, want, bm.valueToBin(v), "value %v", v)
	}
}

func TestBinMapperConstant(t *testing.T) {
	bm := columnMapper(t, []float64{5, 5, 5}, 255)
	assert.True(t, bm.trivial())
	assert.Equal(t, "none", bm.info())
	assert.Equal(t, 0, bm.valueToBin(5))
}

func TestBinMapperNaNIsZero(t *testing.T) {
	bm := columnMapper(t, []float64{math.NaN(), 1, 1}, 255)
	require.Equal(t, 2, bm.numBins())
	assert.Equal(t, "[0:1]", bm.info())
	assert.Equal(t, 0, bm.valueToBin(math.NaN()))
	assert.Equal(t, bm.valueToBin(0), bm.valueToBin(math.NaN()))
	assert.Equal(t, 1, bm.valueToBin(1))
}

func TestBinMapperMaxBin(t *testing.T) {
	vals := make([]float64, 1000)
	for i := range vals {
		vals[i] = float64(i)
	}
	bm := columnMapper(t, vals, 255)
	assert.LessOrEqual(t, bm.numBins(), 255)
	assert.Greater(t, bm.numBins(), 128)
	for i := 1; i < len(bm.upper); i++ {
		assert.Less(t, bm.upper[i-1], bm.upper[i])
	}
	// every bin holds at least one value
	seen := make([]bool, bm.numBins())
	for _, v := range vals {
		seen[bm.valueToBin(v)] = true
	}
	for b, ok := range seen {
		assert.True(t, ok, "bin %d empty", b)
	}
}

func TestBinMapperEmptyColumn(t *testing.T) {
	bm := newBinMapper(core.NewMatrix(0, 1), 0, 255)
	assert.Equal(t, 1, bm.numBins())
	assert.True(t, bm.trivial())
}

func TestMidpoint(t *testing.T) {
	a := 1.0
	c := math.Nextafter(a, 2)
	m := midpoint(a, c)
	assert.GreaterOrEqual(t, m, a)
	assert.Less(t, m, c)
	assert.Equal(t, 1.5, midpoint(1, 2))
}
