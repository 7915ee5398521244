package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDescribe(t *testing.T) {
	s := Describe([]float64{4, math.NaN(), 1, 3, 2})
	assert.Equal(t, 4, s.Count)
	assert.Equal(t, 1, s.Missing)
	assert.InDelta(t, 2.5, s.Mean, 1e-12)
	assert.InDelta(t, math.Sqrt(1.25), s.Std, 1e-12)
	assert.Equal(t, 1.0, s.Min)
	assert.Equal(t, 4.0, s.Max)
	assert.InDelta(t, 2.5, s.Median, 1e-12)
	assert.False(t, s.Constant())
}

func TestDescribeConstant(t *testing.T) {
	assert.True(t, Describe([]float64{2, 2, 2}).Constant())
	assert.True(t, Describe([]float64{math.NaN()}).Constant())
}

func TestPercentile(t *testing.T) {
	x := []float64{10, 0, 5}
	assert.Equal(t, 0.0, Percentile(x, 0))
	assert.Equal(t, 10.0, Percentile(x, 100))
	assert.InDelta(t, 7.5, Percentile(x, 75), 1e-12)
	assert.True(t, math.IsNaN(Percentile(nil, 50)))
	// input is left untouched
	assert.Equal(t, []float64{10, 0, 5}, x)
}
