package model

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"qperf/pkg/core"
)

// binMapper maps raw feature values to histogram bins. Bin i holds values
// v with upper[i-1] < v <= upper[i]; the last upper bound is +Inf.
type binMapper struct {
	upper    []float64
	min, max float64
}

// newBinMapper bins column j of m, which must hold no NaN (see Matrix.ZeroNaN).
func newBinMapper(m *core.Matrix, j, maxBin int) *binMapper {
	vals := m.Col(j)
	sort.Float64s(vals)
	bm := &binMapper{}
	lo, hi, ok := m.ColRange(j)
	if !ok {
		bm.upper = []float64{math.Inf(1)}
		return bm
	}
	bm.min, bm.max = lo, hi

	distinct := make([]float64, 0, 64)
	counts := make([]int, 0, 64)
	for _, v := range vals {
		if len(distinct) > 0 && distinct[len(distinct)-1] == v {
			counts[len(counts)-1]++
			continue
		}
		distinct = append(distinct, v)
		counts = append(counts, 1)
	}

	if len(distinct) <= maxBin {
		for i := 0; i < len(distinct)-1; i++ {
			bm.upper = append(bm.upper, midpoint(distinct[i], distinct[i+1]))
		}
		bm.upper = append(bm.upper, math.Inf(1))
		return bm
	}

	// greedy equal-frequency binning
	binsLeft := maxBin
	rest := len(vals)
	target := float64(rest) / float64(binsLeft)
	cur := 0
	for i := 0; i < len(distinct)-1 && binsLeft > 1; i++ {
		cur += counts[i]
		rest -= counts[i]
		if float64(cur) >= target {
			bm.upper = append(bm.upper, midpoint(distinct[i], distinct[i+1]))
			binsLeft--
			cur = 0
			target = float64(rest) / float64(binsLeft)
		}
	}
	bm.upper = append(bm.upper, math.Inf(1))
	return bm
}

// midpoint returns a bound b with a <= b < c.
func midpoint(a, c float64) float64 {
	m := a + (c-a)/2
	if m >= c {
		return a
	}
	return m
}

func (bm *binMapper) numBins() int {
	return len(bm.upper)
}

// trivial mappers have a single bin and cannot be split on.
func (bm *binMapper) trivial() bool {
	return len(bm.upper) <= 1
}

func (bm *binMapper) valueToBin(v float64) int {
	if math.IsNaN(v) {
		v = 0
	}
	return sort.SearchFloat64s(bm.upper, v)
}

// info returns the feature description used in the model text header.
func (bm *binMapper) info() string {
	if bm.trivial() {
		return "none"
	}
	return fmt.Sprintf("[%s:%s]", formatFloat(bm.min), formatFloat(bm.max))
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
