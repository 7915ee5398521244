package stats

import (
	"math"
	"sort"
)

// Summary describes the distribution of a single feature column.
type Summary struct {
	Count    int // finite values
	Missing  int // NaN values
	Mean     float64
	Std      float64
	Min, Max float64
	Median   float64
	P99      float64
}

// Constant reports whether the column carries no information for a split.
func (s Summary) Constant() bool {
	return s.Count == 0 || s.Min == s.Max
}

// Describe summarizes x, NaN values are counted but otherwise skipped.
func Describe(x []float64) Summary {
	vals := finite(x)
	s := Summary{Count: len(vals), Missing: len(x) - len(vals)}
	if len(vals) == 0 {
		return s
	}
	sort.Float64s(vals)
	s.Mean = Mean(vals)
	s.Std = Std(vals)
	s.Min, s.Max = vals[0], vals[len(vals)-1]
	s.Median = percentileSorted(vals, 50)
	s.P99 = percentileSorted(vals, 99)
	return s
}

// Mean computes the average of a slice.
func Mean(x []float64) float64 {
	n := len(x)
	if n == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range x {
		sum += v
	}
	return sum / float64(n)
}

// Variance computes the population variance in two passes.
func Variance(x []float64) float64 {
	n := float64(len(x))
	if n == 0 {
		return 0
	}
	mean := Mean(x)
	ss := 0.0
	for _, v := range x {
		d := v - mean
		ss += d * d
	}
	return ss / n
}

// Std computes the standard deviation of a slice.
func Std(x []float64) float64 {
	return math.Sqrt(Variance(x))
}

// Percentile returns the p-th percentile (0 <= p <= 100) with linear
// interpolation between closest ranks (allocates a copy).
func Percentile(x []float64, p float64) float64 {
	vals := finite(x)
	if len(vals) == 0 {
		return math.NaN()
	}
	sort.Float64s(vals)
	return percentileSorted(vals, p)
}

func percentileSorted(x []float64, p float64) float64 {
	n := len(x)
	if p <= 0 {
		return x[0]
	}
	if p >= 100 {
		return x[n-1]
	}
	rank := p / 100 * float64(n-1)
	lower := int(rank)
	upper := lower + 1
	weight := rank - float64(lower)
	if upper >= n {
		return x[lower]
	}
	return x[lower]*(1-weight) + x[upper]*weight
}

func finite(x []float64) []float64 {
	out := make([]float64, 0, len(x))
	for _, v := range x {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}
