package data

import (
	"math"
	"math/rand"
)

// Synthetic creates an imbalanced binary dataset with n samples and d
// features. Slow samples get their first half of features shifted upwards,
// so only those features carry signal; the rest is Gaussian noise.
// The same seed always produces the same dataset.
func Synthetic(n, d int, positiveRate float64, seed int64) *FeatureDataset {
	rnd := rand.New(rand.NewSource(seed))
	ds := &FeatureDataset{
		Features: make([][]float64, n),
		Label:    make([]int, n),
	}
	informative := int(math.Max(1, float64(d/2)))
	for i := 0; i < n; i++ {
		x := make([]float64, d)
		slow := rnd.Float64() < positiveRate
		for j := 0; j < d; j++ {
			x[j] = rnd.NormFloat64()
			if slow && j < informative {
				// stronger shift on lower indices
				x[j] += 2.5 / float64(j+1)
			}
		}
		ds.Features[i] = x
		if slow {
			ds.Label[i] = 1
		}
	}
	return ds
}
