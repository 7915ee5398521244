package model

import "sort"

type ImportanceType int

const (
	// ImportanceSplit counts how often a feature is used to split.
	ImportanceSplit ImportanceType = iota
	// ImportanceGain sums the gain of the splits using a feature.
	ImportanceGain
)

// FeatureImportance aggregates split statistics of the first
// numIteration trees (all trees if numIteration <= 0).
func (g *GBDT) FeatureImportance(kind ImportanceType, numIteration int) []float64 {
	imp := make([]float64, g.NumFeatures)
	for _, t := range g.Trees[:g.numTrees(numIteration)] {
		for i, f := range t.SplitFeature {
			if kind == ImportanceGain {
				imp[f] += t.SplitGain[i]
			} else {
				imp[f]++
			}
		}
	}
	return imp
}

type RankedFeature struct {
	Index      int
	Importance float64
}

// TopFeatures returns the k most important features, highest first.
// Equal importances are ordered by descending index.
func TopFeatures(imp []float64, k int) []RankedFeature {
	ranked := make([]RankedFeature, len(imp))
	for i, v := range imp {
		ranked[i] = RankedFeature{Index: i, Importance: v}
	}
	sort.SliceStable(ranked, func(a, b int) bool {
		if ranked[a].Importance != ranked[b].Importance {
			return ranked[a].Importance > ranked[b].Importance
		}
		return ranked[a].Index > ranked[b].Index
	})
	if k >= 0 && k < len(ranked) {
		ranked = ranked[:k]
	}
	return ranked
}
