package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func importanceModel() *GBDT {
	return &GBDT{
		NumFeatures: 3,
		Trees: []*Tree{
			{NumLeaves: 3, SplitFeature: []int{0, 2}, SplitGain: []float64{1.5, 2}},
			{NumLeaves: 2, SplitFeature: []int{0}, SplitGain: []float64{0.5}},
		},
	}
}

func TestFeatureImportance(t *testing.T) {
	g := importanceModel()
	assert.Equal(t, []float64{2, 0, 1}, g.FeatureImportance(ImportanceSplit, 0))
	assert.Equal(t, []float64{2, 0, 2}, g.FeatureImportance(ImportanceGain, 0))
	assert.Equal(t, []float64{1, 0, 1}, g.FeatureImportance(ImportanceSplit, 1))
}

func TestTopFeatures(t *testing.T) {
	top := TopFeatures([]float64{2, 0, 2, 5}, 3)
	assert.Equal(t, []RankedFeature{
		{Index: 3, Importance: 5},
		{Index: 2, Importance: 2},
		{Index: 0, Importance: 2},
	}, top)

	assert.Len(t, TopFeatures([]float64{1, 2}, 10), 2)
	assert.Empty(t, TopFeatures([]float64{1, 2}, 0))
}
