package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func evalRound(train, valid float64) []EvalResult {
	return []EvalResult{
		{Set: "train", Metric: "auc", Value: train, HigherBetter: true},
		{Set: "valid", Metric: "auc", Value: valid, HigherBetter: true},
	}
}

func TestEarlyStopperPatience(t *testing.T) {
	training := map[string]bool{"train": true}
	e := newEarlyStopper(3)
	valid := []float64{0.5, 0.6, 0.55, 0.58, 0.59}
	for i, v := range valid {
		stop, early, best, res := e.update(i, false, evalRound(0.1, v), training)
		if i < 4 {
			assert.False(t, stop, "iteration %d", i)
			continue
		}
		assert.True(t, stop)
		assert.True(t, early)
		assert.Equal(t, 1, best)
		assert.Equal(t, 0.6, res[1].Value)
	}
}

func TestEarlyStopperIgnoresTrainingSets(t *testing.T) {
	training := map[string]bool{"train": true}
	e := newEarlyStopper(1)
	// train never improves, valid always does
	for i := 0; i < 5; i++ {
		stop, _, _, _ := e.update(i, false, evalRound(0.9, float64(i)), training)
		assert.False(t, stop)
	}
}

func TestEarlyStopperLastIteration(t *testing.T) {
	training := map[string]bool{"train": true}
	e := newEarlyStopper(10)
	e.update(0, false, evalRound(0.1, 0.7), training)
	e.update(1, false, evalRound(0.2, 0.9), training)
	stop, early, best, res := e.update(2, true, evalRound(0.3, 0.8), training)
	assert.True(t, stop)
	assert.False(t, early)
	assert.Equal(t, 1, best)
	assert.Equal(t, 0.2, res[0].Value)
}

func TestEarlyStopperLowerIsBetter(t *testing.T) {
	e := newEarlyStopper(2)
	loss := func(v float64) []EvalResult {
		return []EvalResult{{Set: "valid", Metric: "binary_logloss", Value: v}}
	}
	e.update(0, false, loss(0.7), nil)
	e.update(1, false, loss(0.6), nil)
	e.update(2, false, loss(0.65), nil)
	stop, early, best, _ := e.update(3, false, loss(0.61), nil)
	assert.True(t, stop)
	assert.True(t, early)
	assert.Equal(t, 1, best)

	best, _, ok := e.firstBest(nil)
	assert.True(t, ok)
	assert.Equal(t, 1, best)
}
