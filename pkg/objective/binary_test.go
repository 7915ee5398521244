package objective

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSigmoidLogit(t *testing.T) {
	assert.Equal(t, 0.5, Sigmoid(0))
	for _, x := range []float64{-3, -0.5, 0.25, 4} {
		assert.InDelta(t, x, Logit(Sigmoid(x)), 1e-12)
	}
}

func TestBinaryGradients(t *testing.T) {
	b := NewBinary(3)
	labels := []int{0, 1}
	scores := []float64{0, 0}
	grad := make([]float64, 2)
	hess := make([]float64, 2)
	b.Gradients(labels, scores, grad, hess)

	assert.InDelta(t, 0.5, grad[0], 1e-12)
	assert.InDelta(t, 0.25, hess[0], 1e-12)
	// positives are weighted by scale_pos_weight
	assert.InDelta(t, -1.5, grad[1], 1e-12)
	assert.InDelta(t, 0.75, hess[1], 1e-12)
}

func TestBinaryInitScore(t *testing.T) {
	b := NewBinary(10)
	assert.InDelta(t, math.Log(0.25/0.75), b.InitScore([]int{0, 0, 0, 1}), 1e-12)
	assert.False(t, math.IsInf(b.InitScore([]int{0, 0}), 0))
	assert.Equal(t, 0.0, b.InitScore(nil))
	assert.InDelta(t, 0.25, b.Transform(b.InitScore([]int{0, 0, 0, 1})), 1e-12)
}

func TestBCE(t *testing.T) {
	assert.InDelta(t, -math.Log(0.8), BCE([]int{1, 0}, []float64{0.8, 0.2}), 1e-12)
	assert.Equal(t, 0.0, BCE(nil, nil))
	assert.False(t, math.IsInf(BCE([]int{1}, []float64{0}), 0))
}
