package objective

import "math"

const probEpsilon = 1e-15

// Binary is the logistic loss for 0/1 labels. Positive samples are
// weighted by ScalePosWeight to counteract class imbalance.
type Binary struct {
	ScalePosWeight float64
}

func NewBinary(scalePosWeight float64) *Binary {
	return &Binary{ScalePosWeight: scalePosWeight}
}

func (b *Binary) Name() string { return "binary" }

func (b *Binary) weight(label int) float64 {
	if label == 1 {
		return b.ScalePosWeight
	}
	return 1
}

// Gradients fills grad and hess with the first and second derivatives
// of the weighted log loss with respect to the raw scores.
func (b *Binary) Gradients(labels []int, scores, grad, hess []float64) {
	for i, y := range labels {
		p := Sigmoid(scores[i])
		w := b.weight(y)
		grad[i] = (p - float64(y)) * w
		hess[i] = p * (1 - p) * w
	}
}

// InitScore returns the raw score matching the average label.
// Sample weights are not involved.
func (b *Binary) InitScore(labels []int) float64 {
	if len(labels) == 0 {
		return 0
	}
	pos := 0
	for _, y := range labels {
		if y == 1 {
			pos++
		}
	}
	p := float64(pos) / float64(len(labels))
	p = math.Min(math.Max(p, probEpsilon), 1-probEpsilon)
	return Logit(p)
}

// Transform converts a raw score into a probability.
func (b *Binary) Transform(score float64) float64 {
	return Sigmoid(score)
}

// BCE returns the mean binary cross-entropy of predicted probabilities.
func BCE(yTrue []int, yPred []float64) float64 {
	n := len(yTrue)
	if n == 0 {
		return 0
	}
	s := 0.0
	for i := 0; i < n; i++ {
		p := math.Min(math.Max(yPred[i], probEpsilon), 1-probEpsilon)
		y := float64(yTrue[i])
		s += -(y*math.Log(p) + (1-y)*math.Log(1-p))
	}
	return s / float64(n)
}
