package model

import "context"

// Classifier is a binary classifier that outputs p(y=1) per sample.
type Classifier interface {
	PredictProba(X [][]float64) []float64
}

// Trainable classifiers fit on X, y and report progress on eval sets.
type Trainable interface {
	Classifier
	Fit(ctx context.Context, X [][]float64, y []int, evalSets ...EvalSet) error
}

// EvalSet is a named dataset evaluated after every boosting round.
// Training sets are evaluated but never drive early stopping.
type EvalSet struct {
	Name     string
	X        [][]float64
	Y        []int
	Training bool
}

// EvalResult is the value of one metric on one eval set.
type EvalResult struct {
	Set          string
	Metric       string
	Value        float64
	HigherBetter bool
}
