package model

import (
	"errors"
	"sort"

	"qperf/pkg/objective"
)

var ErrNotMonotonic = errors.New("x is neither increasing nor decreasing")

func Accuracy(yTrue, yPred []int) float64 {
	if len(yTrue) == 0 {
		return 0
	}
	c := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			c++
		}
	}
	return float64(c) / float64(len(yTrue))
}

// BinaryPredFromProba labels a sample positive if its probability is
// strictly greater than threshold.
func BinaryPredFromProba(proba []float64, threshold float64) []int {
	out := make([]int, len(proba))
	for i, p := range proba {
		if p > threshold {
			out[i] = 1
		} else {
			out[i] = 0
		}
	}
	return out
}

// PrecisionRecallF1 computes the metrics of the given positive class.
// Undefined ratios are reported as zero.
func PrecisionRecallF1(yTrue []int, yPred []int, positive int) (prec, rec, f1 float64) {
	tp, fp, fn := 0, 0, 0
	for i := range yTrue {
		if yPred[i] == positive && yTrue[i] == positive {
			tp++
		}
		if yPred[i] == positive && yTrue[i] != positive {
			fp++
		}
		if yPred[i] != positive && yTrue[i] == positive {
			fn++
		}
	}
	if tp+fp > 0 {
		prec = float64(tp) / float64(tp+fp)
	}
	if tp+fn > 0 {
		rec = float64(tp) / float64(tp+fn)
	}
	f1 = FBeta(prec, rec, 1)
	return
}

func FBeta(prec, rec, beta float64) float64 {
	if prec+rec <= 0 {
		return 0
	}
	b2 := beta * beta
	return (1 + b2) * prec * rec / (b2*prec + rec)
}

// ROCAUC returns the area under the ROC curve, tied scores count as half.
// With a single class present the result is 1.
func ROCAUC(yTrue []int, scores []float64) float64 {
	idx := sortedByScoreDesc(scores)
	var pos, neg float64
	for _, y := range yTrue {
		if y == 1 {
			pos++
		} else {
			neg++
		}
	}
	if pos == 0 || neg == 0 {
		return 1
	}
	area, tpSoFar := 0.0, 0.0
	for i := 0; i < len(idx); {
		j := i
		var tp, fp float64
		for ; j < len(idx) && scores[idx[j]] == scores[idx[i]]; j++ {
			if yTrue[idx[j]] == 1 {
				tp++
			} else {
				fp++
			}
		}
		area += fp * (tpSoFar + tp/2)
		tpSoFar += tp
		i = j
	}
	return area / (pos * neg)
}

// Logloss is the mean binary cross-entropy of predicted probabilities.
func Logloss(yTrue []int, proba []float64) float64 {
	return objective.BCE(yTrue, proba)
}

// PrecisionRecallCurve computes precision/recall pairs for every distinct
// score used as a decision threshold (score >= threshold is positive).
// Thresholds are returned in increasing order; precision and recall have
// one more element, the final (1, 0) point.
func PrecisionRecallCurve(yTrue []int, scores []float64) (precision, recall, thresholds []float64) {
	idx := sortedByScoreDesc(scores)
	var tps, fps []float64
	var tp, fp float64
	for i, k := range idx {
		if yTrue[k] == 1 {
			tp++
		} else {
			fp++
		}
		if i == len(idx)-1 || scores[idx[i+1]] != scores[k] {
			tps = append(tps, tp)
			fps = append(fps, fp)
			thresholds = append(thresholds, scores[k])
		}
	}
	n := len(tps)
	precision = make([]float64, 0, n+1)
	recall = make([]float64, 0, n+1)
	for i := n - 1; i >= 0; i-- {
		p := 0.0
		if tps[i]+fps[i] > 0 {
			p = tps[i] / (tps[i] + fps[i])
		}
		// without positives every threshold has full recall
		r := 1.0
		if tp > 0 {
			r = tps[i] / tp
		}
		precision = append(precision, p)
		recall = append(recall, r)
	}
	precision = append(precision, 1)
	recall = append(recall, 0)
	for l, r := 0, len(thresholds)-1; l < r; l, r = l+1, r-1 {
		thresholds[l], thresholds[r] = thresholds[r], thresholds[l]
	}
	return
}

// AUC computes the area under a curve with the trapezoidal rule.
// x must be monotonic (increasing or decreasing).
func AUC(x, y []float64) (float64, error) {
	if len(x) < 2 {
		return 0, errors.New("at least 2 points are needed to compute area under curve")
	}
	direction := 1.0
	inc, dec := true, true
	for i := 1; i < len(x); i++ {
		d := x[i] - x[i-1]
		if d < 0 {
			inc = false
		}
		if d > 0 {
			dec = false
		}
	}
	switch {
	case inc:
	case dec:
		direction = -1
	default:
		return 0, ErrNotMonotonic
	}
	area := 0.0
	for i := 1; i < len(x); i++ {
		area += (x[i] - x[i-1]) * (y[i] + y[i-1]) / 2
	}
	return direction * area, nil
}

// PRAUC is the area under the precision-recall curve.
func PRAUC(yTrue []int, scores []float64) (float64, error) {
	precision, recall, _ := PrecisionRecallCurve(yTrue, scores)
	return AUC(recall, precision)
}

func sortedByScoreDesc(scores []float64) []int {
	idx := make([]int, len(scores))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return scores[idx[a]] > scores[idx[b]] })
	return idx
}
