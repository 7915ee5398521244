package model

// earlyStopper tracks the best iteration of every (eval set, metric) pair.
// Training stops as soon as any pair of a non-training set has not
// improved for rounds iterations. When the iteration budget runs out, the
// best iteration of the first non-training pair wins.
type earlyStopper struct {
	rounds      int
	best        []float64
	bestIter    []int
	bestResults [][]EvalResult
}

func newEarlyStopper(rounds int) *earlyStopper {
	return &earlyStopper{rounds: rounds}
}

// update registers results of iteration iter (0-based). It returns
// stop == true with the 0-based best iteration and its results when
// training should end; early reports whether a pair ran out of patience.
func (e *earlyStopper) update(iter int, last bool, results []EvalResult, training map[string]bool) (stop, early bool, bestIter int, best []EvalResult) {
	if e.best == nil {
		e.best = make([]float64, len(results))
		e.bestIter = make([]int, len(results))
		e.bestResults = make([][]EvalResult, len(results))
		for i := range e.bestIter {
			e.bestIter[i] = -1
		}
	}
	for i, r := range results {
		improved := e.bestIter[i] < 0 ||
			(r.HigherBetter && r.Value > e.best[i]) ||
			(!r.HigherBetter && r.Value < e.best[i])
		if improved {
			e.best[i] = r.Value
			e.bestIter[i] = iter
			e.bestResults[i] = results
		}
		if training[r.Set] {
			continue
		}
		if e.rounds > 0 && iter-e.bestIter[i] >= e.rounds {
			return true, true, e.bestIter[i], e.bestResults[i]
		}
		if last {
			return true, false, e.bestIter[i], e.bestResults[i]
		}
	}
	return false, false, 0, nil
}

// firstBest returns the best iteration of the first non-training pair
// seen so far.
func (e *earlyStopper) firstBest(training map[string]bool) (int, []EvalResult, bool) {
	for i := range e.bestIter {
		if e.bestIter[i] < 0 || training[e.bestResults[i][i].Set] {
			continue
		}
		return e.bestIter[i], e.bestResults[i], true
	}
	return 0, nil, false
}
