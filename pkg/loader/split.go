package loader

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"
)

var ErrSplit = errors.New("cannot split dataset")

// StratifiedSplit partitions sample indices into train and test sets so that
// both preserve the class proportions of y. The test set has
// ceil(testRatio*n) samples; per-class test sizes are allocated by the
// largest remainder method. The same seed always yields the same partition.
func StratifiedSplit(y []int, testRatio float64, seed int64) (trainIdx, testIdx []int, err error) {
	n := len(y)
	if testRatio <= 0 || testRatio >= 1 {
		return nil, nil, fmt.Errorf("%w: test ratio %v out of (0, 1)", ErrSplit, testRatio)
	}
	nTest := int(math.Ceil(testRatio * float64(n)))
	nTrain := n - nTest

	byClass := make(map[int][]int)
	for i, lab := range y {
		byClass[lab] = append(byClass[lab], i)
	}
	classes := make([]int, 0, len(byClass))
	for c := range byClass {
		classes = append(classes, c)
	}
	sort.Ints(classes)

	if len(classes) < 2 {
		return nil, nil, fmt.Errorf("%w: labels contain a single class", ErrSplit)
	}
	for _, c := range classes {
		if len(byClass[c]) < 2 {
			return nil, nil, fmt.Errorf(
				"%w: class %d has %d member(s), at least 2 are required", ErrSplit, c, len(byClass[c]))
		}
	}
	if nTest < len(classes) || nTrain < len(classes) {
		return nil, nil, fmt.Errorf(
			"%w: %d samples are too few for %d classes", ErrSplit, n, len(classes))
	}

	alloc := allocate(classes, byClass, nTest, n)
	rnd := rand.New(rand.NewSource(seed))
	for i, c := range classes {
		members := byClass[c]
		perm := rnd.Perm(len(members))
		for k, p := range perm {
			if k < alloc[i] {
				testIdx = append(testIdx, members[p])
			} else {
				trainIdx = append(trainIdx, members[p])
			}
		}
	}
	rnd.Shuffle(len(trainIdx), func(a, b int) { trainIdx[a], trainIdx[b] = trainIdx[b], trainIdx[a] })
	rnd.Shuffle(len(testIdx), func(a, b int) { testIdx[a], testIdx[b] = testIdx[b], testIdx[a] })
	return trainIdx, testIdx, nil
}

// allocate distributes total draws among classes proportionally to their size.
func allocate(classes []int, byClass map[int][]int, total, n int) []int {
	type rem struct {
		class int
		frac  float64
	}
	out := make([]int, len(classes))
	rems := make([]rem, len(classes))
	given := 0
	for i, c := range classes {
		exact := float64(len(byClass[c])) * float64(total) / float64(n)
		out[i] = int(math.Floor(exact))
		given += out[i]
		rems[i] = rem{class: i, frac: exact - float64(out[i])}
	}
	sort.SliceStable(rems, func(a, b int) bool { return rems[a].frac > rems[b].frac })
	for k := 0; given < total; k++ {
		i := rems[k%len(rems)].class
		if out[i] < len(byClass[classes[i]]) {
			out[i]++
			given++
		}
	}
	return out
}

// Take materializes the rows of X and y listed in idx.
func Take(X [][]float64, y []int, idx []int) ([][]float64, []int) {
	xs := make([][]float64, len(idx))
	ys := make([]int, len(idx))
	for k, i := range idx {
		xs[k] = X[i]
		ys[k] = y[i]
	}
	return xs, ys
}
