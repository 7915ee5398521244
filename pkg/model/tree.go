package model

import "math"

// Tree is a binary regression tree stored in the LightGBM array layout:
// internal nodes are numbered in the order they were split, a negative
// child reference c points to leaf ^c.
type Tree struct {
	NumLeaves int

	// internal nodes
	SplitFeature   []int
	SplitGain      []float64
	Threshold      []float64
	LeftChild      []int
	RightChild     []int
	InternalValue  []float64
	InternalWeight []float64
	InternalCount  []int

	// leaves
	LeafValue  []float64
	LeafWeight []float64
	LeafCount  []int
	LeafParent []int
	LeafDepth  []int

	Shrinkage float64

	thresholdBin []int
}

func newTree(maxLeaves int) *Tree {
	return &Tree{
		NumLeaves:      1,
		SplitFeature:   make([]int, 0, maxLeaves-1),
		SplitGain:      make([]float64, 0, maxLeaves-1),
		Threshold:      make([]float64, 0, maxLeaves-1),
		LeftChild:      make([]int, 0, maxLeaves-1),
		RightChild:     make([]int, 0, maxLeaves-1),
		InternalValue:  make([]float64, 0, maxLeaves-1),
		InternalWeight: make([]float64, 0, maxLeaves-1),
		InternalCount:  make([]int, 0, maxLeaves-1),
		LeafValue:      []float64{0},
		LeafWeight:     []float64{0},
		LeafCount:      []int{0},
		LeafParent:     []int{-1},
		LeafDepth:      []int{0},
		Shrinkage:      1,
		thresholdBin:   make([]int, 0, maxLeaves-1),
	}
}

// split turns leaf into an internal node. The left child keeps the index
// of the split leaf, the right child becomes a new leaf whose index is
// returned.
func (t *Tree) split(leaf int, s splitInfo) int {
	node := t.NumLeaves - 1
	right := t.NumLeaves
	if parent := t.LeafParent[leaf]; parent >= 0 {
		if t.LeftChild[parent] == ^leaf {
			t.LeftChild[parent] = node
		} else {
			t.RightChild[parent] = node
		}
	}
	t.SplitFeature = append(t.SplitFeature, s.feature)
	t.SplitGain = append(t.SplitGain, s.gain)
	t.Threshold = append(t.Threshold, s.threshold)
	t.thresholdBin = append(t.thresholdBin, s.bin)
	t.LeftChild = append(t.LeftChild, ^leaf)
	t.RightChild = append(t.RightChild, ^right)
	t.InternalValue = append(t.InternalValue, t.LeafValue[leaf])
	t.InternalWeight = append(t.InternalWeight, t.LeafWeight[leaf])
	t.InternalCount = append(t.InternalCount, s.leftN+s.rightN)

	t.LeafParent[leaf] = node
	t.LeafValue[leaf] = s.leftOutput
	t.LeafWeight[leaf] = s.leftH
	t.LeafCount[leaf] = s.leftN
	t.LeafDepth[leaf]++

	t.LeafParent = append(t.LeafParent, node)
	t.LeafValue = append(t.LeafValue, s.rightOutput)
	t.LeafWeight = append(t.LeafWeight, s.rightH)
	t.LeafCount = append(t.LeafCount, s.rightN)
	t.LeafDepth = append(t.LeafDepth, t.LeafDepth[leaf])

	t.NumLeaves++
	return right
}

// shrink scales all outputs by rate.
func (t *Tree) shrink(rate float64) {
	for i := range t.LeafValue {
		t.LeafValue[i] *= rate
	}
	for i := range t.InternalValue {
		t.InternalValue[i] *= rate
	}
	t.Shrinkage *= rate
}

// leafIndex returns the leaf x falls into. NaN is treated as zero.
func (t *Tree) leafIndex(x []float64) int {
	if t.NumLeaves <= 1 {
		return 0
	}
	node := 0
	for node >= 0 {
		v := x[t.SplitFeature[node]]
		if math.IsNaN(v) {
			v = 0
		}
		if v <= t.Threshold[node] {
			node = t.LeftChild[node]
		} else {
			node = t.RightChild[node]
		}
	}
	return ^node
}

// Predict returns the raw output of the tree for a single sample.
func (t *Tree) Predict(x []float64) float64 {
	return t.LeafValue[t.leafIndex(x)]
}

// MaxDepth returns the depth of the deepest leaf.
func (t *Tree) MaxDepth() int {
	d := 0
	for _, v := range t.LeafDepth {
		d = max(d, v)
	}
	return d
}
