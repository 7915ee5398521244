package model

import (
	"context"
	"math"

	"golang.org/x/sync/errgroup"
)

type histBin struct {
	g, h float64
	n    int
}

// splitInfo describes the best split found for a leaf.
// feature == -1 means the leaf cannot be split.
type splitInfo struct {
	feature   int
	bin       int
	threshold float64
	gain      float64

	leftG, leftH   float64
	rightG, rightH float64
	leftN, rightN  int

	leftOutput, rightOutput float64
}

func noSplit() splitInfo {
	return splitInfo{feature: -1, gain: math.Inf(-1)}
}

type treeParams struct {
	maxLeaves     int
	maxDepth      int // 0 => no limit
	minDataInLeaf int
	minSumHessian float64
	lambdaL2      float64
	workers       int
}

type leafState struct {
	rows       []int
	sumG, sumH float64
	hist       [][]histBin // indexed by feature, nil when the feature is not sampled
	best       splitInfo
}

// grower builds a single tree leaf-wise: it always splits the leaf with
// the largest gain until the leaf budget runs out or no leaf can be split.
type grower struct {
	params  treeParams
	mappers []*binMapper
	bins    [][]uint8 // bins[feature][row]
	grad    []float64
	hess    []float64
}

func (g *grower) grow(ctx context.Context, rows []int, feats []int) (*Tree, error) {
	tree := newTree(g.params.maxLeaves)
	root := &leafState{rows: rows}
	for _, r := range rows {
		root.sumG += g.grad[r]
		root.sumH += g.hess[r]
	}
	tree.LeafValue[0] = g.leafOutput(root.sumG, root.sumH)
	tree.LeafWeight[0] = root.sumH
	tree.LeafCount[0] = len(rows)

	var err error
	root.hist, err = g.buildHist(ctx, rows, feats)
	if err != nil {
		return nil, err
	}
	root.best = g.findBestSplit(root, feats, 0)
	leaves := []*leafState{root}

	for tree.NumLeaves < g.params.maxLeaves {
		bestLeaf := -1
		for i, l := range leaves {
			if l.best.feature < 0 {
				continue
			}
			if bestLeaf < 0 || l.best.gain > leaves[bestLeaf].best.gain {
				bestLeaf = i
			}
		}
		if bestLeaf < 0 {
			break
		}
		parent := leaves[bestLeaf]
		s := parent.best
		leftRows, rightRows := partitionRows(parent.rows, g.bins[s.feature], s.bin)
		rightIdx := tree.split(bestLeaf, s)

		left := &leafState{rows: leftRows, sumG: s.leftG, sumH: s.leftH}
		right := &leafState{rows: rightRows, sumG: s.rightG, sumH: s.rightH}
		smaller, larger := left, right
		if len(rightRows) < len(leftRows) {
			smaller, larger = right, left
		}
		smaller.hist, err = g.buildHist(ctx, smaller.rows, feats)
		if err != nil {
			return nil, err
		}
		larger.hist = subtractHist(parent.hist, smaller.hist, feats)
		parent.hist = nil

		leaves[bestLeaf] = left
		leaves = append(leaves, right)
		depth := tree.LeafDepth[bestLeaf]
		left.best = g.findBestSplit(left, feats, depth)
		right.best = g.findBestSplit(right, feats, tree.LeafDepth[rightIdx])
	}
	return tree, nil
}

func (g *grower) leafOutput(sumG, sumH float64) float64 {
	d := sumH + g.params.lambdaL2
	if d <= 0 {
		return 0
	}
	return -sumG / d
}

func (g *grower) leafGain(sumG, sumH float64) float64 {
	d := sumH + g.params.lambdaL2
	if d <= 0 {
		return 0
	}
	return sumG * sumG / d
}

// buildHist accumulates gradient statistics of rows per bin, one
// goroutine per feature.
func (g *grower) buildHist(ctx context.Context, rows []int, feats []int) ([][]histBin, error) {
	out := make([][]histBin, len(g.mappers))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(max(1, g.params.workers))
	for _, f := range feats {
		f := f
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			h := make([]histBin, g.mappers[f].numBins())
			col := g.bins[f]
			for _, r := range rows {
				b := &h[col[r]]
				b.g += g.grad[r]
				b.h += g.hess[r]
				b.n++
			}
			out[f] = h
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func subtractHist(parent, child [][]histBin, feats []int) [][]histBin {
	out := make([][]histBin, len(parent))
	for _, f := range feats {
		h := make([]histBin, len(parent[f]))
		for b := range h {
			h[b].g = parent[f][b].g - child[f][b].g
			h[b].h = parent[f][b].h - child[f][b].h
			h[b].n = parent[f][b].n - child[f][b].n
		}
		out[f] = h
	}
	return out
}

func (g *grower) findBestSplit(l *leafState, feats []int, depth int) splitInfo {
	best := noSplit()
	p := g.params
	n := len(l.rows)
	if p.maxDepth > 0 && depth >= p.maxDepth {
		return best
	}
	if n < 2*p.minDataInLeaf {
		return best
	}
	parentGain := g.leafGain(l.sumG, l.sumH)
	for _, f := range feats {
		h := l.hist[f]
		var gl, hl float64
		var nl int
		for b := 0; b < len(h)-1; b++ {
			gl += h[b].g
			hl += h[b].h
			nl += h[b].n
			if nl < p.minDataInLeaf || hl < p.minSumHessian {
				continue
			}
			nr := n - nl
			hr := l.sumH - hl
			if nr < p.minDataInLeaf || hr < p.minSumHessian {
				break
			}
			gr := l.sumG - gl
			gain := g.leafGain(gl, hl) + g.leafGain(gr, hr) - parentGain
			if gain > best.gain {
				best = splitInfo{
					feature:     f,
					bin:         b,
					threshold:   g.mappers[f].upper[b],
					gain:        gain,
					leftG:       gl,
					leftH:       hl,
					leftN:       nl,
					rightG:      gr,
					rightH:      hr,
					rightN:      nr,
					leftOutput:  g.leafOutput(gl, hl),
					rightOutput: g.leafOutput(gr, hr),
				}
			}
		}
	}
	if best.feature >= 0 && !(best.gain > 0) {
		return noSplit()
	}
	return best
}

// partitionRows splits rows by bin, keeping the original order.
func partitionRows(rows []int, col []uint8, bin int) (left, right []int) {
	left = make([]int, 0, len(rows))
	right = make([]int, 0, len(rows)/2)
	for _, r := range rows {
		if int(col[r]) <= bin {
			left = append(left, r)
		} else {
			right = append(right, r)
		}
	}
	return
}
