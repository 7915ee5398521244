package model

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"runtime"
	"sort"

	"qperf/pkg/core"
	"qperf/pkg/objective"

	"github.com/rs/zerolog/log"
)

var _ Trainable = (*GBDT)(nil)

type metricFunc struct {
	fn           func(yTrue []int, proba []float64) float64
	higherBetter bool
}

var evalMetrics = map[string]metricFunc{
	"auc":            {fn: ROCAUC, higherBetter: true},
	"binary_logloss": {fn: Logloss, higherBetter: false},
}

// GBDT is a binary gradient boosted decision tree classifier with
// histogram-based, leaf-wise tree growth.
type GBDT struct {
	// Hyperparameters / options
	NumIterations       int
	LearningRate        float64
	NumLeaves           int
	MaxDepth            int // 0 => no limit
	MinDataInLeaf       int
	MinSumHessian       float64
	LambdaL2            float64
	BaggingFraction     float64 // fraction of rows drawn for every tree
	FeatureFraction     float64 // fraction of features drawn for every tree
	ScalePosWeight      float64
	EarlyStoppingRounds int // 0 => no early stopping
	MaxBin              int
	RandomState         int64
	Metrics             []string
	NumWorkers          int

	// OnIteration is called after every round with the 1-based
	// iteration number and the eval results of that round.
	OnIteration func(iter int, results []EvalResult)

	// trained state
	Trees         []*Tree
	InitScore     float64
	BestIteration int // number of trees giving the best validation score
	BestScores    []EvalResult
	EarlyStopped  bool
	NumFeatures   int
	mappers       []*binMapper
}

// GBDTOption functional config
type GBDTOption func(*GBDT)

func WithNumIterations(n int) GBDTOption {
	return func(g *GBDT) { g.NumIterations = n }
}

func WithLearningRate(r float64) GBDTOption {
	return func(g *GBDT) { g.LearningRate = r }
}

func WithNumLeaves(n int) GBDTOption {
	return func(g *GBDT) { g.NumLeaves = n }
}

func WithMaxDepth(d int) GBDTOption {
	return func(g *GBDT) { g.MaxDepth = d }
}

func WithMinDataInLeaf(n int) GBDTOption {
	return func(g *GBDT) { g.MinDataInLeaf = n }
}

func WithBaggingFraction(f float64) GBDTOption {
	return func(g *GBDT) { g.BaggingFraction = f }
}

func WithFeatureFraction(f float64) GBDTOption {
	return func(g *GBDT) { g.FeatureFraction = f }
}

func WithScalePosWeight(w float64) GBDTOption {
	return func(g *GBDT) { g.ScalePosWeight = w }
}

func WithEarlyStopping(rounds int) GBDTOption {
	return func(g *GBDT) { g.EarlyStoppingRounds = rounds }
}

func WithMaxBin(n int) GBDTOption {
	return func(g *GBDT) { g.MaxBin = n }
}

func WithRandomState(seed int64) GBDTOption {
	return func(g *GBDT) { g.RandomState = seed }
}

func WithMetrics(m ...string) GBDTOption {
	return func(g *GBDT) { g.Metrics = m }
}

func WithNumWorkers(n int) GBDTOption {
	return func(g *GBDT) {
		if n > 0 {
			g.NumWorkers = n
		}
	}
}

func WithIterationCallback(fn func(iter int, results []EvalResult)) GBDTOption {
	return func(g *GBDT) { g.OnIteration = fn }
}

// NewGBDT returns a classifier with LightGBM-like defaults.
func NewGBDT(opts ...GBDTOption) *GBDT {
	g := &GBDT{
		NumIterations:   100,
		LearningRate:    0.1,
		NumLeaves:       31,
		MaxDepth:        0,
		MinDataInLeaf:   20,
		MinSumHessian:   1e-3,
		BaggingFraction: 1,
		FeatureFraction: 1,
		ScalePosWeight:  1,
		MaxBin:          255,
		Metrics:         []string{"binary_logloss"},
		NumWorkers:      runtime.GOMAXPROCS(0),
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

func (g *GBDT) validate(X [][]float64, y []int) error {
	if len(X) == 0 {
		return errors.New("gbdt: empty X")
	}
	if len(y) != len(X) {
		return errors.New("gbdt: X and y length mismatch")
	}
	for i, v := range y {
		if v != 0 && v != 1 {
			return fmt.Errorf("gbdt: label of sample %d is %d, expected 0 or 1", i, v)
		}
	}
	for _, m := range g.Metrics {
		if _, ok := evalMetrics[m]; !ok {
			return fmt.Errorf("gbdt: unknown metric %q", m)
		}
	}
	if g.NumLeaves < 2 {
		return errors.New("gbdt: NumLeaves must be at least 2")
	}
	if g.MaxBin < 2 || g.MaxBin > 256 {
		return errors.New("gbdt: MaxBin must be in [2, 256]")
	}
	return nil
}

// Fit trains the ensemble on X, y. Eval sets are scored after every
// round; with EarlyStoppingRounds > 0 training ends once a non-training
// eval set stops improving.
func (g *GBDT) Fit(ctx context.Context, X [][]float64, y []int, evalSets ...EvalSet) error {
	if err := g.validate(X, y); err != nil {
		return err
	}
	m, err := core.FromSlice(X)
	if err != nil {
		return fmt.Errorf("gbdt: %w", err)
	}
	m.ZeroNaN()
	n := m.R
	g.NumFeatures = m.C
	g.Trees = nil
	g.BestIteration = 0
	g.BestScores = nil
	g.EarlyStopped = false

	bins, usable := g.buildBins(m)
	obj := g.loss()
	g.InitScore = obj.InitScore(y)

	scores := filled(n, g.InitScore)
	evalRows := make([]*core.Matrix, len(evalSets))
	evalScores := make([][]float64, len(evalSets))
	training := make(map[string]bool)
	for i, es := range evalSets {
		em, err := core.FromSlice(es.X)
		if err != nil {
			return fmt.Errorf("gbdt: eval set %s: %w", es.Name, err)
		}
		if em.R != len(es.Y) {
			return fmt.Errorf("gbdt: eval set %s: X and y length mismatch", es.Name)
		}
		if em.R > 0 && em.C != m.C {
			return fmt.Errorf("gbdt: eval set %s has %d features, expected %d", es.Name, em.C, m.C)
		}
		evalRows[i] = em
		evalScores[i] = filled(em.R, g.InitScore)
		training[es.Name] = es.Training
	}

	grad := make([]float64, n)
	hess := make([]float64, n)
	gr := &grower{
		params: treeParams{
			maxLeaves:     g.NumLeaves,
			maxDepth:      g.MaxDepth,
			minDataInLeaf: max(1, g.MinDataInLeaf),
			minSumHessian: g.MinSumHessian,
			lambdaL2:      g.LambdaL2,
			workers:       g.NumWorkers,
		},
		mappers: g.mappers,
		bins:    bins,
		grad:    grad,
		hess:    hess,
	}
	allRows := make([]int, n)
	for i := range allRows {
		allRows[i] = i
	}
	rnd := rand.New(rand.NewSource(g.RandomState))
	stopper := newEarlyStopper(g.EarlyStoppingRounds)

	for iter := 0; iter < g.NumIterations; iter++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		obj.Gradients(y, scores, grad, hess)
		rows := g.bag(rnd, allRows)
		feats := g.sampleFeatures(rnd, usable)

		tree := newTree(g.NumLeaves)
		if len(feats) > 0 {
			tree, err = gr.grow(ctx, rows, feats)
			if err != nil {
				return err
			}
		}
		finished := false
		if tree.NumLeaves <= 1 {
			if iter > 0 {
				log.Warn().
					Int("iteration", iter+1).
					Msg("stopped training because there are no more leaves that meet the split requirements")
				break
			}
			// the init score alone is the model
			tree = newTree(g.NumLeaves)
			finished = true
		} else {
			tree.shrink(g.LearningRate)
		}
		g.Trees = append(g.Trees, tree)

		for i := 0; i < n; i++ {
			scores[i] += tree.Predict(m.Row(i))
		}
		for k, em := range evalRows {
			for i := 0; i < em.R; i++ {
				evalScores[k][i] += tree.Predict(em.Row(i))
			}
		}
		results := g.evaluate(evalSets, evalScores)
		if g.OnIteration != nil {
			g.OnIteration(iter+1, results)
		}
		last := finished || iter == g.NumIterations-1
		if len(results) > 0 {
			stop, early, best, bestRes := stopper.update(iter, last, results, training)
			if stop {
				g.BestIteration = best + 1
				g.BestScores = bestRes
				g.EarlyStopped = early
				break
			}
		}
		if finished {
			break
		}
	}
	if g.BestIteration == 0 {
		if best, res, ok := stopper.firstBest(training); ok {
			g.BestIteration = best + 1
			g.BestScores = res
		} else {
			g.BestIteration = len(g.Trees)
		}
	}
	depth := 0
	for _, t := range g.Trees {
		depth = max(depth, t.MaxDepth())
	}
	log.Debug().
		Int("trees", len(g.Trees)).
		Int("maxDepth", depth).
		Int("bestIteration", g.BestIteration).
		Bool("earlyStopped", g.EarlyStopped).
		Msg("gbdt training finished")
	return nil
}

// buildBins returns bins[feature][row] and the features that can be split on.
func (g *GBDT) buildBins(m *core.Matrix) ([][]uint8, []int) {
	g.mappers = make([]*binMapper, m.C)
	bins := make([][]uint8, m.C)
	var usable []int
	for j := 0; j < m.C; j++ {
		bm := newBinMapper(m, j, g.MaxBin)
		g.mappers[j] = bm
		b := make([]uint8, m.R)
		for i := 0; i < m.R; i++ {
			b[i] = uint8(bm.valueToBin(m.At(i, j)))
		}
		bins[j] = b
		if !bm.trivial() {
			usable = append(usable, j)
		}
	}
	return bins, usable
}

func (g *GBDT) bag(rnd *rand.Rand, all []int) []int {
	if g.BaggingFraction >= 1 {
		return all
	}
	rows := make([]int, 0, int(float64(len(all))*g.BaggingFraction)+1)
	for _, r := range all {
		if rnd.Float64() < g.BaggingFraction {
			rows = append(rows, r)
		}
	}
	if len(rows) == 0 {
		return all
	}
	return rows
}

func (g *GBDT) sampleFeatures(rnd *rand.Rand, usable []int) []int {
	if g.FeatureFraction >= 1 || len(usable) <= 1 {
		return usable
	}
	k := max(1, int(math.Round(float64(len(usable))*g.FeatureFraction)))
	perm := rnd.Perm(len(usable))[:k]
	feats := make([]int, k)
	for i, p := range perm {
		feats[i] = usable[p]
	}
	sort.Ints(feats)
	return feats
}

func (g *GBDT) loss() *objective.Binary {
	return objective.NewBinary(g.ScalePosWeight)
}

func (g *GBDT) evaluate(sets []EvalSet, scores [][]float64) []EvalResult {
	obj := g.loss()
	var results []EvalResult
	for k, es := range sets {
		proba := make([]float64, len(scores[k]))
		for i, s := range scores[k] {
			proba[i] = obj.Transform(s)
		}
		for _, name := range g.Metrics {
			mf := evalMetrics[name]
			results = append(results, EvalResult{
				Set:          es.Name,
				Metric:       name,
				Value:        mf.fn(es.Y, proba),
				HigherBetter: mf.higherBetter,
			})
		}
	}
	return results
}

func (g *GBDT) numTrees(numIteration int) int {
	if numIteration <= 0 || numIteration > len(g.Trees) {
		return len(g.Trees)
	}
	return numIteration
}

// PredictRaw returns the raw score of x using the first numIteration
// trees (all trees if numIteration <= 0).
func (g *GBDT) PredictRaw(x []float64, numIteration int) float64 {
	s := g.InitScore
	for _, t := range g.Trees[:g.numTrees(numIteration)] {
		s += t.Predict(x)
	}
	return s
}

// PredictProba returns p(slow) for X using the best iteration.
func (g *GBDT) PredictProba(X [][]float64) []float64 {
	return g.PredictProbaN(X, g.BestIteration)
}

func (g *GBDT) PredictProbaN(X [][]float64, numIteration int) []float64 {
	obj := g.loss()
	out := make([]float64, len(X))
	for i, x := range X {
		out[i] = obj.Transform(g.PredictRaw(x, numIteration))
	}
	return out
}

func filled(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}
