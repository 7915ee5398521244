package trainer

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"qperf/pkg/config"
	"qperf/pkg/model"
)

// NewBooster maps the training parameters onto the GBDT options.
// Every logPeriod rounds the eval results are printed to out.
func NewBooster(p config.Params, workers int, out io.Writer) *model.GBDT {
	opts := []model.GBDTOption{
		model.WithNumIterations(p.NumBoostRound),
		model.WithLearningRate(p.LearningRate),
		model.WithNumLeaves(p.NumLeaves),
		model.WithMaxDepth(max(0, p.MaxDepth)),
		model.WithMinDataInLeaf(p.MinChildSamples),
		model.WithBaggingFraction(p.Subsample),
		model.WithFeatureFraction(p.ColsampleBytree),
		model.WithScalePosWeight(p.ScalePosWeight),
		model.WithEarlyStopping(p.EarlyStoppingRounds),
		model.WithMaxBin(p.MaxBin),
		model.WithRandomState(p.RandomState),
		model.WithMetrics(p.Metric...),
		model.WithNumWorkers(workers),
	}
	if out != nil && p.LogPeriod > 0 {
		opts = append(opts, model.WithIterationCallback(func(iter int, results []model.EvalResult) {
			if iter%p.LogPeriod == 0 {
				fmt.Fprintf(out, "[%d]\t%s\n", iter, FormatResults(results))
			}
		}))
	}
	return model.NewGBDT(opts...)
}

// FormatResults renders eval results the way LightGBM logs them,
// e.g. "valid's auc: 0.912345".
func FormatResults(results []model.EvalResult) string {
	parts := make([]string, len(results))
	for i, r := range results {
		parts[i] = fmt.Sprintf("%s's %s: %s", r.Set, r.Metric, strconv.FormatFloat(r.Value, 'g', 6, 64))
	}
	return strings.Join(parts, "\t")
}
