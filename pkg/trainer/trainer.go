// Package trainer runs the slow query classifier training pipeline:
// dataset loading, stratified split, boosting with early stopping,
// evaluation report and model persistence.
package trainer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"qperf/pkg/config"
	"qperf/pkg/data"
	"qperf/pkg/loader"
	"qperf/pkg/model"
	"qperf/pkg/stats"
)

const (
	testRatio      = 0.2
	classThreshold = 0.5
	topFeatures    = 10

	// maximum tolerated difference between in-memory and re-read predictions
	reloadTolerance = 1e-6
)

var classNames = []string{"normal", "slow"}

type Options struct {
	InputPath  string
	OutputPath string
	// SweepPath, when set, receives the threshold sweep CSV.
	SweepPath  string
	NumWorkers int
	Stdout     io.Writer // defaults to os.Stdout
	Progress   io.Writer // sweep progress bar, nil => hidden
}

// Result summarizes a finished training run.
type Result struct {
	Params        config.Params
	BestIteration int
	PRAUC         float64
	ModelPath     string
	MetadataPath  string
}

func Run(ctx context.Context, opts Options) (*Result, error) {
	out := opts.Stdout
	if out == nil {
		out = os.Stdout
	}
	if opts.InputPath == "" {
		return nil, errors.New("missing input path")
	}
	if opts.OutputPath == "" {
		opts.OutputPath = "model.txt"
	}

	ds, err := data.LoadDataset(opts.InputPath)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(out, "Loaded %d samples, %d features\n", ds.NumSamples(), ds.NumFeatures())
	normal, slow := ds.ClassCounts()
	fmt.Fprintf(out, "Class distribution: %d normal, %d slow (%.2f%% positive)\n",
		normal, slow, 100*ds.PositiveRate())
	logFeatureSummary(ds)

	params := config.DefaultParams()
	trainIdx, testIdx, err := loader.StratifiedSplit(ds.Label, testRatio, params.RandomState)
	if err != nil {
		return nil, fmt.Errorf("failed to split dataset: %w", err)
	}
	xTrain, yTrain := loader.Take(ds.Features, ds.Label, trainIdx)
	xTest, yTest := loader.Take(ds.Features, ds.Label, testIdx)

	params.ScalePosWeight, err = config.ScalePosWeight(yTrain)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(out, "Scale pos weight: %.2f\n", params.ScalePosWeight)
	if err := params.Validate(); err != nil {
		return nil, err
	}

	booster := NewBooster(params, opts.NumWorkers, out)
	log.Info().
		Int("train", len(yTrain)).
		Int("valid", len(yTest)).
		Int("workers", booster.NumWorkers).
		Msg("training model")
	if params.EarlyStoppingRounds > 0 {
		fmt.Fprintf(out, "Training until validation scores don't improve for %d rounds\n", params.EarlyStoppingRounds)
	}
	err = booster.Fit(
		ctx, xTrain, yTrain,
		model.EvalSet{Name: "train", X: xTrain, Y: yTrain, Training: true},
		model.EvalSet{Name: "valid", X: xTest, Y: yTest},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to train model: %w", err)
	}
	if len(booster.BestScores) > 0 {
		if booster.EarlyStopped {
			fmt.Fprintln(out, "Early stopping, best iteration is:")
		} else {
			fmt.Fprintln(out, "Did not meet early stopping. Best iteration is:")
		}
		fmt.Fprintf(out, "[%d]\t%s\n", booster.BestIteration, FormatResults(booster.BestScores))
	}

	yProb := booster.PredictProba(xTest)
	yPred := model.BinaryPredFromProba(yProb, classThreshold)

	fmt.Fprintln(out, "\nClassification Report:")
	fmt.Fprintln(out, model.ClassificationReport(yTest, yPred, classNames, 2))

	prAUC, err := model.PRAUC(yTest, yProb)
	if err != nil {
		return nil, fmt.Errorf("failed to compute PR-AUC: %w", err)
	}
	fmt.Fprintf(out, "PR-AUC: %.4f\n", prAUC)

	fmt.Fprintln(out, "\nTop 10 Feature Importances (gain):")
	importance := booster.FeatureImportance(model.ImportanceGain, booster.BestIteration)
	for i, f := range model.TopFeatures(importance, topFeatures) {
		fmt.Fprintf(out, "  %d. Feature %d: %.4f\n", i+1, f.Index, f.Importance)
	}

	if err := booster.SaveToFile(opts.OutputPath); err != nil {
		return nil, err
	}
	fmt.Fprintf(out, "\nModel saved to: %s\n", opts.OutputPath)
	fmt.Fprintf(out, "Best iteration: %d\n", booster.BestIteration)

	metaPath := config.MetadataPath(opts.OutputPath)
	if err := config.SaveMetadata(metaPath, params); err != nil {
		return nil, err
	}
	log.Info().Str("file", metaPath).Msg("saved model metadata")

	verifySavedModel(opts.OutputPath, booster, xTest)

	if opts.SweepPath != "" {
		rows, err := ThresholdSweep(ctx, yTest, yProb, opts.Progress)
		if err != nil {
			return nil, err
		}
		if err := WriteSweep(opts.SweepPath, rows); err != nil {
			return nil, err
		}
		log.Info().Str("file", opts.SweepPath).Int("thresholds", len(rows)).Msg("saved threshold sweep")
	}

	return &Result{
		Params:        params,
		BestIteration: booster.BestIteration,
		PRAUC:         prAUC,
		ModelPath:     opts.OutputPath,
		MetadataPath:  metaPath,
	}, nil
}

// verifySavedModel re-reads the model file the way inference does and
// compares its predictions on X with those of trained.
func verifySavedModel(path string, trained model.Classifier, X [][]float64) {
	tm, err := model.LoadTextModel(path)
	if err != nil {
		log.Warn().Err(err).Str("file", path).Msg("saved model cannot be read back")
		return
	}
	want := trained.PredictProba(X)
	got := tm.PredictProba(X)
	maxDiff := 0.0
	for i := range want {
		maxDiff = math.Max(maxDiff, math.Abs(got[i]-want[i]))
	}
	if maxDiff > reloadTolerance {
		log.Warn().
			Float64("maxDiff", maxDiff).
			Str("file", path).
			Msg("saved model predictions differ from the trained ensemble")
		return
	}
	log.Info().
		Int("trees", tm.NumTrees()).
		Int("features", tm.NumFeatures()).
		Float64("maxDiff", maxDiff).
		Msg("verified saved model")
}

func logFeatureSummary(ds *data.FeatureDataset) {
	if zerolog.GlobalLevel() > zerolog.DebugLevel {
		return
	}
	constant := 0
	for j := 0; j < ds.NumFeatures(); j++ {
		col := make([]float64, ds.NumSamples())
		for i, row := range ds.Features {
			col[i] = row[j]
		}
		s := stats.Describe(col)
		if s.Constant() {
			constant++
		}
		log.Debug().
			Int("feature", j).
			Float64("mean", s.Mean).
			Float64("std", s.Std).
			Float64("min", s.Min).
			Float64("max", s.Max).
			Float64("median", s.Median).
			Int("missing", s.Missing).
			Msg("feature summary")
	}
	log.Debug().Int("constant", constant).Msg("features without split candidates")
}
