package trainer

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qperf/pkg/config"
	"qperf/pkg/data"
	"qperf/pkg/loader"
	"qperf/pkg/model"
)

func writeDataset(t *testing.T, ds *data.FeatureDataset) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "features.msgpack")
	require.NoError(t, ds.Save(path))
	return path
}

func TestRun(t *testing.T) {
	ds := data.Synthetic(1500, 6, 0.1, 7)
	input := writeDataset(t, ds)
	dir := t.TempDir()
	var out bytes.Buffer
	res, err := Run(context.Background(), Options{
		InputPath:  input,
		OutputPath: filepath.Join(dir, "model.txt"),
		SweepPath:  filepath.Join(dir, "sweep.csv"),
		Stdout:     &out,
	})
	require.NoError(t, err)
	report := out.String()

	normal, slow := ds.ClassCounts()
	assert.Contains(t, report, "Loaded 1500 samples, 6 features\n")
	assert.Contains(t, report, fmt.Sprintf("Class distribution: %d normal, %d slow (%.2f%% positive)\n",
		normal, slow, 100*ds.PositiveRate()))
	assert.Contains(t, report, fmt.Sprintf("Scale pos weight: %.2f\n", res.Params.ScalePosWeight))
	assert.Contains(t, report, "Training until validation scores don't improve for 20 rounds\n")
	assert.Regexp(t, regexp.MustCompile(`(?m)^\[10\]\ttrain's auc: [0-9.e-]+\ttrain's binary_logloss: [0-9.e-]+\tvalid's auc: [0-9.e-]+\tvalid's binary_logloss: [0-9.e-]+$`), report)
	assert.Regexp(t, `(Early stopping, best|Did not meet early stopping\. Best) iteration is:\n\[\d+\]\ttrain's auc: `, report)
	assert.Contains(t, report, "\nClassification Report:\n")
	assert.Contains(t, report, "      normal ")
	assert.Contains(t, report, "        slow ")
	assert.Regexp(t, `PR-AUC: \d\.\d{4}\n`, report)
	assert.Contains(t, report, "\nTop 10 Feature Importances (gain):\n")
	ranks := regexp.MustCompile(`(?m)^  (\d+)\. Feature (\d+): \d+\.\d{4}$`).FindAllStringSubmatch(report, -1)
	require.Len(t, ranks, 6)
	for i, m := range ranks {
		assert.Equal(t, fmt.Sprint(i+1), m[1])
	}
	assert.Contains(t, report, "\nModel saved to: "+res.ModelPath+"\n")
	assert.Contains(t, report, fmt.Sprintf("Best iteration: %d\n", res.BestIteration))

	// metadata reproduces the parameters
	assert.Equal(t, filepath.Join(dir, "model.metadata.json"), res.MetadataPath)
	meta, err := config.LoadMetadata(res.MetadataPath)
	require.NoError(t, err)
	assert.Equal(t, res.Params, meta)

	// scale_pos_weight is computed on the training partition
	trainIdx, _, err := loader.StratifiedSplit(ds.Label, 0.2, 42)
	require.NoError(t, err)
	_, yTrain := loader.Take(ds.Features, ds.Label, trainIdx)
	want, err := config.ScalePosWeight(yTrain)
	require.NoError(t, err)
	assert.Equal(t, want, res.Params.ScalePosWeight)

	tm, err := model.LoadTextModel(res.ModelPath)
	require.NoError(t, err)
	assert.Equal(t, res.BestIteration, tm.NumTrees())

	sweep, err := os.ReadFile(filepath.Join(dir, "sweep.csv"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(sweep)), "\n")
	require.Len(t, lines, 51)
	assert.Equal(t, "vote;precision;recall;f-beta", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "0.50;"))
	assert.True(t, strings.HasPrefix(lines[50], "0.99;"))
}

func TestRunPrintsTenFeatures(t *testing.T) {
	input := writeDataset(t, data.Synthetic(1000, 12, 0.15, 11))
	var out bytes.Buffer
	_, err := Run(context.Background(), Options{
		InputPath:  input,
		OutputPath: filepath.Join(t.TempDir(), "model.txt"),
		Stdout:     &out,
	})
	require.NoError(t, err)

	ranks := regexp.MustCompile(`(?m)^  (\d+)\. Feature (\d+): (\d+\.\d{4})$`).FindAllStringSubmatch(out.String(), -1)
	require.Len(t, ranks, 10)
	seen := make(map[string]bool)
	prev := math.Inf(1)
	for i, m := range ranks {
		assert.Equal(t, fmt.Sprint(i+1), m[1])
		assert.False(t, seen[m[2]], "feature %s listed twice", m[2])
		seen[m[2]] = true
		gain, err := strconv.ParseFloat(m[3], 64)
		require.NoError(t, err)
		assert.LessOrEqual(t, gain, prev)
		prev = gain
	}
}

func TestRunReproducible(t *testing.T) {
	input := writeDataset(t, data.Synthetic(800, 4, 0.2, 3))
	dir := t.TempDir()
	run := func(name string) []byte {
		path := filepath.Join(dir, name)
		_, err := Run(context.Background(), Options{InputPath: input, OutputPath: path, Stdout: &bytes.Buffer{}})
		require.NoError(t, err)
		b, err := os.ReadFile(path)
		require.NoError(t, err)
		return b
	}
	assert.Equal(t, run("a.txt"), run("b.txt"))
}

func TestRunErrors(t *testing.T) {
	ctx := context.Background()

	_, err := Run(ctx, Options{})
	assert.Error(t, err)

	_, err = Run(ctx, Options{InputPath: filepath.Join(t.TempDir(), "missing.msgpack"), Stdout: &bytes.Buffer{}})
	assert.Error(t, err)

	single := &data.FeatureDataset{Features: make([][]float64, 50), Label: make([]int, 50)}
	for i := range single.Features {
		single.Features[i] = []float64{float64(i)}
	}
	output := filepath.Join(t.TempDir(), "model.txt")
	_, err = Run(ctx, Options{InputPath: writeDataset(t, single), OutputPath: output, Stdout: &bytes.Buffer{}})
	assert.ErrorIs(t, err, loader.ErrSplit)
	assert.NoFileExists(t, output)
}

func TestFormatResults(t *testing.T) {
	got := FormatResults([]model.EvalResult{
		{Set: "train", Metric: "auc", Value: 0.912345678},
		{Set: "valid", Metric: "binary_logloss", Value: 0.00001234},
	})
	assert.Equal(t, "train's auc: 0.912346\tvalid's binary_logloss: 1.234e-05", got)
}

func TestNewBooster(t *testing.T) {
	p := config.DefaultParams()
	p.ScalePosWeight = 12.5
	g := NewBooster(p, 2, nil)
	assert.Equal(t, 200, g.NumIterations)
	assert.Equal(t, 0.05, g.LearningRate)
	assert.Equal(t, 81, g.NumLeaves)
	assert.Equal(t, 6, g.MaxDepth)
	assert.Equal(t, 20, g.MinDataInLeaf)
	assert.Equal(t, 0.8, g.BaggingFraction)
	assert.Equal(t, 0.8, g.FeatureFraction)
	assert.Equal(t, 12.5, g.ScalePosWeight)
	assert.Equal(t, 20, g.EarlyStoppingRounds)
	assert.Equal(t, int64(42), g.RandomState)
	assert.Equal(t, []string{"auc", "binary_logloss"}, g.Metrics)
	assert.Equal(t, 2, g.NumWorkers)
	assert.Nil(t, g.OnIteration)
}
