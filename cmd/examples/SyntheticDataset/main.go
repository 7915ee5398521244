package main

//
// ---------------------- CLI FLAGS DOCUMENTATION ----------------------
//
// --output        : Path of the msgpack dataset to write. Default = features.msgpack
// --samples       : Number of samples
// --features      : Feature vector dimension
// --positive-rate : Fraction of slow queries (label 1)
// --seed          : Random seed, the same seed gives the same dataset
// --preview       : Number of feature columns to summarize in the console
//
// Example:
//   go run ./cmd/examples/SyntheticDataset --samples 20000 --positive-rate 0.03
//   go run ./cmd/trainer -i features.msgpack -o model.txt --sweep sweep.csv
//
// ---------------------------------------------------------------------
//

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"qperf/pkg/data"
	"qperf/pkg/stats"
)

type options struct {
	output       string
	samples      int
	features     int
	positiveRate float64
	seed         int64
	preview      int
}

// previewColumns prints a summary of the first n feature columns
func previewColumns(ds *data.FeatureDataset, n int) {
	n = min(n, ds.NumFeatures())
	fmt.Printf("%-10s%-12s%-12s%-12s%-12s\n", "Feature", "Mean", "Std", "Min", "Max")
	for j := 0; j < n; j++ {
		col := make([]float64, ds.NumSamples())
		for i, row := range ds.Features {
			col[i] = row[j]
		}
		s := stats.Describe(col)
		fmt.Printf("%-10d%-12.4f%-12.4f%-12.4f%-12.4f\n", j, s.Mean, s.Std, s.Min, s.Max)
	}
}

func run(o options) error {
	if o.samples < 10 || o.features < 1 {
		return fmt.Errorf("need at least 10 samples and 1 feature")
	}
	if o.positiveRate <= 0 || o.positiveRate >= 1 {
		return fmt.Errorf("positive rate must be in (0, 1)")
	}
	ds := data.Synthetic(o.samples, o.features, o.positiveRate, o.seed)
	normal, slow := ds.ClassCounts()
	fmt.Printf("Generated %d samples with %d features.\n", ds.NumSamples(), ds.NumFeatures())
	fmt.Printf("Class distribution: %d normal, %d slow (%.2f%% positive)\n", normal, slow, 100*ds.PositiveRate())
	previewColumns(ds, o.preview)
	if err := ds.Save(o.output); err != nil {
		return err
	}
	fmt.Printf("Saved dataset to %s\n", o.output)
	return nil
}

func main() {
	o := options{}
	cmd := &cobra.Command{
		Use:   "SyntheticDataset",
		Short: "Write a synthetic slow query feature dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(o)
		},
	}
	cmd.Flags().StringVar(&o.output, "output", "features.msgpack", "output dataset path")
	cmd.Flags().IntVar(&o.samples, "samples", 10000, "number of samples")
	cmd.Flags().IntVar(&o.features, "features", 16, "feature vector dimension")
	cmd.Flags().Float64Var(&o.positiveRate, "positive-rate", 0.05, "fraction of slow queries")
	cmd.Flags().Int64Var(&o.seed, "seed", 42, "random seed")
	cmd.Flags().IntVar(&o.preview, "preview", 5, "number of feature columns to summarize")
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
