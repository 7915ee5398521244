package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"qperf/pkg/config"
	"qperf/pkg/logging"
	"qperf/pkg/trainer"
)

func newRootCmd() *cobra.Command {
	opts := trainer.Options{}
	cmd := &cobra.Command{
		Use:   "trainer",
		Short: "Train the slow query classifier",
		Long: `Train a gradient boosted tree classifier predicting slow queries
from a msgpack feature dataset. The model is saved in the LightGBM text
format together with a .metadata.json file holding the hyperparameters.`,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			env, err := config.LoadEnv()
			if err != nil {
				return err
			}
			if err := logging.Setup(env.LogLevel, env.LogFormat); err != nil {
				return err
			}
			opts.NumWorkers = env.NumWorkers
			opts.Stdout = cmd.OutOrStdout()
			if opts.SweepPath != "" {
				opts.Progress = cmd.ErrOrStderr()
			}
			_, err = trainer.Run(cmd.Context(), opts)
			return err
		},
	}
	cmd.Flags().StringVarP(&opts.InputPath, "input", "i", "", "Path to msgpack features")
	cmd.Flags().StringVarP(&opts.OutputPath, "output", "o", "model.txt", "Output model path (.txt for leaves compatibility)")
	cmd.Flags().StringVar(&opts.SweepPath, "sweep", "", "Write the vote threshold sweep CSV to this path")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		log.Error().Err(err).Msg("training failed")
		os.Exit(1)
	}
}
