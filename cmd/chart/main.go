package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"qperf/pkg/chart"
)

func newRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chart -o <output_path> -t <title>",
		Short: "Render a ';' separated table from stdin as a line chart",
		// the renderer takes its arguments positionally
		DisableFlagParsing: true,
		SilenceErrors:      true,
		SilenceUsage:       true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := chart.ParseArgs(args)
			if err != nil {
				return err
			}
			_, err = chart.Render(cmd.InOrStdin(), a)
			return err
		},
	}
}

func errorMessage(err error) string {
	if errors.Is(err, chart.ErrUsage) {
		return "Error: " + chart.Usage
	}
	return "Error: " + err.Error()
}

func main() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), errorMessage(err))
		os.Exit(1)
	}
}
