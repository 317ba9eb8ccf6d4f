package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vfg2006/bizpredict-api/internal/usecases/pipeline"
)

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run generate, forecast and insights in order",
		RunE:  runAll,
	}

	cmd.Flags().String("start", "", "first day, YYYY-MM-DD")
	cmd.Flags().String("end", "", "last day, YYYY-MM-DD")
	cmd.Flags().Int64("seed", 0, "random seed")
	cmd.Flags().Int("periods", 0, "days to forecast")
	cmd.Flags().Int("test-size", 0, "held-out days used for evaluation")
	cmd.Flags().Bool("quiet", false, "hide the progress bar")

	return cmd
}

func runAll(cmd *cobra.Command, _ []string) error {
	quiet, _ := cmd.Flags().GetBool("quiet")

	return withRunner(cmd.Context(), func(runner *pipeline.Runner) error {
		if !quiet {
			attachProgress(runner, cmd.ErrOrStderr())
		}

		report, err := runner.RunAll(cmd.Context())
		if err != nil {
			return err
		}

		w := out(cmd)
		printSummary(w, report.Generation)
		fmt.Fprintln(w)
		printForecast(w, report.Forecast)
		fmt.Fprintln(w)
		printInsights(w, report.Insights)
		return nil
	})
}
