package main

import (
	"github.com/spf13/cobra"
	"github.com/vfg2006/bizpredict-api/internal/usecases/pipeline"
)

func generateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the synthetic sales dataset",
		Long: `Generate writes one or more transactions for every day in the configured
range and replaces the stored transaction table.`,
		RunE: runGenerate,
	}

	cmd.Flags().String("start", "", "first day, YYYY-MM-DD")
	cmd.Flags().String("end", "", "last day, YYYY-MM-DD")
	cmd.Flags().Int64("seed", 0, "random seed")
	cmd.Flags().Bool("quiet", false, "hide the progress bar")

	return cmd
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	quiet, _ := cmd.Flags().GetBool("quiet")

	return withRunner(cmd.Context(), func(runner *pipeline.Runner) error {
		if !quiet {
			attachProgress(runner, cmd.ErrOrStderr())
		}

		summary, err := runner.Generate(cmd.Context())
		if err != nil {
			return err
		}

		printSummary(out(cmd), summary)
		return nil
	})
}
