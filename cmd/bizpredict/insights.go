package main

import (
	"github.com/spf13/cobra"
	"github.com/vfg2006/bizpredict-api/internal/usecases/pipeline"
)

func insightsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "insights",
		Short: "Derive insights from the stored transactions and forecast",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRunner(cmd.Context(), func(runner *pipeline.Runner) error {
				insights, err := runner.Insights(cmd.Context())
				if err != nil {
					return err
				}
				printInsights(out(cmd), insights)
				return nil
			})
		},
	}
}
