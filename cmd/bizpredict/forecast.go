package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vfg2006/bizpredict-api/internal/usecases/pipeline"
	"github.com/vfg2006/bizpredict-api/pkg/utils"
)

func forecastCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Train the model and forecast daily sales",
		Long: `Forecast trains on the stored transactions, evaluates on the last
test-size days, refits on the full history and saves the forecast table.

With --by-category one model is trained per product category and the
combined result is printed, not saved.`,
		RunE: runForecast,
	}

	cmd.Flags().Int("periods", 0, "days to forecast")
	cmd.Flags().Int("test-size", 0, "held-out days used for evaluation")
	cmd.Flags().Bool("by-category", false, "train one model per product category")

	return cmd
}

func runForecast(cmd *cobra.Command, _ []string) error {
	byCategory, _ := cmd.Flags().GetBool("by-category")

	return withRunner(cmd.Context(), func(runner *pipeline.Runner) error {
		if !byCategory {
			run, err := runner.Forecast(cmd.Context())
			if err != nil {
				return err
			}
			printForecast(out(cmd), run)
			return nil
		}

		points, err := runner.ForecastByCategory(cmd.Context())
		if err != nil {
			return err
		}

		totals := make(map[string]float64)
		var order []string
		for _, p := range points {
			if _, ok := totals[p.Category]; !ok {
				order = append(order, p.Category)
			}
			totals[p.Category] += p.PredictedSales
		}

		fmt.Fprintf(out(cmd), "Forecast by category (%d rows)\n", len(points))
		for _, category := range order {
			fmt.Fprintf(out(cmd), "  %-16s ETB %s\n", category, utils.FormatMoney(totals[category]))
		}
		return nil
	})
}
