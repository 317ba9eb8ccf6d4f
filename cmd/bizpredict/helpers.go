package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/vfg2006/bizpredict-api/internal/bootstrap"
	"github.com/vfg2006/bizpredict-api/internal/domain"
	"github.com/vfg2006/bizpredict-api/internal/usecases/generating"
	"github.com/vfg2006/bizpredict-api/internal/usecases/pipeline"
	"github.com/vfg2006/bizpredict-api/pkg/utils"
)

// withRunner opens the configured store, builds a pipeline runner and hands
// it to fn. The store is closed when fn returns.
func withRunner(ctx context.Context, fn func(runner *pipeline.Runner) error) error {
	opts, err := bootstrap.PipelineOptions(cfg)
	if err != nil {
		return err
	}

	store, closeStore, err := bootstrap.OpenStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	return fn(pipeline.NewRunner(store, opts))
}

// attachProgress draws a per-day progress bar on w while the generator runs.
func attachProgress(runner *pipeline.Runner, w io.Writer) {
	days := runner.Days()
	if days == 0 {
		return
	}

	bar := progressbar.NewOptions(days,
		progressbar.OptionSetWriter(w),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("Generating days"),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(w)
		}),
	)

	runner.WithProgress(func(done, _ int) {
		_ = bar.Set(done)
	})
}

func printSummary(w io.Writer, summary generating.Summary) {
	fmt.Fprintln(w, "Generated dataset")
	fmt.Fprintf(w, "  transactions:     %d\n", summary.Transactions)
	fmt.Fprintf(w, "  total sales:      ETB %s\n", utils.FormatMoney(summary.TotalSales))
	fmt.Fprintf(w, "  avg transaction:  ETB %s\n", utils.FormatMoney(summary.AvgTransaction))
	fmt.Fprintf(w, "  date range:       %s to %s\n", utils.FormatDate(summary.StartDate), utils.FormatDate(summary.EndDate))
	fmt.Fprintf(w, "  regions:          %s\n", strings.Join(summary.Regions, ", "))
	fmt.Fprintf(w, "  categories:       %s\n", strings.Join(summary.ProductCategories, ", "))
	fmt.Fprintf(w, "  segments:         %s\n", strings.Join(summary.CustomerSegments, ", "))
}

func printForecast(w io.Writer, run *domain.ForecastRun) {
	fmt.Fprintf(w, "Forecast %s (%d days)\n", run.RunID, len(run.Points))
	if run.Evaluation != nil {
		fmt.Fprintf(w, "  MAE %.2f  RMSE %.2f  MAPE %.2f%%  R2 %.4f\n",
			run.Evaluation.MAE, run.Evaluation.RMSE, run.Evaluation.MAPE, run.Evaluation.R2)
	}
	fmt.Fprintf(w, "  total forecast:   ETB %s\n", utils.FormatMoney(run.Summary.TotalForecastedSales))
	fmt.Fprintf(w, "  avg daily:        ETB %s\n", utils.FormatMoney(run.Summary.AvgDailySales))
	fmt.Fprintf(w, "  trend:            %s\n", run.Summary.Trend)
}

func printInsights(w io.Writer, insights []domain.Insight) {
	fmt.Fprintf(w, "%d insights\n", len(insights))
	for i, in := range insights {
		fmt.Fprintf(w, "%2d. [%s] %s: %s\n", i+1, in.Severity, in.Category, in.Title)
		fmt.Fprintf(w, "    %s\n", in.Message)
		if in.Recommendation != "" {
			fmt.Fprintf(w, "    -> %s\n", in.Recommendation)
		}
	}
}

func out(cmd *cobra.Command) io.Writer {
	return cmd.OutOrStdout()
}
