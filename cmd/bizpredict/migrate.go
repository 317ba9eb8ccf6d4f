package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vfg2006/bizpredict-api/infrastructure/repository"
	"github.com/vfg2006/bizpredict-api/internal/bootstrap"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Copy the CSV artifacts into the configured SQL store",
		Long: `Migrate reads the transaction, forecast and insight CSV files and
replaces the matching tables of the store selected with --storage
(sqlite or postgres). Missing CSV files are skipped.`,
		RunE: runMigrate,
	}
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	if cfg.Storage.Driver == "" || cfg.Storage.Driver == repository.DriverCSV {
		return fmt.Errorf("migrate needs a SQL destination, use --storage sqlite or --storage postgres")
	}

	source := repository.NewCSVStore(cfg.Storage.TransactionsCSV, cfg.Storage.ForecastCSV, cfg.Storage.InsightsCSV)

	destination, closeStore, err := bootstrap.OpenStore(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	report, err := repository.Copy(cmd.Context(), source, destination)
	if err != nil {
		return err
	}

	w := out(cmd)
	fmt.Fprintf(w, "Copied to %s\n", cfg.Storage.Driver)
	fmt.Fprintf(w, "  transactions: %d\n", report.Transactions)
	fmt.Fprintf(w, "  forecast:     %d\n", report.Forecast)
	fmt.Fprintf(w, "  insights:     %d\n", report.Insights)
	if len(report.Skipped) > 0 {
		fmt.Fprintf(w, "  skipped:      %s\n", strings.Join(report.Skipped, ", "))
	}
	return nil
}
