package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vfg2006/bizpredict-api/internal/bootstrap"
	"github.com/vfg2006/bizpredict-api/internal/config"
)

// flagKeys maps command flags onto configuration keys. A flag only
// overrides the environment when it is set explicitly.
var flagKeys = map[string]string{
	"log-level": "LOG_LEVEL",
	"storage":   "STORAGE_DRIVER",
	"start":     "GENERATOR_START_DATE",
	"end":       "GENERATOR_END_DATE",
	"seed":      "GENERATOR_SEED",
	"periods":   "FORECAST_PERIODS",
	"test-size": "FORECAST_TEST_SIZE",
}

var cfg *config.Config

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "bizpredict",
		Short: "Ethiopian retail sales generator, forecaster and insight engine",
		Long: `bizpredict runs the batch pipeline behind the BizPredict API:
generate synthetic sales, forecast daily totals and derive insights.

Configuration comes from the environment (or a .env file); flags override it.`,
		SilenceUsage:      true,
		PersistentPreRunE: initConfig,
	}

	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("storage", "csv", "storage driver (csv, sqlite, postgres)")

	rootCmd.AddCommand(generateCmd())
	rootCmd.AddCommand(forecastCmd())
	rootCmd.AddCommand(insightsCmd())
	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(tokenCmd())
	rootCmd.AddCommand(migrateCmd())

	return rootCmd
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		logrus.Info("interrupt received, stopping")
		cancel()
	}()

	err := newRootCmd().ExecuteContext(ctx)
	cancel()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initConfig(cmd *cobra.Command, _ []string) error {
	for flag, key := range flagKeys {
		if f := cmd.Flags().Lookup(flag); f != nil && f.Changed {
			viper.Set(key, f.Value.String())
		}
	}

	loaded, err := config.NewConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	bootstrap.ConfigureLogger(loaded.App.LogLevel)
	cfg = loaded
	return nil
}
