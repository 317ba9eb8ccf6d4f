package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/bizpredict-api/internal/config"
	"github.com/vfg2006/bizpredict-api/internal/usecases/authenticating"
)

func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	t.Setenv("STORAGE_DRIVER", "csv")
	t.Setenv("TRANSACTIONS_CSV", filepath.Join(dir, "raw.csv"))
	t.Setenv("FORECAST_CSV", filepath.Join(dir, "forecast.csv"))
	t.Setenv("INSIGHTS_CSV", filepath.Join(dir, "insights.csv"))
	t.Setenv("GENERATOR_START_DATE", "2023-01-01")
	t.Setenv("GENERATOR_END_DATE", "2023-04-30")
	t.Setenv("FORECAST_PERIODS", "14")
	t.Setenv("FORECAST_TEST_SIZE", "14")
	t.Setenv("LOG_LEVEL", "error")

	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), err
}

func TestCommands_Pipeline(t *testing.T) {
	setupEnv(t)

	output, err := execute(t, "forecast")
	require.Error(t, err, "forecast needs generated data first")

	output, err = execute(t, "generate", "--quiet")
	require.NoError(t, err)
	assert.Contains(t, output, "Generated dataset")
	assert.Contains(t, output, "2023-01-01 to 2023-04-30")

	output, err = execute(t, "forecast")
	require.NoError(t, err)
	assert.Contains(t, output, "(14 days)")

	output, err = execute(t, "insights")
	require.NoError(t, err)
	assert.Contains(t, output, "insights")
	assert.Contains(t, output, "[positive]")
}

func TestCommands_Run(t *testing.T) {
	setupEnv(t)

	output, err := execute(t, "run", "--quiet")
	require.NoError(t, err)

	assert.Contains(t, output, "Generated dataset")
	assert.Contains(t, output, "Forecast ")
	assert.True(t, strings.Contains(output, "insights\n"))
}

func TestCommands_Token(t *testing.T) {
	setupEnv(t)

	t.Run("disabled without secret", func(t *testing.T) {
		t.Setenv("AUTH_SECRET", "")
		_, err := execute(t, "token")
		assert.ErrorIs(t, err, authenticating.ErrAuthDisabled)
	})

	t.Run("issues a valid token", func(t *testing.T) {
		t.Setenv("AUTH_SECRET", "cli-secret")
		output, err := execute(t, "token", "--subject", "ops")
		require.NoError(t, err)

		claims, err := authenticating.NewService(config.Auth{Secret: "cli-secret"}).ValidateToken(strings.TrimSpace(output))
		require.NoError(t, err)
		assert.Equal(t, "ops", claims.Subject)
	})
}

func TestCommands_Migrate(t *testing.T) {
	dir := setupEnv(t)
	t.Setenv("SQLITE_PATH", filepath.Join(dir, "db", "bizpredict.db"))

	_, err := execute(t, "migrate")
	assert.Error(t, err, "csv is not a migration target")

	_, err = execute(t, "generate", "--quiet")
	require.NoError(t, err)

	t.Setenv("STORAGE_DRIVER", "sqlite")
	output, err := execute(t, "migrate")
	require.NoError(t, err)
	assert.Contains(t, output, "Copied to sqlite")
	assert.Contains(t, output, "skipped:      forecast, insights")

	output, err = execute(t, "insights")
	require.NoError(t, err)
	assert.Contains(t, output, "insights")
}
