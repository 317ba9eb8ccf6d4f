package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/bizpredict-api/internal/config"
	"github.com/vfg2006/bizpredict-api/internal/domain"
)

func sampleTransactions() []domain.Transaction {
	day := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	return []domain.Transaction{
		{
			TransactionID: 1000, Date: day, Region: "Addis Ababa", ProductCategory: "Coffee",
			CustomerSegment: "Retail", Quantity: 12, UnitPrice: 541.67, TotalSales: 6500, Currency: domain.CurrencyETB,
		},
		{
			TransactionID: 1001, Date: day.AddDate(0, 0, 1), Region: "Afar", ProductCategory: "Leather Goods",
			CustomerSegment: "Export", Quantity: 3, UnitPrice: 0.5, TotalSales: 1.5, Currency: domain.CurrencyETB,
		},
	}
}

func sampleForecast() []domain.ForecastPoint {
	day := time.Date(2020, 2, 1, 0, 0, 0, 0, time.UTC)
	return []domain.ForecastPoint{
		{Date: day, PredictedSales: 1200.5, LowerBound: 900.25, UpperBound: 1500.75},
		{Date: day.AddDate(0, 0, 1), PredictedSales: -10, LowerBound: -300, UpperBound: 280},
	}
}

func sampleInsights() []domain.Insight {
	return []domain.Insight{
		{
			Category: domain.InsightCategoryProducts, Severity: domain.SeverityPositive,
			Title: "Coffee - Top Performer", Message: "Generated ETB 6,500.00 in total sales",
			Recommendation: "Expand Coffee product line, and increase marketing", SupportingMetric: 6500,
		},
		{
			Category: domain.InsightCategoryGrowth, Severity: domain.SeverityWarning,
			Title: "Downward Sales Trend", Message: "moved \"down\"", Recommendation: "Review", SupportingMetric: -12.345,
		},
	}
}

func newCSVStore(t *testing.T) *CSVStore {
	dir := t.TempDir()
	return NewCSVStore(
		filepath.Join(dir, "raw", "sales.csv"),
		filepath.Join(dir, "forecasts", "forecast.csv"),
		filepath.Join(dir, "reports", "insights.csv"),
	)
}

func TestCSVStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newCSVStore(t)

	require.NoError(t, store.SaveTransactions(ctx, sampleTransactions()))
	transactions, err := store.LoadTransactions(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleTransactions(), transactions)

	require.NoError(t, store.SaveForecast(ctx, sampleForecast()))
	points, err := store.LoadForecast(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleForecast(), points)

	require.NoError(t, store.SaveInsights(ctx, sampleInsights()))
	insights, err := store.LoadInsights(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleInsights(), insights)
}

func TestCSVStore_TransactionFileFormat(t *testing.T) {
	store := newCSVStore(t)
	require.NoError(t, store.SaveTransactions(context.Background(), sampleTransactions()[:1]))

	raw, err := os.ReadFile(store.transactionsPath)
	require.NoError(t, err)
	assert.Equal(t,
		"transaction_id,date,region,product_category,customer_segment,quantity,unit_price,total_sales,currency\n"+
			"1000,2020-01-01,Addis Ababa,Coffee,Retail,12,541.67,6500.00,ETB\n",
		string(raw))
}

func TestCSVStore_SaveReplaces(t *testing.T) {
	ctx := context.Background()
	store := newCSVStore(t)

	require.NoError(t, store.SaveForecast(ctx, sampleForecast()))
	require.NoError(t, store.SaveForecast(ctx, sampleForecast()[:1]))

	points, err := store.LoadForecast(ctx)
	require.NoError(t, err)
	assert.Len(t, points, 1)

	entries, err := os.ReadDir(filepath.Dir(store.forecastPath))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files are cleaned up")
}

func TestCSVStore_NotFound(t *testing.T) {
	ctx := context.Background()
	store := newCSVStore(t)

	_, err := store.LoadTransactions(ctx)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.LoadForecast(ctx)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.LoadInsights(ctx)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCSVStore_InvalidFiles(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "empty file",
			content: "",
			wantErr: "is empty",
		},
		{
			name:    "missing column",
			content: "date,predicted_sales,lower_bound\n2020-01-01,1,2\n",
			wantErr: `missing column "upper_bound"`,
		},
		{
			name:    "bad date",
			content: "date,predicted_sales,lower_bound,upper_bound\n01/02/2020,1,2,3\n",
			wantErr: "line 2",
		},
		{
			name:    "bad amount",
			content: "date,predicted_sales,lower_bound,upper_bound\n2020-01-01,abc,2,3\n",
			wantErr: `parsing amount "abc"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newCSVStore(t)
			require.NoError(t, os.MkdirAll(filepath.Dir(store.forecastPath), 0o755))
			require.NoError(t, os.WriteFile(store.forecastPath, []byte(tt.content), 0o644))

			_, err := store.LoadForecast(context.Background())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestCSVStore_ColumnsInAnyOrder(t *testing.T) {
	store := newCSVStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(store.forecastPath), 0o755))
	require.NoError(t, os.WriteFile(store.forecastPath,
		[]byte("upper_bound,date,extra,predicted_sales,lower_bound\n3,2020-01-01,x,1,2\n"), 0o644))

	points, err := store.LoadForecast(context.Background())
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, 1.0, points[0].PredictedSales)
	assert.Equal(t, 3.0, points[0].UpperBound)
}

func TestCSVStore_UnknownSeverity(t *testing.T) {
	store := newCSVStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(store.insightsPath), 0o755))
	require.NoError(t, os.WriteFile(store.insightsPath,
		[]byte("category,severity,title,message,recommendation,supporting_metric\nGrowth,critical,t,m,r,1\n"), 0o644))

	_, err := store.LoadInsights(context.Background())
	assert.ErrorContains(t, err, `unknown severity "critical"`)
}

func TestNewSalesStore(t *testing.T) {
	ctx := context.Background()

	store, err := NewSalesStore(ctx, config.Storage{Driver: "csv"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &CSVStore{}, store)

	_, err = NewSalesStore(ctx, config.Storage{Driver: "postgres"}, nil)
	assert.ErrorContains(t, err, "needs a database connection")

	_, err = NewSalesStore(ctx, config.Storage{Driver: "mongo"}, nil)
	assert.ErrorContains(t, err, `unknown storage driver "mongo"`)
}
