package analyzing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/bizpredict-api/internal/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func fixture() []domain.Transaction {
	return []domain.Transaction{
		{Date: date(2024, 1, 1), Region: "Oromia", ProductCategory: "Coffee", TotalSales: 100},
		{Date: date(2024, 1, 1), Region: "Afar", ProductCategory: "Teff", TotalSales: 50},
		{Date: date(2024, 1, 7), Region: "Oromia", ProductCategory: "Coffee", TotalSales: 30},
		{Date: date(2024, 1, 8), Region: "Addis Ababa", ProductCategory: "Spices", TotalSales: 20.555},
		{Date: date(2024, 2, 1), Region: "Oromia", ProductCategory: "Teff", TotalSales: 200},
	}
}

func loaded() *Service {
	service := NewService()
	service.Reload(fixture())
	return service
}

func TestService_DataNotLoaded(t *testing.T) {
	service := NewService()
	assert.False(t, service.Loaded())

	_, err := service.Stats()
	assert.ErrorIs(t, err, ErrDataNotLoaded)
	_, err = service.Products()
	assert.ErrorIs(t, err, ErrDataNotLoaded)
	_, err = service.Regions()
	assert.ErrorIs(t, err, ErrDataNotLoaded)
	_, err = service.Trends(domain.TrendPeriodDaily)
	assert.ErrorIs(t, err, ErrDataNotLoaded)
	_, err = service.Categories()
	assert.ErrorIs(t, err, ErrDataNotLoaded)
	_, err = service.Historical(nil)
	assert.ErrorIs(t, err, ErrDataNotLoaded)
}

func TestService_Stats(t *testing.T) {
	stats, err := loaded().Stats()
	require.NoError(t, err)

	assert.InDelta(t, 400.555, stats.TotalSales, 1e-9)
	assert.Equal(t, 5, stats.TotalTransactions)
	assert.InDelta(t, 80.111, stats.AvgTransaction, 1e-9)
	assert.Equal(t, domain.DateRange{Start: "2024-01-01", End: "2024-02-01"}, stats.DateRange)

	empty := NewService()
	empty.Reload([]domain.Transaction{})
	stats, err = empty.Stats()
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalTransactions)
}

func TestService_Products(t *testing.T) {
	products, err := loaded().Products()
	require.NoError(t, err)

	require.Len(t, products, 3)
	assert.Equal(t, domain.ProductStats{Product: "Teff", TotalSales: 250, AvgSales: 125, NumTransactions: 2}, products[0])
	assert.Equal(t, domain.ProductStats{Product: "Coffee", TotalSales: 130, AvgSales: 65, NumTransactions: 2}, products[1])
	assert.Equal(t, domain.ProductStats{Product: "Spices", TotalSales: 20.56, AvgSales: 20.56, NumTransactions: 1}, products[2])
}

func TestService_Regions(t *testing.T) {
	regions, err := loaded().Regions()
	require.NoError(t, err)

	require.Len(t, regions, 3)
	assert.Equal(t, "Oromia", regions[0].Region)
	assert.Equal(t, 330.0, regions[0].TotalSales)
	assert.Equal(t, 110.0, regions[0].AvgSales)
	assert.Equal(t, 3, regions[0].NumTransactions)
	assert.Equal(t, "Afar", regions[1].Region)
	assert.Equal(t, "Addis Ababa", regions[2].Region)
}

func TestService_Trends(t *testing.T) {
	service := loaded()

	tests := []struct {
		name        string
		period      domain.TrendPeriod
		wantPeriods []string
		wantSales   []float64
	}{
		{
			name:        "daily",
			period:      domain.TrendPeriodDaily,
			wantPeriods: []string{"2024-01-01", "2024-01-07", "2024-01-08", "2024-02-01"},
			wantSales:   []float64{150, 30, 20.555, 200},
		},
		{
			name:        "weekly runs monday to sunday",
			period:      domain.TrendPeriodWeekly,
			wantPeriods: []string{"2024-01-01/2024-01-07", "2024-01-08/2024-01-14", "2024-01-29/2024-02-04"},
			wantSales:   []float64{180, 20.555, 200},
		},
		{
			name:        "monthly",
			period:      domain.TrendPeriodMonthly,
			wantPeriods: []string{"2024-01", "2024-02"},
			wantSales:   []float64{200.555, 200},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trends, err := service.Trends(tt.period)
			require.NoError(t, err)

			assert.Equal(t, tt.wantPeriods, trends.Periods)
			require.Len(t, trends.Sales, len(tt.wantSales))
			for i := range tt.wantSales {
				assert.InDelta(t, tt.wantSales[i], trends.Sales[i], 1e-9)
			}
		})
	}

	_, err := service.Trends("yearly")
	assert.ErrorIs(t, err, ErrInvalidPeriod)
}

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		value   string
		want    domain.TrendPeriod
		wantErr bool
	}{
		{"", domain.TrendPeriodMonthly, false},
		{"monthly", domain.TrendPeriodMonthly, false},
		{"weekly", domain.TrendPeriodWeekly, false},
		{"daily", domain.TrendPeriodDaily, false},
		{"hourly", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, err := ParsePeriod(tt.value)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPeriod)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestService_Categories(t *testing.T) {
	categories, err := loaded().Categories()
	require.NoError(t, err)
	assert.Equal(t, []string{"Coffee", "Spices", "Teff"}, categories)
}

func TestService_Historical(t *testing.T) {
	service := loaded()

	start := date(2024, 1, 2)
	end := date(2024, 1, 31)
	coffee := "Coffee"

	tests := []struct {
		name      string
		filters   *domain.SalesFilters
		wantDates []string
		wantSales []float64
	}{
		{
			name:      "no filters",
			filters:   nil,
			wantDates: []string{"2024-01-01", "2024-01-07", "2024-01-08", "2024-02-01"},
			wantSales: []float64{150, 30, 20.56, 200},
		},
		{
			name:      "date range",
			filters:   &domain.SalesFilters{StartDate: &start, EndDate: &end},
			wantDates: []string{"2024-01-07", "2024-01-08"},
			wantSales: []float64{30, 20.56},
		},
		{
			name:      "category",
			filters:   &domain.SalesFilters{Category: &coffee},
			wantDates: []string{"2024-01-01", "2024-01-07"},
			wantSales: []float64{100, 30},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			series, err := service.Historical(tt.filters)
			require.NoError(t, err)
			assert.Equal(t, tt.wantDates, series.Dates)
			assert.Equal(t, tt.wantSales, series.Sales)
		})
	}
}

func TestService_Reload(t *testing.T) {
	service := loaded()

	service.Reload([]domain.Transaction{{Date: date(2025, 1, 1), ProductCategory: "Injera", TotalSales: 5}})

	categories, err := service.Categories()
	require.NoError(t, err)
	assert.Equal(t, []string{"Injera"}, categories)
}
