package insighting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/bizpredict-api/internal/config"
	"github.com/vfg2006/bizpredict-api/internal/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sale(d time.Time, product, region, segment string, amount float64) domain.Transaction {
	return domain.Transaction{
		Date:            d,
		ProductCategory: product,
		Region:          region,
		CustomerSegment: segment,
		TotalSales:      amount,
		Currency:        domain.CurrencyETB,
	}
}

// monthlySales books one transaction on the first day of each month of 2023.
func monthlySales(amounts ...float64) []domain.Transaction {
	out := make([]domain.Transaction, 0, len(amounts))
	for i, amount := range amounts {
		out = append(out, sale(date(2023, time.Month(i+1), 1), "Coffee", "Oromia", "Retail", amount))
	}
	return out
}

func find(insights []domain.Insight, category, title string) (domain.Insight, bool) {
	for _, insight := range insights {
		if insight.Category == category && insight.Title == title {
			return insight, true
		}
	}
	return domain.Insight{}, false
}

func byCategory(insights []domain.Insight, category string) []domain.Insight {
	out := make([]domain.Insight, 0)
	for _, insight := range insights {
		if insight.Category == category {
			out = append(out, insight)
		}
	}
	return out
}

func TestEngine_NoTransactions(t *testing.T) {
	_, err := NewEngine(DefaultConfig()).Generate(nil, nil)
	assert.ErrorIs(t, err, ErrNoTransactions)
}

func TestEngine_BestPerformerIsPositive(t *testing.T) {
	transactions := []domain.Transaction{
		sale(date(2023, 1, 1), "A", "Oromia", "Retail", 100),
		sale(date(2023, 1, 1), "B", "Oromia", "Retail", 50),
	}

	insights, err := NewEngine(DefaultConfig()).Generate(transactions, nil)
	require.NoError(t, err)

	best, ok := find(insights, domain.InsightCategoryProducts, "A - Top Performer")
	require.True(t, ok)
	assert.Equal(t, domain.SeverityPositive, best.Severity)
	assert.Equal(t, 100.0, best.SupportingMetric)
	assert.Equal(t, "Generated ETB 100.00 in total sales", best.Message)

	worst, ok := find(insights, domain.InsightCategoryProducts, "B - Lowest Performer")
	require.True(t, ok)
	assert.Equal(t, domain.SeverityInfo, worst.Severity)
}

func TestEngine_Performers(t *testing.T) {
	tests := []struct {
		name          string
		totals        map[string]float64
		wantBest      string
		wantWorst     string
		wantWorstSev  domain.Severity
		wantWorstShow bool
	}{
		{
			name:          "ties broken lexically",
			totals:        map[string]float64{"B": 70, "A": 70, "C": 10},
			wantBest:      "A - Top Performer",
			wantWorst:     "C - Lowest Performer",
			wantWorstSev:  domain.SeverityInfo,
			wantWorstShow: true,
		},
		{
			name:          "ratio above threshold is a warning",
			totals:        map[string]float64{"A": 1100, "B": 100},
			wantBest:      "A - Top Performer",
			wantWorst:     "B - Underperforming",
			wantWorstSev:  domain.SeverityWarning,
			wantWorstShow: true,
		},
		{
			name:          "zero worst total is a warning",
			totals:        map[string]float64{"A": 10, "B": 0},
			wantBest:      "A - Top Performer",
			wantWorst:     "B - Underperforming",
			wantWorstSev:  domain.SeverityWarning,
			wantWorstShow: true,
		},
		{
			name:     "single group has no worst performer",
			totals:   map[string]float64{"A": 10},
			wantBest: "A - Top Performer",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transactions := make([]domain.Transaction, 0)
			for product, total := range tt.totals {
				transactions = append(transactions, sale(date(2023, 1, 1), product, "Oromia", "Retail", total))
			}

			insights, err := NewEngine(DefaultConfig()).Generate(transactions, nil)
			require.NoError(t, err)

			products := byCategory(insights, domain.InsightCategoryProducts)
			require.NotEmpty(t, products)
			assert.Equal(t, tt.wantBest, products[0].Title)
			assert.Equal(t, domain.SeverityPositive, products[0].Severity)

			if !tt.wantWorstShow {
				assert.Len(t, products, 1)
				return
			}

			require.Len(t, products, 2)
			assert.Equal(t, tt.wantWorst, products[1].Title)
			assert.Equal(t, tt.wantWorstSev, products[1].Severity)
		})
	}
}

func TestEngine_RegionsAndSegments(t *testing.T) {
	transactions := []domain.Transaction{
		sale(date(2023, 1, 1), "Coffee", "Addis Ababa", "Wholesale", 900),
		sale(date(2023, 1, 1), "Coffee", "Afar", "Retail", 100),
	}

	insights, err := NewEngine(DefaultConfig()).Generate(transactions, nil)
	require.NoError(t, err)

	_, ok := find(insights, domain.InsightCategoryGeography, "Addis Ababa - Top Regional Market")
	assert.True(t, ok)

	segment, ok := find(insights, domain.InsightCategoryCustomers, "Wholesale - Primary Customer Base")
	require.True(t, ok)
	assert.Equal(t, domain.SeverityPositive, segment.Severity)
}

func TestEngine_Trend(t *testing.T) {
	tests := []struct {
		name      string
		monthly   []float64
		wantTitle string
		wantSev   domain.Severity
	}{
		{"upward", []float64{100, 100, 100, 200, 200, 200}, "Upward Sales Trend", domain.SeverityPositive},
		{"downward", []float64{200, 200, 200, 100, 100, 100}, "Downward Sales Trend", domain.SeverityWarning},
		{"stable", []float64{100, 101, 99, 100, 102, 101}, "Stable Sales Trend", domain.SeverityInfo},
		{"two months only", []float64{100, 150}, "Upward Sales Trend", domain.SeverityPositive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			insights, err := NewEngine(DefaultConfig()).Generate(monthlySales(tt.monthly...), nil)
			require.NoError(t, err)

			insight, ok := find(insights, domain.InsightCategoryGrowth, tt.wantTitle)
			require.True(t, ok)
			assert.Equal(t, tt.wantSev, insight.Severity)
		})
	}

	t.Run("single month has no trend", func(t *testing.T) {
		insights, err := NewEngine(DefaultConfig()).Generate(monthlySales(100), nil)
		require.NoError(t, err)
		assert.Empty(t, byCategory(insights, domain.InsightCategoryGrowth))
	})
}

func TestEngine_Momentum(t *testing.T) {
	insights, err := NewEngine(DefaultConfig()).Generate(monthlySales(100, 100, 100, 100, 150, 225), nil)
	require.NoError(t, err)

	insight, ok := find(insights, domain.InsightCategoryGrowth, "Accelerating Growth")
	require.True(t, ok)
	assert.InDelta(t, 100.0/3, insight.SupportingMetric, 1e-9)

	insights, err = NewEngine(DefaultConfig()).Generate(monthlySales(100, 100, 100, 100), nil)
	require.NoError(t, err)
	_, ok = find(insights, domain.InsightCategoryGrowth, "Accelerating Growth")
	assert.False(t, ok)
}

func TestEngine_Seasonality(t *testing.T) {
	transactions := []domain.Transaction{
		sale(date(2023, 1, 1), "Coffee", "Oromia", "Retail", 100),
		sale(date(2023, 1, 2), "Coffee", "Oromia", "Retail", 100),
		sale(date(2023, 2, 1), "Coffee", "Oromia", "Retail", 300),
		sale(date(2023, 3, 1), "Coffee", "Oromia", "Retail", 150),
		sale(date(2023, 3, 2), "Coffee", "Oromia", "Retail", 250),
		sale(date(2023, 4, 1), "Coffee", "Oromia", "Retail", 50),
	}

	insights, err := NewEngine(DefaultConfig()).Generate(transactions, nil)
	require.NoError(t, err)

	seasonal := byCategory(insights, domain.InsightCategorySeasonality)
	require.Len(t, seasonal, 2)

	assert.Equal(t, "Peak Sales Periods", seasonal[0].Title)
	assert.Equal(t, "Highest sales occur in February, March, January", seasonal[0].Message)
	assert.Equal(t, 300.0, seasonal[0].SupportingMetric)

	assert.Equal(t, "Low Sales Periods", seasonal[1].Title)
	assert.Equal(t, "Lowest sales occur in April, January, March", seasonal[1].Message)
	assert.Equal(t, domain.SeverityInfo, seasonal[1].Severity)
}

func TestEngine_SeasonalityRanksByTransactionMean(t *testing.T) {
	var transactions []domain.Transaction
	for day := 1; day <= 31; day++ {
		for i := 0; i < 10; i++ {
			transactions = append(transactions, sale(date(2023, 1, day), "Coffee", "Oromia", "Retail", 100))
		}
	}
	for day := 1; day <= 28; day++ {
		transactions = append(transactions, sale(date(2023, 2, day), "Coffee", "Oromia", "Retail", 500))
	}

	insights, err := NewEngine(DefaultConfig()).Generate(transactions, nil)
	require.NoError(t, err)

	peak, ok := find(insights, domain.InsightCategorySeasonality, "Peak Sales Periods")
	require.True(t, ok)
	assert.Equal(t, "Highest sales occur in February, January", peak.Message)
	assert.Equal(t, 500.0, peak.SupportingMetric)

	low, ok := find(insights, domain.InsightCategorySeasonality, "Low Sales Periods")
	require.True(t, ok)
	assert.Equal(t, "Lowest sales occur in January, February", low.Message)
	assert.Equal(t, 100.0, low.SupportingMetric)
}

func TestEngine_GrowthOpportunity(t *testing.T) {
	transactions := []domain.Transaction{
		sale(date(2023, 1, 1), "Coffee", "Addis Ababa", "Retail", 1000),
		sale(date(2023, 1, 1), "Coffee", "Oromia", "Retail", 500),
		sale(date(2023, 1, 1), "Coffee", "Amhara", "Retail", 300),
		sale(date(2023, 1, 1), "Coffee", "Afar", "Retail", 10),
	}

	insights, err := NewEngine(DefaultConfig()).Generate(transactions, nil)
	require.NoError(t, err)

	insight, ok := find(insights, domain.InsightCategoryGeography, "Amhara - Growth Opportunity")
	require.True(t, ok)
	assert.Equal(t, domain.SeverityWarning, insight.Severity)
	assert.Equal(t, 300.0, insight.SupportingMetric)

	_, ok = find(insights, domain.InsightCategoryGeography, "Afar - Growth Opportunity")
	assert.False(t, ok)
}

func TestEngine_ForecastOutlook(t *testing.T) {
	history := make([]domain.Transaction, 0, 40)
	for i := 0; i < 40; i++ {
		history = append(history, sale(date(2023, 1, 1).AddDate(0, 0, i), "Coffee", "Oromia", "Retail", 100))
	}

	forecast := func(value float64) []domain.ForecastPoint {
		points := make([]domain.ForecastPoint, 30)
		for i := range points {
			points[i] = domain.ForecastPoint{Date: date(2023, 2, 10).AddDate(0, 0, i), PredictedSales: value}
		}
		return points
	}

	tests := []struct {
		name      string
		forecast  []domain.ForecastPoint
		wantTitle string
		wantSev   domain.Severity
	}{
		{"growth", forecast(120), "Strong Growth Expected", domain.SeverityPositive},
		{"decline", forecast(80), "Sales Decline Expected", domain.SeverityWarning},
		{"stable", forecast(105), "Stable Sales Expected", domain.SeverityInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			insights, err := NewEngine(DefaultConfig()).Generate(history, tt.forecast)
			require.NoError(t, err)

			outlook := byCategory(insights, domain.InsightCategoryForecast)
			require.Len(t, outlook, 1)
			assert.Equal(t, tt.wantTitle, outlook[0].Title)
			assert.Equal(t, tt.wantSev, outlook[0].Severity)
			assert.Equal(t, insights[len(insights)-1], outlook[0])
		})
	}

	t.Run("no forecast", func(t *testing.T) {
		insights, err := NewEngine(DefaultConfig()).Generate(history, nil)
		require.NoError(t, err)
		assert.Empty(t, byCategory(insights, domain.InsightCategoryForecast))
	})
}

func TestEngine_OrderAndDeterminism(t *testing.T) {
	transactions := []domain.Transaction{
		sale(date(2023, 1, 1), "Coffee", "Oromia", "Retail", 100),
		sale(date(2023, 2, 1), "Teff", "Afar", "Export", 300),
		sale(date(2023, 3, 1), "Spices", "Amhara", "Wholesale", 200),
	}
	engine := NewEngine(DefaultConfig())

	first, err := engine.Generate(transactions, nil)
	require.NoError(t, err)
	second, err := engine.Generate(transactions, nil)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	order := map[string]int{
		domain.InsightCategoryGrowth:      0,
		domain.InsightCategorySeasonality: 1,
		domain.InsightCategoryProducts:    2,
		domain.InsightCategoryCustomers:   4,
	}
	last := -1
	for _, insight := range first {
		rank, ok := order[insight.Category]
		if !ok {
			continue
		}
		assert.GreaterOrEqual(t, rank, last, insight.Title)
		last = rank
		assert.True(t, insight.Severity.Valid())
	}
}

func TestConfigFrom(t *testing.T) {
	cfg := ConfigFrom(config.Insight{TrendThreshold: 2, OpportunityFloor: 0.5})
	assert.Equal(t, 2.0, cfg.TrendThreshold)
	assert.Equal(t, 0.5, cfg.OpportunityFloor)
	assert.Equal(t, 10.0, cfg.UnderperformRatio)
	assert.Equal(t, 10.0, cfg.ForecastThreshold)
}
