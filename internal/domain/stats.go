package domain

import "time"

type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type SalesStats struct {
	TotalSales        float64   `json:"total_sales"`
	TotalTransactions int       `json:"total_transactions"`
	AvgTransaction    float64   `json:"avg_transaction"`
	DateRange         DateRange `json:"date_range"`
}

type ProductStats struct {
	Product         string  `json:"product"`
	TotalSales      float64 `json:"total_sales"`
	AvgSales        float64 `json:"avg_sales"`
	NumTransactions int     `json:"num_transactions"`
}

type RegionStats struct {
	Region          string  `json:"region"`
	TotalSales      float64 `json:"total_sales"`
	AvgSales        float64 `json:"avg_sales"`
	NumTransactions int     `json:"num_transactions"`
}

type TrendPeriod string

const (
	TrendPeriodDaily   TrendPeriod = "daily"
	TrendPeriodWeekly  TrendPeriod = "weekly"
	TrendPeriodMonthly TrendPeriod = "monthly"
)

type Trends struct {
	Periods []string  `json:"periods"`
	Sales   []float64 `json:"sales"`
}

type HistoricalSeries struct {
	Dates []string  `json:"dates"`
	Sales []float64 `json:"sales"`
}

// SalesFilters narrows the transaction table before aggregation.
type SalesFilters struct {
	StartDate *time.Time
	EndDate   *time.Time
	Category  *string
	Region    *string
}

// Match reports whether the transaction passes every filter that is set.
func (f *SalesFilters) Match(t Transaction) bool {
	if f == nil {
		return true
	}

	day := TruncateDay(t.Date)
	if f.StartDate != nil && !f.StartDate.IsZero() && day.Before(TruncateDay(*f.StartDate)) {
		return false
	}
	if f.EndDate != nil && !f.EndDate.IsZero() && day.After(TruncateDay(*f.EndDate)) {
		return false
	}
	if f.Category != nil && *f.Category != "" && t.ProductCategory != *f.Category {
		return false
	}
	if f.Region != nil && *f.Region != "" && t.Region != *f.Region {
		return false
	}

	return true
}

// Filter returns the transactions matching f, preserving order.
func Filter(transactions []Transaction, f *SalesFilters) []Transaction {
	if f == nil {
		return transactions
	}

	filtered := make([]Transaction, 0, len(transactions))
	for _, t := range transactions {
		if f.Match(t) {
			filtered = append(filtered, t)
		}
	}
	return filtered
}
