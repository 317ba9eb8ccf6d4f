// Package domain holds the tabular records shared by every stage of the pipeline.
package domain

import (
	"sort"
	"time"
)

const CurrencyETB = "ETB"

// Dimension names a categorical column of the transaction table.
type Dimension string

const (
	DimensionRegion  Dimension = "region"
	DimensionProduct Dimension = "product_category"
	DimensionSegment Dimension = "customer_segment"
)

type Transaction struct {
	TransactionID   int64     `json:"transaction_id"`
	Date            time.Time `json:"date"`
	Region          string    `json:"region"`
	ProductCategory string    `json:"product_category"`
	CustomerSegment string    `json:"customer_segment"`
	Quantity        int       `json:"quantity"`
	UnitPrice       float64   `json:"unit_price"`
	TotalSales      float64   `json:"total_sales"`
	Currency        string    `json:"currency"`
}

// Value returns the transaction's value for the given dimension.
func (t Transaction) Value(dimension Dimension) string {
	switch dimension {
	case DimensionRegion:
		return t.Region
	case DimensionProduct:
		return t.ProductCategory
	case DimensionSegment:
		return t.CustomerSegment
	}
	return ""
}

// DailyTotal is the sum of total_sales for a single calendar day.
type DailyTotal struct {
	Date  time.Time `json:"date"`
	Sales float64   `json:"sales"`
}

// GroupTotal aggregates total_sales for one value of a dimension.
type GroupTotal struct {
	Key          string  `json:"key"`
	TotalSales   float64 `json:"total_sales"`
	AvgSales     float64 `json:"avg_sales"`
	Transactions int     `json:"num_transactions"`
}

// TruncateDay drops the clock part of a date, keeping its location.
func TruncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DailyTotals aggregates transactions into one total per day, ordered by date.
// Days without transactions are not emitted.
func DailyTotals(transactions []Transaction) []DailyTotal {
	byDay := make(map[time.Time]float64)
	for _, t := range transactions {
		byDay[TruncateDay(t.Date)] += t.TotalSales
	}

	totals := make([]DailyTotal, 0, len(byDay))
	for day, sales := range byDay {
		totals = append(totals, DailyTotal{Date: day, Sales: sales})
	}

	sort.Slice(totals, func(i, j int) bool {
		return totals[i].Date.Before(totals[j].Date)
	})

	return totals
}

// GroupTotals aggregates transactions by dimension, sorted by total descending.
// Ties are broken by the lexical order of the key so the ranking is stable.
func GroupTotals(transactions []Transaction, dimension Dimension) []GroupTotal {
	index := make(map[string]int)
	groups := make([]GroupTotal, 0)

	for _, t := range transactions {
		key := t.Value(dimension)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, GroupTotal{Key: key})
		}
		groups[i].TotalSales += t.TotalSales
		groups[i].Transactions++
	}

	for i := range groups {
		if groups[i].Transactions > 0 {
			groups[i].AvgSales = groups[i].TotalSales / float64(groups[i].Transactions)
		}
	}

	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].TotalSales != groups[j].TotalSales {
			return groups[i].TotalSales > groups[j].TotalSales
		}
		return groups[i].Key < groups[j].Key
	})

	return groups
}
