package generating

import (
	"time"

	"github.com/vfg2006/bizpredict-api/internal/domain"
)

type Summary struct {
	Transactions      int       `json:"transactions"`
	TotalSales        float64   `json:"total_sales"`
	AvgTransaction    float64   `json:"avg_transaction"`
	StartDate         time.Time `json:"start_date"`
	EndDate           time.Time `json:"end_date"`
	Regions           []string  `json:"regions"`
	ProductCategories []string  `json:"product_categories"`
	CustomerSegments  []string  `json:"customer_segments"`
}

// Summarize describes a generated table. Dimension values are listed in the
// order they first appear.
func Summarize(transactions []domain.Transaction) Summary {
	summary := Summary{Transactions: len(transactions)}
	if len(transactions) == 0 {
		return summary
	}

	seen := map[domain.Dimension]map[string]bool{
		domain.DimensionRegion:  {},
		domain.DimensionProduct: {},
		domain.DimensionSegment: {},
	}

	summary.StartDate = transactions[0].Date
	summary.EndDate = transactions[0].Date

	for _, t := range transactions {
		summary.TotalSales += t.TotalSales

		if t.Date.Before(summary.StartDate) {
			summary.StartDate = t.Date
		}
		if t.Date.After(summary.EndDate) {
			summary.EndDate = t.Date
		}

		if !seen[domain.DimensionRegion][t.Region] {
			seen[domain.DimensionRegion][t.Region] = true
			summary.Regions = append(summary.Regions, t.Region)
		}
		if !seen[domain.DimensionProduct][t.ProductCategory] {
			seen[domain.DimensionProduct][t.ProductCategory] = true
			summary.ProductCategories = append(summary.ProductCategories, t.ProductCategory)
		}
		if !seen[domain.DimensionSegment][t.CustomerSegment] {
			seen[domain.DimensionSegment][t.CustomerSegment] = true
			summary.CustomerSegments = append(summary.CustomerSegments, t.CustomerSegment)
		}
	}

	summary.AvgTransaction = summary.TotalSales / float64(len(transactions))

	return summary
}
