package analyzing

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/bizpredict-api/internal/domain"
	"github.com/vfg2006/bizpredict-api/pkg/metrics"
	"github.com/vfg2006/bizpredict-api/pkg/utils"
)

var (
	ErrDataNotLoaded = errors.New("analytics: data not loaded")
	ErrInvalidPeriod = errors.New("analytics: invalid trend period")
)

type Analyzer interface {
	// Reload swaps the dataset served by every query.
	Reload(transactions []domain.Transaction)
	Loaded() bool
	Transactions() ([]domain.Transaction, error)
	Stats() (*domain.SalesStats, error)
	Products() ([]domain.ProductStats, error)
	Regions() ([]domain.RegionStats, error)
	Trends(period domain.TrendPeriod) (*domain.Trends, error)
	Categories() ([]string, error)
	Historical(filters *domain.SalesFilters) (*domain.HistoricalSeries, error)
}

type Service struct {
	mu           sync.RWMutex
	transactions []domain.Transaction
	loaded       bool
}

func NewService() *Service {
	return &Service{}
}

func (s *Service) Reload(transactions []domain.Transaction) {
	s.mu.Lock()
	s.transactions = transactions
	s.loaded = true
	s.mu.Unlock()

	metrics.DatasetTransactions.Set(float64(len(transactions)))
	logrus.WithField("transactions", len(transactions)).Info("analytics: dataset loaded")
}

func (s *Service) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

func (s *Service) Transactions() ([]domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.loaded {
		return nil, ErrDataNotLoaded
	}
	return s.transactions, nil
}

func (s *Service) Stats() (*domain.SalesStats, error) {
	transactions, err := s.Transactions()
	if err != nil {
		return nil, err
	}

	stats := &domain.SalesStats{TotalTransactions: len(transactions)}
	if len(transactions) == 0 {
		return stats, nil
	}

	first, last := transactions[0].Date, transactions[0].Date
	for _, t := range transactions {
		stats.TotalSales += t.TotalSales
		if t.Date.Before(first) {
			first = t.Date
		}
		if t.Date.After(last) {
			last = t.Date
		}
	}

	stats.AvgTransaction = stats.TotalSales / float64(len(transactions))
	stats.DateRange = domain.DateRange{Start: utils.FormatDate(first), End: utils.FormatDate(last)}

	return stats, nil
}

func (s *Service) Products() ([]domain.ProductStats, error) {
	transactions, err := s.Transactions()
	if err != nil {
		return nil, err
	}

	groups := domain.GroupTotals(transactions, domain.DimensionProduct)
	products := make([]domain.ProductStats, 0, len(groups))
	for _, g := range groups {
		products = append(products, domain.ProductStats{
			Product:         g.Key,
			TotalSales:      utils.RoundWithTwoDecimalPlace(g.TotalSales),
			AvgSales:        utils.RoundWithTwoDecimalPlace(g.AvgSales),
			NumTransactions: g.Transactions,
		})
	}

	return products, nil
}

func (s *Service) Regions() ([]domain.RegionStats, error) {
	transactions, err := s.Transactions()
	if err != nil {
		return nil, err
	}

	groups := domain.GroupTotals(transactions, domain.DimensionRegion)
	regions := make([]domain.RegionStats, 0, len(groups))
	for _, g := range groups {
		regions = append(regions, domain.RegionStats{
			Region:          g.Key,
			TotalSales:      utils.RoundWithTwoDecimalPlace(g.TotalSales),
			AvgSales:        utils.RoundWithTwoDecimalPlace(g.AvgSales),
			NumTransactions: g.Transactions,
		})
	}

	return regions, nil
}

// ParsePeriod maps the query value to a trend period; empty means monthly.
func ParsePeriod(value string) (domain.TrendPeriod, error) {
	switch domain.TrendPeriod(value) {
	case "", domain.TrendPeriodMonthly:
		return domain.TrendPeriodMonthly, nil
	case domain.TrendPeriodDaily, domain.TrendPeriodWeekly:
		return domain.TrendPeriod(value), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPeriod, value)
}

// Trends sums sales per day, per Monday-Sunday week or per calendar month.
func (s *Service) Trends(period domain.TrendPeriod) (*domain.Trends, error) {
	transactions, err := s.Transactions()
	if err != nil {
		return nil, err
	}

	var label func(time.Time) string
	switch period {
	case domain.TrendPeriodDaily:
		label = utils.FormatDate
	case domain.TrendPeriodWeekly:
		label = weekLabel
	case domain.TrendPeriodMonthly:
		label = func(t time.Time) string { return t.Format("2006-01") }
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidPeriod, period)
	}

	sums := make(map[string]float64)
	for _, d := range domain.DailyTotals(transactions) {
		sums[label(d.Date)] += d.Sales
	}

	// Every label starts with a date prefix, so lexical order is chronological.
	labels := make([]string, 0, len(sums))
	for l := range sums {
		labels = append(labels, l)
	}
	sort.Strings(labels)

	trends := &domain.Trends{
		Periods: labels,
		Sales:   make([]float64, len(labels)),
	}
	for i, l := range labels {
		trends.Sales[i] = sums[l]
	}

	return trends, nil
}

func weekLabel(t time.Time) string {
	offset := (int(t.Weekday()) + 6) % 7
	monday := domain.TruncateDay(t).AddDate(0, 0, -offset)
	return utils.FormatDate(monday) + "/" + utils.FormatDate(monday.AddDate(0, 0, 6))
}

func (s *Service) Categories() ([]string, error) {
	transactions, err := s.Transactions()
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	categories := make([]string, 0)
	for _, t := range transactions {
		if !seen[t.ProductCategory] {
			seen[t.ProductCategory] = true
			categories = append(categories, t.ProductCategory)
		}
	}
	sort.Strings(categories)

	return categories, nil
}

// Historical returns daily totals within the optional date range and category.
func (s *Service) Historical(filters *domain.SalesFilters) (*domain.HistoricalSeries, error) {
	transactions, err := s.Transactions()
	if err != nil {
		return nil, err
	}

	daily := domain.DailyTotals(domain.Filter(transactions, filters))

	series := &domain.HistoricalSeries{
		Dates: make([]string, len(daily)),
		Sales: make([]float64, len(daily)),
	}
	for i, d := range daily {
		series.Dates[i] = utils.FormatDate(d.Date)
		series.Sales[i] = utils.RoundWithTwoDecimalPlace(d.Sales)
	}

	return series, nil
}
