package insighting

import (
	"errors"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/bizpredict-api/internal/config"
	"github.com/vfg2006/bizpredict-api/internal/domain"
	"github.com/vfg2006/bizpredict-api/pkg/metrics"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var ErrNoTransactions = errors.New("insight: no transactions to analyze")

type Config struct {
	// TrendThreshold is the percent change that separates growth or decline from stable.
	TrendThreshold float64
	// UnderperformRatio is the best/worst ratio above which the worst performer is a warning.
	UnderperformRatio float64
	// OpportunityFloor is the fraction of the mean regional total a region needs
	// to be considered a growth opportunity.
	OpportunityFloor  float64
	ForecastThreshold float64
}

func DefaultConfig() Config {
	return Config{
		TrendThreshold:    5,
		UnderperformRatio: 10,
		OpportunityFloor:  0.25,
		ForecastThreshold: 10,
	}
}

func ConfigFrom(cfg config.Insight) Config {
	insightConfig := DefaultConfig()
	if cfg.TrendThreshold > 0 {
		insightConfig.TrendThreshold = cfg.TrendThreshold
	}
	if cfg.UnderperformRatio > 0 {
		insightConfig.UnderperformRatio = cfg.UnderperformRatio
	}
	if cfg.OpportunityFloor > 0 {
		insightConfig.OpportunityFloor = cfg.OpportunityFloor
	}
	if cfg.ForecastThreshold > 0 {
		insightConfig.ForecastThreshold = cfg.ForecastThreshold
	}
	return insightConfig
}

// Insighter derives labelled findings from the transaction and forecast tables.
type Insighter interface {
	Generate(transactions []domain.Transaction, forecast []domain.ForecastPoint) ([]domain.Insight, error)
}

// Engine applies a fixed, ordered set of aggregation rules. It keeps no state
// between calls.
type Engine struct {
	cfg     Config
	printer *message.Printer
}

func NewEngine(cfg Config) *Engine {
	return &Engine{
		cfg:     cfg,
		printer: message.NewPrinter(language.English),
	}
}

type rule func(e *Engine, in *input) []domain.Insight

// rules run in this order; each is independent of the others.
var rules = []rule{
	(*Engine).trend,
	(*Engine).momentum,
	(*Engine).seasonality,
	(*Engine).products,
	(*Engine).regions,
	(*Engine).segments,
	(*Engine).growthOpportunity,
	(*Engine).forecastOutlook,
}

// Generate runs every rule over the tables. forecast may be empty.
func (e *Engine) Generate(transactions []domain.Transaction, forecast []domain.ForecastPoint) ([]domain.Insight, error) {
	if len(transactions) == 0 {
		return nil, ErrNoTransactions
	}

	in := newInput(transactions, forecast)

	insights := make([]domain.Insight, 0)
	for _, r := range rules {
		insights = append(insights, r(e, in)...)
	}

	for _, insight := range insights {
		metrics.InsightsGenerated.WithLabelValues(string(insight.Severity)).Inc()
	}

	logrus.WithField("insights", len(insights)).Info("insight: insights generated")

	return insights, nil
}

func (e *Engine) money(amount float64) string {
	return e.printer.Sprintf("ETB %.2f", amount)
}

func (e *Engine) percent(value float64) string {
	return e.printer.Sprintf("%.1f%%", value)
}
