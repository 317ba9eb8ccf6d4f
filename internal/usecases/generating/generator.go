package generating

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/bizpredict-api/internal/config"
	"github.com/vfg2006/bizpredict-api/internal/domain"
	"github.com/vfg2006/bizpredict-api/pkg/utils"
)

const (
	firstTransactionID  = 1000
	annualGrowth        = 0.10
	noiseStdDev         = 0.15
	minTransactionValue = 100.0
	defaultBaseAmount   = 5000.0
	weekendFactor       = 0.85
)

var (
	DefaultRegions          = []string{"Addis Ababa", "Oromia", "Amhara", "Tigray", "SNNPR", "Somali", "Afar", "Dire Dawa"}
	DefaultProducts         = []string{"Coffee", "Teff", "Electronics", "Textiles", "Spices", "Livestock", "Vegetables", "Injera", "Leather Goods", "Cereals"}
	DefaultCustomerSegments = []string{"Retail", "Wholesale", "Export", "B2B", "Direct Consumer"}
)

// baseAmounts is the typical ticket per product, in ETB.
var baseAmounts = map[string]float64{
	"Coffee":        5000,
	"Teff":          3000,
	"Electronics":   15000,
	"Textiles":      8000,
	"Spices":        2000,
	"Livestock":     20000,
	"Vegetables":    1500,
	"Injera":        1000,
	"Leather Goods": 12000,
	"Cereals":       4000,
}

var regionFactors = map[string]float64{
	"Addis Ababa": 1.3,
	"Oromia":      1.1,
	"Afar":        0.7,
}

type segmentFactor struct {
	amount   float64
	quantity int
}

var segmentFactors = map[string]segmentFactor{
	"Wholesale": {amount: 1.5, quantity: 2},
	"Export":    {amount: 2.0, quantity: 3},
}

// Config drives one generation run. Weights are optional; a nil slice means
// uniform sampling over the matching category list.
type Config struct {
	StartDate             time.Time
	EndDate               time.Time
	Seed                  int64
	Regions               []string
	ProductCategories     []string
	CustomerSegments      []string
	RegionWeights         []float64
	ProductWeights        []float64
	SegmentWeights        []float64
	MinTransactionsPerDay int
	MaxTransactionsPerDay int
}

func DefaultConfig() Config {
	return Config{
		StartDate:             time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:               time.Date(2024, 10, 31, 0, 0, 0, 0, time.UTC),
		Seed:                  42,
		Regions:               DefaultRegions,
		ProductCategories:     DefaultProducts,
		CustomerSegments:      DefaultCustomerSegments,
		MinTransactionsPerDay: 5,
		MaxTransactionsPerDay: 20,
	}
}

// ConfigFrom builds a generator Config from the application settings.
func ConfigFrom(cfg config.Generator) (Config, error) {
	start, err := time.Parse(time.DateOnly, cfg.StartDate)
	if err != nil {
		return Config{}, fmt.Errorf("generator: invalid start date %q: %w", cfg.StartDate, err)
	}

	end, err := time.Parse(time.DateOnly, cfg.EndDate)
	if err != nil {
		return Config{}, fmt.Errorf("generator: invalid end date %q: %w", cfg.EndDate, err)
	}

	return Config{
		StartDate:             start,
		EndDate:               end,
		Seed:                  cfg.Seed,
		Regions:               cfg.Regions,
		ProductCategories:     cfg.ProductCategories,
		CustomerSegments:      cfg.CustomerSegments,
		MinTransactionsPerDay: cfg.MinTransactionsDay,
		MaxTransactionsPerDay: cfg.MaxTransactionsDay,
	}, nil
}

func (c Config) Validate() error {
	if c.EndDate.Before(c.StartDate) {
		return fmt.Errorf("%w: %s > %s", ErrInvalidDateRange, utils.FormatDate(c.StartDate), utils.FormatDate(c.EndDate))
	}

	lists := []struct {
		name   string
		values []string
	}{
		{"regions", c.Regions},
		{"product categories", c.ProductCategories},
		{"customer segments", c.CustomerSegments},
	}
	for _, list := range lists {
		if len(list.values) == 0 {
			return fmt.Errorf("%w: %s", ErrEmptyCategoryList, list.name)
		}
	}

	if err := validateWeights(c.RegionWeights, len(c.Regions)); err != nil {
		return fmt.Errorf("%w: regions", err)
	}
	if err := validateWeights(c.ProductWeights, len(c.ProductCategories)); err != nil {
		return fmt.Errorf("%w: product categories", err)
	}
	if err := validateWeights(c.SegmentWeights, len(c.CustomerSegments)); err != nil {
		return fmt.Errorf("%w: customer segments", err)
	}

	if c.MinTransactionsPerDay < 1 || c.MaxTransactionsPerDay < c.MinTransactionsPerDay {
		return fmt.Errorf("%w: %d..%d", ErrInvalidTransactionRange, c.MinTransactionsPerDay, c.MaxTransactionsPerDay)
	}

	return nil
}

func validateWeights(weights []float64, size int) error {
	if weights == nil {
		return nil
	}
	if len(weights) != size {
		return ErrInvalidWeights
	}

	total := 0.0
	for _, w := range weights {
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return ErrInvalidWeights
		}
		total += w
	}
	if total == 0 {
		return ErrInvalidWeights
	}

	return nil
}

// Generator produces the synthetic transaction table. It holds no state between
// runs: every call to Generate reseeds its own source.
type Generator struct {
	cfg      Config
	progress func(done, total int)
}

func NewGenerator(cfg Config) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Generator{cfg: cfg}, nil
}

// WithProgress registers a callback invoked after each generated day.
func (g *Generator) WithProgress(fn func(done, total int)) *Generator {
	g.progress = fn
	return g
}

// Days returns the number of calendar days covered by the run.
func (g *Generator) Days() int {
	start := domain.TruncateDay(g.cfg.StartDate)
	end := domain.TruncateDay(g.cfg.EndDate)
	return int(end.Sub(start).Hours()/24) + 1
}

func (g *Generator) Generate() []domain.Transaction {
	rng := rand.New(rand.NewSource(g.cfg.Seed))

	start := domain.TruncateDay(g.cfg.StartDate)
	end := domain.TruncateDay(g.cfg.EndDate)
	totalDays := g.Days()

	logrus.WithFields(logrus.Fields{
		"start_date": utils.FormatDate(start),
		"end_date":   utils.FormatDate(end),
		"seed":       g.cfg.Seed,
	}).Info("generator: generating sales data")

	avgPerDay := (g.cfg.MinTransactionsPerDay + g.cfg.MaxTransactionsPerDay) / 2
	transactions := make([]domain.Transaction, 0, totalDays*avgPerDay)
	transactionID := int64(firstTransactionID)

	dayIndex := 0
	for date := start; !date.After(end); date = date.AddDate(0, 0, 1) {
		count := g.cfg.MinTransactionsPerDay + rng.Intn(g.cfg.MaxTransactionsPerDay-g.cfg.MinTransactionsPerDay+1)

		for i := 0; i < count; i++ {
			region := pick(rng, g.cfg.Regions, g.cfg.RegionWeights)
			product := pick(rng, g.cfg.ProductCategories, g.cfg.ProductWeights)
			segment := pick(rng, g.cfg.CustomerSegments, g.cfg.SegmentWeights)

			transactions = append(transactions, g.transaction(rng, transactionID, date, dayIndex, region, product, segment))
			transactionID++
		}

		dayIndex++
		if g.progress != nil {
			g.progress(dayIndex, totalDays)
		}
	}

	logrus.WithField("transactions", len(transactions)).Info("generator: sales data generated")

	return transactions
}

func (g *Generator) transaction(
	rng *rand.Rand,
	id int64,
	date time.Time,
	daysFromStart int,
	region, product, segment string,
) domain.Transaction {
	base, ok := baseAmounts[product]
	if !ok {
		base = defaultBaseAmount
	}

	amount := applyTrend(base, daysFromStart)
	amount = applySeasonality(amount, date)
	amount *= 1 + rng.NormFloat64()*noiseStdDev
	amount = math.Max(minTransactionValue, amount)

	unitPrice := base / 10
	quantity := int(amount / unitPrice)
	if quantity < 1 {
		quantity = 1
	}

	if factor, ok := regionFactors[region]; ok {
		amount *= factor
	}

	if factor, ok := segmentFactors[segment]; ok {
		amount *= factor.amount
		quantity *= factor.quantity
	}

	return domain.Transaction{
		TransactionID:   id,
		Date:            date,
		Region:          region,
		ProductCategory: product,
		CustomerSegment: segment,
		Quantity:        quantity,
		UnitPrice:       utils.RoundWithTwoDecimalPlace(amount / float64(quantity)),
		TotalSales:      utils.RoundWithTwoDecimalPlace(amount),
		Currency:        domain.CurrencyETB,
	}
}

func applyTrend(value float64, daysFromStart int) float64 {
	return value * (1 + annualGrowth/365*float64(daysFromStart))
}

// SeasonalFactor is the month-indexed multiplier with the Ethiopian holiday boosts
// and the weekend dip applied.
func SeasonalFactor(date time.Time) float64 {
	factor := 1 + 0.2*math.Sin(2*math.Pi*float64(date.Month())/12)

	day := date.Day()
	switch {
	case date.Month() == time.September && day >= 1 && day <= 15: // Enkutatash
		factor *= 1.5
	case date.Month() == time.January && day >= 7 && day <= 20: // Timkat
		factor *= 1.4
	case date.Month() == time.September && day >= 27 && day <= 30: // Meskel
		factor *= 1.3
	case date.Month() == time.December:
		factor *= 1.6
	}

	if date.Weekday() == time.Saturday || date.Weekday() == time.Sunday {
		factor *= weekendFactor
	}

	return factor
}

func applySeasonality(value float64, date time.Time) float64 {
	return value * SeasonalFactor(date)
}

func pick(rng *rand.Rand, values []string, weights []float64) string {
	if weights == nil {
		return values[rng.Intn(len(values))]
	}

	total := 0.0
	for _, w := range weights {
		total += w
	}

	r := rng.Float64() * total
	cumulative := 0.0
	for i, w := range weights {
		cumulative += w
		if r < cumulative {
			return values[i]
		}
	}

	return values[len(values)-1]
}
