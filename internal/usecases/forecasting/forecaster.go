package forecasting

import (
	"sort"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/bizpredict-api/internal/domain"
	"github.com/vfg2006/bizpredict-api/pkg/metrics"
	"github.com/vfg2006/bizpredict-api/pkg/utils"
)

// PrepareData aggregates transactions to daily totals and holds out the last
// testSize days. A testSize that leaves no training day disables the split.
func PrepareData(transactions []domain.Transaction, testSize int) (train, test []domain.DailyTotal) {
	daily := domain.DailyTotals(transactions)
	if testSize <= 0 || testSize >= len(daily) {
		return daily, nil
	}

	split := len(daily) - testSize
	return daily[:split], daily[split:]
}

// SalesForecaster trains on a train/test split, evaluates on the tail and
// forecasts from the full history.
type SalesForecaster struct {
	cfg   ModelConfig
	model *Model
	train []domain.DailyTotal
	test  []domain.DailyTotal
}

func NewSalesForecaster(cfg ModelConfig) *SalesForecaster {
	return &SalesForecaster{cfg: cfg}
}

func (f *SalesForecaster) PrepareData(transactions []domain.Transaction, testSize int) {
	f.train, f.test = PrepareData(transactions, testSize)

	logrus.WithFields(logrus.Fields{
		"train_days": len(f.train),
		"test_days":  len(f.test),
	}).Info("forecast: data prepared")
}

// Train fits the model on the training split.
func (f *SalesForecaster) Train() error {
	return f.fit(f.train, "overall")
}

// Refit retrains on train and test together so the horizon starts after the
// last observed day.
func (f *SalesForecaster) Refit() error {
	history := make([]domain.DailyTotal, 0, len(f.train)+len(f.test))
	history = append(history, f.train...)
	history = append(history, f.test...)
	return f.fit(history, "overall")
}

func (f *SalesForecaster) fit(history []domain.DailyTotal, scope string) error {
	start := time.Now()

	model := NewModel(f.cfg)
	if err := model.Fit(history); err != nil {
		return err
	}

	metrics.ModelTrainingDuration.WithLabelValues(scope).Observe(time.Since(start).Seconds())
	f.model = model
	return nil
}

// Evaluate scores the trained model on the held-out tail.
func (f *SalesForecaster) Evaluate() (*domain.EvaluationMetrics, error) {
	if f.model == nil {
		return nil, ErrModelNotTrained
	}
	if len(f.test) == 0 {
		return nil, errors.Wrap(ErrInsufficientData, "no held-out days to evaluate")
	}

	dates := make([]time.Time, len(f.test))
	for i, t := range f.test {
		dates[i] = t.Date
	}

	points, err := f.model.Predict(dates)
	if err != nil {
		return nil, err
	}

	evaluation, err := Evaluate(values(f.test), predictions(points))
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"mae":  evaluation.MAE,
		"rmse": evaluation.RMSE,
		"mape": evaluation.MAPE,
		"r2":   evaluation.R2,
	}).Info("forecast: model evaluated")

	return &evaluation, nil
}

func (f *SalesForecaster) Forecast(periods int) ([]domain.ForecastPoint, error) {
	if f.model == nil {
		return nil, ErrModelNotTrained
	}
	return f.model.Forecast(periods)
}

// Run trains, evaluates when a test tail exists, refits on the full series and
// forecasts periods days.
func (f *SalesForecaster) Run(transactions []domain.Transaction, testSize, periods int) (*domain.ForecastRun, error) {
	if periods < 1 || periods > MaxPeriods {
		return nil, errors.Wrapf(ErrInvalidPeriods, "got %d, want 1..%d", periods, MaxPeriods)
	}

	f.PrepareData(transactions, testSize)

	var evaluation *domain.EvaluationMetrics
	if len(f.test) > 0 {
		if err := f.Train(); err != nil {
			return nil, err
		}

		var err error
		evaluation, err = f.Evaluate()
		if err != nil {
			return nil, err
		}
	}

	if err := f.Refit(); err != nil {
		return nil, err
	}

	points, err := f.Forecast(periods)
	if err != nil {
		return nil, err
	}

	return &domain.ForecastRun{
		RunID:      newRunID(),
		TrainedAt:  time.Now().UTC(),
		Points:     points,
		Evaluation: evaluation,
		Summary:    domain.SummarizeForecast(points),
	}, nil
}

// CategoryPoint is one row of the combined per-category forecast.
type CategoryPoint struct {
	Date           time.Time `json:"date"`
	Category       string    `json:"category"`
	PredictedSales float64   `json:"predicted_sales"`
}

// CategoryForecaster fits one model per product category.
type CategoryForecaster struct {
	cfg        ModelConfig
	categories []string
	models     map[string]*SalesForecaster
	forecasts  map[string][]domain.ForecastPoint
}

func NewCategoryForecaster(cfg ModelConfig) *CategoryForecaster {
	return &CategoryForecaster{
		cfg:       cfg,
		models:    make(map[string]*SalesForecaster),
		forecasts: make(map[string][]domain.ForecastPoint),
	}
}

// TrainAll trains a model per category on its training split. Categories are
// processed in lexical order.
func (c *CategoryForecaster) TrainAll(transactions []domain.Transaction, testSize int) error {
	byCategory := make(map[string][]domain.Transaction)
	for _, t := range transactions {
		byCategory[t.ProductCategory] = append(byCategory[t.ProductCategory], t)
	}

	c.categories = c.categories[:0]
	for category := range byCategory {
		c.categories = append(c.categories, category)
	}
	sort.Strings(c.categories)

	logrus.WithField("categories", len(c.categories)).Info("forecast: training category models")

	for _, category := range c.categories {
		forecaster := NewSalesForecaster(c.cfg)
		forecaster.PrepareData(byCategory[category], testSize)

		if err := forecaster.fit(forecaster.train, category); err != nil {
			return errors.Wrapf(err, "category %s", category)
		}

		c.models[category] = forecaster
	}

	return nil
}

func (c *CategoryForecaster) Categories() []string {
	return c.categories
}

func (c *CategoryForecaster) ForecastAll(periods int) (map[string][]domain.ForecastPoint, error) {
	if len(c.models) == 0 {
		return nil, ErrModelNotTrained
	}

	for _, category := range c.categories {
		points, err := c.models[category].Forecast(periods)
		if err != nil {
			return nil, errors.Wrapf(err, "category %s", category)
		}
		c.forecasts[category] = points
	}

	return c.forecasts, nil
}

// Combined flattens the last ForecastAll result, grouped by category then date.
func (c *CategoryForecaster) Combined() []CategoryPoint {
	combined := make([]CategoryPoint, 0)
	for _, category := range c.categories {
		for _, p := range c.forecasts[category] {
			combined = append(combined, CategoryPoint{
				Date:           p.Date,
				Category:       category,
				PredictedSales: p.PredictedSales,
			})
		}
	}
	return combined
}

// newRunID falls back to a time-based id when the random source fails.
func newRunID() string {
	id, err := utils.GenerateID()
	if err != nil {
		logrus.WithError(err).Warn("forecast: generating run id")
		return strconv.FormatInt(time.Now().UnixNano(), 36)
	}
	return id
}
