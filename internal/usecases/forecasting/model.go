package forecasting

import (
	"math"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/bizpredict-api/internal/config"
	"github.com/vfg2006/bizpredict-api/internal/domain"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	DefaultMinObservations = 30
	DefaultIntervalWidth   = 0.8
	defaultRidge           = 1e-3
	hoursPerDay            = 24
)

// Seasonality is a Fourier series with the given period in days.
type Seasonality struct {
	Name   string
	Period float64
	Order  int
}

var DefaultSeasonalities = []Seasonality{
	{Name: "yearly", Period: 365.25, Order: 10},
	{Name: "weekly", Period: 7, Order: 3},
	{Name: "monthly", Period: 30.5, Order: 5},
}

type ModelConfig struct {
	Seasonalities   []Seasonality
	IntervalWidth   float64
	MinObservations int
	Ridge           float64
}

func DefaultModelConfig() ModelConfig {
	return ModelConfig{
		Seasonalities:   DefaultSeasonalities,
		IntervalWidth:   DefaultIntervalWidth,
		MinObservations: DefaultMinObservations,
		Ridge:           defaultRidge,
	}
}

func ModelConfigFrom(cfg config.Forecast) ModelConfig {
	modelConfig := DefaultModelConfig()
	if cfg.IntervalWidth > 0 && cfg.IntervalWidth < 1 {
		modelConfig.IntervalWidth = cfg.IntervalWidth
	}
	if cfg.MinObservations > 0 {
		modelConfig.MinObservations = cfg.MinObservations
	}
	return modelConfig
}

// Model is an additive daily model: linear trend plus Fourier seasonalities,
// fitted by ridge-regularised least squares on scaled time and target.
// A fitted Model is read-only and safe for concurrent use.
type Model struct {
	cfg     ModelConfig
	active  []Seasonality
	origin  time.Time
	last    time.Time
	tScale  float64
	yScale  float64
	coef    *mat.VecDense
	sigma   float64
	z       float64
	trained bool
}

func NewModel(cfg ModelConfig) *Model {
	if cfg.MinObservations < 2 {
		cfg.MinObservations = 2
	}
	if cfg.IntervalWidth <= 0 || cfg.IntervalWidth >= 1 {
		cfg.IntervalWidth = DefaultIntervalWidth
	}
	return &Model{cfg: cfg}
}

// Fit trains the model on a date-ordered daily series.
func (m *Model) Fit(history []domain.DailyTotal) error {
	if len(history) < m.cfg.MinObservations {
		return errors.Wrapf(ErrInsufficientData, "%d daily points, need at least %d", len(history), m.cfg.MinObservations)
	}

	m.trained = false
	m.origin = domain.TruncateDay(history[0].Date)
	m.last = domain.TruncateDay(history[len(history)-1].Date)

	span := m.days(m.last)
	m.tScale = span
	if m.tScale <= 0 {
		m.tScale = 1
	}

	m.active = m.active[:0]
	for _, s := range m.cfg.Seasonalities {
		if span >= 2*s.Period {
			m.active = append(m.active, s)
		}
	}

	m.yScale = 0
	for _, h := range history {
		m.yScale = math.Max(m.yScale, math.Abs(h.Sales))
	}
	if m.yScale == 0 {
		m.yScale = 1
	}

	n, p := len(history), m.columns()
	x := mat.NewDense(n, p, nil)
	y := mat.NewVecDense(n, nil)
	for i, h := range history {
		m.features(x.RawRowView(i), h.Date)
		y.SetVec(i, h.Sales/m.yScale)
	}

	var xtx mat.Dense
	xtx.Mul(x.T(), x)
	for j := 0; j < p; j++ {
		xtx.Set(j, j, xtx.At(j, j)+m.cfg.Ridge)
	}

	var xty mat.VecDense
	xty.MulVec(x.T(), y)

	coef := mat.NewVecDense(p, nil)
	if err := coef.SolveVec(&xtx, &xty); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) {
			return errors.Wrap(err, "forecast: solving normal equations")
		}
		logrus.WithField("condition", float64(cond)).Warn("forecast: normal equations are ill-conditioned")
	}

	var fitted mat.VecDense
	fitted.MulVec(x, coef)

	residuals := make([]float64, n)
	for i := range residuals {
		residuals[i] = (y.AtVec(i) - fitted.AtVec(i)) * m.yScale
	}

	m.coef = coef
	m.sigma = stat.StdDev(residuals, nil)
	m.z = distuv.UnitNormal.Quantile(0.5 + m.cfg.IntervalWidth/2)
	m.trained = true

	logrus.WithFields(logrus.Fields{
		"observations":  n,
		"seasonalities": m.ActiveSeasonalities(),
		"sigma":         m.sigma,
	}).Debug("forecast: model fitted")

	return nil
}

func (m *Model) Trained() bool {
	return m.trained
}

// LastDate is the final day of the training history.
func (m *Model) LastDate() time.Time {
	return m.last
}

func (m *Model) ActiveSeasonalities() []string {
	names := make([]string, 0, len(m.active))
	for _, s := range m.active {
		names = append(names, s.Name)
	}
	return names
}

// Predict evaluates the fitted model on arbitrary dates.
func (m *Model) Predict(dates []time.Time) ([]domain.ForecastPoint, error) {
	if !m.trained {
		return nil, ErrModelNotTrained
	}

	row := make([]float64, m.columns())
	points := make([]domain.ForecastPoint, 0, len(dates))
	for _, date := range dates {
		m.features(row, date)

		yhat := 0.0
		for j, v := range row {
			yhat += v * m.coef.AtVec(j)
		}
		yhat *= m.yScale

		half := m.z * m.sigma
		points = append(points, domain.ForecastPoint{
			Date:           domain.TruncateDay(date),
			PredictedSales: yhat,
			LowerBound:     yhat - half,
			UpperBound:     yhat + half,
		})
	}

	return points, nil
}

// FutureDates lists the periods days that follow the training history.
func (m *Model) FutureDates(periods int) ([]time.Time, error) {
	if !m.trained {
		return nil, ErrModelNotTrained
	}
	if periods < 1 || periods > MaxPeriods {
		return nil, errors.Wrapf(ErrInvalidPeriods, "got %d, want 1..%d", periods, MaxPeriods)
	}

	dates := make([]time.Time, periods)
	for i := range dates {
		dates[i] = m.last.AddDate(0, 0, i+1)
	}
	return dates, nil
}

// Forecast predicts exactly periods future days.
func (m *Model) Forecast(periods int) ([]domain.ForecastPoint, error) {
	dates, err := m.FutureDates(periods)
	if err != nil {
		return nil, err
	}
	return m.Predict(dates)
}

func (m *Model) columns() int {
	p := 2
	for _, s := range m.active {
		p += 2 * s.Order
	}
	return p
}

func (m *Model) days(date time.Time) float64 {
	return domain.TruncateDay(date).Sub(m.origin).Hours() / hoursPerDay
}

// features fills row with [1, t, sin/cos terms...] for date.
func (m *Model) features(row []float64, date time.Time) {
	d := m.days(date)
	row[0] = 1
	row[1] = d / m.tScale

	col := 2
	for _, s := range m.active {
		for k := 1; k <= s.Order; k++ {
			angle := 2 * math.Pi * float64(k) * d / s.Period
			row[col] = math.Sin(angle)
			row[col+1] = math.Cos(angle)
			col += 2
		}
	}
}
