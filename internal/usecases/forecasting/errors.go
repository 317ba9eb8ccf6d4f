package forecasting

import "errors"

var (
	ErrInsufficientData = errors.New("forecast: insufficient data")
	ErrModelNotTrained  = errors.New("forecast: model not trained")
	ErrInvalidPeriods   = errors.New("forecast: periods out of range")
	ErrLengthMismatch   = errors.New("forecast: actual and predicted series differ in length")
)

// MaxPeriods bounds the forecast horizon, in days.
const MaxPeriods = 730
