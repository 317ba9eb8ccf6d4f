package generating

import "errors"

var (
	ErrInvalidDateRange        = errors.New("generator: end date is before start date")
	ErrEmptyCategoryList       = errors.New("generator: category list is empty")
	ErrInvalidWeights          = errors.New("generator: weights must be non-negative and match the category list")
	ErrInvalidTransactionRange = errors.New("generator: invalid transactions per day range")
)
