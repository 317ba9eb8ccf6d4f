package domain

type Severity string

const (
	SeverityPositive Severity = "positive"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// Valid reports whether s is one of the known severities.
func (s Severity) Valid() bool {
	return s == SeverityPositive || s == SeverityWarning || s == SeverityInfo
}

const (
	InsightCategoryGrowth      = "Growth"
	InsightCategorySeasonality = "Seasonality"
	InsightCategoryProducts    = "Products"
	InsightCategoryGeography   = "Geography"
	InsightCategoryCustomers   = "Customers"
	InsightCategoryForecast    = "Forecast"
)

// Insight is a labelled finding derived from one aggregation rule.
type Insight struct {
	Category         string   `json:"category"`
	Severity         Severity `json:"severity"`
	Title            string   `json:"title"`
	Message          string   `json:"message"`
	Recommendation   string   `json:"recommendation"`
	SupportingMetric float64  `json:"supporting_metric"`
}
