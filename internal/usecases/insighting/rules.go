package insighting

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/vfg2006/bizpredict-api/internal/domain"
)

const (
	rollingWindow  = 3
	momentumMonths = 3
	seasonTopN     = 3
	outlookWindow  = 30
)

// input holds the aggregations shared by the rules.
type input struct {
	transactions []domain.Transaction
	forecast     []domain.ForecastPoint
	daily        []domain.DailyTotal
	monthly      []float64
}

func newInput(transactions []domain.Transaction, forecast []domain.ForecastPoint) *input {
	in := &input{
		transactions: transactions,
		forecast:     forecast,
		daily:        domain.DailyTotals(transactions),
	}

	byMonth := make(map[string]float64)
	for _, d := range in.daily {
		byMonth[d.Date.Format("2006-01")] += d.Sales
	}

	months := make([]string, 0, len(byMonth))
	for month := range byMonth {
		months = append(months, month)
	}
	sort.Strings(months)

	for _, month := range months {
		in.monthly = append(in.monthly, byMonth[month])
	}

	return in
}

func (e *Engine) trend(in *input) []domain.Insight {
	if len(in.monthly) < 2 {
		return nil
	}

	// Short histories shrink the window so first and last stay distinct.
	rolling := rollingMean(in.monthly, min(rollingWindow, len(in.monthly)-1))
	first, last := rolling[0], rolling[len(rolling)-1]
	if first <= 0 {
		return nil
	}

	change := (last - first) / first * 100
	message := fmt.Sprintf("3-month average sales moved from %s to %s (%s)", e.money(first), e.money(last), e.percent(change))

	switch {
	case change > e.cfg.TrendThreshold:
		return []domain.Insight{{
			Category:         domain.InsightCategoryGrowth,
			Severity:         domain.SeverityPositive,
			Title:            "Upward Sales Trend",
			Message:          message,
			Recommendation:   "Scale operations to meet increasing demand",
			SupportingMetric: change,
		}}
	case change < -e.cfg.TrendThreshold:
		return []domain.Insight{{
			Category:         domain.InsightCategoryGrowth,
			Severity:         domain.SeverityWarning,
			Title:            "Downward Sales Trend",
			Message:          message,
			Recommendation:   "Review pricing, marketing, and product mix",
			SupportingMetric: change,
		}}
	default:
		return []domain.Insight{{
			Category:         domain.InsightCategoryGrowth,
			Severity:         domain.SeverityInfo,
			Title:            "Stable Sales Trend",
			Message:          message,
			Recommendation:   "Maintain current operations and monitor for changes",
			SupportingMetric: change,
		}}
	}
}

func (e *Engine) momentum(in *input) []domain.Insight {
	rates := growthRates(in.monthly)
	if len(rates) == 0 {
		return nil
	}

	average := mean(rates)
	recent := mean(rates[max(0, len(rates)-momentumMonths):])

	if recent <= average+e.cfg.TrendThreshold {
		return nil
	}

	return []domain.Insight{{
		Category:         domain.InsightCategoryGrowth,
		Severity:         domain.SeverityPositive,
		Title:            "Accelerating Growth",
		Message:          fmt.Sprintf("Recent growth (%s) exceeds average (%s)", e.percent(recent), e.percent(average)),
		Recommendation:   "Invest in inventory and marketing to capitalize on momentum",
		SupportingMetric: recent,
	}}
}

func (e *Engine) seasonality(in *input) []domain.Insight {
	type monthAverage struct {
		month   time.Month
		average float64
	}

	sums := make(map[time.Month]float64)
	counts := make(map[time.Month]int)
	for _, t := range in.transactions {
		sums[t.Date.Month()] += t.TotalSales
		counts[t.Date.Month()]++
	}

	// Months rank by mean sale value per transaction.
	averages := make([]monthAverage, 0, len(sums))
	for month, sum := range sums {
		averages = append(averages, monthAverage{month: month, average: sum / float64(counts[month])})
	}

	sort.Slice(averages, func(i, j int) bool {
		if averages[i].average != averages[j].average {
			return averages[i].average > averages[j].average
		}
		return averages[i].month < averages[j].month
	})

	n := min(seasonTopN, len(averages))

	peak := make([]string, 0, n)
	for _, a := range averages[:n] {
		peak = append(peak, a.month.String())
	}

	low := make([]string, 0, n)
	for i := len(averages) - 1; i >= len(averages)-n; i-- {
		low = append(low, averages[i].month.String())
	}

	peakNames, lowNames := strings.Join(peak, ", "), strings.Join(low, ", ")

	return []domain.Insight{
		{
			Category:         domain.InsightCategorySeasonality,
			Severity:         domain.SeverityInfo,
			Title:            "Peak Sales Periods",
			Message:          "Highest sales occur in " + peakNames,
			Recommendation:   "Increase inventory and staffing during " + peakNames,
			SupportingMetric: averages[0].average,
		},
		{
			Category:         domain.InsightCategorySeasonality,
			Severity:         domain.SeverityInfo,
			Title:            "Low Sales Periods",
			Message:          "Lowest sales occur in " + lowNames,
			Recommendation:   "Run promotions and marketing campaigns during " + lowNames,
			SupportingMetric: averages[len(averages)-1].average,
		},
	}
}

// performer describes the wording of the best/worst rule for one dimension.
type performer struct {
	dimension domain.Dimension
	category  string
	bestTitle string
	bestRec   string
	worstRec  string
}

var (
	productPerformer = performer{
		dimension: domain.DimensionProduct,
		category:  domain.InsightCategoryProducts,
		bestTitle: "Top Performer",
		bestRec:   "Expand %s product line and increase marketing investment",
		worstRec:  "Consider discontinuing or repositioning %s",
	}
	regionPerformer = performer{
		dimension: domain.DimensionRegion,
		category:  domain.InsightCategoryGeography,
		bestTitle: "Top Regional Market",
		bestRec:   "Use %s as model for other regions",
		worstRec:  "Review distribution and pricing in %s",
	}
	segmentPerformer = performer{
		dimension: domain.DimensionSegment,
		category:  domain.InsightCategoryCustomers,
		bestTitle: "Primary Customer Base",
		bestRec:   "Develop loyalty programs and exclusive offers for %s customers",
		worstRec:  "Tailor offers to win more %s customers",
	}
)

func (e *Engine) products(in *input) []domain.Insight {
	return e.performers(in, productPerformer)
}

func (e *Engine) regions(in *input) []domain.Insight {
	return e.performers(in, regionPerformer)
}

func (e *Engine) segments(in *input) []domain.Insight {
	return e.performers(in, segmentPerformer)
}

// performers reports the best and the worst group of a dimension, ranked by
// total sales with ties broken by name.
func (e *Engine) performers(in *input, p performer) []domain.Insight {
	groups := domain.GroupTotals(in.transactions, p.dimension)
	if len(groups) == 0 {
		return nil
	}

	best := groups[0]
	insights := []domain.Insight{{
		Category:         p.category,
		Severity:         domain.SeverityPositive,
		Title:            fmt.Sprintf("%s - %s", best.Key, p.bestTitle),
		Message:          fmt.Sprintf("Generated %s in total sales", e.money(best.TotalSales)),
		Recommendation:   fmt.Sprintf(p.bestRec, best.Key),
		SupportingMetric: best.TotalSales,
	}}

	if len(groups) < 2 {
		return insights
	}

	worst := groups[len(groups)-1]
	ratio := math.Inf(1)
	if worst.TotalSales > 0 {
		ratio = best.TotalSales / worst.TotalSales
	}

	worstInsight := domain.Insight{
		Category:         p.category,
		Severity:         domain.SeverityInfo,
		Title:            fmt.Sprintf("%s - Lowest Performer", worst.Key),
		Message:          fmt.Sprintf("Generated %s in total sales (vs %s for %s)", e.money(worst.TotalSales), e.money(best.TotalSales), best.Key),
		Recommendation:   fmt.Sprintf(p.worstRec, worst.Key),
		SupportingMetric: worst.TotalSales,
	}
	if ratio > e.cfg.UnderperformRatio {
		worstInsight.Severity = domain.SeverityWarning
		worstInsight.Title = fmt.Sprintf("%s - Underperforming", worst.Key)
	}

	return append(insights, worstInsight)
}

// growthOpportunity flags the weakest region that still carries a meaningful
// share of sales.
func (e *Engine) growthOpportunity(in *input) []domain.Insight {
	groups := domain.GroupTotals(in.transactions, domain.DimensionRegion)
	if len(groups) < 2 {
		return nil
	}

	var total float64
	for _, g := range groups {
		total += g.TotalSales
	}
	floor := e.cfg.OpportunityFloor * total / float64(len(groups))

	for i := len(groups) - 1; i >= 0; i-- {
		g := groups[i]
		if g.TotalSales < floor {
			continue
		}

		return []domain.Insight{{
			Category:         domain.InsightCategoryGeography,
			Severity:         domain.SeverityWarning,
			Title:            fmt.Sprintf("%s - Growth Opportunity", g.Key),
			Message:          fmt.Sprintf("Underdeveloped market with only %s", e.money(g.TotalSales)),
			Recommendation:   fmt.Sprintf("Increase marketing and distribution efforts in %s", g.Key),
			SupportingMetric: g.TotalSales,
		}}
	}

	return nil
}

func (e *Engine) forecastOutlook(in *input) []domain.Insight {
	if len(in.forecast) == 0 || len(in.daily) == 0 {
		return nil
	}

	recentDays := in.daily[max(0, len(in.daily)-outlookWindow):]
	recent := 0.0
	for _, d := range recentDays {
		recent += d.Sales
	}
	recent /= float64(len(recentDays))

	if recent <= 0 {
		return nil
	}

	forecastDays := in.forecast[max(0, len(in.forecast)-outlookWindow):]
	expected := 0.0
	for _, p := range forecastDays {
		expected += p.PredictedSales
	}
	expected /= float64(len(forecastDays))

	change := (expected - recent) / recent * 100

	switch {
	case change > e.cfg.ForecastThreshold:
		return []domain.Insight{{
			Category:         domain.InsightCategoryForecast,
			Severity:         domain.SeverityPositive,
			Title:            "Strong Growth Expected",
			Message:          fmt.Sprintf("Forecasted sales %s higher than current levels", e.percent(change)),
			Recommendation:   "Prepare for increased demand with inventory and staffing",
			SupportingMetric: change,
		}}
	case change < -e.cfg.ForecastThreshold:
		return []domain.Insight{{
			Category:         domain.InsightCategoryForecast,
			Severity:         domain.SeverityWarning,
			Title:            "Sales Decline Expected",
			Message:          fmt.Sprintf("Forecasted sales %s lower than current levels", e.percent(math.Abs(change))),
			Recommendation:   "Implement promotional campaigns and review pricing strategy",
			SupportingMetric: change,
		}}
	default:
		return []domain.Insight{{
			Category:         domain.InsightCategoryForecast,
			Severity:         domain.SeverityInfo,
			Title:            "Stable Sales Expected",
			Message:          fmt.Sprintf("Forecasted sales remain within ±%s of current levels", e.percent(e.cfg.ForecastThreshold)),
			Recommendation:   "Maintain current operations and monitor for changes",
			SupportingMetric: change,
		}}
	}
}

func rollingMean(values []float64, window int) []float64 {
	out := make([]float64, 0, len(values)-window+1)
	for i := window - 1; i < len(values); i++ {
		out = append(out, mean(values[i-window+1:i+1]))
	}
	return out
}

// growthRates returns month-over-month percent changes, skipping months that
// follow a zero total.
func growthRates(monthly []float64) []float64 {
	rates := make([]float64, 0, len(monthly))
	for i := 1; i < len(monthly); i++ {
		if monthly[i-1] == 0 {
			continue
		}
		rates = append(rates, (monthly[i]-monthly[i-1])/monthly[i-1]*100)
	}
	return rates
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
