package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/bizpredict-api/internal/domain"
	"github.com/vfg2006/bizpredict-api/pkg/utils"
)

var (
	transactionColumns = []string{
		"transaction_id", "date", "region", "product_category", "customer_segment",
		"quantity", "unit_price", "total_sales", "currency",
	}
	forecastColumns = []string{"date", "predicted_sales", "lower_bound", "upper_bound"}
	insightColumns  = []string{"category", "severity", "title", "message", "recommendation", "supporting_metric"}
)

// CSVStore keeps each artifact in its own CSV file with a header row.
type CSVStore struct {
	transactionsPath string
	forecastPath     string
	insightsPath     string
}

func NewCSVStore(transactionsPath, forecastPath, insightsPath string) *CSVStore {
	return &CSVStore{
		transactionsPath: transactionsPath,
		forecastPath:     forecastPath,
		insightsPath:     insightsPath,
	}
}

func (s *CSVStore) SaveTransactions(_ context.Context, transactions []domain.Transaction) error {
	rows := make([][]string, 0, len(transactions))
	for _, t := range transactions {
		rows = append(rows, []string{
			strconv.FormatInt(t.TransactionID, 10),
			utils.FormatDate(t.Date),
			t.Region,
			t.ProductCategory,
			t.CustomerSegment,
			strconv.Itoa(t.Quantity),
			utils.FormatMoney(t.UnitPrice),
			utils.FormatMoney(t.TotalSales),
			t.Currency,
		})
	}
	return writeCSV(s.transactionsPath, transactionColumns, rows)
}

func (s *CSVStore) LoadTransactions(_ context.Context) ([]domain.Transaction, error) {
	records, err := readCSV(s.transactionsPath, transactionColumns)
	if err != nil {
		return nil, err
	}

	transactions := make([]domain.Transaction, 0, len(records))
	for i, r := range records {
		t, err := parseTransaction(r)
		if err != nil {
			return nil, fmt.Errorf("repository: %s line %d: %w", s.transactionsPath, i+2, err)
		}
		transactions = append(transactions, t)
	}

	return transactions, nil
}

func (s *CSVStore) SaveForecast(_ context.Context, points []domain.ForecastPoint) error {
	rows := make([][]string, 0, len(points))
	for _, p := range points {
		rows = append(rows, []string{
			utils.FormatDate(p.Date),
			utils.FormatMoney(p.PredictedSales),
			utils.FormatMoney(p.LowerBound),
			utils.FormatMoney(p.UpperBound),
		})
	}
	return writeCSV(s.forecastPath, forecastColumns, rows)
}

func (s *CSVStore) LoadForecast(_ context.Context) ([]domain.ForecastPoint, error) {
	records, err := readCSV(s.forecastPath, forecastColumns)
	if err != nil {
		return nil, err
	}

	points := make([]domain.ForecastPoint, 0, len(records))
	for i, r := range records {
		date, err := time.Parse(time.DateOnly, r["date"])
		if err != nil {
			return nil, fmt.Errorf("repository: %s line %d: %w", s.forecastPath, i+2, err)
		}

		values, err := parseMoney(r["predicted_sales"], r["lower_bound"], r["upper_bound"])
		if err != nil {
			return nil, fmt.Errorf("repository: %s line %d: %w", s.forecastPath, i+2, err)
		}

		points = append(points, domain.ForecastPoint{
			Date:           date,
			PredictedSales: values[0],
			LowerBound:     values[1],
			UpperBound:     values[2],
		})
	}

	return points, nil
}

func (s *CSVStore) SaveInsights(_ context.Context, insights []domain.Insight) error {
	rows := make([][]string, 0, len(insights))
	for _, in := range insights {
		rows = append(rows, []string{
			in.Category,
			string(in.Severity),
			in.Title,
			in.Message,
			in.Recommendation,
			strconv.FormatFloat(in.SupportingMetric, 'f', -1, 64),
		})
	}
	return writeCSV(s.insightsPath, insightColumns, rows)
}

func (s *CSVStore) LoadInsights(_ context.Context) ([]domain.Insight, error) {
	records, err := readCSV(s.insightsPath, insightColumns)
	if err != nil {
		return nil, err
	}

	insights := make([]domain.Insight, 0, len(records))
	for i, r := range records {
		severity := domain.Severity(r["severity"])
		if !severity.Valid() {
			return nil, fmt.Errorf("repository: %s line %d: unknown severity %q", s.insightsPath, i+2, severity)
		}

		metric, err := strconv.ParseFloat(r["supporting_metric"], 64)
		if err != nil {
			return nil, fmt.Errorf("repository: %s line %d: %w", s.insightsPath, i+2, err)
		}

		insights = append(insights, domain.Insight{
			Category:         r["category"],
			Severity:         severity,
			Title:            r["title"],
			Message:          r["message"],
			Recommendation:   r["recommendation"],
			SupportingMetric: metric,
		})
	}

	return insights, nil
}

func parseTransaction(r map[string]string) (domain.Transaction, error) {
	id, err := strconv.ParseInt(r["transaction_id"], 10, 64)
	if err != nil {
		return domain.Transaction{}, err
	}

	date, err := time.Parse(time.DateOnly, r["date"])
	if err != nil {
		return domain.Transaction{}, err
	}

	quantity, err := strconv.Atoi(r["quantity"])
	if err != nil {
		return domain.Transaction{}, err
	}

	money, err := parseMoney(r["unit_price"], r["total_sales"])
	if err != nil {
		return domain.Transaction{}, err
	}

	return domain.Transaction{
		TransactionID:   id,
		Date:            date,
		Region:          r["region"],
		ProductCategory: r["product_category"],
		CustomerSegment: r["customer_segment"],
		Quantity:        quantity,
		UnitPrice:       money[0],
		TotalSales:      money[1],
		Currency:        r["currency"],
	}, nil
}

func parseMoney(values ...string) ([]float64, error) {
	parsed := make([]float64, len(values))
	for i, v := range values {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return nil, fmt.Errorf("parsing amount %q: %w", v, err)
		}
		parsed[i] = d.InexactFloat64()
	}
	return parsed, nil
}

// writeCSV replaces path atomically through a temporary file in the same directory.
func writeCSV(path string, header []string, rows [][]string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("repository: creating %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("repository: creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(header); err != nil {
		tmp.Close()
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		tmp.Close()
		return fmt.Errorf("repository: writing %s: %w", path, err)
	}

	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("repository: replacing %s: %w", path, err)
	}

	logrus.WithFields(logrus.Fields{
		"path": path,
		"rows": len(rows),
	}).Info("repository: csv saved")

	return nil
}

// readCSV returns one map per data row keyed by column name. Columns may
// appear in any order; every required column must be present.
func readCSV(path string, required []string) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("repository: %s is empty", path)
		}
		return nil, err
	}

	index := make(map[string]int, len(header))
	for i, column := range header {
		index[column] = i
	}
	for _, column := range required {
		if _, ok := index[column]; !ok {
			return nil, fmt.Errorf("repository: %s is missing column %q", path, column)
		}
	}

	records := make([]map[string]string, 0)
	for line := 2; ; line++ {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		record := make(map[string]string, len(required))
		for _, column := range required {
			i := index[column]
			if i >= len(row) {
				return nil, fmt.Errorf("repository: %s line %d: missing %q", path, line, column)
			}
			record[column] = row[i]
		}
		records = append(records, record)
	}

	return records, nil
}
