// Package data loads daily OHLCV series from CSV files and generates
// synthetic series for demos and tests.
package data

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Carnage203/nl-to-dsl-strategy-compiler/internal/models"
)

// requiredColumns must all be present in the CSV header, by any casing
var requiredColumns = append([]string{"date"}, models.FieldNames...)

var dateLayouts = []string{"2006-01-02", time.RFC3339, "2006-01-02 15:04:05"}

// LoadCSV reads a daily OHLCV series from the file at path. The header row
// names the columns; order does not matter. A missing column or an
// unparseable cell is a data fault naming the offending field.
func LoadCSV(path string) (*models.Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, models.NewDataError("open csv: %v", err)
	}
	defer f.Close()
	return ReadCSV(f)
}

// ReadCSV parses a daily OHLCV series from r
func ReadCSV(r io.Reader) (*models.Series, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, models.NewDataError("read csv header: %v", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, models.NewFieldDataError(col, "column missing from csv header")
		}
	}

	var bars []models.DailyBar
	for row := 2; ; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, models.NewDataError("read csv row %d: %v", row, err)
		}

		date, err := parseDate(record[index["date"]])
		if err != nil {
			return nil, models.NewFieldDataError("date", "row %d: %v", row, err)
		}

		bar := models.DailyBar{Date: date}
		for _, field := range models.FieldNames {
			value, err := strconv.ParseFloat(strings.TrimSpace(record[index[field]]), 64)
			if err != nil {
				return nil, models.NewFieldDataError(field, "row %d: %v", row, err)
			}
			switch field {
			case "open":
				bar.Open = value
			case "high":
				bar.High = value
			case "low":
				bar.Low = value
			case "close":
				bar.Close = value
			case "volume":
				bar.Volume = value
			}
		}
		bars = append(bars, bar)
	}

	series := models.NewSeries(bars)
	if err := series.Validate(); err != nil {
		return nil, err
	}
	return series, nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t.UTC(), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
