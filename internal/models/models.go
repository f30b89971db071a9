package models

import (
	"time"
)

// FieldNames lists the five required numeric fields of an OHLCV series, in
// canonical order.
var FieldNames = []string{"open", "high", "low", "close", "volume"}

// DailyBar represents one finalized daily OHLCV bar
type DailyBar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// Validate validates a DailyBar
func (b *DailyBar) Validate() error {
	if b.Date.IsZero() {
		return ErrInvalidTimestamp
	}
	if b.High < b.Low {
		return ErrInvalidBar
	}
	if b.Volume < 0 {
		return ErrInvalidVolume
	}
	return nil
}

// Series is a time-ordered OHLCV series stored column-wise. All columns share
// the same length and index as Dates; evaluation never mutates a Series.
type Series struct {
	Dates  []time.Time `json:"dates"`
	Open   []float64   `json:"open"`
	High   []float64   `json:"high"`
	Low    []float64   `json:"low"`
	Close  []float64   `json:"close"`
	Volume []float64   `json:"volume"`
}

// NewSeries builds a column-wise Series from bars
func NewSeries(bars []DailyBar) *Series {
	s := &Series{
		Dates:  make([]time.Time, len(bars)),
		Open:   make([]float64, len(bars)),
		High:   make([]float64, len(bars)),
		Low:    make([]float64, len(bars)),
		Close:  make([]float64, len(bars)),
		Volume: make([]float64, len(bars)),
	}
	for i, b := range bars {
		s.Dates[i] = b.Date
		s.Open[i] = b.Open
		s.High[i] = b.High
		s.Low[i] = b.Low
		s.Close[i] = b.Close
		s.Volume[i] = b.Volume
	}
	return s
}

// Len returns the number of bars
func (s *Series) Len() int {
	return len(s.Dates)
}

// Field returns the named column, or a DataError if the field is unknown or
// absent. The name must already be one of FieldNames (no lookback suffix).
func (s *Series) Field(name string) ([]float64, error) {
	var col []float64
	switch name {
	case "open":
		col = s.Open
	case "high":
		col = s.High
	case "low":
		col = s.Low
	case "close":
		col = s.Close
	case "volume":
		col = s.Volume
	default:
		return nil, NewFieldDataError(name, "unknown field")
	}
	if col == nil {
		return nil, NewFieldDataError(name, "required field is missing")
	}
	return col, nil
}

// Validate checks the series contract: all five required columns present with
// the same length as the index, timestamps ascending with no duplicates.
func (s *Series) Validate() error {
	if s == nil {
		return NewDataError("series is nil")
	}
	n := len(s.Dates)
	if n == 0 {
		return NewDataError("series is empty")
	}
	cols := map[string][]float64{
		"open":   s.Open,
		"high":   s.High,
		"low":    s.Low,
		"close":  s.Close,
		"volume": s.Volume,
	}
	for _, name := range FieldNames {
		col := cols[name]
		if col == nil {
			return NewFieldDataError(name, "required field is missing")
		}
		if len(col) != n {
			return NewFieldDataError(name, "length %d does not match index length %d", len(col), n)
		}
	}
	for i := 1; i < n; i++ {
		if !s.Dates[i].After(s.Dates[i-1]) {
			return NewDataError("timestamps not strictly ascending at index %d", i)
		}
	}
	return nil
}
