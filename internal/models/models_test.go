package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(i int) time.Time {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i)
}

func validSeries(n int) *Series {
	bars := make([]DailyBar, n)
	for i := range bars {
		price := 100.0 + float64(i)
		bars[i] = DailyBar{
			Date:   day(i),
			Open:   price,
			High:   price + 1,
			Low:    price - 1,
			Close:  price + 0.5,
			Volume: 1_000_000,
		}
	}
	return NewSeries(bars)
}

func TestDailyBar_Validate(t *testing.T) {
	bar := DailyBar{Date: day(0), Open: 100, High: 101, Low: 99, Close: 100.5, Volume: 1000}
	require.NoError(t, bar.Validate())

	bad := bar
	bad.Date = time.Time{}
	assert.ErrorIs(t, bad.Validate(), ErrInvalidTimestamp)

	bad = bar
	bad.High, bad.Low = 99, 101
	assert.ErrorIs(t, bad.Validate(), ErrInvalidBar)

	bad = bar
	bad.Volume = -1
	assert.ErrorIs(t, bad.Validate(), ErrInvalidVolume)
}

func TestSeries_Validate(t *testing.T) {
	s := validSeries(10)
	require.NoError(t, s.Validate())
	assert.Equal(t, 10, s.Len())
}

func TestSeries_Validate_MissingField(t *testing.T) {
	s := validSeries(10)
	s.Volume = nil

	err := s.Validate()
	require.Error(t, err)

	var de *DataError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "volume", de.Field)
}

func TestSeries_Validate_MisalignedColumn(t *testing.T) {
	s := validSeries(10)
	s.Close = s.Close[:5]

	var de *DataError
	require.ErrorAs(t, s.Validate(), &de)
	assert.Equal(t, "close", de.Field)
}

func TestSeries_Validate_UnorderedDates(t *testing.T) {
	s := validSeries(10)
	s.Dates[5] = s.Dates[4] // duplicate timestamp

	var de *DataError
	require.ErrorAs(t, s.Validate(), &de)
}

func TestSeries_Field(t *testing.T) {
	s := validSeries(3)

	for _, name := range FieldNames {
		col, err := s.Field(name)
		require.NoError(t, err, name)
		assert.Len(t, col, 3)
	}

	_, err := s.Field("vwap")
	var de *DataError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "vwap", de.Field)
}
