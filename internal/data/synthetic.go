package data

import (
	"math/rand"
	"time"

	"github.com/Carnage203/nl-to-dsl-strategy-compiler/internal/models"
)

// Defaults for synthetic series generation
const (
	DefaultSyntheticBars  = 252
	DefaultSyntheticSeed  = 42
	DefaultStartPrice     = 100.0
	syntheticDailyVol     = 0.02
	syntheticDailyDrift   = 0.0005
	syntheticBaseVolume   = 1_000_000
	syntheticVolumeJitter = 4_000_000
)

// Generate builds a deterministic synthetic daily series: a geometric random
// walk over business days starting 2023-01-02. The same seed always yields
// the same series.
func Generate(bars int, seed int64, startPrice float64) (*models.Series, error) {
	if bars < 1 {
		return nil, models.NewDataError("synthetic series needs at least 1 bar, got %d", bars)
	}
	if startPrice <= 0 {
		return nil, models.NewDataError("synthetic start price must be positive, got %f", startPrice)
	}

	rng := rand.New(rand.NewSource(seed))
	date := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC) // a Monday
	price := startPrice

	out := make([]models.DailyBar, 0, bars)
	for len(out) < bars {
		ret := syntheticDailyDrift + syntheticDailyVol*rng.NormFloat64()
		open := price
		close := open * (1 + ret)
		if close < 0.01 {
			close = 0.01
		}

		high := open
		if close > high {
			high = close
		}
		low := open
		if close < low {
			low = close
		}
		high *= 1 + 0.005*rng.Float64()
		low *= 1 - 0.005*rng.Float64()

		out = append(out, models.DailyBar{
			Date:   date,
			Open:   open,
			High:   high,
			Low:    low,
			Close:  close,
			Volume: syntheticBaseVolume + float64(rng.Intn(syntheticVolumeJitter)),
		})

		price = close
		date = nextBusinessDay(date)
	}

	series := models.NewSeries(out)
	if err := series.Validate(); err != nil {
		return nil, err
	}
	return series, nil
}

func nextBusinessDay(t time.Time) time.Time {
	t = t.AddDate(0, 0, 1)
	for t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
		t = t.AddDate(0, 0, 1)
	}
	return t
}
