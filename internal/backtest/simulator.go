// Package backtest replays entry/exit signal series through a deterministic
// long-only trade simulator under the next-bar execution rule.
package backtest

import (
	"fmt"

	"github.com/Carnage203/nl-to-dsl-strategy-compiler/internal/models"
	"github.com/Carnage203/nl-to-dsl-strategy-compiler/internal/signal"
)

// DefaultInitialCapital is used when no starting capital is configured
const DefaultInitialCapital = 100000.0

// Result holds the trade ledger and aggregate metrics of one replay
type Result struct {
	Trades         []Trade   `json:"trades"`
	TotalReturnPct float64   `json:"total_return_pct"`
	WinRate        float64   `json:"win_rate"`
	NumTrades      int       `json:"num_trades"`
	MaxDrawdownPct float64   `json:"max_drawdown_pct"`
	FinalCapital   float64   `json:"final_capital"`
	EquityCurve    []float64 `json:"equity_curve"`
}

// Simulator replays signals bar-by-bar. Each Run call keeps its state local,
// so a Simulator is reentrant and safe to share.
type Simulator struct {
	initialCapital float64
}

// NewSimulator creates a simulator with the given starting capital
func NewSimulator(initialCapital float64) (*Simulator, error) {
	if initialCapital <= 0 {
		return nil, fmt.Errorf("initial capital must be positive, got %f", initialCapital)
	}
	return &Simulator{initialCapital: initialCapital}, nil
}

// Run replays the signals over the price series. Signals observed at the
// close of bar i-1 are acted on at the open of bar i; a position still open
// after the last bar is force-closed at that bar's close price. The equity
// curve carries one mark-to-market value per bar plus the initial capital in
// front.
func (s *Simulator) Run(series *models.Series, signals *signal.Signals) (*Result, error) {
	if err := series.Validate(); err != nil {
		return nil, err
	}
	if signals == nil {
		return nil, models.NewDataError("signals are nil")
	}
	n := series.Len()
	if len(signals.Entry) != n || len(signals.Exit) != n {
		return nil, models.NewDataError(
			"signal series misaligned: entry %d, exit %d, price series %d",
			len(signals.Entry), len(signals.Exit), n)
	}

	capital := s.initialCapital
	equity := make([]float64, 0, n+1)
	equity = append(equity, capital)
	trades := make([]Trade, 0)
	var position *Trade

	for i := 0; i < n; i++ {
		// a signal can only be acted on one bar after it was observed
		prevEntry, prevExit := false, false
		if i > 0 {
			prevEntry = signals.Entry[i-1]
			prevExit = signals.Exit[i-1]
		}

		// close before the open check, so one bar can do both
		if position != nil && prevExit {
			position.close(series.Dates[i], series.Open[i])
			capital *= 1 + position.ReturnPct/100
			trades = append(trades, *position)
			position = nil
		}

		if position == nil && prevEntry {
			position = &Trade{
				EntryDate:  series.Dates[i],
				EntryPrice: series.Open[i],
			}
		}

		// mark to market once per bar
		if position != nil {
			unrealized := (series.Close[i] - position.EntryPrice) / position.EntryPrice * 100
			equity = append(equity, capital*(1+unrealized/100))
		} else {
			equity = append(equity, capital)
		}
	}

	// force-close at the final bar's close price
	if position != nil {
		last := n - 1
		position.close(series.Dates[last], series.Close[last])
		capital *= 1 + position.ReturnPct/100
		trades = append(trades, *position)
		position = nil
	}

	return s.metrics(trades, equity, capital), nil
}

func (s *Simulator) metrics(trades []Trade, equity []float64, finalCapital float64) *Result {
	result := &Result{
		Trades:       trades,
		NumTrades:    len(trades),
		FinalCapital: finalCapital,
		EquityCurve:  equity,
	}

	result.TotalReturnPct = (finalCapital - s.initialCapital) / s.initialCapital * 100

	if len(trades) > 0 {
		wins := 0
		for i := range trades {
			if trades[i].PnL > 0 {
				wins++
			}
		}
		result.WinRate = float64(wins) / float64(len(trades))
	}

	runningMax := equity[0]
	for _, e := range equity {
		if e > runningMax {
			runningMax = e
		}
		drawdown := (e - runningMax) / runningMax * 100
		if drawdown < result.MaxDrawdownPct {
			result.MaxDrawdownPct = drawdown
		}
	}

	return result
}
