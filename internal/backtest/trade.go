package backtest

import "time"

// Trade is one round trip in the ledger. It is created on the Flat to Long
// transition and mutated exactly once, when the position closes; the ledger
// only ever holds closed trades.
type Trade struct {
	EntryDate  time.Time `json:"entry_date"`
	ExitDate   time.Time `json:"exit_date"`
	EntryPrice float64   `json:"entry_price"`
	ExitPrice  float64   `json:"exit_price"`
	PnL        float64   `json:"pnl"`
	ReturnPct  float64   `json:"return_pct"`
}

// Closed reports whether the exit fields have been filled
func (t *Trade) Closed() bool {
	return !t.ExitDate.IsZero()
}

// close fills the exit fields and realizes pnl
func (t *Trade) close(date time.Time, price float64) {
	t.ExitDate = date
	t.ExitPrice = price
	t.PnL = price - t.EntryPrice
	t.ReturnPct = t.PnL / t.EntryPrice * 100
}
