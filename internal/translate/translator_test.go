package translate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carnage203/nl-to-dsl-strategy-compiler/internal/dsl"
)

func TestTranslate_EntryWithCrossAndVolume(t *testing.T) {
	tr := New()
	out := tr.Translate("Buy when close crosses above sma-20 and volume > 1M")
	assert.Equal(t, "ENTRY: close crosses above SMA(close,20) AND volume > 1M", out)

	_, err := dsl.Parse(out)
	require.NoError(t, err)
}

func TestTranslate_PriceSynonyms(t *testing.T) {
	tr := New()
	assert.Equal(t, "ENTRY: close > 100", tr.Translate("buy when price > 100"))
	assert.Equal(t, "ENTRY: close > 100", tr.Translate("buy when closing price > 100"))
	assert.Equal(t, "ENTRY: close > 100", tr.Translate("buy when close price > 100"))
}

func TestTranslate_MovingAverageSpellings(t *testing.T) {
	tr := New()
	for _, input := range []string{
		"buy when close > 20-day moving average",
		"buy when close > 20 day moving average",
		"buy when close > sma-20",
		"buy when close > sma 20",
		"buy when close > 20-day sma",
		"buy when close > ma-20",
	} {
		assert.Equal(t, "ENTRY: close > SMA(close,20)", tr.Translate(input), input)
	}
}

func TestTranslate_RSIWindows(t *testing.T) {
	tr := New()
	assert.Equal(t, "ENTRY: RSI(close,14) < 30", tr.Translate("buy when rsi < 30"))
	assert.Equal(t, "ENTRY: RSI(close,7) < 30", tr.Translate("buy when rsi-7 < 30"))
	assert.Equal(t, "ENTRY: RSI(close,21) > 70", tr.Translate("buy when rsi(21) > 70"))
}

func TestTranslate_Magnitudes(t *testing.T) {
	tr := New()
	assert.Equal(t, "ENTRY: volume > 2M", tr.Translate("buy when volume > 2 million"))
	assert.Equal(t, "ENTRY: volume > 500K", tr.Translate("buy when vol > 500 thousand"))
	assert.Equal(t, "ENTRY: volume > 1.5M", tr.Translate("buy when volume > 1.5 million"))
}

func TestTranslate_CrossSynonyms(t *testing.T) {
	tr := New()
	assert.Equal(t,
		"ENTRY: close crosses above SMA(close,50)",
		tr.Translate("buy when close crosses over sma-50"))
	assert.Equal(t,
		"EXIT: close crosses below SMA(close,50)",
		tr.Translate("sell when close crosses under sma-50"))
}

func TestTranslate_ImplicitCrossSubject(t *testing.T) {
	tr := New()
	// no left-hand field before "crosses" implies the close
	assert.Equal(t,
		"ENTRY: close crosses above SMA(close,20)",
		tr.Translate("buy when crosses above sma-20"))
	// an explicit field subject is left alone
	assert.Equal(t,
		"ENTRY: volume crosses above 1M",
		tr.Translate("buy when volume crosses above 1 million"))
}

func TestTranslate_EntryAndExitSentences(t *testing.T) {
	tr := New()
	out := tr.Translate("Buy when close > 100. Sell when close < 90")
	assert.Equal(t, "ENTRY: close > 100\nEXIT: close < 90", out)

	strat, err := dsl.Parse(out)
	require.NoError(t, err)
	assert.NotNil(t, strat.Entry)
	assert.NotNil(t, strat.Exit)
}

func TestTranslate_EntryKeywordVariants(t *testing.T) {
	tr := New()
	for _, input := range []string{
		"buy when close > 10",
		"enter when close > 10",
		"go long when close > 10",
	} {
		assert.Equal(t, "ENTRY: close > 10", tr.Translate(input), input)
	}
}

func TestTranslate_NoKeywordsDefaultsToEntry(t *testing.T) {
	tr := New()
	// "close" on its own is a field name, not an exit instruction
	assert.Equal(t,
		"ENTRY: close > 100 AND volume > 1M",
		tr.Translate("close > 100 and volume > 1M"))
}

func TestTranslate_NormalizesWhitespace(t *testing.T) {
	tr := New()
	assert.Equal(t, "ENTRY: close > 100", tr.Translate("  Buy   when\tclose  >  100  "))
}
