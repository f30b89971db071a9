package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carnage203/nl-to-dsl-strategy-compiler/internal/config"
	"github.com/Carnage203/nl-to-dsl-strategy-compiler/internal/models"
)

func newTestRouter() *mux.Router {
	cfg := &config.Config{
		Backtest: config.BacktestConfig{InitialCapital: 100000},
		Data: config.DataConfig{
			SyntheticBars: 60,
			SyntheticSeed: 42,
			StartPrice:    100,
		},
	}
	router := mux.NewRouter()
	NewHandler(cfg).RegisterRoutes(router)
	return router
}

func testBars(closes []float64) []models.DailyBar {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]models.DailyBar, len(closes))
	for i, c := range closes {
		bars[i] = models.DailyBar{
			Date:   start.AddDate(0, 0, i),
			Open:   c - 0.5,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: 1_500_000,
		}
	}
	return bars
}

func postJSON(t *testing.T, router *mux.Router, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest("GET", "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp["status"])
}

func TestTranslateEndpoint(t *testing.T) {
	router := newTestRouter()

	rec := postJSON(t, router, "/api/v1/translate", TranslateRequest{
		Text: "Buy when close crosses above sma-20 and volume > 1M",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Rule   string `json:"rule"`
		Parses bool   `json:"parses"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ENTRY: close crosses above SMA(close,20) AND volume > 1M", resp.Rule)
	assert.True(t, resp.Parses)
}

func TestTranslateEndpoint_MissingText(t *testing.T) {
	router := newTestRouter()
	rec := postJSON(t, router, "/api/v1/translate", TranslateRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSignalsEndpoint(t *testing.T) {
	router := newTestRouter()

	rec := postJSON(t, router, "/api/v1/signals", BacktestRequest{
		Rule: "ENTRY: close > 100",
		Bars: testBars([]float64{95, 101, 103, 99}),
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Rule    string `json:"rule"`
		Bars    int    `json:"bars"`
		Signals struct {
			Entry []bool `json:"entry"`
			Exit  []bool `json:"exit"`
		} `json:"signals"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 4, resp.Bars)
	assert.Equal(t, []bool{false, true, true, false}, resp.Signals.Entry)
	assert.Equal(t, []bool{false, false, false, false}, resp.Signals.Exit)
}

func TestBacktestEndpoint_InlineBars(t *testing.T) {
	router := newTestRouter()

	rec := postJSON(t, router, "/api/v1/backtest", BacktestRequest{
		Rule: "ENTRY: close > 100\nEXIT: close < 100",
		Bars: testBars([]float64{99, 101, 103, 99, 98}),
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Rule   string `json:"rule"`
		Bars   int    `json:"bars"`
		Result struct {
			NumTrades   int       `json:"num_trades"`
			EquityCurve []float64 `json:"equity_curve"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 5, resp.Bars)
	assert.Len(t, resp.Result.EquityCurve, 6)
	assert.GreaterOrEqual(t, resp.Result.NumTrades, 1)
}

func TestBacktestEndpoint_SyntheticSeries(t *testing.T) {
	router := newTestRouter()

	rec := postJSON(t, router, "/api/v1/backtest", BacktestRequest{
		Rule:      "ENTRY: close crosses above SMA(close,10)\nEXIT: close crosses below SMA(close,10)",
		Synthetic: &SyntheticSpec{Bars: 120, Seed: 7, StartPrice: 50},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Bars   int `json:"bars"`
		Result struct {
			FinalCapital float64   `json:"final_capital"`
			EquityCurve  []float64 `json:"equity_curve"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 120, resp.Bars)
	assert.Len(t, resp.Result.EquityCurve, 121)
	assert.Greater(t, resp.Result.FinalCapital, 0.0)
}

func TestBacktestEndpoint_TranslatesText(t *testing.T) {
	router := newTestRouter()

	rec := postJSON(t, router, "/api/v1/backtest", BacktestRequest{
		Text: "Buy when close > 100. Sell when close < 100",
		Bars: testBars([]float64{99, 101, 103, 99, 98}),
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Rule string `json:"rule"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ENTRY: close > 100\nEXIT: close < 100", resp.Rule)
}

func TestBacktestEndpoint_ErrorStatuses(t *testing.T) {
	router := newTestRouter()
	bars := testBars([]float64{99, 101, 103})

	cases := []struct {
		name   string
		req    BacktestRequest
		status int
	}{
		{"missing rule and text", BacktestRequest{Bars: bars}, http.StatusBadRequest},
		{"lex error", BacktestRequest{Rule: "ENTRY: close > 1Kx", Bars: bars}, http.StatusBadRequest},
		{"parse error", BacktestRequest{Rule: "INVALID: close > 100", Bars: bars}, http.StatusBadRequest},
		{"evaluation error", BacktestRequest{Rule: "ENTRY: close / 0 > 1", Bars: bars}, http.StatusUnprocessableEntity},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := postJSON(t, router, "/api/v1/backtest", tc.req)
			assert.Equal(t, tc.status, rec.Code, rec.Body.String())
		})
	}
}

func TestBacktestEndpoint_BadBars(t *testing.T) {
	router := newTestRouter()

	// dates out of order
	bars := testBars([]float64{100, 101})
	bars[0].Date, bars[1].Date = bars[1].Date, bars[0].Date

	rec := postJSON(t, router, "/api/v1/backtest", BacktestRequest{
		Rule: "ENTRY: close > 100",
		Bars: bars,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBacktestEndpoint_InvalidJSON(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest("POST", "/api/v1/backtest", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMiddlewareChain(t *testing.T) {
	handler := ChainMiddleware(
		CORSMiddleware(),
		RecoveryMiddleware(),
	)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(fmt.Errorf("boom"))
	}))

	req := httptest.NewRequest("GET", "/api/v1/backtest", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSPreflight(t *testing.T) {
	handler := CORSMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("preflight must not reach the handler")
	}))

	req := httptest.NewRequest("OPTIONS", "/api/v1/backtest", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
