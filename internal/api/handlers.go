// Package api exposes the rule pipeline over HTTP: translate English text to
// rule syntax, evaluate signals, and run full backtests.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/Carnage203/nl-to-dsl-strategy-compiler/internal/backtest"
	"github.com/Carnage203/nl-to-dsl-strategy-compiler/internal/config"
	"github.com/Carnage203/nl-to-dsl-strategy-compiler/internal/data"
	"github.com/Carnage203/nl-to-dsl-strategy-compiler/internal/dsl"
	"github.com/Carnage203/nl-to-dsl-strategy-compiler/internal/models"
	"github.com/Carnage203/nl-to-dsl-strategy-compiler/internal/signal"
	"github.com/Carnage203/nl-to-dsl-strategy-compiler/internal/translate"
	"github.com/Carnage203/nl-to-dsl-strategy-compiler/pkg/logger"
)

// Handler serves the rule pipeline endpoints
type Handler struct {
	cfg        *config.Config
	translator *translate.Translator
}

// NewHandler creates a new pipeline handler
func NewHandler(cfg *config.Config) *Handler {
	return &Handler{
		cfg:        cfg,
		translator: translate.New(),
	}
}

// RegisterRoutes registers all pipeline routes on the router
func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/health", h.Health).Methods("GET")

	v1 := router.PathPrefix("/api/v1").Subrouter()
	v1.HandleFunc("/translate", h.Translate).Methods("POST")
	v1.HandleFunc("/signals", h.Signals).Methods("POST")
	v1.HandleFunc("/backtest", h.Backtest).Methods("POST")
}

// SyntheticSpec requests a generated price series instead of inline bars
type SyntheticSpec struct {
	Bars       int     `json:"bars"`
	Seed       int64   `json:"seed"`
	StartPrice float64 `json:"start_price"`
}

// BacktestRequest carries a rule (or English text to translate into one) and
// the price series to run it over
type BacktestRequest struct {
	Rule           string            `json:"rule"`
	Text           string            `json:"text"`
	Bars           []models.DailyBar `json:"bars"`
	Synthetic      *SyntheticSpec    `json:"synthetic"`
	InitialCapital float64           `json:"initial_capital"`
}

// TranslateRequest carries English text to convert into rule syntax
type TranslateRequest struct {
	Text string `json:"text"`
}

// Health handles GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// Translate handles POST /api/v1/translate
func (h *Handler) Translate(w http.ResponseWriter, r *http.Request) {
	var req TranslateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Text == "" {
		respondWithError(w, http.StatusBadRequest, "text is required")
		return
	}

	rule := h.translator.Translate(req.Text)

	// report whether the produced rule actually parses
	_, err := dsl.Parse(rule)
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"rule":   rule,
		"parses": err == nil,
	})
}

// Signals handles POST /api/v1/signals
func (h *Handler) Signals(w http.ResponseWriter, r *http.Request) {
	var req BacktestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	rule, strat, series, ok := h.prepare(w, &req)
	if !ok {
		return
	}

	signals, err := signal.Evaluate(series, strat)
	if err != nil {
		h.respondPipelineError(w, err)
		return
	}
	logger.EvaluationsTotal.Inc()

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"rule":    rule,
		"bars":    series.Len(),
		"signals": signals,
	})
}

// Backtest handles POST /api/v1/backtest
func (h *Handler) Backtest(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req BacktestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	rule, strat, series, ok := h.prepare(w, &req)
	if !ok {
		return
	}

	signals, err := signal.Evaluate(series, strat)
	if err != nil {
		h.respondPipelineError(w, err)
		return
	}
	logger.EvaluationsTotal.Inc()

	capital := req.InitialCapital
	if capital == 0 {
		capital = h.cfg.Backtest.InitialCapital
	}
	sim, err := backtest.NewSimulator(capital)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := sim.Run(series, signals)
	if err != nil {
		h.respondPipelineError(w, err)
		return
	}

	logger.BacktestsTotal.Inc()
	logger.BacktestDuration.Observe(time.Since(start).Seconds())
	logger.Info("Backtest completed",
		logger.String("rule", rule),
		logger.Int("bars", series.Len()),
		logger.Int("trades", result.NumTrades),
		logger.Float64("total_return_pct", result.TotalReturnPct),
	)

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"rule":   rule,
		"bars":   series.Len(),
		"result": result,
	})
}

// prepare resolves the rule text and price series shared by the signal and
// backtest endpoints. On failure it writes the error response and returns
// ok=false.
func (h *Handler) prepare(w http.ResponseWriter, req *BacktestRequest) (string, *dsl.Strategy, *models.Series, bool) {
	rule := req.Rule
	if rule == "" && req.Text != "" {
		rule = h.translator.Translate(req.Text)
	}
	if rule == "" {
		respondWithError(w, http.StatusBadRequest, "rule or text is required")
		return "", nil, nil, false
	}

	strat, err := dsl.Parse(rule)
	if err != nil {
		logger.RulesParsedTotal.WithLabelValues("error").Inc()
		h.respondPipelineError(w, err)
		return "", nil, nil, false
	}
	logger.RulesParsedTotal.WithLabelValues("ok").Inc()

	series, err := h.resolveSeries(req)
	if err != nil {
		h.respondPipelineError(w, err)
		return "", nil, nil, false
	}

	return rule, strat, series, true
}

func (h *Handler) resolveSeries(req *BacktestRequest) (*models.Series, error) {
	if len(req.Bars) > 0 {
		series := models.NewSeries(req.Bars)
		if err := series.Validate(); err != nil {
			return nil, err
		}
		return series, nil
	}

	spec := req.Synthetic
	if spec == nil {
		spec = &SyntheticSpec{}
	}
	bars := spec.Bars
	if bars == 0 {
		bars = h.cfg.Data.SyntheticBars
	}
	seed := spec.Seed
	if seed == 0 {
		seed = h.cfg.Data.SyntheticSeed
	}
	startPrice := spec.StartPrice
	if startPrice == 0 {
		startPrice = h.cfg.Data.StartPrice
	}
	return data.Generate(bars, seed, startPrice)
}

// respondPipelineError maps pipeline errors to HTTP statuses: malformed input
// (rule text or data) is a 400, a rule that fails during evaluation is a 422.
func (h *Handler) respondPipelineError(w http.ResponseWriter, err error) {
	var (
		lexErr   *dsl.LexError
		parseErr *dsl.ParseError
		dataErr  *models.DataError
		evalErr  *signal.EvaluationError
	)

	switch {
	case errors.As(err, &lexErr):
		logger.ErrorsTotal.WithLabelValues("api", "lex").Inc()
		respondWithError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &parseErr):
		logger.ErrorsTotal.WithLabelValues("api", "parse").Inc()
		respondWithError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &dataErr):
		logger.ErrorsTotal.WithLabelValues("api", "data").Inc()
		respondWithError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &evalErr):
		logger.ErrorsTotal.WithLabelValues("api", "evaluation").Inc()
		respondWithError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		logger.ErrorsTotal.WithLabelValues("api", "internal").Inc()
		logger.Error("Unhandled pipeline error", logger.ErrorField(err))
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
