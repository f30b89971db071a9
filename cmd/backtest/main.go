// backtest - run a trading rule over daily OHLCV data and print the results
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Carnage203/nl-to-dsl-strategy-compiler/internal/backtest"
	"github.com/Carnage203/nl-to-dsl-strategy-compiler/internal/config"
	"github.com/Carnage203/nl-to-dsl-strategy-compiler/internal/data"
	"github.com/Carnage203/nl-to-dsl-strategy-compiler/internal/dsl"
	"github.com/Carnage203/nl-to-dsl-strategy-compiler/internal/models"
	"github.com/Carnage203/nl-to-dsl-strategy-compiler/internal/signal"
	"github.com/Carnage203/nl-to-dsl-strategy-compiler/internal/translate"
	"github.com/Carnage203/nl-to-dsl-strategy-compiler/pkg/logger"
)

var version = "0.1.0"

var (
	ruleText   string
	nlText     string
	csvPath    string
	barCount   int
	seed       int64
	startPrice float64
	capital    float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "backtest",
		Short: "Run a trading rule over daily OHLCV data",
		Long: `backtest compiles a trading rule (or an English description of one)
into entry/exit signals and replays them through a deterministic trade
simulator. Results are printed as JSON.`,
		RunE: runBacktest,
	}

	rootCmd.Flags().StringVarP(&ruleText, "rule", "r", "", "Rule text, e.g. 'ENTRY: close > SMA(close,20)'")
	rootCmd.Flags().StringVarP(&nlText, "text", "t", "", "English description to translate into a rule")
	rootCmd.Flags().StringVarP(&csvPath, "csv", "f", "", "CSV file with date,open,high,low,close,volume columns")
	rootCmd.Flags().IntVarP(&barCount, "bars", "n", 0, "Synthetic series length when no CSV is given")
	rootCmd.Flags().Int64Var(&seed, "seed", 0, "Synthetic series seed")
	rootCmd.Flags().Float64Var(&startPrice, "start-price", 0, "Synthetic series starting price")
	rootCmd.Flags().Float64VarP(&capital, "capital", "c", 0, "Initial capital")

	rootCmd.AddCommand(translateCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("backtest version %s\n", version)
		},
	}
}

func translateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "translate <text>",
		Short: "Translate an English rule description into rule syntax",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rule := translate.New().Translate(strings.Join(args, " "))
			fmt.Println(rule)

			if _, err := dsl.Parse(rule); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: generated rule does not parse: %v\n", err)
			}
			return nil
		},
	}
}

func runBacktest(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := logger.Init(cfg.LogLevel, cfg.Environment); err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	defer logger.Sync()

	rule := ruleText
	if rule == "" && nlText != "" {
		rule = translate.New().Translate(nlText)
		logger.Info("Translated rule", logger.String("rule", rule))
	}
	if rule == "" {
		return fmt.Errorf("either --rule or --text is required")
	}

	strat, err := dsl.Parse(rule)
	if err != nil {
		logger.RulesParsedTotal.WithLabelValues("error").Inc()
		return err
	}
	logger.RulesParsedTotal.WithLabelValues("ok").Inc()

	series, err := loadSeries(cfg)
	if err != nil {
		return err
	}

	signals, err := signal.Evaluate(series, strat)
	if err != nil {
		return err
	}
	logger.EvaluationsTotal.Inc()

	if capital == 0 {
		capital = cfg.Backtest.InitialCapital
	}
	sim, err := backtest.NewSimulator(capital)
	if err != nil {
		return err
	}
	result, err := sim.Run(series, signals)
	if err != nil {
		return err
	}
	logger.BacktestsTotal.Inc()

	out, err := json.MarshalIndent(map[string]interface{}{
		"rule":   rule,
		"bars":   series.Len(),
		"result": result,
	}, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func loadSeries(cfg *config.Config) (*models.Series, error) {
	path := csvPath
	if path == "" {
		path = cfg.Data.CSVPath
	}
	if path != "" {
		logger.Info("Loading price series", logger.String("csv", path))
		return data.LoadCSV(path)
	}

	bars := barCount
	if bars == 0 {
		bars = cfg.Data.SyntheticBars
	}
	s := seed
	if s == 0 {
		s = cfg.Data.SyntheticSeed
	}
	price := startPrice
	if price == 0 {
		price = cfg.Data.StartPrice
	}
	logger.Info("Generating synthetic price series",
		logger.Int("bars", bars),
		logger.Float64("start_price", price),
	)
	return data.Generate(bars, s, price)
}
