// Drawdown Labs engine: option pricing and scenario analysis over Yahoo
// Finance data.
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/drawdownlabs/engine/api"
	"github.com/drawdownlabs/engine/internal/config"
	"github.com/drawdownlabs/engine/internal/engine"
	"github.com/drawdownlabs/engine/internal/infra"
	"github.com/drawdownlabs/engine/internal/marketdata"
	"github.com/drawdownlabs/engine/internal/pricing"
	"github.com/drawdownlabs/engine/pkg/utils"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

var (
	cfg    *config.Config
	logger *slog.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "drawdown",
	Short: "Drawdown Labs option pricing engine",
	Long: `Drawdown Labs engine
Prices European options with Black-Scholes and runs what-if scenarios
(greeks profile, volatility sweep, protective put hedge, time machine and
P&L heatmap) over Yahoo Finance market data.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		level := cfg.Logging.Level
		if override, _ := cmd.Flags().GetString("log-level"); override != "" {
			level = override
		}
		logger, err = infra.NewLogger(level, cfg.Logging.Format, os.Stderr)
		if err != nil {
			return err
		}
		api.Version = version
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(priceCmd)
	rootCmd.AddCommand(volCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(heatmapCmd)
	rootCmd.AddCommand(statusCmd)
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("Drawdown Labs engine %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

// --- Serve Command (API Server) ---

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if port, _ := cmd.Flags().GetInt("port"); port != 0 {
			cfg.API.Port = port
		}
		srv := api.NewServer(cfg, newEngine(), logger)
		return srv.ListenAndServe(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().Int("port", 0, "listen port (overrides api.port)")
}

// --- Price Command ---

var priceCmd = &cobra.Command{
	Use:   "price",
	Short: "Price a single option with Black-Scholes",
	Example: `  drawdown price --spot 100 --strike 100 --days 30
  drawdown price --spot 420 --strike 400 --days 14 --vol 55 --type put`,
	RunE: func(cmd *cobra.Command, args []string) error {
		f := cmd.Flags()
		spot, _ := f.GetFloat64("spot")
		strike, _ := f.GetFloat64("strike")
		days, _ := f.GetInt("days")
		vol, _ := f.GetFloat64("vol")
		typ, _ := f.GetString("type")
		rate, _ := f.GetFloat64("rate")
		if !f.Changed("rate") {
			rate = cfg.Pricing.RiskFreeRatePct
		}

		res, err := pricing.Price(
			pricing.Market{Spot: spot, Vol: pricing.VolPercent(vol), Rate: pricing.RatePercent(rate)},
			pricing.Contract{Strike: strike, Days: pricing.Days(days), Type: pricing.ParseOptionType(typ)},
		)
		if err != nil {
			return err
		}
		fmt.Printf("Price: %.4f\n", res.Price)
		fmt.Printf("  delta: %.4f\n", res.Greeks.Delta)
		fmt.Printf("  theta: %.4f\n", res.Greeks.Theta)
		fmt.Printf("  vega:  %.4f\n", res.Greeks.Vega)
		fmt.Printf("  rho:   %.4f\n", res.Greeks.Rho)
		return nil
	},
}

func init() {
	priceCmd.Flags().Float64("spot", 0, "underlying price")
	priceCmd.Flags().Float64("strike", 0, "strike price")
	priceCmd.Flags().Int("days", int(pricing.DefaultDays), "calendar days to expiry")
	priceCmd.Flags().Float64("vol", float64(pricing.DefaultVolPct), "volatility in percent")
	priceCmd.Flags().String("type", string(pricing.Call), "option type (call or put)")
	priceCmd.Flags().Float64("rate", float64(pricing.DefaultRatePct), "risk-free rate in percent (default from config)")
	_ = priceCmd.MarkFlagRequired("spot")
	_ = priceCmd.MarkFlagRequired("strike")
}

// --- Vol Command ---

var volCmd = &cobra.Command{
	Use:     "vol [close...]",
	Short:   "Estimate annualised volatility from closing prices",
	Example: "  drawdown vol 100 101 99 102 100",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		closes := make([]float64, len(args))
		for i, a := range args {
			v, err := strconv.ParseFloat(a, 64)
			if err != nil {
				return fmt.Errorf("invalid close %q: %w", a, err)
			}
			closes[i] = v
		}
		fmt.Printf("Volatility: %.2f%%\n", float64(pricing.EstimateVolatility(closes)))
		return nil
	},
}

// --- Analyze / Heatmap Commands ---

var analyzeCmd = &cobra.Command{
	Use:   "analyze [ticker]",
	Short: "Compare a contract's market price with the model price",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := requestFromFlags(cmd, args[0])
		if err != nil {
			return err
		}
		return printOutcome(newEngine().Analyze(cmd.Context(), req))
	},
}

var heatmapCmd = &cobra.Command{
	Use:   "heatmap [ticker]",
	Short: "Print the price/volatility P&L grid for a contract",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := requestFromFlags(cmd, args[0])
		if err != nil {
			return err
		}
		return printOutcome(newEngine().Heatmap(cmd.Context(), req))
	},
}

func init() {
	for _, c := range []*cobra.Command{analyzeCmd, heatmapCmd} {
		c.Flags().Float64("strike", 0, "strike price")
		c.Flags().String("expiry", "", "expiry date (YYYY-MM-DD)")
		c.Flags().String("type", string(pricing.Call), "option type (call or put)")
		c.Flags().Float64("market-price", 0, "observed option price")
		_ = c.MarkFlagRequired("strike")
	}
}

// --- Status Command ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show configuration and where each value came from",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("═══════════════════════════════════════")
		fmt.Println("  Drawdown Labs Engine — Status")
		fmt.Println("═══════════════════════════════════════")
		fmt.Printf("  Version:  %s (%s)\n", version, commit)
		fmt.Println()
		fmt.Println("  Configuration:")
		for _, s := range config.Settings(cfg) {
			fmt.Printf("    %-30s %-28s [%s: %s]\n", s.Key, s.Value, s.Source, config.EnvVar(s.Key))
		}
		fmt.Println("═══════════════════════════════════════")
		return nil
	},
}

// --- Helpers ---

func newEngine() *engine.Engine {
	md := cfg.MarketData
	src := marketdata.NewYahoo(marketdata.YahooConfig{
		BaseURL:    md.BaseURL,
		Timeout:    md.Timeout(),
		CacheTTL:   md.CacheTTL(),
		RatePerSec: md.RateLimitPerSec,
		Retry: infra.RetryConfig{
			MaxAttempts: md.MaxAttempts,
			BaseDelay:   md.RetryDelay(),
			MaxDelay:    infra.DefaultRetry.MaxDelay,
		},
	})
	return engine.New(src, engine.Options{
		RatePct:      pricing.RatePercent(cfg.Pricing.RiskFreeRatePct),
		FetchTimeout: md.Timeout(),
	}, logger)
}

func requestFromFlags(cmd *cobra.Command, ticker string) (engine.Request, error) {
	ticker = utils.NormalizeTicker(ticker)
	if !utils.ValidTicker(ticker) {
		return engine.Request{}, fmt.Errorf("invalid ticker %q", ticker)
	}
	f := cmd.Flags()
	req := engine.DefaultRequest()
	req.Ticker = ticker
	req.Strike, _ = f.GetFloat64("strike")
	req.Expiry, _ = f.GetString("expiry")
	req.OptionType, _ = f.GetString("type")
	req.MarketPrice, _ = f.GetFloat64("market-price")
	return req, nil
}

func printOutcome[T any](out engine.Outcome[T]) error {
	if out.IsFallback() {
		fmt.Fprintf(os.Stderr, "warning: showing demo data (%s)\n", out.Reason)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out.Data)
}
