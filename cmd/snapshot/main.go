package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"marketpipeline/internal/config"
	"marketpipeline/internal/httpx"
	"marketpipeline/internal/logging"
	"marketpipeline/internal/metrics"
	"marketpipeline/internal/pipeline"
	"marketpipeline/internal/provider"
	"marketpipeline/internal/provider/alphavantage"
	"marketpipeline/internal/provider/bourse"
	"marketpipeline/internal/provider/ratelimit"
	"marketpipeline/internal/provider/yahoo"
)

func main() {
	os.Exit(run())
}

// run returns the process exit code so deferred cleanup always happens.
func run() int {
	var (
		configPath string
		mode       string
		symbol     string
		period     string
		interval   string
		timeout    time.Duration
	)
	flag.StringVar(&configPath, "config", os.Getenv("CONFIG_FILE"), "path to config.yaml (optional)")
	flag.StringVar(&mode, "mode", "snapshot", "snapshot | stocks | stock | history | analytics | status")
	flag.StringVar(&symbol, "symbol", "ATW", "symbol for stock, history and analytics")
	flag.StringVar(&period, "period", "1y", "history period")
	flag.StringVar(&interval, "interval", "1d", "history interval")
	flag.DurationVar(&timeout, "timeout", 2*time.Minute, "overall deadline")
	flag.Parse()
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	cfg, cfgErr := config.Load(configPath)
	log, closer, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Warn().Err(err).Msg("log file unavailable, logging to stdout only")
	}
	defer closer.Close()
	if cfgErr != nil {
		log.Warn().Err(cfgErr).Msg("configuration problems, defaults applied")
	}

	if cfg.MetricsAddr != "" {
		srv := metrics.Serve(cfg.MetricsAddr, log)
		defer srv.Close()
		log.Info().Str("addr", cfg.MetricsAddr).Msg("metrics listening")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	p, fallback := build(cfg, timeout, log)

	var out any
	switch strings.ToLower(mode) {
	case "snapshot":
		snap, err := p.FetchSnapshot(ctx)
		if err != nil {
			log.Error().Err(err).Msg("fetch failed")
		}
		out = snap
	case "stocks":
		stocks, err := p.Stocks(ctx)
		if err != nil {
			log.Error().Err(err).Msg("fetch failed")
		}
		out = stocks
	case "stock":
		snap, ok := p.LatestSnapshot()
		if !ok {
			if snap, err = p.FetchSnapshot(ctx); err != nil {
				log.Error().Err(err).Msg("fetch failed")
				return 1
			}
		}
		rec, ok := snap.Stock(symbol)
		if !ok {
			log.Error().Str("symbol", symbol).Msg("symbol not in snapshot")
			return 1
		}
		out = rec
	case "history":
		out = p.FetchHistory(ctx, symbol, period, interval)
	case "analytics":
		if fallback == nil {
			log.Error().Msg("analytics needs the fallback source enabled")
			return 1
		}
		out = analytics(ctx, fallback, symbol)
	case "status":
		out = p.Status()
	default:
		log.Error().Str("mode", mode).Msg("unknown mode")
		return 2
	}

	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		log.Error().Err(err).Msg("encoding output")
		return 1
	}
	fmt.Println(string(b))
	return 0
}

// build wires the sources from configuration.
func build(cfg config.Config, cycleTimeout time.Duration, log zerolog.Logger) (*pipeline.Pipeline, *yahoo.Client) {
	ds := cfg.DataSource
	requestTimeout := time.Duration(ds.RequestTimeoutSeconds) * time.Second
	hc := httpx.New(requestTimeout, ds.MaxRetries)
	hc.Log = log

	var primary provider.Source
	switch ds.PrimarySource {
	case "casablanca_bourse":
		primary = bourse.New(bourse.Config{Name: ds.PrimarySource, BaseURL: cfg.Endpoints.Bourse, Universe: cfg.Symbols}, hc, log)
	default:
		log.Warn().Str("primary_source", ds.PrimarySource).Msg("unknown primary source, running without one")
	}

	var (
		fallback provider.FallbackSource
		yc       *yahoo.Client
	)
	if ds.EnableYahooFallback {
		yc = yahoo.New(yahoo.Config{
			BaseURL:  cfg.Endpoints.Yahoo,
			CacheTTL: time.Duration(ds.CacheDurationMinutes) * time.Minute,
			Universe: cfg.Symbols,
			Synthetic: yahoo.SyntheticParams{
				MASIBase:        decimal.NewFromFloat(cfg.Synthetic.MASIBase),
				MADEXBase:       decimal.NewFromFloat(cfg.Synthetic.MADEXBase),
				MADEXMultiplier: decimal.NewFromFloat(cfg.Synthetic.MADEXMultiplier),
			},
		}, hc, log)
		fallback = yc
	}

	var indicators provider.IndicatorSource
	if ds.EnableAlphaVantage {
		var api *alphavantage.APIClient
		if ds.AlphaVantageAPIKey != "" {
			// own client so every attempt, retries included, spends budget
			avc := httpx.New(requestTimeout, ds.MaxRetries)
			avc.Log = log
			if rpm := cfg.AlphaVantage.MaxRequestsPerMinute; rpm > 0 {
				avc.Limiter = ratelimit.PerMinute(rpm, cfg.AlphaVantage.Burst)
			} else if sec := cfg.AlphaVantage.MinRequestIntervalSec; sec > 0 {
				avc.Limiter = &ratelimit.MinInterval{Interval: time.Duration(sec) * time.Second}
			}
			opts := []alphavantage.APIClientOption{
				alphavantage.WithHTTPClient(avc),
				alphavantage.WithHeader(http.Header{"User-Agent": []string{httpx.DefaultUserAgent}}),
			}
			if cfg.Endpoints.AlphaVantage != "" {
				opts = append(opts, alphavantage.WithBaseURL(cfg.Endpoints.AlphaVantage))
			}
			var err error
			if api, err = alphavantage.NewAPIClient(ds.AlphaVantageAPIKey, opts...); err != nil {
				log.Warn().Err(err).Msg("alphavantage client")
			}
		}
		indicators = alphavantage.New(alphavantage.Config{}, api, log)
	}

	opts := pipeline.Options{
		PrimarySource:        ds.PrimarySource,
		AutoFallback:         cfg.AutoFallback,
		EnableDataValidation: cfg.EnableDataValidation,
		FallbackUniverse:     cfg.Symbols,
		CycleTimeout:         cycleTimeout,
	}
	return pipeline.New(opts, primary, fallback, indicators, log), yc
}

type analyticsReport struct {
	Symbol         string          `json:"symbol"`
	Volatility     *float64        `json:"volatility_annualized_pct"`
	MovingAverages map[int]float64 `json:"moving_averages"`
	RSI            *float64        `json:"rsi"`
}

func analytics(ctx context.Context, yc *yahoo.Client, symbol string) analyticsReport {
	r := analyticsReport{Symbol: symbol, MovingAverages: yc.MovingAverages(ctx, symbol)}
	if v, ok := yc.Volatility(ctx, symbol, "1y"); ok {
		r.Volatility = &v
	}
	if v, ok := yc.RSI(ctx, symbol, 14); ok {
		r.RSI = &v
	}
	return r
}
