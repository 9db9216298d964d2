package alphavantage

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/guregu/null/v6"
	"github.com/rs/zerolog"

	"marketpipeline/internal/market"
	"marketpipeline/internal/metrics"
	"marketpipeline/internal/provider"
)

// Config controls the indicator adapter.
type Config struct {
	Name      string // display name, default: alphavantage
	Interval  string // daily, weekly, monthly
	RSIPeriod int
	BBPeriod  int
	Now       func() time.Time
}

// MACD is the latest MACD reading.
type MACD struct {
	MACD      float64
	Signal    float64
	Histogram float64
}

// Bands are the latest Bollinger bands.
type Bands struct {
	Upper  float64
	Middle float64
	Lower  float64
}

// Client turns indicator responses into market.TechnicalIndicatorSet. A
// Client without an API client is disabled and fetches nothing.
type Client struct {
	cfg Config
	api *APIClient
	log zerolog.Logger
}

// New builds the adapter. api may be nil when no key is configured.
func New(cfg Config, api *APIClient, log zerolog.Logger) *Client {
	if cfg.Name == "" {
		cfg.Name = "alphavantage"
	}
	if cfg.Interval == "" {
		cfg.Interval = "daily"
	}
	if cfg.RSIPeriod <= 0 {
		cfg.RSIPeriod = 14
	}
	if cfg.BBPeriod <= 0 {
		cfg.BBPeriod = 20
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	c := &Client{cfg: cfg, api: api, log: log.With().Str("source", cfg.Name).Logger()}
	if api == nil {
		c.log.Warn().Msg("api key not provided, indicators disabled")
	}
	return c
}

func (c *Client) Name() string { return c.cfg.Name }
func (c *Client) Kind() provider.Kind { return provider.KindIndicator }

// Enabled reports whether an API key was configured.
func (c *Client) Enabled() bool { return c.api != nil }

func (c *Client) get(ctx context.Context, function, symbol string, params map[string]string) (Reading, bool) {
	if !c.Enabled() {
		return Reading{}, false
	}
	params["interval"] = c.cfg.Interval
	params["series_type"] = "close"

	r, err := c.api.GetIndicator(ctx, function, symbol, params)
	log := c.log.With().Str("symbol", symbol).Str("function", function).Logger()
	switch {
	case err == nil:
		metrics.SourceRequests.WithLabelValues(c.cfg.Name, function, metrics.OutcomeOK).Inc()
		return r, true
	case errors.Is(err, ErrRateLimited):
		metrics.SourceRequests.WithLabelValues(c.cfg.Name, function, metrics.OutcomeLimit).Inc()
		log.Warn().Err(err).Msg("rate limit reached")
	default:
		metrics.SourceRequests.WithLabelValues(c.cfg.Name, function, metrics.OutcomeError).Inc()
		log.Error().Err(err).Msg("fetching indicator")
	}
	return Reading{}, false
}

// FetchRSI returns the latest RSI.
func (c *Client) FetchRSI(ctx context.Context, symbol string) (float64, bool) {
	r, ok := c.get(ctx, "RSI", symbol, map[string]string{"time_period": strconv.Itoa(c.cfg.RSIPeriod)})
	if !ok {
		return 0, false
	}
	return r.Float("RSI")
}

// FetchMACD returns the latest MACD line, signal and histogram.
func (c *Client) FetchMACD(ctx context.Context, symbol string) (MACD, bool) {
	r, ok := c.get(ctx, "MACD", symbol, map[string]string{})
	if !ok {
		return MACD{}, false
	}
	var m MACD
	var ok1, ok2, ok3 bool
	m.MACD, ok1 = r.Float("MACD")
	m.Signal, ok2 = r.Float("MACD_Signal")
	m.Histogram, ok3 = r.Float("MACD_Hist")
	if !ok1 || !ok2 || !ok3 {
		c.log.Error().Str("symbol", symbol).Msg("incomplete MACD reading")
		return MACD{}, false
	}
	return m, true
}

// FetchBollingerBands returns the latest upper, middle and lower bands.
func (c *Client) FetchBollingerBands(ctx context.Context, symbol string) (Bands, bool) {
	r, ok := c.get(ctx, "BBANDS", symbol, map[string]string{"time_period": strconv.Itoa(c.cfg.BBPeriod)})
	if !ok {
		return Bands{}, false
	}
	var b Bands
	var ok1, ok2, ok3 bool
	b.Upper, ok1 = r.Float("Real Upper Band")
	b.Middle, ok2 = r.Float("Real Middle Band")
	b.Lower, ok3 = r.Float("Real Lower Band")
	if !ok1 || !ok2 || !ok3 {
		c.log.Error().Str("symbol", symbol).Msg("incomplete BBANDS reading")
		return Bands{}, false
	}
	return b, true
}

// FetchSMA returns the latest simple moving average over period.
func (c *Client) FetchSMA(ctx context.Context, symbol string, period int) (float64, bool) {
	r, ok := c.get(ctx, "SMA", symbol, map[string]string{"time_period": strconv.Itoa(period)})
	if !ok {
		return 0, false
	}
	return r.Float("SMA")
}

// FetchAllIndicators issues one request per indicator family and merges
// them. Families that fail stay null; the result is false only when the
// client is disabled or nothing came back.
func (c *Client) FetchAllIndicators(ctx context.Context, symbol string) (market.TechnicalIndicatorSet, bool) {
	if !c.Enabled() {
		return market.TechnicalIndicatorSet{}, false
	}
	c.log.Info().Str("symbol", symbol).Msg("fetching technical indicators")

	set := market.TechnicalIndicatorSet{Symbol: symbol, Timestamp: c.cfg.Now().UTC()}
	if v, ok := c.FetchRSI(ctx, symbol); ok {
		set.RSI = null.FloatFrom(v)
	}
	if m, ok := c.FetchMACD(ctx, symbol); ok {
		set.MACD = null.FloatFrom(m.MACD)
		set.MACDSignal = null.FloatFrom(m.Signal)
		set.MACDHist = null.FloatFrom(m.Histogram)
	}
	if b, ok := c.FetchBollingerBands(ctx, symbol); ok {
		set.BollingerUpper = null.FloatFrom(b.Upper)
		set.BollingerMiddle = null.FloatFrom(b.Middle)
		set.BollingerLower = null.FloatFrom(b.Lower)
	}
	for _, sma := range []struct {
		period int
		dst    *null.Float
	}{{20, &set.SMA20}, {50, &set.SMA50}, {200, &set.SMA200}} {
		if v, ok := c.FetchSMA(ctx, symbol, sma.period); ok {
			*sma.dst = null.FloatFrom(v)
		}
	}
	if set.Empty() {
		return market.TechnicalIndicatorSet{}, false
	}
	return set, true
}

// FetchIndicators implements provider.IndicatorSource.
func (c *Client) FetchIndicators(ctx context.Context, symbol string) (market.TechnicalIndicatorSet, bool) {
	return c.FetchAllIndicators(ctx, symbol)
}
