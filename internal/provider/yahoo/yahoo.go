package yahoo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/guregu/null/v6"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"

	"marketpipeline/internal/market"
	"marketpipeline/internal/metrics"
	"marketpipeline/internal/provider"
	"marketpipeline/internal/provider/cache"
)

// DefaultBaseURL is the public quote API host.
const DefaultBaseURL = "https://query1.finance.yahoo.com"

// HTTPClient describes an HTTP client.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config controls the fallback client.
type Config struct {
	Name      string
	BaseURL   string
	CacheTTL  time.Duration
	Universe  []string // default market.FallbackUniverse
	Synthetic SyntheticParams
	Now       func() time.Time
}

// Client serves quotes and history for Casablanca listings from a
// general-purpose provider, with a per-symbol cache.
type Client struct {
	cfg   Config
	http  HTTPClient
	log   zerolog.Logger
	cache *cache.TTL[string, market.StockRecord]

	// coalesce concurrent misses per symbol
	sf singleflight.Group
}

func New(cfg Config, hc HTTPClient, log zerolog.Logger) *Client {
	if cfg.Name == "" {
		cfg.Name = "yahoo_finance"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if len(cfg.Universe) == 0 {
		cfg.Universe = market.FallbackUniverse
	}
	cfg.Synthetic = cfg.Synthetic.withDefaults()
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{
		cfg:   cfg,
		http:  hc,
		log:   log.With().Str("source", cfg.Name).Logger(),
		cache: cache.New[string, market.StockRecord](cfg.CacheTTL, cfg.Now),
	}
}

func (c *Client) Name() string { return c.cfg.Name }
func (c *Client) Kind() provider.Kind { return provider.KindFallback }

// FetchStock returns a quote for a local symbol. With useCache, a cached
// record younger than the TTL is returned without a network call.
func (c *Client) FetchStock(ctx context.Context, symbol string, useCache bool) (market.StockRecord, bool) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if useCache {
		if rec, ok := c.cache.Get(symbol); ok {
			metrics.CacheLookups.WithLabelValues("hit").Inc()
			c.log.Debug().Str("symbol", symbol).Msg("using cached data")
			return rec, true
		}
		metrics.CacheLookups.WithLabelValues("miss").Inc()
	}

	v, err, _ := c.sf.Do(symbol, func() (any, error) {
		rec, err := c.fetchStock(ctx, symbol)
		if err != nil {
			return nil, err
		}
		c.cache.Put(symbol, rec)
		return rec, nil
	})
	if err != nil {
		c.log.Error().Err(err).Str("symbol", symbol).Msg("fetching stock")
		return market.StockRecord{}, false
	}
	return v.(market.StockRecord), true
}

func (c *Client) fetchStock(ctx context.Context, symbol string) (market.StockRecord, error) {
	ticker := Ticker(symbol)
	c.log.Info().Str("symbol", symbol).Str("ticker", ticker).Msg("fetching stock")

	rows, metaName, err := c.chart(ctx, ticker, "5d", "1d")
	c.observe("chart", err)
	if err != nil {
		return market.StockRecord{}, err
	}
	if len(rows) == 0 {
		return market.StockRecord{}, fmt.Errorf("%s: no historical data", ticker)
	}

	prof, err := c.summary(ctx, ticker)
	c.observe("summary", err)
	if err != nil {
		c.log.Warn().Err(err).Str("symbol", symbol).Msg("quote summary unavailable")
		prof = profile{}
	}
	if prof.Name == "" {
		prof.Name = metaName
	}
	return buildRecord(symbol, rows, prof, c.cfg.Now().UTC())
}

// buildRecord derives a quote from the last two rows: change is the close
// difference, change percent is relative to the previous close.
func buildRecord(symbol string, rows []market.HistoryRow, prof profile, ts time.Time) (market.StockRecord, error) {
	latest := rows[len(rows)-1]
	previous := latest
	if len(rows) > 1 {
		previous = rows[len(rows)-2]
	}
	cur, ok1 := market.DecimalFromFloat(latest.Close)
	prev, ok2 := market.DecimalFromFloat(previous.Close)
	if !ok1 || !ok2 {
		return market.StockRecord{}, fmt.Errorf("%s: invalid close", symbol)
	}
	change := cur.Sub(prev)
	changePct := decimal.Zero
	if !prev.IsZero() {
		changePct = change.Div(prev).Mul(decimal.NewFromInt(100))
	}

	p := market.StockPayload{
		Name:          prof.Name,
		Price:         market.NumberOf(cur),
		Open:          floatNumber(null.FloatFrom(latest.Open)),
		High:          floatNumber(null.FloatFrom(latest.High)),
		Low:           floatNumber(null.FloatFrom(latest.Low)),
		Close:         market.NumberOf(cur),
		Volume:        market.NumberOf(decimal.NewFromInt(latest.Volume)),
		Change:        market.NumberOf(change),
		ChangePercent: market.NumberOf(changePct),
		MarketCap:     floatNumber(prof.MarketCap),
		Sector:        prof.Sector,
		PERatio:       floatNumber(prof.PERatio),
	}
	if dy := floatNumber(prof.DividendYield); dy.Valid {
		p.DividendYield = market.NumberOf(dy.Value.Mul(decimal.NewFromInt(100)))
	}
	return p.Normalize(symbol, market.SourceFallback, ts)
}

func floatNumber(f null.Float) market.Number {
	if !f.Valid {
		return market.Number{}
	}
	d, ok := market.DecimalFromFloat(f.Float64)
	if !ok {
		return market.Number{}
	}
	return market.NumberOf(d)
}

// FetchAllStocks fetches symbols in order, dropping failures.
func (c *Client) FetchAllStocks(ctx context.Context, symbols []string) []market.StockRecord {
	out, _ := c.fetchAll(ctx, symbols)
	return out
}

func (c *Client) fetchAll(ctx context.Context, symbols []string) ([]market.StockRecord, int) {
	out := make([]market.StockRecord, 0, len(symbols))
	failed := 0
	for _, s := range symbols {
		rec, ok := c.FetchStock(ctx, s, true)
		if !ok {
			failed++
			continue
		}
		out = append(out, rec)
	}
	c.log.Info().Int("fetched", len(out)).Int("attempted", len(symbols)).Msg("fetched stocks")
	return out, failed
}

// FetchMarket fetches stocks and derives synthetic indices from them.
func (c *Client) FetchMarket(ctx context.Context, symbols []string) provider.Batch {
	if len(symbols) == 0 {
		symbols = c.cfg.Universe
	}
	var b provider.Batch
	b.Stocks, b.Failed = c.fetchAll(ctx, symbols)
	b.Attempted = len(symbols)
	if idx, ok := SyntheticIndices(b.Stocks, c.cfg.Synthetic, c.cfg.Now().UTC()); ok {
		b.Indices = &idx
	}
	return b
}

func (c *Client) observe(endpoint string, err error) {
	metrics.ObserveRequest(c.cfg.Name, endpoint, err == nil)
}

var errStatus = errors.New("unexpected status code")

func (c *Client) getJSON(ctx context.Context, path string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+path, http.NoBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("performing request: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(res.Body, 4<<10))
		return fmt.Errorf("%w: %d", errStatus, res.StatusCode)
	}
	if err := json.NewDecoder(res.Body).Decode(v); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
