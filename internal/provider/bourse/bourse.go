package bourse

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"marketpipeline/internal/market"
	"marketpipeline/internal/metrics"
	"marketpipeline/internal/provider"
)

// DefaultBaseURL is the exchange website.
const DefaultBaseURL = "https://www.casablanca-bourse.com"

// HTTPClient describes an HTTP client.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config controls the exchange client.
type Config struct {
	Name     string
	BaseURL  string
	Universe []string // symbols fetched by FetchAllStocks; default market.PrimaryUniverse
	Session  Session
	Now      func() time.Time
}

// Client fetches indices and quotes from the exchange: the JSON API first,
// the public HTML pages when the API does not answer.
type Client struct {
	cfg  Config
	http HTTPClient
	log  zerolog.Logger
}

func New(cfg Config, hc HTTPClient, log zerolog.Logger) *Client {
	if cfg.Name == "" {
		cfg.Name = "casablanca_bourse"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if len(cfg.Universe) == 0 {
		cfg.Universe = market.PrimaryUniverse
	}
	if cfg.Session.Location == nil {
		cfg.Session = DefaultSession()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{cfg: cfg, http: hc, log: log.With().Str("source", cfg.Name).Logger()}
}

func (c *Client) Name() string { return c.cfg.Name }
func (c *Client) Kind() provider.Kind { return provider.KindPrimary }

// MarketStatus classifies the current instant against the session.
func (c *Client) MarketStatus() market.Status { return c.cfg.Session.Status(c.cfg.Now()) }

// FetchIndices returns MASI and MADEX. The second result is false when
// neither the API nor the home page yields both index levels.
func (c *Client) FetchIndices(ctx context.Context) (market.IndexRecord, bool) {
	var payload market.IndexPayload
	err := c.getJSON(ctx, "/api/indices", &payload)
	metrics.ObserveRequest(c.cfg.Name, "indices", err == nil)
	if err == nil {
		rec, err := payload.Normalize(market.SourcePrimary, c.MarketStatus(), c.cfg.Now().UTC())
		if err == nil {
			return rec, true
		}
		c.log.Warn().Err(err).Msg("indices payload rejected, falling back to scraping")
	} else {
		c.log.Warn().Err(err).Msg("indices api unavailable, falling back to scraping")
	}

	payload, err = c.scrapeIndices(ctx)
	metrics.ObserveRequest(c.cfg.Name, "indices_page", err == nil)
	if err != nil {
		c.log.Error().Err(err).Msg("scraping indices")
		return market.IndexRecord{}, false
	}
	rec, err := payload.Normalize(market.SourcePrimary, c.MarketStatus(), c.cfg.Now().UTC())
	if err != nil {
		c.log.Warn().Err(err).Msg("could not extract indices from website")
		return market.IndexRecord{}, false
	}
	return rec, true
}

// FetchStock returns one quote, or false when both paths fail.
func (c *Client) FetchStock(ctx context.Context, symbol string) (market.StockRecord, bool) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	log := c.log.With().Str("symbol", symbol).Logger()

	var payload market.StockPayload
	err := c.getJSON(ctx, "/api/stock/"+url.PathEscape(symbol), &payload)
	metrics.ObserveRequest(c.cfg.Name, "stock", err == nil)
	if err == nil {
		rec, err := payload.Normalize(symbol, market.SourcePrimary, c.cfg.Now().UTC())
		if err == nil {
			return rec, true
		}
		log.Warn().Err(err).Msg("stock payload rejected, attempting scraping")
	} else {
		log.Warn().Err(err).Msg("stock api unavailable, attempting scraping")
	}

	payload, err = c.scrapeStock(ctx, symbol)
	metrics.ObserveRequest(c.cfg.Name, "stock_page", err == nil)
	if err != nil {
		log.Error().Err(err).Msg("scraping stock")
		return market.StockRecord{}, false
	}
	rec, err := payload.Normalize(symbol, market.SourcePrimary, c.cfg.Now().UTC())
	if err != nil {
		log.Warn().Err(err).Msg("scraped stock rejected")
		return market.StockRecord{}, false
	}
	return rec, true
}

// FetchAllStocks fetches the configured universe and drops failures.
func (c *Client) FetchAllStocks(ctx context.Context) []market.StockRecord {
	out, _ := c.fetchStocks(ctx, c.cfg.Universe)
	return out
}

func (c *Client) fetchStocks(ctx context.Context, symbols []string) ([]market.StockRecord, int) {
	out := make([]market.StockRecord, 0, len(symbols))
	failed := 0
	for _, s := range symbols {
		rec, ok := c.FetchStock(ctx, s)
		if !ok {
			failed++
			continue
		}
		out = append(out, rec)
	}
	c.log.Info().Int("fetched", len(out)).Int("attempted", len(symbols)).Msg("fetched stocks")
	return out, failed
}

// FetchMarket fetches indices and stocks. symbols overrides the universe
// when non-empty.
func (c *Client) FetchMarket(ctx context.Context, symbols []string) provider.Batch {
	if len(symbols) == 0 {
		symbols = c.cfg.Universe
	}
	var b provider.Batch
	if idx, ok := c.FetchIndices(ctx); ok {
		b.Indices = &idx
	}
	b.Stocks, b.Failed = c.fetchStocks(ctx, symbols)
	b.Attempted = len(symbols)
	return b
}

func (c *Client) get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+path, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("performing request: %w", err)
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(res.Body, 4<<10))
		res.Body.Close()
		return nil, fmt.Errorf("unexpected status code: %d", res.StatusCode)
	}
	return res, nil
}

func (c *Client) getJSON(ctx context.Context, path string, v any) error {
	res, err := c.get(ctx, path)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if err := json.NewDecoder(res.Body).Decode(v); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	return nil
}
