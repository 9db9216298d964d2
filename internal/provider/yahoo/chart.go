package yahoo

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/guregu/null/v6"

	"marketpipeline/internal/market"
)

// chartResponse is the subset of /v8/finance/chart we read.
//
//	{"chart":{"result":[{"meta":{...},"timestamp":[...],
//	  "indicators":{"quote":[{"open":[...],"high":[...],"low":[...],"close":[...],"volume":[...]}]}}],
//	  "error":null}}
type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *apiError     `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Meta struct {
		Symbol   string `json:"symbol"`
		Currency string `json:"currency"`
		LongName string `json:"longName"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Open   []null.Float `json:"open"`
			High   []null.Float `json:"high"`
			Low    []null.Float `json:"low"`
			Close  []null.Float `json:"close"`
			Volume []null.Int   `json:"volume"`
		} `json:"quote"`
	} `json:"indicators"`
}

type apiError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

func (e *apiError) Error() string { return e.Code + ": " + e.Description }

// chart fetches OHLCV rows for ticker. Rows without a close are skipped.
func (c *Client) chart(ctx context.Context, ticker, rng, interval string) ([]market.HistoryRow, string, error) {
	q := url.Values{}
	q.Set("range", rng)
	q.Set("interval", interval)

	var body chartResponse
	if err := c.getJSON(ctx, "/v8/finance/chart/"+url.PathEscape(ticker)+"?"+q.Encode(), &body); err != nil {
		return nil, "", err
	}
	if body.Chart.Error != nil {
		return nil, "", fmt.Errorf("chart %s: %w", ticker, body.Chart.Error)
	}
	if len(body.Chart.Result) == 0 || len(body.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, "", fmt.Errorf("chart %s: empty result", ticker)
	}
	res := body.Chart.Result[0]
	quote := res.Indicators.Quote[0]

	at := func(xs []null.Float, i int) float64 {
		if i < len(xs) && xs[i].Valid {
			return xs[i].Float64
		}
		return 0
	}
	rows := make([]market.HistoryRow, 0, len(res.Timestamp))
	for i, ts := range res.Timestamp {
		if i >= len(quote.Close) || !quote.Close[i].Valid {
			continue
		}
		row := market.HistoryRow{
			Time:  time.Unix(ts, 0).UTC(),
			Open:  at(quote.Open, i),
			High:  at(quote.High, i),
			Low:   at(quote.Low, i),
			Close: quote.Close[i].Float64,
		}
		if i < len(quote.Volume) && quote.Volume[i].Valid {
			row.Volume = quote.Volume[i].Int64
		}
		rows = append(rows, row)
	}
	return rows, res.Meta.LongName, nil
}

// FetchHistory returns OHLCV history for a local symbol. Any failure yields
// an empty series tagged with the symbol.
func (c *Client) FetchHistory(ctx context.Context, symbol, period, interval string) market.Series {
	if period == "" {
		period = "1y"
	}
	if interval == "" {
		interval = "1d"
	}
	s := market.Series{Symbol: symbol, Source: market.SourceFallback, Period: period, Interval: interval}

	rows, _, err := c.chart(ctx, Ticker(symbol), period, interval)
	c.observe("history", err)
	if err != nil {
		c.log.Error().Err(err).Str("symbol", symbol).Msg("fetching history")
		return s
	}
	if len(rows) == 0 {
		c.log.Warn().Str("symbol", symbol).Msg("no historical data")
		return s
	}
	s.Rows = rows
	return s
}
