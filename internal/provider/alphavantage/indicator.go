package alphavantage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"net/http"
	"strconv"
	"strings"
)

// ErrRateLimited is returned when the API answers with a usage note
// instead of data.
var ErrRateLimited = errors.New("alphavantage: rate limited")

// ErrNoData is returned when the response carries no readings.
var ErrNoData = errors.New("alphavantage: no data")

// Reading is the latest row of a technical indicator series.
type Reading struct {
	Date   string
	Values map[string]float64
}

// Float returns one named value of the reading.
func (r Reading) Float(key string) (float64, bool) {
	v, ok := r.Values[key]
	return v, ok
}

// GetIndicator calls function (RSI, MACD, BBANDS, SMA...) for symbol and
// returns the most recent row of "Technical Analysis: <function>".
func (c *APIClient) GetIndicator(ctx context.Context, function, symbol string, params map[string]string, opts ...APIClientOption) (Reading, error) {
	var override = &APIClient{
		baseURL:    c.baseURL,
		httpClient: c.httpClient,
		header:     c.header.Clone(),
		query:      c.query,
	}
	for _, opt := range opts {
		opt(override)
	}

	query := maps.Clone(override.query)
	query.Set("function", function)
	query.Set("symbol", symbol)
	for k, v := range params {
		query.Set(k, v)
	}

	url := fmt.Sprintf("%s?%s", override.baseURL, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return Reading{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header = override.header

	res, err := override.httpClient.Do(req)
	if err != nil {
		return Reading{}, fmt.Errorf("performing request: %w", err)
	}
	defer res.Body.Close()

	switch res.StatusCode {
	case http.StatusOK:
		break

	case http.StatusTooManyRequests:
		return Reading{}, ErrRateLimited

	default:
		return Reading{}, fmt.Errorf("unexpected status code: %d", res.StatusCode)
	}

	var body map[string]json.RawMessage
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return Reading{}, fmt.Errorf("decoding %s response: %w", function, err)
	}

	// {"Error Message": "Invalid API call..."}
	if msg, ok := message(body, "Error Message"); ok {
		return Reading{}, fmt.Errorf("alphavantage: %s", msg)
	}
	// {"Note": "Thank you for using Alpha Vantage! Our standard API call frequency is 5 calls per minute..."}
	for _, key := range []string{"Note", "Information"} {
		if msg, ok := message(body, key); ok {
			return Reading{}, fmt.Errorf("%w: %s", ErrRateLimited, msg)
		}
	}

	// {"Technical Analysis: RSI": {"2025-03-04": {"RSI": "61.2345"}, ...}}
	raw, ok := body["Technical Analysis: "+function]
	if !ok {
		return Reading{}, fmt.Errorf("%w: %s %s", ErrNoData, function, symbol)
	}
	var series map[string]map[string]string
	if err := json.Unmarshal(raw, &series); err != nil {
		return Reading{}, fmt.Errorf("decoding %s series: %w", function, err)
	}

	var latest string
	for date := range series {
		if date > latest {
			latest = date
		}
	}
	if latest == "" {
		return Reading{}, fmt.Errorf("%w: %s %s", ErrNoData, function, symbol)
	}

	values := make(map[string]float64, len(series[latest]))
	for k, v := range series[latest] {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return Reading{}, fmt.Errorf("decoding %s %q: %w", function, k, err)
		}
		values[k] = f
	}
	return Reading{Date: latest, Values: values}, nil
}

func message(body map[string]json.RawMessage, key string) (string, bool) {
	raw, ok := body[key]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return string(raw), true
	}
	return s, true
}
