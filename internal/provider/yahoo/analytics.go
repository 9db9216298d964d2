package yahoo

import (
	"context"

	"marketpipeline/internal/analytics"
)

// Volatility is the annualized volatility in percent over period of daily
// history.
func (c *Client) Volatility(ctx context.Context, symbol, period string) (float64, bool) {
	if period == "" {
		period = "1y"
	}
	s := c.FetchHistory(ctx, symbol, period, "1d")
	return analytics.Volatility(s.Closes())
}

// MovingAverages returns the latest SMA for each window the last year of
// history covers. Defaults to 20, 50 and 200.
func (c *Client) MovingAverages(ctx context.Context, symbol string, windows ...int) map[int]float64 {
	if len(windows) == 0 {
		windows = []int{20, 50, 200}
	}
	s := c.FetchHistory(ctx, symbol, "1y", "1d")
	return analytics.MovingAverages(s.Closes(), windows...)
}

// RSI computes the index over three months of daily closes.
func (c *Client) RSI(ctx context.Context, symbol string, period int) (float64, bool) {
	if period <= 0 {
		period = analytics.DefaultRSIPeriod
	}
	s := c.FetchHistory(ctx, symbol, "3mo", "1d")
	return analytics.RSI(s.Closes(), period)
}
