package market

import (
	"fmt"
	"time"

	"github.com/guregu/null/v6"
	"github.com/shopspring/decimal"
)

// Status is the trading session state of the exchange.
type Status string

const (
	StatusOpen       Status = "open"
	StatusClosed     Status = "closed"
	StatusPreMarket  Status = "pre_market"
	StatusAfterHours Status = "after_hours"
)

// IndexQuote is one composite index reading.
type IndexQuote struct {
	Value         decimal.Decimal `json:"value"`
	ChangePercent decimal.Decimal `json:"change_percent"`
	Volume        null.Int        `json:"volume"`
}

// IndexRecord carries the two tracked composite indices:
// MASI (all shares) and MADEX (most active shares).
type IndexRecord struct {
	MASI         IndexQuote `json:"masi"`
	MADEX        IndexQuote `json:"madex"`
	Timestamp    time.Time  `json:"timestamp"`
	Source       Source     `json:"source"`
	MarketStatus Status     `json:"market_status"`
}

// Validate checks that both index levels are set and non-negative.
func (r IndexRecord) Validate() error {
	if r.MASI.Value.Sign() <= 0 {
		return fmt.Errorf("masi: %w", ErrMissingIndex)
	}
	if r.MADEX.Value.Sign() <= 0 {
		return fmt.Errorf("madex: %w", ErrMissingIndex)
	}
	if !validIndexSource(r.Source) {
		return fmt.Errorf("index: %w: %q", ErrInvalidSource, r.Source)
	}
	switch r.MarketStatus {
	case StatusOpen, StatusClosed, StatusPreMarket, StatusAfterHours:
	default:
		return fmt.Errorf("index: unknown market status %q", r.MarketStatus)
	}
	return nil
}
