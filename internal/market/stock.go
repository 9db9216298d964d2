package market

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/guregu/null/v6"
	"github.com/shopspring/decimal"
)

// StockRecord is the unified per-symbol quote every source normalizes to.
// Prices are in MAD.
type StockRecord struct {
	Symbol        string              `json:"symbol"`
	Name          string              `json:"name"`
	Price         decimal.Decimal     `json:"price"`
	Open          decimal.NullDecimal `json:"open"`
	High          decimal.NullDecimal `json:"high"`
	Low           decimal.NullDecimal `json:"low"`
	Close         decimal.NullDecimal `json:"close"`
	Volume        int64               `json:"volume"`
	Change        decimal.Decimal     `json:"change"`
	ChangePercent decimal.Decimal     `json:"change_percent"`
	MarketCap     decimal.NullDecimal `json:"market_cap"`
	Sector        null.String         `json:"sector"`
	PERatio       decimal.NullDecimal `json:"pe_ratio"`
	DividendYield decimal.NullDecimal `json:"dividend_yield"`
	Timestamp     time.Time           `json:"timestamp"`
	Source        Source              `json:"source"`
}

var (
	ErrEmptySymbol    = errors.New("empty symbol")
	ErrNegativePrice  = errors.New("negative price")
	ErrNegativeVolume = errors.New("negative volume")
	ErrSignMismatch   = errors.New("change and change_percent disagree in sign")
	ErrInvalidSource  = errors.New("invalid source tag")
	ErrMissingIndex   = errors.New("missing index value")
)

// Validate checks the record invariants.
func (s StockRecord) Validate() error {
	if strings.TrimSpace(s.Symbol) == "" {
		return ErrEmptySymbol
	}
	if s.Price.IsNegative() {
		return fmt.Errorf("%s: %w", s.Symbol, ErrNegativePrice)
	}
	if s.Volume < 0 {
		return fmt.Errorf("%s: %w", s.Symbol, ErrNegativeVolume)
	}
	if s.Change.Sign()*s.ChangePercent.Sign() < 0 {
		return fmt.Errorf("%s: %w", s.Symbol, ErrSignMismatch)
	}
	if !validStockSource(s.Source) {
		return fmt.Errorf("%s: %w: %q", s.Symbol, ErrInvalidSource, s.Source)
	}
	return nil
}

// OptionalField names the four fields scored for completeness.
type OptionalField string

const (
	FieldMarketCap     OptionalField = "market_cap"
	FieldSector        OptionalField = "sector"
	FieldPERatio       OptionalField = "pe_ratio"
	FieldDividendYield OptionalField = "dividend_yield"
)

// OptionalFields lists the scored fields in reporting order.
var OptionalFields = []OptionalField{FieldMarketCap, FieldSector, FieldPERatio, FieldDividendYield}

// Has reports whether the optional field carries a usable value.
// Zero and empty values count as missing.
func (s StockRecord) Has(f OptionalField) bool {
	switch f {
	case FieldMarketCap:
		return present(s.MarketCap)
	case FieldSector:
		return s.Sector.Valid && strings.TrimSpace(s.Sector.String) != ""
	case FieldPERatio:
		return present(s.PERatio)
	case FieldDividendYield:
		return present(s.DividendYield)
	}
	return false
}

func present(d decimal.NullDecimal) bool { return d.Valid && !d.Decimal.IsZero() }
