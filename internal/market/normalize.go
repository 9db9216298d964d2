package market

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/guregu/null/v6"
	"github.com/shopspring/decimal"
)

// Number is a numeric field as providers send it: a JSON number, a
// formatted string ("12,847.35 MAD", "+0.42%") or null.
type Number struct {
	Value decimal.Decimal
	Valid bool
}

func (n *Number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*n = Number{}
		return nil
	}
	var text string
	if b[0] == '"' {
		if err := json.Unmarshal(b, &text); err != nil {
			return fmt.Errorf("decoding number: %w", err)
		}
		if strings.TrimSpace(text) == "" {
			*n = Number{}
			return nil
		}
	} else {
		text = string(b)
	}
	d, err := ParseNumber(text)
	if err != nil {
		return err
	}
	*n = Number{Value: d, Valid: true}
	return nil
}

// NumberOf wraps a known value.
func NumberOf(d decimal.Decimal) Number { return Number{Value: d, Valid: true} }

// numberCleaner strips exchange formatting: thousands separators, the
// currency suffix, percent signs and (non-breaking) spaces.
var numberCleaner = strings.NewReplacer(
	",", "",
	"MAD", "",
	"%", "",
	" ", "",
	"\u00a0", "",
	"\u202f", "",
)

// ParseNumber parses exchange-formatted numeric text.
func ParseNumber(text string) (decimal.Decimal, error) {
	cleaned := numberCleaner.Replace(strings.TrimSpace(text))
	cleaned = strings.TrimPrefix(cleaned, "+")
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("parse number %q: empty", text)
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse number %q: %w", text, err)
	}
	return d, nil
}

// DecimalFromFloat converts a provider float, rejecting NaN and infinities.
func DecimalFromFloat(f float64) (decimal.Decimal, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero, false
	}
	return decimal.NewFromFloat(f), true
}

// optional treats missing and zero values as absent.
func optional(n Number) decimal.NullDecimal {
	if !n.Valid || n.Value.IsZero() {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(n.Value)
}

// StockPayload is the provider-neutral raw shape of a stock quote.
type StockPayload struct {
	Symbol        string `json:"symbol"`
	Name          string `json:"name"`
	Price         Number `json:"price"`
	Open          Number `json:"open"`
	High          Number `json:"high"`
	Low           Number `json:"low"`
	Close         Number `json:"close"`
	Volume        Number `json:"volume"`
	Change        Number `json:"change"`
	ChangePercent Number `json:"change_percent"`
	MarketCap     Number `json:"market_cap"`
	Sector        string `json:"sector"`
	PERatio       Number `json:"pe_ratio"`
	DividendYield Number `json:"dividend_yield"`
}

// Normalize converts the payload into a validated StockRecord. symbol wins
// over the payload's own symbol when non-empty.
func (p StockPayload) Normalize(symbol string, src Source, ts time.Time) (StockRecord, error) {
	sym := strings.ToUpper(strings.TrimSpace(symbol))
	if sym == "" {
		sym = strings.ToUpper(strings.TrimSpace(p.Symbol))
	}
	if !p.Price.Valid {
		return StockRecord{}, fmt.Errorf("%s: missing price", sym)
	}
	name := strings.TrimSpace(p.Name)
	if name == "" {
		name = sym
	}
	rec := StockRecord{
		Symbol:        sym,
		Name:          name,
		Price:         p.Price.Value,
		Open:          optional(p.Open),
		High:          optional(p.High),
		Low:           optional(p.Low),
		Close:         optional(p.Close),
		Volume:        p.Volume.Value.IntPart(),
		Change:        p.Change.Value,
		ChangePercent: p.ChangePercent.Value,
		MarketCap:     optional(p.MarketCap),
		PERatio:       optional(p.PERatio),
		DividendYield: optional(p.DividendYield),
		Timestamp:     ts,
		Source:        src,
	}
	if s := strings.TrimSpace(p.Sector); s != "" {
		rec.Sector = null.StringFrom(s)
	}
	if err := rec.Validate(); err != nil {
		return StockRecord{}, err
	}
	return rec, nil
}

// IndexQuotePayload is the raw shape of one index: {value, change_percent, volume}.
type IndexQuotePayload struct {
	Value         Number `json:"value"`
	ChangePercent Number `json:"change_percent"`
	Volume        Number `json:"volume"`
}

func (q IndexQuotePayload) quote() IndexQuote {
	out := IndexQuote{Value: q.Value.Value, ChangePercent: q.ChangePercent.Value}
	if q.Volume.Valid {
		out.Volume = null.IntFrom(q.Volume.Value.IntPart())
	}
	return out
}

// IndexPayload is the raw shape of the indices endpoint.
type IndexPayload struct {
	MASI  IndexQuotePayload `json:"masi"`
	MADEX IndexQuotePayload `json:"madex"`
}

// Normalize converts the payload into a validated IndexRecord.
func (p IndexPayload) Normalize(src Source, status Status, ts time.Time) (IndexRecord, error) {
	rec := IndexRecord{
		MASI:         p.MASI.quote(),
		MADEX:        p.MADEX.quote(),
		Timestamp:    ts,
		Source:       src,
		MarketStatus: status,
	}
	if err := rec.Validate(); err != nil {
		return IndexRecord{}, err
	}
	return rec, nil
}
