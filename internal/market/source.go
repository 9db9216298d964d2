package market

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Source tags where a record came from.
type Source string

const (
	SourcePrimary  Source = "primary"
	SourceFallback Source = "fallback"
	SourceDerived  Source = "derived"
	SourceManual   Source = "manual"
	// SourceNone is only used in fetch metadata when nothing succeeded.
	SourceNone Source = "none"
)

// sourceAliases maps provider spellings onto the canonical tags.
//
//	casablanca_bourse, bvc        -> primary
//	yahoo_finance, yahoo          -> fallback
//	calculated, synthetic         -> derived
var sourceAliases = map[string]Source{
	"primary":           SourcePrimary,
	"casablanca_bourse": SourcePrimary,
	"casablanca-bourse": SourcePrimary,
	"bvc":               SourcePrimary,
	"fallback":          SourceFallback,
	"yahoo_finance":     SourceFallback,
	"yahoo":             SourceFallback,
	"derived":           SourceDerived,
	"calculated":        SourceDerived,
	"synthetic":         SourceDerived,
	"manual":            SourceManual,
	"none":              SourceNone,
}

// ParseSource normalizes case, spaces and aliases.
func ParseSource(s string) (Source, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if src, ok := sourceAliases[key]; ok {
		return src, nil
	}
	return "", fmt.Errorf("unknown source %q", s)
}

func (s *Source) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("decoding source: %w", err)
	}
	src, err := ParseSource(raw)
	if err != nil {
		return err
	}
	*s = src
	return nil
}

// validStockSource reports whether s may tag a StockRecord.
func validStockSource(s Source) bool {
	switch s {
	case SourcePrimary, SourceFallback, SourceManual:
		return true
	}
	return false
}

// validIndexSource reports whether s may tag an IndexRecord.
func validIndexSource(s Source) bool {
	switch s {
	case SourcePrimary, SourceDerived, SourceFallback:
		return true
	}
	return false
}
