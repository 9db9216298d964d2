package market

import (
	"maps"
	"slices"
	"time"
)

// QualityReport summarizes how many optional stock fields were populated.
type QualityReport struct {
	Completeness  float64               `json:"completeness"`
	TotalStocks   int                   `json:"total_stocks"`
	TotalChecks   int                   `json:"total_checks"`
	MissingChecks int                   `json:"missing_checks"`
	MissingFields map[OptionalField]int `json:"missing_fields"`
}

// FetchMetadata describes one orchestrator cycle.
type FetchMetadata struct {
	FetchID          string    `json:"fetch_id"`
	Timestamp        time.Time `json:"fetch_timestamp"`
	SourceUsed       Source    `json:"source_used"`
	DurationSeconds  float64   `json:"fetch_duration_seconds"`
	StocksCount      int       `json:"stocks_count"`
	HasIndices       bool      `json:"has_indices"`
	HasIndicators    bool      `json:"has_technical_indicators"`
	PrimaryAttempted int       `json:"primary_attempted"`
	PrimaryFailed    int       `json:"primary_failed"`
	FallbackUsed     bool      `json:"fallback_used"`
	Errors           []string  `json:"errors"`
}

// Snapshot is the unified output of one fetch cycle.
type Snapshot struct {
	Indices    *IndexRecord                     `json:"indices"`
	Stocks     []StockRecord                    `json:"stocks"`
	Indicators map[string]TechnicalIndicatorSet `json:"technical_indicators"`
	Quality    QualityReport                    `json:"data_quality"`
	Metadata   FetchMetadata                    `json:"fetch_metadata"`
}

// Stock looks a symbol up in the snapshot.
func (s *Snapshot) Stock(symbol string) (StockRecord, bool) {
	for _, st := range s.Stocks {
		if st.Symbol == symbol {
			return st, true
		}
	}
	return StockRecord{}, false
}

// Clone returns a deep copy: no slice, map or pointer is shared with s.
func (s Snapshot) Clone() Snapshot {
	out := s
	if s.Indices != nil {
		idx := *s.Indices
		out.Indices = &idx
	}
	out.Stocks = slices.Clone(s.Stocks)
	out.Indicators = maps.Clone(s.Indicators)
	out.Quality.MissingFields = maps.Clone(s.Quality.MissingFields)
	out.Metadata.Errors = slices.Clone(s.Metadata.Errors)
	return out
}
