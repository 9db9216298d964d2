package market

import "time"

// HistoryRow is one OHLCV bar. Column names are always lowercase,
// whatever casing the provider used.
type HistoryRow struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// Series is a time-ordered OHLCV history for one symbol.
type Series struct {
	Symbol   string       `json:"symbol"`
	Source   Source       `json:"source"`
	Period   string       `json:"period"`
	Interval string       `json:"interval"`
	Rows     []HistoryRow `json:"rows"`
}

func (s Series) Len() int { return len(s.Rows) }

// Closes returns the close column.
func (s Series) Closes() []float64 {
	out := make([]float64, len(s.Rows))
	for i, r := range s.Rows {
		out[i] = r.Close
	}
	return out
}
