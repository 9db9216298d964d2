package quality

import (
	"math"

	"marketpipeline/internal/market"
)

// Score counts the optional fields (market cap, sector, P/E, dividend
// yield) populated across stocks.
//
//	completeness = (total_checks - missing_checks) / total_checks * 100
//
// rounded to two decimals. No stocks yields a zero report, not a division error.
func Score(stocks []market.StockRecord) market.QualityReport {
	missing := make(map[market.OptionalField]int, len(market.OptionalFields))
	for _, f := range market.OptionalFields {
		missing[f] = 0
	}
	report := market.QualityReport{MissingFields: missing}
	if len(stocks) == 0 {
		return report
	}

	for _, s := range stocks {
		for _, f := range market.OptionalFields {
			report.TotalChecks++
			if !s.Has(f) {
				missing[f]++
				report.MissingChecks++
			}
		}
	}
	report.TotalStocks = len(stocks)
	pct := float64(report.TotalChecks-report.MissingChecks) / float64(report.TotalChecks) * 100
	report.Completeness = math.Round(pct*100) / 100
	return report
}

// UniqueBySymbol collapses duplicate symbols. The first occurrence keeps its
// position; for equal or later timestamps, later input wins. Zero timestamps
// never replace a set one.
func UniqueBySymbol(stocks []market.StockRecord) []market.StockRecord {
	pos := make(map[string]int, len(stocks))
	out := make([]market.StockRecord, 0, len(stocks))
	for _, s := range stocks {
		i, seen := pos[s.Symbol]
		if !seen {
			pos[s.Symbol] = len(out)
			out = append(out, s)
			continue
		}
		cur := out[i]
		if s.Timestamp.IsZero() && !cur.Timestamp.IsZero() {
			continue
		}
		if !s.Timestamp.Before(cur.Timestamp) {
			out[i] = s
		}
	}
	return out
}
