package yahoo

import (
	"time"

	"github.com/shopspring/decimal"

	"marketpipeline/internal/market"
)

// SyntheticParams are the constants used to stand in for composite indices
// the provider does not publish.
type SyntheticParams struct {
	MASIBase        decimal.Decimal
	MADEXBase       decimal.Decimal
	MADEXMultiplier decimal.Decimal
}

func DefaultSyntheticParams() SyntheticParams {
	return SyntheticParams{
		MASIBase:        decimal.RequireFromString("12847.35"),
		MADEXBase:       decimal.RequireFromString("10452.18"),
		MADEXMultiplier: decimal.RequireFromString("1.1"),
	}
}

func (p SyntheticParams) withDefaults() SyntheticParams {
	d := DefaultSyntheticParams()
	if p.MASIBase.Sign() <= 0 {
		p.MASIBase = d.MASIBase
	}
	if p.MADEXBase.Sign() <= 0 {
		p.MADEXBase = d.MADEXBase
	}
	if p.MADEXMultiplier.IsZero() {
		p.MADEXMultiplier = d.MADEXMultiplier
	}
	return p
}

// SyntheticIndices derives MASI and MADEX readings from stock moves. Both
// changes use the mean change percent, MADEX scaled by the multiplier, each
// rounded to two decimals. Levels are the fixed baselines and the market is
// reported closed since the data is delayed. No stocks, no indices.
func SyntheticIndices(stocks []market.StockRecord, p SyntheticParams, now time.Time) (market.IndexRecord, bool) {
	if len(stocks) == 0 {
		return market.IndexRecord{}, false
	}
	sum := decimal.Zero
	for _, s := range stocks {
		sum = sum.Add(s.ChangePercent)
	}
	mean := sum.Div(decimal.NewFromInt(int64(len(stocks))))

	return market.IndexRecord{
		MASI:         market.IndexQuote{Value: p.MASIBase, ChangePercent: mean.Round(2)},
		MADEX:        market.IndexQuote{Value: p.MADEXBase, ChangePercent: mean.Mul(p.MADEXMultiplier).Round(2)},
		Timestamp:    now,
		Source:       market.SourceDerived,
		MarketStatus: market.StatusClosed,
	}, true
}
