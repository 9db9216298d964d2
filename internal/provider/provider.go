package provider

import (
	"context"

	"marketpipeline/internal/market"
)

// Kind tells the pipeline which role a source plays.
type Kind string

const (
	KindPrimary   Kind = "primary"
	KindFallback  Kind = "fallback"
	KindIndicator Kind = "indicator"
)

// Batch is a best-effort market fetch. Only successes are carried; failures
// are counted for fetch metadata.
type Batch struct {
	Indices   *market.IndexRecord
	Stocks    []market.StockRecord
	Attempted int
	Failed    int
}

// Complete reports whether the batch has indices and at least one stock.
func (b Batch) Complete() bool { return b.Indices != nil && len(b.Stocks) > 0 }

// Source returns indices and quotes for a set of symbols. An empty symbols
// slice means the source's own universe. Sources never fail loudly: an
// unavailable upstream yields an empty batch.
//
//go:generate mockgen -package=pipeline_test -destination=../pipeline/mock_provider_test.go -source=provider.go
type Source interface {
	Name() string
	Kind() Kind
	FetchMarket(ctx context.Context, symbols []string) Batch
}

// FallbackSource is a Source that also serves price history.
type FallbackSource interface {
	Source
	FetchHistory(ctx context.Context, symbol, period, interval string) market.Series
}

// IndicatorSource enriches stocks with technical indicators.
type IndicatorSource interface {
	Name() string
	Kind() Kind
	Enabled() bool
	FetchIndicators(ctx context.Context, symbol string) (market.TechnicalIndicatorSet, bool)
}
