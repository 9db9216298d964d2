// Package pipeline runs the multi-source fetch cycle: primary source first,
// fallback when the primary result is incomplete, optional indicator
// enrichment, then quality scoring and an atomic commit of the snapshot.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"marketpipeline/internal/market"
	"marketpipeline/internal/metrics"
	"marketpipeline/internal/provider"
	"marketpipeline/internal/quality"
)

// ErrNoData is returned when neither the primary nor the fallback source
// produced usable data.
var ErrNoData = errors.New("pipeline: no data from any source")

// MaxIndicatorSymbols caps indicator requests per cycle.
const MaxIndicatorSymbols = 5

// Options are the pipeline switches.
type Options struct {
	PrimarySource        string
	AutoFallback         bool
	EnableDataValidation bool
	// FallbackUniverse is the symbol list handed to the fallback source.
	FallbackUniverse []string
	// CycleTimeout bounds a fetch cycle. Zero means no bound beyond the
	// sources' own request timeouts.
	CycleTimeout time.Duration
	Now          func() time.Time
}

// State is what the last successful cycle left behind. It is replaced
// whole, never mutated.
type State struct {
	LastFetch  time.Time
	LastSource market.Source
	Snapshot   market.Snapshot
}

// cycle records per-source health of the most recent cycle, successful or not.
type cycle struct {
	primaryOK    bool
	fallbackOK   bool
	indicatorsOK bool
}

// Pipeline owns the sources and the runtime state.
type Pipeline struct {
	opts       Options
	primary    provider.Source
	fallback   provider.FallbackSource
	indicators provider.IndicatorSource
	log        zerolog.Logger

	state atomic.Pointer[State]
	last  atomic.Pointer[cycle]
	// one cycle in flight; concurrent callers share its result
	sf singleflight.Group
}

// New wires the sources. fallback and indicators may be nil.
func New(opts Options, primary provider.Source, fallback provider.FallbackSource, indicators provider.IndicatorSource, log zerolog.Logger) *Pipeline {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if len(opts.FallbackUniverse) == 0 {
		opts.FallbackUniverse = market.FallbackUniverse
	}
	if opts.PrimarySource == "" && primary != nil {
		opts.PrimarySource = primary.Name()
	}
	return &Pipeline{
		opts:       opts,
		primary:    primary,
		fallback:   fallback,
		indicators: indicators,
		log:        log.With().Str("component", "pipeline").Logger(),
	}
}

// FetchSnapshot runs one fetch cycle. When no source succeeds it returns the
// assembled "none" snapshot together with ErrNoData and commits nothing.
//
// Concurrent callers share one cycle. The cycle is detached from the
// callers' cancellation: a caller whose ctx ends gets ctx.Err() right away
// while the cycle finishes for the others. Each caller gets its own copy.
func (p *Pipeline) FetchSnapshot(ctx context.Context) (market.Snapshot, error) {
	ch := p.sf.DoChan("snapshot", func() (any, error) {
		runCtx, cancel := p.cycleContext(ctx)
		defer cancel()
		snap, err := p.run(runCtx)
		return snap, err
	})
	select {
	case <-ctx.Done():
		return market.Snapshot{}, ctx.Err()
	case res := <-ch:
		if res.Shared {
			p.log.Debug().Msg("joined in-flight fetch cycle")
		}
		snap, _ := res.Val.(market.Snapshot)
		return snap.Clone(), res.Err
	}
}

func (p *Pipeline) cycleContext(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx = context.WithoutCancel(ctx)
	if p.opts.CycleTimeout > 0 {
		return context.WithTimeout(ctx, p.opts.CycleTimeout)
	}
	return context.WithCancel(ctx)
}

func (p *Pipeline) run(ctx context.Context) (market.Snapshot, error) {
	start := p.opts.Now()
	meta := market.FetchMetadata{
		FetchID:    uuid.NewString(),
		Timestamp:  start.UTC(),
		SourceUsed: market.SourceNone,
		Errors:     []string{},
	}
	log := p.log.With().Str("fetch_id", meta.FetchID).Logger()
	log.Info().Msg("starting market data fetch")

	var (
		batch provider.Batch
		cyc   cycle
	)
	if p.primary != nil {
		pb := p.primary.FetchMarket(ctx, nil)
		meta.PrimaryAttempted, meta.PrimaryFailed = pb.Attempted, pb.Failed
		if pb.Complete() {
			batch, cyc.primaryOK = pb, true
			meta.SourceUsed = market.SourcePrimary
			log.Info().Int("stocks", len(pb.Stocks)).Msg("primary source succeeded")
		} else {
			meta.Errors = append(meta.Errors, fmt.Sprintf("primary source incomplete: indices=%t stocks=%d", pb.Indices != nil, len(pb.Stocks)))
			log.Warn().Bool("indices", pb.Indices != nil).Int("stocks", len(pb.Stocks)).Msg("primary source returned incomplete data")
		}
	}

	if !cyc.primaryOK && p.fallback != nil && p.opts.AutoFallback {
		log.Info().Msg("switching to fallback source")
		meta.FallbackUsed = true
		fb := p.fallback.FetchMarket(ctx, p.opts.FallbackUniverse)
		if fb.Complete() {
			batch, cyc.fallbackOK = fb, true
			meta.SourceUsed = market.SourceFallback
			log.Info().Int("stocks", len(fb.Stocks)).Msg("fallback source succeeded")
		} else {
			meta.Errors = append(meta.Errors, fmt.Sprintf("fallback source failed: %d of %d stocks", len(fb.Stocks), fb.Attempted))
			log.Error().Msg("fallback source failed to fetch stocks")
		}
	}

	snap := market.Snapshot{Indices: batch.Indices, Stocks: batch.Stocks}
	if snap.Stocks == nil {
		snap.Stocks = []market.StockRecord{}
	}
	if p.opts.EnableDataValidation {
		meta.Errors = append(meta.Errors, p.validate(&snap)...)
	}

	if p.indicators != nil && p.indicators.Enabled() {
		snap.Indicators = p.enrich(ctx, snap.Stocks)
		cyc.indicatorsOK = len(snap.Indicators) > 0
	}

	snap.Quality = quality.Score(snap.Stocks)
	end := p.opts.Now()
	meta.DurationSeconds = end.Sub(start).Seconds()
	meta.StocksCount = len(snap.Stocks)
	meta.HasIndices = snap.Indices != nil
	meta.HasIndicators = len(snap.Indicators) > 0
	snap.Metadata = meta

	p.last.Store(&cyc)
	metrics.FetchCycles.WithLabelValues(string(meta.SourceUsed)).Inc()
	metrics.FetchDuration.Observe(meta.DurationSeconds)

	if meta.SourceUsed == market.SourceNone {
		log.Error().Strs("errors", meta.Errors).Msg("no source produced data")
		return snap, ErrNoData
	}

	metrics.Completeness.Set(snap.Quality.Completeness)
	p.state.Store(&State{LastFetch: end, LastSource: meta.SourceUsed, Snapshot: snap.Clone()})
	log.Info().
		Str("source_used", string(meta.SourceUsed)).
		Int("stocks", meta.StocksCount).
		Float64("completeness", snap.Quality.Completeness).
		Float64("duration_seconds", meta.DurationSeconds).
		Msg("fetch complete")
	return snap, nil
}

// validate drops records that break the schema invariants and collapses
// duplicate symbols. It returns one diagnostic per dropped record.
func (p *Pipeline) validate(snap *market.Snapshot) []string {
	var diags []string
	if snap.Indices != nil {
		if err := snap.Indices.Validate(); err != nil {
			diags = append(diags, fmt.Sprintf("indices dropped: %v", err))
			snap.Indices = nil
		}
	}
	kept := make([]market.StockRecord, 0, len(snap.Stocks))
	for _, s := range snap.Stocks {
		if err := s.Validate(); err != nil {
			diags = append(diags, fmt.Sprintf("stock dropped: %v", err))
			continue
		}
		kept = append(kept, s)
	}
	unique := quality.UniqueBySymbol(kept)
	if n := len(kept) - len(unique); n > 0 {
		diags = append(diags, fmt.Sprintf("%d duplicate symbols collapsed", n))
	}
	snap.Stocks = unique
	for _, d := range diags {
		p.log.Warn().Msg(d)
	}
	return diags
}

// enrich fetches indicators for the first MaxIndicatorSymbols stocks.
func (p *Pipeline) enrich(ctx context.Context, stocks []market.StockRecord) map[string]market.TechnicalIndicatorSet {
	out := make(map[string]market.TechnicalIndicatorSet)
	for i, s := range stocks {
		if i == MaxIndicatorSymbols {
			break
		}
		if set, ok := p.indicators.FetchIndicators(ctx, s.Symbol); ok {
			out[s.Symbol] = set
		}
	}
	return out
}

// LatestSnapshot returns a copy of the last committed snapshot.
func (p *Pipeline) LatestSnapshot() (market.Snapshot, bool) {
	st := p.state.Load()
	if st == nil {
		return market.Snapshot{}, false
	}
	return st.Snapshot.Clone(), true
}

// Stocks returns the last committed stocks, running a cycle only when
// nothing (or an empty list) has been committed yet.
func (p *Pipeline) Stocks(ctx context.Context) ([]market.StockRecord, error) {
	if st := p.state.Load(); st != nil && len(st.Snapshot.Stocks) > 0 {
		return slices.Clone(st.Snapshot.Stocks), nil
	}
	snap, err := p.FetchSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Stocks, nil
}

// FetchHistory delegates to the fallback source. Without one the series
// is empty.
func (p *Pipeline) FetchHistory(ctx context.Context, symbol, period, interval string) market.Series {
	if p.fallback == nil {
		p.log.Warn().Str("symbol", symbol).Msg("history requested without a fallback source")
		return market.Series{Symbol: symbol, Period: period, Interval: interval}
	}
	return p.fallback.FetchHistory(ctx, symbol, period, interval)
}
