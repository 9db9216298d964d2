package pipeline

import (
	"time"

	"marketpipeline/internal/market"
	"marketpipeline/internal/provider"
)

// SourceStatus describes one configured source.
type SourceStatus struct {
	Name    string        `json:"name"`
	Kind    provider.Kind `json:"kind"`
	Enabled bool          `json:"enabled"`
	Healthy bool          `json:"healthy"`
}

// Status is a read-only view of the pipeline. Building it never fetches.
type Status struct {
	Sources       []SourceStatus `json:"sources"`
	LastFetch     *time.Time     `json:"last_fetch_time"`
	LastSource    market.Source  `json:"last_source_used"`
	HasCachedData bool           `json:"has_cached_data"`
	Config        StatusConfig   `json:"config"`
}

// StatusConfig echoes the switches the pipeline runs with.
type StatusConfig struct {
	PrimarySource        string `json:"primary_source"`
	FallbackEnabled      bool   `json:"fallback_enabled"`
	IndicatorsEnabled    bool   `json:"indicators_enabled"`
	AutoFallback         bool   `json:"auto_fallback"`
	EnableDataValidation bool   `json:"enable_data_validation"`
}

// Status reports each configured source with its health in the most recent
// cycle, plus what the last successful cycle committed.
func (p *Pipeline) Status() Status {
	var cyc cycle
	if c := p.last.Load(); c != nil {
		cyc = *c
	}
	st := Status{Sources: make([]SourceStatus, 0, 3)}
	st.Config = StatusConfig{
		PrimarySource:        p.opts.PrimarySource,
		FallbackEnabled:      p.fallback != nil,
		IndicatorsEnabled:    p.indicators != nil && p.indicators.Enabled(),
		AutoFallback:         p.opts.AutoFallback,
		EnableDataValidation: p.opts.EnableDataValidation,
	}
	if p.primary != nil {
		st.Sources = append(st.Sources, SourceStatus{Name: p.primary.Name(), Kind: p.primary.Kind(), Enabled: true, Healthy: cyc.primaryOK})
	}
	if p.fallback != nil {
		st.Sources = append(st.Sources, SourceStatus{Name: p.fallback.Name(), Kind: p.fallback.Kind(), Enabled: true, Healthy: cyc.fallbackOK})
	}
	if p.indicators != nil {
		st.Sources = append(st.Sources, SourceStatus{Name: p.indicators.Name(), Kind: p.indicators.Kind(), Enabled: p.indicators.Enabled(), Healthy: cyc.indicatorsOK})
	}
	if s := p.state.Load(); s != nil {
		t := s.LastFetch
		st.LastFetch = &t
		st.LastSource = s.LastSource
		st.HasCachedData = true
	}
	return st
}
