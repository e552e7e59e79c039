// Package engine dispatches structured queries to intent-specific
// aggregation handlers and assembles result envelopes with citations.
package engine

import (
	"context"
	"log/slog"

	"AgriQuery/internal/datagov"
	"AgriQuery/internal/domain"
	"AgriQuery/internal/ports"
)

// Fetch caps per logical call.
const (
	rainfallFetchLimit = 2000
	cropFetchLimit     = 10000
)

// Engine owns the intent registry and the data source used by handlers.
type Engine struct {
	data     ports.DataSource
	logger   *slog.Logger
	registry *Registry
}

// New wires all intent handlers into a ready engine.
func New(data ports.DataSource, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	e := &Engine{data: data, logger: logger}

	r := NewRegistry()
	r.Register(domain.IntentCompareRainfall, e.compareRainfall)
	r.Register(domain.IntentCompareCrops, e.compareCrops)
	r.Register(domain.IntentIdentifyDistrict, e.identifyDistrict)
	r.Register(domain.IntentAnalyzeTrend, e.analyzeTrend)
	r.Register(domain.IntentCorrelation, e.correlate)
	r.Register(domain.IntentPolicyAnalysis, e.policyAnalysis)
	r.Register(domain.IntentGeneral, e.general)
	e.registry = r
	return e
}

// Handle routes a normalized query to its intent handler.
func (e *Engine) Handle(ctx context.Context, q domain.QueryDescription) (domain.ResultEnvelope, error) {
	handler, err := e.registry.Resolve(q.Intent)
	if err != nil {
		return domain.ResultEnvelope{}, err
	}
	return handler(ctx, q)
}

// general is the fallback intent: rainfall comparison when states were
// parsed, crop comparison otherwise.
func (e *Engine) general(ctx context.Context, q domain.QueryDescription) (domain.ResultEnvelope, error) {
	if len(q.States) > 0 {
		return e.compareRainfall(ctx, q)
	}
	return e.compareCrops(ctx, q)
}

func citation(d datagov.Dataset, filters map[string]string, records int) domain.SourceCitation {
	return domain.SourceCitation{
		Dataset:          d.Name,
		ResourceID:       d.ResourceID,
		URL:              d.URL(),
		FiltersApplied:   filters,
		RecordsRetrieved: records,
	}
}

// guidanceEnvelope reports a missing-field or no-data outcome as a
// human-readable message rather than a failure.
func guidanceEnvelope(message string, sources []domain.SourceCitation) domain.ResultEnvelope {
	env := domain.ResultEnvelope{
		Answer:  message,
		Sources: sources,
		Data: map[string]any{
			"states":      map[string]any{},
			"comparisons": map[string]any{},
			"statistics":  map[string]any{},
		},
	}
	env.Finalize()
	return env
}
