package engine

import (
	"context"
	"errors"

	"AgriQuery/internal/datagov"
	"AgriQuery/internal/domain"
	"AgriQuery/internal/regions"
)

// policyAnalysis assembles rainfall and production context for one
// state/crop/year-span. No statistics are computed here; the argument
// synthesis is the narrative generator's job.
func (e *Engine) policyAnalysis(ctx context.Context, q domain.QueryDescription) (domain.ResultEnvelope, error) {
	var state, crop string
	if len(q.States) > 0 {
		state = q.States[0]
	}
	if len(q.Crops) > 0 {
		crop = q.Crops[0]
	}
	if state == "" || len(q.Years) != 2 {
		msg := "Please specify a state and a year range for policy analysis."
		e.logger.Warn("policy_analysis missing fields", "states", q.States, "years", q.Years)
		return guidanceEnvelope(msg, nil), nil
	}
	yearStart, yearEnd := q.Years[0], q.Years[1]
	window := windowLabel(yearStart, yearEnd)

	var env domain.ResultEnvelope

	rainfallRecords := 0
	subdivisions := regions.SubdivisionsFor(state)
	for _, subdivision := range subdivisions {
		records, err := e.data.FetchRainfall(ctx, datagov.RainfallQuery{
			Subdivision: subdivision,
			YearStart:   yearStart,
			YearEnd:     yearEnd,
			Limit:       rainfallFetchLimit,
		})
		if err != nil {
			if errors.Is(err, datagov.ErrUnauthorized) {
				return domain.ResultEnvelope{}, err
			}
			e.logger.Warn("rainfall fetch failed",
				"state", state, "subdivision", subdivision, "error", err)
			continue
		}
		rainfallRecords += len(records)
		env.Sources = append(env.Sources, citation(e.data.RainfallDataset(), map[string]string{
			"Subdivision": subdivision,
			"Years":       window,
		}, len(records)))
	}
	rainfallContext := map[string]any{
		"state":   state,
		"years":   []int{yearStart, yearEnd},
		"records": rainfallRecords,
	}

	productionContext := map[string]any{}
	if crop != "" {
		records, err := e.fetchCropWindow(ctx, state, crop, yearStart, yearEnd)
		if err != nil {
			return domain.ResultEnvelope{}, err
		}
		env.Sources = append(env.Sources, citation(e.data.CropDataset(), map[string]string{
			"state_name": state,
			"crop":       crop,
			"Years":      window,
		}, len(records)))
		productionContext = map[string]any{
			"state":   state,
			"crop":    crop,
			"years":   []int{yearStart, yearEnd},
			"records": len(records),
		}
	}

	env.Data = map[string]any{
		"states":      map[string]any{},
		"comparisons": map[string]any{},
		"statistics": map[string]any{
			"rainfall":   rainfallContext,
			"production": productionContext,
		},
	}
	env.Metadata.YearWindows = map[string]string{"requested": window}
	env.Finalize()
	return env, nil
}
