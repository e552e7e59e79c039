package engine

import (
	"context"
	"errors"
	"sort"

	"AgriQuery/internal/datagov"
	"AgriQuery/internal/domain"
)

// identifyDistrict ranks districts by total production for one crop in one
// concrete year, returning both the top-N and the bottom-N (worst first).
func (e *Engine) identifyDistrict(ctx context.Context, q domain.QueryDescription) (domain.ResultEnvelope, error) {
	var crop string
	if len(q.Crops) > 0 {
		crop = q.Crops[0]
	}
	year := concreteYear(q.Years)
	if crop == "" || year == 0 {
		msg := "Please specify a crop and a single year to identify top/bottom districts."
		e.logger.Warn("identify_district missing fields", "crops", q.Crops, "years", q.Years)
		return guidanceEnvelope(msg, nil), nil
	}

	// No states given means search nationwide with one unfiltered call.
	targetStates := q.States
	if len(targetStates) == 0 {
		targetStates = []string{""}
	}

	var env domain.ResultEnvelope
	var fetched []datagov.CropRecord
	for _, state := range targetStates {
		records, err := e.data.FetchCropProduction(ctx, datagov.CropQuery{
			State: state,
			Crop:  crop,
			Year:  year,
			Limit: cropFetchLimit,
		})
		if err != nil {
			if errors.Is(err, datagov.ErrUnauthorized) {
				return domain.ResultEnvelope{}, err
			}
			e.logger.Warn("district fetch failed", "state", state, "error", err)
			continue
		}
		if len(records) == 0 {
			continue
		}
		fetched = append(fetched, records...)

		filters := map[string]string{
			"crop":      crop,
			"crop_year": windowLabel(year, year),
		}
		if state != "" {
			filters["state_name"] = state
		}
		env.Sources = append(env.Sources, citation(e.data.CropDataset(), filters, len(records)))
	}

	if len(fetched) == 0 {
		msg := "No districts found for the specified crop/year filters."
		e.logger.Warn("identify_district empty result", "crop", crop, "year", year)
		return guidanceEnvelope(msg, env.Sources), nil
	}

	aggregated := aggregateCrop(fetched, func(r datagov.CropRecord) string { return r.District })
	rankings := make([]domain.AggregatedMetric, 0, len(aggregated))
	for _, m := range aggregated {
		rankings = append(rankings, *m)
	}
	sort.SliceStable(rankings, func(i, j int) bool {
		if rankings[i].Production != rankings[j].Production {
			return rankings[i].Production > rankings[j].Production
		}
		return rankings[i].Key < rankings[j].Key
	})

	n := q.TopN
	if n <= 0 || n > len(rankings) {
		n = len(rankings)
	}
	top := rankings[:n]

	// Bottom-N: the tail of the descending ranking, reversed so the single
	// lowest producer comes first.
	tail := rankings[len(rankings)-n:]
	bottom := make([]domain.AggregatedMetric, 0, len(tail))
	for i := len(tail) - 1; i >= 0; i-- {
		bottom = append(bottom, tail[i])
	}

	env.Data = map[string]any{
		"states": map[string]any{},
		"comparisons": map[string]any{
			"top":    top,
			"bottom": bottom,
		},
		"statistics": rankings,
	}
	env.Metadata.YearWindows = map[string]string{"crop": windowLabel(year, year)}
	env.Finalize()
	return env, nil
}

// concreteYear extracts a single year from a normalized Years field:
// either [y, y] or nothing.
func concreteYear(years []int) int {
	if len(years) == 2 && years[0] == years[1] {
		return years[0]
	}
	return 0
}
