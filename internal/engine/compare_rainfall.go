package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"AgriQuery/internal/datagov"
	"AgriQuery/internal/domain"
	"AgriQuery/internal/regions"
)

// StateRainfall is one state's aggregated rainfall over the window.
type StateRainfall struct {
	AverageAnnual float64            `json:"average_annual"`
	Yearly        map[string]float64 `json:"yearly"`
	Statistics    RainfallStats      `json:"statistics"`
}

// RainfallComparison is one ranking entry.
type RainfallComparison struct {
	State         string  `json:"state"`
	AverageAnnual float64 `json:"average_annual"`
}

// compareRainfall fetches rainfall per subdivision for each state, averages
// across subdivisions per year and then across years, and ranks states by
// mean annual rainfall. A state with no resolvable data is recorded with an
// explanatory message and excluded from the ranking; the other states
// proceed normally.
func (e *Engine) compareRainfall(ctx context.Context, q domain.QueryDescription) (domain.ResultEnvelope, error) {
	yearStart, yearEnd := ReconcileYears(q.Years, e.data.RainfallDataset())
	window := windowLabel(yearStart, yearEnd)
	e.logger.Info("comparing rainfall", "states", q.States, "window", window)

	var env domain.ResultEnvelope
	stateStats := map[string]any{}
	comparisons := []RainfallComparison{}

	for _, state := range q.States {
		subdivisions := regions.SubdivisionsFor(state)
		if len(subdivisions) == 0 {
			e.logger.Warn("no subdivisions for state", "state", state)
			stateStats[state] = map[string]any{
				"message": fmt.Sprintf("No meteorological subdivision found for %s", state),
			}
			continue
		}

		perYearValues := map[int][]float64{}
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

			for _, rec := range records {
				if rec.HasAnnual && rec.Year != 0 {
					perYearValues[rec.Year] = append(perYearValues[rec.Year], rec.Annual)
				}
			}
			env.Sources = append(env.Sources, citation(e.data.RainfallDataset(), map[string]string{
				"Subdivision": subdivision,
				"Years":       window,
			}, len(records)))
		}

		// Average across subdivisions for each year.
		perYear := map[int]float64{}
		for year, values := range perYearValues {
			var sum float64
			for _, v := range values {
				sum += v
			}
			perYear[year] = sum / float64(len(values))
		}

		if len(perYear) == 0 {
			e.logger.Warn("no rainfall data aggregated", "state", state)
			stateStats[state] = map[string]any{
				"message": fmt.Sprintf("No rainfall data found for %s in %s", state, window),
			}
			continue
		}

		years := sortedYears(perYear)
		var sum float64
		yearly := make(map[string]float64, len(years))
		for _, y := range years {
			sum += perYear[y]
			yearly[strconv.Itoa(y)] = perYear[y]
		}
		average := sum / float64(len(years))

		stateStats[state] = StateRainfall{
			AverageAnnual: average,
			Yearly:        yearly,
			Statistics:    rainfallStats(perYear),
		}
		comparisons = append(comparisons, RainfallComparison{State: state, AverageAnnual: average})
	}

	sort.SliceStable(comparisons, func(i, j int) bool {
		return comparisons[i].AverageAnnual > comparisons[j].AverageAnnual
	})
	if q.TopN > 0 && len(comparisons) > q.TopN {
		comparisons = comparisons[:q.TopN]
	}

	env.Data = map[string]any{
		"states":      stateStats,
		"comparisons": comparisons,
		"statistics":  comparisons,
	}
	env.Metadata.YearWindows = map[string]string{"rainfall": window}
	env.Finalize()
	return env, nil
}
