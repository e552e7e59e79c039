package engine

import (
	"context"
	"errors"
	"sort"
	"strings"

	"AgriQuery/internal/datagov"
	"AgriQuery/internal/domain"
	"AgriQuery/internal/regions"
)

// StateCorrelation holds one state's rainfall and production series side by
// side. The coefficient is nil when the two reconciled windows share fewer
// than two years, which is common given the datasets' different ceilings.
type StateCorrelation struct {
	AverageRainfall        float64     `json:"average_rainfall"`
	RainfallYearRange      string      `json:"rainfall_year_range"`
	RainfallDataPoints     int         `json:"rainfall_data_points"`
	TopCrops               []CropTotal `json:"top_crops"`
	CropYearRange          string      `json:"crop_year_range"`
	CropDataPoints         int         `json:"crop_data_points"`
	Subdivisions           []string    `json:"subdivisions"`
	CorrelationCoefficient *float64    `json:"correlation_coefficient"`
	CorrelationYears       int         `json:"correlation_years"`
}

// correlate fetches rainfall over the rainfall window and production over
// the crop window (filtered to the requested crop-type classes), reporting
// both series per state plus a Pearson coefficient over overlapping years.
func (e *Engine) correlate(ctx context.Context, q domain.QueryDescription) (domain.ResultEnvelope, error) {
	cropStart, cropEnd := ReconcileYears(q.Years, e.data.CropDataset())
	rainStart, rainEnd := ReconcileYears(q.Years, e.data.RainfallDataset())
	cropWindow := windowLabel(cropStart, cropEnd)
	rainWindow := windowLabel(rainStart, rainEnd)
	e.logger.Info("correlating rainfall and crops",
		"states", q.States, "crop_types", q.CropTypes,
		"crop_window", cropWindow, "rainfall_window", rainWindow)

	results := map[string]any{}
	var allSubdivisions []string
	totalRainfallRecords := 0
	totalCropRecords := 0

	for _, state := range q.States {
		subdivisions := regions.SubdivisionsFor(state)
		allSubdivisions = append(allSubdivisions, subdivisions...)

		rainPerYearValues := map[int][]float64{}
		var rainSum float64
		rainCount := 0
		rainRecords := 0
		for _, subdivision := range subdivisions {
			records, err := e.data.FetchRainfall(ctx, datagov.RainfallQuery{
				Subdivision: subdivision,
				YearStart:   rainStart,
				YearEnd:     rainEnd,
				Limit:       cropFetchLimit,
			})
			if err != nil {
				if errors.Is(err, datagov.ErrUnauthorized) {
					return domain.ResultEnvelope{}, err
				}
				e.logger.Warn("rainfall fetch failed",
					"state", state, "subdivision", subdivision, "error", err)
				continue
			}
			rainRecords += len(records)
			for _, rec := range records {
				if rec.HasAnnual {
					rainSum += rec.Annual
					rainCount++
					if rec.Year != 0 {
						rainPerYearValues[rec.Year] = append(rainPerYearValues[rec.Year], rec.Annual)
					}
				}
			}
		}
		totalRainfallRecords += rainRecords

		var averageRainfall float64
		if rainCount > 0 {
			averageRainfall = rainSum / float64(rainCount)
		}
		rainPerYear := map[int]float64{}
		for year, values := range rainPerYearValues {
			var sum float64
			for _, v := range values {
				sum += v
			}
			rainPerYear[year] = sum / float64(len(values))
		}

		cropRecords, err := e.data.FetchCropProduction(ctx, datagov.CropQuery{
			State: state,
			Limit: cropFetchLimit,
		})
		if err != nil {
			if errors.Is(err, datagov.ErrUnauthorized) {
				return domain.ResultEnvelope{}, err
			}
			e.logger.Warn("crop fetch failed", "state", state, "error", err)
			cropRecords = nil
		}

		filtered := make([]datagov.CropRecord, 0, len(cropRecords))
		for _, rec := range cropRecords {
			if rec.Year < cropStart || rec.Year > cropEnd {
				continue
			}
			if len(q.CropTypes) > 0 && !matchesCropType(rec.Crop, q.CropTypes) {
				continue
			}
			filtered = append(filtered, rec)
		}
		totalCropRecords += len(filtered)

		totals := cropTotals(filtered)
		if q.TopN > 0 && len(totals) > q.TopN {
			totals = totals[:q.TopN]
		}

		productionPerYear := map[int]float64{}
		for _, rec := range filtered {
			if rec.HasProduction && rec.Production > 0 && rec.Year != 0 {
				productionPerYear[rec.Year] += rec.Production
			}
		}

		corr := StateCorrelation{
			AverageRainfall:    averageRainfall,
			RainfallYearRange:  rainWindow,
			RainfallDataPoints: rainRecords,
			TopCrops:           totals,
			CropYearRange:      cropWindow,
			CropDataPoints:     len(filtered),
			Subdivisions:       subdivisions,
		}

		// Pearson over the years both series cover.
		var xs, ys []float64
		for _, y := range sortedYears(rainPerYear) {
			if prod, ok := productionPerYear[y]; ok {
				xs = append(xs, rainPerYear[y])
				ys = append(ys, prod)
			}
		}
		corr.CorrelationYears = len(xs)
		if r, ok := pearson(xs, ys); ok {
			corr.CorrelationCoefficient = &r
		}

		results[state] = corr
	}

	var env domain.ResultEnvelope
	if totalRainfallRecords > 0 {
		env.Sources = append(env.Sources, citation(e.data.RainfallDataset(), map[string]string{
			"year_range":   rainWindow,
			"subdivisions": strings.Join(dedupe(allSubdivisions), ", "),
		}, totalRainfallRecords))
	}
	if totalCropRecords > 0 {
		cropTypes := "All"
		if len(q.CropTypes) > 0 {
			cropTypes = strings.Join(q.CropTypes, ", ")
		}
		env.Sources = append(env.Sources, citation(e.data.CropDataset(), map[string]string{
			"states":     strings.Join(q.States, ", "),
			"year_range": cropWindow,
			"crop_types": cropTypes,
		}, totalCropRecords))
	}

	env.Data = map[string]any{
		"states":      results,
		"comparisons": map[string]any{},
		"statistics":  results,
	}
	env.Metadata.YearWindows = map[string]string{
		"rainfall": rainWindow,
		"crop":     cropWindow,
	}
	env.Finalize()
	return env, nil
}

func dedupe(values []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}
