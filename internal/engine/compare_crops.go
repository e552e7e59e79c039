package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"AgriQuery/internal/datagov"
	"AgriQuery/internal/domain"
)

// CropTotal is one crop's aggregate over a state and window.
type CropTotal struct {
	Crop           string  `json:"crop"`
	Production     float64 `json:"production"`
	Area           float64 `json:"area"`
	Yield          float64 `json:"yield"`
	DistrictsCount int     `json:"districts_count"`
}

// StateCrops is the per-state block of a crop comparison.
type StateCrops struct {
	TopCrops     []CropTotal `json:"top_crops"`
	Year         string      `json:"year,omitempty"`
	YearStart    int         `json:"year_start,omitempty"`
	YearEnd      int         `json:"year_end,omitempty"`
	TotalRecords int         `json:"total_records,omitempty"`
	Message      string      `json:"message,omitempty"`
}

// CropComparison is one flattened ranking entry across states.
type CropComparison struct {
	State      string  `json:"state"`
	Crop       string  `json:"crop"`
	Production float64 `json:"production"`
	Area       float64 `json:"area"`
	Yield      float64 `json:"yield"`
	Year       string  `json:"year"`
}

// compareCrops fetches production records per state over the reconciled
// crop window, groups by crop name and ranks by total production. Records
// whose production is zero, missing or unparseable contribute nothing; a
// district counts as visited only through a contributing record.
func (e *Engine) compareCrops(ctx context.Context, q domain.QueryDescription) (domain.ResultEnvelope, error) {
	yearStart, yearEnd := ReconcileYears(q.Years, e.data.CropDataset())
	window := windowLabel(yearStart, yearEnd)
	e.logger.Info("comparing crops", "states", q.States, "window", window)

	var env domain.ResultEnvelope
	stateResults := map[string]any{}
	comparisons := []CropComparison{}

	for _, state := range q.States {
		records, err := e.fetchCropWindow(ctx, state, "", yearStart, yearEnd)
		if err != nil {
			return domain.ResultEnvelope{}, err
		}

		env.Sources = append(env.Sources, citation(e.data.CropDataset(), map[string]string{
			"state_name": state,
			"crop_year":  window,
		}, len(records)))

		if len(records) == 0 {
			stateResults[state] = StateCrops{
				TopCrops: []CropTotal{},
				Message:  fmt.Sprintf("No data found for %s in year(s) %s", state, window),
			}
			continue
		}

		crops := cropTotals(records)
		if q.TopN > 0 && len(crops) > q.TopN {
			crops = crops[:q.TopN]
		}

		stateResults[state] = StateCrops{
			TopCrops:     crops,
			Year:         window,
			YearStart:    yearStart,
			YearEnd:      yearEnd,
			TotalRecords: len(records),
		}
		for _, ct := range crops {
			comparisons = append(comparisons, CropComparison{
				State:      state,
				Crop:       ct.Crop,
				Production: ct.Production,
				Area:       ct.Area,
				Yield:      ct.Yield,
				Year:       window,
			})
		}
	}

	env.Data = map[string]any{
		"states":      stateResults,
		"comparisons": comparisons,
		"statistics":  comparisons,
	}
	env.Metadata.YearWindows = map[string]string{"crop": window}
	env.Finalize()
	return env, nil
}

// cropTotals groups records by crop name, summing production and area for
// strictly positive production values only, and returns the crops ranked
// by total production descending (name as tiebreaker).
func cropTotals(records []datagov.CropRecord) []CropTotal {
	type accum struct {
		production float64
		area       float64
		districts  map[string]bool
	}
	totals := map[string]*accum{}
	for _, rec := range records {
		if !rec.HasProduction || rec.Production <= 0 {
			continue
		}
		name := rec.Crop
		if name == "" {
			name = "Unknown"
		}
		a, ok := totals[name]
		if !ok {
			a = &accum{districts: map[string]bool{}}
			totals[name] = a
		}
		a.production += rec.Production
		if rec.HasArea {
			a.area += rec.Area
		}
		if rec.District != "" {
			a.districts[rec.District] = true
		}
	}

	crops := make([]CropTotal, 0, len(totals))
	for name, a := range totals {
		ct := CropTotal{
			Crop:           name,
			Production:     a.production,
			Area:           a.area,
			DistrictsCount: len(a.districts),
		}
		if a.area > 0 {
			ct.Yield = a.production / a.area
		}
		crops = append(crops, ct)
	}
	sort.SliceStable(crops, func(i, j int) bool {
		if crops[i].Production != crops[j].Production {
			return crops[i].Production > crops[j].Production
		}
		return crops[i].Crop < crops[j].Crop
	})
	return crops
}

// fetchCropWindow retrieves production records for a state and crop across
// a window: a single filtered fetch for one year, otherwise one fetch per
// year. Transient per-year failures are logged and skipped so a partial
// window still answers; an auth failure aborts.
func (e *Engine) fetchCropWindow(ctx context.Context, state, crop string, yearStart, yearEnd int) ([]datagov.CropRecord, error) {
	var out []datagov.CropRecord
	for year := yearStart; year <= yearEnd; year++ {
		records, err := e.data.FetchCropProduction(ctx, datagov.CropQuery{
			State: state,
			Crop:  crop,
			Year:  year,
			Limit: cropFetchLimit,
		})
		if err != nil {
			if errors.Is(err, datagov.ErrUnauthorized) {
				return nil, err
			}
			e.logger.Warn("crop fetch failed",
				"state", state, "crop", crop, "year", year, "error", err)
			continue
		}
		out = append(out, records...)
	}
	return out, nil
}
