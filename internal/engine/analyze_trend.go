package engine

import (
	"context"
	"math"

	"AgriQuery/internal/domain"
)

// TimelinePoint is one year of a production trend. Yield is nil when no
// area was recorded; YoYChangePct is nil for the first year.
type TimelinePoint struct {
	Year         int      `json:"year"`
	Production   float64  `json:"production"`
	Area         float64  `json:"area"`
	Yield        *float64 `json:"yield"`
	YoYChangePct *float64 `json:"yoy_change_pct"`
}

// TrendStats classifies the overall movement across the span.
type TrendStats struct {
	TrendDirection string   `json:"trend_direction"`
	GrowthRatePct  *float64 `json:"growth_rate_pct"`
}

// cagrThreshold: growth within ±1% per year counts as stable.
const cagrThreshold = 0.01

// analyzeTrend builds a year-ordered production timeline for one state and
// crop, with year-over-year deltas and a CAGR-based direction.
func (e *Engine) analyzeTrend(ctx context.Context, q domain.QueryDescription) (domain.ResultEnvelope, error) {
	var state, crop string
	if len(q.States) > 0 {
		state = q.States[0]
	}
	if len(q.Crops) > 0 {
		crop = q.Crops[0]
	}
	if state == "" || crop == "" || len(q.Years) != 2 {
		msg := "Please specify state, crop, and a valid year range for trend analysis."
		e.logger.Warn("analyze_trend missing fields",
			"states", q.States, "crops", q.Crops, "years", q.Years)
		return guidanceEnvelope(msg, nil), nil
	}
	yearStart, yearEnd := q.Years[0], q.Years[1]
	window := windowLabel(yearStart, yearEnd)

	fetched, err := e.fetchCropWindow(ctx, state, crop, yearStart, yearEnd)
	if err != nil {
		return domain.ResultEnvelope{}, err
	}

	var env domain.ResultEnvelope
	env.Sources = append(env.Sources, citation(e.data.CropDataset(), map[string]string{
		"state_name": state,
		"crop":       crop,
		"Years":      window,
	}, len(fetched)))

	if len(fetched) == 0 {
		msg := "No production data found for the specified trend filters."
		e.logger.Warn("analyze_trend empty result", "state", state, "crop", crop, "window", window)
		return guidanceEnvelope(msg, env.Sources), nil
	}

	type yearTotal struct {
		production float64
		area       float64
	}
	byYear := map[int]*yearTotal{}
	for _, rec := range fetched {
		if rec.Year == 0 || !rec.HasProduction || rec.Production <= 0 {
			continue
		}
		t, ok := byYear[rec.Year]
		if !ok {
			t = &yearTotal{}
			byYear[rec.Year] = t
		}
		t.production += rec.Production
		if rec.HasArea {
			t.area += rec.Area
		}
	}

	perYear := map[int]float64{}
	for y, t := range byYear {
		perYear[y] = t.production
	}
	years := sortedYears(perYear)

	timeline := make([]TimelinePoint, 0, len(years))
	for i, y := range years {
		t := byYear[y]
		point := TimelinePoint{Year: y, Production: t.production, Area: t.area}
		if t.area > 0 {
			v := t.production / t.area
			point.Yield = &v
		}
		if i > 0 {
			prev := byYear[years[i-1]].production
			if prev > 0 {
				delta := (t.production - prev) / prev * 100
				point.YoYChangePct = &delta
			}
		}
		timeline = append(timeline, point)
	}

	stats := TrendStats{TrendDirection: "stable"}
	if len(years) > 0 {
		first, last := years[0], years[len(years)-1]
		v0, v1 := byYear[first].production, byYear[last].production
		span := last - first
		if span < 1 {
			span = 1
		}
		if v0 > 0 && v1 > 0 {
			cagr := math.Pow(v1/v0, 1/float64(span)) - 1
			growth := cagr * 100
			stats.GrowthRatePct = &growth
			switch {
			case cagr > cagrThreshold:
				stats.TrendDirection = "increasing"
			case cagr < -cagrThreshold:
				stats.TrendDirection = "decreasing"
			}
		}
	}

	env.Data = map[string]any{
		"states": map[string]any{
			state: map[string]any{"timeline": timeline},
		},
		"comparisons": map[string]any{},
		"statistics":  stats,
	}
	env.Metadata.YearWindows = map[string]string{"crop": window}
	env.Finalize()
	return env, nil
}
