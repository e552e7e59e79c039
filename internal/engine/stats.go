package engine

import (
	"math"
	"sort"

	"AgriQuery/internal/datagov"
	"AgriQuery/internal/domain"
)

// RainfallStats summarizes a per-year rainfall series.
type RainfallStats struct {
	Mean        float64 `json:"mean"`
	Median      float64 `json:"median"`
	Min         float64 `json:"min"`
	Max         float64 `json:"max"`
	StdDev      float64 `json:"stddev"`
	WettestYear int     `json:"wettest_year"`
	DriestYear  int     `json:"driest_year"`
	Trend       string  `json:"trend"`
}

// rainfallStats computes descriptive statistics over per-year averages.
// StdDev is the population standard deviation; Trend compares the first
// and last year only.
func rainfallStats(perYear map[int]float64) RainfallStats {
	if len(perYear) == 0 {
		return RainfallStats{}
	}

	years := sortedYears(perYear)

	var sum float64
	values := make([]float64, 0, len(years))
	stats := RainfallStats{
		Min: math.Inf(1),
		Max: math.Inf(-1),
	}
	for _, y := range years {
		v := perYear[y]
		values = append(values, v)
		sum += v
		if v > stats.Max {
			stats.Max = v
			stats.WettestYear = y
		}
		if v < stats.Min {
			stats.Min = v
			stats.DriestYear = y
		}
	}

	n := float64(len(values))
	stats.Mean = sum / n

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		stats.Median = sorted[mid]
	} else {
		stats.Median = (sorted[mid-1] + sorted[mid]) / 2
	}

	var variance float64
	for _, v := range values {
		variance += (v - stats.Mean) * (v - stats.Mean)
	}
	stats.StdDev = math.Sqrt(variance / n)

	stats.Trend = "stable"
	if len(years) >= 2 {
		delta := perYear[years[len(years)-1]] - perYear[years[0]]
		switch {
		case delta > 0:
			stats.Trend = "increasing"
		case delta < 0:
			stats.Trend = "decreasing"
		}
	}
	return stats
}

// pearson returns the Pearson correlation coefficient of two equal-length
// series, or false when it is undefined (fewer than two points or a
// constant series).
func pearson(xs, ys []float64) (float64, bool) {
	n := len(xs)
	if len(ys) < n {
		n = len(ys)
	}
	if n < 2 {
		return 0, false
	}

	var xMean, yMean float64
	for i := 0; i < n; i++ {
		xMean += xs[i]
		yMean += ys[i]
	}
	xMean /= float64(n)
	yMean /= float64(n)

	var num, denX, denY float64
	for i := 0; i < n; i++ {
		dx := xs[i] - xMean
		dy := ys[i] - yMean
		num += dx * dy
		denX += dx * dx
		denY += dy * dy
	}
	if denX == 0 || denY == 0 {
		return 0, false
	}
	return num / (math.Sqrt(denX) * math.Sqrt(denY)), true
}

// aggregateCrop groups records by a key, summing production and area.
// A record contributes only when its production value parsed and is
// strictly positive; zero/NA/unparseable records are excluded entirely
// rather than diluting the aggregate.
func aggregateCrop(records []datagov.CropRecord, key func(datagov.CropRecord) string) map[string]*domain.AggregatedMetric {
	out := map[string]*domain.AggregatedMetric{}
	for _, rec := range records {
		if !rec.HasProduction || rec.Production <= 0 {
			continue
		}
		k := key(rec)
		if k == "" {
			k = "Unknown"
		}
		m, ok := out[k]
		if !ok {
			m = &domain.AggregatedMetric{Key: k}
			out[k] = m
		}
		m.Production += rec.Production
		if rec.HasArea {
			m.Area += rec.Area
		}
	}
	for _, m := range out {
		if m.Area > 0 {
			y := m.Production / m.Area
			m.Yield = &y
		}
	}
	return out
}

func sortedYears(perYear map[int]float64) []int {
	years := make([]int, 0, len(perYear))
	for y := range perYear {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}
