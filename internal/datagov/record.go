package datagov

import (
	"encoding/json"
	"strconv"
	"strings"
)

// The API serves field names in inconsistent casing across dataset vintages
// (annual vs ANNUAL, production_ vs Production). Records are normalized to
// one canonical shape right here at ingestion so the aggregation code never
// has to probe multiple spellings.

// RainfallRecord is one subdivision-year of area-weighted rainfall.
type RainfallRecord struct {
	Subdivision string
	Year        int
	Annual      float64
	HasAnnual   bool
}

// CropRecord is one district-crop-season-year production observation.
// HasProduction is false when the upstream value was missing, "NA" or
// otherwise unparseable; Production is zero in that case.
type CropRecord struct {
	State         string
	District      string
	Crop          string
	Season        string
	Year          int
	Production    float64
	HasProduction bool
	Area          float64
	HasArea       bool
}

var monthFields = []string{
	"jan", "feb", "mar", "apr", "may", "jun",
	"jul", "aug", "sep", "oct", "nov", "dec",
}

func normalizeRainfall(raw map[string]any) RainfallRecord {
	rec := RainfallRecord{
		Subdivision: fieldString(raw, "subdivision", "SUBDIVISION"),
	}
	if y, ok := fieldFloat(raw, "year", "YEAR"); ok {
		rec.Year = int(y)
	}

	if annual, ok := fieldFloat(raw, "annual", "ANNUAL"); ok {
		rec.Annual = annual
		rec.HasAnnual = true
		return rec
	}

	// Annual missing: backfill with the mean of whatever monthly values
	// parse, matching the upstream convention for this resource.
	var sum float64
	var n int
	for _, m := range monthFields {
		if v, ok := fieldFloat(raw, m, strings.ToUpper(m)); ok {
			sum += v
			n++
		}
	}
	if n > 0 {
		rec.Annual = sum / float64(n)
		rec.HasAnnual = true
	}
	return rec
}

func normalizeCrop(raw map[string]any) CropRecord {
	rec := CropRecord{
		State:    fieldString(raw, "state_name", "State_Name"),
		District: fieldString(raw, "district_name", "District_Name"),
		Crop:     fieldString(raw, "crop", "Crop"),
		Season:   strings.TrimSpace(fieldString(raw, "season", "Season")),
	}
	if y, ok := fieldFloat(raw, "crop_year", "Crop_Year"); ok {
		rec.Year = int(y)
	}
	if p, ok := fieldFloat(raw, "production_", "Production"); ok {
		rec.Production = p
		rec.HasProduction = true
	}
	if a, ok := fieldFloat(raw, "area_", "Area"); ok {
		rec.Area = a
		rec.HasArea = true
	}
	return rec
}

func fieldString(raw map[string]any, names ...string) string {
	for _, name := range names {
		if v, ok := raw[name]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

func fieldFloat(raw map[string]any, names ...string) (float64, bool) {
	for _, name := range names {
		v, ok := raw[name]
		if !ok || v == nil {
			continue
		}
		if f, ok := parseNumber(v); ok {
			return f, true
		}
	}
	return 0, false
}

func parseNumber(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	}
	return 0, false
}
