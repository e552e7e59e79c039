package engine

import (
	"math"
	"testing"

	"AgriQuery/internal/datagov"
)

func TestRainfallStats(t *testing.T) {
	t.Parallel()

	stats := rainfallStats(map[int]float64{
		2011: 800,
		2012: 1000,
		2013: 1200,
	})

	if stats.Mean != 1000 {
		t.Fatalf("mean = %v", stats.Mean)
	}
	if stats.Median != 1000 {
		t.Fatalf("median = %v", stats.Median)
	}
	if stats.Min != 800 || stats.Max != 1200 {
		t.Fatalf("min/max = %v/%v", stats.Min, stats.Max)
	}
	if stats.WettestYear != 2013 || stats.DriestYear != 2011 {
		t.Fatalf("wettest/driest = %d/%d", stats.WettestYear, stats.DriestYear)
	}
	want := math.Sqrt((200*200 + 200*200) / 3.0)
	if math.Abs(stats.StdDev-want) > 1e-9 {
		t.Fatalf("stddev = %v, want %v", stats.StdDev, want)
	}
	if stats.Trend != "increasing" {
		t.Fatalf("trend = %q", stats.Trend)
	}
}

func TestRainfallStatsEmpty(t *testing.T) {
	t.Parallel()

	if stats := rainfallStats(nil); stats.Mean != 0 || stats.Trend != "" {
		t.Fatalf("empty input should yield zero stats, got %+v", stats)
	}
}

func TestPearson(t *testing.T) {
	t.Parallel()

	r, ok := pearson([]float64{1, 2, 3}, []float64{10, 20, 30})
	if !ok || math.Abs(r-1) > 1e-9 {
		t.Fatalf("perfect positive correlation: r=%v ok=%v", r, ok)
	}

	r, ok = pearson([]float64{1, 2, 3}, []float64{30, 20, 10})
	if !ok || math.Abs(r+1) > 1e-9 {
		t.Fatalf("perfect negative correlation: r=%v ok=%v", r, ok)
	}

	if _, ok := pearson([]float64{1}, []float64{2}); ok {
		t.Fatal("single point must be undefined")
	}
	if _, ok := pearson([]float64{5, 5, 5}, []float64{1, 2, 3}); ok {
		t.Fatal("constant series must be undefined")
	}
}

func TestAggregateCropExcludesNonPositive(t *testing.T) {
	t.Parallel()

	records := []datagov.CropRecord{
		{District: "A", Production: 10, HasProduction: true, Area: 5, HasArea: true},
		{District: "A", Production: 20, HasProduction: true},
		{District: "B", Production: 0, HasProduction: true},
		{District: "C"},
	}

	out := aggregateCrop(records, func(r datagov.CropRecord) string { return r.District })
	if len(out) != 1 {
		t.Fatalf("expected only district A, got %v", out)
	}
	a := out["A"]
	if a.Production != 30 || a.Area != 5 {
		t.Fatalf("unexpected sums: %+v", a)
	}
	if a.Yield == nil || *a.Yield != 6 {
		t.Fatalf("yield = %v, want 6", a.Yield)
	}
}

func TestMatchesCropType(t *testing.T) {
	t.Parallel()

	cases := []struct {
		crop  string
		types []string
		want  bool
	}{
		{"Wheat", []string{"Cereal"}, true},
		{"Rice", []string{"cereal"}, true},
		{"Arhar/Tur", []string{"Pulse"}, true},
		{"Cotton(lint)", []string{"Cash Crop"}, true},
		{"Cotton(lint)", []string{"cash_crop"}, true},
		{"Sugarcane", []string{"Cereal"}, false},
		{"Wheat", []string{"Oilseed"}, false},
		{"", []string{"Cereal"}, false},
		{"Mystery Crop", []string{"Cereal", "Pulse"}, false},
	}

	for _, tc := range cases {
		if got := matchesCropType(tc.crop, tc.types); got != tc.want {
			t.Errorf("matchesCropType(%q, %v) = %v, want %v", tc.crop, tc.types, got, tc.want)
		}
	}
}
