package domain

// Intent routes a parsed query to an aggregation handler.
type Intent string

const (
	IntentCompareRainfall  Intent = "compare_rainfall"
	IntentCompareCrops     Intent = "compare_crops"
	IntentIdentifyDistrict Intent = "identify_district"
	IntentAnalyzeTrend     Intent = "analyze_trend"
	IntentCorrelation      Intent = "correlation"
	IntentPolicyAnalysis   Intent = "policy_analysis"
	IntentGeneral          Intent = "general"
)

// DefaultTopN bounds rankings when the query does not ask for a count.
const DefaultTopN = 5

// QueryDescription is the structured form of a user question, as returned
// by the parser and normalized locally. List fields are always non-nil;
// Years is either empty or exactly [start, end] with start <= end.
type QueryDescription struct {
	Intent         Intent   `json:"intent"`
	States         []string `json:"states"`
	Districts      []string `json:"districts"`
	Crops          []string `json:"crops"`
	CropTypes      []string `json:"crop_types"`
	Years          []int    `json:"years"`
	Seasons        []string `json:"seasons"`
	Metrics        []string `json:"metrics"`
	ComparisonType string   `json:"comparison_type"`
	TopN           int      `json:"top_n"`
}

// Normalize coerces whatever the parser produced into the invariants the
// engine relies on. The parser is an opaque collaborator, so none of its
// output is trusted as-is.
func (q QueryDescription) Normalize() QueryDescription {
	out := q

	if out.Intent == "" {
		out.Intent = IntentGeneral
	}

	out.States = nonNil(out.States)
	out.Districts = nonNil(out.Districts)
	out.Crops = nonNil(out.Crops)
	out.CropTypes = nonNil(out.CropTypes)
	out.Seasons = nonNil(out.Seasons)
	out.Metrics = nonNil(out.Metrics)

	if len(out.Years) == 2 {
		start, end := out.Years[0], out.Years[1]
		if start > end {
			start, end = end, start
		}
		out.Years = []int{start, end}
	} else {
		out.Years = []int{}
	}

	if out.ComparisonType == "" {
		out.ComparisonType = "none"
	}
	if out.TopN <= 0 {
		out.TopN = DefaultTopN
	}

	return out
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
