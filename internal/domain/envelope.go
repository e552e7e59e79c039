package domain

// SourceCitation records exactly which filtered query produced the numbers
// in a result, one entry per logical fetch call. It is exposed verbatim to
// the narrative generator for attribution.
type SourceCitation struct {
	Dataset          string            `json:"dataset"`
	ResourceID       string            `json:"resource_id"`
	URL              string            `json:"url"`
	FiltersApplied   map[string]string `json:"filters_applied"`
	RecordsRetrieved int               `json:"records_retrieved"`
}

// ResultMetadata carries processing bookkeeping for a single query.
type ResultMetadata struct {
	QueryID           string            `json:"query_id,omitempty"`
	SourcesQueried    int               `json:"data_sources_queried"`
	TotalRecords      int               `json:"total_records_processed"`
	YearWindows       map[string]string `json:"year_windows,omitempty"`
	QueryTime         string            `json:"query_time,omitempty"`
	ProcessingSeconds float64           `json:"processing_time_seconds,omitempty"`
}

// ResultEnvelope is the uniform shape every intent handler returns.
type ResultEnvelope struct {
	Answer   string           `json:"answer"`
	Sources  []SourceCitation `json:"sources"`
	Data     map[string]any   `json:"data"`
	Metadata ResultMetadata   `json:"metadata"`
}

// Finalize derives the citation-dependent metadata. TotalRecords always
// equals the sum of RecordsRetrieved across Sources.
func (e *ResultEnvelope) Finalize() {
	if e.Sources == nil {
		e.Sources = []SourceCitation{}
	}
	if e.Data == nil {
		e.Data = map[string]any{}
	}

	total := 0
	for _, s := range e.Sources {
		total += s.RecordsRetrieved
	}
	e.Metadata.SourcesQueried = len(e.Sources)
	e.Metadata.TotalRecords = total
}

// AggregatedMetric is a derived numeric summary for one grouping key
// (state, district or crop). Yield is nil when no area was recorded.
type AggregatedMetric struct {
	Key        string   `json:"key"`
	Production float64  `json:"production"`
	Area       float64  `json:"area"`
	Yield      *float64 `json:"yield"`
}
