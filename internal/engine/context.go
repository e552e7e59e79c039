package engine

import (
	"fmt"
	"sort"
	"strings"

	"AgriQuery/internal/domain"
)

const provenanceNote = "Data pulled from data.gov.in official resources."

// AssembleContext flattens an envelope's citations into the compact textual
// context handed to the narrative generator. One line per citation:
//
//	<dataset> | Filters: k=v, k=v | Records: N
//
// Filter keys are rendered in sorted order so the context is deterministic.
func AssembleContext(env domain.ResultEnvelope) string {
	if len(env.Sources) == 0 {
		return provenanceNote
	}

	var b strings.Builder
	b.WriteString("Sources:\n")
	for _, s := range env.Sources {
		b.WriteString("  - ")
		b.WriteString(citationLine(s))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(provenanceNote)
	return b.String()
}

func citationLine(s domain.SourceCitation) string {
	keys := make([]string, 0, len(s.FiltersApplied))
	for k := range s.FiltersApplied {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+s.FiltersApplied[k])
	}
	return fmt.Sprintf("%s | Filters: %s | Records: %d",
		s.Dataset, strings.Join(pairs, ", "), s.RecordsRetrieved)
}
