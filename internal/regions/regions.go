// Package regions maps administrative states to the meteorological
// subdivisions rainfall is recorded under. A subdivision may span several
// states and a state may be covered by several subdivisions.
package regions

import (
	"sort"
	"strings"
)

// subdivisionStates is the authoritative table, keyed by subdivision name
// as it appears in the rainfall dataset.
var subdivisionStates = map[string][]string{
	"Arunachal Pradesh":                  {"Arunachal Pradesh"},
	"Assam & Meghalaya":                  {"Assam", "Meghalaya"},
	"NMMT":                               {"Nagaland", "Manipur", "Mizoram", "Tripura"},
	"Sub-Himalayan West Bengal & Sikkim": {"West Bengal", "Sikkim"},
	"Gangetic West Bengal":               {"West Bengal"},
	"Orissa":                             {"Odisha"},
	"Jharkhand":                          {"Jharkhand"},
	"Bihar":                              {"Bihar"},
	"East Uttar Pradesh":                 {"Uttar Pradesh"},
	"West Uttar Pradesh":                 {"Uttar Pradesh"},
	"Uttarakhand":                        {"Uttarakhand"},
	"Haryana Delhi & Chandigarh":         {"Haryana", "Delhi", "Chandigarh"},
	"Punjab":                             {"Punjab"},
	"Himachal Pradesh":                   {"Himachal Pradesh"},
	"Jammu & Kashmir":                    {"Jammu and Kashmir"},
	"West Rajasthan":                     {"Rajasthan"},
	"East Rajasthan":                     {"Rajasthan"},
	"West Madhya Pradesh":                {"Madhya Pradesh"},
	"East Madhya Pradesh":                {"Madhya Pradesh"},
	"Gujarat Region":                     {"Gujarat"},
	"Saurashtra & Kutch":                 {"Gujarat"},
	"Konkan & Goa":                       {"Maharashtra", "Goa"},
	"Madhya Maharashtra":                 {"Maharashtra"},
	"Marathwada":                         {"Maharashtra"},
	"Vidarbha":                           {"Maharashtra"},
	"Chhattisgarh":                       {"Chhattisgarh"},
	"Coastal Andhra Pradesh":             {"Andhra Pradesh"},
	"Telangana":                          {"Telangana"},
	"Rayalaseema":                        {"Andhra Pradesh"},
	"Tamil Nadu":                         {"Tamil Nadu"},
	"Coastal Karnataka":                  {"Karnataka"},
	"North Interior Karnataka":           {"Karnataka"},
	"South Interior Karnataka":           {"Karnataka"},
	"Kerala":                             {"Kerala"},
}

// stateSubdivisions is the inverted index, built once at startup.
var stateSubdivisions = invert(subdivisionStates)

func invert(table map[string][]string) map[string][]string {
	out := map[string][]string{}
	for subdivision, states := range table {
		for _, state := range states {
			out[state] = append(out[state], subdivision)
		}
	}
	// Deterministic order for stable citations and tests.
	for _, subs := range out {
		sort.Strings(subs)
	}
	return out
}

// SubdivisionsFor returns the subdivisions covering a state, standardizing
// the name first so user-entered variants match table keys. The returned
// slice is a copy; empty when the state is unknown.
func SubdivisionsFor(state string) []string {
	subs := stateSubdivisions[StandardizeState(state)]
	return append([]string(nil), subs...)
}

// StatesFor returns the states a subdivision covers, or nil if unknown.
func StatesFor(subdivision string) []string {
	return append([]string(nil), subdivisionStates[subdivision]...)
}

// Connectives that stay lowercase inside standardized names.
var lowercaseWords = map[string]bool{
	"and": true,
	"of":  true,
	"the": true,
	"&":   true,
}

// Multi-word names whose official capitalization the word-by-word pass
// cannot produce, plus the colonial-era Orissa rename.
var specialNames = map[string]string{
	"orissa":                      "Odisha",
	"jammu & kashmir":             "Jammu and Kashmir",
	"nct of delhi":                "NCT of Delhi",
	"andaman and nicobar islands": "Andaman and Nicobar Islands",
	"dadra and nagar haveli and daman and diu": "Dadra and Nagar Haveli and Daman and Diu",
}

// StandardizeState normalizes a user-entered state name to the spelling the
// datasets use: title case with lowercase connectives and special-cased
// historical renames ("orissa" -> "Odisha").
func StandardizeState(state string) string {
	trimmed := strings.Join(strings.Fields(state), " ")
	if trimmed == "" {
		return ""
	}

	if exact, ok := specialNames[strings.ToLower(trimmed)]; ok {
		return exact
	}

	words := strings.Split(trimmed, " ")
	for i, word := range words {
		lower := strings.ToLower(word)
		if lowercaseWords[lower] {
			words[i] = lower
			continue
		}
		words[i] = strings.ToUpper(lower[:1]) + lower[1:]
	}
	return strings.Join(words, " ")
}
