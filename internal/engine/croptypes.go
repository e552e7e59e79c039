package engine

import "strings"

// Crop-type membership uses exact lookup on normalized crop names rather
// than substring matching, which false-positived on names containing a
// keyword. Entries cover the spellings the production dataset uses.
var cropCategories = map[string]map[string]bool{
	"cereal": nameSet(
		"rice", "wheat", "maize", "bajra", "jowar", "ragi", "barley",
		"small millets", "other cereals", "other cereals & millets",
	),
	"pulse": nameSet(
		"arhar/tur", "arhar", "tur", "moong", "moong(green gram)", "urad",
		"masoor", "gram", "lentil", "peas", "peas & beans (pulses)",
		"other pulses", "other kharif pulses", "other rabi pulses",
	),
	"oilseed": nameSet(
		"groundnut", "sunflower", "soyabean", "rapeseed &mustard",
		"rapeseed & mustard", "mustard", "safflower", "niger seed",
		"sesamum", "castor seed", "linseed", "other oilseeds",
	),
	"cash crop": nameSet(
		"cotton(lint)", "cotton", "sugarcane", "tobacco", "jute", "mesta",
	),
}

func nameSet(names ...string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}

// matchesCropType reports whether a crop belongs to any of the requested
// type classes. Unknown crops match nothing.
func matchesCropType(crop string, cropTypes []string) bool {
	name := strings.ToLower(strings.TrimSpace(crop))
	if name == "" {
		return false
	}
	for _, ct := range cropTypes {
		class := strings.ToLower(strings.TrimSpace(ct))
		class = strings.ReplaceAll(class, "_", " ")
		if set, ok := cropCategories[class]; ok && set[name] {
			return true
		}
	}
	return false
}
