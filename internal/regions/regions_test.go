package regions

import (
	"reflect"
	"testing"
)

func TestStandardizeState(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"maharashtra", "Maharashtra"},
		{"  tamil   nadu ", "Tamil Nadu"},
		{"orissa", "Odisha"},
		{"ORISSA", "Odisha"},
		{"jammu & kashmir", "Jammu and Kashmir"},
		{"nct of delhi", "NCT of Delhi"},
		{"andaman and nicobar islands", "Andaman and Nicobar Islands"},
		{"west bengal", "West Bengal"},
		{"", ""},
	}

	for _, tc := range cases {
		if got := StandardizeState(tc.in); got != tc.want {
			t.Errorf("StandardizeState(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSubdivisionsFor(t *testing.T) {
	t.Parallel()

	got := SubdivisionsFor("maharashtra")
	want := []string{"Konkan & Goa", "Madhya Maharashtra", "Marathwada", "Vidarbha"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("SubdivisionsFor(maharashtra) = %v, want %v", got, want)
	}

	// The historical name must resolve through standardization.
	if subs := SubdivisionsFor("orissa"); !reflect.DeepEqual(subs, []string{"Orissa"}) {
		t.Fatalf("SubdivisionsFor(orissa) = %v", subs)
	}

	if subs := SubdivisionsFor("Atlantis"); len(subs) != 0 {
		t.Fatalf("unknown state should map to no subdivisions, got %v", subs)
	}
}

func TestStatesFor(t *testing.T) {
	t.Parallel()

	got := StatesFor("Konkan & Goa")
	want := []string{"Maharashtra", "Goa"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("StatesFor(Konkan & Goa) = %v, want %v", got, want)
	}

	if states := StatesFor("Nowhere"); len(states) != 0 {
		t.Fatalf("unknown subdivision should map to no states, got %v", states)
	}
}

func TestSubdivisionsForReturnsCopy(t *testing.T) {
	t.Parallel()

	first := SubdivisionsFor("gujarat")
	if len(first) == 0 {
		t.Fatal("expected subdivisions for Gujarat")
	}
	first[0] = "mutated"

	second := SubdivisionsFor("gujarat")
	if second[0] == "mutated" {
		t.Fatal("SubdivisionsFor must return an independent copy")
	}
}
