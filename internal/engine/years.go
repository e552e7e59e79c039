package engine

import (
	"fmt"

	"AgriQuery/internal/datagov"
)

// historicalFloor is the earliest year either dataset reaches back to.
const historicalFloor = 1997

// defaultWindowSpan is the size of the window used when no years were
// requested: the most recent five years of a dataset's coverage.
const defaultWindowSpan = 5

// ReconcileYears maps a requested year range onto what a dataset actually
// covers. An empty request defaults to the latest five-year window. When
// the requested end exceeds the dataset's ceiling, the window is shifted to
// end at the ceiling, preserving the requested span, with the start never
// going below the historical floor. Rainfall and crop datasets have
// different ceilings, so one logical query yields different absolute
// windows per dataset; callers must report the windows they used.
func ReconcileYears(years []int, d datagov.Dataset) (start, end int) {
	ceiling := d.CoverageEnd
	if len(years) == 0 {
		return ceiling - (defaultWindowSpan - 1), ceiling
	}

	start = years[0]
	end = years[len(years)-1]
	if start > end {
		start, end = end, start
	}

	if end > ceiling {
		span := end - start
		end = ceiling
		start = end - span
		if start < historicalFloor {
			start = historicalFloor
		}
	}
	return start, end
}

// windowLabel renders a reconciled window for citations and metadata.
func windowLabel(start, end int) string {
	if start == end {
		return fmt.Sprintf("%d", start)
	}
	return fmt.Sprintf("%d-%d", start, end)
}
