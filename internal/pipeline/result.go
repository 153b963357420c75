package pipeline

import (
	"dayahead-prices/internal/model"
)

// Result is the pipeline's product plus tallies of what normalization did.
// The tallies are the "what happened" record for logs and metrics; only the
// series itself feeds the analysis.
type Result struct {
	Series *model.DailyPriceSeries

	// SeriesUsed is how many candidate series selection admitted.
	SeriesUsed int

	// DroppedPoints counts malformed points removed during decoding.
	DroppedPoints int

	// DuplicatePoints counts hourly points discarded in favor of a cheaper
	// (or equal) duplicate of the same slot.
	DuplicatePoints int
}
