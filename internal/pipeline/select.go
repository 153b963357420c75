package pipeline

import (
	"strings"

	log "github.com/sirupsen/logrus"

	"dayahead-prices/internal/model"
)

// businessTypeDayAhead marks the day-ahead auction price series. Documents
// may omit the field entirely; absence passes the filter.
const businessTypeDayAhead = "A62"

// allowedCurveTypes are the sequential block curves prices arrive in.
var allowedCurveTypes = map[string]bool{
	"A01": true,
	"A03": true,
}

// Selection is the outcome of choosing usable series from a document.
type Selection struct {
	Series []model.CandidateSeries

	// Degraded is set when no series passed the strict filter and the
	// fallback admitted the first decodable candidate instead. Propagated
	// to the canonical series so callers can see it.
	Degraded bool
}

// Select picks the series that will price the day.
//
// The strict filter wants EUR per MWH with day-ahead classification where
// classification is present at all. Every strict match is admitted; if any
// of them carries native hourly periods, the hourly ones shut out the
// sub-hourly rest. Overlaps between admitted series are resolved later by
// dedupe, so selection never has to guess which twin is authoritative.
//
// With no strict match, the first decodable candidate is admitted and the
// selection is marked Degraded. Only an empty document is unusable.
func Select(doc *model.MarketDocument) (Selection, error) {
	if doc == nil || len(doc.Series) == 0 {
		return Selection{}, ErrNoQualifyingSeries
	}

	var strict []model.CandidateSeries
	for _, cs := range doc.Series {
		if qualifies(cs.Metadata) {
			strict = append(strict, cs)
		}
	}

	if len(strict) > 0 {
		hourly := withResolution(strict, model.Resolution60Min)
		if len(hourly) > 0 {
			return Selection{Series: hourly}, nil
		}
		return Selection{Series: strict}, nil
	}

	log.Warnf("[Pipeline] No strictly qualifying series among %d candidates, falling back to the first decodable one (mRID=%q)",
		len(doc.Series), doc.Series[0].Metadata.MRID)
	return Selection{Series: doc.Series[:1], Degraded: true}, nil
}

func qualifies(md model.SeriesMetadata) bool {
	if strings.TrimSpace(md.Currency) != "EUR" {
		return false
	}
	if strings.TrimSpace(md.MeasureUnit) != "MWH" {
		return false
	}
	if bt := strings.TrimSpace(md.BusinessType); bt != "" && bt != businessTypeDayAhead {
		return false
	}
	if ct := strings.TrimSpace(md.CurveType); ct != "" && !allowedCurveTypes[ct] {
		return false
	}
	return true
}

func withResolution(series []model.CandidateSeries, r model.Resolution) []model.CandidateSeries {
	var out []model.CandidateSeries
	for _, cs := range series {
		if cs.HasResolution(r) {
			out = append(out, cs)
		}
	}
	return out
}
