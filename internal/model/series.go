package model

import "time"

// MarketDocument is a decoded day-ahead price publication.
//
// It holds every TimeSeries the document carried, untouched; selection and
// validation happen downstream so that a document with junk series alongside
// the real one still decodes.
type MarketDocument struct {
	// Namespace is the XML namespace of the document root. The feed bumps
	// the version suffix between schema revisions, so this is recorded for
	// diagnostics and never matched against.
	Namespace string
	Series    []CandidateSeries
}

// SeriesMetadata carries the classification fields of one TimeSeries.
// BusinessType and CurveType are optional in the feed and may be empty.
type SeriesMetadata struct {
	MRID         string
	BusinessType string // "A62" marks the day-ahead auction price series
	CurveType    string // "A01"/"A03" are sequential block curves
	Currency     string // expected "EUR"
	MeasureUnit  string // expected "MWH"
}

// CandidateSeries is one TimeSeries of the document, before selection.
type CandidateSeries struct {
	Metadata SeriesMetadata
	Periods  []Period
}

// PrimaryResolution is the resolution of the first period. Periods of one
// series normally share a resolution; the first decides preference ordering
// during selection.
func (cs CandidateSeries) PrimaryResolution() Resolution {
	if len(cs.Periods) == 0 {
		return ""
	}
	return cs.Periods[0].Resolution
}

// HasResolution reports whether any period of the series uses r.
func (cs CandidateSeries) HasResolution(r Resolution) bool {
	for _, p := range cs.Periods {
		if p.Resolution == r {
			return true
		}
	}
	return false
}

// PointCount is the total number of points across all periods.
func (cs CandidateSeries) PointCount() int {
	n := 0
	for _, p := range cs.Periods {
		n += len(p.Points)
	}
	return n
}

// Period groups consecutive points published at a single resolution.
// StartUTC anchors position 1; the timestamp of position n is
// StartUTC + (n-1) * Resolution.
type Period struct {
	StartUTC   time.Time
	Resolution Resolution
	Points     []RawPoint
}

// RawPoint is one price point as published: a 1-based position within its
// period and a price in EUR/MWh.
type RawPoint struct {
	Position int
	Price    float64
}
