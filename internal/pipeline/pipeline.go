// Package pipeline normalizes a decoded day-ahead publication into exactly
// one gap-free hourly price series per requested local calendar day.
//
// Stage order matters: select series, decode positions to UTC instants,
// filter to the local date, merge sub-hourly points per series, then dedupe
// across series. Merging before dedupe keeps a quarter-hourly twin from
// being averaged together with an hourly one; dedupe compares finished
// hour slots only.
package pipeline

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"dayahead-prices/internal/model"
)

type Pipeline struct {
	loc *time.Location
}

// New creates a pipeline for one market timezone. Daily series produced by
// Run are calendar days of that zone.
func New(loc *time.Location) *Pipeline {
	return &Pipeline{loc: loc}
}

// Run builds the canonical series for the local calendar day containing
// date. The same document and date always produce the same series.
func (p *Pipeline) Run(doc *model.MarketDocument, date time.Time) (*Result, error) {
	if p.loc == nil {
		return nil, fmt.Errorf("pipeline has no timezone")
	}
	if doc == nil {
		return nil, fmt.Errorf("document is nil")
	}

	sel, err := Select(doc)
	if err != nil {
		return nil, err
	}

	var hourly []model.CanonicalPoint
	dropped := 0
	for _, cs := range sel.Series {
		pts, d := decodeSeries(cs)
		dropped += d
		pts = filterLocalDay(pts, date, p.loc)
		hourly = append(hourly, mergeHourly(pts, p.loc)...)
	}

	points := dedupe(hourly)
	duplicates := len(hourly) - len(points)

	want := model.HoursInLocalDay(date, p.loc)
	if len(points) != want {
		return nil, &IncompleteDayError{Date: date, Want: want, Got: len(points)}
	}

	d := date.In(p.loc)
	series := &model.DailyPriceSeries{
		LocalDate: time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, p.loc),
		Location:  p.loc,
		Points:    points,
		Degraded:  sel.Degraded,
	}

	log.Infof("[Pipeline] Built %s: %d hourly prices from %d series (dropped=%d, duplicates=%d, degraded=%v)",
		series.DateString(), len(points), len(sel.Series), dropped, duplicates, sel.Degraded)

	return &Result{
		Series:          series,
		SeriesUsed:      len(sel.Series),
		DroppedPoints:   dropped,
		DuplicatePoints: duplicates,
	}, nil
}
