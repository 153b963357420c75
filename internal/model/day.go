package model

import (
	"fmt"
	"time"
)

// DateLayout is the wire and CLI format for local calendar dates.
const DateLayout = "2006-01-02"

// CanonicalPoint is one settled hour slot of a local calendar day.
// Units: PriceEURPerMWh is EUR/MWh. The consumer-facing conversions are
// derived, never stored, so the three published prices cannot drift apart.
type CanonicalPoint struct {
	// TimestampUTC is the start of the hour slot and the slot's identity.
	// On a fall-back day two slots share LocalHour 2 but never a timestamp.
	TimestampUTC time.Time

	// LocalHour is the wall-clock hour in the market timezone, for display.
	LocalHour int

	PriceEURPerMWh float64

	// SampleCount is how many feed points produced this hour: 1 for native
	// hourly input, up to PointsPerHour() for sub-hourly input.
	SampleCount int

	// LowConfidence marks an hour averaged from fewer points than a full
	// hour provides at the source resolution (DST boundary partials).
	LowConfidence bool
}

func (p CanonicalPoint) PriceEURPerKWh() float64 {
	return p.PriceEURPerMWh / 1000
}

func (p CanonicalPoint) PriceCentPerKWh() float64 {
	return p.PriceEURPerMWh / 10
}

// DailyPriceSeries is the pipeline's product: exactly one price per hour
// slot of one local calendar day, sorted ascending by TimestampUTC.
type DailyPriceSeries struct {
	// LocalDate is midnight of the day in Location.
	LocalDate time.Time
	Location  *time.Location
	Points    []CanonicalPoint

	// Degraded is set when selection could not find a strictly qualifying
	// series and fell back to whatever was decodable. The prices are still
	// well-formed; the classification was not.
	Degraded bool
}

func (s *DailyPriceSeries) DateString() string {
	return s.LocalDate.Format(DateLayout)
}

// ParseLocalDate interprets s (YYYY-MM-DD) as a calendar date in loc and
// returns local midnight of that day.
func ParseLocalDate(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", s, err)
	}
	return t, nil
}

// HoursInLocalDay is the true number of hour slots in the local calendar
// day: 23 on the spring-forward date, 25 on the fall-back date, 24 otherwise.
// Computed from zone arithmetic, never from a fixed offset.
func HoursInLocalDay(date time.Time, loc *time.Location) int {
	start, end := LocalDayWindow(date, loc)
	return int(end.Sub(start) / time.Hour)
}

// LocalDayWindow returns the UTC instants bounding the local calendar day
// containing date: [local midnight, next local midnight).
func LocalDayWindow(date time.Time, loc *time.Location) (startUTC, endUTC time.Time) {
	d := date.In(loc)
	start := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
	end := time.Date(d.Year(), d.Month(), d.Day()+1, 0, 0, 0, 0, loc)
	return start.UTC(), end.UTC()
}
