package pipeline

import (
	"errors"
	"fmt"
	"time"

	"dayahead-prices/internal/model"
)

// ErrNoQualifyingSeries means the document held no candidate series that
// even the degraded fallback could use.
var ErrNoQualifyingSeries = errors.New("no qualifying price series in document")

// MalformedPointError describes one undecodable point. It is recoverable:
// the point is dropped and logged and the series continues.
type MalformedPointError struct {
	Position int
	Reason   string
}

func (e *MalformedPointError) Error() string {
	return fmt.Sprintf("malformed point at position %d: %s", e.Position, e.Reason)
}

// IncompleteDayError means the surviving hour slots did not line up with the
// calendar. Want is the true hour count of the local date (23, 24 or 25),
// Got is what the pipeline produced. Both directions are fatal: a short day
// has gaps, a long day carries hours that belong to a neighboring date.
type IncompleteDayError struct {
	Date time.Time
	Want int
	Got  int
}

func (e *IncompleteDayError) Error() string {
	return fmt.Sprintf("incomplete day %s: expected %d hourly prices, have %d",
		e.Date.Format(model.DateLayout), e.Want, e.Got)
}
