package model

import (
	"fmt"
	"time"
)

// Resolution is the interval length of the points inside a Period, as the
// feed publishes it (ISO-8601 duration). Keep these values stable; they
// match the wire format.
type Resolution string

const (
	Resolution15Min Resolution = "PT15M"
	Resolution30Min Resolution = "PT30M"
	Resolution60Min Resolution = "PT60M"
)

// ParseResolution maps a wire value onto a known Resolution.
// Anything else is rejected so downstream hour math never divides by an
// interval it does not understand.
func ParseResolution(s string) (Resolution, error) {
	switch Resolution(s) {
	case Resolution15Min, Resolution30Min, Resolution60Min:
		return Resolution(s), nil
	}
	return "", fmt.Errorf("unsupported resolution %q", s)
}

func (r Resolution) Duration() time.Duration {
	switch r {
	case Resolution15Min:
		return 15 * time.Minute
	case Resolution30Min:
		return 30 * time.Minute
	case Resolution60Min:
		return time.Hour
	}
	return 0
}

// PointsPerHour is how many points a full hour holds at this resolution
// (4, 2 or 1). Zero for an unknown resolution.
func (r Resolution) PointsPerHour() int {
	d := r.Duration()
	if d <= 0 {
		return 0
	}
	return int(time.Hour / d)
}
