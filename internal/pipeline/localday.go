package pipeline

import (
	"time"
)

// filterLocalDay keeps the points whose UTC instant falls on the target
// calendar date in loc. This is the one place local-date membership is
// decided; the request window covers the local day with margin, and the
// spillover (the last hours of the neighboring UTC dates) is trimmed here.
func filterLocalDay(pts []timedPoint, date time.Time, loc *time.Location) []timedPoint {
	d := date.In(loc)
	wantY, wantM, wantD := d.Date()

	var out []timedPoint
	for _, p := range pts {
		y, m, day := p.TimestampUTC.In(loc).Date()
		if y == wantY && m == wantM && day == wantD {
			out = append(out, p)
		}
	}
	return out
}
