package pipeline

import (
	"math"
	"time"

	log "github.com/sirupsen/logrus"

	"dayahead-prices/internal/model"
)

// timedPoint is a raw point placed on the clock: the published position has
// been resolved to its UTC instant and is no longer needed.
type timedPoint struct {
	TimestampUTC time.Time
	Price        float64
	Resolution   model.Resolution
}

// decodeSeries expands every period of one series into timestamped points.
//
// The instant of position n is StartUTC + (n-1) * resolution, computed
// entirely in UTC. Local time enters the picture only at the calendar
// filter; doing offset math here would break on DST days.
//
// Malformed points are dropped and logged, never fatal. The returned count
// says how many were lost.
func decodeSeries(cs model.CandidateSeries) (pts []timedPoint, dropped int) {
	for _, period := range cs.Periods {
		step := period.Resolution.Duration()
		if step <= 0 {
			// Unknown resolutions cannot be placed on the clock.
			log.Warnf("[Pipeline] Skipping period with resolution %q (series mRID=%q)",
				period.Resolution, cs.Metadata.MRID)
			dropped += len(period.Points)
			continue
		}

		seen := make(map[int]bool, len(period.Points))
		for _, rp := range period.Points {
			if err := validatePoint(rp, seen); err != nil {
				dropped++
				log.Warnf("[Pipeline] Dropping point: %v (series mRID=%q, period start=%s)",
					err, cs.Metadata.MRID, period.StartUTC.Format(time.RFC3339))
				continue
			}
			seen[rp.Position] = true
			pts = append(pts, timedPoint{
				TimestampUTC: period.StartUTC.Add(time.Duration(rp.Position-1) * step),
				Price:        rp.Price,
				Resolution:   period.Resolution,
			})
		}
	}
	return pts, dropped
}

func validatePoint(rp model.RawPoint, seen map[int]bool) error {
	if rp.Position <= 0 {
		return &MalformedPointError{Position: rp.Position, Reason: "position must be >= 1"}
	}
	if seen[rp.Position] {
		return &MalformedPointError{Position: rp.Position, Reason: "duplicate position within period"}
	}
	if math.IsNaN(rp.Price) || math.IsInf(rp.Price, 0) {
		return &MalformedPointError{Position: rp.Position, Reason: "price is not a finite number"}
	}
	return nil
}
