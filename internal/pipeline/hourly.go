package pipeline

import (
	"sort"
	"time"

	"dayahead-prices/internal/model"
)

// mergeHourly collapses one series' filtered points onto hour slots.
//
// Native hourly input passes through unchanged (SampleCount 1). Sub-hourly
// input is grouped by UTC hour and averaged; an hour with fewer members than
// a full hour provides at that resolution is kept but marked LowConfidence.
// The market timezone has whole-hour offsets, so truncating the UTC instant
// and truncating the local one land on the same slot boundaries.
func mergeHourly(pts []timedPoint, loc *time.Location) []model.CanonicalPoint {
	type bucket struct {
		sum   float64
		count int
		res   model.Resolution
	}

	buckets := make(map[time.Time]*bucket)
	for _, p := range pts {
		hour := p.TimestampUTC.Truncate(time.Hour)
		b := buckets[hour]
		if b == nil {
			b = &bucket{res: p.Resolution}
			buckets[hour] = b
		}
		b.sum += p.Price
		b.count++
	}

	out := make([]model.CanonicalPoint, 0, len(buckets))
	for hour, b := range buckets {
		expected := b.res.PointsPerHour()
		out = append(out, model.CanonicalPoint{
			TimestampUTC:   hour,
			LocalHour:      hour.In(loc).Hour(),
			PriceEURPerMWh: b.sum / float64(b.count),
			SampleCount:    b.count,
			LowConfidence:  b.count < expected,
		})
	}

	sortByTimestamp(out)
	return out
}

// dedupe resolves overlapping windows and multiple admitted series by
// keeping one point per hour slot: the cheapest. Min is commutative, so the
// outcome does not depend on the order series arrived in.
func dedupe(pts []model.CanonicalPoint) []model.CanonicalPoint {
	bySlot := make(map[time.Time]model.CanonicalPoint, len(pts))
	for _, p := range pts {
		cur, ok := bySlot[p.TimestampUTC]
		if !ok || betterPoint(p, cur) {
			bySlot[p.TimestampUTC] = p
		}
	}

	out := make([]model.CanonicalPoint, 0, len(bySlot))
	for _, p := range bySlot {
		out = append(out, p)
	}
	sortByTimestamp(out)
	return out
}

// betterPoint reports whether a should replace b for the same slot. The
// cheaper point wins; at equal prices the better-sampled one does, keeping
// the choice deterministic when duplicate slots differ only in provenance.
func betterPoint(a, b model.CanonicalPoint) bool {
	if a.PriceEURPerMWh != b.PriceEURPerMWh {
		return a.PriceEURPerMWh < b.PriceEURPerMWh
	}
	if a.SampleCount != b.SampleCount {
		return a.SampleCount > b.SampleCount
	}
	return !a.LowConfidence && b.LowConfidence
}

func sortByTimestamp(pts []model.CanonicalPoint) {
	sort.Slice(pts, func(i, j int) bool {
		return pts[i].TimestampUTC.Before(pts[j].TimestampUTC)
	})
}
