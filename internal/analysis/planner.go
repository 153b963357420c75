package analysis

import (
	"fmt"
	"math"
	"strings"

	"dayahead-prices/internal/model"
)

// PlanRequest asks for the cheapest contiguous run to operate an appliance,
// constrained to part of the day. Bounds are local wall-clock "HH:MM";
// an empty bound is unconstrained on that side.
type PlanRequest struct {
	DurationHours int
	NotBefore     string // the run must not start earlier than this
	FinishBy      string // the run must be over by this
}

// PlanRun finds the cheapest run of DurationHours consecutive slots whose
// start is not before NotBefore and whose end is not after FinishBy.
//
// Returns (nil, nil) when the bounds leave no room for a run of that length.
// Overnight windows (finish before start) are rejected; they would need the
// next day's prices, which a daily series does not have.
func PlanRun(series *model.DailyPriceSeries, req PlanRequest) (*CheapestBlock, error) {
	if series == nil || len(series.Points) == 0 {
		return nil, fmt.Errorf("no prices to plan over")
	}
	k := req.DurationHours
	if k < 1 {
		return nil, fmt.Errorf("duration must be at least 1 hour")
	}

	notBefore := 0
	if strings.TrimSpace(req.NotBefore) != "" {
		m, err := parseHHMM(req.NotBefore)
		if err != nil {
			return nil, err
		}
		notBefore = m
	}

	finishBy := 24 * 60
	if strings.TrimSpace(req.FinishBy) != "" {
		m, err := parseHHMM(req.FinishBy)
		if err != nil {
			return nil, err
		}
		// "00:00" as a deadline means end of day, not start.
		if m != 0 {
			finishBy = m
		}
	}

	if finishBy < notBefore {
		return nil, fmt.Errorf("finish_by %q is before not_before %q: overnight windows are not supported on a single day", req.FinishBy, req.NotBefore)
	}

	points := series.Points
	bestSum := math.Inf(1)
	bestStart := -1
	for start := 0; start+k <= len(points); start++ {
		startMins := points[start].LocalHour * 60
		endMins := (points[start+k-1].LocalHour + 1) * 60
		if startMins < notBefore || endMins > finishBy {
			continue
		}
		sum := windowSum(points, start, k)
		if sum < bestSum {
			bestSum = sum
			bestStart = start
		}
	}
	if bestStart < 0 {
		return nil, nil
	}
	return blockAt(points, bestStart, k, bestSum), nil
}

func parseHHMM(s string) (int, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	var h, m int
	if _, err := fmt.Sscanf(parts[0], "%d", &h); err != nil {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	if _, err := fmt.Sscanf(parts[1], "%d", &m); err != nil {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid time %q", s)
	}
	return h*60 + m, nil
}
