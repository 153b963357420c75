package analysis

import (
	"math"
	"time"

	"dayahead-prices/internal/model"
)

// BlockLengths are the run lengths evaluated for every day, in hours.
// They cover the usual household loads people shift by timer.
var BlockLengths = []int{1, 2, 3, 4}

// CheapestBlock is the cheapest run of Hours consecutive slots in a day.
type CheapestBlock struct {
	Hours     int
	StartHour int       // local wall-clock hour of the first slot
	StartUTC  time.Time // start of the first slot
	EndUTC    time.Time // exclusive: start of the hour after the last slot

	AverageEURPerMWh float64
	Prices           []float64 // member prices in slot order, EUR/MWh
}

// CheapestBlocks finds the cheapest contiguous run for every length in
// BlockLengths, keyed by length. Ties go to the earliest start. A day with
// fewer slots than a length has no entry for it.
func CheapestBlocks(series *model.DailyPriceSeries) map[int]*CheapestBlock {
	out := make(map[int]*CheapestBlock, len(BlockLengths))
	if series == nil {
		return out
	}
	for _, k := range BlockLengths {
		if b := cheapestRun(series.Points, 0, len(series.Points), k); b != nil {
			out[k] = b
		}
	}
	return out
}

// cheapestRun scans every k-wide window of points[lo:hi] and keeps the
// cheapest. Sums are computed fresh per window: with at most 25 slots that
// costs nothing and keeps equal-sum ties exact, so "earliest start wins"
// cannot be flipped by accumulated float error.
func cheapestRun(points []model.CanonicalPoint, lo, hi, k int) *CheapestBlock {
	if k <= 0 || lo < 0 || hi > len(points) || hi-lo < k {
		return nil
	}

	best := math.Inf(1)
	bestStart := -1
	for start := lo; start+k <= hi; start++ {
		sum := windowSum(points, start, k)
		if sum < best {
			best = sum
			bestStart = start
		}
	}
	return blockAt(points, bestStart, k, best)
}

func windowSum(points []model.CanonicalPoint, start, k int) float64 {
	sum := 0.0
	for i := start; i < start+k; i++ {
		sum += points[i].PriceEURPerMWh
	}
	return sum
}

func blockAt(points []model.CanonicalPoint, start, k int, sum float64) *CheapestBlock {
	prices := make([]float64, k)
	for i := 0; i < k; i++ {
		prices[i] = points[start+i].PriceEURPerMWh
	}
	last := points[start+k-1]
	return &CheapestBlock{
		Hours:            k,
		StartHour:        points[start].LocalHour,
		StartUTC:         points[start].TimestampUTC,
		EndUTC:           last.TimestampUTC.Add(time.Hour),
		AverageEURPerMWh: sum / float64(k),
		Prices:           prices,
	}
}
