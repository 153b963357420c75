package analysis

import (
	"math"

	"dayahead-prices/internal/model"
)

// DayStats summarizes one canonical day. Prices are EUR/MWh; MinHour and
// MaxHour are local wall-clock hours. When several hours share the extreme
// price, the earliest one is reported.
type DayStats struct {
	Count int

	AverageEURPerMWh float64
	MinEURPerMWh     float64
	MaxEURPerMWh     float64

	MinHour int
	MaxHour int

	// Spread is MaxEURPerMWh - MinEURPerMWh, a quick read on how much
	// shifting consumption within the day can be worth.
	Spread float64
}

// ComputeStats walks the day once. A nil or empty series yields zero stats.
func ComputeStats(series *model.DailyPriceSeries) DayStats {
	s := DayStats{}
	if series == nil || len(series.Points) == 0 {
		return s
	}

	sum := 0.0
	minv := math.Inf(1)
	maxv := math.Inf(-1)
	for _, p := range series.Points {
		sum += p.PriceEURPerMWh
		if p.PriceEURPerMWh < minv {
			minv = p.PriceEURPerMWh
			s.MinHour = p.LocalHour
		}
		if p.PriceEURPerMWh > maxv {
			maxv = p.PriceEURPerMWh
			s.MaxHour = p.LocalHour
		}
	}

	s.Count = len(series.Points)
	s.AverageEURPerMWh = sum / float64(s.Count)
	s.MinEURPerMWh = minv
	s.MaxEURPerMWh = maxv
	s.Spread = maxv - minv
	return s
}
