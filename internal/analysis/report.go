package analysis

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"dayahead-prices/internal/model"
)

// Report is the canonical record published for one day. Field order is
// fixed and nothing clock-dependent is included, so the same input document
// always marshals to the same bytes.
type Report struct {
	Date           string        `json:"date"`
	Zone           string        `json:"zone,omitempty"`
	Degraded       bool          `json:"degraded,omitempty"`
	Points         []ReportPoint `json:"points"`
	Statistics     ReportStats   `json:"statistics"`
	CheapestBlocks ReportBlocks  `json:"cheapest_blocks"`
}

// ReportPoint is one hour in the three consumer units. The kWh and cent
// figures are derived from the MWh price, never carried separately.
type ReportPoint struct {
	Hour          int     `json:"hour"`
	TimestampUTC  string  `json:"timestamp_utc"`
	PriceEURMWh   float64 `json:"price_eur_mwh"`  // 2 decimals
	PriceEURKWh   float64 `json:"price_eur_kwh"`  // 4 decimals
	PriceCentKWh  float64 `json:"price_cent_kwh"` // 2 decimals
	LowConfidence bool    `json:"low_confidence,omitempty"`
}

type ReportStats struct {
	AverageEURMWh float64 `json:"average_eur_mwh"`
	MinEURMWh     float64 `json:"min_eur_mwh"`
	MaxEURMWh     float64 `json:"max_eur_mwh"`
	MinHour       int     `json:"min_hour"`
	MaxHour       int     `json:"max_hour"`
	PriceSpread   float64 `json:"price_spread"`
}

// ReportBlocks holds one entry per evaluated run length. An entry is null
// when the day has fewer slots than the length.
type ReportBlocks struct {
	OneHour    *ReportBlock `json:"1_hour"`
	TwoHours   *ReportBlock `json:"2_hours"`
	ThreeHours *ReportBlock `json:"3_hours"`
	FourHours  *ReportBlock `json:"4_hours"`
}

type ReportBlock struct {
	Hours         int       `json:"hours"`
	StartHour     int       `json:"start_hour"`
	StartUTC      string    `json:"start_utc"`
	EndUTC        string    `json:"end_utc"`
	AverageEURMWh float64   `json:"average_eur_mwh"`
	Prices        []float64 `json:"prices"`
}

// BuildReport assembles the published record for a validated day. Rounding
// to the published precisions (2/4/2 decimals, half away from zero) happens
// here and nowhere else; everything upstream works on unrounded EUR/MWh.
func BuildReport(series *model.DailyPriceSeries, zone string) *Report {
	if series == nil {
		return nil
	}

	stats := ComputeStats(series)
	blocks := CheapestBlocks(series)

	r := &Report{
		Date:     series.DateString(),
		Zone:     zone,
		Degraded: series.Degraded,
		Points:   make([]ReportPoint, 0, len(series.Points)),
		Statistics: ReportStats{
			AverageEURMWh: round2(stats.AverageEURPerMWh),
			MinEURMWh:     round2(stats.MinEURPerMWh),
			MaxEURMWh:     round2(stats.MaxEURPerMWh),
			MinHour:       stats.MinHour,
			MaxHour:       stats.MaxHour,
			PriceSpread:   round2(stats.Spread),
		},
		CheapestBlocks: ReportBlocks{
			OneHour:    NewReportBlock(blocks[1]),
			TwoHours:   NewReportBlock(blocks[2]),
			ThreeHours: NewReportBlock(blocks[3]),
			FourHours:  NewReportBlock(blocks[4]),
		},
	}

	for _, p := range series.Points {
		r.Points = append(r.Points, ReportPoint{
			Hour:          p.LocalHour,
			TimestampUTC:  p.TimestampUTC.UTC().Format(time.RFC3339),
			PriceEURMWh:   round2(p.PriceEURPerMWh),
			PriceEURKWh:   round4(p.PriceEURPerKWh()),
			PriceCentKWh:  round2(p.PriceCentPerKWh()),
			LowConfidence: p.LowConfidence,
		})
	}
	return r
}

// NewReportBlock converts a block to its published form, nil for nil.
func NewReportBlock(b *CheapestBlock) *ReportBlock {
	if b == nil {
		return nil
	}
	prices := make([]float64, len(b.Prices))
	for i, p := range b.Prices {
		prices[i] = round2(p)
	}
	return &ReportBlock{
		Hours:         b.Hours,
		StartHour:     b.StartHour,
		StartUTC:      b.StartUTC.UTC().Format(time.RFC3339),
		EndUTC:        b.EndUTC.UTC().Format(time.RFC3339),
		AverageEURMWh: round2(b.AverageEURPerMWh),
		Prices:        prices,
	}
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

func round4(x float64) float64 {
	return math.Round(x*10000) / 10000
}

// WriteReportJSON writes the record as indented JSON, creating parent
// directories as needed.
func WriteReportJSON(r *Report, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	raw, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	if err := os.WriteFile(path, raw, 0644); err != nil {
		return fmt.Errorf("failed to write report file: %w", err)
	}
	return nil
}
