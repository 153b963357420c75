package models

import (
	"dayahead-prices/internal/analysis"
	"dayahead-prices/internal/entsoe"
)

// BlocksResponse carries the cheapest contiguous runs for one day
type BlocksResponse struct {
	Date           string                `json:"date"`
	Zone           string                `json:"zone"`
	CheapestBlocks analysis.ReportBlocks `json:"cheapest_blocks"`
}

// PlanResponse carries the chosen run for a plan query. Block is null when
// the bounds leave no room.
type PlanResponse struct {
	Date          string                `json:"date"`
	Zone          string                `json:"zone"`
	DurationHours int                   `json:"duration_hours"`
	NotBefore     string                `json:"not_before,omitempty"`
	FinishBy      string                `json:"finish_by,omitempty"`
	Block         *analysis.ReportBlock `json:"block"`
}

// ZonesResponse lists the bidding zones this deployment knows about
type ZonesResponse struct {
	Zones []entsoe.Zone `json:"zones"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
