package models

// PlanQuery represents the query string for planning an appliance run
type PlanQuery struct {
	Duration  int    `form:"duration" binding:"required"` // hours, >= 1
	NotBefore string `form:"not_before,omitempty"`        // local "HH:MM"
	FinishBy  string `form:"finish_by,omitempty"`         // local "HH:MM"
}
