package models

type View string

const (
	ViewHome   View = "home"
	ViewDetail View = "detail"
	ViewReport View = "report"
)

// Navigation is which screen is shown and, for the detail view, which series.
type Navigation struct {
	View           View   `json:"view"`
	ActiveSeriesID string `json:"activeSeriesId,omitempty"`
}
