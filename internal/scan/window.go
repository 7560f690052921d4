package scan

import "time"

// Default lookback windows. A fleet-wide scan favors recency; a single
// company scan favors completeness.
const (
	DefaultFullHoursBack   = 168  // 7 days
	DefaultTargetHoursBack = 8760 // 1 year
)

// DateRange bounds the filing dates a scan searches
type DateRange struct {
	From time.Time
	To   time.Time
}

// HoursBack converts an optional range to the backend's hour-count window.
// A nil range yields def. Partial hours are dropped.
func HoursBack(r *DateRange, def int) (int, error) {
	if r == nil {
		return def, nil
	}
	if r.To.Before(r.From) {
		return 0, ErrInvalidRange
	}
	return int(r.To.Sub(r.From) / time.Hour), nil
}
