package domain

import (
	"strings"
	"time"
)

// Priority is the triage level the backend assigns to a case
type Priority string

const (
	PriorityAll    Priority = "all"
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// priorityCycle is the order the filter control steps through
var priorityCycle = []Priority{PriorityAll, PriorityHigh, PriorityMedium, PriorityLow}

// ParsePriority normalizes a user or wire value. Unknown values map to PriorityAll.
func ParsePriority(s string) Priority {
	switch Priority(strings.ToLower(strings.TrimSpace(s))) {
	case PriorityHigh:
		return PriorityHigh
	case PriorityMedium:
		return PriorityMedium
	case PriorityLow:
		return PriorityLow
	default:
		return PriorityAll
	}
}

// Next returns the following priority in the filter cycle
func (p Priority) Next() Priority {
	for i, c := range priorityCycle {
		if c == p {
			return priorityCycle[(i+1)%len(priorityCycle)]
		}
	}
	return PriorityAll
}

// View selects which listing endpoint feeds the case list
type View string

const (
	ViewRecent View = "recent" // last 7 days
	ViewAll    View = "all"
)

// ParseView normalizes a view name. Unknown values map to ViewRecent.
func ParseView(s string) View {
	if View(strings.ToLower(strings.TrimSpace(s))) == ViewAll {
		return ViewAll
	}
	return ViewRecent
}

// Toggle switches between the recent and full listings
func (v View) Toggle() View {
	if v == ViewAll {
		return ViewRecent
	}
	return ViewAll
}

// Label returns the human-readable name shown in the filter bar
func (v View) Label() string {
	if v == ViewAll {
		return "All Cases"
	}
	return "Recent (7 days)"
}

// Filter is the listing query the dashboard is showing
type Filter struct {
	View     View
	Priority Priority
}

// DefaultFilter matches the dashboard's initial state
func DefaultFilter() Filter {
	return Filter{View: ViewRecent, Priority: PriorityAll}
}

// Key identifies the filter in the local cache
func (f Filter) Key() string {
	return string(f.View) + ":" + string(f.Priority)
}

// Lawsuit is one tracked court case
type Lawsuit struct {
	ID           string
	CompanyName  string
	CaseName     string
	DocketNumber string
	DateFiled    time.Time // zero if the backend did not report it
	Court        string
	Priority     Priority
	Keywords     []string
	Cause        string
	URL          string
}

// FormattedDateFiled returns the filing date as "Jan 2, 2006", or N/A
func (l Lawsuit) FormattedDateFiled() string {
	return FormatDate(l.DateFiled)
}

// Stats holds the aggregate counters shown in the header cards
type Stats struct {
	Total        int
	HighPriority int
	LastWeek     int
	LastMonth    int
}

// ScanStatus reports when the backend last completed a scan
type ScanStatus struct {
	LastScan time.Time // zero if the backend has never scanned
}

// FormatDate renders a date the way the dashboard shows it
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "N/A"
	}
	return t.Format("Jan 2, 2006")
}
