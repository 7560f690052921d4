package backend

import (
	"strings"
	"time"

	"github.com/mmcdole/docketwatch/internal/domain"
)

// MapLawsuits converts wire case records to domain lawsuits
func MapLawsuits(records []Lawsuit) []domain.Lawsuit {
	cases := make([]domain.Lawsuit, 0, len(records))
	for _, r := range records {
		cases = append(cases, mapLawsuit(r))
	}
	return cases
}

func mapLawsuit(r Lawsuit) domain.Lawsuit {
	return domain.Lawsuit{
		ID:           string(r.ID),
		CompanyName:  strings.TrimSpace(r.CompanyName),
		CaseName:     strings.TrimSpace(r.CaseName),
		DocketNumber: r.DocketNumber,
		DateFiled:    parseDate(r.DateFiled),
		Court:        r.Court,
		Priority:     mapPriority(r.Priority),
		Keywords:     r.Keywords,
		Cause:        r.Cause,
		URL:          r.URL,
	}
}

// mapPriority keeps only the levels the dashboard renders; anything else is low
func mapPriority(p string) domain.Priority {
	if parsed := domain.ParsePriority(p); parsed != domain.PriorityAll {
		return parsed
	}
	return domain.PriorityLow
}

// MapStats converts wire counters to domain stats
func MapStats(s Stats) domain.Stats {
	return domain.Stats{
		Total:        s.Total,
		HighPriority: s.HighPriority,
		LastWeek:     s.LastWeek,
		LastMonth:    s.LastMonth,
	}
}

// dateLayouts are tried in order; the backend has emitted all of them
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// parseDate returns the zero time for empty or unrecognized values
func parseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
