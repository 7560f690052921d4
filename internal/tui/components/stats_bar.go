package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/docketwatch/internal/domain"
	"github.com/mmcdole/docketwatch/internal/tui/styles"
)

// StatsBar renders the counter cards and the listing filter controls
type StatsBar struct {
	Stats      domain.Stats
	ScanStatus domain.ScanStatus
	Filter     domain.Filter
	FromCache  bool
}

func card(value int, label string) string {
	return styles.CardStyle.Render(
		styles.CardValueStyle.Render(fmt.Sprintf("%d", value)) + "\n" +
			styles.CardLabelStyle.Render(label))
}

// View renders the cards above the filter line
func (s StatsBar) View() string {
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		card(s.Stats.Total, "Total Cases"),
		card(s.Stats.HighPriority, "High Priority"),
		card(s.Stats.LastWeek, "Last 7 Days"),
		card(s.Stats.LastMonth, "Last 30 Days"),
	)

	view := styles.ActiveFilterStyle.Render(s.Filter.View.Label())
	priority := styles.InactiveFilterStyle.Render("Priority: " + string(s.Filter.Priority))
	if s.Filter.Priority != domain.PriorityAll {
		priority = styles.ActiveFilterStyle.Render("Priority: " + string(s.Filter.Priority))
	}

	lastScan := styles.DimStyle.Render("Last scan: " + domain.FormatDate(s.ScanStatus.LastScan))
	if !s.ScanStatus.LastScan.IsZero() {
		lastScan = styles.DimStyle.Render("Last scan: " + s.ScanStatus.LastScan.Local().Format("Jan 2, 2006 3:04 PM"))
	}

	filters := view + " " + priority + "  " + lastScan
	if s.FromCache {
		filters += "  " + styles.WarningStyle.Render("offline (cached)")
	}

	return lipgloss.JoinVertical(lipgloss.Left, cards, filters)
}
