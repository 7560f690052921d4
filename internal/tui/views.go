package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/docketwatch/internal/tui/components"
	"github.com/mmcdole/docketwatch/internal/tui/styles"
)

// View renders the application
func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}

	if m.State == StateHelp {
		return m.renderHelp()
	}

	header := styles.TitleStyle.Render("Lawsuit Tracker") + " " +
		styles.DimStyle.Render(fmt.Sprintf("(%d cases)", len(m.Cases)))
	if m.Loading {
		header += " " + styles.AccentStyle.Render("loading…")
	}

	stats := components.StatsBar{
		Stats:      m.Stats,
		ScanStatus: m.ScanStatus,
		Filter:     m.Filter,
		FromCache:  m.FromCache,
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		header,
		stats.View(),
		m.ScanPanel.View(),
		m.CaseList.View(),
	)

	// Pin the footer to the bottom row
	bodyHeight := m.Height - 1
	if h := lipgloss.Height(body); h < bodyHeight {
		body = lipgloss.NewStyle().Height(bodyHeight).Render(body)
	}
	view := lipgloss.JoinVertical(lipgloss.Left, body, m.renderFooter())

	if m.State == StateTargetInput {
		return lipgloss.Place(m.Width, m.Height, lipgloss.Center, lipgloss.Center, m.InputModal.View())
	}
	return view
}

func (m Model) renderFooter() string {
	if m.StatusMsg != "" {
		if m.StatusIsErr {
			return styles.ErrorStyle.Render(m.StatusMsg)
		}
		return styles.SuccessStyle.Render(m.StatusMsg)
	}
	return m.Help.ShortHelpView(Keys.ShortHelp())
}

func (m Model) renderHelp() string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		styles.ModalTitleStyle.Render("Keyboard shortcuts"),
		"",
		m.Help.FullHelpView(Keys.FullHelp()),
		"",
		styles.DimStyle.Render("esc to close"),
	)
	return lipgloss.Place(m.Width, m.Height, lipgloss.Center, lipgloss.Center, styles.ModalStyle.Render(content))
}
