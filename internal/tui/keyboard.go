package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/docketwatch/internal/search"
)

// handleKeyMsg handles keyboard input
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Handle state-specific keys
	switch m.State {
	case StateHelp:
		if key.Matches(msg, Keys.Escape, Keys.Help, Keys.Quit) {
			m.State = StateBrowsing
		}
		return m, nil

	case StateTargetInput:
		var (
			cmd       tea.Cmd
			submitted bool
		)
		m.InputModal, cmd, submitted = m.InputModal.Update(msg)
		if submitted {
			companyID := m.InputModal.Value()
			m.InputModal.Hide()
			m.State = StateBrowsing
			return m, StartTargetScanCmd(m.ctx, m.Scanner, companyID)
		}
		if !m.InputModal.IsVisible() {
			m.State = StateBrowsing
		}
		return m, cmd
	}

	// The filter input owns the keyboard while focused
	if m.CaseList.IsFiltering() {
		var cmd tea.Cmd
		m.CaseList, cmd = m.CaseList.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, Keys.Help):
		m.State = StateHelp
		return m, nil

	case key.Matches(msg, Keys.Escape):
		if m.CaseList.FilterQuery() != "" {
			m.CaseList.ClearFilter()
		}
		return m, nil

	case key.Matches(msg, Keys.FullScan):
		return m, StartFullScanCmd(m.ctx, m.Scanner)

	case key.Matches(msg, Keys.TargetScan):
		m.InputModal.Show("Scan company", search.Companies(m.Cases))
		m.State = StateTargetInput
		return m, nil

	case key.Matches(msg, Keys.CancelScan):
		if !m.ScanPanel.Snapshot().Active() {
			return m, m.setStatus("No scan running", false)
		}
		return m, CancelScanCmd(m.Scanner)

	case key.Matches(msg, Keys.Refresh):
		return m, m.reload()

	case key.Matches(msg, Keys.Priority):
		m.Filter.Priority = m.Filter.Priority.Next()
		return m, m.reload()

	case key.Matches(msg, Keys.View):
		m.Filter.View = m.Filter.View.Toggle()
		return m, m.reload()

	case key.Matches(msg, Keys.Filter):
		return m, m.CaseList.StartFilter()

	case key.Matches(msg, Keys.Up):
		m.CaseList.MoveUp(1)
	case key.Matches(msg, Keys.Down):
		m.CaseList.MoveDown(1)
	case key.Matches(msg, Keys.PageUp):
		m.CaseList.MoveUp(5)
	case key.Matches(msg, Keys.PageDown):
		m.CaseList.MoveDown(5)
	case key.Matches(msg, Keys.Home):
		m.CaseList.GoTop()
	case key.Matches(msg, Keys.End):
		m.CaseList.GoBottom()
	}

	return m, nil
}
