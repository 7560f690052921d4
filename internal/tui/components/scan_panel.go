package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/docketwatch/internal/domain"
	"github.com/mmcdole/docketwatch/internal/scan"
	"github.com/mmcdole/docketwatch/internal/tui/styles"
)

// ScanPanel renders the progress of the current or last scan session
type ScanPanel struct {
	snap    scan.Snapshot
	bar     progress.Model
	spinner spinner.Model
	width   int
}

// NewScanPanel creates an idle scan panel
func NewScanPanel() ScanPanel {
	return ScanPanel{
		snap: scan.IdleSnapshot(),
		bar: progress.New(
			progress.WithSolidFill(string(styles.Indigo)),
			progress.WithoutPercentage(),
		),
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(styles.SpinnerStyle),
		),
	}
}

// SetSnapshot replaces the displayed state
func (p *ScanPanel) SetSnapshot(s scan.Snapshot) {
	p.snap = s
}

// Snapshot returns the displayed state
func (p ScanPanel) Snapshot() scan.Snapshot {
	return p.snap
}

// SetWidth sizes the panel
func (p *ScanPanel) SetWidth(w int) {
	p.width = w
	p.bar.Width = max(10, w-12)
}

// Tick starts the spinner animation
func (p ScanPanel) Tick() tea.Msg {
	return p.spinner.Tick()
}

// Update advances the spinner while a scan is active
func (p ScanPanel) Update(msg tea.Msg) (ScanPanel, tea.Cmd) {
	if _, ok := msg.(spinner.TickMsg); !ok {
		return p, nil
	}
	var cmd tea.Cmd
	p.spinner, cmd = p.spinner.Update(msg)
	return p, cmd
}

// PhaseLabel is the short status shown in the panel title
func PhaseLabel(s scan.Snapshot) string {
	switch s.Phase {
	case scan.PhaseIdle:
		return "Idle"
	case scan.PhaseInitializing:
		return "Starting"
	case scan.PhaseStarted:
		return "Started"
	case scan.PhaseSearching:
		return "Searching"
	case scan.PhaseTargetComplete:
		return "Searching"
	case scan.PhaseSaving:
		return "Saving"
	case scan.PhaseCompleted:
		return "Completed"
	case scan.PhaseError:
		if s.ErrorKind == scan.ErrorCancelled {
			return "Cancelled"
		}
		return "Failed"
	}
	return string(s.Phase)
}

// View renders the panel
func (p ScanPanel) View() string {
	s := p.snap
	if s.Phase == scan.PhaseIdle {
		return styles.InactiveBorder.Width(max(0, p.width-2)).Render(
			styles.DimStyle.Render("No scan running. Press s for a full scan or t to scan one company."))
	}

	title := "Full scan"
	if s.Kind == domain.ScanTarget {
		title = "Target scan: " + s.CompanyID
	}

	status := PhaseLabel(s)
	switch {
	case s.Active():
		status = p.spinner.View() + " " + status
	case s.Phase == scan.PhaseCompleted:
		status = styles.SuccessStyle.Render(status)
	case s.ErrorKind == scan.ErrorCancelled:
		status = styles.WarningStyle.Render(status)
	default:
		status = styles.ErrorStyle.Render(status)
	}

	lines := []string{
		styles.TitleStyle.Render(title) + "  " + status,
		p.bar.ViewAs(float64(s.Percentage)/100) + fmt.Sprintf(" %3d%%", s.Percentage),
	}

	var detail []string
	if s.CurrentTarget != nil {
		label := s.CurrentTarget.Label
		if label == "" {
			label = s.CurrentTarget.ID
		}
		detail = append(detail, "Target: "+label)
	}
	if s.Total > 0 {
		detail = append(detail, fmt.Sprintf("%d/%d", s.Progress, s.Total))
	}
	detail = append(detail, fmt.Sprintf("Cases found: %d", s.CasesFound))
	lines = append(lines, styles.SubtitleStyle.Render(strings.Join(detail, "  ·  ")))

	if s.Message != "" {
		msgStyle := styles.DimStyle
		if s.Phase == scan.PhaseError {
			msgStyle = styles.ErrorStyle
		}
		lines = append(lines, msgStyle.Render(styles.Truncate(s.Message, max(10, p.width-4))))
	}

	border := styles.InactiveBorder
	if s.Active() {
		border = styles.ActiveBorder
	}
	return border.Width(max(0, p.width-2)).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
