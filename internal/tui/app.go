package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/docketwatch/internal/domain"
	"github.com/mmcdole/docketwatch/internal/scan"
	"github.com/mmcdole/docketwatch/internal/tui/components"
)

// ApplicationState represents the current state of the application
type ApplicationState int

const (
	StateBrowsing ApplicationState = iota
	StateTargetInput
	StateHelp
)

// Layout
const (
	// Lines used by the header, stat cards, filter line, scan panel and footer
	ChromeHeight = 15

	statusDuration = 4 * time.Second
)

// Model is the main Bubble Tea model for the application
type Model struct {
	// Application state
	State   ApplicationState
	Ready   bool
	Loading bool

	// Services
	Dashboard Dashboard
	Scanner   Scanner
	Observer  *ChannelObserver

	// ctx scopes scan sessions started from the UI
	ctx context.Context

	// UI Components
	CaseList   components.CaseList
	ScanPanel  components.ScanPanel
	InputModal components.InputModal
	Help       help.Model

	// Data
	Filter     domain.Filter
	Cases      []domain.Lawsuit
	Stats      domain.Stats
	ScanStatus domain.ScanStatus
	FromCache  bool

	// Dimensions
	Width  int
	Height int

	// UI state
	StatusMsg   string
	StatusIsErr bool
}

// NewModel creates a new application model showing filter
func NewModel(ctx context.Context, dash Dashboard, scanner Scanner, obs *ChannelObserver, filter domain.Filter) Model {
	m := Model{
		State:      StateBrowsing,
		Loading:    true,
		Dashboard:  dash,
		Scanner:    scanner,
		Observer:   obs,
		ctx:        ctx,
		CaseList:   components.NewCaseList(),
		ScanPanel:  components.NewScanPanel(),
		InputModal: components.NewInputModal(),
		Help:       help.New(),
		Filter:     filter,
	}
	if scanner != nil {
		m.ScanPanel.SetSnapshot(scanner.Snapshot())
	}
	return m
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	m.Dashboard.SetFilter(m.Filter)
	cmds := []tea.Cmd{
		LoadDataCmd(m.Dashboard, m.Filter),
		m.ScanPanel.Tick,
	}
	if m.Observer != nil {
		cmds = append(cmds, WaitForSnapshotCmd(m.Observer), WaitForRefreshCmd(m.Observer))
	}
	return tea.Batch(cmds...)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.updateLayout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.ScanPanel, cmd = m.ScanPanel.Update(msg)
		return m, cmd

	case DataLoadedMsg:
		return m.handleData(msg)

	case SnapshotMsg:
		return m.handleSnapshot(msg.Snapshot)

	case ScanStartFailedMsg:
		return m, m.setStatus(scanStartError(msg.Err), true)

	case StatusMsg:
		return m, m.setStatus(msg.Message, msg.IsError)

	case ClearStatusMsg:
		m.StatusMsg = ""
		m.StatusIsErr = false
		return m, nil

	case ErrMsg:
		return m, m.setStatus(msg.Error(), true)
	}

	return m, nil
}

func (m Model) handleData(msg DataLoadedMsg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	if msg.AfterScan && m.Observer != nil {
		cmds = append(cmds, WaitForRefreshCmd(m.Observer))
	}

	// A listing for a filter the user already left is stale
	if msg.Data.Listing.Filter != m.Filter {
		return m, tea.Batch(cmds...)
	}
	m.Loading = false

	if msg.Err == nil || msg.Data.Listing.Cases != nil {
		m.Cases = msg.Data.Listing.Cases
		m.CaseList.SetCases(m.Cases)
	}
	if msg.Err == nil {
		m.Stats = msg.Data.Stats
		m.ScanStatus = msg.Data.ScanStatus
	}
	m.FromCache = msg.Data.FromCache

	if msg.Err != nil {
		cmds = append(cmds, m.setStatus(loadError(msg.Err), true))
	}
	return m, tea.Batch(cmds...)
}

func (m Model) handleSnapshot(s scan.Snapshot) (tea.Model, tea.Cmd) {
	prev := m.ScanPanel.Snapshot()
	m.ScanPanel.SetSnapshot(s)

	var cmds []tea.Cmd
	if m.Observer != nil {
		cmds = append(cmds, WaitForSnapshotCmd(m.Observer))
	}

	// Announce each session's outcome once
	if s.Phase.Terminal() && (prev.SessionID != s.SessionID || !prev.Phase.Terminal()) {
		switch {
		case s.Phase == scan.PhaseCompleted:
			cmds = append(cmds, m.setStatus(fmt.Sprintf("Scan complete: %d cases found", s.CasesFound), false))
		case s.ErrorKind == scan.ErrorCancelled:
			cmds = append(cmds, m.setStatus("Scan cancelled", false))
		default:
			cmds = append(cmds, m.setStatus("Scan failed: "+s.Message, true))
		}
	}
	return m, tea.Batch(cmds...)
}

// setStatus shows a message and schedules its removal
func (m *Model) setStatus(msg string, isErr bool) tea.Cmd {
	m.StatusMsg = msg
	m.StatusIsErr = isErr
	return ClearStatusCmd(statusDuration)
}

// reload fetches data for the current filter
func (m *Model) reload() tea.Cmd {
	m.Loading = true
	m.Dashboard.SetFilter(m.Filter)
	return LoadDataCmd(m.Dashboard, m.Filter)
}

func (m *Model) updateLayout() {
	listHeight := m.Height - ChromeHeight
	if listHeight < 3 {
		listHeight = 3
	}
	m.CaseList.SetSize(m.Width, listHeight)
	m.ScanPanel.SetWidth(m.Width)
	m.Help.Width = m.Width
}

func scanStartError(err error) string {
	switch {
	case errors.Is(err, scan.ErrSessionActive):
		return "A scan is already running"
	case errors.Is(err, scan.ErrTargetRequired):
		return "Enter a company to scan"
	case errors.Is(err, scan.ErrInvalidRange):
		return "Invalid date range"
	}
	return "Could not start scan: " + err.Error()
}

func loadError(err error) string {
	switch {
	case errors.Is(err, domain.ErrServerOffline):
		return "Tracker is unreachable"
	case errors.Is(err, domain.ErrAuthFailed):
		return "Tracker rejected the token"
	}
	return "Failed to load data: " + err.Error()
}
