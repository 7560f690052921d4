package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/docketwatch/internal/dashboard"
	"github.com/mmcdole/docketwatch/internal/domain"
	"github.com/mmcdole/docketwatch/internal/scan"
)

const loadTimeout = 30 * time.Second

// Dashboard loads the data shown around the scan panel
type Dashboard interface {
	Refresh(ctx context.Context, f domain.Filter) (dashboard.Data, error)
	SetFilter(f domain.Filter)
}

// Scanner runs scan sessions. *scan.Controller satisfies it.
type Scanner interface {
	StartFullScan(ctx context.Context, r *scan.DateRange) error
	StartTargetScan(ctx context.Context, companyID string, r *scan.DateRange) error
	Cancel()
	Snapshot() scan.Snapshot
}

// LoadDataCmd refreshes the dashboard for f
func LoadDataCmd(dash Dashboard, f domain.Filter) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		data, err := dash.Refresh(ctx, f)
		return DataLoadedMsg{Data: data, Err: err}
	}
}

// WaitForSnapshotCmd blocks until the controller publishes a snapshot
func WaitForSnapshotCmd(obs *ChannelObserver) tea.Cmd {
	return func() tea.Msg {
		return SnapshotMsg{Snapshot: <-obs.snapshots}
	}
}

// WaitForRefreshCmd blocks until a post-scan refresh finishes
func WaitForRefreshCmd(obs *ChannelObserver) tea.Cmd {
	return func() tea.Msg {
		return <-obs.data
	}
}

// StartFullScanCmd asks the controller for a full scan. Progress arrives
// through the observer; only a rejection produces a message.
func StartFullScanCmd(ctx context.Context, scanner Scanner) tea.Cmd {
	return func() tea.Msg {
		if err := scanner.StartFullScan(ctx, nil); err != nil {
			return ScanStartFailedMsg{Err: err}
		}
		return nil
	}
}

// StartTargetScanCmd asks the controller for a scan of one company
func StartTargetScanCmd(ctx context.Context, scanner Scanner, companyID string) tea.Cmd {
	return func() tea.Msg {
		if err := scanner.StartTargetScan(ctx, companyID, nil); err != nil {
			return ScanStartFailedMsg{Err: err}
		}
		return nil
	}
}

// CancelScanCmd cancels the running scan
func CancelScanCmd(scanner Scanner) tea.Cmd {
	return func() tea.Msg {
		scanner.Cancel()
		return nil
	}
}

// ClearStatusCmd clears the status message after a delay
func ClearStatusCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
