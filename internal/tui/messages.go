package tui

import (
	"github.com/mmcdole/docketwatch/internal/dashboard"
	"github.com/mmcdole/docketwatch/internal/scan"
)

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// DataLoadedMsg carries a dashboard refresh. Err is set when any part
// failed; the parts that loaded are still present.
type DataLoadedMsg struct {
	Data dashboard.Data
	Err  error

	// AfterScan marks the refresh the controller runs after a completed scan
	AfterScan bool
}

// SnapshotMsg carries a scan progress update from the controller
type SnapshotMsg struct {
	Snapshot scan.Snapshot
}

// ScanStartFailedMsg reports a scan that was rejected before any request
type ScanStartFailedMsg struct {
	Err error
}

// ClearStatusMsg signals that the status message should be cleared
type ClearStatusMsg struct{}

// StatusMsg sets a temporary status message
type StatusMsg struct {
	Message string
	IsError bool
}
