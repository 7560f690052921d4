package scan

import (
	"fmt"
	"time"

	"github.com/mmcdole/docketwatch/internal/domain"
)

// Phase is the position of a session in the progress state machine
type Phase string

const (
	PhaseIdle           Phase = "idle"
	PhaseInitializing   Phase = "initializing"
	PhaseStarted        Phase = "started"
	PhaseSearching      Phase = "searching"
	PhaseTargetComplete Phase = "targetComplete"
	PhaseSaving         Phase = "saving"
	PhaseCompleted      Phase = "completed"
	PhaseError          Phase = "error"
)

// Terminal reports whether the phase ends a session
func (p Phase) Terminal() bool {
	return p == PhaseCompleted || p == PhaseError
}

// ErrorKind says why a snapshot is in PhaseError
type ErrorKind string

const (
	ErrorNone      ErrorKind = ""
	ErrorTransport ErrorKind = "transport" // request failed or the stream broke
	ErrorDecode    ErrorKind = "decode"    // a marked line could not be understood
	ErrorReported  ErrorKind = "reported"  // the server sent an error event
	ErrorCancelled ErrorKind = "cancelled" // the caller cancelled
)

// Message prefixes that distinguish failure sources in the UI
const (
	reportedPrefix   = "server-reported error: "
	unreadablePrefix = "could not read stream: "
)

// Target identifies the company currently being searched
type Target struct {
	ID    string
	Label string
}

// Snapshot is the externally visible progress of a scan session.
// Values are copies; mutating one never affects the controller.
type Snapshot struct {
	SessionID string
	Kind      domain.ScanKind
	CompanyID string // set for target scans

	Phase         Phase
	CurrentTarget *Target
	Progress      int
	Total         int
	Percentage    int
	CasesFound    int
	Message       string
	ErrorKind     ErrorKind

	StartedAt time.Time
	UpdatedAt time.Time

	// Version increases on every change within a controller's lifetime
	Version uint64
}

// IdleSnapshot is the state before any scan has run
func IdleSnapshot() Snapshot {
	return Snapshot{Phase: PhaseIdle}
}

// Active reports whether the snapshot belongs to an unfinished session
func (s Snapshot) Active() bool {
	return s.Phase != PhaseIdle && !s.Phase.Terminal()
}

// Record converts a finished snapshot into its persisted form
func (s Snapshot) Record() domain.ScanRecord {
	return domain.ScanRecord{
		SessionID:  s.SessionID,
		Kind:       s.Kind,
		CompanyID:  s.CompanyID,
		Phase:      string(s.Phase),
		CasesFound: s.CasesFound,
		Message:    s.Message,
		StartedAt:  s.StartedAt.Unix(),
		FinishedAt: s.UpdatedAt.Unix(),
	}
}

// Apply folds one event into the snapshot and reports whether it changed.
// Events arriving after a terminal phase are ignored.
func (s *Snapshot) Apply(ev Event) bool {
	if s.Phase.Terminal() {
		return false
	}

	switch e := ev.(type) {
	case Started:
		s.Phase = PhaseStarted
		s.Total = intOr(e.TotalTargets, 0)
		s.Progress = 0
		s.Percentage = 0
		s.CasesFound = 0
		s.CurrentTarget = nil
		s.Message = e.Message
		if s.Message == "" {
			s.Message = fmt.Sprintf("Scan started: %d targets", s.Total)
		}

	case TargetSearching:
		s.Phase = PhaseSearching
		s.CurrentTarget = nil
		if e.TargetID != "" || e.TargetLabel != "" {
			s.CurrentTarget = &Target{ID: e.TargetID, Label: e.TargetLabel}
		}
		if e.Total != nil {
			s.Total = max(*e.Total, 0)
		}
		if e.Index != nil {
			idx := max(*e.Index, 0)
			// Without a total on the event the server's index is authoritative.
			if e.Total == nil && idx > s.Total {
				s.Total = idx
			}
			s.Progress = min(idx, s.Total)
		}
		if e.Percent != nil {
			s.Percentage = clamp(*e.Percent, 0, 100)
		}
		s.Message = fmt.Sprintf("Searching %s (%d/%d)", s.targetLabel(), s.Progress, s.Total)

	case TargetComplete:
		s.Phase = PhaseTargetComplete
		// Accumulate: every target contributes to the same running total.
		delta := max(intOr(e.CasesFoundDelta, 0), 0)
		s.CasesFound += delta
		label := e.TargetLabel
		if label == "" {
			label = s.targetLabel()
		}
		s.Message = fmt.Sprintf("%s: %d cases found", label, delta)

	case Saving:
		s.Phase = PhaseSaving
		s.Message = e.Message
		if s.Message == "" {
			s.Message = "Saving results"
		}

	case Completed:
		s.Phase = PhaseCompleted
		s.Percentage = 100
		s.CurrentTarget = nil
		// Overwrite: the server's final count supersedes the accumulator.
		if e.TotalCasesFound != nil {
			s.CasesFound = max(*e.TotalCasesFound, 0)
		}
		s.Message = e.Message
		if s.Message == "" {
			s.Message = fmt.Sprintf("Scan complete: %d cases found", s.CasesFound)
		}

	case Failed:
		msg := e.Message
		if msg == "" {
			msg = "scan failed"
		}
		s.fail(ErrorReported, reportedPrefix+msg)

	default:
		panic(fmt.Sprintf("scan: unhandled event type %T", ev))
	}
	return true
}

// fail moves the snapshot to PhaseError and clears progress fields.
// The session identity, CasesFound and the failure message are kept.
func (s *Snapshot) fail(kind ErrorKind, msg string) {
	s.Phase = PhaseError
	s.ErrorKind = kind
	s.Message = msg
	s.CurrentTarget = nil
	s.Progress = 0
	s.Total = 0
	s.Percentage = 0
}

func (s *Snapshot) targetLabel() string {
	if s.CurrentTarget == nil {
		return "target"
	}
	if s.CurrentTarget.Label != "" {
		return s.CurrentTarget.Label
	}
	if s.CurrentTarget.ID != "" {
		return s.CurrentTarget.ID
	}
	return "target"
}

func intOr(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
