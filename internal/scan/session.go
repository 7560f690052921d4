package scan

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/mmcdole/docketwatch/internal/domain"
)

const (
	// DefaultSettleDelay keeps the final state on screen before refreshing
	DefaultSettleDelay = 2 * time.Second

	readBufferSize = 4096
)

// Observer receives every new snapshot. Calls are serialized and arrive in
// version order; the observer must not block for long. It may call back into
// the Controller: snapshots produced during the call are delivered after it
// returns.
type Observer func(Snapshot)

// Options configures a Controller. Zero values select the defaults.
type Options struct {
	FullHoursBack   int
	TargetHoursBack int
	SettleDelay     time.Duration

	// Observer is pushed every snapshot change
	Observer Observer

	// Refresh runs after a completed scan's settle delay, before the session
	// is released
	Refresh func(ctx context.Context)

	// Finished is called once per session with its terminal snapshot
	Finished func(Snapshot)

	// Diagnostics receives lines that were skipped because their status tag
	// was not recognized. Nil ignores them silently.
	Diagnostics func(line string, err error)

	Logger *slog.Logger
	Now    func() time.Time
}

// session is one in-flight scan
type session struct {
	id        string
	cancel    context.CancelFunc
	cancelled atomic.Bool
	done      chan struct{}
}

// Controller runs at most one scan session at a time and owns its snapshot.
type Controller struct {
	streamer domain.ScanStreamer
	opts     Options
	logger   *slog.Logger

	mu   sync.Mutex
	snap Snapshot
	sess *session

	notifyMu   sync.Mutex
	delivered  uint64
	pending    *Snapshot
	delivering bool
}

// NewController creates a controller in the idle state
func NewController(streamer domain.ScanStreamer, opts Options) *Controller {
	if opts.FullHoursBack <= 0 {
		opts.FullHoursBack = DefaultFullHoursBack
	}
	if opts.TargetHoursBack <= 0 {
		opts.TargetHoursBack = DefaultTargetHoursBack
	}
	if opts.SettleDelay < 0 {
		opts.SettleDelay = 0
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		streamer: streamer,
		opts:     opts,
		logger:   logger,
		snap:     IdleSnapshot(),
	}
}

// Snapshot returns a copy of the current state
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snap
}

// Active reports whether a session is running
func (c *Controller) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sess != nil
}

// StartFullScan begins a fleet-wide scan. With a nil range the backend
// searches the configured default window.
func (c *Controller) StartFullScan(ctx context.Context, r *DateRange) error {
	hours, err := HoursBack(r, c.opts.FullHoursBack)
	if err != nil {
		return err
	}
	return c.start(ctx, domain.ScanRequest{Kind: domain.ScanFull, HoursBack: hours})
}

// StartTargetScan begins a scan of one company. The id must not be blank.
func (c *Controller) StartTargetScan(ctx context.Context, companyID string, r *DateRange) error {
	companyID = strings.TrimSpace(companyID)
	if companyID == "" {
		return ErrTargetRequired
	}
	hours, err := HoursBack(r, c.opts.TargetHoursBack)
	if err != nil {
		return err
	}
	return c.start(ctx, domain.ScanRequest{Kind: domain.ScanTarget, HoursBack: hours, CompanyID: companyID})
}

// Cancel stops the active session. Its snapshot moves to PhaseError unless it
// already reached a terminal phase. No further events are applied.
func (c *Controller) Cancel() {
	c.mu.Lock()
	s := c.sess
	if s == nil {
		c.mu.Unlock()
		return
	}
	s.cancelled.Store(true)
	changed := false
	if !c.snap.Phase.Terminal() {
		c.snap.fail(ErrorCancelled, "scan cancelled")
		c.touch()
		changed = true
	}
	snap := c.snap
	c.mu.Unlock()

	s.cancel()
	c.logger.Info("scan cancelled", "session", s.id)
	if changed {
		c.notify(snap)
	}
}

// Wait blocks until the active session, if any, has ended
func (c *Controller) Wait() {
	c.mu.Lock()
	s := c.sess
	c.mu.Unlock()
	if s != nil {
		<-s.done
	}
}

func (c *Controller) start(ctx context.Context, req domain.ScanRequest) error {
	c.mu.Lock()
	if c.sess != nil {
		c.mu.Unlock()
		return ErrSessionActive
	}

	sctx, cancel := context.WithCancel(ctx)
	s := &session{id: uuid.NewString(), cancel: cancel, done: make(chan struct{})}
	c.sess = s

	now := c.opts.Now()
	version := c.snap.Version
	c.snap = Snapshot{
		SessionID: s.id,
		Kind:      req.Kind,
		CompanyID: req.CompanyID,
		Phase:     PhaseInitializing,
		Message:   initMessage(req),
		StartedAt: now,
		UpdatedAt: now,
		Version:   version + 1,
	}
	snap := c.snap
	c.mu.Unlock()

	c.logger.Info("scan started", "session", s.id, "kind", req.Kind, "hoursBack", req.HoursBack, "company", req.CompanyID)
	c.notify(snap)

	go c.run(sctx, s, req)
	return nil
}

func initMessage(req domain.ScanRequest) string {
	if req.Kind == domain.ScanTarget {
		return fmt.Sprintf("Starting scan of %s (last %d hours)", req.CompanyID, req.HoursBack)
	}
	return fmt.Sprintf("Starting full scan (last %d hours)", req.HoursBack)
}

// run is the consumption loop. It is the only writer of the snapshot while
// the session is active, apart from Cancel.
func (c *Controller) run(ctx context.Context, s *session, req domain.ScanRequest) {
	defer c.finish(s)

	body, err := c.streamer.OpenScanStream(ctx, req)
	if err != nil {
		c.fail(s, ErrorTransport, unreadablePrefix+err.Error())
		return
	}
	defer body.Close()

	// Closing the body unblocks a pending Read when the session is cancelled.
	stop := context.AfterFunc(ctx, func() { body.Close() })
	defer stop()

	dec := NewFrameDecoder()
	buf := make([]byte, readBufferSize)
	for {
		n, rerr := body.Read(buf)
		if n > 0 {
			for _, line := range dec.Feed(buf[:n]) {
				if s.cancelled.Load() {
					return
				}
				done := c.handleLine(ctx, s, line)
				if done {
					return
				}
			}
		}
		if rerr != nil {
			// The unterminated tail is never parsed as a partial event.
			if pending := dec.Pending(); pending != "" {
				c.logger.Debug("discarding partial frame", "session", s.id, "bytes", len(pending))
			}
			switch {
			case s.cancelled.Load():
			case errors.Is(rerr, io.EOF):
				c.fail(s, ErrorTransport, unreadablePrefix+"stream ended before completion")
			default:
				c.fail(s, ErrorTransport, unreadablePrefix+rerr.Error())
			}
			return
		}
	}
}

// handleLine parses and folds one line. It returns true when the session is over.
func (c *Controller) handleLine(ctx context.Context, s *session, line string) bool {
	ev, err := ParseLine(line)
	if err != nil {
		if errors.Is(err, ErrUnknownStatus) {
			c.logger.Debug("ignoring event", "session", s.id, "error", err)
			if c.opts.Diagnostics != nil {
				c.opts.Diagnostics(line, err)
			}
			return false
		}
		c.fail(s, ErrorDecode, unreadablePrefix+err.Error())
		return true
	}
	if ev == nil {
		return false
	}

	c.mu.Lock()
	if s.cancelled.Load() {
		c.mu.Unlock()
		return true
	}
	changed := c.snap.Apply(ev)
	if changed {
		c.touch()
	}
	snap := c.snap
	c.mu.Unlock()

	if changed {
		c.notify(snap)
	}

	switch ev.(type) {
	case Completed:
		c.logger.Info("scan completed", "session", s.id, "casesFound", snap.CasesFound)
		c.settle(ctx, s)
		return true
	case Failed:
		c.logger.Warn("scan failed", "session", s.id, "message", snap.Message)
		return true
	}
	return false
}

// settle holds the completed state for the settle delay, then refreshes
// collaborator data. Cancellation skips the refresh.
func (c *Controller) settle(ctx context.Context, s *session) {
	if c.opts.SettleDelay > 0 {
		timer := time.NewTimer(c.opts.SettleDelay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return
		}
	}
	if c.opts.Refresh != nil && !s.cancelled.Load() {
		c.opts.Refresh(ctx)
	}
}

// fail moves an unfinished session to PhaseError. A cancelled session keeps
// its cancellation snapshot.
func (c *Controller) fail(s *session, kind ErrorKind, msg string) {
	c.mu.Lock()
	if s.cancelled.Load() || c.snap.Phase.Terminal() {
		c.mu.Unlock()
		return
	}
	c.snap.fail(kind, msg)
	c.touch()
	snap := c.snap
	c.mu.Unlock()

	c.logger.Error("scan failed", "session", s.id, "kind", kind, "message", msg)
	c.notify(snap)
}

// finish releases the session so a new one may start
func (c *Controller) finish(s *session) {
	c.mu.Lock()
	if c.sess == s {
		c.sess = nil
	}
	snap := c.snap
	c.mu.Unlock()

	s.cancel()
	if c.opts.Finished != nil {
		c.opts.Finished(snap)
	}
	close(s.done)
}

// touch stamps a mutation. Callers hold c.mu.
func (c *Controller) touch() {
	c.snap.UpdatedAt = c.opts.Now()
	c.snap.Version++
}

// notify delivers snap unless a newer snapshot was already delivered. The
// goroutine already delivering drains anything queued by others, so the
// observer is never called with notifyMu held.
func (c *Controller) notify(snap Snapshot) {
	if c.opts.Observer == nil {
		return
	}
	c.notifyMu.Lock()
	if snap.Version <= c.delivered || (c.pending != nil && snap.Version <= c.pending.Version) {
		c.notifyMu.Unlock()
		return
	}
	c.pending = &snap
	if c.delivering {
		c.notifyMu.Unlock()
		return
	}
	c.delivering = true
	for c.pending != nil {
		next := *c.pending
		c.pending = nil
		c.delivered = next.Version
		c.notifyMu.Unlock()

		c.opts.Observer(next)

		c.notifyMu.Lock()
	}
	c.delivering = false
	c.notifyMu.Unlock()
}
