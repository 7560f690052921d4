package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mmcdole/docketwatch/internal/scan"
	"github.com/robfig/cron/v3"
)

// Starter begins a full scan. *scan.Controller satisfies it.
type Starter interface {
	StartFullScan(ctx context.Context, r *scan.DateRange) error
}

// Scheduler starts a full scan on every tick of a cron schedule. Ticks that
// land while a session is still running are skipped.
type Scheduler struct {
	starter Starter
	spec    string
	logger  *slog.Logger
	parser  cron.Parser
	cron    *cron.Cron

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
}

// New parses spec (standard five-field cron or a descriptor like @hourly)
func New(spec string, starter Starter, logger *slog.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = slog.Default()
	}
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	if _, err := parser.Parse(spec); err != nil {
		return nil, fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	return &Scheduler{
		starter: starter,
		spec:    spec,
		logger:  logger,
		parser:  parser,
	}, nil
}

// Start begins firing scans. Cancelling ctx has the same effect as Stop.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cron = cron.New(cron.WithParser(s.parser))
	if _, err := s.cron.AddFunc(s.spec, func() { s.tick(ctx) }); err != nil {
		cancel()
		return err
	}
	s.cancel = cancel
	s.running = true
	s.cron.Start()
	s.logger.Info("scan schedule started", "schedule", s.spec)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()
	return nil
}

// Stop halts the schedule. A scan already started keeps running.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	cancel := s.cancel
	c := s.cron
	s.mu.Unlock()

	<-c.Stop().Done()
	cancel()
	s.logger.Info("scan schedule stopped")
}

// tick starts one scheduled scan
func (s *Scheduler) tick(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	err := s.starter.StartFullScan(ctx, nil)
	switch {
	case err == nil:
		s.logger.Info("scheduled scan started")
	case errors.Is(err, scan.ErrSessionActive):
		s.logger.Info("skipping scheduled scan, a session is active")
	default:
		s.logger.Error("scheduled scan failed to start", "error", err)
	}
}
