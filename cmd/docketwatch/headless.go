package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mmcdole/docketwatch/internal/backend"
	"github.com/mmcdole/docketwatch/internal/config"
	"github.com/mmcdole/docketwatch/internal/dashboard"
	"github.com/mmcdole/docketwatch/internal/domain"
	"github.com/mmcdole/docketwatch/internal/scan"
)

// progressPrinter writes one line per visible change in a scan snapshot
type progressPrinter struct {
	w    io.Writer
	last string
}

func (p *progressPrinter) print(s scan.Snapshot) {
	line := formatSnapshot(s)
	if line == p.last {
		return
	}
	p.last = line
	fmt.Fprintln(p.w, line)
}

// formatSnapshot renders a snapshot as a single progress line
func formatSnapshot(s scan.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%3d%%] %-14s", s.Percentage, s.Phase)
	if s.CurrentTarget != nil {
		label := s.CurrentTarget.Label
		if label == "" {
			label = s.CurrentTarget.ID
		}
		if s.Total > 0 {
			fmt.Fprintf(&b, " %s (%d/%d)", label, s.Progress, s.Total)
		} else {
			fmt.Fprintf(&b, " %s", label)
		}
	}
	fmt.Fprintf(&b, " cases=%d", s.CasesFound)
	if s.Message != "" {
		fmt.Fprintf(&b, " %s", s.Message)
	}
	return b.String()
}

func runHeadless(
	ctx context.Context,
	cfg *config.Config,
	opts options,
	dateRange *scan.DateRange,
	client *backend.Client,
	dash *dashboard.Service,
	scanOpts scan.Options,
	logger *slog.Logger,
) error {
	printer := &progressPrinter{w: os.Stdout}
	scanOpts.Observer = printer.print
	scanOpts.Refresh = func(ctx context.Context) {
		if _, err := dash.RefreshCurrent(ctx); err != nil {
			logger.Warn("post-scan refresh failed", "error", err)
		}
	}
	ctrl := scan.NewController(client, scanOpts)

	// Interrupts cancel the session rather than abandoning it
	stop := context.AfterFunc(ctx, ctrl.Cancel)
	defer stop()

	switch {
	case opts.scanKind != "":
		return runOneScan(ctx, ctrl, opts, dateRange)
	case opts.watch:
		sched, err := startSchedule(ctx, cfg, ctrl, logger)
		if err != nil {
			return err
		}
		fmt.Printf("Watching: full scan on %q. Ctrl-C to stop.\n", cfg.Scan.Schedule)
		<-ctx.Done()
		sched.Stop()
		ctrl.Wait()
		return nil
	default:
		return printDashboard(ctx, dash, os.Stdout)
	}
}

func runOneScan(ctx context.Context, ctrl *scan.Controller, opts options, dateRange *scan.DateRange) error {
	var err error
	switch domain.ScanKind(opts.scanKind) {
	case domain.ScanFull:
		err = ctrl.StartFullScan(ctx, dateRange)
	case domain.ScanTarget:
		err = ctrl.StartTargetScan(ctx, opts.company, dateRange)
	default:
		return fmt.Errorf("unknown -scan %q (want full or target)", opts.scanKind)
	}
	if err != nil {
		return err
	}

	ctrl.Wait()
	if ctrl.Snapshot().Phase == scan.PhaseError {
		return errScanFailed
	}
	return nil
}

// printDashboard writes the counters and the current listing as plain text
func printDashboard(ctx context.Context, dash *dashboard.Service, w io.Writer) error {
	data, err := dash.RefreshCurrent(ctx)
	if err != nil && data.Listing.Cases == nil {
		return err
	}

	s := data.Stats
	fmt.Fprintf(w, "Total: %d  High priority: %d  Last 7 days: %d  Last 30 days: %d\n",
		s.Total, s.HighPriority, s.LastWeek, s.LastMonth)
	fmt.Fprintf(w, "Last scan: %s\n", domain.FormatDate(data.ScanStatus.LastScan))
	if data.FromCache {
		fmt.Fprintln(w, "(offline: showing cached data)")
	}
	fmt.Fprintf(w, "\n%s, priority %s\n", data.Listing.Filter.View.Label(), data.Listing.Filter.Priority)

	for _, c := range data.Listing.Cases {
		fmt.Fprintf(w, "%-6s %-12s %s: %s\n", strings.ToUpper(string(c.Priority)), c.FormattedDateFiled(), c.CompanyName, c.CaseName)
	}
	if len(data.Listing.Cases) == 0 {
		fmt.Fprintln(w, "No cases found.")
	}
	return err
}
