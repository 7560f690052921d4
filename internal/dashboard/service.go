package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/mmcdole/docketwatch/internal/domain"
	"golang.org/x/sync/errgroup"
)

// Listing is one page of the case list
type Listing struct {
	Filter    domain.Filter
	Cases     []domain.Lawsuit
	FromCache bool
}

// Data is everything the dashboard renders apart from scan progress
type Data struct {
	Listing    Listing
	Stats      domain.Stats
	ScanStatus domain.ScanStatus

	// FromCache is set when any part was served from the offline cache
	FromCache bool
}

// Service orchestrates tracker client + store operations.
type Service struct {
	client domain.CaseClient
	store  domain.Store
	logger *slog.Logger

	mu     sync.Mutex
	filter domain.Filter
}

// NewService creates a new dashboard service showing the default filter.
func NewService(client domain.CaseClient, store domain.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{client: client, store: store, logger: logger, filter: domain.DefaultFilter()}
}

// Filter returns the listing filter the dashboard currently shows
func (s *Service) Filter() domain.Filter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

// SetFilter changes the listing filter used by RefreshCurrent
func (s *Service) SetFilter(f domain.Filter) {
	s.mu.Lock()
	s.filter = f
	s.mu.Unlock()
}

// offline reports whether err allows serving cached data
func offline(err error) bool {
	return errors.Is(err, domain.ErrServerOffline)
}

// FetchData loads the case list for f, falling back to the cache when the
// tracker is unreachable.
func (s *Service) FetchData(ctx context.Context, f domain.Filter) (Listing, error) {
	var (
		cases []domain.Lawsuit
		err   error
	)
	if f.View == domain.ViewAll {
		cases, err = s.client.GetLawsuits(ctx, f.Priority)
	} else {
		cases, err = s.client.GetRecentLawsuits(ctx, f.Priority)
	}
	if err != nil {
		if offline(err) {
			if cached, ok := s.store.GetLawsuits(f.Key()); ok {
				s.logger.Warn("serving cached cases", "filter", f.Key(), "count", len(cached))
				return Listing{Filter: f, Cases: cached, FromCache: true}, nil
			}
		}
		s.logger.Error("failed to fetch cases", "error", err, "filter", f.Key())
		return Listing{}, err
	}

	if err := s.store.SaveLawsuits(f.Key(), cases); err != nil {
		s.logger.Error("failed to save cases", "error", err, "filter", f.Key())
	}
	s.logger.Debug("fetched cases", "count", len(cases), "filter", f.Key())
	return Listing{Filter: f, Cases: cases}, nil
}

// FetchStats loads the header counters. The bool reports a cache hit.
func (s *Service) FetchStats(ctx context.Context) (domain.Stats, bool, error) {
	stats, err := s.client.GetStats(ctx)
	if err != nil {
		if offline(err) {
			if cached, ok := s.store.GetStats(); ok {
				return cached, true, nil
			}
		}
		s.logger.Error("failed to fetch stats", "error", err)
		return domain.Stats{}, false, err
	}
	if err := s.store.SaveStats(stats); err != nil {
		s.logger.Error("failed to save stats", "error", err)
	}
	return stats, false, nil
}

// FetchScanStatus loads the backend's last scan time. The bool reports a cache hit.
func (s *Service) FetchScanStatus(ctx context.Context) (domain.ScanStatus, bool, error) {
	status, err := s.client.GetScanStatus(ctx)
	if err != nil {
		if offline(err) {
			if cached, ok := s.store.GetScanStatus(); ok {
				return cached, true, nil
			}
		}
		s.logger.Error("failed to fetch scan status", "error", err)
		return domain.ScanStatus{}, false, err
	}
	if err := s.store.SaveScanStatus(status); err != nil {
		s.logger.Error("failed to save scan status", "error", err)
	}
	return status, false, nil
}

// Refresh reloads the listing, counters and scan status concurrently.
// Parts that loaded are returned alongside the first error.
func (s *Service) Refresh(ctx context.Context, f domain.Filter) (Data, error) {
	var (
		g      errgroup.Group
		data   Data
		cached [3]bool
	)

	g.Go(func() error {
		listing, err := s.FetchData(ctx, f)
		if err != nil {
			return err
		}
		data.Listing = listing
		cached[0] = listing.FromCache
		return nil
	})
	g.Go(func() error {
		stats, fromCache, err := s.FetchStats(ctx)
		if err != nil {
			return err
		}
		data.Stats = stats
		cached[1] = fromCache
		return nil
	})
	g.Go(func() error {
		status, fromCache, err := s.FetchScanStatus(ctx)
		if err != nil {
			return err
		}
		data.ScanStatus = status
		cached[2] = fromCache
		return nil
	})

	err := g.Wait()
	data.FromCache = cached[0] || cached[1] || cached[2]
	if data.Listing.Filter == (domain.Filter{}) {
		data.Listing.Filter = f
	}
	return data, err
}

// RefreshCurrent refreshes using the current filter
func (s *Service) RefreshCurrent(ctx context.Context) (Data, error) {
	return s.Refresh(ctx, s.Filter())
}

// RecordScan stores a finished scan's outcome in the history
func (s *Service) RecordScan(rec domain.ScanRecord) {
	if err := s.store.AppendScanRecord(rec); err != nil {
		s.logger.Error("failed to record scan", "error", err, "session", rec.SessionID)
		return
	}
	s.logger.Debug("recorded scan", "session", rec.SessionID, "phase", rec.Phase, "casesFound", rec.CasesFound)
}

// History returns finished scans, oldest first
func (s *Service) History() []domain.ScanRecord {
	return s.store.ScanHistory()
}
