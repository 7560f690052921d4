package domain

import (
	"context"
	"io"
)

// CaseClient reads the tracker's static listings and counters.
type CaseClient interface {
	// GetRecentLawsuits returns cases filed in the last week
	GetRecentLawsuits(ctx context.Context, priority Priority) ([]Lawsuit, error)

	// GetLawsuits returns every tracked case
	GetLawsuits(ctx context.Context, priority Priority) ([]Lawsuit, error)

	// GetStats returns the aggregate counters
	GetStats(ctx context.Context) (Stats, error)

	// GetScanStatus returns when the backend last scanned
	GetScanStatus(ctx context.Context) (ScanStatus, error)
}

// ScanStreamer opens the chunked progress stream of a backend scan job.
// The caller owns the returned body and must close it.
type ScanStreamer interface {
	OpenScanStream(ctx context.Context, req ScanRequest) (io.ReadCloser, error)
}
