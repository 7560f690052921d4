package domain

// Store handles local cache (BoltDB + memory).
// The dashboard falls back to it when the backend is unreachable.
type Store interface {
	// === Listings ===
	GetLawsuits(filterKey string) ([]Lawsuit, bool)
	SaveLawsuits(filterKey string, cases []Lawsuit) error

	// === Counters ===
	GetStats() (Stats, bool)
	SaveStats(stats Stats) error

	GetScanStatus() (ScanStatus, bool)
	SaveScanStatus(status ScanStatus) error

	// === Scan history ===
	AppendScanRecord(rec ScanRecord) error
	ScanHistory() []ScanRecord

	// === Invalidation ===
	InvalidateAll()

	Close() error
}
