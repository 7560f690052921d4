package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/docketwatch/internal/domain"
	bolt "go.etcd.io/bbolt"
)

// MaxScanHistory bounds how many finished scans are kept
const MaxScanHistory = 50

// Bucket names
var (
	bucketLawsuits = []byte("lawsuits")
	bucketStats    = []byte("stats")
	bucketScans    = []byte("scans")

	allBuckets = [][]byte{bucketLawsuits, bucketStats, bucketScans}
)

const (
	keyStats      = "counters"
	keyScanStatus = "status"
	keyHistory    = "history"
)

// CaseStore implements domain.Store using BoltDB.
type CaseStore struct {
	db *bolt.DB
	mu sync.RWMutex // Protects memory cache

	// histMu serializes read-modify-write of the scan history
	histMu sync.Mutex

	// In-memory cache for hot-path reads (promoted on access)
	cache map[string][]byte
}

var _ domain.Store = (*CaseStore)(nil)

// NewCaseStore opens the cache for serverURL under baseCacheDir. An empty
// baseCacheDir keeps everything in memory.
func NewCaseStore(baseCacheDir, serverURL string) (*CaseStore, error) {
	if baseCacheDir == "" {
		// Memory-only mode (no persistence)
		return &CaseStore{cache: make(map[string][]byte)}, nil
	}

	dir := baseCacheDir
	if serverURL != "" {
		dir = filepath.Join(baseCacheDir, hashServerURL(serverURL))
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dir, "docketwatch.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range allBuckets {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &CaseStore{db: db, cache: make(map[string][]byte)}, nil
}

func hashServerURL(serverURL string) string {
	normalized := strings.TrimRight(strings.ToLower(serverURL), "/")
	hash := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(hash[:6])
}

func (s *CaseStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// === Generic helpers ===

func (s *CaseStore) get(bucket []byte, key string, dest interface{}) bool {
	cacheKey := string(bucket) + ":" + key

	// Check memory cache first
	s.mu.RLock()
	if data, ok := s.cache[cacheKey]; ok {
		s.mu.RUnlock()
		return json.Unmarshal(data, dest) == nil
	}
	s.mu.RUnlock()

	if s.db == nil {
		return false
	}

	var data []byte
	s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})

	if data == nil {
		return false
	}

	// Promote to memory cache
	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	return json.Unmarshal(data, dest) == nil
}

func (s *CaseStore) set(bucket []byte, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	cacheKey := string(bucket) + ":" + key

	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	if s.db == nil {
		return nil // Memory-only mode
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		return b.Put([]byte(key), data)
	})
}

// === Listings (key: filter key, e.g. "recent:high") ===

func (s *CaseStore) GetLawsuits(filterKey string) ([]domain.Lawsuit, bool) {
	var cases []domain.Lawsuit
	ok := s.get(bucketLawsuits, filterKey, &cases)
	return cases, ok
}

func (s *CaseStore) SaveLawsuits(filterKey string, cases []domain.Lawsuit) error {
	if cases == nil {
		cases = []domain.Lawsuit{}
	}
	return s.set(bucketLawsuits, filterKey, cases)
}

// === Counters ===

func (s *CaseStore) GetStats() (domain.Stats, bool) {
	var stats domain.Stats
	ok := s.get(bucketStats, keyStats, &stats)
	return stats, ok
}

func (s *CaseStore) SaveStats(stats domain.Stats) error {
	return s.set(bucketStats, keyStats, stats)
}

func (s *CaseStore) GetScanStatus() (domain.ScanStatus, bool) {
	var status domain.ScanStatus
	ok := s.get(bucketStats, keyScanStatus, &status)
	return status, ok
}

func (s *CaseStore) SaveScanStatus(status domain.ScanStatus) error {
	return s.set(bucketStats, keyScanStatus, status)
}

// === Scan history (oldest first) ===

// AppendScanRecord adds rec to the history, dropping the oldest entries
// beyond MaxScanHistory.
func (s *CaseStore) AppendScanRecord(rec domain.ScanRecord) error {
	s.histMu.Lock()
	defer s.histMu.Unlock()

	var history []domain.ScanRecord
	s.get(bucketScans, keyHistory, &history)
	history = append(history, rec)
	if len(history) > MaxScanHistory {
		history = history[len(history)-MaxScanHistory:]
	}
	return s.set(bucketScans, keyHistory, history)
}

func (s *CaseStore) ScanHistory() []domain.ScanRecord {
	var history []domain.ScanRecord
	s.get(bucketScans, keyHistory, &history)
	return history
}

// === Invalidation ===

// InvalidateAll drops cached listings and counters. Scan history survives
// because it is not derived from the backend.
func (s *CaseStore) InvalidateAll() {
	s.mu.Lock()
	for k := range s.cache {
		if !strings.HasPrefix(k, string(bucketScans)+":") {
			delete(s.cache, k)
		}
	}
	s.mu.Unlock()

	if s.db == nil {
		return
	}

	s.db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketLawsuits, bucketStats} {
			b := tx.Bucket(bucket)
			if b == nil {
				continue
			}
			var keys [][]byte
			b.ForEach(func(k, _ []byte) error {
				keys = append(keys, append([]byte(nil), k...))
				return nil
			})
			for _, k := range keys {
				if err := b.Delete(k); err != nil {
					return err
				}
			}
		}
		return nil
	})
}
