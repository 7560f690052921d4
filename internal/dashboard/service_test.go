package dashboard

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/mmcdole/docketwatch/internal/domain"
	"github.com/mmcdole/docketwatch/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	mu     sync.Mutex
	err    error
	recent []domain.Lawsuit
	all    []domain.Lawsuit
	stats  domain.Stats
	status domain.ScanStatus
	calls  []string
}

func (f *fakeClient) record(call string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
	return f.err
}

func (f *fakeClient) GetRecentLawsuits(ctx context.Context, p domain.Priority) ([]domain.Lawsuit, error) {
	if err := f.record("recent:" + string(p)); err != nil {
		return nil, err
	}
	return f.recent, nil
}

func (f *fakeClient) GetLawsuits(ctx context.Context, p domain.Priority) ([]domain.Lawsuit, error) {
	if err := f.record("all:" + string(p)); err != nil {
		return nil, err
	}
	return f.all, nil
}

func (f *fakeClient) GetStats(ctx context.Context) (domain.Stats, error) {
	if err := f.record("stats"); err != nil {
		return domain.Stats{}, err
	}
	return f.stats, nil
}

func (f *fakeClient) GetScanStatus(ctx context.Context) (domain.ScanStatus, error) {
	if err := f.record("status"); err != nil {
		return domain.ScanStatus{}, err
	}
	return f.status, nil
}

func newService(t *testing.T, client *fakeClient) (*Service, domain.Store) {
	t.Helper()
	st, err := store.NewCaseStore("", "")
	require.NoError(t, err)
	return NewService(client, st, nil), st
}

func TestFetchDataChoosesEndpoint(t *testing.T) {
	client := &fakeClient{
		recent: []domain.Lawsuit{{ID: "r1"}},
		all:    []domain.Lawsuit{{ID: "a1"}, {ID: "a2"}},
	}
	svc, st := newService(t, client)

	listing, err := svc.FetchData(context.Background(), domain.Filter{View: domain.ViewRecent, Priority: domain.PriorityHigh})
	require.NoError(t, err)
	assert.Len(t, listing.Cases, 1)
	assert.False(t, listing.FromCache)

	listing, err = svc.FetchData(context.Background(), domain.Filter{View: domain.ViewAll, Priority: domain.PriorityAll})
	require.NoError(t, err)
	assert.Len(t, listing.Cases, 2)

	assert.Equal(t, []string{"recent:high", "all:all"}, client.calls)

	cached, ok := st.GetLawsuits("recent:high")
	require.True(t, ok)
	assert.Equal(t, "r1", cached[0].ID)
}

func TestOfflineFallsBackToCache(t *testing.T) {
	client := &fakeClient{
		recent: []domain.Lawsuit{{ID: "r1"}},
		stats:  domain.Stats{Total: 7},
		status: domain.ScanStatus{LastScan: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
	}
	svc, _ := newService(t, client)
	f := domain.DefaultFilter()

	_, err := svc.Refresh(context.Background(), f)
	require.NoError(t, err)

	client.err = domain.ErrServerOffline
	data, err := svc.Refresh(context.Background(), f)
	require.NoError(t, err)
	assert.True(t, data.FromCache)
	assert.True(t, data.Listing.FromCache)
	assert.Equal(t, "r1", data.Listing.Cases[0].ID)
	assert.Equal(t, 7, data.Stats.Total)
	assert.Equal(t, 2024, data.ScanStatus.LastScan.Year())
}

func TestOfflineWithoutCacheFails(t *testing.T) {
	svc, _ := newService(t, &fakeClient{err: domain.ErrServerOffline})

	_, err := svc.FetchData(context.Background(), domain.DefaultFilter())
	require.ErrorIs(t, err, domain.ErrServerOffline)

	_, _, err = svc.FetchStats(context.Background())
	require.ErrorIs(t, err, domain.ErrServerOffline)
}

func TestAuthFailureDoesNotUseCache(t *testing.T) {
	client := &fakeClient{stats: domain.Stats{Total: 1}}
	svc, _ := newService(t, client)

	_, _, err := svc.FetchStats(context.Background())
	require.NoError(t, err)

	client.err = domain.ErrAuthFailed
	_, _, err = svc.FetchStats(context.Background())
	require.ErrorIs(t, err, domain.ErrAuthFailed)
}

func TestRefreshReturnsFirstError(t *testing.T) {
	boom := errors.New("boom")
	svc, _ := newService(t, &fakeClient{err: boom})

	data, err := svc.Refresh(context.Background(), domain.DefaultFilter())
	require.ErrorIs(t, err, boom)
	assert.Equal(t, domain.DefaultFilter(), data.Listing.Filter)
	assert.False(t, data.FromCache)
}

func TestRefreshCurrentUsesFilter(t *testing.T) {
	client := &fakeClient{}
	svc, _ := newService(t, client)

	assert.Equal(t, domain.DefaultFilter(), svc.Filter())
	svc.SetFilter(domain.Filter{View: domain.ViewAll, Priority: domain.PriorityLow})

	data, err := svc.RefreshCurrent(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.ViewAll, data.Listing.Filter.View)
	assert.Contains(t, client.calls, "all:low")
}

func TestRecordScan(t *testing.T) {
	svc, _ := newService(t, &fakeClient{})

	svc.RecordScan(domain.ScanRecord{SessionID: "a", Phase: "completed", CasesFound: 3})
	svc.RecordScan(domain.ScanRecord{SessionID: "b", Phase: "error"})

	history := svc.History()
	require.Len(t, history, 2)
	assert.Equal(t, "a", history[0].SessionID)
	assert.Equal(t, "error", history[1].Phase)
}
