package tui

import (
	"context"
	"errors"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/docketwatch/internal/dashboard"
	"github.com/mmcdole/docketwatch/internal/domain"
	"github.com/mmcdole/docketwatch/internal/scan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDashboard struct {
	mu      sync.Mutex
	filters []domain.Filter
	data    dashboard.Data
	err     error
}

func (f *fakeDashboard) Refresh(ctx context.Context, filter domain.Filter) (dashboard.Data, error) {
	data := f.data
	data.Listing.Filter = filter
	return data, f.err
}

func (f *fakeDashboard) RefreshCurrent(ctx context.Context) (dashboard.Data, error) {
	f.mu.Lock()
	filter := domain.DefaultFilter()
	if len(f.filters) > 0 {
		filter = f.filters[len(f.filters)-1]
	}
	f.mu.Unlock()
	return f.Refresh(ctx, filter)
}

func (f *fakeDashboard) SetFilter(filter domain.Filter) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.filters = append(f.filters, filter)
}

type fakeScanner struct {
	snap      scan.Snapshot
	startErr  error
	full      int
	targets   []string
	cancelled int
}

func (f *fakeScanner) StartFullScan(ctx context.Context, r *scan.DateRange) error {
	f.full++
	return f.startErr
}

func (f *fakeScanner) StartTargetScan(ctx context.Context, id string, r *scan.DateRange) error {
	f.targets = append(f.targets, id)
	if id == "" {
		return scan.ErrTargetRequired
	}
	return f.startErr
}

func (f *fakeScanner) Cancel() { f.cancelled++ }

func (f *fakeScanner) Snapshot() scan.Snapshot { return f.snap }

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestModel(t *testing.T) (Model, *fakeDashboard, *fakeScanner) {
	t.Helper()
	dash := &fakeDashboard{data: dashboard.Data{
		Listing: dashboard.Listing{Cases: []domain.Lawsuit{
			{ID: "1", CompanyName: "Acme Games", CaseName: "Doe v. Acme", Priority: domain.PriorityHigh},
			{ID: "2", CompanyName: "Blip", CaseName: "Roe v. Blip", Priority: domain.PriorityLow},
		}},
		Stats: domain.Stats{Total: 2, HighPriority: 1},
	}}
	scanner := &fakeScanner{snap: scan.IdleSnapshot()}
	m := NewModel(context.Background(), dash, scanner, NewChannelObserver(dash), domain.DefaultFilter())
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return next.(Model), dash, scanner
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func load(t *testing.T, m Model, dash *fakeDashboard) Model {
	t.Helper()
	msg := LoadDataCmd(dash, m.Filter)()
	m, _ = update(t, m, msg)
	return m
}

func TestDataLoaded(t *testing.T) {
	m, dash, _ := newTestModel(t)
	assert.True(t, m.Loading)

	m = load(t, m, dash)
	assert.False(t, m.Loading)
	assert.Len(t, m.Cases, 2)
	assert.Equal(t, 2, m.CaseList.Len())
	assert.Equal(t, 1, m.Stats.HighPriority)
	assert.Contains(t, m.View(), "Doe v. Acme")
}

func TestStaleFilterDataIgnored(t *testing.T) {
	m, dash, _ := newTestModel(t)

	stale := LoadDataCmd(dash, m.Filter)()
	m, cmd := update(t, m, keyMsg("p"))
	require.NotNil(t, cmd)
	assert.Equal(t, domain.PriorityHigh, m.Filter.Priority)
	assert.Equal(t, m.Filter, dash.filters[len(dash.filters)-1])

	m, _ = update(t, m, stale)
	assert.True(t, m.Loading, "data for the old filter is dropped")
	assert.Empty(t, m.Cases)

	m = load(t, m, dash)
	assert.False(t, m.Loading)
	assert.Len(t, m.Cases, 2)
}

func TestLoadErrorKeepsCases(t *testing.T) {
	m, dash, _ := newTestModel(t)
	m = load(t, m, dash)

	dash.err = domain.ErrServerOffline
	dash.data = dashboard.Data{}
	m = load(t, m, dash)
	assert.Len(t, m.Cases, 2)
	assert.True(t, m.StatusIsErr)
	assert.Equal(t, "Tracker is unreachable", m.StatusMsg)
}

func TestViewToggle(t *testing.T) {
	m, _, _ := newTestModel(t)
	m, _ = update(t, m, keyMsg("v"))
	assert.Equal(t, domain.ViewAll, m.Filter.View)
	m, _ = update(t, m, keyMsg("v"))
	assert.Equal(t, domain.ViewRecent, m.Filter.View)
}

func TestFullScanKey(t *testing.T) {
	m, _, scanner := newTestModel(t)

	_, cmd := update(t, m, keyMsg("s"))
	require.NotNil(t, cmd)
	assert.Nil(t, cmd())
	assert.Equal(t, 1, scanner.full)

	scanner.startErr = scan.ErrSessionActive
	msg := cmd()
	m, _ = update(t, m, msg)
	assert.Equal(t, "A scan is already running", m.StatusMsg)
}

func TestTargetScanModal(t *testing.T) {
	m, dash, scanner := newTestModel(t)
	m = load(t, m, dash)

	m, _ = update(t, m, keyMsg("t"))
	assert.Equal(t, StateTargetInput, m.State)
	assert.True(t, m.InputModal.IsVisible())

	m, _ = update(t, m, keyMsg("acm"))
	assert.Equal(t, []string{"Acme Games"}, m.InputModal.Suggestions())

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, "Acme Games", m.InputModal.Value())

	m, cmd := update(t, m, keyMsg("enter"))
	assert.Equal(t, StateBrowsing, m.State)
	require.NotNil(t, cmd)
	assert.Nil(t, cmd())
	assert.Equal(t, []string{"Acme Games"}, scanner.targets)
}

func TestTargetScanEmptyRejected(t *testing.T) {
	m, _, scanner := newTestModel(t)

	m, _ = update(t, m, keyMsg("t"))
	m, cmd := update(t, m, keyMsg("enter"))
	msg := cmd()
	m, _ = update(t, m, msg)

	assert.Equal(t, []string{""}, scanner.targets)
	assert.Equal(t, "Enter a company to scan", m.StatusMsg)
	assert.True(t, m.StatusIsErr)
}

func TestTargetScanEscape(t *testing.T) {
	m, _, scanner := newTestModel(t)

	m, _ = update(t, m, keyMsg("t"))
	m, _ = update(t, m, keyMsg("esc"))
	assert.Equal(t, StateBrowsing, m.State)
	assert.Empty(t, scanner.targets)
}

func TestCancelKey(t *testing.T) {
	m, _, scanner := newTestModel(t)

	m, _ = update(t, m, keyMsg("x"))
	assert.Equal(t, "No scan running", m.StatusMsg)
	assert.Equal(t, 0, scanner.cancelled)

	m, _ = update(t, m, SnapshotMsg{Snapshot: scan.Snapshot{SessionID: "a", Phase: scan.PhaseSearching}})
	_, cmd := update(t, m, keyMsg("x"))
	require.NotNil(t, cmd)
	cmd()
	assert.Equal(t, 1, scanner.cancelled)
}

func TestSnapshotAnnouncesOutcomeOnce(t *testing.T) {
	m, _, _ := newTestModel(t)

	m, _ = update(t, m, SnapshotMsg{Snapshot: scan.Snapshot{SessionID: "a", Phase: scan.PhaseSearching, Percentage: 40}})
	assert.Empty(t, m.StatusMsg)
	assert.Contains(t, m.View(), "40%")

	done := scan.Snapshot{SessionID: "a", Phase: scan.PhaseCompleted, Percentage: 100, CasesFound: 3}
	m, _ = update(t, m, SnapshotMsg{Snapshot: done})
	assert.Equal(t, "Scan complete: 3 cases found", m.StatusMsg)

	m, _ = update(t, m, ClearStatusMsg{})
	m, _ = update(t, m, SnapshotMsg{Snapshot: done})
	assert.Empty(t, m.StatusMsg)

	failed := scan.Snapshot{SessionID: "b", Phase: scan.PhaseError, ErrorKind: scan.ErrorReported, Message: "server-reported error: quota"}
	m, _ = update(t, m, SnapshotMsg{Snapshot: failed})
	assert.True(t, m.StatusIsErr)
	assert.Contains(t, m.StatusMsg, "quota")
}

func TestFilterKeysRouteToList(t *testing.T) {
	m, dash, _ := newTestModel(t)
	m = load(t, m, dash)

	m, _ = update(t, m, keyMsg("/"))
	require.True(t, m.CaseList.IsFiltering())

	// p is typed into the filter rather than cycling priority
	m, _ = update(t, m, keyMsg("blip"))
	require.Len(t, m.CaseList.Visible(), 1)
	assert.Equal(t, "2", m.CaseList.Visible()[0].Case.ID)

	m, _ = update(t, m, keyMsg("enter"))
	assert.False(t, m.CaseList.IsFiltering())
	assert.Len(t, m.CaseList.Visible(), 1)

	m, _ = update(t, m, keyMsg("esc"))
	assert.Len(t, m.CaseList.Visible(), 2)
}

func TestObserverKeepsLatest(t *testing.T) {
	dash := &fakeDashboard{}
	obs := NewChannelObserver(dash)

	obs.OnSnapshot(scan.Snapshot{Version: 1})
	obs.OnSnapshot(scan.Snapshot{Version: 2})
	obs.OnSnapshot(scan.Snapshot{Version: 3, Phase: scan.PhaseCompleted})

	msg := WaitForSnapshotCmd(obs)().(SnapshotMsg)
	assert.Equal(t, uint64(3), msg.Snapshot.Version)

	obs.Refresh(context.Background())
	data := WaitForRefreshCmd(obs)().(DataLoadedMsg)
	assert.True(t, data.AfterScan)
}

func TestAfterScanRefreshRearms(t *testing.T) {
	m, dash, _ := newTestModel(t)

	data, err := dash.RefreshCurrent(context.Background())
	require.NoError(t, err)
	m, cmd := update(t, m, DataLoadedMsg{Data: data, AfterScan: true})
	assert.NotNil(t, cmd)
	assert.Len(t, m.Cases, 2)
}

func TestErrMsg(t *testing.T) {
	m, _, _ := newTestModel(t)
	m, _ = update(t, m, ErrMsg{Err: errors.New("boom"), Context: "export"})
	assert.Equal(t, "export: boom", m.StatusMsg)
}
