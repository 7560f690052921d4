package scheduler

import (
	"context"
	"sync"
	"testing"

	"github.com/mmcdole/docketwatch/internal/scan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStarter struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeStarter) StartFullScan(ctx context.Context, r *scan.DateRange) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.err
}

func TestNewRejectsInvalidSpec(t *testing.T) {
	_, err := New("every tuesday", &fakeStarter{}, nil)
	require.Error(t, err)

	_, err = New("*/15 * * * *", &fakeStarter{}, nil)
	require.NoError(t, err)

	_, err = New("@hourly", &fakeStarter{}, nil)
	require.NoError(t, err)
}

func TestTickStartsScan(t *testing.T) {
	starter := &fakeStarter{}
	s, err := New("@hourly", starter, nil)
	require.NoError(t, err)

	s.tick(context.Background())
	assert.Equal(t, 1, starter.calls)
}

func TestTickSkipsWhileActive(t *testing.T) {
	starter := &fakeStarter{err: scan.ErrSessionActive}
	s, err := New("@hourly", starter, nil)
	require.NoError(t, err)

	s.tick(context.Background())
	s.tick(context.Background())
	assert.Equal(t, 2, starter.calls)
}

func TestTickAfterCancelDoesNothing(t *testing.T) {
	starter := &fakeStarter{}
	s, err := New("@hourly", starter, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s.tick(ctx)
	assert.Equal(t, 0, starter.calls)
}

func TestStartStop(t *testing.T) {
	s, err := New("@hourly", &fakeStarter{}, nil)
	require.NoError(t, err)

	require.NoError(t, s.Start(context.Background()))
	require.NoError(t, s.Start(context.Background()))
	s.Stop()
	s.Stop()
}
