package tui

import (
	"context"

	"github.com/mmcdole/docketwatch/internal/dashboard"
	"github.com/mmcdole/docketwatch/internal/scan"
)

// Refresher reloads dashboard data for the current filter
type Refresher interface {
	RefreshCurrent(ctx context.Context) (dashboard.Data, error)
}

// ChannelObserver adapts controller callbacks to channels for Bubble Tea.
// Each channel holds only the latest value; a slow UI skips intermediate
// snapshots but never misses the final one.
type ChannelObserver struct {
	snapshots chan scan.Snapshot
	data      chan DataLoadedMsg
	refresher Refresher
}

// NewChannelObserver creates a new channel-based observer.
func NewChannelObserver(refresher Refresher) *ChannelObserver {
	return &ChannelObserver{
		snapshots: make(chan scan.Snapshot, 1),
		data:      make(chan DataLoadedMsg, 1),
		refresher: refresher,
	}
}

// OnSnapshot is the controller's Observer
func (o *ChannelObserver) OnSnapshot(s scan.Snapshot) {
	replace(o.snapshots, s)
}

// Refresh is the controller's post-completion hook. It reloads the
// dashboard and hands the result to the UI.
func (o *ChannelObserver) Refresh(ctx context.Context) {
	data, err := o.refresher.RefreshCurrent(ctx)
	replace(o.data, DataLoadedMsg{Data: data, Err: err, AfterScan: true})
}

// replace sends v, displacing an unread older value. There is one sender per
// channel, so the send after draining cannot block.
func replace[T any](ch chan T, v T) {
	select {
	case ch <- v:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	ch <- v
}
