package service

import (
	"sync"
	"testing"
	"time"

	"github.com/aphiwit19/SimpleExpenseTracker/internal/domain"
	"github.com/aphiwit19/SimpleExpenseTracker/internal/testutil"
	"github.com/aphiwit19/SimpleExpenseTracker/internal/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingBroadcaster struct {
	mu      sync.Mutex
	windows []domain.TimeWindow
	sent    map[domain.TimeWindow][]websocket.Event
}

func newRecordingBroadcaster(windows ...domain.TimeWindow) *recordingBroadcaster {
	return &recordingBroadcaster{
		windows: windows,
		sent:    make(map[domain.TimeWindow][]websocket.Event),
	}
}

func (b *recordingBroadcaster) ActiveWindows() []domain.TimeWindow {
	return b.windows
}

func (b *recordingBroadcaster) BroadcastToWindow(window domain.TimeWindow, event websocket.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sent[window] = append(b.sent[window], event)
}

func TestDashboardPusher_OnSnapshot(t *testing.T) {
	svc := NewDashboardService(testutil.NewStaticSnapshotSource(), DefaultDashboardServiceConfig())
	svc.now = func() time.Time {
		return time.Date(2024, time.February, 20, 10, 0, 0, 0, time.UTC)
	}
	broadcaster := newRecordingBroadcaster(domain.TimeWindowMonth, domain.TimeWindowAll)
	pusher := NewDashboardPusher(svc, broadcaster)

	pusher.OnSnapshot(domain.Snapshot{Version: 7, Expenses: sampleExpenses()})

	require.Len(t, broadcaster.sent[domain.TimeWindowMonth], 1)
	require.Len(t, broadcaster.sent[domain.TimeWindowAll], 1)
	assert.Empty(t, broadcaster.sent[domain.TimeWindowWeek])

	evt := broadcaster.sent[domain.TimeWindowMonth][0]
	assert.Equal(t, "dashboard.updated", evt.Type)

	dashboard, ok := evt.Payload.(*domain.Dashboard)
	require.True(t, ok)
	assert.Equal(t, "80", dashboard.Total.String())

	all := broadcaster.sent[domain.TimeWindowAll][0].Payload.(*domain.Dashboard)
	assert.Equal(t, "180", all.Total.String())
}

func TestDashboardPusher_NoClients(t *testing.T) {
	svc := NewDashboardService(testutil.NewStaticSnapshotSource(), DefaultDashboardServiceConfig())
	broadcaster := newRecordingBroadcaster()
	pusher := NewDashboardPusher(svc, broadcaster)

	pusher.OnSnapshot(domain.Snapshot{Version: 1, Expenses: sampleExpenses()})

	assert.Empty(t, broadcaster.sent)
}

func TestDashboardPusher_WithHub(t *testing.T) {
	svc := NewDashboardService(testutil.NewStaticSnapshotSource(), DefaultDashboardServiceConfig())
	hub := websocket.NewHub()
	pusher := NewDashboardPusher(svc, hub)

	assert.NotPanics(t, func() {
		pusher.OnSnapshot(domain.Snapshot{Version: 1})
	})
}

func TestDashboardPusher_Renderer(t *testing.T) {
	svc := NewDashboardService(testutil.NewStaticSnapshotSource(), DefaultDashboardServiceConfig())
	broadcaster := newRecordingBroadcaster(domain.TimeWindowAll)
	pusher := NewDashboardPusher(svc, broadcaster)
	pusher.SetRenderer(func(d *domain.Dashboard) interface{} {
		return map[string]string{"total": d.Total.StringFixed(2)}
	})

	pusher.OnSnapshot(domain.Snapshot{Version: 3, Expenses: sampleExpenses()})

	require.Len(t, broadcaster.sent[domain.TimeWindowAll], 1)
	assert.Equal(t, map[string]string{"total": "180.00"}, broadcaster.sent[domain.TimeWindowAll][0].Payload)
}
