package service

import (
	"github.com/aphiwit19/SimpleExpenseTracker/internal/domain"
	"github.com/aphiwit19/SimpleExpenseTracker/internal/websocket"
	"github.com/rs/zerolog/log"
)

// WindowBroadcaster delivers events to clients watching one time window
type WindowBroadcaster interface {
	ActiveWindows() []domain.TimeWindow
	BroadcastToWindow(window domain.TimeWindow, event websocket.Event)
}

// DashboardPusher recomputes dashboards when a new snapshot arrives and
// pushes them to connected clients, once per active window
type DashboardPusher struct {
	dashboards  *DashboardService
	broadcaster WindowBroadcaster
	render      func(*domain.Dashboard) interface{}
}

// NewDashboardPusher creates a new DashboardPusher
func NewDashboardPusher(dashboards *DashboardService, broadcaster WindowBroadcaster) *DashboardPusher {
	return &DashboardPusher{
		dashboards:  dashboards,
		broadcaster: broadcaster,
	}
}

// SetRenderer sets how dashboards are shaped in event payloads. By default
// the domain value is sent as is.
func (p *DashboardPusher) SetRenderer(render func(*domain.Dashboard) interface{}) {
	p.render = render
}

func (p *DashboardPusher) payload(dashboard *domain.Dashboard) interface{} {
	if p.render == nil {
		return dashboard
	}
	return p.render(dashboard)
}

// OnSnapshot is a SnapshotFunc suitable for ExpenseFeed.Subscribe
func (p *DashboardPusher) OnSnapshot(snapshot domain.Snapshot) {
	windows := p.broadcaster.ActiveWindows()
	for _, window := range windows {
		dashboard := p.dashboards.ForSnapshot(snapshot, window)
		p.broadcaster.BroadcastToWindow(window, websocket.DashboardUpdated(p.payload(dashboard)))
	}

	if len(windows) > 0 {
		log.Debug().
			Uint64("version", snapshot.Version).
			Int("windows", len(windows)).
			Msg("Pushed dashboards")
	}
}
