package service

import (
	"time"

	"github.com/aphiwit19/SimpleExpenseTracker/internal/cache"
	"github.com/aphiwit19/SimpleExpenseTracker/internal/domain"
)

// ComputeDashboard derives the dashboard for window from expenses.
// The result depends only on its arguments.
func ComputeDashboard(expenses []*domain.Expense, window domain.TimeWindow, now time.Time) *domain.Dashboard {
	window = domain.ParseTimeWindow(string(window))

	filtered := FilterByWindow(expenses, window, now)
	total := TotalAmount(filtered)
	breakdown := CategoryBreakdown(filtered)

	return &domain.Dashboard{
		Window:       window,
		Label:        window.Label(),
		Filtered:     filtered,
		Count:        len(filtered),
		Total:        total,
		Breakdown:    breakdown,
		PieData:      PieData(breakdown),
		ProgressData: ProgressData(breakdown, total),
	}
}

type dashboardKey struct {
	version uint64
	window  domain.TimeWindow
}

// DashboardService serves dashboards over the latest expense snapshot.
// Results are memoized per (snapshot version, window); the TTL bounds how
// stale a clock dependent window may get.
type DashboardService struct {
	source SnapshotSource
	cache  *cache.LRUCache[dashboardKey, *domain.Dashboard]
	now    func() time.Time
}

// DashboardServiceConfig holds memoization settings
type DashboardServiceConfig struct {
	CacheSize int
	CacheTTL  time.Duration
}

// DefaultDashboardServiceConfig returns sensible defaults
func DefaultDashboardServiceConfig() DashboardServiceConfig {
	return DashboardServiceConfig{
		CacheSize: 32,
		CacheTTL:  30 * time.Second,
	}
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(source SnapshotSource, config DashboardServiceConfig) *DashboardService {
	if config.CacheSize <= 0 {
		config.CacheSize = DefaultDashboardServiceConfig().CacheSize
	}
	return &DashboardService{
		source: source,
		cache:  cache.NewLRUCache[dashboardKey, *domain.Dashboard](config.CacheSize, config.CacheTTL),
		now:    time.Now,
	}
}

// GetDashboard returns the dashboard for window over the latest snapshot
func (s *DashboardService) GetDashboard(window domain.TimeWindow) (*domain.Dashboard, error) {
	snapshot, err := s.source.Snapshot()
	if err != nil {
		return nil, err
	}
	return s.ForSnapshot(snapshot, window), nil
}

// ForSnapshot returns the dashboard for window over snapshot, reusing a
// memoized result when the snapshot has not changed
func (s *DashboardService) ForSnapshot(snapshot domain.Snapshot, window domain.TimeWindow) *domain.Dashboard {
	window = domain.ParseTimeWindow(string(window))
	key := dashboardKey{version: snapshot.Version, window: window}

	if dashboard, ok := s.cache.Get(key); ok {
		return dashboard
	}

	dashboard := ComputeDashboard(snapshot.Expenses, window, s.now())
	s.cache.Set(key, dashboard)
	return dashboard
}
