package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/fintrack/internal/domain"
)

// DashboardCache caches computed dashboards per user.
// A nil *DashboardCache or one without a backing Cache is a no-op.
type DashboardCache struct {
	cache Cache
	ttl   time.Duration
}

// NewDashboardCache creates a DashboardCache.
func NewDashboardCache(cache Cache, ttl time.Duration) *DashboardCache {
	if ttl <= 0 {
		ttl = DefaultDashboardTTL
	}
	return &DashboardCache{cache: cache, ttl: ttl}
}

func dashboardKey(userID string) string {
	return "dashboard:" + userID
}

func (c *DashboardCache) enabled() bool {
	return c != nil && c.cache != nil
}

// Get returns the cached dashboard, or nil on a miss.
func (c *DashboardCache) Get(ctx context.Context, userID string) *domain.Dashboard {
	if !c.enabled() {
		return nil
	}

	data, err := c.cache.Get(ctx, dashboardKey(userID))
	if err != nil || data == nil {
		return nil
	}

	var d domain.Dashboard
	if err := json.Unmarshal(data, &d); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("discarding unreadable cached dashboard")
		return nil
	}

	return &d
}

// Set stores a dashboard.
func (c *DashboardCache) Set(ctx context.Context, userID string, d *domain.Dashboard) {
	if !c.enabled() {
		return
	}

	data, err := json.Marshal(d)
	if err != nil {
		return
	}

	if err := c.cache.Set(ctx, dashboardKey(userID), data, c.ttl); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("failed to cache dashboard")
	}
}

// Invalidate drops the cached dashboard of a user.
func (c *DashboardCache) Invalidate(ctx context.Context, userID string) {
	if !c.enabled() {
		return
	}

	if err := c.cache.Delete(ctx, dashboardKey(userID)); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("failed to invalidate dashboard")
	}
}

// DashboardUseCase builds the overview of a user's finances.
type DashboardUseCase struct {
	accountRepo AccountRepository
	entryRepo   EntryRepository
	dashboards  *DashboardCache
}

// NewDashboardUseCase creates a new DashboardUseCase.
func NewDashboardUseCase(accountRepo AccountRepository, entryRepo EntryRepository, dashboards *DashboardCache) *DashboardUseCase {
	return &DashboardUseCase{
		accountRepo: accountRepo,
		entryRepo:   entryRepo,
		dashboards:  dashboards,
	}
}

// GetDashboard returns totals, per-account balances and the latest entries.
func (uc *DashboardUseCase) GetDashboard(ctx context.Context, userID string) (*domain.Dashboard, error) {
	if cached := uc.dashboards.Get(ctx, userID); cached != nil {
		return cached, nil
	}

	accounts, err := listAccountSummaries(ctx, uc.accountRepo, uc.entryRepo, userID)
	if err != nil {
		return nil, err
	}

	recent, err := uc.entryRepo.List(ctx, userID, domain.EntryFilter{Limit: domain.RecentEntriesLimit})
	if err != nil {
		return nil, err
	}

	dashboard := domain.NewDashboard(accounts, recent)
	uc.dashboards.Set(ctx, userID, dashboard)

	return dashboard, nil
}
