package usecase

import (
	"context"
	"ecommerce-backend/internal/domain"
	"ecommerce-backend/pkg/cache"
	"time"
)

const dashboardStatsKey = "admin:dashboard_stats"

// StatsUsecase serves the admin dashboard aggregates through the cache.
type StatsUsecase struct {
	repo  domain.StatsRepository
	cache cache.CacheService
	ttl   time.Duration
}

func NewStatsUsecase(repo domain.StatsRepository, cache cache.CacheService, ttl time.Duration) *StatsUsecase {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &StatsUsecase{
		repo:  repo,
		cache: cache,
		ttl:   ttl,
	}
}

func (uc *StatsUsecase) Dashboard(ctx context.Context) (*domain.DashboardStats, error) {
	stats, err := cache.GetOrLoad(uc.cache, dashboardStatsKey, uc.ttl, func() (*domain.DashboardStats, error) {
		return uc.repo.Dashboard(ctx)
	})
	if err != nil {
		return nil, domain.Upstream(err, "load dashboard stats")
	}
	return stats, nil
}
