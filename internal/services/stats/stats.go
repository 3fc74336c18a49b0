// Package services содержит бизнес-логику агрегированной статистики
// с кэшированием в redis.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/subscription-organizer/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-organizer/internal/models"
)

// StatsRepository определяет методы хранилища для статистики.
type StatsRepository interface {
	// GetAggregateStats считает агрегированную статистику пользователя.
	GetAggregateStats(ctx context.Context, userID int64) (*models.AggregateStats, error)
	// ListUpcomingRenewals возвращает списания в ближайшие days дней.
	ListUpcomingRenewals(ctx context.Context, userID int64, days int) ([]*models.UpcomingRenewal, error)
	// GetAdminStats возвращает сводку по всему боту.
	GetAdminStats(ctx context.Context, now time.Time) (*models.AdminStats, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// StatsService реализует получение статистики с кэшированием.
type StatsService struct {
	repo     StatsRepository
	cache    Cache
	cacheTTL time.Duration
	log      *slog.Logger
}

// NewStatsService создает новый экземпляр StatsService.
func NewStatsService(repo StatsRepository, cache Cache, log *slog.Logger) *StatsService {
	return &StatsService{
		repo:     repo,
		cache:    cache,
		cacheTTL: 5 * time.Minute,
		log:      log,
	}
}

// GetAggregateStats возвращает статистику пользователя, используя кэш
// или хранилище. Ошибки кэша не прерывают запрос.
func (s *StatsService) GetAggregateStats(ctx context.Context, userID int64) (*models.AggregateStats, error) {
	cacheKey := fmt.Sprintf("stats:%d", userID)

	var cached models.AggregateStats
	found, err := s.cache.Get(cacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read stats cache", slog.String("key", cacheKey), sl.Err(err))
	}
	if found {
		return &cached, nil
	}

	stats, err := s.repo.GetAggregateStats(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(cacheKey, stats, s.cacheTTL); err != nil {
		s.log.Warn("failed to cache stats", slog.String("key", cacheKey), sl.Err(err))
	}
	return stats, nil
}

// ListUpcomingRenewals возвращает ближайшие списания пользователя.
func (s *StatsService) ListUpcomingRenewals(ctx context.Context, userID int64, days int) ([]*models.UpcomingRenewal, error) {
	return s.repo.ListUpcomingRenewals(ctx, userID, days)
}

// GetAdminStats возвращает сводку по всему боту для админ-панели.
func (s *StatsService) GetAdminStats(ctx context.Context) (*models.AdminStats, error) {
	return s.repo.GetAdminStats(ctx, time.Now())
}
