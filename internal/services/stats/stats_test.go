package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/subscription-organizer/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) GetAggregateStats(ctx context.Context, userID int64) (*models.AggregateStats, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AggregateStats), args.Error(1)
}
func (m *RepoMock) ListUpcomingRenewals(ctx context.Context, userID int64, days int) ([]*models.UpcomingRenewal, error) {
	args := m.Called(ctx, userID, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.UpcomingRenewal), args.Error(1)
}
func (m *RepoMock) GetAdminStats(ctx context.Context, now time.Time) (*models.AdminStats, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AdminStats), args.Error(1)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}
func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	return m.Called(key, value, expiration).Error(0)
}
func (m *CacheMock) Invalidate(key string) error {
	return m.Called(key).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestStatsService_GetAggregateStats(t *testing.T) {
	stats := &models.AggregateStats{
		TotalCount:  3,
		ActiveCount: 2,
		MonthlySum:  25.5,
	}

	t.Run("промах кэша читает хранилище и кэширует", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		svc := NewStatsService(repo, cache, newNoopLogger())

		cache.On("Get", "stats:42", mock.Anything).Return(false, nil).Once()
		repo.On("GetAggregateStats", mock.Anything, int64(42)).Return(stats, nil).Once()
		cache.On("Set", "stats:42", stats, 5*time.Minute).Return(nil).Once()

		got, err := svc.GetAggregateStats(context.Background(), 42)

		assert.NoError(t, err)
		assert.Equal(t, stats, got)
		repo.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("попадание в кэш не трогает хранилище", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		svc := NewStatsService(repo, cache, newNoopLogger())

		cache.On("Get", "stats:42", mock.Anything).
			Run(func(args mock.Arguments) {
				*args.Get(1).(*models.AggregateStats) = *stats
			}).Return(true, nil).Once()

		got, err := svc.GetAggregateStats(context.Background(), 42)

		assert.NoError(t, err)
		assert.Equal(t, stats.MonthlySum, got.MonthlySum)
		repo.AssertNotCalled(t, "GetAggregateStats", mock.Anything, mock.Anything)
	})

	t.Run("ошибка кэша не прерывает запрос", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		svc := NewStatsService(repo, cache, newNoopLogger())

		cache.On("Get", "stats:42", mock.Anything).Return(false, errors.New("redis down")).Once()
		repo.On("GetAggregateStats", mock.Anything, int64(42)).Return(stats, nil).Once()
		cache.On("Set", "stats:42", stats, 5*time.Minute).Return(errors.New("redis down")).Once()

		got, err := svc.GetAggregateStats(context.Background(), 42)

		assert.NoError(t, err)
		assert.Equal(t, stats, got)
	})

	t.Run("ошибка хранилища возвращается наружу", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		svc := NewStatsService(repo, cache, newNoopLogger())

		cache.On("Get", "stats:42", mock.Anything).Return(false, nil).Once()
		repo.On("GetAggregateStats", mock.Anything, int64(42)).
			Return(nil, errors.New("db down")).Once()

		_, err := svc.GetAggregateStats(context.Background(), 42)

		assert.Error(t, err)
		cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestStatsService_ListUpcomingRenewals(t *testing.T) {
	repo := new(RepoMock)
	cache := new(CacheMock)
	svc := NewStatsService(repo, cache, newNoopLogger())

	renewals := []*models.UpcomingRenewal{
		{Name: "Netflix", Price: 15.99, NextPayment: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)},
	}
	repo.On("ListUpcomingRenewals", mock.Anything, int64(42), 7).Return(renewals, nil).Once()

	got, err := svc.ListUpcomingRenewals(context.Background(), 42, 7)

	assert.NoError(t, err)
	assert.Len(t, got, 1)
	repo.AssertExpectations(t)
}
