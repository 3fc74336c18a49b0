// Package services содержит бизнес-логику для управления подписками:
// создание с планированием напоминаний, изменение, удаление и лимиты
// бесплатной версии.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/subscription-organizer/internal/lib/monthly"
	"github.com/magabrotheeeer/subscription-organizer/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-organizer/internal/models"
)

// DateLayout формат дат, принимаемых от пользователя и mini-app.
const DateLayout = "2006-01-02"

// ErrLimitReached возвращается при попытке добавить подписку сверх лимита
// бесплатной версии.
var ErrLimitReached = fmt.Errorf("subscription limit reached")

// SubscriptionRepository определяет методы для работы с подписками в хранилище.
type SubscriptionRepository interface {
	// CreateSubscription добавляет новую подписку и возвращает её ID.
	CreateSubscription(ctx context.Context, sub models.Subscription) (int, error)
	// ReadSubscription возвращает подписку по ID с проверкой владельца.
	ReadSubscription(ctx context.Context, id int, userID int64) (*models.Subscription, error)
	// ListSubscriptions возвращает подписки пользователя.
	ListSubscriptions(ctx context.Context, userID int64, activeOnly bool) ([]*models.Subscription, error)
	// CountSubscriptions возвращает количество подписок пользователя.
	CountSubscriptions(ctx context.Context, userID int64) (int, error)
	// UpdateSubscriptionField обновляет одно поле подписки под блокировкой строки.
	UpdateSubscriptionField(ctx context.Context, id int, userID int64, column string, value any, writeHistory bool) error
	// UpdateSubscription обновляет подписку целиком, не трогая флаг
	// активности; writeHistory включает запись в историю.
	UpdateSubscription(ctx context.Context, sub models.Subscription, writeHistory bool) (int, error)
	// RemoveSubscription удаляет подписку и возвращает количество удалённых строк.
	RemoveSubscription(ctx context.Context, id int, userID int64) (int, error)
	// CreateNotification планирует напоминание.
	CreateNotification(ctx context.Context, n models.Notification) (int, error)
	// RemovePendingNotifications удаляет незапланированные напоминания подписки.
	RemovePendingNotifications(ctx context.Context, subscriptionID int) error
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// SubscriptionService реализует бизнес-логику работы с подписками.
type SubscriptionService struct {
	repo      SubscriptionRepository
	cache     Cache
	freeLimit int
	log       *slog.Logger
}

// NewSubscriptionService создает новый экземпляр SubscriptionService.
func NewSubscriptionService(repo SubscriptionRepository, cache Cache, freeLimit int, log *slog.Logger) *SubscriptionService {
	return &SubscriptionService{
		repo:      repo,
		cache:     cache,
		freeLimit: freeLimit,
		log:       log,
	}
}

// CanAdd проверяет лимит бесплатной версии. Premium-пользователи
// не ограничены.
func (s *SubscriptionService) CanAdd(ctx context.Context, user *models.User) (bool, error) {
	if user.IsPremium {
		return true, nil
	}
	count, err := s.repo.CountSubscriptions(ctx, user.UserID)
	if err != nil {
		return false, err
	}
	return count < s.freeLimit, nil
}

// Create вставляет собранную подписку, планирует напоминание о списании
// и инвалидирует кэш статистики. Возвращает ID новой записи.
func (s *SubscriptionService) Create(ctx context.Context, user *models.User, sub models.Subscription) (int, error) {
	ok, err := s.CanAdd(ctx, user)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, ErrLimitReached
	}

	sub.UserID = user.UserID
	if sub.Currency == "" {
		sub.Currency = "USD"
	}
	if sub.BillingCycle == "" {
		sub.BillingCycle = monthly.CycleMonthly
	}
	sub.IsActive = true
	if sub.NextPayment.IsZero() {
		sub.NextPayment = NextPayment(sub.StartDate, sub.BillingCycle, time.Now())
	}

	id, err := s.repo.CreateSubscription(ctx, sub)
	if err != nil {
		return 0, err
	}
	s.log.Info("created subscription",
		slog.Int("id", id), slog.Int64("user_id", user.UserID))

	if user.NotificationsEnabled {
		scheduled := sub.NextPayment.AddDate(0, 0, -user.NotificationDays)
		if _, err := s.repo.CreateNotification(ctx, models.Notification{
			UserID:         user.UserID,
			SubscriptionID: id,
			Type:           models.NotificationRenewal,
			ScheduledDate:  scheduled,
		}); err != nil {
			s.log.Warn("failed to schedule notification",
				slog.Int("subscription_id", id), sl.Err(err))
		}
	}

	s.invalidateStats(user.UserID)
	return id, nil
}

// CreateFromRequest создает подписку из JSON-запроса mini-app.
func (s *SubscriptionService) CreateFromRequest(ctx context.Context, user *models.User, req models.DummySubscription) (int, error) {
	sub, err := subscriptionFromRequest(req)
	if err != nil {
		return 0, err
	}
	return s.Create(ctx, user, sub)
}

// Read возвращает подписку по ID с проверкой владельца.
func (s *SubscriptionService) Read(ctx context.Context, id int, userID int64) (*models.Subscription, error) {
	return s.repo.ReadSubscription(ctx, id, userID)
}

// List возвращает подписки пользователя.
func (s *SubscriptionService) List(ctx context.Context, userID int64, activeOnly bool) ([]*models.Subscription, error) {
	return s.repo.ListSubscriptions(ctx, userID, activeOnly)
}

// UpdateField обновляет одно поле подписки. Для premium-пользователей
// изменение пишется в историю. Смена даты следующего списания
// перепланирует напоминание.
func (s *SubscriptionService) UpdateField(ctx context.Context, user *models.User, id int, column string, value any) error {
	if err := s.repo.UpdateSubscriptionField(ctx, id, user.UserID, column, value, user.IsPremium); err != nil {
		return err
	}
	s.log.Info("updated subscription field",
		slog.Int("id", id), slog.String("column", column))

	if column == "next_payment" || column == "start_date" {
		if err := s.reschedule(ctx, user, id); err != nil {
			s.log.Warn("failed to reschedule notification",
				slog.Int("subscription_id", id), sl.Err(err))
		}
	}

	s.invalidateStats(user.UserID)
	return nil
}

// Update обновляет подписку целиком из JSON-запроса mini-app и возвращает
// количество изменённых строк. Флаг активности сохраняется как есть,
// для premium-пользователей изменение попадает в историю.
func (s *SubscriptionService) Update(ctx context.Context, user *models.User, id int, req models.DummySubscription) (int, error) {
	sub, err := subscriptionFromRequest(req)
	if err != nil {
		return 0, err
	}
	sub.ID = id
	sub.UserID = user.UserID
	if sub.NextPayment.IsZero() {
		sub.NextPayment = NextPayment(sub.StartDate, sub.BillingCycle, time.Now())
	}

	count, err := s.repo.UpdateSubscription(ctx, sub, user.IsPremium)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		if err := s.reschedule(ctx, user, id); err != nil {
			s.log.Warn("failed to reschedule notification",
				slog.Int("subscription_id", id), sl.Err(err))
		}
		s.invalidateStats(user.UserID)
	}
	return count, nil
}

// Remove удаляет подписку и возвращает количество удалённых строк.
func (s *SubscriptionService) Remove(ctx context.Context, id int, userID int64) (int, error) {
	count, err := s.repo.RemoveSubscription(ctx, id, userID)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		s.invalidateStats(userID)
	}
	return count, nil
}

func (s *SubscriptionService) reschedule(ctx context.Context, user *models.User, id int) error {
	if err := s.repo.RemovePendingNotifications(ctx, id); err != nil {
		return err
	}
	if !user.NotificationsEnabled {
		return nil
	}
	sub, err := s.repo.ReadSubscription(ctx, id, user.UserID)
	if err != nil {
		return err
	}
	_, err = s.repo.CreateNotification(ctx, models.Notification{
		UserID:         user.UserID,
		SubscriptionID: id,
		Type:           models.NotificationRenewal,
		ScheduledDate:  sub.NextPayment.AddDate(0, 0, -user.NotificationDays),
	})
	return err
}

func (s *SubscriptionService) invalidateStats(userID int64) {
	cacheKey := fmt.Sprintf("stats:%d", userID)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to invalidate stats cache",
			slog.String("key", cacheKey), sl.Err(err))
	}
}

// NextPayment возвращает ближайшую дату списания: дата начала сдвигается
// по циклу оплаты, пока не окажется не раньше сегодняшнего дня.
func NextPayment(startDate time.Time, billingCycle string, now time.Time) time.Time {
	today := now.Truncate(24 * time.Hour)
	next := startDate
	years, months, days := monthly.CycleStep(billingCycle)
	for next.Before(today) {
		next = next.AddDate(years, months, days)
	}
	return next
}

func subscriptionFromRequest(req models.DummySubscription) (models.Subscription, error) {
	startDate, err := time.Parse(DateLayout, req.StartDate)
	if err != nil {
		return models.Subscription{}, fmt.Errorf("invalid start date: %w", err)
	}

	sub := models.Subscription{
		UserID:       req.UserID,
		Name:         req.Name,
		Price:        req.Price,
		Currency:     req.Currency,
		CategoryID:   req.CategoryID,
		BillingCycle: req.BillingCycle,
		StartDate:    startDate,
	}
	if req.TrialEndDate != "" {
		trialEnd, err := time.Parse(DateLayout, req.TrialEndDate)
		if err != nil {
			return models.Subscription{}, fmt.Errorf("invalid trial end date: %w", err)
		}
		sub.TrialEndDate = &trialEnd
	}
	if req.EndDate != "" {
		endDate, err := time.Parse(DateLayout, req.EndDate)
		if err != nil {
			return models.Subscription{}, fmt.Errorf("invalid end date: %w", err)
		}
		sub.EndDate = &endDate
	}
	if req.Notes != "" {
		notes := req.Notes
		sub.Notes = &notes
	}
	return sub, nil
}
