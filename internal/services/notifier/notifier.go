// Package services содержит цикл отправки напоминаний о списаниях.
// Доставка at-least-once: сначала отправка, потом отметка в базе.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/subscription-organizer/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-organizer/internal/models"
	"github.com/magabrotheeeer/subscription-organizer/internal/telegram/texts"
)

// NotificationRepository определяет методы хранилища для уведомлений.
type NotificationRepository interface {
	// GetPendingNotifications возвращает уведомления, чей срок наступил.
	GetPendingNotifications(ctx context.Context, now time.Time) ([]*models.PendingNotification, error)
	// MarkNotificationSent помечает уведомление отправленным.
	MarkNotificationSent(ctx context.Context, id int, sentAt time.Time) error
	// DeactivateExpiredPremium снимает истекший premium.
	DeactivateExpiredPremium(ctx context.Context, now time.Time) (int, error)
}

// Sender отправляет сообщение пользователю в телеграм.
type Sender interface {
	SendMessage(chatID int64, text string) error
}

// NotifierService периодически выбирает готовые уведомления
// и отправляет их пользователям.
type NotifierService struct {
	repo         NotificationRepository
	sender       Sender
	pollInterval time.Duration
	log          *slog.Logger
}

// NewNotifierService создает новый экземпляр NotifierService.
func NewNotifierService(repo NotificationRepository, sender Sender, pollInterval time.Duration, log *slog.Logger) *NotifierService {
	return &NotifierService{
		repo:         repo,
		sender:       sender,
		pollInterval: pollInterval,
		log:          log,
	}
}

// Run запускает цикл с фиксированным интервалом до отмены контекста.
// Первый проход выполняется сразу.
func (s *NotifierService) Run(ctx context.Context) {
	s.log.Info("notifier started", slog.Duration("poll_interval", s.pollInterval))

	s.RunOnce(ctx)

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("notifier stopped")
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce выполняет один проход: снимает истекший premium и рассылает
// готовые уведомления. Ошибка одного элемента не прерывает пачку.
func (s *NotifierService) RunOnce(ctx context.Context) {
	if count, err := s.repo.DeactivateExpiredPremium(ctx, time.Now()); err != nil {
		s.log.Error("failed to deactivate expired premium", sl.Err(err))
	} else if count > 0 {
		s.log.Info("deactivated expired premium", slog.Int("count", count))
	}

	pending, err := s.repo.GetPendingNotifications(ctx, time.Now())
	if err != nil {
		s.log.Error("failed to get pending notifications", sl.Err(err))
		return
	}
	if len(pending) == 0 {
		return
	}
	s.log.Info("found pending notifications", slog.Int("count", len(pending)))

	for _, item := range pending {
		text := renderNotification(item)
		if err := s.sender.SendMessage(item.UserID, text); err != nil {
			s.log.Error("failed to send notification",
				slog.Int("notification_id", item.ID),
				slog.Int64("user_id", item.UserID), sl.Err(err))
			continue
		}
		if err := s.repo.MarkNotificationSent(ctx, item.ID, time.Now()); err != nil {
			s.log.Error("failed to mark notification sent",
				slog.Int("notification_id", item.ID),
				slog.Int64("user_id", item.UserID), sl.Err(err))
		}
	}
}

func renderNotification(item *models.PendingNotification) string {
	date := item.NextPayment.Format("2006-01-02")
	switch item.Type {
	case models.NotificationRenewal:
		return texts.Getf(item.Language, "notify.renewal",
			item.SubscriptionName, item.Price, item.Currency, date)
	case models.NotificationTrialEnd:
		return texts.Getf(item.Language, "notify.trial_end",
			item.SubscriptionName, date)
	default:
		return texts.Getf(item.Language, "notify.generic", item.SubscriptionName)
	}
}
