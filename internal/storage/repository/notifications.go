package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/magabrotheeeer/subscription-organizer/internal/models"
)

// CreateNotification планирует напоминание и возвращает его ID.
func (s *Storage) CreateNotification(ctx context.Context, n models.Notification) (int, error) {
	const op = "storage.CreateNotification"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO notifications (user_id, subscription_id, notification_type, scheduled_date)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		n.UserID, n.SubscriptionID, n.Type, n.ScheduledDate).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetPendingNotifications возвращает неотправленные уведомления, чей срок
// наступил, вместе с данными подписки и языком пользователя. Пользователи
// с выключенными напоминаниями и неактивные подписки не выбираются.
func (s *Storage) GetPendingNotifications(ctx context.Context, now time.Time) ([]*models.PendingNotification, error) {
	const op = "storage.GetPendingNotifications"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT n.id, n.user_id, n.subscription_id, n.notification_type,
			      s.name, s.price, s.currency, s.next_payment, u.language
			  FROM notifications n
			  JOIN subscriptions s ON s.id = n.subscription_id
			  JOIN users u ON u.user_id = n.user_id
			  WHERE n.is_sent = FALSE
			    AND n.scheduled_date <= $1
			    AND s.is_active = TRUE
			    AND u.notifications_enabled = TRUE
			  ORDER BY n.scheduled_date, n.id`
	rows, err := s.DB.QueryContext(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.PendingNotification
	for rows.Next() {
		var item models.PendingNotification
		if err := rows.Scan(&item.ID, &item.UserID, &item.SubscriptionID, &item.Type,
			&item.SubscriptionName, &item.Price, &item.Currency,
			&item.NextPayment, &item.Language); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// MarkNotificationSent помечает уведомление отправленным. Повторный вызов
// по тому же ID не меняет строку.
func (s *Storage) MarkNotificationSent(ctx context.Context, id int, sentAt time.Time) error {
	const op = "storage.MarkNotificationSent"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE notifications
			  SET is_sent = TRUE, sent_at = $1
			  WHERE id = $2 AND is_sent = FALSE`
	if _, err := s.DB.ExecContext(ctx, query, sentAt, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// RemovePendingNotifications удаляет неотправленные уведомления подписки.
// Вызывается перед перепланированием после изменения даты списания.
func (s *Storage) RemovePendingNotifications(ctx context.Context, subscriptionID int) error {
	const op = "storage.RemovePendingNotifications"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM notifications WHERE subscription_id = $1 AND is_sent = FALSE`
	if _, err := s.DB.ExecContext(ctx, query, subscriptionID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
