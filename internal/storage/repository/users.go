package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/magabrotheeeer/subscription-organizer/internal/models"
)

// UpsertUser сохраняет пользователя при первом /start и обновляет
// username, полное имя и last_active при повторных. Настройки
// пользователя при этом не трогаются.
func (s *Storage) UpsertUser(ctx context.Context, user models.User) error {
	const op = "storage.UpsertUser"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO users (user_id, username, full_name, language)
			  VALUES ($1, $2, $3, $4)
			  ON CONFLICT (user_id) DO UPDATE
			  SET username = EXCLUDED.username,
			      full_name = EXCLUDED.full_name,
			      last_active = CURRENT_TIMESTAMP`
	if _, err := s.DB.ExecContext(ctx, query,
		user.UserID, user.Username, user.FullName, user.Language); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetUser возвращает пользователя по его телеграм-идентификатору.
func (s *Storage) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	const op = "storage.GetUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT user_id, username, full_name, language, theme,
			      notifications_enabled, notification_days, is_premium,
			      premium_until, created_at, last_active
			  FROM users
			  WHERE user_id = $1`
	u := &models.User{}
	row := s.DB.QueryRowContext(ctx, query, userID)

	var premiumUntil sql.NullTime
	if err := row.Scan(&u.UserID, &u.Username, &u.FullName, &u.Language, &u.Theme,
		&u.NotificationsEnabled, &u.NotificationDays, &u.IsPremium,
		&premiumUntil, &u.CreatedAt, &u.LastActive); err != nil {
		return nil, wrapNotFound(op, err)
	}

	if premiumUntil.Valid {
		u.PremiumUntil = &premiumUntil.Time
	}
	return u, nil
}

// UpdateLanguage меняет язык интерфейса пользователя.
func (s *Storage) UpdateLanguage(ctx context.Context, userID int64, language string) error {
	const op = "storage.UpdateLanguage"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users SET language = $1 WHERE user_id = $2`
	res, err := s.DB.ExecContext(ctx, query, language, userID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

// UpdateTheme меняет тему mini-app пользователя.
func (s *Storage) UpdateTheme(ctx context.Context, userID int64, theme string) error {
	const op = "storage.UpdateTheme"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users SET theme = $1 WHERE user_id = $2`
	res, err := s.DB.ExecContext(ctx, query, theme, userID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

// ToggleNotifications включает или выключает напоминания и возвращает
// новое значение флага.
func (s *Storage) ToggleNotifications(ctx context.Context, userID int64) (bool, error) {
	const op = "storage.ToggleNotifications"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET notifications_enabled = NOT notifications_enabled
			  WHERE user_id = $1
			  RETURNING notifications_enabled`
	var enabled bool
	if err := s.DB.QueryRowContext(ctx, query, userID).Scan(&enabled); err != nil {
		return false, wrapNotFound(op, err)
	}
	return enabled, nil
}

// ActivatePremium включает premium до указанной даты.
// Используется для активации пробного периода.
func (s *Storage) ActivatePremium(ctx context.Context, userID int64, until time.Time) error {
	const op = "storage.ActivatePremium"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET is_premium = TRUE, premium_until = $1
			  WHERE user_id = $2`
	res, err := s.DB.ExecContext(ctx, query, until, userID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

// DeactivateExpiredPremium снимает флаг premium у пользователей с истекшим
// сроком и возвращает количество затронутых строк.
func (s *Storage) DeactivateExpiredPremium(ctx context.Context, now time.Time) (int, error) {
	const op = "storage.DeactivateExpiredPremium"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET is_premium = FALSE
			  WHERE is_premium = TRUE
			    AND premium_until IS NOT NULL
			    AND premium_until < $1`
	res, err := s.DB.ExecContext(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}
