package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/subscription-organizer/internal/models"
)

const subscriptionColumns = `id, user_id, name, price, currency, category_id,
	billing_cycle, start_date, next_payment, trial_end_date, end_date,
	is_active, notes, created_at, updated_at`

func scanSubscription(row interface{ Scan(...any) error }) (*models.Subscription, error) {
	var item models.Subscription
	var categoryID sql.NullInt64
	var trialEndDate, endDate sql.NullTime
	var notes sql.NullString

	if err := row.Scan(&item.ID, &item.UserID, &item.Name, &item.Price, &item.Currency,
		&categoryID, &item.BillingCycle, &item.StartDate, &item.NextPayment,
		&trialEndDate, &endDate, &item.IsActive, &notes,
		&item.CreatedAt, &item.UpdatedAt); err != nil {
		return nil, err
	}

	if categoryID.Valid {
		v := int(categoryID.Int64)
		item.CategoryID = &v
	}
	if trialEndDate.Valid {
		item.TrialEndDate = &trialEndDate.Time
	}
	if endDate.Valid {
		item.EndDate = &endDate.Time
	}
	if notes.Valid {
		item.Notes = &notes.String
	}
	return &item, nil
}

// CreateSubscription вставляет новую подписку и возвращает её ID.
func (s *Storage) CreateSubscription(ctx context.Context, sub models.Subscription) (int, error) {
	const op = "storage.CreateSubscription"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO subscriptions (user_id, name, price, currency, category_id,
			      billing_cycle, start_date, next_payment, trial_end_date, end_date,
			      is_active, notes)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		sub.UserID, sub.Name, sub.Price, sub.Currency, sub.CategoryID,
		sub.BillingCycle, sub.StartDate, sub.NextPayment, sub.TrialEndDate,
		sub.EndDate, sub.IsActive, sub.Notes).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ReadSubscription возвращает подписку по ID с проверкой владельца.
func (s *Storage) ReadSubscription(ctx context.Context, id int, userID int64) (*models.Subscription, error) {
	const op = "storage.ReadSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + subscriptionColumns + `
			  FROM subscriptions
			  WHERE id = $1 AND user_id = $2`
	item, err := scanSubscription(s.DB.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		return nil, wrapNotFound(op, err)
	}
	return item, nil
}

// ListSubscriptions возвращает подписки пользователя, отсортированные
// по дате следующего списания. При activeOnly выбираются только активные.
func (s *Storage) ListSubscriptions(ctx context.Context, userID int64, activeOnly bool) ([]*models.Subscription, error) {
	const op = "storage.ListSubscriptions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + subscriptionColumns + `
			  FROM subscriptions
			  WHERE user_id = $1
			    AND ($2 = FALSE OR is_active = TRUE)
			  ORDER BY next_payment, id`
	rows, err := s.DB.QueryContext(ctx, query, userID, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Subscription
	for rows.Next() {
		item, err := scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// CountSubscriptions возвращает количество подписок пользователя.
// Используется для проверки лимита бесплатной версии.
func (s *Storage) CountSubscriptions(ctx context.Context, userID int64) (int, error) {
	const op = "storage.CountSubscriptions"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT COUNT(*) FROM subscriptions WHERE user_id = $1`
	var count int
	if err := s.DB.QueryRowContext(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// UpdateSubscriptionField обновляет одно поле подписки в транзакции.
// Строка блокируется SELECT ... FOR UPDATE, чтобы параллельное изменение
// через mini-app не потерялось. writeHistory включает запись в историю
// (для premium-пользователей).
func (s *Storage) UpdateSubscriptionField(ctx context.Context, id int, userID int64, column string, value any, writeHistory bool) error {
	const op = "storage.UpdateSubscriptionField"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	allowed := map[string]bool{
		"name": true, "price": true, "start_date": true, "end_date": true,
		"trial_end_date": true, "category_id": true, "notes": true,
		"is_active": true, "next_payment": true, "billing_cycle": true,
	}
	if !allowed[column] {
		return fmt.Errorf("%s: column %q is not updatable", op, column)
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	lockQuery := `SELECT ` + subscriptionColumns + `
				  FROM subscriptions
				  WHERE id = $1 AND user_id = $2
				  FOR UPDATE`
	old, err := scanSubscription(tx.QueryRowContext(ctx, lockQuery, id, userID))
	if err != nil {
		return wrapNotFound(op, err)
	}

	updateQuery := fmt.Sprintf(
		`UPDATE subscriptions SET %s = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`, column)
	if _, err = tx.ExecContext(ctx, updateQuery, value, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if writeHistory {
		if err = insertHistory(ctx, tx, old, map[string]any{column: value}, "update"); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// UpdateSubscription обновляет основные поля подписки целиком (mini-app PUT)
// в транзакции и возвращает количество изменённых строк. Флаг активности
// не затрагивается: приостановленная подписка остаётся приостановленной,
// снять паузу можно только явным изменением is_active. writeHistory
// включает запись в историю (для premium-пользователей).
func (s *Storage) UpdateSubscription(ctx context.Context, sub models.Subscription, writeHistory bool) (int, error) {
	const op = "storage.UpdateSubscription"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	lockQuery := `SELECT ` + subscriptionColumns + `
				  FROM subscriptions
				  WHERE id = $1 AND user_id = $2
				  FOR UPDATE`
	old, err := scanSubscription(tx.QueryRowContext(ctx, lockQuery, sub.ID, sub.UserID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	query := `UPDATE subscriptions
			  SET name = $1, price = $2, currency = $3, category_id = $4,
			      billing_cycle = $5, start_date = $6, next_payment = $7,
			      trial_end_date = $8, end_date = $9, notes = $10,
			      updated_at = CURRENT_TIMESTAMP
			  WHERE id = $11`
	if _, err = tx.ExecContext(ctx, query,
		sub.Name, sub.Price, sub.Currency, sub.CategoryID, sub.BillingCycle,
		sub.StartDate, sub.NextPayment, sub.TrialEndDate, sub.EndDate,
		sub.Notes, sub.ID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if writeHistory {
		changes := map[string]any{
			"name": sub.Name, "price": sub.Price, "currency": sub.Currency,
			"category_id": sub.CategoryID, "billing_cycle": sub.BillingCycle,
			"start_date": sub.StartDate, "next_payment": sub.NextPayment,
			"trial_end_date": sub.TrialEndDate, "end_date": sub.EndDate,
			"notes": sub.Notes,
		}
		if err = insertHistory(ctx, tx, old, changes, "update"); err != nil {
			return 0, fmt.Errorf("%s: %w", op, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return 1, nil
}

// RemoveSubscription удаляет подписку пользователя и возвращает количество
// удалённых строк. Связанные уведомления удаляются каскадно.
func (s *Storage) RemoveSubscription(ctx context.Context, id int, userID int64) (int, error) {
	const op = "storage.RemoveSubscription"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM subscriptions WHERE id = $1 AND user_id = $2`
	result, err := s.DB.ExecContext(ctx, query, id, userID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

func insertHistory(ctx context.Context, tx *sql.Tx, old *models.Subscription, changes map[string]any, action string) error {
	oldData, err := json.Marshal(old)
	if err != nil {
		return err
	}
	newData, err := json.Marshal(changes)
	if err != nil {
		return err
	}
	query := `INSERT INTO subscription_history (subscription_id, user_id, action, old_data, new_data)
			  VALUES ($1, $2, $3, $4, $5)`
	_, err = tx.ExecContext(ctx, query, old.ID, old.UserID, action, oldData, newData)
	return err
}
