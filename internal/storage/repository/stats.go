package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/magabrotheeeer/subscription-organizer/internal/lib/monthly"
	"github.com/magabrotheeeer/subscription-organizer/internal/models"
)

// GetAggregateStats считает статистику пользователя: количество подписок,
// месячный эквивалент трат и разбивку по категориям. Приведение к месячному
// эквиваленту делается в Go, чтобы правила конверсии жили в одном месте.
func (s *Storage) GetAggregateStats(ctx context.Context, userID int64) (*models.AggregateStats, error) {
	const op = "storage.GetAggregateStats"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT s.price, s.currency, s.billing_cycle, s.is_active,
			      s.category_id, COALESCE(c.name, 'Other')
			  FROM subscriptions s
			  LEFT JOIN categories c ON c.id = s.category_id
			  WHERE s.user_id = $1`
	rows, err := s.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	stats := &models.AggregateStats{}
	byCategory := make(map[string]*models.CategoryCost)
	var order []string

	for rows.Next() {
		var price float64
		var currency, cycle, categoryName string
		var isActive bool
		var categoryID sql.NullInt64
		if err := rows.Scan(&price, &currency, &cycle, &isActive,
			&categoryID, &categoryName); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		stats.TotalCount++
		if stats.Currency == "" {
			stats.Currency = currency
		}
		if !isActive {
			continue
		}
		stats.ActiveCount++

		equivalent := monthly.Equivalent(price, cycle)
		stats.MonthlySum += equivalent

		cost, ok := byCategory[categoryName]
		if !ok {
			cost = &models.CategoryCost{CategoryName: categoryName}
			if categoryID.Valid {
				v := int(categoryID.Int64)
				cost.CategoryID = &v
			}
			byCategory[categoryName] = cost
			order = append(order, categoryName)
		}
		cost.MonthlySum += equivalent
		cost.Count++
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	stats.YearlySum = stats.MonthlySum * 12
	for _, name := range order {
		stats.ByCategory = append(stats.ByCategory, *byCategory[name])
	}
	return stats, nil
}

// ListUpcomingRenewals возвращает активные подписки со списанием
// в ближайшие days дней.
func (s *Storage) ListUpcomingRenewals(ctx context.Context, userID int64, days int) ([]*models.UpcomingRenewal, error) {
	const op = "storage.ListUpcomingRenewals"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, price, currency, next_payment
			  FROM subscriptions
			  WHERE user_id = $1
			    AND is_active = TRUE
			    AND next_payment BETWEEN CURRENT_DATE AND CURRENT_DATE + $2 * INTERVAL '1 day'
			  ORDER BY next_payment, id`
	rows, err := s.DB.QueryContext(ctx, query, userID, days)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.UpcomingRenewal
	for rows.Next() {
		var item models.UpcomingRenewal
		if err := rows.Scan(&item.SubscriptionID, &item.Name, &item.Price,
			&item.Currency, &item.NextPayment); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// GetAdminStats возвращает сводку по всему боту для админ-панели.
func (s *Storage) GetAdminStats(ctx context.Context, now time.Time) (*models.AdminStats, error) {
	const op = "storage.GetAdminStats"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT
			      (SELECT COUNT(*) FROM users),
			      (SELECT COUNT(*) FROM users WHERE is_premium = TRUE),
			      (SELECT COUNT(*) FROM subscriptions),
			      (SELECT COUNT(*) FROM users WHERE last_active::DATE = $1::DATE)`
	var stats models.AdminStats
	if err := s.DB.QueryRowContext(ctx, query, now).Scan(
		&stats.TotalUsers, &stats.PremiumUsers,
		&stats.TotalSubscriptions, &stats.ActiveToday); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &stats, nil
}
