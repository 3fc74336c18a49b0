package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/subscription-organizer/internal/models"
)

// ListCategories возвращает все предустановленные категории.
func (s *Storage) ListCategories(ctx context.Context) ([]*models.Category, error) {
	const op = "storage.ListCategories"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, icon, color, translation_ru, translation_en
			  FROM categories
			  ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Icon, &c.Color,
			&c.TranslationRu, &c.TranslationEn); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ReadCategory возвращает категорию по ID.
func (s *Storage) ReadCategory(ctx context.Context, id int) (*models.Category, error) {
	const op = "storage.ReadCategory"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, icon, color, translation_ru, translation_en
			  FROM categories
			  WHERE id = $1`
	var c models.Category
	row := s.DB.QueryRowContext(ctx, query, id)
	if err := row.Scan(&c.ID, &c.Name, &c.Icon, &c.Color,
		&c.TranslationRu, &c.TranslationEn); err != nil {
		return nil, wrapNotFound(op, err)
	}
	return &c, nil
}
