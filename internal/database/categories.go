package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"hotelbook/internal/models"

	sq "github.com/Masterminds/squirrel"
)

func (e executor) ListCategories(ctx context.Context) ([]*models.Category, error) {
	query, args, err := e.builder.Select("id", "name").From("categories").OrderBy("id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build categories query: %w", err)
	}

	rows, err := e.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	categories := make([]*models.Category, 0)
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, &c)
	}
	return categories, rows.Err()
}

func (e executor) GetCategory(ctx context.Context, id int64) (*models.Category, error) {
	query, args, err := e.builder.Select("id", "name").From("categories").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build category query: %w", err)
	}

	var c models.Category
	if err := e.q.QueryRowContext(ctx, query, args...).Scan(&c.ID, &c.Name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: category %d", models.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return &c, nil
}

func (e executor) CreateCategory(ctx context.Context, category *models.Category) error {
	query, args, err := e.builder.Insert("categories").
		Columns("name").
		Values(category.Name).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert category: %w", err)
	}

	if err := e.q.QueryRowContext(ctx, query, args...).Scan(&category.ID); err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

func (e executor) UpdateCategory(ctx context.Context, category *models.Category) error {
	query, args, err := e.builder.Update("categories").
		Set("name", category.Name).
		Where(sq.Eq{"id": category.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update category: %w", err)
	}

	res, err := e.q.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}
	return expectAffected(res, "category", category.ID)
}

// DeleteCategory cascades to the category's rooms and their bookings.
func (e executor) DeleteCategory(ctx context.Context, id int64) error {
	query, args, err := e.builder.Delete("categories").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete category: %w", err)
	}

	res, err := e.q.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return expectAffected(res, "category", id)
}
