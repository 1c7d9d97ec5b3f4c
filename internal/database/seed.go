package database

import (
	"context"
	"fmt"

	"hotelbook/internal/models"
)

// SeedCatalog loads the bootstrap catalog into an empty database.
// It returns the number of rooms created; a database that already has
// categories is left untouched.
func (db *DB) SeedCatalog(ctx context.Context, seeds []models.CategorySeed) (int, error) {
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM categories").Scan(&count); err != nil {
		return 0, fmt.Errorf("count categories: %w", err)
	}
	if count > 0 || len(seeds) == 0 {
		return 0, nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	store := executor{q: tx, builder: db.builder}
	rooms := 0
	for _, seed := range seeds {
		category := &models.Category{Name: seed.Name}
		if err := category.Validate(); err != nil {
			return 0, err
		}
		if err := store.CreateCategory(ctx, category); err != nil {
			return 0, err
		}

		for _, rs := range seed.Rooms {
			room := &models.Room{
				Number:     rs.Number,
				CategoryID: category.ID,
				Price:      rs.Price,
				MaxGuests:  rs.MaxGuests,
				IsActive:   rs.IsActive == nil || *rs.IsActive,
			}
			if err := room.Validate(); err != nil {
				return 0, fmt.Errorf("room %q: %w", rs.Number, err)
			}
			if err := store.CreateRoom(ctx, room); err != nil {
				return 0, err
			}
			rooms++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	db.logger.Info().Int("categories", len(seeds)).Int("rooms", rooms).Msg("catalog seeded")
	return rooms, nil
}
