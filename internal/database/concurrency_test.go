package database

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"hotelbook/internal/domain"
	"hotelbook/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// checkThenInsert is the naive create path; WithinTx must make it atomic.
func checkThenInsert(ctx context.Context, db *DB, b *models.Booking) error {
	return db.WithinTx(ctx, func(ctx context.Context, tx domain.BookingTx) error {
		existing, err := tx.OverlappingBookings(ctx, b.RoomID, b.Range())
		if err != nil {
			return err
		}
		for _, other := range existing {
			if other.Range().Overlaps(b.Range()) {
				return fmt.Errorf("%w: booking %d", models.ErrConflict, other.ID)
			}
		}
		return tx.InsertBooking(ctx, b)
	})
}

func TestConcurrentBooking(t *testing.T) {
	logger := zerolog.Nop()
	dbPath := filepath.Join(t.TempDir(), "concurrency.db")
	db, err := NewDB(dbPath, &logger)
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	cat := createCategory(t, db, "Lux")
	room := createRoom(t, db, cat.ID, "101", 100_00, 2, true)

	const numGoroutines = 10
	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	results := make(chan error, numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			defer wg.Done()
			// все диапазоны пересекаются на ночь 2030-06-11
			booking := &models.Booking{
				UserID:    int64(id),
				UserName:  "User",
				RoomID:    room.ID,
				StartDate: day("2030-06-10").AddDate(0, 0, id%2),
				EndDate:   day("2030-06-12"),
			}
			results <- checkThenInsert(ctx, db, booking)
		}(i)
	}

	wg.Wait()
	close(results)

	successCount := 0
	conflictCount := 0
	for res := range results {
		switch {
		case res == nil:
			successCount++
		case errors.Is(res, models.ErrConflict):
			conflictCount++
		default:
			t.Errorf("unexpected error: %v", res)
		}
	}

	assert.Equal(t, 1, successCount, "exactly one booking should succeed")
	assert.Equal(t, numGoroutines-1, conflictCount)

	all, err := db.ListBookings(ctx, models.BookingFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
