package database

import (
	"context"
	"errors"
	"testing"

	"hotelbook/internal/domain"
	"hotelbook/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertBooking_OverlapGuard(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	cat := createCategory(t, db, "Lux")
	room := createRoom(t, db, cat.ID, "101", 100_00, 2, true)
	other := createRoom(t, db, cat.ID, "102", 100_00, 2, true)

	book(t, db, 1, room.ID, "2030-06-10", "2030-06-15")

	tests := []struct {
		name       string
		roomID     int64
		start, end string
		wantErr    error
	}{
		{"overlapping tail", room.ID, "2030-06-14", "2030-06-16", models.ErrConflict},
		{"contained", room.ID, "2030-06-11", "2030-06-12", models.ErrConflict},
		{"identical", room.ID, "2030-06-10", "2030-06-15", models.ErrConflict},
		{"ends on check-in day", room.ID, "2030-06-08", "2030-06-10", nil},
		{"starts on check-out day", room.ID, "2030-06-15", "2030-06-17", nil},
		{"other room same dates", other.ID, "2030-06-10", "2030-06-15", nil},
		{"unknown room", 999, "2030-07-01", "2030-07-02", models.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &models.Booking{UserID: 2, RoomID: tt.roomID, StartDate: day(tt.start), EndDate: day(tt.end)}
			err := db.InsertBooking(ctx, b)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotZero(t, b.ID)
		})
	}
}

func TestInsertBooking_RejectsEmptyRange(t *testing.T) {
	db := setupTestDB(t)
	cat := createCategory(t, db, "Lux")
	room := createRoom(t, db, cat.ID, "101", 100_00, 2, true)

	err := db.InsertBooking(context.Background(), &models.Booking{
		UserID: 1, RoomID: room.ID, StartDate: day("2030-06-10"), EndDate: day("2030-06-10"),
	})
	assert.Error(t, err)
}

func TestOverlappingBookings(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	cat := createCategory(t, db, "Lux")
	r1 := createRoom(t, db, cat.ID, "101", 100_00, 2, true)
	r2 := createRoom(t, db, cat.ID, "102", 100_00, 2, true)

	book(t, db, 1, r1.ID, "2030-06-10", "2030-06-12")
	book(t, db, 1, r2.ID, "2030-06-11", "2030-06-13")
	book(t, db, 1, r1.ID, "2030-06-20", "2030-06-22")

	got, err := db.OverlappingBookings(ctx, r1.ID, dr("2030-06-11", "2030-06-21"))
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = db.OverlappingBookings(ctx, 0, dr("2030-06-12", "2030-06-13"))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, r2.ID, got[0].RoomID)

	got, err = db.OverlappingBookings(ctx, 0, dr("2030-06-13", "2030-06-20"))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestBookingQueries(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	cat := createCategory(t, db, "Lux")
	room := createRoom(t, db, cat.ID, "101", 100_00, 2, true)

	b1 := book(t, db, 7, room.ID, "2030-06-20", "2030-06-22")
	b2 := book(t, db, 7, room.ID, "2030-06-10", "2030-06-12")
	book(t, db, 8, room.ID, "2030-07-01", "2030-07-03")

	got, err := db.GetBooking(ctx, b1.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.UserID)
	assert.Equal(t, day("2030-06-20"), got.StartDate)
	assert.Equal(t, day("2030-06-22"), got.EndDate)
	require.NotNil(t, got.Room)
	assert.Equal(t, "101", got.Room.Number)
	assert.Equal(t, "Lux", got.Room.Category.Name)

	mine, err := db.ListUserBookings(ctx, 7)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, b2.ID, mine[0].ID)
	assert.Equal(t, b1.ID, mine[1].ID)

	all, err := db.ListBookings(ctx, models.BookingFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	june := dr("2030-06-01", "2030-07-01")
	inJune, err := db.ListBookings(ctx, models.BookingFilter{DateRange: &june})
	require.NoError(t, err)
	assert.Len(t, inJune, 2)

	_, err = db.GetBooking(ctx, 999)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestDeleteUserBooking_OwnerScoped(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	cat := createCategory(t, db, "Lux")
	room := createRoom(t, db, cat.ID, "101", 100_00, 2, true)
	b := book(t, db, 7, room.ID, "2030-06-10", "2030-06-12")

	_, err := db.DeleteUserBooking(ctx, b.ID, 8)
	assert.ErrorIs(t, err, models.ErrNotFound)

	deleted, err := db.DeleteUserBooking(ctx, b.ID, 7)
	require.NoError(t, err)
	assert.Equal(t, b.ID, deleted.ID)
	assert.Equal(t, room.ID, deleted.RoomID)
	assert.Equal(t, day("2030-06-10"), deleted.StartDate)

	_, err = db.DeleteUserBooking(ctx, b.ID, 7)
	assert.ErrorIs(t, err, models.ErrNotFound)

	// освободившиеся даты снова доступны
	book(t, db, 8, room.ID, "2030-06-10", "2030-06-12")
}

func TestWithinTx_RollbackOnError(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	cat := createCategory(t, db, "Lux")
	room := createRoom(t, db, cat.ID, "101", 100_00, 2, true)
	boom := errors.New("boom")

	err := db.WithinTx(ctx, func(ctx context.Context, tx domain.BookingTx) error {
		b := &models.Booking{UserID: 1, RoomID: room.ID, StartDate: day("2030-06-10"), EndDate: day("2030-06-12")}
		require.NoError(t, tx.InsertBooking(ctx, b))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	all, err := db.ListBookings(ctx, models.BookingFilter{})
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestWithinTx_ReadsThroughTransaction(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	cat := createCategory(t, db, "Lux")
	room := createRoom(t, db, cat.ID, "101", 100_00, 2, true)

	err := db.WithinTx(ctx, func(ctx context.Context, tx domain.BookingTx) error {
		got, err := tx.GetRoom(ctx, room.ID)
		if err != nil {
			return err
		}
		b := &models.Booking{UserID: 1, RoomID: got.ID, StartDate: day("2030-06-10"), EndDate: day("2030-06-12")}
		if err := tx.InsertBooking(ctx, b); err != nil {
			return err
		}

		existing, err := tx.OverlappingBookings(ctx, got.ID, dr("2030-06-11", "2030-06-12"))
		if err != nil {
			return err
		}
		assert.Len(t, existing, 1)
		return nil
	})
	require.NoError(t, err)
}
