package database

import (
	"context"
	"io"
	"testing"
	"time"

	"hotelbook/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	logger := zerolog.New(io.Discard)
	db, err := NewDB(":memory:", &logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func day(s string) time.Time {
	t, err := models.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return t
}

func dr(start, end string) models.DateRange {
	return models.NewDateRange(day(start), day(end))
}

func createCategory(t *testing.T, db *DB, name string) *models.Category {
	t.Helper()
	c := &models.Category{Name: name}
	require.NoError(t, db.CreateCategory(context.Background(), c))
	return c
}

func createRoom(t *testing.T, db *DB, categoryID int64, number string, price models.Money, guests int, active bool) *models.Room {
	t.Helper()
	r := &models.Room{Number: number, CategoryID: categoryID, Price: price, MaxGuests: guests, IsActive: active}
	require.NoError(t, db.CreateRoom(context.Background(), r))
	return r
}

func book(t *testing.T, db *DB, userID, roomID int64, start, end string) *models.Booking {
	t.Helper()
	b := &models.Booking{UserID: userID, UserName: "guest", RoomID: roomID, StartDate: day(start), EndDate: day(end)}
	require.NoError(t, db.InsertBooking(context.Background(), b))
	return b
}
