package domain

import (
	"context"

	"hotelbook/internal/models"
)

// BookingReader yields candidate bookings whose stored range intersects r.
// roomID 0 means every room.
type BookingReader interface {
	OverlappingBookings(ctx context.Context, roomID int64, r models.DateRange) ([]*models.Booking, error)
}

// BookingTx is the view of the record store inside the booking transaction.
// Everything read through it is consistent with the insert that follows.
type BookingTx interface {
	BookingReader
	GetRoom(ctx context.Context, id int64) (*models.Room, error)
	InsertBooking(ctx context.Context, booking *models.Booking) error
}

type BookingRepository interface {
	BookingReader
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx BookingTx) error) error
	GetBooking(ctx context.Context, id int64) (*models.Booking, error)
	ListUserBookings(ctx context.Context, userID int64) ([]*models.Booking, error)
	ListBookings(ctx context.Context, filter models.BookingFilter) ([]*models.Booking, error)
	DeleteUserBooking(ctx context.Context, id, userID int64) (*models.Booking, error)
}

type CatalogRepository interface {
	GetRoom(ctx context.Context, id int64) (*models.Room, error)
	ListRooms(ctx context.Context, filter models.RoomListFilter) ([]*models.Room, error)
	SearchRooms(ctx context.Context, filter models.RoomFilter) ([]*models.Room, error)
	CreateRoom(ctx context.Context, room *models.Room) error
	UpdateRoom(ctx context.Context, room *models.Room) error
	DeleteRoom(ctx context.Context, id int64) error
	SetRoomActive(ctx context.Context, id int64, active bool) (*models.Room, error)

	ListCategories(ctx context.Context) ([]*models.Category, error)
	GetCategory(ctx context.Context, id int64) (*models.Category, error)
	CreateCategory(ctx context.Context, category *models.Category) error
	UpdateCategory(ctx context.Context, category *models.Category) error
	DeleteCategory(ctx context.Context, id int64) error
}

// CatalogCache keeps read-mostly catalog records close to the API.
// A miss is reported as (nil, false, nil).
type CatalogCache interface {
	GetRoom(ctx context.Context, id int64) (*models.Room, bool, error)
	SetRoom(ctx context.Context, room *models.Room) error
	InvalidateRoom(ctx context.Context, id int64) error

	GetCategory(ctx context.Context, id int64) (*models.Category, bool, error)
	SetCategory(ctx context.Context, category *models.Category) error
	GetCategories(ctx context.Context) ([]*models.Category, bool, error)
	SetCategories(ctx context.Context, categories []*models.Category) error

	// InvalidateAll drops every catalog entry; rooms embed their category.
	InvalidateAll(ctx context.Context) error
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}
