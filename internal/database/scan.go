package database

import (
	"fmt"
	"time"

	"hotelbook/internal/models"
)

type rowScanner interface {
	Scan(dest ...any) error
}

var (
	roomColumns = []string{
		"r.id", "r.number", "r.category_id", "c.name", "r.price_cents",
		"r.max_guests", "r.is_active", "r.created_at", "r.updated_at",
	}
	bookingColumns = []string{
		"b.id", "b.user_id", "b.user_name", "b.room_id", "b.start_date", "b.end_date", "b.created_at",
	}
)

// dateValue scans a calendar date stored as DATE (postgres) or TEXT (sqlite).
type dateValue struct {
	dst *time.Time
}

func (d dateValue) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*d.dst = models.Day(v)
		return nil
	case string:
		return d.parse(v)
	case []byte:
		return d.parse(string(v))
	default:
		return fmt.Errorf("unsupported date value %T", src)
	}
}

func (d dateValue) parse(s string) error {
	if len(s) > len(models.DateLayout) {
		s = s[:len(models.DateLayout)]
	}
	t, err := time.Parse(models.DateLayout, s)
	if err != nil {
		return fmt.Errorf("parse date %q: %w", s, err)
	}
	*d.dst = t
	return nil
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// timeValue scans timestamps regardless of how the driver returns them.
type timeValue struct {
	dst *time.Time
}

func (t timeValue) Scan(src any) error {
	var s string
	switch v := src.(type) {
	case nil:
		*t.dst = time.Time{}
		return nil
	case time.Time:
		*t.dst = v.UTC()
		return nil
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("unsupported timestamp value %T", src)
	}

	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			*t.dst = parsed.UTC()
			return nil
		}
	}
	return fmt.Errorf("parse timestamp %q", s)
}

func scanRoom(s rowScanner) (*models.Room, error) {
	var (
		room         models.Room
		categoryName string
		priceCents   int64
	)
	err := s.Scan(&room.ID, &room.Number, &room.CategoryID, &categoryName, &priceCents,
		&room.MaxGuests, &room.IsActive, timeValue{&room.CreatedAt}, timeValue{&room.UpdatedAt})
	if err != nil {
		return nil, err
	}
	room.Price = models.Money(priceCents)
	room.Category = &models.Category{ID: room.CategoryID, Name: categoryName}
	return &room, nil
}

func scanBooking(s rowScanner, withRoom bool) (*models.Booking, error) {
	var b models.Booking
	dest := []any{&b.ID, &b.UserID, &b.UserName, &b.RoomID,
		dateValue{&b.StartDate}, dateValue{&b.EndDate}, timeValue{&b.CreatedAt}}

	var (
		room         models.Room
		categoryName string
		priceCents   int64
	)
	if withRoom {
		dest = append(dest, &room.ID, &room.Number, &room.CategoryID, &categoryName, &priceCents,
			&room.MaxGuests, &room.IsActive, timeValue{&room.CreatedAt}, timeValue{&room.UpdatedAt})
	}

	if err := s.Scan(dest...); err != nil {
		return nil, err
	}
	if withRoom {
		room.Price = models.Money(priceCents)
		room.Category = &models.Category{ID: room.CategoryID, Name: categoryName}
		b.Room = &room
	}
	return &b, nil
}
