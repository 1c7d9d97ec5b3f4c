package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"hotelbook/internal/models"

	sq "github.com/Masterminds/squirrel"
)

func (e executor) selectBookings(withRoom bool) sq.SelectBuilder {
	if !withRoom {
		return e.builder.Select(bookingColumns...).From("bookings b")
	}
	cols := append(append([]string{}, bookingColumns...), roomColumns...)
	return e.builder.Select(cols...).
		From("bookings b").
		Join("rooms r ON r.id = b.room_id").
		Join("categories c ON c.id = r.category_id")
}

func (e executor) queryBookings(ctx context.Context, q sq.SelectBuilder, withRoom bool) ([]*models.Booking, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build bookings query: %w", err)
	}

	rows, err := e.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer rows.Close()

	bookings := make([]*models.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows, withRoom)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

// overlapping narrows q to bookings sharing at least one night with r.
func overlapping(q sq.SelectBuilder, r models.DateRange) sq.SelectBuilder {
	return q.Where(sq.Lt{"b.start_date": models.FormatDate(r.End)}).
		Where(sq.Gt{"b.end_date": models.FormatDate(r.Start)})
}

// OverlappingBookings returns bookings of roomID intersecting r. roomID <= 0 means every room.
func (e executor) OverlappingBookings(ctx context.Context, roomID int64, r models.DateRange) ([]*models.Booking, error) {
	q := overlapping(e.selectBookings(false), r).OrderBy("b.room_id", "b.start_date")
	if roomID > 0 {
		q = q.Where(sq.Eq{"b.room_id": roomID})
	}
	return e.queryBookings(ctx, q, false)
}

// InsertBooking stores b and fills in its id. A clash with an existing
// booking of the same room surfaces as models.ErrConflict.
func (e executor) InsertBooking(ctx context.Context, b *models.Booking) error {
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now().UTC()
	}

	query, args, err := e.builder.Insert("bookings").
		Columns("user_id", "user_name", "room_id", "start_date", "end_date", "created_at").
		Values(b.UserID, b.UserName, b.RoomID, models.FormatDate(b.StartDate), models.FormatDate(b.EndDate), b.CreatedAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert booking: %w", err)
	}

	if err := e.q.QueryRowContext(ctx, query, args...).Scan(&b.ID); err != nil {
		switch {
		case isOverlapViolation(err), isUniqueViolation(err):
			return fmt.Errorf("%w: room %d is booked for %s", models.ErrConflict, b.RoomID, b.Range())
		case isForeignKeyViolation(err):
			return fmt.Errorf("%w: room %d", models.ErrNotFound, b.RoomID)
		default:
			return fmt.Errorf("failed to create booking: %w", err)
		}
	}
	return nil
}

func (e executor) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	query, args, err := e.selectBookings(true).Where(sq.Eq{"b.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build booking query: %w", err)
	}

	b, err := scanBooking(e.q.QueryRowContext(ctx, query, args...), true)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: booking %d", models.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return b, nil
}

func (e executor) ListUserBookings(ctx context.Context, userID int64) ([]*models.Booking, error) {
	q := e.selectBookings(true).
		Where(sq.Eq{"b.user_id": userID}).
		OrderBy("b.start_date", "b.id")
	return e.queryBookings(ctx, q, true)
}

// ListBookings is the manager view over all bookings.
func (e executor) ListBookings(ctx context.Context, filter models.BookingFilter) ([]*models.Booking, error) {
	q := e.selectBookings(true).OrderBy("b.start_date", "b.id")
	if filter.DateRange != nil {
		q = overlapping(q, *filter.DateRange)
	}
	return e.queryBookings(ctx, q, true)
}

// DeleteUserBooking removes a booking only when it belongs to userID,
// so someone else's booking is indistinguishable from a missing one.
func (e executor) DeleteUserBooking(ctx context.Context, id, userID int64) (*models.Booking, error) {
	query, args, err := e.builder.Delete("bookings").
		Where(sq.Eq{"id": id, "user_id": userID}).
		Suffix("RETURNING id, user_id, user_name, room_id, start_date, end_date, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build delete booking: %w", err)
	}

	b, err := scanBooking(e.q.QueryRowContext(ctx, query, args...), false)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: booking %d", models.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to delete booking: %w", err)
	}
	return b, nil
}
