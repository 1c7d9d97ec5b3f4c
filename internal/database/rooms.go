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

func (e executor) selectRooms() sq.SelectBuilder {
	return e.builder.Select(roomColumns...).
		From("rooms r").
		Join("categories c ON c.id = r.category_id")
}

func (e executor) queryRooms(ctx context.Context, q sq.SelectBuilder) ([]*models.Room, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build rooms query: %w", err)
	}

	rows, err := e.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query rooms: %w", err)
	}
	defer rows.Close()

	rooms := make([]*models.Room, 0)
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan room: %w", err)
		}
		rooms = append(rooms, room)
	}
	return rooms, rows.Err()
}

// GetRoom returns the room with its category attached.
func (e executor) GetRoom(ctx context.Context, id int64) (*models.Room, error) {
	query, args, err := e.selectRooms().Where(sq.Eq{"r.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build room query: %w", err)
	}

	room, err := scanRoom(e.q.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: room %d", models.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get room: %w", err)
	}
	return room, nil
}

// ListRooms returns every room, optionally narrowed by activity, ordered by id.
func (e executor) ListRooms(ctx context.Context, filter models.RoomListFilter) ([]*models.Room, error) {
	q := e.selectRooms().OrderBy("r.id")
	if filter.IsActive != nil {
		q = q.Where(sq.Eq{"r.is_active": *filter.IsActive})
	}
	return e.queryRooms(ctx, q)
}

// SearchRooms applies the attribute predicates of filter to active rooms.
// The date range is not evaluated here; callers exclude booked rooms.
func (e executor) SearchRooms(ctx context.Context, filter models.RoomFilter) ([]*models.Room, error) {
	q := e.selectRooms().Where(sq.Eq{"r.is_active": true}).OrderBy("r.id")
	if filter.MinPrice != nil {
		q = q.Where(sq.GtOrEq{"r.price_cents": int64(*filter.MinPrice)})
	}
	if filter.MaxPrice != nil {
		q = q.Where(sq.LtOrEq{"r.price_cents": int64(*filter.MaxPrice)})
	}
	if filter.MinGuests != nil {
		q = q.Where(sq.GtOrEq{"r.max_guests": *filter.MinGuests})
	}
	return e.queryRooms(ctx, q)
}

func (e executor) CreateRoom(ctx context.Context, room *models.Room) error {
	now := time.Now().UTC()
	query, args, err := e.builder.Insert("rooms").
		Columns("category_id", "number", "price_cents", "max_guests", "is_active", "created_at", "updated_at").
		Values(room.CategoryID, room.Number, int64(room.Price), room.MaxGuests, room.IsActive, now, now).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert room: %w", err)
	}

	var id int64
	if err := e.q.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		return roomWriteError(err, room)
	}

	created, err := e.GetRoom(ctx, id)
	if err != nil {
		return err
	}
	*room = *created
	return nil
}

func (e executor) UpdateRoom(ctx context.Context, room *models.Room) error {
	query, args, err := e.builder.Update("rooms").
		Set("category_id", room.CategoryID).
		Set("number", room.Number).
		Set("price_cents", int64(room.Price)).
		Set("max_guests", room.MaxGuests).
		Set("is_active", room.IsActive).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": room.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update room: %w", err)
	}

	res, err := e.q.ExecContext(ctx, query, args...)
	if err != nil {
		return roomWriteError(err, room)
	}
	if err := expectAffected(res, "room", room.ID); err != nil {
		return err
	}

	updated, err := e.GetRoom(ctx, room.ID)
	if err != nil {
		return err
	}
	*room = *updated
	return nil
}

// DeleteRoom removes the room; its bookings go with it (ON DELETE CASCADE).
func (e executor) DeleteRoom(ctx context.Context, id int64) error {
	query, args, err := e.builder.Delete("rooms").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete room: %w", err)
	}

	res, err := e.q.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete room: %w", err)
	}
	return expectAffected(res, "room", id)
}

func (e executor) SetRoomActive(ctx context.Context, id int64, active bool) (*models.Room, error) {
	query, args, err := e.builder.Update("rooms").
		Set("is_active", active).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build room activity update: %w", err)
	}

	res, err := e.q.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update room activity: %w", err)
	}
	if err := expectAffected(res, "room", id); err != nil {
		return nil, err
	}
	return e.GetRoom(ctx, id)
}

func roomWriteError(err error, room *models.Room) error {
	switch {
	case isUniqueViolation(err):
		return fmt.Errorf("%w: %q", models.ErrDuplicateRoomNumber, room.Number)
	case isForeignKeyViolation(err):
		return fmt.Errorf("%w: category %d", models.ErrNotFound, room.CategoryID)
	default:
		return fmt.Errorf("failed to save room: %w", err)
	}
}

func expectAffected(res sql.Result, entity string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s %d", models.ErrNotFound, entity, id)
	}
	return nil
}
