package service

import (
	"context"

	"hotelbook/internal/domain"
	"hotelbook/internal/models"
)

// ConflictDetector decides whether a candidate range collides with existing
// bookings. The store only prefilters by range; the decision is always
// models.Overlaps so search and create agree on what "booked" means.
type ConflictDetector struct{}

// HasConflict reports whether roomID has a booking other than excludeBookingID
// that overlaps candidate. src is either the repository or an open transaction.
func (ConflictDetector) HasConflict(ctx context.Context, src domain.BookingReader, roomID int64, candidate models.DateRange, excludeBookingID int64) (bool, error) {
	bookings, err := src.OverlappingBookings(ctx, roomID, candidate)
	if err != nil {
		return false, err
	}
	for _, b := range bookings {
		if b.RoomID != roomID || b.ID == excludeBookingID {
			continue
		}
		if models.Overlaps(b.Range(), candidate) {
			return true, nil
		}
	}
	return false, nil
}

// BookedRoomIDs returns the rooms with at least one booking overlapping r.
func (ConflictDetector) BookedRoomIDs(ctx context.Context, src domain.BookingReader, r models.DateRange) (map[int64]struct{}, error) {
	bookings, err := src.OverlappingBookings(ctx, 0, r)
	if err != nil {
		return nil, err
	}
	booked := make(map[int64]struct{}, len(bookings))
	for _, b := range bookings {
		if models.Overlaps(b.Range(), r) {
			booked[b.RoomID] = struct{}{}
		}
	}
	return booked, nil
}
