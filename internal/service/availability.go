package service

import (
	"context"
	"fmt"

	"hotelbook/internal/domain"
	"hotelbook/internal/logging"
	"hotelbook/internal/models"

	"github.com/rs/zerolog"
)

// AvailabilityService answers "which rooms can I book" queries.
type AvailabilityService struct {
	catalog  domain.CatalogRepository
	bookings domain.BookingReader
	detector ConflictDetector
	logger   *zerolog.Logger
}

func NewAvailabilityService(catalog domain.CatalogRepository, bookings domain.BookingReader, logger *zerolog.Logger) *AvailabilityService {
	return &AvailabilityService{
		catalog:  catalog,
		bookings: bookings,
		logger:   logging.Component(logger, "availability"),
	}
}

// Search returns active rooms matching filter, ordered by id with their category.
// With a complete date range, rooms booked on any night of it are left out.
func (s *AvailabilityService) Search(ctx context.Context, caller *models.Caller, filter models.RoomFilter) ([]*models.Room, error) {
	if err := RequireRole(caller); err != nil {
		return nil, err
	}
	if filter.DateRange != nil && !filter.DateRange.Valid() {
		return nil, fmt.Errorf("%w: %s", models.ErrInvalidRange, filter.DateRange)
	}

	rooms, err := s.catalog.SearchRooms(ctx, filter)
	if err != nil {
		return nil, err
	}
	if filter.DateRange == nil || len(rooms) == 0 {
		return rooms, nil
	}

	booked, err := s.detector.BookedRoomIDs(ctx, s.bookings, *filter.DateRange)
	if err != nil {
		return nil, err
	}

	available := make([]*models.Room, 0, len(rooms))
	for _, room := range rooms {
		if _, ok := booked[room.ID]; !ok {
			available = append(available, room)
		}
	}

	s.logger.Debug().
		Str("range", filter.DateRange.String()).
		Int("matched", len(rooms)).
		Int("available", len(available)).
		Msg("room search")
	return available, nil
}
