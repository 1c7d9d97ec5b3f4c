package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hotelbook/internal/domain"
	"hotelbook/internal/events"
	"hotelbook/internal/logging"
	"hotelbook/internal/metrics"
	"hotelbook/internal/models"

	"github.com/rs/zerolog"
)

type BookingService struct {
	repo     domain.BookingRepository
	eventBus domain.EventPublisher
	detector ConflictDetector
	loc      *time.Location
	now      func() time.Time
	logger   *zerolog.Logger
}

type BookingOption func(*BookingService)

// WithClock overrides the clock used to decide what "today" is.
func WithClock(now func() time.Time) BookingOption {
	return func(s *BookingService) {
		s.now = now
	}
}

// NewBookingService builds the booking lifecycle manager. loc is the hotel's
// timezone for the past-date rule; nil means UTC.
func NewBookingService(repo domain.BookingRepository, eventBus domain.EventPublisher, loc *time.Location, logger *zerolog.Logger, opts ...BookingOption) *BookingService {
	if loc == nil {
		loc = time.UTC
	}
	s := &BookingService{
		repo:     repo,
		eventBus: eventBus,
		loc:      loc,
		now:      time.Now,
		logger:   logging.Component(logger, "booking"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateBooking books req.RoomID for the caller. Preconditions are checked in
// a fixed order inside one transaction, and the first failure is returned:
// missing room, inactive room, invalid range, past start, overlap.
func (s *BookingService) CreateBooking(ctx context.Context, caller *models.Caller, req models.CreateBookingRequest) (*models.Booking, error) {
	if err := requireUser(caller); err != nil {
		return nil, err
	}

	candidate := models.NewDateRange(req.StartDate, req.EndDate)
	today := models.Today(s.now(), s.loc)

	booking := &models.Booking{
		UserID:    caller.UserID,
		UserName:  caller.Username,
		RoomID:    req.RoomID,
		StartDate: candidate.Start,
		EndDate:   candidate.End,
	}

	var room *models.Room
	err := s.repo.WithinTx(ctx, func(ctx context.Context, tx domain.BookingTx) error {
		var err error
		room, err = tx.GetRoom(ctx, req.RoomID)
		if err != nil {
			return err
		}
		if !room.IsActive {
			return fmt.Errorf("%w: room %d", models.ErrRoomInactive, room.ID)
		}
		if !candidate.Valid() {
			return fmt.Errorf("%w: %s", models.ErrInvalidRange, candidate)
		}
		if candidate.Start.Before(today) {
			return fmt.Errorf("%w: %s is before %s", models.ErrPastDate, models.FormatDate(candidate.Start), models.FormatDate(today))
		}

		conflict, err := s.detector.HasConflict(ctx, tx, room.ID, candidate, 0)
		if err != nil {
			return err
		}
		if conflict {
			return fmt.Errorf("%w: room %d for %s", models.ErrConflict, room.ID, candidate)
		}

		booking.CreatedAt = s.now().UTC()
		return tx.InsertBooking(ctx, booking)
	})
	if err != nil {
		if reason := rejectionReason(err); reason != "" {
			metrics.IncBookingRejection(reason)
			s.logger.Info().Err(err).Int64("user_id", caller.UserID).Int64("room_id", req.RoomID).Str("reason", reason).Msg("booking rejected")
		}
		return nil, err
	}

	booking.Room = room
	s.logger.Info().Int64("booking_id", booking.ID).Int64("user_id", caller.UserID).Int64("room_id", room.ID).Str("range", candidate.String()).Msg("booking created")
	s.publishEvent(events.EventBookingCreated, booking)
	return booking, nil
}

// CancelBooking deletes one of the caller's own bookings. A booking owned by
// someone else is reported as not found.
func (s *BookingService) CancelBooking(ctx context.Context, caller *models.Caller, bookingID int64) (*models.Booking, error) {
	if err := requireUser(caller); err != nil {
		return nil, err
	}

	booking, err := s.repo.DeleteUserBooking(ctx, bookingID, caller.UserID)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("booking_id", booking.ID).Int64("user_id", caller.UserID).Msg("booking cancelled")
	s.publishEvent(events.EventBookingCancelled, booking)
	return booking, nil
}

// ListMine returns the caller's bookings ordered by start date.
func (s *BookingService) ListMine(ctx context.Context, caller *models.Caller) ([]*models.Booking, error) {
	if err := requireUser(caller); err != nil {
		return nil, err
	}
	return s.repo.ListUserBookings(ctx, caller.UserID)
}

// ListAll is the staff view over every booking, optionally narrowed to those
// overlapping filter.DateRange.
func (s *BookingService) ListAll(ctx context.Context, caller *models.Caller, filter models.BookingFilter) ([]*models.Booking, error) {
	if err := requireStaff(caller); err != nil {
		return nil, err
	}
	if filter.DateRange != nil && !filter.DateRange.Valid() {
		return nil, fmt.Errorf("%w: %s", models.ErrInvalidRange, filter.DateRange)
	}
	return s.repo.ListBookings(ctx, filter)
}

func (s *BookingService) GetBooking(ctx context.Context, caller *models.Caller, id int64) (*models.Booking, error) {
	if err := requireStaff(caller); err != nil {
		return nil, err
	}
	return s.repo.GetBooking(ctx, id)
}

func (s *BookingService) publishEvent(eventType string, booking *models.Booking) {
	if s.eventBus == nil {
		return
	}

	payload := events.BookingEventPayload{
		BookingID: booking.ID,
		UserID:    booking.UserID,
		UserName:  booking.UserName,
		RoomID:    booking.RoomID,
		StartDate: models.FormatDate(booking.StartDate),
		EndDate:   models.FormatDate(booking.EndDate),
	}
	if booking.Room != nil {
		payload.RoomNumber = booking.Room.Number
	}

	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Int64("booking_id", booking.ID).Msg("publish event error")
	}
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return "not_found"
	case errors.Is(err, models.ErrRoomInactive):
		return "room_inactive"
	case errors.Is(err, models.ErrInvalidRange):
		return "invalid_range"
	case errors.Is(err, models.ErrPastDate):
		return "past_date"
	case errors.Is(err, models.ErrConflict):
		return "conflict"
	default:
		return ""
	}
}
