package service

import (
	"context"

	"hotelbook/internal/domain"
	"hotelbook/internal/events"
	"hotelbook/internal/logging"
	"hotelbook/internal/models"

	"github.com/rs/zerolog"
)

// CatalogService serves rooms and categories. Public reads go through the
// cache; staff views and writes hit the repository directly.
type CatalogService struct {
	repo     domain.CatalogRepository
	cache    domain.CatalogCache
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
}

func NewCatalogService(repo domain.CatalogRepository, cache domain.CatalogCache, eventBus domain.EventPublisher, logger *zerolog.Logger) *CatalogService {
	return &CatalogService{
		repo:     repo,
		cache:    cache,
		eventBus: eventBus,
		logger:   logging.Component(logger, "catalog"),
	}
}

func (s *CatalogService) GetRoom(ctx context.Context, caller *models.Caller, id int64) (*models.Room, error) {
	if err := RequireRole(caller); err != nil {
		return nil, err
	}

	if s.cache != nil {
		room, ok, err := s.cache.GetRoom(ctx, id)
		if err != nil {
			s.logger.Warn().Err(err).Int64("room_id", id).Msg("catalog cache read failed")
		} else if ok {
			return room, nil
		}
	}

	room, err := s.repo.GetRoom(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetRoom(ctx, room); err != nil {
			s.logger.Warn().Err(err).Int64("room_id", id).Msg("catalog cache write failed")
		}
	}
	return room, nil
}

func (s *CatalogService) ListCategories(ctx context.Context, caller *models.Caller) ([]*models.Category, error) {
	if err := RequireRole(caller); err != nil {
		return nil, err
	}

	if s.cache != nil {
		categories, ok, err := s.cache.GetCategories(ctx)
		if err != nil {
			s.logger.Warn().Err(err).Msg("catalog cache read failed")
		} else if ok {
			return categories, nil
		}
	}

	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetCategories(ctx, categories); err != nil {
			s.logger.Warn().Err(err).Msg("catalog cache write failed")
		}
	}
	return categories, nil
}

func (s *CatalogService) GetCategory(ctx context.Context, caller *models.Caller, id int64) (*models.Category, error) {
	if err := RequireRole(caller); err != nil {
		return nil, err
	}

	if s.cache != nil {
		category, ok, err := s.cache.GetCategory(ctx, id)
		if err != nil {
			s.logger.Warn().Err(err).Int64("category_id", id).Msg("catalog cache read failed")
		} else if ok {
			return category, nil
		}
	}

	category, err := s.repo.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetCategory(ctx, category); err != nil {
			s.logger.Warn().Err(err).Int64("category_id", id).Msg("catalog cache write failed")
		}
	}
	return category, nil
}

// ListRooms is the staff view including inactive rooms.
func (s *CatalogService) ListRooms(ctx context.Context, caller *models.Caller, filter models.RoomListFilter) ([]*models.Room, error) {
	if err := requireStaff(caller); err != nil {
		return nil, err
	}
	return s.repo.ListRooms(ctx, filter)
}

// SetRoomActive opens or closes a room for new bookings. Existing bookings are kept.
func (s *CatalogService) SetRoomActive(ctx context.Context, caller *models.Caller, id int64, active bool) (*models.Room, error) {
	if err := requireStaff(caller); err != nil {
		return nil, err
	}

	room, err := s.repo.SetRoomActive(ctx, id, active)
	if err != nil {
		return nil, err
	}
	s.invalidateRoom(ctx, id)

	s.logger.Info().Int64("room_id", id).Bool("is_active", active).Int64("changed_by", caller.UserID).Msg("room availability changed")
	if s.eventBus != nil {
		payload := events.RoomEventPayload{
			RoomID:      room.ID,
			RoomNumber:  room.Number,
			IsActive:    room.IsActive,
			ChangedByID: caller.UserID,
		}
		if err := s.eventBus.PublishJSON(events.EventRoomAvailabilityChanged, payload); err != nil {
			s.logger.Error().Err(err).Int64("room_id", id).Msg("publish event error")
		}
	}
	return room, nil
}

// Админские операции над каталогом

func (s *CatalogService) CreateCategory(ctx context.Context, caller *models.Caller, category *models.Category) error {
	if err := RequireRole(caller, models.RoleAdmin); err != nil {
		return err
	}
	if err := category.Validate(); err != nil {
		return err
	}
	if err := s.repo.CreateCategory(ctx, category); err != nil {
		return err
	}
	s.invalidateAll(ctx)
	return nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, caller *models.Caller, category *models.Category) error {
	if err := RequireRole(caller, models.RoleAdmin); err != nil {
		return err
	}
	if err := category.Validate(); err != nil {
		return err
	}
	if err := s.repo.UpdateCategory(ctx, category); err != nil {
		return err
	}
	// rooms embed the category name
	s.invalidateAll(ctx)
	return nil
}

func (s *CatalogService) DeleteCategory(ctx context.Context, caller *models.Caller, id int64) error {
	if err := RequireRole(caller, models.RoleAdmin); err != nil {
		return err
	}
	if err := s.repo.DeleteCategory(ctx, id); err != nil {
		return err
	}
	s.invalidateAll(ctx)
	s.logger.Info().Int64("category_id", id).Msg("category deleted with its rooms")
	return nil
}

func (s *CatalogService) CreateRoom(ctx context.Context, caller *models.Caller, room *models.Room) error {
	if err := RequireRole(caller, models.RoleAdmin); err != nil {
		return err
	}
	if err := room.Validate(); err != nil {
		return err
	}
	return s.repo.CreateRoom(ctx, room)
}

func (s *CatalogService) UpdateRoom(ctx context.Context, caller *models.Caller, room *models.Room) error {
	if err := RequireRole(caller, models.RoleAdmin); err != nil {
		return err
	}
	if err := room.Validate(); err != nil {
		return err
	}
	if err := s.repo.UpdateRoom(ctx, room); err != nil {
		return err
	}
	s.invalidateRoom(ctx, room.ID)
	return nil
}

func (s *CatalogService) DeleteRoom(ctx context.Context, caller *models.Caller, id int64) error {
	if err := RequireRole(caller, models.RoleAdmin); err != nil {
		return err
	}
	if err := s.repo.DeleteRoom(ctx, id); err != nil {
		return err
	}
	s.invalidateRoom(ctx, id)
	return nil
}

func (s *CatalogService) invalidateRoom(ctx context.Context, id int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateRoom(ctx, id); err != nil {
		s.logger.Warn().Err(err).Int64("room_id", id).Msg("catalog cache invalidation failed")
	}
}

func (s *CatalogService) invalidateAll(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateAll(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("catalog cache invalidation failed")
	}
}
