package repository

import (
	"context"
	"sync/atomic"
	"time"

	"hotelbook/internal/domain"
	"hotelbook/internal/logging"
	"hotelbook/internal/models"

	"github.com/rs/zerolog"
)

const recoverAfter = time.Minute

// FailoverCatalogCache serves from primary (Redis) and switches to fallback
// (memory) on the first error. The primary is probed again after recoverAfter
// and flushed on recovery, since invalidations during the outage never reached it.
type FailoverCatalogCache struct {
	primary   domain.CatalogCache
	fallback  domain.CatalogCache
	logger    *zerolog.Logger
	isDown    atomic.Bool
	lastCheck atomic.Int64
	now       func() time.Time
}

var _ domain.CatalogCache = (*FailoverCatalogCache)(nil)

func NewFailoverCatalogCache(primary, fallback domain.CatalogCache, logger *zerolog.Logger) *FailoverCatalogCache {
	return &FailoverCatalogCache{
		primary:  primary,
		fallback: fallback,
		logger:   logging.Component(logger, "catalog_cache"),
		now:      time.Now,
	}
}

// usePrimary reports whether the primary should be tried for this call.
func (r *FailoverCatalogCache) usePrimary() bool {
	if !r.isDown.Load() {
		return true
	}
	last := r.lastCheck.Load()
	if r.now().Sub(time.Unix(0, last)) <= recoverAfter {
		return false
	}
	// только один вызов пробует восстановиться
	return r.lastCheck.CompareAndSwap(last, r.now().UnixNano())
}

func (r *FailoverCatalogCache) markDown(err error) {
	if r.isDown.CompareAndSwap(false, true) {
		r.logger.Error().Err(err).Msg("Primary catalog cache failed, falling back to memory")
	}
	r.lastCheck.Store(r.now().UnixNano())
}

func (r *FailoverCatalogCache) markUp(ctx context.Context) {
	if !r.isDown.CompareAndSwap(true, false) {
		return
	}
	r.logger.Info().Msg("Primary catalog cache recovered")
	if err := r.primary.InvalidateAll(ctx); err != nil {
		r.logger.Warn().Err(err).Msg("Failed to flush primary catalog cache after recovery")
	}
}

func (r *FailoverCatalogCache) GetRoom(ctx context.Context, id int64) (*models.Room, bool, error) {
	if r.usePrimary() {
		room, ok, err := r.primary.GetRoom(ctx, id)
		if err == nil {
			r.markUp(ctx)
			return room, ok, nil
		}
		r.markDown(err)
	}
	return r.fallback.GetRoom(ctx, id)
}

func (r *FailoverCatalogCache) SetRoom(ctx context.Context, room *models.Room) error {
	if r.usePrimary() {
		err := r.primary.SetRoom(ctx, room)
		if err == nil {
			r.markUp(ctx)
			return nil
		}
		r.markDown(err)
	}
	return r.fallback.SetRoom(ctx, room)
}

func (r *FailoverCatalogCache) GetCategory(ctx context.Context, id int64) (*models.Category, bool, error) {
	if r.usePrimary() {
		category, ok, err := r.primary.GetCategory(ctx, id)
		if err == nil {
			r.markUp(ctx)
			return category, ok, nil
		}
		r.markDown(err)
	}
	return r.fallback.GetCategory(ctx, id)
}

func (r *FailoverCatalogCache) SetCategory(ctx context.Context, category *models.Category) error {
	if r.usePrimary() {
		err := r.primary.SetCategory(ctx, category)
		if err == nil {
			r.markUp(ctx)
			return nil
		}
		r.markDown(err)
	}
	return r.fallback.SetCategory(ctx, category)
}

func (r *FailoverCatalogCache) GetCategories(ctx context.Context) ([]*models.Category, bool, error) {
	if r.usePrimary() {
		categories, ok, err := r.primary.GetCategories(ctx)
		if err == nil {
			r.markUp(ctx)
			return categories, ok, nil
		}
		r.markDown(err)
	}
	return r.fallback.GetCategories(ctx)
}

func (r *FailoverCatalogCache) SetCategories(ctx context.Context, categories []*models.Category) error {
	if r.usePrimary() {
		err := r.primary.SetCategories(ctx, categories)
		if err == nil {
			r.markUp(ctx)
			return nil
		}
		r.markDown(err)
	}
	return r.fallback.SetCategories(ctx, categories)
}

// Invalidations always reach the fallback so it holds nothing stale for the next outage.

func (r *FailoverCatalogCache) InvalidateRoom(ctx context.Context, id int64) error {
	if err := r.fallback.InvalidateRoom(ctx, id); err != nil {
		return err
	}
	if r.usePrimary() {
		err := r.primary.InvalidateRoom(ctx, id)
		if err == nil {
			r.markUp(ctx)
			return nil
		}
		r.markDown(err)
	}
	return nil
}

func (r *FailoverCatalogCache) InvalidateAll(ctx context.Context) error {
	if err := r.fallback.InvalidateAll(ctx); err != nil {
		return err
	}
	if r.usePrimary() {
		err := r.primary.InvalidateAll(ctx)
		if err == nil {
			r.markUp(ctx)
			return nil
		}
		r.markDown(err)
	}
	return nil
}
