package repository

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"hotelbook/internal/domain"
	"hotelbook/internal/models"
)

// MemoryCatalogCache is the in-process CatalogCache used when Redis is
// not configured or unreachable.
type MemoryCatalogCache struct {
	entries sync.Map
	ttl     time.Duration
	now     func() time.Time
}

var _ domain.CatalogCache = (*MemoryCatalogCache)(nil)

type memoryEntry struct {
	value     any
	expiresAt time.Time
}

func NewMemoryCatalogCache(ttl time.Duration) *MemoryCatalogCache {
	if ttl <= 0 {
		ttl = models.DefaultCatalogCacheTTL
	}
	return &MemoryCatalogCache{
		ttl: ttl,
		now: time.Now,
	}
}

func (r *MemoryCatalogCache) load(key string) (any, bool) {
	val, ok := r.entries.Load(key)
	if !ok {
		return nil, false
	}
	entry := val.(memoryEntry)
	if r.now().After(entry.expiresAt) {
		r.entries.Delete(key)
		return nil, false
	}
	return entry.value, true
}

func (r *MemoryCatalogCache) store(key string, value any) {
	r.entries.Store(key, memoryEntry{value: value, expiresAt: r.now().Add(r.ttl)})
}

// Values are copied on the way in and out so callers can't mutate cached records.

func (r *MemoryCatalogCache) GetRoom(_ context.Context, id int64) (*models.Room, bool, error) {
	val, ok := r.load(fmt.Sprintf(roomKeyFmt, id))
	if !ok {
		return nil, false, nil
	}
	return copyRoom(val.(*models.Room)), true, nil
}

func (r *MemoryCatalogCache) SetRoom(_ context.Context, room *models.Room) error {
	r.store(fmt.Sprintf(roomKeyFmt, room.ID), copyRoom(room))
	return nil
}

func (r *MemoryCatalogCache) InvalidateRoom(_ context.Context, id int64) error {
	r.entries.Delete(fmt.Sprintf(roomKeyFmt, id))
	return nil
}

func (r *MemoryCatalogCache) GetCategory(_ context.Context, id int64) (*models.Category, bool, error) {
	val, ok := r.load(fmt.Sprintf(categoryKeyFmt, id))
	if !ok {
		return nil, false, nil
	}
	c := *val.(*models.Category)
	return &c, true, nil
}

func (r *MemoryCatalogCache) SetCategory(_ context.Context, category *models.Category) error {
	c := *category
	r.store(fmt.Sprintf(categoryKeyFmt, category.ID), &c)
	return nil
}

func (r *MemoryCatalogCache) GetCategories(_ context.Context) ([]*models.Category, bool, error) {
	val, ok := r.load(categoriesKey)
	if !ok {
		return nil, false, nil
	}
	return copyCategories(val.([]*models.Category)), true, nil
}

func (r *MemoryCatalogCache) SetCategories(_ context.Context, categories []*models.Category) error {
	r.store(categoriesKey, copyCategories(categories))
	return nil
}

func (r *MemoryCatalogCache) InvalidateAll(_ context.Context) error {
	r.entries.Range(func(key, _ any) bool {
		if k, ok := key.(string); ok && strings.HasPrefix(k, keyPrefix) {
			r.entries.Delete(key)
		}
		return true
	})
	return nil
}

func copyRoom(room *models.Room) *models.Room {
	c := *room
	if room.Category != nil {
		category := *room.Category
		c.Category = &category
	}
	return &c
}

func copyCategories(in []*models.Category) []*models.Category {
	out := make([]*models.Category, len(in))
	for i, c := range in {
		cc := *c
		out[i] = &cc
	}
	return out
}
