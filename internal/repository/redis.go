package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"hotelbook/internal/config"
	"hotelbook/internal/domain"
	"hotelbook/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix        = "catalog:"
	roomKeyFmt       = keyPrefix + "room:%d"
	categoryKeyFmt   = keyPrefix + "category:%d"
	categoriesKey    = keyPrefix + "categories"
	invalidateBatch  = 100
	invalidatePattern = keyPrefix + "*"
)

// RedisCatalogCache stores catalog records as JSON with a fixed TTL.
type RedisCatalogCache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ domain.CatalogCache = (*RedisCatalogCache)(nil)

// NewRedisClient создает новый клиент Redis на основе конфигурации
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

func NewRedisCatalogCache(client *redis.Client, ttl time.Duration) *RedisCatalogCache {
	if ttl <= 0 {
		ttl = models.DefaultCatalogCacheTTL
	}
	return &RedisCatalogCache{
		client: client,
		ttl:    ttl,
	}
}

func (r *RedisCatalogCache) get(ctx context.Context, key string, dst any) (bool, error) {
	if r.client == nil {
		return false, fmt.Errorf("redis client is nil")
	}
	val, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get %s from redis: %w", key, err)
	}
	if err := json.Unmarshal(val, dst); err != nil {
		return false, fmt.Errorf("failed to unmarshal %s: %w", key, err)
	}
	return true, nil
}

func (r *RedisCatalogCache) set(ctx context.Context, key string, value any) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set %s in redis: %w", key, err)
	}
	return nil
}

func (r *RedisCatalogCache) del(ctx context.Context, keys ...string) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete keys from redis: %w", err)
	}
	return nil
}

func (r *RedisCatalogCache) GetRoom(ctx context.Context, id int64) (*models.Room, bool, error) {
	var room models.Room
	ok, err := r.get(ctx, fmt.Sprintf(roomKeyFmt, id), &room)
	if !ok || err != nil {
		return nil, false, err
	}
	return &room, true, nil
}

func (r *RedisCatalogCache) SetRoom(ctx context.Context, room *models.Room) error {
	return r.set(ctx, fmt.Sprintf(roomKeyFmt, room.ID), room)
}

func (r *RedisCatalogCache) InvalidateRoom(ctx context.Context, id int64) error {
	return r.del(ctx, fmt.Sprintf(roomKeyFmt, id))
}

func (r *RedisCatalogCache) GetCategory(ctx context.Context, id int64) (*models.Category, bool, error) {
	var category models.Category
	ok, err := r.get(ctx, fmt.Sprintf(categoryKeyFmt, id), &category)
	if !ok || err != nil {
		return nil, false, err
	}
	return &category, true, nil
}

func (r *RedisCatalogCache) SetCategory(ctx context.Context, category *models.Category) error {
	return r.set(ctx, fmt.Sprintf(categoryKeyFmt, category.ID), category)
}

func (r *RedisCatalogCache) GetCategories(ctx context.Context) ([]*models.Category, bool, error) {
	var categories []*models.Category
	ok, err := r.get(ctx, categoriesKey, &categories)
	if !ok || err != nil {
		return nil, false, err
	}
	return categories, true, nil
}

func (r *RedisCatalogCache) SetCategories(ctx context.Context, categories []*models.Category) error {
	return r.set(ctx, categoriesKey, categories)
}

// InvalidateAll walks the catalog keyspace with SCAN and deletes it in batches.
func (r *RedisCatalogCache) InvalidateAll(ctx context.Context) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}

	iter := r.client.Scan(ctx, 0, invalidatePattern, invalidateBatch).Iterator()
	batch := make([]string, 0, invalidateBatch)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == invalidateBatch {
			if err := r.del(ctx, batch...); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan catalog keys: %w", err)
	}
	if len(batch) > 0 {
		return r.del(ctx, batch...)
	}
	return nil
}

// Ping проверяет соединение с Redis
func Ping(ctx context.Context, client *redis.Client) error {
	_, err := client.Ping(ctx).Result()
	if err != nil {
		return fmt.Errorf("failed to ping Redis: %w", err)
	}
	return nil
}

// Close закрывает соединение с Redis
func Close(client *redis.Client) error {
	if client != nil {
		return client.Close()
	}
	return nil
}
