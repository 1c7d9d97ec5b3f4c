package repository

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"hotelbook/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockCache struct {
	mock.Mock
}

func (m *mockCache) GetRoom(ctx context.Context, id int64) (*models.Room, bool, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*models.Room), args.Bool(1), args.Error(2)
}

func (m *mockCache) SetRoom(ctx context.Context, room *models.Room) error {
	return m.Called(ctx, room).Error(0)
}

func (m *mockCache) InvalidateRoom(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockCache) GetCategory(ctx context.Context, id int64) (*models.Category, bool, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*models.Category), args.Bool(1), args.Error(2)
}

func (m *mockCache) SetCategory(ctx context.Context, category *models.Category) error {
	return m.Called(ctx, category).Error(0)
}

func (m *mockCache) GetCategories(ctx context.Context) ([]*models.Category, bool, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]*models.Category), args.Bool(1), args.Error(2)
}

func (m *mockCache) SetCategories(ctx context.Context, categories []*models.Category) error {
	return m.Called(ctx, categories).Error(0)
}

func (m *mockCache) InvalidateAll(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func TestFailoverCatalogCache(t *testing.T) {
	primary := new(mockCache)
	fallback := NewMemoryCatalogCache(time.Minute)
	logger := zerolog.New(io.Discard)
	repo := NewFailoverCatalogCache(primary, fallback, &logger)
	ctx := context.Background()

	now := time.Now()
	repo.now = func() time.Time { return now }

	t.Run("PrimarySuccess", func(t *testing.T) {
		room := sampleRoom(1)
		primary.On("GetRoom", ctx, int64(1)).Return(room, true, nil).Once()

		got, ok, err := repo.GetRoom(ctx, 1)
		assert.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, room, got)
		primary.AssertExpectations(t)
	})

	t.Run("PrimaryFailFallbackServes", func(t *testing.T) {
		room := sampleRoom(2)
		primary.On("SetRoom", ctx, room).Return(errors.New("connection refused")).Once()

		require.NoError(t, repo.SetRoom(ctx, room))
		assert.True(t, repo.isDown.Load())

		// пока primary лежит, он не вызывается
		got, ok, err := repo.GetRoom(ctx, 2)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, room, got)
		primary.AssertExpectations(t)
	})

	t.Run("InvalidationReachesFallbackWhileDown", func(t *testing.T) {
		require.NoError(t, repo.InvalidateRoom(ctx, 2))

		_, ok, err := fallback.GetRoom(ctx, 2)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("RecoveryFlushesPrimary", func(t *testing.T) {
		now = now.Add(2 * time.Minute)

		categories := []*models.Category{{ID: 1, Name: "Lux"}}
		primary.On("GetCategories", ctx).Return(categories, true, nil).Once()
		primary.On("InvalidateAll", ctx).Return(nil).Once()

		got, ok, err := repo.GetCategories(ctx)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, categories, got)
		assert.False(t, repo.isDown.Load())
		primary.AssertExpectations(t)
	})

	t.Run("FailedProbeStaysDown", func(t *testing.T) {
		primary.On("GetCategory", ctx, int64(5)).Return(nil, false, errors.New("timeout")).Once()

		_, ok, err := repo.GetCategory(ctx, 5)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.True(t, repo.isDown.Load())

		// следующий вызов в пределах минуты идёт сразу в fallback
		_, _, err = repo.GetCategory(ctx, 5)
		require.NoError(t, err)
		primary.AssertExpectations(t)
	})
}
