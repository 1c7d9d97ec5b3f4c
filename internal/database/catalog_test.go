package database

import (
	"context"
	"testing"

	"hotelbook/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoriesCRUD(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	lux := createCategory(t, db, "Lux")
	std := createCategory(t, db, "Standard")
	assert.NotZero(t, lux.ID)

	list, err := db.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Lux", list[0].Name)
	assert.Equal(t, "Standard", list[1].Name)

	std.Name = "Economy"
	require.NoError(t, db.UpdateCategory(ctx, std))

	got, err := db.GetCategory(ctx, std.ID)
	require.NoError(t, err)
	assert.Equal(t, "Economy", got.Name)

	require.NoError(t, db.DeleteCategory(ctx, std.ID))

	_, err = db.GetCategory(ctx, std.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.ErrorIs(t, db.DeleteCategory(ctx, std.ID), models.ErrNotFound)
	assert.ErrorIs(t, db.UpdateCategory(ctx, &models.Category{ID: 999, Name: "x"}), models.ErrNotFound)
}

func TestRoomsCRUD(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	cat := createCategory(t, db, "Lux")
	room := createRoom(t, db, cat.ID, "101", 150_00, 2, true)

	assert.NotZero(t, room.ID)
	require.NotNil(t, room.Category)
	assert.Equal(t, "Lux", room.Category.Name)
	assert.False(t, room.CreatedAt.IsZero())

	got, err := db.GetRoom(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, models.Money(150_00), got.Price)
	assert.Equal(t, 2, got.MaxGuests)
	assert.True(t, got.IsActive)

	got.Price = 175_50
	got.MaxGuests = 3
	require.NoError(t, db.UpdateRoom(ctx, got))
	assert.Equal(t, models.Money(175_50), got.Price)

	updated, err := db.SetRoomActive(ctx, room.ID, false)
	require.NoError(t, err)
	assert.False(t, updated.IsActive)

	_, err = db.SetRoomActive(ctx, 999, true)
	assert.ErrorIs(t, err, models.ErrNotFound)

	require.NoError(t, db.DeleteRoom(ctx, room.ID))
	_, err = db.GetRoom(ctx, room.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestCreateRoom_Errors(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	cat := createCategory(t, db, "Lux")
	createRoom(t, db, cat.ID, "101", 100_00, 2, true)

	err := db.CreateRoom(ctx, &models.Room{Number: "101", CategoryID: cat.ID, Price: 1, MaxGuests: 1})
	assert.ErrorIs(t, err, models.ErrDuplicateRoomNumber)

	err = db.CreateRoom(ctx, &models.Room{Number: "102", CategoryID: 42, Price: 1, MaxGuests: 1})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestListRooms_Filter(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	cat := createCategory(t, db, "Lux")
	createRoom(t, db, cat.ID, "101", 100_00, 2, true)
	createRoom(t, db, cat.ID, "102", 100_00, 2, false)

	all, err := db.ListRooms(ctx, models.RoomListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	inactive := false
	onlyInactive, err := db.ListRooms(ctx, models.RoomListFilter{IsActive: &inactive})
	require.NoError(t, err)
	require.Len(t, onlyInactive, 1)
	assert.Equal(t, "102", onlyInactive[0].Number)
}

func TestSearchRooms_AttributePredicates(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	cat := createCategory(t, db, "Lux")
	r1 := createRoom(t, db, cat.ID, "101", 100_00, 2, true)
	r2 := createRoom(t, db, cat.ID, "102", 150_00, 4, true)
	createRoom(t, db, cat.ID, "103", 120_00, 4, false)

	rooms, err := db.SearchRooms(ctx, models.RoomFilter{})
	require.NoError(t, err)
	require.Len(t, rooms, 2)
	assert.Equal(t, r1.ID, rooms[0].ID)
	assert.Equal(t, r2.ID, rooms[1].ID)
	assert.Equal(t, "Lux", rooms[0].Category.Name)

	minGuests := 3
	rooms, err = db.SearchRooms(ctx, models.RoomFilter{MinGuests: &minGuests})
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, r2.ID, rooms[0].ID)

	minPrice, maxPrice := models.Money(100_00), models.Money(100_00)
	rooms, err = db.SearchRooms(ctx, models.RoomFilter{MinPrice: &minPrice, MaxPrice: &maxPrice})
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, r1.ID, rooms[0].ID)
}

func TestDeleteCategory_Cascades(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	cat := createCategory(t, db, "Lux")
	room := createRoom(t, db, cat.ID, "101", 100_00, 2, true)
	b := book(t, db, 1, room.ID, "2030-06-10", "2030-06-12")

	require.NoError(t, db.DeleteCategory(ctx, cat.ID))

	_, err := db.GetRoom(ctx, room.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
	_, err = db.GetBooking(ctx, b.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestSeedCatalog(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	inactive := false

	seeds := []models.CategorySeed{
		{Name: "Lux", Rooms: []models.RoomSeed{
			{Number: "101", Price: 200_00, MaxGuests: 2},
			{Number: "102", Price: 220_00, MaxGuests: 3, IsActive: &inactive},
		}},
		{Name: "Standard", Rooms: []models.RoomSeed{{Number: "201", Price: 90_00, MaxGuests: 2}}},
	}

	n, err := db.SeedCatalog(ctx, seeds)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	rooms, err := db.ListRooms(ctx, models.RoomListFilter{})
	require.NoError(t, err)
	require.Len(t, rooms, 3)
	assert.True(t, rooms[0].IsActive)
	assert.False(t, rooms[1].IsActive)

	// второй запуск ничего не меняет
	n, err = db.SeedCatalog(ctx, seeds)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSeedCatalog_InvalidRoomRollsBack(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	_, err := db.SeedCatalog(ctx, []models.CategorySeed{
		{Name: "Lux", Rooms: []models.RoomSeed{{Number: "101", Price: 1, MaxGuests: 0}}},
	})
	assert.ErrorIs(t, err, models.ErrValidation)

	categories, err := db.ListCategories(ctx)
	require.NoError(t, err)
	assert.Empty(t, categories)
}
