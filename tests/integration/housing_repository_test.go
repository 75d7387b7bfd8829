package integration

import (
	"context"
	"os"
	"testing"

	"github.com/dormhub/backend/internal/domain/housing"
	"github.com/dormhub/backend/internal/domain/identity"
	"github.com/dormhub/backend/internal/domain/shared"
	"github.com/dormhub/backend/internal/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	code := m.Run()
	CleanupSharedContainer()
	os.Exit(code)
}

func TestPlaceRepository_ResidentOccupiesOnePlace(t *testing.T) {
	tdb := NewSharedTestDB(t)
	ctx := context.Background()
	tenantID := uuid.New()
	fx := tdb.CreateRoom(tenantID, "North Hall", "101", "A", "B")
	resident := tdb.CreateUser(tenantID, "jane", identity.RoleResident)
	placeRepo := persistence.NewGormPlaceRepository(tdb.DB)

	first, second := fx.Places[0], fx.Places[1]
	require.NoError(t, first.Assign(fx.Room, resident.ID))
	require.NoError(t, placeRepo.Save(ctx, first))

	require.NoError(t, second.Assign(fx.Room, resident.ID))
	err := placeRepo.Save(ctx, second)
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)

	found, err := placeRepo.FindByOccupant(ctx, tenantID, resident.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, found.ID)

	occupied, err := placeRepo.CountOccupiedByRoom(ctx, tenantID, fx.Room.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), occupied)
}

func TestPlaceRepository_ReleasedPlaceCanBeReassigned(t *testing.T) {
	tdb := NewSharedTestDB(t)
	ctx := context.Background()
	tenantID := uuid.New()
	fx := tdb.CreateRoom(tenantID, "South Hall", "201", "A", "B")
	resident := tdb.CreateUser(tenantID, "omar", identity.RoleResident)
	placeRepo := persistence.NewGormPlaceRepository(tdb.DB)

	first := fx.Places[0]
	require.NoError(t, first.Assign(fx.Room, resident.ID))
	require.NoError(t, placeRepo.Save(ctx, first))
	require.NoError(t, first.Release())
	require.NoError(t, placeRepo.Save(ctx, first))

	second := fx.Places[1]
	require.NoError(t, second.Assign(fx.Room, resident.ID))
	require.NoError(t, placeRepo.Save(ctx, second))

	reloaded, err := placeRepo.FindByIDForTenant(ctx, tenantID, first.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.IsOccupied())
}

func TestRoomRepository_TenantIsolation(t *testing.T) {
	tdb := NewSharedTestDB(t)
	ctx := context.Background()
	tenantA, tenantB := uuid.New(), uuid.New()
	fx := tdb.CreateRoom(tenantA, "East Hall", "301", "A")
	roomRepo := persistence.NewGormRoomRepository(tdb.DB)

	_, err := roomRepo.FindByIDForTenant(ctx, tenantB, fx.Room.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	rooms, err := roomRepo.FindAllForTenant(ctx, tenantB, shared.DefaultFilter())
	require.NoError(t, err)
	assert.Empty(t, rooms)

	count, err := roomRepo.CountForTenant(ctx, tenantA, shared.DefaultFilter())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestRoomRepository_StaleUpdateIsRejected(t *testing.T) {
	tdb := NewSharedTestDB(t)
	ctx := context.Background()
	tenantID := uuid.New()
	fx := tdb.CreateRoom(tenantID, "West Hall", "401", "A")
	roomRepo := persistence.NewGormRoomRepository(tdb.DB)

	first, err := roomRepo.FindByIDForTenant(ctx, tenantID, fx.Room.ID)
	require.NoError(t, err)
	second, err := roomRepo.FindByIDForTenant(ctx, tenantID, fx.Room.ID)
	require.NoError(t, err)

	require.NoError(t, first.Update("401", housing.RoomTypeStandard, 3, "renovated", 1))
	require.NoError(t, roomRepo.Save(ctx, first))

	require.NoError(t, second.Update("401", housing.RoomTypeStandard, 2, "stale", 1))
	assert.ErrorIs(t, roomRepo.Save(ctx, second), shared.ErrConcurrentModification)

	reloaded, err := roomRepo.FindByIDForTenant(ctx, tenantID, fx.Room.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, reloaded.Capacity)
	assert.Equal(t, "renovated", reloaded.Description)
}

func TestRoomRepository_DeleteRemovesPlaces(t *testing.T) {
	tdb := NewSharedTestDB(t)
	ctx := context.Background()
	tenantID := uuid.New()
	fx := tdb.CreateRoom(tenantID, "Annex", "B1", "A", "B", "C")
	roomRepo := persistence.NewGormRoomRepository(tdb.DB)
	placeRepo := persistence.NewGormPlaceRepository(tdb.DB)

	require.NoError(t, roomRepo.DeleteForTenant(ctx, tenantID, fx.Room.ID))

	places, err := placeRepo.FindByRoom(ctx, tenantID, fx.Room.ID)
	require.NoError(t, err)
	assert.Empty(t, places)

	floors, err := persistence.NewGormFloorRepository(tdb.DB).FindByBuilding(ctx, tenantID, fx.Building.ID)
	require.NoError(t, err)
	assert.Len(t, floors, 1)
}

func TestBuildingRepository_NameUniquePerTenant(t *testing.T) {
	tdb := NewSharedTestDB(t)
	ctx := context.Background()
	tenantA, tenantB := uuid.New(), uuid.New()
	repo := persistence.NewGormBuildingRepository(tdb.DB)

	first, err := housing.NewBuilding(tenantA, "Main", "1 Campus Road")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, first))

	duplicate, err := housing.NewBuilding(tenantA, "Main", "2 Campus Road")
	require.NoError(t, err)
	assert.ErrorIs(t, repo.Save(ctx, duplicate), shared.ErrAlreadyExists)

	other, err := housing.NewBuilding(tenantB, "Main", "1 Campus Road")
	require.NoError(t, err)
	assert.NoError(t, repo.Save(ctx, other))

	exists, err := repo.ExistsByName(ctx, tenantA, "Main", &first.ID)
	require.NoError(t, err)
	assert.False(t, exists)
}
