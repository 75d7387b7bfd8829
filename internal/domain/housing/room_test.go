package housing

import (
	"testing"

	"github.com/dormhub/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFloor(t *testing.T) *Floor {
	t.Helper()
	floor, err := NewFloor(uuid.New(), uuid.New(), 1, "")
	require.NoError(t, err)
	return floor
}

func newTestRoom(t *testing.T, capacity int) *Room {
	t.Helper()
	floor := newTestFloor(t)
	room, err := NewRoom(floor.TenantID, floor, "101a", RoomTypeStandard, capacity)
	require.NoError(t, err)
	room.ClearDomainEvents()
	return room
}

func TestNewRoom(t *testing.T) {
	floor := newTestFloor(t)

	t.Run("standard room", func(t *testing.T) {
		room, err := NewRoom(floor.TenantID, floor, " 101a ", RoomTypeStandard, 2)
		require.NoError(t, err)
		assert.Equal(t, "101A", room.Number)
		assert.Equal(t, floor.BuildingID, room.BuildingID)
		assert.Equal(t, floor.ID, room.FloorID)
		assert.Equal(t, RoomStatusAvailable, room.Status)
	})

	t.Run("capacity rules", func(t *testing.T) {
		cases := []struct {
			name     string
			roomType RoomType
			capacity int
			ok       bool
		}{
			{"laundry without capacity", RoomTypeLaundry, 0, true},
			{"laundry with capacity", RoomTypeLaundry, 2, false},
			{"standard without capacity", RoomTypeStandard, 0, false},
			{"too large", RoomTypeStandard, 21, false},
			{"unknown type", RoomType("ballroom"), 1, false},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := NewRoom(floor.TenantID, floor, "1", tc.roomType, tc.capacity)
				if tc.ok {
					assert.NoError(t, err)
				} else {
					assert.Error(t, err)
				}
			})
		}
	})

	t.Run("requires floor", func(t *testing.T) {
		_, err := NewRoom(uuid.New(), nil, "1", RoomTypeStandard, 1)
		assert.Error(t, err)
	})
}

func TestRoom_Update(t *testing.T) {
	room := newTestRoom(t, 3)

	err := room.Update("102", RoomTypeStandard, 1, "", 2)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "CAPACITY_BELOW_PLACES", domainErr.Code)

	require.NoError(t, room.Update("102", RoomTypeAccessible, 2, "ground floor", 2))
	assert.Equal(t, RoomTypeAccessible, room.RoomType)
	assert.Equal(t, 2, room.Capacity)
}

func TestRoom_EnsureCanAddPlace(t *testing.T) {
	room := newTestRoom(t, 2)

	assert.NoError(t, room.EnsureCanAddPlace(1))
	err := room.EnsureCanAddPlace(2)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ROOM_CAPACITY_EXCEEDED", domainErr.Code)
}

func TestRoom_StatusTransitions(t *testing.T) {
	t.Run("close and reopen", func(t *testing.T) {
		room := newTestRoom(t, 1)

		require.NoError(t, room.Close())
		assert.False(t, room.CanHouse())
		assert.Error(t, room.Close())

		require.NoError(t, room.Reopen())
		assert.True(t, room.CanHouse())
		assert.Error(t, room.Reopen())
		assert.Len(t, room.GetDomainEvents(), 2)
	})

	t.Run("maintenance", func(t *testing.T) {
		room := newTestRoom(t, 1)

		room.StartMaintenance()
		assert.Equal(t, RoomStatusUnderMaintenance, room.Status)
		assert.Error(t, room.Close())

		room.StartMaintenance()
		assert.Len(t, room.GetDomainEvents(), 1)

		room.EndMaintenance()
		assert.Equal(t, RoomStatusAvailable, room.Status)
	})

	t.Run("closed room stays closed during maintenance", func(t *testing.T) {
		room := newTestRoom(t, 1)
		require.NoError(t, room.Close())

		room.StartMaintenance()
		assert.Equal(t, RoomStatusClosed, room.Status)
		room.EndMaintenance()
		assert.Equal(t, RoomStatusClosed, room.Status)
	})
}

func TestPlace_AssignRelease(t *testing.T) {
	room := newTestRoom(t, 2)
	place, err := NewPlace(room.TenantID, room.ID, "a")
	require.NoError(t, err)
	assert.Equal(t, "A", place.Label)

	userID := uuid.New()
	require.NoError(t, place.Assign(room, userID))
	assert.True(t, place.IsOccupied())
	assert.Equal(t, userID, *place.OccupantID)
	assert.NotNil(t, place.OccupiedSince)

	err = place.Assign(room, uuid.New())
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "PLACE_OCCUPIED", domainErr.Code)

	require.NoError(t, place.Release())
	assert.False(t, place.IsOccupied())
	assert.Error(t, place.Release())

	events := place.GetDomainEvents()
	require.Len(t, events, 2)
	released, ok := events[1].(*PlaceReleasedEvent)
	require.True(t, ok)
	assert.Equal(t, userID, released.OccupantID)
}

func TestPlace_AssignToUnavailableRoom(t *testing.T) {
	room := newTestRoom(t, 1)
	place, err := NewPlace(room.TenantID, room.ID, "A")
	require.NoError(t, err)

	room.StartMaintenance()
	err = place.Assign(room, uuid.New())
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ROOM_NOT_AVAILABLE", domainErr.Code)

	other := newTestRoom(t, 1)
	assert.Error(t, place.Assign(other, uuid.New()))
}
