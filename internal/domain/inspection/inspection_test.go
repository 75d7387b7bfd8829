package inspection

import (
	"testing"
	"time"

	"github.com/dormhub/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func targets(n int) []RoomTarget {
	out := make([]RoomTarget, n)
	for i := range out {
		out[i] = RoomTarget{RoomID: uuid.New(), RoomNumber: "10" + string(rune('1'+i)), BuildingName: "North", FloorNumber: 1}
	}
	return out
}

func newTestInspection(t *testing.T, rooms int) *Inspection {
	t.Helper()
	i, err := NewInspection(uuid.New(), uuid.New(), "Spring check", "", time.Now().Add(24*time.Hour), uuid.Nil, targets(rooms))
	require.NoError(t, err)
	return i
}

func TestNewInspection(t *testing.T) {
	t.Run("all rooms start pending", func(t *testing.T) {
		i := newTestInspection(t, 3)
		assert.Equal(t, StatusScheduled, i.Status)
		assert.Len(t, i.Rooms, 3)
		for _, r := range i.Rooms {
			assert.Equal(t, RoomStatusPending, r.Status)
			assert.Equal(t, i.ID, r.InspectionID)
		}
		assert.Equal(t, *i.CreatedBy, i.InspectorID)
		require.Len(t, i.GetDomainEvents(), 1)
	})

	t.Run("duplicate rooms collapse", func(t *testing.T) {
		ts := targets(2)
		ts = append(ts, ts[0])
		i, err := NewInspection(uuid.New(), uuid.New(), "Check", "", time.Now(), uuid.Nil, ts)
		require.NoError(t, err)
		assert.Len(t, i.Rooms, 2)
	})

	t.Run("requires rooms", func(t *testing.T) {
		_, err := NewInspection(uuid.New(), uuid.New(), "Check", "", time.Now(), uuid.Nil, nil)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INSPECTION_NO_ROOMS", domainErr.Code)
	})

	t.Run("requires schedule and name", func(t *testing.T) {
		_, err := NewInspection(uuid.New(), uuid.New(), "Check", "", time.Time{}, uuid.Nil, targets(1))
		assert.Error(t, err)
		_, err = NewInspection(uuid.New(), uuid.New(), " ", "", time.Now(), uuid.Nil, targets(1))
		assert.Error(t, err)
	})
}

func TestInspection_StatusMachine(t *testing.T) {
	i := newTestInspection(t, 2)

	// results cannot be recorded before the start
	err := i.SetRoomStatus(i.Rooms[0].RoomID, RoomStatusConfirmed, "", uuid.New())
	assert.ErrorIs(t, err, shared.ErrInvalidState)
	assert.ErrorIs(t, i.Complete(), shared.ErrInvalidState)

	require.NoError(t, i.Start())
	assert.Equal(t, StatusActive, i.Status)
	assert.NotNil(t, i.StartedAt)
	assert.ErrorIs(t, i.Start(), shared.ErrInvalidState)
	assert.ErrorIs(t, i.Update("x", "", time.Now(), uuid.Nil, nil), shared.ErrInvalidState)
	assert.ErrorIs(t, i.EnsureDeletable(), shared.ErrInvalidState)

	inspector := uuid.New()
	require.NoError(t, i.SetRoomStatus(i.Rooms[0].RoomID, RoomStatusConfirmed, "", inspector))

	err = i.Complete()
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INSPECTION_ROOMS_PENDING", domainErr.Code)
	assert.Equal(t, StatusActive, i.Status)

	require.NoError(t, i.SetRoomStatus(i.Rooms[1].RoomID, RoomStatusNoAccess, "locked", inspector))
	require.NoError(t, i.Complete())
	assert.Equal(t, StatusCompleted, i.Status)
	assert.NotNil(t, i.CompletedAt)

	assert.ErrorIs(t, i.Start(), shared.ErrInvalidState)
	assert.ErrorIs(t, i.Complete(), shared.ErrInvalidState)
	assert.ErrorIs(t, i.SetRoomStatus(i.Rooms[0].RoomID, RoomStatusPending, "", inspector), shared.ErrInvalidState)

	events := i.GetDomainEvents()
	require.Len(t, events, 3)
	completed, ok := events[2].(*InspectionCompletedEvent)
	require.True(t, ok)
	assert.Equal(t, 1, completed.Counts[RoomStatusConfirmed])
	assert.Equal(t, 1, completed.Counts[RoomStatusNoAccess])
}

func TestInspection_SetRoomStatus(t *testing.T) {
	i := newTestInspection(t, 1)
	require.NoError(t, i.Start())
	roomID := i.Rooms[0].RoomID
	inspector := uuid.New()

	t.Run("not confirmed needs a comment", func(t *testing.T) {
		err := i.SetRoomStatus(roomID, RoomStatusNotConfirmed, " ", inspector)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "COMMENT_REQUIRED", domainErr.Code)
	})

	t.Run("unknown room", func(t *testing.T) {
		err := i.SetRoomStatus(uuid.New(), RoomStatusConfirmed, "", inspector)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INSPECTION_ROOM_NOT_FOUND", domainErr.Code)
	})

	t.Run("unknown status", func(t *testing.T) {
		assert.Error(t, i.SetRoomStatus(roomID, RoomStatus("maybe"), "", inspector))
	})

	t.Run("records and resets a result", func(t *testing.T) {
		require.NoError(t, i.SetRoomStatus(roomID, RoomStatusNotConfirmed, "broken window", inspector))
		assert.Equal(t, "broken window", i.Rooms[0].Comment)
		require.NotNil(t, i.Rooms[0].CheckedBy)
		assert.Equal(t, inspector, *i.Rooms[0].CheckedBy)
		assert.Zero(t, i.PendingCount())

		require.NoError(t, i.SetRoomStatus(roomID, RoomStatusPending, "", inspector))
		assert.Nil(t, i.Rooms[0].CheckedAt)
		assert.Equal(t, 1, i.PendingCount())
	})
}

func TestInspection_Summary(t *testing.T) {
	i := newTestInspection(t, 3)
	require.NoError(t, i.Start())
	require.NoError(t, i.SetRoomStatus(i.Rooms[0].RoomID, RoomStatusConfirmed, "", uuid.New()))

	s := i.Summary()
	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 2, s.ByStatus[RoomStatusPending])
	assert.Equal(t, 1, s.ByStatus[RoomStatusConfirmed])
	assert.Equal(t, 0, s.ByStatus[RoomStatusNoAccess])
	assert.Equal(t, "33.33", s.Completion.StringFixed(2))
}

func TestInspection_UpdateAndReport(t *testing.T) {
	i := newTestInspection(t, 1)
	newTargets := targets(2)

	require.NoError(t, i.Update("Autumn check", "all floors", time.Now().Add(time.Hour), uuid.Nil, newTargets))
	assert.Equal(t, "Autumn check", i.Name)
	assert.Len(t, i.Rooms, 2)
	assert.False(t, i.CanRenderReport())
	assert.ErrorIs(t, i.AttachReport("reports/x.pdf"), shared.ErrInvalidState)

	require.NoError(t, i.Start())
	assert.True(t, i.CanRenderReport())
	for _, r := range i.Rooms {
		require.NoError(t, i.SetRoomStatus(r.RoomID, RoomStatusConfirmed, "", uuid.New()))
	}
	require.NoError(t, i.Complete())
	require.NoError(t, i.AttachReport("reports/x.pdf"))
	assert.Equal(t, "reports/x.pdf", i.ReportKey)
}
