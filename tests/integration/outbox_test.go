package integration

import (
	"context"
	"errors"
	"testing"

	"github.com/dormhub/backend/internal/domain/housing"
	"github.com/dormhub/backend/internal/domain/shared"
	"github.com/dormhub/backend/internal/infrastructure/event"
	"github.com/dormhub/backend/internal/infrastructure/persistence"
	"github.com/dormhub/backend/tests/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type outboxHarness struct {
	repo      *event.GormOutboxRepository
	buildings *persistence.GormBuildingRepository
	processor *event.OutboxProcessor
	handler   *testutil.RecordingHandler
}

func newOutboxHarness(tdb *TestDB, maxRetries int) *outboxHarness {
	logger := zap.NewNop()
	serializer := event.NewEventSerializer()
	event.RegisterAllEvents(serializer)

	buildings := persistence.NewGormBuildingRepository(tdb.DB)
	buildings.SetOutboxEventSaver(event.NewOutboxPublisher(serializer))

	handler := testutil.NewRecordingHandler(housing.EventTypeBuildingCreated)
	bus := event.NewInMemoryEventBus(logger)
	bus.Subscribe(handler)

	repo := event.NewGormOutboxRepository(tdb.DB)
	cfg := event.DefaultOutboxProcessorConfig()
	cfg.MaxRetries = maxRetries
	return &outboxHarness{
		repo:      repo,
		buildings: buildings,
		processor: event.NewOutboxProcessor(repo, bus, serializer, cfg, logger),
		handler:   handler,
	}
}

func TestOutbox_SaveAndDeliver(t *testing.T) {
	tdb := NewSharedTestDB(t)
	ctx := context.Background()
	tenantID := uuid.New()
	h := newOutboxHarness(tdb, 3)

	building, err := housing.NewBuilding(tenantID, "Cedar House", "5 Lake Street")
	require.NoError(t, err)
	require.NoError(t, h.buildings.Save(ctx, building))

	counts, err := h.repo.CountByStatus(ctx, tenantID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[shared.OutboxStatusPending])

	assert.Equal(t, 1, h.processor.ProcessOnce(ctx))
	require.Equal(t, 1, h.handler.HandledCount())
	assert.Equal(t, building.ID, h.handler.Handled()[0].AggregateID())

	counts, err = h.repo.CountByStatus(ctx, tenantID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[shared.OutboxStatusSent])
	assert.Zero(t, counts[shared.OutboxStatusPending])

	assert.Zero(t, h.processor.ProcessOnce(ctx))
}

func TestOutbox_FailedSaveWritesNoEvents(t *testing.T) {
	tdb := NewSharedTestDB(t)
	ctx := context.Background()
	tenantID := uuid.New()
	h := newOutboxHarness(tdb, 3)

	first, err := housing.NewBuilding(tenantID, "Cedar House", "5 Lake Street")
	require.NoError(t, err)
	require.NoError(t, h.buildings.Save(ctx, first))

	duplicate, err := housing.NewBuilding(tenantID, "Cedar House", "6 Lake Street")
	require.NoError(t, err)
	require.ErrorIs(t, h.buildings.Save(ctx, duplicate), shared.ErrAlreadyExists)

	counts, err := h.repo.CountByStatus(ctx, tenantID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[shared.OutboxStatusPending])
}

func TestOutbox_DeadLetterAndRequeue(t *testing.T) {
	tdb := NewSharedTestDB(t)
	ctx := context.Background()
	tenantID := uuid.New()
	h := newOutboxHarness(tdb, 1)
	h.handler.SetError(errors.New("downstream unavailable"))

	building, err := housing.NewBuilding(tenantID, "Birch House", "7 Lake Street")
	require.NoError(t, err)
	require.NoError(t, h.buildings.Save(ctx, building))

	assert.Zero(t, h.processor.ProcessOnce(ctx))

	dead, total, err := h.repo.FindDead(ctx, tenantID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, dead, 1)
	assert.Contains(t, dead[0].LastError, "downstream unavailable")

	_, total, err = h.repo.FindDead(ctx, uuid.New(), 1, 10)
	require.NoError(t, err)
	assert.Zero(t, total)

	entry, err := h.repo.FindByID(ctx, dead[0].ID)
	require.NoError(t, err)
	require.NoError(t, entry.ResetForRetry())
	require.NoError(t, h.repo.Update(ctx, entry))

	h.handler.SetError(nil)
	assert.Equal(t, 1, h.processor.ProcessOnce(ctx))

	counts, err := h.repo.CountByStatus(ctx, tenantID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[shared.OutboxStatusSent])
	assert.Zero(t, counts[shared.OutboxStatusDead])
}
