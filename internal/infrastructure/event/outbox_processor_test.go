package event

import (
	"context"
	"testing"
	"time"

	"github.com/dormhub/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newProcessorFixture(t *testing.T, handler *recordingHandler, entries ...*shared.OutboxEntry) (*OutboxProcessor, *memoryOutbox) {
	t.Helper()
	serializer := NewEventSerializer()
	serializer.Register("NoticePosted", &noticeEvent{})
	bus := NewInMemoryEventBus(zap.NewNop())
	bus.Subscribe(handler)
	repo := newMemoryOutbox(entries...)
	cfg := DefaultOutboxProcessorConfig()
	cfg.MaxRetries = 2
	return NewOutboxProcessor(repo, bus, serializer, cfg, zap.NewNop()), repo
}

func outboxEntry(t *testing.T, eventType string) *shared.OutboxEntry {
	t.Helper()
	evt := newNotice(eventType)
	payload, err := NewEventSerializer().Serialize(evt)
	require.NoError(t, err)
	return shared.NewOutboxEntry(evt.TenantID(), evt, payload)
}

func TestOutboxProcessor_DeliversPending(t *testing.T) {
	handler := newRecordingHandler("NoticePosted")
	entry := outboxEntry(t, "NoticePosted")
	p, _ := newProcessorFixture(t, handler, entry)

	assert.Equal(t, 1, p.ProcessOnce(context.Background()))
	assert.Equal(t, 1, handler.count())
	assert.Equal(t, shared.OutboxStatusSent, entry.Status)
	assert.NotNil(t, entry.ProcessedAt)

	assert.Zero(t, p.ProcessOnce(context.Background()), "sent entries are not delivered twice")
}

func TestOutboxProcessor_HandlerFailureSchedulesRetry(t *testing.T) {
	handler := newRecordingHandler("NoticePosted")
	handler.err = errHandler
	entry := outboxEntry(t, "NoticePosted")
	p, _ := newProcessorFixture(t, handler, entry)

	assert.Zero(t, p.ProcessOnce(context.Background()))
	assert.Equal(t, shared.OutboxStatusFailed, entry.Status)
	assert.Equal(t, 1, entry.RetryCount)
	require.NotNil(t, entry.NextRetryAt)
	assert.Contains(t, entry.LastError, "handler failed")
}

func TestOutboxProcessor_DeadLetterAfterMaxRetries(t *testing.T) {
	handler := newRecordingHandler("NoticePosted")
	handler.err = errHandler
	entry := outboxEntry(t, "NoticePosted")
	p, _ := newProcessorFixture(t, handler, entry)

	p.ProcessOnce(context.Background())
	// make the retry due immediately
	past := time.Now().Add(-time.Second)
	entry.NextRetryAt = &past
	p.ProcessOnce(context.Background())

	assert.True(t, entry.IsDead())
	assert.Equal(t, 2, entry.RetryCount)
}

func TestOutboxProcessor_UnknownTypeFails(t *testing.T) {
	handler := newRecordingHandler()
	entry := outboxEntry(t, "SomethingElse")
	p, _ := newProcessorFixture(t, handler, entry)

	assert.Zero(t, p.ProcessOnce(context.Background()))
	assert.Equal(t, shared.OutboxStatusFailed, entry.Status)
	assert.Contains(t, entry.LastError, "unknown event type")
	assert.Zero(t, handler.count())
}

func TestOutboxProcessor_Cleanup(t *testing.T) {
	old := outboxEntry(t, "NoticePosted")
	old.MarkSent()
	longAgo := time.Now().Add(-30 * 24 * time.Hour)
	old.ProcessedAt = &longAgo
	fresh := outboxEntry(t, "NoticePosted")
	fresh.MarkSent()

	p, repo := newProcessorFixture(t, newRecordingHandler(), old, fresh)
	p.cleanup(context.Background())

	_, err := repo.FindByID(context.Background(), old.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	_, err = repo.FindByID(context.Background(), fresh.ID)
	assert.NoError(t, err)
}

func TestOutboxProcessor_StartStop(t *testing.T) {
	handler := newRecordingHandler("NoticePosted")
	entry := outboxEntry(t, "NoticePosted")
	serializer := NewEventSerializer()
	serializer.Register("NoticePosted", &noticeEvent{})
	bus := NewInMemoryEventBus(zap.NewNop())
	bus.Subscribe(handler)
	cfg := DefaultOutboxProcessorConfig()
	cfg.PollInterval = 10 * time.Millisecond
	p := NewOutboxProcessor(newMemoryOutbox(entry), bus, serializer, cfg, zap.NewNop())

	require.NoError(t, p.Start(context.Background()))
	assert.Eventually(t, func() bool { return handler.count() == 1 }, time.Second, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, p.Stop(ctx))
}
