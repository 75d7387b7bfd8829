package event

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dormhub/backend/internal/domain/shared"
	"github.com/google/uuid"
)

type noticeEvent struct {
	shared.BaseDomainEvent
	Text string `json:"text"`
}

func newNotice(eventType string) *noticeEvent {
	return &noticeEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "Notice", uuid.New(), uuid.New()),
		Text:            "quiet hours start at 22:00",
	}
}

type recordingHandler struct {
	mu      sync.Mutex
	types   []string
	handled []shared.DomainEvent
	err     error
	panics  bool
}

func newRecordingHandler(types ...string) *recordingHandler {
	return &recordingHandler{types: types}
}

func (h *recordingHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.panics {
		panic("boom")
	}
	h.handled = append(h.handled, event)
	return h.err
}

func (h *recordingHandler) EventTypes() []string { return h.types }

func (h *recordingHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.handled)
}

var errHandler = errors.New("handler failed")

// memoryStore is a minimal IdempotencyStore for handler tests
type memoryStore struct {
	mu   sync.Mutex
	seen map[string]bool
	err  error
}

func newMemoryStore() *memoryStore { return &memoryStore{seen: map[string]bool{}} }

func (s *memoryStore) MarkProcessed(ctx context.Context, id string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return false, s.err
	}
	if s.seen[id] {
		return false, nil
	}
	s.seen[id] = true
	return true, nil
}

func (s *memoryStore) IsProcessed(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seen[id], s.err
}

func (s *memoryStore) Forget(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.seen, id)
	return nil
}

func (s *memoryStore) Close() error { return nil }

// memoryOutbox is an OutboxRepository backed by a map
type memoryOutbox struct {
	mu      sync.Mutex
	entries map[uuid.UUID]*shared.OutboxEntry
	deleted time.Time
}

func newMemoryOutbox(entries ...*shared.OutboxEntry) *memoryOutbox {
	o := &memoryOutbox{entries: map[uuid.UUID]*shared.OutboxEntry{}}
	for _, e := range entries {
		o.entries[e.ID] = e
	}
	return o
}

func (o *memoryOutbox) Save(ctx context.Context, entries ...*shared.OutboxEntry) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, e := range entries {
		o.entries[e.ID] = e
	}
	return nil
}

func (o *memoryOutbox) byStatus(status shared.OutboxStatus, keep func(*shared.OutboxEntry) bool, limit int) []*shared.OutboxEntry {
	o.mu.Lock()
	defer o.mu.Unlock()
	var result []*shared.OutboxEntry
	for _, e := range o.entries {
		if e.Status == status && (keep == nil || keep(e)) && len(result) < limit {
			result = append(result, e)
		}
	}
	return result
}

func (o *memoryOutbox) FindPending(ctx context.Context, limit int) ([]*shared.OutboxEntry, error) {
	return o.byStatus(shared.OutboxStatusPending, nil, limit), nil
}

func (o *memoryOutbox) FindRetryable(ctx context.Context, before time.Time, limit int) ([]*shared.OutboxEntry, error) {
	return o.byStatus(shared.OutboxStatusFailed, func(e *shared.OutboxEntry) bool {
		return e.NextRetryAt != nil && !e.NextRetryAt.After(before)
	}, limit), nil
}

func (o *memoryOutbox) FindDead(ctx context.Context, tenantID uuid.UUID, page, pageSize int) ([]*shared.OutboxEntry, int64, error) {
	dead := o.byStatus(shared.OutboxStatusDead, func(e *shared.OutboxEntry) bool {
		return e.TenantID == tenantID
	}, pageSize)
	return dead, int64(len(dead)), nil
}

func (o *memoryOutbox) FindByID(ctx context.Context, id uuid.UUID) (*shared.OutboxEntry, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if e, ok := o.entries[id]; ok {
		return e, nil
	}
	return nil, shared.ErrNotFound
}

func (o *memoryOutbox) MarkProcessing(ctx context.Context, ids []uuid.UUID) ([]*shared.OutboxEntry, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	var claimed []*shared.OutboxEntry
	for _, id := range ids {
		if e, ok := o.entries[id]; ok && e.MarkProcessing() == nil {
			claimed = append(claimed, e)
		}
	}
	return claimed, nil
}

func (o *memoryOutbox) Update(ctx context.Context, entry *shared.OutboxEntry) error {
	return o.Save(ctx, entry)
}

func (o *memoryOutbox) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.deleted = before
	var n int64
	for id, e := range o.entries {
		if e.Status == shared.OutboxStatusSent && e.ProcessedAt != nil && e.ProcessedAt.Before(before) {
			delete(o.entries, id)
			n++
		}
	}
	return n, nil
}

func (o *memoryOutbox) CountByStatus(ctx context.Context, tenantID uuid.UUID) (map[shared.OutboxStatus]int64, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	counts := map[shared.OutboxStatus]int64{}
	for _, e := range o.entries {
		if e.TenantID == tenantID {
			counts[e.Status]++
		}
	}
	return counts, nil
}
