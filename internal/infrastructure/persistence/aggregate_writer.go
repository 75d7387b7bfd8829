package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/dormhub/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// aggregateWriter persists aggregate roots with optimistic locking and writes
// their pending domain events to the outbox inside the same transaction.
// Repositories embed it to get SetOutboxEventSaver.
type aggregateWriter struct {
	outboxSaver shared.OutboxEventSaver // optional
}

// SetOutboxEventSaver sets the outbox event saver for transactional event publishing
func (w *aggregateWriter) SetOutboxEventSaver(saver shared.OutboxEventSaver) {
	w.outboxSaver = saver
}

// write inserts model when the aggregate was never stored, otherwise updates it
// guarded by the version it was loaded with. omit names associations that the
// caller syncs itself.
func (w *aggregateWriter) write(ctx context.Context, tx *gorm.DB, model any, agg shared.AggregateRoot, omit ...string) error {
	if agg.PersistedVersion() == 0 {
		if err := tx.Omit(omit...).Create(model).Error; err != nil {
			return translateWriteError(err)
		}
	} else {
		result := tx.Model(model).
			Where("version = ?", agg.PersistedVersion()).
			Select("*").
			Omit(append([]string{"created_at"}, omit...)...).
			Updates(model)
		if result.Error != nil {
			return translateWriteError(result.Error)
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrentModification
		}
	}

	if events := agg.GetDomainEvents(); w.outboxSaver != nil && len(events) > 0 {
		if err := w.outboxSaver.SaveEvents(ctx, tx, events...); err != nil {
			return fmt.Errorf("failed to save events to outbox: %w", err)
		}
	}
	return nil
}

// committed finalizes aggregates after their transaction succeeded
func committed(aggs ...shared.AggregateRoot) {
	for _, agg := range aggs {
		agg.MarkPersisted()
		agg.ClearDomainEvents()
	}
}

func translateWriteError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return shared.ErrAlreadyExists
	}
	return err
}

func notFound(err error, resource string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.NotFound(resource)
	}
	return err
}

// markLoaded flags freshly read aggregates as persisted at their stored version
func markLoaded[T any, PT interface {
	*T
	MarkPersisted()
}](items []T) []T {
	for i := range items {
		PT(&items[i]).MarkPersisted()
	}
	return items
}
