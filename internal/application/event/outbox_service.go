package event

import (
	"context"
	"fmt"
	"time"

	"github.com/dormhub/backend/internal/domain/identity"
	"github.com/dormhub/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OutboxService lets tenant admins watch event delivery and requeue
// dead-lettered events. Every operation is scoped to the caller's tenant.
type OutboxService struct {
	repo   shared.OutboxRepository
	logger *zap.Logger
}

// NewOutboxService creates a new outbox service
func NewOutboxService(repo shared.OutboxRepository, logger *zap.Logger) *OutboxService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OutboxService{repo: repo, logger: logger}
}

// OutboxEntryResponse represents an outbox entry in API responses
type OutboxEntryResponse struct {
	ID            uuid.UUID  `json:"id"`
	EventID       uuid.UUID  `json:"event_id"`
	EventType     string     `json:"event_type"`
	AggregateID   uuid.UUID  `json:"aggregate_id"`
	AggregateType string     `json:"aggregate_type"`
	Status        string     `json:"status"`
	RetryCount    int        `json:"retry_count"`
	MaxRetries    int        `json:"max_retries"`
	LastError     string     `json:"last_error,omitempty"`
	NextRetryAt   *time.Time `json:"next_retry_at,omitempty"`
	ProcessedAt   *time.Time `json:"processed_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// OutboxStatsResponse counts outbox entries per delivery status
type OutboxStatsResponse struct {
	Pending    int64 `json:"pending"`
	Processing int64 `json:"processing"`
	Sent       int64 `json:"sent"`
	Failed     int64 `json:"failed"`
	Dead       int64 `json:"dead"`
	Total      int64 `json:"total"`
}

// RetryAllResponse reports how many dead entries were requeued
type RetryAllResponse struct {
	Requeued int64 `json:"requeued"`
}

const retryAllBatch = 100

// Stats returns delivery counters of the caller's tenant
func (s *OutboxService) Stats(ctx context.Context, actor identity.Actor) (*OutboxStatsResponse, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	counts, err := s.repo.CountByStatus(ctx, actor.TenantID)
	if err != nil {
		return nil, fmt.Errorf("count outbox entries: %w", err)
	}

	resp := &OutboxStatsResponse{
		Pending:    counts[shared.OutboxStatusPending],
		Processing: counts[shared.OutboxStatusProcessing],
		Sent:       counts[shared.OutboxStatusSent],
		Failed:     counts[shared.OutboxStatusFailed],
		Dead:       counts[shared.OutboxStatusDead],
	}
	for _, n := range counts {
		resp.Total += n
	}
	return resp, nil
}

// ListDead pages through dead-lettered entries, most recently failed first
func (s *OutboxService) ListDead(ctx context.Context, actor identity.Actor, filter shared.Filter) (*shared.Paginated[OutboxEntryResponse], error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	filter = filter.Normalize()

	entries, total, err := s.repo.FindDead(ctx, actor.TenantID, filter.Page, filter.PageSize)
	if err != nil {
		return nil, fmt.Errorf("find dead outbox entries: %w", err)
	}

	items := make([]OutboxEntryResponse, len(entries))
	for i, entry := range entries {
		items[i] = toOutboxEntryResponse(entry)
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// Retry puts one dead entry back into the delivery queue
func (s *OutboxService) Retry(ctx context.Context, actor identity.Actor, id uuid.UUID) (*OutboxEntryResponse, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil || entry == nil || entry.TenantID != actor.TenantID {
		return nil, shared.NotFound("Outbox entry")
	}

	if err := entry.ResetForRetry(); err != nil {
		return nil, shared.InvalidState(err.Error())
	}
	if err := s.repo.Update(ctx, entry); err != nil {
		return nil, fmt.Errorf("requeue outbox entry: %w", err)
	}

	s.logger.Info("Dead outbox entry requeued",
		zap.String("entry_id", id.String()),
		zap.String("event_type", entry.EventType))

	resp := toOutboxEntryResponse(entry)
	return &resp, nil
}

// RetryAll requeues every dead entry of the caller's tenant. Entries that
// fail to update are logged and skipped.
func (s *OutboxService) RetryAll(ctx context.Context, actor identity.Actor) (*RetryAllResponse, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	// requeued entries leave the dead set, so the first page is always the next batch
	var requeued int64
	for {
		entries, _, err := s.repo.FindDead(ctx, actor.TenantID, 1, retryAllBatch)
		if err != nil {
			return nil, fmt.Errorf("find dead outbox entries: %w", err)
		}

		var progressed bool
		for _, entry := range entries {
			if entry.ResetForRetry() != nil {
				continue
			}
			if err := s.repo.Update(ctx, entry); err != nil {
				s.logger.Warn("Could not requeue outbox entry",
					zap.String("entry_id", entry.ID.String()),
					zap.Error(err))
				continue
			}
			requeued++
			progressed = true
		}
		if len(entries) < retryAllBatch || !progressed {
			break
		}
	}

	s.logger.Info("Dead outbox entries requeued",
		zap.String("tenant_id", actor.TenantID.String()),
		zap.Int64("count", requeued))
	return &RetryAllResponse{Requeued: requeued}, nil
}

func requireAdmin(actor identity.Actor) error {
	if !actor.IsAdmin() {
		return shared.Forbidden("Only admins can manage event delivery")
	}
	return nil
}

func toOutboxEntryResponse(entry *shared.OutboxEntry) OutboxEntryResponse {
	return OutboxEntryResponse{
		ID:            entry.ID,
		EventID:       entry.EventID,
		EventType:     entry.EventType,
		AggregateID:   entry.AggregateID,
		AggregateType: entry.AggregateType,
		Status:        string(entry.Status),
		RetryCount:    entry.RetryCount,
		MaxRetries:    entry.MaxRetries,
		LastError:     entry.LastError,
		NextRetryAt:   entry.NextRetryAt,
		ProcessedAt:   entry.ProcessedAt,
		CreatedAt:     entry.CreatedAt,
		UpdatedAt:     entry.UpdatedAt,
	}
}
