package inspection

import (
	"context"
	"fmt"

	"github.com/dormhub/backend/internal/domain/inspection"
	"github.com/dormhub/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReportArchiveSubmitter queues a report archive job
type ReportArchiveSubmitter interface {
	SubmitReportArchive(tenantID, inspectionID uuid.UUID) error
}

// InspectionCompletedHandler handles InspectionCompletedEvent
// and queues archiving of the final report
type InspectionCompletedHandler struct {
	submitter ReportArchiveSubmitter
	logger    *zap.Logger
}

// NewInspectionCompletedHandler creates a new handler for inspection completed events
func NewInspectionCompletedHandler(submitter ReportArchiveSubmitter, logger *zap.Logger) *InspectionCompletedHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InspectionCompletedHandler{submitter: submitter, logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *InspectionCompletedHandler) EventTypes() []string {
	return []string{inspection.EventTypeInspectionCompleted}
}

// Handle queues the archive job. A full queue is returned as an error so the
// outbox delivers the event again later.
func (h *InspectionCompletedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	completed, ok := event.(*inspection.InspectionCompletedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			inspection.EventTypeInspectionCompleted, event.EventType())
	}

	if err := h.submitter.SubmitReportArchive(event.TenantID(), completed.InspectionID); err != nil {
		h.logger.Warn("Could not queue report archive",
			zap.String("inspection_id", completed.InspectionID.String()),
			zap.Error(err))
		return fmt.Errorf("queue report archive: %w", err)
	}

	h.logger.Debug("Report archive queued",
		zap.String("tenant_id", event.TenantID().String()),
		zap.String("inspection_id", completed.InspectionID.String()),
		zap.Int("not_confirmed", completed.Counts[inspection.RoomStatusNotConfirmed]))
	return nil
}

var _ shared.EventHandler = (*InspectionCompletedHandler)(nil)
