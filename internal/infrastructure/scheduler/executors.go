package scheduler

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReportArchiver renders a completed inspection and stores the PDF
type ReportArchiver interface {
	ArchiveReport(ctx context.Context, tenantID, inspectionID uuid.UUID) error
}

// InvitationPurger deletes invitation tokens that can no longer be redeemed
type InvitationPurger interface {
	PurgeStaleInvitations(ctx context.Context, tenantID uuid.UUID) (int64, error)
}

// ReportArchiveExecutor runs INSPECTION_REPORT_ARCHIVE jobs
type ReportArchiveExecutor struct {
	archiver ReportArchiver
	logger   *zap.Logger
}

// NewReportArchiveExecutor creates the executor
func NewReportArchiveExecutor(archiver ReportArchiver, logger *zap.Logger) *ReportArchiveExecutor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportArchiveExecutor{archiver: archiver, logger: logger}
}

// Execute archives the report of job.SubjectID
func (e *ReportArchiveExecutor) Execute(ctx context.Context, job *Job) error {
	if job.TenantID == uuid.Nil || job.SubjectID == uuid.Nil {
		return fmt.Errorf("%w: report archive needs tenant and inspection", ErrInvalidJob)
	}
	if err := e.archiver.ArchiveReport(ctx, job.TenantID, job.SubjectID); err != nil {
		return fmt.Errorf("archive report %s: %w", job.SubjectID, err)
	}
	e.logger.Info("Inspection report archived",
		zap.String("tenant_id", job.TenantID.String()),
		zap.String("inspection_id", job.SubjectID.String()),
	)
	return nil
}

// InvitationCleanupExecutor runs INVITATION_CLEANUP jobs
type InvitationCleanupExecutor struct {
	purger InvitationPurger
	logger *zap.Logger
}

// NewInvitationCleanupExecutor creates the executor
func NewInvitationCleanupExecutor(purger InvitationPurger, logger *zap.Logger) *InvitationCleanupExecutor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InvitationCleanupExecutor{purger: purger, logger: logger}
}

// Execute purges the tenant's stale invitations
func (e *InvitationCleanupExecutor) Execute(ctx context.Context, job *Job) error {
	if job.TenantID == uuid.Nil {
		return fmt.Errorf("%w: invitation cleanup needs a tenant", ErrInvalidJob)
	}
	n, err := e.purger.PurgeStaleInvitations(ctx, job.TenantID)
	if err != nil {
		return fmt.Errorf("purge invitations: %w", err)
	}
	if n > 0 {
		e.logger.Info("Stale invitations purged",
			zap.String("tenant_id", job.TenantID.String()),
			zap.Int64("deleted", n),
		)
	}
	return nil
}

var (
	_ JobExecutor = (*ReportArchiveExecutor)(nil)
	_ JobExecutor = (*InvitationCleanupExecutor)(nil)
)
