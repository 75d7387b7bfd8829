package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "dormhub-backend/business"

// DormMetrics holds the business counters of the dormitory platform.
// A nil *DormMetrics records nothing, so callers never need to check.
type DormMetrics struct {
	inspectionsCompleted *Counter
	roomsChecked         *Counter
	reportsRendered      *Counter
	reportRenderDuration *Histogram
	invitationsCreated   *Counter
	participantsJoined   *Counter
	jobsProcessed        *Counter
}

// NewDormMetrics creates the instruments on meter
func NewDormMetrics(meter metric.Meter) (*DormMetrics, error) {
	m := &DormMetrics{}
	var errs []error
	counter := func(name, desc string) *Counter {
		c, err := NewCounter(meter, name, desc, "{count}")
		errs = append(errs, err)
		return c
	}
	m.inspectionsCompleted = counter("dorm_inspections_completed_total", "Inspections moved to completed")
	m.roomsChecked = counter("dorm_inspection_rooms_checked_total", "Inspection rooms set to a final status")
	m.reportsRendered = counter("dorm_inspection_reports_total", "Inspection PDF reports rendered")
	m.invitationsCreated = counter("dorm_event_invitations_created_total", "Event invitation tokens issued")
	m.participantsJoined = counter("dorm_event_participants_joined_total", "Users added to events")
	m.jobsProcessed = counter("dorm_background_jobs_total", "Background jobs finished")

	h, err := NewHistogram(meter, HistogramOpts{
		Name:        "dorm_inspection_report_render_duration_seconds",
		Description: "Time spent rendering inspection PDFs",
		Unit:        "s",
		Boundaries:  RenderDurationBuckets,
	})
	errs = append(errs, err)
	m.reportRenderDuration = h

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return m, nil
}

// InspectionCompleted counts a completed inspection
func (m *DormMetrics) InspectionCompleted(ctx context.Context, tenantID uuid.UUID) {
	if m == nil {
		return
	}
	m.inspectionsCompleted.Inc(ctx, TenantAttr(tenantID))
}

// RoomChecked counts a room result by status
func (m *DormMetrics) RoomChecked(ctx context.Context, tenantID uuid.UUID, status string) {
	if m == nil {
		return
	}
	m.roomsChecked.Inc(ctx, TenantAttr(tenantID), AttrRoomStatus.String(status))
}

// ReportRendered records one PDF render and its duration
func (m *DormMetrics) ReportRendered(ctx context.Context, tenantID uuid.UUID, d time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	m.reportsRendered.Inc(ctx, TenantAttr(tenantID), AttrOutcome.String(outcome))
	if err == nil {
		m.reportRenderDuration.RecordDuration(ctx, d, TenantAttr(tenantID))
	}
}

// InvitationCreated counts an issued invitation token
func (m *DormMetrics) InvitationCreated(ctx context.Context, tenantID uuid.UUID) {
	if m == nil {
		return
	}
	m.invitationsCreated.Inc(ctx, TenantAttr(tenantID))
}

// ParticipantJoined counts a participant by how they joined
func (m *DormMetrics) ParticipantJoined(ctx context.Context, tenantID uuid.UUID, joinMethod string) {
	if m == nil {
		return
	}
	m.participantsJoined.Inc(ctx, TenantAttr(tenantID), AttrJoinMethod.String(joinMethod))
}

// JobProcessed counts a finished background job
func (m *DormMetrics) JobProcessed(ctx context.Context, jobType string, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	m.jobsProcessed.Inc(ctx, Attr("job_type", jobType), AttrOutcome.String(outcome))
}
