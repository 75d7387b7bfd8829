package inspection

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dormhub/backend/internal/domain/housing"
	"github.com/dormhub/backend/internal/domain/identity"
	"github.com/dormhub/backend/internal/domain/inspection"
	"github.com/dormhub/backend/internal/domain/shared"
	infra "github.com/dormhub/backend/internal/infrastructure/printing"
	"github.com/dormhub/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultReportURLTTL = 15 * time.Minute
	reportContentType   = "application/pdf"
)

// ReportRenderer turns the report view model into a PDF
type ReportRenderer interface {
	PDF(ctx context.Context, report *infra.InspectionReport) ([]byte, error)
}

// ReportStorage keeps archived reports in object storage
type ReportStorage interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	GenerateDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error)
	ObjectExists(ctx context.Context, key string) (bool, error)
}

// InspectionService handles inspection planning, execution and reporting
type InspectionService struct {
	repo         inspection.Repository
	roomRepo     housing.RoomRepository
	floorRepo    housing.FloorRepository
	buildingRepo housing.BuildingRepository
	userRepo     identity.UserRepository
	renderer     ReportRenderer
	storage      ReportStorage
	urlTTL       time.Duration
	metrics      *telemetry.DormMetrics
	logger       *zap.Logger
	now          func() time.Time
}

// NewInspectionService creates a new InspectionService
func NewInspectionService(
	repo inspection.Repository,
	roomRepo housing.RoomRepository,
	floorRepo housing.FloorRepository,
	buildingRepo housing.BuildingRepository,
	userRepo identity.UserRepository,
	logger *zap.Logger,
) *InspectionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InspectionService{
		repo:         repo,
		roomRepo:     roomRepo,
		floorRepo:    floorRepo,
		buildingRepo: buildingRepo,
		userRepo:     userRepo,
		urlTTL:       defaultReportURLTTL,
		logger:       logger,
		now:          time.Now,
	}
}

// WithReports enables PDF rendering and archiving
func (s *InspectionService) WithReports(renderer ReportRenderer, storage ReportStorage, urlTTL time.Duration) *InspectionService {
	s.renderer = renderer
	s.storage = storage
	if urlTTL > 0 {
		s.urlTTL = urlTTL
	}
	return s
}

// WithMetrics sets the business metrics recorder
func (s *InspectionService) WithMetrics(metrics *telemetry.DormMetrics) *InspectionService {
	s.metrics = metrics
	return s
}

// Create schedules an inspection
func (s *InspectionService) Create(ctx context.Context, actor identity.Actor, req CreateInspectionRequest) (*InspectionResponse, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	inspectorID, err := s.resolveInspector(ctx, actor, req.InspectorID)
	if err != nil {
		return nil, err
	}
	targets, err := s.resolveTargets(ctx, actor.TenantID, req.RoomIDs, req.BuildingID)
	if err != nil {
		return nil, err
	}

	i, err := inspection.NewInspection(actor.TenantID, actor.UserID, req.Name, req.Description, req.ScheduledAt, inspectorID, targets)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, i); err != nil {
		return nil, err
	}

	s.logger.Info("Inspection scheduled",
		zap.String("inspection_id", i.ID.String()),
		zap.Int("rooms", len(i.Rooms)),
		zap.Time("scheduled_at", i.ScheduledAt))

	resp := ToInspectionResponse(i, true)
	return &resp, nil
}

// GetByID retrieves an inspection with its checklist
func (s *InspectionService) GetByID(ctx context.Context, actor identity.Actor, id uuid.UUID) (*InspectionResponse, error) {
	i, err := s.repo.FindByIDForTenant(ctx, actor.TenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToInspectionResponse(i, true)
	return &resp, nil
}

// List returns a page of inspections with their summaries.
// Filter keys: status, inspector_id, scheduled_from, scheduled_to.
func (s *InspectionService) List(ctx context.Context, actor identity.Actor, filter shared.Filter) (*shared.Paginated[InspectionResponse], error) {
	filter = filter.Normalize()

	list, err := s.repo.FindAllForTenant(ctx, actor.TenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.repo.CountForTenant(ctx, actor.TenantID, filter)
	if err != nil {
		return nil, err
	}

	items := make([]InspectionResponse, len(list))
	for idx := range list {
		items[idx] = ToInspectionResponse(&list[idx], false)
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// Update changes a scheduled inspection
func (s *InspectionService) Update(ctx context.Context, actor identity.Actor, id uuid.UUID, req UpdateInspectionRequest) (*InspectionResponse, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	i, err := s.repo.FindByIDForTenant(ctx, actor.TenantID, id)
	if err != nil {
		return nil, err
	}

	var inspectorID uuid.UUID
	if req.InspectorID != nil {
		if inspectorID, err = s.resolveInspector(ctx, actor, req.InspectorID); err != nil {
			return nil, err
		}
	}
	var targets []inspection.RoomTarget
	if req.RoomIDs != nil || req.BuildingID != nil {
		if targets, err = s.resolveTargets(ctx, actor.TenantID, req.RoomIDs, req.BuildingID); err != nil {
			return nil, err
		}
	}

	if err := i.Update(req.Name, req.Description, req.ScheduledAt, inspectorID, targets); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, i); err != nil {
		return nil, err
	}

	resp := ToInspectionResponse(i, true)
	return &resp, nil
}

// Delete removes an inspection that never started
func (s *InspectionService) Delete(ctx context.Context, actor identity.Actor, id uuid.UUID) error {
	if err := requireStaff(actor); err != nil {
		return err
	}
	i, err := s.repo.FindByIDForTenant(ctx, actor.TenantID, id)
	if err != nil {
		return err
	}
	if err := i.EnsureDeletable(); err != nil {
		return err
	}
	if err := s.repo.DeleteForTenant(ctx, actor.TenantID, id); err != nil {
		return err
	}
	s.logger.Info("Inspection deleted", zap.String("inspection_id", id.String()))
	return nil
}

// Start moves the inspection to active
func (s *InspectionService) Start(ctx context.Context, actor identity.Actor, id uuid.UUID) (*InspectionResponse, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	i, err := s.repo.FindByIDForTenant(ctx, actor.TenantID, id)
	if err != nil {
		return nil, err
	}
	if err := i.Start(); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, i); err != nil {
		return nil, err
	}

	s.logger.Info("Inspection started", zap.String("inspection_id", i.ID.String()))
	resp := ToInspectionResponse(i, true)
	return &resp, nil
}

// SetRoomStatus records the result of one room
func (s *InspectionService) SetRoomStatus(ctx context.Context, actor identity.Actor, id, roomID uuid.UUID, req SetRoomStatusRequest) (*InspectionResponse, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	i, err := s.repo.FindByIDForTenant(ctx, actor.TenantID, id)
	if err != nil {
		return nil, err
	}
	if err := i.SetRoomStatus(roomID, req.Status, req.Comment, actor.UserID); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, i); err != nil {
		return nil, err
	}

	if req.Status.IsDispositioned() {
		s.metrics.RoomChecked(ctx, actor.TenantID, string(req.Status))
	}
	resp := ToInspectionResponse(i, true)
	return &resp, nil
}

// Complete closes the inspection. The completion event stored with it
// triggers archiving of the report.
func (s *InspectionService) Complete(ctx context.Context, actor identity.Actor, id uuid.UUID) (resp *InspectionResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "inspection", "Complete", telemetry.TenantAttr(actor.TenantID))
	defer func() { telemetry.End(span, err) }()

	if err = requireStaff(actor); err != nil {
		return nil, err
	}
	i, err := s.repo.FindByIDForTenant(ctx, actor.TenantID, id)
	if err != nil {
		return nil, err
	}
	if err = i.Complete(); err != nil {
		return nil, err
	}
	if err = s.repo.Save(ctx, i); err != nil {
		return nil, err
	}

	s.metrics.InspectionCompleted(ctx, actor.TenantID)
	s.logger.Info("Inspection completed",
		zap.String("inspection_id", i.ID.String()),
		zap.Int("rooms", len(i.Rooms)))

	out := ToInspectionResponse(i, true)
	return &out, nil
}

// RenderReport renders the PDF report of an active or completed inspection
func (s *InspectionService) RenderReport(ctx context.Context, actor identity.Actor, id uuid.UUID) (*ReportFile, error) {
	i, err := s.repo.FindByIDForTenant(ctx, actor.TenantID, id)
	if err != nil {
		return nil, err
	}
	if !i.CanRenderReport() {
		return nil, shared.InvalidState("Reports are available once the inspection has started")
	}
	data, err := s.render(ctx, i)
	if err != nil {
		return nil, err
	}
	return &ReportFile{Filename: reportFilename(i), Content: data}, nil
}

// ReportURL returns a presigned link to the archived report
func (s *InspectionService) ReportURL(ctx context.Context, actor identity.Actor, id uuid.UUID) (*ReportURLResponse, error) {
	i, err := s.repo.FindByIDForTenant(ctx, actor.TenantID, id)
	if err != nil {
		return nil, err
	}
	if i.ReportKey == "" || s.storage == nil {
		return nil, shared.NewDomainError("REPORT_NOT_ARCHIVED", "The report has not been archived yet")
	}
	url, expiresAt, err := s.storage.GenerateDownloadURL(ctx, i.ReportKey, s.urlTTL)
	if err != nil {
		return nil, fmt.Errorf("generate report url: %w", err)
	}
	return &ReportURLResponse{URL: url, ExpiresAt: expiresAt}, nil
}

// ArchiveReport renders a completed inspection, uploads the PDF and stores
// its key. Running it again for an archived report is a no-op.
func (s *InspectionService) ArchiveReport(ctx context.Context, tenantID, inspectionID uuid.UUID) (err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "inspection", "ArchiveReport", telemetry.TenantAttr(tenantID))
	defer func() { telemetry.End(span, err) }()

	if s.storage == nil {
		return errors.New("report storage is not configured")
	}
	i, err := s.repo.FindByIDForTenant(ctx, tenantID, inspectionID)
	if err != nil {
		return err
	}
	if i.Status != inspection.StatusCompleted {
		return shared.InvalidState("Only completed inspections are archived")
	}
	if i.ReportKey != "" {
		exists, err := s.storage.ObjectExists(ctx, i.ReportKey)
		if err != nil {
			return fmt.Errorf("check archived report: %w", err)
		}
		if exists {
			return nil
		}
	}

	data, err := s.render(ctx, i)
	if err != nil {
		return err
	}
	key := reportKey(i)
	if err = s.storage.Upload(ctx, key, data, reportContentType); err != nil {
		return fmt.Errorf("upload report: %w", err)
	}
	if i.ReportKey != key {
		if err = i.AttachReport(key); err != nil {
			return err
		}
		if err = s.repo.Save(ctx, i); err != nil {
			return err
		}
	}

	s.logger.Info("Inspection report stored",
		zap.String("inspection_id", i.ID.String()),
		zap.String("key", key),
		zap.Int("bytes", len(data)))
	return nil
}

func (s *InspectionService) render(ctx context.Context, i *inspection.Inspection) ([]byte, error) {
	if s.renderer == nil {
		return nil, shared.NewDomainError("REPORTS_UNAVAILABLE", "PDF rendering is not configured")
	}

	inspectorName := ""
	if user, err := s.userRepo.FindByIDForTenant(ctx, i.TenantID, i.InspectorID); err == nil {
		inspectorName = user.Name()
	}

	start := s.now()
	data, err := s.renderer.PDF(ctx, infra.NewInspectionReport(i, inspectorName, start))
	s.metrics.ReportRendered(ctx, i.TenantID, s.now().Sub(start), err)
	if err != nil {
		s.logger.Error("Inspection report rendering failed",
			zap.String("inspection_id", i.ID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("render report: %w", err)
	}
	return data, nil
}

// resolveInspector validates an explicit inspector, defaulting to the caller
func (s *InspectionService) resolveInspector(ctx context.Context, actor identity.Actor, inspectorID *uuid.UUID) (uuid.UUID, error) {
	if inspectorID == nil || *inspectorID == uuid.Nil || *inspectorID == actor.UserID {
		return actor.UserID, nil
	}
	user, err := s.userRepo.FindByIDForTenant(ctx, actor.TenantID, *inspectorID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return uuid.Nil, shared.NewDomainError("INVALID_INSPECTOR", "Inspector does not exist")
		}
		return uuid.Nil, err
	}
	if !user.IsActive() || !user.Role.IsStaff() {
		return uuid.Nil, shared.NewDomainError("INVALID_INSPECTOR", "Inspector must be an active staff member")
	}
	return user.ID, nil
}

// resolveTargets collects the rooms of an inspection and snapshots the
// building name and floor number of each
func (s *InspectionService) resolveTargets(ctx context.Context, tenantID uuid.UUID, roomIDs []uuid.UUID, buildingID *uuid.UUID) ([]inspection.RoomTarget, error) {
	var rooms []housing.Room

	if buildingID != nil {
		if _, err := s.buildingRepo.FindByIDForTenant(ctx, tenantID, *buildingID); err != nil {
			return nil, err
		}
		inBuilding, err := s.roomRepo.FindByBuilding(ctx, tenantID, *buildingID)
		if err != nil {
			return nil, err
		}
		for _, r := range inBuilding {
			if r.Status != housing.RoomStatusClosed {
				rooms = append(rooms, r)
			}
		}
	}

	if len(roomIDs) > 0 {
		ids := uniqueIDs(roomIDs)
		found, err := s.roomRepo.FindByIDs(ctx, tenantID, ids)
		if err != nil {
			return nil, err
		}
		if len(found) != len(ids) {
			return nil, shared.NewDomainError("ROOM_NOT_FOUND", "One or more rooms do not exist")
		}
		rooms = append(rooms, found...)
	}

	buildingNames := make(map[uuid.UUID]string)
	floorNumbers := make(map[uuid.UUID]int)
	for _, r := range rooms {
		if _, ok := buildingNames[r.BuildingID]; ok {
			continue
		}
		b, err := s.buildingRepo.FindByIDForTenant(ctx, tenantID, r.BuildingID)
		if err != nil {
			return nil, err
		}
		buildingNames[r.BuildingID] = b.Name
		floors, err := s.floorRepo.FindByBuilding(ctx, tenantID, r.BuildingID)
		if err != nil {
			return nil, err
		}
		for _, f := range floors {
			floorNumbers[f.ID] = f.Number
		}
	}

	targets := make([]inspection.RoomTarget, 0, len(rooms))
	for _, r := range rooms {
		targets = append(targets, inspection.RoomTarget{
			RoomID:       r.ID,
			RoomNumber:   r.Number,
			BuildingName: buildingNames[r.BuildingID],
			FloorNumber:  floorNumbers[r.FloorID],
		})
	}
	return targets, nil
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func reportKey(i *inspection.Inspection) string {
	return fmt.Sprintf("inspections/%s/%s.pdf", i.TenantID, i.ID)
}

func reportFilename(i *inspection.Inspection) string {
	return fmt.Sprintf("inspection-%s.pdf", i.ID.String()[:8])
}

func requireStaff(actor identity.Actor) error {
	if !actor.IsStaff() {
		return shared.Forbidden("Only staff can manage inspections")
	}
	return nil
}
