package handler

import (
	"net/http"
	"testing"
	"time"

	appinspection "github.com/dormhub/backend/internal/application/inspection"
	"github.com/dormhub/backend/internal/domain/identity"
	"github.com/dormhub/backend/internal/domain/inspection"
	"github.com/dormhub/backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupInspectionRouter(svc *MockInspectionService, a identity.Actor) *gin.Engine {
	h := NewInspectionHandler(svc)
	r := newTestRouter(&a)
	r.POST("/inspections", h.Create)
	r.GET("/inspections", h.List)
	r.GET("/inspections/:id", h.GetByID)
	r.PUT("/inspections/:id", h.Update)
	r.DELETE("/inspections/:id", h.Delete)
	r.POST("/inspections/:id/start", h.Start)
	r.POST("/inspections/:id/complete", h.Complete)
	r.PUT("/inspections/:id/rooms/:roomId", h.SetRoomStatus)
	r.GET("/inspections/:id/report", h.RenderReport)
	r.GET("/inspections/:id/report/url", h.ReportURL)
	return r
}

func TestInspectionHandler_Create(t *testing.T) {
	manager := newActor(identity.RoleManager)
	scheduled := time.Date(2026, 11, 2, 9, 0, 0, 0, time.UTC)

	t.Run("by building", func(t *testing.T) {
		buildingID := uuid.New()
		svc := new(MockInspectionService)
		r := setupInspectionRouter(svc, manager)
		svc.On("Create", mock.Anything, manager, mock.MatchedBy(func(req appinspection.CreateInspectionRequest) bool {
			return req.Name == "Autumn check" &&
				req.ScheduledAt.Equal(scheduled) &&
				req.BuildingID != nil && *req.BuildingID == buildingID &&
				req.RoomIDs == nil && req.InspectorID == nil
		})).Return(&appinspection.InspectionResponse{ID: uuid.New(), Status: "scheduled"}, nil)

		rec := doRequest(r, http.MethodPost, "/inspections", map[string]any{
			"name":         "Autumn check",
			"scheduled_at": scheduled,
			"building_id":  buildingID,
		})

		assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		svc.AssertExpectations(t)
	})

	t.Run("by rooms with inspector", func(t *testing.T) {
		roomA, roomB, inspectorID := uuid.New(), uuid.New(), uuid.New()
		svc := new(MockInspectionService)
		r := setupInspectionRouter(svc, manager)
		svc.On("Create", mock.Anything, manager, mock.MatchedBy(func(req appinspection.CreateInspectionRequest) bool {
			return assert.ObjectsAreEqual([]uuid.UUID{roomA, roomB}, req.RoomIDs) &&
				req.InspectorID != nil && *req.InspectorID == inspectorID &&
				req.BuildingID == nil
		})).Return(&appinspection.InspectionResponse{ID: uuid.New()}, nil)

		rec := doRequest(r, http.MethodPost, "/inspections", map[string]any{
			"name":         "Spot check",
			"scheduled_at": scheduled,
			"inspector_id": inspectorID,
			"room_ids":     []uuid.UUID{roomA, roomB},
		})

		assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		svc.AssertExpectations(t)
	})

	t.Run("needs rooms or a building", func(t *testing.T) {
		svc := new(MockInspectionService)
		r := setupInspectionRouter(svc, manager)

		rec := doRequest(r, http.MethodPost, "/inspections", map[string]any{
			"name":         "Nothing",
			"scheduled_at": scheduled,
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("invalid room id", func(t *testing.T) {
		svc := new(MockInspectionService)
		r := setupInspectionRouter(svc, manager)

		rec := doRequest(r, http.MethodPost, "/inspections", map[string]any{
			"name":         "Spot check",
			"scheduled_at": scheduled,
			"room_ids":     []string{"101"},
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestInspectionHandler_List(t *testing.T) {
	a := newActor(identity.RoleResident)
	svc := new(MockInspectionService)
	r := setupInspectionRouter(svc, a)

	from := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
	page := shared.NewPaginated([]appinspection.InspectionResponse{}, 0, 1, 20)
	svc.On("List", mock.Anything, a, mock.MatchedBy(func(f shared.Filter) bool {
		gotFrom, _ := f.Filters["scheduled_from"].(time.Time)
		gotTo, _ := f.Filters["scheduled_to"].(time.Time)
		return f.Filters["status"] == "completed" &&
			gotFrom.Equal(from) &&
			gotTo.After(time.Date(2026, 11, 30, 23, 59, 59, 0, time.UTC)) &&
			gotTo.Before(time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC))
	})).Return(&page, nil)

	rec := doRequest(r, http.MethodGet, "/inspections?status=completed&scheduled_from=2026-11-01&scheduled_to=2026-11-30", nil)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	svc.AssertExpectations(t)

	rec = doRequest(r, http.MethodGet, "/inspections?scheduled_from=yesterday", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestInspectionHandler_SetRoomStatus(t *testing.T) {
	manager := newActor(identity.RoleManager)
	id, roomID := uuid.New(), uuid.New()
	path := "/inspections/" + id.String() + "/rooms/" + roomID.String()

	svc := new(MockInspectionService)
	r := setupInspectionRouter(svc, manager)
	svc.On("SetRoomStatus", mock.Anything, manager, id, roomID, appinspection.SetRoomStatusRequest{
		Status:  inspection.RoomStatusNotConfirmed,
		Comment: "Mould behind wardrobe",
	}).Return(&appinspection.InspectionResponse{ID: id, Status: "active"}, nil)

	rec := doRequest(r, http.MethodPut, path, map[string]any{"status": "not_confirmed", "comment": "Mould behind wardrobe"})
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doRequest(r, http.MethodPut, path, map[string]any{"status": "fine"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(r, http.MethodPut, "/inspections/"+id.String()+"/rooms/101", map[string]any{"status": "confirmed"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	svc.AssertNumberOfCalls(t, "SetRoomStatus", 1)
}

func TestInspectionHandler_Complete(t *testing.T) {
	manager := newActor(identity.RoleManager)
	id := uuid.New()
	svc := new(MockInspectionService)
	r := setupInspectionRouter(svc, manager)
	svc.On("Complete", mock.Anything, manager, id).
		Return(nil, shared.NewDomainError("INSPECTION_ROOMS_PENDING", "2 rooms have not been checked"))

	rec := doRequest(r, http.MethodPost, "/inspections/"+id.String()+"/complete", nil)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "INSPECTION_ROOMS_PENDING", responseCode(t, rec))
}

func TestInspectionHandler_RenderReport(t *testing.T) {
	manager := newActor(identity.RoleManager)
	id := uuid.New()
	pdf := []byte("%PDF-1.7 report")

	t.Run("streams the pdf", func(t *testing.T) {
		svc := new(MockInspectionService)
		r := setupInspectionRouter(svc, manager)
		svc.On("RenderReport", mock.Anything, manager, id).
			Return(&appinspection.ReportFile{Filename: "inspection-autumn.pdf", Content: pdf}, nil)

		rec := doRequest(r, http.MethodGet, "/inspections/"+id.String()+"/report", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
		assert.Equal(t, `attachment; filename="inspection-autumn.pdf"`, rec.Header().Get("Content-Disposition"))
		assert.Equal(t, pdf, rec.Body.Bytes())
	})

	t.Run("not started", func(t *testing.T) {
		svc := new(MockInspectionService)
		r := setupInspectionRouter(svc, manager)
		svc.On("RenderReport", mock.Anything, manager, id).
			Return(nil, shared.InvalidState("Reports are available once the inspection has started"))

		rec := doRequest(r, http.MethodGet, "/inspections/"+id.String()+"/report", nil)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
	})
}

func TestInspectionHandler_ReportURL(t *testing.T) {
	manager := newActor(identity.RoleManager)
	id := uuid.New()
	expires := time.Now().Add(15 * time.Minute).UTC().Truncate(time.Second)
	svc := new(MockInspectionService)
	r := setupInspectionRouter(svc, manager)
	svc.On("ReportURL", mock.Anything, manager, id).
		Return(&appinspection.ReportURLResponse{URL: "https://s3.local/reports/x.pdf?sig=1", ExpiresAt: expires}, nil).Once()
	svc.On("ReportURL", mock.Anything, manager, id).
		Return(nil, shared.NewDomainError("REPORT_NOT_ARCHIVED", "The report has not been archived yet")).Once()

	rec := doRequest(r, http.MethodGet, "/inspections/"+id.String()+"/report/url", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeResponse(t, rec).Data.(map[string]any)
	assert.Equal(t, "https://s3.local/reports/x.pdf?sig=1", data["url"])

	rec = doRequest(r, http.MethodGet, "/inspections/"+id.String()+"/report/url", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestInspectionHandler_Delete(t *testing.T) {
	manager := newActor(identity.RoleManager)
	id := uuid.New()
	svc := new(MockInspectionService)
	r := setupInspectionRouter(svc, manager)
	svc.On("Delete", mock.Anything, manager, id).Return(nil)

	rec := doRequest(r, http.MethodDelete, "/inspections/"+id.String(), nil)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	svc.AssertExpectations(t)
}
