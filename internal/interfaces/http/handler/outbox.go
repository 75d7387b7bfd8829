package handler

import (
	"context"

	appevent "github.com/dormhub/backend/internal/application/event"
	"github.com/dormhub/backend/internal/domain/identity"
	"github.com/dormhub/backend/internal/domain/shared"
	"github.com/dormhub/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// OutboxService is the part of event.OutboxService used over HTTP
type OutboxService interface {
	Stats(ctx context.Context, actor identity.Actor) (*appevent.OutboxStatsResponse, error)
	ListDead(ctx context.Context, actor identity.Actor, filter shared.Filter) (*shared.Paginated[appevent.OutboxEntryResponse], error)
	Retry(ctx context.Context, actor identity.Actor, id uuid.UUID) (*appevent.OutboxEntryResponse, error)
	RetryAll(ctx context.Context, actor identity.Actor) (*appevent.RetryAllResponse, error)
}

// OutboxHandler exposes event delivery state to admins
type OutboxHandler struct {
	BaseHandler
	outboxService OutboxService
}

// NewOutboxHandler creates a new outbox handler
func NewOutboxHandler(outboxService OutboxService) *OutboxHandler {
	return &OutboxHandler{outboxService: outboxService}
}

// Stats godoc
// @Summary      Event delivery statistics
// @Tags         system
// @Produce      json
// @Success      200 {object} APIResponse[appevent.OutboxStatsResponse]
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /system/outbox/stats [get]
func (h *OutboxHandler) Stats(c *gin.Context) {
	a, ok := h.Actor(c)
	if !ok {
		return
	}
	stats, err := h.outboxService.Stats(c.Request.Context(), a)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}

// ListDead godoc
// @Summary      List undeliverable events
// @Tags         system
// @Produce      json
// @Param        page      query int false "Page number"
// @Param        page_size query int false "Page size (max 100)"
// @Success      200 {object} APIResponse[[]appevent.OutboxEntryResponse]
// @Security     BearerAuth
// @Router       /system/outbox/dead [get]
func (h *OutboxHandler) ListDead(c *gin.Context) {
	a, ok := h.Actor(c)
	if !ok {
		return
	}
	var q dto.ListRequest
	if !h.BindQuery(c, &q) {
		return
	}
	page, err := h.outboxService.ListDead(c.Request.Context(), a, listFilter(q))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	SuccessPage(c, page)
}

// Retry godoc
// @Summary      Requeue an undeliverable event
// @Tags         system
// @Produce      json
// @Param        id path string true "Outbox entry ID"
// @Success      200 {object} APIResponse[appevent.OutboxEntryResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /system/outbox/dead/{id}/retry [post]
func (h *OutboxHandler) Retry(c *gin.Context) {
	byID(c, &h.BaseHandler, h.outboxService.Retry)
}

// RetryAll godoc
// @Summary      Requeue every undeliverable event
// @Tags         system
// @Produce      json
// @Success      200 {object} APIResponse[appevent.RetryAllResponse]
// @Security     BearerAuth
// @Router       /system/outbox/dead/retry [post]
func (h *OutboxHandler) RetryAll(c *gin.Context) {
	a, ok := h.Actor(c)
	if !ok {
		return
	}
	resp, err := h.outboxService.RetryAll(c.Request.Context(), a)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
