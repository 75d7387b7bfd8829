package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dormhub/backend/internal/domain/identity"
	"github.com/dormhub/backend/internal/domain/shared"
	"github.com/dormhub/backend/internal/infrastructure/logger"
	"github.com/dormhub/backend/internal/interfaces/http/dto"
	"github.com/dormhub/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	errNoIdentity     = shared.NewDomainError(dto.CodeUnauthorized, "Authentication required")
	errTenantRequired = shared.NewDomainError("TENANT_REQUIRED", "Tenant ID is missing or invalid")
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// actor builds the caller identity from the values the JWT middleware set
func actor(c *gin.Context) (identity.Actor, error) {
	userID, err := uuid.Parse(middleware.GetJWTUserID(c))
	if err != nil {
		return identity.Actor{}, errNoIdentity
	}
	tenantID, err := uuid.Parse(middleware.GetJWTTenantID(c))
	if err != nil || tenantID == uuid.Nil {
		return identity.Actor{}, errTenantRequired
	}
	return identity.NewActor(tenantID, userID, middleware.GetJWTRole(c)), nil
}

// Actor returns the caller identity or writes the error response
func (h *BaseHandler) Actor(c *gin.Context) (identity.Actor, bool) {
	a, err := actor(c)
	if err != nil {
		h.HandleError(c, err)
		return identity.Actor{}, false
	}
	return a, true
}

// UUIDParam parses a path parameter, writing a 400 when it is not a UUID
func (h *BaseHandler) UUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		h.BadRequest(c, "Invalid "+strings.ReplaceAll(name, "_", " ")+": must be a UUID")
		return uuid.Nil, false
	}
	return id, true
}

// BindJSON binds and validates the request body, writing a 400 on failure
func (h *BaseHandler) BindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		middleware.HandleValidationError(c, err)
		return false
	}
	return true
}

// BindQuery binds and validates query parameters, writing a 400 on failure
func (h *BaseHandler) BindQuery(c *gin.Context, req any) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		middleware.HandleValidationError(c, err)
		return false
	}
	return true
}

// listFilter converts the common list parameters into a normalized filter
func listFilter(req dto.ListRequest) shared.Filter {
	f := shared.DefaultFilter()
	if req.Page > 0 {
		f.Page = req.Page
	}
	if req.PageSize > 0 {
		f.PageSize = req.PageSize
	}
	if req.OrderBy != "" {
		f.OrderBy = req.OrderBy
	}
	if req.OrderDir != "" {
		f.OrderDir = req.OrderDir
	}
	f.Search = strings.TrimSpace(req.Search)
	return f.Normalize()
}

// putUUID adds a UUID filter when raw is set. Callers validate raw with the
// uuid binding tag first.
func putUUID(f shared.Filter, key, raw string) {
	if id, err := uuid.Parse(raw); err == nil {
		f.Filters[key] = id
	}
}

// putString adds a string filter when value is set
func putString(f shared.Filter, key, value string) {
	if value != "" {
		f.Filters[key] = value
	}
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessPage sends one page of a list with pagination meta
func SuccessPage[T any](c *gin.Context, page *shared.Paginated[T]) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(page.Items, page.Total, page.Page, page.PageSize))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response with the given status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, middleware.GetRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.CodeBadRequest, message)
}

// HandleError writes domain errors with their mapped status. Anything else
// is logged and reported as a 500 without details.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		h.Error(c, dto.DomainErrorStatus(domainErr.Code), domainErr.Code, domainErr.Message)
		return
	}

	_ = c.Error(err)
	logger.FromContext(c.Request.Context()).Error("Request failed",
		zap.String("method", c.Request.Method),
		zap.String("route", c.FullPath()),
		zap.Error(err))
	h.Error(c, http.StatusInternalServerError, dto.CodeInternal, "An unexpected error occurred")
}

// byID runs op for the resource named by the :id path parameter and writes
// its result. A nil result with a nil error means op already responded.
func byID[T any](c *gin.Context, h *BaseHandler, op func(context.Context, identity.Actor, uuid.UUID) (*T, error)) {
	a, ok := h.Actor(c)
	if !ok {
		return
	}
	id, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}

	result, err := op(c.Request.Context(), a, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if result != nil {
		h.Success(c, result)
	}
}
