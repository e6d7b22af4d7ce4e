package handler

import (
	"errors"
	"net/http"

	"github.com/einvoice/backend/internal/domain/compliance"
	"github.com/einvoice/backend/internal/domain/shared"
	"github.com/einvoice/backend/internal/interfaces/http/dto"
	"github.com/einvoice/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// getRequestID extracts the request ID from the context, falling back to
// the incoming header when the RequestID middleware did not run
func getRequestID(c *gin.Context) string {
	if id := middleware.GetRequestID(c); id != "" {
		return id
	}
	return c.GetHeader(middleware.RequestIDHeader)
}

// actingUserID returns the user id of the bearer token, if any
func actingUserID(c *gin.Context) *uuid.UUID {
	id, ok := middleware.GetJWTUserID(c)
	if !ok || id == uuid.Nil {
		return nil
	}
	return &id
}

// parseUUIDParam parses a path parameter as a uuid
func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMessage sends a 200 response carrying a message
func (h *BaseHandler) SuccessWithMessage(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, dto.NewMessageResponse(message, data))
}

// SuccessWithMeta sends a success response with pagination meta
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, message string, data any) {
	c.JSON(http.StatusCreated, dto.NewMessageResponse(message, data))
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, getRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// NotFound sends a 404 not found response
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	h.Error(c, http.StatusNotFound, shared.CodeNotFound, message)
}

// InvalidID sends a 400 response for a malformed path id
func (h *BaseHandler) InvalidID(c *gin.Context, what string) {
	h.Error(c, http.StatusBadRequest, shared.CodeInvalidInput, "Invalid "+what+" ID format")
}

// BindError answers a failed body or query binding. Validator failures list
// the rejected fields; anything else is malformed input.
func (h *BaseHandler) BindError(c *gin.Context, err error) {
	if details := middleware.ValidationDetails(err); len(details) > 0 {
		c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse(
			"Request validation failed",
			getRequestID(c),
			details,
		))
		return
	}
	h.BadRequest(c, err.Error())
}

// HandleError converts service errors to HTTP responses. Authority refusals
// carry the authority's body in data.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	requestID := getRequestID(c)

	var upstreamErr *compliance.UpstreamError
	if errors.As(err, &upstreamErr) {
		code := upstreamErr.Code
		c.JSON(dto.GetHTTPStatus(code), dto.NewUpstreamErrorResponse(code, upstreamErr.Message, upstreamErr.Data, requestID))
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		c.JSON(dto.GetHTTPStatus(domainErr.Code), dto.NewErrorResponseWithRequestID(domainErr.Code, domainErr.Message, requestID))
		return
	}

	c.JSON(http.StatusInternalServerError, dto.NewErrorResponseWithRequestID(
		shared.CodeInternal,
		err.Error(),
		requestID,
	))
}
