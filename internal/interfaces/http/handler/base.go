package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/theplanbeta/invoice/internal/domain/shared"
	"github.com/theplanbeta/invoice/internal/infrastructure/logger"
	"github.com/theplanbeta/invoice/internal/infrastructure/mail"
	infra "github.com/theplanbeta/invoice/internal/infrastructure/printing"
	"github.com/theplanbeta/invoice/internal/interfaces/http/dto"
	"github.com/theplanbeta/invoice/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// getRequestID extracts the request ID from the context
func getRequestID(c *gin.Context) string {
	if id := c.GetString(middleware.RequestIDKey); id != "" {
		return id
	}
	return c.GetHeader(middleware.RequestIDHeader)
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, getRequestID(c)))
}

// ErrorWithCode sends an error response, deriving status code from error code
func (h *BaseHandler) ErrorWithCode(c *gin.Context, code, message string) {
	code = dto.NormalizeErrorCode(code)
	h.Error(c, dto.GetHTTPStatus(code), code, message)
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// ValidationError sends a 400 validation error response with details
func (h *BaseHandler) ValidationError(c *gin.Context, details []dto.ValidationDetail) {
	c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse(
		"Request validation failed",
		getRequestID(c),
		details,
	))
}

// HandleError maps service errors onto the response envelope. Domain errors
// carry their own code; infrastructure failures are logged and reported
// without their cause.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	code, message := classify(err)
	status := dto.GetHTTPStatus(code)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
		logger.GetGinLogger(c).Error("request failed", zap.String("code", code), zap.Error(err))
	}
	h.Error(c, status, code, message)
}

// classify returns the API code and client-facing message for err
func classify(err error) (code, message string) {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return dto.NormalizeErrorCode(domainErr.Code), domainErr.Message
	}

	var renderErr *infra.RenderError
	if errors.As(err, &renderErr) {
		switch renderErr.Code {
		case infra.ErrCodeInvalidFormat:
			return dto.ErrCodeUnsupportedFormat, renderErr.Message
		case infra.ErrCodeRenderTimeout:
			return dto.ErrCodeRenderFailed, "Rendering timed out"
		default:
			return dto.ErrCodeRenderFailed, "Failed to render invoice"
		}
	}

	var deliveryErr *mail.DeliveryError
	if errors.As(err, &deliveryErr) {
		return dto.ErrCodeDeliveryFailed, "Failed to send email"
	}

	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return dto.ErrCodeRequestTooLarge, "Request body exceeds maximum allowed size"
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return dto.ErrCodeInternal, "Request timed out"
	}
	return dto.ErrCodeInternal, "An unexpected error occurred"
}
