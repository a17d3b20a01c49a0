package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/theplanbeta/invoice/internal/domain/shared"
	"github.com/theplanbeta/invoice/internal/infrastructure/mail"
	infra "github.com/theplanbeta/invoice/internal/infrastructure/printing"
	"github.com/theplanbeta/invoice/internal/interfaces/http/dto"
	"github.com/theplanbeta/invoice/internal/interfaces/http/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestGetRequestID(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(*gin.Context)
		expectedID string
	}{
		{
			name:       "from context",
			setup:      func(c *gin.Context) { c.Set(middleware.RequestIDKey, "ctx-request-id") },
			expectedID: "ctx-request-id",
		},
		{
			name:       "from header when context empty",
			setup:      func(c *gin.Context) { c.Request.Header.Set(middleware.RequestIDHeader, "header-request-id") },
			expectedID: "header-request-id",
		},
		{
			name:       "empty when not set",
			setup:      func(c *gin.Context) {},
			expectedID: "",
		},
		{
			name: "context takes precedence over header",
			setup: func(c *gin.Context) {
				c.Set(middleware.RequestIDKey, "ctx-id")
				c.Request.Header.Set(middleware.RequestIDHeader, "header-id")
			},
			expectedID: "ctx-id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestContext()
			tt.setup(c)
			assert.Equal(t, tt.expectedID, getRequestID(c))
		})
	}
}

func TestBaseHandlerSuccess(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext()

	h.Success(c, map[string]string{"total": "€ 200.00"})

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
	assert.Nil(t, resp.Error)
}

func TestBaseHandlerErrorMethods(t *testing.T) {
	tests := []struct {
		name         string
		method       func(*BaseHandler, *gin.Context)
		expectedCode int
		expectedErr  string
	}{
		{"BadRequest", func(h *BaseHandler, c *gin.Context) { h.BadRequest(c, "Invalid request") }, http.StatusBadRequest, dto.ErrCodeBadRequest},
		{"InternalError", func(h *BaseHandler, c *gin.Context) { h.InternalError(c, "Server error") }, http.StatusInternalServerError, dto.ErrCodeInternal},
		{"ErrorWithCode derives status", func(h *BaseHandler, c *gin.Context) { h.ErrorWithCode(c, dto.ErrCodeRateLimited, "slow down") }, http.StatusTooManyRequests, dto.ErrCodeRateLimited},
		{"ErrorWithCode normalizes domain codes", func(h *BaseHandler, c *gin.Context) { h.ErrorWithCode(c, "LAST_ITEM", "keep one") }, http.StatusBadRequest, dto.ErrCodeLastItem},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestContext()
			c.Set(middleware.RequestIDKey, "req-1")

			tt.method(&BaseHandler{}, c)

			assert.Equal(t, tt.expectedCode, w.Code)
			resp := decodeResponse(t, w)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.expectedErr, resp.Error.Code)
			assert.Equal(t, "req-1", resp.Error.RequestID)
		})
	}
}

func TestBaseHandlerValidationError(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext()
	c.Set(middleware.RequestIDKey, "val-req-456")

	h.ValidationError(c, []dto.ValidationDetail{
		{Field: "studentEmail", Message: "Invalid email format"},
		{Field: "items[0].level", Message: "Unknown course level"},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, "val-req-456", resp.Error.RequestID)
	assert.Len(t, resp.Error.Details, 2)
}

func TestBaseHandlerHandleError(t *testing.T) {
	tests := []struct {
		name            string
		err             error
		expectedStatus  int
		expectedCode    string
		expectedMessage string
	}{
		{"not submittable", shared.ErrNotSubmittable, http.StatusBadRequest, dto.ErrCodeNotSubmittable, shared.ErrNotSubmittable.Message},
		{"invalid amount", shared.ErrInvalidAmount, http.StatusBadRequest, dto.ErrCodeInvalidAmount, shared.ErrInvalidAmount.Message},
		{"invalid currency", shared.ErrInvalidCurrency, http.StatusBadRequest, dto.ErrCodeInvalidCurrency, shared.ErrInvalidCurrency.Message},
		{"last item", shared.ErrLastItem, http.StatusBadRequest, dto.ErrCodeLastItem, shared.ErrLastItem.Message},
		{"delivery rejected", shared.ErrDeliveryRejected, http.StatusBadRequest, dto.ErrCodeDeliveryRejected, shared.ErrDeliveryRejected.Message},
		{"wrapped domain error", fmt.Errorf("quote: %w", shared.ErrInvalidLevel), http.StatusBadRequest, dto.ErrCodeInvalidLevel, shared.ErrInvalidLevel.Message},
		{"format without renderer", fmt.Errorf("failed to render invoice: %w", infra.NewRenderError(infra.ErrCodeInvalidFormat, "unsupported format: png", nil)), http.StatusBadRequest, dto.ErrCodeUnsupportedFormat, "unsupported format: png"},
		{"renderer failure hides cause", infra.NewRenderError(infra.ErrCodeRenderFailed, "chrome crashed", errors.New("exit status 1")), http.StatusInternalServerError, dto.ErrCodeRenderFailed, "Failed to render invoice"},
		{"renderer timeout", infra.NewRenderError(infra.ErrCodeRenderTimeout, "timed out", context.DeadlineExceeded), http.StatusInternalServerError, dto.ErrCodeRenderFailed, "Rendering timed out"},
		{"mail failure", &mail.DeliveryError{Op: "send", Err: errors.New("535 auth failed")}, http.StatusInternalServerError, dto.ErrCodeDeliveryFailed, "Failed to send email"},
		{"body too large", &http.MaxBytesError{Limit: 10}, http.StatusRequestEntityTooLarge, dto.ErrCodeRequestTooLarge, "Request body exceeds maximum allowed size"},
		{"deadline", context.DeadlineExceeded, http.StatusInternalServerError, dto.ErrCodeInternal, "Request timed out"},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError, dto.ErrCodeInternal, "An unexpected error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestContext()

			(&BaseHandler{}).HandleError(c, tt.err)

			assert.Equal(t, tt.expectedStatus, w.Code)
			resp := decodeResponse(t, w)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.expectedCode, resp.Error.Code)
			assert.Equal(t, tt.expectedMessage, resp.Error.Message)
			if tt.expectedStatus >= http.StatusInternalServerError {
				assert.Len(t, c.Errors, 1)
			}
		})
	}

	t.Run("nil error writes nothing", func(t *testing.T) {
		c, w := newTestContext()
		(&BaseHandler{}).HandleError(c, nil)
		assert.Empty(t, w.Body.Bytes())
	})
}
