package response

import (
	"errors"
	"net/http"
	"time"

	"svc-wallet/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Success codes used in the meta envelope.
const (
	CodeWalletCreated  = "WALLET_CREATED"
	CodeWalletFetched  = "WALLET_FETCHED_OK"
	CodeWalletDeposit  = "WALLET_DEPOSIT_OK"
	CodeWalletWithdraw = "WALLET_WITHDRAW_OK"
	CodeWalletDeleted  = "WALLET_DELETED"
	CodeLiveOK         = "LIVE_OK"
	CodeHealthOK       = "HEALTH_OK"
	CodeHealthDegraded = "HEALTH_DEGRADED"
)

// CtxTraceID is the gin context key under which the trace-id middleware
// stores the request's trace identifier.
const CtxTraceID = "trace_id"

// Meta is the envelope metadata attached to every response.
type Meta struct {
	Code      string `json:"code,omitempty"`
	TraceID   string `json:"traceId"`
	Timestamp string `json:"timestamp"`
}

// SuccessResponse is the standard success envelope.
type SuccessResponse struct {
	Data    interface{} `json:"data"`
	Message string      `json:"message"`
	Meta    Meta        `json:"meta"`
}

// ErrorBody carries the client-facing error code and message.
type ErrorBody struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// ErrorResponse is the standard error envelope.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
	Meta  Meta      `json:"meta"`
}

// OK sends a 200 response with data.
func OK(c *gin.Context, message, code string, data interface{}) {
	c.JSON(http.StatusOK, SuccessResponse{
		Data:    data,
		Message: message,
		Meta:    newMeta(c, code),
	})
}

// Created sends a 201 response with data.
func Created(c *gin.Context, message, code string, data interface{}) {
	c.JSON(http.StatusCreated, SuccessResponse{
		Data:    data,
		Message: message,
		Meta:    newMeta(c, code),
	})
}

// WithStatus sends a success envelope with an arbitrary HTTP status. Used by
// the health endpoint, which reports degradation with a 503 but keeps the
// standard envelope shape.
func WithStatus(c *gin.Context, status int, message, code string, data interface{}) {
	c.JSON(status, SuccessResponse{
		Data:    data,
		Message: message,
		Meta:    newMeta(c, code),
	})
}

// Error sends an error response. It checks if err is an *apperror.AppError
// and maps it accordingly, otherwise returns 500.
func Error(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.HTTPStatus, ErrorResponse{
			Error: ErrorBody{Message: appErr.Message, Code: appErr.Code},
			Meta:  newMeta(c, ""),
		})
		return
	}

	// Unknown error -> 500
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error: ErrorBody{Message: "Internal server error", Code: apperror.CodeInternalError},
		Meta:  newMeta(c, ""),
	})
}

func newMeta(c *gin.Context, code string) Meta {
	return Meta{
		Code:      code,
		TraceID:   GetTraceID(c),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// GetTraceID retrieves the trace id from context, or generates one.
func GetTraceID(c *gin.Context) string {
	if id, exists := c.Get(CtxTraceID); exists {
		if s, ok := id.(string); ok {
			return s
		}
	}
	return uuid.New().String()
}
