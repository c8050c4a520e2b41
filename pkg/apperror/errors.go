package apperror

import (
	"fmt"
	"net/http"
)

// Stable machine-readable error codes.
const (
	CodeInvalidRequest      = "INVALID_REQUEST"
	CodeUserNotFound        = "USER_NOT_FOUND"
	CodeWalletAlreadyExists = "WALLET_ALREADY_EXISTS"
	CodeWalletNotFound      = "WALLET_NOT_FOUND"
	CodeOperationDuplicate  = "WALLET_OPERATION_DUPLICATE"
	CodeInsufficientFunds   = "WALLET_INSUFFICIENT_FUNDS"
	CodeWalletNotEmpty      = "WALLET_NOT_EMPTY"
	CodeRateLimitExceeded   = "RATE_LIMIT_EXCEEDED"
	CodeInternalError       = "WALLET_INTERNAL_ERROR"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Wallet lifecycle ----

func ErrInvalidRequest(message string) *AppError {
	return New(CodeInvalidRequest, message, http.StatusBadRequest)
}

func ErrInvalidAmount() *AppError {
	return New(CodeInvalidRequest, "Amount must be greater than 0", http.StatusBadRequest)
}

func ErrUserNotFound(userID string) *AppError {
	return New(CodeUserNotFound, fmt.Sprintf("User with id %s not found", userID), http.StatusNotFound)
}

func ErrWalletAlreadyExists(userID string) *AppError {
	return New(CodeWalletAlreadyExists, fmt.Sprintf("Wallet for user %s already exists", userID), http.StatusConflict)
}

func ErrWalletNotFound(userID string) *AppError {
	return New(CodeWalletNotFound, fmt.Sprintf("Wallet for user %s not found", userID), http.StatusNotFound)
}

func ErrOperationDuplicate() *AppError {
	return New(CodeOperationDuplicate, "Duplicate operation", http.StatusConflict)
}

func ErrInsufficientFunds(balance int64) *AppError {
	return New(CodeInsufficientFunds, fmt.Sprintf("Insufficient funds. Current balance: %d", balance), http.StatusBadRequest)
}

func ErrWalletNotEmpty(balance int64) *AppError {
	return New(CodeWalletNotEmpty, fmt.Sprintf("Wallet is not empty. Current balance: %d", balance), http.StatusConflict)
}

// ---- Rate limiting ----

func ErrRateLimitExceeded() *AppError {
	return New(CodeRateLimitExceeded, "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System ----

// InternalError wraps a storage or transport fault whose outcome is unknown
// to the caller. Retrying with the same externalOperationId is safe.
func InternalError(err error) *AppError {
	return Wrap(CodeInternalError, "Internal server error", http.StatusInternalServerError, err)
}
