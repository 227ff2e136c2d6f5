// internal/model/error.go
package model

import (
	"errors"
	"fmt"
)

// Application-level sentinel errors. HTTP status codes are derived from these.
var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInternalServer     = errors.New("internal server error")
	ErrForbidden          = errors.New("forbidden")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrConflict           = errors.New("resource conflict")
	ErrTransactionFailure = errors.New("transaction failure")
	ErrTooManyRequests    = errors.New("too many requests")
)

// AppError carries a client-safe message on top of one of the sentinel errors.
type AppError struct {
	Code    string
	Message string
	Field   string
	Err     error
}

func NewAppError(code, message, field string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Field:   field,
		Err:     err,
	}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Detail returns the part of the error that may be shown to clients.
func (e *AppError) Detail() ErrorDetail {
	return ErrorDetail{
		Code:    e.Code,
		Message: e.Message,
		Field:   e.Field,
	}
}

// ErrorDetail is the "error" object of an error response.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// APIErrorResponse is the body written for every failed request.
type APIErrorResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Error   ErrorDetail `json:"error"`
}
