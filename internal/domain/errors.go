package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	CodeInternal     ErrorCode = "INTERNAL_ERROR"
	CodeInvalidInput ErrorCode = "INVALID_INPUT"
	CodeNotFound     ErrorCode = "NOT_FOUND"
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"
	CodeForbidden    ErrorCode = "FORBIDDEN"

	// Quiz engine errors
	CodeInvalidMode       ErrorCode = "INVALID_MODE"
	CodeInsufficientData  ErrorCode = "INSUFFICIENT_DATA"
	CodeQuizState         ErrorCode = "QUIZ_STATE"
	CodeValidationFailure ErrorCode = "VALIDATION_FAILURE"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode
	Message string
	Err     error
	Context map[string]interface{}
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
	})
}

// WithContext attaches a detail value that is reported to API clients.
func (e *DomainError) WithContext(key string, value interface{}) *DomainError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Helper functions for common errors
func NewNotFoundError(message string) *DomainError {
	return NewError(CodeNotFound, message, nil)
}

func NewInvalidInputError(message string) *DomainError {
	return NewError(CodeInvalidInput, message, nil)
}

func NewValidationError(message string) *DomainError {
	return NewError(CodeInvalidInput, message, nil)
}

func NewInternalError(message string, err error) *DomainError {
	return NewError(CodeInternal, message, err)
}

func NewRegionNotFoundError(regionID int64) *DomainError {
	return NewError(CodeNotFound, fmt.Sprintf("region not found with ID: %d", regionID), nil).
		WithContext("region_id", regionID)
}

func NewRecordingNotFoundError(recordingID int64) *DomainError {
	return NewError(CodeNotFound, fmt.Sprintf("recording not found with ID: %d", recordingID), nil).
		WithContext("recording_id", recordingID)
}

func NewQuizNotFoundError(quizID string) *DomainError {
	return NewError(CodeNotFound, fmt.Sprintf("quiz not found with ID: %s", quizID), nil).
		WithContext("quiz_id", quizID)
}

func NewInvalidModeError(message string) *DomainError {
	return NewError(CodeInvalidMode, message, nil)
}

// NewInsufficientDataError reports a candidate pool that cannot satisfy the requested sample size.
func NewInsufficientDataError(message string, available, required int) *DomainError {
	return NewError(CodeInsufficientData, message, nil).
		WithContext("available", available).
		WithContext("required", required)
}

func NewQuizStateError(message string) *DomainError {
	return NewError(CodeQuizState, message, nil)
}

func NewValidationFailureError(message string, err error) *DomainError {
	return NewError(CodeValidationFailure, message, err)
}

func NewUnauthorizedError(message string) *DomainError {
	return NewError(CodeUnauthorized, message, nil)
}

func NewForbiddenError(message string) *DomainError {
	return NewError(CodeForbidden, message, nil)
}

// HasCode reports whether err is, or wraps, a DomainError with the given code.
func HasCode(err error, code ErrorCode) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}
