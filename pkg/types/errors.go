// Copyright © 2026 Teradata Corporation - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package types

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCategory groups error codes for HTTP status mapping and caller retry
// policy. Retryability is carried per-error, not per-category: validation
// errors stay retryable so callers do not gate retries on category alone.
type ErrorCategory string

const (
	CategoryValidation ErrorCategory = "validation"
	CategoryProcessing ErrorCategory = "processing"
	CategoryResource   ErrorCategory = "resource"
	CategoryRateLimit  ErrorCategory = "rate_limit"
	CategorySystem     ErrorCategory = "system"
)

// ErrorCode identifies a failure class in the error envelope.
type ErrorCode string

const (
	// Validation (400).
	ErrInvalidDataPoints    ErrorCode = "INVALID_DATA_POINTS"
	ErrInvalidLabels        ErrorCode = "INVALID_LABELS"
	ErrInvalidValues        ErrorCode = "INVALID_VALUES"
	ErrMismatchedLengths    ErrorCode = "MISMATCHED_LENGTHS"
	ErrDuplicateLabels      ErrorCode = "DUPLICATE_LABELS"
	ErrDataRange            ErrorCode = "DATA_RANGE_ERROR"
	ErrEmptyField           ErrorCode = "EMPTY_FIELD"
	ErrInvalidAnalyticsType ErrorCode = "INVALID_ANALYTICS_TYPE"
	ErrInvalidLayout        ErrorCode = "INVALID_LAYOUT"
	ErrInvalidChartType     ErrorCode = "INVALID_CHART_TYPE"

	// Processing (500).
	ErrChartGenerationFailed ErrorCode = "CHART_GENERATION_FAILED"
	ErrLayoutAssemblyFailed  ErrorCode = "LAYOUT_ASSEMBLY_FAILED"
	ErrLLM                   ErrorCode = "LLM_ERROR"

	// Resource (404).
	ErrChartNotFound        ErrorCode = "CHART_NOT_FOUND"
	ErrPresentationNotFound ErrorCode = "PRESENTATION_NOT_FOUND"

	// Rate limit (429).
	ErrRateLimitExceeded ErrorCode = "RATE_LIMIT_EXCEEDED"

	// System (500).
	ErrUnknown ErrorCode = "UNKNOWN_ERROR"
)

// ServiceError is the structured failure that crosses the HTTP boundary.
// It implements error so it can travel through ordinary return paths and be
// recovered at the edge with errors.As.
type ServiceError struct {
	Code       ErrorCode              `json:"code"`
	Message    string                 `json:"message"`
	Category   ErrorCategory          `json:"category"`
	Field      string                 `json:"field,omitempty"`
	Details    map[string]interface{} `json:"details,omitempty"`
	Retryable  bool                   `json:"retryable"`
	Suggestion string                 `json:"suggestion,omitempty"`
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s (%s): %s", e.Code, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// HTTPStatus maps the error category onto the response status code.
func (e *ServiceError) HTTPStatus() int {
	switch e.Category {
	case CategoryValidation:
		return http.StatusBadRequest
	case CategoryResource:
		return http.StatusNotFound
	case CategoryRateLimit:
		return http.StatusTooManyRequests
	case CategoryProcessing, CategorySystem:
		return http.StatusInternalServerError
	}
	return http.StatusInternalServerError
}

// WithDetails attaches a details map and returns the error for chaining.
func (e *ServiceError) WithDetails(details map[string]interface{}) *ServiceError {
	e.Details = details
	return e
}

// WithField attaches the offending field name and returns the error.
func (e *ServiceError) WithField(field string) *ServiceError {
	e.Field = field
	return e
}

// ErrorEnvelope is the wire form of a failed request: success is always
// false and the error is always present. A response is either an envelope or
// a SlideContent payload, never both.
type ErrorEnvelope struct {
	Success bool          `json:"success"`
	Error   *ServiceError `json:"error"`
}

// NewValidationError builds a retryable validation-category error.
func NewValidationError(code ErrorCode, field, message, suggestion string) *ServiceError {
	return &ServiceError{
		Code:       code,
		Message:    message,
		Category:   CategoryValidation,
		Field:      field,
		Retryable:  true,
		Suggestion: suggestion,
	}
}

// NewProcessingError builds a retryable processing-category error.
func NewProcessingError(code ErrorCode, message, suggestion string) *ServiceError {
	return &ServiceError{
		Code:       code,
		Message:    message,
		Category:   CategoryProcessing,
		Retryable:  true,
		Suggestion: suggestion,
	}
}

// NewResourceError builds a non-retryable resource-category error.
func NewResourceError(code ErrorCode, message, suggestion string) *ServiceError {
	return &ServiceError{
		Code:       code,
		Message:    message,
		Category:   CategoryResource,
		Retryable:  false,
		Suggestion: suggestion,
	}
}

// NewRateLimitError builds the 429 error with the retry-after hint callers
// must honor before resubmitting.
func NewRateLimitError(retryAfterSeconds int) *ServiceError {
	return &ServiceError{
		Code:      ErrRateLimitExceeded,
		Message:   "LLM request quota exhausted",
		Category:  CategoryRateLimit,
		Retryable: true,
		Details: map[string]interface{}{
			"retry_after": retryAfterSeconds,
		},
		Suggestion: fmt.Sprintf("Retry after %d seconds", retryAfterSeconds),
	}
}

// AsServiceError extracts a ServiceError from an error chain. The second
// return is false when the chain contains none.
func AsServiceError(err error) (*ServiceError, bool) {
	var se *ServiceError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// Envelope converts any error into a wire envelope. Errors that are not
// already ServiceErrors become UNKNOWN_ERROR so internal detail never leaks.
func Envelope(err error) *ErrorEnvelope {
	if se, ok := AsServiceError(err); ok {
		return &ErrorEnvelope{Success: false, Error: se}
	}
	return &ErrorEnvelope{
		Success: false,
		Error: &ServiceError{
			Code:       ErrUnknown,
			Message:    "an unexpected error occurred",
			Category:   CategorySystem,
			Retryable:  false,
			Suggestion: "Retry the request; contact the service operator if the failure persists",
		},
	}
}
