// Copyright © 2026 Teradata Corporation - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceErrorHTTPStatus(t *testing.T) {
	tests := []struct {
		category ErrorCategory
		status   int
	}{
		{CategoryValidation, http.StatusBadRequest},
		{CategoryProcessing, http.StatusInternalServerError},
		{CategoryResource, http.StatusNotFound},
		{CategoryRateLimit, http.StatusTooManyRequests},
		{CategorySystem, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			e := &ServiceError{Code: ErrUnknown, Category: tt.category}
			assert.Equal(t, tt.status, e.HTTPStatus())
		})
	}
}

func TestValidationErrorsAreRetryable(t *testing.T) {
	e := NewValidationError(ErrDuplicateLabels, "data", "labels must be unique", "Remove the duplicated label")
	assert.True(t, e.Retryable)
	assert.Equal(t, CategoryValidation, e.Category)
	assert.Contains(t, e.Error(), "DUPLICATE_LABELS")
	assert.Contains(t, e.Error(), "data")
}

func TestRateLimitErrorCarriesRetryAfter(t *testing.T) {
	e := NewRateLimitError(42)
	require.NotNil(t, e.Details)
	assert.Equal(t, 42, e.Details["retry_after"])
	assert.True(t, e.Retryable)
	assert.Equal(t, http.StatusTooManyRequests, e.HTTPStatus())
}

func TestAsServiceErrorUnwrapsChain(t *testing.T) {
	inner := NewProcessingError(ErrChartGenerationFailed, "emitter rejected shaped data", "Check the data against the chart type requirements")
	wrapped := fmt.Errorf("slide 3: %w", inner)

	se, ok := AsServiceError(wrapped)
	require.True(t, ok)
	assert.Equal(t, ErrChartGenerationFailed, se.Code)

	_, ok = AsServiceError(errors.New("plain"))
	assert.False(t, ok)
}

func TestEnvelopeMasksUnknownErrors(t *testing.T) {
	env := Envelope(errors.New("pq: connection refused"))
	require.NotNil(t, env.Error)
	assert.False(t, env.Success)
	assert.Equal(t, ErrUnknown, env.Error.Code)
	assert.NotContains(t, env.Error.Message, "pq:", "internal detail must not leak")
}

func TestEnvelopeWireFormat(t *testing.T) {
	env := Envelope(NewValidationError(ErrDataRange, "data", "expected between 2 and 50 points, got 1", "Provide at least 2 data points"))
	b, err := json.Marshal(env)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, false, decoded["success"])

	errObj, ok := decoded["error"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "DATA_RANGE_ERROR", errObj["code"])
	assert.Equal(t, "validation", errObj["category"])
	assert.Equal(t, true, errObj["retryable"])
	assert.NotEmpty(t, errObj["suggestion"])
}
