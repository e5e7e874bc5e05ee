package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodeToHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		code ErrorCode
		want int
	}{
		{"validation failed", CodeValidationFailed, http.StatusBadRequest},
		{"no generated code", CodeNoGeneratedCode, http.StatusBadRequest},
		{"invalid param", CodeInvalidParam, http.StatusBadRequest},
		{"project not found", CodeProjectNotFound, http.StatusNotFound},
		{"user not found", CodeUserNotFound, http.StatusNotFound},
		{"unauthorized", CodeUnauthorized, http.StatusUnauthorized},
		{"conflict", CodeConflict, http.StatusConflict},
		{"too many requests", CodeTooManyRequests, http.StatusTooManyRequests},
		{"generation failed", CodeGenerationFailed, http.StatusInternalServerError},
		{"llm provider", CodeLLMProviderError, http.StatusInternalServerError},
		{"configuration", CodeConfiguration, http.StatusInternalServerError},
		{"unknown", CodeUnknown, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, New(tt.code, "msg").HTTPStatus)
		})
	}
}

func TestWrapUnwrap(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := Wrap(cause, CodeLLMProviderError, "AI API request failed")

	assert.Equal(t, CodeLLMProviderError, err.Code)
	assert.Equal(t, cause, err.Unwrap())
	assert.Contains(t, err.Error(), "connection refused")
	assert.Contains(t, err.Error(), string(CodeLLMProviderError))
}

func TestWithDetailDoesNotMutateSentinel(t *testing.T) {
	err := ErrValidationFailed.WithDetail("prompt is required")

	require.NotSame(t, ErrValidationFailed, err)
	assert.Equal(t, "prompt is required", err.Detail)
	assert.Empty(t, ErrValidationFailed.Detail)
	assert.Equal(t, ErrValidationFailed.Code, err.Code)
	assert.Equal(t, ErrValidationFailed.HTTPStatus, err.HTTPStatus)
}

func TestIsCode(t *testing.T) {
	assert.True(t, IsCode(ErrProjectNotFound, CodeProjectNotFound))
	assert.True(t, IsCode(ErrProjectNotFound.WithDetail("project 42"), CodeProjectNotFound))
	assert.False(t, IsCode(ErrProjectNotFound, CodeUserNotFound))
	assert.False(t, IsCode(fmt.Errorf("plain"), CodeProjectNotFound))
}

func TestAsAppError(t *testing.T) {
	appErr := AsAppError(ErrGenerationFailed)
	assert.Equal(t, CodeGenerationFailed, appErr.Code)

	wrapped := AsAppError(fmt.Errorf("plain"))
	require.NotNil(t, wrapped)
	assert.Equal(t, CodeUnknown, wrapped.Code)
	assert.Equal(t, http.StatusInternalServerError, wrapped.HTTPStatus)
}
