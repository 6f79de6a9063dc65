package errors

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError(t *testing.T) {
	cause := errors.New("bad byte")
	err := NewParsingError("read combined_data.csv", cause).WithContext("line", 12)

	assert.Equal(t, "[PARSING] read combined_data.csv: bad byte", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, 12, err.Context["line"])

	plain := NewAppError(ErrTypeNotFound, "no such season", nil)
	assert.Equal(t, "[NOT_FOUND] no such season", plain.Error())
}

func TestMissingColumn(t *testing.T) {
	err := MissingColumn("matches", "FTHG")
	assert.ErrorIs(t, err, ErrMissingColumn)
	assert.True(t, IsType(err, ErrTypeParsing))
	assert.Contains(t, err.Error(), `"FTHG"`)

	wrapped := fmt.Errorf("merge: %w", err)
	assert.ErrorIs(t, wrapped, ErrMissingColumn)
	assert.True(t, IsType(wrapped, ErrTypeParsing))
	assert.False(t, IsType(errors.New("x"), ErrTypeParsing))
}

func TestToAPIError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"api error passes through", ErrRateLimitExceeded, http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED"},
		{"run not found", fmt.Errorf("load: %w", ErrRunNotFound), http.StatusNotFound, "NOT_FOUND"},
		{"typed not found", NewAppError(ErrTypeNotFound, "season", nil), http.StatusNotFound, "NOT_FOUND"},
		{"validation", NewAppError(ErrTypeValidation, "bad season", nil), http.StatusBadRequest, "VALIDATION_FAILED"},
		{"storage", NewStorageError("failed to query runs", errors.New("database is locked")), http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE"},
		{"timeout", context.DeadlineExceeded, http.StatusGatewayTimeout, "TIMEOUT"},
		{"unknown", errors.New("disk on fire"), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := ToAPIError(tt.err)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.code, apiErr.ErrorCode)
		})
	}
}

func TestHandleError_RendersJSON(t *testing.T) {
	h := NewErrorHandler(slog.New(slog.NewJSONHandler(io.Discard, nil)), false)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/standings?run=x", nil)
	h.HandleError(rec, req, fmt.Errorf("lookup: %w", ErrRunNotFound))

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "NOT_FOUND", body.Error.ErrorCode)
	assert.Equal(t, "prediction run not found", body.Error.Message)
}

func TestRecoverer(t *testing.T) {
	h := NewErrorHandler(nil, true)
	handler := h.Recoverer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "boom")
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, InvalidParameter("season", errors.New("want YYYY/YYYY")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "invalid value for season")
}

func TestSeasonNotFound(t *testing.T) {
	err := SeasonNotFound("1999/2000")
	assert.Equal(t, http.StatusNotFound, err.StatusCode)
	assert.Equal(t, "SEASON_NOT_FOUND", err.ErrorCode)
	assert.Equal(t, "1999/2000", err.Details)
	assert.Same(t, err, ToAPIError(err))
}
