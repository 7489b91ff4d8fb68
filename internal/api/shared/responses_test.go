package shared

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/scry-vocab/internal/platform/logger"
)

// newRequest returns a request whose context carries a trace id and a text
// logger writing into the returned buffer.
func newRequest(t *testing.T) (*http.Request, *strings.Builder) {
	t.Helper()
	var buf strings.Builder
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	req := httptest.NewRequest(http.MethodGet, "/api/cards", nil)
	ctx := SetTraceID(req.Context(), "trace-7")
	return req.WithContext(logger.WithLogger(ctx, log)), &buf
}

func TestRespondWithJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		data   any
		want   string
	}{
		{"object", http.StatusOK, map[string]int{"affected": 2}, `{"affected":2}`},
		{"empty slice", http.StatusOK, []string{}, `[]`},
		{"nil", http.StatusCreated, nil, `null`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			req, _ := newRequest(t)
			w := httptest.NewRecorder()

			RespondWithJSON(w, req, tc.status, tc.data)

			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			assert.JSONEq(t, tc.want, w.Body.String())
		})
	}
}

func TestRespondWithJSONEncodingError(t *testing.T) {
	t.Parallel()
	req, logs := newRequest(t)
	w := httptest.NewRecorder()

	RespondWithJSON(w, req, http.StatusOK, map[string]any{"bad": make(chan int)})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, logs.String(), "failed to encode JSON response")
}

func TestRespondWithError(t *testing.T) {
	t.Parallel()
	req, logs := newRequest(t)
	w := httptest.NewRecorder()

	RespondWithError(w, req, http.StatusBadRequest, "Invalid input: count")

	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Invalid input: count", resp.Error)
	assert.Equal(t, "trace-7", resp.TraceID)
	assert.Contains(t, logs.String(), "sending error response")
}

func TestRespondWithErrorWithoutTraceID(t *testing.T) {
	t.Parallel()
	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	w := httptest.NewRecorder()

	RespondWithError(w, req, http.StatusUnauthorized, "Invalid token")

	assert.NotContains(t, w.Body.String(), "trace_id")
}

func TestRespondWithErrorAndLogLevels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		status   int
		opts     []ResponseOption
		wantLine string
	}{
		{"server error", http.StatusInternalServerError, nil, "level=ERROR"},
		{"rate limited", http.StatusTooManyRequests, nil, "level=WARN"},
		{"client error", http.StatusConflict, nil, "level=DEBUG"},
		{"elevated client error", http.StatusConflict, []ResponseOption{WithElevatedLogLevel()}, "level=WARN"},
		{"elevation ignored below 400", http.StatusFound, []ResponseOption{WithElevatedLogLevel()}, "level=DEBUG"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			req, logs := newRequest(t)
			w := httptest.NewRecorder()

			RespondWithErrorAndLog(w, req, tc.status, "Quiz has ended", errors.New("session ended"), tc.opts...)

			assert.Equal(t, tc.status, w.Code)
			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, "Quiz has ended", resp.Error)
			assert.Equal(t, "trace-7", resp.TraceID)

			out := logs.String()
			assert.Contains(t, out, tc.wantLine)
			assert.Contains(t, out, "error_type=*errors.errorString")
		})
	}
}

func TestRespondWithErrorAndLogNilError(t *testing.T) {
	t.Parallel()
	req, logs := newRequest(t)
	w := httptest.NewRecorder()

	RespondWithErrorAndLog(w, req, http.StatusNotFound, "Card not found", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NotContains(t, logs.String(), "error_type")
}

func TestRespondWithErrorAndLogRedacts(t *testing.T) {
	t.Parallel()
	req, logs := newRequest(t)
	w := httptest.NewRecorder()

	err := errors.New("connect postgres://vocab:hunter2@db:5432/vocab failed")
	RespondWithErrorAndLog(w, req, http.StatusInternalServerError, "An unexpected error occurred", err)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "hunter2")
	assert.NotContains(t, logs.String(), "hunter2")
	assert.Contains(t, logs.String(), "level=ERROR")
}
