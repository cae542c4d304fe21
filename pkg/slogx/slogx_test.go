package slogx_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aussiebroadwan/sessiongate/pkg/slogx"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestHTTPMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/me/sessions", func(w http.ResponseWriter, r *http.Request) {
		ctx := slogx.With(r.Context(), "user_id", "user-1")
		slogx.FromContext(ctx).Info("listing")
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("GET /boom", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	h := slogx.HTTPMiddleware(logger)(mux)

	t.Run("propagates caller request id", func(t *testing.T) {
		buf.Reset()
		req := httptest.NewRequest(http.MethodGet, "/v1/me/sessions", nil)
		req.Header.Set(slogx.HeaderRequestID, "req-123")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusNoContent, rec.Code)
		require.Equal(t, "req-123", rec.Header().Get(slogx.HeaderRequestID))

		lines := decodeLines(t, &buf)
		require.Len(t, lines, 2)
		require.Equal(t, "listing", lines[0]["msg"])
		require.Equal(t, "user-1", lines[0]["user_id"])
		require.Equal(t, "req-123", lines[0]["req_id"])

		require.Equal(t, "http_request", lines[1]["msg"])
		require.Equal(t, "GET /v1/me/sessions", lines[1]["route"])
		require.EqualValues(t, http.StatusNoContent, lines[1]["status"])
		require.Equal(t, "INFO", lines[1]["level"])
	})

	t.Run("mints an id and logs server errors at error", func(t *testing.T) {
		buf.Reset()
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

		require.Len(t, rec.Header().Get(slogx.HeaderRequestID), 26)
		lines := decodeLines(t, &buf)
		require.Len(t, lines, 1)
		require.Equal(t, "ERROR", lines[0]["level"])
	})
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	require.Same(t, slog.Default(), slogx.FromContext(context.Background()))
}

func TestParseLevel(t *testing.T) {
	require.Equal(t, slog.LevelDebug, slogx.ParseLevel("DEBUG"))
	require.Equal(t, slog.LevelWarn, slogx.ParseLevel(" warning "))
	require.Equal(t, slog.LevelError, slogx.ParseLevel("error"))
	require.Equal(t, slog.LevelInfo, slogx.ParseLevel("loud"))
}

func TestNewWritesServiceFields(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	logger := slogx.New(slogx.Config{Service: "sessiongate", Version: "v1", Env: "test", Level: "warn", Output: &buf})
	logger.Info("dropped")
	logger.Warn("kept")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	require.Equal(t, "kept", lines[0]["msg"])
	require.Equal(t, "sessiongate", lines[0]["service"])
	require.Same(t, logger, slog.Default())
}
