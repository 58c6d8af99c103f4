package middlewares

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	previous := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = previous })
	return &buf
}

func TestLoggingMiddleware_Levels(t *testing.T) {
	tests := []struct {
		status int
		level  string
	}{
		{http.StatusOK, "info"},
		{http.StatusNotFound, "warn"},
		{http.StatusServiceUnavailable, "error"},
	}
	for _, tt := range tests {
		buf := captureLog(t)
		router := gin.New()
		router.Use(LoggingMiddleware())
		router.GET("/ping", func(c *gin.Context) { c.Status(tt.status) })

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

		var entry map[string]interface{}
		if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
			t.Fatalf("Expected one JSON log line, got %q", buf.String())
		}
		if entry["level"] != tt.level {
			t.Errorf("Status %d: expected level %s, got %v", tt.status, tt.level, entry["level"])
		}
		if entry["path"] != "/ping" || entry["method"] != http.MethodGet {
			t.Errorf("Expected method and path in log, got %v", entry)
		}
		if status, _ := entry["status"].(float64); int(status) != tt.status {
			t.Errorf("Expected status %d in log, got %v", tt.status, entry["status"])
		}
	}
}

func TestHttpError(t *testing.T) {
	captureLog(t)
	router := gin.New()
	router.GET("/", func(c *gin.Context) {
		HttpError(c, "Failed to load session", http.StatusInternalServerError, errors.New("redis down"))
	})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", rec.Code)
	}
	if rec.Body.String() != `{"error":"Failed to load session"}` {
		t.Errorf("Expected error body, got %s", rec.Body.String())
	}
}
