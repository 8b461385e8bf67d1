package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/stepsync/internal/middleware"
)

// okHandler always returns 200.
var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

const viewerOrigin = "http://localhost:5173"

func TestCORSHandler_AllowedOrigin(t *testing.T) {
	h := middleware.NewCORSHandler([]string{viewerOrigin})(okHandler)

	req := httptest.NewRequest(http.MethodGet, "/trip", nil)
	req.Header.Set("Origin", viewerOrigin)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, viewerOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
}

// TestCORSHandler_UploadPreflight verifies the preflight a browser sends
// before POSTing JSON to the upload endpoint.
func TestCORSHandler_UploadPreflight(t *testing.T) {
	h := middleware.NewCORSHandler([]string{viewerOrigin})(okHandler)

	req := httptest.NewRequest(http.MethodOptions, "/trip/steps/1/upload", nil)
	req.Header.Set("Origin", viewerOrigin)
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	// Browsers send requested header names lowercased; rs/cors compares verbatim.
	req.Header.Set("Access-Control-Request-Headers", "content-type")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.True(t, rec.Code == http.StatusNoContent || rec.Code == http.StatusOK,
		"expected 2xx for OPTIONS preflight, got %d", rec.Code)
	assert.Equal(t, viewerOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
}

// TestCORSHandler_DeleteNotAllowed verifies that methods the API does not
// serve are not advertised in preflights.
func TestCORSHandler_DeleteNotAllowed(t *testing.T) {
	h := middleware.NewCORSHandler([]string{viewerOrigin})(okHandler)

	req := httptest.NewRequest(http.MethodOptions, "/trip", nil)
	req.Header.Set("Origin", viewerOrigin)
	req.Header.Set("Access-Control-Request-Method", http.MethodDelete)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSHandler_DisallowedOrigin(t *testing.T) {
	h := middleware.NewCORSHandler([]string{viewerOrigin})(okHandler)

	req := httptest.NewRequest(http.MethodGet, "/trip", nil)
	req.Header.Set("Origin", "http://evil.example.com")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
