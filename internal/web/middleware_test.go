package web

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentSecurityPolicy(t *testing.T) {
	csp := contentSecurityPolicy([]string{"images.pexels.com"}, "https://abc.supabase.co")
	assert.Contains(t, csp, "img-src 'self' data: https://abc.supabase.co https://images.pexels.com;")
	assert.Contains(t, csp, "default-src 'self'")

	assert.Contains(t, contentSecurityPolicy(nil, ""), "img-src 'self' data:;")
}

func TestOriginOf(t *testing.T) {
	assert.Equal(t, "https://abc.supabase.co", originOf("https://abc.supabase.co/storage/v1/object/public"))
	assert.Equal(t, "http://localhost:8080", originOf("http://localhost:8080/media"))
	assert.Empty(t, originOf("/media"))
	assert.Empty(t, originOf(""))
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Bearer abc.def", "abc.def", true},
		{"bearer abc", "abc", true},
		{"Basic dXNlcg==", "", false},
		{"Bearer ", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tt.header != "" {
			req.Header.Set("Authorization", tt.header)
		}
		got, ok := bearerToken(req)
		assert.Equal(t, tt.ok, ok, tt.header)
		assert.Equal(t, tt.want, got, tt.header)
	}
}

func TestRecovererReturnsJSON500(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	h := requestID(recoverer(logger, http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("kaboom")
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/hero", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, rec.Body.String())
	require.NotEmpty(t, rec.Header().Get(RequestIDHeader))
	assert.Contains(t, logs.String(), "kaboom")
	assert.Contains(t, logs.String(), rec.Header().Get(RequestIDHeader))
}

func TestRequestLoggerRecordsStatus(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	h := requestLogger(logger, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Contains(t, logs.String(), "status=418")
	assert.Contains(t, logs.String(), "path=/healthz")
}

func TestAPICORSOnlyOnAPI(t *testing.T) {
	h := apiCORS([]string{"https://studio.example"}, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	api := httptest.NewRequest(http.MethodGet, "/api/services", nil)
	api.Header.Set("Origin", "https://studio.example")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, api)
	assert.Equal(t, "https://studio.example", rec.Header().Get("Access-Control-Allow-Origin"))

	page := httptest.NewRequest(http.MethodGet, "/services", nil)
	page.Header.Set("Origin", "https://studio.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, page)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestLabelAndLines(t *testing.T) {
	assert.Equal(t, "Description 1", label("description_1"))
	assert.Equal(t, "Image left url", label("image_left_url"))
	assert.Empty(t, label(""))

	assert.Equal(t, []string{"Texture", "Light"}, lines("Texture\n\n  Light \n"))
	assert.Nil(t, lines("  "))
}

func TestAdminSectionsCoverEverySchema(t *testing.T) {
	for _, name := range []string{"hero", "intro-section", "about-section", "emotion-section", "layers-section", "latest-creations", "services", "renovations", "projects"} {
		sec, ok := findAdminSection(name)
		require.True(t, ok, name)
		assert.NotEmpty(t, sec.Images, name)
	}
	_, ok := findAdminSection("settings")
	assert.False(t, ok)
}
