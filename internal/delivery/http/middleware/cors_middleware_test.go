package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

var testOrigins = []string{
	"http://localhost:3000",
	"https://*.netlify.app",
	"https://*.onrender.com",
}

func TestCORSMiddleware_Allowed(t *testing.T) {
	m := NewCORSMiddleware(testOrigins)

	tests := []struct {
		origin  string
		allowed bool
	}{
		{"http://localhost:3000", true},
		{"https://peaceful-khapse-24ced0.netlify.app", true},
		{"https://deploy-preview-7.my-site.netlify.app", true},
		{"https://scheduler.onrender.com", true},
		{"http://localhost:3001", false},
		{"https://netlify.app", false},
		{"https://.netlify.app", false},
		{"http://evil.netlify.app", false},
		{"https://evil.com/x.netlify.app", false},
		{"https://evil.com:443.netlify.app", false},
		{"https://example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.origin, func(t *testing.T) {
			assert.Equal(t, tt.allowed, m.Allowed(tt.origin))
		})
	}
}

func TestCORSMiddleware_Wildcard(t *testing.T) {
	m := NewCORSMiddleware([]string{"*"})
	assert.True(t, m.Allowed("https://anything.example"))
}

func TestCORSMiddleware_Handle(t *testing.T) {
	m := NewCORSMiddleware(testOrigins)
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})

	t.Run("allowed origin gets credentials headers", func(t *testing.T) {
		called = false
		req := httptest.NewRequest(http.MethodPost, "/api/chat", nil)
		req.Header.Set("Origin", "https://peaceful-khapse-24ced0.netlify.app")
		rec := httptest.NewRecorder()

		m.Handle(next).ServeHTTP(rec, req)

		assert.True(t, called)
		assert.Equal(t, "https://peaceful-khapse-24ced0.netlify.app", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
		assert.Equal(t, "Origin", rec.Header().Get("Vary"))
	})

	t.Run("disallowed origin gets no allow headers", func(t *testing.T) {
		called = false
		req := httptest.NewRequest(http.MethodPost, "/api/chat", nil)
		req.Header.Set("Origin", "https://example.com")
		rec := httptest.NewRecorder()

		m.Handle(next).ServeHTTP(rec, req)

		assert.True(t, called)
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("preflight short circuits", func(t *testing.T) {
		called = false
		req := httptest.NewRequest(http.MethodOptions, "/api/chat", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		rec := httptest.NewRecorder()

		m.Handle(next).ServeHTTP(rec, req)

		assert.False(t, called)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "GET, POST, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
		assert.Equal(t, "Content-Type, Authorization", rec.Header().Get("Access-Control-Allow-Headers"))
	})
}
