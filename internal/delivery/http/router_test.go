package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"colonoscopy-scheduler/internal/delivery/dto"
	"colonoscopy-scheduler/internal/delivery/http/handler"
	"colonoscopy-scheduler/internal/delivery/http/middleware"
	"colonoscopy-scheduler/internal/usecase"
	"colonoscopy-scheduler/pkg/validator"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubChatUsecase struct {
	resp  *dto.ChatResponse
	err   error
	calls int
}

func (s *stubChatUsecase) Chat(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	s.calls++
	return s.resp, s.err
}

func newTestRouter(t *testing.T, uc usecase.ChatUsecase, rateLimit *middleware.RateLimitMiddleware) http.Handler {
	t.Helper()
	log, _ := test.NewNullLogger()
	r := NewRouter(
		handler.NewChatHandler(uc, validator.NewValidator()),
		middleware.NewLoggingMiddleware(log),
		middleware.NewRecoveryMiddleware(log),
		middleware.NewCORSMiddleware([]string{"http://localhost:3000", "https://*.netlify.app"}),
		rateLimit,
	)
	return r.Setup()
}

func okUsecase() *stubChatUsecase {
	return &stubChatUsecase{resp: &dto.ChatResponse{
		Response:      "What date works for you?",
		Success:       true,
		Timestamp:     time.Now().UTC(),
		FilteredDates: []dto.AppointmentDTO{},
	}}
}

func TestRouter_Health(t *testing.T) {
	router := newTestRouter(t, okUsecase(), nil)

	for _, path := range []string{"/", "/api/health"} {
		t.Run(path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

			assert.Equal(t, http.StatusOK, rec.Code)
			var body dto.HealthResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, healthMessage, body.Message)
			assert.Equal(t, "healthy", body.Status)
			assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))
		})
	}
}

func TestRouter_NotFound(t *testing.T) {
	router := newTestRouter(t, okUsecase(), nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/bookings", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Endpoint not found")
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	router := newTestRouter(t, okUsecase(), nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/chat", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRouter_FallbacksRunMiddleware(t *testing.T) {
	log, hook := test.NewNullLogger()
	router := NewRouter(
		handler.NewChatHandler(okUsecase(), validator.NewValidator()),
		middleware.NewLoggingMiddleware(log),
		middleware.NewRecoveryMiddleware(log),
		middleware.NewCORSMiddleware([]string{"http://localhost:3000"}),
		nil,
	).Setup()

	tests := []struct {
		name   string
		method string
		path   string
		status int
	}{
		{"not found", http.MethodGet, "/api/bookings", http.StatusNotFound},
		{"method not allowed", http.MethodDelete, "/api/chat", http.StatusMethodNotAllowed},
		{"preflight to unknown path", http.MethodOptions, "/api/bookings", http.StatusNoContent},
		{"preflight to get-only route", http.MethodOptions, "/api/health", http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hook.Reset()
			req := httptest.NewRequest(tt.method, tt.path, nil)
			req.Header.Set("Origin", "http://localhost:3000")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
			assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))
			require.NotNil(t, hook.LastEntry())
			assert.Equal(t, "Handled request", hook.LastEntry().Message)
			assert.Equal(t, tt.status, hook.LastEntry().Data["status"])
		})
	}
}

func TestRouter_ChatRoundTrip(t *testing.T) {
	uc := okUsecase()
	router := newTestRouter(t, uc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"message": "hello", "context": {}}`))
	req.Header.Set("Origin", "https://peaceful-khapse-24ced0.netlify.app")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, uc.calls)
	assert.Equal(t, "https://peaceful-khapse-24ced0.netlify.app", rec.Header().Get("Access-Control-Allow-Origin"))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["showAppointments"])
	assert.Equal(t, []interface{}{}, body["filteredDates"])
}

func TestRouter_ChatPreflight(t *testing.T) {
	uc := okUsecase()
	router := newTestRouter(t, uc, nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/chat", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, 0, uc.calls)
}

func TestRouter_ChatUpstreamError(t *testing.T) {
	router := newTestRouter(t, &stubChatUsecase{err: usecase.ErrUpstreamQuota}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"message": "hello"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), usecase.MessageQuotaError)
}

func TestRouter_ChatRateLimited(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	log, _ := test.NewNullLogger()

	uc := okUsecase()
	router := newTestRouter(t, uc, middleware.NewRateLimitMiddleware(client, log, 1, time.Minute, 0))

	send := func() int {
		req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"message": "hello"}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, send())
	assert.Equal(t, http.StatusTooManyRequests, send())
	assert.Equal(t, 1, uc.calls)

	// health is never limited
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_Metrics(t *testing.T) {
	router := newTestRouter(t, okUsecase(), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"message": "hello"}`))
	router.ServeHTTP(httptest.NewRecorder(), req)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "chat_requests_total")
}
