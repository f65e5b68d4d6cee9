package http

import (
	"net/http"
	"time"

	"colonoscopy-scheduler/internal/delivery/dto"
	"colonoscopy-scheduler/internal/delivery/http/handler"
	"colonoscopy-scheduler/internal/delivery/http/middleware"
	"colonoscopy-scheduler/pkg/response"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const healthMessage = "Colonoscopy Scheduler API is running!"

type Router struct {
	router              *mux.Router
	chatHandler         *handler.ChatHandler
	loggingMiddleware   *middleware.LoggingMiddleware
	recoveryMiddleware  *middleware.RecoveryMiddleware
	corsMiddleware      *middleware.CORSMiddleware
	rateLimitMiddleware *middleware.RateLimitMiddleware
}

// NewRouter wires handlers and middleware. rateLimitMiddleware may be nil,
// in which case chat requests are not rate limited.
func NewRouter(
	chatHandler *handler.ChatHandler,
	loggingMiddleware *middleware.LoggingMiddleware,
	recoveryMiddleware *middleware.RecoveryMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	rateLimitMiddleware *middleware.RateLimitMiddleware,
) *Router {
	return &Router{
		router:              mux.NewRouter(),
		chatHandler:         chatHandler,
		loggingMiddleware:   loggingMiddleware,
		recoveryMiddleware:  recoveryMiddleware,
		corsMiddleware:      corsMiddleware,
		rateLimitMiddleware: rateLimitMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	// Health check
	r.router.HandleFunc("/", r.healthCheck).Methods(http.MethodGet)

	api := r.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Chat (public); OPTIONS must match so CORS preflight reaches the middleware
	var chat http.Handler = http.HandlerFunc(r.chatHandler.Chat)
	if r.rateLimitMiddleware != nil {
		chat = r.rateLimitMiddleware.Limit(chat)
	}
	api.Handle("/chat", chat).Methods(http.MethodPost, http.MethodOptions)

	// Metrics
	r.router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	// Outermost first: logging tags the request before recovery can log it
	r.router.Use(r.loggingMiddleware.Handle)
	r.router.Use(r.recoveryMiddleware.Handle)
	r.router.Use(r.corsMiddleware.Handle)

	// mux skips Use middleware for unmatched requests, so the fallbacks get
	// the same chain explicitly. Preflight to any path is answered by CORS.
	r.router.NotFoundHandler = r.withMiddleware(http.HandlerFunc(r.notFound))
	r.router.MethodNotAllowedHandler = r.withMiddleware(http.HandlerFunc(r.methodNotAllowed))

	return r.router
}

func (r *Router) withMiddleware(h http.Handler) http.Handler {
	return r.loggingMiddleware.Handle(r.recoveryMiddleware.Handle(r.corsMiddleware.Handle(h)))
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	response.JSON(w, http.StatusOK, dto.HealthResponse{
		Message:   healthMessage,
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
	})
}

func (r *Router) notFound(w http.ResponseWriter, req *http.Request) {
	response.NotFound(w, "")
}

func (r *Router) methodNotAllowed(w http.ResponseWriter, req *http.Request) {
	response.MethodNotAllowed(w, "")
}
