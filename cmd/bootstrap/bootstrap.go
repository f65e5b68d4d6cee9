package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"colonoscopy-scheduler/config"
	deliveryHttp "colonoscopy-scheduler/internal/delivery/http"
	"colonoscopy-scheduler/internal/delivery/http/handler"
	"colonoscopy-scheduler/internal/delivery/http/middleware"
	"colonoscopy-scheduler/internal/infrastructure/cache"
	"colonoscopy-scheduler/internal/infrastructure/llm"
	"colonoscopy-scheduler/internal/service"
	"colonoscopy-scheduler/internal/usecase"
	"colonoscopy-scheduler/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const rateLimitWindow = time.Minute

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	RedisClient *redis.Client
	Server      *http.Server
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	// Setup logger
	setupLogger("info")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg
	setupLogger(cfg.App.LogLevel)
	logrus.Info("Configuration loaded successfully")

	if cfg.OpenAI.APIKey == "" {
		logrus.Warn("OPENAI_API_KEY is not set; chat requests will fail until it is configured")
	}

	// Redis only backs the optional rate limiter
	if cfg.Redis.Enabled() && cfg.RateLimit.RequestsPerMinute > 0 {
		redisClient, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		app.RedisClient = redisClient
		logrus.Infof("Rate limiting enabled: %d requests per minute", cfg.RateLimit.RequestsPerMinute)
	}

	app.Server = initializeServer(cfg, app.RedisClient)

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger(level string) {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logrus.SetLevel(parsed)
}

// initializeServer creates and configures the HTTP server
func initializeServer(cfg *config.Config, redisClient *redis.Client) *http.Server {
	// Initialize logger
	log := logrus.StandardLogger()

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize completion client
	completer := llm.NewOpenAIClient(cfg.OpenAI, llm.CompletionParams{
		MaxTokens:   service.MaxCompletionTokens,
		Temperature: service.CompletionTemperature,
	})

	// Initialize usecases
	chatUsecase := usecase.NewChatUsecase(log, completer, cfg.Rules)

	// Initialize handlers
	chatHandler := handler.NewChatHandler(chatUsecase, customValidator)

	// Initialize middleware
	loggingMiddleware := middleware.NewLoggingMiddleware(log)
	recoveryMiddleware := middleware.NewRecoveryMiddleware(log)
	corsMiddleware := middleware.NewCORSMiddleware(cfg.CORS.AllowedOrigins)

	var rateLimitMiddleware *middleware.RateLimitMiddleware
	if redisClient != nil {
		rateLimitMiddleware = middleware.NewRateLimitMiddleware(redisClient, log, cfg.RateLimit.RequestsPerMinute, rateLimitWindow, cfg.RateLimit.TrustedProxies)
	}

	// Initialize router
	router := deliveryHttp.NewRouter(chatHandler, loggingMiddleware, recoveryMiddleware, corsMiddleware, rateLimitMiddleware)
	httpRouter := router.Setup()

	// Create server
	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	return &http.Server{
		Addr:              serverAddr,
		Handler:           httpRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	// Start server in goroutine
	go func() {
		logrus.Infof("Server starting on port %s", app.Config.App.Port)
		logrus.Infof("Environment: %s", app.Config.App.Env)
		logrus.Infof("Health check: http://localhost:%s/", app.Config.App.Port)
		logrus.Infof("API endpoint: http://localhost:%s/api/chat", app.Config.App.Port)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	// Close connections
	app.Close()

	logrus.Info("Server shutdown complete")
}

// Close closes the Redis connection when rate limiting is enabled
func (app *App) Close() {
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
