package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/ajsalpv/job-agent/internal/config"
	"github.com/ajsalpv/job-agent/internal/content"
	"github.com/ajsalpv/job-agent/internal/db"
	"github.com/ajsalpv/job-agent/internal/pipeline"
	"github.com/ajsalpv/job-agent/internal/scheduler"
	"github.com/ajsalpv/job-agent/internal/server/middleware"
	"github.com/ajsalpv/job-agent/internal/server/ratelimit"
	"github.com/ajsalpv/job-agent/internal/supervisor"
)

// Store is the persistence surface the API reads and writes through.
type Store interface {
	Ping(ctx context.Context) error
	GetStats(ctx context.Context) (*db.Stats, error)
	ListApplications(ctx context.Context, opts db.ListApplicationsOptions) ([]db.Application, error)
	ListFollowUps(ctx context.Context, daysThreshold int) ([]db.Application, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, newStatus db.Status, notes string, appliedAt *time.Time) error
	GetApplicationByID(ctx context.Context, id uuid.UUID) (*db.Application, error)
	GetApplicationByURL(ctx context.Context, jobURL string) (*db.Application, error)
	GetSettings(ctx context.Context) (*db.UserSettings, error)
	SaveSettings(ctx context.Context, s *db.UserSettings) error
}

// StatusMirror propagates status changes to the external tracker sheet.
type StatusMirror interface {
	UpdateStatus(ctx context.Context, jobURL string, status db.Status) error
}

// PipelineRunner runs discovery scans and prepares application material.
type PipelineRunner interface {
	RunScan(ctx context.Context, opts pipeline.ScanOptions) (*pipeline.ScanResult, error)
	PrepareApplication(ctx context.Context, id uuid.UUID) (*pipeline.Material, error)
	Supervisor() *supervisor.Supervisor
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	store       Store
	runner      PipelineRunner
	generator   *content.Generator
	sched       *scheduler.Scheduler
	mirror      StatusMirror // nil when no sheet is configured
	settings    *config.Settings
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService // nil when auth is disabled
	passwords   *config.PasswordConfig
	validate    *validator.Validate
	scanActive  atomic.Bool
}

// Config holds server configuration
type Config struct {
	Port      int
	Settings  *config.Settings
	Store     Store
	Runner    PipelineRunner
	Generator *content.Generator
	Scheduler *scheduler.Scheduler
	Mirror    StatusMirror
}

// New creates a new server instance
func New(cfg Config) (*Server, error) {
	s := &Server{
		store:     cfg.Store,
		runner:    cfg.Runner,
		generator: cfg.Generator,
		sched:     cfg.Scheduler,
		mirror:    cfg.Mirror,
		settings:  cfg.Settings,
		validate:  validator.New(),
	}

	s.rateLimiter = ratelimit.NewLimiter(ratelimit.LoadConfig())

	// Auth is optional. When a password hash is configured, login and token
	// enforcement on mutating endpoints are enabled.
	if cfg.Settings.AuthEnabled() {
		passwordConfig, err := config.NewPasswordConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to create password config: %w", err)
		}
		s.passwords = passwordConfig

		jwtConfig, err := config.NewJWTConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to create JWT config: %w", err)
		}
		s.jwtService = NewJWTService(jwtConfig)
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(s.routes()))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // Long timeout for synchronous scan runs
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// routes builds the API router. Mutating endpoints are wrapped with the auth
// middleware when authentication is configured.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", s.handleHealth)

	// Application tracking
	mux.HandleFunc("GET /api/applications", s.handleListApplications)
	mux.HandleFunc("GET /api/applications/stats", s.handleStats)
	mux.HandleFunc("GET /api/applications/followups", s.handleFollowUps)
	mux.Handle("POST /api/applications/status", s.protected(s.handleUpdateStatus))

	// Discovery
	mux.HandleFunc("GET /api/jobs/by-platform/{platform}", s.handleJobsByPlatform)
	mux.Handle("POST /api/jobs/scan", s.protected(s.handleScan))
	mux.Handle("POST /api/jobs/scan/stream", s.protected(s.handleScanStream))
	mux.Handle("POST /api/jobs/search", s.protected(s.handleSearch))
	mux.Handle("POST /api/jobs/approve", s.protected(s.handleApprove))

	// Content generation
	mux.Handle("POST /api/resume/generate", s.protected(s.handleGenerateResume))
	mux.Handle("POST /api/cover-letter/generate", s.protected(s.handleGenerateCoverLetter))

	// Supervisor
	mux.HandleFunc("GET /api/supervisor/status", s.handleSupervisorStatus)
	mux.Handle("POST /api/supervisor/re-enable/{platform}", s.protected(s.handleReEnable))

	// Settings
	mux.HandleFunc("GET /api/settings", s.handleGetSettings)
	mux.Handle("POST /api/settings", s.protected(s.handleSaveSettings))

	// Scheduler
	mux.HandleFunc("GET /api/scheduler/status", s.handleSchedulerStatus)
	mux.Handle("POST /api/scheduler/start", s.protected(s.handleSchedulerStart))
	mux.Handle("POST /api/scheduler/stop", s.protected(s.handleSchedulerStop))

	// Auth
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)

	return mux
}

// protected wraps a handler with auth enforcement when auth is configured.
func (s *Server) protected(handler http.HandlerFunc) http.Handler {
	if s.jwtService == nil {
		return handler
	}
	return middleware.RequireAuth(s.jwtService.AsTokenValidator())(handler)
}

// Start begins listening for requests
func (s *Server) Start() error {
	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if s.sched != nil {
		s.sched.Stop()
	}
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}

	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		if !allowed {
			s.setRateLimitHeaders(w, info)
			s.rateLimitResponse(w, info)
			return
		}

		s.setRateLimitHeaders(w, info)
		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// handleHealth returns server health including database reachability.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	dbStatus := "ok"
	if err := s.store.Ping(r.Context()); err != nil {
		dbStatus = "unreachable"
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{
		"status":   "ok",
		"service":  "job-agent",
		"database": dbStatus,
	})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// decodeJSON decodes and validates a request payload.
func (s *Server) decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &ErrValidation{Field: "body", Message: "invalid JSON"}
	}
	if err := s.validate.Struct(dst); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			return &ErrValidation{Field: errs[0].Field(), Message: errs[0].Tag()}
		}
		return &ErrValidation{Field: "body", Message: err.Error()}
	}
	return nil
}

// extractClientID extracts the client identifier from the request.
// For MVP, this uses the IP address from RemoteAddr.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]interface{}{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		response["retry_after"] = int(info.RetryAfter.Seconds())
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())))
	}

	log.Printf("[rate-limit] Rate limit exceeded: Limit=%d Remaining=%d Reset=%s",
		info.Limit, info.Remaining, info.ResetTime.Format(time.RFC3339))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
