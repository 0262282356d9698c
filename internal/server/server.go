// Package server provides the HTTP REST API for launching and observing
// creative pipeline runs.
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
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/rafael/adforge/internal/assets"
	"github.com/rafael/adforge/internal/db"
	"github.com/rafael/adforge/internal/llm"
	"github.com/rafael/adforge/internal/server/ratelimit"
)

// Server represents the HTTP server.
type Server struct {
	httpServer  *http.Server
	db          *db.DB
	store       *assets.Store
	text        llm.Client
	images      llm.ImageClient
	rateLimiter *ratelimit.Limiter
	validate    *validator.Validate
	runs        *runRegistry

	workers int
	pacing  time.Duration
}

// Config holds server configuration.
type Config struct {
	Port        int
	OutputDir   string
	DatabaseURL string
	APIKey      string
	Model       string
	ImageModel  string
	Workers     int
	Pacing      time.Duration
}

// New creates a new server instance. The database is optional: when the URL is
// empty or the connection fails, runs still work from the artifact store alone.
func New(ctx context.Context, cfg Config) (*Server, error) {
	store, err := assets.NewStore(cfg.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open artifact store: %w", err)
	}

	llmConfig := llm.DefaultConfig()
	if cfg.Model != "" {
		llmConfig = llmConfig.WithModel(llm.TierStandard, cfg.Model).WithModel(llm.TierAdvanced, cfg.Model)
	}
	if cfg.ImageModel != "" {
		llmConfig = llmConfig.WithImageModel(cfg.ImageModel)
	}

	text, err := llm.NewClient(ctx, llmConfig, cfg.APIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create text client: %w", err)
	}
	images, err := llm.NewImageClient(ctx, llmConfig, cfg.APIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create image client: %w", err)
	}

	var database *db.DB
	if cfg.DatabaseURL != "" {
		database, err = db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Printf("Warning: failed to connect to database: %v", err)
			log.Printf("Continuing without database persistence...")
			database = nil
		}
	}

	s := &Server{
		db:       database,
		store:    store,
		text:     text,
		images:   images,
		validate: validator.New(),
		runs:     newRunRegistry(),
		workers:  cfg.Workers,
		pacing:   cfg.Pacing,
	}
	s.rateLimiter = ratelimit.NewLimiter(ratelimit.LoadConfig())

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(s.router()))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // SSE streams stay open for the whole run
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// router builds the route table.
func (s *Server) router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("POST /api/runs", s.handleCreateRun)
	mux.HandleFunc("GET /api/runs", s.handleListRuns)
	mux.HandleFunc("GET /api/runs/{id}", s.handleGetRun)
	mux.HandleFunc("DELETE /api/runs/{id}", s.handleDeleteRun)
	mux.HandleFunc("GET /api/runs/{id}/creatives", s.handleRunCreatives)
	mux.HandleFunc("GET /api/runs/{id}/events", s.handleRunEvents)

	return mux
}

// Start begins listening for requests and blocks until shutdown.
func (s *Server) Start() error {
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

	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	if s.db != nil {
		s.db.Close()
	}
	if s.text != nil {
		s.text.Close() //nolint:errcheck
	}
	if s.images != nil {
		s.images.Close() //nolint:errcheck
	}

	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware.
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

// withLogging adds request logging.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// handleHealth returns server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response.
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response.
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// extractClientID extracts the client identifier from the request. For now
// this is the IP from RemoteAddr; X-Forwarded-For would only be safe behind a
// trusted proxy.
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

// rateLimitResponse writes a 429 Too Many Requests response with rate limit
// information.
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
