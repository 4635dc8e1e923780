package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"regexp"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/dizid/unplugged-cv/internal/analyze"
	"github.com/dizid/unplugged-cv/internal/billing"
	"github.com/dizid/unplugged-cv/internal/config"
	"github.com/dizid/unplugged-cv/internal/db"
	"github.com/dizid/unplugged-cv/internal/generate"
	"github.com/dizid/unplugged-cv/internal/llm"
	"github.com/dizid/unplugged-cv/internal/match"
	"github.com/dizid/unplugged-cv/internal/server/middleware"
	"github.com/dizid/unplugged-cv/internal/server/ratelimit"
	"github.com/dizid/unplugged-cv/internal/types"
)

// Store is the persistence surface the HTTP layer needs. *db.DB
// implements it; handler tests substitute a stub.
type Store interface {
	GetAccount(ctx context.Context, userID string) (*types.Account, error)
	GetOrCreateAccount(ctx context.Context, userID string) (*types.Account, error)
	IncrementUsage(ctx context.Context, userID string) error
	SetPaid(ctx context.Context, userID string) error
	SaveBackground(ctx context.Context, userID, background string) error

	CreateApplication(ctx context.Context, app *types.Application) error
	GetApplication(ctx context.Context, id uuid.UUID, userID string) (*types.Application, error)
	ListApplications(ctx context.Context, userID string, limit int) ([]*types.Application, error)
	UpdateApplication(ctx context.Context, id uuid.UUID, userID string, upd db.ApplicationUpdate) error
	AttachCoverLetter(ctx context.Context, id uuid.UUID, userID, letter string) error
	DeleteApplication(ctx context.Context, id uuid.UUID, userID string) error
	PublishApplication(ctx context.Context, id uuid.UUID, userID, slug string) error
	GetPublishedBySlug(ctx context.Context, slug string) (*types.Application, error)

	InsertPayment(ctx context.Context, payment *types.Payment) error
}

// Deps are the externally constructed dependencies of the server.
type Deps struct {
	// Store is nil when no database is configured; account-backed
	// features respond 404 in that mode.
	Store  Store
	LLM    llm.Client
	Logger *slog.Logger
}

// Server represents the HTTP server
type Server struct {
	httpServer   *http.Server
	cfg          *config.Config
	logger       *slog.Logger
	store        Store
	orchestrator *generate.Orchestrator
	analyzer     *analyze.Analyzer
	scorer       *match.Scorer
	quota        *billing.Guard
	ledger       *billing.Ledger
	rateLimiter  *ratelimit.Limiter
	validate     *validator.Validate
}

// New creates a new server instance
func New(cfg *config.Config, deps Deps) (*Server, error) {
	if deps.LLM == nil {
		return nil, fmt.Errorf("model client is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	quota := billing.NewGuard(cfg.FreeLimit, cfg.QuotaBypassSecret)

	s := &Server{
		cfg:         cfg,
		logger:      logger,
		store:       deps.Store,
		analyzer:    analyze.New(deps.LLM),
		scorer:      match.New(deps.LLM),
		quota:       quota,
		rateLimiter: ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		validate:    newValidator(),
	}

	var genStore generate.Store
	if deps.Store != nil {
		genStore = deps.Store
		s.ledger = billing.NewLedger(deps.Store, cfg.WebhookSecret, logger)
	}
	s.orchestrator = generate.New(deps.LLM, genStore, quota, logger)

	jwtService := NewJWTService(cfg.JWTSecret)
	requireAuth := middleware.RequireAuth(jwtService)
	optionalAuth := middleware.OptionalAuth(jwtService)

	mux := http.NewServeMux()

	// Generation pipeline
	mux.Handle("POST /api/generate", optionalAuth(http.HandlerFunc(s.handleGenerate)))
	mux.HandleFunc("POST /api/parse-job", s.handleParseJob)
	mux.HandleFunc("POST /api/match-score", s.handleMatchScore)
	mux.Handle("POST /api/cover-letter", requireAuth(http.HandlerFunc(s.handleCoverLetter)))

	// Account
	mux.Handle("GET /api/me/status", optionalAuth(http.HandlerFunc(s.handleMeStatus)))
	mux.Handle("GET /api/me/background", requireAuth(http.HandlerFunc(s.handleGetBackground)))
	mux.Handle("PUT /api/me/background", requireAuth(http.HandlerFunc(s.handlePutBackground)))

	// Payments
	mux.HandleFunc("POST /api/webhook/payment", s.handlePaymentWebhook)

	// Applications
	mux.Handle("GET /api/applications", requireAuth(http.HandlerFunc(s.handleListApplications)))
	mux.Handle("POST /api/applications", requireAuth(http.HandlerFunc(s.handleCreateApplication)))
	mux.Handle("GET /api/applications/{id}", requireAuth(http.HandlerFunc(s.handleGetApplication)))
	mux.Handle("PATCH /api/applications/{id}", requireAuth(http.HandlerFunc(s.handleUpdateApplication)))
	mux.Handle("DELETE /api/applications/{id}", requireAuth(http.HandlerFunc(s.handleDeleteApplication)))
	mux.Handle("POST /api/applications/{id}/publish", requireAuth(http.HandlerFunc(s.handlePublishApplication)))

	// Public CV pages
	mux.HandleFunc("GET /api/cv/{slug}", s.handlePublicCV)

	mux.HandleFunc("GET /health", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(mux))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // Long timeout for streamed generations
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Start begins listening for requests and blocks until shutdown.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		s.logger.Info("server starting", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	s.logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.rateLimiter.Stop()
	// Let in-flight background cover letters finish
	s.orchestrator.Wait()

	s.logger.Info("server stopped")
	return nil
}

var slugPattern = regexp.MustCompile(`^[a-z0-9-]{3,50}$`)

func newValidator() *validator.Validate {
	v := validator.New()
	// Public URL slugs: lowercase alphanumerics and hyphens, 3-50 chars
	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	})
	return v
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
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
		clientID := clientIP(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		if info.Limit > 0 {
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		}
		if !allowed {
			s.errorResponse(w, http.StatusTooManyRequests, "Rate limit exceeded")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Info("request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}

func clientIP(r *http.Request) string {
	// X-Forwarded-For is a comma-separated hop list; only the first entry
	// identifies the client, and it must parse as an address so a forged
	// header cannot mint fresh rate-limit buckets per request.
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := net.ParseIP(strings.TrimSpace(first)); ip != nil {
			return ip.String()
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// handleHealth reports process liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) jsonResponse(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// handleError maps a domain error onto the response, logging server-side
// failures with their full detail.
func (s *Server) handleError(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	s.errorResponse(w, status, clientMessage(err))
}
