// Package api provides the HTTP API server for pcbuild.
// It exposes the compatibility evaluator, power budget and template scorer
// as JSON endpoints.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"pcbuild/db/catalog"
	"pcbuild/decision/compat"
	"pcbuild/decision/parts"
	"pcbuild/decision/policy"
	"pcbuild/decision/power"
	"pcbuild/decision/scoring"
	"pcbuild/decision/specs"
	"pcbuild/pkg/platform"
)

// CatalogSource supplies candidate parts for recommendations.
// *catalog.Store satisfies it.
type CatalogSource interface {
	LoadCatalog(ctx context.Context, categories ...parts.Category) (scoring.Catalog, error)
	Ping(ctx context.Context) error
}

// Server is the HTTP API server
type Server struct {
	httpServer *http.Server
	source     CatalogSource
	evaluator  *compat.Evaluator
	scorer     *scoring.Scorer
	policy     policy.Config
	config     *Config
	logger     *slog.Logger
}

// Config holds server configuration
type Config struct {
	Port           int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	MaxRequestSize int64
	CORSOrigins    []string
	// APIKey guards /api/v1 routes when set.
	APIKey string
}

// DefaultConfig returns default server configuration
func DefaultConfig() *Config {
	return &Config{
		Port:           platform.GetEnvInt(platform.EnvPort, 8080),
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   60 * time.Second,
		MaxRequestSize: 5 * 1024 * 1024, // 5MB
		CORSOrigins:    []string{"*"},
		APIKey:         platform.GetEnv(platform.EnvAPIKey, ""),
	}
}

// NewServer creates a new API server. source may be nil, in which case
// recommend requests must carry their own catalog and /ready does not
// check a database.
func NewServer(cfg policy.Config, source CatalogSource, config *Config, logger *slog.Logger) (*Server, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if logger == nil {
		logger = platform.DiscardLogger()
	}

	evaluator, err := cfg.Evaluator(compat.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to build evaluator: %w", err)
	}

	return &Server{
		source:    source,
		evaluator: evaluator,
		scorer:    scoring.NewScorer(evaluator, scoring.WithWeights(cfg.Scoring), scoring.WithLogger(logger)),
		policy:    cfg,
		config:    config,
		logger:    logger,
	}, nil
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	v1 := http.NewServeMux()
	v1.HandleFunc("/api/v1/specs", s.handleSpecs)
	v1.HandleFunc("/api/v1/templates", s.handleTemplates)
	v1.HandleFunc("/api/v1/compatibility", s.handleCompatibility)
	v1.HandleFunc("/api/v1/power", s.handlePower)
	v1.HandleFunc("/api/v1/recommend", s.handleRecommend)

	// Register routes
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/ready", s.handleReady)
	mux.Handle("/api/v1/", platform.APIKeyMiddleware(s.config.APIKey, v1))

	// Wrap with middleware
	return s.requestIDMiddleware(s.corsMiddleware(s.loggingMiddleware(mux)))
}

func (s *Server) newHTTPServer() *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.Handler(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	if s.httpServer == nil {
		s.httpServer = s.newHTTPServer()
	}

	s.logger.Info("api server starting", "port", s.config.Port)
	return s.httpServer.ListenAndServe()
}

// StartWithGracefulShutdown starts server with graceful shutdown handling
func (s *Server) StartWithGracefulShutdown() error {
	s.httpServer = s.newHTTPServer()

	// Start server in goroutine
	errChan := make(chan error, 1)
	go func() {
		if err := s.Start(); !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case <-quit:
		s.logger.Info("shutting down api server")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(ctx)
	}
}

// =============================================================================
// MIDDLEWARE
// =============================================================================

type ctxKey struct{}

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-Id"

// RequestID returns the id assigned to the request carrying ctx.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request.complete",
			"request_id", RequestID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", float64(time.Since(start).Microseconds())/1000.0)
	})
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}

		// Check if origin is allowed
		allowed := false
		for _, o := range s.config.CORSOrigins {
			if o == "*" || o == origin {
				allowed = true
				break
			}
		}

		if allowed {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+RequestIDHeader+", "+platform.APIKeyHeader)
			w.Header().Set("Access-Control-Max-Age", "86400")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// =============================================================================
// HEALTH ENDPOINTS
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, r, http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": "1.0.0",
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.source == nil {
		s.jsonResponse(w, r, http.StatusOK, map[string]string{"status": "ready", "catalog": "none"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	// Check database connectivity
	if err := s.source.Ping(ctx); err != nil {
		s.logger.Warn("catalog not ready", "error", err)
		s.jsonError(w, r, http.StatusServiceUnavailable, "database not ready")
		return
	}

	s.jsonResponse(w, r, http.StatusOK, map[string]string{
		"status": "ready",
	})
}

// =============================================================================
// REFERENCE ENDPOINTS
// =============================================================================

// SpecsResponse lists the attribute definitions for one category.
type SpecsResponse struct {
	RequestID string         `json:"request_id"`
	Category  parts.Category `json:"category"`
	Specs     []specs.Entry  `json:"specs"`
}

func (s *Server) handleSpecs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.jsonError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	raw := r.URL.Query().Get("category")
	c, ok := parts.ParseCategory(raw)
	if !ok {
		s.jsonError(w, r, http.StatusBadRequest, fmt.Sprintf("unknown category %q", raw))
		return
	}

	s.jsonResponse(w, r, http.StatusOK, SpecsResponse{
		RequestID: RequestID(r.Context()),
		Category:  c,
		Specs:     specs.ForCategory(c),
	})
}

// TemplatesResponse lists the built-in templates.
type TemplatesResponse struct {
	RequestID string             `json:"request_id"`
	Templates []scoring.Template `json:"templates"`
}

func (s *Server) handleTemplates(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.jsonError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.jsonResponse(w, r, http.StatusOK, TemplatesResponse{
		RequestID: RequestID(r.Context()),
		Templates: scoring.Templates(),
	})
}

// =============================================================================
// BUILD ENDPOINTS
// =============================================================================

// BuildRequest carries a part selection keyed by category.
type BuildRequest struct {
	Build parts.Selection `json:"build"`
}

// AssessmentResponse is the API response for compatibility checks.
type AssessmentResponse struct {
	RequestID string `json:"request_id"`
	policy.Assessment
}

func (s *Server) handleCompatibility(w http.ResponseWriter, r *http.Request) {
	var req BuildRequest
	if !s.decodePost(w, r, &req) {
		return
	}

	assessment := s.policy.Assess(s.evaluator, req.Build)
	s.jsonResponse(w, r, http.StatusOK, AssessmentResponse{
		RequestID:  RequestID(r.Context()),
		Assessment: assessment,
	})
}

// PowerResponse is the API response for power budgets.
type PowerResponse struct {
	RequestID string       `json:"request_id"`
	Budget    power.Budget `json:"budget"`
}

func (s *Server) handlePower(w http.ResponseWriter, r *http.Request) {
	var req BuildRequest
	if !s.decodePost(w, r, &req) {
		return
	}
	s.jsonResponse(w, r, http.StatusOK, PowerResponse{
		RequestID: RequestID(r.Context()),
		Budget:    power.Calculate(req.Build, s.policy.Power),
	})
}

// RecommendRequest asks the scorer to complete a build. Template names a
// built-in template; CustomTemplate overrides it. Catalog, when present,
// replaces the server's catalog for this request.
type RecommendRequest struct {
	Template       string            `json:"template"`
	CustomTemplate *scoring.Template `json:"custom_template,omitempty"`
	Build          parts.Selection   `json:"build"`
	Catalog        json.RawMessage   `json:"catalog,omitempty"`
}

// RecommendResponse is the completed build with the scorer's report and a
// full assessment of the result.
type RecommendResponse struct {
	RequestID string          `json:"request_id"`
	Build     parts.Selection `json:"build"`
	Report    scoring.Report  `json:"report"`
	policy.Assessment
}

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	var req RecommendRequest
	if !s.decodePost(w, r, &req) {
		return
	}

	tmpl, err := resolveTemplate(req)
	if err != nil {
		s.jsonError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	candidates, err := s.loadCatalog(r.Context(), req.Catalog, tmpl)
	if errors.Is(err, errCatalogUnavailable) {
		s.jsonError(w, r, http.StatusServiceUnavailable, err.Error())
		return
	}
	if err != nil {
		s.jsonError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	sel, report := s.scorer.Build(tmpl, candidates, req.Build)
	s.jsonResponse(w, r, http.StatusOK, RecommendResponse{
		RequestID:  RequestID(r.Context()),
		Build:      sel,
		Report:     report,
		Assessment: s.policy.Assess(s.evaluator, sel),
	})
}

func resolveTemplate(req RecommendRequest) (scoring.Template, error) {
	if req.CustomTemplate != nil {
		if err := req.CustomTemplate.Validate(); err != nil {
			return scoring.Template{}, err
		}
		return *req.CustomTemplate, nil
	}
	tmpl, ok := scoring.TemplateByName(req.Template)
	if !ok {
		return scoring.Template{}, fmt.Errorf("unknown template %q", req.Template)
	}
	return tmpl, nil
}

// errCatalogUnavailable hides store failures from clients.
var errCatalogUnavailable = errors.New("catalog unavailable")

func (s *Server) loadCatalog(ctx context.Context, inline json.RawMessage, tmpl scoring.Template) (scoring.Catalog, error) {
	if len(inline) > 0 && string(inline) != "null" {
		return catalog.Decode(bytes.NewReader(inline))
	}
	if s.source == nil {
		return nil, errors.New("no catalog configured; include one in the request")
	}

	categories := make([]parts.Category, len(tmpl.Entries))
	for i, e := range tmpl.Entries {
		categories[i] = e.Category
	}
	loaded, err := s.source.LoadCatalog(ctx, categories...)
	if err != nil {
		s.logger.Error("catalog load failed", "request_id", RequestID(ctx), "error", err)
		return nil, errCatalogUnavailable
	}
	return loaded, nil
}

// =============================================================================
// HELPERS
// =============================================================================

func (s *Server) decodePost(w http.ResponseWriter, r *http.Request, dst any) bool {
	if r.Method != http.MethodPost {
		s.jsonError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return false
	}

	// Limit request size
	r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxRequestSize)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.jsonError(w, r, http.StatusBadRequest, fmt.Sprintf("invalid request: %v", err))
		return false
	}
	return true
}

func (s *Server) jsonResponse(w http.ResponseWriter, r *http.Request, status int, data any) {
	if m, ok := data.(map[string]string); ok {
		m["request_id"] = RequestID(r.Context())
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode response", "request_id", RequestID(r.Context()), "error", err)
	}
}

func (s *Server) jsonError(w http.ResponseWriter, r *http.Request, status int, message string) {
	s.jsonResponse(w, r, status, map[string]string{
		"error": message,
	})
}
