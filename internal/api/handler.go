// Package api implements the applyscore REST API.
// It exposes job, application and health endpoints over the screening services.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/applyscore/applyscore/internal/logging"
	"github.com/applyscore/applyscore/internal/metrics"
	"github.com/applyscore/applyscore/internal/screening"
	"github.com/applyscore/applyscore/pkg/validate"
)

// DefaultMaxBodyBytes caps request bodies when no limit is configured.
const DefaultMaxBodyBytes = 1 << 20

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler is the top-level API handler.
type Handler struct {
	jobs         *screening.JobService
	applications *screening.ApplicationService
	health       Pinger
	metrics      *metrics.Metrics
	logger       *zap.Logger
	maxBodyBytes int64
}

// NewHandler creates a new API handler. health, metrics and logger may be nil.
func NewHandler(jobs *screening.JobService, applications *screening.ApplicationService, health Pinger, m *metrics.Metrics, logger *zap.Logger) *Handler {
	logger = logging.OrNop(logger)
	return &Handler{
		jobs:         jobs,
		applications: applications,
		health:       health,
		metrics:      m,
		logger:       logger,
		maxBodyBytes: DefaultMaxBodyBytes,
	}
}

// SetMaxBodyBytes changes the request body limit. Non-positive values are ignored.
func (h *Handler) SetMaxBodyBytes(n int64) {
	if n > 0 {
		h.maxBodyBytes = n
	}
}

// RegisterRoutes registers all API routes on the given ServeMux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.handleHealth)
	mux.Handle("GET /metrics", h.metrics.Handler())
	mux.HandleFunc("GET /openapi.yaml", handleOpenAPIYAML)
	mux.HandleFunc("GET /openapi.json", handleOpenAPIJSON)

	mux.HandleFunc("POST /api/v1/jobs", h.handleCreateJob)
	mux.HandleFunc("GET /api/v1/jobs", h.handleListJobs)
	mux.HandleFunc("GET /api/v1/jobs/{id}", h.handleGetJob)
	mux.HandleFunc("POST /api/v1/jobs/{id}/applications", h.handleCreateApplication)
	mux.HandleFunc("GET /api/v1/jobs/{id}/applications", h.handleListApplications)
	mux.HandleFunc("GET /api/v1/applications/{id}", h.handleGetApplication)

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, codeNotFound, "Endpoint not found")
	})
}

// Routes returns the complete HTTP handler: routes wrapped with panic
// recovery, request instrumentation and CORS.
func (h *Handler) Routes(corsOrigins []string) http.Handler {
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	var handler http.Handler = mux
	handler = Recover(h.logger)(handler)
	handler = Instrument(h.logger, h.metrics)(handler)
	handler = CORS(corsOrigins)(handler)
	return handler
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if h.health != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.health.Ping(ctx); err != nil {
			h.logger.Warn("health check failed", zap.Error(err))
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

const (
	codeValidation = "VALIDATION_ERROR"
	codeNotFound   = "NOT_FOUND"
	codeTooLarge   = "PAYLOAD_TOO_LARGE"
	codeInternal   = "INTERNAL_SERVER_ERROR"
)

type errorResponse struct {
	Error   string   `json:"error"`
	Message string   `json:"message,omitempty"`
	Details []string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorResponse{Error: code, Message: msg})
}

// fail maps a service error onto the API's error bodies: validation
// failures are 400, missing resources 404, anything else 500.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	var nf *screening.NotFoundError
	switch {
	case validate.IsValidationError(err):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: codeValidation, Details: validate.Details(err)})
	case errors.As(err, &nf):
		writeError(w, http.StatusNotFound, codeNotFound, nf.Error())
	default:
		h.logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, codeInternal, "An unexpected error occurred")
	}
}

// readBody reads the request body up to the configured limit. It writes the
// error response itself and reports false when the body cannot be used.
func (h *Handler) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
	if err == nil {
		return body, true
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, codeTooLarge,
			fmt.Sprintf("Request body exceeds %d bytes", tooLarge.Limit))
		return nil, false
	}
	h.fail(w, r, fmt.Errorf("read request body: %w", err))
	return nil, false
}
