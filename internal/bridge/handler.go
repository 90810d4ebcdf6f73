package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/antihub/antihook/internal/baseurl"
	"github.com/antihub/antihook/internal/configstore"
	"github.com/antihub/antihook/internal/healthcheck"
)

const maxBodyBytes = 64 << 10

// ConfigStore is the persistence the bridge needs.
type ConfigStore interface {
	Path() (string, error)
	Load() (*configstore.Configuration, error)
	Save(raw string) (string, error)
}

// HealthChecker runs a health probe against a base URL.
type HealthChecker interface {
	Check(ctx context.Context, baseURL string) (healthcheck.Result, error)
}

type Handler struct {
	logger  *slog.Logger
	store   ConfigStore
	checker HealthChecker
	metrics http.Handler
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

type pathResponse struct {
	Path string `json:"path"`
}

type configRequest struct {
	ServerURL *string `json:"server_url"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// NewHandler wires the bridge routes. logger and metrics may be nil.
func NewHandler(logger *slog.Logger, store ConfigStore, checker HealthChecker, metrics http.Handler) *Handler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Handler{
		logger:  logger,
		store:   store,
		checker: checker,
		metrics: metrics,
	}
}

// Routes returns the bridge mux wrapped in request logging.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/config/path", h.getConfigPath)
	mux.HandleFunc("GET /api/config", h.loadConfig)
	mux.HandleFunc("PUT /api/config", h.saveConfig)
	mux.HandleFunc("GET /api/health", h.checkHealth)
	if h.metrics != nil {
		mux.Handle("GET /metrics", h.metrics)
	}

	return h.logRequests(mux)
}

func (h *Handler) getConfigPath(w http.ResponseWriter, r *http.Request) {
	path, err := h.store.Path()
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pathResponse{Path: path})
}

func (h *Handler) loadConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.store.Load()
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

func (h *Handler) saveConfig(w http.ResponseWriter, r *http.Request) {
	var req configRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}
	if req.ServerURL == nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: missing server_url"})
		return
	}

	normalized, err := h.store.Save(*req.ServerURL)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, configstore.Configuration{ServerURL: normalized})
}

func (h *Handler) checkHealth(w http.ResponseWriter, r *http.Request) {
	result, err := h.checker.Check(r.Context(), r.URL.Query().Get("base_url"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	var urlErr *baseurl.Error
	if errors.As(err, &urlErr) {
		status = http.StatusBadRequest
	} else {
		h.logger.Error("bridge operation failed", slog.Any("err", err))
	}

	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		h.logger.Debug("bridge request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", wrapped.statusCode),
			slog.Duration("duration", time.Since(start)))
	})
}

func (r *statusRecorder) WriteHeader(code int) {
	r.statusCode = code
	r.ResponseWriter.WriteHeader(code)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
