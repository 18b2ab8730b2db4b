package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/insurefilter/internal/domain"
	"github.com/kailas-cloud/insurefilter/internal/domain/criteria"
	"github.com/kailas-cloud/insurefilter/internal/domain/insurance"
	filteringuc "github.com/kailas-cloud/insurefilter/internal/usecase/filtering"
	healthuc "github.com/kailas-cloud/insurefilter/internal/usecase/health"
)

const maxBodyBytes = 1 << 20

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the insurance filtering API.
type Server struct {
	filtering     filteringuc.Filterer
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(filtering filteringuc.Filterer, health *healthuc.Service, logger *zap.Logger) *Server {
	s := &Server{
		filtering: filtering,
		health:    health,
		logger:    logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, ErrorCodeNotFound),
		sentinelHandler(domain.ErrInvalidCriteria, http.StatusBadRequest, ErrorCodeValidationFailed),
		sentinelHandler(domain.ErrInvalidRecord, http.StatusBadRequest, ErrorCodeValidationFailed),
		sentinelHandler(domain.ErrStoreUnavailable, http.StatusServiceUnavailable, ErrorCodeStoreUnavailable),
	}
	return s
}

// Routes registers every endpoint on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.Route("/api/v1/insurances", func(r chi.Router) {
		r.Get("/", s.ListInsurances)
		r.Post("/search", s.SearchInsurances)
		r.Post("/explain", s.ExplainInsurances)
	})
}

// SearchInsurances handles POST /api/v1/insurances/search.
func (s *Server) SearchInsurances(w http.ResponseWriter, r *http.Request) {
	raw, ok := decodeRaw(w, r)
	if !ok {
		return
	}
	s.filter(w, r, raw)
}

// ListInsurances handles GET /api/v1/insurances.
func (s *Server) ListInsurances(w http.ResponseWriter, r *http.Request) {
	params, err := bindListParams(r.URL.Query())
	if err != nil {
		s.handleDomainError(w, fmt.Errorf("%w: %w", domain.ErrInvalidCriteria, err))
		return
	}
	s.filter(w, r, params.Raw())
}

// ExplainInsurances handles POST /api/v1/insurances/explain.
func (s *Server) ExplainInsurances(w http.ResponseWriter, r *http.Request) {
	raw, ok := decodeRaw(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, explainToResponse(s.filtering.Explain(raw)))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func (s *Server) filter(w http.ResponseWriter, r *http.Request, raw criteria.Raw) {
	records, err := s.filtering.Filter(r.Context(), raw)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	if records == nil {
		records = []insurance.Record{}
	}
	writeJSON(w, http.StatusOK, records)
}

func decodeRaw(w http.ResponseWriter, r *http.Request) (criteria.Raw, bool) {
	var raw criteria.Raw
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&raw); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return criteria.Raw{}, false
	}
	return raw, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrNotFound,
		domain.ErrInvalidCriteria,
		domain.ErrInvalidRecord,
		domain.ErrStoreUnavailable,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}
