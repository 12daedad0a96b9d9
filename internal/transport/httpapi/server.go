// Package httpapi is the hand-written chi HTTP surface.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/velosearch/velosearch/internal/domain"
	logpkg "github.com/velosearch/velosearch/internal/logger"
	"github.com/velosearch/velosearch/internal/metrics"
	attachuc "github.com/velosearch/velosearch/internal/usecase/attach"
	healthuc "github.com/velosearch/velosearch/internal/usecase/health"
	queryuc "github.com/velosearch/velosearch/internal/usecase/query"
)

// Error codes returned in JSON error bodies.
const (
	codeBadRequest        = "bad_request"
	codeValidationFailed  = "validation_failed"
	codeIndexNotFound     = "index_not_found"
	codeSchemaMismatch    = "schema_mismatch"
	codeEmbeddingProvider = "embedding_provider_error"
	codeInternalError     = "internal_error"
)

// querier runs semantic searches.
type querier interface {
	Search(ctx context.Context, req queryuc.Request) (*queryuc.Table, error)
}

// indexer manages the vector index lifecycle.
type indexer interface {
	Rebuild(ctx context.Context) error
	Describe(ctx context.Context) (domain.IndexStatus, error)
}

// attacher recomputes and stores embeddings.
type attacher interface {
	Attach(ctx context.Context) (*attachuc.Result, error)
}

// checker reports dependency health.
type checker interface {
	Check(ctx context.Context) *healthuc.Status
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server exposes the search, index and health endpoints.
type Server struct {
	query          querier
	index          indexer
	attach         attacher
	health         checker
	defaultPerPage int
	maxPerPage     int
	logger         *zap.Logger
	errorHandlers  []errorHandler
}

func NewServer(q querier, i indexer, a attacher, h checker, defaultPerPage, maxPerPage int, logger *zap.Logger) *Server {
	s := &Server{
		query:          q,
		index:          i,
		attach:         a,
		health:         h,
		defaultPerPage: defaultPerPage,
		maxPerPage:     maxPerPage,
		logger:         logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidArgument, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrReservedParam, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrIndexNotFound, http.StatusNotFound, codeIndexNotFound),
		sentinelHandler(domain.ErrSchemaMismatch, http.StatusConflict, codeSchemaMismatch),
		sentinelHandler(domain.ErrAlignment, http.StatusConflict, codeSchemaMismatch),
		sentinelHandler(domain.ErrEmbeddingProvider, http.StatusBadGateway, codeEmbeddingProvider),
	}
	return s
}

// Routes mounts every endpoint on the given router.
func (s *Server) Routes(r chi.Router) {
	r.Route("/vss", func(r chi.Router) {
		r.Post("/search", s.handleSearch)
		r.Post("/search/paginated", s.handleSearchPaginated)
		r.Post("/batch-search", s.handleBatchSearch)
		r.Get("/queries", s.handleQueries)
		r.Post("/refresh-index", s.handleRefreshIndex)
		r.Get("/index", s.handleIndexStatus)
	})
	r.Get("/health", s.handleHealth)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
}

// searchRequest is the body of the single-query search endpoints.
type searchRequest struct {
	Query  string            `json:"query"`
	TopK   int               `json:"top_k"`
	Filter string            `json:"filter,omitempty"`
	Params map[string]string `json:"params,omitempty"`
}

type batchSearchRequest struct {
	Queries []string          `json:"queries"`
	TopK    int               `json:"top_k"`
	Filter  string            `json:"filter,omitempty"`
	Params  map[string]string `json:"params,omitempty"`
}

type paginatedSearchRequest struct {
	batchSearchRequest
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
}

type searchResponse struct {
	Count    int           `json:"count"`
	Rows     []queryuc.Row `json:"rows"`
	Markdown string        `json:"markdown"`
}

// handleSearch handles POST /vss/search.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}

	table, err := s.query.Search(r.Context(), queryuc.Request{
		Queries: []string{req.Query},
		TopK:    req.TopK,
		Filter:  req.Filter,
		Params:  req.Params,
	})
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, tableResponse(table))
}

// handleBatchSearch handles POST /vss/batch-search.
func (s *Server) handleBatchSearch(w http.ResponseWriter, r *http.Request) {
	var req batchSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}

	table, err := s.query.Search(r.Context(), queryuc.Request{
		Queries: req.Queries,
		TopK:    req.TopK,
		Filter:  req.Filter,
		Params:  req.Params,
	})
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, tableResponse(table))
}

// handleSearchPaginated handles POST /vss/search/paginated.
func (s *Server) handleSearchPaginated(w http.ResponseWriter, r *http.Request) {
	var req paginatedSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}

	if req.Page == 0 {
		req.Page = 1
	}
	if req.PerPage == 0 {
		req.PerPage = s.defaultPerPage
	}
	if req.PerPage > s.maxPerPage {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "per_page exceeds the maximum")
		return
	}

	table, err := s.query.Search(r.Context(), queryuc.Request{
		Queries: req.Queries,
		TopK:    req.TopK,
		Filter:  req.Filter,
		Params:  req.Params,
	})
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	page, err := table.Page(req.Page, req.PerPage)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		searchResponse
		Page    int `json:"page"`
		PerPage int `json:"per_page"`
		Total   int `json:"total"`
	}{
		searchResponse: tableResponse(page),
		Page:           req.Page,
		PerPage:        req.PerPage,
		Total:          table.Len(),
	})
}

// handleQueries handles GET /vss/queries.
func (s *Server) handleQueries(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"queries": DemoQueries()})
}

// handleRefreshIndex handles POST /vss/refresh-index: the index is
// recreated for the provider's current dimension and every description
// is re-embedded.
func (s *Server) handleRefreshIndex(w http.ResponseWriter, r *http.Request) {
	if err := s.index.Rebuild(r.Context()); err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	res, err := s.attach.Attach(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "refreshed",
		"documents": res.Documents,
		"attached":  res.Attached,
	})
}

// handleIndexStatus handles GET /vss/index.
func (s *Server) handleIndexStatus(w http.ResponseWriter, r *http.Request) {
	st, err := s.index.Describe(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"documents":         st.DocumentCount,
		"percent_indexed":   st.PercentIndexed,
		"indexing_failures": st.IndexingFailures,
		"indexing_time_ms":  st.IndexingTimeMs,
		"summary":           st.String(),
	})
}

// handleHealth handles GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	st := s.health.Check(r.Context())

	status := http.StatusOK
	if !st.Healthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, st)
}

func tableResponse(t *queryuc.Table) searchResponse {
	rows := t.Display()
	if rows == nil {
		rows = []queryuc.Row{}
	}
	return searchResponse{
		Count:    t.Len(),
		Rows:     rows,
		Markdown: t.Markdown(),
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logpkg.FromContext(r.Context())
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			log.Warn("request failed", zap.Error(err))
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}

// safeDomainMessage returns a sentinel error message for the client
// without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidArgument,
		domain.ErrReservedParam,
		domain.ErrIndexNotFound,
		domain.ErrSchemaMismatch,
		domain.ErrAlignment,
		domain.ErrEmbeddingProvider,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

// Router assembles the full middleware chain and routes.
func (s *Server) Router(apiKeys []string) *chi.Mux {
	r := chi.NewRouter()
	r.Use(jsonRecoverer(s.logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(s.logger))
	r.Use(BearerAuthMiddleware(apiKeys))
	r.Use(metrics.Middleware())
	s.Routes(r)
	return r
}
