// Package chi is the HTTP transport for the question-answering API.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kalder-cloud/reagent/internal/domain"
	healthuc "github.com/kalder-cloud/reagent/internal/usecase/health"
	retrievaluc "github.com/kalder-cloud/reagent/internal/usecase/retrieval"
)

// Asker runs the agent loop for one question.
type Asker interface {
	Run(ctx context.Context, query string) (domain.Result, error)
}

// RunReader reads recorded runs.
type RunReader interface {
	List(ctx context.Context) ([]domain.AgentRun, error)
	Get(ctx context.Context, id string) (domain.AgentRun, error)
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server exposes the ask/runs/search/health endpoints.
type Server struct {
	agent         Asker
	search        *retrievaluc.Service
	runs          RunReader
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	agent Asker,
	search *retrievaluc.Service,
	runs RunReader,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		agent:  agent,
		search: search,
		runs:   runs,
		health: health,
		logger: logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrEmptyQuery, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrRunNotFound, http.StatusNotFound, codeNotFound),
		sentinelHandler(domain.ErrModelUnavailable, http.StatusBadGateway, codeModelUnavailable),
		sentinelHandler(domain.ErrRecorderFailure, http.StatusInternalServerError, codeStorageError),
	}
	return s
}

// RegisterRoutes mounts all handlers on the given router.
func (s *Server) RegisterRoutes(r chi.Router) {
	r.Post("/v1/ask", s.AskQuestion)
	r.Get("/v1/runs", s.ListRuns)
	r.Get("/v1/runs/{id}", s.GetRun)
	r.Get("/v1/search", s.SearchCorpus)
	r.Get("/healthz", s.Healthz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
}

type askRequest struct {
	Query string `json:"query"`
}

type stepJSON struct {
	Thought     string `json:"thought"`
	Action      string `json:"action"`
	Observation string `json:"observation"`
}

type askResponse struct {
	Answer     string     `json:"answer"`
	Steps      int        `json:"steps"`
	Trajectory []stepJSON `json:"trajectory"`
	Persisted  bool       `json:"persisted"`
}

// AskQuestion handles POST /v1/ask: one full agent run per request.
func (s *Server) AskQuestion(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	result, err := s.agent.Run(r.Context(), req.Query)
	if err != nil {
		// The loop may hand back a completed result whose persistence
		// failed. The answer is still valid; tell the caller it left no
		// durable trace instead of discarding it.
		if errors.Is(err, domain.ErrRecorderFailure) && result.Answer != "" {
			s.logger.Error("run completed but not persisted", zap.Error(err))
			writeJSON(w, http.StatusOK, toAskResponse(result, false))
			return
		}
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toAskResponse(result, true))
}

type runSummary struct {
	ID     string `json:"id"`
	Query  string `json:"query"`
	Answer string `json:"answer"`
	Steps  int    `json:"steps"`
}

// ListRuns handles GET /v1/runs: recorded runs, newest first.
func (s *Server) ListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := s.runs.List(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	summaries := make([]runSummary, len(runs))
	for i, run := range runs {
		summaries[i] = runSummary{
			ID:     run.ID,
			Query:  run.Query,
			Answer: run.Result.Answer,
			Steps:  len(run.Result.Trajectory),
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": summaries})
}

type runResponse struct {
	ID         string     `json:"id"`
	Query      string     `json:"query"`
	Answer     string     `json:"answer"`
	Trajectory []stepJSON `json:"trajectory"`
}

// GetRun handles GET /v1/runs/{id}: one recorded run with its trajectory.
func (s *Server) GetRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	run, err := s.runs.Get(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, runResponse{
		ID:         run.ID,
		Query:      run.Query,
		Answer:     run.Result.Answer,
		Trajectory: toStepJSON(run.Result.Trajectory),
	})
}

// SearchCorpus handles GET /v1/search?q=...&k=...: direct retrieval without
// the agent loop, useful for inspecting the ranking.
func (s *Server) SearchCorpus(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "query parameter q is required")
		return
	}

	k := retrievaluc.DefaultTopK
	if raw := r.URL.Query().Get("k"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, codeValidationFailed, "k must be a positive integer")
			return
		}
		k = n
	}

	results := s.search.Search(r.Context(), q, k)
	writeJSON(w, http.StatusOK, domain.Observation{Results: results})
}

// Healthz handles GET /healthz.
func (s *Server) Healthz(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	status := http.StatusOK
	if report.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

func toStepJSON(trajectory domain.Trajectory) []stepJSON {
	steps := make([]stepJSON, len(trajectory))
	for i, st := range trajectory {
		steps[i] = stepJSON{Thought: st.Thought, Action: st.Action, Observation: st.Observation}
	}
	return steps
}

func toAskResponse(result domain.Result, persisted bool) askResponse {
	return askResponse{
		Answer:     result.Answer,
		Steps:      len(result.Trajectory),
		Trajectory: toStepJSON(result.Trajectory),
		Persisted:  persisted,
	}
}

// safeDomainMessage returns a sentinel error message for the client without
// exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrEmptyQuery,
		domain.ErrRunNotFound,
		domain.ErrModelUnavailable,
		domain.ErrRecorderFailure,
		domain.ErrNoCorpus,
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

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
