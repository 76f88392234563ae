package chi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kalder-cloud/reagent/internal/domain"
	agentuc "github.com/kalder-cloud/reagent/internal/usecase/agent"
	healthuc "github.com/kalder-cloud/reagent/internal/usecase/health"
	retrievaluc "github.com/kalder-cloud/reagent/internal/usecase/retrieval"
)

// --- Mocks ---

type mockAsker struct {
	result domain.Result
	err    error
	query  string
}

func (m *mockAsker) Run(_ context.Context, query string) (domain.Result, error) {
	m.query = query
	return m.result, m.err
}

type mockRunReader struct {
	runs    []domain.AgentRun
	run     domain.AgentRun
	listErr error
	getErr  error
}

func (m *mockRunReader) List(context.Context) ([]domain.AgentRun, error) {
	return m.runs, m.listErr
}

func (m *mockRunReader) Get(context.Context, string) (domain.AgentRun, error) {
	return m.run, m.getErr
}

func testDoc(t *testing.T, id string, tokens ...string) domain.Document {
	t.Helper()
	doc, err := domain.NewDocument(id, "", id, tokens)
	if err != nil {
		t.Fatalf("NewDocument: %v", err)
	}
	return doc
}

func newTestServer(t *testing.T, asker Asker, runs RunReader) (*Server, chi.Router) {
	t.Helper()
	search := retrievaluc.New([]domain.Document{
		testDoc(t, "article_1", "go", "channels"),
		testDoc(t, "article_2", "rust", "ownership"),
	})
	health := healthuc.New(search, nil, nil)
	srv := NewServer(asker, search, runs, health, zap.NewNop())

	r := chi.NewRouter()
	srv.RegisterRoutes(r)
	return srv, r
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

// --- Tests ---

func TestAskQuestion_Success(t *testing.T) {
	asker := &mockAsker{result: domain.Result{
		Answer: "42",
		Trajectory: domain.Trajectory{
			{Thought: "t", Action: "a", Observation: domain.ObservationDone},
		},
	}}
	_, r := newTestServer(t, asker, &mockRunReader{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/ask", strings.NewReader(`{"query": "meaning of life"}`))
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Answer    string `json:"answer"`
		Steps     int    `json:"steps"`
		Persisted bool   `json:"persisted"`
	}
	decodeBody(t, rec, &resp)
	if resp.Answer != "42" || resp.Steps != 1 || !resp.Persisted {
		t.Errorf("unexpected response %+v", resp)
	}
	if asker.query != "meaning of life" {
		t.Errorf("query not forwarded, got %q", asker.query)
	}
}

func TestAskQuestion_EmptyQuery(t *testing.T) {
	asker := &mockAsker{err: domain.ErrEmptyQuery}
	_, r := newTestServer(t, asker, &mockRunReader{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/ask", strings.NewReader(`{"query": ""}`))
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	var resp errorResponse
	decodeBody(t, rec, &resp)
	if resp.Code != codeValidationFailed {
		t.Errorf("code = %q, want %q", resp.Code, codeValidationFailed)
	}
}

func TestAskQuestion_MalformedBody(t *testing.T) {
	_, r := newTestServer(t, &mockAsker{}, &mockRunReader{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/ask", strings.NewReader(`{broken`))
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestAskQuestion_ModelUnavailable(t *testing.T) {
	asker := &mockAsker{err: fmt.Errorf("model completion at step 0: %w", domain.ErrModelUnavailable)}
	_, r := newTestServer(t, asker, &mockRunReader{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/ask", strings.NewReader(`{"query": "q"}`))
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rec.Code)
	}
}

func TestAskQuestion_RecorderFailureReturnsAnswer(t *testing.T) {
	asker := &mockAsker{
		result: domain.Result{
			Answer:     "kept",
			Trajectory: domain.Trajectory{{Thought: "t", Action: "a", Observation: domain.ObservationDone}},
		},
		err: fmt.Errorf("%w: disk full", domain.ErrRecorderFailure),
	}
	_, r := newTestServer(t, asker, &mockRunReader{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/ask", strings.NewReader(`{"query": "q"}`))
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp struct {
		Answer    string `json:"answer"`
		Persisted bool   `json:"persisted"`
	}
	decodeBody(t, rec, &resp)
	if resp.Answer != "kept" {
		t.Errorf("answer = %q, want kept", resp.Answer)
	}
	if resp.Persisted {
		t.Error("persisted must be false after a recorder failure")
	}
}

func TestListRuns(t *testing.T) {
	reader := &mockRunReader{runs: []domain.AgentRun{
		{
			ID:    "run_20260828_103000",
			Query: "q1",
			Result: domain.Result{
				Answer:     "a1",
				Trajectory: domain.Trajectory{{}, {}},
			},
		},
	}}
	_, r := newTestServer(t, &mockAsker{}, reader)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/runs", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp struct {
		Runs []runSummary `json:"runs"`
	}
	decodeBody(t, rec, &resp)
	if len(resp.Runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(resp.Runs))
	}
	got := resp.Runs[0]
	if got.ID != "run_20260828_103000" || got.Answer != "a1" || got.Steps != 2 {
		t.Errorf("unexpected summary %+v", got)
	}
}

func TestGetRun_NotFound(t *testing.T) {
	reader := &mockRunReader{getErr: domain.ErrRunNotFound}
	_, r := newTestServer(t, &mockAsker{}, reader)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/runs/run_20260101_000000", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	var resp errorResponse
	decodeBody(t, rec, &resp)
	if resp.Code != codeNotFound {
		t.Errorf("code = %q, want %q", resp.Code, codeNotFound)
	}
}

func TestGetRun_Success(t *testing.T) {
	reader := &mockRunReader{run: domain.AgentRun{
		ID:    "run_20260828_103000",
		Query: "q",
		Result: domain.Result{
			Answer:     "a",
			Trajectory: domain.Trajectory{{Thought: "t", Action: "act", Observation: "o"}},
		},
	}}
	_, r := newTestServer(t, &mockAsker{}, reader)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/runs/run_20260828_103000", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp runResponse
	decodeBody(t, rec, &resp)
	if resp.Answer != "a" || len(resp.Trajectory) != 1 || resp.Trajectory[0].Thought != "t" {
		t.Errorf("unexpected response %+v", resp)
	}
}

func TestSearchCorpus(t *testing.T) {
	_, r := newTestServer(t, &mockAsker{}, &mockRunReader{})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/search?q=go+channels&k=1", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp domain.Observation
	decodeBody(t, rec, &resp)
	if len(resp.Results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(resp.Results))
	}
	if resp.Results[0].ID != "article_1" {
		t.Errorf("expected article_1, got %s", resp.Results[0].ID)
	}
}

func TestSearchCorpus_MissingQuery(t *testing.T) {
	_, r := newTestServer(t, &mockAsker{}, &mockRunReader{})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/search", nil))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestSearchCorpus_InvalidK(t *testing.T) {
	_, r := newTestServer(t, &mockAsker{}, &mockRunReader{})

	for _, k := range []string{"abc", "0", "-1"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/search?q=go&k="+k, nil))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("k=%s: status = %d, want 400", k, rec.Code)
		}
	}
}

func TestHealthz_Healthy(t *testing.T) {
	_, r := newTestServer(t, &mockAsker{}, &mockRunReader{})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestHealthz_DegradedOnEmptyCorpus(t *testing.T) {
	search := retrievaluc.New(nil)
	health := healthuc.New(search, nil, nil)
	srv := NewServer(&mockAsker{}, search, &mockRunReader{}, health, zap.NewNop())
	r := chi.NewRouter()
	srv.RegisterRoutes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

var _ Asker = (*agentuc.Service)(nil)
