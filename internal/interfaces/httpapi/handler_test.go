package httpapi

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/petanque-league/internal/domain/standing"
	"github.com/riskibarqy/petanque-league/internal/domain/user"
	"github.com/riskibarqy/petanque-league/internal/infrastructure/repository/document"
	"github.com/riskibarqy/petanque-league/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/petanque-league/internal/platform/id"
	"github.com/riskibarqy/petanque-league/internal/platform/logging"
	"github.com/riskibarqy/petanque-league/internal/usecase"
)

const (
	captainToken = "captain-token"
	jobToken     = "job-secret"
)

type stubVerifier struct{}

func (stubVerifier) VerifyAccessToken(_ context.Context, token string) (user.Principal, error) {
	if token != captainToken {
		return user.Principal{}, usecase.ErrUnauthorized
	}
	return user.Principal{UserID: "uid-1", Name: "Captain Bommel"}, nil
}

type stubSync struct {
	mu         sync.Mutex
	triggerErr error
	triggered  []bool
	status     usecase.SyncStatus
}

func (s *stubSync) Trigger(_ context.Context, opts usecase.ReconcileOptions) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.triggerErr != nil {
		return s.triggerErr
	}
	s.triggered = append(s.triggered, opts.DryRun)
	return nil
}

func (s *stubSync) Status() usecase.SyncStatus {
	return s.status
}

type recordingRouteMetrics struct {
	mu    sync.Mutex
	calls map[string]int
}

func (m *recordingRouteMetrics) HTTPRequest(route string, status int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = map[string]int{}
	}
	m.calls[route] = status
}

type testAPI struct {
	router  http.Handler
	sync    *stubSync
	metrics *recordingRouteMetrics
}

func newTestAPI(t *testing.T, checks ...HealthCheck) *testAPI {
	t.Helper()

	store := memory.NewDocumentStore()
	teams := document.NewTeamRepository(store, memory.SeedTeams())
	fixtures := document.NewFixtureRepository(store)
	matches := document.NewMatchRepository(store)

	schedule := usecase.NewScheduleService(teams, fixtures, fixtures, nil, nil, usecase.ScheduleServiceConfig{
		StaticSeason: memory.SeedSeason(),
		Logger:       logging.NewNop(),
	})
	matchService := usecase.NewMatchService(teams, matches, schedule, id.NewSequence("result-1", "result-2", "result-3"), usecase.MatchServiceConfig{
		Logger: logging.NewNop(),
	})

	if len(checks) == 0 {
		checks = []HealthCheck{{Name: "teams", Ping: store.Ping}}
	}

	syncStub := &stubSync{}
	metrics := &recordingRouteMetrics{}
	handler := NewHandler(
		usecase.NewTeamService(teams),
		schedule,
		matchService,
		usecase.NewStandingsService(teams, matches, standing.DefaultPolicy(), 0),
		syncStub,
		checks,
		logging.NewNop(),
	)

	return &testAPI{
		router: NewRouter(handler, stubVerifier{}, logging.NewNop(), RouterConfig{
			SwaggerEnabled:   true,
			InternalJobToken: jobToken,
			Metrics:          metrics,
		}),
		sync:    syncStub,
		metrics: metrics,
	}
}

func (a *testAPI) do(t *testing.T, method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	}
	var req *http.Request
	if reader != nil {
		req = httptest.NewRequest(method, target, reader)
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

type envelope[T any] struct {
	APIVersion string           `json:"apiVersion"`
	Data       T                `json:"data"`
	Error      *googleErrorBody `json:"error"`
}

func decodeEnvelope[T any](t *testing.T, rec *httptest.ResponseRecorder) envelope[T] {
	t.Helper()

	var out envelope[T]
	if err := sonic.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

func bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

func TestHandler_ListTeams(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t)
	rec := api.do(t, http.MethodGet, "/v1/teams", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	body := decodeEnvelope[[]teamDTO](t, rec)
	if len(body.Data) != 8 {
		t.Fatalf("expected 8 teams, got %d", len(body.Data))
	}
	if got := rec.Header().Get("Cache-Control"); got == "" {
		t.Fatalf("expected no-store headers on API routes")
	}
	if api.metrics.calls["GET /v1/teams"] != http.StatusOK {
		t.Fatalf("expected route metrics for GET /v1/teams, got %v", api.metrics.calls)
	}
}

func TestHandler_ListScheduleByRound(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t)
	rec := api.do(t, http.MethodGet, "/v1/schedule?round=1", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	body := decodeEnvelope[[]fixtureDTO](t, rec)
	if len(body.Data) != 4 {
		t.Fatalf("expected 4 fixtures in round 1, got %d", len(body.Data))
	}
	first := body.Data[0]
	if first.ID != "100101" || first.Date == nil || *first.Date != "2025-09-20" {
		t.Fatalf("unexpected first fixture: %+v", first)
	}

	if rec := api.do(t, http.MethodGet, "/v1/schedule?round=first", "", nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-numeric round, got %d", rec.Code)
	}
}

func TestHandler_SubmitMatchFlow(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t)

	if rec := api.do(t, http.MethodPost, "/v1/matches", `{"matchId":"100102","homeScore":13,"awayScore":18}`, nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	rec := api.do(t, http.MethodPost, "/v1/matches", `{"matchId":"100102","homeScore":13,"awayScore":18}`, bearer(captainToken))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	created := decodeEnvelope[matchDTO](t, rec)
	if created.Data.ID != "result-1" || created.Data.SubmittedBy != "Captain Bommel" {
		t.Fatalf("unexpected created result: %+v", created.Data)
	}
	if created.Data.MatchNumber == nil || *created.Data.MatchNumber != "100102" {
		t.Fatalf("expected match number 100102, got %v", created.Data.MatchNumber)
	}

	rec = api.do(t, http.MethodGet, "/v1/standings", "", nil)
	standings := decodeEnvelope[[]standingDTO](t, rec)
	if len(standings.Data) != 8 {
		t.Fatalf("expected 8 standing rows, got %d", len(standings.Data))
	}
	top := standings.Data[0]
	if top.TeamID != "t-zwijntje-1" || top.Points != 2 || top.GoalDiff != 5 || top.Rank != 1 {
		t.Fatalf("unexpected leader: %+v", top)
	}

	rec = api.do(t, http.MethodGet, "/v1/matches", "", nil)
	listed := decodeEnvelope[[]matchDTO](t, rec)
	if len(listed.Data) != 1 || listed.Data[0].HomeTeam == nil || listed.Data[0].HomeTeam.ID != "puk-haarlem-1" {
		t.Fatalf("unexpected match list: %+v", listed.Data)
	}

	tests := []struct {
		name string
		body string
		want int
	}{
		{name: "duplicate", body: `{"matchId":"100102","homeScore":13,"awayScore":18}`, want: http.StatusConflict},
		{name: "legacy fixture id duplicate", body: `{"fixtureId":"100102","homeScore":13,"awayScore":18}`, want: http.StatusConflict},
		{name: "unknown match", body: `{"matchId":"999999","homeScore":13,"awayScore":18}`, want: http.StatusNotFound},
		{name: "forbidden score", body: `{"matchId":"100103","homeScore":30,"awayScore":1}`, want: http.StatusBadRequest},
		{name: "missing score", body: `{"matchId":"100103","homeScore":13}`, want: http.StatusBadRequest},
		{name: "missing id", body: `{"homeScore":13,"awayScore":18}`, want: http.StatusBadRequest},
		{name: "malformed json", body: `{"matchId":`, want: http.StatusBadRequest},
	}
	for _, tt := range tests {
		rec := api.do(t, http.MethodPost, "/v1/matches", tt.body, bearer(captainToken))
		if rec.Code != tt.want {
			t.Fatalf("%s: expected %d, got %d: %s", tt.name, tt.want, rec.Code, rec.Body.String())
		}
	}
}

func TestHandler_SyncJob(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t)

	if rec := api.do(t, http.MethodPost, "/v1/internal/jobs/sync", "", nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without job token, got %d", rec.Code)
	}

	headers := map[string]string{"X-Internal-Job-Token": jobToken}
	rec := api.do(t, http.MethodPost, "/v1/internal/jobs/sync?dry_run=true", "", headers)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}
	rec = api.do(t, http.MethodPost, "/v1/internal/jobs/sync", `{"dryRun":false}`, headers)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202 for queued body, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(api.sync.triggered) != 2 || !api.sync.triggered[0] || api.sync.triggered[1] {
		t.Fatalf("unexpected triggers: %v", api.sync.triggered)
	}

	if rec := api.do(t, http.MethodPost, "/v1/internal/jobs/sync?dry_run=maybe", "", headers); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid dry_run, got %d", rec.Code)
	}

	api.sync.triggerErr = usecase.ErrSyncInProgress
	if rec := api.do(t, http.MethodPost, "/v1/internal/jobs/sync", "", headers); rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 while a cycle runs, got %d", rec.Code)
	}

	api.sync.status = usecase.SyncStatus{Running: true, ConsecutiveFailures: 1, LastError: "fetch failed"}
	rec = api.do(t, http.MethodGet, "/v1/internal/jobs/sync", "", headers)
	status := decodeEnvelope[syncStatusDTO](t, rec)
	if !status.Data.Running || status.Data.Ready || status.Data.LastError != "fetch failed" || status.Data.LastAttempt != nil {
		t.Fatalf("unexpected status: %+v", status.Data)
	}
}

func TestHandler_Healthz(t *testing.T) {
	t.Parallel()

	ok := func(context.Context) error { return nil }
	failing := func(context.Context) error { return errors.New("disk full") }

	api := newTestAPI(t,
		HealthCheck{Name: "teams", Ping: ok},
		HealthCheck{Name: "schedule", Ping: ok},
		HealthCheck{Name: "matches", Ping: failing},
	)
	rec := api.do(t, http.MethodGet, "/healthz", "", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	body := decodeEnvelope[healthDTO](t, rec)
	if body.Data.Status != "degraded" || body.Data.Storage["matches"] != "error" || body.Data.Storage["teams"] != "ok" {
		t.Fatalf("unexpected health body: %+v", body.Data)
	}

	healthy := newTestAPI(t)
	if rec := healthy.do(t, http.MethodGet, "/healthz", "", nil); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestHandler_OpenAPIServed(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t)
	rec := api.do(t, http.MethodGet, "/openapi.yaml", "", nil)
	if rec.Code != http.StatusOK || !bytes.Contains(rec.Body.Bytes(), []byte("/v1/standings")) {
		t.Fatalf("expected embedded openapi document, got %d", rec.Code)
	}
}

func TestRecoverPanic_WritesInternalError(t *testing.T) {
	t.Parallel()

	handler := recoverPanic(logging.NewNop(), http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/teams", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}
