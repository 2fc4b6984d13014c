package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/cespare/xxhash/v2"
	"github.com/riskibarqy/fantasy-dashboard/internal/domain/league"
	"github.com/riskibarqy/fantasy-dashboard/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/fantasy-dashboard/internal/infrastructure/upstream"
	"github.com/riskibarqy/fantasy-dashboard/internal/platform/cache"
	"github.com/riskibarqy/fantasy-dashboard/internal/platform/logging"
	"github.com/riskibarqy/fantasy-dashboard/internal/platform/resilience"
	"github.com/riskibarqy/fantasy-dashboard/internal/usecase"
)

type fakeSource struct {
	usersErr   error
	rostersErr error
	matchups   map[int][]league.MatchupEntry
	drafts     []league.Draft
}

func (s *fakeSource) GetLeague(_ context.Context, leagueID string) (league.League, error) {
	return league.League{ID: leagueID, Name: "Sunday Crew", Season: "2026", TotalRosters: 2}, nil
}

func (s *fakeSource) ListUsers(context.Context, string) ([]league.User, error) {
	if s.usersErr != nil {
		return nil, s.usersErr
	}
	return []league.User{
		{ID: "u10", DisplayName: "alice", TeamName: "Tenacious"},
		{ID: "u11", DisplayName: "bob"},
	}, nil
}

func (s *fakeSource) ListRosters(context.Context, string) ([]league.Roster, error) {
	if s.rostersErr != nil {
		return nil, s.rostersErr
	}
	return []league.Roster{
		{ID: 10, OwnerID: "u10", Wins: 1, PointsFor: 120},
		{ID: 11, OwnerID: "u11", Losses: 1, PointsFor: 90},
	}, nil
}

func (s *fakeSource) ListMatchups(_ context.Context, _ string, week int) ([]league.MatchupEntry, error) {
	return s.matchups[week], nil
}

func (s *fakeSource) ListTransactions(context.Context, string, int) ([]league.Transaction, error) {
	return []league.Transaction{{ID: "t1", Status: "complete"}}, nil
}

func (s *fakeSource) ListDrafts(context.Context, string) ([]league.Draft, error) {
	return s.drafts, nil
}

func (s *fakeSource) ListDraftPicks(context.Context, string) ([]league.DraftPick, error) {
	return nil, nil
}

type fakeGateway struct {
	mu      sync.Mutex
	allowed map[string]bool
	bodies  map[string][]byte
	fetched []string
}

func (g *fakeGateway) Allowed(leagueID string) bool {
	return g.allowed[leagueID]
}

func (g *fakeGateway) FetchRaw(_ context.Context, path string) ([]byte, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.fetched = append(g.fetched, path)
	body, ok := g.bodies[path]
	if !ok {
		return nil, &usecase.UpstreamError{Status: http.StatusNotFound, Endpoint: path}
	}
	return body, nil
}

func (g *fakeGateway) CacheTTL() time.Duration {
	return 5 * time.Minute
}

func (g *fakeGateway) Stats() upstream.Stats {
	return upstream.Stats{
		Cache:        cache.Stats{Entries: 3, Hits: 7, Misses: 2},
		CircuitState: resilience.CircuitStateClosed,
	}
}

func (g *fakeGateway) fetchedPaths() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.fetched...)
}

type fixedTV struct {
	state usecase.TVState
}

func (f fixedTV) Current() usecase.TVState {
	return f.state
}

func testSource() *fakeSource {
	points := func(v float64) *float64 { return &v }
	return &fakeSource{
		matchups: map[int][]league.MatchupEntry{
			2: {
				{RosterID: 10, MatchupID: 1, Points: points(85.4), Starters: []string{"4046"}},
				{RosterID: 11, MatchupID: 1, Points: points(78.2), Starters: []string{"6794"}},
			},
		},
		drafts: []league.Draft{{ID: "d1", Type: league.DraftTypeSnake, Status: "complete"}},
	}
}

func testGateway() *fakeGateway {
	return &fakeGateway{
		allowed: map[string]bool{"1180": true, "2210": true},
		bodies: map[string][]byte{
			"/league/1180":            []byte(`{"league_id":"1180"}`),
			"/league/1180/rosters":    []byte(`[{"roster_id":10}]`),
			"/league/1180/matchups/3": []byte(`[]`),
			"/draft/d1/picks":         []byte(`[{"pick_no":1}]`),
		},
	}
}

func newTestRouter(t *testing.T, source usecase.LeagueDataSource, gateway UpstreamGateway, hub *Hub) http.Handler {
	t.Helper()

	registry := memory.NewLeagueRegistry([]league.Entry{
		{ID: "1180", Name: "Sunday Crew", Format: league.FormatHeadToHead},
		{ID: "2210", Name: "Guillotine", Format: league.FormatElimination},
	})
	logger := logging.NewNop()
	seasonStart := time.Now().UTC().AddDate(0, 0, -15)

	weeks := usecase.NewWeekService(source, registry, seasonStart, logger)
	standings := usecase.NewStandingService(source, registry, "https://cdn.example.test/avatars", logger)
	matchups := usecase.NewMatchupService(source, registry, weeks, standings, logger)
	drafts := usecase.NewDraftService(source, registry, standings, logger)
	transactions := usecase.NewTransactionService(source, registry)
	dashboards := usecase.NewDashboardService(source, registry, weeks, standings, matchups, transactions)

	handler := NewHandler(
		usecase.NewLeagueService(registry),
		weeks,
		standings,
		matchups,
		drafts,
		dashboards,
		fixedTV{state: usecase.TVState{Status: usecase.TVStatusLoading, LeagueCount: 2}},
		hub,
		gateway,
		[]string{"*"},
		logger,
	)
	return NewRouter(handler, logger, []string{"*"})
}

func serve(router http.Handler, method, target string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v (%s)", err, rec.Body.String())
	}
	return body
}

func TestHandler_ListLeagues(t *testing.T) {
	router := newTestRouter(t, testSource(), testGateway(), nil)

	rec := serve(router, http.MethodGet, "/v1/leagues", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	body := decodeEnvelope(t, rec)
	items, ok := body["data"].([]any)
	if !ok || len(items) != 2 {
		t.Fatalf("expected two leagues, got %v", body["data"])
	}
	first := items[0].(map[string]any)
	if first["id"] != "1180" || first["format"] != "h2h" {
		t.Fatalf("unexpected first league: %v", first)
	}
}

func TestHandler_NotAllowedLeagueIsForbidden(t *testing.T) {
	router := newTestRouter(t, testSource(), testGateway(), nil)

	rec := serve(router, http.MethodGet, "/v1/leagues/9999/standings", nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	errorObj := decodeEnvelope(t, rec)["error"].(map[string]any)
	if errorObj["status"] != "FORBIDDEN" {
		t.Fatalf("unexpected error status: %v", errorObj["status"])
	}
}

func TestHandler_CurrentWeek(t *testing.T) {
	router := newTestRouter(t, testSource(), testGateway(), nil)

	rec := serve(router, http.MethodGet, "/v1/leagues/1180/week", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	data := decodeEnvelope(t, rec)["data"].(map[string]any)
	if data["week"] != float64(2) {
		t.Fatalf("expected week 2, got %v", data["week"])
	}
}

func TestHandler_ListMatchupsByWeek(t *testing.T) {
	router := newTestRouter(t, testSource(), testGateway(), nil)

	rec := serve(router, http.MethodGet, "/v1/leagues/1180/matchups?week=2", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	data := decodeEnvelope(t, rec)["data"].(map[string]any)
	matchups := data["matchups"].([]any)
	if len(matchups) != 1 {
		t.Fatalf("expected one matchup, got %d", len(matchups))
	}
	item := matchups[0].(map[string]any)
	home := item["home"].(map[string]any)
	away := item["away"].(map[string]any)
	pHome, okHome := home["winProbability"].(float64)
	pAway, okAway := away["winProbability"].(float64)
	if !okHome || !okAway {
		t.Fatalf("expected defined probabilities, got %v / %v", home["winProbability"], away["winProbability"])
	}
	if pHome <= 0.5 {
		t.Fatalf("expected leader above 0.5, got %v", pHome)
	}
	if diff := pHome + pAway - 1; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("expected complementary probabilities, got %v + %v", pHome, pAway)
	}
	if home["preGame"] != false {
		t.Fatalf("expected live side, got preGame=%v", home["preGame"])
	}
}

func TestHandler_WeekValidation(t *testing.T) {
	router := newTestRouter(t, testSource(), testGateway(), nil)

	for _, target := range []string{
		"/v1/leagues/1180/matchups?week=19",
		"/v1/leagues/1180/matchups?week=0",
		"/v1/leagues/1180/elimination?week=abc",
		"/v1/proxy/league/1180/matchups/-2",
	} {
		rec := serve(router, http.MethodGet, target, nil)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", target, rec.Code)
		}
	}
}

func TestHandler_UpstreamErrorTextIsNotExposed(t *testing.T) {
	source := testSource()
	source.usersErr = &usecase.UpstreamError{Status: http.StatusInternalServerError, Endpoint: "/league/1180/users?token=secret"}
	router := newTestRouter(t, source, testGateway(), nil)

	rec := serve(router, http.MethodGet, "/v1/leagues/1180/standings", nil)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "secret") {
		t.Fatalf("upstream detail leaked into response: %s", rec.Body.String())
	}
}

func TestHandler_RateLimitedStandingsDegrade(t *testing.T) {
	source := testSource()
	source.rostersErr = &usecase.RateLimitedError{Endpoint: "/league/1180/rosters", Attempts: 3}
	router := newTestRouter(t, source, testGateway(), nil)

	rec := serve(router, http.MethodGet, "/v1/leagues/1180/standings", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected degraded 200, got %d", rec.Code)
	}
	data := decodeEnvelope(t, rec)["data"].(map[string]any)
	if data["degraded"] != true {
		t.Fatalf("expected degraded standings, got %v", data)
	}
}

func TestHandler_Elimination(t *testing.T) {
	router := newTestRouter(t, testSource(), testGateway(), nil)

	rec := serve(router, http.MethodGet, "/v1/leagues/2210/elimination?week=2", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	data := decodeEnvelope(t, rec)["data"].(map[string]any)
	rows := data["rows"].([]any)
	if len(rows) != 2 {
		t.Fatalf("expected two ranked rows, got %d", len(rows))
	}
	last := rows[1].(map[string]any)
	if last["zone"] != "eliminated" {
		t.Fatalf("expected last place eliminated, got %v", last["zone"])
	}
}

func TestHandler_Dashboard(t *testing.T) {
	router := newTestRouter(t, testSource(), testGateway(), nil)

	rec := serve(router, http.MethodGet, "/v1/leagues/1180/dashboard", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	data := decodeEnvelope(t, rec)["data"].(map[string]any)
	if data["week"] != float64(2) {
		t.Fatalf("expected dashboard week 2, got %v", data["week"])
	}
	if data["transactionCount"] != float64(1) {
		t.Fatalf("expected one transaction, got %v", data["transactionCount"])
	}
	standings := data["standings"].(map[string]any)
	if len(standings["rows"].([]any)) != 2 {
		t.Fatalf("expected two standings rows, got %v", standings["rows"])
	}
}

func TestHandler_ListDrafts(t *testing.T) {
	router := newTestRouter(t, testSource(), testGateway(), nil)

	rec := serve(router, http.MethodGet, "/v1/leagues/1180/drafts", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	items := decodeEnvelope(t, rec)["data"].([]any)
	if len(items) != 1 || items[0].(map[string]any)["type"] != "snake" {
		t.Fatalf("unexpected drafts: %v", items)
	}
}

func TestHandler_Healthz(t *testing.T) {
	router := newTestRouter(t, testSource(), testGateway(), nil)

	rec := serve(router, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	data := decodeEnvelope(t, rec)["data"].(map[string]any)
	if data["circuitState"] != "closed" || data["cacheEntries"] != float64(3) || data["leagues"] != float64(2) {
		t.Fatalf("unexpected health payload: %v", data)
	}
	if data["tvStatus"] != "loading" {
		t.Fatalf("unexpected tv status: %v", data["tvStatus"])
	}
}

func TestHandler_TVCurrent(t *testing.T) {
	router := newTestRouter(t, testSource(), testGateway(), nil)

	rec := serve(router, http.MethodGet, "/v1/tv/current", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	data := decodeEnvelope(t, rec)["data"].(map[string]any)
	if data["status"] != "loading" || data["leagueCount"] != float64(2) {
		t.Fatalf("unexpected tv state: %v", data)
	}
}

func TestProxy_LeagueResourceHeaders(t *testing.T) {
	gateway := testGateway()
	router := newTestRouter(t, testSource(), gateway, nil)

	rec := serve(router, http.MethodGet, "/v1/proxy/league/1180/rosters", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	body := []byte(`[{"roster_id":10}]`)
	if rec.Body.String() != string(body) {
		t.Fatalf("expected verbatim body, got %s", rec.Body.String())
	}
	if got := rec.Header().Get("Cache-Control"); got != "public, max-age=300" {
		t.Fatalf("unexpected Cache-Control: %q", got)
	}
	wantHash := fmt.Sprintf("xxh64-%016x", xxhash.Sum64(body))
	if got := rec.Header().Get("X-Content-Hash"); got != wantHash {
		t.Fatalf("unexpected X-Content-Hash: %q want %q", got, wantHash)
	}

	rec = serve(router, http.MethodGet, "/v1/proxy/league/1180/rosters", map[string]string{"If-None-Match": `"` + wantHash + `"`})
	if rec.Code != http.StatusNotModified {
		t.Fatalf("expected 304 for matching etag, got %d", rec.Code)
	}
}

func TestProxy_Paths(t *testing.T) {
	gateway := testGateway()
	router := newTestRouter(t, testSource(), gateway, nil)

	if rec := serve(router, http.MethodGet, "/v1/proxy/league/1180", nil); rec.Code != http.StatusOK {
		t.Fatalf("league proxy: expected 200, got %d", rec.Code)
	}
	if rec := serve(router, http.MethodGet, "/v1/proxy/league/1180/matchups/3", nil); rec.Code != http.StatusOK {
		t.Fatalf("matchups proxy: expected 200, got %d", rec.Code)
	}
	if rec := serve(router, http.MethodGet, "/v1/proxy/draft/d1/picks", nil); rec.Code != http.StatusOK {
		t.Fatalf("draft picks proxy: expected 200, got %d", rec.Code)
	}

	want := []string{"/league/1180", "/league/1180/matchups/3", "/draft/d1/picks"}
	got := gateway.fetchedPaths()
	if len(got) != len(want) {
		t.Fatalf("unexpected fetched paths: %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("fetched[%d]=%q want %q", i, got[i], want[i])
		}
	}
}

func TestProxy_RejectsWithoutFetching(t *testing.T) {
	gateway := testGateway()
	router := newTestRouter(t, testSource(), gateway, nil)

	if rec := serve(router, http.MethodGet, "/v1/proxy/league/9999/users", nil); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for league outside allow-list, got %d", rec.Code)
	}
	if rec := serve(router, http.MethodGet, "/v1/proxy/draft/d9/picks", nil); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for unknown draft, got %d", rec.Code)
	}
	if rec := serve(router, http.MethodGet, "/v1/proxy/league/1180/players", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown resource, got %d", rec.Code)
	}
	if got := gateway.fetchedPaths(); len(got) != 0 {
		t.Fatalf("expected no upstream fetches, got %v", got)
	}
}
