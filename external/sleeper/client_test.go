package sleeper

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/riskibarqy/fantasy-dashboard/internal/domain/league"
	"github.com/riskibarqy/fantasy-dashboard/internal/platform/logging"
	"github.com/riskibarqy/fantasy-dashboard/internal/usecase"
)

type fakeSleeper struct {
	server *httptest.Server
	hits   atomic.Int64
	paths  chan string
}

func newFakeSleeper(t *testing.T, routes map[string]http.HandlerFunc) *fakeSleeper {
	t.Helper()

	fake := &fakeSleeper{paths: make(chan string, 64)}
	mux := http.NewServeMux()
	for pattern, handler := range routes {
		mux.HandleFunc(pattern, handler)
	}
	fake.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fake.hits.Add(1)
		select {
		case fake.paths <- r.URL.Path:
		default:
		}
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(fake.server.Close)
	return fake
}

func (f *fakeSleeper) client(allowed ...string) *Client {
	return NewClient(ClientConfig{
		BaseURL:        f.server.URL,
		AllowedLeagues: allowed,
		Logger:         logging.NewNop(),
	})
}

func jsonBody(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}
}

func TestClient_RejectsLeagueOutsideAllowListWithoutNetworkCall(t *testing.T) {
	t.Parallel()

	fake := newFakeSleeper(t, map[string]http.HandlerFunc{
		"GET /league/999/rosters": jsonBody(`[]`),
	})
	client := fake.client("1180")

	_, err := client.ListRosters(context.Background(), "999")
	if !errors.Is(err, usecase.ErrNotAllowed) {
		t.Fatalf("expected ErrNotAllowed, got %v", err)
	}
	var notAllowed *usecase.NotAllowedError
	if !errors.As(err, &notAllowed) || notAllowed.LeagueID != "999" {
		t.Fatalf("expected NotAllowedError for 999, got %#v", err)
	}
	if hits := fake.hits.Load(); hits != 0 {
		t.Fatalf("expected no upstream call, got %d", hits)
	}
}

func TestClient_ClampsWeekIntoPath(t *testing.T) {
	t.Parallel()

	fake := newFakeSleeper(t, map[string]http.HandlerFunc{
		"GET /league/1180/matchups/{week}": jsonBody(`[]`),
	})
	client := fake.client("1180")

	cases := []struct {
		week int
		path string
	}{
		{week: 0, path: "/league/1180/matchups/1"},
		{week: 7, path: "/league/1180/matchups/7"},
		{week: 40, path: "/league/1180/matchups/18"},
	}
	for _, tc := range cases {
		if _, err := client.ListMatchups(context.Background(), "1180", tc.week); err != nil {
			t.Fatalf("week %d: unexpected error: %v", tc.week, err)
		}
		if got := <-fake.paths; got != tc.path {
			t.Fatalf("week %d: expected path %s, got %s", tc.week, tc.path, got)
		}
	}
}

func TestClient_TooManyRequestsIsThrottledUpstreamError(t *testing.T) {
	t.Parallel()

	fake := newFakeSleeper(t, map[string]http.HandlerFunc{
		"GET /league/1180/users": func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "slow down", http.StatusTooManyRequests)
		},
	})

	_, err := fake.client("1180").ListUsers(context.Background(), "1180")
	if !IsThrottled(err) {
		t.Fatalf("expected throttled error, got %v", err)
	}
	var upstreamErr *usecase.UpstreamError
	if !errors.As(err, &upstreamErr) || upstreamErr.Status != http.StatusTooManyRequests {
		t.Fatalf("expected UpstreamError status 429, got %#v", err)
	}
}

func TestClient_HTMLBodyIsThrottled(t *testing.T) {
	t.Parallel()

	fake := newFakeSleeper(t, map[string]http.HandlerFunc{
		"GET /league/1180/rosters": func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<html><body>Please wait</body></html>"))
		},
	})

	_, err := fake.client("1180").ListRosters(context.Background(), "1180")
	if !IsThrottled(err) {
		t.Fatalf("expected html body to be throttled, got %v", err)
	}
}

func TestClient_ServerErrorIsNotThrottled(t *testing.T) {
	t.Parallel()

	fake := newFakeSleeper(t, map[string]http.HandlerFunc{
		"GET /league/1180": func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "boom", http.StatusBadGateway)
		},
	})

	_, err := fake.client("1180").GetLeague(context.Background(), "1180")
	if IsThrottled(err) {
		t.Fatalf("did not expect throttled error: %v", err)
	}
	var upstreamErr *usecase.UpstreamError
	if !errors.As(err, &upstreamErr) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if upstreamErr.Status != http.StatusBadGateway || upstreamErr.Endpoint != "/league/1180" {
		t.Fatalf("unexpected upstream error fields: %+v", upstreamErr)
	}
}

func TestClient_GetLeagueKeepsDashboardFields(t *testing.T) {
	t.Parallel()

	fake := newFakeSleeper(t, map[string]http.HandlerFunc{
		"GET /league/1180": jsonBody(`{
			"league_id": "1180",
			"name": "  Sunday League ",
			"season": "2024",
			"status": "in_season",
			"total_rosters": 12,
			"avatar": "a1b2",
			"draft_id": "991",
			"previous_league_id": "1002",
			"roster_positions": ["QB", "RB", "BN"],
			"scoring_settings": {"rec": 0.5},
			"settings": {"last_scored_leg": 4, "playoff_week_start": 15}
		}`),
	})

	got, err := fake.client("1180").GetLeague(context.Background(), "1180")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := league.League{
		ID:           "1180",
		Name:         "Sunday League",
		Season:       "2024",
		Status:       "in_season",
		TotalRosters: 12,
		Avatar:       "a1b2",
	}
	if got != want {
		t.Fatalf("unexpected league: got %+v want %+v", got, want)
	}
}

func TestClient_NonArrayPayloadIsMalformed(t *testing.T) {
	t.Parallel()

	for _, body := range []string{`{"roster_id":1}`, `null`, `[{"roster_id":0}]`} {
		fake := newFakeSleeper(t, map[string]http.HandlerFunc{
			"GET /league/1180/matchups/{week}": jsonBody(body),
		})

		_, err := fake.client("1180").ListMatchups(context.Background(), "1180", 3)
		if !errors.Is(err, usecase.ErrMalformedData) {
			t.Fatalf("body %s: expected ErrMalformedData, got %v", body, err)
		}
		if IsThrottled(err) {
			t.Fatalf("body %s: malformed JSON should not be throttled", body)
		}
	}
}

func TestClient_MatchupPointsNormalization(t *testing.T) {
	t.Parallel()

	fake := newFakeSleeper(t, map[string]http.HandlerFunc{
		"GET /league/1180/matchups/{week}": jsonBody(`[
			{"roster_id":20,"matchup_id":4,"points":null,"starters":[]},
			{"roster_id":21,"matchup_id":4,"points":0,"starters":["0",""]},
			{"roster_id":22,"matchup_id":5,"points":0,"starters":["4046","6794"]},
			{"roster_id":23,"matchup_id":5,"points":12.5,"custom_points":14.25,"starters":null},
			{"roster_id":24,"matchup_id":null,"points":null,"starters":["4046"]}
		]`),
	})

	entries, err := fake.client("1180").ListMatchups(context.Background(), "1180", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 5 {
		t.Fatalf("expected 5 entries, got %d", len(entries))
	}

	if entries[0].Points != nil || entries[1].Points != nil {
		t.Fatalf("expected pre-game nil points for rosters 20 and 21")
	}
	if len(entries[1].Starters) != 0 {
		t.Fatalf("expected empty slots to be dropped, got %v", entries[1].Starters)
	}
	if entries[2].Points == nil || *entries[2].Points != 0 {
		t.Fatalf("expected zero points once starters are set, got %v", entries[2].Points)
	}
	if entries[3].Points == nil || *entries[3].Points != 14.25 {
		t.Fatalf("expected custom points to win, got %v", entries[3].Points)
	}
	if entries[4].MatchupID != 0 || entries[4].Points == nil || *entries[4].Points != 0 {
		t.Fatalf("unexpected entry for roster 24: %+v", entries[4])
	}
}

func TestClient_RosterPointsReassembly(t *testing.T) {
	t.Parallel()

	fake := newFakeSleeper(t, map[string]http.HandlerFunc{
		"GET /league/1180/rosters": jsonBody(`[
			{"roster_id":1,"owner_id":"u1","settings":{"wins":3,"losses":1,"ties":0,"fpts":412,"fpts_decimal":56,"fpts_against":380,"rank":2}},
			{"roster_id":2,"owner_id":null,"settings":{"wins":0,"losses":0,"ties":0,"fpts_decimal":40}},
			{"roster_id":3,"owner_id":"u3"}
		]`),
	})

	rosters, err := fake.client("1180").ListRosters(context.Background(), "1180")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rosters) != 3 {
		t.Fatalf("expected 3 rosters, got %d", len(rosters))
	}

	first := rosters[0]
	if first.PointsFor < 412.5599 || first.PointsFor > 412.5601 {
		t.Fatalf("expected points for 412.56, got %v", first.PointsFor)
	}
	if first.PointsAgainst != 380 {
		t.Fatalf("expected points against 380, got %v", first.PointsAgainst)
	}
	if first.Wins != 3 || first.Losses != 1 || first.Rank != 2 {
		t.Fatalf("unexpected record: %+v", first)
	}
	if rosters[1].OwnerID != "" || rosters[1].PointsFor < 0.3999 || rosters[1].PointsFor > 0.4001 {
		t.Fatalf("unexpected orphan roster: %+v", rosters[1])
	}
	if rosters[2].PointsFor != 0 || rosters[2].GamesPlayed() != 0 {
		t.Fatalf("expected zero record without settings, got %+v", rosters[2])
	}
}

func TestClient_ListDraftPicksResolvesMetadata(t *testing.T) {
	t.Parallel()

	fake := newFakeSleeper(t, map[string]http.HandlerFunc{
		"GET /draft/d1/picks": jsonBody(`[
			{"round":1,"pick_no":1,"draft_slot":3,"roster_id":5,"picked_by":"u5","player_id":"4046",
			 "metadata":{"first_name":"Patrick","last_name":"Mahomes","position":"QB","team":"KC","amount":"42"}}
		]`),
	})

	picks, err := fake.client().ListDraftPicks(context.Background(), "d1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(picks) != 1 {
		t.Fatalf("expected one pick, got %d", len(picks))
	}
	pick := picks[0]
	if pick.PlayerName != "Patrick Mahomes" || pick.Position != "QB" || pick.Slot != 3 {
		t.Fatalf("unexpected pick: %+v", pick)
	}
	if pick.Amount == nil || *pick.Amount != 42 {
		t.Fatalf("expected auction amount 42, got %v", pick.Amount)
	}

	if _, err := fake.client().ListDraftPicks(context.Background(), "../league"); !errors.Is(err, usecase.ErrInvalidInput) {
		t.Fatalf("expected invalid input for bad draft id, got %v", err)
	}
}

func TestNormalizePoints(t *testing.T) {
	t.Parallel()

	zero := 0.0
	seven := 7.5

	if NormalizePoints(nil, nil) != nil {
		t.Fatalf("nil points without starters should stay nil")
	}
	if NormalizePoints(&zero, nil) != nil {
		t.Fatalf("zero points without starters should be pre-game")
	}
	if got := NormalizePoints(&seven, nil); got == nil || *got != 7.5 {
		t.Fatalf("non-zero points should be kept, got %v", got)
	}
	if got := NormalizePoints(nil, []string{"4046"}); got == nil || *got != 0 {
		t.Fatalf("starters without points should be zero, got %v", got)
	}
}
