package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerLeagueRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/leagues", handler.ListLeagues)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/week", handler.GetCurrentWeek)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/standings", handler.ListStandings)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/matchups", handler.ListMatchups)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/elimination", handler.GetElimination)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/drafts", handler.ListDrafts)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/dashboard", handler.GetDashboard)
}

func registerTVRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/tv/current", handler.GetTVCurrent)
	mux.HandleFunc("GET /v1/tv/stream", handler.StreamTV)
}

// Proxy routes return upstream JSON verbatim for allow-listed leagues.
func registerProxyRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/proxy/league/{leagueID}", handler.ProxyLeague)
	mux.HandleFunc("GET /v1/proxy/league/{leagueID}/{resource}", handler.ProxyLeagueResource)
	mux.HandleFunc("GET /v1/proxy/league/{leagueID}/{resource}/{week}", handler.ProxyLeagueWeekResource)
	mux.HandleFunc("GET /v1/proxy/draft/{draftID}/picks", handler.ProxyDraftPicks)
}
