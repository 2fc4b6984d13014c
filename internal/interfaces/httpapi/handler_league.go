package httpapi

import (
	"net/http"
	"strings"
)

func (h *Handler) ListLeagues(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListLeagues")
	defer span.End()

	leagues, err := h.leagueService.ListLeagues(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list leagues failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]leagueEntryDTO, 0, len(leagues))
	for _, item := range leagues {
		items = append(items, leagueEntryToDTO(item))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetCurrentWeek(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetCurrentWeek")
	defer span.End()

	leagueID := strings.TrimSpace(r.PathValue("leagueID"))
	week, err := h.weekService.CurrentWeek(ctx, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "current week failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, currentWeekDTO{LeagueID: leagueID, Week: week})
}

func (h *Handler) ListStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListStandings")
	defer span.End()

	leagueID := strings.TrimSpace(r.PathValue("leagueID"))
	standings, err := h.standingService.ListByLeague(ctx, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "list standings failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, standingsToDTO(ctx, standings))
}

func (h *Handler) ListMatchups(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatchups")
	defer span.End()

	leagueID := strings.TrimSpace(r.PathValue("leagueID"))
	week, err := h.parseWeek(ctx, r.URL.Query().Get("week"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.matchupService.ListByWeek(ctx, leagueID, week)
	if err != nil {
		h.logger.WarnContext(ctx, "list matchups failed", "league_id", leagueID, "week", week, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, weekMatchupsToDTO(items))
}

func (h *Handler) GetElimination(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetElimination")
	defer span.End()

	leagueID := strings.TrimSpace(r.PathValue("leagueID"))
	week, err := h.parseWeek(ctx, r.URL.Query().Get("week"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.matchupService.EliminationByWeek(ctx, leagueID, week)
	if err != nil {
		h.logger.WarnContext(ctx, "elimination ranking failed", "league_id", leagueID, "week", week, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, eliminationToDTO(item))
}

func (h *Handler) ListDrafts(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListDrafts")
	defer span.End()

	leagueID := strings.TrimSpace(r.PathValue("leagueID"))
	boards, err := h.draftService.ListByLeague(ctx, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "list drafts failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]draftBoardDTO, 0, len(boards))
	for _, board := range boards {
		items = append(items, draftBoardToDTO(board))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetDashboard")
	defer span.End()

	leagueID := strings.TrimSpace(r.PathValue("leagueID"))
	dashboard, err := h.dashboardService.Snapshot(ctx, leagueID)
	if err != nil {
		h.logger.ErrorContext(ctx, "get dashboard failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, dashboardToDTO(ctx, dashboard))
}
