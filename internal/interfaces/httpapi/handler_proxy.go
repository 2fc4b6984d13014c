package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/riskibarqy/fantasy-dashboard/internal/usecase"
)

var (
	proxyLeagueResources = map[string]struct{}{
		"users":   {},
		"rosters": {},
		"drafts":  {},
	}
	proxyWeekResources = map[string]struct{}{
		"matchups":     {},
		"transactions": {},
	}
)

// ProxyLeague returns the upstream league document verbatim.
func (h *Handler) ProxyLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ProxyLeague")
	defer span.End()

	leagueID, err := h.proxyLeagueID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	h.writeProxied(w, r, "/league/"+leagueID)
}

func (h *Handler) ProxyLeagueResource(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ProxyLeagueResource")
	defer span.End()

	leagueID, err := h.proxyLeagueID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	resource := strings.ToLower(strings.TrimSpace(r.PathValue("resource")))
	if _, ok := proxyLeagueResources[resource]; !ok {
		writeError(ctx, w, fmt.Errorf("%w: unknown league resource %q", usecase.ErrNotFound, resource))
		return
	}

	h.writeProxied(w, r, "/league/"+leagueID+"/"+resource)
}

func (h *Handler) ProxyLeagueWeekResource(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ProxyLeagueWeekResource")
	defer span.End()

	leagueID, err := h.proxyLeagueID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	resource := strings.ToLower(strings.TrimSpace(r.PathValue("resource")))
	if _, ok := proxyWeekResources[resource]; !ok {
		writeError(ctx, w, fmt.Errorf("%w: unknown weekly resource %q", usecase.ErrNotFound, resource))
		return
	}

	week, err := h.parseWeek(ctx, r.PathValue("week"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	h.writeProxied(w, r, "/league/"+leagueID+"/"+resource+"/"+strconv.Itoa(week))
}

func (h *Handler) ProxyDraftPicks(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ProxyDraftPicks")
	defer span.End()

	draftID := strings.TrimSpace(r.PathValue("draftID"))
	if _, err := h.draftService.OwnerLeague(ctx, draftID); err != nil {
		h.logger.WarnContext(ctx, "draft proxy rejected", "draft_id", draftID, "error", err)
		writeError(ctx, w, err)
		return
	}

	h.writeProxied(w, r, "/draft/"+draftID+"/picks")
}

func (h *Handler) proxyLeagueID(r *http.Request) (string, error) {
	leagueID := strings.TrimSpace(r.PathValue("leagueID"))
	if leagueID == "" {
		return "", fmt.Errorf("%w: league id is required", usecase.ErrInvalidInput)
	}
	if !h.gateway.Allowed(leagueID) {
		return "", &usecase.NotAllowedError{LeagueID: leagueID}
	}
	return leagueID, nil
}

// writeProxied relays a cached upstream body with cache and content-hash headers.
// A matching If-None-Match short-circuits to 304.
func (h *Handler) writeProxied(w http.ResponseWriter, r *http.Request, path string) {
	ctx := r.Context()

	raw, err := h.gateway.FetchRaw(ctx, path)
	if err != nil {
		h.logger.WarnContext(ctx, "proxy fetch failed", "path", path, "error", err)
		writeError(ctx, w, err)
		return
	}

	hash := fmt.Sprintf("xxh64-%016x", xxhash.Sum64(raw))
	etag := `"` + hash + `"`

	header := w.Header()
	header.Set("Cache-Control", "public, max-age="+strconv.Itoa(int(h.gateway.CacheTTL().Seconds())))
	header.Set("X-Content-Hash", hash)
	header.Set("ETag", etag)

	if match := strings.TrimSpace(r.Header.Get("If-None-Match")); match != "" && match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	header.Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(raw)
}
