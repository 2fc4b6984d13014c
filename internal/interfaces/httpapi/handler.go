package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"
	"github.com/riskibarqy/fantasy-dashboard/internal/infrastructure/upstream"
	"github.com/riskibarqy/fantasy-dashboard/internal/platform/logging"
	"github.com/riskibarqy/fantasy-dashboard/internal/usecase"
)

// UpstreamGateway is the coordinated upstream access used by the proxy and health routes.
type UpstreamGateway interface {
	Allowed(leagueID string) bool
	FetchRaw(ctx context.Context, path string) ([]byte, error)
	CacheTTL() time.Duration
	Stats() upstream.Stats
}

// TVSource exposes the current unattended-screen state.
type TVSource interface {
	Current() usecase.TVState
}

type Handler struct {
	leagueService    *usecase.LeagueService
	weekService      *usecase.WeekService
	standingService  *usecase.StandingService
	matchupService   *usecase.MatchupService
	draftService     *usecase.DraftService
	dashboardService *usecase.DashboardService
	tv               TVSource
	hub              *Hub
	gateway          UpstreamGateway
	upgrader         websocket.Upgrader
	logger           *logging.Logger
	validator        *validator.Validate
}

func NewHandler(
	leagueService *usecase.LeagueService,
	weekService *usecase.WeekService,
	standingService *usecase.StandingService,
	matchupService *usecase.MatchupService,
	draftService *usecase.DraftService,
	dashboardService *usecase.DashboardService,
	tv TVSource,
	hub *Hub,
	gateway UpstreamGateway,
	allowedOrigins []string,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	originAllowed := originMatcher(allowedOrigins)
	return &Handler{
		leagueService:    leagueService,
		weekService:      weekService,
		standingService:  standingService,
		matchupService:   matchupService,
		draftService:     draftService,
		dashboardService: dashboardService,
		tv:               tv,
		hub:              hub,
		gateway:          gateway,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				origin := strings.TrimSpace(r.Header.Get("Origin"))
				return origin == "" || originAllowed(origin)
			},
		},
		logger:    logger,
		validator: validator.New(),
	}
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

type weekQuery struct {
	Week int `validate:"omitempty,min=1,max=18"`
}

// parseWeek reads an optional week value. Zero means the inferred current week.
func (h *Handler) parseWeek(ctx context.Context, raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}

	week, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: week must be a number", usecase.ErrInvalidInput)
	}
	if week == 0 {
		return 0, fmt.Errorf("%w: week must be between 1 and 18", usecase.ErrInvalidInput)
	}
	if err := h.validateRequest(ctx, weekQuery{Week: week}); err != nil {
		return 0, err
	}

	return week, nil
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	out := healthDTO{Status: "ok"}
	if leagues, err := h.leagueService.ListLeagues(ctx); err == nil {
		out.Leagues = len(leagues)
	}
	if h.gateway != nil {
		stats := h.gateway.Stats()
		out.CacheEntries = stats.Cache.Entries
		out.CacheHits = stats.Cache.Hits
		out.CacheMisses = stats.Cache.Misses
		out.CircuitState = string(stats.CircuitState)
	}
	if h.tv != nil {
		out.TVStatus = string(h.tv.Current().Status)
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}

func originMatcher(allowedOrigins []string) func(string) bool {
	allowAll := false
	allowMap := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		candidate := strings.TrimSpace(origin)
		if candidate == "" {
			continue
		}
		if candidate == "*" {
			allowAll = true
			continue
		}
		allowMap[candidate] = struct{}{}
	}

	return func(origin string) bool {
		if allowAll {
			return true
		}
		_, ok := allowMap[origin]
		return ok
	}
}
