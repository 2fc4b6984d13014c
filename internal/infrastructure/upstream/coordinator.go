package upstream

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/fantasy-dashboard/external/sleeper"
	"github.com/riskibarqy/fantasy-dashboard/internal/domain/league"
	"github.com/riskibarqy/fantasy-dashboard/internal/platform/cache"
	"github.com/riskibarqy/fantasy-dashboard/internal/platform/logging"
	"github.com/riskibarqy/fantasy-dashboard/internal/platform/resilience"
	"github.com/riskibarqy/fantasy-dashboard/internal/usecase"
)

// Fetcher is the uncoordinated upstream client.
type Fetcher interface {
	usecase.LeagueDataSource
	Allowed(leagueID string) bool
	FetchRaw(ctx context.Context, path string) ([]byte, error)
}

type Config struct {
	CacheTTL       time.Duration
	MinInterval    time.Duration
	Retry          resilience.RetryConfig
	CircuitBreaker resilience.CircuitBreakerConfig
	Logger         *logging.Logger
}

// Coordinator caches, de-duplicates, paces and retries calls to a Fetcher.
// Cached slices are shared between callers and must be treated as read-only.
type Coordinator struct {
	fetcher        Fetcher
	cache          *cache.Store
	pacer          *resilience.Pacer
	retry          resilience.RetryConfig
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	logger         *logging.Logger
	sleep          func(ctx context.Context, d time.Duration) error
}

var _ usecase.LeagueDataSource = (*Coordinator)(nil)

func NewCoordinator(fetcher Fetcher, cfg Config) *Coordinator {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	logger = logger.Named("upstream")

	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)
	breaker := resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq)
	breaker.OnStateChange(func(from, to resilience.CircuitState) {
		logger.Warn("upstream circuit breaker state changed", "from", from, "to", to)
	})

	return &Coordinator{
		fetcher:        fetcher,
		cache:          cache.NewStore(ttl),
		pacer:          resilience.NewPacer(cfg.MinInterval),
		retry:          resilience.NormalizeRetryConfig(cfg.Retry),
		breaker:        breaker,
		circuitEnabled: breakerCfg.Enabled,
		logger:         logger,
		sleep:          resilience.Sleep,
	}
}

// Allowed reports whether leagueID is on the upstream allow-list.
func (c *Coordinator) Allowed(leagueID string) bool {
	return c.fetcher.Allowed(leagueID)
}

func (c *Coordinator) CacheTTL() time.Duration {
	return c.cache.TTL()
}

func (c *Coordinator) Stats() Stats {
	return Stats{
		Cache:        c.cache.Stats(),
		CircuitState: c.breaker.State(),
	}
}

type Stats struct {
	Cache        cache.Stats
	CircuitState resilience.CircuitState
}

func (c *Coordinator) GetLeague(ctx context.Context, leagueID string) (league.League, error) {
	if err := c.guard(leagueID); err != nil {
		return league.League{}, err
	}
	return load(ctx, c, "league:"+leagueID, "/league/"+leagueID, func(ctx context.Context) (league.League, error) {
		return c.fetcher.GetLeague(ctx, leagueID)
	})
}

func (c *Coordinator) ListUsers(ctx context.Context, leagueID string) ([]league.User, error) {
	if err := c.guard(leagueID); err != nil {
		return nil, err
	}
	return load(ctx, c, "users:"+leagueID, "/league/"+leagueID+"/users", func(ctx context.Context) ([]league.User, error) {
		return c.fetcher.ListUsers(ctx, leagueID)
	})
}

func (c *Coordinator) ListRosters(ctx context.Context, leagueID string) ([]league.Roster, error) {
	if err := c.guard(leagueID); err != nil {
		return nil, err
	}
	return load(ctx, c, "rosters:"+leagueID, "/league/"+leagueID+"/rosters", func(ctx context.Context) ([]league.Roster, error) {
		return c.fetcher.ListRosters(ctx, leagueID)
	})
}

func (c *Coordinator) ListMatchups(ctx context.Context, leagueID string, week int) ([]league.MatchupEntry, error) {
	if err := c.guard(leagueID); err != nil {
		return nil, err
	}
	week = sleeper.ClampWeek(week)
	w := strconv.Itoa(week)
	return load(ctx, c, "matchups:"+leagueID+":"+w, "/league/"+leagueID+"/matchups/"+w, func(ctx context.Context) ([]league.MatchupEntry, error) {
		return c.fetcher.ListMatchups(ctx, leagueID, week)
	})
}

func (c *Coordinator) ListTransactions(ctx context.Context, leagueID string, week int) ([]league.Transaction, error) {
	if err := c.guard(leagueID); err != nil {
		return nil, err
	}
	week = sleeper.ClampWeek(week)
	w := strconv.Itoa(week)
	return load(ctx, c, "transactions:"+leagueID+":"+w, "/league/"+leagueID+"/transactions/"+w, func(ctx context.Context) ([]league.Transaction, error) {
		return c.fetcher.ListTransactions(ctx, leagueID, week)
	})
}

func (c *Coordinator) ListDrafts(ctx context.Context, leagueID string) ([]league.Draft, error) {
	if err := c.guard(leagueID); err != nil {
		return nil, err
	}
	return load(ctx, c, "drafts:"+leagueID, "/league/"+leagueID+"/drafts", func(ctx context.Context) ([]league.Draft, error) {
		return c.fetcher.ListDrafts(ctx, leagueID)
	})
}

func (c *Coordinator) ListDraftPicks(ctx context.Context, draftID string) ([]league.DraftPick, error) {
	draftID = strings.TrimSpace(draftID)
	return load(ctx, c, "picks:"+draftID, "/draft/"+draftID+"/picks", func(ctx context.Context) ([]league.DraftPick, error) {
		return c.fetcher.ListDraftPicks(ctx, draftID)
	})
}

// FetchRaw returns the upstream body for path. Callers check the allow-list first.
func (c *Coordinator) FetchRaw(ctx context.Context, path string) ([]byte, error) {
	return load(ctx, c, "raw:"+path, path, func(ctx context.Context) ([]byte, error) {
		return c.fetcher.FetchRaw(ctx, path)
	})
}

func (c *Coordinator) guard(leagueID string) error {
	if !c.fetcher.Allowed(leagueID) {
		return &usecase.NotAllowedError{LeagueID: leagueID}
	}
	return nil
}

func load[T any](ctx context.Context, c *Coordinator, key, endpoint string, fetch func(context.Context) (T, error)) (T, error) {
	var zero T

	value, err := c.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		return c.call(ctx, endpoint, func(ctx context.Context) (any, error) {
			out, err := fetch(ctx)
			if err != nil {
				return nil, err
			}
			return out, nil
		})
	})
	if err != nil {
		return zero, err
	}

	typed, ok := value.(T)
	if !ok {
		return zero, fmt.Errorf("unexpected cached value type %T for key %s", value, key)
	}
	return typed, nil
}

// call paces every attempt and retries while the upstream signals throttling.
func (c *Coordinator) call(ctx context.Context, endpoint string, fn func(context.Context) (any, error)) (any, error) {
	for attempt := 1; ; attempt++ {
		if err := c.pacer.Wait(ctx); err != nil {
			return nil, err
		}

		out, err := c.execute(ctx, fn)
		if err == nil {
			return out, nil
		}
		if !sleeper.IsThrottled(err) {
			return nil, err
		}

		if attempt >= c.retry.MaxAttempts {
			c.logger.WarnContext(ctx, "upstream rate limit retries exhausted",
				"endpoint", endpoint,
				"attempts", attempt,
			)
			return nil, &usecase.RateLimitedError{Endpoint: endpoint, Attempts: attempt}
		}

		delay := c.retry.Backoff.Delay(attempt - 1)
		c.logger.InfoContext(ctx, "upstream rate limited, backing off",
			"endpoint", endpoint,
			"attempt", attempt,
			"delay_ms", delay.Milliseconds(),
		)
		if err := c.sleep(ctx, delay); err != nil {
			return nil, err
		}
	}
}

func (c *Coordinator) execute(ctx context.Context, fn func(context.Context) (any, error)) (any, error) {
	if !c.circuitEnabled {
		return fn(ctx)
	}

	var out any
	err := c.breaker.Execute(func() error {
		var fnErr error
		out, fnErr = fn(ctx)
		return fnErr
	}, isCircuitFailure)
	if errors.Is(err, resilience.ErrCircuitOpen) {
		c.logger.WarnContext(ctx, "upstream circuit breaker rejected request", "state", c.breaker.State())
		return nil, fmt.Errorf("%w: fantasy data provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
	}
	return out, err
}

// isCircuitFailure counts server errors and transport failures. Throttling, bad payloads
// and caller-side errors say nothing about upstream health.
func isCircuitFailure(err error) bool {
	if err == nil || sleeper.IsThrottled(err) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var upstreamErr *usecase.UpstreamError
	if errors.As(err, &upstreamErr) {
		return upstreamErr.Status >= 500
	}

	return !errors.Is(err, usecase.ErrMalformedData) && !usecase.IsPermanent(err)
}
