package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/riskibarqy/fantasy-dashboard/internal/domain/league"
	"github.com/riskibarqy/fantasy-dashboard/internal/platform/logging"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("LEAGUES", "1180")
	t.Setenv("LEAGUES_FILE", "")
}

func TestLoad_AppEnvValidation(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_RequiresAtLeastOneLeague(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("LEAGUES", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error without LEAGUES or LEAGUES_FILE")
	}
}

func TestLoad_LeaguesParsing(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("LEAGUES", " 1180:h2h, 2210:guillotine ,3300:pickem,4400 ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	want := []league.Entry{
		{ID: "1180", Format: league.FormatHeadToHead},
		{ID: "2210", Format: league.FormatElimination},
		{ID: "3300", Format: league.FormatPickem},
		{ID: "4400", Format: league.FormatHeadToHead},
	}
	if len(cfg.Leagues) != len(want) {
		t.Fatalf("unexpected leagues length: %d", len(cfg.Leagues))
	}
	for i := range want {
		if cfg.Leagues[i] != want[i] {
			t.Fatalf("unexpected league at %d: %+v", i, cfg.Leagues[i])
		}
	}

	ids := cfg.LeagueIDs()
	if len(ids) != 4 || ids[1] != "2210" {
		t.Fatalf("unexpected league ids: %+v", ids)
	}
}

func TestLoad_LeaguesRejectsUnknownFormat(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("LEAGUES", "1180:bestball")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for unknown league format")
	}
}

func TestLoad_LeaguesFileAppendsEntries(t *testing.T) {
	setBaseEnv(t)
	path := filepath.Join(t.TempDir(), "leagues.yaml")
	body := []byte(`leagues:
  - id: " 5500 "
    name: Office League
    format: elimination
  - id: "6600"
`)
	if err := os.WriteFile(path, body, 0o600); err != nil {
		t.Fatalf("write leagues file: %v", err)
	}
	t.Setenv("LEAGUES_FILE", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if len(cfg.Leagues) != 3 {
		t.Fatalf("unexpected leagues length: %d", len(cfg.Leagues))
	}
	if cfg.Leagues[1].ID != "5500" || cfg.Leagues[1].Name != "Office League" || cfg.Leagues[1].Format != league.FormatElimination {
		t.Fatalf("unexpected file league: %+v", cfg.Leagues[1])
	}
	if cfg.Leagues[2].Format != league.FormatHeadToHead {
		t.Fatalf("expected default format h2h, got %q", cfg.Leagues[2].Format)
	}
}

func TestParseLeaguesYAML_RejectsMissingID(t *testing.T) {
	if _, err := parseLeaguesYAML([]byte("leagues:\n  - name: nameless\n")); err == nil {
		t.Fatalf("expected error for league without id")
	}
	if _, err := parseLeaguesYAML([]byte("leagues: [")); err == nil {
		t.Fatalf("expected error for invalid yaml")
	}
}

func TestLoad_LeaguesFileMissing(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("LEAGUES_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for missing LEAGUES_FILE")
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_UptraceDSNFromOTLPHeaders(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "foo=bar, uptrace-dsn='https://token@api.uptrace.dev?grpc=4317'")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.UptraceDSN != "https://token@api.uptrace.dev?grpc=4317" {
		t.Fatalf("unexpected UptraceDSN: %q", cfg.UptraceDSN)
	}
}

func TestLoad_UpstreamDefaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.SleeperBaseURL != "https://api.sleeper.app/v1" {
		t.Fatalf("unexpected SleeperBaseURL: %q", cfg.SleeperBaseURL)
	}
	if cfg.UpstreamCacheTTL != 5*time.Minute {
		t.Fatalf("unexpected UpstreamCacheTTL: %s", cfg.UpstreamCacheTTL)
	}
	if cfg.UpstreamMinInterval != 50*time.Millisecond {
		t.Fatalf("unexpected UpstreamMinInterval: %s", cfg.UpstreamMinInterval)
	}
	if cfg.UpstreamMaxAttempts != 3 {
		t.Fatalf("unexpected UpstreamMaxAttempts: %d", cfg.UpstreamMaxAttempts)
	}
	if cfg.UpstreamBackoffBase != 500*time.Millisecond {
		t.Fatalf("unexpected UpstreamBackoffBase: %s", cfg.UpstreamBackoffBase)
	}
	if !cfg.UpstreamCircuitEnabled {
		t.Fatalf("expected circuit breaker enabled by default")
	}
	if cfg.TVRotateInterval != 30*time.Second || cfg.TVRefreshInterval != 60*time.Second {
		t.Fatalf("unexpected tv intervals: %s %s", cfg.TVRotateInterval, cfg.TVRefreshInterval)
	}
	if cfg.TVRetryDelay != 10*time.Second || cfg.TVInitialLoadTimeout != 10*time.Second {
		t.Fatalf("unexpected tv retry settings: %s %s", cfg.TVRetryDelay, cfg.TVInitialLoadTimeout)
	}
	if cfg.WarmWorkers != 4 {
		t.Fatalf("unexpected WarmWorkers: %d", cfg.WarmWorkers)
	}
	if !cfg.SeasonStart.IsZero() {
		t.Fatalf("expected zero SeasonStart by default, got %s", cfg.SeasonStart)
	}
}

func TestLoad_UpstreamValidation(t *testing.T) {
	cases := map[string]string{
		"UPSTREAM_MAX_ATTEMPTS":          "0",
		"UPSTREAM_CACHE_TTL":             "0s",
		"UPSTREAM_MIN_INTERVAL":          "-1s",
		"UPSTREAM_CIRCUIT_FAILURE_COUNT": "0",
		"TV_ROTATE_INTERVAL":             "soon",
		"WARM_WORKERS":                   "0",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			setBaseEnv(t)
			t.Setenv(key, value)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%s", key, value)
			}
		})
	}
}

func TestLoad_SeasonStartParsing(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("SEASON_START_DATE", "2026-09-10")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	want := time.Date(2026, time.September, 10, 0, 0, 0, 0, time.UTC)
	if !cfg.SeasonStart.Equal(want) {
		t.Fatalf("unexpected SeasonStart: %s", cfg.SeasonStart)
	}

	t.Setenv("SEASON_START_DATE", "10/09/2026")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for malformed SEASON_START_DATE")
	}
}

func TestLoad_PprofDefaultsAddrWhenEnabled(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("PPROF_ENABLED", "true")
	t.Setenv("PPROF_ADDR", "  ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PprofAddr != ":6060" {
		t.Fatalf("expected default pprof addr :6060, got %q", cfg.PprofAddr)
	}
}

func TestLoad_PyroscopeRequiresServerAddressWhenEnabled(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when PYROSCOPE_ENABLED=true without PYROSCOPE_SERVER_ADDRESS")
	}
}

func TestLoad_PyroscopeAppNameDefaultsToServiceName(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("APP_SERVICE_NAME", "fantasy-dashboard-api-test")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "http://localhost:4040")
	t.Setenv("PYROSCOPE_APP_NAME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PyroscopeAppName != "fantasy-dashboard-api-test" {
		t.Fatalf("unexpected pyroscope app name: %q", cfg.PyroscopeAppName)
	}
}

func TestLoad_CORSOriginsDefaultAndParsing(t *testing.T) {
	setBaseEnv(t)

	t.Run("default wildcard", func(t *testing.T) {
		t.Setenv("CORS_ALLOWED_ORIGINS", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
			t.Fatalf("unexpected default CORS origins: %+v", cfg.CORSAllowedOrigins)
		}
	})

	t.Run("comma separated parsing", func(t *testing.T) {
		t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example.com, http://localhost:5173 ")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if len(cfg.CORSAllowedOrigins) != 2 {
			t.Fatalf("unexpected CORS origins length: %d", len(cfg.CORSAllowedOrigins))
		}
		if cfg.CORSAllowedOrigins[0] != "https://a.example.com" {
			t.Fatalf("unexpected first CORS origin: %s", cfg.CORSAllowedOrigins[0])
		}
		if cfg.CORSAllowedOrigins[1] != "http://localhost:5173" {
			t.Fatalf("unexpected second CORS origin: %s", cfg.CORSAllowedOrigins[1])
		}
	})
}

func TestLoad_LogLevelParsing(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("APP_LOG_LEVEL", "WARNING")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.LogLevel != logging.LevelWarn {
		t.Fatalf("unexpected LogLevel: %s", cfg.LogLevel)
	}
}
