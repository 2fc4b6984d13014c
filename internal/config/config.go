package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/fantasy-dashboard/internal/domain/league"
	"github.com/riskibarqy/fantasy-dashboard/internal/platform/logging"
	"gopkg.in/yaml.v3"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                      string
	ServiceName                 string
	ServiceVersion              string
	HTTPAddr                    string
	CORSAllowedOrigins          []string
	ReadTimeout                 time.Duration
	WriteTimeout                time.Duration
	PprofEnabled                bool
	PprofAddr                   string
	UptraceEnabled              bool
	UptraceDSN                  string
	UptraceLogsEnabled          bool
	PyroscopeEnabled            bool
	PyroscopeServerAddress      string
	PyroscopeAppName            string
	PyroscopeAuthToken          string
	PyroscopeBasicAuthUser      string
	PyroscopeBasicAuthPassword  string
	PyroscopeUploadRate         time.Duration
	SleeperBaseURL              string
	SleeperTimeout              time.Duration
	SleeperAvatarBaseURL        string
	UpstreamCacheTTL            time.Duration
	UpstreamMinInterval         time.Duration
	UpstreamMaxAttempts         int
	UpstreamBackoffBase         time.Duration
	UpstreamCircuitEnabled      bool
	UpstreamCircuitFailureCount int
	UpstreamCircuitOpenTimeout  time.Duration
	UpstreamCircuitHalfOpenReq  int
	Leagues                     []league.Entry
	SeasonStart                 time.Time
	TVRotateInterval            time.Duration
	TVRefreshInterval           time.Duration
	TVRetryDelay                time.Duration
	TVInitialLoadTimeout        time.Duration
	WarmWorkers                 int
	LogLevel                    logging.Level
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceDSN == "" {
		uptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}
	uptraceLogsEnabled, err := strconv.ParseBool(getEnv("UPTRACE_LOGS_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_LOGS_ENABLED: %w", err)
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofEnabled && pprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := getEnvAsPositiveDuration("PYROSCOPE_UPLOAD_RATE", "15s")
	if err != nil {
		return Config{}, err
	}

	sleeperBaseURL := strings.TrimRight(strings.TrimSpace(getEnv("SLEEPER_BASE_URL", "https://api.sleeper.app/v1")), "/")
	sleeperTimeout, err := getEnvAsPositiveDuration("SLEEPER_TIMEOUT", "10s")
	if err != nil {
		return Config{}, err
	}

	upstreamCacheTTL, err := getEnvAsPositiveDuration("UPSTREAM_CACHE_TTL", "5m")
	if err != nil {
		return Config{}, err
	}
	upstreamMinInterval, err := time.ParseDuration(getEnv("UPSTREAM_MIN_INTERVAL", "50ms"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPSTREAM_MIN_INTERVAL: %w", err)
	}
	if upstreamMinInterval < 0 {
		return Config{}, fmt.Errorf("UPSTREAM_MIN_INTERVAL must be >= 0")
	}
	upstreamMaxAttempts, err := getEnvAsInt("UPSTREAM_MAX_ATTEMPTS", 3)
	if err != nil {
		return Config{}, fmt.Errorf("parse UPSTREAM_MAX_ATTEMPTS: %w", err)
	}
	if upstreamMaxAttempts < 1 {
		return Config{}, fmt.Errorf("UPSTREAM_MAX_ATTEMPTS must be >= 1")
	}
	upstreamBackoffBase, err := getEnvAsPositiveDuration("UPSTREAM_BACKOFF_BASE", "500ms")
	if err != nil {
		return Config{}, err
	}
	upstreamCircuitEnabled, err := strconv.ParseBool(getEnv("UPSTREAM_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPSTREAM_CIRCUIT_ENABLED: %w", err)
	}
	upstreamCircuitFailureCount, err := getEnvAsInt("UPSTREAM_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse UPSTREAM_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if upstreamCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("UPSTREAM_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	upstreamCircuitOpenTimeout, err := getEnvAsPositiveDuration("UPSTREAM_CIRCUIT_OPEN_TIMEOUT", "15s")
	if err != nil {
		return Config{}, err
	}
	upstreamCircuitHalfOpenReq, err := getEnvAsInt("UPSTREAM_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse UPSTREAM_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if upstreamCircuitHalfOpenReq < 1 {
		return Config{}, fmt.Errorf("UPSTREAM_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	leagues, err := parseLeagues(getEnv("LEAGUES", ""))
	if err != nil {
		return Config{}, fmt.Errorf("parse LEAGUES: %w", err)
	}
	if path := strings.TrimSpace(getEnv("LEAGUES_FILE", "")); path != "" {
		fromFile, err := loadLeaguesFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("load LEAGUES_FILE: %w", err)
		}
		leagues = append(leagues, fromFile...)
	}
	if len(leagues) == 0 {
		return Config{}, fmt.Errorf("at least one league is required: set LEAGUES or LEAGUES_FILE")
	}

	var seasonStart time.Time
	if raw := strings.TrimSpace(getEnv("SEASON_START_DATE", "")); raw != "" {
		seasonStart, err = time.Parse(time.DateOnly, raw)
		if err != nil {
			return Config{}, fmt.Errorf("parse SEASON_START_DATE: %w", err)
		}
	}

	tvRotateInterval, err := getEnvAsPositiveDuration("TV_ROTATE_INTERVAL", "30s")
	if err != nil {
		return Config{}, err
	}
	tvRefreshInterval, err := getEnvAsPositiveDuration("TV_REFRESH_INTERVAL", "60s")
	if err != nil {
		return Config{}, err
	}
	tvRetryDelay, err := getEnvAsPositiveDuration("TV_RETRY_DELAY", "10s")
	if err != nil {
		return Config{}, err
	}
	tvInitialLoadTimeout, err := getEnvAsPositiveDuration("TV_INITIAL_LOAD_TIMEOUT", "10s")
	if err != nil {
		return Config{}, err
	}

	warmWorkers, err := getEnvAsInt("WARM_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse WARM_WORKERS: %w", err)
	}
	if warmWorkers < 1 {
		return Config{}, fmt.Errorf("WARM_WORKERS must be >= 1")
	}

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}

	cfg := Config{
		AppEnv:                      appEnv,
		ServiceName:                 getEnv("APP_SERVICE_NAME", "fantasy-dashboard-api"),
		ServiceVersion:              getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:                    getEnv("APP_HTTP_ADDR", ":8080"),
		CORSAllowedOrigins:          splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		ReadTimeout:                 readTimeout,
		WriteTimeout:                writeTimeout,
		PprofEnabled:                pprofEnabled,
		PprofAddr:                   pprofAddr,
		UptraceEnabled:              uptraceEnabled,
		UptraceDSN:                  uptraceDSN,
		UptraceLogsEnabled:          uptraceLogsEnabled,
		PyroscopeEnabled:            pyroscopeEnabled,
		PyroscopeServerAddress:      pyroscopeServerAddress,
		PyroscopeAuthToken:          strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:      strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword:  strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:         pyroscopeUploadRate,
		SleeperBaseURL:              sleeperBaseURL,
		SleeperTimeout:              sleeperTimeout,
		SleeperAvatarBaseURL:        strings.TrimRight(strings.TrimSpace(getEnv("SLEEPER_AVATAR_BASE_URL", "https://sleepercdn.com/avatars/thumbs")), "/"),
		UpstreamCacheTTL:            upstreamCacheTTL,
		UpstreamMinInterval:         upstreamMinInterval,
		UpstreamMaxAttempts:         upstreamMaxAttempts,
		UpstreamBackoffBase:         upstreamBackoffBase,
		UpstreamCircuitEnabled:      upstreamCircuitEnabled,
		UpstreamCircuitFailureCount: upstreamCircuitFailureCount,
		UpstreamCircuitOpenTimeout:  upstreamCircuitOpenTimeout,
		UpstreamCircuitHalfOpenReq:  upstreamCircuitHalfOpenReq,
		Leagues:                     leagues,
		SeasonStart:                 seasonStart,
		TVRotateInterval:            tvRotateInterval,
		TVRefreshInterval:           tvRefreshInterval,
		TVRetryDelay:                tvRetryDelay,
		TVInitialLoadTimeout:        tvInitialLoadTimeout,
		WarmWorkers:                 warmWorkers,
		LogLevel:                    parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}
	if cfg.SleeperBaseURL == "" {
		return Config{}, fmt.Errorf("SLEEPER_BASE_URL cannot be empty")
	}

	return cfg, nil
}

// LeagueIDs returns the configured league ids in order.
func (c Config) LeagueIDs() []string {
	out := make([]string, 0, len(c.Leagues))
	for _, item := range c.Leagues {
		out = append(out, item.ID)
	}
	return out
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func getEnvAsPositiveDuration(key, fallback string) (time.Duration, error) {
	out, err := time.ParseDuration(getEnv(key, fallback))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if out <= 0 {
		return 0, fmt.Errorf("%s must be > 0", key)
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

// parseLeagues reads "id:format,id" pairs. A missing format means head-to-head.
func parseLeagues(raw string) ([]league.Entry, error) {
	out := make([]league.Entry, 0)
	for _, item := range splitCSV(raw) {
		segments := strings.SplitN(item, ":", 2)
		id := strings.TrimSpace(segments[0])
		if id == "" {
			return nil, fmt.Errorf("empty league id in item %q", item)
		}

		formatRaw := ""
		if len(segments) == 2 {
			formatRaw = segments[1]
		}
		format, err := league.ParseFormat(formatRaw)
		if err != nil {
			return nil, fmt.Errorf("invalid item %q: %w", item, err)
		}

		out = append(out, league.Entry{ID: id, Format: format})
	}
	return out, nil
}

type leaguesFile struct {
	Leagues []league.Entry `yaml:"leagues"`
}

func loadLeaguesFile(path string) ([]league.Entry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseLeaguesYAML(raw)
}

func parseLeaguesYAML(raw []byte) ([]league.Entry, error) {
	var doc leaguesFile
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}

	out := make([]league.Entry, 0, len(doc.Leagues))
	for i, item := range doc.Leagues {
		item.ID = strings.TrimSpace(item.ID)
		item.Name = strings.TrimSpace(item.Name)
		format, err := league.ParseFormat(string(item.Format))
		if err != nil {
			return nil, fmt.Errorf("leagues[%d]: %w", i, err)
		}
		item.Format = format
		if err := item.Validate(); err != nil {
			return nil, fmt.Errorf("leagues[%d]: %w", i, err)
		}
		out = append(out, item)
	}
	return out, nil
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
