package sleeper

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/fantasy-dashboard/internal/domain/league"
	"github.com/riskibarqy/fantasy-dashboard/internal/platform/logging"
	"github.com/riskibarqy/fantasy-dashboard/internal/usecase"
	"github.com/valyala/bytebufferpool"
)

const (
	defaultBaseURL = "https://api.sleeper.app/v1"
	maxBodyBytes   = 6 << 20

	MinWeek = 1
	MaxWeek = 18
)

// ErrThrottled marks responses the coordinator should retry with backoff:
// HTTP 429, or an HTML page served where JSON was expected.
var ErrThrottled = crerr.New("sleeper throttled request")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Timeout        time.Duration
	AllowedLeagues []string
	Logger         *logging.Logger
}

// Client issues one GET per call against the Sleeper API. It does no caching or
// retrying; see the upstream coordinator for that.
type Client struct {
	httpClient *http.Client
	baseURL    string
	allowed    map[string]struct{}
	logger     *logging.Logger
	validate   *validator.Validate
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 10 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	allowed := make(map[string]struct{}, len(cfg.AllowedLeagues))
	for _, id := range cfg.AllowedLeagues {
		if id = strings.TrimSpace(id); id != "" {
			allowed[id] = struct{}{}
		}
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		allowed:    allowed,
		logger:     logger.Named("sleeper"),
		validate:   validator.New(),
	}
}

// Allowed reports whether leagueID is on the allow-list.
func (c *Client) Allowed(leagueID string) bool {
	_, ok := c.allowed[strings.TrimSpace(leagueID)]
	return ok
}

// ClampWeek bounds week into the range the upstream API serves.
func ClampWeek(week int) int {
	if week < MinWeek {
		return MinWeek
	}
	if week > MaxWeek {
		return MaxWeek
	}
	return week
}

func (c *Client) GetLeague(ctx context.Context, leagueID string) (league.League, error) {
	path, err := c.leaguePath(leagueID, "")
	if err != nil {
		return league.League{}, err
	}

	var item wireLeague
	if err := c.getObject(ctx, path, &item); err != nil {
		return league.League{}, err
	}
	if err := c.validate.StructCtx(ctx, &item); err != nil {
		return league.League{}, malformed(path, err.Error())
	}

	return item.toDomain(), nil
}

func (c *Client) ListUsers(ctx context.Context, leagueID string) ([]league.User, error) {
	path, err := c.leaguePath(leagueID, "/users")
	if err != nil {
		return nil, err
	}

	var items []wireUser
	if err := c.getArray(ctx, path, &items); err != nil {
		return nil, err
	}

	out := make([]league.User, 0, len(items))
	for i := range items {
		if err := c.validate.StructCtx(ctx, &items[i]); err != nil {
			return nil, malformed(path, fmt.Sprintf("user[%d]: %v", i, err))
		}
		out = append(out, items[i].toDomain())
	}
	return out, nil
}

func (c *Client) ListRosters(ctx context.Context, leagueID string) ([]league.Roster, error) {
	path, err := c.leaguePath(leagueID, "/rosters")
	if err != nil {
		return nil, err
	}

	var items []wireRoster
	if err := c.getArray(ctx, path, &items); err != nil {
		return nil, err
	}

	out := make([]league.Roster, 0, len(items))
	for i := range items {
		if err := c.validate.StructCtx(ctx, &items[i]); err != nil {
			return nil, malformed(path, fmt.Sprintf("roster[%d]: %v", i, err))
		}
		out = append(out, items[i].toDomain())
	}
	return out, nil
}

func (c *Client) ListMatchups(ctx context.Context, leagueID string, week int) ([]league.MatchupEntry, error) {
	path, err := c.leaguePath(leagueID, "/matchups/"+strconv.Itoa(ClampWeek(week)))
	if err != nil {
		return nil, err
	}

	var items []wireMatchup
	if err := c.getArray(ctx, path, &items); err != nil {
		return nil, err
	}

	out := make([]league.MatchupEntry, 0, len(items))
	for i := range items {
		if err := c.validate.StructCtx(ctx, &items[i]); err != nil {
			return nil, malformed(path, fmt.Sprintf("matchup[%d]: %v", i, err))
		}
		out = append(out, items[i].toDomain())
	}
	return out, nil
}

func (c *Client) ListTransactions(ctx context.Context, leagueID string, week int) ([]league.Transaction, error) {
	path, err := c.leaguePath(leagueID, "/transactions/"+strconv.Itoa(ClampWeek(week)))
	if err != nil {
		return nil, err
	}

	var items []wireTransaction
	if err := c.getArray(ctx, path, &items); err != nil {
		return nil, err
	}

	out := make([]league.Transaction, 0, len(items))
	for i := range items {
		if err := c.validate.StructCtx(ctx, &items[i]); err != nil {
			return nil, malformed(path, fmt.Sprintf("transaction[%d]: %v", i, err))
		}
		out = append(out, items[i].toDomain())
	}
	return out, nil
}

func (c *Client) ListDrafts(ctx context.Context, leagueID string) ([]league.Draft, error) {
	path, err := c.leaguePath(leagueID, "/drafts")
	if err != nil {
		return nil, err
	}

	var items []wireDraft
	if err := c.getArray(ctx, path, &items); err != nil {
		return nil, err
	}

	out := make([]league.Draft, 0, len(items))
	for i := range items {
		if err := c.validate.StructCtx(ctx, &items[i]); err != nil {
			return nil, malformed(path, fmt.Sprintf("draft[%d]: %v", i, err))
		}
		out = append(out, items[i].toDomain())
	}
	return out, nil
}

func (c *Client) ListDraftPicks(ctx context.Context, draftID string) ([]league.DraftPick, error) {
	draftID = strings.TrimSpace(draftID)
	if draftID == "" || strings.ContainsAny(draftID, "/?#") {
		return nil, fmt.Errorf("%w: draft id %q", usecase.ErrInvalidInput, draftID)
	}
	path := "/draft/" + draftID + "/picks"

	var items []wirePick
	if err := c.getArray(ctx, path, &items); err != nil {
		return nil, err
	}

	out := make([]league.DraftPick, 0, len(items))
	for i := range items {
		if err := c.validate.StructCtx(ctx, &items[i]); err != nil {
			return nil, malformed(path, fmt.Sprintf("pick[%d]: %v", i, err))
		}
		out = append(out, items[i].toDomain())
	}
	return out, nil
}

// FetchRaw returns the verbatim JSON body for an already allow-listed path.
func (c *Client) FetchRaw(ctx context.Context, path string) ([]byte, error) {
	raw, err := c.get(ctx, path)
	if err != nil {
		return nil, err
	}
	if !looksLikeJSON(raw) {
		return nil, malformed(path, "body is not JSON")
	}
	return raw, nil
}

func (c *Client) leaguePath(leagueID, suffix string) (string, error) {
	leagueID = strings.TrimSpace(leagueID)
	if !c.Allowed(leagueID) {
		return "", &usecase.NotAllowedError{LeagueID: leagueID}
	}
	return "/league/" + leagueID + suffix, nil
}

func (c *Client) getObject(ctx context.Context, path string, target any) error {
	raw, err := c.get(ctx, path)
	if err != nil {
		return err
	}
	if firstByte(raw) != '{' {
		return malformed(path, "expected JSON object")
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return malformed(path, "decode: "+err.Error())
	}
	return nil
}

func (c *Client) getArray(ctx context.Context, path string, target any) error {
	raw, err := c.get(ctx, path)
	if err != nil {
		return err
	}
	if firstByte(raw) != '[' {
		return malformed(path, "expected JSON array")
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return malformed(path, "decode: "+err.Error())
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, crerr.Wrap(err, "build request")
	}
	req.Header.Set("Accept", "application/json")

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, crerr.Wrapf(err, "send request path=%s", path)
	}
	defer resp.Body.Close()

	raw, err := readBody(resp.Body)
	if err != nil {
		return nil, crerr.Wrapf(err, "read response body path=%s", path)
	}

	c.logger.DebugContext(ctx, "sleeper request",
		"path", path,
		"status", resp.StatusCode,
		"bytes", len(raw),
		"duration_ms", time.Since(started).Milliseconds(),
	)

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, crerr.Mark(&usecase.UpstreamError{Status: resp.StatusCode, Endpoint: path}, ErrThrottled)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, &usecase.UpstreamError{Status: resp.StatusCode, Endpoint: path}
	case isHTML(resp.Header.Get("Content-Type"), raw):
		return nil, crerr.Mark(malformed(path, "html body where JSON was expected"), ErrThrottled)
	}

	return raw, nil
}

// IsThrottled reports whether err carries the rate-limit signal.
func IsThrottled(err error) bool {
	return crerr.Is(err, ErrThrottled)
}

func readBody(body io.Reader) ([]byte, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if _, err := buf.ReadFrom(io.LimitReader(body, maxBodyBytes)); err != nil {
		return nil, err
	}
	return append([]byte(nil), buf.B...), nil
}

func malformed(path, reason string) error {
	return &usecase.MalformedDataError{Endpoint: path, Reason: reason}
}

func firstByte(raw []byte) byte {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}

func looksLikeJSON(raw []byte) bool {
	switch firstByte(raw) {
	case '{', '[', '"', 'n', 't', 'f', '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		return true
	default:
		return false
	}
}

func isHTML(contentType string, raw []byte) bool {
	if strings.Contains(strings.ToLower(contentType), "text/html") {
		return true
	}
	return firstByte(raw) == '<'
}
