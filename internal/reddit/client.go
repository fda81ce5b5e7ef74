package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/reddish-app/reddish/internal/model"
	"github.com/reddish-app/reddish/internal/secrets"
)

const (
	// DefaultBaseURL is the authenticated Reddit API base URL
	DefaultBaseURL = "https://oauth.reddit.com/"
	// DefaultAuthURL is the Reddit OAuth base URL
	DefaultAuthURL = "https://www.reddit.com/"
	// DefaultUserAgent identifies the app to Reddit per its API rules
	DefaultUserAgent = "desktop:reddish:v0.1.0 (by /u/reddish-app)"
	// DefaultTimeout is the default HTTP client timeout
	DefaultTimeout = 30 * time.Second

	// DefaultRequestsPerMinute caps steady-state throughput per Reddit's
	// OAuth quota of 60 requests per minute.
	DefaultRequestsPerMinute = 60
	// DefaultRateLimitBurst allows short spikes above the steady rate
	DefaultRateLimitBurst = 10

	secondsPerMinute = 60.0

	retryBackoff = 1 * time.Second
	maxRetries   = 1
)

// Config holds the configuration for the Reddit client.
type Config struct {
	// UserAgent string to identify the application to Reddit.
	// Defaults to DefaultUserAgent if empty.
	UserAgent string

	// BaseURL for authenticated API calls. Defaults to DefaultBaseURL.
	BaseURL string

	// AuthURL for the OAuth token endpoint. Defaults to DefaultAuthURL.
	AuthURL string

	// HTTPClient to use for requests. Defaults to a client with
	// DefaultTimeout.
	HTTPClient *http.Client

	// RequestsPerMinute caps steady-state throughput. Defaults to
	// DefaultRequestsPerMinute if zero.
	RequestsPerMinute float64

	// Burst allows short spikes above the steady-state rate. Defaults to
	// DefaultRateLimitBurst if zero.
	Burst int

	// Logger for structured diagnostics. Defaults to slog.Default().
	Logger *slog.Logger
}

// Client is the authenticated Reddit API client. Create it with NewClient,
// then call Authenticate before issuing any listing or comment fetches.
// All methods are safe for concurrent use.
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	userAgent  string
	auth       *authenticator
	logger     *slog.Logger
	limiter    *rate.Limiter

	mu             sync.Mutex
	token          string
	forceWaitUntil time.Time
}

// NewClient creates a new Reddit client with the provided configuration.
// A nil config uses all defaults.
func NewClient(cfg *Config) (*Client, error) {
	if cfg == nil {
		cfg = &Config{}
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	authURL := cfg.AuthURL
	if authURL == "" {
		authURL = DefaultAuthURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, &RequestError{Operation: "NewClient", Err: fmt.Errorf("failed to parse base URL: %w", err)}
	}
	if !strings.HasSuffix(parsed.Path, "/") {
		parsed.Path += "/"
	}

	auth, err := newAuthenticator(httpClient, authURL, userAgent)
	if err != nil {
		return nil, err
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    parsed,
		userAgent:  userAgent,
		auth:       auth,
		logger:     logger,
		limiter:    buildLimiter(cfg.RequestsPerMinute, cfg.Burst),
	}, nil
}

func buildLimiter(requestsPerMinute float64, burst int) *rate.Limiter {
	if requestsPerMinute <= 0 {
		requestsPerMinute = DefaultRequestsPerMinute
	}
	if burst <= 0 {
		burst = DefaultRateLimitBurst
	}

	limitPerSecond := rate.Limit(requestsPerMinute / secondsPerMinute)
	if limitPerSecond <= 0 {
		limitPerSecond = rate.Limit(1)
	}

	return rate.NewLimiter(limitPerSecond, burst)
}

// Authenticate performs the password grant flow and stores the resulting
// bearer token for subsequent requests.
func (c *Client) Authenticate(ctx context.Context, creds *secrets.Credentials) error {
	token, err := c.auth.Token(ctx, creds)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.token = token
	c.mu.Unlock()

	c.logger.Info("authenticated with reddit", "user", creds.Username)
	return nil
}

// IsAuthenticated returns true once a bearer token has been obtained.
func (c *Client) IsAuthenticated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token != ""
}

// FrontPage retrieves the authenticated user's front page listing.
// The returned string is the pagination cursor for the next page, empty when
// the listing is exhausted.
func (c *Client) FrontPage(ctx context.Context, after string, limit int) ([]model.Post, string, error) {
	var t thing
	if err := c.getJSON(ctx, "FrontPage", "", listingQuery(after, limit), &t); err != nil {
		return nil, "", err
	}
	return extractPosts("FrontPage", &t)
}

// SubredditPosts retrieves a subreddit's listing, newest-hot first.
func (c *Client) SubredditPosts(ctx context.Context, subreddit, after string, limit int) ([]model.Post, string, error) {
	var t thing
	path := "r/" + url.PathEscape(subreddit)
	if err := c.getJSON(ctx, "SubredditPosts", path, listingQuery(after, limit), &t); err != nil {
		return nil, "", err
	}
	return extractPosts("SubredditPosts", &t)
}

// Comments retrieves a post together with its comment tree.
func (c *Client) Comments(ctx context.Context, subreddit, postID string) (model.Post, *model.CommentTree, error) {
	var things []*thing
	path := "r/" + url.PathEscape(subreddit) + "/comments/" + url.PathEscape(postID)
	if err := c.getJSON(ctx, "Comments", path, nil, &things); err != nil {
		return model.Post{}, nil, err
	}
	return extractPostAndComments("Comments", things)
}

// SubscribedSubreddits retrieves the communities the authenticated user is
// subscribed to.
func (c *Client) SubscribedSubreddits(ctx context.Context) ([]model.Subreddit, error) {
	var t thing
	query := url.Values{}
	query.Set("limit", "100")
	if err := c.getJSON(ctx, "SubscribedSubreddits", "subreddits/mine/subscriber", query, &t); err != nil {
		return nil, err
	}
	return extractSubreddits("SubscribedSubreddits", &t)
}

// Me returns the authenticated user's account name. Useful as a cheap
// session validity check.
func (c *Client) Me(ctx context.Context) (string, error) {
	var account accountData
	if err := c.getJSON(ctx, "Me", "api/v1/me", nil, &account); err != nil {
		return "", err
	}
	return account.Name, nil
}

func listingQuery(after string, limit int) url.Values {
	query := url.Values{}
	if after != "" {
		query.Set("after", after)
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	return query
}

// getJSON executes an authenticated GET and decodes the JSON response into v.
// Transient transport failures get a single bounded retry; auth and API
// failures do not.
func (c *Client) getJSON(ctx context.Context, operation, path string, query url.Values, v interface{}) error {
	u, err := c.baseURL.Parse(path)
	if err != nil {
		return &RequestError{Operation: operation, Err: err}
	}
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			c.logger.Warn("retrying request", "operation", operation, "attempt", attempt+1, "err", lastErr)
			select {
			case <-time.After(retryBackoff):
			case <-ctx.Done():
				return &RequestError{Operation: operation, URL: u.String(), Err: ctx.Err()}
			}
		}

		lastErr = c.doOnce(ctx, operation, u, v)
		if lastErr == nil {
			return nil
		}
		if !IsRetryable(lastErr) {
			return lastErr
		}
	}

	return lastErr
}

func (c *Client) doOnce(ctx context.Context, operation string, u *url.URL, v interface{}) error {
	if err := c.waitForRateLimit(ctx); err != nil {
		return &RequestError{Operation: operation, URL: u.String(), Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return &RequestError{Operation: operation, URL: u.String(), Err: err}
	}

	c.mu.Lock()
	token := c.token
	c.mu.Unlock()

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &RequestError{Operation: operation, URL: u.String(), Err: err}
	}
	defer resp.Body.Close()

	c.applyRateHeaders(resp)

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return &AuthError{StatusCode: resp.StatusCode}
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return &APIError{StatusCode: resp.StatusCode, Message: operation + " failed"}
	}

	if v != nil {
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			return &ParseError{Operation: operation, Err: err}
		}
	}

	return nil
}

func (c *Client) waitForRateLimit(ctx context.Context) error {
	if err := c.waitForForcedDelay(ctx); err != nil {
		return err
	}
	if c.limiter == nil {
		return nil
	}
	return c.limiter.Wait(ctx)
}

func (c *Client) waitForForcedDelay(ctx context.Context) error {
	for {
		c.mu.Lock()
		waitUntil := c.forceWaitUntil
		c.mu.Unlock()

		if waitUntil.IsZero() {
			return nil
		}

		now := time.Now()
		if !now.Before(waitUntil) {
			c.clearForcedDelay(waitUntil)
			return nil
		}

		timer := time.NewTimer(waitUntil.Sub(now))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
			c.clearForcedDelay(waitUntil)
		}
	}
}

func (c *Client) clearForcedDelay(previous time.Time) {
	c.mu.Lock()
	if previous.Equal(c.forceWaitUntil) {
		c.forceWaitUntil = time.Time{}
	}
	c.mu.Unlock()
}

// applyRateHeaders honours Reddit's throttling hints: a Retry-After header
// or a near-exhausted X-Ratelimit-Remaining window defers further requests.
func (c *Client) applyRateHeaders(resp *http.Response) {
	if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
		if seconds, err := strconv.ParseFloat(retryAfter, 64); err == nil && seconds > 0 {
			c.deferRequests(time.Duration(seconds * float64(time.Second)))
		}
	}

	remainingHeader := resp.Header.Get("X-Ratelimit-Remaining")
	resetHeader := resp.Header.Get("X-Ratelimit-Reset")
	if remainingHeader == "" || resetHeader == "" {
		return
	}

	remaining, errRemaining := strconv.ParseFloat(remainingHeader, 64)
	resetSeconds, errReset := strconv.ParseFloat(resetHeader, 64)
	if errRemaining != nil || errReset != nil || resetSeconds <= 0 {
		return
	}

	if remaining <= 1 {
		c.deferRequests(time.Duration(resetSeconds * float64(time.Second)))
	}
}

func (c *Client) deferRequests(d time.Duration) {
	if d <= 0 {
		return
	}

	until := time.Now().Add(d)

	c.mu.Lock()
	if until.After(c.forceWaitUntil) {
		c.forceWaitUntil = until
	}
	c.mu.Unlock()
}
