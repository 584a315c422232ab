package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/UnicodingUnicorn/mangadex-downloader-2/internal/logger"
)

// DefaultUserAgent is a desktop browser User-Agent. The image servers reject
// obvious bot agents.
const DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:128.0) Gecko/20100101 Firefox/128.0"

// Rate-limit headers sent with HTTP 429 responses.
const (
	headerRetryAfterMD = "X-RateLimit-Retry-After"
	headerRetryAfter   = "Retry-After"
)

// Header values below this are delta-seconds rather than Unix timestamps.
const unixTimestampFloor = 1_000_000_000

// RetryPolicy bounds the 429 backoff loop.
type RetryPolicy struct {
	// MaxAttempts is the maximum number of requests sent for one Get call.
	MaxAttempts int

	// MaxWait caps a single server-requested delay. Zero means no cap.
	MaxWait time.Duration

	// DefaultWait is used when a 429 carries no legible retry header.
	DefaultWait time.Duration
}

// DefaultRetryPolicy returns the policy used when none is configured.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 5,
		MaxWait:     2 * time.Minute,
		DefaultWait: 5 * time.Second,
	}
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Client issues GET requests against aliased destinations.
//
// Client provides:
//   - Per-destination throttling through the Registry's limiters
//   - Host header and browser User-Agent on every request
//   - Bounded retry of HTTP 429 responses, honouring the server's retry time
//   - Structured errors for every other non-2xx response
//
// Example usage:
//
//	client := NewClient(DefaultRegistry())
//
//	resp, err := client.Get(ctx, "main", "/manga/"+id)
//
//	// Decode JSON, keeping the raw body on failure
//	manga, err := GetJSON[dto.MangaResponse](ctx, client, "main", "/manga/"+id)
type Client struct {
	httpClient *http.Client
	registry   *Registry
	userAgent  string
	retry      RetryPolicy
	log        logrus.FieldLogger

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the timeout of the underlying http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithUserAgent overrides DefaultUserAgent.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithRetryPolicy overrides DefaultRetryPolicy.
func WithRetryPolicy(p RetryPolicy) Option {
	return func(c *Client) { c.retry = p }
}

// WithLogger sets the logger used for backoff diagnostics.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Client) { c.log = l }
}

// NewClient creates a Client sending requests through registry.
//
// The client is configured with:
//   - 60 second timeout
//   - DefaultUserAgent
//   - DefaultRetryPolicy
func NewClient(registry *Registry, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		registry:   registry,
		userAgent:  DefaultUserAgent,
		retry:      DefaultRetryPolicy(),
		now:        time.Now,
		sleep:      sleepContext,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logger.GetLogger()
	}
	return c
}

// Registry returns the registry the client resolves aliases with.
func (c *Client) Registry() *Registry {
	return c.registry
}

// Get performs a GET request for path on the destination registered as
// alias and returns the fully read response.
//
// An unregistered alias is used verbatim as the base URL and the request is
// sent without a Host override or throttling.
//
// Returns an error if:
//   - The request cannot be sent or the body cannot be read (ErrTransport)
//   - The server keeps answering 429 after RetryPolicy.MaxAttempts (ErrRateLimited)
//   - The server answers any other non-2xx status (ErrRemoteAPI)
//   - ctx is done while waiting for the limiter or a retry delay
func (c *Client) Get(ctx context.Context, alias, path string) (*Response, error) {
	maxAttempts := c.retry.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	for attempt := 1; ; attempt++ {
		resp, err := c.do(ctx, alias, path)
		if err != nil {
			return nil, err
		}

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			return resp, nil

		case resp.StatusCode == http.StatusTooManyRequests:
			if attempt >= maxAttempts {
				return nil, &RateLimitedError{Alias: alias, Path: path, Attempts: attempt}
			}
			delay := c.retryDelay(resp.Header)
			c.log.WithFields(logrus.Fields{
				"source":  alias,
				"path":    path,
				"attempt": attempt,
				"delay":   delay.String(),
			}).Warn("rate limited by server, backing off")
			if err := c.sleep(ctx, delay); err != nil {
				return nil, fmt.Errorf("waiting to retry %s%s: %w", alias, path, err)
			}

		default:
			return nil, &APIError{
				Alias:      alias,
				Path:       path,
				StatusCode: resp.StatusCode,
				Body:       string(resp.Body),
			}
		}
	}
}

// GetJSON performs Get and decodes the body as JSON into T.
//
// The body is read as text first; a decoding failure is returned as an
// *UnexpectedResponseError holding the raw payload.
func GetJSON[T any](ctx context.Context, c *Client, alias, path string) (T, error) {
	var out T

	resp, err := c.Get(ctx, alias, path)
	if err != nil {
		return out, err
	}

	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return out, &UnexpectedResponseError{
			Alias: alias,
			Path:  path,
			Body:  string(resp.Body),
			Err:   err,
		}
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, alias, path string) (*Response, error) {
	target := alias + path
	host := ""
	var limiter *Limiter

	if dest, ok := c.registry.Resolve(alias); ok {
		limiter = dest.Limiter
		if d := limiter.Delay(); d > 0 {
			c.log.WithFields(logrus.Fields{
				"source":   alias,
				"delay":    d.String(),
				"last_hit": limiter.LastHit().Format(time.RFC3339Nano),
			}).Debug("throttling request")
		}
		if err := limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("waiting for %s rate limit: %w", alias, err)
		}
		target = dest.BaseURL + path
		host = dest.Host
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: building request for %s: %w", ErrConfiguration, target, err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	if host != "" {
		req.Host = host
	}

	c.log.WithFields(logrus.Fields{"source": alias, "url": target}).Debug("GET")

	resp, err := c.httpClient.Do(req)
	if limiter != nil {
		// The interval runs from when the server answered, not only from dispatch.
		limiter.RecordHit()
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GET %s: %w", ErrTransport, target, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading body of %s: %w", ErrTransport, target, err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}

// retryDelay computes max(0, retryAt - now), capped at RetryPolicy.MaxWait.
func (c *Client) retryDelay(h http.Header) time.Duration {
	now := c.now()

	delay := c.retry.DefaultWait
	if retryAt, ok := parseRetryAt(h, now); ok {
		delay = retryAt.Sub(now)
	}
	if delay < 0 {
		delay = 0
	}
	if c.retry.MaxWait > 0 && delay > c.retry.MaxWait {
		delay = c.retry.MaxWait
	}
	return delay
}

// parseRetryAt reads the server's retry time. X-RateLimit-Retry-After holds a
// Unix timestamp (small values are taken as delta-seconds); the standard
// Retry-After header is accepted in both of its forms.
func parseRetryAt(h http.Header, now time.Time) (time.Time, bool) {
	if v := strings.TrimSpace(h.Get(headerRetryAfterMD)); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			if n < unixTimestampFloor {
				return now.Add(time.Duration(n) * time.Second), true
			}
			return time.Unix(n, 0), true
		}
	}

	if v := strings.TrimSpace(h.Get(headerRetryAfter)); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return now.Add(time.Duration(n) * time.Second), true
		}
		if t, err := http.ParseTime(v); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
