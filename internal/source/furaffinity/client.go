package furaffinity

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/nhle/fapm/internal/model"
	"github.com/nhle/fapm/internal/source"
)

const (
	// DefaultBaseURL is the forum the client talks to unless overridden.
	DefaultBaseURL = "https://www.furaffinity.net"

	// MaxAttempts is how many times a request is tried before the run
	// is aborted.
	MaxAttempts = 3

	// RetryCooldown is the pause between failed attempts.
	RetryCooldown = 30 * time.Second

	// RequestInterval is the minimum spacing between any two requests.
	// Hammering the forum hurts every member; do not lower it.
	RequestInterval = 5 * time.Second
)

// Limiter paces outgoing requests. *rate.Limiter satisfies it.
type Limiter interface {
	Wait(ctx context.Context) error
}

// Sleeper blocks for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// Request describes a single call to the forum.
type Request struct {
	// Path is relative to the base URL, e.g. "/msg/pms/1/".
	Path string

	// Folder selects the folder cookie sent with the request.
	Folder model.Folder

	// Form, when non-nil, turns the request into a form encoded POST.
	Form url.Values
}

// Client is a thin HTTP client for the forum's private message pages.
// It authenticates with the session cookies, paces every request, and
// retries transport failures a fixed number of times.
type Client struct {
	baseURL    string
	host       string
	userAgent  string
	httpClient *http.Client
	limiter    Limiter
	sleep      Sleeper
	attempts   int
	cooldown   time.Duration
	dates      DateParser
	log        logrus.FieldLogger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLimiter replaces the request pacing policy.
func WithLimiter(l Limiter) Option {
	return func(c *Client) { c.limiter = l }
}

// WithSleeper replaces the function used to wait between attempts.
func WithSleeper(s Sleeper) Option {
	return func(c *Client) { c.sleep = s }
}

// WithCooldown sets the pause between failed attempts.
func WithCooldown(d time.Duration) Option {
	return func(c *Client) { c.cooldown = d }
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithDateParser sets how message dates are interpreted.
func WithDateParser(p DateParser) Option {
	return func(c *Client) { c.dates = p }
}

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Client) { c.log = l }
}

// NewLimiter returns the production pacing policy: one request per
// interval, never faster than RequestInterval.
func NewLimiter(interval time.Duration) *rate.Limiter {
	if interval < RequestInterval {
		interval = RequestInterval
	}
	return rate.NewLimiter(rate.Every(interval), 1)
}

// UserAgent builds the User-Agent header value. The tool name and
// version are always present; custom is prepended when set.
func UserAgent(version, custom string) string {
	ua := "fapm/" + version
	if custom = strings.TrimSpace(custom); custom != "" {
		ua = custom + " " + ua
	}
	return ua
}

// NewClient creates a forum client rooted at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base URL %q must include scheme and host", baseURL)
	}

	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		host:      u.Host,
		userAgent: UserAgent("dev", ""),
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		limiter:  NewLimiter(RequestInterval),
		sleep:    sleepContext,
		attempts: MaxAttempts,
		cooldown: RetryCooldown,
		log:      logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Do performs req and returns the response body. Connection errors,
// timeouts, non-2xx statuses and bodies that are not valid UTF-8 are
// retried; once every attempt has failed a *source.TransportError is
// returned.
func (c *Client) Do(
	ctx context.Context,
	creds model.Credentials,
	req Request,
) ([]byte, error) {
	method := http.MethodGet
	if req.Form != nil {
		method = http.MethodPost
	}
	log := c.log.WithFields(logrus.Fields{
		"method": method,
		"path":   req.Path,
		"folder": req.Folder,
	})

	var lastErr error
	for attempt := 1; attempt <= c.attempts; attempt++ {
		if attempt > 1 {
			if err := c.sleep(ctx, c.cooldown); err != nil {
				return nil, err
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("waiting to send %s %s: %w", method, req.Path, err)
		}

		log.WithField("attempt", attempt).Debug("Sending request")
		body, err := c.roundTrip(ctx, method, creds, req)
		if err == nil {
			return body, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		lastErr = err
		log.WithError(err).WithField("attempt", attempt).Warn("Request failed")
	}

	return nil, &source.TransportError{
		Method:   method,
		Path:     req.Path,
		Attempts: c.attempts,
		Err:      lastErr,
	}
}

// roundTrip issues a single attempt of req.
func (c *Client) roundTrip(
	ctx context.Context,
	method string,
	creds model.Credentials,
	req Request,
) ([]byte, error) {
	var bodyReader io.Reader
	if req.Form != nil {
		bodyReader = strings.NewReader(req.Form.Encode())
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+req.Path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	httpReq.Host = c.host
	httpReq.Header.Set("User-Agent", c.userAgent)
	httpReq.Header.Set("Cookie", creds.Cookie(req.Folder))
	if req.Form != nil {
		httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	if !utf8.Valid(body) {
		return nil, fmt.Errorf("response body is not valid UTF-8")
	}

	return body, nil
}

// sleepContext waits for d unless ctx is cancelled first.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
