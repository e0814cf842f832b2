// Package client is the single point of outbound communication with the
// Nismart banking API. Every call attaches the session's bearer token, and a
// call that comes back 401 transparently exchanges the refresh token for a
// new access token and is resubmitted exactly once. List responses are
// normalized through the api package so callers always see a usable shape.
package client

import (
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/Paulndambo/nismart-go/session"
)

const defaultTimeout = 30 * time.Second

// Client talks to one Nismart API server on behalf of one session. There is
// no package-level singleton: construct one Client per session.Store, and
// share that pair across goroutines freely.
type Client struct {
	baseURL    string
	httpClient *http.Client
	store      session.Store
	logger     zerolog.Logger
	limiter    *rate.Limiter

	// onSessionExpired fires once per failed refresh, after the session has
	// been cleared. The surrounding application reacts by sending the user
	// back to authentication.
	onSessionExpired func()
}

// Option defines a function type to modify the Client instance.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the client's logger. The default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithRateLimit throttles outbound requests to r per second with the given
// burst, mirroring the server's per-user rate windows so a busy caller backs
// off before the server starts rejecting.
func WithRateLimit(r float64, burst int) Option {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(r), burst)
	}
}

// WithSessionExpiredHook registers fn to run when a refresh attempt fails
// and the session is cleared.
func WithSessionExpiredHook(fn func()) Option {
	return func(c *Client) {
		c.onSessionExpired = fn
	}
}

// New creates a Client for the API at baseURL, reading and writing
// credentials through store.
func New(baseURL string, store session.Store, options ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("[client.New] baseURL is required")
	}
	if store == nil {
		return nil, errors.New("[client.New] session store is required")
	}

	c := &Client{
		baseURL:    trimTrailingSlash(baseURL),
		httpClient: &http.Client{Timeout: defaultTimeout},
		store:      store,
		logger:     zerolog.Nop(),
	}
	for _, opt := range options {
		opt(c)
	}
	return c, nil
}

func trimTrailingSlash(u string) string {
	for len(u) > 0 && u[len(u)-1] == '/' {
		u = u[:len(u)-1]
	}
	return u
}
