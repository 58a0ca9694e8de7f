// Package authclient sends requests to the storefront API with a bearer token and
// transparently refreshes the session on HTTP 401.
//
// A request that is rejected with 401 triggers one shared refresh; after a successful
// refresh the original descriptor is re-sent exactly once with the new token. If the
// refresh fails the stored credentials are cleared and ErrSessionTerminated is
// returned. Network failures and other server errors are returned unchanged.
package authclient

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-authgate/shop-admin-cli/credstore"
	"github.com/rs/zerolog"
)

// Defaults for the timeouts, overridable through options.
const (
	DefaultRequestTimeout = 30 * time.Second
	DefaultRefreshTimeout = 10 * time.Second
	DefaultRefreshPath    = "/auth/refresh"
)

type options struct {
	httpClient     *http.Client
	requestTimeout time.Duration
	refreshTimeout time.Duration
	refreshPath    string
	log            zerolog.Logger
	events         Events
	onTerminated   func()
}

// Option configures a Client.
type Option func(*options)

// WithHTTPClient sets the client used for every attempt.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// WithRequestTimeout bounds each attempt, the retry included.
func WithRequestTimeout(d time.Duration) Option {
	return func(o *options) { o.requestTimeout = d }
}

// WithRefreshTimeout bounds the refresh call.
func WithRefreshTimeout(d time.Duration) Option {
	return func(o *options) { o.refreshTimeout = d }
}

// WithRefreshPath sets the refresh endpoint, relative to the base URL.
func WithRefreshPath(p string) Option {
	return func(o *options) { o.refreshPath = p }
}

func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.log = l }
}

func WithEvents(e Events) Option {
	return func(o *options) { o.events = e }
}

// OnSessionTerminated registers fn to run once per failed refresh, after the store
// has been cleared.
func OnSessionTerminated(fn func()) Option {
	return func(o *options) { o.onTerminated = fn }
}

// Client is safe for concurrent use.
type Client struct {
	exec   *Executor
	store  *credstore.Store
	coord  *Coordinator
	log    zerolog.Logger
	events Events
}

// New returns a Client for the API at baseURL using store for credentials.
func New(baseURL string, store *credstore.Store, opts ...Option) (*Client, error) {
	o := &options{
		requestTimeout: DefaultRequestTimeout,
		refreshTimeout: DefaultRefreshTimeout,
		refreshPath:    DefaultRefreshPath,
		log:            zerolog.Nop(),
		events:         NopEvents{},
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.events == nil {
		o.events = NopEvents{}
	}
	if o.refreshTimeout <= 0 {
		o.refreshTimeout = DefaultRefreshTimeout
	}

	exec, err := NewExecutor(baseURL, o.httpClient, o.requestTimeout, o.log)
	if err != nil {
		return nil, err
	}
	return &Client{
		exec:   exec,
		store:  store,
		coord:  newCoordinator(exec, store, o),
		log:    o.log,
		events: o.events,
	}, nil
}

// Store returns the credential store the client reads from.
func (c *Client) Store() *credstore.Store { return c.store }

// Call sends d and returns its response. On 401 it refreshes the session once and
// re-sends d; the result of that second attempt is returned whatever it is.
func (c *Client) Call(ctx context.Context, d *Descriptor) (*Response, error) {
	// Do not knowingly send a token that is being replaced.
	if err := c.coord.Wait(ctx); err != nil {
		return nil, err
	}

	token := c.store.Get().AccessToken
	resp, err := c.exec.Execute(ctx, d, token)
	if !errors.Is(err, ErrUnauthorized) {
		return resp, err
	}

	c.log.Debug().
		Str("method", d.Method).
		Str("path", d.Path).
		Str("request_id", d.RequestID).
		Msg("access token rejected")
	c.events.AccessTokenRejected(d.Method, d.Path)

	creds, err := c.coord.Refresh(ctx, token)
	if err != nil {
		var refreshErr *RefreshError
		if errors.As(err, &refreshErr) {
			return nil, ErrSessionTerminated
		}
		return nil, err
	}

	c.events.TokenRefreshedRetrying()
	return c.exec.Execute(ctx, d, creds.AccessToken)
}

// Do is Call followed by decoding the JSON body into out (which may be nil).
func (c *Client) Do(ctx context.Context, d *Descriptor, out any) error {
	resp, err := c.Call(ctx, d)
	if err != nil {
		return err
	}
	return resp.Decode(out)
}
