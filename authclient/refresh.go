package authclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-authgate/shop-admin-cli/credstore"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"
)

const refreshKey = "refresh"

// Coordinator runs at most one refresh call at a time. The first caller while idle
// owns the refresh; callers arriving while it is outstanding share its outcome.
type Coordinator struct {
	exec    *Executor
	store   *credstore.Store
	path    string
	timeout time.Duration
	log     zerolog.Logger
	events  Events

	onTerminated func()

	group singleflight.Group

	mu      sync.Mutex
	pending chan struct{} // closed when the current flight has persisted its outcome
}

func newCoordinator(exec *Executor, store *credstore.Store, o *options) *Coordinator {
	return &Coordinator{
		exec:         exec,
		store:        store,
		path:         o.refreshPath,
		timeout:      o.refreshTimeout,
		log:          o.log,
		events:       o.events,
		onTerminated: o.onTerminated,
	}
}

// Refresh exchanges the stored refresh token for new credentials. rejected is the
// access token the caller's request was refused with. On success the new credentials
// are already in the store when Refresh returns; on failure the store has been cleared
// and the error is a *RefreshError. If ctx ends first, ctx.Err() is returned and the
// flight keeps running for the other callers.
func (c *Coordinator) Refresh(ctx context.Context, rejected string) (credstore.Credentials, error) {
	ch := c.group.DoChan(refreshKey, func() (any, error) {
		return c.run(ctx, rejected)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return credstore.Credentials{}, res.Err
		}
		return res.Val.(credstore.Credentials), nil
	case <-ctx.Done():
		return credstore.Credentials{}, ctx.Err()
	}
}

// Wait blocks while a refresh is outstanding. It returns early only if ctx ends.
func (c *Coordinator) Wait(ctx context.Context) error {
	c.mu.Lock()
	pending := c.pending
	c.mu.Unlock()
	if pending == nil {
		return nil
	}

	select {
	case <-pending:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Refreshing reports whether a flight is outstanding.
func (c *Coordinator) Refreshing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending != nil
}

// run is the body of one flight. It is executed by the owner only.
func (c *Coordinator) run(ctx context.Context, rejected string) (any, error) {
	done := make(chan struct{})
	c.mu.Lock()
	c.pending = done
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.pending = nil
		c.mu.Unlock()
		close(done)
	}()

	current := c.store.Get()
	if current.AccessToken != "" && current.AccessToken != rejected {
		// Another flight already replaced the token this request was refused with.
		c.log.Debug().Msg("access token already refreshed, skipping refresh call")
		return current, nil
	}
	if current.Empty() && rejected != "" {
		// A late 401 for a session an earlier flight already ended. That flight
		// reported the termination.
		c.log.Debug().Msg("session already cleared, skipping refresh call")
		return nil, &RefreshError{Err: errSessionCleared}
	}

	c.events.Refreshing()

	// The flight outlives a cancelled owner so waiters still get an answer.
	refreshCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
	defer cancel()

	creds, err := c.exchange(refreshCtx, current.RefreshToken)
	if err != nil {
		refreshErr := &RefreshError{Err: err}
		c.log.Warn().Err(err).Msg("token refresh failed, clearing session")
		_ = c.store.Clear()
		c.events.RefreshFailed(refreshErr)
		c.events.SessionTerminated()
		if c.onTerminated != nil {
			c.onTerminated()
		}
		return nil, refreshErr
	}

	// Store errors are logged by the store; memory already holds the new pair.
	if creds.RefreshToken == current.RefreshToken {
		_ = c.store.SetAccessToken(creds.AccessToken)
	} else {
		_ = c.store.Set(creds)
	}
	c.log.Debug().
		Bool("rotated", creds.RefreshToken != current.RefreshToken).
		Msg("token refreshed")
	c.events.RefreshOK()
	return creds, nil
}

// exchange performs the refresh HTTP call. It is never retried.
func (c *Coordinator) exchange(ctx context.Context, refreshToken string) (credstore.Credentials, error) {
	if refreshToken == "" {
		return credstore.Credentials{}, errNoRefreshToken
	}

	d, err := NewDescriptor(http.MethodPost, c.path, map[string]string{
		"refreshToken": refreshToken,
	})
	if err != nil {
		return credstore.Credentials{}, err
	}

	resp, body, err := c.exec.roundTrip(ctx, d, "")
	if err != nil {
		return credstore.Credentials{}, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return credstore.Credentials{}, &oauth2.RetrieveError{
			Response: resp,
			Body:     body,
		}
	}

	return parseRefreshPayload(body, refreshToken)
}

// parseRefreshPayload reads {"ok": true, "data": {"accessToken": ..., "refreshToken"?: ...}}.
// Without a rotated refresh token the previous one is kept.
func parseRefreshPayload(body []byte, previousRefresh string) (credstore.Credentials, error) {
	if !gjson.ValidBytes(body) {
		return credstore.Credentials{}, errors.New("refresh response is not valid JSON")
	}
	result := gjson.ParseBytes(body)

	if !result.Get("ok").Bool() {
		return credstore.Credentials{}, fmt.Errorf(
			"refresh rejected: %s",
			result.Get("message").String(),
		)
	}

	access := result.Get("data.accessToken").String()
	if access == "" {
		return credstore.Credentials{}, errors.New("refresh response has no access token")
	}

	refresh := previousRefresh
	if rotated := result.Get("data.refreshToken").String(); rotated != "" {
		refresh = rotated
	}
	return credstore.Credentials{AccessToken: access, RefreshToken: refresh}, nil
}
