package authclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
)

// Executor performs exactly one HTTP call per Execute. It never retries and never
// touches credentials.
type Executor struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	log        zerolog.Logger
}

// NewExecutor returns an Executor resolving descriptor paths against baseURL. A zero
// timeout leaves attempts bounded only by the caller's context.
func NewExecutor(
	baseURL string,
	httpClient *http.Client,
	timeout time.Duration,
	log zerolog.Logger,
) (*Executor, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid base URL scheme %q: must be http or https", u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid base URL: missing host")
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Executor{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		timeout:    timeout,
		log:        log,
	}, nil
}

// Execute sends d with accessToken as bearer credential (omitted when empty). A 2xx
// yields a Response; 401 an *AuthError; other statuses a *ServerError; transport
// failures a *NetworkError. If ctx itself is done, its error is returned as is.
func (e *Executor) Execute(ctx context.Context, d *Descriptor, accessToken string) (*Response, error) {
	resp, body, err := e.roundTrip(ctx, d, accessToken)
	if err != nil {
		return nil, err
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: body}, nil
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, &AuthError{Body: body}
	default:
		return nil, &ServerError{StatusCode: resp.StatusCode, Body: body}
	}
}

// roundTrip sends one attempt and reads the full body. Only transport failures are
// errors; every status code is returned to the caller.
func (e *Executor) roundTrip(
	ctx context.Context,
	d *Descriptor,
	accessToken string,
) (*http.Response, []byte, error) {
	target := e.resolve(d.Path)

	attemptCtx := ctx
	if e.timeout > 0 {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	var bodyReader io.Reader
	if len(d.Body) > 0 {
		bodyReader = bytes.NewReader(d.Body)
	}
	req, err := http.NewRequestWithContext(attemptCtx, d.Method, target, bodyReader)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}
	if accessToken != "" {
		(&oauth2.Token{AccessToken: accessToken}).SetAuthHeader(req)
	}
	if len(d.Body) > 0 {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if d.RequestID != "" {
		req.Header.Set("X-Request-ID", d.RequestID)
	}

	start := time.Now()
	resp, err := e.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, nil, ctxErr
		}
		e.log.Debug().Err(err).
			Str("method", d.Method).
			Str("url", target).
			Str("request_id", d.RequestID).
			Msg("request failed")
		return nil, nil, &NetworkError{Method: d.Method, URL: target, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, nil, ctxErr
		}
		return nil, nil, &NetworkError{
			Method: d.Method,
			URL:    target,
			Err:    fmt.Errorf("failed to read response: %w", err),
		}
	}

	e.log.Debug().
		Str("method", d.Method).
		Str("url", target).
		Str("request_id", d.RequestID).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("request done")
	return resp, body, nil
}

func (e *Executor) resolve(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return e.baseURL + "/" + strings.TrimLeft(path, "/")
}
