package admin

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	retry "github.com/appleboy/go-httpretry"
	"github.com/go-authgate/shop-admin-cli/credstore"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
)

const (
	loginPath    = "/auth/login"
	loginTimeout = 15 * time.Second
)

// ErrInvalidCredentials is returned by Login when the backend refuses the email and
// password pair.
var ErrInvalidCredentials = errors.New("invalid email or password")

// ErrNotPersisted is returned by Login when the session works but durable storage
// refused it. The next process will not be signed in.
var ErrNotPersisted = errors.New("session not saved")

// Authenticator signs the admin in and out. Login goes through a retrying transport;
// it is the only call that is retried on network failures.
type Authenticator struct {
	baseURL string
	client  *retry.Client
	store   *credstore.Store
	log     zerolog.Logger
}

// NewAuthenticator returns an Authenticator for the API at baseURL. httpClient may be
// nil.
func NewAuthenticator(
	baseURL string,
	store *credstore.Store,
	httpClient *http.Client,
	log zerolog.Logger,
) (*Authenticator, error) {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	client, err := retry.NewBackgroundClient(retry.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create retry client: %w", err)
	}
	return &Authenticator{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		store:   store,
		log:     log,
	}, nil
}

// Login exchanges email and password for a token pair and stores it. A failure to
// persist the pair is returned as ErrNotPersisted; the session is still usable for
// this process.
func (a *Authenticator) Login(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return errors.New("email and password are required")
	}

	reqCtx, cancel := context.WithTimeout(ctx, loginTimeout)
	defer cancel()

	payload, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(
		reqCtx,
		http.MethodPost,
		a.baseURL+loginPath,
		bytes.NewReader(payload),
	)
	if err != nil {
		return fmt.Errorf("failed to create login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.DoWithContext(reqCtx, req)
	if err != nil {
		return fmt.Errorf("login request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	result := gjson.ParseBytes(body)
	switch {
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return ErrInvalidCredentials
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		if msg := result.Get("message").String(); msg != "" {
			return fmt.Errorf("login failed with status %d: %s", resp.StatusCode, msg)
		}
		return fmt.Errorf("login failed with status %d", resp.StatusCode)
	case !result.Get("ok").Bool():
		if code := result.Get("code").String(); code != "" {
			return fmt.Errorf("%w (%s)", ErrInvalidCredentials, code)
		}
		return ErrInvalidCredentials
	}

	creds := credstore.Credentials{
		AccessToken:  result.Get("data.accessToken").String(),
		RefreshToken: result.Get("data.refreshToken").String(),
	}
	if creds.AccessToken == "" {
		return errors.New("login response has no access token")
	}

	a.log.Debug().Str("email", email).Msg("signed in")
	if err := a.store.Set(creds); err != nil {
		return fmt.Errorf("%w: %w", ErrNotPersisted, err)
	}
	return nil
}

// Logout forgets the stored session.
func (a *Authenticator) Logout() error {
	return a.store.Clear()
}

// TokenInfo is what the access token says about itself. It is read without signature
// verification and is for display only.
type TokenInfo struct {
	Subject   string
	Email     string
	Role      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Expired reports whether the token carries an expiry that lies before now.
func (t TokenInfo) Expired(now time.Time) bool {
	return !t.ExpiresAt.IsZero() && now.After(t.ExpiresAt)
}

// DescribeToken decodes the claims of a JWT access token without verifying it.
func DescribeToken(accessToken string) (*TokenInfo, error) {
	if accessToken == "" {
		return nil, errors.New("no access token")
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, claims); err != nil {
		return nil, fmt.Errorf("access token is not a JWT: %w", err)
	}

	info := &TokenInfo{}
	info.Subject, _ = claims.GetSubject()
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		info.ExpiresAt = exp.Time
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		info.IssuedAt = iat.Time
	}
	if v, ok := claims["email"].(string); ok {
		info.Email = v
	}
	if v, ok := claims["role"].(string); ok {
		info.Role = v
	}
	return info, nil
}
