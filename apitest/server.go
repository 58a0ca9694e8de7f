// Package apitest runs an in-process fake of the storefront backend: it signs in an
// admin, issues signed short-lived access tokens, refreshes them, and guards every
// other route with bearer authentication. Tests register canned admin routes on it.
package apitest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// BasePath is where the API is mounted.
const BasePath = "/api/v1"

// Default admin account.
const (
	Email    = "admin@example.com"
	Password = "s3cret"
)

type claims struct {
	Email      string `json:"email"`
	Role       string `json:"role"`
	Generation int64  `json:"gen"`
	jwt.RegisteredClaims
}

// Server is a fake backend. Exported fields may be changed by tests between requests.
type Server struct {
	*httptest.Server

	// TokenTTL is the lifetime of issued access tokens.
	TokenTTL time.Duration
	// RotateRefresh makes every refresh issue a new refresh token and revoke the old one.
	RotateRefresh bool
	// RefreshDelay holds refresh responses, to widen the refresh window in tests.
	RefreshDelay time.Duration
	// RefreshStatus, when non-zero, makes the refresh endpoint fail with that status.
	RefreshStatus int

	router    chi.Router
	protected chi.Router
	secret    []byte

	generation atomic.Int64
	refreshes  atomic.Int32
	logins     atomic.Int32

	mu            sync.Mutex
	refreshTokens map[string]string // refresh token -> subject
}

// New starts a Server that is closed when t finishes.
func New(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		TokenTTL:      time.Hour,
		secret:        []byte(uuid.NewString()),
		refreshTokens: make(map[string]string),
	}

	r := chi.NewRouter()
	r.Post(BasePath+"/auth/login", s.handleLogin)
	r.Post(BasePath+"/auth/refresh", s.handleRefresh)
	s.router = r
	s.protected = r.With(s.requireAuth)

	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Server.Close)
	return s
}

// BaseURL is the API root clients should be configured with.
func (s *Server) BaseURL() string { return s.Server.URL + BasePath }

// Handle registers an authenticated route; pattern is relative to BasePath and uses
// chi syntax ("/admin/banners/{id}").
func (s *Server) Handle(method, pattern string, h http.HandlerFunc) {
	s.protected.Method(method, BasePath+pattern, h)
}

// IssueTokens signs in subject without going through the login endpoint.
func (s *Server) IssueTokens(subject string) (access, refresh string) {
	access, err := s.sign(subject)
	if err != nil {
		panic(err)
	}
	refresh = uuid.NewString()
	s.mu.Lock()
	s.refreshTokens[refresh] = subject
	s.mu.Unlock()
	return access, refresh
}

// ExpireAccessTokens invalidates every access token issued so far.
func (s *Server) ExpireAccessTokens() { s.generation.Add(1) }

// RevokeRefreshTokens forgets every refresh token issued so far.
func (s *Server) RevokeRefreshTokens() {
	s.mu.Lock()
	s.refreshTokens = make(map[string]string)
	s.mu.Unlock()
}

func (s *Server) RefreshCalls() int { return int(s.refreshes.Load()) }
func (s *Server) LoginCalls() int   { return int(s.logins.Load()) }

func (s *Server) sign(subject string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Email:      subject,
		Role:       "ADMIN",
		Generation: s.generation.Load(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.TokenTTL)),
			ID:        uuid.NewString(),
		},
	})
	return token.SignedString(s.secret)
}

func (s *Server) verify(raw string) (*claims, error) {
	var c claims
	_, err := jwt.ParseWithClaims(raw, &c, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if c.Generation < s.generation.Load() {
		return nil, errors.New("token expired")
	}
	return &c, nil
}

func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || raw == "" {
			Fail(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing bearer token")
			return
		}
		if _, err := s.verify(raw); err != nil {
			Fail(w, http.StatusUnauthorized, "UNAUTHORIZED", err.Error())
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	s.logins.Add(1)
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Fail(w, http.StatusBadRequest, "BAD_REQUEST", "invalid body")
		return
	}
	if req.Email != Email || req.Password != Password {
		Fail(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid email or password")
		return
	}
	access, refresh := s.IssueTokens(req.Email)
	OK(w, map[string]string{"accessToken": access, "refreshToken": refresh})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	s.refreshes.Add(1)
	if s.RefreshDelay > 0 {
		time.Sleep(s.RefreshDelay)
	}
	if s.RefreshStatus != 0 {
		Fail(w, s.RefreshStatus, "REFRESH_FAILED", "refresh unavailable")
		return
	}

	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		Fail(w, http.StatusBadRequest, "BAD_REQUEST", "refresh token required")
		return
	}

	s.mu.Lock()
	subject, ok := s.refreshTokens[req.RefreshToken]
	if ok && s.RotateRefresh {
		delete(s.refreshTokens, req.RefreshToken)
	}
	s.mu.Unlock()
	if !ok {
		Fail(w, http.StatusUnauthorized, "INVALID_REFRESH_TOKEN", "refresh token revoked")
		return
	}

	access, err := s.sign(subject)
	if err != nil {
		Fail(w, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}
	data := map[string]string{"accessToken": access}
	if s.RotateRefresh {
		rotated := uuid.NewString()
		s.mu.Lock()
		s.refreshTokens[rotated] = subject
		s.mu.Unlock()
		data["refreshToken"] = rotated
	}
	OK(w, data)
}

// OK writes {"ok": true, "data": data}.
func OK(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "data": data})
}

// Fail writes {"ok": false, "code": code, "message": message} with status.
func Fail(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]any{"ok": false, "code": code, "message": message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		panic(fmt.Sprintf("apitest: encode response: %v", err))
	}
}
