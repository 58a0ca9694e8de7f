package admin

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-authgate/shop-admin-cli/apitest"
	"github.com/go-authgate/shop-admin-cli/credstore"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthenticator(t *testing.T) (*Authenticator, *apitest.Server, *credstore.Store) {
	t.Helper()
	srv := apitest.New(t)
	store := credstore.New(credstore.NewMemoryStorage())
	a, err := NewAuthenticator(srv.BaseURL(), store, srv.Client(), zerolog.Nop())
	require.NoError(t, err)
	return a, srv, store
}

func TestLogin_StoresTokens(t *testing.T) {
	a, srv, store := newAuthenticator(t)

	require.NoError(t, a.Login(context.Background(), apitest.Email, apitest.Password))

	creds := store.Get()
	assert.NotEmpty(t, creds.AccessToken)
	assert.NotEmpty(t, creds.RefreshToken)
	assert.Equal(t, 1, srv.LoginCalls())

	info, err := DescribeToken(creds.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, apitest.Email, info.Subject)
	assert.Equal(t, apitest.Email, info.Email)
	assert.Equal(t, "ADMIN", info.Role)
	assert.False(t, info.Expired(time.Now()))
	assert.WithinDuration(t, time.Now().Add(time.Hour), info.ExpiresAt, time.Minute)
}

func TestLogin_WrongPassword(t *testing.T) {
	a, _, store := newAuthenticator(t)
	require.NoError(t, store.Set(credstore.Credentials{AccessToken: "old", RefreshToken: "old-r"}))

	err := a.Login(context.Background(), apitest.Email, "nope")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, "old", store.Get().AccessToken, "failed login must not touch the session")
}

func TestLogin_EnvelopeNotOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apitest.Fail(w, http.StatusOK, "ACCOUNT_LOCKED", "locked")
	}))
	defer srv.Close()

	store := credstore.New(nil)
	a, err := NewAuthenticator(srv.URL+apitest.BasePath, store, srv.Client(), zerolog.Nop())
	require.NoError(t, err)

	err = a.Login(context.Background(), apitest.Email, apitest.Password)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Contains(t, err.Error(), "ACCOUNT_LOCKED")
	assert.True(t, store.Get().Empty())
}

func TestLogin_RequiresBothFields(t *testing.T) {
	a, srv, _ := newAuthenticator(t)
	assert.Error(t, a.Login(context.Background(), "", apitest.Password))
	assert.Error(t, a.Login(context.Background(), apitest.Email, ""))
	assert.Zero(t, srv.LoginCalls())
}

func TestLogout(t *testing.T) {
	a, _, store := newAuthenticator(t)
	require.NoError(t, a.Login(context.Background(), apitest.Email, apitest.Password))
	require.NoError(t, a.Logout())
	assert.True(t, store.Get().Empty())
}

func TestDescribeToken(t *testing.T) {
	exp := time.Now().Add(-time.Minute).Truncate(time.Second)
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "u1",
		"role": "EDITOR",
		"exp":  exp.Unix(),
	}).SignedString([]byte("k"))
	require.NoError(t, err)

	info, err := DescribeToken(raw)
	require.NoError(t, err)
	assert.Equal(t, "u1", info.Subject)
	assert.Equal(t, "EDITOR", info.Role)
	assert.Empty(t, info.Email)
	assert.True(t, info.ExpiresAt.Equal(exp))
	assert.True(t, info.Expired(time.Now()))
	assert.True(t, info.IssuedAt.IsZero())

	_, err = DescribeToken("")
	assert.Error(t, err)
	_, err = DescribeToken("opaque-token")
	assert.Error(t, err)
}
