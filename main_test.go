package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-authgate/shop-admin-cli/apitest"
	"github.com/go-authgate/shop-admin-cli/authclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cli runs shopadmin command lines against a fake backend, sharing one token file.
type cli struct {
	srv       *apitest.Server
	tokenFile string
}

type result struct {
	code   int
	stdout string
	stderr string
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	srv := apitest.New(t)
	srv.Handle(http.MethodGet, "/admin/banners", func(w http.ResponseWriter, r *http.Request) {
		apitest.OK(w, []map[string]any{
			{"_id": "b1", "title": "Summer sale", "status": "ACTIVE", "position": "hero", "sort": 1},
		})
	})
	return &cli{srv: srv, tokenFile: filepath.Join(t.TempDir(), "tokens.json")}
}

func (c *cli) config() *Config {
	return &Config{
		APIBase:        c.srv.BaseURL(),
		Profile:        "default",
		TokenStorage:   storageFile,
		TokenFile:      c.tokenFile,
		RequestTimeout: 5 * time.Second,
		RefreshTimeout: 5 * time.Second,
		RefreshPath:    "/auth/refresh",
		Output:         outputTable,
	}
}

func (c *cli) run(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	var stdout, stderr bytes.Buffer
	a := newApp(c.config(), &stdout, &stderr, false)
	a.stdin = strings.NewReader(stdin)
	a.httpClient = c.srv.Client()
	code := execute(context.Background(), a, args)
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func (c *cli) login(t *testing.T) {
	t.Helper()
	res := c.run(t, apitest.Password+"\n", "login", "--email", apitest.Email, "--password-stdin")
	require.Equal(t, exitOK, res.code, res.stderr)
}

func TestLoginThenList(t *testing.T) {
	c := newCLI(t)
	c.login(t)
	assert.Equal(t, 1, c.srv.LoginCalls())

	res := c.run(t, "", "banners", "list")
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Summer sale")
	assert.Contains(t, res.stdout, "hero")

	res = c.run(t, "", "banners", "list", "-o", "json")
	require.Equal(t, exitOK, res.code, res.stderr)
	var banners []map[string]any
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &banners))
	require.Len(t, banners, 1)
	assert.Equal(t, "b1", banners[0]["_id"])
	assert.Equal(t, 0, c.srv.RefreshCalls())
}

func TestLogin_WrongPassword(t *testing.T) {
	c := newCLI(t)
	res := c.run(t, "nope\n", "login", "--email", apitest.Email, "--password-stdin")
	assert.Equal(t, exitFailure, res.code)
	assert.Contains(t, res.stderr, "Error:")

	res = c.run(t, "", "banners", "list")
	assert.Equal(t, exitSession, res.code, "no stored session means signing in again")
}

func TestExpiredTokenRefreshesTransparently(t *testing.T) {
	c := newCLI(t)
	c.login(t)
	c.srv.ExpireAccessTokens()

	res := c.run(t, "", "banners", "list")
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Summer sale")
	assert.Contains(t, res.stderr, "Token refreshed")
	assert.Equal(t, 1, c.srv.RefreshCalls())

	// The refreshed token was persisted, so the next run needs no refresh.
	res = c.run(t, "", "banners", "list")
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.Equal(t, 1, c.srv.RefreshCalls())
}

func TestRevokedSessionAsksToSignInAgain(t *testing.T) {
	c := newCLI(t)
	c.login(t)
	c.srv.ExpireAccessTokens()
	c.srv.RevokeRefreshTokens()

	res := c.run(t, "", "banners", "list")
	assert.Equal(t, exitSession, res.code)
	assert.Contains(t, res.stderr, "please sign in again")
	assert.NotContains(t, res.stdout, "Summer sale")

	res = c.run(t, "", "session", "status", "-o", "json")
	require.Equal(t, exitOK, res.code, res.stderr)
	var st sessionStatus
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &st))
	assert.False(t, st.SignedIn, "tokens are cleared when the session ends")
	assert.False(t, st.HasRefreshToken)
}

func TestSessionStatus(t *testing.T) {
	c := newCLI(t)
	c.login(t)

	res := c.run(t, "", "session", "status", "-o", "json")
	require.Equal(t, exitOK, res.code, res.stderr)
	var st sessionStatus
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &st))
	assert.True(t, st.SignedIn)
	assert.True(t, st.HasRefreshToken)
	assert.Equal(t, apitest.Email, st.Email)
	assert.Equal(t, "ADMIN", st.Role)
	assert.False(t, st.Expired)
	require.NotNil(t, st.ExpiresAt)
	assert.True(t, st.ExpiresAt.After(time.Now()))
	assert.Equal(t, "file:"+c.tokenFile, st.Storage)

	res = c.run(t, "", "session", "status")
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, apitest.Email)
}

func TestLogout(t *testing.T) {
	c := newCLI(t)
	c.login(t)

	res := c.run(t, "", "logout")
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Signed out of profile default.")

	res = c.run(t, "", "banners", "list")
	assert.Equal(t, exitSession, res.code)
}

func TestDashboard(t *testing.T) {
	c := newCLI(t)
	c.srv.Handle(http.MethodGet, "/admin/orders", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		apitest.OK(w, map[string]any{
			"items": []map[string]any{
				{"_id": "665f1c2aabcdef", "status": "DELIVERED", "totals": map[string]any{"grandTotal": 120},
					"customer": map[string]any{"name": "Rina", "email": "rina@example.com"}},
				{"_id": "665f1c2a123456", "status": "PENDING", "totals": map[string]any{"grandTotal": 30},
					"customer": map[string]any{"name": "Guest"}},
			},
			"total": 42,
		})
	})
	c.srv.Handle(http.MethodGet, "/admin/products", func(w http.ResponseWriter, r *http.Request) {
		apitest.OK(w, map[string]any{
			"items": []map[string]any{{"_id": "p1", "title": "Serum", "price": 10, "stock": 3}},
			"total": 7,
		})
	})
	c.login(t)

	res := c.run(t, "", "dashboard", "-o", "json")
	require.Equal(t, exitOK, res.code, res.stderr)
	var d struct {
		TotalOrders     int     `json:"totalOrders"`
		TotalProducts   int     `json:"totalProducts"`
		RecentRevenue   float64 `json:"recentRevenue"`
		UniqueCustomers int     `json:"uniqueCustomers"`
		RecentOrders    []struct {
			Ref string `json:"ref"`
		} `json:"recentOrders"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &d))
	assert.Equal(t, 42, d.TotalOrders)
	assert.Equal(t, 7, d.TotalProducts)
	assert.InDelta(t, 150, d.RecentRevenue, 0.001)
	assert.Equal(t, 1, d.UniqueCustomers)
	require.Len(t, d.RecentOrders, 2)
	assert.Equal(t, "#ABCDEF", d.RecentOrders[0].Ref)

	res = c.run(t, "", "dashboard")
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Serum")
	assert.Contains(t, res.stdout, "#123456")
}

func TestUsageErrors(t *testing.T) {
	c := newCLI(t)
	tests := []struct {
		name string
		args []string
	}{
		{"unknown command", []string{"nosuch"}},
		{"unknown flag", []string{"banners", "list", "--nope"}},
		{"extra argument", []string{"banners", "list", "extra"}},
		{"missing argument", []string{"orders", "get"}},
		{"bad output format", []string{"banners", "list", "-o", "xml"}},
		{"bad storage", []string{"banners", "list", "--token-storage", "cloud"}},
		{"bad api base", []string{"banners", "list", "--api-base", "ftp://shop"}},
		{"bad status", []string{"banners", "create", "--image", "x.png", "--status", "maybe"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := c.run(t, "", tt.args...)
			assert.Equal(t, exitUsage, res.code, res.stderr)
			assert.Contains(t, res.stderr, "shopadmin --help")
		})
	}
}

func TestVersion(t *testing.T) {
	c := newCLI(t)
	res := c.run(t, "", "version")
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "shopadmin version: dev")
	assert.Contains(t, res.stdout, "Platform:")
}

func TestUserError(t *testing.T) {
	terminated := &authclient.RefreshError{Err: errors.New("401")}
	tests := []struct {
		name  string
		err   error
		want  error
		usage bool
	}{
		{"session over", authclient.ErrSessionTerminated, errSignInAgain, false},
		{"wrapped session over", errors.Join(errors.New("list"), authclient.ErrSessionTerminated), errSignInAgain, false},
		{"unknown flag", errors.New("unknown flag: --x"), nil, true},
		{"other", terminated, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := userError(tt.err)
			if tt.want != nil {
				assert.ErrorIs(t, got, tt.want)
			}
			assert.Equal(t, tt.usage, isUsageError(got))
		})
	}

	assert.EqualError(t, userError(context.Canceled), "interrupted")
}

func TestValidateServerURL(t *testing.T) {
	tests := []struct {
		url     string
		wantErr bool
	}{
		{"https://shop.example.com/api/v1", false},
		{"http://localhost:5000/api/v1", false},
		{"", true},
		{"ftp://shop.example.com", true},
		{"https://", true},
		{"://bad", true},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			err := validateServerURL(tt.url)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfigValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			APIBase:        "https://shop.example.com/api/v1",
			Profile:        "default",
			TokenStorage:   storageSQLite,
			RequestTimeout: time.Second,
			RefreshTimeout: time.Second,
			Output:         outputJSON,
		}
	}
	require.NoError(t, valid().validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty profile", func(c *Config) { c.Profile = "" }},
		{"zero timeout", func(c *Config) { c.RefreshTimeout = 0 }},
		{"unknown storage", func(c *Config) { c.TokenStorage = "s3" }},
		{"unknown output", func(c *Config) { c.Output = "yaml" }},
		{"no host", func(c *Config) { c.APIBase = "http:///api" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			assert.Error(t, cfg.validate())
		})
	}
}

func TestWarnPlainHTTP(t *testing.T) {
	var buf bytes.Buffer
	warnPlainHTTP(&buf, "https://shop.example.com")
	assert.Empty(t, buf.String())

	warnPlainHTTP(&buf, "HTTP://localhost:5000")
	assert.Contains(t, buf.String(), "WARNING")
}

func TestParseReturnItem(t *testing.T) {
	item, err := parseReturnItem("p1:3")
	require.NoError(t, err)
	assert.Equal(t, "p1", item.ProductID)
	assert.Equal(t, 3, item.Quantity)

	item, err = parseReturnItem("p2")
	require.NoError(t, err)
	assert.Equal(t, 1, item.Quantity)

	_, err = parseReturnItem("p3:many")
	assert.True(t, isUsageError(err))
}

func TestParseStatus(t *testing.T) {
	st, err := parseStatus("hidden")
	require.NoError(t, err)
	assert.EqualValues(t, "HIDDEN", st)

	_, err = parseOrderStatus("lost")
	assert.True(t, isUsageError(err))
	ost, err := parseOrderStatus("in_shipping")
	require.NoError(t, err)
	assert.EqualValues(t, "IN_SHIPPING", ost)
}

func TestIsTTY(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "out")
	require.NoError(t, err)
	defer f.Close()
	assert.False(t, isTTY(f), "a regular file is not a terminal")
}
