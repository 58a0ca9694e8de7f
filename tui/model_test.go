package tui

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/go-authgate/shop-admin-cli/authclient"
)

// Compile-time checks that every displayer satisfies the request client's events.
var (
	_ authclient.Events = (*PlainDisplayer)(nil)
	_ authclient.Events = (*ProgramDisplayer)(nil)
	_ Displayer         = NoopDisplayer{}
	_ Displayer         = (*PlainDisplayer)(nil)
	_ Displayer         = (*ProgramDisplayer)(nil)
)

func update(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func TestModel_RefreshFlow(t *testing.T) {
	m := update(t, NewModel(),
		MsgBanner{Title: "Orders"},
		MsgRequesting{What: "orders"},
	)
	if m.state != stateWorking {
		t.Fatalf("state = %v, want working", m.state)
	}
	if !strings.Contains(m.viewMain(), "Fetching orders") {
		t.Errorf("main view missing activity:\n%s", m.viewMain())
	}

	m = update(t, m,
		MsgAccessTokenRejected{Method: "GET", Path: "/admin/orders"},
		MsgRefreshing{},
	)
	if m.state != stateRefreshing {
		t.Fatalf("state = %v, want refreshing", m.state)
	}

	m = update(t, m, MsgRefreshOK{}, MsgTokenRefreshedRetrying{})
	if m.state != stateWorking {
		t.Errorf("state = %v, want working after retry", m.state)
	}

	m = update(t, m, MsgDone{Summary: "12 orders"})
	if m.state != stateSuccess {
		t.Fatalf("state = %v, want success", m.state)
	}
	view := m.viewSuccess()
	for _, want := range []string{"12 orders", "GET /admin/orders", "Token refreshed successfully"} {
		if !strings.Contains(view, want) {
			t.Errorf("success view missing %q:\n%s", want, view)
		}
	}
}

func TestModel_Fatal(t *testing.T) {
	m := update(t, NewModel(),
		MsgBanner{Title: "Banners"},
		MsgRequesting{What: "banners"},
		MsgRefreshFailed{Err: errors.New("refresh token revoked")},
		MsgSessionTerminated{},
		MsgFatal{Err: errors.New("session expired")},
	)
	if m.state != stateError {
		t.Fatalf("state = %v, want error", m.state)
	}
	view := m.viewError()
	for _, want := range []string{"Banners failed", "session expired", "refresh token revoked", "stored tokens cleared"} {
		if !strings.Contains(view, want) {
			t.Errorf("error view missing %q:\n%s", want, view)
		}
	}
}

func TestModel_ElapsedTimer(t *testing.T) {
	m := NewModel()
	next, cmd := m.Update(MsgLoggingIn{Email: "a@b"})
	m = next.(Model)
	if cmd == nil {
		t.Fatal("expected a tick command when work starts")
	}

	// A second start while the timer runs must not add another tick loop.
	if _, cmd := m.Update(MsgRequesting{What: "x"}); cmd != nil {
		t.Error("timer restarted while already ticking")
	}

	m = update(t, m, tickMsg(m.started.Add(3*time.Second)))
	if m.elapsed != 3*time.Second {
		t.Errorf("elapsed = %v, want 3s", m.elapsed)
	}

	m = update(t, m, MsgDone{}, tickMsg(time.Now()))
	if m.ticking {
		t.Error("timer should stop after the command finished")
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0s"},
		{-time.Second, "0s"},
		{1500 * time.Millisecond, "2s"},
		{59 * time.Second, "59s"},
		{61 * time.Second, "1m 1s"},
		{10 * time.Minute, "10m 0s"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestPlainDisplayer(t *testing.T) {
	var buf bytes.Buffer
	d := NewPlainDisplayer(&buf)
	d.Banner("Shop Admin")
	d.AccessTokenRejected("GET", "/admin/banners")
	d.Refreshing()
	d.RefreshOK()
	d.TokenRefreshedRetrying()
	d.Done("")
	d.Fatal(errors.New("boom"))

	want := "=== Shop Admin ===\n" +
		"Access token rejected on GET /admin/banners (401), refreshing...\n" +
		"Token refreshed successfully!\n" +
		"Token refreshed, retrying request...\n" +
		"Error: boom\n"
	if buf.String() != want {
		t.Errorf("output =\n%s\nwant\n%s", buf.String(), want)
	}
}
