package tui

import (
	"fmt"
	"io"

	tea "charm.land/bubbletea/v2"
	"github.com/go-authgate/shop-admin-cli/authclient"
)

// Displayer abstracts all progress output of a command. It receives the request
// client's session events as well.
type Displayer interface {
	authclient.Events

	Banner(title string)
	LoggingIn(email string)
	LoginOK(email string)
	TokenSaved(location string)
	TokenSaveFailed(err error)
	Requesting(what string)
	RequestOK(what string)
	Done(summary string)
	Fatal(err error)
}

// PlainDisplayer writes plain text lines to w.
// Used when stderr is not a TTY (pipes, CI, SSH without pty).
type PlainDisplayer struct {
	w io.Writer
}

// NewPlainDisplayer creates a PlainDisplayer that writes to w.
func NewPlainDisplayer(w io.Writer) *PlainDisplayer {
	return &PlainDisplayer{w: w}
}

func (p *PlainDisplayer) Banner(title string) {
	fmt.Fprintf(p.w, "=== %s ===\n", title)
}

func (p *PlainDisplayer) LoggingIn(email string) {
	fmt.Fprintf(p.w, "Signing in as %s...\n", email)
}

func (p *PlainDisplayer) LoginOK(email string) {
	fmt.Fprintf(p.w, "Signed in as %s\n", email)
}

func (p *PlainDisplayer) TokenSaved(location string) {
	fmt.Fprintf(p.w, "Tokens saved to %s\n", location)
}

func (p *PlainDisplayer) TokenSaveFailed(err error) {
	fmt.Fprintf(p.w, "Warning: Failed to save tokens: %v\n", err)
}

func (p *PlainDisplayer) Requesting(what string) {
	fmt.Fprintf(p.w, "Fetching %s...\n", what)
}

func (p *PlainDisplayer) RequestOK(string) {}

func (p *PlainDisplayer) AccessTokenRejected(method, path string) {
	fmt.Fprintf(p.w, "Access token rejected on %s %s (401), refreshing...\n", method, path)
}

func (p *PlainDisplayer) Refreshing() {}

func (p *PlainDisplayer) RefreshOK() {
	fmt.Fprintln(p.w, "Token refreshed successfully!")
}

func (p *PlainDisplayer) RefreshFailed(err error) {
	fmt.Fprintf(p.w, "Refresh failed: %v\n", err)
}

func (p *PlainDisplayer) TokenRefreshedRetrying() {
	fmt.Fprintln(p.w, "Token refreshed, retrying request...")
}

func (p *PlainDisplayer) SessionTerminated() {
	fmt.Fprintln(p.w, "Session ended, stored tokens cleared.")
}

func (p *PlainDisplayer) Done(summary string) {
	if summary != "" {
		fmt.Fprintln(p.w, summary)
	}
}

func (p *PlainDisplayer) Fatal(err error) {
	fmt.Fprintf(p.w, "Error: %v\n", err)
}

// NoopDisplayer is a no-op implementation used in tests and with --quiet.
type NoopDisplayer struct {
	authclient.NopEvents
}

func (NoopDisplayer) Banner(_ string)         {}
func (NoopDisplayer) LoggingIn(_ string)      {}
func (NoopDisplayer) LoginOK(_ string)        {}
func (NoopDisplayer) TokenSaved(_ string)     {}
func (NoopDisplayer) TokenSaveFailed(_ error) {}
func (NoopDisplayer) Requesting(_ string)     {}
func (NoopDisplayer) RequestOK(_ string)      {}
func (NoopDisplayer) Done(_ string)           {}
func (NoopDisplayer) Fatal(_ error)           {}

// ProgramDisplayer sends BubbleTea messages to a running tea.Program.
type ProgramDisplayer struct {
	p *tea.Program
}

// NewProgramDisplayer creates a ProgramDisplayer that sends messages to p.
func NewProgramDisplayer(p *tea.Program) *ProgramDisplayer {
	return &ProgramDisplayer{p: p}
}

func (t *ProgramDisplayer) Banner(title string) {
	t.p.Send(MsgBanner{Title: title})
}

func (t *ProgramDisplayer) LoggingIn(email string) {
	t.p.Send(MsgLoggingIn{Email: email})
}

func (t *ProgramDisplayer) LoginOK(email string) {
	t.p.Send(MsgLoginOK{Email: email})
}

func (t *ProgramDisplayer) TokenSaved(location string) {
	t.p.Send(MsgTokenSaved{Location: location})
}

func (t *ProgramDisplayer) TokenSaveFailed(err error) {
	t.p.Send(MsgTokenSaveFailed{Err: err})
}

func (t *ProgramDisplayer) Requesting(what string) {
	t.p.Send(MsgRequesting{What: what})
}

func (t *ProgramDisplayer) RequestOK(what string) {
	t.p.Send(MsgRequestOK{What: what})
}

func (t *ProgramDisplayer) AccessTokenRejected(method, path string) {
	t.p.Send(MsgAccessTokenRejected{Method: method, Path: path})
}

func (t *ProgramDisplayer) Refreshing() {
	t.p.Send(MsgRefreshing{})
}

func (t *ProgramDisplayer) RefreshOK() {
	t.p.Send(MsgRefreshOK{})
}

func (t *ProgramDisplayer) RefreshFailed(err error) {
	t.p.Send(MsgRefreshFailed{Err: err})
}

func (t *ProgramDisplayer) TokenRefreshedRetrying() {
	t.p.Send(MsgTokenRefreshedRetrying{})
}

func (t *ProgramDisplayer) SessionTerminated() {
	t.p.Send(MsgSessionTerminated{})
}

func (t *ProgramDisplayer) Done(summary string) {
	t.p.Send(MsgDone{Summary: summary})
}

func (t *ProgramDisplayer) Fatal(err error) {
	t.p.Send(MsgFatal{Err: err})
}
