package main

import (
	"bytes"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/go-authgate/shop-admin-cli/admin"
	"github.com/go-authgate/shop-admin-cli/authclient"
	"github.com/go-authgate/shop-admin-cli/credstore"
	"github.com/go-authgate/shop-admin-cli/tui"
	"github.com/rs/zerolog"
	"golang.org/x/term"
	"gopkg.in/natefinch/lumberjack.v2"
)

// uiAnnotation on a command selects its progress output. Commands that prompt on the
// terminal use plain output so the TUI does not fight the prompt.
const (
	uiAnnotation = "ui"
	uiPlain      = "plain"
	uiNone       = "none"
)

// app carries everything a command needs. It is built once per invocation by the
// root command's pre-run hook.
type app struct {
	cfg         *Config
	stdin       io.Reader
	stdout      io.Writer
	stderr      io.Writer
	interactive bool

	log      zerolog.Logger
	display  tui.Displayer
	store    *credstore.Store
	client   *authclient.Client
	svc      *admin.Service
	auth     *admin.Authenticator
	location string

	httpClient *http.Client
	closers    []io.Closer

	// Set while the TUI runs: command output is held back until it quits.
	program  *tea.Program
	uiDone   sync.WaitGroup
	buffered *bytes.Buffer
	realOut  io.Writer
}

func newApp(cfg *Config, stdout, stderr io.Writer, interactive bool) *app {
	return &app{
		cfg:         cfg,
		stdin:       os.Stdin,
		stdout:      stdout,
		stderr:      stderr,
		interactive: interactive,
		log:         zerolog.Nop(),
		display:     tui.NoopDisplayer{},
	}
}

// setup wires logging, storage, the request client and the services.
func (a *app) setup(mode, title string) error {
	if err := a.cfg.validate(); err != nil {
		return usageError{err}
	}
	warnPlainHTTP(a.stderr, a.cfg.APIBase)

	a.log = a.newLogger()
	a.startDisplay(mode)
	a.display.Banner(title)

	storage, err := a.openStorage()
	if err != nil {
		return err
	}
	a.store = credstore.New(storage, credstore.WithLogger(a.log))

	if a.httpClient == nil {
		a.httpClient = &http.Client{
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{
					MinVersion: tls.VersionTLS12,
				},
				MaxIdleConns:        10,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		}
	}

	a.client, err = authclient.New(a.cfg.APIBase, a.store,
		authclient.WithHTTPClient(a.httpClient),
		authclient.WithRequestTimeout(a.cfg.RequestTimeout),
		authclient.WithRefreshTimeout(a.cfg.RefreshTimeout),
		authclient.WithRefreshPath(a.cfg.RefreshPath),
		authclient.WithLogger(a.log),
		authclient.WithEvents(a.display),
		authclient.OnSessionTerminated(func() {
			a.log.Info().Str("profile", a.cfg.Profile).Msg("session terminated, tokens cleared")
		}),
	)
	if err != nil {
		return err
	}
	a.svc = admin.New(a.client, admin.WithLogger(a.log))
	a.auth, err = admin.NewAuthenticator(a.cfg.APIBase, a.store, a.httpClient, a.log)
	return err
}

func (a *app) newLogger() zerolog.Logger {
	if !a.cfg.Debug {
		return zerolog.Nop()
	}
	if a.cfg.LogFile != "" {
		lj := &lumberjack.Logger{
			Filename:   a.cfg.LogFile,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		}
		a.closers = append(a.closers, lj)
		return zerolog.New(lj).With().Timestamp().Logger().Level(zerolog.DebugLevel)
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: a.stderr, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger().Level(zerolog.DebugLevel)
}

// openStorage returns the durable half of the token store and remembers where it
// lives for messages.
func (a *app) openStorage() (credstore.Storage, error) {
	switch a.cfg.TokenStorage {
	case storageSQLite:
		s, err := credstore.OpenSQLiteStorage(a.cfg.TokenDB, a.cfg.Profile)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, s)
		a.location = a.cfg.TokenDB
		return s, nil
	case storageMemory:
		a.location = "memory"
		return credstore.NewMemoryStorage(), nil
	default:
		a.location = a.cfg.TokenFile
		return credstore.NewFileStorage(a.cfg.TokenFile, a.cfg.Profile), nil
	}
}

// startDisplay picks the progress output. The TUI renders on stderr and only when it
// is a terminal; stdout pipes stay clean.
func (a *app) startDisplay(mode string) {
	switch {
	case a.cfg.Quiet || mode == uiNone:
		a.display = tui.NoopDisplayer{}
	case !a.interactive || mode == uiPlain:
		a.display = tui.NewPlainDisplayer(a.stderr)
	default:
		// WithInput(nil): disable stdin/keyboard input so BubbleTea skips terminal
		// capability queries. Ctrl+C is handled by signal.NotifyContext.
		a.program = tea.NewProgram(tui.NewModel(), tea.WithOutput(a.stderr), tea.WithInput(nil))
		a.uiDone.Add(1)
		go func() {
			defer a.uiDone.Done()
			if _, err := a.program.Run(); err != nil {
				fmt.Fprintf(a.stderr, "TUI error: %v\n", err)
			}
		}()
		a.buffered = &bytes.Buffer{}
		a.realOut, a.stdout = a.stdout, a.buffered
		a.display = tui.NewProgramDisplayer(a.program)
	}
}

// shutdown stops the TUI, flushes held output and closes storage.
func (a *app) shutdown() {
	if a.program != nil {
		a.program.Quit() // let BubbleTea drain terminal query responses before exiting
		a.uiDone.Wait()
		a.program = nil
		a.stdout = a.realOut
		if a.buffered.Len() > 0 {
			_, _ = a.buffered.WriteTo(a.stdout)
		}
	}
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			a.log.Warn().Err(err).Msg("close failed")
		}
	}
	a.closers = nil
}

// fetch wraps one admin call in progress events.
func (a *app) fetch(what string, fn func() error) error {
	a.display.Requesting(what)
	if err := fn(); err != nil {
		return err
	}
	a.display.RequestOK(what)
	return nil
}

// usageError marks errors caused by how the command was invoked.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func isUsageError(err error) bool {
	var ue usageError
	return errors.As(err, &ue)
}

// isTTY reports whether f is an interactive terminal.
func isTTY(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
