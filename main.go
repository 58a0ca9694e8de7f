package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/go-authgate/shop-admin-cli/authclient"
	"github.com/go-authgate/shop-admin-cli/tui"
	"github.com/spf13/cobra"
)

// Exit codes.
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
	exitSession = 3
)

// errSignInAgain is what the user sees when the session could not be refreshed.
var errSignInAgain = errors.New("session expired, please sign in again with `shopadmin login`")

func main() {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitFailure)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := execute(ctx, newApp(cfg, os.Stdout, os.Stderr, isTTY(os.Stderr)), os.Args[1:])
	stop()
	os.Exit(code)
}

// execute runs one command line and returns the process exit code.
func execute(ctx context.Context, a *app, args []string) int {
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	err := root.ExecuteContext(ctx)
	if err != nil {
		err = userError(err)
		a.display.Fatal(err)
	}
	a.shutdown()

	if err == nil {
		return exitOK
	}
	// The TUI and noop displayers leave the final message to us.
	if _, plain := a.display.(*tui.PlainDisplayer); !plain {
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
	}
	switch {
	case errors.Is(err, errSignInAgain):
		return exitSession
	case isUsageError(err):
		fmt.Fprintln(a.stderr, "Run 'shopadmin --help' for usage.")
		return exitUsage
	default:
		return exitFailure
	}
}

// userError rewrites errors into what a shop admin can act on.
func userError(err error) error {
	switch {
	case errors.Is(err, authclient.ErrSessionTerminated):
		return errSignInAgain
	case errors.Is(err, context.Canceled):
		return errors.New("interrupted")
	case isUsageError(err):
		return err
	case strings.HasPrefix(err.Error(), "unknown command"),
		strings.HasPrefix(err.Error(), "unknown flag"),
		strings.HasPrefix(err.Error(), "unknown shorthand flag"):
		return usageError{err}
	}
	return err
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "shopadmin",
		Short:         "Administer the storefront from the command line",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(uiMode(cmd), cmd.CommandPath())
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&a.cfg.APIBase, "api-base", a.cfg.APIBase, "API root URL (or API_BASE env)")
	f.StringVar(&a.cfg.Profile, "profile", a.cfg.Profile, "credential profile (or PROFILE env)")
	f.StringVar(&a.cfg.TokenStorage, "token-storage", a.cfg.TokenStorage, "token storage: file, sqlite or memory (or TOKEN_STORAGE env)")
	f.StringVar(&a.cfg.TokenFile, "token-file", a.cfg.TokenFile, "token file for file storage (or TOKEN_FILE env)")
	f.StringVar(&a.cfg.TokenDB, "token-db", a.cfg.TokenDB, "database for sqlite storage (or TOKEN_DB env)")
	f.DurationVar(&a.cfg.RequestTimeout, "request-timeout", a.cfg.RequestTimeout, "timeout of one API request (or REQUEST_TIMEOUT env)")
	f.DurationVar(&a.cfg.RefreshTimeout, "refresh-timeout", a.cfg.RefreshTimeout, "timeout of a token refresh (or REFRESH_TIMEOUT env)")
	f.StringVar(&a.cfg.RefreshPath, "refresh-path", a.cfg.RefreshPath, "token refresh endpoint (or REFRESH_PATH env)")
	f.StringVarP(&a.cfg.Output, "output", "o", a.cfg.Output, "output format: table or json (or OUTPUT env)")
	f.BoolVar(&a.cfg.Debug, "debug", a.cfg.Debug, "enable debug logging (or DEBUG env)")
	f.StringVar(&a.cfg.LogFile, "log-file", a.cfg.LogFile, "write debug logs to a rotating file (or LOG_FILE env)")
	f.BoolVarP(&a.cfg.Quiet, "quiet", "q", a.cfg.Quiet, "no progress output (or QUIET env)")

	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err}
	})
	root.CompletionOptions.HiddenDefaultCmd = true

	root.AddCommand(
		loginCmd(a),
		logoutCmd(a),
		sessionCmd(a),
		bannersCmd(a),
		brandsCmd(a),
		categoriesCmd(a),
		subcategoriesCmd(a),
		productsCmd(a),
		ordersCmd(a),
		deliveryCmd(a),
		stockCmd(a),
		notificationsCmd(a),
		returnsCmd(a),
		reportCmd(a),
		dashboardCmd(a),
		versionCmd(),
	)
	return root
}

// uiMode returns the nearest ui annotation of cmd or its parents.
func uiMode(cmd *cobra.Command) string {
	for c := cmd; c != nil; c = c.Parent() {
		if m, ok := c.Annotations[uiAnnotation]; ok {
			return m
		}
	}
	return ""
}

// exactArgs is cobra.ExactArgs reporting a usage error.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return usageError{err}
		}
		return nil
	}
}

// noArgs is cobra.NoArgs reporting a usage error.
func noArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.NoArgs(cmd, args); err != nil {
		return usageError{err}
	}
	return nil
}

// out is where command results go.
func (a *app) out() io.Writer { return a.stdout }
