package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/go-authgate/shop-admin-cli/admin"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	version   = "dev"
	goVersion = runtime.Version()
	platform  = runtime.GOOS + "/" + runtime.GOARCH
)

func loginCmd(a *app) *cobra.Command {
	var email string
	var passwordStdin bool
	cmd := &cobra.Command{
		Use:         "login",
		Short:       "Sign in as a shop admin and store the session",
		Args:        noArgs,
		Annotations: map[string]string{uiAnnotation: uiPlain},
		RunE: func(cmd *cobra.Command, _ []string) error {
			in := bufio.NewReader(a.stdin)
			if email == "" {
				fmt.Fprint(a.stderr, "Email: ")
				line, err := in.ReadString('\n')
				if err != nil && !errors.Is(err, io.EOF) {
					return fmt.Errorf("failed to read email: %w", err)
				}
				email = strings.TrimSpace(line)
			}
			password, err := a.readPassword(in, passwordStdin)
			if err != nil {
				return err
			}

			a.display.LoggingIn(email)
			err = a.auth.Login(cmd.Context(), email, password)
			switch {
			case errors.Is(err, admin.ErrNotPersisted):
				a.display.TokenSaveFailed(err)
			case err != nil:
				return err
			default:
				a.display.TokenSaved(a.location)
			}
			a.display.LoginOK(email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", os.Getenv("SHOP_EMAIL"), "admin email (or SHOP_EMAIL env)")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read the password from stdin")
	return cmd
}

// readPassword prompts without echo on a terminal, otherwise reads one line.
func (a *app) readPassword(in *bufio.Reader, fromStdin bool) (string, error) {
	if f, ok := a.stdin.(*os.File); ok && !fromStdin && isTTY(f) {
		fmt.Fprint(a.stderr, "Password: ")
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(a.stderr)
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(b), nil
	}
	line, err := in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func logoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:         "logout",
		Short:       "Forget the stored session",
		Args:        noArgs,
		Annotations: map[string]string{uiAnnotation: uiNone},
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := a.auth.Logout(); err != nil {
				return fmt.Errorf("failed to clear stored tokens: %w", err)
			}
			fmt.Fprintf(a.out(), "Signed out of profile %s.\n", a.cfg.Profile)
			return nil
		},
	}
}

type sessionStatus struct {
	Profile         string     `json:"profile"`
	APIBase         string     `json:"apiBase"`
	Storage         string     `json:"storage"`
	SignedIn        bool       `json:"signedIn"`
	HasRefreshToken bool       `json:"hasRefreshToken"`
	Subject         string     `json:"subject,omitempty"`
	Email           string     `json:"email,omitempty"`
	Role            string     `json:"role,omitempty"`
	IssuedAt        *time.Time `json:"issuedAt,omitempty"`
	ExpiresAt       *time.Time `json:"expiresAt,omitempty"`
	Expired         bool       `json:"expired"`
}

func sessionCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:         "session",
		Short:       "Inspect the stored session",
		Annotations: map[string]string{uiAnnotation: uiNone},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show who is signed in and when the access token expires",
		Args:  noArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			creds := a.store.Get()
			st := sessionStatus{
				Profile:         a.cfg.Profile,
				APIBase:         a.cfg.APIBase,
				Storage:         a.cfg.TokenStorage + ":" + a.location,
				SignedIn:        creds.AccessToken != "",
				HasRefreshToken: creds.RefreshToken != "",
			}
			pairs := [][2]string{
				{"Profile", st.Profile},
				{"API", st.APIBase},
				{"Storage", st.Storage},
				{"Signed in", yesNo(st.SignedIn)},
				{"Refresh token", yesNo(st.HasRefreshToken)},
			}
			if info, err := admin.DescribeToken(creds.AccessToken); err == nil {
				st.Subject, st.Email, st.Role = info.Subject, info.Email, info.Role
				st.Expired = info.Expired(time.Now())
				if !info.IssuedAt.IsZero() {
					st.IssuedAt = &info.IssuedAt
				}
				if !info.ExpiresAt.IsZero() {
					st.ExpiresAt = &info.ExpiresAt
				}
				pairs = append(pairs,
					[2]string{"Subject", info.Subject},
					[2]string{"Email", info.Email},
					[2]string{"Role", info.Role},
					[2]string{"Issued", stamp(info.IssuedAt)},
					[2]string{"Expires", stamp(info.ExpiresAt)},
					[2]string{"Expired", yesNo(st.Expired)},
				)
			} else if st.SignedIn {
				a.log.Debug().Err(err).Msg("access token is opaque")
			}
			return a.renderPairs(st, pairs)
		},
	})
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  noArgs,
		// Nothing to set up.
		PersistentPreRun: func(*cobra.Command, []string) {},
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Println("shopadmin version:", version)
			cmd.Println("Go version:", goVersion)
			cmd.Println("Platform:", platform)
		},
	}
}
