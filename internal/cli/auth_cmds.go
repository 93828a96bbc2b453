package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	perrors "github.com/jrsteele09/go-portfolio-client/internal/errors"
	"github.com/jrsteele09/go-portfolio-client/portfolio"
	"github.com/spf13/cobra"
)

const passwordEnvVar = "PORTFOLIO_PASSWORD"

func newLoginCmd(a *app) *cobra.Command {
	var (
		email         string
		password      string
		passwordStdin bool
		remember      bool
	)
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in as the portfolio admin",
		Long: `Log in and save the session in the state directory.

The password is read from --password-stdin, then PORTFOLIO_PASSWORD, then --password.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" {
				return errors.New("--email is required")
			}
			switch {
			case passwordStdin:
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("reading password from stdin: %w", err)
				}
				password = strings.TrimRight(line, "\r\n")
			case os.Getenv(passwordEnvVar) != "":
				password = os.Getenv(passwordEnvVar)
			}
			if password == "" {
				return errors.New("a password is required")
			}

			ctx, cancel := a.context(cmd)
			defer cancel()
			user, err := a.client.Login(ctx, portfolio.Credentials{Email: email, Password: password, Remember: remember})
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}
			name := user.Username
			if name == "" {
				name = user.Email
			}
			a.printer.Success("Logged in as %s", name)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "admin email")
	cmd.Flags().StringVar(&password, "password", "", "admin password (prefer --password-stdin)")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read the password from stdin")
	cmd.Flags().BoolVar(&remember, "remember", false, "keep me signed in (the server decides the session lifetime)")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()
			err := a.client.Logout(ctx)
			if clearErr := a.jar.Clear(); clearErr != nil {
				a.printer.Warning("could not clear saved cookies: %v", clearErr)
			}
			if err != nil {
				a.printer.Warning("server logout failed: %v", err)
			}
			a.printer.Success("Logged out")
			return nil
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireLogin(); err != nil {
				return err
			}
			ctx, cancel := a.context(cmd)
			defer cancel()
			me, err := a.client.Me(ctx)
			if err != nil {
				if perrors.Is(err, perrors.ErrSessionExpired) {
					return errors.New("session expired, log in again")
				}
				return err
			}
			a.printer.Field("Email", me.Email)
			a.printer.Field("Name", me.Username)
			a.printer.Field("Roles", strings.Join(me.Roles, ", "))
			return nil
		},
	}
}
