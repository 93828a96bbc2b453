// Package cli implements the portfolioctl commands.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jrsteele09/go-portfolio-client/coordinator"
	"github.com/jrsteele09/go-portfolio-client/internal/config"
	"github.com/jrsteele09/go-portfolio-client/internal/cookiestore"
	"github.com/jrsteele09/go-portfolio-client/internal/logging"
	"github.com/jrsteele09/go-portfolio-client/internal/output"
	"github.com/jrsteele09/go-portfolio-client/portfolio"
	"github.com/jrsteele09/go-portfolio-client/session"
	"github.com/jrsteele09/go-portfolio-client/session/filestore"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const commandTimeout = 2 * time.Minute

// app is the state shared by every command of one invocation.
type app struct {
	v       *viper.Viper
	cfgFile string
	noColor bool
	out     io.Writer
	errOut  io.Writer

	cfg     *config.ClientSettings
	log     zerolog.Logger
	printer *output.Printer
	client  *portfolio.Client
	jar     *cookiestore.Jar
}

// NewRootCommand builds the portfolioctl command tree writing to out and errOut.
func NewRootCommand(out, errOut io.Writer) *cobra.Command {
	a := &app{v: viper.New(), out: out, errOut: errOut}

	root := &cobra.Command{
		Use:   "portfolioctl",
		Short: "Portfolio admin console",
		Long: `portfolioctl reads and manages portfolio content from the terminal.

The session is kept in the state directory between runs, so log in once and
later commands reuse it. An expired session is refreshed automatically.

Example usage:
  portfolioctl login --email admin@example.com
  portfolioctl projects list
  portfolioctl messages list --unread
  portfolioctl resume upload ./cv.pdf`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default is .portfolioctl.yaml)")
	flags.String("api-url", "", "portfolio API base URL, e.g. http://localhost:8080/api")
	flags.String("state-dir", "", "directory holding the saved session")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.BoolVar(&a.noColor, "no-color", false, "disable coloured output")

	_ = a.v.BindPFlag("api.base_url", flags.Lookup("api-url"))
	_ = a.v.BindPFlag("state.dir", flags.Lookup("state-dir"))
	_ = a.v.BindPFlag("logging.level", flags.Lookup("log-level"))

	root.AddCommand(
		newLoginCmd(a), newLogoutCmd(a), newWhoamiCmd(a),
		newProfileCmd(a), newProjectsCmd(a), newSkillsCmd(a), newExperienceCmd(a),
		newEducationCmd(a), newBlogsCmd(a),
		newMessagesCmd(a), newContactCmd(a), newResumeCmd(a), newDashboardCmd(a),
	)
	return root
}

// Execute runs portfolioctl against the process's arguments.
func Execute() error {
	return NewRootCommand(os.Stdout, os.Stderr).Execute()
}

func (a *app) init() error {
	cfg, err := config.LoadClient(a.v, a.cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	a.cfg = cfg

	if a.log, err = logging.Setup(cfg.GetLogLevel(), cfg.GetEnv(), a.errOut); err != nil {
		return err
	}
	a.printer = output.NewPrinter(a.out, a.errOut, output.ResolveColors(a.noColor))

	if err := os.MkdirAll(cfg.GetStateDir(), 0o700); err != nil {
		return fmt.Errorf("creating state dir: %w", err)
	}
	a.jar, err = cookiestore.Open(cfg.GetStateDir(), cookiestore.WithLogger(a.log))
	if err != nil {
		return err
	}
	store := session.New(filestore.New(cfg.GetStateDir()), session.WithLogger(a.log))

	coord, err := coordinator.New(cfg.GetAPIBaseURL(),
		coordinator.NewHTTPClient(a.jar, cfg.GetRequestTimeout()),
		store,
		coordinator.WithLogger(a.log),
		coordinator.WithSessionExpiredStatus(cfg.GetSessionExpiredStatus()),
		coordinator.WithRefreshPath(cfg.GetRefreshPath()),
		coordinator.WithRefreshTimeout(cfg.GetRefreshTimeout()),
	)
	if err != nil {
		return err
	}
	a.client, err = portfolio.New(coord, store, portfolio.WithLogger(a.log))
	return err
}

func (a *app) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), commandTimeout)
}

// requireLogin fails fast when no session has been saved.
func (a *app) requireLogin() error {
	if !a.client.Session().IsAuthenticated() {
		return fmt.Errorf("not logged in, run 'portfolioctl login' first")
	}
	return nil
}
