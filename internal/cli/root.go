// Package cli implements the nismart command-line client.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/common-nighthawk/go-figure"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Paulndambo/nismart-go/client"
	"github.com/Paulndambo/nismart-go/internal/config"
	"github.com/Paulndambo/nismart-go/session"
	"github.com/Paulndambo/nismart-go/session/filestore"
	"github.com/Paulndambo/nismart-go/session/redisstore"
)

// App carries the configuration shared by every subcommand.
type App struct {
	cfg config.Config

	apiURL      string
	sessionFile string
	redisAddr   string
	verbose     bool

	out io.Writer
}

// NewRootCmd builds the nismart command tree.
func NewRootCmd(cfg config.Config) *cobra.Command {
	app := &App{cfg: cfg, out: os.Stdout}

	cmd := &cobra.Command{
		Use:          "nismart",
		Short:        "Command-line client for the Nismart banking API",
		SilenceUsage: true,
		Run: func(cmd *cobra.Command, args []string) {
			displayAppName(cfg.GetAppName())
			_ = cmd.Help()
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&app.apiURL, "api-url", cfg.GetAPIBaseURL(), "Base URL of the Nismart API")
	flags.StringVar(&app.sessionFile, "session-file", cfg.GetSessionFile(), "Path of the on-disk session file")
	flags.StringVar(&app.redisAddr, "redis-addr", cfg.GetRedisAddr(), "Redis address for a shared session store (overrides the session file)")
	flags.BoolVarP(&app.verbose, "verbose", "v", false, "Log requests to stderr")

	cmd.AddCommand(
		newRegisterCmd(app),
		newLoginCmd(app),
		newLogoutCmd(app),
		newWhoamiCmd(app),
		newUsersCmd(app),
		newBalanceCmd(app),
		newHistoryCmd(app),
		newDepositCmd(app),
		newWithdrawCmd(app),
		newTransferCmd(app),
		newAdminCmd(app),
	)
	return cmd
}

// newClient wires a gateway to the configured session store.
func (a *App) newClient() (*client.Client, error) {
	store, err := a.newStore()
	if err != nil {
		return nil, err
	}

	options := []client.Option{
		client.WithTimeout(a.cfg.GetRequestTimeout()),
		client.WithSessionExpiredHook(func() {
			fmt.Fprintln(os.Stderr, "Session expired. Please log in again.")
		}),
	}
	if a.verbose {
		logger := zerolog.New(zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
			w.Out = os.Stderr
		})).With().Timestamp().Logger()
		options = append(options, client.WithLogger(logger))
	}
	return client.New(a.apiURL, store, options...)
}

func (a *App) newStore() (session.Store, error) {
	if a.redisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: a.redisAddr})
		return redisstore.New(rdb, "nismart:session")
	}
	return filestore.New(a.sessionFile)
}

// currentUserID resolves the user id for commands that default to "me".
func (a *App) currentUserID() (int, error) {
	store, err := a.newStore()
	if err != nil {
		return 0, err
	}
	profile, ok := store.Profile()
	if !ok {
		return 0, fmt.Errorf("not logged in: run 'nismart login' first")
	}
	return profile.ID, nil
}

func displayAppName(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
