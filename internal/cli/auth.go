package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Paulndambo/nismart-go/client"
	"github.com/Paulndambo/nismart-go/session"
)

func newRegisterCmd(app *App) *cobra.Command {
	var req client.RegisterRequest

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and log in",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.newClient()
			if err != nil {
				return err
			}
			if req.Password == "" {
				req.Password, err = promptLine("Password: ")
				if err != nil {
					return err
				}
			}
			req.Password2 = req.Password
			creds, err := c.Register(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(app.out, "Welcome, %s. Your account is ready.\n", creds.User.FullName())
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&req.Username, "username", "", "Username")
	flags.StringVar(&req.Email, "email", "", "Email address")
	flags.StringVar(&req.FirstName, "first-name", "", "First name")
	flags.StringVar(&req.LastName, "last-name", "", "Last name")
	flags.StringVar(&req.PhoneNumber, "phone", "", "Phone number")
	flags.StringVar(&req.Password, "password", "", "Password (prompted when omitted)")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("first-name")
	_ = cmd.MarkFlagRequired("last-name")
	return cmd
}

func newLoginCmd(app *App) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "login <username>",
		Short: "Log in and store the session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.newClient()
			if err != nil {
				return err
			}
			if password == "" {
				password, err = promptLine("Password: ")
				if err != nil {
					return err
				}
			}
			creds, err := c.Login(cmd.Context(), args[0], password)
			if err != nil {
				return err
			}
			fmt.Fprintf(app.out, "Logged in as %s.\n", creds.User.FullName())
			return nil
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "Password (prompted when omitted)")
	return cmd
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Discard the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.newClient()
			if err != nil {
				return err
			}
			if err := c.Logout(); err != nil {
				return err
			}
			fmt.Fprintln(app.out, "Logged out.")
			return nil
		},
	}
}

func newWhoamiCmd(app *App) *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user and token status",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := app.newStore()
			if err != nil {
				return err
			}

			if refresh {
				c, err := app.newClient()
				if err != nil {
					return err
				}
				if _, err := c.Profile(cmd.Context()); err != nil {
					return err
				}
			}

			profile, ok := store.Profile()
			if !ok {
				fmt.Fprintln(app.out, "Not logged in.")
				return nil
			}
			fmt.Fprintf(app.out, "%s <%s>", profile.FullName(), profile.Email)
			if profile.IsStaff {
				fmt.Fprint(app.out, " (staff)")
			}
			fmt.Fprintln(app.out)

			if access, ok := store.AccessToken(); ok {
				if claims, err := session.ParseClaims(access); err == nil && !claims.ExpiresAt.IsZero() {
					if claims.Expired(time.Now()) {
						fmt.Fprintf(app.out, "Access token expired at %s (will refresh on next call).\n", claims.ExpiresAt.Format(time.RFC1123))
					} else {
						fmt.Fprintf(app.out, "Access token valid until %s.\n", claims.ExpiresAt.Format(time.RFC1123))
					}
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&refresh, "refresh", false, "Fetch the profile from the server first")
	return cmd
}

func promptLine(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
