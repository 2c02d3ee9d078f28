package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/orci-tz/mafunzo/internal/cli/formatter"
	"github.com/orci-tz/mafunzo/pkg/client"
)

func newLoginCmd(app *App) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the dashboard API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" || password == "" {
				err := newForm(
					huh.NewGroup(
						requiredInput("Jina la mtumiaji", &username),
						huh.NewInput().
							Title("Nenosiri").
							EchoMode(huh.EchoModePassword).
							Value(&password),
					),
				).Run()
				if err != nil {
					return err
				}
			}
			if _, err := app.Client.Login(cmd.Context(), strings.TrimSpace(username), password); err != nil {
				if errors.Is(err, client.ErrUnauthorized) {
					return errors.New("jina la mtumiaji au nenosiri si sahihi")
				}
				return fmt.Errorf("login: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success("Umeingia kama "+strings.TrimSpace(username)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password (prompted when omitted)")

	return cmd
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Client.Session().Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("Umetoka."))
			return nil
		},
	}
}
