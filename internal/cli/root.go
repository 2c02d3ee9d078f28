package cli

import (
	"github.com/spf13/cobra"

	"github.com/orci-tz/mafunzo/internal/utils"
	"github.com/orci-tz/mafunzo/pkg/client"
)

// App holds what the CLI commands share: the API client and the message language.
type App struct {
	Client *client.Client
	Locale string
}

func (a *App) locale() string {
	if a.Locale == "" {
		return utils.DefaultLocale
	}
	return a.Locale
}

// NewRootCmd creates the top-level "surveyctl" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "surveyctl",
		Short:         "Training history survey intake and reports",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&app.Locale, "lang", app.locale(), "Message language (sw|en)")

	root.AddCommand(
		newLoginCmd(app),
		newLogoutCmd(app),
		newIntakeCmd(app),
		newReportCmd(app),
		newResponsesCmd(app),
	)

	return root
}

func (a *App) message(key string) string {
	return utils.T(a.locale(), key)
}
