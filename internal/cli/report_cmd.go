package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/orci-tz/mafunzo/internal/cli/formatter"
	"github.com/orci-tz/mafunzo/internal/services"
	"github.com/orci-tz/mafunzo/pkg/client"
)

func newReportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Dashboard figures and the training return",
	}

	cmd.AddCommand(
		newReportSummaryCmd(app),
		newReportMatrixCmd(app),
	)

	return cmd
}

func newReportSummaryCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show headline counts, training status and departments",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := app.Client.FetchSummary(cmd.Context(), app.locale())
			if err != nil {
				return app.userError(err)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSummary(d))
			return nil
		},
	}
}

func newReportMatrixCmd(app *App) *cobra.Command {
	var start, end int
	var format, out string

	cmd := &cobra.Command{
		Use:   "matrix",
		Short: "Show or download the year-by-year training return",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			switch format {
			case "", services.FormatJSON:
				m, err := app.Client.FetchYearMatrix(cmd.Context(), start, end)
				if err != nil {
					return app.userError(err)
				}
				fmt.Fprint(w, formatter.FormatYearMatrix(*m))
				return nil
			case services.FormatCSV, services.FormatXLSX, services.FormatPDF:
			default:
				return fmt.Errorf("unsupported format %q (csv, xlsx or pdf)", format)
			}

			res, err := app.Client.DownloadYearMatrix(cmd.Context(), format, start, end)
			if err != nil {
				return app.userError(err)
			}
			path := out
			if path == "" {
				path = res.Filename
			} else if info, err := os.Stat(path); err == nil && info.IsDir() {
				path = filepath.Join(path, res.Filename)
			}
			if err := os.WriteFile(path, res.Data, 0o644); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
			fmt.Fprintln(w, formatter.Success(fmt.Sprintf("%s (%d bytes)", path, len(res.Data))))
			return nil
		},
	}

	cmd.Flags().IntVar(&start, "start", 0, "First year (server default when 0)")
	cmd.Flags().IntVar(&end, "end", 0, "Last year (server default when 0)")
	cmd.Flags().StringVar(&format, "format", "", "Download as csv, xlsx or pdf instead of printing")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file or directory for downloads")

	return cmd
}

func newResponsesCmd(app *App) *cobra.Command {
	var page, size int

	cmd := &cobra.Command{
		Use:   "responses",
		Short: "List submitted responses a page at a time",
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := app.Client.FetchResponses(cmd.Context())
			if err != nil {
				return app.userError(err)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatDetailPage(services.PageResponses(records, page, size)))
			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVar(&size, "size", services.DefaultPageSize, "Rows per page")

	return cmd
}

// userError turns API failures into the localized notice a dashboard user
// would see, keeping the original error wrapped.
func (a *App) userError(err error) error {
	if errors.Is(err, client.ErrUnauthorized) || errors.Is(err, client.ErrForbidden) {
		return fmt.Errorf("%s: %w", client.UserMessage(err, a.locale()), err)
	}
	var fe *client.FetchError
	if errors.As(err, &fe) {
		return fmt.Errorf("%s (HTTP %d): %w", client.UserMessage(err, a.locale()), fe.Status, err)
	}
	return err
}
