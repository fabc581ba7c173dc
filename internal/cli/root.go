// Package cli exposes every storefront operation as a cobra command.
package cli

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/Scriprto/steal-brainrot-shop/internal/backup"
	"github.com/Scriprto/steal-brainrot-shop/internal/middleware"
	"github.com/Scriprto/steal-brainrot-shop/internal/service"
	"github.com/Scriprto/steal-brainrot-shop/pkg/apierror"
	"github.com/Scriprto/steal-brainrot-shop/pkg/response"

	"github.com/spf13/cobra"
)

// App holds what the commands operate on.
type App struct {
	Shop *service.Shop
	// Backups is nil when no backup driver is configured.
	Backups        *backup.Manager
	BackupInterval time.Duration
	Version        string
	Debug          bool
}

type outputFormat struct {
	value string
}

// NewRootCommand builds the storefront command tree.
func NewRootCommand(app *App) *cobra.Command {
	out := &outputFormat{value: "text"}

	root := &cobra.Command{
		Use:           "storefront",
		Short:         "Steal A Brainrot storefront",
		Long:          "Browse the catalog, fill a basket, check out and hand off purchases through per-unit chats.",
		Version:       app.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if out.value != "text" && out.value != "json" {
				return apierror.ValidationError("output must be text or json")
			}
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&out.value, "output", "o", "text", "Output format: text or json")

	root.AddCommand(
		newCatalogCommand(app, out),
		newAccountCommand(app, out),
		newBasketCommand(app, out),
		newCheckoutCommand(app, out),
		newChatCommand(app, out),
		newOrdersCommand(app, out),
		newAdminCommand(app, out),
		newBackupCommand(app, out),
		newShellCommand(app, out),
	)
	return root
}

// wrap applies the command middleware.
func (a *App) wrap(run middleware.RunFunc) func(*cobra.Command, []string) error {
	wrappers := []func(middleware.RunFunc) middleware.RunFunc{middleware.Recovery, middleware.CommandID}
	if a.Debug {
		wrappers = append(wrappers, middleware.Logging)
	}
	return middleware.Chain(run, wrappers...)
}

// render writes data as a JSON envelope or through text.
func render(cmd *cobra.Command, out *outputFormat, data interface{}, text func(w io.Writer)) error {
	w := cmd.OutOrStdout()
	if out.value == "json" {
		return response.JSON(w, data)
	}
	text(w)
	return nil
}

func table(w io.Writer, header string, rows func(tw *tabwriter.Writer)) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, header)
	rows(tw)
	tw.Flush()
}

// WriteError prints err in the selected format and returns the exit code.
func WriteError(w io.Writer, err error, asJSON bool) int {
	apiErr := apierror.From(err)
	if apiErr == nil {
		return 0
	}
	if asJSON {
		_ = response.Error(w, apiErr)
		return apiErr.ExitCode()
	}
	fmt.Fprintf(w, "Error: %s\n", apiErr.Message)
	for _, d := range apiErr.Details {
		fmt.Fprintf(w, "  %s: %s\n", d.Field, d.Message)
	}
	return apiErr.ExitCode()
}
