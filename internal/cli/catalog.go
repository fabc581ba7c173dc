package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/Scriprto/steal-brainrot-shop/internal/model"

	"github.com/spf13/cobra"
)

func newCatalogCommand(app *App, out *outputFormat) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "catalog",
		Aliases: []string{"items"},
		Short:   "Browse items",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all items",
		Args:  cobra.NoArgs,
		RunE: app.wrap(func(cmd *cobra.Command, args []string) error {
			items := app.Shop.Items()
			return render(cmd, out, items, func(w io.Writer) { printItems(w, items) })
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show <item-id>",
		Short: "Show one item",
		Args:  cobra.ExactArgs(1),
		RunE: app.wrap(func(cmd *cobra.Command, args []string) error {
			it, err := app.Shop.Item(args[0])
			if err != nil {
				return err
			}
			return render(cmd, out, it, func(w io.Writer) {
				fmt.Fprintf(w, "%s  %s\n%s\nPrice: %s  Stock: %d\n", it.ID, it.Name, it.Desc, it.Price, it.Stock)
			})
		}),
	})

	return cmd
}

func printItems(w io.Writer, items []model.Item) {
	table(w, "ID\tNAME\tPRICE\tSTOCK\tDESCRIPTION", func(tw *tabwriter.Writer) {
		for _, it := range items {
			stock := fmt.Sprint(it.Stock)
			if !it.InStock() {
				stock = "sold out"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", it.ID, it.Name, it.Price, stock, it.Desc)
		}
	})
}
