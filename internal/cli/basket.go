package cli

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/Scriprto/steal-brainrot-shop/internal/service"
	"github.com/Scriprto/steal-brainrot-shop/pkg/apierror"

	"github.com/spf13/cobra"
)

func newBasketCommand(app *App, out *outputFormat) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "basket",
		Short: "Manage the basket",
	}

	show := func(cmd *cobra.Command) error {
		view, err := app.Shop.Basket(cmd.Context())
		if err != nil {
			return err
		}
		return render(cmd, out, view, func(w io.Writer) { printBasket(w, view) })
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show basket contents and total",
		Args:  cobra.NoArgs,
		RunE: app.wrap(func(cmd *cobra.Command, args []string) error {
			return show(cmd)
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add <item-id>",
		Short: "Add one unit",
		Args:  cobra.ExactArgs(1),
		RunE: app.wrap(func(cmd *cobra.Command, args []string) error {
			if err := app.Shop.AddToBasket(cmd.Context(), args[0]); err != nil {
				return err
			}
			return show(cmd)
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <item-id> <quantity>",
		Short: "Set the quantity of a line, clamped to stock",
		Args:  cobra.ExactArgs(2),
		RunE: app.wrap(func(cmd *cobra.Command, args []string) error {
			qty, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return apierror.ValidationError("quantity must be a number",
					apierror.FieldError{Field: "quantity", Message: err.Error()})
			}
			if err := app.Shop.SetBasketQuantity(cmd.Context(), args[0], qty); err != nil {
				return err
			}
			return show(cmd)
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <item-id>",
		Short: "Remove a line",
		Args:  cobra.ExactArgs(1),
		RunE: app.wrap(func(cmd *cobra.Command, args []string) error {
			if err := app.Shop.RemoveFromBasket(cmd.Context(), args[0]); err != nil {
				return err
			}
			return show(cmd)
		}),
	})

	return cmd
}

func printBasket(w io.Writer, view service.BasketView) {
	if len(view.Lines) == 0 {
		fmt.Fprintln(w, "Basket is empty.")
		return
	}
	table(w, "ID\tNAME\tQTY\tPRICE\tSUBTOTAL", func(tw *tabwriter.Writer) {
		for _, l := range view.Lines {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", l.ItemID, l.Name, l.Quantity, l.UnitPrice, l.LineTotal)
		}
	})
	fmt.Fprintf(w, "Total: %s (%d units)\n", view.Total, view.Units)
}
