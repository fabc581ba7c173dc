package cli

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"text/tabwriter"

	"github.com/Scriprto/steal-brainrot-shop/internal/model"
	"github.com/Scriprto/steal-brainrot-shop/pkg/apierror"
	"github.com/Scriprto/steal-brainrot-shop/pkg/response"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func parsePrice(s string) (decimal.Decimal, error) {
	p, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, apierror.ValidationError("price must be a number",
			apierror.FieldError{Field: "price", Message: err.Error()})
	}
	return p, nil
}

func newAdminCommand(app *App, out *outputFormat) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Catalog management and store statistics (admin)",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "restock <item-id> <quantity>",
		Short: "Add stock to an item",
		Args:  cobra.ExactArgs(2),
		RunE: app.wrap(func(cmd *cobra.Command, args []string) error {
			delta, err := strconv.Atoi(args[1])
			if err != nil {
				return apierror.ValidationError("quantity must be an integer",
					apierror.FieldError{Field: "quantity", Message: err.Error()})
			}
			it, err := app.Shop.Restock(cmd.Context(), args[0], delta)
			if err != nil {
				return err
			}
			return render(cmd, out, it, func(w io.Writer) {
				fmt.Fprintf(w, "%s now has %d in stock.\n", it.Name, it.Stock)
			})
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "price <item-id> <price>",
		Short: "Set an item's price",
		Args:  cobra.ExactArgs(2),
		RunE: app.wrap(func(cmd *cobra.Command, args []string) error {
			price, err := parsePrice(args[1])
			if err != nil {
				return err
			}
			it, err := app.Shop.SetPrice(cmd.Context(), args[0], price)
			if err != nil {
				return err
			}
			return render(cmd, out, it, func(w io.Writer) {
				fmt.Fprintf(w, "%s now costs %s.\n", it.Name, it.Price)
			})
		}),
	})

	var desc, priceText string
	var stock int
	create := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a new item",
		Args:  cobra.ExactArgs(1),
		RunE: app.wrap(func(cmd *cobra.Command, args []string) error {
			price, err := parsePrice(priceText)
			if err != nil {
				return err
			}
			it, err := app.Shop.CreateItem(cmd.Context(), args[0], desc, stock, price)
			if err != nil {
				return err
			}
			return render(cmd, out, it, func(w io.Writer) {
				fmt.Fprintf(w, "Created %s (%s).\n", it.Name, it.ID)
			})
		}),
	}
	create.Flags().StringVar(&desc, "desc", "", "Item description")
	create.Flags().IntVar(&stock, "stock", 0, "Initial stock")
	create.Flags().StringVar(&priceText, "price", "0", "Unit price")
	cmd.AddCommand(create)

	var limit, page int
	activity := &cobra.Command{
		Use:   "activity",
		Short: "Show the activity log",
		Args:  cobra.NoArgs,
		RunE: app.wrap(func(cmd *cobra.Command, args []string) error {
			if page < 1 {
				page = 1
			}
			entries, total, err := app.Shop.Activity(cmd.Context(), limit, (page-1)*limit)
			if err != nil {
				return err
			}
			if out.value == "json" {
				return response.JSONWithMeta(cmd.OutOrStdout(), entries, page, limit, total)
			}
			printActivity(cmd.OutOrStdout(), entries, total)
			return nil
		}),
	}
	activity.Flags().IntVar(&limit, "limit", 20, "Entries per page")
	activity.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.AddCommand(activity)

	cmd.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Show store statistics",
		Args:  cobra.NoArgs,
		RunE: app.wrap(func(cmd *cobra.Command, args []string) error {
			stats, err := app.Shop.Stats(cmd.Context())
			if err != nil {
				return err
			}
			return render(cmd, out, stats, func(w io.Writer) { printStats(w, "", stats) })
		}),
	})

	return cmd
}

func printActivity(w io.Writer, entries []model.Activity, total int64) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No activity.")
		return
	}
	table(w, "WHEN\tKIND\tACTOR\tSUBJECT\tDETAIL", func(tw *tabwriter.Writer) {
		for _, e := range entries {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", e.CreatedAt.Format("2006-01-02 15:04:05"), e.Kind, e.Actor, e.Subject, e.Detail)
		}
	})
	fmt.Fprintf(w, "%d of %d entries\n", len(entries), total)
}

func printStats(w io.Writer, indent string, stats map[string]interface{}) {
	keys := make([]string, 0, len(stats))
	for k := range stats {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if nested, ok := stats[k].(map[string]interface{}); ok {
			fmt.Fprintf(w, "%s%s:\n", indent, k)
			printStats(w, indent+"  ", nested)
			continue
		}
		fmt.Fprintf(w, "%s%s: %v\n", indent, k, stats[k])
	}
}
