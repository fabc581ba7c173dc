package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/Scriprto/steal-brainrot-shop/internal/model"
	"github.com/Scriprto/steal-brainrot-shop/pkg/apierror"

	"github.com/spf13/cobra"
)

func newCheckoutCommand(app *App, out *outputFormat) *cobra.Command {
	var robux bool
	var method string
	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Turn the basket into one chat per unit",
		Args:  cobra.NoArgs,
		RunE: app.wrap(func(cmd *cobra.Command, args []string) error {
			pm := model.PaymentCredits
			if robux {
				pm = model.PaymentRobux
			}
			if method != "" {
				parsed, err := model.ParsePaymentMethod(method)
				if err != nil {
					return apierror.ValidationError(err.Error(),
						apierror.FieldError{Field: "method", Message: "must be CREDITS or ROBUX"})
				}
				pm = parsed
			}

			ids, err := app.Shop.Checkout(cmd.Context(), pm)
			if err != nil {
				return err
			}
			if ids == nil {
				ids = []string{}
			}
			return render(cmd, out, map[string]interface{}{"chatIds": ids, "paymentMethod": pm}, func(w io.Writer) {
				if len(ids) == 0 {
					fmt.Fprintln(w, "Basket is empty, nothing to check out.")
					return
				}
				fmt.Fprintf(w, "Opened %d chat(s), paying with %s:\n", len(ids), strings.ToLower(string(pm)))
				for _, id := range ids {
					fmt.Fprintln(w, "  "+id)
				}
			})
		}),
	}
	cmd.Flags().BoolVar(&robux, "robux", false, "Pay with Robux")
	cmd.Flags().StringVar(&method, "method", "", "Payment method: CREDITS or ROBUX")
	return cmd
}

func newChatCommand(app *App, out *outputFormat) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "chat",
		Aliases: []string{"chats"},
		Short:   "Per-unit purchase chats",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List chats you can see",
		Args:  cobra.NoArgs,
		RunE: app.wrap(func(cmd *cobra.Command, args []string) error {
			chats, err := app.Shop.Chats(cmd.Context())
			if err != nil {
				return err
			}
			return render(cmd, out, chats, func(w io.Writer) { printChats(w, chats) })
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show <chat-id>",
		Short: "Show a chat thread",
		Args:  cobra.ExactArgs(1),
		RunE: app.wrap(func(cmd *cobra.Command, args []string) error {
			c, err := app.Shop.Chat(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return renderChat(cmd, out, c)
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "send <chat-id> <text>...",
		Short: "Post a message as the signed-in user",
		Args:  cobra.MinimumNArgs(2),
		RunE: app.wrap(func(cmd *cobra.Command, args []string) error {
			msg, err := app.Shop.SendMessage(cmd.Context(), args[0], strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			return render(cmd, out, msg, func(w io.Writer) {
				fmt.Fprintf(w, "[%s] %s: %s\n", msg.Timestamp.Format("15:04"), msg.From, msg.Text)
			})
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "claim <chat-id>",
		Short: "Claim a chat (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: app.wrap(func(cmd *cobra.Command, args []string) error {
			c, err := app.Shop.MarkClaimed(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return renderChat(cmd, out, c)
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "confirm <chat-id>",
		Short: "Confirm the sale and take one unit out of stock (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: app.wrap(func(cmd *cobra.Command, args []string) error {
			c, err := app.Shop.ConfirmSale(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return renderChat(cmd, out, c)
		}),
	})

	return cmd
}

func newOrdersCommand(app *App, out *outputFormat) *cobra.Command {
	return &cobra.Command{
		Use:   "orders",
		Short: "List orders you can see",
		Args:  cobra.NoArgs,
		RunE: app.wrap(func(cmd *cobra.Command, args []string) error {
			orders, err := app.Shop.Orders(cmd.Context())
			if err != nil {
				return err
			}
			return render(cmd, out, orders, func(w io.Writer) {
				if len(orders) == 0 {
					fmt.Fprintln(w, "No orders.")
					return
				}
				table(w, "ORDER\tBUYER\tUNITS\tTOTAL\tPAYMENT\tCREATED", func(tw *tabwriter.Writer) {
					for _, o := range orders {
						fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%s\n", o.ID, o.BuyerUsername, len(o.ChatIDs), o.Total, o.PaymentMethod, o.CreatedAt.Format("2006-01-02 15:04"))
					}
				})
			})
		}),
	}
}

func printChats(w io.Writer, chats []model.Chat) {
	if len(chats) == 0 {
		fmt.Fprintln(w, "No chats.")
		return
	}
	table(w, "CHAT\tBUYER\tITEM\tPAYMENT\tSTATUS\tMESSAGES", func(tw *tabwriter.Writer) {
		for _, c := range chats {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\n", c.ID, c.BuyerDisplay, c.ItemName, c.PaymentMethod, c.Status, len(c.Messages))
		}
	})
}

func renderChat(cmd *cobra.Command, out *outputFormat, c model.Chat) error {
	return render(cmd, out, c, func(w io.Writer) {
		fmt.Fprintf(w, "%s  %s for %s (%s)  [%s]\n", c.ID, c.ItemName, c.BuyerDisplay, c.PaymentMethod, c.Status)
		for _, m := range c.Messages {
			fmt.Fprintf(w, "  [%s] %s: %s\n", m.Timestamp.Format("15:04"), m.From, m.Text)
		}
	})
}
