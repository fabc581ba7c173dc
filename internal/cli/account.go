package cli

import (
	"fmt"
	"io"

	"github.com/Scriprto/steal-brainrot-shop/internal/model"

	"github.com/spf13/cobra"
)

func newAccountCommand(app *App, out *outputFormat) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Sign up, sign in and sign out",
	}

	var display string
	signup := &cobra.Command{
		Use:   "signup <username> <password>",
		Short: "Create an account and sign in",
		Args:  cobra.ExactArgs(2),
		RunE: app.wrap(func(cmd *cobra.Command, args []string) error {
			sess, err := app.Shop.Signup(cmd.Context(), args[0], args[1], display)
			if err != nil {
				return err
			}
			return renderSession(cmd, out, sess)
		}),
	}
	signup.Flags().StringVar(&display, "display", "", "Display name (defaults to the username)")

	login := &cobra.Command{
		Use:   "login <username> <password>",
		Short: "Sign in",
		Args:  cobra.ExactArgs(2),
		RunE: app.wrap(func(cmd *cobra.Command, args []string) error {
			sess, err := app.Shop.Login(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return renderSession(cmd, out, sess)
		}),
	}

	federated := &cobra.Command{
		Use:   "federated",
		Short: "Sign in through the configured identity provider",
		Args:  cobra.NoArgs,
		RunE: app.wrap(func(cmd *cobra.Command, args []string) error {
			sess, err := app.Shop.FederatedSignIn(cmd.Context())
			if err != nil {
				return err
			}
			return renderSession(cmd, out, sess)
		}),
	}

	signout := &cobra.Command{
		Use:   "signout",
		Short: "Sign out and empty the basket",
		Args:  cobra.NoArgs,
		RunE: app.wrap(func(cmd *cobra.Command, args []string) error {
			if err := app.Shop.SignOut(cmd.Context()); err != nil {
				return err
			}
			return render(cmd, out, map[string]bool{"signedOut": true}, func(w io.Writer) {
				fmt.Fprintln(w, "Signed out.")
			})
		}),
	}

	whoami := &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		Args:  cobra.NoArgs,
		RunE: app.wrap(func(cmd *cobra.Command, args []string) error {
			sess, err := app.Shop.CurrentSession(cmd.Context())
			if err != nil {
				return err
			}
			return renderSession(cmd, out, sess)
		}),
	}

	cmd.AddCommand(signup, login, federated, signout, whoami)
	return cmd
}

func renderSession(cmd *cobra.Command, out *outputFormat, sess *model.Session) error {
	return render(cmd, out, sess, func(w io.Writer) {
		if sess == nil {
			fmt.Fprintln(w, "Not signed in.")
			return
		}
		role := "buyer"
		if sess.IsAdmin {
			role = "admin"
		}
		fmt.Fprintf(w, "Signed in as %s (%s, %s)\n", sess.DisplayName, sess.Username, role)
	})
}
