package cli

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/Scriprto/steal-brainrot-shop/internal/backup"
	"github.com/Scriprto/steal-brainrot-shop/pkg/apierror"

	"github.com/spf13/cobra"
)

func newBackupCommand(app *App, out *outputFormat) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Back up and restore the durable record (admin)",
	}

	manager := func() (*backup.Manager, error) {
		if app.Backups == nil {
			return nil, apierror.ServiceUnavailable("backups are not configured (set BACKUP_DRIVER=s3)")
		}
		return app.Backups, nil
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "push",
		Short: "Upload the current record",
		Args:  cobra.NoArgs,
		RunE: app.wrap(func(cmd *cobra.Command, args []string) error {
			m, err := manager()
			if err != nil {
				return err
			}
			state, err := app.Shop.Export(cmd.Context())
			if err != nil {
				return err
			}
			obj, err := m.Backup(cmd.Context(), state)
			if err != nil {
				return apierror.ServiceUnavailable(err.Error())
			}
			return render(cmd, out, obj, func(w io.Writer) {
				fmt.Fprintf(w, "Uploaded %s (%d bytes)\n", obj.Key, obj.Size)
			})
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List backups, newest first",
		Args:  cobra.NoArgs,
		RunE: app.wrap(func(cmd *cobra.Command, args []string) error {
			m, err := manager()
			if err != nil {
				return err
			}
			if _, err := app.Shop.Export(cmd.Context()); err != nil {
				return err
			}
			objects, err := m.List(cmd.Context())
			if err != nil {
				return apierror.ServiceUnavailable(err.Error())
			}
			return render(cmd, out, objects, func(w io.Writer) {
				if len(objects) == 0 {
					fmt.Fprintln(w, "No backups.")
					return
				}
				table(w, "KEY\tSIZE\tMODIFIED", func(tw *tabwriter.Writer) {
					for _, o := range objects {
						fmt.Fprintf(tw, "%s\t%d\t%s\n", o.Key, o.Size, o.LastModified.Format("2006-01-02 15:04:05"))
					}
				})
			})
		}),
	})

	var dryRun bool
	restore := &cobra.Command{
		Use:   "restore [key]",
		Short: "Replace the record with a backup (newest when no key is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: app.wrap(func(cmd *cobra.Command, args []string) error {
			m, err := manager()
			if err != nil {
				return err
			}
			current, err := app.Shop.Export(cmd.Context())
			if err != nil {
				return err
			}
			key := ""
			if len(args) == 1 {
				key = args[0]
			}
			key, candidate, err := m.Fetch(cmd.Context(), key)
			if err != nil {
				if errors.Is(err, backup.ErrNotFound) {
					return apierror.ValidationError(err.Error())
				}
				return apierror.ServiceUnavailable(err.Error())
			}
			diff, err := backup.Diff(current, candidate)
			if err != nil {
				return err
			}

			if !dryRun && diff != "" {
				if err := app.Shop.Replace(cmd.Context(), candidate); err != nil {
					return err
				}
			}
			result := map[string]interface{}{"key": key, "dryRun": dryRun, "changed": diff != "", "diff": diff}
			return render(cmd, out, result, func(w io.Writer) {
				switch {
				case diff == "":
					fmt.Fprintf(w, "%s matches the current record.\n", key)
				case dryRun:
					fmt.Fprintf(w, "Restoring %s would change:\n%s", key, diff)
				default:
					fmt.Fprintf(w, "Restored %s:\n%s", key, diff)
				}
			})
		}),
	}
	restore.Flags().BoolVar(&dryRun, "dry-run", false, "Show the diff without changing anything")
	cmd.AddCommand(restore)

	return cmd
}
