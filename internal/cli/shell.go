package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/Scriprto/steal-brainrot-shop/internal/service"
	"github.com/Scriprto/steal-brainrot-shop/pkg/apierror"

	"github.com/spf13/cobra"
)

func newShellCommand(app *App, out *outputFormat) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Run commands interactively in one session",
		Long:  "Starts a prompt that keeps the process, and with it an in-memory session and basket, alive between commands. Type 'exit' to leave.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Backups != nil && app.BackupInterval > 0 {
				sched := service.NewBackupScheduler(app.Shop, app.Backups, app.BackupInterval)
				sched.Start()
				defer sched.Stop()
			}
			return runShell(cmd, app, out.value)
		},
	}
}

func runShell(cmd *cobra.Command, app *App, format string) error {
	in := bufio.NewScanner(cmd.InOrStdin())
	w := cmd.OutOrStdout()
	errW := cmd.ErrOrStderr()

	for {
		fmt.Fprint(w, prompt(cmd, app))
		if !in.Scan() {
			fmt.Fprintln(w)
			return in.Err()
		}
		line := strings.TrimSpace(in.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if line == "exit" || line == "quit" {
			return nil
		}

		args, err := splitArgs(line)
		if err != nil {
			WriteError(errW, apierror.ValidationError(err.Error()), format == "json")
			continue
		}
		if args[0] == "shell" {
			fmt.Fprintln(errW, "Already in a shell.")
			continue
		}

		sub := NewRootCommand(app)
		sub.SetArgs(append([]string{"--output=" + format}, args...))
		sub.SetIn(cmd.InOrStdin())
		sub.SetOut(w)
		sub.SetErr(errW)
		if err := sub.ExecuteContext(cmd.Context()); err != nil {
			WriteError(errW, err, format == "json")
		}
	}
}

func prompt(cmd *cobra.Command, app *App) string {
	sess, err := app.Shop.CurrentSession(cmd.Context())
	if err != nil || sess == nil {
		return "storefront> "
	}
	if sess.IsAdmin {
		return sess.Username + "# "
	}
	return sess.Username + "> "
}

// splitArgs splits a line on whitespace, honouring single and double quotes.
func splitArgs(line string) ([]string, error) {
	var args []string
	var cur strings.Builder
	var quote rune
	inArg := false

	for _, r := range line {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				cur.WriteRune(r)
			}
		case r == '"' || r == '\'':
			quote = r
			inArg = true
		case unicode.IsSpace(r):
			if inArg {
				args = append(args, cur.String())
				cur.Reset()
				inArg = false
			}
		default:
			cur.WriteRune(r)
			inArg = true
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("unterminated quote")
	}
	if inArg {
		args = append(args, cur.String())
	}
	if len(args) == 0 {
		return nil, io.EOF
	}
	return args, nil
}
