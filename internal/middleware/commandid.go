package middleware

import (
	"context"

	"github.com/Scriprto/steal-brainrot-shop/pkg/uid"

	"github.com/spf13/cobra"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// CommandIDKey is the context key for the command ID.
const CommandIDKey contextKey = "command_id"

// CommandID tags the command context with a short unique ID used in logs.
func CommandID(next RunFunc) RunFunc {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		if GetCommandID(ctx) == "" {
			cmd.SetContext(context.WithValue(ctx, CommandIDKey, uid.Short(8)))
		}
		return next(cmd, args)
	}
}

// GetCommandID retrieves the command ID from context.
func GetCommandID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(CommandIDKey).(string); ok {
		return id
	}
	return ""
}
