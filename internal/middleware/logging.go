package middleware

import (
	"log"
	"time"

	"github.com/Scriprto/steal-brainrot-shop/pkg/apierror"

	"github.com/spf13/cobra"
)

// Logging logs each command with its outcome and duration.
func Logging(next RunFunc) RunFunc {
	return func(cmd *cobra.Command, args []string) error {
		start := time.Now()
		err := next(cmd, args)

		code := "OK"
		if err != nil {
			code = apierror.From(err).Code
		}
		log.Printf("[%s] %s %s %s", GetCommandID(cmd.Context()), cmd.CommandPath(), code, time.Since(start))
		return err
	}
}
