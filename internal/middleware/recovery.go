package middleware

import (
	"fmt"
	"log"
	"runtime/debug"

	"github.com/Scriprto/steal-brainrot-shop/pkg/apierror"

	"github.com/spf13/cobra"
)

// Recovery turns a panic in a command into an internal error.
func Recovery(next RunFunc) RunFunc {
	return func(cmd *cobra.Command, args []string) (err error) {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("PANIC in %s: %v\n%s", cmd.CommandPath(), r, debug.Stack())
				err = apierror.InternalError(fmt.Sprintf("internal error in %s", cmd.CommandPath()))
			}
		}()
		return next(cmd, args)
	}
}
