// Package middleware wraps cobra command handlers the way HTTP middleware
// wraps handlers: each wrapper takes a RunFunc and returns a RunFunc.
package middleware

import "github.com/spf13/cobra"

// RunFunc is a cobra RunE handler.
type RunFunc func(cmd *cobra.Command, args []string) error

// Chain applies wrappers so the first one is outermost.
func Chain(run RunFunc, wrappers ...func(RunFunc) RunFunc) RunFunc {
	for i := len(wrappers) - 1; i >= 0; i-- {
		run = wrappers[i](run)
	}
	return run
}
