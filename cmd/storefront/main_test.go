package main

import (
	"os"
	"testing"
)

func TestRunExitCodes(t *testing.T) {
	t.Setenv("STATE_DB_TYPE", "memory")
	t.Setenv("CACHE_TYPE", "memory")
	t.Setenv("BACKUP_DRIVER", "none")
	t.Setenv("APP_DEBUG", "false")

	saved := os.Args
	t.Cleanup(func() { os.Args = saved })

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"catalog list", []string{"catalog", "list"}, 0},
		{"admin without session", []string{"admin", "stats"}, 3},
		{"chat without session", []string{"chat", "show", "c-missing"}, 3},
		{"bad output format", []string{"catalog", "list", "-o", "yaml"}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = append([]string{"storefront"}, tt.args...)
			if got := run(); got != tt.want {
				t.Fatalf("run() = %d, want %d", got, tt.want)
			}
		})
	}
}
