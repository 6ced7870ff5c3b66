// Command dictctl is the dictionary admin CLI: it classifies text, resolves
// lookups and adds or seeds words against the configured key store.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/telugupadalu/dictionary/cmd/dictctl/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cmd.NewRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
