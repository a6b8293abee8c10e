// Command tether computes, renders and watches floating-element scenes.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"tether/internal/observability"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	observability.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
