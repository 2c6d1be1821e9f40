// Command billing manages the menu and invoice history from the terminal and
// can run the HTTP API in the foreground.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(openApp).ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
