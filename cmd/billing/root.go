package main

import (
	"context"
	"fmt"
	"os"

	"billing/internal/app"
	"billing/internal/config"

	"github.com/spf13/cobra"
)

// opener builds the application for a single command run.
type opener func(ctx context.Context) (*app.App, error)

// openApp loads configuration from the environment and logs to stderr so
// command output on stdout stays machine readable.
func openApp(ctx context.Context) (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := config.NewLoggerTo(cfg.Logger, os.Stderr)
	return app.New(ctx, cfg, logger)
}

func newRootCmd(open opener) *cobra.Command {
	root := &cobra.Command{
		Use:          "billing",
		Short:        "Menu, cart and invoice management",
		SilenceUsage: true,
	}

	root.AddCommand(
		newSeedCmd(open),
		newMenuCmd(open),
		newInvoicesCmd(open),
		newExportCmd(open),
		newServeCmd(open),
	)

	return root
}

// withApp opens the application, runs fn and closes the store afterwards.
func withApp(cmd *cobra.Command, open opener, fn func(ctx context.Context, a *app.App) error) (err error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := open(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := a.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close store: %w", closeErr)
		}
	}()

	return fn(ctx, a)
}
