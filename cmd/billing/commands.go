package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"billing/internal/app"
	"billing/internal/document"

	"github.com/spf13/cobra"
)

func newSeedCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Write the default menu if the catalog has never been initialised",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, open, func(ctx context.Context, a *app.App) error {
				seeded, err := a.Seed(ctx)
				if err != nil {
					return err
				}
				if seeded {
					fmt.Fprintln(cmd.OutOrStdout(), "menu seeded with default items")
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), "menu already initialised")
				}
				return nil
			})
		},
	}
}

func newMenuCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "List menu items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, open, func(ctx context.Context, a *app.App) error {
				if _, err := a.Seed(ctx); err != nil {
					return err
				}
				items, err := a.Menu.List(ctx)
				if err != nil {
					return err
				}

				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tNAME\tPRICE")
				for _, item := range items {
					fmt.Fprintf(tw, "%s\t%s\t%s\n", item.ID, item.Name, document.FormatMoney(item.Price))
				}
				return tw.Flush()
			})
		},
	}
}

func newInvoicesCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "invoices",
		Short: "List finalized invoices in order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, open, func(ctx context.Context, a *app.App) error {
				invoices, err := a.Invoices.List(ctx)
				if err != nil {
					return err
				}

				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tDATE\tLINES\tTOTAL")
				for _, inv := range invoices {
					fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n",
						inv.ID, document.FormatDate(inv.Date), len(inv.Items), document.FormatMoney(inv.Total))
				}
				return tw.Flush()
			})
		},
	}
}

func newExportCmd(open opener) *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "export <invoice-id>",
		Short: "Render an invoice to a PDF file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, open, func(ctx context.Context, a *app.App) error {
				doc, err := a.Invoices.Document(ctx, args[0])
				if err != nil {
					return err
				}

				if err := os.MkdirAll(outDir, 0o755); err != nil {
					return fmt.Errorf("failed to create output directory: %w", err)
				}
				path := filepath.Join(outDir, doc.Filename)
				if err := os.WriteFile(path, doc.Content, 0o644); err != nil {
					return fmt.Errorf("failed to write %s: %w", path, err)
				}

				fmt.Fprintln(cmd.OutOrStdout(), path)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&outDir, "output", "o", ".", "directory to write the PDF into")
	return cmd
}

func newServeCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, open, func(ctx context.Context, a *app.App) error {
				if _, err := a.Seed(ctx); err != nil {
					return err
				}
				return a.Serve(ctx)
			})
		},
	}
}
