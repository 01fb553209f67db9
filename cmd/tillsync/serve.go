// Serve command runs the engine and the local UI-facing API.
package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tillsync/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the sync engine and local API",
	Long: `Serve starts the connectivity probe, the background sync manager, and
the local HTTP API the point-of-sale UI talks to. Runs until interrupted.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	app, err := buildApp()
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.New(app.Gateway, app.Observer, app.Logger())

	go app.Run(ctx)

	if err := srv.Serve(ctx, app.Config.ListenAddr); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}
