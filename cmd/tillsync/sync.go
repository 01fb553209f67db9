// Sync command runs one drain on demand.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Drain the sync queue now",
	Long: `Sync replays every queued offline mutation against the remote service
in enqueue order, then pulls fresh reference data. A replay failure stops the
drain and leaves the remaining queue intact for the next attempt.`,
	Args: cobra.NoArgs,
	RunE: runSync,
}

func runSync(cmd *cobra.Command, args []string) error {
	app, err := buildApp()
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, cancel := commandContext()
	defer cancel()

	if err := app.Syncer.SyncNow(ctx); err != nil {
		return fmt.Errorf("sync: %w", err)
	}

	st, err := app.Observer.Snapshot(ctx)
	if err != nil {
		return err
	}
	if flagJSON {
		return printJSON(st)
	}
	fmt.Printf("sync complete, %d operation(s) still pending\n", st.Pending)
	return nil
}
