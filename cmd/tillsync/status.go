// Status command reports the engine's observable state.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show connectivity and pending-mutation state",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	app, err := buildApp()
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, cancel := commandContext()
	defer cancel()

	st, err := app.Observer.Snapshot(ctx)
	if err != nil {
		return err
	}

	if flagJSON {
		return printJSON(st)
	}

	state := "offline"
	if st.Online {
		state = "online"
	}
	fmt.Printf("connectivity: %s\n", state)
	fmt.Printf("pending mutations: %d\n", st.Pending)
	if !st.LastSync.IsZero() {
		fmt.Printf("last sync: %s\n", st.LastSync.Format("2006-01-02 15:04:05"))
	}
	return nil
}
