// Delete command removes an entity through the gateway.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <collection> <id>",
	Short: "Delete an entity",
	Long: `Delete removes the entity with the given ID. When the remote service
is unreachable the removal applies locally and is queued for replay.

Example:
  tillsync delete products abc123`,
	Args: cobra.ExactArgs(2),
	RunE: runDelete,
}

func runDelete(cmd *cobra.Command, args []string) error {
	collection, id := args[0], args[1]
	if err := checkCollection(collection); err != nil {
		return err
	}

	app, err := buildApp()
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, cancel := commandContext()
	defer cancel()

	ack, err := app.Gateway.Delete(ctx, collection, id)
	if err != nil {
		return fmt.Errorf("delete entity: %w", err)
	}
	if flagJSON {
		return printJSON(ack)
	}
	fmt.Printf("deleted %s/%s\n", collection, id)
	return nil
}
