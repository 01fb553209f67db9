// Update command merges fields onto an entity through the gateway.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var updateCmd = &cobra.Command{
	Use:   "update <collection> <id> <json>",
	Short: "Update an entity",
	Long: `Update merges the supplied fields onto the entity with the given ID.
When the remote service is unreachable the merged entity applies locally and
is queued for replay.

Example:
  tillsync update products abc123 '{"price":12.50}'`,
	Args: cobra.ExactArgs(3),
	RunE: runUpdate,
}

func runUpdate(cmd *cobra.Command, args []string) error {
	collection, id := args[0], args[1]
	if err := checkCollection(collection); err != nil {
		return err
	}
	doc, err := parseDocument(args[2])
	if err != nil {
		return err
	}

	app, err := buildApp()
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, cancel := commandContext()
	defer cancel()

	updated, err := app.Gateway.Update(ctx, collection, id, doc)
	if err != nil {
		return fmt.Errorf("update entity: %w", err)
	}
	return printJSON(updated)
}
