// Get command retrieves an entity by ID through the gateway.
package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tillsync/pkg/types"
)

var getCmd = &cobra.Command{
	Use:   "get <collection> <id>",
	Short: "Get an entity by ID",
	Long: `Get retrieves an entity from the specified collection by its ID.

Valid collection names: products, categories, orders

Example:
  tillsync get products abc123
  tillsync get categories def456`,
	Args: cobra.ExactArgs(2),
	RunE: runGet,
}

func runGet(cmd *cobra.Command, args []string) error {
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

	doc, err := app.Gateway.Get(ctx, collection, id)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return fmt.Errorf("entity %q not found in collection %q", id, collection)
		}
		return fmt.Errorf("get entity: %w", err)
	}
	return printJSON(doc)
}
