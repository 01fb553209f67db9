// List command retrieves every entity in a collection through the gateway.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list <collection>",
	Short: "List entities in a collection",
	Long: `List retrieves every entity in the specified collection: from the
remote service when reachable (mirroring results locally), from the local
store otherwise.

Valid collection names: products, categories, orders

Example:
  tillsync list products
  tillsync list categories`,
	Args: cobra.ExactArgs(1),
	RunE: runList,
}

func runList(cmd *cobra.Command, args []string) error {
	collection := args[0]
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

	docs, err := app.Gateway.List(ctx, collection)
	if err != nil {
		return fmt.Errorf("list %s: %w", collection, err)
	}
	return printJSON(docs)
}
