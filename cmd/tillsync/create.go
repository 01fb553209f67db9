// Create command persists a new entity through the gateway.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var createCmd = &cobra.Command{
	Use:   "create <collection> <json>",
	Short: "Create an entity",
	Long: `Create persists a new entity in the specified collection. When the
remote service is unreachable the entity gets an offline id and is queued
for replay.

Example:
  tillsync create products '{"name":"Widget","price":9.99}'`,
	Args: cobra.ExactArgs(2),
	RunE: runCreate,
}

func runCreate(cmd *cobra.Command, args []string) error {
	collection := args[0]
	if err := checkCollection(collection); err != nil {
		return err
	}
	doc, err := parseDocument(args[1])
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

	created, err := app.Gateway.Create(ctx, collection, doc)
	if err != nil {
		return fmt.Errorf("create entity: %w", err)
	}
	return printJSON(created)
}
