// Init command prepares the config directory and the local store.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tillsync/internal/paths"
	"github.com/mesh-intelligence/tillsync/internal/sqlite"
	"github.com/mesh-intelligence/tillsync/pkg/types"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the default config file and local database",
	Long: `Init writes a default config.yaml to the configuration directory (if
absent) and creates the local database with its collections and sync queue.
Both steps are idempotent.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	configPath, err := ensureDefaultConfigFile()
	if err != nil {
		return err
	}

	dataDir, err := paths.ResolveDataDir(flagDataDir, "")
	if err != nil {
		return fmt.Errorf("resolve data dir: %w", err)
	}

	store := sqlite.New(types.Config{DataDir: dataDir})
	if err := store.Open(); err != nil {
		return fmt.Errorf("initialize store: %w", err)
	}
	defer store.Close()

	fmt.Printf("config: %s\ndata: %s\n", configPath, dataDir)
	return nil
}
