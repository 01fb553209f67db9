// Shared helpers for tillsync CLI commands.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/mesh-intelligence/tillsync/internal/logging"
	"github.com/mesh-intelligence/tillsync/pkg/tillsync"
	"github.com/mesh-intelligence/tillsync/pkg/types"
)

// validCollectionNamesStr is a comma-separated list of valid collection
// names for error output.
var validCollectionNamesStr = strings.Join(types.StandardCollectionNames, ", ")

// buildApp loads config and wires a full engine instance. The caller must
// defer app.Close(). One-shot commands use the gateway directly without
// starting the probe or sync loops: the probe's initial online state routes
// operations to the remote service first, and any remote failure falls back
// to the offline path.
func buildApp() (*tillsync.App, error) {
	v, err := loadConfig()
	if err != nil {
		return nil, err
	}
	cfg, err := engineConfig(v)
	if err != nil {
		return nil, err
	}

	logger := logging.Setup(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	return tillsync.New(cfg, logger)
}

// commandContext returns the bounded context for one-shot commands.
func commandContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), commandTimeout)
}

// checkCollection validates a collection argument before hitting the store.
func checkCollection(name string) error {
	for _, c := range types.StandardCollectionNames {
		if c == name {
			return nil
		}
	}
	return fmt.Errorf("unknown collection %q (valid: %s)", name, validCollectionNamesStr)
}

// printJSON renders v as indented JSON on stdout.
func printJSON(v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	fmt.Println(string(output))
	return nil
}

// parseDocument decodes a JSON argument into a Document.
func parseDocument(raw string) (types.Document, error) {
	var doc types.Document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, fmt.Errorf("invalid JSON document: %w", err)
	}
	return doc, nil
}
