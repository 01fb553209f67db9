// Package sqlite provides the public factory for the SQLite-backed durable
// store while keeping implementation details internal.
package sqlite

import (
	"github.com/mesh-intelligence/tillsync/internal/sqlite"
	"github.com/mesh-intelligence/tillsync/pkg/types"
)

// NewStore creates a SQLite store for the given config. The database opens
// lazily on first access; an explicit Open is optional.
//
// Example:
//
//	store := sqlite.NewStore(types.Config{DataDir: ".tillsync-db"})
//	defer store.Close()
func NewStore(cfg types.Config) types.Store {
	return sqlite.New(cfg)
}
