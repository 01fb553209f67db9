package sqlite

import (
	"database/sql"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/tillsync/pkg/types"
)

// DatabaseFile is the SQLite file name inside the data directory.
const DatabaseFile = "tillsync.db"

// Store implements types.Store using SQLite. Initialization is lazy and
// idempotent: the first collection or queue access opens the database, and
// later accesses reuse the open handle. Operations on one collection are
// linearizable through the single database handle plus the store mutex.
type Store struct {
	mu          sync.RWMutex
	cfg         types.Config
	db          *sql.DB
	opened      bool
	closed      bool
	collections map[string]*collection
	queue       *queue
}

// New creates a Store for the given config. No I/O happens until Open or
// the first access.
func New(cfg types.Config) *Store {
	return &Store{
		cfg:         cfg,
		collections: make(map[string]*collection),
	}
}

// Open initializes the database and schema. Idempotent: opening an
// already-open store succeeds without effect. Storage failures wrap as
// StorageError.
func (s *Store) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.openLocked()
}

// openLocked performs the actual open. Caller holds s.mu.
func (s *Store) openLocked() error {
	if s.opened {
		return nil
	}
	if s.closed {
		return types.ErrStoreClosed
	}

	dataDir := s.cfg.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return types.NewStorageError("create data dir", err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dataDir, DatabaseFile))
	if err != nil {
		return types.NewStorageError("open database", err)
	}

	for _, stmt := range schemaStatements {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return types.NewStorageError("apply schema", err)
		}
	}

	s.db = db
	s.opened = true

	for _, name := range types.StandardCollectionNames {
		s.collections[name] = &collection{store: s, name: name}
	}
	s.queue = &queue{store: s}

	return nil
}

// ensureOpen opens the store lazily if needed and returns the handle.
func (s *Store) ensureOpen() (*sql.DB, error) {
	s.mu.RLock()
	if s.opened {
		db := s.db
		s.mu.RUnlock()
		return db, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.openLocked(); err != nil {
		return nil, err
	}
	return s.db, nil
}

// Close releases the database handle. Idempotent. After Close, all
// operations return ErrStoreClosed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.opened {
		s.closed = true
		return nil
	}

	if err := s.db.Close(); err != nil {
		return types.NewStorageError("close database", err)
	}
	s.db = nil
	s.opened = false
	s.closed = true
	s.collections = make(map[string]*collection)
	s.queue = nil

	return nil
}

// Collection returns the accessor for a standard collection name.
// Returns ErrCollectionNotFound for any other name.
func (s *Store) Collection(name string) (types.Collection, error) {
	if _, err := s.ensureOpen(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.collections[name]
	if !ok {
		return nil, types.ErrCollectionNotFound
	}
	return c, nil
}

// Queue returns the durable sync queue.
func (s *Store) Queue() (types.Queue, error) {
	if _, err := s.ensureOpen(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queue, nil
}
