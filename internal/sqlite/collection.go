package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/mesh-intelligence/tillsync/pkg/types"
)

// collection implements types.Collection for a single entity collection.
// Each collection maps to one SQLite table whose payload column holds the
// full document as JSON, with id, barcode, synced, and updated_at extracted
// into indexed columns.
type collection struct {
	store *Store
	name  string // Table name; always one of the standard collection names.
}

// Get retrieves a document by ID. Returns ErrNotFound when absent.
func (c *collection) Get(ctx context.Context, id string) (types.Document, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	c.store.mu.RLock()
	defer c.store.mu.RUnlock()
	if !c.store.opened {
		return nil, types.ErrStoreClosed
	}

	row := c.store.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT payload FROM %s WHERE id = ?", c.name), id)

	var payload string
	if err := row.Scan(&payload); err != nil {
		if err == sql.ErrNoRows {
			return nil, types.ErrNotFound
		}
		return nil, types.NewStorageError("get "+c.name, err)
	}
	return decodeDocument(c.name, payload)
}

// GetAll returns every document in the collection, ordered by ID for
// deterministic listings.
func (c *collection) GetAll(ctx context.Context) ([]types.Document, error) {
	c.store.mu.RLock()
	defer c.store.mu.RUnlock()
	if !c.store.opened {
		return nil, types.ErrStoreClosed
	}

	rows, err := c.store.db.QueryContext(ctx,
		fmt.Sprintf("SELECT payload FROM %s ORDER BY id", c.name))
	if err != nil {
		return nil, types.NewStorageError("list "+c.name, err)
	}
	defer rows.Close()

	return scanDocuments(c.name, rows)
}

// Put upserts a document keyed by its "id" field.
func (c *collection) Put(ctx context.Context, doc types.Document) error {
	id := doc.ID()
	if id == "" {
		return types.ErrInvalidID
	}

	payload, err := json.Marshal(doc)
	if err != nil {
		return types.NewStorageError("encode "+c.name, err)
	}

	barcode, _ := doc["barcode"].(string)
	synced := 0
	if doc.Synced() {
		synced = 1
	}
	updatedAt, _ := doc["updatedAt"].(string)

	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	if !c.store.opened {
		return types.ErrStoreClosed
	}

	_, err = c.store.db.ExecContext(ctx, fmt.Sprintf(
		`INSERT INTO %s (id, barcode, synced, updated_at, payload)
         VALUES (?, ?, ?, ?, ?)
         ON CONFLICT(id) DO UPDATE SET
             barcode = excluded.barcode,
             synced = excluded.synced,
             updated_at = excluded.updated_at,
             payload = excluded.payload`, c.name),
		id, barcode, synced, updatedAt, string(payload))
	if err != nil {
		return types.NewStorageError("put "+c.name, err)
	}
	return nil
}

// Delete removes a document by ID. Absent IDs succeed.
func (c *collection) Delete(ctx context.Context, id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	if !c.store.opened {
		return types.ErrStoreClosed
	}

	_, err := c.store.db.ExecContext(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE id = ?", c.name), id)
	if err != nil {
		return types.NewStorageError("delete "+c.name, err)
	}
	return nil
}

// FindByBarcode returns documents matching code via the barcode index.
func (c *collection) FindByBarcode(ctx context.Context, code string) ([]types.Document, error) {
	c.store.mu.RLock()
	defer c.store.mu.RUnlock()
	if !c.store.opened {
		return nil, types.ErrStoreClosed
	}

	rows, err := c.store.db.QueryContext(ctx,
		fmt.Sprintf("SELECT payload FROM %s WHERE barcode = ?", c.name), code)
	if err != nil {
		return nil, types.NewStorageError("find by barcode "+c.name, err)
	}
	defer rows.Close()

	return scanDocuments(c.name, rows)
}

func scanDocuments(name string, rows *sql.Rows) ([]types.Document, error) {
	var docs []types.Document
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, types.NewStorageError("scan "+name, err)
		}
		doc, err := decodeDocument(name, payload)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, types.NewStorageError("scan "+name, err)
	}
	return docs, nil
}

func decodeDocument(name, payload string) (types.Document, error) {
	var doc types.Document
	if err := json.Unmarshal([]byte(payload), &doc); err != nil {
		return nil, types.NewStorageError("decode "+name, err)
	}
	return doc, nil
}
