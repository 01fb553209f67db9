// Package sqlite implements the durable Store backend for tillsync.
// Entity collections and the sync queue live in one SQLite database under
// the configured data directory; the database survives process restarts.
package sqlite

// Schema DDL for all collections and the sync queue. Every statement is
// idempotent so reopening an existing database is a no-op.
const (
	createProducts = `CREATE TABLE IF NOT EXISTS products (
    id TEXT PRIMARY KEY,
    barcode TEXT,
    synced INTEGER NOT NULL DEFAULT 1,
    updated_at TEXT,
    payload TEXT NOT NULL
);`

	createProductsBarcodeIndex = `CREATE INDEX IF NOT EXISTS idx_products_barcode
    ON products (barcode);`

	createCategories = `CREATE TABLE IF NOT EXISTS categories (
    id TEXT PRIMARY KEY,
    barcode TEXT,
    synced INTEGER NOT NULL DEFAULT 1,
    updated_at TEXT,
    payload TEXT NOT NULL
);`

	createOrders = `CREATE TABLE IF NOT EXISTS orders (
    id TEXT PRIMARY KEY,
    barcode TEXT,
    synced INTEGER NOT NULL DEFAULT 1,
    updated_at TEXT,
    payload TEXT NOT NULL
);`

	createOrdersSyncedIndex = `CREATE INDEX IF NOT EXISTS idx_orders_synced
    ON orders (synced);`

	createSyncQueue = `CREATE TABLE IF NOT EXISTS sync_queue (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    kind TEXT NOT NULL,
    collection TEXT NOT NULL,
    payload TEXT NOT NULL,
    enqueued_at TEXT NOT NULL
);`
)

// schemaStatements lists the DDL executed on open, in order.
var schemaStatements = []string{
	createProducts,
	createProductsBarcodeIndex,
	createCategories,
	createOrders,
	createOrdersSyncedIndex,
	createSyncQueue,
}
