// Package types defines the Store, Collection, and Queue interfaces, entity
// types, queued operations, sync events, and standard error types for the
// tillsync offline synchronization engine.
package types
