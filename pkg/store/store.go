// Package store defines the key-value persistence contract the engine uses
// for learning records and user defaults, with in-memory and file-backed
// implementations. Persistence failures are recoverable by contract: every
// consumer falls back to in-memory state.
package store

// KeyValueStore is the persistence surface the engine consumes. Get
// returns (nil, nil) for a missing key.
type KeyValueStore interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Remove(key string) error
}
