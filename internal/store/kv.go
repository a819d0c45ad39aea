// Package store provides the client-side persistence layer: a size-limited
// key-value abstraction, the keyed image payload store, the quota-safe
// entry-list writer, and the in-memory entry store that feeds the UI.
package store

import (
	"github.com/Jnxx02/logbook-kkn-generator/internal/errors"
)

// KV is a size-limited key-value store. Implementations model the browser's
// local storage: writes can fail with STORAGE_QUOTA_EXCEEDED when the value
// does not fit, and reads of absent keys are not errors.
//
// The store is initialized at startup and has no explicit teardown.
type KV interface {
	// Get returns the value for key and whether it was present.
	Get(key string) (string, bool)

	// Set stores value under key. Returns an error carrying
	// STORAGE_QUOTA_EXCEEDED when the write does not fit.
	Set(key, value string) error

	// Delete removes key. Deleting an absent key is a no-op.
	Delete(key string)
}

// MemoryKV is an in-memory KV with an optional total byte quota.
// A MaxBytes of 0 means unlimited.
type MemoryKV struct {
	MaxBytes int
	data     map[string]string
}

// NewMemoryKV creates a MemoryKV limited to maxBytes (0 = unlimited).
func NewMemoryKV(maxBytes int) *MemoryKV {
	return &MemoryKV{
		MaxBytes: maxBytes,
		data:     make(map[string]string),
	}
}

// Get returns the value for key.
func (m *MemoryKV) Get(key string) (string, bool) {
	v, ok := m.data[key]
	return v, ok
}

// Set stores value under key, enforcing the byte quota across all keys.
func (m *MemoryKV) Set(key, value string) error {
	if m.MaxBytes > 0 {
		total := len(key) + len(value)
		for k, v := range m.data {
			if k == key {
				continue
			}
			total += len(k) + len(v)
		}
		if total > m.MaxBytes {
			return errors.New(errors.ErrStorageQuota,
				"value does not fit in the storage quota")
		}
	}
	m.data[key] = value
	return nil
}

// Delete removes key.
func (m *MemoryKV) Delete(key string) {
	delete(m.data, key)
}
