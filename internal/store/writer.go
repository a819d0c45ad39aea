package store

import (
	"encoding/json"

	"github.com/Jnxx02/logbook-kkn-generator/internal/errors"
	"github.com/Jnxx02/logbook-kkn-generator/internal/logging"
	"github.com/Jnxx02/logbook-kkn-generator/internal/models"
)

// shrinkFactor is applied to the persisted slice length after each failed
// quota attempt: the first retry keeps 80% of the entries, then 80% of
// that, floored, until the slice is empty.
const shrinkFactor = 0.80

// Writer persists the entry list to a KV, degrading gracefully under quota
// pressure by truncating the oldest entries first. Image fields hold only
// reference keys at this point, never payloads.
type Writer struct {
	kv  KV
	key string
}

// NewWriter creates a Writer persisting under the given KV key.
func NewWriter(kv KV, key string) *Writer {
	return &Writer{kv: kv, key: key}
}

// Persist writes entries to the store and returns how many were kept.
// On a quota failure it retries with a shrinking suffix of the collection
// (most recent entries kept, oldest dropped first). A return below
// len(entries) notifies the caller that older entries were dropped. When no
// slice fits, the failure is logged and 0 is returned; no error surfaces.
func (w *Writer) Persist(entries []models.LogEntry) int {
	if ok := w.attempt(entries); ok {
		return len(entries)
	}

	n := int(float64(len(entries)) * shrinkFactor)
	for n > 0 {
		if ok := w.attempt(entries[len(entries)-n:]); ok {
			logging.Warn("persisted a truncated entry list",
				map[string]interface{}{
					"kept":    n,
					"dropped": len(entries) - n,
				})
			return n
		}
		n = int(float64(n) * shrinkFactor)
	}

	logging.Error("abandoning entry persistence for this cycle", nil,
		map[string]interface{}{"entries": len(entries)})
	return 0
}

// Load reads the persisted entry list back. An absent or corrupt value
// yields an empty list.
func (w *Writer) Load() []models.LogEntry {
	raw, ok := w.kv.Get(w.key)
	if !ok {
		return nil
	}
	var entries []models.LogEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		logging.Error("discarding corrupt persisted entry list", err)
		return nil
	}
	return entries
}

// attempt serializes and writes one candidate slice. Quota failures are the
// expected retry trigger and stay quiet; other failures are logged but the
// shrinking loop still bounds the retries.
func (w *Writer) attempt(entries []models.LogEntry) bool {
	data, err := json.Marshal(entries)
	if err != nil {
		logging.Error("failed to serialize entries", err)
		return false
	}
	err = w.kv.Set(w.key, string(data))
	if err == nil {
		return true
	}
	if !errors.Is(err, errors.ErrStorageQuota) {
		logging.Error("entry persistence failed", err)
	}
	return false
}
