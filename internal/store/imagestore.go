package store

import (
	"github.com/Jnxx02/logbook-kkn-generator/internal/uuid"
)

// ImageStore holds encoded image payloads keyed by generated identifiers.
// Entries reference images by key; the payloads never travel with the
// serialized entry list so text-storage quotas stay untouched by image data.
type ImageStore struct {
	kv KV
}

// NewImageStore creates an ImageStore over the given KV.
func NewImageStore(kv KV) *ImageStore {
	return &ImageStore{kv: kv}
}

// Put stores payload under a fresh key and returns the key.
func (s *ImageStore) Put(payload string) (string, error) {
	key := uuid.New()
	if err := s.kv.Set(key, payload); err != nil {
		return "", err
	}
	return key, nil
}

// Get returns the payload for key. An absent key means "no image" and is
// reported via the boolean, never as an error.
func (s *ImageStore) Get(key string) (string, bool) {
	if key == "" {
		return "", false
	}
	return s.kv.Get(key)
}

// Delete removes the payload for key. Best-effort: absent keys are fine.
func (s *ImageStore) Delete(key string) {
	if key == "" {
		return
	}
	s.kv.Delete(key)
}
