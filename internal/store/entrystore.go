package store

import (
	"sort"
	"time"

	"github.com/Jnxx02/logbook-kkn-generator/internal/errors"
	"github.com/Jnxx02/logbook-kkn-generator/internal/models"
	"github.com/Jnxx02/logbook-kkn-generator/internal/uuid"
)

// EntriesKey is the KV key holding the serialized entry list.
const EntriesKey = "logbook_entries"

// EntryStore is the in-memory entry list, source of truth for the UI and
// for persistence. It keeps insertion order internally; display order is a
// derived sort by (tanggal, jam_mulai) ascending.
//
// The store is single-owner: all mutations come from one goroutine (the UI
// callback path), so there is no locking. Every mutation explicitly invokes
// the quota-safe writer.
type EntryStore struct {
	entries []models.LogEntry
	images  *ImageStore
	writer  *Writer

	// OnTruncate, when set, is called after a persist cycle that dropped
	// older entries to fit the storage quota.
	OnTruncate func(dropped int)
}

// NewEntryStore creates an EntryStore persisting through writer and
// resolving image references through images.
func NewEntryStore(writer *Writer, images *ImageStore) *EntryStore {
	return &EntryStore{
		images: images,
		writer: writer,
	}
}

// Load restores the entry list from the underlying store. Entries whose
// image reference has no backing payload are kept; they resolve to no image.
func (s *EntryStore) Load() {
	s.entries = s.writer.Load()
}

// Add validates and appends a new entry, assigning it a fresh identifier,
// then persists. The stored entry is returned.
func (s *EntryStore) Add(entry models.LogEntry) (models.LogEntry, error) {
	if err := entry.Validate(); err != nil {
		return models.LogEntry{}, err
	}
	entry.ID = uuid.New()
	entry.CreatedAt = time.Now().Unix()
	s.entries = append(s.entries, entry)
	s.persist()
	return entry, nil
}

// Update replaces the entry with the given id in place and persists.
// The identifier and creation time of the original are preserved.
func (s *EntryStore) Update(id string, entry models.LogEntry) (models.LogEntry, error) {
	if err := entry.Validate(); err != nil {
		return models.LogEntry{}, err
	}
	for i := range s.entries {
		if s.entries[i].ID == id {
			entry.ID = id
			entry.CreatedAt = s.entries[i].CreatedAt
			// A replaced image reference orphans the old payload.
			if old := s.entries[i].DokumenPendukung; old != "" && old != entry.DokumenPendukung {
				s.images.Delete(old)
			}
			s.entries[i] = entry
			s.persist()
			return entry, nil
		}
	}
	return models.LogEntry{}, errors.New(errors.ErrNotFound, "entry not found: "+id)
}

// Delete removes the entry with the given id, deleting its stored image
// best-effort, and persists.
func (s *EntryStore) Delete(id string) error {
	for i := range s.entries {
		if s.entries[i].ID == id {
			s.images.Delete(s.entries[i].DokumenPendukung)
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			s.persist()
			return nil
		}
	}
	return errors.New(errors.ErrNotFound, "entry not found: "+id)
}

// List returns all entries in display order.
func (s *EntryStore) List() []models.LogEntry {
	out := make([]models.LogEntry, len(s.entries))
	copy(out, s.entries)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Before(&out[j])
	})
	return out
}

// Filter returns entries whose date falls in [from, to], in display order.
// An empty bound leaves that side open. Dates compare lexically, which is
// correct for the YYYY-MM-DD wire format.
func (s *EntryStore) Filter(from, to string) []models.LogEntry {
	var out []models.LogEntry
	for _, e := range s.List() {
		if from != "" && e.Tanggal < from {
			continue
		}
		if to != "" && e.Tanggal > to {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Page returns one page of the display-ordered list plus the total page
// count. Pages are 1-based; perPage must be positive.
func (s *EntryStore) Page(page, perPage int) ([]models.LogEntry, int) {
	all := s.List()
	if perPage < 1 {
		perPage = 1
	}
	totalPages := (len(all) + perPage - 1) / perPage
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * perPage
	if start >= len(all) {
		return nil, totalPages
	}
	end := start + perPage
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], totalPages
}

// Image resolves an entry's image reference. A missing payload renders as
// "no image": the boolean is false and no error is raised.
func (s *EntryStore) Image(entry *models.LogEntry) (string, bool) {
	return s.images.Get(entry.DokumenPendukung)
}

// persist runs the quota-safe writer and reports truncation, if any.
func (s *EntryStore) persist() {
	kept := s.writer.Persist(s.entries)
	if dropped := len(s.entries) - kept; dropped > 0 && s.OnTruncate != nil {
		s.OnTruncate(dropped)
	}
}
