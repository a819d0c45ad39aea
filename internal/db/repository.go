// Package db provides CRUD repository operations for users and entries.
package db

import (
	"database/sql"
	"strings"
	"time"

	"github.com/Jnxx02/logbook-kkn-generator/internal/errors"
	"github.com/Jnxx02/logbook-kkn-generator/internal/models"
	"github.com/Jnxx02/logbook-kkn-generator/internal/uuid"
)

// Repository provides CRUD operations on users and logbook entries.
type Repository struct {
	db *DB
}

// NewRepository creates a Repository over db.
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// =====================================================
// User Operations
// =====================================================

// CreateUser inserts a new user. A taken email is a DUPLICATE_ERROR.
func (r *Repository) CreateUser(email, passwordHash string, isAdmin bool) (*models.User, error) {
	res, err := r.db.Exec(`
	INSERT INTO users (email, password_hash, is_admin)
	VALUES (?, ?, ?)
	`, email, passwordHash, isAdmin)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, errors.New(errors.ErrDuplicate, "email already registered")
		}
		return nil, errors.Wrap(errors.ErrDatabase, "failed to create user", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to read user id", err)
	}
	return r.GetUserByID(id)
}

// GetUserByEmail retrieves a user by email.
func (r *Repository) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.Get(&user, `
	SELECT id, email, password_hash, is_admin, created_at
	FROM users WHERE email = ?
	`, email)
	if err == sql.ErrNoRows {
		return nil, errors.New(errors.ErrNotFound, "user not found")
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to load user", err)
	}
	return &user, nil
}

// GetUserByID retrieves a user by ID.
func (r *Repository) GetUserByID(id int64) (*models.User, error) {
	var user models.User
	err := r.db.Get(&user, `
	SELECT id, email, password_hash, is_admin, created_at
	FROM users WHERE id = ?
	`, id)
	if err == sql.ErrNoRows {
		return nil, errors.New(errors.ErrNotFound, "user not found")
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to load user", err)
	}
	return &user, nil
}

// =====================================================
// Entry Operations
// =====================================================

// entryColumns selects the entry row in the model's shape. Nullable text
// columns come back as empty strings.
const entryColumns = `
	id, user_id, tanggal, jam_mulai,
	COALESCE(jam_selesai, '') AS jam_selesai,
	judul_kegiatan, rincian_kegiatan,
	COALESCE(dokumen_pendukung, '') AS dokumen_pendukung,
	created_at
`

// CreateEntry validates and inserts a new entry for the owner set in
// entry.UserID, assigning its identifier and creation time in place.
func (r *Repository) CreateEntry(entry *models.LogEntry) error {
	if err := entry.Validate(); err != nil {
		return err
	}
	entry.ID = uuid.New()
	entry.CreatedAt = time.Now().Unix()

	_, err := r.db.Exec(`
	INSERT INTO logbook_entries
		(id, user_id, tanggal, jam_mulai, jam_selesai,
		 judul_kegiatan, rincian_kegiatan, dokumen_pendukung, created_at)
	VALUES (?, ?, ?, ?, NULLIF(?, ''), ?, ?, NULLIF(?, ''), ?)
	`, entry.ID, entry.UserID, entry.Tanggal, entry.JamMulai, entry.JamSelesai,
		entry.JudulKegiatan, entry.RincianKegiatan, entry.DokumenPendukung, entry.CreatedAt)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "failed to create entry", err)
	}
	return nil
}

// GetEntry retrieves an entry by ID regardless of owner; callers enforce
// access.
func (r *Repository) GetEntry(id string) (*models.LogEntry, error) {
	var entry models.LogEntry
	err := r.db.Get(&entry, `
	SELECT `+entryColumns+`
	FROM logbook_entries WHERE id = ?
	`, id)
	if err == sql.ErrNoRows {
		return nil, errors.New(errors.ErrNotFound, "entry not found")
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to load entry", err)
	}
	return &entry, nil
}

// ListEntries returns entries in display order, ascending by
// (tanggal, jam_mulai). Non-admins see only their own entries; admins see
// everything. An optional FilterBuilder narrows the result further.
func (r *Repository) ListEntries(userID int64, admin bool, fb *FilterBuilder) ([]models.LogEntry, error) {
	if fb == nil {
		fb = NewFilterBuilder()
	}
	if !admin {
		fb.Owner(userID)
	}

	query := `SELECT ` + entryColumns + ` FROM logbook_entries`
	where, args := fb.Build()
	if where != "" {
		query += " WHERE " + where
	}
	query += " ORDER BY tanggal ASC, jam_mulai ASC"

	entries := []models.LogEntry{}
	if err := r.db.Select(&entries, query, args...); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to list entries", err)
	}
	return entries, nil
}

// UpdateEntry replaces the mutable fields of the entry with the given ID.
// Non-admins can only touch their own entries; a foreign or missing ID is
// NOT_FOUND either way. The stored entry is returned.
func (r *Repository) UpdateEntry(id string, userID int64, admin bool, entry *models.LogEntry) (*models.LogEntry, error) {
	if err := entry.Validate(); err != nil {
		return nil, err
	}

	query := `
	UPDATE logbook_entries
	SET tanggal = ?, jam_mulai = ?, jam_selesai = NULLIF(?, ''),
	    judul_kegiatan = ?, rincian_kegiatan = ?, dokumen_pendukung = NULLIF(?, '')
	WHERE id = ?`
	args := []interface{}{
		entry.Tanggal, entry.JamMulai, entry.JamSelesai,
		entry.JudulKegiatan, entry.RincianKegiatan, entry.DokumenPendukung, id,
	}
	if !admin {
		query += " AND user_id = ?"
		args = append(args, userID)
	}

	res, err := r.db.Exec(query, args...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to update entry", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to read update result", err)
	}
	if affected == 0 {
		return nil, errors.New(errors.ErrNotFound, "entry not found")
	}
	return r.GetEntry(id)
}

// DeleteEntry removes the entry with the given ID under the same ownership
// rules as UpdateEntry.
func (r *Repository) DeleteEntry(id string, userID int64, admin bool) error {
	query := `DELETE FROM logbook_entries WHERE id = ?`
	args := []interface{}{id}
	if !admin {
		query += " AND user_id = ?"
		args = append(args, userID)
	}

	res, err := r.db.Exec(query, args...)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "failed to delete entry", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "failed to read delete result", err)
	}
	if affected == 0 {
		return errors.New(errors.ErrNotFound, "entry not found")
	}
	return nil
}

// isUniqueViolation reports whether err is a sqlite UNIQUE constraint
// failure. The modernc driver exposes no typed error for this.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
