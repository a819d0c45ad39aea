package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/Jnxx02/logbook-kkn-generator/internal/auth"
	"github.com/Jnxx02/logbook-kkn-generator/internal/db"
	"github.com/Jnxx02/logbook-kkn-generator/internal/export"
	"github.com/Jnxx02/logbook-kkn-generator/internal/imgcompress"
	"github.com/Jnxx02/logbook-kkn-generator/internal/logging"
	"github.com/Jnxx02/logbook-kkn-generator/internal/models"
	"github.com/Jnxx02/logbook-kkn-generator/internal/store"
)

// docContentType is the MIME type of the generated Word document.
const docContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// LogbookHandler handles entry CRUD for authenticated users. Image
// payloads arriving as data URIs are compressed to imageBudget bytes and
// stored through images; entries carry only the reference key.
type LogbookHandler struct {
	repo        *db.Repository
	images      *store.ImageStore
	exporter    export.Interface
	imageBudget int
}

// NewLogbookHandler creates a new LogbookHandler.
func NewLogbookHandler(repo *db.Repository, images *store.ImageStore, exporter export.Interface, imageBudget int) *LogbookHandler {
	return &LogbookHandler{
		repo:        repo,
		images:      images,
		exporter:    exporter,
		imageBudget: imageBudget,
	}
}

// currentUser loads the authenticated user from the request context.
func (h *LogbookHandler) currentUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		respondDetail(w, http.StatusUnauthorized, "not authenticated")
		return nil, false
	}
	user, err := h.repo.GetUserByID(userID)
	if err != nil {
		respondDetail(w, http.StatusUnauthorized, "could not validate credentials")
		return nil, false
	}
	return user, true
}

// storeImage fits an incoming data-URI payload to the byte budget and
// stores it, replacing the entry field with the reference key. A field
// that is not a data URI passes through untouched. Compression failures
// fall back to storing the original payload.
func (h *LogbookHandler) storeImage(entry *models.LogEntry) error {
	payload := entry.DokumenPendukung
	if !strings.HasPrefix(payload, "data:") {
		return nil
	}

	fitted, err := imgcompress.FitToSize(payload, h.imageBudget)
	if err != nil {
		logging.Warn("image compression failed, storing original payload",
			map[string]interface{}{"error": err.Error()})
		fitted = payload
	}

	key, err := h.images.Put(fitted)
	if err != nil {
		return err
	}
	entry.DokumenPendukung = key
	return nil
}

// List handles GET /logbook. Optional from/to query parameters narrow the
// result to a date range. Admins see every user's entries.
func (h *LogbookHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	fb := db.NewFilterBuilder().DateRange(
		r.URL.Query().Get("from"),
		r.URL.Query().Get("to"),
	)
	entries, err := h.repo.ListEntries(user.ID, user.IsAdmin, fb)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, entries)
}

// AdminList handles GET /admin/logbook: all entries, admins only.
func (h *LogbookHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	if !user.IsAdmin {
		respondDetail(w, http.StatusForbidden, "admin access required")
		return
	}

	entries, err := h.repo.ListEntries(user.ID, true, nil)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, entries)
}

// Create handles POST /logbook.
func (h *LogbookHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	var entry models.LogEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		respondDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	entry.UserID = user.ID

	if err := h.storeImage(&entry); err != nil {
		respondError(w, err)
		return
	}
	if err := h.repo.CreateEntry(&entry); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, entry)
}

// Update handles PUT /logbook/{id}.
func (h *LogbookHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	var entry models.LogEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		respondDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.storeImage(&entry); err != nil {
		respondError(w, err)
		return
	}

	id := mux.Vars(r)["id"]
	previous, _ := h.repo.GetEntry(id)

	updated, err := h.repo.UpdateEntry(id, user.ID, user.IsAdmin, &entry)
	if err != nil {
		respondError(w, err)
		return
	}

	// A replaced image reference orphans the old payload.
	if previous != nil && previous.DokumenPendukung != "" &&
		previous.DokumenPendukung != updated.DokumenPendukung {
		h.images.Delete(previous.DokumenPendukung)
	}
	respondJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /logbook/{id}.
func (h *LogbookHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	id := mux.Vars(r)["id"]
	previous, _ := h.repo.GetEntry(id)

	if err := h.repo.DeleteEntry(id, user.ID, user.IsAdmin); err != nil {
		respondError(w, err)
		return
	}
	if previous != nil {
		h.images.Delete(previous.DokumenPendukung)
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Image handles GET /logbook/{id}/image: resolves the entry's image
// reference to the stored payload.
func (h *LogbookHandler) Image(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	entry, err := h.repo.GetEntry(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, err)
		return
	}
	if !user.IsAdmin && entry.UserID != user.ID {
		respondDetail(w, http.StatusNotFound, "entry not found")
		return
	}

	payload, ok := h.images.Get(entry.DokumenPendukung)
	if !ok {
		respondDetail(w, http.StatusNotFound, "entry has no image")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"dokumen_pendukung": payload})
}

// Generate handles POST /logbook/generate: forwards the caller's entries
// to the document-generation endpoint and streams the document back.
func (h *LogbookHandler) Generate(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	entries, err := h.repo.ListEntries(user.ID, user.IsAdmin, nil)
	if err != nil {
		respondError(w, err)
		return
	}
	if len(entries) == 0 {
		respondDetail(w, http.StatusBadRequest, "no entries to generate")
		return
	}

	result, err := h.exporter.Generate(r.Context(), entries)
	if err != nil {
		respondError(w, err)
		return
	}

	w.Header().Set("Content-Type", docContentType)
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", result.Filename))
	w.WriteHeader(http.StatusOK)
	w.Write(result.Document)
}

// Health handles GET /api/health.
func Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}
