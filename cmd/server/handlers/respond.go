// Package handlers provides the REST API handlers for the logbook server.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Jnxx02/logbook-kkn-generator/internal/errors"
	"github.com/Jnxx02/logbook-kkn-generator/internal/logging"
	"github.com/Jnxx02/logbook-kkn-generator/internal/models"
)

// respondJSON writes payload as a JSON response with the given status.
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

// respondDetail writes the standard {"detail": ...} error body.
func respondDetail(w http.ResponseWriter, status int, detail string) {
	respondJSON(w, status, models.ErrorDetail{Detail: detail})
}

// respondError maps an application error to an HTTP status and the
// standard error body. Internal failures never leak their message.
func respondError(w http.ResponseWriter, err error) {
	switch errors.CodeOf(err) {
	case errors.ErrValidation, errors.ErrDuplicate:
		respondDetail(w, http.StatusBadRequest, errors.Message(err))
	case errors.ErrNotFound:
		respondDetail(w, http.StatusNotFound, errors.Message(err))
	case errors.ErrUnauthorized:
		respondDetail(w, http.StatusUnauthorized, errors.Message(err))
	case errors.ErrForbidden:
		respondDetail(w, http.StatusForbidden, errors.Message(err))
	case errors.ErrNetwork, errors.ErrHTTP:
		respondDetail(w, http.StatusBadGateway, errors.Message(err))
	case errors.ErrStorageQuota:
		respondDetail(w, http.StatusInsufficientStorage, errors.Message(err))
	default:
		logging.Error("request failed", err)
		respondDetail(w, http.StatusInternalServerError, "internal server error")
	}
}
