package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/Jnxx02/logbook-kkn-generator/internal/auth"
	"github.com/Jnxx02/logbook-kkn-generator/internal/db"
	"github.com/Jnxx02/logbook-kkn-generator/internal/errors"
	"github.com/Jnxx02/logbook-kkn-generator/internal/logging"
	"github.com/Jnxx02/logbook-kkn-generator/internal/models"
)

// AuthHandler handles registration and login.
type AuthHandler struct {
	repo   *db.Repository
	tokens *auth.Manager
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(repo *db.Repository, tokens *auth.Manager) *AuthHandler {
	return &AuthHandler{repo: repo, tokens: tokens}
}

// Register handles POST /api/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		IsAdmin  bool   `json:"is_admin"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		respondDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	request.Email = strings.TrimSpace(request.Email)
	if request.Email == "" || !strings.Contains(request.Email, "@") {
		respondDetail(w, http.StatusBadRequest, "a valid email is required")
		return
	}
	if len(request.Password) < 6 {
		respondDetail(w, http.StatusBadRequest, "password must be at least 6 characters")
		return
	}

	hash, err := auth.HashPassword(request.Password)
	if err != nil {
		respondError(w, err)
		return
	}

	user, err := h.repo.CreateUser(request.Email, hash, request.IsAdmin)
	if err != nil {
		respondError(w, err)
		return
	}

	logging.Info("registered user", map[string]interface{}{
		"user_id": user.ID,
		"admin":   user.IsAdmin,
	})
	respondJSON(w, http.StatusCreated, user)
}

// Login handles POST /api/login. The body is form-encoded with username
// and password fields; the username carries the email.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondDetail(w, http.StatusBadRequest, "invalid form body")
		return
	}
	email := r.PostFormValue("username")
	password := r.PostFormValue("password")

	user, err := h.repo.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			respondDetail(w, http.StatusBadRequest, "incorrect email or password")
			return
		}
		respondError(w, err)
		return
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		respondDetail(w, http.StatusBadRequest, "incorrect email or password")
		return
	}

	token, err := h.tokens.CreateToken(user.ID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, models.Token{
		AccessToken: token,
		TokenType:   "bearer",
	})
}
