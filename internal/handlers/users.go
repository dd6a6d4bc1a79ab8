package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"places-backend/internal/auth"
	"places-backend/internal/repository"
	"places-backend/models"
)

type UserHandler struct {
	users         repository.UserRepository
	secretKey     []byte
	tokenValidity time.Duration
}

func NewUserHandler(users repository.UserRepository, secretKey []byte, tokenValidity time.Duration) *UserHandler {
	return &UserHandler{
		users:         users,
		secretKey:     secretKey,
		tokenValidity: tokenValidity,
	}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type userPayload struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid JSON body"})
		return
	}

	errs := models.FieldErrors{}
	if strings.TrimSpace(req.Username) == "" {
		errs["username"] = "This field is required"
	}
	if strings.TrimSpace(req.Email) == "" {
		errs["email"] = "This field is required"
	}
	if len(req.Password) < 8 {
		errs["password"] = "Password must be at least 8 characters"
	}
	if len(errs) > 0 {
		writeError(w, errs)
		return
	}

	if _, err := h.users.GetByUsername(r.Context(), req.Username); err == nil {
		writeJSON(w, http.StatusConflict, errorResponse{Error: "Username already taken"})
		return
	} else if !errors.Is(err, models.ErrNotFound) {
		writeError(w, err)
		return
	}
	if _, err := h.users.GetByEmail(r.Context(), req.Email); err == nil {
		writeJSON(w, http.StatusConflict, errorResponse{Error: "Email already taken"})
		return
	} else if !errors.Is(err, models.ErrNotFound) {
		writeError(w, err)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
	}
	if err := h.users.Create(r.Context(), user); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, userPayload{ID: user.ID, Username: user.Username, Email: user.Email})
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid JSON body"})
		return
	}

	user, err := h.users.GetByUsername(r.Context(), req.Username)
	if err != nil || !auth.VerifyPassword(req.Password, user.PasswordHash) {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "Invalid username or password"})
		return
	}

	token, err := auth.GenerateToken(user.ID, h.secretKey, h.tokenValidity)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{Token: token})
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	payload := make([]userPayload, 0, len(users))
	for _, user := range users {
		payload = append(payload, userPayload{ID: user.ID, Username: user.Username})
	}
	writeJSON(w, http.StatusOK, payload)
}

func (h *UserHandler) Detail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		writeError(w, models.ErrNotFound)
		return
	}

	user, err := h.users.GetByID(r.Context(), uint(id))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, userPayload{ID: user.ID, Username: user.Username})
}
