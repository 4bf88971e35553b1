package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/AnshRaj112/journalify-backend/internal/models"
	"github.com/AnshRaj112/journalify-backend/internal/services"
	"github.com/AnshRaj112/journalify-backend/pkg/utils"
)

// Signup handles PUT /signup.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := utils.ValidateSignup(req.Name, req.Email, req.Password); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		log.Printf("[Signup] hash password: %v", err)
		writeMessage(w, http.StatusInternalServerError, "Failed to create user")
		return
	}

	user := &models.User{
		Name:     strings.TrimSpace(req.Name),
		Email:    req.Email,
		Password: hashed,
	}
	if err := h.Users.CreateUser(r.Context(), user); err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			writeMessage(w, http.StatusConflict, "User with this email already exists")
			return
		}
		log.Printf("[Signup] create user: %v", err)
		writeMessage(w, http.StatusInternalServerError, "Failed to create user")
		return
	}

	public := user.Public()
	writeJSON(w, http.StatusCreated, models.UserResponse{
		Success: true,
		Message: "User created successfully",
		User:    &public,
	})
}

// Signin handles POST /signin. Unknown emails and wrong passwords get the
// same 401.
func (h *Handler) Signin(w http.ResponseWriter, r *http.Request) {
	var req models.SigninRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		writeMessage(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, err := h.Users.FindUserByEmail(r.Context(), req.Email)
	if err != nil {
		if !errors.Is(err, services.ErrUserNotFound) {
			log.Printf("[Signin] find user: %v", err)
			writeMessage(w, http.StatusInternalServerError, "Failed to sign in")
			return
		}
		writeMessage(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	ok, err := utils.VerifyPassword(req.Password, user.Password)
	if err != nil || !ok {
		writeMessage(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	public := user.Public()
	writeJSON(w, http.StatusOK, models.UserResponse{
		Success: true,
		Message: "Signed in successfully",
		User:    &public,
	})
}

// GetUser handles GET /users/{userId}.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	user, err := h.Users.FindUserByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			writeMessage(w, http.StatusNotFound, "User not found")
			return
		}
		log.Printf("[GetUser] %s: %v", userID, err)
		writeMessage(w, http.StatusInternalServerError, "Failed to load user")
		return
	}

	public := user.Public()
	writeJSON(w, http.StatusOK, models.UserResponse{Success: true, User: &public})
}
