package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/AnshRaj112/journalify-backend/internal/models"
	"github.com/AnshRaj112/journalify-backend/internal/services"
)

// AddJournal handles PUT /addjournal. A repeated Idempotency-Key returns the
// current record without appending again.
func (h *Handler) AddJournal(w http.ResponseWriter, r *http.Request) {
	var req models.AddJournalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.UserID = strings.TrimSpace(req.UserID)
	if req.UserID == "" {
		writeMessage(w, http.StatusBadRequest, "userId is required")
		return
	}

	entry := req.Journal
	now := h.now().UTC()
	if entry.ID == "" {
		entry.ID = models.NewEntryID(now)
	}
	if entry.Date == "" {
		entry.Date = models.FormatEntryDate(now)
	}
	if entry.LastUpdated.IsZero() {
		entry.LastUpdated = now
	}

	ctx := r.Context()
	key := services.IdempotencyKey(r.Header.Get(models.IdempotencyHeader))
	claimed := false
	if key != "" && h.Claims != nil {
		key = req.UserID + ":" + key
		first, err := h.Claims.Claim(ctx, key)
		switch {
		case err != nil:
			// Redis trouble: apply the write rather than lose it
			log.Printf("[AddJournal] claim idempotency key: %v", err)
		case !first:
			h.replay(w, r, req.UserID)
			return
		default:
			claimed = true
		}
	}

	user, err := h.Users.AppendJournal(ctx, req.UserID, entry)
	if err != nil {
		if claimed {
			if relErr := h.Claims.Release(ctx, key); relErr != nil {
				log.Printf("[AddJournal] release idempotency key: %v", relErr)
			}
		}
		if errors.Is(err, services.ErrUserNotFound) {
			writeMessage(w, http.StatusNotFound, "User not found")
			return
		}
		log.Printf("[AddJournal] user %s: %v", req.UserID, err)
		writeMessage(w, http.StatusInternalServerError, "Failed to add journal")
		return
	}

	h.changed(ctx, services.EventJournalAdded, services.ActionAdded, req.UserID, entry.ID)

	public := user.Public()
	writeJSON(w, http.StatusOK, models.UserResponse{
		Success: true,
		Message: "Journal added successfully",
		User:    &public,
	})
}

func (h *Handler) replay(w http.ResponseWriter, r *http.Request, userID string) {
	user, err := h.Users.FindUserByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			writeMessage(w, http.StatusNotFound, "User not found")
			return
		}
		writeMessage(w, http.StatusInternalServerError, "Failed to add journal")
		return
	}
	public := user.Public()
	writeJSON(w, http.StatusOK, models.UserResponse{
		Success: true,
		Message: "Journal already added",
		User:    &public,
	})
}

// SaveJournal handles PUT /savejournal. With lastUpdated set the write loses
// to a newer stored version and answers 409.
func (h *Handler) SaveJournal(w http.ResponseWriter, r *http.Request) {
	var req models.SaveJournalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.UserID = strings.TrimSpace(req.UserID)
	if req.UserID == "" || req.JournalID == "" {
		writeMessage(w, http.StatusBadRequest, "userId and journalId are required")
		return
	}

	save := services.SaveContent{
		UserID:    req.UserID,
		JournalID: req.JournalID,
		Content:   req.Content,
	}
	if req.LastUpdated != nil {
		save.LastUpdated = req.LastUpdated.UTC()
		save.IfNotAfter = true
	} else {
		save.LastUpdated = h.now().UTC()
	}

	err := h.Users.SaveJournalContent(r.Context(), save)
	switch {
	case err == nil:
	case errors.Is(err, services.ErrUserNotFound):
		writeMessage(w, http.StatusNotFound, "User not found")
		return
	case errors.Is(err, services.ErrJournalNotFound):
		writeMessage(w, http.StatusNotFound, "Journal not found")
		return
	case errors.Is(err, services.ErrStaleWrite):
		writeMessage(w, http.StatusConflict, "Journal has a newer version")
		return
	default:
		log.Printf("[SaveJournal] user %s journal %s: %v", req.UserID, req.JournalID, err)
		writeMessage(w, http.StatusInternalServerError, "Failed to save journal")
		return
	}

	h.changed(r.Context(), services.EventJournalSaved, services.ActionSaved, req.UserID, req.JournalID)
	writeMessage(w, http.StatusOK, "Journal content saved successfully")
}

// DeleteJournal handles DELETE /deletejournal.
func (h *Handler) DeleteJournal(w http.ResponseWriter, r *http.Request) {
	var req models.DeleteJournalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.UserID = strings.TrimSpace(req.UserID)
	if req.UserID == "" || req.JournalID == "" {
		writeMessage(w, http.StatusBadRequest, "userId and journalId are required")
		return
	}

	err := h.Users.DeleteJournal(r.Context(), req.UserID, req.JournalID)
	switch {
	case err == nil:
	case errors.Is(err, services.ErrUserNotFound):
		writeMessage(w, http.StatusNotFound, "User not found")
		return
	case errors.Is(err, services.ErrJournalNotFound):
		writeMessage(w, http.StatusNotFound, "Journal not found")
		return
	default:
		log.Printf("[DeleteJournal] user %s journal %s: %v", req.UserID, req.JournalID, err)
		writeMessage(w, http.StatusInternalServerError, "Failed to delete journal")
		return
	}

	h.changed(r.Context(), services.EventJournalDeleted, services.ActionDeleted, req.UserID, req.JournalID)
	writeMessage(w, http.StatusOK, "Journal deleted successfully")
}

type ActivityResponse struct {
	Success  bool                `json:"success"`
	Message  string              `json:"message,omitempty"`
	Activity []services.Activity `json:"activity"`
}

// GetActivity handles GET /users/{userId}/activity?limit=N.
func (h *Handler) GetActivity(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	rows, err := h.Activity.Recent(r.Context(), userID, limit)
	if err != nil {
		log.Printf("[GetActivity] %s: %v", userID, err)
		writeMessage(w, http.StatusInternalServerError, "Failed to load activity")
		return
	}
	writeJSON(w, http.StatusOK, ActivityResponse{Success: true, Activity: rows})
}
