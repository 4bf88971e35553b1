package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/AnshRaj112/journalify-backend/internal/models"
	"github.com/AnshRaj112/journalify-backend/internal/services"
)

// Handler serves the journal API. Claims, Events and Activity are optional.
type Handler struct {
	Users    services.UserStore
	Claims   services.KeyClaimer
	Events   *services.EventBus
	Activity *services.ActivityLog

	now func() time.Time
}

func NewHandler(users services.UserStore, claims services.KeyClaimer, events *services.EventBus, activity *services.ActivityLog) *Handler {
	return &Handler{
		Users:    users,
		Claims:   claims,
		Events:   events,
		Activity: activity,
		now:      time.Now,
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, models.MessageResponse{
		Success: status < http.StatusBadRequest,
		Message: message,
	})
}

// changed publishes a change event and records activity. Neither may fail the
// request that caused it.
func (h *Handler) changed(ctx context.Context, eventType, action, userID string, journalID models.EntryID) {
	h.Activity.Record(userID, journalID, action)
	if h.Events == nil {
		return
	}
	err := h.Events.Publish(ctx, services.JournalEvent{
		Type:      eventType,
		UserID:    userID,
		JournalID: journalID,
		Timestamp: h.now().UTC(),
	})
	if err != nil {
		log.Printf("[Handler] publish %s for user %s: %v", eventType, userID, err)
	}
}
