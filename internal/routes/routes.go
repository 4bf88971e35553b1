package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AnshRaj112/journalify-backend/internal/handlers"
)

func SetupRoutes(r chi.Router, h *handlers.Handler) {
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Accounts
	r.Put("/signup", h.Signup)
	r.Post("/signin", h.Signin)
	r.Get("/users/{userId}", h.GetUser)
	r.Get("/users/{userId}/activity", h.GetActivity)

	// Journal sync
	r.Put("/addjournal", h.AddJournal)
	r.Put("/savejournal", h.SaveJournal)
	r.Delete("/deletejournal", h.DeleteJournal)

	// Change stream
	r.Get("/ws/journal", h.JournalWebSocket)
}

// Registered lists the routes above for the startup log.
var Registered = []string{
	"GET    /health",
	"PUT    /signup",
	"POST   /signin",
	"GET    /users/{userId}",
	"GET    /users/{userId}/activity",
	"PUT    /addjournal",
	"PUT    /savejournal",
	"DELETE /deletejournal",
	"GET    /ws/journal",
}
