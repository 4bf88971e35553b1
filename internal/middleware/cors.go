package middleware

import (
	"net/http"

	"github.com/go-chi/cors"

	"github.com/AnshRaj112/journalify-backend/internal/models"
)

// CORS allows the configured frontends, including the Idempotency-Key header
// the sync client sends with addjournal.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", "X-Requested-With", models.IdempotencyHeader},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	})
}
