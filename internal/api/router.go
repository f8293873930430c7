/**
 * @description
 * HTTP router setup for the notifier-service using go-chi/chi.
 */
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new Chi router and registers notifier routes.
func NewRouter(h *Handler, jwtSecret string, internalKey string) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Internal-API-Key"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Notifier service is healthy"))
	})

	r.Route("/internal", func(r chi.Router) {
		r.Use(InternalAuthMiddleware(internalKey))
		r.Post("/sweeps/reminders", h.handleRunReminderSweep)
		r.Post("/alerts/low-stock", h.handleLowStockAlert)
		r.Post("/alerts/payment-due", h.handlePaymentDueAlert)
	})

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(jwtSecret))
		r.Get("/notifications", h.handleListNotifications)
		r.Get("/notifications/unread-count", h.handleUnreadCount)
		r.Post("/notifications/{id}/read", h.handleMarkRead)
		r.Post("/notifications/read-all", h.handleMarkAllRead)
	})

	return r
}
