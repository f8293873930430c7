/**
 * @description
 * HTTP handlers for the notifier-service: the in-app inbox surface, the
 * internal reminder-sweep trigger, and the collaborator alert entry
 * points.
 */
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/stockpilot/notifier-service/internal/app"
	"github.com/stockpilot/notifier-service/internal/domain"
)

// Handler holds the application services the HTTP surface exposes.
type Handler struct {
	inbox     *app.InboxService
	alerts    *app.AlertService
	reminders app.ReminderSweeper
	logger    *slog.Logger
}

// NewHandler creates a new Handler with the given services.
func NewHandler(inbox *app.InboxService, alerts *app.AlertService, reminders app.ReminderSweeper, logger *slog.Logger) *Handler {
	return &Handler{inbox: inbox, alerts: alerts, reminders: reminders, logger: logger}
}

func (h *Handler) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	limit := 50
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	opts := domain.NotificationListOptions{
		Limit:      limit,
		UnreadOnly: r.URL.Query().Get("status") == "unread",
	}

	notifications, err := h.inbox.List(r.Context(), userID, opts)
	if err != nil {
		h.logger.Error("failed to list notifications", "user_id", userID, "error", err)
		http.Error(w, "Could not retrieve notifications", http.StatusInternalServerError)
		return
	}

	respondWithJSON(w, http.StatusOK, notifications)
}

func (h *Handler) handleUnreadCount(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	count, err := h.inbox.CountUnread(r.Context(), userID)
	if err != nil {
		h.logger.Error("failed to count unread notifications", "user_id", userID, "error", err)
		http.Error(w, "Could not retrieve unread count", http.StatusInternalServerError)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]int{"unread": count})
}

func (h *Handler) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	notificationID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid notification ID", http.StatusBadRequest)
		return
	}

	updated, err := h.inbox.MarkRead(r.Context(), userID, notificationID.String())
	if err != nil {
		h.logger.Error("failed to mark notification read", "user_id", userID, "notification_id", notificationID, "error", err)
		http.Error(w, "Could not update notification", http.StatusInternalServerError)
		return
	}
	if !updated {
		http.Error(w, "Notification not found", http.StatusNotFound)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]bool{"updated": true})
}

func (h *Handler) handleMarkAllRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	updated, err := h.inbox.MarkAllRead(r.Context(), userID)
	if err != nil {
		h.logger.Error("failed to mark all notifications read", "user_id", userID, "error", err)
		http.Error(w, "Could not update notifications", http.StatusInternalServerError)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]int64{"updated": updated})
}

// handleRunReminderSweep is the remote-trigger entry point. It runs the
// same sweep implementation the cron fallback does.
func (h *Handler) handleRunReminderSweep(w http.ResponseWriter, r *http.Request) {
	sent, err := h.reminders.SweepReminders(r.Context(), time.Now())
	if err != nil {
		h.logger.Error("triggered reminder sweep failed", "error", err)
		http.Error(w, "Reminder sweep failed", http.StatusInternalServerError)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]int{"sent": sent})
}

type lowStockPayload struct {
	UserID          string `json:"user_id"`
	ItemName        string `json:"item_name"`
	CurrentQuantity int    `json:"current_quantity"`
}

func (h *Handler) handleLowStockAlert(w http.ResponseWriter, r *http.Request) {
	var payload lowStockPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if payload.UserID == "" || strings.TrimSpace(payload.ItemName) == "" {
		http.Error(w, "user_id and item_name are required", http.StatusBadRequest)
		return
	}

	if err := h.alerts.EmitLowStock(r.Context(), payload.UserID, payload.ItemName, payload.CurrentQuantity); err != nil {
		h.logger.Error("failed to emit low-stock alert", "user_id", payload.UserID, "error", err)
		http.Error(w, "Could not record alert", http.StatusInternalServerError)
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]bool{"created": true})
}

type paymentDuePayload struct {
	UserID    string `json:"user_id"`
	AmountDue int64  `json:"amount_due"`
}

func (h *Handler) handlePaymentDueAlert(w http.ResponseWriter, r *http.Request) {
	var payload paymentDuePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if payload.UserID == "" || payload.AmountDue <= 0 {
		http.Error(w, "user_id and a positive amount_due are required", http.StatusBadRequest)
		return
	}

	if err := h.alerts.EmitPaymentDue(r.Context(), payload.UserID, payload.AmountDue); err != nil {
		h.logger.Error("failed to emit payment-due alert", "user_id", payload.UserID, "error", err)
		http.Error(w, "Could not record alert", http.StatusInternalServerError)
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]bool{"created": true})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
