package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/nikolayk812/orderflow/internal/domain"
	"github.com/samber/lo"
)

type NotificationHandler struct {
	notifications NotificationService
}

func NewNotificationHandler(notifications NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// GET /customers/{customer_id}/notifications?unread=true
func (h *NotificationHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	customerID, ok := pathID(w, r, "customer_id")
	if !ok {
		return
	}

	unreadOnly := false
	if raw := r.URL.Query().Get("unread"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid_filter", "unread must be a boolean")
			return
		}
		unreadOnly = parsed
	}

	list, err := h.notifications.ListNotifications(r.Context(), customerID, unreadOnly)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, lo.Map(list, func(n domain.Notification, _ int) NotificationDTO {
		return toNotificationDTO(n)
	}))
}

// PUT /notifications/{notification_id}/read
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	notificationID, err := uuid.Parse(chi.URLParam(r, "notification_id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_id", "notification_id must be a UUID")
		return
	}

	if err := h.notifications.MarkRead(r.Context(), notificationID); err != nil {
		respondDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
