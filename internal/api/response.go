package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/nikolayk812/orderflow/internal/domain"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response", "method", "respondJSON", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{Error: message, Code: code})
}

// respondDomainError maps service errors onto HTTP statuses.
func respondDomainError(w http.ResponseWriter, err error) {
	var stockErr *domain.InsufficientStockError

	switch {
	case errors.Is(err, domain.ErrNotFound):
		respondError(w, http.StatusNotFound, "order_not_found", err.Error())
	case errors.Is(err, domain.ErrProductNotFound):
		respondError(w, http.StatusNotFound, "product_not_found", err.Error())
	case errors.Is(err, domain.ErrCustomerNotFound):
		respondError(w, http.StatusNotFound, "customer_not_found", err.Error())
	case errors.Is(err, domain.ErrNotificationNotFound):
		respondError(w, http.StatusNotFound, "notification_not_found", err.Error())
	case errors.Is(err, domain.ErrInvalidStatus):
		respondError(w, http.StatusBadRequest, "invalid_status", err.Error())
	case errors.Is(err, domain.ErrEmptyOrder):
		respondError(w, http.StatusBadRequest, "empty_order", err.Error())
	case errors.Is(err, domain.ErrConcurrentUpdate):
		respondError(w, http.StatusConflict, "concurrent_update", err.Error())
	case errors.Is(err, domain.ErrInsufficientPayment):
		respondError(w, http.StatusConflict, "insufficient_payment", err.Error())
	case errors.Is(err, domain.ErrCurrencyMismatch):
		respondError(w, http.StatusConflict, "currency_mismatch", err.Error())
	case errors.As(err, &stockErr):
		respondError(w, http.StatusConflict, "insufficient_stock", stockErr.Error())
	case errors.Is(err, domain.ErrInvoiceSpaceExhausted):
		respondError(w, http.StatusServiceUnavailable, "invoice_space_exhausted", err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
