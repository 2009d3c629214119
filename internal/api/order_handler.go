package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/nikolayk812/orderflow/internal/domain"
	"github.com/nikolayk812/orderflow/internal/service"
	"github.com/samber/lo"
)

const maxBodyBytes = 1 << 20

type OrderHandler struct {
	orders OrderService
}

func NewOrderHandler(orders OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// POST /orders
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var body CreateOrderDTO
	if err := decodeBody(r, &body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}

	req := service.CreateOrderRequest{
		CustomerID: body.CustomerID,
		Payment:    domain.Money{Amount: body.Payment},
		Mode:       domain.DeliveryModeFromFlag(body.UseSyncNotification),
		Lines: lo.Map(body.Lines, func(l CreateOrderLineDTO, _ int) service.CreateOrderLine {
			line := service.CreateOrderLine{
				ProductID:  l.ProductID,
				SupplierID: l.SupplierID,
				Quantity:   l.Quantity,
			}
			if l.UnitPrice != nil {
				line.UnitPrice = &domain.Money{Amount: *l.UnitPrice}
			}
			return line
		}),
	}

	if err := req.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_order", err.Error())
		return
	}

	result, err := h.orders.CreateOrder(r.Context(), req)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, CreateOrderResponse{
		Order:    toOrderDTO(result.Order),
		Dispatch: toDispatchDTO(result.Dispatch),
	})
}

// GET /orders/{order_id}
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathID(w, r, "order_id")
	if !ok {
		return
	}

	order, err := h.orders.GetOrder(r.Context(), orderID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toOrderDTO(order))
}

// GET /orders?customerId=1,2&status=1&createdFrom=...&createdTo=...&limit=10
func (h *OrderHandler) SearchOrders(w http.ResponseWriter, r *http.Request) {
	filter, err := parseOrderFilter(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_filter", err.Error())
		return
	}

	orders, err := h.orders.SearchOrders(r.Context(), filter)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, lo.Map(orders, func(o domain.Order, _ int) OrderDTO {
		return toOrderDTO(o)
	}))
}

// PUT /orders/{order_id}/status
func (h *OrderHandler) ChangeOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathID(w, r, "order_id")
	if !ok {
		return
	}

	var body ChangeStatusDTO
	if err := decodeBody(r, &body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}
	if body.TargetStatus == nil {
		respondError(w, http.StatusBadRequest, "invalid_body", "targetStatus is required")
		return
	}

	// the service validates the code after loading the order
	target := domain.OrderStatus(*body.TargetStatus)
	mode := domain.DeliveryModeFromFlag(body.UseSyncNotification)

	outcome, err := h.orders.ChangeOrderStatus(r.Context(), orderID, target, mode)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondTransition(w, outcome, mode)
}

// POST /orders/{order_id}/return
func (h *OrderHandler) ProcessReturn(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathID(w, r, "order_id")
	if !ok {
		return
	}

	var body ReturnDTO
	if err := decodeBody(r, &body); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}

	mode := domain.DeliveryModeFromFlag(body.UseSyncNotification)

	outcome, err := h.orders.ProcessReturn(r.Context(), orderID, mode)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondTransition(w, outcome, mode)
}

// DELETE /orders/{order_id}
func (h *OrderHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathID(w, r, "order_id")
	if !ok {
		return
	}

	if err := h.orders.DeleteOrder(r.Context(), orderID); err != nil {
		respondDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func respondTransition(w http.ResponseWriter, outcome domain.TransitionOutcome, mode domain.DeliveryMode) {
	if !outcome.Applied {
		respondError(w, http.StatusNotFound, "illegal_transition", outcome.Reason)
		return
	}

	respondJSON(w, http.StatusOK, TransitionResponse{
		Message:  fmt.Sprintf("order status changed to %s, notification sent %s", outcome.To, modeDescription(mode)),
		Mode:     mode.String(),
		OrderID:  outcome.OrderID,
		From:     outcome.From.String(),
		To:       outcome.To.String(),
		Dispatch: toDispatchDTO(outcome.Dispatch),
	})
}

func modeDescription(mode domain.DeliveryMode) string {
	if mode == domain.DeliverySync {
		return "synchronously"
	}
	return "asynchronously"
}

func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func pathID(w http.ResponseWriter, r *http.Request, param string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_id", param+" must be a positive integer")
		return 0, false
	}
	return id, true
}

func parseOrderFilter(r *http.Request) (domain.OrderFilter, error) {
	var filter domain.OrderFilter
	q := r.URL.Query()

	for _, raw := range splitQuery(q["customerId"]) {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return filter, fmt.Errorf("customerId[%s]: %w", raw, err)
		}
		filter.CustomerIDs = append(filter.CustomerIDs, id)
	}

	for _, raw := range splitQuery(q["status"]) {
		code, err := strconv.Atoi(raw)
		if err != nil {
			return filter, fmt.Errorf("status[%s]: %w", raw, err)
		}
		status, err := domain.ToOrderStatus(code)
		if err != nil {
			return filter, err
		}
		filter.Statuses = append(filter.Statuses, status)
	}

	after, err := parseTimeParam(q.Get("createdFrom"))
	if err != nil {
		return filter, fmt.Errorf("createdFrom: %w", err)
	}
	before, err := parseTimeParam(q.Get("createdTo"))
	if err != nil {
		return filter, fmt.Errorf("createdTo: %w", err)
	}
	if after != nil || before != nil {
		filter.CreatedAt = &domain.TimeRange{After: after, Before: before}
	}

	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			return filter, fmt.Errorf("limit: %w", err)
		}
		filter.Limit = int32(limit)
	}

	if err := filter.Validate(); err != nil {
		return filter, err
	}

	return filter, nil
}

func parseTimeParam(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func splitQuery(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
