package domain

import "fmt"

// OrderStatus is the integer code of a row in the status catalog.
type OrderStatus int16

// remember to add new statuses to the statusNames map and the transitions table
const (
	OrderStatusReceived        OrderStatus = 1
	OrderStatusDispatched      OrderStatus = 2
	OrderStatusDelivered       OrderStatus = 3
	OrderStatusReturnRequested OrderStatus = 4
	OrderStatusReturnCompleted OrderStatus = 5
)

var statusNames = map[OrderStatus]string{
	OrderStatusReceived:        "Received",
	OrderStatusDispatched:      "Dispatched",
	OrderStatusDelivered:       "Delivered",
	OrderStatusReturnRequested: "Return Requested",
	OrderStatusReturnCompleted: "Return Completed",
}

// transitions lists every legal successor. Anything missing is rejected.
var transitions = map[OrderStatus][]OrderStatus{
	OrderStatusReceived:        {OrderStatusDispatched, OrderStatusReturnRequested},
	OrderStatusDispatched:      {OrderStatusDelivered},
	OrderStatusDelivered:       {OrderStatusReturnRequested},
	OrderStatusReturnRequested: {OrderStatusReturnCompleted},
	OrderStatusReturnCompleted: nil,
}

func ToOrderStatus(code int) (OrderStatus, error) {
	status := OrderStatus(code)
	if _, ok := statusNames[status]; ok {
		return status, nil
	}

	return 0, fmt.Errorf("status[%d]: %w", code, ErrInvalidStatus)
}

func OrderStatuses() []OrderStatus {
	return []OrderStatus{
		OrderStatusReceived,
		OrderStatusDispatched,
		OrderStatusDelivered,
		OrderStatusReturnRequested,
		OrderStatusReturnCompleted,
	}
}

func (s OrderStatus) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("OrderStatus(%d)", int16(s))
}

func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusReturnCompleted
}

// Restocks reports whether entering s returns every line's quantity to inventory.
func (s OrderStatus) Restocks() bool {
	return s == OrderStatusReturnCompleted
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}
