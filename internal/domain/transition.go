package domain

import "fmt"

// TransitionOutcome reports a state-machine decision. A rejected transition is
// expected traffic and is returned as an outcome with Applied == false, not as an error.
type TransitionOutcome struct {
	OrderID int64
	From    OrderStatus
	To      OrderStatus
	Applied bool
	Reason  string

	Dispatch DispatchReport
}

func Rejected(orderID int64, from, to OrderStatus, reason string) TransitionOutcome {
	return TransitionOutcome{OrderID: orderID, From: from, To: to, Reason: reason}
}

func Applied(orderID int64, from, to OrderStatus) TransitionOutcome {
	return TransitionOutcome{OrderID: orderID, From: from, To: to, Applied: true}
}

// CheckTransition applies the transition table to the order's current status.
func CheckTransition(order Order, target OrderStatus) TransitionOutcome {
	from := order.Status

	if from.IsTerminal() {
		return Rejected(order.ID, from, target, fmt.Sprintf("%s is terminal", from))
	}
	if !from.CanTransitionTo(target) {
		return Rejected(order.ID, from, target, fmt.Sprintf("%s cannot move to %s", from, target))
	}

	return Applied(order.ID, from, target)
}

type DeliveryMode int

const (
	DeliveryAsync DeliveryMode = iota
	DeliverySync
)

func DeliveryModeFromFlag(useSync bool) DeliveryMode {
	if useSync {
		return DeliverySync
	}
	return DeliveryAsync
}

func (m DeliveryMode) String() string {
	switch m {
	case DeliverySync:
		return "sync"
	case DeliveryAsync:
		return "async"
	}
	return fmt.Sprintf("DeliveryMode(%d)", int(m))
}

// DispatchReport describes what happened to a notification after the order write committed.
type DispatchReport struct {
	Mode           DeliveryMode
	NotificationID string
	Delivered      bool
	Err            error
}
