package domain

import (
	"errors"
	"fmt"
	"time"
)

// OrderFilter has AND semantics across fields, OR semantics within each field slice
type OrderFilter struct {
	CustomerIDs []int64
	Statuses    []OrderStatus
	CreatedAt   *TimeRange
	Limit       int32
}

const DefaultOrderFilterLimit = 100

func (f OrderFilter) Validate() error {
	if len(f.CustomerIDs) == 0 && len(f.Statuses) == 0 && f.CreatedAt == nil {
		return errors.New("all fields are empty")
	}

	for _, status := range f.Statuses {
		if _, err := ToOrderStatus(int(status)); err != nil {
			return fmt.Errorf("statuses: %w", err)
		}
	}

	if f.CreatedAt != nil {
		if err := f.CreatedAt.Validate(); err != nil {
			return fmt.Errorf("createdAt: %w", err)
		}
	}

	if f.Limit < 0 {
		return errors.New("limit is negative")
	}

	return nil
}

func (f OrderFilter) EffectiveLimit() int32 {
	if f.Limit == 0 {
		return DefaultOrderFilterLimit
	}
	return f.Limit
}

type TimeRange struct {
	Before *time.Time
	After  *time.Time
}

func (t TimeRange) Validate() error {
	if t.Before == nil && t.After == nil {
		return errors.New("both Before and After are nil")
	}

	if t.Before != nil && t.After != nil {
		if t.Before.Before(*t.After) {
			return fmt.Errorf("before is before After")
		}
	}

	return nil
}
