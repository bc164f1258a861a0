package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	EventTypeAdvanceSettled   = "advance.settled"
	EventTypeExpenseSettled   = "expense.settled"
	EventTypeExpenseSubmitted = "expense.submitted"
	EventTypeUserUpdated      = "user.updated"
	EventTypeUserDeactivated  = "user.deactivated"
)

func newBase(eventType string, data map[string]interface{}) BaseEvent {
	return BaseEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      data,
	}
}

type AdvanceSettledEvent struct {
	BaseEvent
	AdvanceID int64           `json:"advance_id"`
	StaffID   int64           `json:"staff_id"`
	Amount    decimal.Decimal `json:"amount"`
}

func NewAdvanceSettledEvent(advanceID, staffID int64, amount decimal.Decimal) *AdvanceSettledEvent {
	return &AdvanceSettledEvent{
		BaseEvent: newBase(EventTypeAdvanceSettled, map[string]interface{}{
			"advance_id": advanceID,
			"staff_id":   staffID,
			"amount":     amount.StringFixed(2),
		}),
		AdvanceID: advanceID,
		StaffID:   staffID,
		Amount:    amount,
	}
}

type ExpenseSettledEvent struct {
	BaseEvent
	ExpenseID int64           `json:"expense_id"`
	UserID    int64           `json:"user_id"`
	AdvanceID *int64          `json:"advance_id,omitempty"`
	Total     decimal.Decimal `json:"total"`
}

func NewExpenseSettledEvent(expenseID, userID int64, advanceID *int64, total decimal.Decimal) *ExpenseSettledEvent {
	data := map[string]interface{}{
		"expense_id": expenseID,
		"user_id":    userID,
		"total":      total.StringFixed(2),
	}
	if advanceID != nil {
		data["advance_id"] = *advanceID
	}
	return &ExpenseSettledEvent{
		BaseEvent: newBase(EventTypeExpenseSettled, data),
		ExpenseID: expenseID,
		UserID:    userID,
		AdvanceID: advanceID,
		Total:     total,
	}
}

type ExpenseSubmittedEvent struct {
	BaseEvent
	ExpenseID int64 `json:"expense_id"`
	UserID    int64 `json:"user_id"`
}

func NewExpenseSubmittedEvent(expenseID, userID int64) *ExpenseSubmittedEvent {
	return &ExpenseSubmittedEvent{
		BaseEvent: newBase(EventTypeExpenseSubmitted, map[string]interface{}{
			"expense_id": expenseID,
			"user_id":    userID,
		}),
		ExpenseID: expenseID,
		UserID:    userID,
	}
}

// UserChangedEvent covers both profile updates and deactivation; Type tells them apart.
type UserChangedEvent struct {
	BaseEvent
	UserID int64 `json:"user_id"`
}

func NewUserUpdatedEvent(userID int64) *UserChangedEvent {
	return &UserChangedEvent{
		BaseEvent: newBase(EventTypeUserUpdated, map[string]interface{}{"user_id": userID}),
		UserID:    userID,
	}
}

func NewUserDeactivatedEvent(userID int64) *UserChangedEvent {
	return &UserChangedEvent{
		BaseEvent: newBase(EventTypeUserDeactivated, map[string]interface{}{"user_id": userID}),
		UserID:    userID,
	}
}

// Publisher is the subset of the bus that services depend on.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}
