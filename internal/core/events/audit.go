package events

import (
	"context"
	"log/slog"
)

// LedgerEventTypes are the settlement and submission events written to the audit log.
var LedgerEventTypes = []string{
	EventTypeAdvanceSettled,
	EventTypeExpenseSettled,
	EventTypeExpenseSubmitted,
	EventTypeUserUpdated,
	EventTypeUserDeactivated,
}

// RegisterAuditLog logs every ledger event at info level with its payload.
func RegisterAuditLog(bus *EventBus, logger *slog.Logger) {
	audit := logger.With("component", "audit")
	for _, eventType := range LedgerEventTypes {
		bus.Subscribe(eventType, func(ctx context.Context, event Event) error {
			audit.InfoContext(ctx, "ledger event",
				"event_type", event.EventType(),
				"event_id", event.EventID(),
				"occurred_at", event.OccurredAt(),
				"payload", event.Payload())
			return nil
		})
	}
}
