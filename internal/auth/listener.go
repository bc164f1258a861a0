package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/frahmantamala/expense-ledger/internal"
	"github.com/frahmantamala/expense-ledger/internal/core/events"
)

// Subscriber is the subset of the event bus the session wiring needs.
type Subscriber interface {
	Subscribe(eventType string, handler events.Handler)
}

// RegisterSessionEventHandlers keeps live sessions in step with account
// changes made elsewhere: deactivation ends them, profile updates re-fetch
// the profile into every cached copy.
func RegisterSessionEventHandlers(bus Subscriber, sessions *SessionManager, store CredentialStore, logger *slog.Logger) {
	bus.Subscribe(events.EventTypeUserDeactivated, func(_ context.Context, event events.Event) error {
		userID, ok := userIDOf(event)
		if !ok {
			return errors.New("user.deactivated event without user id")
		}
		n := sessions.EndForUser(userID)
		logger.Info("sessions ended for deactivated user", "user_id", userID, "count", n)
		return nil
	})

	bus.Subscribe(events.EventTypeUserUpdated, func(ctx context.Context, event events.Event) error {
		userID, ok := userIDOf(event)
		if !ok {
			return errors.New("user.updated event without user id")
		}
		// the request that published the event may already be finished
		profile, err := store.GetProfile(context.WithoutCancel(ctx), userID)
		if err != nil {
			if errors.Is(err, internal.ErrAccountNotFound) {
				sessions.EndForUser(userID)
				return nil
			}
			return err
		}
		sessions.RefreshUser(*profile)
		return nil
	})
}

func userIDOf(event events.Event) (int64, bool) {
	switch e := event.(type) {
	case *events.UserChangedEvent:
		return e.UserID, true
	default:
		data, ok := event.Payload().(map[string]interface{})
		if !ok {
			return 0, false
		}
		id, ok := data["user_id"].(int64)
		return id, ok
	}
}
