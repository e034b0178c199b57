package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/simplificateurs/advisory-api/internal/events"
)

// publishEvent fires a domain event; delivery is best-effort.
func publishEvent(ctx context.Context, dispatcher events.Dispatcher, eventType events.EventType, subject string, payload interface{}) {
	if dispatcher == nil {
		return
	}
	_ = dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Subject:   subject,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
