package services

import (
	"time"

	"github.com/saeid-a/EvalAdminBack/internal/models"
)

// EventPublisher fans session events out to live console clients.
// Implementations must not block the caller.
type EventPublisher interface {
	Publish(event models.SessionEvent)
}

type noopPublisher struct{}

func (noopPublisher) Publish(models.SessionEvent) {}

func publisherOrNoop(events EventPublisher) EventPublisher {
	if events == nil {
		return noopPublisher{}
	}
	return events
}

func newSessionEvent(eventType string, associationID, sessionID int64, payload any) models.SessionEvent {
	return models.SessionEvent{
		Type:          eventType,
		AssociationID: associationID,
		SessionID:     sessionID,
		Payload:       payload,
		Timestamp:     time.Now().UTC(),
	}
}
