package analytics

import (
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/serroba/shorturl/internal/messaging"
)

// Publishers bundles the typed publish functions for analytics events.
type Publishers struct {
	URLCreated  messaging.Publish[URLCreatedEvent]
	URLAccessed messaging.Publish[URLAccessedEvent]
}

// NewPublishers binds each event type to its topic on publisher.
func NewPublishers(publisher message.Publisher) Publishers {
	return Publishers{
		URLCreated:  messaging.NewPublishFunc[URLCreatedEvent](publisher, TopicURLCreated),
		URLAccessed: messaging.NewPublishFunc[URLAccessedEvent](publisher, TopicURLAccessed),
	}
}
