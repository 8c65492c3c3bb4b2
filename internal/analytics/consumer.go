package analytics

import (
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/serroba/shorturl/internal/messaging"
	"go.uber.org/zap"
)

// NewConsumers creates one consumer per analytics topic, each feeding recorder.
func NewConsumers(
	subscriber message.Subscriber,
	recorder Recorder,
	logger *zap.Logger,
	opts ...messaging.ConsumerOption,
) []messaging.Runnable {
	return []messaging.Runnable{
		messaging.NewConsumer(subscriber, TopicURLCreated, recorder.RecordURLCreated, logger, opts...),
		messaging.NewConsumer(subscriber, TopicURLAccessed, recorder.RecordURLAccessed, logger, opts...),
	}
}
