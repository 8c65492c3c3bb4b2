package analytics

import "context"

// Recorder is the sink analytics consumers hand decoded events to.
type Recorder interface {
	RecordURLCreated(ctx context.Context, event *URLCreatedEvent) error
	RecordURLAccessed(ctx context.Context, event *URLAccessedEvent) error
}
