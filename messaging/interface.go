package messaging

import "context"

// EventPublisher is what services depend on; tests substitute a recorder.
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

var _ EventPublisher = (*Publisher)(nil)
