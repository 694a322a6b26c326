package messaging

import "context"

// Publisher emits domain events for downstream consumers (production
// planning, email). Publishing is best-effort at the call sites: a failed
// publish never fails the business operation that produced the event.
type Publisher interface {
	PublishEvent(ctx context.Context, topic string, key string, event any) error
}

type noopPublisher struct{}

// NewNoopPublisher returns a publisher that drops every event. Used when no
// brokers are configured.
func NewNoopPublisher() Publisher {
	return noopPublisher{}
}

func (noopPublisher) PublishEvent(_ context.Context, _ string, _ string, _ any) error {
	return nil
}
