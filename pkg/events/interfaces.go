package events

import "context"

// Publisher sends events to a subscriber (callback, webhook, SQS, etc).
type Publisher interface {
	ID() string
	Type() string
	Publish(ctx context.Context, evt Event) error
}
