package apiclient

import (
	"context"

	"github.com/samvad-hq/incidesk/pkg/events"
)

// Notifier receives session lifecycle events; *events.Fanout satisfies it.
type Notifier interface {
	Publish(ctx context.Context, evt events.Event) (int, error)
}

type nopNotifier struct{}

func (nopNotifier) Publish(context.Context, events.Event) (int, error) { return 0, nil }
