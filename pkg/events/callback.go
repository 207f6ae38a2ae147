package events

import "context"

const (
	TypeCallback = "callback"
	TypeLog      = "log"
)

// CallbackFunc receives events in-process.
type CallbackFunc func(ctx context.Context, evt Event) error

type callbackPublisher struct {
	id string
	fn CallbackFunc
}

// NewCallbackPublisher lets a host application subscribe to session events directly.
func NewCallbackPublisher(id string, fn CallbackFunc) Publisher {
	return &callbackPublisher{id: id, fn: fn}
}

func (c *callbackPublisher) ID() string   { return c.id }
func (c *callbackPublisher) Type() string { return TypeCallback }

func (c *callbackPublisher) Publish(ctx context.Context, evt Event) error {
	if c.fn == nil {
		return nil
	}
	return c.fn(ctx, evt)
}

type logPublisher struct {
	id  string
	log Logger
}

// NewLogPublisher writes every event through the logger.
func NewLogPublisher(id string, log Logger) Publisher {
	return &logPublisher{id: id, log: ensureLogger(log)}
}

func (l *logPublisher) ID() string   { return l.id }
func (l *logPublisher) Type() string { return TypeLog }

func (l *logPublisher) Publish(_ context.Context, evt Event) error {
	l.log.InfoObj("session event", "session_event", evt)
	return nil
}
