package apiclient

import "fmt"

// Fixed messages surfaced to callers.
const (
	MsgSessionExpired = "session expired, please log in again"
	MsgSessionLapsed  = "session lapsed, please log in again"
	MsgSessionRenewed = "session renewed, reissue the request"
	MsgFallback       = "network or server error"
)

// Kind classifies a normalized error.
type Kind int

const (
	KindTransport Kind = iota
	KindAuthRejected
	KindSessionExpired
	KindSessionRenewed
	KindResource
)

var kindNames = []string{"transport", "auth_rejected", "session_expired", "session_renewed", "resource"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Error is the normalized error returned by every client operation. Message is
// the only text meant for end users; Err keeps the cause for logs.
type Error struct {
	Kind       Kind
	Op         string
	StatusCode int
	Message    string
	Err        error

	sentinel bool
}

// Sentinels for errors.Is; they match any *Error of the same kind.
var (
	ErrTransport      = &Error{Kind: KindTransport, sentinel: true}
	ErrAuthRejected   = &Error{Kind: KindAuthRejected, sentinel: true}
	ErrSessionExpired = &Error{Kind: KindSessionExpired, sentinel: true}
	ErrSessionRenewed = &Error{Kind: KindSessionRenewed, sentinel: true}
	ErrResource       = &Error{Kind: KindResource, sentinel: true}
)

func newError(kind Kind, op string, status int, msg string, cause error) *Error {
	return &Error{Kind: kind, Op: op, StatusCode: status, Message: msg, Err: cause}
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.sentinel {
		return e.Kind.String()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.sentinel && e != nil && t.Kind == e.Kind
}

// LogFields renders the error for structured logs.
func (e *Error) LogFields() map[string]any {
	fields := map[string]any{
		"op":      e.Op,
		"kind":    e.Kind.String(),
		"status":  e.StatusCode,
		"message": e.Message,
	}
	if e.Err != nil {
		fields["cause"] = e.Err.Error()
	}
	return fields
}
