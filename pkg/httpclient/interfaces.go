package httpclient

import (
	"context"
	"net/url"
)

// Request describes a single outgoing call. At most one of JSON and Form is sent;
// Form wins when both are set.
type Request struct {
	Method  string
	URL     string
	Headers map[string]string
	JSON    any
	Form    url.Values
}

// Response is a minimal HTTP response contract.
type Response interface {
	Body() []byte
	StatusCode() int
	Header(key string) string
}

// Client abstracts HTTP calls so callers can inject mocks or different transports.
type Client interface {
	Do(ctx context.Context, req Request) (Response, error)
}
