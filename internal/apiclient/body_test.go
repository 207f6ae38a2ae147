package apiclient

import (
	"errors"
	"strings"
	"testing"
)

func TestErrorMessage(t *testing.T) {
	cases := map[string]struct {
		msg string
		ok  bool
	}{
		`{"detail":"Credenciales incorrectas"}`: {"Credenciales incorrectas", true},
		`{"message":"boom"}`:                    {"boom", true},
		`{"detail":[{"msg":"a"},{"msg":" "}]}`:  {"a", true},
		`{"other":1}`:                           {"", true},
		`Internal Server Error`:                 {"", false},
	}
	for body, want := range cases {
		msg, ok := errorMessage([]byte(body))
		if msg != want.msg || ok != want.ok {
			t.Fatalf("errorMessage(%s) = %q,%v want %q,%v", body, msg, ok, want.msg, want.ok)
		}
	}
}

func TestSummarizeBody(t *testing.T) {
	html := []byte("<html><head><title> Service Unavailable </title></head></html>")
	if got := summarizeBody("text/html; charset=utf-8", html); got != "Service Unavailable" {
		t.Fatalf("unexpected html summary %q", got)
	}
	long := []byte(strings.Repeat("x", 600))
	if got := summarizeBody("text/plain", long); len(got) != 512 {
		t.Fatalf("expected 512 byte snippet, got %d", len(got))
	}
}

func TestErrorMatchesSentinelByKind(t *testing.T) {
	err := newError(KindSessionExpired, "list users", 401, MsgSessionExpired, errors.New("cause"))
	if !errors.Is(err, ErrSessionExpired) || errors.Is(err, ErrSessionRenewed) {
		t.Fatalf("sentinel matching is wrong")
	}
	if err.Error() != MsgSessionExpired {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if KindResource.String() != "resource" {
		t.Fatalf("unexpected kind name %q", KindResource.String())
	}
}
