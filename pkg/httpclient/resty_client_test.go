package httpclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

func TestRestyClientSendsForm(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Errorf("unexpected content type %q", ct)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("ParseForm: %v", err)
		}
		if r.PostForm.Get("username") != "ana@example.com" {
			t.Errorf("unexpected username %q", r.PostForm.Get("username"))
		}
		w.Header().Set("X-Trace", "abc")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	client := NewRestyClient(0)
	resp, err := client.Do(context.Background(), Request{
		Method: http.MethodPost,
		URL:    srv.URL,
		Form:   url.Values{"username": {"ana@example.com"}, "password": {"x"}},
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if resp.StatusCode() != http.StatusCreated {
		t.Fatalf("unexpected status %d", resp.StatusCode())
	}
	if resp.Header("X-Trace") != "abc" {
		t.Fatalf("expected response header to be exposed")
	}
	if string(resp.Body()) != `{"ok":true}` {
		t.Fatalf("unexpected body %s", resp.Body())
	}
}

func TestRestyClientSendsJSONAndHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("expected PUT, got %s", r.Method)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("missing auth header, got %q", got)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body["title"] != "printer" {
			t.Errorf("unexpected body %v", body)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	resp, err := NewRestyClient(0).Do(context.Background(), Request{
		Method:  http.MethodPut,
		URL:     srv.URL,
		Headers: map[string]string{"Authorization": "Bearer tok"},
		JSON:    map[string]string{"title": "printer"},
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if resp.StatusCode() != http.StatusNoContent {
		t.Fatalf("unexpected status %d", resp.StatusCode())
	}
}

func TestRestyClientReturnsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	addr := srv.URL
	srv.Close()

	if _, err := NewRestyClient(0).Do(context.Background(), Request{URL: addr}); err == nil {
		t.Fatalf("expected error for closed server")
	}
}
