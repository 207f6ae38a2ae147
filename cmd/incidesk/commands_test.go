package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/samvad-hq/incidesk/internal/app"
	"github.com/samvad-hq/incidesk/internal/config"
)

func testOpener(t *testing.T, handler http.Handler) consoleOpener {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		APIBaseURL:             srv.URL,
		AuthPolicy:             config.PolicyRefresh,
		SessionStore:           "bbolt",
		BBoltPath:              filepath.Join(t.TempDir(), "session.db"),
		SessionTTL:             time.Hour,
		SessionCleanupInterval: time.Hour,
	}
	return func(ctx context.Context) (*app.Console, error) {
		return app.NewConsole(ctx, cfg, nil, nil)
	}
}

func execute(t *testing.T, open consoleOpener, args ...string) (string, error) {
	t.Helper()
	root, closeConsole := newRootCmd(open)
	defer func() {
		if err := closeConsole(); err != nil {
			t.Fatalf("close console: %v", err)
		}
	}()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestLoginThenStatus(t *testing.T) {
	open := testOpener(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"t1","refresh_token":"r1"}`))
	}))

	if _, err := execute(t, open, "login", "ana@example.com", "--password", "pw"); err != nil {
		t.Fatalf("login: %v", err)
	}

	out, err := execute(t, open, "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	var snap struct {
		Email         string `json:"email"`
		Authenticated bool   `json:"authenticated"`
		State         string `json:"renewal_state"`
	}
	if err := json.Unmarshal([]byte(out), &snap); err != nil {
		t.Fatalf("decode status %q: %v", out, err)
	}
	if !snap.Authenticated || snap.Email != "ana@example.com" || snap.State != "Idle" {
		t.Fatalf("unexpected status %+v", snap)
	}
}

func TestLoginRequiresPassword(t *testing.T) {
	t.Setenv("INCIDESK_PASSWORD", "")
	open := testOpener(t, http.NotFoundHandler())
	if _, err := execute(t, open, "login", "ana@example.com"); err == nil {
		t.Fatalf("expected missing password error")
	}
}

func TestIncidentUpdateSendsOnlyChangedFields(t *testing.T) {
	var got map[string]any
	open := testOpener(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut {
			_ = json.NewDecoder(r.Body).Decode(&got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":5,"status":"en_progreso"}`))
	}))

	if _, err := execute(t, open, "incidents", "update", "5", "--status", "en_progreso"); err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(got) != 1 || got["status"] != "en_progreso" {
		t.Fatalf("unexpected patch %v", got)
	}

	_, err := execute(t, open, "incidents", "update", "5")
	if err == nil || !strings.Contains(err.Error(), "nothing to update") {
		t.Fatalf("expected nothing to update, got %v", err)
	}
	if _, err := execute(t, open, "incidents", "update", "5", "--status", "done"); err == nil {
		t.Fatalf("expected invalid status error")
	}
}

func TestParseID(t *testing.T) {
	if _, err := parseID("abc"); err == nil {
		t.Fatalf("expected error for non-numeric id")
	}
	if _, err := parseID("0"); err == nil {
		t.Fatalf("expected error for zero id")
	}
	if id, err := parseID("42"); err != nil || id != 42 {
		t.Fatalf("parseID(42) = %d, %v", id, err)
	}
}

func TestIncidentGetPrintsJSON(t *testing.T) {
	open := testOpener(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/incidents/8" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":8,"title":"printer","status":"abierta"}`))
	}))

	out, err := execute(t, open, "incidents", "get", "8")
	if err != nil {
		t.Fatalf("incidents get: %v", err)
	}
	var inc struct {
		ID    int64  `json:"id"`
		Title string `json:"title"`
	}
	if err := json.Unmarshal([]byte(out), &inc); err != nil || inc.ID != 8 || inc.Title != "printer" {
		t.Fatalf("unexpected output %q (%v)", out, err)
	}
}
