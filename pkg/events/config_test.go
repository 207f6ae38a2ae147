package events

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeEventsFile(t *testing.T, name, content string) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
		t.Fatalf("write events file: %v", err)
	}
	return file
}

func TestLoadRegistryYAML(t *testing.T) {
	file := writeEventsFile(t, "events.yaml", `
publishers:
  - id: hook
    type: HTTP
    http:
      url: " https://hooks.example/session "
      headers:
        X-Token: abc
        "  ": ignored
  - id: queue
    type: sqs
    enabled: false
    sqs:
      uri: https://sqs.eu-west-1.amazonaws.com/1/sessions
      region: eu-west-1
  - id: audit
    type: log
`)

	reg, err := LoadRegistry(file)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	if len(reg.All()) != 3 {
		t.Fatalf("expected 3 publishers, got %d", len(reg.All()))
	}
	enabled := reg.Enabled()
	if len(enabled) != 2 {
		t.Fatalf("expected 2 enabled publishers, got %d", len(enabled))
	}

	hook, ok := reg.ByID("hook")
	if !ok {
		t.Fatalf("expected hook publisher")
	}
	if hook.Type != TypeHTTP || hook.HTTP.URL != "https://hooks.example/session" {
		t.Fatalf("unexpected sanitized config %+v", hook.HTTP)
	}
	if hook.HTTP.Method != "POST" || hook.HTTP.TimeoutSeconds != 5 {
		t.Fatalf("expected http defaults, got %+v", hook.HTTP)
	}
	if len(hook.HTTP.Headers) != 1 {
		t.Fatalf("expected blank headers dropped, got %v", hook.HTTP.Headers)
	}
}

func TestLoadRegistryJSON(t *testing.T) {
	file := writeEventsFile(t, "events.json", `{"publishers":[{"id":"ps","type":"gcp_pubsub","gcp_pubsub":{"project_id":"p","topic":"t"}}]}`)

	reg, err := LoadRegistry(file)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	if cfg, ok := reg.ByID("ps"); !ok || cfg.GCPPubSub.Topic != "t" {
		t.Fatalf("unexpected registry %+v", reg.All())
	}
}

func TestLoadRegistryRejectsInvalidEntries(t *testing.T) {
	cases := map[string]string{
		"duplicate": `
publishers:
  - id: a
    type: log
  - id: a
    type: log
`,
		"missing sns topic": `
publishers:
  - id: a
    type: sns
    sns:
      region: eu-west-1
`,
		"unknown type": `
publishers:
  - id: a
    type: fax
`,
		"empty": `publishers: []`,
	}

	for name, content := range cases {
		file := writeEventsFile(t, "events.yaml", content)
		if _, err := LoadRegistry(file); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}

	if _, err := LoadRegistry("  "); err == nil || !strings.Contains(err.Error(), "empty") {
		t.Fatalf("expected empty path error, got %v", err)
	}
}
