package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

func TestManagerEstablishAndInvalidate(t *testing.T) {
	m := NewManager(NewMemoryStore())
	ctx := context.Background()

	err := m.Establish(ctx, Credentials{AccessToken: "a1", RefreshToken: "r1", Email: "ana@example.com"})
	if err != nil {
		t.Fatalf("Establish: %v", err)
	}
	if tok, _ := m.Token(ctx); tok != "a1" {
		t.Fatalf("unexpected token %q", tok)
	}
	if rt, _ := m.RefreshToken(ctx); rt != "r1" {
		t.Fatalf("unexpected refresh token %q", rt)
	}

	if err := m.Renew(ctx, "a2", ""); err != nil {
		t.Fatalf("Renew: %v", err)
	}
	if tok, _ := m.Token(ctx); tok != "a2" {
		t.Fatalf("expected renewed token, got %q", tok)
	}
	if rt, _ := m.RefreshToken(ctx); rt != "r1" {
		t.Fatalf("refresh token should survive renewal, got %q", rt)
	}

	if err := m.Renew(ctx, "a3", "r2"); err != nil {
		t.Fatalf("Renew with rotation: %v", err)
	}
	if rt, _ := m.RefreshToken(ctx); rt != "r2" {
		t.Fatalf("expected rotated refresh token, got %q", rt)
	}

	if err := m.Invalidate(ctx); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	snap, err := m.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if snap.Authenticated || snap.HasRefreshToken || snap.Email != "" {
		t.Fatalf("expected empty session, got %+v", snap)
	}
	if snap.Token.Status != TokenMissing {
		t.Fatalf("expected missing token status, got %v", snap.Token.Status)
	}
}

func TestManagerEstablishDropsStaleRefreshToken(t *testing.T) {
	m := NewManager(nil)
	ctx := context.Background()

	_ = m.Establish(ctx, Credentials{AccessToken: "a1", RefreshToken: "old", Email: "x"})
	_ = m.Establish(ctx, Credentials{AccessToken: "a2", Email: "x"})

	if rt, _ := m.RefreshToken(ctx); rt != "" {
		t.Fatalf("expected stale refresh token removed, got %q", rt)
	}
	if err := m.Establish(ctx, Credentials{}); err == nil {
		t.Fatalf("expected error for empty access token")
	}
}

func TestManagerAllowsSingleRenewal(t *testing.T) {
	m := NewManager(nil)

	var winners atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if m.BeginRefresh() {
				winners.Add(1)
			}
		}()
	}
	wg.Wait()

	if winners.Load() != 1 {
		t.Fatalf("expected exactly one renewal owner, got %d", winners.Load())
	}
	if m.State() != Refreshing {
		t.Fatalf("expected Refreshing, got %v", m.State())
	}

	m.EndRefresh()
	if m.State() != Idle {
		t.Fatalf("expected Idle, got %v", m.State())
	}
	if !m.BeginRefresh() {
		t.Fatalf("expected renewal to be possible again once idle")
	}
}

// failingSetStore rejects writes to one key.
type failingSetStore struct {
	Store
	failKey string
}

func (f *failingSetStore) Set(ctx context.Context, key, value string) error {
	if key == f.failKey {
		return errors.New("disk full")
	}
	return f.Store.Set(ctx, key, value)
}

func TestManagerEstablishClearsPartialSession(t *testing.T) {
	ctx := context.Background()
	store := &failingSetStore{Store: NewMemoryStore()}
	m := NewManager(store)

	if err := m.Establish(ctx, Credentials{AccessToken: "old", RefreshToken: "old-r", Email: "old@example.com"}); err != nil {
		t.Fatalf("Establish: %v", err)
	}

	store.failKey = KeyUserEmail
	err := m.Establish(ctx, Credentials{AccessToken: "new", RefreshToken: "new-r", Email: "ana@example.com"})
	if err == nil {
		t.Fatalf("expected error when the email write fails")
	}

	for _, key := range AllKeys {
		if v, _ := store.Get(ctx, key); v != "" {
			t.Fatalf("expected %s cleared after failed establish, got %q", key, v)
		}
	}
}
