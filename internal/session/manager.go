package session

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"
)

// State is the renewal state of a Manager.
type State int32

const (
	Idle State = iota
	Refreshing
)

var stateNames = []string{"Idle", "Refreshing"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

// Credentials is what a successful login hands to the Manager.
type Credentials struct {
	AccessToken  string
	RefreshToken string
	Email        string
}

// Snapshot is a read-only view of the current session.
type Snapshot struct {
	Email           string    `json:"email,omitempty"`
	Authenticated   bool      `json:"authenticated"`
	HasRefreshToken bool      `json:"has_refresh_token"`
	State           string    `json:"renewal_state"`
	Token           TokenInfo `json:"token"`
}

// Manager owns the session fields in a Store and the renewal state.
// Only one renewal can be in flight per Manager.
type Manager struct {
	store Store
	state atomic.Int32
	now   func() time.Time
}

// NewManager wraps store. A nil store falls back to memory.
func NewManager(store Store) *Manager {
	if store == nil {
		store = NewMemoryStore()
	}
	return &Manager{store: store, now: time.Now}
}

// Establish writes a fresh session. A missing refresh token removes any stale one.
// If any write fails the session is cleared so no mix of old and new fields remains.
func (m *Manager) Establish(ctx context.Context, c Credentials) error {
	if c.AccessToken == "" {
		return errors.New("access token is empty")
	}
	if err := m.establish(ctx, c); err != nil {
		if clearErr := m.store.Delete(ctx, AllKeys...); clearErr != nil {
			return errors.Join(err, fmt.Errorf("clear partial session: %w", clearErr))
		}
		return err
	}
	return nil
}

func (m *Manager) establish(ctx context.Context, c Credentials) error {
	if err := m.store.Set(ctx, KeyToken, c.AccessToken); err != nil {
		return fmt.Errorf("store token: %w", err)
	}
	if c.RefreshToken != "" {
		if err := m.store.Set(ctx, KeyRefreshToken, c.RefreshToken); err != nil {
			return fmt.Errorf("store refresh token: %w", err)
		}
	} else if err := m.store.Delete(ctx, KeyRefreshToken); err != nil {
		return fmt.Errorf("drop stale refresh token: %w", err)
	}
	if err := m.store.Set(ctx, KeyUserEmail, c.Email); err != nil {
		return fmt.Errorf("store user email: %w", err)
	}
	return nil
}

func (m *Manager) Token(ctx context.Context) (string, error) {
	return m.store.Get(ctx, KeyToken)
}

func (m *Manager) RefreshToken(ctx context.Context) (string, error) {
	return m.store.Get(ctx, KeyRefreshToken)
}

func (m *Manager) Email(ctx context.Context) (string, error) {
	return m.store.Get(ctx, KeyUserEmail)
}

// Renew stores a renewed access token. A non-empty refresh token rotates the
// stored one; the email is left alone.
func (m *Manager) Renew(ctx context.Context, accessToken, refreshToken string) error {
	if accessToken == "" {
		return errors.New("renewed access token is empty")
	}
	if err := m.store.Set(ctx, KeyToken, accessToken); err != nil {
		return fmt.Errorf("store renewed token: %w", err)
	}
	if refreshToken != "" {
		if err := m.store.Set(ctx, KeyRefreshToken, refreshToken); err != nil {
			return fmt.Errorf("store rotated refresh token: %w", err)
		}
	}
	return nil
}

// Invalidate removes every session field.
func (m *Manager) Invalidate(ctx context.Context) error {
	if err := m.store.Delete(ctx, AllKeys...); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// BeginRefresh moves Idle to Refreshing and reports whether this caller owns the renewal.
func (m *Manager) BeginRefresh() bool {
	return m.state.CompareAndSwap(int32(Idle), int32(Refreshing))
}

// EndRefresh returns to Idle.
func (m *Manager) EndRefresh() {
	m.state.Store(int32(Idle))
}

func (m *Manager) State() State {
	return State(m.state.Load())
}

// Snapshot reads the stored fields and inspects the access token.
func (m *Manager) Snapshot(ctx context.Context) (Snapshot, error) {
	token, err := m.Token(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	refresh, err := m.RefreshToken(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	email, err := m.Email(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{
		Email:           email,
		Authenticated:   token != "",
		HasRefreshToken: refresh != "",
		State:           m.State().String(),
		Token:           Inspect(token, m.now()),
	}, nil
}

// Close releases the underlying store.
func (m *Manager) Close() error {
	return m.store.Close()
}
