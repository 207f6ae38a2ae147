package session

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Keys under which the session triple is persisted.
const (
	KeyToken        = "token"
	KeyRefreshToken = "refresh_token"
	KeyUserEmail    = "user_email"
)

// AllKeys lists every key that makes up a session.
var AllKeys = []string{KeyToken, KeyRefreshToken, KeyUserEmail}

// Store is a small key-value capability holding the session fields.
// Get returns an empty string for absent or expired keys.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

// Options controls retention and connection settings for concrete store implementations.
type Options struct {
	TTL             time.Duration
	CleanupInterval time.Duration

	Path string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	KeyPrefix     string
}

const (
	defaultTTL             = 7 * 24 * time.Hour
	defaultCleanupInterval = 12 * time.Hour
)

// NewStore creates the configured storage backend.
func NewStore(typ string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", "memory":
		return newMemoryStore(opts), nil
	case "bbolt":
		if strings.TrimSpace(opts.Path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		return openBolt(opts.Path, opts)
	case "redis":
		if strings.TrimSpace(opts.RedisAddr) == "" {
			return nil, fmt.Errorf("redis storage requires an address")
		}
		return openRedis(opts)
	default:
		return nil, fmt.Errorf("unsupported session store type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.TTL <= 0 {
		opts.TTL = defaultTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}
