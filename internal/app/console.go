package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/samvad-hq/incidesk/internal/apiclient"
	"github.com/samvad-hq/incidesk/internal/config"
	"github.com/samvad-hq/incidesk/internal/logger"
	"github.com/samvad-hq/incidesk/internal/session"
	"github.com/samvad-hq/incidesk/pkg/events"
	"github.com/samvad-hq/incidesk/pkg/httpclient"
)

// Console wires the session store, event publishers and API client from config.
type Console struct {
	cfg     *config.Config
	client  *apiclient.Client
	session *session.Manager
	fanout  *events.Fanout
	log     logger.Logger
}

// NewConsole builds a console runtime. A nil transport uses resty with the configured timeout.
func NewConsole(ctx context.Context, cfg *config.Config, transport httpclient.Client, log logger.Logger) (*Console, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	log = logger.Ensure(log)

	routes, err := apiclient.LoadRoutes(cfg.RoutesPreset, cfg.RoutesFile)
	if err != nil {
		return nil, fmt.Errorf("load routes: %w", err)
	}

	store, err := session.NewStore(cfg.SessionStore, session.Options{
		TTL:             cfg.SessionTTL,
		CleanupInterval: cfg.SessionCleanupInterval,
		Path:            cfg.BBoltPath,
		RedisAddr:       cfg.RedisAddr,
		RedisPassword:   cfg.RedisPassword,
		RedisDB:         cfg.RedisDB,
		KeyPrefix:       cfg.RedisKeyPrefix,
	})
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}
	mgr := session.NewManager(store)

	pubs := []events.Publisher{events.NewLogPublisher("log", log)}
	if cfg.EventsFile != "" {
		reg, err := events.LoadRegistry(cfg.EventsFile)
		if err != nil {
			_ = mgr.Close()
			return nil, fmt.Errorf("load events registry: %w", err)
		}
		enabled := reg.Enabled()
		built, err := events.BuildAll(ctx, events.DefaultRegistry(), enabled, log)
		if err != nil {
			_ = mgr.Close()
			return nil, fmt.Errorf("build event publishers: %w", err)
		}
		pubs = append(pubs, built...)
		log.InfoObj("event publishers loaded", "publishers", enabled)
	}
	fanout := events.NewFanout(pubs)

	if transport == nil {
		transport = httpclient.NewRestyClient(cfg.HTTPTimeout)
	}
	client := apiclient.New(cfg.APIBaseURL, transport, mgr,
		apiclient.WithPolicy(cfg.AuthPolicy),
		apiclient.WithRetryAfterRenewal(cfg.RetryAfterRefresh),
		apiclient.WithRoutes(routes),
		apiclient.WithNotifier(fanout),
		apiclient.WithLogger(log),
	)

	log.DebugObj("console ready", "console_state", map[string]any{
		"base_url":      cfg.APIBaseURL,
		"auth_policy":   cfg.AuthPolicy,
		"session_store": cfg.SessionStore,
		"publishers":    fanout.Size(),
	})

	return &Console{cfg: cfg, client: client, session: mgr, fanout: fanout, log: log}, nil
}

// Client returns the session-aware API client.
func (c *Console) Client() *apiclient.Client { return c.client }

// Subscribe registers an in-process handler for session events.
func (c *Console) Subscribe(id string, fn events.CallbackFunc) {
	c.fanout.Add(events.NewCallbackPublisher(id, fn))
}

// Close releases publishers and the session store.
func (c *Console) Close() error {
	if c == nil {
		return nil
	}
	return errors.Join(c.fanout.Close(), c.session.Close())
}
