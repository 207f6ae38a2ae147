package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/samvad-hq/incidesk/internal/config"
	"github.com/samvad-hq/incidesk/internal/domain"
	"github.com/samvad-hq/incidesk/internal/session"
	"github.com/samvad-hq/incidesk/pkg/events"
)

// Login submits the credentials as an OAuth2 password grant and stores the session.
func (c *Client) Login(ctx context.Context, identifier, secret string) (*domain.TokenPair, error) {
	var pair domain.TokenPair
	err := c.execute(ctx, call{
		op:     "login",
		method: http.MethodPost,
		path:   c.routes.Login,
		form:   url.Values{"username": {identifier}, "password": {secret}},
		login:  true,
	}, &pair)
	if err != nil {
		return nil, err
	}
	if pair.AccessToken == "" {
		return nil, newError(KindTransport, "login", http.StatusOK, MsgFallback, fmt.Errorf("login response has no access_token"))
	}

	creds := session.Credentials{AccessToken: pair.AccessToken, Email: identifier}
	if c.policy == config.PolicyRefresh {
		creds.RefreshToken = pair.RefreshToken
	}
	if err := c.session.Establish(ctx, creds); err != nil {
		return nil, newError(KindTransport, "login", http.StatusOK, MsgFallback, err)
	}
	c.notify(ctx, events.NewEvent(events.TypeSessionCreated, identifier, ""))
	c.log.InfoObj("session created", "session", map[string]any{"email": identifier, "refreshable": creds.RefreshToken != ""})
	return &pair, nil
}

// Logout clears the stored session.
func (c *Client) Logout(ctx context.Context) error {
	email, err := c.session.Email(ctx)
	if err != nil {
		return fmt.Errorf("read session: %w", err)
	}
	if err := c.session.Invalidate(ctx); err != nil {
		return err
	}
	c.notify(ctx, events.NewEvent(events.TypeSessionEnded, email, "logout"))
	return nil
}

// Session reports what is currently stored.
func (c *Client) Session(ctx context.Context) (session.Snapshot, error) {
	return c.session.Snapshot(ctx)
}
