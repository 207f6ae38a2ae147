package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/samvad-hq/incidesk/internal/config"
	"github.com/samvad-hq/incidesk/internal/logger"
	"github.com/samvad-hq/incidesk/internal/session"
	"github.com/samvad-hq/incidesk/pkg/events"
	"github.com/samvad-hq/incidesk/pkg/httpclient"
)

// Client issues requests to the backend, injects the stored access token and
// reacts to authentication failures.
type Client struct {
	baseURL  string
	http     httpclient.Client
	session  *session.Manager
	routes   Routes
	policy   string
	retry    bool
	notifier Notifier
	log      logger.Logger
}

// Option customises a Client.
type Option func(*Client)

// WithPolicy selects how a 401 on a protected request is handled.
func WithPolicy(policy string) Option {
	return func(c *Client) { c.policy = policy }
}

// WithRetryAfterRenewal reissues the original request once after a successful renewal
// instead of abandoning it.
func WithRetryAfterRenewal(enabled bool) Option {
	return func(c *Client) { c.retry = enabled }
}

func WithRoutes(r Routes) Option {
	return func(c *Client) { c.routes = r }
}

func WithNotifier(n Notifier) Option {
	return func(c *Client) {
		if n != nil {
			c.notifier = n
		}
	}
}

func WithLogger(log logger.Logger) Option {
	return func(c *Client) { c.log = logger.Ensure(log) }
}

// New builds a Client. A nil manager gets an in-memory session.
func New(baseURL string, transport httpclient.Client, mgr *session.Manager, opts ...Option) *Client {
	if transport == nil {
		transport = httpclient.NewRestyClient(0)
	}
	if mgr == nil {
		mgr = session.NewManager(nil)
	}
	routes, _ := Preset(PresetGateway)
	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     transport,
		session:  mgr,
		routes:   routes,
		policy:   config.PolicyRefresh,
		notifier: nopNotifier{},
		log:      logger.NopLogger{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Routes returns the active route table.
func (c *Client) Routes() Routes { return c.routes }

type call struct {
	op        string
	method    string
	path      string
	json      any
	form      url.Values
	protected bool
	login     bool
}

// Do issues a request against path and decodes a successful body into out.
func (c *Client) Do(ctx context.Context, method, path string, body, out any, protected bool) error {
	return c.execute(ctx, call{
		op:        strings.ToLower(method) + " " + path,
		method:    method,
		path:      path,
		json:      body,
		protected: protected,
	}, out)
}

func (c *Client) execute(ctx context.Context, cl call, out any) error {
	resp, err := c.send(ctx, cl)
	if err != nil {
		return err
	}
	return c.interpret(ctx, cl, resp, out, true)
}

func (c *Client) send(ctx context.Context, cl call) (httpclient.Response, error) {
	req := httpclient.Request{
		Method: cl.method,
		URL:    c.baseURL + cl.path,
		JSON:   cl.json,
		Form:   cl.form,
	}
	if cl.protected {
		token, err := c.session.Token(ctx)
		if err != nil {
			return nil, newError(KindTransport, cl.op, 0, MsgFallback, fmt.Errorf("read token: %w", err))
		}
		if token != "" {
			req.Headers = map[string]string{"Authorization": "Bearer " + token}
		}
	}

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		c.log.WarnObj("request failed", "request", map[string]any{"op": cl.op, "error": err.Error()})
		return nil, newError(KindTransport, cl.op, 0, MsgFallback, err)
	}
	return resp, nil
}

// interpret applies the classification policy. renewable is false on the
// post-renewal retry so a second 401 never starts another renewal.
func (c *Client) interpret(ctx context.Context, cl call, resp httpclient.Response, out any, renewable bool) error {
	status := resp.StatusCode()
	switch {
	case status >= 200 && status < 300:
		return decodeSuccess(cl.op, resp, out)
	case status == http.StatusUnauthorized && cl.login:
		return c.failure(cl, resp, KindAuthRejected)
	case status == http.StatusUnauthorized && !renewable:
		return c.teardown(ctx, cl, MsgSessionExpired, errors.New("unauthorized after renewal"))
	case status == http.StatusUnauthorized && c.policy == config.PolicySimple:
		return c.teardown(ctx, cl, MsgSessionExpired, nil)
	case status == http.StatusUnauthorized:
		return c.onRefreshPolicy401(ctx, cl, resp, out)
	default:
		return c.failure(cl, resp, KindResource)
	}
}

func decodeSuccess(op string, resp httpclient.Response, out any) error {
	body := resp.Body()
	if resp.StatusCode() == http.StatusNoContent || out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return newError(KindTransport, op, resp.StatusCode(), MsgFallback, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

func (c *Client) onRefreshPolicy401(ctx context.Context, cl call, resp httpclient.Response, out any) error {
	if !c.session.BeginRefresh() {
		// Another request owns the renewal; this one is an ordinary failure.
		return c.failure(cl, resp, KindResource)
	}

	// Read only after owning the renewal so a rotation that just finished is seen.
	refresh, err := c.session.RefreshToken(ctx)
	if err != nil {
		c.session.EndRefresh()
		return newError(KindTransport, cl.op, resp.StatusCode(), MsgFallback, fmt.Errorf("read refresh token: %w", err))
	}
	if refresh == "" {
		c.session.EndRefresh()
		return c.teardown(ctx, cl, MsgSessionExpired, nil)
	}

	renewErr := c.renew(ctx, refresh)
	c.session.EndRefresh()
	if renewErr != nil {
		if ctx.Err() != nil {
			// The caller gave up; the backend never rejected the refresh token.
			return newError(KindTransport, cl.op, 0, MsgFallback, errors.Join(renewErr, ctx.Err()))
		}
		return c.teardown(ctx, cl, MsgSessionLapsed, renewErr)
	}

	email, _ := c.session.Email(ctx)
	c.notify(ctx, events.NewEvent(events.TypeSessionRenewed, email, cl.op))

	if !c.retry {
		return newError(KindSessionRenewed, cl.op, resp.StatusCode(), MsgSessionRenewed, nil)
	}
	retried, err := c.send(ctx, cl)
	if err != nil {
		return err
	}
	return c.interpret(ctx, cl, retried, out, false)
}

// renew exchanges the refresh token for a new access token.
func (c *Client) renew(ctx context.Context, refresh string) error {
	resp, err := c.http.Do(ctx, httpclient.Request{
		Method: http.MethodPost,
		URL:    c.baseURL + c.routes.Refresh,
		JSON:   map[string]string{"refresh_token": refresh},
	})
	if err != nil {
		return fmt.Errorf("refresh request: %w", err)
	}
	if s := resp.StatusCode(); s < 200 || s >= 300 {
		return fmt.Errorf("refresh rejected with status %d", s)
	}
	var pair struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.Unmarshal(resp.Body(), &pair); err != nil {
		return fmt.Errorf("decode refresh response: %w", err)
	}
	if pair.AccessToken == "" {
		return errors.New("refresh response has no access_token")
	}
	return c.session.Renew(ctx, pair.AccessToken, pair.RefreshToken)
}

// teardown clears the session and tells subscribers it is gone.
func (c *Client) teardown(ctx context.Context, cl call, msg string, cause error) error {
	email, _ := c.session.Email(ctx)
	if err := c.session.Invalidate(ctx); err != nil {
		c.log.ErrorObj("clear session failed", "session", map[string]any{"op": cl.op, "error": err.Error()})
		cause = errors.Join(cause, err)
	}
	c.notify(ctx, events.NewEvent(events.TypeSessionInvalidated, email, msg))
	e := newError(KindSessionExpired, cl.op, http.StatusUnauthorized, msg, cause)
	c.log.WarnObj("session invalidated", "session", e.LogFields())
	return e
}

// failure builds the normalized error for a non-success response.
func (c *Client) failure(cl call, resp httpclient.Response, kind Kind) error {
	body := resp.Body()
	msg, ok := errorMessage(body)
	if !ok {
		c.log.WarnObj("unparseable error body", "response", map[string]any{
			"op":      cl.op,
			"status":  resp.StatusCode(),
			"summary": summarizeBody(resp.Header("Content-Type"), body),
		})
		if kind != KindAuthRejected {
			kind = KindTransport
		}
		return newError(kind, cl.op, resp.StatusCode(), MsgFallback, nil)
	}
	if msg == "" {
		msg = MsgFallback
	}
	return newError(kind, cl.op, resp.StatusCode(), msg, nil)
}

func (c *Client) notify(ctx context.Context, evt events.Event) {
	n, err := c.notifier.Publish(ctx, evt)
	if err != nil {
		c.log.WarnObj("publish session event failed", "event", map[string]any{
			"type":      evt.Type,
			"delivered": n,
			"error":     err.Error(),
		})
	}
}
