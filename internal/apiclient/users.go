package apiclient

import (
	"context"
	"net/http"

	"github.com/samvad-hq/incidesk/internal/domain"
)

func (c *Client) ListUsers(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	err := c.execute(ctx, call{op: "list users", method: http.MethodGet, path: c.routes.Users, protected: true}, &users)
	if err != nil {
		return nil, err
	}
	return users, nil
}

// CreateUser registers an account. Public registration never carries the access token.
func (c *Client) CreateUser(ctx context.Context, u domain.NewUser) (*domain.User, error) {
	var created domain.User
	err := c.execute(ctx, call{
		op:        "create user",
		method:    http.MethodPost,
		path:      c.routes.Users,
		json:      u,
		protected: !c.routes.publicRegistration(),
	}, &created)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	var user domain.User
	err := c.execute(ctx, call{op: "get user", method: http.MethodGet, path: withID(c.routes.User, id), protected: true}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	return c.execute(ctx, call{op: "delete user", method: http.MethodDelete, path: withID(c.routes.User, id), protected: true}, nil)
}
