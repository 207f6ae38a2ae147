package apiclient

import (
	"context"
	"net/http"

	"github.com/samvad-hq/incidesk/internal/domain"
)

// ListIncidents uses the detailed listing route, which includes owners on the gateway.
func (c *Client) ListIncidents(ctx context.Context) ([]domain.Incident, error) {
	var incidents []domain.Incident
	err := c.execute(ctx, call{op: "list incidents", method: http.MethodGet, path: c.routes.IncidentList, protected: true}, &incidents)
	if err != nil {
		return nil, err
	}
	return incidents, nil
}

func (c *Client) GetIncident(ctx context.Context, id int64) (*domain.Incident, error) {
	var incident domain.Incident
	err := c.execute(ctx, call{op: "get incident", method: http.MethodGet, path: withID(c.routes.Incident, id), protected: true}, &incident)
	if err != nil {
		return nil, err
	}
	return &incident, nil
}

func (c *Client) CreateIncident(ctx context.Context, in domain.NewIncident) (*domain.Incident, error) {
	var created domain.Incident
	err := c.execute(ctx, call{op: "create incident", method: http.MethodPost, path: c.routes.Incidents, json: in, protected: true}, &created)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) UpdateIncident(ctx context.Context, id int64, patch domain.IncidentPatch) (*domain.Incident, error) {
	var updated domain.Incident
	err := c.execute(ctx, call{op: "update incident", method: http.MethodPut, path: withID(c.routes.Incident, id), json: patch, protected: true}, &updated)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) DeleteIncident(ctx context.Context, id int64) error {
	return c.execute(ctx, call{op: "delete incident", method: http.MethodDelete, path: withID(c.routes.Incident, id), protected: true}, nil)
}
