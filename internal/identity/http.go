package identity

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"resty.dev/v3"
)

// HTTPDirectory queries a remote user directory over HTTP.
//
//	GET {baseURL}/users/{id} -> 200 {"handle": "...", "display_name": "..."}
//	                          -> 404 when the user does not exist
type HTTPDirectory struct {
	client *resty.Client
}

type userResponse struct {
	Handle      string `json:"handle"`
	DisplayName string `json:"display_name"`
}

func NewHTTPDirectory(baseURL string, timeout time.Duration) *HTTPDirectory {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	return &HTTPDirectory{client: client}
}

// Close releases the idle connections held by the client.
func (d *HTTPDirectory) Close() error {
	return d.client.Close()
}

func (d *HTTPDirectory) LookupActor(ctx context.Context, actorID uuid.UUID) (Actor, bool, error) {
	var body userResponse

	resp, err := d.client.R().
		SetContext(ctx).
		SetPathParam("id", actorID.String()).
		SetResult(&body).
		Get("/users/{id}")
	if err != nil {
		return Actor{}, false, fmt.Errorf("failed to call user directory: %w", err)
	}

	switch {
	case resp.StatusCode() == http.StatusNotFound:
		return Actor{}, false, nil
	case resp.IsError():
		return Actor{}, false, fmt.Errorf("user directory returned status %d for user %s", resp.StatusCode(), actorID)
	}

	return Actor{
		ID:          actorID,
		Handle:      body.Handle,
		DisplayName: body.DisplayName,
	}, true, nil
}
