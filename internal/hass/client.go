package hass

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
)

// Client talks to the home-automation server's REST API. All requests carry
// the long-lived access token as a bearer credential.
type Client struct {
	http *resty.Client
}

func New(baseURL, token string) *Client {
	r := resty.New()
	r.SetBaseURL(strings.TrimRight(baseURL, "/"))
	r.SetAuthToken(token)
	r.SetHeader("Content-Type", "application/json")
	r.SetHeader("Accept", "application/json")

	return &Client{http: r}
}

// CheckAPI probes the API root. A failure here means the server is
// unreachable or the token is bad; callers treat it as a warning, not a stop.
func (c *Client) CheckAPI(ctx context.Context) error {
	resp, err := c.http.R().SetContext(ctx).Get("/api/")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("api check failed: %s", resp.Status())
	}
	return nil
}

// States fetches the full entity-state listing.
func (c *Client) States(ctx context.Context) ([]Entity, error) {
	var entities []Entity

	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&entities).
		Get("/api/states")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("failed to get states: %s", resp.Status())
	}

	return entities, nil
}

// Cameras returns the camera entities that expose a picture reference,
// sorted by entity id.
func (c *Client) Cameras(ctx context.Context) ([]Entity, error) {
	states, err := c.States(ctx)
	if err != nil {
		return nil, err
	}
	return FilterCameras(states), nil
}

// TriggerSnapshot asks the platform to write a fresh frame for the camera to
// a server-side path.
func (c *Client) TriggerSnapshot(ctx context.Context, entityID, filename string) error {
	body := map[string]string{
		"entity_id": entityID,
		"filename":  filename,
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		Post("/api/services/camera/snapshot")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("snapshot trigger failed: %s", resp.Status())
	}

	return nil
}

// CameraImage downloads the raw frame behind an entity_picture reference.
func (c *Client) CameraImage(ctx context.Context, picture string) ([]byte, error) {
	if picture == "" {
		return nil, errors.New("empty picture reference")
	}

	resp, err := c.http.R().SetContext(ctx).Get(picture)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("failed to download frame: %s", resp.Status())
	}
	if len(resp.Body()) == 0 {
		return nil, errors.New("response body is empty")
	}

	return resp.Body(), nil
}

// notifyData is the structured block the companion app understands.
type notifyData struct {
	Channel      string      `json:"channel"`
	Importance   string      `json:"importance"`
	TTL          int         `json:"ttl"`
	Priority     string      `json:"priority"`
	Notification notifyStyle `json:"notification"`
}

type notifyStyle struct {
	Style string `json:"style"`
}

type notifyPayload struct {
	Message string     `json:"message"`
	Title   string     `json:"title,omitempty"`
	Data    notifyData `json:"data"`
}

// Notify dispatches one push notification to a mobile-app target.
func (c *Client) Notify(ctx context.Context, target, title, message string) error {
	payload := notifyPayload{
		Message: message,
		Title:   title,
		Data: notifyData{
			Channel:      "camwatch",
			Importance:   "high",
			TTL:          0,
			Priority:     "high",
			Notification: notifyStyle{Style: "bigtext"},
		},
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(payload).
		Post("/api/services/notify/mobile_app_" + target)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("notify failed: %s", resp.Status())
	}

	return nil
}
