package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"sharc-gateway/internal/logger"
	"sharc-gateway/internal/models"
)

// Client talks to the SHARC REST backend. It owns no state of its own;
// every call carries the viewer's bearer token through untouched, because
// the backend owns authentication.
type Client struct {
	baseURL string
	client  *http.Client
	logger  *logger.Logger
}

// NewClient creates a backend client. A trailing slash on baseURL is
// stripped so path joining stays predictable.
func NewClient(baseURL string, httpClient *http.Client, log *logger.Logger) *Client {
	baseURL = strings.TrimSuffix(baseURL, "/")
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL: baseURL,
		client:  httpClient,
		logger:  log,
	}
}

// eventPayload is the wire shape of an event: timestamps travel as
// ISO-8601 strings and are parsed on decode.
type eventPayload struct {
	ID          int64         `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	StartTime   string        `json:"startTime"`
	EndTime     string        `json:"endTime"`
	Host        []models.Club `json:"host"`
	Tags        []string      `json:"tags"`
	RSVP        string        `json:"rsvp"`
	Subscribed  bool          `json:"subscribed"`
}

// FetchEvents returns the events whose start time falls in [from, to).
// Events whose start timestamp does not parse are dropped from the batch
// with a diagnostic; one bad record never fails the whole fetch.
func (c *Client) FetchEvents(ctx context.Context, token string, from, to time.Time) ([]models.Event, error) {
	endpoint := fmt.Sprintf("%s/api/events?start_time=%s&end_time=%s",
		c.baseURL,
		url.QueryEscape(from.Format(time.RFC3339)),
		url.QueryEscape(to.Format(time.RFC3339)))

	var payloads []eventPayload
	if err := c.getJSON(ctx, endpoint, token, &payloads); err != nil {
		return nil, err
	}

	events := make([]models.Event, 0, len(payloads))
	for _, p := range payloads {
		start, err := time.Parse(time.RFC3339, p.StartTime)
		if err != nil {
			c.logger.Warn("BACKEND", fmt.Sprintf("Dropping event %d: unparseable start time %q", p.ID, p.StartTime))
			continue
		}
		end, err := time.Parse(time.RFC3339, p.EndTime)
		if err != nil {
			// A bad end time still leaves the event bucketable by start.
			c.logger.Warn("BACKEND", fmt.Sprintf("Event %d has unparseable end time %q", p.ID, p.EndTime))
			end = time.Time{}
		}
		events = append(events, models.Event{
			ID:          p.ID,
			Title:       p.Title,
			Description: p.Description,
			StartTime:   start,
			EndTime:     end,
			Host:        p.Host,
			Tags:        p.Tags,
			RSVP:        p.RSVP,
			Subscribed:  p.Subscribed,
		})
	}
	return events, nil
}

// FetchCurrentUser returns the user the token belongs to, or nil when the
// backend answers 401. A missing user is a session state, not an error.
func (c *Client) FetchCurrentUser(ctx context.Context, token string) (*models.User, error) {
	endpoint := c.baseURL + "/api/users/me"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create user request: %w", err)
	}
	c.setHeaders(req, token)

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error("BACKEND", fmt.Sprintf("User fetch error: %v", err))
		return nil, fmt.Errorf("backend error: %w", err)
	}
	defer c.closeBody(resp.Body)

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		c.logger.Error("BACKEND", fmt.Sprintf("User fetch returned status: %d", resp.StatusCode))
		return nil, fmt.Errorf("backend returned status: %d", resp.StatusCode)
	}

	var user models.User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("failed to decode user response: %w", err)
	}
	return &user, nil
}

// SubmitRSVP records the viewer's RSVP state for an event.
func (c *Client) SubmitRSVP(ctx context.Context, token string, eventID int64, rsvpType string) error {
	if !models.ValidRSVPType(rsvpType) {
		return fmt.Errorf("invalid rsvp type: %q", rsvpType)
	}

	endpoint := fmt.Sprintf("%s/api/events/%d/rsvp", c.baseURL, eventID)
	body, err := json.Marshal(map[string]string{"type": rsvpType})
	if err != nil {
		return fmt.Errorf("failed to encode rsvp request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create rsvp request: %w", err)
	}
	c.setHeaders(req, token)

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error("BACKEND", fmt.Sprintf("RSVP submit error: %v", err))
		return fmt.Errorf("backend error: %w", err)
	}
	defer c.closeBody(resp.Body)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		c.logger.Error("BACKEND", fmt.Sprintf("RSVP submit returned status: %d", resp.StatusCode))
		return fmt.Errorf("backend returned status: %d", resp.StatusCode)
	}

	c.logger.LogRSVP("SUBMIT", eventID, fmt.Sprintf("state set to %q", rsvpType))
	return nil
}

// FetchClubs returns the club directory.
func (c *Client) FetchClubs(ctx context.Context, token string) ([]models.Club, error) {
	var clubs []models.Club
	if err := c.getJSON(ctx, c.baseURL+"/api/clubs", token, &clubs); err != nil {
		return nil, err
	}
	return clubs, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint, token string, out interface{}) error {
	c.logger.LogBackend(endpoint, "fetching")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req, token)

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error("BACKEND", fmt.Sprintf("Request error: %v", err))
		return fmt.Errorf("backend error: %w", err)
	}
	defer c.closeBody(resp.Body)

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("BACKEND", fmt.Sprintf("Backend returned status: %d for %s", resp.StatusCode, endpoint))
		return fmt.Errorf("backend returned status: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request, token string) {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")
}

func (c *Client) closeBody(body io.ReadCloser) {
	if err := body.Close(); err != nil {
		c.logger.Error("BACKEND", fmt.Sprintf("Failed to close response body: %v", err))
	}
}
