package submit

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tidwall/gjson"
)

// DefaultEndpoint is where templates are submitted unless configured otherwise.
const DefaultEndpoint = "https://dal-credentials-uploader.bilker1422.workers.dev"

var (
	// ErrRejected is returned when the endpoint answers with a non-success status.
	ErrRejected = errors.New("template submission rejected")
	// ErrNoTemplateID is returned when a successful response carries no template_id.
	ErrNoTemplateID = errors.New("response has no template_id")
	// ErrMalformedResponse is returned when a successful response is not JSON.
	ErrMalformedResponse = errors.New("malformed response")
)

// Client posts payloads to the template endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient creates a new Client with the given request timeout.
func NewClient(endpoint string, timeout time.Duration) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// SetHTTPClient replaces the HTTP client used for requests.
func (c *Client) SetHTTPClient(hc *http.Client) {
	c.httpClient = hc
}

// Endpoint returns the submission URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Submit sends the payload and returns the template identifier.
func (c *Client) Submit(ctx context.Context, p Payload) (string, error) {
	body, contentType, err := p.Encode()
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to submit template: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: HTTP %d", ErrRejected, resp.StatusCode)
	}

	if !gjson.ValidBytes(data) {
		return "", ErrMalformedResponse
	}

	id := templateID(gjson.GetBytes(data, "template_id"))
	if id == "" {
		return "", ErrNoTemplateID
	}
	return id, nil
}

// templateID accepts both string and numeric identifiers.
func templateID(r gjson.Result) string {
	switch r.Type {
	case gjson.String:
		return r.Str
	case gjson.Number:
		return r.Raw
	default:
		return ""
	}
}
