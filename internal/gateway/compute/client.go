// Package compute invokes the invoice-generation collaborator: a single-shot
// request/response function call that answers with a status-code envelope.
package compute

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

var ErrInvokeFailed = errors.New("compute invocation failed")

// Result is the decoded function envelope. StatusCode carries the function's
// own verdict; Body is the payload to relay.
type Result struct {
	StatusCode int
	Body       []byte
}

type envelope struct {
	StatusCode int             `json:"statusCode"`
	Body       json.RawMessage `json:"body"`
}

type Client struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient builds the invoker. Document generation is slow, so the bounded
// timeout here is longer than the gateway's ordinary forwarding timeout.
func NewClient(endpoint string, timeout time.Duration) *Client {
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Invoke posts the payload and decodes the result envelope. The body may be
// either inline JSON or a JSON-encoded string (the function convention); a
// string body is unquoted before relay. A missing statusCode means 200.
func (c *Client) Invoke(ctx context.Context, payload any) (*Result, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("json.Marshal -> %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("http.NewRequestWithContext -> %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvokeFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: endpoint returned %d", ErrInvokeFailed, resp.StatusCode)
	}

	var env envelope
	if err = json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvokeFailed, err)
	}

	statusCode := env.StatusCode
	if statusCode == 0 {
		statusCode = http.StatusOK
	}

	body := []byte(env.Body)
	var bodyString string
	if err = json.Unmarshal(env.Body, &bodyString); err == nil {
		body = []byte(bodyString)
	}

	return &Result{
		StatusCode: statusCode,
		Body:       body,
	}, nil
}
