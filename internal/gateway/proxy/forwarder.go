// Package proxy forwards gateway requests to backend collaborators and
// relays their responses verbatim. The gateway never retries: a reserve or
// invoice call is not idempotent, and a duplicate would double-charge
// inventory or duplicate documents.
package proxy

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrUpstreamUnavailable marks a transport-level failure (connection refused,
// timeout) as opposed to an upstream that answered with an error status,
// which is relayed as-is.
var ErrUpstreamUnavailable = errors.New("upstream unavailable")

// Upstream is a backend response captured for verbatim relay.
type Upstream struct {
	StatusCode  int
	Body        []byte
	ContentType string
}

type Forwarder struct {
	client *http.Client
}

func NewForwarder(timeout time.Duration) *Forwarder {
	return &Forwarder{
		client: &http.Client{Timeout: timeout},
	}
}

// Do sends method+path to the collaborator at baseURL with the given query
// and body, passing through Authorization and Content-Type from the inbound
// headers. A response with any status, 4xx/5xx included, comes back as an
// Upstream; only a transport failure returns ErrUpstreamUnavailable.
func (f *Forwarder) Do(ctx context.Context, method, baseURL, path string, query url.Values, body []byte, inbound http.Header) (*Upstream, error) {
	target := strings.TrimSuffix(baseURL, "/") + "/api" + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if len(body) > 0 {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("http.NewRequestWithContext -> %w", err)
	}

	if auth := inbound.Get("Authorization"); auth != "" {
		req.Header.Set("Authorization", auth)
	}
	contentType := inbound.Get("Content-Type")
	if contentType == "" && len(body) > 0 {
		contentType = "application/json"
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}

	respContentType := resp.Header.Get("Content-Type")
	if respContentType == "" {
		respContentType = "application/json"
	}

	return &Upstream{
		StatusCode:  resp.StatusCode,
		Body:        respBody,
		ContentType: respContentType,
	}, nil
}
