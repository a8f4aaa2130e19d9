package loader

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tequmsa/ankhaten/internal/ctxlog"
	"github.com/tequmsa/ankhaten/internal/registry"
)

// defaultHTTPTimeout matches the reference loader's 30 second ceiling.
const defaultHTTPTimeout = 30 * time.Second

// HTTP materializes components by fetching a remote endpoint. Config:
//
//	url:     endpoint to fetch (required)
//	method:  HTTP method, default GET
//	headers: map of request headers (optional)
//	timeout: per-request ceiling, duration string or seconds (default 30s)
//
// JSON responses decode into their natural Go shape; anything else is
// returned as a raw string.
type HTTP struct {
	client *http.Client
}

// NewHTTP creates the http loader with a shared, pooled client.
func NewHTTP() *HTTP {
	return &HTTP{
		client: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// Kind implements registry.Loader.
func (l *HTTP) Kind() string { return "http" }

// Build implements registry.Loader.
func (l *HTTP) Build(ctx context.Context, c registry.Component) (*registry.Result, error) {
	logger := ctxlog.FromContext(ctx)

	url := confString(c.Config, "url", "")
	if url == "" {
		return nil, fmt.Errorf("component %s: http loader requires a 'url' setting", c.UID)
	}
	method := strings.ToUpper(confString(c.Config, "method", http.MethodGet))
	timeout, err := confDuration(c.Config, "timeout", defaultHTTPTimeout)
	if err != nil {
		return nil, fmt.Errorf("component %s: %w", c.UID, err)
	}

	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, method, url, nil)
	if err != nil {
		return nil, fmt.Errorf("component %s: failed to create request: %w", c.UID, err)
	}
	for key, value := range confStringMap(c.Config, "headers") {
		req.Header.Set(key, value)
	}

	logger.Debug("Fetching component over HTTP.", "uid", c.UID, "method", method, "url", url)
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("component %s: request failed: %w", c.UID, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("component %s: failed to read response body: %w", c.UID, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("component %s: endpoint returned %s", c.UID, resp.Status)
	}
	logger.Debug("Received HTTP response.", "uid", c.UID, "status", resp.Status, "bytes", len(body))

	// Prefer the decoded JSON shape; fall back to the raw text.
	var data any
	if err := json.Unmarshal(body, &data); err != nil {
		data = string(body)
	}

	return &registry.Result{UID: c.UID, Kind: l.Kind(), Source: url, Data: data}, nil
}
