package sandbox

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/sandboxhq/sandbox-go/httpclient"
	"github.com/sandboxhq/sandbox-go/validation"
)

// Client calls the Sandbox API. It is safe for concurrent use; its
// configuration never changes after New returns.
type Client struct {
	adapter *httpclient.Adapter
	config  ClientConfig
}

// New creates a Client. Zero values in cfg take the documented defaults. No
// network I/O happens here.
func New(cfg ClientConfig, opts ...Option) (*Client, error) {
	cfg = cfg.clone()
	cfg.ApplyDefaults()
	if err := validation.Validate(cfg); err != nil {
		return nil, fmt.Errorf("sandbox: invalid config: %w", err)
	}

	var o clientOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	adapter, err := httpclient.New(httpclient.Config{
		BaseURL:   cfg.BaseURL,
		Timeout:   cfg.Timeout,
		Headers:   cfg.Headers,
		Transport: o.transport,
	}, o.adapter...)
	if err != nil {
		return nil, fmt.Errorf("sandbox: %w", err)
	}

	return &Client{adapter: adapter, config: cfg}, nil
}

// Config returns a copy of the resolved configuration.
func (c *Client) Config() ClientConfig {
	return c.config.clone()
}

// Close releases idle connections. The client stays usable.
func (c *Client) Close() error {
	return c.adapter.Close(context.Background())
}

// Request sends one request and decodes a JSON response into out. method is
// case-insensitive and path is relative to the base URL. out may be nil; an
// empty response body leaves it untouched.
func (c *Client) Request(ctx context.Context, method, path string, out any, opts ...RequestOption) error {
	return c.do(ctx, method, path, out, buildRequestOptions(opts))
}

// Get sends a GET request.
func (c *Client) Get(ctx context.Context, path string, out any, opts ...RequestOption) error {
	return c.Request(ctx, http.MethodGet, path, out, opts...)
}

// Delete sends a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, out any, opts ...RequestOption) error {
	return c.Request(ctx, http.MethodDelete, path, out, opts...)
}

// Post sends a POST request with data as the JSON body.
func (c *Client) Post(ctx context.Context, path string, data, out any, opts ...RequestOption) error {
	return c.withBody(ctx, http.MethodPost, path, data, out, opts)
}

// Put sends a PUT request with data as the JSON body.
func (c *Client) Put(ctx context.Context, path string, data, out any, opts ...RequestOption) error {
	return c.withBody(ctx, http.MethodPut, path, data, out, opts)
}

// Patch sends a PATCH request with data as the JSON body.
func (c *Client) Patch(ctx context.Context, path string, data, out any, opts ...RequestOption) error {
	return c.withBody(ctx, http.MethodPatch, path, data, out, opts)
}

// GetRoot calls GET /.
func (c *Client) GetRoot(ctx context.Context) (*SandboxResponse, error) {
	var out SandboxResponse
	if err := c.Get(ctx, "/", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// HealthCheck calls GET /health.
func (c *Client) HealthCheck(ctx context.Context) (*HealthResponse, error) {
	var out HealthResponse
	if err := c.Get(ctx, "/health", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// withBody applies opts, then replaces any WithData value with data, even a nil one.
func (c *Client) withBody(ctx context.Context, method, path string, data, out any, opts []RequestOption) error {
	ro := buildRequestOptions(opts)
	ro.Data = data
	return c.do(ctx, method, path, out, ro)
}

func (c *Client) do(ctx context.Context, method, path string, out any, ro RequestOptions) error {
	resp, err := c.adapter.Do(ctx, httpclient.Request{
		Method:  method,
		Path:    path,
		Headers: ro.Headers,
		Query:   ro.Params,
		Body:    ro.Data,
	})
	if err != nil {
		return err
	}
	// A response interceptor may swallow an error without supplying a response.
	if resp == nil {
		return nil
	}
	return decode(resp.Body, out)
}

// decode unmarshals body into out. Decoding errors are returned as-is.
func decode(body []byte, out any) error {
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if raw, ok := out.(*[]byte); ok {
		*raw = append((*raw)[:0], body...)
		return nil
	}
	return json.Unmarshal(body, out)
}
