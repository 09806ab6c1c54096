package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Adapter owns one configured *http.Client and runs every call through the
// interceptor chain. It is safe for concurrent use; nothing in it changes
// after New returns.
type Adapter struct {
	httpClient *http.Client
	config     Config

	requestInterceptors  []RequestInterceptor
	responseInterceptors []ResponseInterceptor
	middleware           []Middleware
}

// Option configures an Adapter at construction.
type Option func(*Adapter)

// WithMiddleware wraps the transport with mws. The first middleware is the outermost.
func WithMiddleware(mws ...Middleware) Option {
	return func(a *Adapter) {
		a.middleware = append(a.middleware, mws...)
	}
}

// WithRequestInterceptor appends outbound hooks after PassThrough.
func WithRequestInterceptor(ics ...RequestInterceptor) Option {
	return func(a *Adapter) {
		a.requestInterceptors = append(a.requestInterceptors, ics...)
	}
}

// WithResponseInterceptor appends inbound hooks after Classify.
func WithResponseInterceptor(ics ...ResponseInterceptor) Option {
	return func(a *Adapter) {
		a.responseInterceptors = append(a.responseInterceptors, ics...)
	}
}

// New creates a new HTTP adapter with the given configuration. It performs
// no network I/O.
func New(cfg Config, opts ...Option) (*Adapter, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	headers := make(map[string]string, len(cfg.Headers))
	for k, v := range cfg.Headers {
		headers[http.CanonicalHeaderKey(k)] = v
	}
	cfg.Headers = headers

	a := &Adapter{
		config:               cfg,
		requestInterceptors:  []RequestInterceptor{PassThrough},
		responseInterceptors: []ResponseInterceptor{Classify},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}

	rt := cfg.Transport
	if rt == nil {
		rt = http.DefaultTransport.(*http.Transport).Clone()
	}
	a.httpClient = &http.Client{
		Transport: chain(rt, a.middleware),
		Timeout:   cfg.Timeout,
	}
	return a, nil
}

// Do executes a single HTTP request and returns the complete response.
// On a server error both the response and the error are returned.
func (a *Adapter) Do(ctx context.Context, req Request) (*Response, error) {
	httpReq, err := a.buildRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	httpReq, err = runRequestInterceptors(httpReq, a.requestInterceptors)
	if err != nil {
		return nil, err
	}

	resp, err := a.send(httpReq)
	return runResponseInterceptors(httpReq, resp, err, a.responseInterceptors)
}

// send performs the round trip and reads the whole body.
func (a *Adapter) send(httpReq *http.Request) (*Response, error) {
	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Headers:    flattenHeaders(resp.Header),
		Body:       body,
	}, nil
}

// Unwrap returns the underlying *http.Client for advanced use cases.
func (a *Adapter) Unwrap() *http.Client {
	return a.httpClient
}

// Config returns a copy of the adapter's resolved configuration.
func (a *Adapter) Config() Config {
	cfg := a.config
	cfg.Headers = make(map[string]string, len(a.config.Headers))
	for k, v := range a.config.Headers {
		cfg.Headers[k] = v
	}
	return cfg
}

// Close releases idle connections held by the transport.
func (a *Adapter) Close(_ context.Context) error {
	a.httpClient.CloseIdleConnections()
	return nil
}

// buildRequest constructs an *http.Request from the adapter config and request.
// Errors returned here are local and are not classified.
func (a *Adapter) buildRequest(ctx context.Context, req Request) (*http.Request, error) {
	url := req.Path
	if a.config.BaseURL != "" && !strings.HasPrefix(req.Path, "http://") && !strings.HasPrefix(req.Path, "https://") {
		url = strings.TrimRight(a.config.BaseURL, "/") + "/" + strings.TrimLeft(req.Path, "/")
	}

	body, contentType, err := encodeBody(req.Body)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, strings.ToUpper(req.Method), url, body)
	if err != nil {
		return nil, err
	}

	if len(req.Query) > 0 {
		q := httpReq.URL.Query()
		if err := EncodeQuery(q, req.Query); err != nil {
			return nil, err
		}
		httpReq.URL.RawQuery = q.Encode()
	}

	for k, v := range a.config.Headers {
		httpReq.Header.Set(k, v)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	if body != nil && httpReq.Header.Get("Content-Type") == "" && contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	return httpReq, nil
}

// encodeBody converts a body value into an io.Reader and content type.
func encodeBody(body any) (io.Reader, string, error) {
	if body == nil {
		return nil, "", nil
	}
	switch v := body.(type) {
	case io.Reader:
		return v, "", nil
	case []byte:
		return bytes.NewReader(v), "", nil
	case json.RawMessage:
		return bytes.NewReader(v), "application/json", nil
	case string:
		return strings.NewReader(v), "text/plain", nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, "", err
		}
		return bytes.NewReader(data), "application/json", nil
	}
}

// flattenHeaders converts multi-value headers to single-value.
func flattenHeaders(h http.Header) map[string]string {
	result := make(map[string]string, len(h))
	for k, v := range h {
		if len(v) > 0 {
			result[k] = v[0]
		}
	}
	return result
}
