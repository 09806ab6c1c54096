package sandbox

import (
	"net/http"

	"github.com/sandboxhq/sandbox-go/httpclient"
	"github.com/sandboxhq/sandbox-go/logger"
)

// Option configures a Client at construction.
type Option func(*clientOptions)

type clientOptions struct {
	transport http.RoundTripper
	adapter   []httpclient.Option
}

// WithMiddleware wraps the client's transport. The first middleware is the
// outermost. See httpclient.Logging, RequestID, Tracing and Metrics.
func WithMiddleware(mws ...httpclient.Middleware) Option {
	return func(o *clientOptions) {
		o.adapter = append(o.adapter, httpclient.WithMiddleware(mws...))
	}
}

// WithLogger logs every round trip through log.
func WithLogger(log *logger.Logger) Option {
	return WithMiddleware(httpclient.Logging(log))
}

// WithTransport replaces the base RoundTripper.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *clientOptions) { o.transport = rt }
}

// WithRequestInterceptor appends outbound hooks. They run after the built-in
// pass-through hook; an error they return reaches the caller unchanged.
func WithRequestInterceptor(ics ...httpclient.RequestInterceptor) Option {
	return func(o *clientOptions) {
		o.adapter = append(o.adapter, httpclient.WithRequestInterceptor(ics...))
	}
}

// WithResponseInterceptor appends inbound hooks. They run after the built-in
// classifier and see its *Error.
func WithResponseInterceptor(ics ...httpclient.ResponseInterceptor) Option {
	return func(o *clientOptions) {
		o.adapter = append(o.adapter, httpclient.WithResponseInterceptor(ics...))
	}
}

// RequestOption sets per-call RequestOptions.
type RequestOption func(*RequestOptions)

// WithParams adds query parameters.
func WithParams(params map[string]any) RequestOption {
	return func(o *RequestOptions) {
		for k, v := range params {
			WithParam(k, v)(o)
		}
	}
}

// WithParam adds one query parameter.
func WithParam(key string, value any) RequestOption {
	return func(o *RequestOptions) {
		if o.Params == nil {
			o.Params = make(map[string]any)
		}
		o.Params[key] = value
	}
}

// WithHeaders adds headers for this call.
func WithHeaders(headers map[string]string) RequestOption {
	return func(o *RequestOptions) {
		for k, v := range headers {
			WithHeader(k, v)(o)
		}
	}
}

// WithHeader adds one header for this call.
func WithHeader(key, value string) RequestOption {
	return func(o *RequestOptions) {
		if o.Headers == nil {
			o.Headers = make(map[string]string)
		}
		o.Headers[key] = value
	}
}

// WithData sets the request body.
func WithData(data any) RequestOption {
	return func(o *RequestOptions) { o.Data = data }
}

// WithOptions applies a whole RequestOptions value: params and headers are
// merged, Data replaces the body when non-nil.
func WithOptions(ro RequestOptions) RequestOption {
	return func(o *RequestOptions) {
		WithParams(ro.Params)(o)
		WithHeaders(ro.Headers)(o)
		if ro.Data != nil {
			o.Data = ro.Data
		}
	}
}

func buildRequestOptions(opts []RequestOption) RequestOptions {
	var ro RequestOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&ro)
		}
	}
	return ro
}
