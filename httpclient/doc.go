// Package httpclient is the transport underneath the sandbox client: one
// reusable *http.Client, an ordered chain of request and response
// interceptors around it, and the error classification every call goes
// through.
//
// An Adapter sends exactly one HTTP request per Do call. It never retries,
// rate limits or streams. Non-2xx responses become server errors, calls that
// got no response become network errors, and anything that fails before the
// request leaves the process is returned unchanged.
//
// # Basic Usage
//
//	a, err := httpclient.New(httpclient.Config{
//	    BaseURL: "http://localhost:8000",
//	    Headers: map[string]string{"Content-Type": "application/json"},
//	})
//
//	resp, err := a.Do(ctx, httpclient.Request{
//	    Method: http.MethodGet,
//	    Path:   "/health",
//	})
//
// # Middleware
//
// Observability is opt-in and lives below the interceptors, on the
// RoundTripper:
//
//	a, err := httpclient.New(cfg, httpclient.WithMiddleware(
//	    httpclient.RequestID(),
//	    httpclient.Tracing(nil),
//	    httpclient.Logging(log),
//	))
package httpclient
