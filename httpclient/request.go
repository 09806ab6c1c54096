package httpclient

// Request describes an outbound HTTP request.
type Request struct {
	// Method is the HTTP method. It is upper-cased before sending.
	Method string
	// Path is appended to the adapter's BaseURL. Absolute URLs are used as-is.
	Path string
	// Headers are request-specific headers (merged over adapter defaults).
	Headers map[string]string
	// Query are URL query parameters. See EncodeQuery for value handling.
	Query map[string]any
	// Body is the request body. Accepts io.Reader, []byte, string, or any value
	// that will be JSON-encoded. Nil sends no body.
	Body any
}

// Response is the result of an HTTP request.
type Response struct {
	// StatusCode is the HTTP status code.
	StatusCode int
	// Headers are the response headers.
	Headers map[string]string
	// Body is the raw response body.
	Body []byte
}

// IsSuccess returns true if the status code is 2xx.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}
