package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// NetworkErrorMessage is the message of every error raised when a request was
// sent but no response came back.
const NetworkErrorMessage = "Network Error: No response from server"

// ErrorKind classifies transport failures.
type ErrorKind int

const (
	// KindServer means the remote responded with a non-2xx status.
	KindServer ErrorKind = iota + 1
	// KindNetwork means no response was received (timeout, reset, DNS, refused, cancelled).
	KindNetwork
)

// String returns the kind name.
func (k ErrorKind) String() string {
	switch k {
	case KindServer:
		return "server"
	case KindNetwork:
		return "network"
	default:
		return "unknown"
	}
}

// Error is the uniform error returned for server and network failures.
// Failures that happen before a request is sent are never wrapped in Error.
type Error struct {
	// Kind classifies the error.
	Kind ErrorKind
	// StatusCode is the HTTP status code (0 for network errors).
	StatusCode int
	// Message is the full, human readable message.
	Message string
	// Detail is the server-provided "detail" field, if any.
	Detail string
	// Body is the original response body (nil for network errors).
	Body []byte
	// Err is the underlying transport error (nil for server errors).
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewServerError creates a server error from a non-2xx status and its body.
// The message uses the body's "detail" field when present, otherwise the
// generic "Request failed with status code N".
func NewServerError(statusCode int, body []byte) *Error {
	detail := extractDetail(body)
	msg := detail
	if msg == "" {
		msg = fmt.Sprintf("Request failed with status code %d", statusCode)
	}
	return &Error{
		Kind:       KindServer,
		StatusCode: statusCode,
		Message:    "API Error: " + msg,
		Detail:     detail,
		Body:       body,
	}
}

// NewNetworkError creates a network error wrapping the transport failure.
func NewNetworkError(err error) *Error {
	return &Error{
		Kind:    KindNetwork,
		Message: NetworkErrorMessage,
		Err:     err,
	}
}

// extractDetail returns the "detail" member of a JSON object body. Strings are
// returned verbatim, other JSON values compact-encoded (FastAPI validation
// errors carry a list there). Missing, null and empty values yield "".
func extractDetail(body []byte) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if len(body) == 0 || json.Unmarshal(body, &payload) != nil {
		return ""
	}
	raw := bytes.TrimSpace(payload.Detail)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}

// AsError extracts *Error from err.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsServerError checks if an error is a server (non-2xx) error.
func IsServerError(err error) bool {
	e, ok := AsError(err)
	return ok && e.Kind == KindServer
}

// IsNetworkError checks if an error is a network (no response) error.
func IsNetworkError(err error) bool {
	e, ok := AsError(err)
	return ok && e.Kind == KindNetwork
}

// IsNotFound checks if an error is a 404 server error.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// IsTimeout checks if an error is a network error caused by a timeout.
func IsTimeout(err error) bool {
	if !IsNetworkError(err) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// StatusCode returns the HTTP status of a server error, or 0.
func StatusCode(err error) int {
	if e, ok := AsError(err); ok {
		return e.StatusCode
	}
	return 0
}
