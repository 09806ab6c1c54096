package sandbox

import "github.com/sandboxhq/sandbox-go/httpclient"

// Error is returned for server and network failures.
type Error = httpclient.Error

// ErrorKind classifies an Error.
type ErrorKind = httpclient.ErrorKind

const (
	// KindServer means the API answered with a non-2xx status.
	KindServer = httpclient.KindServer
	// KindNetwork means no response was received.
	KindNetwork = httpclient.KindNetwork
)

// NetworkErrorMessage is the message of every network error.
const NetworkErrorMessage = httpclient.NetworkErrorMessage

// AsError extracts *Error from err.
func AsError(err error) (*Error, bool) { return httpclient.AsError(err) }

// IsServerError reports whether err is a non-2xx response from the API.
func IsServerError(err error) bool { return httpclient.IsServerError(err) }

// IsNetworkError reports whether err means no response was received.
func IsNetworkError(err error) bool { return httpclient.IsNetworkError(err) }

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool { return httpclient.IsNotFound(err) }

// IsTimeout reports whether err is a network error caused by a timeout.
func IsTimeout(err error) bool { return httpclient.IsTimeout(err) }

// StatusCode returns the HTTP status of a server error, or 0.
func StatusCode(err error) int { return httpclient.StatusCode(err) }
