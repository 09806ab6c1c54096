package httpclient

import (
	"net/http"
)

// RequestInterceptor runs before every outbound request. It may return a
// replacement request. A returned error aborts the call and reaches the
// caller unchanged.
type RequestInterceptor func(req *http.Request) (*http.Request, error)

// ResponseInterceptor runs after every round trip. resp is nil when no
// response was received; err is the transport error or the error returned
// by an earlier interceptor.
type ResponseInterceptor func(req *http.Request, resp *Response, err error) (*Response, error)

// PassThrough is the built-in outbound hook. It forwards the request unchanged.
func PassThrough(req *http.Request) (*http.Request, error) {
	return req, nil
}

// Classify is the built-in inbound hook. Successful responses pass through;
// non-2xx responses become KindServer errors and missing responses become
// KindNetwork errors. Errors already classified are left alone.
func Classify(_ *http.Request, resp *Response, err error) (*Response, error) {
	if err != nil {
		if _, ok := AsError(err); ok {
			return resp, err
		}
		return nil, NewNetworkError(err)
	}
	if resp != nil && !resp.IsSuccess() {
		return resp, NewServerError(resp.StatusCode, resp.Body)
	}
	return resp, nil
}

func runRequestInterceptors(req *http.Request, chain []RequestInterceptor) (*http.Request, error) {
	for _, ic := range chain {
		if ic == nil {
			continue
		}
		next, err := ic(req)
		if err != nil {
			return nil, err
		}
		if next != nil {
			req = next
		}
	}
	return req, nil
}

func runResponseInterceptors(req *http.Request, resp *Response, err error, chain []ResponseInterceptor) (*Response, error) {
	for _, ic := range chain {
		if ic == nil {
			continue
		}
		resp, err = ic(req, resp, err)
	}
	return resp, err
}
