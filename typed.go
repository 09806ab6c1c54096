package sandbox

import (
	"context"
	"net/http"
)

// Do sends one request and decodes the response into a T.
func Do[T any](ctx context.Context, c *Client, method, path string, opts ...RequestOption) (T, error) {
	var out T
	err := c.Request(ctx, method, path, &out, opts...)
	return out, err
}

// Get sends a GET request and decodes the response into a T.
func Get[T any](ctx context.Context, c *Client, path string, opts ...RequestOption) (T, error) {
	return Do[T](ctx, c, http.MethodGet, path, opts...)
}

// Delete sends a DELETE request and decodes the response into a T.
func Delete[T any](ctx context.Context, c *Client, path string, opts ...RequestOption) (T, error) {
	return Do[T](ctx, c, http.MethodDelete, path, opts...)
}

// Post sends data with POST and decodes the response into a T.
func Post[T any](ctx context.Context, c *Client, path string, data any, opts ...RequestOption) (T, error) {
	return withBody[T](ctx, c, http.MethodPost, path, data, opts)
}

// Put sends data with PUT and decodes the response into a T.
func Put[T any](ctx context.Context, c *Client, path string, data any, opts ...RequestOption) (T, error) {
	return withBody[T](ctx, c, http.MethodPut, path, data, opts)
}

// Patch sends data with PATCH and decodes the response into a T.
func Patch[T any](ctx context.Context, c *Client, path string, data any, opts ...RequestOption) (T, error) {
	return withBody[T](ctx, c, http.MethodPatch, path, data, opts)
}

func withBody[T any](ctx context.Context, c *Client, method, path string, data any, opts []RequestOption) (T, error) {
	var out T
	err := c.withBody(ctx, method, path, data, &out, opts)
	return out, err
}
