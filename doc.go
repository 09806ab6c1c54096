// Package sandbox is the Go client for the Sandbox REST API.
//
// A Client wraps one configured HTTP transport. Every call is a single
// blocking request with no retry; a Client is safe for concurrent use.
//
//	client, err := sandbox.New(sandbox.ClientConfig{BaseURL: "http://localhost:8000"})
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	health, err := client.HealthCheck(ctx)
//
// # Errors
//
// Failed calls return one of three outcomes:
//
//   - a server error (*Error with Kind KindServer) when the API answered with
//     a non-2xx status. Its message is "API Error: " followed by the body's
//     "detail" field, or by "Request failed with status code N".
//   - a network error (*Error with Kind KindNetwork) when no response came
//     back. Its message is always "Network Error: No response from server".
//   - any other error unchanged, for failures before the request was sent
//     (for example a body that cannot be JSON-encoded).
//
// # Typed calls
//
// Do, Get, Post, Put, Patch and Delete decode the response into a type
// parameter:
//
//	item, err := sandbox.Get[Item](ctx, client, "/items/7")
package sandbox
