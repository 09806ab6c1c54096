package sandbox

// SandboxResponse is the body of GET /.
type SandboxResponse struct {
	Message string `json:"message"`
	Version string `json:"version,omitempty"`
}

// HealthResponse is the body of GET /health. Version, Redis and Database are
// reported by current servers and may be empty.
type HealthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version,omitempty"`
	Redis    string `json:"redis,omitempty"`
	Database string `json:"database,omitempty"`
}

// RequestOptions are the per-call inputs of Request.
type RequestOptions struct {
	// Params are encoded as the query string. Nil values are skipped and
	// slices repeat the key.
	Params map[string]any
	// Headers are merged over the client's headers for this call.
	Headers map[string]string
	// Data is JSON-encoded as the request body. Nil sends no body.
	Data any
}
