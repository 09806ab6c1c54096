package sandboxtest

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Root answers GET / like the Sandbox backend.
func Root(version string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Sandbox API",
			"version": version,
		})
	}
}

// Health answers GET /health like the Sandbox backend.
func Health(version, redis, database string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"version":  version,
			"redis":    redis,
			"database": database,
		})
	}
}

// Detail aborts with a FastAPI-style error body: {"detail": detail}.
func Detail(c *gin.Context, status int, detail any) {
	c.AbortWithStatusJSON(status, gin.H{"detail": detail})
}

// JSON responds with a fixed status and body.
func JSON(status int, body any) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(status, body)
	}
}

// EchoResponse is the body written by Echo.
type EchoResponse struct {
	Method  string              `json:"method"`
	Path    string              `json:"path"`
	Query   map[string][]string `json:"query,omitempty"`
	Headers map[string]string   `json:"headers,omitempty"`
	Body    json.RawMessage     `json:"body,omitempty"`
}

// Echo responds 200 with the request's method, path, query, headers and
// JSON body. A body that is not JSON is echoed as a JSON string.
func Echo() gin.HandlerFunc {
	return func(c *gin.Context) {
		resp := EchoResponse{
			Method:  c.Request.Method,
			Path:    c.Request.URL.Path,
			Query:   c.Request.URL.Query(),
			Headers: make(map[string]string, len(c.Request.Header)),
		}
		for k := range c.Request.Header {
			resp.Headers[k] = c.Request.Header.Get(k)
		}

		body, err := c.GetRawData()
		if err != nil {
			Detail(c, http.StatusBadRequest, err.Error())
			return
		}
		if len(body) > 0 {
			if json.Valid(body) {
				resp.Body = body
			} else {
				resp.Body, _ = json.Marshal(string(body))
			}
		}
		c.JSON(http.StatusOK, resp)
	}
}
