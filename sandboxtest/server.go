package sandboxtest

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sandboxhq/sandbox-go/logger"
)

// DefaultVersion is the version reported by GET / and GET /health.
const DefaultVersion = "0.1.0"

// RequestIDHeader is echoed back on every response.
const RequestIDHeader = "X-Request-Id"

var ginMode sync.Once

// RecordedRequest is a request as seen by the fake server.
type RecordedRequest struct {
	Method    string
	Path      string
	Query     url.Values
	Header    http.Header
	Body      []byte
	RequestID string
}

// Server is a running fake Sandbox API.
type Server struct {
	*httptest.Server

	engine *gin.Engine
	log    *logger.Logger

	mu       sync.Mutex
	requests []RecordedRequest
}

type options struct {
	version  string
	redis    string
	database string
	log      *logger.Logger
}

// Option configures the fake server.
type Option func(*options)

// WithVersion sets the version reported by GET / and GET /health.
func WithVersion(v string) Option {
	return func(o *options) { o.version = v }
}

// WithDependencies sets the redis and database statuses reported by GET /health.
func WithDependencies(redis, database string) Option {
	return func(o *options) {
		o.redis = redis
		o.database = database
	}
}

// WithLogger logs every request handled by the server.
func WithLogger(log *logger.Logger) Option {
	return func(o *options) { o.log = log }
}

// NewServer starts a fake Sandbox API. Call Close when done.
func NewServer(opts ...Option) *Server {
	o := options{
		version:  DefaultVersion,
		redis:    "connected",
		database: "connected",
		log:      logger.Nop(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	ginMode.Do(func() { gin.SetMode(gin.TestMode) })

	s := &Server{
		engine: gin.New(),
		log:    o.log.WithComponent("sandboxtest"),
	}
	s.engine.HandleMethodNotAllowed = true
	s.engine.Use(s.recovery(), s.record())

	s.engine.GET("/", Root(o.version))
	s.engine.GET("/health", Health(o.version, o.redis, o.database))
	s.engine.NoRoute(func(c *gin.Context) {
		Detail(c, http.StatusNotFound, "Not Found")
	})
	s.engine.NoMethod(func(c *gin.Context) {
		Detail(c, http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	s.Server = httptest.NewServer(s.engine)
	return s
}

// Handle registers handlers for method and path (gin syntax, e.g. "/items/:id").
// Register routes before issuing requests that reach them.
func (s *Server) Handle(method, path string, handlers ...gin.HandlerFunc) {
	s.engine.Handle(method, path, handlers...)
}

// Requests returns a copy of the requests received so far, in arrival order.
func (s *Server) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]RecordedRequest, len(s.requests))
	copy(out, s.requests)
	return out
}

// LastRequest returns the most recent request.
func (s *Server) LastRequest() (RecordedRequest, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return RecordedRequest{}, false
	}
	return s.requests[len(s.requests)-1], true
}

// Reset forgets the recorded requests.
func (s *Server) Reset() {
	s.mu.Lock()
	s.requests = nil
	s.mu.Unlock()
}

// record stores each request and echoes its request id.
func (s *Server) record() gin.HandlerFunc {
	return func(c *gin.Context) {
		body, _ := io.ReadAll(c.Request.Body)
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(RequestIDHeader, id)

		rec := RecordedRequest{
			Method:    c.Request.Method,
			Path:      c.Request.URL.Path,
			Query:     c.Request.URL.Query(),
			Header:    c.Request.Header.Clone(),
			Body:      body,
			RequestID: id,
		}
		s.mu.Lock()
		s.requests = append(s.requests, rec)
		s.mu.Unlock()

		c.Next()

		s.log.Debug("handled request", logger.Fields(
			logger.FieldMethod, rec.Method,
			logger.FieldURL, rec.Path,
			logger.FieldStatusCode, c.Writer.Status(),
			logger.FieldRequestID, id,
		))
	}
}

func (s *Server) recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, err any) {
		s.log.Error("handler panicked", logger.Fields(logger.FieldError, err, logger.FieldURL, c.Request.URL.Path))
		Detail(c, http.StatusInternalServerError, "Internal Server Error")
	})
}
