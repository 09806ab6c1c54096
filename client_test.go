package sandbox

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"reflect"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sandboxhq/sandbox-go/httpclient"
	"github.com/sandboxhq/sandbox-go/sandboxtest"
	"github.com/sandboxhq/sandbox-go/validation"
)

func newTestClient(t *testing.T, srv *sandboxtest.Server, opts ...Option) *Client {
	t.Helper()
	c, err := New(ClientConfig{BaseURL: srv.URL}, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestNew_Defaults(t *testing.T) {
	c, err := New(ClientConfig{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cfg := c.Config()
	if cfg.BaseURL != "http://localhost:8000" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.Timeout != 30000*time.Millisecond {
		t.Errorf("Timeout = %v", cfg.Timeout)
	}
	if cfg.Headers["Content-Type"] != "application/json" {
		t.Errorf("expected default Content-Type, got %v", cfg.Headers)
	}
	if !strings.HasPrefix(cfg.Headers["User-Agent"], "sandbox-go/") {
		t.Errorf("expected SDK User-Agent, got %v", cfg.Headers)
	}

	c, _ = New(ClientConfig{Timeout: -time.Second})
	if c.Config().Timeout != DefaultTimeout {
		t.Errorf("negative timeout must fall back to the default, got %v", c.Config().Timeout)
	}
}

func TestNew_HeaderMerge(t *testing.T) {
	c, err := New(ClientConfig{Headers: map[string]string{
		"content-type": "text/plain",
		"X-Api-Key":    "k",
	}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	headers := c.Config().Headers
	if headers["Content-Type"] != "text/plain" {
		t.Errorf("caller Content-Type must win, got %v", headers)
	}
	if headers["X-Api-Key"] != "k" {
		t.Errorf("caller header missing, got %v", headers)
	}
	if _, dup := headers["content-type"]; dup {
		t.Errorf("header keys must be compared case-insensitively, got %v", headers)
	}
}

func TestNew_ConfigIsCopied(t *testing.T) {
	in := map[string]string{"X-A": "1"}
	c, _ := New(ClientConfig{Headers: in})
	in["X-A"] = "changed"

	got := c.Config()
	if got.Headers["X-A"] != "1" {
		t.Error("caller mutation must not reach the client")
	}
	got.Headers["X-A"] = "changed"
	if c.Config().Headers["X-A"] != "1" {
		t.Error("Config must return a copy")
	}
}

func TestNew_InvalidBaseURL(t *testing.T) {
	for _, raw := range []string{"localhost:8000", "ftp://example.com", "not a url"} {
		t.Run(raw, func(t *testing.T) {
			_, err := New(ClientConfig{BaseURL: raw})
			if !validation.IsValidationError(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestNew_NoNetworkIO(t *testing.T) {
	var calls int32
	rt := httpclient.RoundTripperFunc(func(*http.Request) (*http.Response, error) {
		atomic.AddInt32(&calls, 1)
		return nil, errors.New("unexpected round trip")
	})

	c, err := New(ClientConfig{BaseURL: "http://sandbox.invalid:8000"}, WithTransport(rt))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c == nil {
		t.Fatal("expected client")
	}
	if n := atomic.LoadInt32(&calls); n != 0 {
		t.Errorf("New made %d round trips, want 0", n)
	}
}

func TestClient_GetRoot(t *testing.T) {
	srv := sandboxtest.NewServer()
	defer srv.Close()

	c := newTestClient(t, srv)
	root, err := c.GetRoot(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := &SandboxResponse{Message: "Sandbox API", Version: sandboxtest.DefaultVersion}
	if !reflect.DeepEqual(root, want) {
		t.Errorf("GetRoot() = %+v, want %+v", root, want)
	}

	reqs := srv.Requests()
	if len(reqs) != 1 || reqs[0].Method != http.MethodGet || reqs[0].Path != "/" {
		t.Fatalf("expected exactly one GET /, got %+v", reqs)
	}
}

func TestClient_GetRoot_DecodesExactly(t *testing.T) {
	srv := sandboxtest.NewServer(sandboxtest.WithVersion("1.0"))
	defer srv.Close()
	srv.Handle(http.MethodGet, "/custom", sandboxtest.JSON(http.StatusOK, gin.H{"message": "ok", "version": "1.0"}))

	c := newTestClient(t, srv)
	got, err := Get[SandboxResponse](context.Background(), c, "/custom")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, SandboxResponse{Message: "ok", Version: "1.0"}) {
		t.Errorf("unexpected response %+v", got)
	}
}

func TestClient_HealthCheck(t *testing.T) {
	srv := sandboxtest.NewServer()
	defer srv.Close()

	c := newTestClient(t, srv)
	health, err := c.HealthCheck(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if health.Status != "healthy" || health.Redis != "connected" || health.Database != "connected" {
		t.Errorf("unexpected health %+v", health)
	}

	reqs := srv.Requests()
	if len(reqs) != 1 {
		t.Fatalf("expected exactly one request, got %d", len(reqs))
	}
	if reqs[0].Path != "/health" || len(reqs[0].Body) != 0 {
		t.Errorf("expected GET /health without body, got %+v", reqs[0])
	}
	if got := reqs[0].Header.Get("Content-Type"); got != "application/json" {
		t.Errorf("expected default Content-Type on every request, got %q", got)
	}
}

func TestClient_Request(t *testing.T) {
	srv := sandboxtest.NewServer()
	defer srv.Close()
	srv.Handle(http.MethodPut, "/items/:id", sandboxtest.Echo())

	c, err := New(ClientConfig{BaseURL: srv.URL, Headers: map[string]string{"X-Client": "default", "X-Shared": "client"}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var echo sandboxtest.EchoResponse
	err = c.Request(context.Background(), "put", "items/7", &echo,
		WithParams(map[string]any{"page": 2, "tag": []string{"a", "b"}, "skip": nil}),
		WithHeader("X-Shared", "call"),
		WithData(map[string]any{"name": "seven"}),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if echo.Method != http.MethodPut || echo.Path != "/items/7" {
		t.Errorf("unexpected method/path %s %s", echo.Method, echo.Path)
	}
	if got := echo.Query["tag"]; !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("expected repeated tag param, got %v", echo.Query)
	}
	if got := echo.Query["page"]; !reflect.DeepEqual(got, []string{"2"}) {
		t.Errorf("expected page=2, got %v", echo.Query)
	}
	if _, ok := echo.Query["skip"]; ok {
		t.Error("nil params must not be sent")
	}
	if echo.Headers["X-Client"] != "default" || echo.Headers["X-Shared"] != "call" {
		t.Errorf("unexpected headers %v", echo.Headers)
	}
	if string(echo.Body) != `{"name":"seven"}` {
		t.Errorf("unexpected body %s", echo.Body)
	}
	if n := len(srv.Requests()); n != 1 {
		t.Errorf("expected exactly one network call, got %d", n)
	}
}

func TestClient_PostRoundTrip(t *testing.T) {
	srv := sandboxtest.NewServer()
	defer srv.Close()
	srv.Handle(http.MethodPost, "/echo", func(c *gin.Context) {
		body, _ := c.GetRawData()
		c.Data(http.StatusCreated, "application/json", body)
	})

	type item struct {
		Name  string   `json:"name"`
		Count int      `json:"count"`
		Tags  []string `json:"tags"`
	}
	in := item{Name: "x", Count: 3, Tags: []string{"a"}}

	c := newTestClient(t, srv)
	var out item
	if err := c.Post(context.Background(), "/echo", in, &out, WithData("ignored")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Errorf("round trip = %+v, want %+v", out, in)
	}

	typed, err := Post[item](context.Background(), c, "/echo", in)
	if err != nil || !reflect.DeepEqual(typed, in) {
		t.Errorf("typed round trip = %+v, %v", typed, err)
	}
}

func TestClient_BodyVerbsDataArgumentReplacesWithData(t *testing.T) {
	srv := sandboxtest.NewServer()
	defer srv.Close()
	srv.Handle(http.MethodPatch, "/items/1", sandboxtest.Echo())

	c := newTestClient(t, srv)
	ctx := context.Background()

	echo, err := Patch[sandboxtest.EchoResponse](ctx, c, "/items/1", map[string]int{"n": 2}, WithData(map[string]int{"n": 1}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(echo.Body) != `{"n":2}` {
		t.Errorf("unexpected body %s", echo.Body)
	}

	echo, err = Patch[sandboxtest.EchoResponse](ctx, c, "/items/1", nil, WithData(map[string]int{"n": 1}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(echo.Body) != 0 {
		t.Errorf("nil data should send no body, got %s", echo.Body)
	}
	last, _ := srv.LastRequest()
	if len(last.Body) != 0 {
		t.Errorf("recorded body = %q, want empty", last.Body)
	}
}

func TestClient_InterceptorSwallowsNetworkError(t *testing.T) {
	srv := sandboxtest.NewServer()
	url := srv.URL
	srv.Close()

	swallow := func(_ *http.Request, resp *httpclient.Response, _ error) (*httpclient.Response, error) {
		return resp, nil
	}
	c, err := New(ClientConfig{BaseURL: url}, WithResponseInterceptor(swallow))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	out := map[string]any{"kept": true}
	if err := c.Get(context.Background(), "/", &out); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !reflect.DeepEqual(out, map[string]any{"kept": true}) {
		t.Errorf("out should be untouched, got %v", out)
	}
	if _, err := c.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck: expected nil error, got %v", err)
	}
}

func TestClient_ServerErrorForEveryVerb(t *testing.T) {
	srv := sandboxtest.NewServer()
	defer srv.Close()
	notFound := func(c *gin.Context) { sandboxtest.Detail(c, http.StatusNotFound, "not found") }
	for _, m := range []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete} {
		srv.Handle(m, "/x", notFound)
	}

	c := newTestClient(t, srv)
	ctx := context.Background()
	calls := map[string]func() error{
		"Get":     func() error { return c.Get(ctx, "/x", nil) },
		"Post":    func() error { return c.Post(ctx, "/x", map[string]int{"a": 1}, nil) },
		"Put":     func() error { return c.Put(ctx, "/x", nil, nil) },
		"Patch":   func() error { return c.Patch(ctx, "/x", nil, nil) },
		"Delete":  func() error { return c.Delete(ctx, "/x", nil) },
		"Request": func() error { return c.Request(ctx, "GET", "/x", nil) },
	}

	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			err := call()
			if err == nil {
				t.Fatal("expected error")
			}
			if err.Error() != "API Error: not found" {
				t.Errorf("message = %q", err.Error())
			}
			var apiErr *Error
			if !errors.As(err, &apiErr) || apiErr.Kind != KindServer || apiErr.StatusCode != http.StatusNotFound {
				t.Errorf("expected 404 server error, got %#v", err)
			}
			if !IsNotFound(err) || StatusCode(err) != 404 {
				t.Error("helpers must report 404")
			}
		})
	}
}

func TestClient_ServerErrorWithoutDetail(t *testing.T) {
	srv := sandboxtest.NewServer()
	defer srv.Close()
	srv.Handle(http.MethodGet, "/boom", sandboxtest.JSON(http.StatusInternalServerError, gin.H{"error": "x"}))

	c := newTestClient(t, srv)
	err := c.Get(context.Background(), "/boom", nil)
	if err == nil || err.Error() != "API Error: Request failed with status code 500" {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestClient_NetworkError(t *testing.T) {
	srv := sandboxtest.NewServer()
	url := srv.URL
	srv.Close()

	c, _ := New(ClientConfig{BaseURL: url})
	_, err := c.HealthCheck(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if err.Error() != "Network Error: No response from server" {
		t.Errorf("message = %q", err.Error())
	}
	if !IsNetworkError(err) {
		t.Errorf("expected network error, got %#v", err)
	}
}

func TestClient_Timeout(t *testing.T) {
	srv := sandboxtest.NewServer()
	defer srv.Close()
	srv.Handle(http.MethodGet, "/slow", func(c *gin.Context) {
		select {
		case <-time.After(2 * time.Second):
		case <-c.Request.Context().Done():
		}
	})

	c, _ := New(ClientConfig{BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
	err := c.Get(context.Background(), "/slow", nil)
	if !IsNetworkError(err) || !IsTimeout(err) {
		t.Fatalf("expected network timeout, got %#v", err)
	}
	if err.Error() != NetworkErrorMessage {
		t.Errorf("message = %q", err.Error())
	}
}

func TestClient_LocalErrorsUnchanged(t *testing.T) {
	srv := sandboxtest.NewServer()
	defer srv.Close()
	c := newTestClient(t, srv)

	err := c.Post(context.Background(), "/x", math.NaN(), nil)
	var unsupported *json.UnsupportedValueError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected json.UnsupportedValueError, got %T: %v", err, err)
	}
	if _, ok := AsError(err); ok {
		t.Error("local errors must not be wrapped in *Error")
	}

	sentinel := errors.New("hook failed")
	hooked := newTestClient(t, srv, WithRequestInterceptor(func(*http.Request) (*http.Request, error) {
		return nil, sentinel
	}))
	if err := hooked.Get(context.Background(), "/", nil); err != sentinel {
		t.Fatalf("expected hook error unchanged, got %v", err)
	}

	var wrongShape []int
	err = c.Get(context.Background(), "/", &wrongShape)
	var typeErr *json.UnmarshalTypeError
	if !errors.As(err, &typeErr) {
		t.Fatalf("expected decode error, got %T: %v", err, err)
	}

	if n := len(srv.Requests()); n != 1 {
		t.Errorf("only the decode case reaches the server, got %d requests", n)
	}
}

func TestClient_EmptyBodyAndRawOutput(t *testing.T) {
	srv := sandboxtest.NewServer()
	defer srv.Close()
	srv.Handle(http.MethodDelete, "/items/1", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	c := newTestClient(t, srv)
	out := map[string]any{"kept": true}
	if err := c.Delete(context.Background(), "/items/1", &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out["kept"] != true {
		t.Error("an empty body must leave out untouched")
	}

	raw, err := Get[[]byte](context.Background(), c, "/")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(raw), `"Sandbox API"`) {
		t.Errorf("expected raw body, got %s", raw)
	}
}

func TestClient_Concurrent(t *testing.T) {
	srv := sandboxtest.NewServer()
	defer srv.Close()
	c := newTestClient(t, srv)

	const n = 20
	var wg sync.WaitGroup
	errs := make(chan error, 2*n)
	for i := 0; i < n; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			h, err := c.HealthCheck(context.Background())
			if err == nil && h.Status != "healthy" {
				err = errors.New("unexpected status " + h.Status)
			}
			errs <- err
		}()
		go func() {
			defer wg.Done()
			r, err := c.GetRoot(context.Background())
			if err == nil && r.Message != "Sandbox API" {
				err = errors.New("unexpected message " + r.Message)
			}
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Error(err)
		}
	}
	if got := len(srv.Requests()); got != 2*n {
		t.Errorf("expected %d requests, got %d", 2*n, got)
	}
}

func TestClient_Middleware(t *testing.T) {
	srv := sandboxtest.NewServer()
	defer srv.Close()

	var seen int
	c := newTestClient(t, srv, WithMiddleware(httpclient.RequestID(), func(next http.RoundTripper) http.RoundTripper {
		return httpclient.RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			seen++
			return next.RoundTrip(req)
		})
	}))

	if _, err := c.HealthCheck(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	last, _ := srv.LastRequest()
	if len(last.Header.Get(httpclient.RequestIDHeader)) != 36 {
		t.Errorf("expected generated request id, got %q", last.Header.Get(httpclient.RequestIDHeader))
	}
	if seen != 1 {
		t.Errorf("expected middleware to run once, got %d", seen)
	}
}

func TestRequestOptions(t *testing.T) {
	ro := buildRequestOptions([]RequestOption{
		WithParam("a", 1),
		WithParams(map[string]any{"b": "2"}),
		WithHeaders(map[string]string{"X-A": "1"}),
		WithOptions(RequestOptions{
			Params:  map[string]any{"c": true},
			Headers: map[string]string{"X-B": "2"},
			Data:    "body",
		}),
		nil,
	})

	want := RequestOptions{
		Params:  map[string]any{"a": 1, "b": "2", "c": true},
		Headers: map[string]string{"X-A": "1", "X-B": "2"},
		Data:    "body",
	}
	if !reflect.DeepEqual(ro, want) {
		t.Errorf("buildRequestOptions() = %+v, want %+v", ro, want)
	}
}
