package httpclient

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/sandboxhq/sandbox-go/logger"
	"github.com/sandboxhq/sandbox-go/observability"
)

// RequestIDHeader is the header set by the RequestID middleware.
const RequestIDHeader = "X-Request-Id"

// Middleware wraps the adapter's RoundTripper.
type Middleware func(next http.RoundTripper) http.RoundTripper

// RoundTripperFunc adapts a function to http.RoundTripper.
type RoundTripperFunc func(*http.Request) (*http.Response, error)

// RoundTrip implements http.RoundTripper.
func (f RoundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// chain applies mws so that the first middleware is the outermost.
func chain(rt http.RoundTripper, mws []Middleware) http.RoundTripper {
	for i := len(mws) - 1; i >= 0; i-- {
		if mws[i] == nil {
			continue
		}
		rt = mws[i](rt)
	}
	return rt
}

// RequestID sets X-Request-Id to a fresh UUID on requests that do not carry one.
func RequestID() Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			if req.Header.Get(RequestIDHeader) == "" {
				req = req.Clone(req.Context())
				req.Header.Set(RequestIDHeader, uuid.NewString())
			}
			return next.RoundTrip(req)
		})
	}
}

// Logging logs every round trip: debug on success, warn on non-2xx and
// error when no response came back.
func Logging(log *logger.Logger) Middleware {
	if log == nil {
		log = logger.Nop()
	}
	log = log.WithComponent("sandbox.http")
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			start := time.Now()
			resp, err := next.RoundTrip(req)

			fields := logger.MergeWithDuration(logger.Fields(
				logger.FieldMethod, req.Method,
				logger.FieldURL, req.URL.Redacted(),
			), time.Since(start))
			if id := req.Header.Get(RequestIDHeader); id != "" {
				fields[logger.FieldRequestID] = id
			}

			switch {
			case err != nil:
				fields[logger.FieldError] = err.Error()
				log.Error("request failed", fields)
			case resp.StatusCode >= 300:
				fields[logger.FieldStatusCode] = resp.StatusCode
				log.Warn("request completed", fields)
			default:
				fields[logger.FieldStatusCode] = resp.StatusCode
				log.Debug("request completed", fields)
			}
			return resp, err
		})
	}
}

// Tracing starts a client span per round trip and injects the W3C trace
// context into the outgoing headers. A nil provider uses the otel global.
func Tracing(tp trace.TracerProvider) Middleware {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	tracer := tp.Tracer(observability.InstrumentationName)
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			ctx, span := tracer.Start(req.Context(), "HTTP "+req.Method,
				trace.WithSpanKind(trace.SpanKindClient),
				trace.WithAttributes(
					semconv.HTTPRequestMethodKey.String(req.Method),
					semconv.URLFull(req.URL.Redacted()),
					semconv.ServerAddress(req.URL.Hostname()),
				),
			)
			defer span.End()

			req = req.Clone(ctx)
			otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

			resp, err := next.RoundTrip(req)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, NetworkErrorMessage)
				return resp, err
			}
			span.SetAttributes(semconv.HTTPResponseStatusCode(resp.StatusCode))
			if resp.StatusCode >= 400 {
				span.SetStatus(codes.Error, http.StatusText(resp.StatusCode))
			}
			return resp, err
		})
	}
}

// Metrics records every round trip on m.
func Metrics(m *observability.ClientMetrics) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		if m == nil {
			return next
		}
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			ctx := req.Context()
			start := time.Now()
			m.RecordRequestStart(ctx)

			resp, err := next.RoundTrip(req)

			outcome, status := observability.OutcomeOK, 0
			switch {
			case err != nil:
				outcome = observability.OutcomeNetwork
			case resp.StatusCode < 200 || resp.StatusCode >= 300:
				outcome, status = observability.OutcomeServer, resp.StatusCode
			default:
				status = resp.StatusCode
			}
			m.RecordRequestEnd(ctx, req.Method, status, outcome, time.Since(start))
			return resp, err
		})
	}
}
