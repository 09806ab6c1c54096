package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/sandboxhq/sandbox-go"
	"github.com/sandboxhq/sandbox-go/httpclient"
	"github.com/sandboxhq/sandbox-go/logger"
	"github.com/sandboxhq/sandbox-go/observability"
	"github.com/sandboxhq/sandbox-go/validation"
	"github.com/sandboxhq/sandbox-go/version"
)

const serviceName = "sandbox-cli"

var methods = []string{
	http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch,
	http.MethodDelete, http.MethodHead, http.MethodOptions,
}

// app holds the state shared by all commands of one invocation.
type app struct {
	out    io.Writer
	errOut io.Writer
	flags  globalFlags

	log      *logger.Logger
	client   *sandbox.Client
	shutdown []func(context.Context) error
}

func newApp(out, errOut io.Writer) *app {
	return &app{out: out, errOut: errOut, log: logger.Nop()}
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "sandbox",
		Short:         "Command line client for the Sandbox API",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.baseURL, "base-url", sandbox.DefaultBaseURL, "Sandbox API base URL")
	pf.DurationVar(&a.flags.timeout, "timeout", sandbox.DefaultTimeout, "request timeout")
	pf.StringVar(&a.flags.configFile, "config", "", "config file (default: sandbox.yml if present)")
	pf.StringVar(&a.flags.envFile, "env-file", "", ".env file (default: .env.sandbox or .env if present)")
	pf.StringVar(&a.flags.logLevel, "log-level", "warn", "log level (trace, debug, info, warn, error, disabled)")
	pf.BoolVarP(&a.flags.verbose, "verbose", "v", false, "log every request")
	pf.StringVar(&a.flags.otelEndpoint, "otel-endpoint", "", "OTLP HTTP endpoint (host:port) for traces and metrics")

	root.AddCommand(a.rootInfoCommand(), a.healthCommand(), a.requestCommand(), a.versionCommand())
	return root
}

// setup loads configuration and builds the client before any API command runs.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := loadConfig(a.flags, func(name string) bool {
		return cmd.Flags().Changed(name)
	})
	if err != nil {
		return err
	}

	cfg.Log.Writer = a.errOut
	a.log = logger.New(&cfg.Log, serviceName).WithFields(logger.Fields(logger.FieldOperation, cmd.Name()))

	mws := []httpclient.Middleware{httpclient.RequestID()}
	if cfg.Otel.Endpoint != "" {
		otelMWs, err := a.setupTelemetry(cmd.Context(), cfg.Otel)
		if err != nil {
			return err
		}
		mws = append(mws, otelMWs...)
	}
	mws = append(mws, httpclient.Logging(a.log))

	a.client, err = sandbox.New(cfg.ClientConfig, sandbox.WithMiddleware(mws...))
	if err != nil {
		return err
	}
	a.log.Debug("client ready", logger.Fields(logger.FieldURL, a.client.Config().BaseURL))
	return nil
}

func (a *app) setupTelemetry(ctx context.Context, oc otelConfig) ([]httpclient.Middleware, error) {
	tc := observability.DefaultTracerConfig(serviceName)
	tc.ServiceVersion = version.GetShortVersion()
	tc.Endpoint = oc.Endpoint
	tc.Insecure = oc.Insecure
	tc.SampleRate = oc.SampleRate
	tc.Environment = oc.Environment

	tp, err := observability.InitTracer(ctx, tc)
	if err != nil {
		return nil, err
	}
	a.shutdown = append(a.shutdown, tp.Shutdown)

	mc := observability.DefaultMeterConfig(serviceName)
	mc.ServiceVersion = tc.ServiceVersion
	mc.Endpoint = oc.Endpoint
	mc.Insecure = oc.Insecure
	mc.Environment = oc.Environment

	mp, err := observability.InitMeter(ctx, mc)
	if err != nil {
		return nil, err
	}
	a.shutdown = append(a.shutdown, mp.Shutdown)

	metrics, err := observability.NewClientMetrics(mp.Meter(observability.InstrumentationName))
	if err != nil {
		return nil, err
	}
	return []httpclient.Middleware{httpclient.Tracing(tp), httpclient.Metrics(metrics)}, nil
}

// close flushes telemetry and releases connections.
func (a *app) close() {
	if a.client != nil {
		_ = a.client.Close()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, fn := range a.shutdown {
		if err := fn(ctx); err != nil {
			a.log.Warn("telemetry shutdown failed", logger.ErrorFields("shutdown", err))
		}
	}
}

func (a *app) rootInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "root",
		Short: "Call GET / and print the API banner",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp, err := a.client.GetRoot(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(a.out, resp)
		},
	}
}

func (a *app) healthCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Call GET /health",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp, err := a.client.HealthCheck(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(a.out, resp)
		},
	}
}

func (a *app) requestCommand() *cobra.Command {
	var (
		data    string
		params  []string
		headers []string
	)

	cmd := &cobra.Command{
		Use:   "request METHOD PATH",
		Short: "Send an arbitrary request and print the JSON response",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			method, path := strings.ToUpper(args[0]), args[1]

			v := validation.New()
			v.Required("method", method).OneOf("method", method, methods)
			v.Required("path", path)
			v.Custom(data == "" || json.Valid([]byte(data)), "data", "must be valid JSON")
			for _, p := range params {
				v.Pattern("param", p, `^[^=]+=`)
			}
			for _, h := range headers {
				v.Pattern("header", h, `^[^=]+=`)
			}
			if err := v.Err(); err != nil {
				return err
			}

			opts := []sandbox.RequestOption{}
			for _, p := range params {
				k, val, _ := strings.Cut(p, "=")
				opts = append(opts, sandbox.WithParam(k, val))
			}
			for _, h := range headers {
				k, val, _ := strings.Cut(h, "=")
				opts = append(opts, sandbox.WithHeader(k, val))
			}
			if data != "" {
				opts = append(opts, sandbox.WithData(json.RawMessage(data)))
			}

			var out json.RawMessage
			if err := a.client.Request(cmd.Context(), method, path, &out, opts...); err != nil {
				return err
			}
			if len(out) == 0 {
				return nil
			}
			return printJSON(a.out, out)
		},
	}

	cmd.Flags().StringVarP(&data, "data", "d", "", "JSON request body")
	cmd.Flags().StringArrayVarP(&params, "param", "p", nil, "query parameter key=value (repeatable)")
	cmd.Flags().StringArrayVarP(&headers, "header", "H", nil, "request header key=value (repeatable)")
	return cmd
}

func (a *app) versionCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		// No client is needed.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(*cobra.Command, []string) error {
			return version.Write(a.out, output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", version.FormatText, "output format (text, json, short)")
	return cmd
}

func printJSON(w io.Writer, v any) error {
	var buf bytes.Buffer
	if raw, ok := v.(json.RawMessage); ok {
		if err := json.Indent(&buf, raw, "", "  "); err != nil {
			return fmt.Errorf("format output: %w", err)
		}
	} else {
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("format output: %w", err)
		}
		buf.Write(data)
	}
	buf.WriteByte('\n')
	_, err := buf.WriteTo(w)
	return err
}
