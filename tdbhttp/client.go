// Package tdbhttp is the HTTP transport for the client: database
// lifecycle, document CRUD, WOQL/GraphQL submission and commit-log
// traversal against a running TerminusDB server (spec §4.3).
//
// Client wraps a *http.Client the way velox's dialect/sql.Driver wraps a
// *sql.DB: a thin Conn-style layer translating typed calls into wire
// requests, with all session-scoped context (read/write permits, the
// ensured-database cache, the operation log) living on the Client value
// rather than leaking into every call site.
package tdbhttp

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/semaphore"

	"github.com/terminusdb/terminusdb-go/internal/oplog"
	"github.com/terminusdb/terminusdb-go/tdbconfig"
)

// Client is a connection to one TerminusDB server, spec §4.3's public
// surface grouped by concern across this package's files.
type Client struct {
	cfg        tdbconfig.Config
	httpClient *http.Client
	logger     *logrus.Logger
	tracer     trace.Tracer

	readSem  *semaphore.Weighted
	writeSem *semaphore.Weighted

	ensuredMu sync.Mutex
	ensured   map[string]struct{}

	ops *oplog.Sink

	diagDir string // empty disables diagnostic dump files
}

// Option configures a Client at construction time.
type Option func(*Client)

// WithHTTPClient overrides the underlying *http.Client (e.g. to inject a
// custom Transport for testing).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger overrides the structured logger (defaults to logrus's
// standard logger).
func WithLogger(l *logrus.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithTracer overrides the OpenTelemetry tracer (defaults to a no-op
// tracer). EnsureDatabase is the only operation that opens a span.
func WithTracer(t trace.Tracer) Option {
	return func(c *Client) { c.tracer = t }
}

// WithReadPermits sets the read-operation semaphore's capacity (default 16).
func WithReadPermits(n int64) Option {
	return func(c *Client) { c.readSem = semaphore.NewWeighted(n) }
}

// WithWritePermits sets the write-operation semaphore's capacity (default 4).
func WithWritePermits(n int64) Option {
	return func(c *Client) { c.writeSem = semaphore.NewWeighted(n) }
}

// WithOperationLogCapacity overrides the in-memory operation-log ring's
// capacity (default 256).
func WithOperationLogCapacity(n int) Option {
	return func(c *Client) { c.ops = oplog.NewSink(n) }
}

// WithQueryLogger installs a sink that receives an async copy of every
// non-trivial operation (spec §4.3 "an optional QueryLogger sink").
func WithQueryLogger(logger oplog.QueryLogger) Option {
	return func(c *Client) { c.ops.SetLogger(logger) }
}

// WithDiagnosticDir enables best-effort diagnostic dump files under dir
// (spec §6 "tdb-failed-request-*.log.json" etc). Disabled by default.
func WithDiagnosticDir(dir string) Option {
	return func(c *Client) { c.diagDir = dir }
}

// NewClient builds a Client from cfg, validating it first.
func NewClient(cfg tdbconfig.Config, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Client{
		cfg:     cfg,
		ensured: make(map[string]struct{}),
		logger:  logrus.StandardLogger(),
		tracer:  trace.NewNoopTracerProvider().Tracer("tdbhttp"),
		httpClient: &http.Client{
			Timeout: cfg.ConnectTimeout,
		},
		readSem:  semaphore.NewWeighted(16),
		writeSem: semaphore.NewWeighted(4),
		ops:      oplog.NewSink(256),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// OperationLog returns a snapshot of the in-memory operation log.
func (c *Client) OperationLog() []oplog.Entry { return c.ops.Snapshot() }

// buildURL joins the configured endpoint with a /api-relative path and
// query parameters, spec §4.3 "URL shape: base {endpoint}/api, then ...".
func (c *Client) buildURL(path string, query url.Values) (string, error) {
	base, err := url.Parse(c.cfg.Endpoint)
	if err != nil {
		return "", fmt.Errorf("tdbhttp: invalid endpoint %q: %w", c.cfg.Endpoint, err)
	}
	base.Path = joinPath(base.Path, "api", path)
	if len(query) > 0 {
		base.RawQuery = query.Encode()
	}
	return base.String(), nil
}

func joinPath(parts ...string) string {
	out := ""
	for _, p := range parts {
		for len(p) > 0 && p[0] == '/' {
			p = p[1:]
		}
		for len(p) > 0 && p[len(p)-1] == '/' {
			p = p[:len(p)-1]
		}
		if p == "" {
			continue
		}
		if out == "" {
			out = "/" + p
		} else {
			out = out + "/" + p
		}
	}
	if out == "" {
		return "/"
	}
	return out
}

// acquireRead blocks until a read permit is available.
func (c *Client) acquireRead(ctx context.Context) error {
	return c.readSem.Acquire(ctx, 1)
}

func (c *Client) releaseRead() { c.readSem.Release(1) }

// acquireWrite blocks until a write permit is available.
func (c *Client) acquireWrite(ctx context.Context) error {
	return c.writeSem.Acquire(ctx, 1)
}

func (c *Client) releaseWrite() { c.writeSem.Release(1) }

// span starts a tracing span named op around an HTTP exchange, spec §6
// "Log output is tracing-compatible spans".
func (c *Client) span(ctx context.Context, op string) (context.Context, trace.Span) {
	return c.tracer.Start(ctx, op)
}

// since returns the elapsed milliseconds since start, the unit every
// OperationEntry records duration in.
func since(start time.Time) int64 { return time.Since(start).Milliseconds() }
