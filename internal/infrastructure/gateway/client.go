// Package gateway talks to the booking GraphQL API.
package gateway

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/machinebox/graphql"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.uber.org/zap"

	"github.com/bookingops/console/internal/domain/shared"
	"github.com/bookingops/console/internal/infrastructure/logger"
	"github.com/bookingops/console/internal/infrastructure/telemetry"
)

func init() {
	// Prices travel as GraphQL Float scalars. The switch is process wide, so
	// the console's own JSON responses carry decimals as numbers too.
	decimal.MarshalJSONWithoutQuotes = true
}

type tokenKey struct{}

// WithAccessToken attaches the operator's upstream access token to ctx.
// Every operation run with ctx carries it as a Bearer token.
func WithAccessToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// AccessToken returns the token attached by WithAccessToken
func AccessToken(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey{}).(string)
	return token
}

// Client runs GraphQL operations against the booking API
type Client struct {
	gql        *graphql.Client
	httpClient *http.Client
	logger     *zap.Logger
	metrics    *telemetry.ConsoleMetrics
	timeout    time.Duration
	debug      bool
}

// Option configures a Client
type Option func(*Client)

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithMetrics records every operation on m
func WithMetrics(m *telemetry.ConsoleMetrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithHTTPClient replaces the HTTP client used for requests
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// WithTimeout bounds each operation
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithDebug logs the query and variables of each operation at debug level
func WithDebug(debug bool) Option {
	return func(c *Client) { c.debug = debug }
}

// NewClient creates a client for the API at endpoint
func NewClient(endpoint string, opts ...Option) *Client {
	c := &Client{
		httpClient: http.DefaultClient,
		logger:     zap.NewNop(),
		timeout:    10 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.gql = graphql.NewClient(endpoint, graphql.WithHTTPClient(c.httpClient))
	if c.debug {
		l := c.logger.Named("graphql")
		c.gql.Log = func(s string) { l.Debug(s) }
	}
	return c
}

// run executes one operation and decodes its data into out
func (c *Client) run(ctx context.Context, op, query string, vars map[string]any, out any) (err error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	ctx, span := telemetry.StartClientSpan(ctx, "graphql."+op,
		attribute.String("graphql.operation.name", op),
	)
	start := time.Now()
	defer func() {
		c.metrics.RecordGatewayCall(ctx, op, time.Since(start), err)
		telemetry.End(span, err)
	}()

	req := graphql.NewRequest(query)
	for k, v := range vars {
		req.Var(k, v)
	}
	if token := AccessToken(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if id := logger.GetRequestID(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}
	traceHeaders(ctx, req)

	if runErr := c.gql.Run(ctx, req, out); runErr != nil {
		err = mapError(op, runErr)
		logger.L(ctx).Warn("GraphQL operation failed",
			zap.String("operation", op),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(runErr),
		)
		return err
	}

	logger.L(ctx).Debug("GraphQL operation",
		zap.String("operation", op),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}

// traceHeaders propagates the span and baggage with the globally installed propagator
func traceHeaders(ctx context.Context, req *graphql.Request) {
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))
}

// mapError turns client failures into domain errors. GraphQL errors carry the
// API message; transport failures and undecodable replies mean the API is
// unavailable.
func mapError(op string, err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	var urlErr *url.Error
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || errors.As(err, &urlErr) || errors.As(err, &netErr) {
		return shared.WrapDomainError(shared.CodeUpstreamUnavailable, "Booking API is unavailable", err)
	}
	if msg, ok := strings.CutPrefix(err.Error(), "graphql: "); ok {
		if strings.HasPrefix(msg, "server returned a non-200 status code") {
			return shared.WrapDomainError(shared.CodeUpstreamUnavailable, "Booking API is unavailable", err)
		}
		return shared.NewDomainError(shared.CodeUpstreamError, msg)
	}
	return shared.WrapDomainError(shared.CodeUpstreamUnavailable, op+" returned an unreadable response", err)
}
