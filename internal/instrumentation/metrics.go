package instrumentation

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys. The values they carry come from the closed
// vocabulary in config.go and cardinality.go.
const (
	attrMethod    = "method"
	attrPath      = "path"
	attrStatus    = "status"
	attrOperation = "operation"
	attrService   = "service"
	attrResult    = "result"
	attrTool      = "tool"
	attrAccount   = "account"
	attrModel     = "model"
)

// Metrics records the jarvis metric families. The zero value is a valid
// no-op recorder; the nil checks on every method keep disabled
// instrumentation free of special cases at the call sites.
type Metrics struct {
	httpRequestsTotal   metric.Int64Counter
	httpRequestDuration metric.Float64Histogram
	activeSessions      metric.Int64UpDownCounter

	googleAPIOperationsTotal   metric.Int64Counter
	googleAPIOperationDuration metric.Float64Histogram

	openaiAPIRequestsTotal   metric.Int64Counter
	openaiAPIRequestDuration metric.Float64Histogram

	oauthAuthTotal metric.Int64Counter

	toolInvocationsTotal metric.Int64Counter
	toolDuration         metric.Float64Histogram

	// detailedLabels admits the account label on tool metrics.
	detailedLabels bool
}

// NewMetrics registers every instrument on the meter. detailedLabels
// enables the high-cardinality label set; keep it off in production.
func NewMetrics(meter metric.Meter, detailedLabels bool) (*Metrics, error) {
	m := &Metrics{detailedLabels: detailedLabels}

	// The builders latch the first error and no-op afterwards, so the
	// instrument list below stays free of error plumbing.
	var err error
	counter := func(name, description, unit string) metric.Int64Counter {
		if err != nil {
			return nil
		}
		c, cerr := meter.Int64Counter(name,
			metric.WithDescription(description),
			metric.WithUnit(unit),
		)
		if cerr != nil {
			err = fmt.Errorf("failed to create %s counter: %w", name, cerr)
		}
		return c
	}
	histogram := func(name, description string, bounds ...float64) metric.Float64Histogram {
		if err != nil {
			return nil
		}
		h, herr := meter.Float64Histogram(name,
			metric.WithDescription(description),
			metric.WithUnit("s"),
			metric.WithExplicitBucketBoundaries(bounds...),
		)
		if herr != nil {
			err = fmt.Errorf("failed to create %s histogram: %w", name, herr)
		}
		return h
	}

	m.httpRequestsTotal = counter("http_requests_total",
		"Total number of HTTP requests", "{request}")
	m.httpRequestDuration = histogram("http_request_duration_seconds",
		"HTTP request duration in seconds",
		0.001, 0.01, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0)

	m.googleAPIOperationsTotal = counter("google_api_operations_total",
		"Total number of Google API operations", "{operation}")
	m.googleAPIOperationDuration = histogram("google_api_operation_duration_seconds",
		"Google API operation duration in seconds",
		0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0)

	m.openaiAPIRequestsTotal = counter("openai_api_requests_total",
		"Total number of OpenAI API requests", "{request}")
	m.openaiAPIRequestDuration = histogram("openai_api_request_duration_seconds",
		"OpenAI API request duration in seconds",
		0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0, 60.0)

	m.oauthAuthTotal = counter("oauth_auth_total",
		"Total number of OAuth authentication attempts", "{attempt}")

	m.toolInvocationsTotal = counter("mcp_tool_invocations_total",
		"Total number of MCP tool invocations", "{invocation}")
	m.toolDuration = histogram("mcp_tool_duration_seconds",
		"MCP tool execution duration in seconds",
		0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0)

	if err != nil {
		return nil, err
	}

	m.activeSessions, err = meter.Int64UpDownCounter("active_sessions",
		metric.WithDescription("Number of active user sessions"),
		metric.WithUnit("{session}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create active_sessions gauge: %w", err)
	}

	return m, nil
}

// RecordHTTPRequest records one request on the dashboard transport. The
// path must be the route pattern, never the raw URL, or the label set
// explodes.
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, path string, statusCode int, duration time.Duration) {
	if m.httpRequestsTotal == nil || m.httpRequestDuration == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String(attrMethod, method),
		attribute.String(attrPath, path),
		attribute.String(attrStatus, strconv.Itoa(statusCode)),
	)
	m.httpRequestsTotal.Add(ctx, 1, attrs)
	m.httpRequestDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordGoogleAPIOperation records one Google API call, labeled by service
// (gmail, calendar, docs, tasks, people), operation type, and status.
func (m *Metrics) RecordGoogleAPIOperation(ctx context.Context, service, operation, status string, duration time.Duration) {
	if m.googleAPIOperationsTotal == nil || m.googleAPIOperationDuration == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String(attrService, service),
		attribute.String(attrOperation, operation),
		attribute.String(attrStatus, status),
	)
	m.googleAPIOperationsTotal.Add(ctx, 1, attrs)
	m.googleAPIOperationDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordOpenAIRequest records one OpenAI API call, labeled by operation
// (chat, transcribe, speech), model, and status.
func (m *Metrics) RecordOpenAIRequest(ctx context.Context, operation, model, status string, duration time.Duration) {
	if m.openaiAPIRequestsTotal == nil || m.openaiAPIRequestDuration == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String(attrOperation, operation),
		attribute.String(attrModel, model),
		attribute.String(attrStatus, status),
	)
	m.openaiAPIRequestsTotal.Add(ctx, 1, attrs)
	m.openaiAPIRequestDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordOAuthAuth counts one authentication attempt. Result is
// OAuthResultSuccess or OAuthResultFailure.
func (m *Metrics) RecordOAuthAuth(ctx context.Context, result string) {
	if m.oauthAuthTotal == nil {
		return
	}

	m.oauthAuthTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrResult, result),
	))
}

// RecordToolInvocation records one MCP tool call. The account label is only
// attached when detailed labels are enabled and the account is known;
// otherwise the series stays at tool x status.
func (m *Metrics) RecordToolInvocation(ctx context.Context, toolName, status, account string, duration time.Duration) {
	if m.toolInvocationsTotal == nil || m.toolDuration == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrTool, toolName),
		attribute.String(attrStatus, status),
	}
	if m.detailedLabels && account != "" {
		attrs = append(attrs, attribute.String(attrAccount, account))
	}

	opt := metric.WithAttributes(attrs...)
	m.toolInvocationsTotal.Add(ctx, 1, opt)
	m.toolDuration.Record(ctx, duration.Seconds(), opt)
}

// IncrementActiveSessions raises the live session gauge by one.
func (m *Metrics) IncrementActiveSessions(ctx context.Context) {
	if m.activeSessions == nil {
		return
	}
	m.activeSessions.Add(ctx, 1)
}

// DecrementActiveSessions lowers the live session gauge by one.
func (m *Metrics) DecrementActiveSessions(ctx context.Context) {
	if m.activeSessions == nil {
		return
	}
	m.activeSessions.Add(ctx, -1)
}
