package common

import (
	"context"
	"errors"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/vikas-kashyap97/Jarvis-AI/internal/instrumentation"
	"github.com/vikas-kashyap97/Jarvis-AI/internal/server"
)

// ToolHandlerFunc mirrors the mcp-go tool handler signature. It is declared
// as an alias here so the wrappers can name it without importing the mcp-go
// server package, which would collide with the jarvis server package.
type ToolHandlerFunc = func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)

// errToolResult marks results that carry IsError without a Go error.
var errToolResult = errors.New("tool returned an error result")

// InstrumentedToolHandler wraps a tool handler with a server span, invocation
// metrics, and audit logging.
//
// Usage:
//
//	s.AddTool(myTool, common.InstrumentedToolHandler("my_tool", sc, handler))
func InstrumentedToolHandler(
	toolName string,
	sc *server.ServerContext,
	handler ToolHandlerFunc,
) ToolHandlerFunc {
	return instrumentedHandler(toolName, "", "", sc, handler)
}

// InstrumentedToolHandlerWithService is like InstrumentedToolHandler but also
// tags the invocation with the backing service and operation type, so the
// per-service series (google_api_operations_total,
// google_api_operation_duration_seconds) are recorded alongside the per-tool
// series.
//
// Usage:
//
//	s.AddTool(myTool, common.InstrumentedToolHandlerWithService("my_tool", "gmail", "send", sc, handler))
func InstrumentedToolHandlerWithService(
	toolName string,
	serviceName string,
	operation string,
	sc *server.ServerContext,
	handler ToolHandlerFunc,
) ToolHandlerFunc {
	return instrumentedHandler(toolName, serviceName, operation, sc, handler)
}

// instrumentedHandler is the shared body behind both exported wrappers.
// serviceName and operation are empty for plain tool handlers.
func instrumentedHandler(
	toolName string,
	serviceName string,
	operation string,
	sc *server.ServerContext,
	handler ToolHandlerFunc,
) ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		metrics := sc.Metrics()
		auditLogger := sc.AuditLogger()

		// Nothing is configured to receive the records.
		if metrics == nil && auditLogger == nil {
			return handler(ctx, request)
		}

		account := GetAccountFromArgs(ctx, request.GetArguments())

		spanAttrs := instrumentation.NewSpanAttributeBuilder().WithAccount(account)
		if serviceName != "" {
			spanAttrs.WithService(serviceName).WithOperation(operation)
		}
		ctx, span := instrumentation.StartToolSpan(ctx, toolName, spanAttrs.Build()...)
		defer span.End()

		invocation := instrumentation.NewToolInvocation(toolName).
			WithSpanContext(ctx)
		if serviceName != "" {
			invocation.WithService(serviceName, operation)
		}
		if account != "" {
			invocation.WithAccount(account)
		}

		start := time.Now()
		result, err := handler(ctx, request)
		duration := time.Since(start)

		status := instrumentation.StatusSuccess
		switch {
		case err != nil:
			status = instrumentation.StatusError
			invocation.CompleteWithError(err)
			instrumentation.SetSpanError(span, err)
		case result != nil && result.IsError:
			status = instrumentation.StatusError
			invocation.Complete(false, nil)
			instrumentation.SetSpanError(span, errToolResult)
		default:
			invocation.CompleteSuccess()
			instrumentation.SetSpanSuccess(span)
		}

		if metrics != nil {
			metrics.RecordToolInvocation(ctx, toolName, status, account, duration)
			if serviceName != "" {
				metrics.RecordGoogleAPIOperation(ctx, serviceName, operation, status, duration)
			}
		}
		if auditLogger != nil {
			auditLogger.LogToolInvocation(ctx, invocation)
		}

		return result, err
	}
}
