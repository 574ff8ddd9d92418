// Package server provides the MCP server context, session management,
// health probes, and the metrics endpoint for the jarvis application.
//
// # Key Components
//
// ServerContext manages the shared services (task store, roster, intercom,
// OpenAI client) and the per-account Google API clients with lazy
// initialization and caching. The secretary for each account is built on
// first use and keeps the multi-turn meeting and email flow state.
//
// SessionTracker derives per-client session IDs from bearer tokens on
// the HTTP transport, so concurrent clients show up as distinct sessions
// in logs and idle sessions age out.
//
// BearerAuthMiddleware protects the HTTP transport with a static bearer
// token; health endpoints stay open for Kubernetes probes.
//
// MetricsServer serves Prometheus metrics on a dedicated port, isolated
// from the MCP traffic.
package server
