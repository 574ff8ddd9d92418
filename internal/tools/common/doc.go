// Package common holds the helpers shared by the MCP tool packages:
// account resolution for multi-account requests and the instrumented
// handler wrappers that add metrics and audit logging around every
// tool invocation.
package common
