// Package resources provides MCP resources over the task store.
// Resources are read-only data sources that MCP clients can fetch
// directly: tasks://open serves the open task list and projects://plans
// serves the saved project plans, both as JSON.
package resources
