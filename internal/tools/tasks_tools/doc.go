// Package tasks_tools provides MCP (Model Context Protocol) tools for task management.
//
// This package exposes the flat-file task store through a standardized MCP
// interface, allowing AI assistants to list, create, complete and assign tasks.
// Completing supports batches: taskIds accepts a single ID or an array.
// Assignments notify the team member through the intercom. Write tools are
// only registered when the server runs with --yolo.
package tasks_tools
