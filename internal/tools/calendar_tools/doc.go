// Package calendar_tools provides MCP (Model Context Protocol) tools for meeting management.
//
// This package exposes Google Calendar functionality through a standardized MCP interface,
// allowing AI assistants to list, schedule, cancel and reschedule meetings and to find
// free slots on behalf of users.
//
// Attendees can be given as team roster names or as plain email addresses; names are
// resolved through the roster. Write tools are only registered when the server runs
// with --yolo.
package calendar_tools
