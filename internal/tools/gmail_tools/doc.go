// Package gmail_tools provides MCP (Model Context Protocol) tools for email management.
//
// This package exposes Gmail functionality through a standardized MCP interface,
// allowing AI assistants to summarize the inbox, search messages with structured
// criteria, list labels and send email on behalf of users.
//
// Inbox summaries are generated with the configured LLM. Recipients of outgoing
// mail can be given as team roster names or as plain email addresses; names are
// resolved through the roster. The send tool is only registered when the server
// runs with --yolo.
package gmail_tools
