// Package cmd implements the command-line interface for jarvis.
//
// This package provides the following commands:
//   - chat: Interactive assistant session reading commands from stdin
//   - ask: Run a single natural-language command and print the reply
//   - briefing: Print a morning briefing (meetings, inbox, open tasks)
//   - tasks: List and manage tasks in the local store
//   - transcribe: Transcribe an audio file to text
//   - speak: Synthesize speech from text into an mp3 file
//   - serve: Start the MCP server to provide tools for AI assistants
//   - web: Start the local dashboard/API server
//   - generate-docs: Generate markdown documentation for all MCP tools
//   - version: Display version information
//
// The chat command is the default command when no subcommand is specified.
package cmd
