// Package intent turns free-form user text into typed commands.
//
// Detection runs as a ladder: cheap textual checks first (the plan command
// syntax, the tasks keyword), then LLM-backed JSON classification for
// calendar commands, send-email requests and email queries, falling back to
// plain conversation. Model responses get a tolerant parse: markdown fences
// are stripped, a balanced-brace scan recovers embedded objects, and a single
// repair prompt is issued when the reply is not valid JSON.
package intent
