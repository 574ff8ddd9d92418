// Package openai provides a minimal client for the OpenAI API.
//
// It covers the three endpoints the assistant depends on:
//
//   - chat completions, including JSON-object response formats and forced
//     function calling for structured extraction
//   - audio transcription (speech to text)
//   - speech synthesis (text to speech)
//
// Rate-limit and server errors are retried with exponential backoff; other
// API errors are returned to the caller immediately.
package openai
