// Package voice_tools provides MCP tools for speech-to-text and
// text-to-speech.
//
// Audio crosses the MCP boundary base64-encoded: voice_transcribe_audio
// takes encoded audio bytes and returns the transcript, and
// voice_synthesize_speech takes text and returns encoded mp3. Both sides
// use the OpenAI audio endpoints through the voice service.
package voice_tools
