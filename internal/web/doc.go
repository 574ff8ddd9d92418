// Package web serves the dashboard API: a small JSON surface over the
// secretary, the task store, the roster and the voice service.
//
// Routes:
//
//	GET  /health           liveness
//	GET  /v1/tasks         tasks, filterable by assignedTo, project, includeDone
//	GET  /v1/projects      saved project plans
//	GET  /v1/team          the roster
//	POST /v1/command       {node?, text} -> {reply}
//	POST /v1/transcribe    {node?, audio_data} -> {transcript, reply, audio?}
//	POST /v1/speak         {text} -> {audio}
//
// Audio crosses the API base64-encoded; /v1/transcribe also accepts
// browser data URLs. Request bodies are validated with
// go-playground/validator through echo's Validator hook.
package web
