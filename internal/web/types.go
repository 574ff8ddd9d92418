package web

// CommandRequest is the body of POST /v1/command. Node is optional and
// must name the operator node when set; older dashboard clients send it
// with every message.
type CommandRequest struct {
	Node string `json:"node"`
	Text string `json:"text" validate:"required"`
}

// CommandResponse carries the secretary's reply.
type CommandResponse struct {
	Reply string `json:"reply"`
}

// TranscribeRequest is the body of POST /v1/transcribe. AudioData is
// base64-encoded audio, with or without a browser data-URL prefix.
type TranscribeRequest struct {
	Node      string `json:"node"`
	AudioData string `json:"audio_data" validate:"required"`
}

// TranscribeResponse carries the transcript, the secretary's reply and,
// when the reply reads naturally aloud, the synthesized mp3 as base64.
type TranscribeResponse struct {
	Transcript string `json:"transcript"`
	Reply      string `json:"reply"`
	Audio      string `json:"audio,omitempty"`
}

// SpeakRequest is the body of POST /v1/speak.
type SpeakRequest struct {
	Text string `json:"text" validate:"required"`
}

// SpeakResponse carries the synthesized mp3 as base64.
type SpeakResponse struct {
	Audio string `json:"audio"`
}

// ErrorResponse is the JSON shape of every error reply.
type ErrorResponse struct {
	Error string `json:"error"`
}
