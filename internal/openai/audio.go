package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"strings"
	"time"
)

// Transcribe sends audio to the transcription endpoint and returns the
// recognized text. The filename only informs format detection on the
// server side.
func (c *Client) Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("failed to build transcription request: %w", err)
	}
	if _, err := io.Copy(part, audio); err != nil {
		return "", fmt.Errorf("failed to read audio: %w", err)
	}
	if err := w.WriteField("model", c.sttModel); err != nil {
		return "", fmt.Errorf("failed to build transcription request: %w", err)
	}
	if err := w.WriteField("language", "en"); err != nil {
		return "", fmt.Errorf("failed to build transcription request: %w", err)
	}
	if err := w.WriteField("response_format", "text"); err != nil {
		return "", fmt.Errorf("failed to build transcription request: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to build transcription request: %w", err)
	}

	start := time.Now()
	body, err := c.post(ctx, "/v1/audio/transcriptions", w.FormDataContentType(), func() io.Reader {
		return bytes.NewReader(buf.Bytes())
	})
	c.record(ctx, "transcribe", c.sttModel, start, err)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(body)), nil
}

// Speech synthesizes the given text and returns MP3 audio bytes.
func (c *Client) Speech(ctx context.Context, text string) ([]byte, error) {
	b, err := json.Marshal(speechRequest{
		Model:          c.ttsModel,
		Input:          text,
		Voice:          c.ttsVoice,
		ResponseFormat: "mp3",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode speech request: %w", err)
	}

	start := time.Now()
	audio, err := c.post(ctx, "/v1/audio/speech", "application/json", func() io.Reader {
		return bytes.NewReader(b)
	})
	c.record(ctx, "speech", c.ttsModel, start, err)
	return audio, err
}
