// Package voice provides speech-to-text and text-to-speech on top of the
// OpenAI audio endpoints, with file-based convenience wrappers for the CLI
// and the web server.
package voice

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/vikas-kashyap97/Jarvis-AI/internal/logging"
)

// DefaultOutputPath is where synthesized speech lands when no path is given
const DefaultOutputPath = "output_audio.mp3"

// SpeechClient is the subset of the OpenAI client the voice service needs
type SpeechClient interface {
	Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error)
	Speech(ctx context.Context, text string) ([]byte, error)
}

// Service wraps a speech client with file handling and logging
type Service struct {
	ai     SpeechClient
	logger *slog.Logger
}

// NewService creates a voice service. A nil logger falls back to slog.Default().
func NewService(ai SpeechClient, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{ai: ai, logger: logger}
}

// TranscribeFile transcribes the audio file at path and returns the text
func (s *Service) TranscribeFile(ctx context.Context, path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("audio file path is required")
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open audio file: %w", err)
	}
	defer f.Close()

	text, err := s.ai.Transcribe(ctx, filepath.Base(path), f)
	if err != nil {
		return "", fmt.Errorf("failed to transcribe audio: %w", err)
	}

	s.logger.Debug("audio transcribed",
		logging.Operation("transcribe"),
		slog.String("file", filepath.Base(path)),
		slog.Int("chars", len(text)))

	return text, nil
}

// TranscribeBytes transcribes in-memory audio data. The filename only
// informs format detection on the server side.
func (s *Service) TranscribeBytes(ctx context.Context, filename string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("audio data is required")
	}
	if filename == "" {
		filename = "audio.mp3"
	}

	text, err := s.ai.Transcribe(ctx, filename, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to transcribe audio: %w", err)
	}

	s.logger.Debug("audio transcribed",
		logging.Operation("transcribe"),
		slog.String("file", filename),
		slog.Int("chars", len(text)))

	return text, nil
}

// SpeakBytes synthesizes text and returns mp3 audio bytes
func (s *Service) SpeakBytes(ctx context.Context, text string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("text is required")
	}

	audio, err := s.ai.Speech(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to synthesize speech: %w", err)
	}

	s.logger.Debug("speech synthesized",
		logging.Operation("speak"),
		slog.Int("bytes", len(audio)))

	return audio, nil
}

// SpeakToFile synthesizes text and writes the mp3 to outPath,
// returning the path written. An empty outPath uses DefaultOutputPath.
func (s *Service) SpeakToFile(ctx context.Context, text, outPath string) (string, error) {
	if outPath == "" {
		outPath = DefaultOutputPath
	}

	audio, err := s.SpeakBytes(ctx, text)
	if err != nil {
		return "", err
	}

	if dir := filepath.Dir(outPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	if err := os.WriteFile(outPath, audio, 0o644); err != nil {
		return "", fmt.Errorf("failed to write audio file: %w", err)
	}

	return outPath, nil
}
