package voice

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vikas-kashyap97/Jarvis-AI/internal/logging"
)

type stubSpeechClient struct {
	transcript    string
	transcribeErr error
	audio         []byte
	speechErr     error

	gotFilename string
	gotAudio    []byte
	gotText     string
}

func (s *stubSpeechClient) Transcribe(_ context.Context, filename string, audio io.Reader) (string, error) {
	s.gotFilename = filename
	data, _ := io.ReadAll(audio)
	s.gotAudio = data
	return s.transcript, s.transcribeErr
}

func (s *stubSpeechClient) Speech(_ context.Context, text string) ([]byte, error) {
	s.gotText = text
	return s.audio, s.speechErr
}

func TestTranscribeFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "memo.wav")
	require.NoError(t, os.WriteFile(path, []byte("fake-audio"), 0o644))

	stub := &stubSpeechClient{transcript: "schedule a meeting tomorrow"}
	svc := NewService(stub, logging.NopLogger())

	text, err := svc.TranscribeFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "schedule a meeting tomorrow", text)
	assert.Equal(t, "memo.wav", stub.gotFilename, "only the base name should reach the API")
	assert.Equal(t, []byte("fake-audio"), stub.gotAudio)
}

func TestTranscribeFileErrors(t *testing.T) {
	svc := NewService(&stubSpeechClient{}, logging.NopLogger())

	_, err := svc.TranscribeFile(context.Background(), "")
	assert.ErrorContains(t, err, "audio file path is required")

	_, err = svc.TranscribeFile(context.Background(), filepath.Join(t.TempDir(), "missing.mp3"))
	assert.ErrorContains(t, err, "failed to open audio file")
}

func TestTranscribeFileWrapsAPIError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "memo.mp3")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	stub := &stubSpeechClient{transcribeErr: fmt.Errorf("boom")}
	svc := NewService(stub, logging.NopLogger())

	_, err := svc.TranscribeFile(context.Background(), path)
	assert.ErrorContains(t, err, "failed to transcribe audio")
}

func TestTranscribeBytes(t *testing.T) {
	stub := &stubSpeechClient{transcript: "hello"}
	svc := NewService(stub, logging.NopLogger())

	text, err := svc.TranscribeBytes(context.Background(), "", []byte("blob"))
	require.NoError(t, err)
	assert.Equal(t, "hello", text)
	assert.Equal(t, "audio.mp3", stub.gotFilename, "empty filename gets a default")

	_, err = svc.TranscribeBytes(context.Background(), "a.mp3", nil)
	assert.ErrorContains(t, err, "audio data is required")
}

func TestSpeakBytes(t *testing.T) {
	stub := &stubSpeechClient{audio: []byte("mp3-bytes")}
	svc := NewService(stub, logging.NopLogger())

	audio, err := svc.SpeakBytes(context.Background(), "Meeting scheduled.")
	require.NoError(t, err)
	assert.Equal(t, []byte("mp3-bytes"), audio)
	assert.Equal(t, "Meeting scheduled.", stub.gotText)

	_, err = svc.SpeakBytes(context.Background(), "   ")
	assert.ErrorContains(t, err, "text is required")
}

func TestSpeakToFile(t *testing.T) {
	stub := &stubSpeechClient{audio: []byte("mp3-bytes")}
	svc := NewService(stub, logging.NopLogger())

	dir := t.TempDir()
	out := filepath.Join(dir, "nested", "reply.mp3")

	path, err := svc.SpeakToFile(context.Background(), "Done.", out)
	require.NoError(t, err)
	assert.Equal(t, out, path)

	written, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, []byte("mp3-bytes"), written)
}

func TestSpeakToFileDefaultPath(t *testing.T) {
	assert.Equal(t, "output_audio.mp3", DefaultOutputPath)
}
