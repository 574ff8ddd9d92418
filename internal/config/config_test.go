package config

import (
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("OPENAI_BASE_URL", "")
	t.Setenv("OPENAI_MODEL", "")
	t.Setenv("JARVIS_ACCOUNT", "")
	t.Setenv("JARVIS_LOG_LEVEL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.OpenAI.BaseURL != "https://api.openai.com" {
		t.Errorf("expected default base URL, got %q", cfg.OpenAI.BaseURL)
	}
	if cfg.OpenAI.Model != "gpt-4.1" {
		t.Errorf("expected default model 'gpt-4.1', got %q", cfg.OpenAI.Model)
	}
	if cfg.OpenAI.STTModel != "whisper-1" {
		t.Errorf("expected STT model 'whisper-1', got %q", cfg.OpenAI.STTModel)
	}
	if cfg.OpenAI.TTSModel != "tts-1" {
		t.Errorf("expected TTS model 'tts-1', got %q", cfg.OpenAI.TTSModel)
	}
	if cfg.OpenAI.TTSVoice != "alloy" {
		t.Errorf("expected TTS voice 'alloy', got %q", cfg.OpenAI.TTSVoice)
	}
	if cfg.Google.Account != "default" {
		t.Errorf("expected account 'default', got %q", cfg.Google.Account)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("expected log level 'info', got %q", cfg.Log.Level)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("OPENAI_MODEL", "gpt-4o-mini")
	t.Setenv("GOOGLE_CLIENT_ID", "client-id")
	t.Setenv("GOOGLE_CLIENT_SECRET", "client-secret")
	t.Setenv("JARVIS_ACCOUNT", "work")
	t.Setenv("JARVIS_TASKS_FILE", "/tmp/tasks.json")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.OpenAI.APIKey != "sk-test" {
		t.Errorf("expected API key 'sk-test', got %q", cfg.OpenAI.APIKey)
	}
	if cfg.OpenAI.Model != "gpt-4o-mini" {
		t.Errorf("expected model 'gpt-4o-mini', got %q", cfg.OpenAI.Model)
	}
	if cfg.Google.ClientID != "client-id" {
		t.Errorf("expected client ID 'client-id', got %q", cfg.Google.ClientID)
	}
	if cfg.Google.Account != "work" {
		t.Errorf("expected account 'work', got %q", cfg.Google.Account)
	}

	path, err := cfg.TasksFile()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != "/tmp/tasks.json" {
		t.Errorf("expected configured tasks file, got %q", path)
	}
}

func TestValidateLLM(t *testing.T) {
	tests := []struct {
		name        string
		apiKey      string
		expectError bool
	}{
		{
			name:        "key present",
			apiKey:      "sk-test",
			expectError: false,
		},
		{
			name:        "key missing",
			apiKey:      "",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{OpenAI: OpenAIConfig{APIKey: tt.apiKey}}
			err := cfg.ValidateLLM()
			if tt.expectError {
				if err == nil {
					t.Error("expected error, got nil")
				} else if !strings.Contains(err.Error(), "OPENAI_API_KEY") {
					t.Errorf("expected error naming OPENAI_API_KEY, got %q", err.Error())
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestTasksFile_Fallback(t *testing.T) {
	t.Setenv("JARVIS_TASKS_FILE", "")

	cfg := &Config{}
	path, err := cfg.TasksFile()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filepath.Base(path) != "tasks.json" {
		t.Errorf("expected path ending in tasks.json, got %q", path)
	}
	if !strings.Contains(path, "jarvis") {
		t.Errorf("expected path under a jarvis directory, got %q", path)
	}
}

func TestLogLevel(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := &Config{Log: LogConfig{Level: tt.level}}
			if got := cfg.LogLevel(); got != tt.want {
				t.Errorf("LogLevel(%q) = %v, want %v", tt.level, got, tt.want)
			}
		})
	}
}
