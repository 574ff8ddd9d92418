package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration
type Config struct {
	OpenAI OpenAIConfig
	Google GoogleConfig
	Store  StoreConfig
	Team   TeamConfig
	Log    LogConfig
}

// OpenAIConfig holds settings for the OpenAI-compatible API
type OpenAIConfig struct {
	APIKey   string `envconfig:"OPENAI_API_KEY"`
	BaseURL  string `envconfig:"OPENAI_BASE_URL" default:"https://api.openai.com"`
	Model    string `envconfig:"OPENAI_MODEL" default:"gpt-4.1"`
	STTModel string `envconfig:"OPENAI_STT_MODEL" default:"whisper-1"`
	TTSModel string `envconfig:"OPENAI_TTS_MODEL" default:"tts-1"`
	TTSVoice string `envconfig:"OPENAI_TTS_VOICE" default:"alloy"`
}

// GoogleConfig holds Google Workspace OAuth settings
type GoogleConfig struct {
	ClientID     string `envconfig:"GOOGLE_CLIENT_ID"`
	ClientSecret string `envconfig:"GOOGLE_CLIENT_SECRET"`
	Account      string `envconfig:"JARVIS_ACCOUNT" default:"default"`
}

// StoreConfig holds the task store and plan export locations
type StoreConfig struct {
	TasksFile string `envconfig:"JARVIS_TASKS_FILE"`
	PlanDir   string `envconfig:"JARVIS_PLAN_DIR" default:"."`
}

// TeamConfig holds the team roster location and the operator identity
// used as the sender of notifications.
type TeamConfig struct {
	RosterFile string `envconfig:"JARVIS_TEAM_FILE"`
	Node       string `envconfig:"JARVIS_NODE" default:"user"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string `envconfig:"JARVIS_LOG_LEVEL" default:"info"`
}

// Load loads configuration from the environment, with an optional .env file.
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		slog.Debug(".env file not found, using environment variables or defaults")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}

	return &cfg, nil
}

// ValidateLLM checks that the settings required for LLM-backed features are present.
func (c *Config) ValidateLLM() error {
	if c.OpenAI.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}
	return nil
}

// TasksFile returns the configured task store path, falling back to the
// user cache directory.
func (c *Config) TasksFile() (string, error) {
	if c.Store.TasksFile != "" {
		return c.Store.TasksFile, nil
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine cache dir: %w", err)
	}
	return filepath.Join(dir, "jarvis", "tasks.json"), nil
}

// RosterFile returns the configured team roster path, or empty when unset.
func (c *Config) RosterFile() string {
	return c.Team.RosterFile
}

// LogLevel translates the configured level name to a slog.Level.
func (c *Config) LogLevel() slog.Level {
	switch c.Log.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
