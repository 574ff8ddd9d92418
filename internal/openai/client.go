package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/vikas-kashyap97/Jarvis-AI/internal/config"
)

// Defaults applied when a request leaves the corresponding field unset.
const (
	DefaultModel       = "gpt-4.1"
	DefaultTemperature = 0.1
	DefaultMaxTokens   = 1000
)

// MetricsRecorder receives timing for each API request.
// *instrumentation.Metrics satisfies it.
type MetricsRecorder interface {
	RecordOpenAIRequest(ctx context.Context, operation, model, status string, duration time.Duration)
}

// Client is a minimal client for the OpenAI API covering chat completions,
// transcription and speech synthesis.
type Client struct {
	apiKey   string
	baseURL  string
	model    string
	sttModel string
	ttsModel string
	ttsVoice string
	client   *http.Client
	metrics  MetricsRecorder
}

// NewClient creates an OpenAI client using values from the provided config.
// Pass a nil config to fall back to environment variables.
func NewClient(cfg *config.OpenAIConfig) *Client {
	var apiKey string
	if cfg != nil {
		apiKey = cfg.APIKey
	}
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}

	var base string
	if cfg != nil && cfg.BaseURL != "" {
		base = cfg.BaseURL
	} else {
		base = os.Getenv("OPENAI_BASE_URL")
		if base == "" {
			base = "https://api.openai.com"
		}
	}

	c := &Client{
		apiKey:   apiKey,
		baseURL:  strings.TrimRight(base, "/"),
		model:    DefaultModel,
		sttModel: "whisper-1",
		ttsModel: "tts-1",
		ttsVoice: "alloy",
		client:   &http.Client{Timeout: 30 * time.Second},
	}
	if cfg != nil {
		if cfg.Model != "" {
			c.model = cfg.Model
		}
		if cfg.STTModel != "" {
			c.sttModel = cfg.STTModel
		}
		if cfg.TTSModel != "" {
			c.ttsModel = cfg.TTSModel
		}
		if cfg.TTSVoice != "" {
			c.ttsVoice = cfg.TTSVoice
		}
	}
	return c
}

// Model returns the default chat model.
func (c *Client) Model() string {
	return c.model
}

// SetMetricsRecorder attaches an optional metrics recorder. Requests are
// not recorded until one is set.
func (c *Client) SetMetricsRecorder(r MetricsRecorder) {
	c.metrics = r
}

// record reports one API request to the metrics recorder, if any.
func (c *Client) record(ctx context.Context, operation, model string, start time.Time, err error) {
	if c.metrics == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	c.metrics.RecordOpenAIRequest(ctx, operation, model, status, time.Since(start))
}

// Chat sends a chat completion request and returns the parsed response.
// Rate-limit and server errors are retried with exponential backoff.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	if req.Model == "" {
		req.Model = c.model
	}

	b, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode chat request: %w", err)
	}

	start := time.Now()
	body, err := c.post(ctx, "/v1/chat/completions", "application/json", func() io.Reader {
		return bytes.NewReader(b)
	})
	c.record(ctx, "chat", req.Model, start, err)
	if err != nil {
		return nil, err
	}

	var cr ChatResponse
	if err := json.Unmarshal(body, &cr); err != nil {
		return nil, fmt.Errorf("failed to decode chat response: %w", err)
	}
	if len(cr.Choices) == 0 {
		return nil, fmt.Errorf("empty response from openai")
	}
	return &cr, nil
}

// Complete is a convenience wrapper for single-turn completions with the
// default temperature and token budget.
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	messages := []Message{}
	if system != "" {
		messages = append(messages, Message{Role: "system", Content: system})
	}
	messages = append(messages, Message{Role: "user", Content: user})

	resp, err := c.Chat(ctx, ChatRequest{
		Messages:    messages,
		Temperature: DefaultTemperature,
		MaxTokens:   DefaultMaxTokens,
	})
	if err != nil {
		return "", err
	}
	return resp.Content(), nil
}

// CompleteJSON is like Complete but asks the model for a JSON object.
func (c *Client) CompleteJSON(ctx context.Context, system, user string) (string, error) {
	messages := []Message{}
	if system != "" {
		messages = append(messages, Message{Role: "system", Content: system})
	}
	messages = append(messages, Message{Role: "user", Content: user})

	resp, err := c.Chat(ctx, ChatRequest{
		Messages:       messages,
		Temperature:    DefaultTemperature,
		MaxTokens:      DefaultMaxTokens,
		ResponseFormat: &ResponseFormat{Type: "json_object"},
	})
	if err != nil {
		return "", err
	}
	return resp.Content(), nil
}

// post issues an authenticated POST and returns the response body. The
// bodyFn is called once per attempt so retries send a fresh reader.
func (c *Client) post(ctx context.Context, path, contentType string, bodyFn func() io.Reader) ([]byte, error) {
	var out []byte

	op := func() error {
		req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+path, bodyFn())
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		req.Header.Set("Content-Type", contentType)

		resp, err := c.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}

		if resp.StatusCode >= 400 {
			apiErr := fmt.Errorf("openai returned status %d: %s", resp.StatusCode, truncate(string(body), 200))
			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
				return apiErr
			}
			return backoff.Permanent(apiErr)
		}

		out = body
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 2 * time.Second
	bo.MaxElapsedTime = 30 * time.Second
	bo.MaxInterval = 10 * time.Second

	if err := backoff.Retry(op, backoff.WithContext(bo, ctx)); err != nil {
		return nil, err
	}
	return out, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
