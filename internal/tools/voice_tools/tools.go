package voice_tools

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/vikas-kashyap97/Jarvis-AI/internal/server"
	"github.com/vikas-kashyap97/Jarvis-AI/internal/tools/common"
)

// RegisterVoiceTools registers speech tools with the MCP server
func RegisterVoiceTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	transcribeTool := mcp.NewTool("voice_transcribe_audio",
		mcp.WithDescription("Transcribe spoken audio to text using the speech-to-text model"),
		mcp.WithString("audioData",
			mcp.Required(),
			mcp.Description("Base64-encoded audio bytes (mp3, wav, webm, m4a or ogg)"),
		),
		mcp.WithString("filename",
			mcp.Description("Original filename, used for format detection (default: 'audio.mp3')"),
		),
	)

	s.AddTool(transcribeTool, common.InstrumentedToolHandler(
		"voice_transcribe_audio", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleTranscribeAudio(ctx, request, sc)
		}))

	synthesizeTool := mcp.NewTool("voice_synthesize_speech",
		mcp.WithDescription("Synthesize text to speech. Returns base64-encoded mp3 audio."),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("The text to speak"),
		),
	)

	s.AddTool(synthesizeTool, common.InstrumentedToolHandler(
		"voice_synthesize_speech", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleSynthesizeSpeech(ctx, request, sc)
		}))

	return nil
}

func handleTranscribeAudio(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	audioData, ok := args["audioData"].(string)
	if !ok || audioData == "" {
		return mcp.NewToolResultError("audioData is required"), nil
	}

	data, err := base64.StdEncoding.DecodeString(audioData)
	if err != nil {
		return mcp.NewToolResultError("Invalid audioData: must be base64-encoded audio"), nil
	}

	filename, _ := args["filename"].(string)

	if err := sc.Config().ValidateLLM(); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("LLM not configured: %v", err)), nil
	}

	text, err := sc.Voice().TranscribeBytes(ctx, filename, data)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to transcribe audio: %v", err)), nil
	}

	return mcp.NewToolResultText(text), nil
}

func handleSynthesizeSpeech(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	text, ok := args["text"].(string)
	if !ok || strings.TrimSpace(text) == "" {
		return mcp.NewToolResultError("text is required"), nil
	}

	if err := sc.Config().ValidateLLM(); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("LLM not configured: %v", err)), nil
	}

	audio, err := sc.Voice().SpeakBytes(ctx, text)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to synthesize speech: %v", err)), nil
	}

	return mcp.NewToolResultText(base64.StdEncoding.EncodeToString(audio)), nil
}
