package secretary_tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/vikas-kashyap97/Jarvis-AI/internal/server"
	"github.com/vikas-kashyap97/Jarvis-AI/internal/tools/common"
)

// RegisterSecretaryTools registers the secretary dispatch tool with the MCP server
func RegisterSecretaryTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	executeCommandTool := mcp.NewTool("secretary_execute_command",
		mcp.WithDescription("Execute a natural-language command through the AI secretary. Handles meeting scheduling, email search and sending, project planning ('plan <id> = <objective>'), task listing ('tasks') and general questions. Multi-turn flows keep their state between calls, so answers to the secretary's follow-up questions go through this tool as well."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("The command or message to process"),
		),
	)

	s.AddTool(executeCommandTool, common.InstrumentedToolHandler(
		"secretary_execute_command", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleExecuteCommand(ctx, request, sc)
		}))

	return nil
}

func handleExecuteCommand(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	text, ok := args["text"].(string)
	if !ok || strings.TrimSpace(text) == "" {
		return mcp.NewToolResultError("text is required"), nil
	}

	reply, err := sc.SecretaryForAccount(account).HandleCommand(ctx, text)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to execute command: %v", err)), nil
	}

	return mcp.NewToolResultText(reply.Text), nil
}
