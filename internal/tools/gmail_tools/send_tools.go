package gmail_tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/vikas-kashyap97/Jarvis-AI/internal/gmail"
	"github.com/vikas-kashyap97/Jarvis-AI/internal/server"
	"github.com/vikas-kashyap97/Jarvis-AI/internal/tools/common"
)

// RegisterSendTools registers email sending tools with the MCP server.
// Sending is a write operation, so nothing is registered in read-only mode.
func RegisterSendTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	if readOnly {
		return nil
	}

	sendEmailTool := mcp.NewTool("gmail_send_email",
		mcp.WithDescription("Send an email. Team member names are resolved to addresses through the roster."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("to",
			mcp.Required(),
			mcp.Description("Comma-separated recipients: email addresses or team member names"),
		),
		mcp.WithString("cc",
			mcp.Description("Comma-separated CC recipients"),
		),
		mcp.WithString("bcc",
			mcp.Description("Comma-separated BCC recipients"),
		),
		mcp.WithString("subject",
			mcp.Required(),
			mcp.Description("Email subject"),
		),
		mcp.WithString("body",
			mcp.Required(),
			mcp.Description("Email body content"),
		),
		mcp.WithBoolean("isHTML",
			mcp.Description("Send the body as HTML instead of plain text"),
		),
	)

	s.AddTool(sendEmailTool, common.InstrumentedToolHandlerWithService(
		"gmail_send_email", "gmail", "send", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleSendEmail(ctx, request, sc)
		}))

	return nil
}

// resolveRecipients splits a comma-separated recipient list and resolves
// roster member names to their addresses. Unknown names are rejected
// rather than guessed at.
func resolveRecipients(sc *server.ServerContext, list string) ([]string, error) {
	var emails []string
	var unknown []string
	for _, entry := range strings.Split(list, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if strings.Contains(entry, "@") {
			emails = append(emails, entry)
			continue
		}
		member, ok := sc.Roster().Get(entry)
		if !ok {
			unknown = append(unknown, entry)
			continue
		}
		emails = append(emails, member.Email)
	}
	if len(unknown) > 0 {
		return nil, fmt.Errorf("Unknown recipients (not in the team roster): %s", strings.Join(unknown, ", "))
	}
	return emails, nil
}

func handleSendEmail(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	toStr, ok := args["to"].(string)
	if !ok || toStr == "" {
		return mcp.NewToolResultError("to is required"), nil
	}
	subject, ok := args["subject"].(string)
	if !ok || subject == "" {
		return mcp.NewToolResultError("subject is required"), nil
	}
	body, ok := args["body"].(string)
	if !ok || body == "" {
		return mcp.NewToolResultError("body is required"), nil
	}

	to, err := resolveRecipients(sc, toStr)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(to) == 0 {
		return mcp.NewToolResultError("No valid recipients given"), nil
	}

	msg := &gmail.EmailMessage{
		To:      to,
		Subject: subject,
		Body:    body,
	}
	if ccStr, ok := args["cc"].(string); ok && ccStr != "" {
		cc, err := resolveRecipients(sc, ccStr)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		msg.Cc = cc
	}
	if bccStr, ok := args["bcc"].(string); ok && bccStr != "" {
		bcc, err := resolveRecipients(sc, bccStr)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		msg.Bcc = bcc
	}
	if isHTML, ok := args["isHTML"].(bool); ok {
		msg.IsHTML = isHTML
	}

	client, err := getGmailClient(ctx, account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	id, err := client.SendEmail(msg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to send email: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Email sent successfully to %s!\nMessage ID: %s", strings.Join(to, ", "), id)), nil
}
