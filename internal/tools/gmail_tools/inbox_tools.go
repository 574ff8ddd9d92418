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

// RegisterInboxTools registers inbox reading tools with the MCP server
func RegisterInboxTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	// Summarize inbox tool
	summarizeInboxTool := mcp.NewTool("gmail_summarize_inbox",
		mcp.WithDescription("Fetch emails matching a query and summarize them with the LLM"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("query",
			mcp.Description("Gmail search query (default: 'is:unread')"),
		),
		mcp.WithNumber("maxResults",
			mcp.Description("Maximum number of emails to summarize (default: 5)"),
		),
		mcp.WithString("summaryType",
			mcp.Description("Summary style: 'concise' (default) or 'detailed'"),
		),
	)

	s.AddTool(summarizeInboxTool, common.InstrumentedToolHandlerWithService(
		"gmail_summarize_inbox", "gmail", "list", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleSummarizeInbox(ctx, request, sc)
		}))

	// Search messages tool
	searchMessagesTool := mcp.NewTool("gmail_search_messages",
		mcp.WithDescription("Search emails with structured criteria (sender, subject, labels, dates, attachments)"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("from",
			mcp.Description("Match the sender address or name"),
		),
		mcp.WithString("to",
			mcp.Description("Match the recipient address or name"),
		),
		mcp.WithString("subject",
			mcp.Description("Match text in the subject line"),
		),
		mcp.WithString("keywords",
			mcp.Description("Comma-separated keywords to match in the message content"),
		),
		mcp.WithBoolean("hasAttachment",
			mcp.Description("Only match emails with attachments"),
		),
		mcp.WithBoolean("isUnread",
			mcp.Description("Only match unread emails"),
		),
		mcp.WithString("label",
			mcp.Description("Only match emails with this label"),
		),
		mcp.WithString("after",
			mcp.Description("Only match emails after this date (YYYY/MM/DD format)"),
		),
		mcp.WithString("before",
			mcp.Description("Only match emails before this date (YYYY/MM/DD format)"),
		),
		mcp.WithNumber("maxResults",
			mcp.Description("Maximum number of results to return (default: 10)"),
		),
	)

	s.AddTool(searchMessagesTool, common.InstrumentedToolHandlerWithService(
		"gmail_search_messages", "gmail", "search", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleSearchMessages(ctx, request, sc)
		}))

	// List labels tool
	listLabelsTool := mcp.NewTool("gmail_list_labels",
		mcp.WithDescription("List all labels in the mailbox, grouped into system and custom labels"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
	)

	s.AddTool(listLabelsTool, common.InstrumentedToolHandlerWithService(
		"gmail_list_labels", "gmail", "list", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListLabels(ctx, request, sc)
		}))

	return nil
}

func handleSummarizeInbox(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	query := "is:unread"
	if queryVal, ok := args["query"].(string); ok && queryVal != "" {
		query = queryVal
	}

	maxResults := int64(5)
	if maxResultsVal, ok := args["maxResults"].(float64); ok && maxResultsVal > 0 {
		maxResults = int64(maxResultsVal)
	}

	summaryType := "concise"
	if summaryTypeVal, ok := args["summaryType"].(string); ok && summaryTypeVal != "" {
		summaryType = summaryTypeVal
	}
	if summaryType != "concise" && summaryType != "detailed" {
		return mcp.NewToolResultError("summaryType must be 'concise' or 'detailed'"), nil
	}

	if err := sc.Config().ValidateLLM(); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("LLM not configured: %v", err)), nil
	}

	client, err := getGmailClient(ctx, account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	emails, err := client.ListMessages(query, maxResults)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to fetch emails: %v", err)), nil
	}
	if len(emails) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No emails found matching '%s'.", query)), nil
	}

	blocks := make([]string, 0, len(emails))
	for i, e := range emails {
		blocks = append(blocks, fmt.Sprintf("Email %d:\nFrom: %s\nSubject: %s\nDate: %s\nSnippet: %s\n",
			i+1, e.From, e.Subject, e.Date, e.Snippet))
	}
	content := strings.Join(blocks, "\n\n")

	var prompt string
	if summaryType == "detailed" {
		prompt = fmt.Sprintf("Please provide a detailed summary of the following emails:\n%s\n\nFor each email, include:\n1. The sender\n2. The subject\n3. Key points from the email\n4. Any action items or important deadlines", content)
	} else {
		prompt = fmt.Sprintf("Please provide a concise summary of the following emails:\n%s\n\nKeep your summary brief and focus on the most important information.", content)
	}

	summary, err := sc.OpenAIClient().Complete(ctx, "", prompt)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to summarize emails: %v", err)), nil
	}

	return mcp.NewToolResultText(summary), nil
}

func handleSearchMessages(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	criteria := gmail.SearchCriteria{}
	if from, ok := args["from"].(string); ok {
		criteria.From = from
	}
	if to, ok := args["to"].(string); ok {
		criteria.To = to
	}
	if subject, ok := args["subject"].(string); ok {
		criteria.Subject = subject
	}
	if keywordsStr, ok := args["keywords"].(string); ok && keywordsStr != "" {
		for _, kw := range strings.Split(keywordsStr, ",") {
			if kw = strings.TrimSpace(kw); kw != "" {
				criteria.Keywords = append(criteria.Keywords, kw)
			}
		}
	}
	if hasAttachment, ok := args["hasAttachment"].(bool); ok {
		criteria.HasAttachment = hasAttachment
	}
	if isUnread, ok := args["isUnread"].(bool); ok {
		criteria.IsUnread = isUnread
	}
	if label, ok := args["label"].(string); ok {
		criteria.Label = label
	}
	if after, ok := args["after"].(string); ok {
		criteria.After = after
	}
	if before, ok := args["before"].(string); ok {
		criteria.Before = before
	}
	if criteria.Empty() {
		return mcp.NewToolResultError("Provide at least one search criterion: from, to, subject, keywords, hasAttachment, isUnread, label, after, before"), nil
	}

	criteria.MaxResults = 10
	if maxResultsVal, ok := args["maxResults"].(float64); ok && maxResultsVal > 0 {
		criteria.MaxResults = int64(maxResultsVal)
	}

	client, err := getGmailClient(ctx, account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	emails, err := client.Search(criteria)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to search emails: %v", err)), nil
	}
	if len(emails) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No emails found matching '%s'.", criteria.BuildQuery())), nil
	}

	result := fmt.Sprintf("Found %d email(s) matching '%s':\n\n", len(emails), criteria.BuildQuery())
	for i, e := range emails {
		result += fmt.Sprintf("%d. %s\n", i+1, e.Subject)
		result += fmt.Sprintf("   ID: %s\n", e.ID)
		result += fmt.Sprintf("   From: %s\n", e.From)
		result += fmt.Sprintf("   Date: %s\n", e.Date)
		if len(e.Attachments) > 0 {
			result += fmt.Sprintf("   Attachments: %s\n", strings.Join(e.Attachments, ", "))
		}
		if e.Snippet != "" {
			result += fmt.Sprintf("   Snippet: %s\n", e.Snippet)
		}
		result += "\n"
	}

	return mcp.NewToolResultText(result), nil
}

func handleListLabels(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	client, err := getGmailClient(ctx, account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	labels, err := client.ListLabels()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list labels: %v", err)), nil
	}
	if len(labels) == 0 {
		return mcp.NewToolResultText("No labels found."), nil
	}

	var system, custom []gmail.LabelInfo
	for _, l := range labels {
		switch l.Type {
		case "system":
			system = append(system, l)
		case "user":
			custom = append(custom, l)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d label(s):\n", len(labels))
	if len(system) > 0 {
		b.WriteString("\nSystem Labels:\n")
		for _, l := range system {
			fmt.Fprintf(&b, "- %s\n", l.Name)
		}
	}
	if len(custom) > 0 {
		b.WriteString("\nCustom Labels:\n")
		for _, l := range custom {
			fmt.Fprintf(&b, "- %s (ID: %s)\n", l.Name, l.ID)
		}
	}

	return mcp.NewToolResultText(b.String()), nil
}
