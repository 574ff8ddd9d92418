package gmail_tools

import (
	"context"
	"fmt"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/vikas-kashyap97/Jarvis-AI/internal/gmail"
	"github.com/vikas-kashyap97/Jarvis-AI/internal/google"
	"github.com/vikas-kashyap97/Jarvis-AI/internal/server"
)

// getGmailClient retrieves or creates a Gmail client for the specified account
func getGmailClient(ctx context.Context, account string, sc *server.ServerContext) (*gmail.Client, error) {
	client := sc.GmailClientForAccount(account)
	if client == nil {
		if !gmail.HasTokenForAccount(account) {
			authURL := google.GetAuthURLForAccount(account)
			return nil, fmt.Errorf(`Google OAuth token not found for account "%s". To authorize access:

1. Visit this URL in your browser:
   %s

2. Sign in with your Google account
3. Grant access to Google services (Calendar, Gmail, Contacts)
4. Copy the authorization code

5. Provide the authorization code to your AI agent
   The agent will use the google_save_auth_code tool with account="%s" to complete authentication.

Note: You only need to authorize once. The tokens will be automatically refreshed.`, account, authURL, account)
		}
		return nil, fmt.Errorf("failed to create Gmail client for account %s", account)
	}
	return client, nil
}

// RegisterGmailTools registers all Gmail-related tools with the MCP server
func RegisterGmailTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	// Register inbox tools (read-only, always available)
	if err := RegisterInboxTools(s, sc); err != nil {
		return fmt.Errorf("failed to register inbox tools: %w", err)
	}

	// Register send tools (write operations require !readOnly)
	if err := RegisterSendTools(s, sc, readOnly); err != nil {
		return fmt.Errorf("failed to register send tools: %w", err)
	}

	return nil
}
