// Package gmail provides a client for interacting with the Gmail API.
//
// This package offers the mail operations the assistant needs:
//   - Fetching recent or searched messages with decoded bodies
//   - Structured search criteria rendered as Gmail query expressions
//   - Email operations (send, reply) with signature handling
//   - Attachment listing, download, and saving
//   - Label listing
//   - Contact search across personal, directory, and other contacts
//
// The client supports multi-account authentication using the Google OAuth2 flow
// and integrates with both the Gmail API (for email operations) and the
// People API (for contact management).
//
// Authentication:
// This package uses the unified Google OAuth token from the google package.
// For HTTP/SSE transports: tokens are resolved per request.
// For STDIO transport: tokens are loaded from the file system (~/.cache/jarvis/).
//
// Example usage:
//
//	ctx := context.Background()
//	client, err := gmail.NewClient(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Fetch the five most recent inbox messages
//	emails, err := client.ListMessages("in:inbox", 5)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Send an email
//	msg := &gmail.EmailMessage{
//	    To:      []string{"recipient@example.com"},
//	    Subject: "Hello",
//	    Body:    "This is a test email",
//	    IsHTML:  false,
//	}
//	msgID, err := client.SendEmail(msg)
//	if err != nil {
//	    log.Fatal(err)
//	}
package gmail
