package google

// DefaultOAuthScopes are the Google OAuth scopes the assistant needs.
//
// The scopes provide access to:
//   - Gmail: read, modify, send, settings (for summaries, search and sending)
//   - Google Calendar: full access (scheduling, rescheduling, cancellation)
//   - Google Docs: write access (project plan export)
//   - Google Drive: file metadata for exported documents
//   - Contacts: read-only (attendee email resolution)
var DefaultOAuthScopes = []string{
	// OpenID Connect scopes (required for user info)
	"openid",
	"https://www.googleapis.com/auth/userinfo.email",

	// Gmail scopes
	"https://mail.google.com/", // Full Gmail access (includes send)
	"https://www.googleapis.com/auth/gmail.readonly",
	"https://www.googleapis.com/auth/gmail.modify",
	"https://www.googleapis.com/auth/gmail.send",
	"https://www.googleapis.com/auth/gmail.settings.basic",

	// Google Calendar scope
	"https://www.googleapis.com/auth/calendar",

	// Google Docs scope (plan export creates documents)
	"https://www.googleapis.com/auth/documents",

	// Google Drive scope (metadata for exported plans)
	"https://www.googleapis.com/auth/drive.file",

	// Contacts scopes
	"https://www.googleapis.com/auth/contacts.readonly",
	"https://www.googleapis.com/auth/contacts.other.readonly",
	"https://www.googleapis.com/auth/directory.readonly",
}
