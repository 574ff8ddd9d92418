package gmail

import (
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"strings"

	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
	"google.golang.org/api/people/v1"

	"github.com/vikas-kashyap97/Jarvis-AI/internal/google"
)

// Client wraps the Gmail Users service and People service
type Client struct {
	svc       *gmail.UsersService
	peopleSvc *people.Service
	account   string // The account this client is associated with
	signature string // Cached signature for this account
}

// Account returns the account name this client is associated with
func (c *Client) Account() string {
	return c.account
}

// HasTokenForAccount checks if a valid OAuth token exists for the specified account
func HasTokenForAccount(account string) bool {
	return google.HasTokenForAccount(account)
}

// HasToken checks if a valid OAuth token exists for the default account
func HasToken() bool {
	return google.HasToken()
}

// NewClientForAccount creates a new Gmail client with OAuth2 authentication for a specific account
func NewClientForAccount(ctx context.Context, account string) (*Client, error) {
	client, err := google.GetHTTPClientForAccount(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("no valid Google OAuth token found for account %s: %w. Please authenticate with Google first", account, err)
	}

	svc, err := gmail.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, err
	}

	peopleSvc, err := people.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create People service: %w", err)
	}

	return &Client{
		svc:       svc.Users,
		peopleSvc: peopleSvc,
		account:   account,
	}, nil
}

// NewClient creates a new Gmail client with OAuth2 authentication for the default account
func NewClient(ctx context.Context) (*Client, error) {
	return NewClientForAccount(ctx, "default")
}

// GetProfile retrieves the authenticated user's mailbox profile
func (c *Client) GetProfile() (*Profile, error) {
	p, err := c.svc.GetProfile("me").Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return &Profile{
		EmailAddress:  p.EmailAddress,
		MessagesTotal: p.MessagesTotal,
		ThreadsTotal:  p.ThreadsTotal,
	}, nil
}

// Contact represents a simplified contact entry
type Contact struct {
	ResourceName string
	DisplayName  string
	EmailAddress string
	PhoneNumber  string
}

// SearchContacts searches for contacts across all sources (personal, directory, and other contacts)
// using the query string to filter results
func (c *Client) SearchContacts(query string, pageSize int) ([]*Contact, error) {
	if pageSize <= 0 {
		pageSize = 10
	}

	var allContacts []*Contact
	seenEmails := make(map[string]bool) // Track seen emails to avoid duplicates
	queryLower := strings.ToLower(query)

	// We want to collect enough candidates from all sources before limiting
	targetResults := pageSize * 10

	// 1. Search personal contacts using SearchContacts
	req := c.peopleSvc.People.SearchContacts().
		Query(query).
		ReadMask("names,emailAddresses,phoneNumbers").
		PageSize(int64(pageSize * 2))

	resp, err := req.Do()
	if err == nil { // Don't fail if one source fails
		for _, result := range resp.Results {
			if contact := extractContact(result.Person); contact != nil {
				if contact.EmailAddress != "" && !seenEmails[contact.EmailAddress] {
					seenEmails[contact.EmailAddress] = true
					allContacts = append(allContacts, contact)
				}
			}
		}
	}

	// 2. Search other contacts (people the user has interacted with).
	// The API doesn't support a search query here, so paginate and filter.
	pageToken := ""
	maxPagesToFetch := 10
	pagesSearched := 0

	for pagesSearched < maxPagesToFetch {
		otherReq := c.peopleSvc.OtherContacts.List().
			ReadMask("names,emailAddresses,phoneNumbers").
			PageSize(100)

		if pageToken != "" {
			otherReq = otherReq.PageToken(pageToken)
		}

		otherResp, err := otherReq.Do()
		if err != nil {
			break
		}

		for _, person := range otherResp.OtherContacts {
			if contact := extractContact(person); contact != nil {
				if matchesQuery(contact, queryLower) {
					if contact.EmailAddress != "" && !seenEmails[contact.EmailAddress] {
						seenEmails[contact.EmailAddress] = true
						allContacts = append(allContacts, contact)
					}
				}
			}
		}

		pageToken = otherResp.NextPageToken
		if pageToken == "" {
			break
		}

		if len(allContacts) >= targetResults {
			break
		}

		pagesSearched++
	}

	// 3. Try to search directory contacts (for Workspace accounts).
	// Fails gracefully for consumer accounts.
	dirReq := c.peopleSvc.People.SearchDirectoryPeople().
		Query(query).
		ReadMask("names,emailAddresses,phoneNumbers").
		PageSize(int64(pageSize * 2))

	dirResp, err := dirReq.Do()
	if err == nil {
		for _, person := range dirResp.People {
			if contact := extractContact(person); contact != nil {
				if contact.EmailAddress != "" && !seenEmails[contact.EmailAddress] {
					seenEmails[contact.EmailAddress] = true
					allContacts = append(allContacts, contact)
				}
			}
		}
	}

	// Limit results to requested page size
	if len(allContacts) > pageSize {
		allContacts = allContacts[:pageSize]
	}

	return allContacts, nil
}

// extractContact extracts contact information from a Person object
func extractContact(person *people.Person) *Contact {
	if person == nil {
		return nil
	}

	contact := &Contact{
		ResourceName: person.ResourceName,
	}

	if len(person.Names) > 0 {
		contact.DisplayName = person.Names[0].DisplayName
	}

	if len(person.EmailAddresses) > 0 {
		contact.EmailAddress = person.EmailAddresses[0].Value
	}

	if len(person.PhoneNumbers) > 0 {
		contact.PhoneNumber = person.PhoneNumbers[0].Value
	}

	// Skip contacts without any useful information
	if contact.DisplayName == "" && contact.EmailAddress == "" && contact.PhoneNumber == "" {
		return nil
	}

	return contact
}

// matchesQuery checks if a contact matches the search query
func matchesQuery(contact *Contact, queryLower string) bool {
	if queryLower == "" {
		return true
	}

	if strings.Contains(strings.ToLower(contact.DisplayName), queryLower) {
		return true
	}
	if strings.Contains(strings.ToLower(contact.EmailAddress), queryLower) {
		return true
	}
	if strings.Contains(contact.PhoneNumber, queryLower) {
		return true
	}

	return false
}

// EmailMessage represents an email to be sent
type EmailMessage struct {
	To      []string
	Cc      []string
	Bcc     []string
	Subject string
	Body    string
	IsHTML  bool
}

// encodeRFC2047 encodes a string for use in email headers according to RFC 2047
// This is necessary for non-ASCII characters (like German umlauts) in subjects
func encodeRFC2047(s string) string {
	needsEncoding := false
	for _, r := range s {
		if r > 127 {
			needsEncoding = true
			break
		}
	}

	if !needsEncoding {
		return s
	}

	return mime.BEncoding.Encode("UTF-8", s)
}

// GetSignature fetches the user's Gmail signature (primary send-as address)
// The signature is cached after the first fetch
func (c *Client) GetSignature() (string, error) {
	if c.signature != "" {
		return c.signature, nil
	}

	sendAs, err := c.svc.Settings.SendAs.Get("me", "me").Do()
	if err != nil {
		// If we can't fetch the signature, return empty string (not an error)
		// so emails can still be sent
		return "", nil
	}

	if sendAs.Signature != "" {
		c.signature = sendAs.Signature
	}

	return c.signature, nil
}

// appendSignature adds the user's signature to the email body
func (c *Client) appendSignature(body string, isHTML bool) string {
	signature, err := c.GetSignature()
	if err != nil || signature == "" {
		return body
	}

	if isHTML {
		return body + "<br><br>-- <br>" + signature
	}

	return body + "\n\n-- \n" + signature
}

// SendEmail sends an email through the Gmail API
func (c *Client) SendEmail(msg *EmailMessage) (string, error) {
	if len(msg.To) == 0 {
		return "", fmt.Errorf("at least one recipient is required")
	}
	if msg.Subject == "" {
		return "", fmt.Errorf("subject is required")
	}
	if msg.Body == "" {
		return "", fmt.Errorf("body is required")
	}

	// Build the email message in RFC 2822 format
	var emailBuilder strings.Builder

	emailBuilder.WriteString("To: ")
	emailBuilder.WriteString(strings.Join(msg.To, ", "))
	emailBuilder.WriteString("\r\n")

	if len(msg.Cc) > 0 {
		emailBuilder.WriteString("Cc: ")
		emailBuilder.WriteString(strings.Join(msg.Cc, ", "))
		emailBuilder.WriteString("\r\n")
	}

	if len(msg.Bcc) > 0 {
		emailBuilder.WriteString("Bcc: ")
		emailBuilder.WriteString(strings.Join(msg.Bcc, ", "))
		emailBuilder.WriteString("\r\n")
	}

	// Encode subject for non-ASCII characters like umlauts
	emailBuilder.WriteString("Subject: ")
	emailBuilder.WriteString(encodeRFC2047(msg.Subject))
	emailBuilder.WriteString("\r\n")

	if msg.IsHTML {
		emailBuilder.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	} else {
		emailBuilder.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	}
	emailBuilder.WriteString("MIME-Version: 1.0\r\n")
	emailBuilder.WriteString("\r\n")

	bodyWithSignature := c.appendSignature(msg.Body, msg.IsHTML)
	emailBuilder.WriteString(bodyWithSignature)

	// Encode the message in base64url format
	rawMessage := base64.URLEncoding.EncodeToString([]byte(emailBuilder.String()))

	gmailMsg := &gmail.Message{
		Raw: rawMessage,
	}

	sent, err := c.svc.Messages.Send("me", gmailMsg).Do()
	if err != nil {
		return "", fmt.Errorf("failed to send email: %w", err)
	}

	return sent.Id, nil
}

// ReplyToEmail sends a reply to an existing email message
func (c *Client) ReplyToEmail(messageID, threadID, body string, cc, bcc []string, isHTML bool) (string, error) {
	if messageID == "" {
		return "", fmt.Errorf("messageID is required")
	}
	if threadID == "" {
		return "", fmt.Errorf("threadID is required")
	}
	if body == "" {
		return "", fmt.Errorf("body is required")
	}

	// Get the original message to extract headers
	msg, err := c.GetMessage(messageID)
	if err != nil {
		return "", fmt.Errorf("failed to get original message: %w", err)
	}

	originalFrom := HeaderValue(msg, "From")
	originalSubject := HeaderValue(msg, "Subject")
	originalMessageID := HeaderValue(msg, "Message-ID")
	originalReferences := HeaderValue(msg, "References")

	if originalFrom == "" {
		return "", fmt.Errorf("original message has no From header")
	}

	// Build reply subject (add "Re: " if not already present)
	replySubject := originalSubject
	if !strings.HasPrefix(strings.ToLower(replySubject), "re:") {
		replySubject = "Re: " + replySubject
	}

	// Build References header for proper threading
	var references string
	if originalReferences != "" {
		references = originalReferences + " " + originalMessageID
	} else {
		references = originalMessageID
	}

	var emailBuilder strings.Builder

	emailBuilder.WriteString("To: ")
	emailBuilder.WriteString(originalFrom)
	emailBuilder.WriteString("\r\n")

	if len(cc) > 0 {
		emailBuilder.WriteString("Cc: ")
		emailBuilder.WriteString(strings.Join(cc, ", "))
		emailBuilder.WriteString("\r\n")
	}

	if len(bcc) > 0 {
		emailBuilder.WriteString("Bcc: ")
		emailBuilder.WriteString(strings.Join(bcc, ", "))
		emailBuilder.WriteString("\r\n")
	}

	emailBuilder.WriteString("Subject: ")
	emailBuilder.WriteString(encodeRFC2047(replySubject))
	emailBuilder.WriteString("\r\n")

	// Threading headers
	if originalMessageID != "" {
		emailBuilder.WriteString("In-Reply-To: ")
		emailBuilder.WriteString(originalMessageID)
		emailBuilder.WriteString("\r\n")
	}

	if references != "" {
		emailBuilder.WriteString("References: ")
		emailBuilder.WriteString(references)
		emailBuilder.WriteString("\r\n")
	}

	if isHTML {
		emailBuilder.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	} else {
		emailBuilder.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	}
	emailBuilder.WriteString("MIME-Version: 1.0\r\n")
	emailBuilder.WriteString("\r\n")

	bodyWithSignature := c.appendSignature(body, isHTML)
	emailBuilder.WriteString(bodyWithSignature)

	rawMessage := base64.URLEncoding.EncodeToString([]byte(emailBuilder.String()))

	// Send the reply with threadID to maintain threading
	gmailMsg := &gmail.Message{
		Raw:      rawMessage,
		ThreadId: threadID,
	}

	sent, err := c.svc.Messages.Send("me", gmailMsg).Do()
	if err != nil {
		return "", fmt.Errorf("failed to send reply: %w", err)
	}

	return sent.Id, nil
}
