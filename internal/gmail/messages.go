package gmail

import (
	"encoding/base64"
	"fmt"
	"strings"

	gmail "google.golang.org/api/gmail/v1"
)

// NoContent is the body placeholder for messages without decodable text
const NoContent = "(No content)"

// ListMessages fetches messages matching a Gmail query and decodes each
// one into an EmailSummary. maxResults defaults to 10 when non-positive.
func (c *Client) ListMessages(query string, maxResults int64) ([]EmailSummary, error) {
	if maxResults <= 0 {
		maxResults = 10
	}

	res, err := c.svc.Messages.List("me").Q(query).MaxResults(maxResults).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	var emails []EmailSummary
	for _, m := range res.Messages {
		full, err := c.svc.Messages.Get("me", m.Id).Format("full").Do()
		if err != nil {
			return nil, fmt.Errorf("failed to get message %s: %w", m.Id, err)
		}
		emails = append(emails, toEmailSummary(full))
	}

	return emails, nil
}

// Search fetches messages matching structured criteria
func (c *Client) Search(criteria SearchCriteria) ([]EmailSummary, error) {
	return c.ListMessages(criteria.BuildQuery(), criteria.MaxResults)
}

// ListLabels retrieves all labels in the user's mailbox
func (c *Client) ListLabels() ([]LabelInfo, error) {
	res, err := c.svc.Labels.List("me").Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list labels: %w", err)
	}

	labels := make([]LabelInfo, 0, len(res.Labels))
	for _, l := range res.Labels {
		labels = append(labels, LabelInfo{
			ID:   l.Id,
			Name: l.Name,
			Type: l.Type,
		})
	}

	return labels, nil
}

// toEmailSummary converts an API message into an EmailSummary,
// decoding the body and collecting attachment filenames
func toEmailSummary(msg *gmail.Message) EmailSummary {
	if msg == nil {
		return EmailSummary{}
	}

	summary := EmailSummary{
		ID:       msg.Id,
		ThreadID: msg.ThreadId,
		Snippet:  msg.Snippet,
		LabelIDs: msg.LabelIds,
		Subject:  headerOrDefault(msg, "Subject", "(No subject)"),
		From:     headerOrDefault(msg, "From", "(Unknown sender)"),
		Date:     HeaderValue(msg, "Date"),
		Body:     ExtractBody(msg.Payload),
	}

	walkParts(msg.Payload, msg.Id, func(part *gmail.MessagePart) {
		if part.Filename != "" && part.Body != nil && part.Body.AttachmentId != "" {
			summary.Attachments = append(summary.Attachments, part.Filename)
		}
	})

	return summary
}

// ExtractBody decodes the text content of a message payload. Plain text
// parts are preferred; an HTML part is used only when no text part was
// found before it. Nested multipart containers are walked recursively.
func ExtractBody(payload *gmail.MessagePart) string {
	if payload == nil {
		return NoContent
	}

	if payload.Body != nil && payload.Body.Data != "" {
		text, err := decodeBase64URL(payload.Body.Data)
		if err != nil {
			return NoContent
		}
		return text
	}

	if len(payload.Parts) > 0 {
		var textParts []string
		for _, part := range payload.Parts {
			switch {
			case part.MimeType == "text/plain":
				textParts = append(textParts, ExtractBody(part))
			case part.MimeType == "text/html" && len(textParts) == 0:
				textParts = append(textParts, ExtractBody(part))
			case strings.HasPrefix(part.MimeType, "multipart/"):
				textParts = append(textParts, ExtractBody(part))
			}
		}
		return strings.Join(textParts, "\n")
	}

	return NoContent
}

// HeaderValue extracts the value of a named header from a message
func HeaderValue(msg *gmail.Message, name string) string {
	if msg == nil || msg.Payload == nil {
		return ""
	}
	for _, h := range msg.Payload.Headers {
		if h.Name == name {
			return h.Value
		}
	}
	return ""
}

// headerOrDefault returns the header value, or def when the header is absent
func headerOrDefault(msg *gmail.Message, name, def string) string {
	if v := HeaderValue(msg, name); v != "" {
		return v
	}
	return def
}

// decodeBase64URL decodes Gmail's base64url message data, falling back
// to standard base64 for non-conforming senders
func decodeBase64URL(data string) (string, error) {
	decoded, err := base64.URLEncoding.DecodeString(data)
	if err != nil {
		decoded, err = base64.StdEncoding.DecodeString(data)
		if err != nil {
			return "", fmt.Errorf("failed to decode message data: %w", err)
		}
	}
	return string(decoded), nil
}
