package gmail

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	gmail "google.golang.org/api/gmail/v1"
)

const (
	// MaxAttachmentSize defines the maximum attachment size in bytes (25MB)
	MaxAttachmentSize = 25 * 1024 * 1024
)

// AttachmentInfo represents an attachment's metadata
type AttachmentInfo struct {
	MessageID    string
	PartID       string
	AttachmentID string
	Filename     string
	MimeType     string
	Size         int64
}

// GetMessage retrieves a full Gmail message
func (c *Client) GetMessage(messageID string) (*gmail.Message, error) {
	msg, err := c.svc.Messages.Get("me", messageID).Format("full").Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get message %s: %w", messageID, err)
	}
	return msg, nil
}

// ListAttachments extracts all attachments from a message
func (c *Client) ListAttachments(messageID string) ([]*AttachmentInfo, error) {
	msg, err := c.GetMessage(messageID)
	if err != nil {
		return nil, err
	}

	var attachments []*AttachmentInfo
	walkParts(msg.Payload, messageID, func(part *gmail.MessagePart) {
		if part.Filename != "" && part.Body != nil && part.Body.AttachmentId != "" {
			attachments = append(attachments, &AttachmentInfo{
				MessageID:    messageID,
				PartID:       part.PartId,
				AttachmentID: part.Body.AttachmentId,
				Filename:     part.Filename,
				MimeType:     part.MimeType,
				Size:         part.Body.Size,
			})
		}
	})

	return attachments, nil
}

// GetAttachment retrieves the content of an attachment (returns []byte)
func (c *Client) GetAttachment(messageID, attachmentID string) ([]byte, error) {
	if messageID == "" {
		return nil, fmt.Errorf("messageID is required")
	}
	if attachmentID == "" {
		return nil, fmt.Errorf("attachmentID is required")
	}

	attachment, err := c.svc.Messages.Attachments.Get("me", messageID, attachmentID).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get attachment %s: %w", attachmentID, err)
	}

	if attachment.Size > MaxAttachmentSize {
		return nil, fmt.Errorf("attachment size %d exceeds maximum size %d", attachment.Size, MaxAttachmentSize)
	}

	// Decode base64url-encoded data (Gmail API uses RFC 4648 base64url encoding)
	data, err := base64.URLEncoding.DecodeString(attachment.Data)
	if err != nil {
		// Try with standard base64 if URLEncoding fails
		data, err = base64.StdEncoding.DecodeString(attachment.Data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode attachment data: %w", err)
		}
	}

	return data, nil
}

// SaveAttachment downloads an attachment and writes it under dir using a
// sanitized version of filename. It returns the path written to.
func (c *Client) SaveAttachment(messageID, attachmentID, dir, filename string) (string, error) {
	if filename == "" {
		return "", fmt.Errorf("filename is required")
	}

	data, err := c.GetAttachment(messageID, attachmentID)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, SanitizeFilename(filename))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write attachment: %w", err)
	}

	return path, nil
}

// walkParts recursively walks through message parts
func walkParts(part *gmail.MessagePart, messageID string, fn func(*gmail.MessagePart)) {
	if part == nil {
		return
	}

	fn(part)

	for _, subpart := range part.Parts {
		walkParts(subpart, messageID, fn)
	}
}

// SanitizeFilename sanitizes a filename to prevent path traversal attacks
func SanitizeFilename(filename string) string {
	filename = strings.ReplaceAll(filename, "/", "_")
	filename = strings.ReplaceAll(filename, "\\", "_")
	filename = strings.ReplaceAll(filename, "..", "_")
	return filename
}
