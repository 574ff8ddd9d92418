package gmail

import (
	"encoding/base64"
	"mime"
	"strings"
	"testing"
)

func TestReplyToEmail(t *testing.T) {
	tests := []struct {
		name        string
		messageID   string
		threadID    string
		body        string
		cc          []string
		bcc         []string
		isHTML      bool
		wantErr     bool
		errContains string
	}{
		{
			name:        "missing messageID",
			messageID:   "",
			threadID:    "thread123",
			body:        "Reply body",
			wantErr:     true,
			errContains: "messageID is required",
		},
		{
			name:        "missing threadID",
			messageID:   "msg123",
			threadID:    "",
			body:        "Reply body",
			wantErr:     true,
			errContains: "threadID is required",
		},
		{
			name:        "missing body",
			messageID:   "msg123",
			threadID:    "thread123",
			body:        "",
			wantErr:     true,
			errContains: "body is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Validation runs before any API call, so a bare client suffices
			c := &Client{}

			_, err := c.ReplyToEmail(tt.messageID, tt.threadID, tt.body, tt.cc, tt.bcc, tt.isHTML)

			if (err != nil) != tt.wantErr {
				t.Errorf("ReplyToEmail() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if err != nil && tt.errContains != "" {
				if !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("ReplyToEmail() error = %v, should contain %v", err, tt.errContains)
				}
			}
		})
	}
}

func TestSendEmailValidation(t *testing.T) {
	tests := []struct {
		name        string
		msg         *EmailMessage
		errContains string
	}{
		{
			name:        "missing recipients",
			msg:         &EmailMessage{Subject: "Hi", Body: "Body"},
			errContains: "at least one recipient is required",
		},
		{
			name:        "missing subject",
			msg:         &EmailMessage{To: []string{"a@example.com"}, Body: "Body"},
			errContains: "subject is required",
		},
		{
			name:        "missing body",
			msg:         &EmailMessage{To: []string{"a@example.com"}, Subject: "Hi"},
			errContains: "body is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Client{}

			_, err := c.SendEmail(tt.msg)
			if err == nil {
				t.Fatal("SendEmail() expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.errContains) {
				t.Errorf("SendEmail() error = %v, should contain %v", err, tt.errContains)
			}
		})
	}
}

func TestReplySubjectFormatting(t *testing.T) {
	tests := []struct {
		name            string
		originalSubject string
		wantPrefix      string
	}{
		{
			name:            "add Re: to subject without Re:",
			originalSubject: "Original Subject",
			wantPrefix:      "re:",
		},
		{
			name:            "don't duplicate Re: in subject",
			originalSubject: "Re: Original Subject",
			wantPrefix:      "re:",
		},
		{
			name:            "case insensitive Re: check",
			originalSubject: "RE: Original Subject",
			wantPrefix:      "re:",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			replySubject := tt.originalSubject
			if !strings.HasPrefix(strings.ToLower(replySubject), "re:") {
				replySubject = "Re: " + replySubject
			}

			if !strings.HasPrefix(strings.ToLower(replySubject), tt.wantPrefix) {
				t.Errorf("Reply subject = %v, want prefix %v", replySubject, tt.wantPrefix)
			}

			// Should not have double Re:
			lowerSubject := strings.ToLower(replySubject)
			reCount := strings.Count(lowerSubject, "re:")
			if reCount > 1 && tt.originalSubject != "Re: Re: Test" {
				t.Errorf("Reply subject has multiple Re: prefixes: %v", replySubject)
			}
		})
	}
}

func TestReplyThreadingHeaders(t *testing.T) {
	// Test that threading headers are properly constructed
	originalMessageID := "<abc123@example.com>"
	originalReferences := "<ref1@example.com> <ref2@example.com>"

	// Build References header for proper threading
	var references string
	if originalReferences != "" {
		references = originalReferences + " " + originalMessageID
	} else {
		references = originalMessageID
	}

	expectedReferences := "<ref1@example.com> <ref2@example.com> <abc123@example.com>"
	if references != expectedReferences {
		t.Errorf("References header = %v, want %v", references, expectedReferences)
	}

	// Without existing references the header is just the original message ID
	testOriginalReferences := ""
	if testOriginalReferences != "" {
		references = testOriginalReferences + " " + originalMessageID
	} else {
		references = originalMessageID
	}

	if references != originalMessageID {
		t.Errorf("References header without existing refs = %v, want %v", references, originalMessageID)
	}
}

func TestEmailEncoding(t *testing.T) {
	// Test that email content is properly base64url encoded
	testContent := "To: recipient@example.com\r\nSubject: Test\r\n\r\nBody content"
	encoded := base64.URLEncoding.EncodeToString([]byte(testContent))

	// Decode and verify
	decoded, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil {
		t.Fatalf("Failed to decode: %v", err)
	}

	if string(decoded) != testContent {
		t.Errorf("Decoded content = %v, want %v", string(decoded), testContent)
	}
}

func TestEncodeRFC2047(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantASCII bool // If true, should return as-is; if false, should be encoded
	}{
		{
			name:      "plain ASCII text",
			input:     "Simple Subject",
			wantASCII: true,
		},
		{
			name:      "German umlauts",
			input:     "Rückerstattung €115 - Überweisung",
			wantASCII: false,
		},
		{
			name:      "French accents",
			input:     "Réponse à votre demande",
			wantASCII: false,
		},
		{
			name:      "Japanese characters",
			input:     "こんにちは",
			wantASCII: false,
		},
		{
			name:      "Emoji",
			input:     "Subject with emoji 🎉",
			wantASCII: false,
		},
		{
			name:      "Mixed ASCII and umlauts",
			input:     "Re: Öffnungszeiten",
			wantASCII: false,
		},
		{
			name:      "Empty string",
			input:     "",
			wantASCII: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := encodeRFC2047(tt.input)

			// If ASCII, result should equal input
			if tt.wantASCII {
				if result != tt.input {
					t.Errorf("encodeRFC2047() = %v, want %v (should not encode ASCII)", result, tt.input)
				}
			} else {
				// Should be encoded (starts with =?UTF-8?)
				if !strings.HasPrefix(result, "=?UTF-8?") {
					t.Errorf("encodeRFC2047() = %v, should start with =?UTF-8? for non-ASCII input", result)
				}
				// Should end with ?=
				if !strings.HasSuffix(result, "?=") {
					t.Errorf("encodeRFC2047() = %v, should end with ?= for non-ASCII input", result)
				}
			}
		})
	}
}

func TestEncodeRFC2047Roundtrip(t *testing.T) {
	// Test that encoding and decoding works correctly
	originalSubjects := []string{
		"Rückerstattung €115",
		"Überweisung",
		"Äpfel und Öl",
		"Größe",
	}

	for _, original := range originalSubjects {
		t.Run(original, func(t *testing.T) {
			encoded := encodeRFC2047(original)

			// Use mime.WordDecoder to decode
			decoder := new(mime.WordDecoder)
			decoded, err := decoder.DecodeHeader(encoded)
			if err != nil {
				t.Fatalf("Failed to decode %v: %v", encoded, err)
			}

			if decoded != original {
				t.Errorf("Roundtrip failed: original=%v, encoded=%v, decoded=%v", original, encoded, decoded)
			}
		})
	}
}

func TestAppendSignature(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		signature    string
		isHTML       bool
		wantContains []string
	}{
		{
			name:      "plain text with signature",
			body:      "Hello,\n\nThis is my message.",
			signature: "Best regards,\nSender Name",
			isHTML:    false,
			wantContains: []string{
				"Hello,\n\nThis is my message.",
				"\n\n-- \n",
				"Best regards,\nSender Name",
			},
		},
		{
			name:      "HTML with signature",
			body:      "<p>Hello,</p><p>This is my message.</p>",
			signature: "<p>Best regards,<br>Sender Name</p>",
			isHTML:    true,
			wantContains: []string{
				"<p>Hello,</p><p>This is my message.</p>",
				"<br><br>-- <br>",
				"<p>Best regards,<br>Sender Name</p>",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Create a client with a signature
			c := &Client{
				signature: tt.signature,
			}

			result := c.appendSignature(tt.body, tt.isHTML)

			// Verify all expected parts are present
			for _, want := range tt.wantContains {
				if !strings.Contains(result, want) {
					t.Errorf("appendSignature() result missing expected content: %v\nGot: %v", want, result)
				}
			}
		})
	}
}

func TestSignatureFormatting(t *testing.T) {
	tests := []struct {
		name    string
		isHTML  bool
		wantSep string
	}{
		{
			name:    "plain text separator",
			isHTML:  false,
			wantSep: "\n\n-- \n",
		},
		{
			name:    "HTML separator",
			isHTML:  true,
			wantSep: "<br><br>-- <br>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Client{
				signature: "Test Signature",
			}

			result := c.appendSignature("Body", tt.isHTML)

			if !strings.Contains(result, tt.wantSep) {
				t.Errorf("appendSignature() missing separator %v in result: %v", tt.wantSep, result)
			}
		})
	}
}
