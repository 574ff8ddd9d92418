package secretary

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/vikas-kashyap97/Jarvis-AI/internal/gmail"
	"github.com/vikas-kashyap97/Jarvis-AI/internal/intent"
	"github.com/vikas-kashyap97/Jarvis-AI/internal/logging"
	"github.com/vikas-kashyap97/Jarvis-AI/internal/openai"
)

// emailFlow tracks a multi-turn email composition: gathering the
// recipient, subject and body, then waiting for send confirmation.
type emailFlow struct {
	missing    []string
	recipient  string
	subject    string
	body       string
	confirming bool
}

// startEmailComposition opens a composition flow seeded with whatever
// the detector already extracted. Complete requests go straight to the
// preview; incomplete ones start the question round.
func (s *Secretary) startEmailComposition(se *intent.SendEmailIntent) *Reply {
	s.email = &emailFlow{
		missing:   append([]string(nil), se.MissingInfo...),
		recipient: strings.TrimSpace(se.Recipient),
		subject:   se.Subject,
		body:      se.Body,
	}
	if len(s.email.missing) > 0 {
		return s.askNextEmailInfo()
	}
	return s.showEmailPreview()
}

// askNextEmailInfo builds the question for the next missing email field.
// When both subject and body are outstanding they are asked together.
func (s *Secretary) askNextEmailInfo() *Reply {
	flow := s.email
	next := flow.missing[0]

	var question string
	switch next {
	case "recipient":
		question = "To whom would you like to send this email? (Please provide an email address or name)"
	case "subject":
		if containsString(flow.missing, "body") {
			question = "What should be the subject and body of your email? You can provide both by saying something like 'The subject is X, body is Y'."
		} else {
			question = "What should be the subject of your email?"
		}
	case "body":
		question = "Please write the content of your email. You can include multiple paragraphs."
	default:
		question = fmt.Sprintf("Please provide the %s for the email", next)
	}
	return &Reply{Text: question, Spoken: true}
}

// continueEmailComposition records the answer to the current question,
// asks the next one, previews, or sends after confirmation.
func (s *Secretary) continueEmailComposition(ctx context.Context, text string) (*Reply, error) {
	flow := s.email

	if flow.confirming {
		s.email = nil
		if intent.IsAffirmative(text) {
			return s.sendComposedEmail(flow), nil
		}
		return &Reply{Text: "Email sending cancelled. You can start over or modify your request.", Spoken: true}, nil
	}

	if len(flow.missing) == 0 {
		s.email = nil
		return s.chat(ctx, text)
	}

	current := flow.missing[0]
	flow.missing = flow.missing[1:]

	switch current {
	case "recipient":
		flow.recipient = strings.TrimSpace(text)
	case "subject":
		// A combined answer like "subject is X, body: Y" fills both
		// fields at once.
		lower := strings.ToLower(text)
		if strings.Contains(lower, "body:") || strings.Contains(lower, "message:") || strings.Contains(lower, "content:") {
			parsed, err := s.detector.ParseSubjectBody(ctx, text)
			if err != nil || parsed.Subject == "" {
				flow.subject = text
			} else {
				flow.subject = parsed.Subject
			}
			if err == nil && parsed.Body != "" && containsString(flow.missing, "body") {
				flow.body = parsed.Body
				flow.missing = removeString(flow.missing, "body")
			}
		} else {
			flow.subject = text
		}
	case "body":
		flow.body = text
	}

	if len(flow.missing) > 0 {
		return s.askNextEmailInfo(), nil
	}
	return s.showEmailPreview(), nil
}

// showEmailPreview renders the draft and asks for confirmation.
func (s *Secretary) showEmailPreview() *Reply {
	flow := s.email
	flow.confirming = true

	subject := flow.subject
	if subject == "" {
		subject = "(No subject)"
	}
	text := fmt.Sprintf(" Email Preview \n\nTo: %s\nSubject: %s\n---\n%s\n---\n\nWould you like me to send this email? (Yes/No)",
		flow.recipient, subject, flow.body)
	return &Reply{Text: text}
}

// sendComposedEmail sends a confirmed draft, defaulting the subject
// from the body when none was given.
func (s *Secretary) sendComposedEmail(flow *emailFlow) *Reply {
	if flow.recipient == "" || flow.body == "" {
		return &Reply{Text: "Cannot send email - missing recipient or body content.", Spoken: true}
	}

	subject := flow.subject
	if subject == "" {
		firstLine := strings.SplitN(flow.body, "\n", 2)[0]
		if len(firstLine) > 5 && len(firstLine) < 80 {
			subject = firstLine
		} else {
			subject = "Message from " + s.node
		}
	}

	if s.mail == nil {
		return &Reply{Text: "Gmail service not available, can't send email", Spoken: true}
	}

	to := s.resolveRecipient(flow.recipient)
	id, err := s.mail.SendEmail(&gmail.EmailMessage{To: []string{to}, Subject: subject, Body: flow.body})
	if err != nil {
		s.logger.Warn("failed to send email", slog.String("to", to), logging.Err(err))
		return &Reply{Text: "There was an error sending your email. Please try again later.", Spoken: true}
	}

	s.logger.Info("email sent",
		logging.Operation("send_email"),
		slog.String("message_id", id),
		slog.String("to", to))
	return &Reply{Text: fmt.Sprintf("Email sent successfully to %s!", to), Spoken: true}
}

// resolveRecipient turns a name into an address: roster members map to
// their roster email, then the contact directory is consulted, and
// anything else falls back to a guessed address.
func (s *Secretary) resolveRecipient(to string) string {
	if strings.Contains(to, "@") {
		return to
	}
	if m, ok := s.roster.Get(to); ok {
		return m.Email
	}
	if s.mail != nil {
		contacts, err := s.mail.SearchContacts(to, 5)
		if err != nil {
			s.logger.Warn("contact lookup failed", slog.String("query", to), logging.Err(err))
		} else {
			for _, c := range contacts {
				if c.EmailAddress != "" {
					return c.EmailAddress
				}
			}
		}
	}
	return strings.ToLower(strings.ReplaceAll(to, " ", "")) + "@example.com"
}

// handleEmailQuery answers a read-style email command: listing labels,
// fetching recent mail, or searching, each followed by a summary.
func (s *Secretary) handleEmailQuery(ctx context.Context, cmd *intent.EmailCommand) (*Reply, error) {
	if s.mail == nil {
		return &Reply{Text: "Gmail service not available", Spoken: true}, nil
	}

	switch cmd.Action {
	case intent.EmailActionListLabels:
		return s.handleListLabels(), nil

	case intent.EmailActionAdvancedSearch:
		criteria := toSearchCriteria(cmd.Criteria)
		if criteria.Empty() {
			return &Reply{Text: "I couldn't understand your search criteria. Please try again with more specific details.", Spoken: true}, nil
		}
		if criteria.MaxResults <= 0 {
			criteria.MaxResults = 10
		}
		emails, err := s.mail.Search(criteria)
		if err != nil {
			s.logger.Warn("email search failed", logging.Err(err))
		}
		if len(emails) == 0 {
			return &Reply{Text: "I couldn't find any emails matching your criteria.", Spoken: true}, nil
		}
		return s.summarizeEmails(ctx, emails, cmd.SummaryType), nil

	case intent.EmailActionFetchRecent:
		count := int64(cmd.Criteria.MaxResults)
		if count <= 0 {
			count = 5
		}
		emails, err := s.mail.ListMessages("", count)
		if err != nil {
			s.logger.Warn("email fetch failed", logging.Err(err))
		}
		if len(emails) == 0 {
			return &Reply{Text: "I couldn't find any recent emails.", Spoken: true}, nil
		}
		return s.summarizeEmails(ctx, emails, cmd.SummaryType), nil

	case intent.EmailActionSearch:
		query := toSearchCriteria(cmd.Criteria).BuildQuery()
		if query == "" {
			return &Reply{Text: "I need a search query to find emails. Please specify what you're looking for.", Spoken: true}, nil
		}
		count := int64(cmd.Criteria.MaxResults)
		if count <= 0 {
			count = 5
		}
		emails, err := s.mail.ListMessages(query, count)
		if err != nil {
			s.logger.Warn("email search failed", slog.String("query", query), logging.Err(err))
		}
		if len(emails) == 0 {
			return &Reply{Text: fmt.Sprintf("I couldn't find any emails matching '%s'.", query), Spoken: true}, nil
		}
		return s.summarizeEmails(ctx, emails, cmd.SummaryType), nil
	}

	return &Reply{Text: "I'm not sure what you want to do with your emails. Try asking for recent emails or searching for specific emails.", Spoken: true}, nil
}

// handleListLabels renders mailbox labels grouped into system and
// custom sections.
func (s *Secretary) handleListLabels() *Reply {
	labels, err := s.mail.ListLabels()
	if err != nil {
		s.logger.Warn("failed to list labels", logging.Err(err))
	}
	if len(labels) == 0 {
		return &Reply{Text: "I couldn't retrieve your email labels.", Spoken: true}
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
	b.WriteString("Here are your email labels:\n\n")
	if len(system) > 0 {
		b.WriteString("System Labels:\n")
		for _, l := range system {
			fmt.Fprintf(&b, "- %s\n", l.Name)
		}
	}
	if len(custom) > 0 {
		b.WriteString("\nCustom Labels:\n")
		for _, l := range custom {
			fmt.Fprintf(&b, "- %s\n", l.Name)
		}
	}
	return &Reply{Text: b.String()}
}

// summarizeEmails asks the model for a concise or detailed digest of
// the given messages. A failed model call degrades to a fixed reply.
func (s *Secretary) summarizeEmails(ctx context.Context, emails []gmail.EmailSummary, summaryType string) *Reply {
	if len(emails) == 0 {
		return &Reply{Text: "No emails to summarize.", Spoken: true}
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

	summary, err := s.queryLLM(ctx, []openai.Message{{Role: "user", Content: prompt}})
	if err != nil {
		s.logger.Warn("email summary failed", logging.Err(err))
		return &Reply{Text: "LLM query failed.", Spoken: true}
	}
	return &Reply{Text: summary, Spoken: true}
}

// toSearchCriteria maps detector criteria onto the Gmail search type.
func toSearchCriteria(c intent.EmailCriteria) gmail.SearchCriteria {
	return gmail.SearchCriteria{
		From:          c.From,
		To:            c.To,
		Subject:       c.Subject,
		Keywords:      append([]string(nil), c.Keywords...),
		HasAttachment: c.HasAttachment,
		IsUnread:      c.IsUnread,
		Label:         c.Label,
		After:         c.After,
		Before:        c.Before,
		MaxResults:    int64(c.MaxResults),
	}
}

func removeString(list []string, s string) []string {
	out := make([]string, 0, len(list))
	for _, item := range list {
		if item != s {
			out = append(out, item)
		}
	}
	return out
}
