package intent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/vikas-kashyap97/Jarvis-AI/internal/logging"
)

// Chatter is the language-model surface the detector needs. The OpenAI
// client satisfies it; tests substitute a canned implementation.
type Chatter interface {
	// CompleteJSON sends a single-turn request constrained to a JSON object.
	CompleteJSON(ctx context.Context, system, user string) (string, error)
}

// planCommandRegex matches the textual plan convention, e.g.
// "plan website-redesign = Launch the new marketing site".
var planCommandRegex = regexp.MustCompile(`(?i)^\s*plan\s+([\w-]+)\s*=\s*(.+)$`)

// Detector classifies user text into typed commands.
type Detector struct {
	llm    Chatter
	logger *slog.Logger
}

// NewDetector creates a detector backed by the given model client.
func NewDetector(llm Chatter, logger *slog.Logger) *Detector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Detector{llm: llm, logger: logger}
}

// ParsePlanCommand applies the plan-command fast path without any model
// call. Returns nil when the text doesn't use the plan syntax.
func ParsePlanCommand(text string) *PlanCommand {
	m := planCommandRegex.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return nil
	}
	return &PlanCommand{
		ProjectID: strings.TrimSpace(m[1]),
		Objective: strings.TrimSpace(m[2]),
	}
}

// IsTasksCommand reports whether the text is the literal tasks keyword.
func IsTasksCommand(text string) bool {
	return strings.EqualFold(strings.TrimSpace(text), "tasks")
}

// Parse runs the detection ladder over one message. Classification errors
// from individual rungs are logged and treated as "not this intent" so a
// flaky model call degrades to conversation instead of failing the command.
func (d *Detector) Parse(ctx context.Context, text string) (*Result, error) {
	if plan := ParsePlanCommand(text); plan != nil {
		return &Result{Kind: KindPlanProject, Plan: plan}, nil
	}
	if IsTasksCommand(text) {
		return &Result{Kind: KindListTasks}, nil
	}

	if cal, err := d.DetectCalendar(ctx, text); err != nil {
		d.logger.Warn("calendar intent detection failed", logging.Err(err))
	} else if cal != nil {
		return &Result{Kind: KindCalendar, Calendar: cal}, nil
	}

	if send, err := d.DetectSendEmail(ctx, text); err != nil {
		d.logger.Warn("send-email intent detection failed", logging.Err(err))
	} else if send != nil {
		return &Result{Kind: KindSendEmail, SendEmail: send}, nil
	}

	if cmd, err := d.AnalyzeEmailCommand(ctx, text); err != nil {
		d.logger.Warn("email command analysis failed", logging.Err(err))
	} else if cmd != nil && cmd.Action != EmailActionNone {
		return &Result{Kind: KindEmailQuery, Email: cmd}, nil
	}

	return &Result{Kind: KindChat}, nil
}

// DetectCalendar asks the model whether the text is a calendar command.
// Returns nil when it is not.
func (d *Detector) DetectCalendar(ctx context.Context, text string) (*CalendarIntent, error) {
	prompt := fmt.Sprintf(`Analyze this message and determine if it's a calendar-related command: '%s'
Return JSON with:
- is_calendar_command: boolean
- action: string ("schedule_meeting", "cancel_meeting", "list_meetings", "reschedule_meeting", or null)
- missing_info: array of strings (what information is missing: "time", "participants", "date", "title")`, text)

	var out struct {
		IsCalendarCommand bool     `json:"is_calendar_command"`
		Action            string   `json:"action"`
		MissingInfo       []string `json:"missing_info"`
	}
	if err := d.completeInto(ctx, prompt, &out); err != nil {
		return nil, err
	}
	if !out.IsCalendarCommand {
		return nil, nil
	}
	switch out.Action {
	case ActionScheduleMeeting, ActionCancelMeeting, ActionListMeetings, ActionRescheduleMeeting:
	default:
		return nil, nil
	}
	return &CalendarIntent{Action: out.Action, MissingInfo: out.MissingInfo}, nil
}

// DetectSendEmail asks the model whether the text requests sending an email.
// Returns nil when it does not. MissingInfo is recomputed locally from the
// extracted fields rather than trusted from the model.
func (d *Detector) DetectSendEmail(ctx context.Context, text string) (*SendEmailIntent, error) {
	prompt := fmt.Sprintf(`Analyze this message and determine if it's requesting to send an email:
"%s"

A message is considered an email sending request if:
1. It contains phrases like "send email", "write email", "send mail", "compose email", "draft email", etc.
2. There's a clear intention to create and send an email to someone

Return JSON with:
- is_send_email: boolean (true if the message is about sending an email)
- recipient: string (email address or name of recipient if specified, empty string if not)
- subject: string (email subject line if specified, empty string if not)
- body: string (email content if specified, empty string if not)

Notes:
- If the message contains phrases like "subject:" or "title:" followed by text, extract that as the subject
- If the message has text after keywords like "body:", "content:", or "message:", extract that as the body
- If it says "the subject is" or "subject is" followed by text, extract that as the subject
- If it says "the body is" or "message is" followed by text, extract that as the body
- If no explicit markers are present but there's a clear distinction between subject and body, make your best guess
- Look for paragraph breaks or sentence structure to identify where subject ends and body begins
- For recipient, extract just the name or email (don't include words like "to" or "for")
- If the message itself appears to be the content of the email, set body to the entire message excluding obvious command parts`, text)

	var out struct {
		IsSendEmail bool   `json:"is_send_email"`
		Recipient   string `json:"recipient"`
		Subject     string `json:"subject"`
		Body        string `json:"body"`
	}
	if err := d.completeInto(ctx, prompt, &out); err != nil {
		return nil, err
	}
	if !out.IsSendEmail {
		return nil, nil
	}

	intent := &SendEmailIntent{
		Recipient: strings.TrimSpace(out.Recipient),
		Subject:   strings.TrimSpace(out.Subject),
		Body:      out.Body,
	}
	if intent.Recipient == "" {
		intent.MissingInfo = append(intent.MissingInfo, "recipient")
	}
	if intent.Subject == "" {
		intent.MissingInfo = append(intent.MissingInfo, "subject")
	}
	if strings.TrimSpace(intent.Body) == "" {
		intent.MissingInfo = append(intent.MissingInfo, "body")
	}
	return intent, nil
}

// AnalyzeEmailCommand extracts a structured email query from the text.
// Action "none" means the text is not an email command.
func (d *Detector) AnalyzeEmailCommand(ctx context.Context, text string) (*EmailCommand, error) {
	prompt := fmt.Sprintf(`Analyze this email-related command in detail:
'%s'

Return a JSON object with the following structure:
{
    "action": "list_labels" | "advanced_search" | "fetch_recent" | "search" | "none",
    "criteria": {
        "from": "sender email or name",
        "to": "recipient email",
        "subject": "subject text",
        "keywords": ["word1", "word2"],
        "has_attachment": true/false,
        "is_unread": true/false,
        "label": "label name",
        "after": "YYYY/MM/DD",
        "before": "YYYY/MM/DD",
        "max_results": 10
    },
    "summary_type": "concise" | "detailed"
}

Include only the fields that are explicitly mentioned or clearly implied in the command.
Convert date references like "yesterday", "last week", "2 days ago" to YYYY/MM/DD format.`, text)

	var out EmailCommand
	if err := d.completeInto(ctx, prompt, &out); err != nil {
		return nil, err
	}
	switch out.Action {
	case EmailActionListLabels, EmailActionAdvancedSearch, EmailActionFetchRecent, EmailActionSearch:
	default:
		out.Action = EmailActionNone
	}
	if out.SummaryType != "detailed" {
		out.SummaryType = "concise"
	}
	return &out, nil
}

// completeInto runs a JSON-mode completion and unmarshals the reply into
// target. On invalid JSON it issues one repair prompt before giving up.
func (d *Detector) completeInto(ctx context.Context, prompt string, target any) error {
	reply, err := d.llm.CompleteJSON(ctx, "", prompt)
	if err != nil {
		return err
	}

	raw := ExtractJSON(reply)
	if err := json.Unmarshal([]byte(raw), target); err == nil {
		return nil
	}

	repair := fmt.Sprintf(`You previously returned an invalid response for this task.
Return ONLY one JSON object with the required schema.

Task:
%s

Previous response:
%s`, prompt, strings.TrimSpace(reply))

	reply, err = d.llm.CompleteJSON(ctx, "", repair)
	if err != nil {
		return err
	}
	raw = ExtractJSON(reply)
	if err := json.Unmarshal([]byte(raw), target); err != nil {
		return fmt.Errorf("model reply is not valid JSON: %w", err)
	}
	return nil
}
