package intent

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	// "the subject is X, body is Y" in a single answer
	subjectBodySentenceRegex = regexp.MustCompile(`(?i)the\s+subject\s+is\s+["']?(.*?)["']?,?\s+(?:the\s+)?body(?:\s+message)?\s+is\s+["']?(.*?)["']?$`)
	subjectLabelRegex        = regexp.MustCompile(`(?i)subject:(.*?)(?:$|,|\n)`)
	bodyLabelSplitRegex      = regexp.MustCompile(`(?i)body:`)
)

// ExtractMeetingDetails pulls structured meeting fields out of a scheduling
// message. Missing date and time fall back to today and one hour from now;
// missing duration falls back to 60 minutes.
func (d *Detector) ExtractMeetingDetails(ctx context.Context, text string) (*MeetingDetails, error) {
	prompt := fmt.Sprintf(`Extract complete meeting details from:'%s'

Return JSON with:
- title: meeting title
- participants: array of participants
- date: meeting date (YYYY-MM-DD format, leave empty to use current date)
- time: meeting time (HH:MM format, leave empty to use current time + 1 hour)
- duration: duration in minutes (default 60)

If any information is missing, leave the field empty (don't guess).`, text)

	var details MeetingDetails
	if err := d.completeInto(ctx, prompt, &details); err != nil {
		return nil, err
	}

	now := time.Now()
	if details.Date == "" {
		details.Date = now.Format("2006-01-02")
	}
	if details.Time == "" {
		details.Time = now.Add(time.Hour).Format("15:04")
	}
	if details.Duration <= 0 {
		details.Duration = 60
	}
	return &details, nil
}

// ExtractCancellation pulls cancellation criteria out of a cancel command.
// Unmentioned criteria stay empty and act as wildcards during matching.
func (d *Detector) ExtractCancellation(ctx context.Context, text string) (*Cancellation, error) {
	prompt := fmt.Sprintf(`Extract meeting cancellation details from this message: '%s'

Return a JSON object with these fields:
- title: The meeting title or topic to cancel (or null if not specified)
- with_participants: Array of participants in the meeting to cancel (or empty if not specified)
- date: Meeting date to cancel (YYYY-MM-DD format, or null if not specified)

Only include information that is explicitly mentioned.`, text)

	var c Cancellation
	if err := d.completeInto(ctx, prompt, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// ExtractReschedule pulls rescheduling details out of a reschedule command.
// NewTime defaults to 10:00 when the message names only a date.
func (d *Detector) ExtractReschedule(ctx context.Context, text string) (*Reschedule, error) {
	prompt := fmt.Sprintf(`Extract meeting rescheduling details from this message: '%s'

Identify EXACTLY which meeting needs rescheduling by looking for:
1. Meeting title or topic (as a simple text string)
2. Participants involved (as names only)
3. Original date/time

And what the new schedule should be:
1. New date (YYYY-MM-DD format)
2. New time (HH:MM format in 24-hour time)
3. New duration in minutes (as a number only)

Return a JSON object with these fields:
- meeting_identifier: A simple text string to identify which meeting to reschedule
- original_date: Original meeting date if mentioned (YYYY-MM-DD format or null)
- new_date: New meeting date (YYYY-MM-DD format)
- new_time: New meeting time (HH:MM format)
- new_duration: New duration in minutes (or null to keep the same)

IMPORTANT: ALL values must be simple strings or integers, not objects or arrays.
The meeting_identifier MUST be a simple string.`, text)

	var r Reschedule
	if err := d.completeInto(ctx, prompt, &r); err != nil {
		return nil, err
	}
	r.MeetingIdentifier = strings.ToLower(strings.TrimSpace(r.MeetingIdentifier))
	if r.NewTime == "" {
		r.NewTime = "10:00"
	}
	return &r, nil
}

// ParseSubjectBody splits an answer that may contain both a subject and a
// body. Textual patterns are tried first; the model is only consulted when
// no pattern matches.
func (d *Detector) ParseSubjectBody(ctx context.Context, text string) (*SubjectBody, error) {
	if sb := parseSubjectBodyPatterns(text); sb != nil {
		return sb, nil
	}

	prompt := fmt.Sprintf(`Parse this message to extract the email subject and body:
"%s"

Look for patterns like:
- "Subject:" or "The subject is" followed by text (for subject)
- "Body:" or "Message:" or "Content:" followed by text (for body)
- Clear paragraph breaks or keywords indicating separate sections

Return a JSON object with:
- subject: the extracted subject line
- body: the extracted email body

If either cannot be clearly identified, return an empty string for that field.`, text)

	var sb SubjectBody
	if err := d.completeInto(ctx, prompt, &sb); err != nil {
		// Degrade to treating the whole answer as the subject
		return &SubjectBody{Subject: text}, nil
	}
	return &sb, nil
}

// parseSubjectBodyPatterns applies the textual fast paths. Returns nil when
// neither pattern matches.
func parseSubjectBodyPatterns(text string) *SubjectBody {
	if m := subjectBodySentenceRegex.FindStringSubmatch(text); m != nil {
		return &SubjectBody{
			Subject: strings.TrimSpace(m[1]),
			Body:    strings.TrimSpace(m[2]),
		}
	}

	if subjectLabelRegex.MatchString(text) && bodyLabelSplitRegex.MatchString(text) {
		parts := bodyLabelSplitRegex.Split(text, 2)
		if len(parts) == 2 {
			if sm := subjectLabelRegex.FindStringSubmatch(parts[0]); sm != nil {
				return &SubjectBody{
					Subject: strings.TrimSpace(sm[1]),
					Body:    strings.TrimSpace(parts[1]),
				}
			}
		}
	}
	return nil
}
