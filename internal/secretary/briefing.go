package secretary

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/vikas-kashyap97/Jarvis-AI/internal/calendar"
	"github.com/vikas-kashyap97/Jarvis-AI/internal/logging"
)

// BriefingOptions control the briefing's calendar window and inbox
// sample size.
type BriefingOptions struct {
	// Hours is the calendar look-ahead window. Defaults to 24.
	Hours int
	// MaxEmails caps how many unread messages feed the inbox summary.
	// Defaults to 5.
	MaxEmails int
}

// Briefing composes a digest of upcoming meetings, unread mail and open
// tasks. Each section degrades independently when its service is
// unavailable, so a missing calendar never hides the inbox.
func (s *Secretary) Briefing(ctx context.Context, opts BriefingOptions) *Reply {
	if opts.Hours <= 0 {
		opts.Hours = 24
	}
	if opts.MaxEmails <= 0 {
		opts.MaxEmails = 5
	}

	sections := []string{
		s.briefingMeetings(opts.Hours),
		s.briefingInbox(ctx, opts.MaxEmails),
		s.briefingTasks(),
	}
	return &Reply{Text: strings.Join(sections, "\n\n")}
}

func (s *Secretary) briefingMeetings(hours int) string {
	header := fmt.Sprintf("Meetings (next %dh):", hours)
	if s.cal == nil {
		return header + "\nCalendar service not available."
	}

	now := s.now()
	events, err := s.cal.ListEvents(calendar.DefaultCalendarID, now, now.Add(time.Duration(hours)*time.Hour), "")
	if err != nil {
		s.logger.Warn("briefing meetings section skipped", logging.Err(err))
		return header + "\nCalendar service not available."
	}
	if len(events) == 0 {
		return header + "\nNo meetings scheduled."
	}

	var b strings.Builder
	b.WriteString(header)
	for _, ev := range events {
		fmt.Fprintf(&b, "\n  - %s on %s", ev.Summary, ev.Start.Format("2006-01-02 at 15:04"))
		if parts := displayLocalParts(ev); len(parts) > 0 {
			fmt.Fprintf(&b, " with %s", strings.Join(parts, ", "))
		}
	}
	return b.String()
}

func (s *Secretary) briefingInbox(ctx context.Context, maxEmails int) string {
	header := "Unread email:"
	if s.mail == nil {
		return header + "\nGmail service not available."
	}

	emails, err := s.mail.ListMessages("is:unread", int64(maxEmails))
	if err != nil {
		s.logger.Warn("briefing inbox section skipped", logging.Err(err))
		return header + "\nGmail service not available."
	}
	if len(emails) == 0 {
		return header + "\nNo unread emails."
	}
	return header + "\n" + s.summarizeEmails(ctx, emails, "concise").Text
}

func (s *Secretary) briefingTasks() string {
	header := "Open tasks:"
	if s.store == nil {
		return header + "\nTask store not available."
	}

	open := s.store.ListOpen()
	if len(open) == 0 {
		return header + "\nNo open tasks."
	}

	var b strings.Builder
	b.WriteString(header)
	for i, t := range open {
		due := "none"
		if !t.DueDate.IsZero() {
			due = t.DueDate.Format("2006-01-02")
		}
		fmt.Fprintf(&b, "\n%d. %s (Due: %s, Priority: %s", i+1, t.Title, due, t.Priority)
		if t.AssignedTo != "" {
			fmt.Fprintf(&b, ", Assigned: %s", t.AssignedTo)
		}
		b.WriteString(")")
	}
	return b.String()
}
