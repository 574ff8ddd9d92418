package secretary

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/vikas-kashyap97/Jarvis-AI/internal/calendar"
	"github.com/vikas-kashyap97/Jarvis-AI/internal/logging"
)

// meetingDateTimeLayout matches the formats the flow questions ask for.
const meetingDateTimeLayout = "2006-01-02 15:04"

// meetingFlow tracks a multi-turn meeting conversation: either gathering
// the details of a new meeting or the new date and time of a reschedule.
type meetingFlow struct {
	initialMessage string
	missing        []string
	collected      map[string]string

	rescheduling  bool
	targetEventID string
}

// combinedMessage folds the collected answers back into one scheduling
// instruction for detail extraction.
func (f *meetingFlow) combinedMessage() string {
	msg := f.initialMessage + " "
	if v, ok := f.collected["title"]; ok {
		msg += fmt.Sprintf("Title: %s. ", v)
	}
	if v, ok := f.collected["date"]; ok {
		msg += fmt.Sprintf("Date: %s. ", v)
	}
	if v, ok := f.collected["time"]; ok {
		msg += fmt.Sprintf("Time: %s. ", v)
	}
	if v, ok := f.collected["participants"]; ok {
		msg += fmt.Sprintf("Participants: %s.", v)
	}
	return msg
}

// startMeetingCreation opens a meeting flow and asks the first question.
func (s *Secretary) startMeetingCreation(text string, missing []string) *Reply {
	s.meeting = &meetingFlow{
		initialMessage: text,
		missing:        append([]string(nil), missing...),
		collected:      make(map[string]string),
	}
	return s.askNextMeetingInfo()
}

// askNextMeetingInfo builds the question for the next missing detail.
func (s *Secretary) askNextMeetingInfo() *Reply {
	flow := s.meeting
	next := flow.missing[0]

	questions := map[string]string{
		"time":         "What time should the meeting be scheduled? (Please use HH:MM format in 24-hour time, e.g., 14:30)",
		"date":         "On what date should the meeting be scheduled? (Please use YYYY-MM-DD format, e.g., 2023-12-31)",
		"participants": "Who should attend the meeting? Please list all participants.",
		"title":        "What is the title or topic of the meeting?",
	}

	question, ok := questions[next]
	if !ok {
		question = fmt.Sprintf("Please provide the %s for the meeting", next)
	}

	context := ""
	if flow.rescheduling {
		context = " for rescheduling"
	} else if (next == "date" || next == "time") && containsString(flow.missing, "date") && containsString(flow.missing, "time") {
		context = " (please ensure it's a future date and time)"
	}

	return &Reply{Text: question + context, Spoken: true}
}

// continueMeetingCreation records the answer to the current question and
// either asks the next one or completes the flow.
func (s *Secretary) continueMeetingCreation(ctx context.Context, text string) (*Reply, error) {
	flow := s.meeting
	if len(flow.missing) == 0 {
		s.meeting = nil
		return s.chat(ctx, text)
	}

	current := flow.missing[0]
	flow.missing = flow.missing[1:]
	flow.collected[current] = strings.TrimSpace(text)

	if len(flow.missing) > 0 {
		return s.askNextMeetingInfo(), nil
	}

	s.meeting = nil
	if flow.rescheduling && flow.targetEventID != "" {
		reply, ok := s.completeRescheduling(flow)
		if ok {
			reply.Text += "\nMeeting rescheduled successfully with all required information."
		}
		return reply, nil
	}

	reply, scheduled, err := s.scheduleFromMessage(ctx, flow.combinedMessage())
	if err != nil {
		return nil, err
	}
	if scheduled {
		reply.Text += "\nMeeting scheduled successfully with all required information."
	}
	return reply, nil
}

// scheduleFromMessage extracts meeting details from a complete scheduling
// instruction and books the event. The boolean reports whether an event
// was actually created; validation problems re-prompt instead.
func (s *Secretary) scheduleFromMessage(ctx context.Context, message string) (*Reply, bool, error) {
	if s.cal == nil {
		return &Reply{Text: "Calendar service not available, can't schedule meetings", Spoken: true}, false, nil
	}

	details, err := s.detector.ExtractMeetingDetails(ctx, message)
	if err != nil {
		return nil, false, fmt.Errorf("failed to extract meeting details: %w", err)
	}

	var missing []string
	if strings.TrimSpace(details.Title) == "" {
		missing = append(missing, "title")
	}
	if len(details.Participants) == 0 {
		missing = append(missing, "participants")
	}
	if len(missing) > 0 {
		return &Reply{
			Text:   fmt.Sprintf("Cannot schedule meeting: missing %s", strings.Join(missing, ", ")),
			Spoken: true,
		}, false, nil
	}

	var participants []string
	for _, p := range details.Participants {
		m, ok := s.roster.Resolve(p)
		if !ok {
			continue
		}
		if !containsString(participants, m.Name) {
			participants = append(participants, m.Name)
		}
	}
	if len(participants) == 0 {
		return &Reply{Text: "Cannot schedule meeting: no valid participants", Spoken: true}, false, nil
	}
	if !containsString(participants, s.node) {
		participants = append(participants, s.node)
	}

	start, err := time.ParseInLocation(meetingDateTimeLayout, details.Date+" "+details.Time, time.Local)
	if err != nil {
		return s.reaskDateTime(details.Title, strings.Join(details.Participants, ", "),
			"I couldn't understand the date/time format. Please provide the date in YYYY-MM-DD format and time in HH:MM format."), false, nil
	}
	if start.Before(s.now()) {
		return s.reaskDateTime(details.Title, strings.Join(details.Participants, ", "),
			fmt.Sprintf("The meeting time %s at %s is in the past. Please provide a future date and time.", details.Date, details.Time)), false, nil
	}

	end := start.Add(time.Duration(details.Duration) * time.Minute)
	event, err := s.cal.CreateEvent(calendar.DefaultCalendarID, calendar.EventInput{
		Summary:   details.Title,
		Start:     start,
		End:       end,
		TimeZone:  "UTC",
		Attendees: s.roster.Emails(participants),
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to create calendar event: %w", err)
	}

	dateStr := start.Format("2006-01-02")
	timeStr := start.Format("15:04")
	notification := fmt.Sprintf("New meeting: '%s' scheduled by %s for %s at %s",
		details.Title, s.node, dateStr, timeStr)
	for _, p := range participants {
		if p == s.node {
			continue
		}
		if err := s.intercom.Send(s.node, p, notification); err != nil {
			s.logger.Warn("meeting notification skipped", slog.String("member", p), logging.Err(err))
		}
	}

	s.logger.Info("meeting scheduled",
		logging.Operation("schedule_meeting"),
		slog.String("event_id", event.ID))
	return &Reply{
		Text: fmt.Sprintf("Meeting '%s' scheduled for %s at %s with %s",
			details.Title, dateStr, timeStr, strings.Join(participants, ", ")),
		Spoken: true,
	}, true, nil
}

// reaskDateTime opens a follow-up flow that keeps the known title and
// participants and asks for a fresh date and time.
func (s *Secretary) reaskDateTime(title, participants, problem string) *Reply {
	s.meeting = &meetingFlow{
		initialMessage: "Schedule a meeting.",
		missing:        []string{"date", "time"},
		collected: map[string]string{
			"title":        title,
			"participants": participants,
		},
	}
	question := s.askNextMeetingInfo()
	return &Reply{Text: problem + "\n" + question.Text, Spoken: true}
}

// handleListMeetings renders the next upcoming meetings.
func (s *Secretary) handleListMeetings() (*Reply, error) {
	if s.cal == nil {
		return &Reply{Text: "Calendar service not available, can't list meetings", Spoken: true}, nil
	}

	events, err := s.cal.ListUpcoming(calendar.DefaultCalendarID, 10)
	if err != nil {
		return nil, fmt.Errorf("failed to list meetings: %w", err)
	}
	if len(events) == 0 {
		return &Reply{Text: "No upcoming meetings found.", Spoken: true}, nil
	}

	var b strings.Builder
	b.WriteString("Upcoming meetings:\n")
	for _, ev := range events {
		fmt.Fprintf(&b, "  - %s on %s with %s\n",
			ev.Summary, ev.Start.Format("2006-01-02 at 15:04"), strings.Join(displayLocalParts(ev), ", "))
	}
	return &Reply{Text: strings.TrimRight(b.String(), "\n")}, nil
}

// handleCancellation extracts cancellation criteria and deletes every
// upcoming meeting matching all of them.
func (s *Secretary) handleCancellation(ctx context.Context, text string) (*Reply, error) {
	if s.cal == nil {
		return &Reply{Text: "Calendar service not available, can't cancel meetings", Spoken: true}, nil
	}

	c, err := s.detector.ExtractCancellation(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to extract cancellation details: %w", err)
	}

	events, err := s.cal.ListUpcoming(calendar.DefaultCalendarID, 10)
	if err != nil {
		return nil, fmt.Errorf("failed to list meetings: %w", err)
	}
	if len(events) == 0 {
		return &Reply{Text: "No upcoming meetings found to cancel", Spoken: true}, nil
	}

	matches := calendar.FilterForCancellation(events, calendar.CancelCriteria{
		Title:        c.Title,
		Participants: c.WithParticipants,
		Date:         c.Date,
	})
	if len(matches) == 0 {
		return &Reply{Text: "No meetings found matching the cancellation criteria", Spoken: true}, nil
	}

	cancelled := 0
	var firstErr error
	for _, ev := range matches {
		if err := s.cal.DeleteEvent(calendar.DefaultCalendarID, ev.ID); err != nil {
			s.logger.Warn("failed to cancel meeting",
				slog.String("event_id", ev.ID), logging.Err(err))
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		cancelled++

		notification := fmt.Sprintf("Meeting '%s' has been cancelled by %s", ev.Summary, s.node)
		s.intercom.Notify(s.node, calendar.AttendeeLocalParts(ev), notification)
		s.logger.Info("meeting cancelled",
			logging.Operation("cancel_meeting"),
			slog.String("event_id", ev.ID))
	}

	if cancelled == 0 {
		return nil, fmt.Errorf("failed to cancel meetings: %w", firstErr)
	}
	return &Reply{Text: fmt.Sprintf("Cancelled %d meeting(s)", cancelled), Spoken: true}, nil
}

// handleRescheduling moves an existing meeting to a new date and time.
func (s *Secretary) handleRescheduling(ctx context.Context, text string) (*Reply, error) {
	if s.cal == nil {
		return &Reply{Text: "Calendar service not available, can't reschedule meetings", Spoken: true}, nil
	}

	r, err := s.detector.ExtractReschedule(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to extract rescheduling details: %w", err)
	}
	if r.MeetingIdentifier == "" {
		return &Reply{Text: "Could not determine which meeting to reschedule", Spoken: true}, nil
	}
	if r.NewDate == "" {
		return &Reply{Text: "No new date specified for rescheduling", Spoken: true}, nil
	}

	events, err := s.cal.ListUpcoming(calendar.DefaultCalendarID, 20)
	if err != nil {
		return nil, fmt.Errorf("failed to list meetings: %w", err)
	}
	if len(events) == 0 {
		return &Reply{Text: "No upcoming meetings found to reschedule", Spoken: true}, nil
	}

	target := calendar.FindMatchingEvent(events, r.MeetingIdentifier, r.OriginalDate)
	if target == nil {
		return &Reply{
			Text:   fmt.Sprintf("Could not find a meeting matching '%s'", r.MeetingIdentifier),
			Spoken: true,
		}, nil
	}

	newStart, err := time.ParseInLocation(meetingDateTimeLayout, r.NewDate+" "+r.NewTime, time.Local)
	if err != nil {
		return s.reaskReschedule(target,
			"I couldn't understand the date/time format. Please provide the date in YYYY-MM-DD format and time in HH:MM format."), nil
	}
	if newStart.Before(s.now()) {
		return s.reaskReschedule(target,
			fmt.Sprintf("The rescheduled time %s at %s is in the past. Please provide a future date and time.", r.NewDate, r.NewTime)), nil
	}

	duration := target.Duration()
	if r.NewDuration > 0 {
		duration = time.Duration(r.NewDuration) * time.Minute
	}
	if duration <= 0 {
		duration = time.Hour
	}

	reply, _ := s.applyReschedule(target.ID, newStart, duration, true)
	return reply, nil
}

// reaskReschedule opens a follow-up flow bound to the matched event and
// asks for a fresh date and time.
func (s *Secretary) reaskReschedule(target *calendar.EventSummary, problem string) *Reply {
	s.meeting = &meetingFlow{
		initialMessage: "Reschedule the meeting.",
		missing:        []string{"date", "time"},
		collected:      map[string]string{"title": target.Summary},
		rescheduling:   true,
		targetEventID:  target.ID,
	}
	question := s.askNextMeetingInfo()
	return &Reply{Text: problem + "\n" + question.Text, Spoken: true}
}

// completeRescheduling finishes a reschedule follow-up flow with the
// collected date and time. A time still in the past is bumped to
// tomorrow at the same time.
func (s *Secretary) completeRescheduling(flow *meetingFlow) (*Reply, bool) {
	newStart, err := time.ParseInLocation(meetingDateTimeLayout,
		flow.collected["date"]+" "+flow.collected["time"], time.Local)
	if err != nil {
		s.logger.Warn("unparseable reschedule answer", logging.Err(err))
		return &Reply{Text: "There was an error rescheduling the meeting. Please try again.", Spoken: true}, false
	}

	prefix := ""
	if newStart.Before(s.now()) {
		prefix = "The provided time is still in the past. Adjusting to tomorrow at the same time.\n"
		tomorrow := s.now().AddDate(0, 0, 1)
		newStart = time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(),
			newStart.Hour(), newStart.Minute(), 0, 0, time.Local)
	}

	event, err := s.cal.GetEvent(calendar.DefaultCalendarID, flow.targetEventID)
	if err != nil {
		s.logger.Warn("failed to load meeting for rescheduling", logging.Err(err))
		return &Reply{Text: "There was an error rescheduling the meeting. Please try again.", Spoken: true}, false
	}
	duration := event.Duration()
	if duration <= 0 {
		duration = time.Hour
	}

	reply, ok := s.applyReschedule(flow.targetEventID, newStart, duration, false)
	reply.Text = prefix + reply.Text
	return reply, ok
}

// applyReschedule updates the event times and notifies the attendees.
// withDuration includes the meeting length in the notification.
func (s *Secretary) applyReschedule(eventID string, newStart time.Time, duration time.Duration, withDuration bool) (*Reply, bool) {
	updated, err := s.cal.UpdateEvent(calendar.DefaultCalendarID, eventID, calendar.EventInput{
		Start:    newStart,
		End:      newStart.Add(duration),
		TimeZone: "UTC",
	})
	if err != nil {
		s.logger.Warn("failed to update meeting", slog.String("event_id", eventID), logging.Err(err))
		return &Reply{Text: "There was an error rescheduling the meeting. Please try again.", Spoken: true}, false
	}

	title := updated.Summary
	if title == "" {
		title = "Untitled meeting"
	}
	formattedDate := newStart.Format("January 02, 2006")
	formattedTime := newStart.Format("03:04 PM")

	notification := fmt.Sprintf("Your meeting '%s' has been rescheduled by %s.\nNew date: %s\nNew time: %s",
		title, s.node, formattedDate, formattedTime)
	if withDuration {
		notification += fmt.Sprintf("\nDuration: %d minutes", int(duration.Minutes()))
	}
	s.intercom.Notify(s.node, calendar.AttendeeLocalParts(*updated), notification)

	s.logger.Info("meeting rescheduled",
		logging.Operation("reschedule_meeting"),
		slog.String("event_id", eventID))
	return &Reply{
		Text:   fmt.Sprintf("Meeting '%s' has been rescheduled to %s at %s.", title, formattedDate, formattedTime),
		Spoken: true,
	}, true
}

// displayLocalParts returns attendee addresses shortened to the part
// before the @, preserving case for display.
func displayLocalParts(ev calendar.EventSummary) []string {
	parts := make([]string, 0, len(ev.Attendees))
	for _, att := range ev.Attendees {
		email := att.Email
		if i := strings.Index(email, "@"); i >= 0 {
			email = email[:i]
		}
		parts = append(parts, email)
	}
	return parts
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
