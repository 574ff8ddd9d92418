package secretary

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vikas-kashyap97/Jarvis-AI/internal/calendar"
)

type eventUpdate struct {
	eventID string
	input   calendar.EventInput
}

type listEventsCall struct {
	timeMin time.Time
	timeMax time.Time
	query   string
}

// fakeCalendar records calendar traffic in memory.
type fakeCalendar struct {
	upcoming []calendar.EventSummary
	events   map[string]calendar.EventSummary

	created   []calendar.EventInput
	updates   []eventUpdate
	deleted   []string
	listCalls []listEventsCall
	listErr   error
	createErr error
	updateErr error
	deleteErr error
}

func (f *fakeCalendar) ListEvents(_ string, timeMin, timeMax time.Time, query string) ([]calendar.EventSummary, error) {
	f.listCalls = append(f.listCalls, listEventsCall{timeMin: timeMin, timeMax: timeMax, query: query})
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.upcoming, nil
}

func (f *fakeCalendar) ListUpcoming(_ string, maxResults int64) ([]calendar.EventSummary, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	if maxResults > 0 && int64(len(f.upcoming)) > maxResults {
		return f.upcoming[:maxResults], nil
	}
	return f.upcoming, nil
}

func (f *fakeCalendar) GetEvent(_, eventID string) (*calendar.EventSummary, error) {
	if ev, ok := f.events[eventID]; ok {
		return &ev, nil
	}
	for _, ev := range f.upcoming {
		if ev.ID == eventID {
			return &ev, nil
		}
	}
	return nil, fmt.Errorf("event %q not found", eventID)
}

func (f *fakeCalendar) CreateEvent(_ string, input calendar.EventInput) (*calendar.EventSummary, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, input)

	attendees := make([]calendar.AttendeeInfo, 0, len(input.Attendees))
	for _, a := range input.Attendees {
		attendees = append(attendees, calendar.AttendeeInfo{Email: a})
	}
	return &calendar.EventSummary{
		ID:        fmt.Sprintf("evt-%d", len(f.created)),
		Summary:   input.Summary,
		Start:     input.Start,
		End:       input.End,
		Attendees: attendees,
	}, nil
}

func (f *fakeCalendar) UpdateEvent(_, eventID string, input calendar.EventInput) (*calendar.EventSummary, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	f.updates = append(f.updates, eventUpdate{eventID: eventID, input: input})

	ev, err := f.GetEvent("", eventID)
	if err != nil {
		return nil, err
	}
	updated := *ev
	updated.Start = input.Start
	updated.End = input.End
	return &updated, nil
}

func (f *fakeCalendar) DeleteEvent(_, eventID string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, eventID)
	return nil
}

func upcomingEvent(id, summary string, start time.Time, minutes int, attendees ...string) calendar.EventSummary {
	info := make([]calendar.AttendeeInfo, 0, len(attendees))
	for _, a := range attendees {
		info = append(info, calendar.AttendeeInfo{Email: a})
	}
	return calendar.EventSummary{
		ID:        id,
		Summary:   summary,
		Start:     start,
		End:       start.Add(time.Duration(minutes) * time.Minute),
		Attendees: info,
	}
}

func TestScheduleMeetingFromCompleteMessage(t *testing.T) {
	env := newTestSecretary(t)
	env.chatter.script(promptCalendarDetect,
		`{"is_calendar_command": true, "action": "schedule_meeting", "missing_info": []}`)
	env.chatter.script(promptMeetingExtract,
		`{"title": "Budget review", "participants": ["marketing"], "date": "2027-03-05", "time": "14:30", "duration": 45}`)

	reply, err := env.sec.HandleCommand(context.Background(),
		"Schedule a budget review with marketing on March 5th 2027 at 14:30")
	require.NoError(t, err)

	assert.Equal(t, "Meeting 'Budget review' scheduled for 2027-03-05 at 14:30 with marketing, ceo", reply.Text)
	assert.True(t, reply.Spoken)
	assert.False(t, env.sec.InFlow())

	require.Len(t, env.cal.created, 1)
	created := env.cal.created[0]
	assert.Equal(t, "Budget review", created.Summary)
	assert.Equal(t, time.Date(2027, 3, 5, 14, 30, 0, 0, time.Local), created.Start)
	assert.Equal(t, 45*time.Minute, created.End.Sub(created.Start))
	assert.Equal(t, "UTC", created.TimeZone)
	assert.Equal(t, []string{"marketing@example.com", "ceo@example.com"}, created.Attendees)

	// Every participant except the operator is notified.
	history := env.intercom.History(0)
	require.Len(t, history, 1)
	assert.Equal(t, "ceo", history[0].From)
	assert.Equal(t, "marketing", history[0].To)
	assert.Equal(t, "New meeting: 'Budget review' scheduled by ceo for 2027-03-05 at 14:30", history[0].Content)
}

func TestScheduleMeetingAsksForMissingDetails(t *testing.T) {
	env := newTestSecretary(t)
	env.chatter.script(promptCalendarDetect,
		`{"is_calendar_command": true, "action": "schedule_meeting", "missing_info": ["title", "date"]}`)
	env.chatter.script(promptMeetingExtract,
		`{"title": "Budget sync", "participants": ["marketing"], "date": "2027-03-05", "time": "14:30", "duration": 60}`)

	reply, err := env.sec.HandleCommand(context.Background(), "Schedule a meeting with marketing")
	require.NoError(t, err)
	assert.Equal(t, "What is the title or topic of the meeting?", reply.Text)
	assert.True(t, env.sec.InFlow())

	reply, err = env.sec.HandleCommand(context.Background(), "Budget sync")
	require.NoError(t, err)
	assert.Equal(t, "On what date should the meeting be scheduled? (Please use YYYY-MM-DD format, e.g., 2023-12-31)", reply.Text)

	reply, err = env.sec.HandleCommand(context.Background(), "2027-03-05")
	require.NoError(t, err)
	assert.Equal(t,
		"Meeting 'Budget sync' scheduled for 2027-03-05 at 14:30 with marketing, ceo\n"+
			"Meeting scheduled successfully with all required information.",
		reply.Text)
	assert.False(t, env.sec.InFlow())

	// The collected answers are folded into the extraction message.
	extracts := env.chatter.promptsContaining(promptMeetingExtract)
	require.Len(t, extracts, 1)
	assert.Contains(t, extracts[0], "Schedule a meeting with marketing Title: Budget sync. Date: 2027-03-05.")
}

func TestScheduleMeetingPastTimeReprompts(t *testing.T) {
	env := newTestSecretary(t)
	env.chatter.script(promptCalendarDetect,
		`{"is_calendar_command": true, "action": "schedule_meeting", "missing_info": []}`)
	env.chatter.script(promptMeetingExtract,
		`{"title": "Budget review", "participants": ["marketing"], "date": "2020-01-01", "time": "09:00", "duration": 60}`)
	env.chatter.script(promptMeetingExtract,
		`{"title": "Budget review", "participants": ["marketing"], "date": "2027-04-01", "time": "09:00", "duration": 60}`)

	reply, err := env.sec.HandleCommand(context.Background(), "Schedule the budget review for January 1st 2020")
	require.NoError(t, err)
	assert.Equal(t,
		"The meeting time 2020-01-01 at 09:00 is in the past. Please provide a future date and time.\n"+
			"On what date should the meeting be scheduled? (Please use YYYY-MM-DD format, e.g., 2023-12-31) (please ensure it's a future date and time)",
		reply.Text)
	assert.True(t, env.sec.InFlow())
	assert.Empty(t, env.cal.created)

	reply, err = env.sec.HandleCommand(context.Background(), "2027-04-01")
	require.NoError(t, err)
	assert.Equal(t, "What time should the meeting be scheduled? (Please use HH:MM format in 24-hour time, e.g., 14:30)", reply.Text)

	reply, err = env.sec.HandleCommand(context.Background(), "09:00")
	require.NoError(t, err)
	assert.Equal(t,
		"Meeting 'Budget review' scheduled for 2027-04-01 at 09:00 with marketing, ceo\n"+
			"Meeting scheduled successfully with all required information.",
		reply.Text)

	// The follow-up extraction sees the retained title and participants.
	extracts := env.chatter.promptsContaining(promptMeetingExtract)
	require.Len(t, extracts, 2)
	assert.Contains(t, extracts[1], "Title: Budget review. Date: 2027-04-01. Time: 09:00. Participants: marketing.")

	require.Len(t, env.cal.created, 1)
	assert.Equal(t, time.Date(2027, 4, 1, 9, 0, 0, 0, time.Local), env.cal.created[0].Start)
}

func TestScheduleMeetingRejectsUnknownParticipants(t *testing.T) {
	env := newTestSecretary(t)
	env.chatter.script(promptCalendarDetect,
		`{"is_calendar_command": true, "action": "schedule_meeting", "missing_info": []}`)
	env.chatter.script(promptMeetingExtract,
		`{"title": "Budget review", "participants": ["nobody-known"], "date": "2027-03-05", "time": "14:30", "duration": 60}`)

	reply, err := env.sec.HandleCommand(context.Background(), "Schedule a budget review with nobody")
	require.NoError(t, err)
	assert.Equal(t, "Cannot schedule meeting: no valid participants", reply.Text)
	assert.Empty(t, env.cal.created)
}

func TestScheduleMeetingWithoutCalendar(t *testing.T) {
	env := newTestSecretary(t, func(c *Config) { c.Calendar = nil })
	env.chatter.script(promptCalendarDetect,
		`{"is_calendar_command": true, "action": "schedule_meeting", "missing_info": []}`)

	reply, err := env.sec.HandleCommand(context.Background(), "Schedule a meeting with marketing at 10:00")
	require.NoError(t, err)
	assert.Equal(t, "Calendar service not available, can't schedule meetings", reply.Text)
}

func TestListMeetings(t *testing.T) {
	env := newTestSecretary(t)
	env.chatter.script(promptCalendarDetect,
		`{"is_calendar_command": true, "action": "list_meetings", "missing_info": []}`)
	env.cal.upcoming = []calendar.EventSummary{
		upcomingEvent("evt-1", "Team sync", time.Date(2026, 8, 27, 9, 30, 0, 0, time.Local), 30, "marketing@example.com"),
		upcomingEvent("evt-2", "Board review", time.Date(2026, 8, 28, 14, 0, 0, 0, time.Local), 60, "ceo@example.com", "design@example.com"),
	}

	reply, err := env.sec.HandleCommand(context.Background(), "What meetings do I have?")
	require.NoError(t, err)
	assert.Equal(t,
		"Upcoming meetings:\n"+
			"  - Team sync on 2026-08-27 at 09:30 with marketing\n"+
			"  - Board review on 2026-08-28 at 14:00 with ceo, design",
		reply.Text)
	assert.False(t, reply.Spoken)
}

func TestListMeetingsEmpty(t *testing.T) {
	env := newTestSecretary(t)
	env.chatter.script(promptCalendarDetect,
		`{"is_calendar_command": true, "action": "list_meetings", "missing_info": []}`)

	reply, err := env.sec.HandleCommand(context.Background(), "What meetings do I have?")
	require.NoError(t, err)
	assert.Equal(t, "No upcoming meetings found.", reply.Text)
	assert.True(t, reply.Spoken)
}

func TestCancelMeetingsByTitle(t *testing.T) {
	env := newTestSecretary(t)
	env.chatter.script(promptCalendarDetect,
		`{"is_calendar_command": true, "action": "cancel_meeting", "missing_info": []}`)
	env.chatter.script(promptCancelExtract, `{"title": "sync"}`)
	env.cal.upcoming = []calendar.EventSummary{
		upcomingEvent("evt-1", "Team sync", time.Date(2026, 8, 27, 9, 30, 0, 0, time.Local), 30, "marketing@example.com"),
		upcomingEvent("evt-2", "Board review", time.Date(2026, 8, 28, 14, 0, 0, 0, time.Local), 60, "ceo@example.com"),
	}

	reply, err := env.sec.HandleCommand(context.Background(), "Cancel the sync meeting")
	require.NoError(t, err)
	assert.Equal(t, "Cancelled 1 meeting(s)", reply.Text)
	assert.Equal(t, []string{"evt-1"}, env.cal.deleted)

	history := env.intercom.History(0)
	require.Len(t, history, 1)
	assert.Equal(t, "marketing", history[0].To)
	assert.Equal(t, "Meeting 'Team sync' has been cancelled by ceo", history[0].Content)
}

func TestCancelMeetingsNoMatch(t *testing.T) {
	env := newTestSecretary(t)
	env.chatter.script(promptCalendarDetect,
		`{"is_calendar_command": true, "action": "cancel_meeting", "missing_info": []}`)
	env.chatter.script(promptCancelExtract, `{"title": "retro"}`)
	env.cal.upcoming = []calendar.EventSummary{
		upcomingEvent("evt-1", "Team sync", time.Date(2026, 8, 27, 9, 30, 0, 0, time.Local), 30),
	}

	reply, err := env.sec.HandleCommand(context.Background(), "Cancel the retro")
	require.NoError(t, err)
	assert.Equal(t, "No meetings found matching the cancellation criteria", reply.Text)
	assert.Empty(t, env.cal.deleted)
}

func TestRescheduleMeeting(t *testing.T) {
	env := newTestSecretary(t)
	env.chatter.script(promptCalendarDetect,
		`{"is_calendar_command": true, "action": "reschedule_meeting", "missing_info": []}`)
	env.chatter.script(promptRescheduleExtract,
		`{"meeting_identifier": "sync", "new_date": "2027-03-05", "new_time": "14:30"}`)
	env.cal.upcoming = []calendar.EventSummary{
		upcomingEvent("evt-1", "Team sync", time.Date(2026, 8, 27, 9, 30, 0, 0, time.Local), 60, "marketing@example.com"),
	}

	reply, err := env.sec.HandleCommand(context.Background(), "Move the sync to March 5th 2027 at 14:30")
	require.NoError(t, err)
	assert.Equal(t, "Meeting 'Team sync' has been rescheduled to March 05, 2027 at 02:30 PM.", reply.Text)

	require.Len(t, env.cal.updates, 1)
	update := env.cal.updates[0]
	assert.Equal(t, "evt-1", update.eventID)
	assert.Equal(t, time.Date(2027, 3, 5, 14, 30, 0, 0, time.Local), update.input.Start)
	assert.Equal(t, time.Hour, update.input.End.Sub(update.input.Start))
	assert.Equal(t, "UTC", update.input.TimeZone)

	history := env.intercom.History(0)
	require.Len(t, history, 1)
	assert.Equal(t, "marketing", history[0].To)
	assert.Equal(t,
		"Your meeting 'Team sync' has been rescheduled by ceo.\n"+
			"New date: March 05, 2027\n"+
			"New time: 02:30 PM\n"+
			"Duration: 60 minutes",
		history[0].Content)
}

func TestRescheduleMeetingNotFound(t *testing.T) {
	env := newTestSecretary(t)
	env.chatter.script(promptCalendarDetect,
		`{"is_calendar_command": true, "action": "reschedule_meeting", "missing_info": []}`)
	env.chatter.script(promptRescheduleExtract,
		`{"meeting_identifier": "standup", "new_date": "2027-03-05", "new_time": "14:30"}`)
	env.cal.upcoming = []calendar.EventSummary{
		upcomingEvent("evt-1", "Board review", time.Date(2026, 8, 27, 9, 30, 0, 0, time.Local), 60),
	}

	reply, err := env.sec.HandleCommand(context.Background(), "Move the standup")
	require.NoError(t, err)
	assert.Equal(t, "Could not find a meeting matching 'standup'", reply.Text)
	assert.Empty(t, env.cal.updates)
}

func TestReschedulePastTimeRepromptsAndAdjusts(t *testing.T) {
	env := newTestSecretary(t)
	env.chatter.script(promptCalendarDetect,
		`{"is_calendar_command": true, "action": "reschedule_meeting", "missing_info": []}`)
	env.chatter.script(promptRescheduleExtract,
		`{"meeting_identifier": "sync", "new_date": "2020-01-01", "new_time": "09:00"}`)
	env.cal.upcoming = []calendar.EventSummary{
		upcomingEvent("evt-1", "Team sync", time.Date(2026, 8, 27, 9, 30, 0, 0, time.Local), 90, "marketing@example.com"),
	}
	env.cal.events = map[string]calendar.EventSummary{
		"evt-1": env.cal.upcoming[0],
	}

	reply, err := env.sec.HandleCommand(context.Background(), "Move the sync to January 1st 2020")
	require.NoError(t, err)
	assert.Equal(t,
		"The rescheduled time 2020-01-01 at 09:00 is in the past. Please provide a future date and time.\n"+
			"On what date should the meeting be scheduled? (Please use YYYY-MM-DD format, e.g., 2023-12-31) for rescheduling",
		reply.Text)
	assert.True(t, env.sec.InFlow())

	reply, err = env.sec.HandleCommand(context.Background(), "2020-05-01")
	require.NoError(t, err)
	assert.Equal(t, "What time should the meeting be scheduled? (Please use HH:MM format in 24-hour time, e.g., 14:30) for rescheduling", reply.Text)

	// Still in the past, so the time is bumped to tomorrow.
	reply, err = env.sec.HandleCommand(context.Background(), "11:00")
	require.NoError(t, err)
	assert.Equal(t,
		"The provided time is still in the past. Adjusting to tomorrow at the same time.\n"+
			"Meeting 'Team sync' has been rescheduled to August 26, 2026 at 11:00 AM.\n"+
			"Meeting rescheduled successfully with all required information.",
		reply.Text)
	assert.False(t, env.sec.InFlow())

	require.Len(t, env.cal.updates, 1)
	update := env.cal.updates[0]
	assert.Equal(t, time.Date(2026, 8, 26, 11, 0, 0, 0, time.Local), update.input.Start)
	// The original meeting length is preserved.
	assert.Equal(t, 90*time.Minute, update.input.End.Sub(update.input.Start))

	history := env.intercom.History(0)
	require.Len(t, history, 1)
	assert.Equal(t,
		"Your meeting 'Team sync' has been rescheduled by ceo.\n"+
			"New date: August 26, 2026\n"+
			"New time: 11:00 AM",
		history[0].Content)
}

func TestRescheduleUpdateFailureDegrades(t *testing.T) {
	env := newTestSecretary(t)
	env.chatter.script(promptCalendarDetect,
		`{"is_calendar_command": true, "action": "reschedule_meeting", "missing_info": []}`)
	env.chatter.script(promptRescheduleExtract,
		`{"meeting_identifier": "sync", "new_date": "2027-03-05", "new_time": "14:30"}`)
	env.cal.upcoming = []calendar.EventSummary{
		upcomingEvent("evt-1", "Team sync", time.Date(2026, 8, 27, 9, 30, 0, 0, time.Local), 60),
	}
	env.cal.updateErr = fmt.Errorf("backend unavailable")

	reply, err := env.sec.HandleCommand(context.Background(), "Move the sync to March 5th 2027")
	require.NoError(t, err)
	assert.Equal(t, "There was an error rescheduling the meeting. Please try again.", reply.Text)
}
