package calendar_tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/vikas-kashyap97/Jarvis-AI/internal/calendar"
	"github.com/vikas-kashyap97/Jarvis-AI/internal/server"
	"github.com/vikas-kashyap97/Jarvis-AI/internal/tools/common"
)

// meetingDateTimeLayout is the wire format for the date and time arguments.
const meetingDateTimeLayout = "2006-01-02 15:04"

// RegisterMeetingTools registers meeting management tools with the MCP server
func RegisterMeetingTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	// List meetings tool (read-only, always available)
	listMeetingsTool := mcp.NewTool("calendar_list_meetings",
		mcp.WithDescription("List upcoming meetings, or search meetings within a time range"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithNumber("maxResults",
			mcp.Description("Maximum number of meetings to return (default: 10)"),
		),
		mcp.WithString("timeMin",
			mcp.Description("Start of the search range (RFC3339 format, e.g., '2025-01-01T00:00:00Z'). Requires timeMax."),
		),
		mcp.WithString("timeMax",
			mcp.Description("End of the search range (RFC3339 format, e.g., '2025-01-31T23:59:59Z'). Requires timeMin."),
		),
		mcp.WithString("query",
			mcp.Description("Optional search query to filter meetings (only used with a time range)"),
		),
	)

	s.AddTool(listMeetingsTool, common.InstrumentedToolHandlerWithService(
		"calendar_list_meetings", "calendar", "list", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListMeetings(ctx, request, sc)
		}))

	// Register write tools only if not in read-only mode
	if !readOnly {
		// Schedule meeting tool
		scheduleMeetingTool := mcp.NewTool("calendar_schedule_meeting",
			mcp.WithDescription("Schedule a meeting with team members or external attendees"),
			mcp.WithString("account",
				mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
			),
			mcp.WithString("title",
				mcp.Required(),
				mcp.Description("Meeting title"),
			),
			mcp.WithString("date",
				mcp.Required(),
				mcp.Description("Meeting date (YYYY-MM-DD format, e.g., '2025-03-14')"),
			),
			mcp.WithString("time",
				mcp.Required(),
				mcp.Description("Meeting start time (HH:MM format in 24-hour time, e.g., '14:30')"),
			),
			mcp.WithNumber("durationMinutes",
				mcp.Description("Meeting duration in minutes (default: 60)"),
			),
			mcp.WithString("attendees",
				mcp.Required(),
				mcp.Description("Comma-separated attendees: team member names are resolved through the roster, email addresses are used as-is"),
			),
			mcp.WithString("description",
				mcp.Description("Meeting description"),
			),
			mcp.WithString("location",
				mcp.Description("Meeting location"),
			),
			mcp.WithBoolean("addGoogleMeet",
				mcp.Description("Automatically add a Google Meet link to the meeting"),
			),
		)

		s.AddTool(scheduleMeetingTool, common.InstrumentedToolHandlerWithService(
			"calendar_schedule_meeting", "calendar", "create", sc,
			func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				return handleScheduleMeeting(ctx, request, sc)
			}))

		// Cancel meeting tool
		cancelMeetingTool := mcp.NewTool("calendar_cancel_meeting",
			mcp.WithDescription("Cancel upcoming meetings by event ID or by matching criteria (title, participants, date)"),
			mcp.WithString("account",
				mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
			),
			mcp.WithString("eventId",
				mcp.Description("Cancel exactly this event (skips criteria matching)"),
			),
			mcp.WithString("title",
				mcp.Description("Cancel meetings whose title contains this text"),
			),
			mcp.WithString("participants",
				mcp.Description("Comma-separated participant names; meetings with any of them attending match"),
			),
			mcp.WithString("date",
				mcp.Description("Cancel meetings on this date (YYYY-MM-DD format)"),
			),
		)

		s.AddTool(cancelMeetingTool, common.InstrumentedToolHandlerWithService(
			"calendar_cancel_meeting", "calendar", "delete", sc,
			func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				return handleCancelMeeting(ctx, request, sc)
			}))

		// Reschedule meeting tool
		rescheduleMeetingTool := mcp.NewTool("calendar_reschedule_meeting",
			mcp.WithDescription("Move an upcoming meeting to a new date and time, keeping title and attendees"),
			mcp.WithString("account",
				mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
			),
			mcp.WithString("meeting",
				mcp.Required(),
				mcp.Description("Which meeting to move: part of the title or a participant name"),
			),
			mcp.WithString("date",
				mcp.Required(),
				mcp.Description("New date (YYYY-MM-DD format)"),
			),
			mcp.WithString("time",
				mcp.Required(),
				mcp.Description("New start time (HH:MM format in 24-hour time)"),
			),
			mcp.WithNumber("durationMinutes",
				mcp.Description("New duration in minutes (default: keep the current duration)"),
			),
			mcp.WithString("originalDate",
				mcp.Description("Date of the meeting being moved (YYYY-MM-DD), to disambiguate recurring titles"),
			),
		)

		s.AddTool(rescheduleMeetingTool, common.InstrumentedToolHandlerWithService(
			"calendar_reschedule_meeting", "calendar", "update", sc,
			func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				return handleRescheduleMeeting(ctx, request, sc)
			}))
	}

	return nil
}

func handleListMeetings(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	maxResults := int64(10)
	if maxResultsVal, ok := args["maxResults"].(float64); ok && maxResultsVal > 0 {
		maxResults = int64(maxResultsVal)
	}

	client, err := getCalendarClient(ctx, account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	timeMinStr, _ := args["timeMin"].(string)
	timeMaxStr, _ := args["timeMax"].(string)

	var events []calendar.EventSummary
	if timeMinStr != "" || timeMaxStr != "" {
		timeMin, err := time.Parse(time.RFC3339, timeMinStr)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Invalid timeMin format: %v", err)), nil
		}
		timeMax, err := time.Parse(time.RFC3339, timeMaxStr)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Invalid timeMax format: %v", err)), nil
		}

		query, _ := args["query"].(string)
		events, err = client.ListEvents(calendar.DefaultCalendarID, timeMin, timeMax, query)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to list meetings: %v", err)), nil
		}
	} else {
		events, err = client.ListUpcoming(calendar.DefaultCalendarID, maxResults)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to list meetings: %v", err)), nil
		}
	}

	if len(events) == 0 {
		return mcp.NewToolResultText("No upcoming meetings found."), nil
	}

	result := fmt.Sprintf("Found %d meeting(s):\n\n", len(events))
	for i, event := range events {
		result += fmt.Sprintf("%d. %s\n", i+1, event.Summary)
		result += fmt.Sprintf("   ID: %s\n", event.ID)
		result += fmt.Sprintf("   Start: %s\n", event.Start.Format(time.RFC3339))
		result += fmt.Sprintf("   End: %s\n", event.End.Format(time.RFC3339))
		if event.Location != "" {
			result += fmt.Sprintf("   Location: %s\n", event.Location)
		}
		if event.MeetLink != "" {
			result += fmt.Sprintf("   Meet: %s\n", event.MeetLink)
		}
		if len(event.Attendees) > 0 {
			result += fmt.Sprintf("   Attendees: %s\n", strings.Join(event.AttendeeEmails(), ", "))
		}
		result += "\n"
	}

	return mcp.NewToolResultText(result), nil
}

func handleScheduleMeeting(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	title, ok := args["title"].(string)
	if !ok || title == "" {
		return mcp.NewToolResultError("title is required"), nil
	}

	dateStr, ok := args["date"].(string)
	if !ok || dateStr == "" {
		return mcp.NewToolResultError("date is required"), nil
	}
	timeStr, ok := args["time"].(string)
	if !ok || timeStr == "" {
		return mcp.NewToolResultError("time is required"), nil
	}

	start, err := time.ParseInLocation(meetingDateTimeLayout, dateStr+" "+timeStr, time.Local)
	if err != nil {
		return mcp.NewToolResultError("Invalid date/time: use YYYY-MM-DD for date and HH:MM for time"), nil
	}
	if start.Before(time.Now()) {
		return mcp.NewToolResultError(fmt.Sprintf("The meeting time %s at %s is in the past. Please provide a future date and time.", dateStr, timeStr)), nil
	}

	duration := 60 * time.Minute
	if durationVal, ok := args["durationMinutes"].(float64); ok && durationVal > 0 {
		duration = time.Duration(durationVal) * time.Minute
	}

	attendeesStr, ok := args["attendees"].(string)
	if !ok || attendeesStr == "" {
		return mcp.NewToolResultError("attendees is required"), nil
	}

	// Resolve roster names to email addresses; plain addresses pass through.
	var emails []string
	var unknown []string
	for _, entry := range strings.Split(attendeesStr, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if strings.Contains(entry, "@") {
			emails = append(emails, entry)
			continue
		}
		member, ok := sc.Roster().Resolve(entry)
		if !ok {
			unknown = append(unknown, entry)
			continue
		}
		emails = append(emails, member.Email)
	}
	if len(unknown) > 0 {
		return mcp.NewToolResultError(fmt.Sprintf("Unknown attendees (not in the team roster): %s", strings.Join(unknown, ", "))), nil
	}
	if len(emails) == 0 {
		return mcp.NewToolResultError("No valid attendees given"), nil
	}

	input := calendar.EventInput{
		Summary:   title,
		Start:     start,
		End:       start.Add(duration),
		TimeZone:  "UTC",
		Attendees: emails,
	}
	if desc, ok := args["description"].(string); ok {
		input.Description = desc
	}
	if loc, ok := args["location"].(string); ok {
		input.Location = loc
	}
	if addMeet, ok := args["addGoogleMeet"].(bool); ok {
		input.UseDefaultConferenceData = addMeet
	}

	client, err := getCalendarClient(ctx, account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	event, err := client.CreateEvent(calendar.DefaultCalendarID, input)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to schedule meeting: %v", err)), nil
	}

	result := fmt.Sprintf("Meeting '%s' scheduled for %s at %s\n", event.Summary, start.Format("2006-01-02"), start.Format("15:04"))
	result += fmt.Sprintf("ID: %s\n", event.ID)
	result += fmt.Sprintf("Attendees: %s\n", strings.Join(emails, ", "))
	if event.MeetLink != "" {
		result += fmt.Sprintf("Google Meet: %s\n", event.MeetLink)
	}

	return mcp.NewToolResultText(result), nil
}

func handleCancelMeeting(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	client, err := getCalendarClient(ctx, account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	// A concrete event ID skips criteria matching.
	if eventID, ok := args["eventId"].(string); ok && eventID != "" {
		if err := client.DeleteEvent(calendar.DefaultCalendarID, eventID); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to cancel meeting: %v", err)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Cancelled meeting %s", eventID)), nil
	}

	criteria := calendar.CancelCriteria{}
	if title, ok := args["title"].(string); ok {
		criteria.Title = title
	}
	if date, ok := args["date"].(string); ok {
		criteria.Date = date
	}
	if participantsStr, ok := args["participants"].(string); ok && participantsStr != "" {
		for _, p := range strings.Split(participantsStr, ",") {
			if p = strings.TrimSpace(p); p != "" {
				criteria.Participants = append(criteria.Participants, p)
			}
		}
	}
	if criteria.Empty() {
		return mcp.NewToolResultError("Provide an eventId or at least one of: title, participants, date"), nil
	}

	events, err := client.ListUpcoming(calendar.DefaultCalendarID, 10)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list meetings: %v", err)), nil
	}
	if len(events) == 0 {
		return mcp.NewToolResultText("No upcoming meetings found to cancel"), nil
	}

	matches := calendar.FilterForCancellation(events, criteria)
	if len(matches) == 0 {
		return mcp.NewToolResultText("No meetings found matching the cancellation criteria"), nil
	}

	cancelled := 0
	var failures []string
	for _, ev := range matches {
		if err := client.DeleteEvent(calendar.DefaultCalendarID, ev.ID); err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", ev.Summary, err))
			continue
		}
		cancelled++
	}

	if cancelled == 0 {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to cancel meetings: %s", strings.Join(failures, "; "))), nil
	}

	result := fmt.Sprintf("Cancelled %d meeting(s)", cancelled)
	if len(failures) > 0 {
		result += fmt.Sprintf("\nFailed to cancel: %s", strings.Join(failures, "; "))
	}
	return mcp.NewToolResultText(result), nil
}

func handleRescheduleMeeting(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	identifier, ok := args["meeting"].(string)
	if !ok || identifier == "" {
		return mcp.NewToolResultError("meeting is required"), nil
	}
	dateStr, ok := args["date"].(string)
	if !ok || dateStr == "" {
		return mcp.NewToolResultError("date is required"), nil
	}
	timeStr, ok := args["time"].(string)
	if !ok || timeStr == "" {
		return mcp.NewToolResultError("time is required"), nil
	}

	newStart, err := time.ParseInLocation(meetingDateTimeLayout, dateStr+" "+timeStr, time.Local)
	if err != nil {
		return mcp.NewToolResultError("Invalid date/time: use YYYY-MM-DD for date and HH:MM for time"), nil
	}
	if newStart.Before(time.Now()) {
		return mcp.NewToolResultError(fmt.Sprintf("The rescheduled time %s at %s is in the past. Please provide a future date and time.", dateStr, timeStr)), nil
	}

	client, err := getCalendarClient(ctx, account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	events, err := client.ListUpcoming(calendar.DefaultCalendarID, 20)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list meetings: %v", err)), nil
	}
	if len(events) == 0 {
		return mcp.NewToolResultText("No upcoming meetings found to reschedule"), nil
	}

	originalDate, _ := args["originalDate"].(string)
	target := calendar.FindMatchingEvent(events, identifier, originalDate)
	if target == nil {
		return mcp.NewToolResultError(fmt.Sprintf("Could not find a meeting matching '%s'", identifier)), nil
	}

	duration := target.Duration()
	if durationVal, ok := args["durationMinutes"].(float64); ok && durationVal > 0 {
		duration = time.Duration(durationVal) * time.Minute
	}
	if duration <= 0 {
		duration = time.Hour
	}

	updated, err := client.UpdateEvent(calendar.DefaultCalendarID, target.ID, calendar.EventInput{
		Start:    newStart,
		End:      newStart.Add(duration),
		TimeZone: "UTC",
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to reschedule meeting: %v", err)), nil
	}

	title := updated.Summary
	if title == "" {
		title = "Untitled meeting"
	}
	return mcp.NewToolResultText(fmt.Sprintf("Meeting '%s' has been rescheduled to %s at %s.",
		title, newStart.Format("January 02, 2006"), newStart.Format("03:04 PM"))), nil
}
