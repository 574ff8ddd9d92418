package calendar_tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/vikas-kashyap97/Jarvis-AI/internal/server"
	"github.com/vikas-kashyap97/Jarvis-AI/internal/tools/common"
)

// defaultSlotSearchWindow is how far ahead to look when no range is given.
const defaultSlotSearchWindow = 7 * 24 * time.Hour

// RegisterSchedulingTools registers availability tools with the MCP server
func RegisterSchedulingTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	// Find slots tool (read-only, always available)
	findSlotsTool := mcp.NewTool("calendar_find_slots",
		mcp.WithDescription("Find free time slots for a meeting with one or more attendees"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("attendees",
			mcp.Required(),
			mcp.Description("Comma-separated attendees: team member names are resolved through the roster, email addresses are used as-is"),
		),
		mcp.WithNumber("durationMinutes",
			mcp.Description("Meeting duration in minutes (default: 30)"),
		),
		mcp.WithString("timeMin",
			mcp.Description("Start of the search range (RFC3339 format; default: now)"),
		),
		mcp.WithString("timeMax",
			mcp.Description("End of the search range (RFC3339 format; default: 7 days from now)"),
		),
		mcp.WithNumber("maxResults",
			mcp.Description("Maximum number of slots to return (default: 10)"),
		),
	)

	s.AddTool(findSlotsTool, common.InstrumentedToolHandlerWithService(
		"calendar_find_slots", "calendar", "list", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleFindSlots(ctx, request, sc)
		}))

	return nil
}

func handleFindSlots(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	attendeesStr, ok := args["attendees"].(string)
	if !ok || attendeesStr == "" {
		return mcp.NewToolResultError("attendees is required"), nil
	}

	var attendees []string
	for _, entry := range strings.Split(attendeesStr, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		attendees = append(attendees, sc.Roster().ResolveEmail(entry))
	}
	if len(attendees) == 0 {
		return mcp.NewToolResultError("No valid attendees given"), nil
	}

	durationMinutes := 30.0
	if durationVal, ok := args["durationMinutes"].(float64); ok {
		if durationVal <= 0 {
			return mcp.NewToolResultError("durationMinutes must be positive"), nil
		}
		durationMinutes = durationVal
	}
	duration := time.Duration(durationMinutes) * time.Minute

	timeMin := time.Now()
	if timeMinStr, ok := args["timeMin"].(string); ok && timeMinStr != "" {
		parsed, err := time.Parse(time.RFC3339, timeMinStr)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Invalid timeMin format: %v", err)), nil
		}
		timeMin = parsed
	}

	timeMax := timeMin.Add(defaultSlotSearchWindow)
	if timeMaxStr, ok := args["timeMax"].(string); ok && timeMaxStr != "" {
		parsed, err := time.Parse(time.RFC3339, timeMaxStr)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Invalid timeMax format: %v", err)), nil
		}
		timeMax = parsed
	}
	if !timeMax.After(timeMin) {
		return mcp.NewToolResultError("timeMax must be after timeMin"), nil
	}

	maxResults := 10
	if maxResultsVal, ok := args["maxResults"].(float64); ok && maxResultsVal > 0 {
		maxResults = int(maxResultsVal)
	}

	client, err := getCalendarClient(ctx, account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	slots, err := client.FindAvailableSlots(attendees, duration, timeMin, timeMax)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to find available slots: %v", err)), nil
	}

	if len(slots) == 0 {
		return mcp.NewToolResultText("No available time slots found for the specified criteria"), nil
	}

	if len(slots) > maxResults {
		slots = slots[:maxResults]
	}

	result := fmt.Sprintf("Found %d available time slot(s) for a %d minute meeting with %s:\n\n",
		len(slots), int(durationMinutes), strings.Join(attendees, ", "))
	for i, slot := range slots {
		result += fmt.Sprintf("%d. %s to %s\n",
			i+1,
			slot.Start.Format("Mon, Jan 2 at 15:04"),
			slot.End.Format("15:04"))
	}

	return mcp.NewToolResultText(result), nil
}
