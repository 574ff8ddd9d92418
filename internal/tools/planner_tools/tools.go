package planner_tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/vikas-kashyap97/Jarvis-AI/internal/planner"
	"github.com/vikas-kashyap97/Jarvis-AI/internal/server"
	"github.com/vikas-kashyap97/Jarvis-AI/internal/tasks"
	"github.com/vikas-kashyap97/Jarvis-AI/internal/tools/common"
)

// RegisterPlannerTools registers project planning tools with the MCP server.
// Planning creates tasks, calendar events and notifications, and export
// writes a Google Doc, so nothing is registered in read-only mode.
func RegisterPlannerTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	if readOnly {
		return nil
	}

	planProjectTool := mcp.NewTool("planner_plan_project",
		mcp.WithDescription("Generate a project plan for an objective: the plan is stored with the project, written to a plan file, a kickoff meeting is scheduled with the resolved stakeholders, and each plan step is broken into assigned tasks."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("projectId",
			mcp.Required(),
			mcp.Description("Short identifier for the project, e.g. 'website-redesign'"),
		),
		mcp.WithString("objective",
			mcp.Required(),
			mcp.Description("One-line description of what the project should achieve"),
		),
	)

	s.AddTool(planProjectTool, common.InstrumentedToolHandler(
		"planner_plan_project", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handlePlanProject(ctx, request, sc)
		}))

	exportPlanTool := mcp.NewTool("planner_export_plan",
		mcp.WithDescription("Export a stored project plan to a new Google Doc and return its shareable link. The project must have been planned with planner_plan_project first."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("projectId",
			mcp.Required(),
			mcp.Description("Identifier of an already planned project, e.g. 'website-redesign'"),
		),
	)

	s.AddTool(exportPlanTool, common.InstrumentedToolHandler(
		"planner_export_plan", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleExportPlan(ctx, request, sc)
		}))

	return nil
}

func handlePlanProject(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	projectID, ok := args["projectId"].(string)
	if !ok || strings.TrimSpace(projectID) == "" {
		return mcp.NewToolResultError("projectId is required"), nil
	}

	objective, ok := args["objective"].(string)
	if !ok || strings.TrimSpace(objective) == "" {
		return mcp.NewToolResultError("objective is required"), nil
	}

	if err := sc.Config().ValidateLLM(); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("LLM not configured: %v", err)), nil
	}

	res, err := sc.PlannerForAccount(account).Plan(ctx, projectID, objective)
	if err != nil {
		if errors.Is(err, planner.ErrInvalidPlanFormat) {
			return mcp.NewToolResultError(planner.InvalidFormatReply), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("Failed to plan project: %v", err)), nil
	}

	var b strings.Builder
	b.WriteString(res.Summary)
	if res.PlanPath != "" {
		fmt.Fprintf(&b, "\n\nPlan saved to %s", res.PlanPath)
	}
	if res.Meeting != nil {
		fmt.Fprintf(&b, "\nKickoff meeting scheduled for %s", res.Meeting.Start.Format("2006-01-02 15:04"))
	}
	if len(res.Tasks) > 0 {
		fmt.Fprintf(&b, "\n%d task(s) created and assigned", len(res.Tasks))
	}

	return mcp.NewToolResultText(b.String()), nil
}

func handleExportPlan(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	projectID, ok := args["projectId"].(string)
	if !ok || strings.TrimSpace(projectID) == "" {
		return mcp.NewToolResultError("projectId is required"), nil
	}
	projectID = strings.TrimSpace(projectID)

	project, err := sc.TaskStore().GetProject(projectID)
	if err != nil {
		if errors.Is(err, tasks.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("No plan stored for project '%s'. Run planner_plan_project first.", projectID)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("Failed to load project: %v", err)), nil
	}

	meta, err := sc.PlannerForAccount(account).ExportToDocs(*project)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to export plan: %v", err)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Plan for project '%s' exported to Google Docs as %q", projectID, meta.Name)
	if meta.WebViewLink != "" {
		fmt.Fprintf(&b, "\nLink: %s", meta.WebViewLink)
	}
	return mcp.NewToolResultText(b.String()), nil
}
