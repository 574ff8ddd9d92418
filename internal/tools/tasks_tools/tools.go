package tasks_tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/vikas-kashyap97/Jarvis-AI/internal/server"
	"github.com/vikas-kashyap97/Jarvis-AI/internal/tasks"
	"github.com/vikas-kashyap97/Jarvis-AI/internal/tools/batch"
	"github.com/vikas-kashyap97/Jarvis-AI/internal/tools/common"
)

// dueDateLayout is the wire format for the dueDate argument.
const dueDateLayout = "2006-01-02"

// RegisterTaskTools registers task management tools with the MCP server
func RegisterTaskTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	// List tasks tool (read-only, always available)
	listTasksTool := mcp.NewTool("tasks_list_tasks",
		mcp.WithDescription("List tasks from the task store, optionally filtered by assignee or project"),
		mcp.WithString("assignedTo",
			mcp.Description("Only list tasks assigned to this team member"),
		),
		mcp.WithString("projectId",
			mcp.Description("Only list tasks belonging to this project"),
		),
		mcp.WithBoolean("includeDone",
			mcp.Description("Include completed tasks (default: false)"),
		),
	)

	s.AddTool(listTasksTool, common.InstrumentedToolHandler(
		"tasks_list_tasks", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListTasks(ctx, request, sc)
		}))

	// Register write tools only if not in read-only mode
	if !readOnly {
		// Create task tool
		createTaskTool := mcp.NewTool("tasks_create_task",
			mcp.WithDescription("Create a new task in the task store"),
			mcp.WithString("title",
				mcp.Required(),
				mcp.Description("Task title"),
			),
			mcp.WithString("description",
				mcp.Description("Task description"),
			),
			mcp.WithString("dueDate",
				mcp.Description("Due date (YYYY-MM-DD format)"),
			),
			mcp.WithString("assignedTo",
				mcp.Description("Team member the task is assigned to"),
			),
			mcp.WithString("priority",
				mcp.Description("Task priority: 'high', 'medium' or 'low' (default: medium)"),
			),
			mcp.WithString("projectId",
				mcp.Description("Project the task belongs to"),
			),
		)

		s.AddTool(createTaskTool, common.InstrumentedToolHandler(
			"tasks_create_task", sc,
			func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				return handleCreateTask(ctx, request, sc)
			}))

		// Complete tasks tool (supports single or multiple tasks)
		completeTasksTool := mcp.NewTool("tasks_complete_tasks",
			mcp.WithDescription("Mark one or more tasks as done"),
			mcp.WithString("taskIds",
				mcp.Required(),
				mcp.Description("Task ID (string) or array of task IDs to complete; unique ID prefixes of at least 4 characters are accepted"),
			),
		)

		s.AddTool(completeTasksTool, common.InstrumentedToolHandler(
			"tasks_complete_tasks", sc,
			func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				return handleCompleteTasks(ctx, request, sc)
			}))

		// Assign task tool
		assignTaskTool := mcp.NewTool("tasks_assign_task",
			mcp.WithDescription("Assign a task to a team member and notify them through the intercom"),
			mcp.WithString("taskId",
				mcp.Required(),
				mcp.Description("ID of the task to assign; a unique ID prefix of at least 4 characters is accepted"),
			),
			mcp.WithString("assignee",
				mcp.Required(),
				mcp.Description("Team member to assign the task to"),
			),
		)

		s.AddTool(assignTaskTool, common.InstrumentedToolHandler(
			"tasks_assign_task", sc,
			func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				return handleAssignTask(ctx, request, sc)
			}))
	}

	return nil
}

func handleListTasks(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	filter := tasks.Filter{}
	if assignedTo, ok := args["assignedTo"].(string); ok {
		filter.AssignedTo = strings.TrimSpace(assignedTo)
	}
	if projectID, ok := args["projectId"].(string); ok {
		filter.ProjectID = strings.TrimSpace(projectID)
	}
	if includeDone, ok := args["includeDone"].(bool); ok {
		filter.IncludeDone = includeDone
	}

	list := sc.TaskStore().List(filter)
	if len(list) == 0 {
		return mcp.NewToolResultText("No tasks found."), nil
	}

	result := fmt.Sprintf("Found %d task(s):\n\n", len(list))
	for i, t := range list {
		result += fmt.Sprintf("%d. %s [%s]\n", i+1, t.Title, t.Priority)
		result += fmt.Sprintf("   ID: %s\n", t.ID)
		if !t.DueDate.IsZero() {
			result += fmt.Sprintf("   Due: %s\n", t.DueDate.Format(dueDateLayout))
		}
		if t.AssignedTo != "" {
			result += fmt.Sprintf("   Assigned to: %s\n", t.AssignedTo)
		}
		if t.ProjectID != "" {
			result += fmt.Sprintf("   Project: %s\n", t.ProjectID)
		}
		if t.Description != "" {
			result += fmt.Sprintf("   Description: %s\n", t.Description)
		}
		if t.Done {
			result += "   Status: done\n"
		}
		result += "\n"
	}

	return mcp.NewToolResultText(result), nil
}

func handleCreateTask(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	title, ok := args["title"].(string)
	if !ok || strings.TrimSpace(title) == "" {
		return mcp.NewToolResultError("title is required"), nil
	}

	input := tasks.TaskInput{Title: title}
	if description, ok := args["description"].(string); ok {
		input.Description = description
	}
	if dueDateStr, ok := args["dueDate"].(string); ok && dueDateStr != "" {
		dueDate, err := time.Parse(dueDateLayout, dueDateStr)
		if err != nil {
			return mcp.NewToolResultError("Invalid dueDate: use YYYY-MM-DD format"), nil
		}
		input.DueDate = dueDate
	}
	if assignedTo, ok := args["assignedTo"].(string); ok {
		input.AssignedTo = strings.ToLower(strings.TrimSpace(assignedTo))
	}
	if priority, ok := args["priority"].(string); ok {
		input.Priority = tasks.ParsePriority(priority)
	}
	if projectID, ok := args["projectId"].(string); ok {
		input.ProjectID = strings.TrimSpace(projectID)
	}

	task, err := sc.TaskStore().Add(input)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to create task: %v", err)), nil
	}

	// Best effort: the intercom skips assignees it does not know.
	sc.Intercom().TaskAssigned(*task)

	result := fmt.Sprintf("Task '%s' created\nID: %s\nPriority: %s\n", task.Title, task.ID, task.Priority)
	if !task.DueDate.IsZero() {
		result += fmt.Sprintf("Due: %s\n", task.DueDate.Format(dueDateLayout))
	}
	if task.AssignedTo != "" {
		result += fmt.Sprintf("Assigned to: %s\n", task.AssignedTo)
	}

	return mcp.NewToolResultText(result), nil
}

func handleCompleteTasks(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	taskIDs, err := batch.ParseStringOrArray(args["taskIds"], "taskIds")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	store := sc.TaskStore()
	results := batch.ProcessBatch(taskIDs, func(taskID string) (string, error) {
		task, err := store.Complete(taskID)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Task '%s' marked as done", task.Title), nil
	})

	return mcp.NewToolResultText(batch.FormatResults(results)), nil
}

func handleAssignTask(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	taskID, ok := args["taskId"].(string)
	if !ok || taskID == "" {
		return mcp.NewToolResultError("taskId is required"), nil
	}
	assignee, ok := args["assignee"].(string)
	if !ok || strings.TrimSpace(assignee) == "" {
		return mcp.NewToolResultError("assignee is required"), nil
	}

	task, err := sc.TaskStore().Assign(taskID, strings.ToLower(strings.TrimSpace(assignee)))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to assign task: %v", err)), nil
	}

	sc.Intercom().TaskAssigned(*task)

	return mcp.NewToolResultText(fmt.Sprintf("Task '%s' assigned to %s", task.Title, task.AssignedTo)), nil
}
