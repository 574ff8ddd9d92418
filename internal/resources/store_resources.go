package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/vikas-kashyap97/Jarvis-AI/internal/server"
)

// RegisterStoreResources registers the task store resources.
// These expose the open task list and the saved project plans as JSON,
// so MCP clients can pull secretary state without a tool round trip.
func RegisterStoreResources(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	openTasksResource := mcp.NewResource(
		"tasks://open",
		"Open Tasks",
		mcp.WithResourceDescription("All open (not yet completed) tasks in the task store"),
		mcp.WithMIMEType("application/json"),
	)

	s.AddResource(openTasksResource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return handleOpenTasks(ctx, request, sc)
	})

	plansResource := mcp.NewResource(
		"projects://plans",
		"Project Plans",
		mcp.WithResourceDescription("All saved project plans with their stakeholders and steps"),
		mcp.WithMIMEType("application/json"),
	)

	s.AddResource(plansResource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return handleProjectPlans(ctx, request, sc)
	})

	return nil
}

// handleOpenTasks returns every open task as JSON
func handleOpenTasks(ctx context.Context, request mcp.ReadResourceRequest, sc *server.ServerContext) ([]mcp.ResourceContents, error) {
	open := sc.TaskStore().ListOpen()

	payload := map[string]interface{}{
		"count": len(open),
		"tasks": open,
	}

	jsonData, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal task data: %w", err)
	}

	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     string(jsonData),
		},
	}, nil
}

// handleProjectPlans returns every saved project plan as JSON
func handleProjectPlans(ctx context.Context, request mcp.ReadResourceRequest, sc *server.ServerContext) ([]mcp.ResourceContents, error) {
	projects := sc.TaskStore().ListProjects()

	payload := map[string]interface{}{
		"count":    len(projects),
		"projects": projects,
	}

	jsonData, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal project data: %w", err)
	}

	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     string(jsonData),
		},
	}, nil
}
