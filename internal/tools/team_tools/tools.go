package team_tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/vikas-kashyap97/Jarvis-AI/internal/server"
	"github.com/vikas-kashyap97/Jarvis-AI/internal/team"
	"github.com/vikas-kashyap97/Jarvis-AI/internal/tools/common"
)

// RegisterTeamTools registers team roster tools with the MCP server.
// Write tools are only registered if readOnly is false.
func RegisterTeamTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	listMembersTool := mcp.NewTool("team_list_members",
		mcp.WithDescription("List the team roster: the members tasks can be assigned to and meetings scheduled with"),
	)

	s.AddTool(listMembersTool, common.InstrumentedToolHandler(
		"team_list_members", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListMembers(ctx, request, sc)
		}))

	if !readOnly {
		addMemberTool := mcp.NewTool("team_add_member",
			mcp.WithDescription("Add a member to the team roster, or update the member with the same name. The roster change lasts for the lifetime of the server."),
			mcp.WithString("name",
				mcp.Required(),
				mcp.Description("Member name, e.g. 'engineering' or 'dana'"),
			),
			mcp.WithString("email",
				mcp.Required(),
				mcp.Description("Member email address"),
			),
			mcp.WithString("role",
				mcp.Description("Role used when resolving plan stakeholders, e.g. 'Engineering'"),
			),
		)

		s.AddTool(addMemberTool, common.InstrumentedToolHandler(
			"team_add_member", sc,
			func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				return handleAddMember(ctx, request, sc)
			}))
	}

	return nil
}

func handleListMembers(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	members := sc.Roster().Members()
	if len(members) == 0 {
		return mcp.NewToolResultText("The team roster is empty."), nil
	}

	var result strings.Builder
	fmt.Fprintf(&result, "Team roster (%d member(s)):\n", len(members))
	for _, m := range members {
		fmt.Fprintf(&result, "- %s <%s>", m.Name, m.Email)
		if m.Role != "" {
			fmt.Fprintf(&result, " (%s)", m.Role)
		}
		result.WriteString("\n")
	}

	return mcp.NewToolResultText(strings.TrimRight(result.String(), "\n")), nil
}

func handleAddMember(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	name, ok := args["name"].(string)
	if !ok || strings.TrimSpace(name) == "" {
		return mcp.NewToolResultError("name is required"), nil
	}

	email, ok := args["email"].(string)
	if !ok || strings.TrimSpace(email) == "" {
		return mcp.NewToolResultError("email is required"), nil
	}

	role, _ := args["role"].(string)

	member := team.Member{
		Name:  strings.TrimSpace(name),
		Email: strings.TrimSpace(email),
		Role:  strings.TrimSpace(role),
	}
	if err := sc.Roster().Register(member); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to add member: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Member '%s' <%s> added to the roster.",
		strings.ToLower(member.Name), member.Email)), nil
}
