package team_tools

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/vikas-kashyap97/Jarvis-AI/internal/config"
	"github.com/vikas-kashyap97/Jarvis-AI/internal/logging"
	"github.com/vikas-kashyap97/Jarvis-AI/internal/server"
)

func newTestServerContext(t *testing.T) *server.ServerContext {
	t.Helper()

	tmp := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", tmp)
	t.Setenv("HOME", tmp)

	cfg := &config.Config{}
	cfg.Store.TasksFile = filepath.Join(tmp, "tasks.json")

	sc, err := server.NewServerContext(context.Background(), cfg, logging.NopLogger())
	if err != nil {
		t.Fatalf("Failed to create server context: %v", err)
	}
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

func newRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

// TestRegisterTeamTools tests tool registration in both server modes
func TestRegisterTeamTools(t *testing.T) {
	tests := []struct {
		name     string
		readOnly bool
	}{
		{name: "read-write mode", readOnly: false},
		{name: "read-only mode", readOnly: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := newTestServerContext(t)

			mcpSrv := mcpserver.NewMCPServer("test-server", "1.0.0",
				mcpserver.WithToolCapabilities(true),
			)

			if err := RegisterTeamTools(mcpSrv, sc, tt.readOnly); err != nil {
				t.Errorf("RegisterTeamTools() error = %v", err)
			}
		})
	}
}

// TestHandleListMembers tests the roster listing with the default team
func TestHandleListMembers(t *testing.T) {
	ctx := context.Background()
	sc := newTestServerContext(t)

	result, err := handleListMembers(ctx, newRequest("team_list_members", map[string]interface{}{}), sc)

	if err != nil {
		t.Fatalf("handleListMembers() unexpected error = %v", err)
	}
	if result.IsError {
		t.Fatalf("handleListMembers() returned error result: %+v", result)
	}

	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("unexpected content type %T", result.Content[0])
	}
	if !strings.Contains(text.Text, "4 member(s)") {
		t.Errorf("expected the default four-member roster, got %q", text.Text)
	}
	if !strings.Contains(text.Text, "engineering <engineering@example.com>") {
		t.Errorf("expected the engineering member in the listing, got %q", text.Text)
	}
}

// TestHandleAddMember tests adding a roster member and seeing it listed
func TestHandleAddMember(t *testing.T) {
	ctx := context.Background()
	sc := newTestServerContext(t)

	result, err := handleAddMember(ctx, newRequest("team_add_member", map[string]interface{}{
		"name":  "Dana",
		"email": "dana@example.com",
		"role":  "QA",
	}), sc)

	if err != nil {
		t.Fatalf("handleAddMember() unexpected error = %v", err)
	}
	if result.IsError {
		t.Fatalf("handleAddMember() returned error result: %+v", result)
	}

	// The name is normalized to lower case on registration.
	member, ok := sc.Roster().Get("dana")
	if !ok {
		t.Fatal("expected dana in the roster after adding")
	}
	if member.Email != "dana@example.com" {
		t.Errorf("member email = %q, want dana@example.com", member.Email)
	}
	if member.Role != "QA" {
		t.Errorf("member role = %q, want QA", member.Role)
	}
}

// TestHandleAddMemberValidation tests input validation for handleAddMember
func TestHandleAddMemberValidation(t *testing.T) {
	ctx := context.Background()
	sc := newTestServerContext(t)

	tests := []struct {
		name string
		args map[string]interface{}
	}{
		{
			name: "missing name",
			args: map[string]interface{}{
				"email": "dana@example.com",
			},
		},
		{
			name: "missing email",
			args: map[string]interface{}{
				"name": "dana",
			},
		},
		{
			name: "invalid email",
			args: map[string]interface{}{
				"name":  "dana",
				"email": "not-an-address",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := handleAddMember(ctx, newRequest("team_add_member", tt.args), sc)

			if err != nil {
				t.Errorf("handleAddMember() unexpected error = %v", err)
			}
			if result == nil {
				t.Fatal("handleAddMember() returned nil result")
			}
			if !result.IsError {
				t.Error("expected error result for invalid input")
			}

			if _, ok := sc.Roster().Get("dana"); ok {
				t.Error("invalid member should not be registered")
			}
		})
	}
}
