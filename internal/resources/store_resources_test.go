package resources

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/vikas-kashyap97/Jarvis-AI/internal/config"
	"github.com/vikas-kashyap97/Jarvis-AI/internal/logging"
	"github.com/vikas-kashyap97/Jarvis-AI/internal/server"
	"github.com/vikas-kashyap97/Jarvis-AI/internal/tasks"
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

func readResourceText(t *testing.T, contents []mcp.ResourceContents) string {
	t.Helper()
	if len(contents) == 0 {
		t.Fatal("resource returned no contents")
	}
	text, ok := contents[0].(*mcp.TextResourceContents)
	if !ok {
		t.Fatalf("unexpected contents type %T", contents[0])
	}
	return text.Text
}

// TestRegisterStoreResources tests the registration of store resources
func TestRegisterStoreResources(t *testing.T) {
	sc := newTestServerContext(t)

	mcpSrv := mcpserver.NewMCPServer("test-server", "1.0.0",
		mcpserver.WithResourceCapabilities(false, false),
	)

	if err := RegisterStoreResources(mcpSrv, sc); err != nil {
		t.Errorf("RegisterStoreResources() error = %v", err)
	}
}

// TestHandleOpenTasks tests that only open tasks are served
func TestHandleOpenTasks(t *testing.T) {
	ctx := context.Background()
	sc := newTestServerContext(t)

	open, err := sc.TaskStore().Add(tasks.TaskInput{Title: "Write launch email"})
	if err != nil {
		t.Fatalf("failed to add task: %v", err)
	}
	done, err := sc.TaskStore().Add(tasks.TaskInput{Title: "Book venue"})
	if err != nil {
		t.Fatalf("failed to add task: %v", err)
	}
	if _, err := sc.TaskStore().Complete(done.ID); err != nil {
		t.Fatalf("failed to complete task: %v", err)
	}

	request := mcp.ReadResourceRequest{
		Params: mcp.ReadResourceParams{URI: "tasks://open"},
	}

	contents, err := handleOpenTasks(ctx, request, sc)
	if err != nil {
		t.Fatalf("handleOpenTasks() error = %v", err)
	}

	var payload struct {
		Count int          `json:"count"`
		Tasks []tasks.Task `json:"tasks"`
	}
	if err := json.Unmarshal([]byte(readResourceText(t, contents)), &payload); err != nil {
		t.Fatalf("resource is not valid JSON: %v", err)
	}

	if payload.Count != 1 {
		t.Errorf("count = %d, want 1", payload.Count)
	}
	if len(payload.Tasks) != 1 || payload.Tasks[0].ID != open.ID {
		t.Errorf("expected only the open task, got %+v", payload.Tasks)
	}
}

// TestHandleProjectPlans tests that saved plans are served
func TestHandleProjectPlans(t *testing.T) {
	ctx := context.Background()
	sc := newTestServerContext(t)

	if _, err := sc.TaskStore().SaveProject(tasks.Project{
		ID:           "launch",
		Objective:    "Ship the fall release",
		Stakeholders: []string{"engineering", "marketing"},
		Steps:        []tasks.PlanStep{{Description: "Freeze the feature set"}},
	}); err != nil {
		t.Fatalf("failed to save project: %v", err)
	}

	request := mcp.ReadResourceRequest{
		Params: mcp.ReadResourceParams{URI: "projects://plans"},
	}

	contents, err := handleProjectPlans(ctx, request, sc)
	if err != nil {
		t.Fatalf("handleProjectPlans() error = %v", err)
	}

	var payload struct {
		Count    int             `json:"count"`
		Projects []tasks.Project `json:"projects"`
	}
	if err := json.Unmarshal([]byte(readResourceText(t, contents)), &payload); err != nil {
		t.Fatalf("resource is not valid JSON: %v", err)
	}

	if payload.Count != 1 {
		t.Errorf("count = %d, want 1", payload.Count)
	}
	if len(payload.Projects) != 1 || payload.Projects[0].ID != "launch" {
		t.Errorf("expected the saved project, got %+v", payload.Projects)
	}
}
