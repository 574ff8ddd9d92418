package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/vikas-kashyap97/Jarvis-AI/internal/config"
	"github.com/vikas-kashyap97/Jarvis-AI/internal/logging"
	"github.com/vikas-kashyap97/Jarvis-AI/internal/server"
	"github.com/vikas-kashyap97/Jarvis-AI/internal/tasks"
)

func newTestServer(t *testing.T) *Server {
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

	return New(sc, "")
}

func doJSON(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/health", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status = %v, want ok", body["status"])
	}
}

func TestListTasks(t *testing.T) {
	s := newTestServer(t)

	open, err := s.sc.TaskStore().Add(tasks.TaskInput{Title: "Write launch email", AssignedTo: "marketing"})
	if err != nil {
		t.Fatalf("failed to add task: %v", err)
	}
	done, err := s.sc.TaskStore().Add(tasks.TaskInput{Title: "Book venue"})
	if err != nil {
		t.Fatalf("failed to add task: %v", err)
	}
	if _, err := s.sc.TaskStore().Complete(done.ID); err != nil {
		t.Fatalf("failed to complete task: %v", err)
	}

	var body struct {
		Count int          `json:"count"`
		Tasks []tasks.Task `json:"tasks"`
	}

	rec := doJSON(t, s, http.MethodGet, "/v1/tasks", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if body.Count != 1 || len(body.Tasks) != 1 || body.Tasks[0].ID != open.ID {
		t.Errorf("expected only the open task, got %+v", body)
	}

	rec = doJSON(t, s, http.MethodGet, "/v1/tasks?includeDone=true", "")
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if body.Count != 2 {
		t.Errorf("count with includeDone = %d, want 2", body.Count)
	}

	rec = doJSON(t, s, http.MethodGet, "/v1/tasks?includeDone=maybe", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status for bad includeDone = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestListProjects(t *testing.T) {
	s := newTestServer(t)

	if _, err := s.sc.TaskStore().SaveProject(tasks.Project{
		ID:        "launch",
		Objective: "Ship the fall release",
	}); err != nil {
		t.Fatalf("failed to save project: %v", err)
	}

	rec := doJSON(t, s, http.MethodGet, "/v1/projects", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var body struct {
		Count    int             `json:"count"`
		Projects []tasks.Project `json:"projects"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if body.Count != 1 || len(body.Projects) != 1 || body.Projects[0].ID != "launch" {
		t.Errorf("expected the saved project, got %+v", body)
	}
}

func TestListTeam(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/v1/team", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var body struct {
		Count   int `json:"count"`
		Members []struct {
			Name  string `json:"name"`
			Email string `json:"email"`
		} `json:"members"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if body.Count != 4 {
		t.Errorf("count = %d, want the default four members", body.Count)
	}
}

func TestCommand(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantReply  string
	}{
		{
			name:       "missing text",
			body:       `{}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown node",
			body:       `{"node": "frontdesk", "text": "tasks"}`,
			wantStatus: http.StatusNotFound,
		},
		{
			// The tasks keyword never touches the model, so an empty
			// store answers deterministically.
			name:       "tasks fast path",
			body:       `{"text": "tasks"}`,
			wantStatus: http.StatusOK,
			wantReply:  "No tasks assigned to",
		},
		{
			name:       "operator node accepted",
			body:       `{"node": "user", "text": "tasks"}`,
			wantStatus: http.StatusOK,
			wantReply:  "No tasks assigned to",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, s, http.MethodPost, "/v1/command", tt.body)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantReply == "" {
				return
			}

			var body CommandResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("response is not valid JSON: %v", err)
			}
			if !strings.Contains(body.Reply, tt.wantReply) {
				t.Errorf("reply = %q, want it to contain %q", body.Reply, tt.wantReply)
			}
		})
	}
}

func TestTranscribeValidation(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{
			name:       "missing audio_data",
			body:       `{}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid base64",
			body:       `{"audio_data": "not base64!!!"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown node",
			body:       `{"node": "frontdesk", "audio_data": "aGVsbG8="}`,
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, s, http.MethodPost, "/v1/transcribe", tt.body)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
		})
	}
}

func TestSpeakValidation(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/v1/speak", `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}
