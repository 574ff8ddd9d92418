package server

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/vikas-kashyap97/Jarvis-AI/internal/logging"
)

func TestBearerAuthMiddleware(t *testing.T) {
	okHandler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	tests := []struct {
		name       string
		token      string
		path       string
		authHeader string
		wantStatus int
	}{
		{
			name:       "valid token",
			token:      "secret",
			path:       "/mcp",
			authHeader: "Bearer secret",
			wantStatus: http.StatusOK,
		},
		{
			name:       "wrong token",
			token:      "secret",
			path:       "/mcp",
			authHeader: "Bearer wrong",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "missing header",
			token:      "secret",
			path:       "/mcp",
			authHeader: "",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "non-bearer scheme",
			token:      "secret",
			path:       "/mcp",
			authHeader: "Basic c2VjcmV0",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "case-insensitive scheme",
			token:      "secret",
			path:       "/mcp",
			authHeader: "bearer secret",
			wantStatus: http.StatusOK,
		},
		{
			name:       "healthz exempt",
			token:      "secret",
			path:       "/healthz",
			authHeader: "",
			wantStatus: http.StatusOK,
		},
		{
			name:       "readyz exempt",
			token:      "secret",
			path:       "/readyz",
			authHeader: "",
			wantStatus: http.StatusOK,
		},
		{
			name:       "empty token disables auth",
			token:      "",
			path:       "/mcp",
			authHeader: "",
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := BearerAuthMiddleware(tt.token, logging.NopLogger(), okHandler)

			req := httptest.NewRequest(http.MethodPost, tt.path, nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusUnauthorized {
				if got := rec.Header().Get("WWW-Authenticate"); got == "" {
					t.Error("expected WWW-Authenticate header on 401 response")
				}
			}
		})
	}
}

func TestBearerAuthMiddlewareRejectionLogSanitizesToken(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	handler := BearerAuthMiddleware("secret", logger, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/mcp", nil)
	req.Header.Set("Authorization", "Bearer stolen-credential")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}

	out := buf.String()
	if !strings.Contains(out, "invalid bearer token") {
		t.Errorf("rejection was not logged: %q", out)
	}
	if strings.Contains(out, "stolen-credential") {
		t.Errorf("raw token leaked into the log: %q", out)
	}
	if !strings.Contains(out, "[token:17 chars]") {
		t.Errorf("expected sanitized token length in log: %q", out)
	}
}
