package instrumentation

import "testing"

func TestExtractUserDomain(t *testing.T) {
	tests := []struct {
		name  string
		email string
		want  string
	}{
		{"plain address", "vikas@example.com", "example.com"},
		{"subdomain", "oncall@pager.example.com", "pager.example.com"},
		{"no at sign", "not-an-email", "unknown"},
		{"empty", "", "unknown"},
		{"bare at sign", "@", "unknown"},
		{"missing domain", "vikas@", "unknown"},
		{"missing local part", "@example.com", "example.com"},
		{"double at sign", "a@b@c", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractUserDomain(tt.email); got != tt.want {
				t.Errorf("ExtractUserDomain(%q) = %q, want %q", tt.email, got, tt.want)
			}
		})
	}
}

func TestOperationConstants(t *testing.T) {
	// The label values are part of the metrics contract; dashboards
	// key on them.
	want := map[string]string{
		OperationList:       "list",
		OperationGet:        "get",
		OperationCreate:     "create",
		OperationUpdate:     "update",
		OperationDelete:     "delete",
		OperationSend:       "send",
		OperationSearch:     "search",
		OperationChat:       "chat",
		OperationTranscribe: "transcribe",
		OperationSpeech:     "speech",
	}

	for got, expected := range want {
		if got != expected {
			t.Errorf("operation constant = %q, want %q", got, expected)
		}
	}
}
