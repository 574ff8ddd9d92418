package instrumentation

import "strings"

// Cardinality helpers for metric label values.
//
// Labels with unbounded value sets (full email addresses, task IDs,
// free-form command text) blow up the time-series count in Prometheus
// and make queries slow and storage expensive. Anything user-derived
// must be reduced to a bounded form before it becomes a label.

// ExtractUserDomain reduces an email address to its domain, the
// low-cardinality identity label used in metrics and general logs.
//
// Example:
//
//	ExtractUserDomain("vikas@example.com")  // "example.com"
//	ExtractUserDomain("not-an-email")       // "unknown"
//	ExtractUserDomain("")                   // "unknown"
func ExtractUserDomain(email string) string {
	if email == "" {
		return "unknown"
	}

	parts := strings.Split(email, "@")
	if len(parts) == 2 && parts[1] != "" {
		return parts[1]
	}

	return "unknown"
}

// Operation label values. Google API calls use the generic CRUD verbs;
// the OpenAI client records its own chat, transcribe, and speech
// operations. Status, OAuth, and Service constants live in config.go.
const (
	OperationList   = "list"
	OperationGet    = "get"
	OperationCreate = "create"
	OperationUpdate = "update"
	OperationDelete = "delete"
	OperationSend   = "send"
	OperationSearch = "search"

	OperationChat       = "chat"
	OperationTranscribe = "transcribe"
	OperationSpeech     = "speech"
)
