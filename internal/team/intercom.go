package team

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/vikas-kashyap97/Jarvis-AI/internal/logging"
	"github.com/vikas-kashyap97/Jarvis-AI/internal/tasks"
)

// SenderSystem is the sender name used for automated notifications.
const SenderSystem = "system"

// historyLimit caps the number of messages the intercom keeps in memory.
const historyLimit = 200

// Message is one intercom delivery.
type Message struct {
	From    string    `json:"from"`
	To      string    `json:"to"`
	Content string    `json:"content"`
	SentAt  time.Time `json:"sent_at"`
}

// Intercom delivers notifications between team members and keeps a
// bounded history. Every send is recorded, even when the recipient is
// unknown.
type Intercom struct {
	roster *Roster
	logger *slog.Logger

	mu      sync.Mutex
	history []Message
}

// NewIntercom creates an intercom for the given roster. A nil logger
// falls back to slog.Default().
func NewIntercom(roster *Roster, logger *slog.Logger) *Intercom {
	if logger == nil {
		logger = slog.Default()
	}
	return &Intercom{roster: roster, logger: logger}
}

// Send records and delivers a message. Unknown recipients are recorded
// but reported as an error.
func (ic *Intercom) Send(from, to, content string) error {
	ic.record(Message{From: from, To: to, Content: content, SentAt: time.Now()})

	if _, ok := ic.roster.Get(to); !ok {
		return fmt.Errorf("member %q not found in the roster", to)
	}
	ic.logger.Info("intercom message delivered",
		slog.String("from", from),
		slog.String("to", to),
		slog.Int("chars", len(content)))
	return nil
}

// Notify sends the same message to several members. Unknown recipients
// are skipped with a warning instead of failing the whole broadcast.
func (ic *Intercom) Notify(from string, recipients []string, content string) {
	for _, to := range recipients {
		if err := ic.Send(from, to, content); err != nil {
			ic.logger.Warn("notification skipped", logging.Err(err))
		}
	}
}

// TaskAssigned notifies a member that a task has been assigned to them.
func (ic *Intercom) TaskAssigned(t tasks.Task) {
	if t.AssignedTo == "" {
		return
	}
	content := fmt.Sprintf("New task assigned: %s. Due: %s. Priority: %s.",
		t.Title, t.DueDate.Format("2006-01-02"), t.Priority)
	if err := ic.Send(SenderSystem, t.AssignedTo, content); err != nil {
		ic.logger.Warn("task notification skipped", logging.Err(err))
	}
}

// History returns up to limit messages, oldest first. A non-positive
// limit returns everything retained.
func (ic *Intercom) History(limit int) []Message {
	ic.mu.Lock()
	defer ic.mu.Unlock()

	n := len(ic.history)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]Message, n)
	copy(out, ic.history[len(ic.history)-n:])
	return out
}

func (ic *Intercom) record(msg Message) {
	ic.mu.Lock()
	defer ic.mu.Unlock()

	ic.history = append(ic.history, msg)
	if len(ic.history) > historyLimit {
		ic.history = ic.history[len(ic.history)-historyLimit:]
	}
}
