package secretary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/vikas-kashyap97/Jarvis-AI/internal/calendar"
	"github.com/vikas-kashyap97/Jarvis-AI/internal/gmail"
	"github.com/vikas-kashyap97/Jarvis-AI/internal/intent"
	"github.com/vikas-kashyap97/Jarvis-AI/internal/logging"
	"github.com/vikas-kashyap97/Jarvis-AI/internal/openai"
	"github.com/vikas-kashyap97/Jarvis-AI/internal/planner"
	"github.com/vikas-kashyap97/Jarvis-AI/internal/tasks"
	"github.com/vikas-kashyap97/Jarvis-AI/internal/team"
)

// chatSystemPrompt steers the conversational fallback.
const chatSystemPrompt = "You are a direct and concise AI agent for an organization. " +
	"Provide short, to-the-point answers and do not continue repeating Goodbyes. " +
	"End after conveying necessary information."

// defaultHistoryLimit bounds the conversational history kept in memory.
const defaultHistoryLimit = 20

// LLM is the chat surface the secretary needs for summaries and the
// conversational fallback.
type LLM interface {
	Chat(ctx context.Context, req openai.ChatRequest) (*openai.ChatResponse, error)
}

// Calendar is the calendar surface the meeting flows need.
type Calendar interface {
	ListEvents(calendarID string, timeMin, timeMax time.Time, query string) ([]calendar.EventSummary, error)
	ListUpcoming(calendarID string, maxResults int64) ([]calendar.EventSummary, error)
	GetEvent(calendarID, eventID string) (*calendar.EventSummary, error)
	CreateEvent(calendarID string, input calendar.EventInput) (*calendar.EventSummary, error)
	UpdateEvent(calendarID, eventID string, input calendar.EventInput) (*calendar.EventSummary, error)
	DeleteEvent(calendarID, eventID string) error
}

// Mail is the Gmail surface the email flows need.
type Mail interface {
	ListMessages(query string, maxResults int64) ([]gmail.EmailSummary, error)
	Search(criteria gmail.SearchCriteria) ([]gmail.EmailSummary, error)
	ListLabels() ([]gmail.LabelInfo, error)
	SendEmail(msg *gmail.EmailMessage) (string, error)
	SearchContacts(query string, pageSize int) ([]*gmail.Contact, error)
}

// ProjectPlanner runs project planning end to end.
type ProjectPlanner interface {
	Plan(ctx context.Context, projectID, objective string) (*planner.Result, error)
}

// Reply is the secretary's answer to one command. Spoken marks replies
// that read naturally aloud; list-shaped output leaves it false so voice
// frontends can skip synthesis.
type Reply struct {
	Text   string
	Spoken bool
}

// Config wires a Secretary. Detector, LLM, Store, Roster and Intercom
// are required. Calendar, Mail and Planner are optional; commands that
// need a missing one answer with a service-unavailable message.
type Config struct {
	LLM      LLM
	Detector *intent.Detector
	Calendar Calendar
	Mail     Mail
	Planner  ProjectPlanner
	Store    *tasks.Store
	Roster   *team.Roster
	Intercom *team.Intercom

	// Node is the operator identity notifications are sent as.
	// Defaults to "user".
	Node string

	// HistoryLimit bounds the chat history. Defaults to 20 messages.
	HistoryLimit int

	Logger *slog.Logger
	Now    func() time.Time
}

// Secretary dispatches user commands and owns the multi-turn state of
// the meeting and email flows. Commands are handled one at a time; the
// conversational state belongs to a single principal.
type Secretary struct {
	llm      LLM
	detector *intent.Detector
	cal      Calendar
	mail     Mail
	planner  ProjectPlanner
	store    *tasks.Store
	roster   *team.Roster
	intercom *team.Intercom
	node     string
	logger   *slog.Logger
	now      func() time.Time

	mu           sync.Mutex
	history      []openai.Message
	historyLimit int
	meeting      *meetingFlow
	email        *emailFlow
}

// New creates a Secretary from cfg, applying defaults for optional
// fields.
func New(cfg Config) *Secretary {
	if cfg.Node == "" {
		cfg.Node = "user"
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = defaultHistoryLimit
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Secretary{
		llm:          cfg.LLM,
		detector:     cfg.Detector,
		cal:          cfg.Calendar,
		mail:         cfg.Mail,
		planner:      cfg.Planner,
		store:        cfg.Store,
		roster:       cfg.Roster,
		intercom:     cfg.Intercom,
		node:         cfg.Node,
		historyLimit: cfg.HistoryLimit,
		logger:       cfg.Logger,
		now:          cfg.Now,
	}
}

// HandleCommand processes one user command: pending flows consume the
// message first, then the detection ladder decides which handler runs.
func (s *Secretary) HandleCommand(ctx context.Context, text string) (*Reply, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("command text is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// An active flow owns the message wholesale: answers to its
	// questions must not be re-classified as new commands.
	if s.meeting != nil {
		return s.continueMeetingCreation(ctx, text)
	}
	if s.email != nil {
		return s.continueEmailComposition(ctx, text)
	}

	res, err := s.detector.Parse(ctx, text)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("command classified", logging.Intent(string(res.Kind)))

	switch res.Kind {
	case intent.KindPlanProject:
		return s.handlePlan(ctx, res.Plan)
	case intent.KindListTasks:
		return s.handleListTasks(), nil
	case intent.KindCalendar:
		return s.handleCalendar(ctx, text, res.Calendar)
	case intent.KindSendEmail:
		return s.startEmailComposition(res.SendEmail), nil
	case intent.KindEmailQuery:
		return s.handleEmailQuery(ctx, res.Email)
	default:
		return s.chat(ctx, text)
	}
}

// InFlow reports whether a multi-turn flow is waiting for an answer.
func (s *Secretary) InFlow() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.meeting != nil || s.email != nil
}

// ResetFlows abandons any pending meeting or email flow.
func (s *Secretary) ResetFlows() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.meeting = nil
	s.email = nil
}

// handlePlan delegates to the planner. A malformed model plan degrades
// to the fixed user-facing reply instead of an error.
func (s *Secretary) handlePlan(ctx context.Context, cmd *intent.PlanCommand) (*Reply, error) {
	if s.planner == nil {
		return &Reply{Text: "Project planning is not available.", Spoken: true}, nil
	}
	res, err := s.planner.Plan(ctx, cmd.ProjectID, cmd.Objective)
	if err != nil {
		if errors.Is(err, planner.ErrInvalidPlanFormat) {
			return &Reply{Text: planner.InvalidFormatReply, Spoken: true}, nil
		}
		return nil, err
	}
	return &Reply{Text: res.Summary}, nil
}

// handleListTasks renders the operator's open tasks.
func (s *Secretary) handleListTasks() *Reply {
	return &Reply{Text: tasks.FormatList(s.node, s.store.ListForMember(s.node))}
}

// handleCalendar routes a detected calendar command to its flow.
func (s *Secretary) handleCalendar(ctx context.Context, text string, cal *intent.CalendarIntent) (*Reply, error) {
	switch cal.Action {
	case intent.ActionScheduleMeeting:
		if len(cal.MissingInfo) > 0 {
			return s.startMeetingCreation(text, cal.MissingInfo), nil
		}
		reply, _, err := s.scheduleFromMessage(ctx, text)
		return reply, err
	case intent.ActionCancelMeeting:
		return s.handleCancellation(ctx, text)
	case intent.ActionListMeetings:
		return s.handleListMeetings()
	case intent.ActionRescheduleMeeting:
		return s.handleRescheduling(ctx, text)
	}
	return s.chat(ctx, text)
}

// chat is the conversational fallback with bounded history. A failed
// model call degrades to a fixed reply so conversation can continue.
func (s *Secretary) chat(ctx context.Context, text string) (*Reply, error) {
	s.appendHistory(openai.Message{Role: "user", Content: text})

	reply, err := s.queryLLM(ctx, s.history)
	if err != nil {
		s.logger.Warn("chat completion failed", logging.Err(err))
		return &Reply{Text: "LLM query failed.", Spoken: true}, nil
	}

	s.appendHistory(openai.Message{Role: "assistant", Content: reply})
	return &Reply{Text: reply, Spoken: true}, nil
}

// queryLLM runs a chat completion with the secretary system prompt.
func (s *Secretary) queryLLM(ctx context.Context, messages []openai.Message) (string, error) {
	req := openai.ChatRequest{
		Messages:    append([]openai.Message{{Role: "system", Content: chatSystemPrompt}}, messages...),
		Temperature: openai.DefaultTemperature,
		MaxTokens:   openai.DefaultMaxTokens,
	}
	resp, err := s.llm.Chat(ctx, req)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Content()), nil
}

func (s *Secretary) appendHistory(msg openai.Message) {
	s.history = append(s.history, msg)
	if len(s.history) > s.historyLimit {
		s.history = s.history[len(s.history)-s.historyLimit:]
	}
}
