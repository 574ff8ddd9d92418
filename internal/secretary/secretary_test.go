package secretary

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vikas-kashyap97/Jarvis-AI/internal/intent"
	"github.com/vikas-kashyap97/Jarvis-AI/internal/logging"
	"github.com/vikas-kashyap97/Jarvis-AI/internal/openai"
	"github.com/vikas-kashyap97/Jarvis-AI/internal/planner"
	"github.com/vikas-kashyap97/Jarvis-AI/internal/tasks"
	"github.com/vikas-kashyap97/Jarvis-AI/internal/team"
)

// Distinctive fragments of the detector prompts, used to route canned
// replies in scriptedChatter.
const (
	promptCalendarDetect    = "calendar-related command"
	promptSendEmailDetect   = "requesting to send an email"
	promptEmailAnalyze      = "email-related command in detail"
	promptMeetingExtract    = "Extract complete meeting details"
	promptCancelExtract     = "Extract meeting cancellation details"
	promptRescheduleExtract = "Extract meeting rescheduling details"
)

// scriptedChatter feeds the intent detector canned JSON replies, matched
// by prompt fragment and consumed in order. Unscripted prompts get an
// empty object, which every rung treats as "not this intent".
type scriptedChatter struct {
	replies map[string][]string
	prompts []string
}

func (f *scriptedChatter) CompleteJSON(_ context.Context, _, user string) (string, error) {
	f.prompts = append(f.prompts, user)
	for key, queue := range f.replies {
		if strings.Contains(user, key) && len(queue) > 0 {
			f.replies[key] = queue[1:]
			return queue[0], nil
		}
	}
	return "{}", nil
}

func (f *scriptedChatter) script(key, reply string) {
	f.replies[key] = append(f.replies[key], reply)
}

func (f *scriptedChatter) promptsContaining(key string) []string {
	var out []string
	for _, p := range f.prompts {
		if strings.Contains(p, key) {
			out = append(out, p)
		}
	}
	return out
}

// fakeChat answers the secretary's own chat completions.
type fakeChat struct {
	reply    string
	err      error
	requests []openai.ChatRequest
}

func (f *fakeChat) Chat(_ context.Context, req openai.ChatRequest) (*openai.ChatResponse, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return &openai.ChatResponse{Choices: []openai.Choice{
		{Message: openai.Message{Role: "assistant", Content: f.reply}},
	}}, nil
}

type fakePlanner struct {
	projectID string
	objective string
	result    *planner.Result
	err       error
}

func (f *fakePlanner) Plan(_ context.Context, projectID, objective string) (*planner.Result, error) {
	f.projectID = projectID
	f.objective = objective
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

var testNow = time.Date(2026, 8, 25, 10, 0, 0, 0, time.Local)

type testEnv struct {
	sec      *Secretary
	chatter  *scriptedChatter
	llm      *fakeChat
	cal      *fakeCalendar
	mail     *fakeMail
	store    *tasks.Store
	intercom *team.Intercom
}

func newTestSecretary(t *testing.T, mutate ...func(*Config)) *testEnv {
	t.Helper()

	store, err := tasks.NewStore(filepath.Join(t.TempDir(), "tasks.json"))
	require.NoError(t, err)

	logger := logging.NopLogger()
	roster := team.DefaultRoster()
	env := &testEnv{
		chatter:  &scriptedChatter{replies: map[string][]string{}},
		llm:      &fakeChat{reply: "Understood."},
		cal:      &fakeCalendar{},
		mail:     &fakeMail{},
		store:    store,
		intercom: team.NewIntercom(roster, logger),
	}

	cfg := Config{
		LLM:      env.llm,
		Detector: intent.NewDetector(env.chatter, logger),
		Calendar: env.cal,
		Mail:     env.mail,
		Store:    store,
		Roster:   roster,
		Intercom: env.intercom,
		Node:     "ceo",
		Logger:   logger,
		Now:      func() time.Time { return testNow },
	}
	for _, m := range mutate {
		m(&cfg)
	}
	env.sec = New(cfg)
	return env
}

func TestHandleCommandRequiresText(t *testing.T) {
	env := newTestSecretary(t)

	_, err := env.sec.HandleCommand(context.Background(), "   ")
	require.Error(t, err)
}

func TestTasksCommandListsOperatorTasks(t *testing.T) {
	env := newTestSecretary(t)

	reply, err := env.sec.HandleCommand(context.Background(), "tasks")
	require.NoError(t, err)
	assert.Equal(t, "No tasks assigned to ceo.", reply.Text)
	assert.False(t, reply.Spoken)

	_, err = env.store.Add(tasks.TaskInput{
		Title:      "Prepare board deck",
		DueDate:    time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC),
		AssignedTo: "ceo",
		Priority:   tasks.PriorityHigh,
	})
	require.NoError(t, err)

	reply, err = env.sec.HandleCommand(context.Background(), "tasks")
	require.NoError(t, err)
	assert.Equal(t, "Tasks for ceo:\n1. Prepare board deck (Due: 2026-08-28, Priority: high)", reply.Text)

	// The literal command never consults the model.
	assert.Empty(t, env.chatter.prompts)
}

func TestPlanCommandRoutesToPlanner(t *testing.T) {
	fp := &fakePlanner{result: &planner.Result{Summary: "Project 'apollo' plan created."}}
	env := newTestSecretary(t, func(c *Config) { c.Planner = fp })

	reply, err := env.sec.HandleCommand(context.Background(), "plan apollo = Launch the beta")
	require.NoError(t, err)

	assert.Equal(t, "apollo", fp.projectID)
	assert.Equal(t, "Launch the beta", fp.objective)
	assert.Equal(t, "Project 'apollo' plan created.", reply.Text)
	assert.False(t, reply.Spoken)
}

func TestPlanCommandWithoutPlanner(t *testing.T) {
	env := newTestSecretary(t)

	reply, err := env.sec.HandleCommand(context.Background(), "plan apollo = Launch the beta")
	require.NoError(t, err)
	assert.Equal(t, "Project planning is not available.", reply.Text)
}

func TestPlanCommandMalformedPlanDegrades(t *testing.T) {
	fp := &fakePlanner{err: fmt.Errorf("planning apollo: %w", planner.ErrInvalidPlanFormat)}
	env := newTestSecretary(t, func(c *Config) { c.Planner = fp })

	reply, err := env.sec.HandleCommand(context.Background(), "plan apollo = Launch the beta")
	require.NoError(t, err)
	assert.Equal(t, planner.InvalidFormatReply, reply.Text)
}

func TestPlanCommandOperationalErrorPropagates(t *testing.T) {
	fp := &fakePlanner{err: errors.New("store write failed")}
	env := newTestSecretary(t, func(c *Config) { c.Planner = fp })

	_, err := env.sec.HandleCommand(context.Background(), "plan apollo = Launch the beta")
	require.Error(t, err)
}

func TestChatFallbackKeepsHistory(t *testing.T) {
	env := newTestSecretary(t)
	env.llm.reply = "Hello there."

	reply, err := env.sec.HandleCommand(context.Background(), "How is the weather?")
	require.NoError(t, err)
	assert.Equal(t, "Hello there.", reply.Text)
	assert.True(t, reply.Spoken)

	// All three model rungs of the ladder were consulted before chat.
	assert.Len(t, env.chatter.prompts, 3)

	require.Len(t, env.llm.requests, 1)
	msgs := env.llm.requests[0].Messages
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].Role)
	assert.Contains(t, msgs[0].Content, "direct and concise AI agent")
	assert.Equal(t, "user", msgs[1].Role)
	assert.Equal(t, "How is the weather?", msgs[1].Content)

	_, err = env.sec.HandleCommand(context.Background(), "Thanks!")
	require.NoError(t, err)

	require.Len(t, env.llm.requests, 2)
	msgs = env.llm.requests[1].Messages
	require.Len(t, msgs, 4)
	assert.Equal(t, "Hello there.", msgs[2].Content)
	assert.Equal(t, "Thanks!", msgs[3].Content)
}

func TestChatDegradesWhenModelFails(t *testing.T) {
	env := newTestSecretary(t)
	env.llm.err = errors.New("connection refused")

	reply, err := env.sec.HandleCommand(context.Background(), "Hello?")
	require.NoError(t, err)
	assert.Equal(t, "LLM query failed.", reply.Text)
	assert.True(t, reply.Spoken)
}

func TestChatHistoryIsBounded(t *testing.T) {
	env := newTestSecretary(t, func(c *Config) { c.HistoryLimit = 2 })
	env.llm.reply = "Noted."

	_, err := env.sec.HandleCommand(context.Background(), "first message")
	require.NoError(t, err)
	_, err = env.sec.HandleCommand(context.Background(), "second message")
	require.NoError(t, err)

	require.Len(t, env.llm.requests, 2)
	msgs := env.llm.requests[1].Messages
	// System prompt plus the two retained history entries.
	require.Len(t, msgs, 3)
	assert.Equal(t, "Noted.", msgs[1].Content)
	assert.Equal(t, "second message", msgs[2].Content)
}

func TestResetFlowsAbandonsPendingQuestions(t *testing.T) {
	env := newTestSecretary(t)
	env.chatter.script(promptCalendarDetect,
		`{"is_calendar_command": true, "action": "schedule_meeting", "missing_info": ["title"]}`)

	_, err := env.sec.HandleCommand(context.Background(), "Schedule a meeting")
	require.NoError(t, err)
	assert.True(t, env.sec.InFlow())

	env.sec.ResetFlows()
	assert.False(t, env.sec.InFlow())

	// The next message goes through detection again instead of being
	// swallowed as a flow answer.
	before := len(env.chatter.prompts)
	_, err = env.sec.HandleCommand(context.Background(), "Hello again")
	require.NoError(t, err)
	assert.Greater(t, len(env.chatter.prompts), before)
}
