package planner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/vikas-kashyap97/Jarvis-AI/internal/calendar"
	"github.com/vikas-kashyap97/Jarvis-AI/internal/docs"
	"github.com/vikas-kashyap97/Jarvis-AI/internal/intent"
	"github.com/vikas-kashyap97/Jarvis-AI/internal/logging"
	"github.com/vikas-kashyap97/Jarvis-AI/internal/openai"
	"github.com/vikas-kashyap97/Jarvis-AI/internal/tasks"
	"github.com/vikas-kashyap97/Jarvis-AI/internal/team"
)

// ErrInvalidPlanFormat reports that the model reply could not be parsed
// as a project plan.
var ErrInvalidPlanFormat = errors.New("plan response was not valid JSON")

// InvalidFormatReply is the user-facing text for ErrInvalidPlanFormat.
const InvalidFormatReply = "Could not generate project plan. The AI's response was not in the expected format."

// taskToolName is the function the model is forced to call when breaking
// a plan step into tasks.
const taskToolName = "create_task"

// LLM is the model client surface the planner needs.
type LLM interface {
	Complete(ctx context.Context, system, user string) (string, error)
	Chat(ctx context.Context, req openai.ChatRequest) (*openai.ChatResponse, error)
}

// Scheduler creates calendar events for kickoff meetings and task
// reminders.
type Scheduler interface {
	CreateEvent(calendarID string, input calendar.EventInput) (*calendar.EventSummary, error)
	CreateTaskReminder(calendarID string, t tasks.Task, assigneeEmail string) (*calendar.EventSummary, error)
}

// DocExporter writes a rendered plan to Google Docs.
type DocExporter interface {
	CreateFromMarkdown(title, markdown string) (*docs.DocumentMetadata, error)
}

// Config wires a Planner. LLM, Store, Roster and Intercom are required;
// Calendar and Exporter are optional and the matching side effects are
// skipped when they are nil.
type Config struct {
	LLM      LLM
	Store    *tasks.Store
	Roster   *team.Roster
	Intercom *team.Intercom

	Calendar Scheduler
	Exporter DocExporter

	// Node is the name notifications are sent as. Defaults to "user".
	Node string

	// PlanDir is where <project>_plan.txt files are written. Defaults
	// to the current directory.
	PlanDir string

	Logger *slog.Logger
	Now    func() time.Time
}

// Planner turns a one-line objective into a stored project plan, a task
// breakdown per step, and a kickoff meeting with the stakeholders.
type Planner struct {
	llm      LLM
	store    *tasks.Store
	roster   *team.Roster
	intercom *team.Intercom
	cal      Scheduler
	exporter DocExporter
	node     string
	planDir  string
	logger   *slog.Logger
	now      func() time.Time
}

// New creates a Planner from cfg, applying defaults for optional fields.
func New(cfg Config) *Planner {
	if cfg.Node == "" {
		cfg.Node = "user"
	}
	if cfg.PlanDir == "" {
		cfg.PlanDir = "."
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Planner{
		llm:      cfg.LLM,
		store:    cfg.Store,
		roster:   cfg.Roster,
		intercom: cfg.Intercom,
		cal:      cfg.Calendar,
		exporter: cfg.Exporter,
		node:     cfg.Node,
		planDir:  cfg.PlanDir,
		logger:   cfg.Logger,
		now:      cfg.Now,
	}
}

// Result is everything a finished planning run produced.
type Result struct {
	Project  tasks.Project
	Summary  string
	PlanPath string
	Meeting  *calendar.EventSummary
	Tasks    []tasks.Task
}

// planData is the JSON shape the model is asked to return.
type planData struct {
	Stakeholders []string `json:"stakeholders"`
	Steps        []struct {
		Description string `json:"description"`
	} `json:"steps"`
	CostEstimate string `json:"cost_estimate"`
}

const planPromptTemplate = `You are creating a detailed project plan for project '%s'.
Objective: %s

The plan should include:
1. All stakeholders involved in the project. Use only these roles: %s.
2. Detailed steps needed to execute the plan, including time and cost estimates.
Each step should be written in paragraphs and full sentences.

Return valid JSON only, with this structure:
{"stakeholders": ["list of stakeholders"], "steps": [{"description": "Detailed step description with time and cost estimates"}]}
Keep it concise. End after providing the JSON. No extra words.`

// Plan generates a plan for the objective, saves it, schedules the
// kickoff meeting and breaks every step into assigned tasks. A model
// reply that is not valid plan JSON returns ErrInvalidPlanFormat;
// failures after the plan is stored degrade to warnings so a flaky
// calendar or notification never loses the plan itself.
func (p *Planner) Plan(ctx context.Context, projectID, objective string) (*Result, error) {
	projectID = strings.TrimSpace(projectID)
	if projectID == "" {
		return nil, fmt.Errorf("project id is required")
	}
	objective = strings.TrimSpace(objective)
	if objective == "" {
		return nil, fmt.Errorf("objective is required")
	}

	prompt := fmt.Sprintf(planPromptTemplate, projectID, objective, strings.Join(p.roleList(), ", "))
	response, err := p.llm.Complete(ctx, "", prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to generate plan: %w", err)
	}

	var data planData
	if err := json.Unmarshal([]byte(intent.ExtractJSON(response)), &data); err != nil {
		p.logger.Warn("plan response is not valid JSON",
			logging.Project(projectID), logging.Err(err))
		return nil, ErrInvalidPlanFormat
	}

	steps := make([]tasks.PlanStep, 0, len(data.Steps))
	for _, s := range data.Steps {
		steps = append(steps, tasks.PlanStep{Description: s.Description})
	}

	project := tasks.Project{
		ID:           projectID,
		Objective:    objective,
		Stakeholders: data.Stakeholders,
		Steps:        steps,
		CostEstimate: data.CostEstimate,
	}
	saved, err := p.store.SaveProject(project)
	if err != nil {
		return nil, fmt.Errorf("failed to save project: %w", err)
	}

	res := &Result{Project: *saved, Summary: PlanSummary(*saved)}

	if path, err := p.writePlanFile(*saved); err != nil {
		p.logger.Warn("failed to write plan file",
			logging.Project(projectID), logging.Err(err))
	} else {
		res.PlanPath = path
	}

	participants := p.resolveStakeholders(data.Stakeholders)
	if len(participants) > 0 {
		res.Meeting = p.scheduleKickoff(projectID, participants)
	} else {
		p.logger.Info("no resolvable stakeholders, skipping kickoff meeting",
			logging.Project(projectID))
	}

	res.Tasks = p.generateTasks(ctx, *saved, participants)

	p.logger.Info("project plan created",
		logging.Operation("plan"),
		logging.Project(projectID),
		slog.Int("steps", len(saved.Steps)),
		slog.Int("tasks", len(res.Tasks)))
	return res, nil
}

// roleList returns the roster roles for the plan prompt, falling back to
// member names where no role is set.
func (p *Planner) roleList() []string {
	members := p.roster.Members()
	roles := make([]string, 0, len(members))
	for _, m := range members {
		if m.Role != "" {
			roles = append(roles, m.Role)
			continue
		}
		roles = append(roles, m.Name)
	}
	return roles
}

// resolveStakeholders maps the model's stakeholder strings onto roster
// members. Unresolvable entries are logged and skipped, duplicates
// collapse to the first match.
func (p *Planner) resolveStakeholders(stakeholders []string) []team.Member {
	var members []team.Member
	seen := make(map[string]bool)
	for _, s := range stakeholders {
		m, ok := p.roster.Resolve(s)
		if !ok {
			p.logger.Warn("no roster member for stakeholder", slog.String("stakeholder", s))
			continue
		}
		if seen[m.Name] {
			continue
		}
		seen[m.Name] = true
		members = append(members, m)
	}
	return members
}

// scheduleKickoff books the project kickoff for tomorrow and notifies
// every participant. Calendar failures are logged and the notifications
// skipped, since there is no meeting to announce.
func (p *Planner) scheduleKickoff(projectID string, participants []team.Member) *calendar.EventSummary {
	if p.cal == nil {
		p.logger.Info("calendar not configured, skipping kickoff meeting",
			logging.Project(projectID))
		return nil
	}

	description := fmt.Sprintf("Meeting for project '%s'", projectID)
	start := p.now().Add(24 * time.Hour)

	attendees := make([]string, 0, len(participants))
	for _, m := range participants {
		attendees = append(attendees, m.Email)
	}

	event, err := p.cal.CreateEvent(calendar.DefaultCalendarID, calendar.EventInput{
		Summary:   description,
		Start:     start,
		End:       start.Add(time.Hour),
		TimeZone:  "UTC",
		Attendees: attendees,
	})
	if err != nil {
		p.logger.Warn("failed to schedule kickoff meeting",
			logging.Project(projectID), logging.Err(err))
		return nil
	}

	notification := fmt.Sprintf("New meeting: '%s' scheduled by %s for %s",
		description, p.node, start.Format("2006-01-02 15:04"))
	for _, m := range participants {
		if m.Name == p.node {
			continue
		}
		if err := p.intercom.Send(p.node, m.Name, notification); err != nil {
			p.logger.Warn("kickoff notification skipped",
				slog.String("member", m.Name), logging.Err(err))
		}
	}
	return event
}

// taskArgs is the argument shape of the create_task function call.
type taskArgs struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	AssignedTo    string `json:"assigned_to"`
	DueDateOffset int    `json:"due_date_offset"`
	Priority      string `json:"priority"`
}

const stepPromptTemplate = `For project '%s', analyze this step and create appropriate tasks:

Step: %s

Available roles: %s

Create 1-3 specific tasks from this step. Each task should be assigned to the most appropriate role.`

// taskTool is the function schema the model fills in for each task.
func taskTool(roles []string) openai.Tool {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title": map[string]any{
				"type":        "string",
				"description": "Short title for the task",
			},
			"description": map[string]any{
				"type":        "string",
				"description": "Detailed description of what needs to be done",
			},
			"assigned_to": map[string]any{
				"type":        "string",
				"description": fmt.Sprintf("Role responsible for this task (%s)", strings.Join(roles, ", ")),
			},
			"due_date_offset": map[string]any{
				"type":        "integer",
				"description": "Days from now when the task is due",
			},
			"priority": map[string]any{
				"type":        "string",
				"enum":        []string{"high", "medium", "low"},
				"description": "Priority level of the task",
			},
		},
		"required": []string{"title", "description", "assigned_to", "due_date_offset", "priority"},
	}
	params, _ := json.Marshal(schema)
	return openai.Tool{
		Type: "function",
		Function: openai.ToolFunction{
			Name:        taskToolName,
			Description: "Create a task for a project step",
			Parameters:  params,
		},
	}
}

// generateTasks asks the model to break each plan step into tasks via a
// forced create_task call, stores them, notifies the assignees and books
// a reminder per task. Errors on one step never stop the others.
func (p *Planner) generateTasks(ctx context.Context, project tasks.Project, participants []team.Member) []tasks.Task {
	if len(project.Steps) == 0 {
		return nil
	}

	roles := make([]string, 0, len(participants))
	for _, m := range participants {
		roles = append(roles, m.Name)
	}
	if len(roles) == 0 {
		roles = p.roster.Names()
	}

	tool := taskTool(roles)
	var created []tasks.Task
	for i, step := range project.Steps {
		prompt := fmt.Sprintf(stepPromptTemplate, project.ID, step.Description, strings.Join(roles, ", "))

		resp, err := p.llm.Chat(ctx, openai.ChatRequest{
			Messages: []openai.Message{{Role: "user", Content: prompt}},
			Tools:    []openai.Tool{tool},
			ToolChoice: &openai.ToolChoice{
				Type:     "function",
				Function: openai.ToolChoiceFunction{Name: taskToolName},
			},
		})
		if err != nil {
			p.logger.Warn("failed to generate tasks for step",
				logging.Project(project.ID), slog.Int("step", i+1), logging.Err(err))
			continue
		}

		for _, choice := range resp.Choices {
			for _, call := range choice.Message.ToolCalls {
				if call.Function.Name != taskToolName {
					continue
				}
				var args taskArgs
				if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil {
					p.logger.Warn("invalid task arguments",
						logging.Project(project.ID), slog.Int("step", i+1), logging.Err(err))
					continue
				}

				task, err := p.store.Add(tasks.TaskInput{
					Title:       args.Title,
					Description: args.Description,
					DueDate:     p.now().AddDate(0, 0, args.DueDateOffset),
					AssignedTo:  args.AssignedTo,
					Priority:    tasks.ParsePriority(args.Priority),
					ProjectID:   project.ID,
				})
				if err != nil {
					p.logger.Warn("failed to store task",
						logging.Project(project.ID), logging.Err(err))
					continue
				}

				p.intercom.TaskAssigned(*task)
				p.createReminder(*task)
				created = append(created, *task)
			}
		}
	}
	return created
}

// createReminder books the due-date reminder for a task. Best effort.
func (p *Planner) createReminder(t tasks.Task) {
	if p.cal == nil {
		return
	}
	email := p.roster.ResolveEmail(t.AssignedTo)
	if _, err := p.cal.CreateTaskReminder(calendar.DefaultCalendarID, t, email); err != nil {
		p.logger.Warn("failed to create task reminder",
			slog.String("task", t.Title), logging.Err(err))
	}
}
