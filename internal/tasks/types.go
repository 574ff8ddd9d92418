package tasks

import (
	"fmt"
	"strings"
	"time"
)

// Priority indicates how urgent a task is.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// ParsePriority normalizes a priority string, defaulting to medium for
// anything it does not recognize.
func ParsePriority(s string) Priority {
	switch Priority(strings.ToLower(strings.TrimSpace(s))) {
	case PriorityHigh:
		return PriorityHigh
	case PriorityLow:
		return PriorityLow
	default:
		return PriorityMedium
	}
}

// Task is a single unit of work assigned to a team member.
type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	DueDate     time.Time `json:"due_date"`
	AssignedTo  string    `json:"assigned_to,omitempty"`
	Priority    Priority  `json:"priority"`
	ProjectID   string    `json:"project_id,omitempty"`
	Done        bool      `json:"done"`
	CreatedAt   time.Time `json:"created_at"`
}

// TaskInput represents the input for creating a task.
type TaskInput struct {
	Title       string
	Description string
	DueDate     time.Time
	AssignedTo  string
	Priority    Priority
	ProjectID   string
}

// PlanStep is one step of a project plan.
type PlanStep struct {
	Description string `json:"description"`
}

// Project is a planned project with its stakeholders and steps.
type Project struct {
	ID           string     `json:"id"`
	Objective    string     `json:"objective"`
	Stakeholders []string   `json:"stakeholders"`
	Steps        []PlanStep `json:"steps"`
	CostEstimate string     `json:"cost_estimate,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// Filter selects a subset of tasks. Zero value matches every open task.
type Filter struct {
	IncludeDone bool
	AssignedTo  string // exact member name, empty matches all
	ProjectID   string // empty matches all
}

func (f Filter) matches(t Task) bool {
	if t.Done && !f.IncludeDone {
		return false
	}
	if f.AssignedTo != "" && !strings.EqualFold(f.AssignedTo, t.AssignedTo) {
		return false
	}
	if f.ProjectID != "" && f.ProjectID != t.ProjectID {
		return false
	}
	return true
}

// FormatList renders tasks as a numbered list for chat and CLI output.
func FormatList(owner string, ts []Task) string {
	if len(ts) == 0 {
		return fmt.Sprintf("No tasks assigned to %s.", owner)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Tasks for %s:\n", owner)
	for i, t := range ts {
		due := "none"
		if !t.DueDate.IsZero() {
			due = t.DueDate.Format("2006-01-02")
		}
		fmt.Fprintf(&b, "%d. %s (Due: %s, Priority: %s)\n", i+1, t.Title, due, t.Priority)
		if t.Description != "" {
			fmt.Fprintf(&b, "   Description: %s\n", t.Description)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
