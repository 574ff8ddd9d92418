package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vikas-kashyap97/Jarvis-AI/internal/config"
	"github.com/vikas-kashyap97/Jarvis-AI/internal/server"
	"github.com/vikas-kashyap97/Jarvis-AI/internal/tasks"
)

func newTasksCmd() *cobra.Command {
	var (
		all     bool
		member  string
		project string
	)

	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List and manage tasks",
		Long: `List tasks from the local store. Subcommands add tasks, mark them
done and assign them to team members. Assignments notify the member
through the intercom when their email is on the roster.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTasksList(all, member, project)
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Include completed tasks")
	cmd.Flags().StringVar(&member, "member", "", "Only show tasks assigned to this team member")
	cmd.Flags().StringVar(&project, "project", "", "Only show tasks belonging to this project")

	cmd.AddCommand(newTasksAddCmd())
	cmd.AddCommand(newTasksDoneCmd())
	cmd.AddCommand(newTasksAssignCmd())

	return cmd
}

func newTasksAddCmd() *cobra.Command {
	var (
		description string
		due         string
		assignee    string
		priority    string
		project     string
	)

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a task to the store",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTasksAdd(strings.Join(args, " "), description, due, assignee, priority, project)
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "Task description")
	cmd.Flags().StringVar(&due, "due", "", "Due date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&assignee, "assign", "", "Team member to assign the task to")
	cmd.Flags().StringVarP(&priority, "priority", "p", "medium", "Priority: high, medium or low")
	cmd.Flags().StringVar(&project, "project", "", "Project the task belongs to")

	return cmd
}

func newTasksDoneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>...",
		Short: "Mark one or more tasks as done",
		Long: `Mark tasks as done by ID. A unique ID prefix of at least 4 characters
is accepted.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTasksDone(args)
		},
	}
}

func newTasksAssignCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "assign <id> <member>",
		Short: "Assign a task to a team member",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTasksAssign(args[0], args[1])
		},
	}
}

// newTasksServerContext is the shared setup for the tasks subcommands.
func newTasksServerContext(ctx context.Context) (*server.ServerContext, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return newCLIServerContext(ctx, cfg)
}

func runTasksList(all bool, member, project string) error {
	ctx := context.Background()
	sc, err := newTasksServerContext(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = sc.Shutdown() }()

	list := sc.TaskStore().List(tasks.Filter{
		IncludeDone: all,
		AssignedTo:  strings.TrimSpace(member),
		ProjectID:   strings.TrimSpace(project),
	})
	fmt.Println(renderTaskList(list))
	return nil
}

func renderTaskList(list []tasks.Task) string {
	if len(list) == 0 {
		return "No tasks found."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d task(s):\n", len(list))
	for i, t := range list {
		fmt.Fprintf(&b, "\n%d. %s [%s]\n", i+1, t.Title, t.Priority)
		fmt.Fprintf(&b, "   ID: %s\n", t.ID)
		if !t.DueDate.IsZero() {
			fmt.Fprintf(&b, "   Due: %s\n", t.DueDate.Format("2006-01-02"))
		}
		if t.AssignedTo != "" {
			fmt.Fprintf(&b, "   Assigned to: %s\n", t.AssignedTo)
		}
		if t.ProjectID != "" {
			fmt.Fprintf(&b, "   Project: %s\n", t.ProjectID)
		}
		if t.Description != "" {
			fmt.Fprintf(&b, "   Description: %s\n", t.Description)
		}
		if t.Done {
			b.WriteString("   Status: done\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func runTasksAdd(title, description, due, assignee, priority, project string) error {
	ctx := context.Background()
	sc, err := newTasksServerContext(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = sc.Shutdown() }()

	input := tasks.TaskInput{
		Title:       title,
		Description: description,
		AssignedTo:  strings.ToLower(strings.TrimSpace(assignee)),
		Priority:    tasks.ParsePriority(priority),
		ProjectID:   strings.TrimSpace(project),
	}
	if due != "" {
		d, err := time.Parse("2006-01-02", due)
		if err != nil {
			return fmt.Errorf("invalid --due date %q: use YYYY-MM-DD", due)
		}
		input.DueDate = d
	}

	task, err := sc.TaskStore().Add(input)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	// Best effort: the intercom skips assignees it does not know.
	sc.Intercom().TaskAssigned(*task)

	fmt.Printf("Task '%s' created (ID: %s)\n", task.Title, task.ID)
	return nil
}

func runTasksDone(ids []string) error {
	ctx := context.Background()
	sc, err := newTasksServerContext(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = sc.Shutdown() }()

	store := sc.TaskStore()
	for _, id := range ids {
		task, err := store.Complete(id)
		if err != nil {
			return fmt.Errorf("failed to complete task %s: %w", id, err)
		}
		fmt.Printf("Task '%s' marked as done\n", task.Title)
	}
	return nil
}

func runTasksAssign(id, member string) error {
	ctx := context.Background()
	sc, err := newTasksServerContext(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = sc.Shutdown() }()

	task, err := sc.TaskStore().Assign(id, strings.ToLower(strings.TrimSpace(member)))
	if err != nil {
		return fmt.Errorf("failed to assign task: %w", err)
	}

	sc.Intercom().TaskAssigned(*task)

	fmt.Printf("Task '%s' assigned to %s\n", task.Title, task.AssignedTo)
	return nil
}
