package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/cadence/internal/cli/formatter"
	"github.com/alexanderramin/cadence/internal/contract"
	"github.com/alexanderramin/cadence/internal/domain"
)

func newTaskCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "List and update committed sprint tasks",
	}

	cmd.AddCommand(
		newTaskListCmd(a),
		newTaskStatusCmd(a, "start", "Mark a task in progress", domain.TaskInProgress),
		newTaskStatusCmd(a, "done", "Mark a task completed", domain.TaskCompleted),
		newTaskStatusCmd(a, "block", "Mark a task blocked", domain.TaskBlocked),
		newTaskStatusCmd(a, "reopen", "Move a task back to todo", domain.TaskTodo),
	)

	return cmd
}

func newTaskListCmd(a *App) *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List open tasks, or every task of one project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			now, err := a.now()
			if err != nil {
				return err
			}

			var tasks []domain.SprintTask
			if project != "" {
				id, err := resolveProjectID(ctx, a, project)
				if err != nil {
					return err
				}
				ptrs, err := a.Tasks.ListByProject(ctx, id)
				if err != nil {
					return err
				}
				tasks = derefTasks(ptrs)
			} else if tasks, err = a.Tasks.ListActive(ctx, a.userID()); err != nil {
				return err
			}

			return a.render(cmd, contract.FromTasks(tasks), func() string {
				if len(tasks) == 0 {
					return "No tasks found."
				}
				return formatter.FormatTasks(tasks, now)
			})
		},
	}

	cmd.Flags().StringVarP(&project, "project", "p", "", "project ID or prefix")

	return cmd
}

func newTaskStatusCmd(a *App, use, short string, status domain.TaskStatus) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <task>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveTaskID(ctx, a, args[0])
			if err != nil {
				return err
			}
			if err := a.Tasks.SetStatus(ctx, id, status); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Task %s is now %s\n", formatter.TruncID(id), status)
			return nil
		},
	}
}

// resolveTaskID matches input against the user's open tasks by ID prefix.
// Completed tasks are only reachable by full ID.
func resolveTaskID(ctx context.Context, a *App, input string) (string, error) {
	tasks, err := a.Tasks.ListActive(ctx, a.userID())
	if err != nil {
		return "", err
	}

	var matches []string
	for _, t := range tasks {
		if t.ID == input {
			return t.ID, nil
		}
		if strings.HasPrefix(t.ID, input) {
			matches = append(matches, t.ID)
		}
	}

	switch len(matches) {
	case 0:
		if len(input) == 36 {
			return input, nil
		}
		return "", fmt.Errorf("task not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("task ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}
