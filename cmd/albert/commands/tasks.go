package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/albert-client/pkg/albert"
)

var taskTable = table[albert.TaskSearchItem]{
	headers: []string{"ID", "Name", "Category", "Priority", "State", "Due"},
	row: func(task albert.TaskSearchItem) []string {
		return []string{
			task.ID,
			task.Name,
			string(task.Category),
			orNA(string(task.Priority)),
			orNA(task.State),
			orNA(task.DueDate),
		}
	},
}

// NewTasksCommand creates the tasks command group.
func NewTasksCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tasks",
		Aliases: []string{"task"},
		Short:   "Search and inspect tasks",
	}

	cmd.AddCommand(newTasksSearchCommand())
	cmd.AddCommand(newTasksGetCommand())

	return cmd
}

func newTasksSearchCommand() *cobra.Command {
	var (
		flags   searchFlags
		project string
	)

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			var defaults []albert.Filter
			if project != "" {
				defaults = append(defaults, albert.F("projectId", project))
			}

			params, err := flags.params(defaults...)
			if err != nil {
				return err
			}

			apiClient, err := createClient(ctx)
			if err != nil {
				return err
			}
			defer apiClient.Close()

			it, err := apiClient.Tasks().Search(ctx, params)
			if err != nil {
				return fmt.Errorf("failed to search tasks: %w", err)
			}

			tasks, err := it.All()
			if err != nil {
				return fmt.Errorf("failed to search tasks: %w", err)
			}

			return taskTable.render(stdout, tasks)
		},
	}

	flags.register(cmd, true)
	cmd.Flags().StringVar(&project, "project", "", "only tasks of this project")

	return cmd
}

func newTasksGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get ID",
		Short: "Get a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			apiClient, err := createClient(ctx)
			if err != nil {
				return err
			}
			defer apiClient.Close()

			task, err := apiClient.Tasks().Get(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to get task: %w", err)
			}

			return renderOne(stdout, task)
		},
	}
}
