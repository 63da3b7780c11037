package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/albert-client/pkg/albert"
)

var projectTable = table[albert.ProjectSearchItem]{
	headers: []string{"ID", "Description", "State", "Status"},
	row: func(project albert.ProjectSearchItem) []string {
		return []string{project.ID, project.Description, orNA(project.State), orNA(string(project.Status))}
	},
}

// NewProjectsCommand creates the projects command group.
func NewProjectsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "projects",
		Aliases: []string{"project"},
		Short:   "Search and inspect projects",
	}

	cmd.AddCommand(newProjectsSearchCommand())
	cmd.AddCommand(newProjectsGetCommand())

	return cmd
}

func newProjectsSearchCommand() *cobra.Command {
	var flags searchFlags

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			params, err := flags.params()
			if err != nil {
				return err
			}

			apiClient, err := createClient(ctx)
			if err != nil {
				return err
			}
			defer apiClient.Close()

			it, err := apiClient.Projects().Search(ctx, params)
			if err != nil {
				return fmt.Errorf("failed to search projects: %w", err)
			}

			projects, err := it.All()
			if err != nil {
				return fmt.Errorf("failed to search projects: %w", err)
			}

			return projectTable.render(stdout, projects)
		},
	}

	flags.register(cmd, true)

	return cmd
}

func newProjectsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get ID",
		Short: "Get a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			apiClient, err := createClient(ctx)
			if err != nil {
				return err
			}
			defer apiClient.Close()

			project, err := apiClient.Projects().Get(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to get project: %w", err)
			}

			return renderOne(stdout, project)
		},
	}
}
