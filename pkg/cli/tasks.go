package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"tasklist/pkg/commands"
	"tasklist/pkg/database"
	"tasklist/pkg/store"
)

func newAddCmd() *cobra.Command {
	var description, priority, due string

	cmd := &cobra.Command{
		Use:   "add TITLE...",
		Short: "Add a new task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.Join(args, " ")
			return commands.HandleAddTask(cmd.Context(), app.Store, cmd.OutOrStdout(), title, description, priority, due)
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "Task description")
	cmd.Flags().StringVarP(&priority, "priority", "p", "Medium", "Priority (High, Medium, Low)")
	cmd.Flags().StringVar(&due, "due", "", "Due date (YYYY-MM-DD)")
	return cmd
}

func newListCmd() *cobra.Command {
	var done, undone bool
	var output string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks in display order",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := store.AllTasksFilter
			if done {
				filter = store.DoneTasksFilter
			} else if undone {
				filter = store.UndoneTasksFilter
			}
			tasks := store.FilterTasks(app.Store.Tasks(), filter)
			return printTasks(cmd.OutOrStdout(), tasks, output)
		},
	}

	cmd.Flags().BoolVar(&done, "done", false, "Show only completed tasks")
	cmd.Flags().BoolVar(&undone, "undone", false, "Show only pending tasks")
	cmd.Flags().StringVarP(&output, "output", "o", "table", "Output format (table, json, yaml)")
	cmd.MarkFlagsMutuallyExclusive("done", "undone")
	return cmd
}

func newDoneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "done ID",
		Short: "Toggle completion of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveID(app.Store, args[0])
			if err != nil {
				return err
			}
			if err := app.Store.ToggleCompletion(cmd.Context(), id); err != nil {
				return err
			}
			t, _ := app.Store.Get(id)
			state := "pending"
			if t.IsCompleted {
				state = "completed"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Task %s is now %s\n", id, state)
			return nil
		},
	}
}

func newEditCmd() *cobra.Command {
	var title, description, priority, due string
	var clearDue bool

	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Edit the fields of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveID(app.Store, args[0])
			if err != nil {
				return err
			}
			task, _ := app.Store.Get(id)

			flags := cmd.Flags()
			if flags.Changed("title") {
				task.Title = title
			}
			if flags.Changed("description") {
				task.Description = description
			}
			if flags.Changed("priority") {
				if task.Priority, err = database.ParsePriority(priority); err != nil {
					return err
				}
			}
			if flags.Changed("due") {
				if task.DueDate, err = commands.ParseDate(due); err != nil {
					return err
				}
			}
			if clearDue {
				task.DueDate = nil
			}

			if err := app.Store.Update(cmd.Context(), task); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated task %s\n", id)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVarP(&description, "description", "d", "", "New description")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "New priority (High, Medium, Low)")
	cmd.Flags().StringVar(&due, "due", "", "New due date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&clearDue, "clear-due", false, "Remove the due date")
	cmd.MarkFlagsMutuallyExclusive("due", "clear-due")
	return cmd
}

func newRemoveCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveID(app.Store, args[0])
			if err != nil {
				return err
			}
			t, _ := app.Store.Get(id)
			if !yes && !commands.Confirm(cmd.InOrStdin(), cmd.OutOrStdout(), fmt.Sprintf("Delete %q?", t.Title)) {
				fmt.Fprintln(cmd.OutOrStdout(), "Operation cancelled.")
				return nil
			}
			if err := app.Store.Remove(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %s\n", id)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation")
	return cmd
}

func newExportCmd() *cobra.Command {
	var exportType string

	cmd := &cobra.Command{
		Use:   "export FILE",
		Short: "Export tasks to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return commands.HandleExportCommand(app.Store.Tasks(), cmd.OutOrStdout(), args[0], exportType)
		},
	}

	cmd.Flags().StringVarP(&exportType, "type", "t", "json", "Export file type (json, yaml, txt)")
	return cmd
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Import tasks from a json, yaml or txt export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return commands.HandleImportCommand(cmd.Context(), app.Store, cmd.OutOrStdout(), args[0])
		},
	}
}

func newPurgeCmd() *cobra.Command {
	var done, yes bool

	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete all tasks, or all completed tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return commands.HandlePurgeCommand(cmd.Context(), app.Store, cmd.InOrStdin(), cmd.OutOrStdout(), done, yes)
		},
	}

	cmd.Flags().BoolVar(&done, "done", false, "Only delete completed tasks")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation")
	return cmd
}

// resolveID accepts a full id or an unambiguous prefix of one
func resolveID(s *store.Store, prefix string) (string, error) {
	if prefix == "" {
		return "", fmt.Errorf("no task with id %q", prefix)
	}
	if _, ok := s.Get(prefix); ok {
		return prefix, nil
	}
	var found []string
	for _, t := range s.Tasks() {
		if strings.HasPrefix(t.ID, prefix) {
			found = append(found, t.ID)
		}
	}
	switch len(found) {
	case 0:
		return "", fmt.Errorf("no task with id %q", prefix)
	case 1:
		return found[0], nil
	}
	return "", fmt.Errorf("id %q is ambiguous (%d matches)", prefix, len(found))
}

func printTasks(w io.Writer, tasks []database.Task, output string) error {
	switch output {
	case "json":
		if tasks == nil {
			tasks = []database.Task{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(tasks)
	case "yaml":
		if tasks == nil {
			tasks = []database.Task{}
		}
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(tasks)
	case "table":
	default:
		return fmt.Errorf("unknown output format: %s", output)
	}

	if len(tasks) == 0 {
		fmt.Fprintln(w, "No tasks yet.")
		return nil
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "", "PRIORITY", "TITLE", "DUE")
	for _, task := range tasks {
		status := "[ ]"
		if task.IsCompleted {
			status = "[x]"
		}
		due := ""
		if task.HasDueDate() {
			due = task.DueDate.Local().Format(commands.DateLayout)
		}
		t.Row(shortID(task.ID), status, task.Priority.String(), task.Title, due)
	}
	fmt.Fprintln(w, t.Render())
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
