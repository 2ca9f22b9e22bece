package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/haldai/pkg/types"
)

func (a *app) newTaskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks",
	}

	var owner, status, column string
	list := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Long: `List tasks, optionally only those owned by one user.

Example:
  haldai task list
  haldai task list --owner me@example.com --status open
  haldai task list --column todo --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd, func(store types.Store) error {
				tasks, err := listTasks(cmd.Context(), store, owner, status, column)
				if err != nil {
					return classify(err)
				}
				if a.flags.jsonMode {
					return printJSON(cmd.OutOrStdout(), tasks)
				}
				printTasks(cmd, tasks)
				return nil
			})
		},
	}
	list.Flags().StringVar(&owner, "owner", "", "only tasks owned by this email")
	list.Flags().StringVar(&status, "status", "", "only tasks with this status")
	list.Flags().StringVar(&column, "column", "", "only tasks in this column")

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Show a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd, func(store types.Store) error {
				task, err := store.GetTask(cmd.Context(), args[0])
				if err != nil {
					return classify(err)
				}
				if task == nil {
					return userError(fmt.Errorf("task %q not found", args[0]))
				}
				if a.flags.jsonMode {
					return printJSON(cmd.OutOrStdout(), task)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "ID:      %s\n", task.ID)
				fmt.Fprintf(out, "Column:  %s\n", orDash(task.ColumnID))
				fmt.Fprintf(out, "Status:  %s\n", orDash(task.Status))
				fmt.Fprintf(out, "Owner:   %s\n", orDash(task.UserEmail))
				printFields(cmd, task.Fields)
				return nil
			})
		},
	}

	save := &cobra.Command{
		Use:   "save <json>",
		Short: "Create or replace a task",
		Long: `Save upserts a task given as a JSON object. A task without an id gets a
new UUID v7. When a user is signed in, user_email is set to that user.

Example:
  haldai task save '{"column_id":"todo","status":"open","title":"Buy milk"}'
  haldai --user me@example.com task save '{"id":"t1","status":"done"}'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var task types.Task
			if err := json.Unmarshal([]byte(args[0]), &task); err != nil {
				return userError(fmt.Errorf("parse task JSON: %w", err))
			}
			if err := checkInputID(task.Fields); err != nil {
				return err
			}
			if task.ID == "" {
				task.ID = newID()
			}
			return a.withStore(cmd, func(store types.Store) error {
				if _, err := store.SaveTask(cmd.Context(), &task); err != nil {
					return classify(err)
				}
				if a.flags.jsonMode {
					return printJSON(cmd.OutOrStdout(), task)
				}
				printDone(cmd.OutOrStdout(), "Saved task %s", task.ID)
				return nil
			})
		},
	}

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd, func(store types.Store) error {
				if err := store.DeleteTask(cmd.Context(), args[0]); err != nil {
					return classify(err)
				}
				return printDeleted(a, cmd, "task", args[0])
			})
		},
	}

	cmd.AddCommand(list, get, save, del)
	return cmd
}

// listTasks reads tasks through the narrowest index: user_email when
// owner is set, else status or column_id. Remaining filters are applied to
// the result.
func listTasks(ctx context.Context, store types.Store, owner, status, column string) ([]*types.Task, error) {
	var index, value string
	switch {
	case owner != "":
		tasks, err := store.GetTasks(ctx, owner)
		if err != nil {
			return nil, err
		}
		return filterTasks(tasks, status, column), nil
	case status != "":
		index, value = types.FieldStatus, status
	case column != "":
		index, value = types.FieldColumnID, column
	default:
		return store.GetTasks(ctx, "")
	}

	recs, err := store.GetAllByIndex(ctx, types.TasksCollection, index, value)
	if err != nil {
		return nil, err
	}
	tasks := make([]*types.Task, 0, len(recs))
	for _, rec := range recs {
		data, err := json.Marshal(rec)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", types.ErrInvalidRecord, err)
		}
		task := new(types.Task)
		if err := json.Unmarshal(data, task); err != nil {
			return nil, fmt.Errorf("%w: %w", types.ErrInvalidRecord, err)
		}
		tasks = append(tasks, task)
	}
	return filterTasks(tasks, status, column), nil
}

// filterTasks keeps tasks matching status and column; empty values match
// everything.
func filterTasks(tasks []*types.Task, status, column string) []*types.Task {
	if status == "" && column == "" {
		return tasks
	}
	out := make([]*types.Task, 0, len(tasks))
	for _, t := range tasks {
		if status != "" && t.Status != status {
			continue
		}
		if column != "" && t.ColumnID != column {
			continue
		}
		out = append(out, t)
	}
	return out
}

func printTasks(cmd *cobra.Command, tasks []*types.Task) {
	out := cmd.OutOrStdout()
	if len(tasks) == 0 {
		fmt.Fprintln(out, "No tasks found.")
		return
	}
	rows := make([][]string, len(tasks))
	for i, t := range tasks {
		rows[i] = []string{t.ID, orDash(t.ColumnID), orDash(t.Status), orDash(t.UserEmail), title(t.Fields)}
	}
	printTable(out, []string{"ID", "COLUMN", "STATUS", "OWNER", "TITLE"}, rows)
	fmt.Fprintf(out, "Total: %d task(s)\n", len(tasks))
}

// printFields prints extra record fields in key order.
func printFields(cmd *cobra.Command, fields map[string]any) {
	if len(fields) == 0 {
		return
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Fields:")
	for _, k := range sortedKeys(fields) {
		fmt.Fprintf(out, "  %s: %v\n", k, fields[k])
	}
}

// printDeleted reports a deletion in the selected output mode.
func printDeleted(a *app, cmd *cobra.Command, kind, id string) error {
	if a.flags.jsonMode {
		return printJSON(cmd.OutOrStdout(), map[string]string{
			"deleted": id,
			"status":  "success",
		})
	}
	printDone(cmd.OutOrStdout(), "Deleted %s %s", kind, id)
	return nil
}
