package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/haldai/pkg/types"
)

func (a *app) newNotebookCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "notebook",
		Aliases: []string{"nb"},
		Short:   "Manage notebooks",
	}

	var owner string
	list := &cobra.Command{
		Use:   "list",
		Short: "List notebooks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd, func(store types.Store) error {
				notes, err := store.GetNotebooks(cmd.Context(), owner)
				if err != nil {
					return classify(err)
				}
				if a.flags.jsonMode {
					return printJSON(cmd.OutOrStdout(), notes)
				}
				printNotebooks(cmd, notes)
				return nil
			})
		},
	}
	list.Flags().StringVar(&owner, "owner", "", "only notebooks owned by this email")

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Show a notebook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd, func(store types.Store) error {
				note, err := store.GetNotebook(cmd.Context(), args[0])
				if err != nil {
					return classify(err)
				}
				if note == nil {
					return userError(fmt.Errorf("notebook %q not found", args[0]))
				}
				if a.flags.jsonMode {
					return printJSON(cmd.OutOrStdout(), note)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "ID:       %s\n", note.ID)
				fmt.Fprintf(out, "Created:  %s\n", formatCreated(note.CreatedAt))
				fmt.Fprintf(out, "Owner:    %s\n", orDash(note.UserEmail))
				printFields(cmd, note.Fields)
				return nil
			})
		},
	}

	save := &cobra.Command{
		Use:   "save <json>",
		Short: "Create or replace a notebook",
		Long: `Save upserts a notebook given as a JSON object. A notebook without an id
gets a new UUID v7 and one without created_at is stamped with the current
time. When a user is signed in, user_email is set to that user.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var note types.Notebook
			if err := json.Unmarshal([]byte(args[0]), &note); err != nil {
				return userError(fmt.Errorf("parse notebook JSON: %w", err))
			}
			if err := checkInputID(note.Fields); err != nil {
				return err
			}
			if note.ID == "" {
				note.ID = newID()
			}
			if note.CreatedAt.IsZero() {
				note.CreatedAt = time.Now().UTC()
			}
			return a.withStore(cmd, func(store types.Store) error {
				if _, err := store.SaveNotebook(cmd.Context(), &note); err != nil {
					return classify(err)
				}
				if a.flags.jsonMode {
					return printJSON(cmd.OutOrStdout(), note)
				}
				printDone(cmd.OutOrStdout(), "Saved notebook %s", note.ID)
				return nil
			})
		},
	}

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a notebook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd, func(store types.Store) error {
				if err := store.DeleteNotebook(cmd.Context(), args[0]); err != nil {
					return classify(err)
				}
				return printDeleted(a, cmd, "notebook", args[0])
			})
		},
	}

	cmd.AddCommand(list, get, save, del)
	return cmd
}

func printNotebooks(cmd *cobra.Command, notes []*types.Notebook) {
	out := cmd.OutOrStdout()
	if len(notes) == 0 {
		fmt.Fprintln(out, "No notebooks found.")
		return
	}
	rows := make([][]string, len(notes))
	for i, n := range notes {
		rows[i] = []string{n.ID, formatCreated(n.CreatedAt), orDash(n.UserEmail), title(n.Fields)}
	}
	printTable(out, []string{"ID", "CREATED", "OWNER", "TITLE"}, rows)
	fmt.Fprintf(out, "Total: %d notebook(s)\n", len(notes))
}

func formatCreated(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}
