package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/haldai/pkg/types"
)

// checkCollection rejects names that are not collections before the store
// is opened.
func checkCollection(name string) error {
	if _, err := types.LookupCollection(name); err != nil {
		return userError(fmt.Errorf("%w: %q (valid: %s)", err, name, validCollectionsStr))
	}
	return nil
}

func (a *app) newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <collection> <id>",
		Short: "Show one record from any collection",
		Long: `Get prints the stored JSON document for id.

Valid collections: ` + validCollectionsStr + `

Example:
  haldai get tasks 0192d3a4-...`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkCollection(args[0]); err != nil {
				return err
			}
			return a.withStore(cmd, func(store types.Store) error {
				rec, err := store.Get(cmd.Context(), args[0], args[1])
				if err != nil {
					return classify(err)
				}
				if rec == nil {
					return userError(fmt.Errorf("%s %q not found", args[0], args[1]))
				}
				return printJSON(cmd.OutOrStdout(), rec)
			})
		},
	}
}

func (a *app) newListCmd() *cobra.Command {
	var index, value string
	cmd := &cobra.Command{
		Use:   "list <collection>",
		Short: "List records in any collection",
		Long: `List prints every record in the collection as a JSON array, ordered by id.
With --index and --value only records whose indexed field equals value are
listed.

Valid collections: ` + validCollectionsStr + `

Example:
  haldai list notebooks
  haldai list tasks --index status --value open`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkCollection(args[0]); err != nil {
				return err
			}
			if index == "" && value != "" {
				return userError(errors.New("--value requires --index"))
			}
			return a.withStore(cmd, func(store types.Store) error {
				var (
					recs []types.Record
					err  error
				)
				if index != "" {
					recs, err = store.GetAllByIndex(cmd.Context(), args[0], index, value)
				} else {
					recs, err = store.GetAll(cmd.Context(), args[0])
				}
				if err != nil {
					return classify(err)
				}
				return printJSON(cmd.OutOrStdout(), recs)
			})
		},
	}
	cmd.Flags().StringVar(&index, "index", "", "indexed field to filter on")
	cmd.Flags().StringVar(&value, "value", "", "value the indexed field must equal")
	return cmd
}

func (a *app) newSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <collection> <json>",
		Short: "Create or replace a record in any collection",
		Long: `Set upserts a JSON object into the collection and prints the record as
written. An object without an id gets a new UUID v7. Unlike "task save" and
"notebook save", set does not stamp user_email.

Valid collections: ` + validCollectionsStr + `

Example:
  haldai set tasks '{"id":"t1","status":"open"}'`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkCollection(args[0]); err != nil {
				return err
			}
			rec, err := types.DecodeRecord([]byte(args[1]))
			if err != nil {
				return userError(err)
			}
			if _, ok := rec[types.FieldID]; !ok {
				rec[types.FieldID] = newID()
			}
			return a.withStore(cmd, func(store types.Store) error {
				saved, err := store.Add(cmd.Context(), args[0], rec)
				if err != nil {
					return classify(err)
				}
				return printJSON(cmd.OutOrStdout(), saved)
			})
		},
	}
}

func (a *app) newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <collection> <id>",
		Short: "Delete a record from any collection",
		Long: `Delete removes the record with the given id. Deleting an id that does not
exist succeeds.

Valid collections: ` + validCollectionsStr,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkCollection(args[0]); err != nil {
				return err
			}
			return a.withStore(cmd, func(store types.Store) error {
				if err := store.Delete(cmd.Context(), args[0], args[1]); err != nil {
					return classify(err)
				}
				return printDeleted(a, cmd, args[0], args[1])
			})
		},
	}
}
