package cli

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/haldai/pkg/types"
)

func (a *app) newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <dir>",
		Short: "Write every collection to JSONL files",
		Long: `Export writes one <collection>.jsonl file per collection into dir,
creating dir if needed. Existing files are replaced atomically.

Example:
  haldai export ./backup`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd, func(store types.Store) error {
				if err := store.Export(cmd.Context(), args[0]); err != nil {
					return classify(err)
				}
				if a.flags.jsonMode {
					return printJSON(cmd.OutOrStdout(), map[string]string{
						"exported": args[0],
						"status":   "success",
					})
				}
				printDone(cmd.OutOrStdout(), "Exported %s to %s", validCollectionsStr, args[0])
				return nil
			})
		},
	}
}

func (a *app) newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <dir>",
		Short: "Upsert records from JSONL files",
		Long: `Import reads <collection>.jsonl files from dir and upserts every record.
Missing files are skipped, as are lines that are not JSON objects with an id.

Example:
  haldai import ./backup`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd, func(store types.Store) error {
				n, err := store.Import(cmd.Context(), args[0])
				if err != nil {
					return classify(err)
				}
				if a.flags.jsonMode {
					return printJSON(cmd.OutOrStdout(), map[string]any{
						"imported": n,
						"status":   "success",
					})
				}
				printDone(cmd.OutOrStdout(), "Imported %d record(s) from %s", n, args[0])
				return nil
			})
		},
	}
}
