package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/haldai/pkg/types"
)

func (a *app) newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize haldai storage",
		Long: `Create the configuration directory with a default config.yaml, then open
the store so the collections and indexes exist.`,
		Args: cobra.NoArgs,
		RunE: a.runInit,
	}
}

func (a *app) runInit(cmd *cobra.Command, args []string) error {
	configDir, err := a.configDir()
	if err != nil {
		return sysError(err)
	}
	dataDir, err := a.dataDir()
	if err != nil {
		return sysError(err)
	}

	// A bad --user must not reach config.yaml.
	if a.flags.user != "" {
		if err := (types.User{Email: a.flags.user}).Validate(); err != nil {
			return userError(fmt.Errorf("%w: %q", err, a.flags.user))
		}
	}

	// An explicit --data-dir is recorded in the new config.yaml.
	var recordedDataDir string
	if a.flags.dataDir != "" {
		recordedDataDir = dataDir
	}
	written, err := writeConfigIfMissing(configDir, recordedDataDir, a.flags.user)
	if err != nil {
		return sysError(err)
	}

	err = a.withStore(cmd, func(store types.Store) error { return nil })
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if a.flags.jsonMode {
		return printJSON(out, map[string]any{
			"config_dir":     configDir,
			"data_dir":       dataDir,
			"config_written": written,
			"schema_version": types.SchemaVersion,
		})
	}
	printDone(out, "haldai initialized")
	fmt.Fprintln(out, "  config:", configDir)
	fmt.Fprintln(out, "  data:  ", dataDir)
	return nil
}
